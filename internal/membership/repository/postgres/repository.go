package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/marcingarbarczyk/membership-service/internal/membership/domain"
)

// DB is the querying surface the repository needs; satisfied by *pgxpool.Pool
// and by pgxmock in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresRepository struct {
	db DB
}

func NewPostgresRepository(db DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, email, first_name, last_name, password_hash,
		is_active, activation_date, deactivation_date, created_at, updated_at`

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1
		LIMIT 1;
	`
	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
		LIMIT 1;
	`
	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *PostgresRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.PasswordHash,
		&user.IsActive, &user.ActivationDate, &user.DeactivationDate,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, email, first_name, last_name, password_hash,
			is_active, activation_date, deactivation_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, user.ID, user.Email, user.FirstName, user.LastName, user.PasswordHash,
		user.IsActive, user.ActivationDate, user.DeactivationDate,
		user.CreatedAt, user.UpdatedAt)

	return err
}

func (r *PostgresRepository) UpdateActivation(ctx context.Context, user *domain.User) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users
		SET is_active = $2, activation_date = $3, deactivation_date = $4, updated_at = $5
		WHERE id = $1
	`, user.ID, user.IsActive, user.ActivationDate, user.DeactivationDate, user.UpdatedAt)

	return err
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, userID, passwordHash string, updatedAt time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users
		SET password_hash = $2, updated_at = $3
		WHERE id = $1
	`, userID, passwordHash, updatedAt)

	return err
}

func (r *PostgresRepository) Delete(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	return err
}

func (r *PostgresRepository) CountRecentFailedAttempts(ctx context.Context, ip string, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM login_attempts
		WHERE ip = $1 AND successful = FALSE AND attempted_at >= $2
	`
	var count int
	err := r.db.QueryRow(ctx, query, ip, since).Scan(&count)
	return count, err
}

func (r *PostgresRepository) CreateLoginAttempt(ctx context.Context, attempt *domain.LoginAttempt) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO login_attempts (id, user_id, username, ip, browser,
			geolocation, attempted_at, successful, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, attempt.ID, attempt.UserID, attempt.Username, attempt.IP, attempt.Browser,
		attempt.Geolocation, attempt.AttemptedAt, attempt.Successful, attempt.CreatedAt)

	return err
}

// MarkLoginSucceeded flips the success flag and links the resolved user. The
// successful = FALSE predicate keeps the flip single-shot.
func (r *PostgresRepository) MarkLoginSucceeded(ctx context.Context, attemptID, userID string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE login_attempts
		SET successful = TRUE, user_id = $2
		WHERE id = $1 AND successful = FALSE
	`, attemptID, userID)

	return err
}
