package dto

type ResetPasswordInput struct {
	Email string `json:"email" validate:"required,email"`
}

type ConfirmResetPasswordInput struct {
	UIDB64      string `json:"uidb64" validate:"required"`
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

type DeleteAccountInput struct {
	Password string `json:"password" validate:"required"`
}
