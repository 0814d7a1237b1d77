// Package device derives a browser/OS descriptor from a User-Agent header.
package device

import (
	ua "github.com/mileusna/useragent"

	"github.com/marcingarbarczyk/membership-service/internal/membership/domain"
)

// Parse extracts OS and browser family/version from the given User-Agent
// string. Unknown agents yield empty families rather than an error; the
// descriptor is informational enrichment on a login attempt.
func Parse(userAgent string) domain.DeviceInfo {
	parsed := ua.Parse(userAgent)

	return domain.DeviceInfo{
		OS: domain.DeviceFamily{
			Family:  parsed.OS,
			Version: parsed.OSVersion,
		},
		Browser: domain.DeviceFamily{
			Family:  parsed.Name,
			Version: parsed.Version,
		},
	}
}
