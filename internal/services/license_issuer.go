package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// LicenseIssuer produces the opaque, human-shareable license string attached
// to a grant. Uniqueness per call comes from the embedded uuid token; the
// settlement guard keeps it at one grant per (user, game).
type LicenseIssuer interface {
	Issue(userID, gameID uint64) string
}

type licenseIssuer struct{}

func NewLicenseIssuer() LicenseIssuer {
	return licenseIssuer{}
}

func (licenseIssuer) Issue(userID, gameID uint64) string {
	token := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("GS-%d-%d-%s", gameID, userID, token[:20])
}
