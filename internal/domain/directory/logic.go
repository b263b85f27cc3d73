package directory

import (
	"regexp"
	"strings"

	"intranet/internal/domain/auth"
)

// Chilean national ID, dotted thousands with a dash before the check digit.
var rutPattern = regexp.MustCompile(`^\d{1,2}\.\d{3}\.\d{3}-[\dkK]$`)

func ValidRUT(rut string) bool {
	return rutPattern.MatchString(strings.TrimSpace(rut))
}

// CanApproveFor reports whether an approver may act on requests submitted by
// an employee of the given area. Direction and Sub-direction approve across
// areas; a Supervisor only inside their own area.
func CanApproveFor(approver Employee, submitterAreaID string) bool {
	switch {
	case approver.RoleLevel >= auth.LevelSubDirection:
		return true
	case approver.RoleLevel == auth.LevelSupervisor:
		return approver.AreaID == submitterAreaID
	default:
		return false
	}
}
