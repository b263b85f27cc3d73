package announce

import (
	"fmt"
	"strings"

	"intranet/internal/domain/auth"
)

func validVisibility(v string) bool {
	switch v {
	case VisibilityFunctionaries, VisibilitySupervisors, VisibilityBoth, VisibilityDirection:
		return true
	}
	return false
}

func ValidateCreate(input CreateInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if strings.TrimSpace(input.Content) == "" {
		return fmt.Errorf("%w: content is required", ErrValidation)
	}
	if input.Priority < 1 || input.Priority > 5 {
		return fmt.Errorf("%w: priority must be between 1 and 5", ErrValidation)
	}
	if !validVisibility(input.Visibility) {
		return fmt.Errorf("%w: unknown visibility %q", ErrValidation, input.Visibility)
	}
	if !input.AllAreas && len(input.AreaIDs) == 0 {
		return fmt.Errorf("%w: target areas required unless all areas", ErrValidation)
	}
	return nil
}

// VisibleTo applies the role and area matrix. Direction levels see
// everything; below that the role target must include the reader's level and
// the area targeting must cover their area.
func VisibleTo(a Announcement, level int, areaID string) bool {
	if level >= auth.LevelSubDirection {
		return true
	}

	switch a.Visibility {
	case VisibilityBoth:
	case VisibilityFunctionaries:
		if level != auth.LevelFunctionary {
			return false
		}
	case VisibilitySupervisors:
		if level != auth.LevelSupervisor {
			return false
		}
	default:
		return false
	}

	if a.AllAreas {
		return true
	}
	for _, id := range a.AreaIDs {
		if id == areaID {
			return true
		}
	}
	return false
}
