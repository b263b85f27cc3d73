package announce

import (
	"errors"
	"testing"

	"intranet/internal/domain/auth"
)

func TestVisibleToRoleMatrix(t *testing.T) {
	cases := []struct {
		name       string
		visibility string
		level      int
		want       bool
	}{
		{"functionaries to functionary", VisibilityFunctionaries, auth.LevelFunctionary, true},
		{"functionaries to supervisor", VisibilityFunctionaries, auth.LevelSupervisor, false},
		{"supervisors to supervisor", VisibilitySupervisors, auth.LevelSupervisor, true},
		{"supervisors to functionary", VisibilitySupervisors, auth.LevelFunctionary, false},
		{"both to functionary", VisibilityBoth, auth.LevelFunctionary, true},
		{"both to supervisor", VisibilityBoth, auth.LevelSupervisor, true},
		{"direction only to functionary", VisibilityDirection, auth.LevelFunctionary, false},
		{"direction only to supervisor", VisibilityDirection, auth.LevelSupervisor, false},
		{"direction only to subdirection", VisibilityDirection, auth.LevelSubDirection, true},
		{"anything to direction", VisibilityFunctionaries, auth.LevelDirection, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := Announcement{Visibility: tc.visibility, AllAreas: true}
			if got := VisibleTo(a, tc.level, "area-1"); got != tc.want {
				t.Fatalf("VisibleTo = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestVisibleToAreaTargeting(t *testing.T) {
	a := Announcement{Visibility: VisibilityBoth, AreaIDs: []string{"area-1", "area-2"}}

	if !VisibleTo(a, auth.LevelFunctionary, "area-2") {
		t.Fatal("targeted area should see the announcement")
	}
	if VisibleTo(a, auth.LevelFunctionary, "area-3") {
		t.Fatal("untargeted area must not see the announcement")
	}
	// Direction levels ignore area targeting.
	if !VisibleTo(a, auth.LevelSubDirection, "area-3") {
		t.Fatal("subdirection sees everything")
	}
}

func TestValidateCreate(t *testing.T) {
	valid := CreateInput{Title: "t", Content: "c", Priority: 3, Visibility: VisibilityBoth, AllAreas: true}
	if err := ValidateCreate(valid); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}

	for name, mutate := range map[string]func(*CreateInput){
		"empty title":       func(in *CreateInput) { in.Title = " " },
		"empty content":     func(in *CreateInput) { in.Content = "" },
		"priority too low":  func(in *CreateInput) { in.Priority = 0 },
		"priority too high": func(in *CreateInput) { in.Priority = 6 },
		"bad visibility":    func(in *CreateInput) { in.Visibility = "everyone" },
		"no target areas":   func(in *CreateInput) { in.AllAreas = false; in.AreaIDs = nil },
	} {
		t.Run(name, func(t *testing.T) {
			in := valid
			mutate(&in)
			if err := ValidateCreate(in); !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}
