package directory

import (
	"testing"

	"intranet/internal/domain/auth"
)

func TestValidRUT(t *testing.T) {
	valid := []string{"12.345.678-5", "9.876.543-K", "1.234.567-k", " 12.345.678-0 "}
	for _, rut := range valid {
		if !ValidRUT(rut) {
			t.Fatalf("expected %q to be valid", rut)
		}
	}

	invalid := []string{"", "12345678-5", "12.345.678", "12.345.678-55", "ab.cde.fgh-i", "123.345.678-5"}
	for _, rut := range invalid {
		if ValidRUT(rut) {
			t.Fatalf("expected %q to be invalid", rut)
		}
	}
}

func TestCanApproveFor(t *testing.T) {
	subdirection := Employee{RoleLevel: auth.LevelSubDirection, AreaID: "area-1"}
	if !CanApproveFor(subdirection, "area-9") {
		t.Fatal("subdirection approves across areas")
	}

	supervisor := Employee{RoleLevel: auth.LevelSupervisor, AreaID: "area-1"}
	if !CanApproveFor(supervisor, "area-1") {
		t.Fatal("supervisor approves inside own area")
	}
	if CanApproveFor(supervisor, "area-2") {
		t.Fatal("supervisor must not approve outside own area")
	}

	functionary := Employee{RoleLevel: auth.LevelFunctionary, AreaID: "area-1"}
	if CanApproveFor(functionary, "area-1") {
		t.Fatal("functionary never approves")
	}
}
