package ledger

// LeaveType identifies which balance pool a request draws from.
type LeaveType string

const (
	TypeVacation       LeaveType = "vacation"
	TypeAdministrative LeaveType = "administrative_day"
	TypeUnpaid         LeaveType = "unpaid_leave"
	TypeLieu           LeaveType = "time_off_in_lieu"
	TypeOther          LeaveType = "other"
)

func ValidType(t LeaveType) bool {
	switch t {
	case TypeVacation, TypeAdministrative, TypeUnpaid, TypeLieu, TypeOther:
		return true
	}
	return false
}

// Balanced reports whether the type draws down a finite pool that must be
// checked before submission. Unpaid leave only accumulates; "other" carries
// no bookkeeping at all.
func Balanced(t LeaveType) bool {
	return t == TypeVacation || t == TypeAdministrative || t == TypeLieu
}

type Direction string

const (
	Consume Direction = "consume"
	Restore Direction = "restore"
)
