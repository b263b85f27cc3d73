package ledger

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"intranet/internal/domain/directory"
	"intranet/internal/platform/db"
)

// Ledger is the single mutation point for the four per-employee balance
// pools. Workflow services never touch the employee balance columns
// directly; they pass their open transaction here so the adjustment commits
// or rolls back together with the state transition that caused it.
type Ledger struct{}

func New() *Ledger {
	return &Ledger{}
}

// Adjust applies a consumption or restoration to one pool inside the
// caller's transaction and records the movement for auditing. It does not
// check sufficiency: validation belongs to the caller, before anything
// irreversible has happened.
func (l *Ledger) Adjust(ctx context.Context, tx pgx.Tx, employeeID string, leaveType LeaveType, qty decimal.Decimal, direction Direction, actorID, reason string) error {
	column, delta, err := poolDelta(leaveType, qty, direction)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		"UPDATE employees SET "+column+" = "+column+" + $1, updated_at = now() WHERE id = $2",
		delta, employeeID); err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
    INSERT INTO balance_adjustments (employee_id, leave_type, quantity, direction, actor_id, reason)
    VALUES ($1,$2,$3,$4,$5,$6)
  `, employeeID, string(leaveType), qty, string(direction), nullIfEmpty(actorID), reason)
	return err
}

// ManualAdjust is the standalone correction path (manual restorations after
// a medical-leave anulment, data fixes). It opens its own transaction and
// locks the employee row before delegating to Adjust.
func (l *Ledger) ManualAdjust(ctx context.Context, q db.Querier, employeeID string, leaveType LeaveType, qty decimal.Decimal, direction Direction, actorID, reason string) error {
	tx, err := q.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "SELECT 1 FROM employees WHERE id = $1 FOR UPDATE", employeeID); err != nil {
		return err
	}
	if err := l.Adjust(ctx, tx, employeeID, leaveType, qty, direction, actorID, reason); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// poolDelta maps a leave type to its column and signed delta. Vacation,
// administrative and lieu pools shrink on consume; the unpaid pool is an
// accumulator that grows on consume and shrinks only on manual corrections.
func poolDelta(leaveType LeaveType, qty decimal.Decimal, direction Direction) (string, decimal.Decimal, error) {
	var column string
	grows := direction == Restore

	switch leaveType {
	case TypeVacation:
		column = "vacation_days"
	case TypeAdministrative:
		column = "administrative_days"
	case TypeLieu:
		column = "lieu_hours"
	case TypeUnpaid:
		column = "unpaid_accumulated"
		grows = direction == Consume
	default:
		return "", decimal.Zero, ErrUnknownLeaveType
	}

	if grows {
		return column, qty, nil
	}
	return column, qty.Neg(), nil
}

// CheckSufficiency is the pre-commitment validation used by request
// submission. Unpaid leave and "other" are exempt.
func CheckSufficiency(emp directory.Employee, leaveType LeaveType, qty decimal.Decimal) error {
	if !Balanced(leaveType) {
		return nil
	}

	var available decimal.Decimal
	switch leaveType {
	case TypeVacation:
		available = decimal.NewFromInt(int64(emp.VacationDays))
	case TypeAdministrative:
		available = emp.AdministrativeDays
	case TypeLieu:
		available = emp.LieuHours
	}

	if qty.GreaterThan(available) {
		return &InsufficientBalanceError{Type: leaveType, Available: available, Requested: qty}
	}
	return nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
