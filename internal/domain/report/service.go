package report

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"intranet/internal/platform/db"
)

type Service struct {
	DB db.Querier
}

func NewService(q db.Querier) *Service {
	return &Service{DB: q}
}

// AreaBalances aggregates the four pools per area over active employees.
func (s *Service) AreaBalances(ctx context.Context) ([]AreaBalance, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT a.id, a.name, count(e.id),
           COALESCE(sum(e.vacation_days), 0),
           COALESCE(sum(e.administrative_days), 0),
           COALESCE(sum(e.lieu_hours), 0),
           COALESCE(sum(e.unpaid_accumulated), 0)
    FROM areas a
    LEFT JOIN employees e ON e.area_id = a.id AND e.active
    GROUP BY a.id, a.name
    ORDER BY a.name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AreaBalance
	for rows.Next() {
		var b AreaBalance
		if err := rows.Scan(&b.AreaID, &b.AreaName, &b.Employees, &b.VacationDays,
			&b.AdministrativeDays, &b.LieuHours, &b.UnpaidAccumulated); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// LeaveUsage sums approved requests per leave type for a calendar year.
func (s *Service) LeaveUsage(ctx context.Context, year int) ([]UsageRow, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	rows, err := s.DB.Query(ctx, `
    SELECT type, count(*), COALESCE(sum(quantity), 0)
    FROM leave_requests
    WHERE state = 'approved' AND start_date >= $1 AND start_date < $2
    GROUP BY type
    ORDER BY type
  `, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []UsageRow
	for rows.Next() {
		var u UsageRow
		if err := rows.Scan(&u.Type, &u.Requests, &u.Quantity); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	var d Dashboard
	err := s.DB.QueryRow(ctx, `
    SELECT
      (SELECT count(*) FROM leave_requests WHERE state IN ('pending_supervisor', 'pending_direction')),
      (SELECT count(*) FROM medical_leaves WHERE state = 'pending_review'),
      (SELECT count(*) FROM medical_leaves WHERE state = 'approved'
         AND start_date <= now()::date AND end_date >= now()::date),
      (SELECT count(*) FROM employees WHERE active)
  `).Scan(&d.PendingRequests, &d.PendingMedicalLeaves, &d.CurrentMedicalLeaves, &d.ActiveEmployees)
	return d, err
}

// ExportBalancesXLSX renders the area balance report as a spreadsheet and
// returns the serialized bytes.
func (s *Service) ExportBalancesXLSX(ctx context.Context) ([]byte, error) {
	balances, err := s.AreaBalances(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Balances"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Area", "Employees", "Vacation days", "Administrative days", "Lieu hours", "Unpaid accumulated"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for row, b := range balances {
		values := []any{b.AreaName, b.Employees, b.VacationDays,
			b.AdministrativeDays.String(), b.LieuHours.String(), b.UnpaidAccumulated.String()}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write balances workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportUsageXLSX renders the per-type usage report for a year.
func (s *Service) ExportUsageXLSX(ctx context.Context, year int) ([]byte, error) {
	usage, err := s.LeaveUsage(ctx, year)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := fmt.Sprintf("Usage %d", year)
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Leave type", "Approved requests", "Total quantity"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for row, u := range usage {
		values := []any{u.Type, u.Requests, u.Quantity.String()}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write usage workbook: %w", err)
	}
	return buf.Bytes(), nil
}
