package document

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"

	"intranet/internal/domain/auth"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func documentRow(public bool, areaIDs []string) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{
		"id", "code", "title", "type", "category", "file_name", "content_type",
		"size_bytes", "valid_from", "valid_until", "public", "area_ids",
		"downloads", "views", "uploaded_by", "created_at",
	}).AddRow("doc-1", "DOC-2026-0001", "Protocolo", "protocol", "clinical",
		"protocolo.pdf", "application/pdf",
		int64(1024), (*time.Time)(nil), (*time.Time)(nil), public, areaIDs,
		0, 0, "emp-9", now)
}

// Restricted metadata must stay inside its areas, matching the download rule.
func TestGetForBlocksOutsideArea(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM documents WHERE id = $1")).
		WithArgs("doc-1").
		WillReturnRows(documentRow(false, []string{"area-1"}))

	actor := auth.UserContext{UserID: "emp-1", RoleLevel: auth.LevelFunctionary, AreaID: "area-2"}
	_, err := svc.GetFor(context.Background(), "doc-1", actor)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetForAllowsTargetAreaAndDirection(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM documents WHERE id = $1")).
		WithArgs("doc-1").
		WillReturnRows(documentRow(false, []string{"area-1"}))
	mock.ExpectQuery(regexp.QuoteMeta("FROM documents WHERE id = $1")).
		WithArgs("doc-1").
		WillReturnRows(documentRow(false, []string{"area-1"}))

	member := auth.UserContext{UserID: "emp-1", RoleLevel: auth.LevelFunctionary, AreaID: "area-1"}
	if _, err := svc.GetFor(context.Background(), "doc-1", member); err != nil {
		t.Fatalf("area member should read, got %v", err)
	}

	direction := auth.UserContext{UserID: "emp-2", RoleLevel: auth.LevelDirection, AreaID: "area-9"}
	if _, err := svc.GetFor(context.Background(), "doc-1", direction); err != nil {
		t.Fatalf("direction should read, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
