package notify

import (
	"context"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
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

func TestFanoutFiltersLevelsAndAreas(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock, nil)

	mock.ExpectExec(regexp.QuoteMeta("WHERE e.active AND r.level = ANY($4) AND e.area_id = ANY($5)")).
		WithArgs(TypeAnnouncement, "New announcement: Turnos", "Turnos", []int{1, 2}, []string{"area-1"}).
		WillReturnResult(pgxmock.NewResult("INSERT", 12))

	err := svc.Fanout(context.Background(), TypeAnnouncement,
		"New announcement: Turnos", "Turnos", []int{1, 2}, []string{"area-1"})
	if err != nil {
		t.Fatalf("fanout: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestFanoutWithoutFiltersReachesAllActive(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock, nil)

	mock.ExpectExec(regexp.QuoteMeta("WHERE e.active")).
		WithArgs(TypeDocumentPublished, "New document: Protocolo", "Document DOC-2026-0001 (Protocolo) is available.").
		WillReturnResult(pgxmock.NewResult("INSERT", 40))

	err := svc.Fanout(context.Background(), TypeDocumentPublished,
		"New document: Protocolo", "Document DOC-2026-0001 (Protocolo) is available.", nil, nil)
	if err != nil {
		t.Fatalf("fanout: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
