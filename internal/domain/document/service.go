package document

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"intranet/internal/domain/auth"
	"intranet/internal/platform/db"
)

type Service struct {
	DB db.Querier
}

func NewService(q db.Querier) *Service {
	return &Service{DB: q}
}

const documentColumns = `
    id, code, title, type, category, file_name, content_type, size_bytes,
    valid_from, valid_until, public, area_ids, downloads, views,
    uploaded_by, created_at`

func scanDocument(row pgx.Row) (Document, error) {
	var d Document
	err := row.Scan(&d.ID, &d.Code, &d.Title, &d.Type, &d.Category, &d.FileName,
		&d.ContentType, &d.SizeBytes, &d.ValidFrom, &d.ValidUntil, &d.Public,
		&d.AreaIDs, &d.Downloads, &d.Views, &d.UploadedBy, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, err
	}
	return d, nil
}

// FormatCode renders the document code for a year-scoped sequence value,
// e.g. DOC-2026-0007.
func FormatCode(year int, seq int64) string {
	return fmt.Sprintf("DOC-%d-%04d", year, seq)
}

func validateUpload(input UploadInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if input.FileName == "" || len(input.Content) == 0 {
		return fmt.Errorf("%w: file content is required", ErrValidation)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (Document, error) {
	return scanDocument(s.DB.QueryRow(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE id = $1", id))
}

// Upload stores metadata and content, assigning the next code from the same
// atomic per-year sequence mechanism leave requests use.
func (s *Service) Upload(ctx context.Context, uploadedBy string, input UploadInput) (Document, error) {
	if err := validateUpload(input); err != nil {
		return Document{}, err
	}

	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Document{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	year := time.Now().Year()
	var seq int64
	if err := tx.QueryRow(ctx, `
    INSERT INTO document_sequences (year, last_value)
    VALUES ($1, 1)
    ON CONFLICT (year) DO UPDATE SET last_value = document_sequences.last_value + 1
    RETURNING last_value
  `, year).Scan(&seq); err != nil {
		return Document{}, err
	}

	var id string
	if err := tx.QueryRow(ctx, `
    INSERT INTO documents (code, title, type, category, file_name, content_type,
                           size_bytes, content, valid_from, valid_until, public,
                           area_ids, uploaded_by)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
    RETURNING id
  `, FormatCode(year, seq), input.Title, input.Type, input.Category, input.FileName,
		input.ContentType, int64(len(input.Content)), input.Content,
		input.ValidFrom, input.ValidUntil, input.Public, input.AreaIDs, uploadedBy).Scan(&id); err != nil {
		return Document{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Document{}, err
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM documents WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// accessible reports whether the actor may read the document.
func accessible(d Document, actor auth.UserContext) bool {
	if d.Public || actor.RoleLevel >= auth.LevelSubDirection {
		return true
	}
	for _, id := range d.AreaIDs {
		if id == actor.AreaID {
			return true
		}
	}
	return false
}

// GetFor returns metadata only when the actor may read the document, so
// restricted titles and categories stay inside their areas.
func (s *Service) GetFor(ctx context.Context, id string, actor auth.UserContext) (Document, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return Document{}, err
	}
	if !accessible(d, actor) {
		return Document{}, ErrForbidden
	}
	return d, nil
}

// List returns metadata for documents the actor may read, newest first.
func (s *Service) List(ctx context.Context, actor auth.UserContext) ([]Document, error) {
	rows, err := s.DB.Query(ctx,
		"SELECT "+documentColumns+" FROM documents ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		if accessible(d, actor) {
			out = append(out, d)
		}
	}
	return out, rows.Err()
}

// Download returns the document plus its content and bumps the counter.
func (s *Service) Download(ctx context.Context, id string, actor auth.UserContext) (Document, []byte, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return Document{}, nil, err
	}
	if !accessible(d, actor) {
		return Document{}, nil, ErrForbidden
	}

	var content []byte
	if err := s.DB.QueryRow(ctx,
		"UPDATE documents SET downloads = downloads + 1 WHERE id = $1 RETURNING content",
		id).Scan(&content); err != nil {
		return Document{}, nil, err
	}
	d.Downloads++
	return d, content, nil
}

// RecordView bumps the view counter; failures are not fatal to the caller.
func (s *Service) RecordView(ctx context.Context, id string) error {
	_, err := s.DB.Exec(ctx, "UPDATE documents SET views = views + 1 WHERE id = $1", id)
	return err
}
