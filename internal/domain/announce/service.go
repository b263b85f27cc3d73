package announce

import (
	"context"
	"errors"
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

const announcementColumns = `
    id, title, content, type, published_at, expires_at, featured, priority,
    visibility, all_areas, area_ids, author_id, active, created_at`

func scanAnnouncement(row pgx.Row) (Announcement, error) {
	var a Announcement
	err := row.Scan(&a.ID, &a.Title, &a.Content, &a.Type, &a.PublishedAt, &a.ExpiresAt,
		&a.Featured, &a.Priority, &a.Visibility, &a.AllAreas, &a.AreaIDs,
		&a.AuthorID, &a.Active, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Announcement{}, ErrNotFound
	}
	if err != nil {
		return Announcement{}, err
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, id string) (Announcement, error) {
	return scanAnnouncement(s.DB.QueryRow(ctx,
		"SELECT "+announcementColumns+" FROM announcements WHERE id = $1", id))
}

func (s *Service) Create(ctx context.Context, authorID string, input CreateInput) (Announcement, error) {
	if err := ValidateCreate(input); err != nil {
		return Announcement{}, err
	}

	areaIDs := input.AreaIDs
	if input.AllAreas {
		areaIDs = nil
	}

	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO announcements (title, content, type, published_at, expires_at, featured,
                               priority, visibility, all_areas, area_ids, author_id, active)
    VALUES ($1,$2,$3,now(),$4,$5,$6,$7,$8,$9,$10,TRUE)
    RETURNING id
  `, input.Title, input.Content, input.Type, input.ExpiresAt, input.Featured,
		input.Priority, input.Visibility, input.AllAreas, areaIDs, authorID).Scan(&id)
	if err != nil {
		return Announcement{}, err
	}
	return s.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id string, input CreateInput) (Announcement, error) {
	if err := ValidateCreate(input); err != nil {
		return Announcement{}, err
	}

	areaIDs := input.AreaIDs
	if input.AllAreas {
		areaIDs = nil
	}

	tag, err := s.DB.Exec(ctx, `
    UPDATE announcements
    SET title = $1, content = $2, type = $3, expires_at = $4, featured = $5,
        priority = $6, visibility = $7, all_areas = $8, area_ids = $9
    WHERE id = $10
  `, input.Title, input.Content, input.Type, input.ExpiresAt, input.Featured,
		input.Priority, input.Visibility, input.AllAreas, areaIDs, id)
	if err != nil {
		return Announcement{}, err
	}
	if tag.RowsAffected() == 0 {
		return Announcement{}, ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *Service) Deactivate(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "UPDATE announcements SET active = FALSE WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListCurrent returns active, unexpired announcements the actor may see,
// highest priority and newest first. The visibility matrix is applied in Go
// so it stays shared with the tests.
func (s *Service) ListCurrent(ctx context.Context, actor auth.UserContext) ([]Announcement, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+announcementColumns+`
    FROM announcements
    WHERE active AND (expires_at IS NULL OR expires_at > $1)
    ORDER BY featured DESC, priority DESC, published_at DESC
  `, time.Now())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Announcement
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, err
		}
		if VisibleTo(a, actor.RoleLevel, actor.AreaID) {
			out = append(out, a)
		}
	}
	return out, rows.Err()
}
