package announce

import "time"

// Role visibility targets for an announcement.
const (
	VisibilityFunctionaries = "functionaries"
	VisibilitySupervisors   = "supervisors"
	VisibilityBoth          = "both"
	VisibilityDirection     = "direction_only"
)

type Announcement struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Type        string     `json:"type"`
	PublishedAt time.Time  `json:"publishedAt"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	Featured    bool       `json:"featured"`
	Priority    int        `json:"priority"`
	Visibility  string     `json:"visibility"`
	AllAreas    bool       `json:"allAreas"`
	AreaIDs     []string   `json:"areaIds,omitempty"`
	AuthorID    string     `json:"authorId"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type CreateInput struct {
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Type       string     `json:"type"`
	ExpiresAt  *time.Time `json:"expiresAt"`
	Featured   bool       `json:"featured"`
	Priority   int        `json:"priority"`
	Visibility string     `json:"visibility"`
	AllAreas   bool       `json:"allAreas"`
	AreaIDs    []string   `json:"areaIds"`
}
