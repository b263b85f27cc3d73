package document

import "time"

type Document struct {
	ID          string     `json:"id"`
	Code        string     `json:"code"`
	Title       string     `json:"title"`
	Type        string     `json:"type"`
	Category    string     `json:"category"`
	FileName    string     `json:"fileName"`
	ContentType string     `json:"contentType"`
	SizeBytes   int64      `json:"sizeBytes"`
	ValidFrom   *time.Time `json:"validFrom,omitempty"`
	ValidUntil  *time.Time `json:"validUntil,omitempty"`
	Public      bool       `json:"public"`
	AreaIDs     []string   `json:"areaIds,omitempty"`
	Downloads   int        `json:"downloads"`
	Views       int        `json:"views"`
	UploadedBy  string     `json:"uploadedBy"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type UploadInput struct {
	Title       string
	Type        string
	Category    string
	FileName    string
	ContentType string
	Content     []byte
	ValidFrom   *time.Time
	ValidUntil  *time.Time
	Public      bool
	AreaIDs     []string
}
