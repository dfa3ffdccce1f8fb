package httptransport

import "time"

type SubmitWorkRequest struct {
	Title   string `json:"title" validate:"required,max=300"`
	Author  string `json:"author" validate:"max=200"`
	Content string `json:"content"`
}

type ConversionOptionsDTO struct {
	DPI             int     `json:"dpi,omitempty" validate:"omitempty,min=72,max=1200"`
	Language        string  `json:"lang,omitempty" validate:"omitempty,max=16"`
	LeftMarginRatio float64 `json:"left_margin_ratio,omitempty" validate:"omitempty,gte=0,lt=1"`
}

// SubmitDocumentRequest carries a base64 encoded PDF.
type SubmitDocumentRequest struct {
	Title    string               `json:"title" validate:"required,max=300"`
	Author   string               `json:"author" validate:"max=200"`
	Document []byte               `json:"document" validate:"required"`
	Options  ConversionOptionsDTO `json:"options"`
}

type ValidateWorkRequest struct {
	Destination string `json:"destination" validate:"required"`
}

type RejectWorkRequest struct {
	Motif string `json:"motif"`
}

type ClassifyWorkRequest struct {
	Categories []string `json:"categories" validate:"required,min=1,max=16"`
}

type ReconvertWorkRequest struct {
	Document []byte               `json:"document,omitempty"`
	Options  ConversionOptionsDTO `json:"options"`
}

type WorkDTO struct {
	WorkID          string     `json:"work_id"`
	Title           string     `json:"title"`
	Author          string     `json:"author"`
	Content         string     `json:"content,omitempty"`
	SubmitterID     string     `json:"submitter_id"`
	State           string     `json:"state"`
	Destination     string     `json:"destination,omitempty"`
	Categories      []string   `json:"categories,omitempty"`
	SubmittedAt     time.Time  `json:"submitted_at"`
	ReviewStartedAt *time.Time `json:"review_started_at,omitempty"`
	DecidedAt       *time.Time `json:"decided_at,omitempty"`
	DecidedBy       string     `json:"decided_by,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	Terminal        bool       `json:"terminal"`
	DelaySeconds    int64      `json:"delay_seconds"`
	Version         int64      `json:"version"`
}

type WorkResponse struct {
	Work WorkDTO `json:"work"`
}

type ListWorksResponse struct {
	Items []WorkDTO `json:"items"`
}

type CategoryDTO struct {
	Code   string `json:"code"`
	Label  string `json:"label"`
	Family string `json:"family"`
}

type CategoriesResponse struct {
	Items    []CategoryDTO            `json:"items"`
	ByFamily map[string][]CategoryDTO `json:"by_family"`
}

// CatalogueStatisticsResponse counts works per state, and validated works per
// destination collection.
type CatalogueStatisticsResponse struct {
	Total         int            `json:"total"`
	ByState       map[string]int `json:"by_state"`
	ByDestination map[string]int `json:"by_destination"`
}

type AuditRecordDTO struct {
	AuditID    string    `json:"audit_id"`
	EntityKind string    `json:"entity_kind"`
	EntityID   string    `json:"entity_id"`
	Action     string    `json:"action"`
	FromState  string    `json:"from_state"`
	ToState    string    `json:"to_state"`
	ActorID    string    `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

type AuditTrailResponse struct {
	Items []AuditRecordDTO `json:"items"`
}
