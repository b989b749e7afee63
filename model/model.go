// Package model defines the core domain types shared across all billforge
// packages. It has zero dependencies on other billforge packages.
package model

import "time"

// Status represents the current state of a processing run.
type Status string

const (
	StatusPending  Status = "pending"
	StatusRunning  Status = "running"
	StatusComplete Status = "complete"
	StatusError    Status = "error"
)

// Terminal reports whether a status is final.
func (s Status) Terminal() bool {
	return s == StatusComplete || s == StatusError
}

// Jurisdiction identifies which legislature a bill belongs to.
type Jurisdiction string

const (
	JurisdictionFL Jurisdiction = "FL"
	JurisdictionUS Jurisdiction = "US"
)

// MetaType classifies a bill_meta row.
type MetaType string

const (
	MetaSummary MetaType = "summary"
	MetaPro     MetaType = "pro"
	MetaCon     MetaType = "con"
)

// Bill is a persisted legislative bill record.
type Bill struct {
	ID          int64  `json:"id"`
	GovID       string `json:"gov_id"` // e.g. "HB 23"
	Title       string `json:"title"`
	Description string `json:"description"`
	SourceURL   string `json:"source_url"`
	TextPath    string `json:"text_path"` // local path of the downloaded bill text PDF
}

// BillMeta is one piece of generated text attached to a bill.
type BillMeta struct {
	ID       int64    `json:"id"`
	BillID   int64    `json:"bill_id"`
	Type     MetaType `json:"type"`
	Text     string   `json:"text"`
	Language string   `json:"language"` // two-letter code, e.g. "EN"
}

// Run represents a single bill-processing execution.
type Run struct {
	ID            string       `json:"id"`
	BillURL       string       `json:"bill_url"`
	Jurisdiction  Jurisdiction `json:"jurisdiction"`
	Language      string       `json:"language"`
	Status        Status       `json:"status"`
	BillID        int64        `json:"bill_id,omitempty"`
	DiscussionURL string       `json:"discussion_url,omitempty"`
	WebflowItemID string       `json:"webflow_item_id,omitempty"`
	Error         string       `json:"error,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// Event represents a single event in a run's lifecycle.
type Event struct {
	ID        int64     `json:"id"`
	RunID     string    `json:"run_id"`
	Type      string    `json:"type"` // "status", "output", "error", "done"
	Data      string    `json:"data"`
	CreatedAt time.Time `json:"created_at"`
}

// Truncate shortens a string to maxLen runes, adding "..." if truncated.
func Truncate(s string, maxLen int) string {
	if maxLen <= 3 {
		r := []rune(s)
		if len(r) <= maxLen {
			return s
		}
		return string(r[:maxLen])
	}
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
