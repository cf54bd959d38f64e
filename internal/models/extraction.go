package models

import "time"

// ExtractedRecord is an audit row for a single OCR run, keyed by the
// sanitized upload filename. Re-uploading the same filename overwrites the
// previous record.
type ExtractedRecord struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
