package dto

import "time"

// EvaluationResponse is the outcome of scoring one answer document against
// one reference document.
type EvaluationResponse struct {
	ReferenceText   string  `json:"reference_text"`
	AnswerText      string  `json:"answer_text"`
	SimilarityScore float64 `json:"similarity_score"`
	MarksObtained   float64 `json:"marks_obtained"`
	ModelUsed       string  `json:"model_used"`
}

// UploadResponse returns the text extracted from a single uploaded file.
type UploadResponse struct {
	FileName      string `json:"file_name"`
	ExtractedText string `json:"extracted_text"`
}

// ExtractionHistoryEntry is one stored OCR audit record.
type ExtractionHistoryEntry struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
