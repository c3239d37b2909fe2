package ideas

import "time"

// AnalysisID identifier type
type AnalysisID string

// Analysis is an analyzer outcome stored for auditing and retrieval
type Analysis struct {
	ID             AnalysisID     `json:"id"`
	Workspace      string         `json:"workspace"`
	Title          string         `json:"title"`
	Phase          Phase          `json:"phase"`
	Strategy       string         `json:"strategy"`
	FallbackReason string         `json:"fallbackReason,omitempty"`
	Result         AnalysisResult `json:"result"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// Page is a paginated list of analyses
type Page struct {
	Data     []*Analysis `json:"data"`
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
}
