package models

// ChatRequest for POST /api/v1/chat
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ConversationEntry is one prior exchange supplied to the translator as
// context. Entries are chronological and rendered into the prompt in order.
type ConversationEntry struct {
	Question      string `json:"question"`
	SQLQuery      string `json:"sql_query,omitempty"`
	ResultSummary string `json:"result_summary,omitempty"`
}
