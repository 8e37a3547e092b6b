package models

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// ChartConfig is the visualization suggestion attached to a chat response.
// A nil *ChartConfig means no visualization was suggested.
type ChartConfig struct {
	ChartType   string `json:"chart_type,omitempty"`
	XColumn     string `json:"x_column,omitempty"`
	YColumn     string `json:"y_column,omitempty"`
	LabelColumn string `json:"label_column,omitempty"`
	Visualize   bool   `json:"visualize"`
	ShowExport  bool   `json:"show_export"`
}

// ChatResponse is returned by POST /api/v1/chat on the database path
type ChatResponse struct {
	Response    string           `json:"response"`
	SQLQuery    string           `json:"sql_query"`
	RawResults  []map[string]any `json:"raw_results"`
	ChartConfig *ChartConfig     `json:"chart_config"`
	SessionID   string           `json:"session_id,omitempty"`
}

// FallbackResponse is returned when the database path failed mid-pipeline
// and the question was answered conversationally instead.
type FallbackResponse struct {
	Response string `json:"response"`
	Note     string `json:"note"`
	Error    string `json:"error"`
}
