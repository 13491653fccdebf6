package model

// ParseResult is the structured outcome of parsing a single query.
type ParseResult struct {
	Companies             []string          `json:"companies"`
	MatchedCompanyAliases map[string]string `json:"matched_company_aliases,omitempty"`
	ReportTypes           []string          `json:"report_types"`
	MatchedReportAliases  map[string]string `json:"matched_report_aliases,omitempty"`
	Quantity              *int              `json:"quantity,omitempty"`
	TimeFrame             TimeFrame         `json:"time_frame"`
	Confidence            float64           `json:"confidence"`
	Notes                 []string          `json:"notes,omitempty"`
	Error                 string            `json:"error,omitempty"`

	// LLMRaw holds the raw model output when an LLM pass ran.
	LLMRaw string `json:"llm_raw,omitempty"`

	// HeuristicsUnderstoodText is the portion of the query the heuristic
	// pass accounted for; FinalUnderstoodText reflects the result after any
	// LLM reconciliation.
	HeuristicsUnderstoodText string `json:"heuristics_understood_text,omitempty"`
	FinalUnderstoodText      string `json:"final_understood_text,omitempty"`
}

// NewParseResult returns a result with empty slices so JSON output carries
// [] rather than null.
func NewParseResult() *ParseResult {
	return &ParseResult{
		Companies:   []string{},
		ReportTypes: []string{},
		TimeFrame:   NoTimeFrame(),
	}
}

// AddNote appends a processing note.
func (r *ParseResult) AddNote(note string) {
	r.Notes = append(r.Notes, note)
}

// SetError marks the result as failed. The first error wins.
func (r *ParseResult) SetError(msg string) {
	if r.Error == "" {
		r.Error = msg
	}
}

// IsEmpty reports whether nothing at all was extracted.
func (r *ParseResult) IsEmpty() bool {
	return len(r.Companies) == 0 && len(r.ReportTypes) == 0 &&
		r.Quantity == nil && r.TimeFrame.Kind == TimeFrameNone
}
