package pipeline

// Response is the stable payload shape handed to the HTTP layer for
// both successful and exhausted sessions.
type Response struct {
	Success    bool             `json:"success"`
	SQL        string           `json:"sql,omitempty"`
	Columns    []string         `json:"columns,omitempty"`
	Rows       []map[string]any `json:"rows,omitempty"`
	Error      string           `json:"error,omitempty"`
	LastSQL    string           `json:"last_sql,omitempty"`
	Attempts   []AttemptSummary `json:"attempts,omitempty"`
	RetryCount int              `json:"retry_count"`
}

// AttemptSummary is one attempt as exposed to callers.
type AttemptSummary struct {
	Ordinal int    `json:"ordinal"`
	SQL     string `json:"sql,omitempty"`
	Outcome string `json:"outcome"`
	Error   string `json:"error,omitempty"`
}

// Format normalizes a finished session into the response payload.
// Successful sessions expose the final SQL with columns and rows;
// exhausted sessions expose the last failed SQL, the last recorded
// error verbatim, and the full attempt history. Connection details
// never appear here: execution errors carry only the server's message.
func Format(sess *Session) *Response {
	resp := &Response{
		Success:    sess.State == StateSuccess,
		RetryCount: len(sess.Attempts) - 1,
	}
	if resp.RetryCount < 0 {
		resp.RetryCount = 0
	}

	if sess.State == StateSuccess {
		resp.SQL = sess.FinalSQL
		resp.Columns = sess.Result.Columns
		resp.Rows = sess.Result.Rows
		return resp
	}

	if n := len(sess.Attempts); n > 0 {
		last := sess.Attempts[n-1]
		resp.Error = last.Error
		resp.LastSQL = last.SQL
	}
	resp.Attempts = make([]AttemptSummary, len(sess.Attempts))
	for i, a := range sess.Attempts {
		resp.Attempts[i] = AttemptSummary{
			Ordinal: a.Ordinal,
			SQL:     a.SQL,
			Outcome: string(a.Outcome),
			Error:   a.Error,
		}
	}
	return resp
}
