package models

// AnalyzeRequest is the body of POST /analyze.
type AnalyzeRequest struct {
	VideoURL string `json:"video_url"`
}

// AnalyzeResponse is the 2xx body of POST /analyze.
//
// Only BlogPost is part of the client contract; the debug fields carry the intermediate pipeline output.
type AnalyzeResponse struct {
	Status        string `json:"status,omitempty"`
	BlogPost      string `json:"blog_post"`
	DebugAnalysis string `json:"debug_analysis,omitempty"`
	DebugResearch string `json:"debug_research,omitempty"`
}

// ErrorResponse is the non-2xx body of POST /analyze. Error may be absent.
type ErrorResponse struct {
	Error string `json:"error,omitempty"`
}

// StreamEventType discriminates frames on the /ws/analyze stream.
type StreamEventType string

const (
	EventProgress StreamEventType = "progress"
	EventResult   StreamEventType = "result"
	EventError    StreamEventType = "error"
)

// StreamEvent is a single server → client frame on /ws/analyze.
//
// Progress frames set Phase/Step/Total/Message, the terminal result frame sets BlogPost,
// and the terminal error frame sets Error.
type StreamEvent struct {
	Type     StreamEventType `json:"type"`
	Phase    string          `json:"phase,omitempty"`
	Step     int             `json:"step,omitempty"`
	Total    int             `json:"total,omitempty"`
	Message  string          `json:"message,omitempty"`
	BlogPost string          `json:"blog_post,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// Terminal reports whether e ends the stream.
func (e StreamEvent) Terminal() bool {
	return e.Type == EventResult || e.Type == EventError
}
