package queue

// TranscribeCallMsg asks the worker to transcribe a stored recording and
// forward the call to analysis.
type TranscribeCallMsg struct {
	Message      string `json:"message"`
	CallID       string `json:"call_id"`
	RecordingKey string `json:"recording_key"`
	Language     string `json:"language,omitempty"`
}

// AnalyzeCallMsg asks the worker to run risk analysis on a call whose
// transcription is already persisted.
type AnalyzeCallMsg struct {
	Message string `json:"message"`
	CallID  string `json:"call_id"`
}
