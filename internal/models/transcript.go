package models

// TranscriptTurn is one speaker turn of an interview transcript.
type TranscriptTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
