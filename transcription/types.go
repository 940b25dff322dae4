package transcription

// Result is a normalized transcription.
type Result struct {
	Transcript string    `json:"transcript"`
	Segments   []Segment `json:"segments"`
}

// Segment is a time-aligned portion of a transcript.
type Segment struct {
	Speaker string `json:"speaker"`
	StartMs int64  `json:"startMs"`
	EndMs   int64  `json:"endMs"`
	Text    string `json:"text"`
}

// NewResult builds a Result whose Segments is never nil.
func NewResult(transcript string, segments []Segment) *Result {
	if segments == nil {
		segments = []Segment{}
	}
	return &Result{Transcript: transcript, Segments: segments}
}
