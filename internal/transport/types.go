package transport

// EventKind discriminates inbound transcription messages.
type EventKind string

const (
	EventPartial EventKind = "partial_transcript"
	EventFinal   EventKind = "final_transcript"
)

// TranscriptEvent is one inbound transcription result. Partial events are
// interim and replace the previous partial; final events are complete
// utterances.
type TranscriptEvent struct {
	Kind EventKind
	Text string
}

// transcriptMessage is the JSON wire shape of inbound socket messages.
type transcriptMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}
