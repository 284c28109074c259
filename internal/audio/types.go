package audio

const (
	// CaptureRate is the sample rate the capture device is opened at.
	CaptureRate = 48000

	// WireRate is the sample rate the transcription backend expects.
	WireRate = 16000

	// FrameSamples is the number of 16 kHz samples in one wire frame.
	FrameSamples = 1600

	// FrameBytes is the size of one wire frame: 16-bit little-endian PCM.
	FrameBytes = FrameSamples * 2

	Channels = 1 // Mono
)

// VAD interface for Voice Activity Detection
type VAD interface {
	IsSpeech(pcm []int16, sampleRate int) bool
	Close() error
}
