package audio

import (
	"math"

	"github.com/maxhawkins/go-webrtcvad"
)

type WebRTCVAD struct {
	vad          *webrtcvad.VAD
	rmsThreshold float64
}

// NewWebRTCVAD builds a voice activity detector used to gate wire frames when
// silence suppression is enabled. Mode ranges 0-3, where 3 is most aggressive.
func NewWebRTCVAD(mode int) (*WebRTCVAD, error) {
	vad, err := webrtcvad.New()
	if err != nil {
		return nil, err
	}

	vad.SetMode(mode)

	return &WebRTCVAD{
		vad:          vad,
		rmsThreshold: 500.0, // Fallback RMS threshold
	}, nil
}

func (v *WebRTCVAD) IsSpeech(pcm []int16, sampleRate int) bool {
	bytes := int16SliceToBytes(pcm)

	// WebRTC VAD expects at least a 10ms frame; 320 bytes at 16kHz.
	if v.vad == nil || len(bytes) < 320 {
		return v.rmsIsSpeech(pcm)
	}

	isSpeech, err := v.vad.Process(sampleRate, bytes)
	if err != nil {
		return v.rmsIsSpeech(pcm)
	}
	return isSpeech
}

func (v *WebRTCVAD) rmsIsSpeech(pcm []int16) bool {
	if len(pcm) == 0 {
		return false
	}

	var sum float64
	for _, sample := range pcm {
		sum += float64(sample) * float64(sample)
	}

	rms := math.Sqrt(sum / float64(len(pcm)))
	return rms > v.rmsThreshold
}

// Close releases the detector. The underlying binding frees its native state
// through a finalizer, so there is nothing to do here beyond dropping the
// reference.
func (v *WebRTCVAD) Close() error {
	v.vad = nil
	return nil
}

func int16SliceToBytes(samples []int16) []byte {
	bytes := make([]byte, len(samples)*2)
	for i, sample := range samples {
		bytes[i*2] = byte(sample)
		bytes[i*2+1] = byte(sample >> 8)
	}
	return bytes
}
