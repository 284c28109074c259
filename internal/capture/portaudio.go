package capture

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/rs/zerolog/log"
)

// PortAudioSource captures mono float32 audio from the default input device.
type PortAudioSource struct {
	sampleRate      int
	framesPerBuffer int

	stream  *portaudio.Stream
	buffer  []float32
	batches chan []float32

	stopChan chan struct{}
	stopped  bool
	mutex    sync.Mutex
}

func NewPortAudioSource(sampleRate, framesPerBuffer int) *PortAudioSource {
	return &PortAudioSource{
		sampleRate:      sampleRate,
		framesPerBuffer: framesPerBuffer,
		buffer:          make([]float32, framesPerBuffer),
		batches:         make(chan []float32, 16),
		stopChan:        make(chan struct{}),
	}
}

func (s *PortAudioSource) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	stream, err := portaudio.OpenDefaultStream(1, 0, float64(s.sampleRate), len(s.buffer), s.buffer)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("failed to open capture stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("failed to start capture stream: %w", err)
	}

	s.stream = stream

	go s.readLoop()

	log.Info().
		Int("sample_rate", s.sampleRate).
		Int("frames_per_buffer", s.framesPerBuffer).
		Msg("Capture source started")

	return nil
}

func (s *PortAudioSource) readLoop() {
	defer close(s.batches)

	for {
		select {
		case <-s.stopChan:
			return
		default:
		}

		if err := s.stream.Read(); err != nil {
			log.Warn().Err(err).Msg("Capture stream read failed")
			return
		}

		batch := make([]float32, len(s.buffer))
		copy(batch, s.buffer)

		select {
		case s.batches <- batch:
		case <-s.stopChan:
			return
		default:
			log.Warn().Msg("Capture batch channel full, dropping batch")
		}
	}
}

func (s *PortAudioSource) Batches() <-chan []float32 {
	return s.batches
}

func (s *PortAudioSource) Stop() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.stopped {
		return nil
	}
	s.stopped = true
	close(s.stopChan)

	var err error
	if s.stream != nil {
		if stopErr := s.stream.Stop(); stopErr != nil {
			err = stopErr
		}
		if closeErr := s.stream.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		s.stream = nil
	}
	portaudio.Terminate()

	log.Info().Msg("Capture source stopped")
	return err
}
