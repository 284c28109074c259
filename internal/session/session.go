package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/crackify-ai/crackify-client/internal/api"
	"github.com/crackify-ai/crackify-client/internal/audio"
	"github.com/crackify-ai/crackify-client/internal/capture"
	"github.com/crackify-ai/crackify-client/internal/store"
	"github.com/crackify-ai/crackify-client/internal/transport"
)

// Question is one finalized interviewer question, with the generated answer
// attached once one exists.
type Question struct {
	ID     uuid.UUID `json:"id"`
	Text   string    `json:"text"`
	Answer string    `json:"answer,omitempty"`
}

// InterviewSession owns the full lifecycle of one interview capture session:
// the capture source, the audio processing pipeline, the audio-stream
// connection with its reconnect budget, the transcript state, and the
// answer-stream/persistence calls. One session is live at a time; Start
// refuses while a previous one has not been stopped.
type InterviewSession struct {
	setup     api.SetupData
	apiClient *api.Client
	archive   *store.FileStore
	newSource func() capture.Source
	dialer    transport.Dialer
	wsBaseURL string
	token     string
	vad       audio.VAD

	captureRate   int
	clock         Clock
	reconnectWait time.Duration
	maxReconnects int

	// Answer chunks are surfaced through this optional callback in arrival
	// order. Set before Start.
	OnAnswerChunk func(chunk string)
	// OnPartial and OnFinal surface transcript updates. Set before Start.
	OnPartial func(text string)
	OnFinal   func(text string)

	mutex      sync.RWMutex
	state      State
	source     capture.Source
	conn       *transport.Conn
	reconnects int
	ended      bool

	interim       string
	rolling       string
	questions     []Question
	currentAnswer string
	answerCancel  context.CancelFunc

	ctx    context.Context
	cancel context.CancelFunc
}

func NewInterviewSession(
	setup api.SetupData,
	apiClient *api.Client,
	archive *store.FileStore,
	newSource func() capture.Source,
	dialer transport.Dialer,
	wsBaseURL, token string,
	captureRate int,
	vad audio.VAD,
) *InterviewSession {
	return &InterviewSession{
		setup:         setup,
		apiClient:     apiClient,
		archive:       archive,
		newSource:     newSource,
		dialer:        dialer,
		wsBaseURL:     wsBaseURL,
		token:         token,
		vad:           vad,
		captureRate:   captureRate,
		clock:         realClock{},
		reconnectWait: 2 * time.Second,
		maxReconnects: 5,
	}
}

// SetClock replaces the backoff clock. Test hook; call before Start.
func (s *InterviewSession) SetClock(c Clock) {
	s.clock = c
}

// SetReconnectPolicy overrides the attempt budget and fixed backoff.
// Call before Start.
func (s *InterviewSession) SetReconnectPolicy(attempts int, wait time.Duration) {
	s.maxReconnects = attempts
	s.reconnectWait = wait
}

// State returns the current lifecycle phase.
func (s *InterviewSession) State() State {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.state
}

// Start acquires the capture source, dials the audio stream, and moves the
// session to Active. It fails without retrying when the capture device cannot
// be acquired, and any failure leaves the session Idle with everything
// released.
func (s *InterviewSession) Start() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.state != StateIdle {
		return fmt.Errorf("session already %s, stop it first", s.state)
	}

	s.state = StateStarting
	s.ended = false
	s.reconnects = 0
	s.ctx, s.cancel = context.WithCancel(context.Background())

	if err := s.startResourcesLocked(); err != nil {
		s.cleanupResourcesLocked()
		s.cancel()
		s.state = StateIdle
		return err
	}

	s.state = StateActive

	log.Info().
		Str("session_id", s.setup.SessionID).
		Msg("Interview session started")
	return nil
}

// startResourcesLocked runs the Starting sequence: capture source first, then
// the transport. On error nothing valid is left behind.
func (s *InterviewSession) startResourcesLocked() error {
	src := s.newSource()
	if err := src.Start(); err != nil {
		return fmt.Errorf("failed to acquire capture source: %w", err)
	}

	conn, err := transport.Dial(s.dialer, s.wsBaseURL, s.token)
	if err != nil {
		src.Stop()
		return err
	}

	s.source = src
	s.conn = conn

	go s.audioLoop(src, conn)
	go s.eventLoop(conn)
	go s.watchConn(conn, s.ctx)

	return nil
}

// cleanupResourcesLocked releases the capture graph and transport in the same
// order on every path: source first so no new frames arrive, then the
// connection. The pending sample buffer dies with its audio loop, so nothing
// here touches it.
func (s *InterviewSession) cleanupResourcesLocked() {
	if s.source != nil {
		if err := s.source.Stop(); err != nil {
			log.Warn().Err(err).Msg("Failed to stop capture source")
		}
		s.source = nil
	}
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
}

// audioLoop drives one connection epoch: every capture batch flows through
// resample, quantize, and chunk, and each completed frame goes out as one
// binary message. Frames produced while the connection is down are dropped,
// never queued. The processor lives and dies with this goroutine, so the
// pending sample buffer is never shared across epochs and a reconnect always
// starts from an empty one.
func (s *InterviewSession) audioLoop(src capture.Source, conn *transport.Conn) {
	defer log.Debug().Msg("Audio loop stopped")

	processor := audio.NewProcessor(s.captureRate, audio.WireRate, audio.FrameSamples)

	for {
		select {
		case batch, ok := <-src.Batches():
			if !ok {
				return
			}
			for _, frame := range processor.Process(batch) {
				if s.vad != nil && !s.vad.IsSpeech(decodeFrame(frame), audio.WireRate) {
					continue
				}
				if err := conn.WriteFrame(frame); err != nil {
					log.Debug().Err(err).Msg("Dropped audio frame")
				}
			}
		case <-conn.Closed():
			return
		}
	}
}

func decodeFrame(frame []byte) []int16 {
	pcm := make([]int16, len(frame)/2)
	for i := range pcm {
		pcm[i] = int16(uint16(frame[i*2]) | uint16(frame[i*2+1])<<8)
	}
	return pcm
}

// eventLoop applies inbound transcript events in arrival order.
func (s *InterviewSession) eventLoop(conn *transport.Conn) {
	for ev := range conn.Events() {
		s.applyTranscript(ev)
	}
}

func (s *InterviewSession) applyTranscript(ev transport.TranscriptEvent) {
	s.mutex.Lock()
	var notify func(string)
	switch ev.Kind {
	case transport.EventPartial:
		// Partials are incremental: each one carries only the newly
		// recognized words, so appending builds the pending question. A
		// backend sending cumulative partials would duplicate prefixes here.
		s.interim = ev.Text
		s.rolling = s.rolling + " " + ev.Text
		notify = s.OnPartial
	case transport.EventFinal:
		s.questions = append(s.questions, Question{ID: uuid.New(), Text: ev.Text})
		s.interim = ""
		s.rolling = ""
		notify = s.OnFinal
	}
	s.mutex.Unlock()

	if notify != nil {
		notify(ev.Text)
	}
}

// watchConn waits for the connection to end and kicks off reconnection when
// the closure was not deliberate. The session context is captured at spawn
// time, under the lock, so a later Start never races this read.
func (s *InterviewSession) watchConn(conn *transport.Conn, ctx context.Context) {
	select {
	case <-conn.Closed():
	case <-ctx.Done():
		return
	}

	s.mutex.Lock()
	stale := s.ended || s.conn != conn
	s.mutex.Unlock()
	if stale {
		return
	}

	s.reconnect()
}

// reconnect re-runs the Starting sequence with a fixed backoff until the
// session is Active again or the attempt budget is spent. Every attempt,
// successful or not, consumes one unit of the budget; the budget only resets
// on a fresh explicit Start.
func (s *InterviewSession) reconnect() {
	for {
		s.mutex.Lock()
		if s.ended {
			s.mutex.Unlock()
			return
		}
		if s.reconnects >= s.maxReconnects {
			s.cleanupResourcesLocked()
			s.state = StateIdle
			s.cancel()
			s.mutex.Unlock()
			log.Error().
				Int("attempts", s.maxReconnects).
				Msg("Audio stream reconnect budget exhausted, session stopped")
			return
		}
		s.reconnects++
		s.state = StateReconnecting
		attempt := s.reconnects
		ctx := s.ctx
		s.mutex.Unlock()

		log.Warn().
			Int("attempt", attempt).
			Int("max_attempts", s.maxReconnects).
			Msg("Audio stream lost, reconnecting")

		if !s.clock.Sleep(ctx, s.reconnectWait) {
			return
		}

		s.mutex.Lock()
		if s.ended {
			s.mutex.Unlock()
			return
		}
		s.cleanupResourcesLocked()
		err := s.startResourcesLocked()
		if err == nil {
			s.state = StateActive
			s.mutex.Unlock()
			log.Info().Int("attempt", attempt).Msg("Audio stream reconnected")
			return
		}
		s.mutex.Unlock()

		log.Warn().Err(err).Int("attempt", attempt).Msg("Reconnect attempt failed")
	}
}

// Stop deliberately ends the session: suppresses reconnection, releases the
// capture graph and transport, flushes the collected question/answer pairs
// best-effort, and resets to Idle. Calling Stop on an idle session is a no-op.
func (s *InterviewSession) Stop() error {
	s.mutex.Lock()
	if s.state == StateIdle {
		s.mutex.Unlock()
		return nil
	}

	s.ended = true
	s.state = StateStopping
	if s.cancel != nil {
		s.cancel()
	}
	s.cleanupResourcesLocked()
	s.reconnects = 0

	pairs := s.flushPairsLocked()
	sessionID := s.setup.SessionID
	total := len(pairs)

	s.interim = ""
	s.rolling = ""
	s.questions = nil
	s.currentAnswer = ""
	s.state = StateIdle
	s.mutex.Unlock()

	s.flush(sessionID, pairs)

	log.Info().
		Str("session_id", sessionID).
		Int("questions", total).
		Msg("Interview session stopped")
	return nil
}

// flushPairsLocked snapshots the question list for persistence. A question
// without a stored answer inherits the latest streamed one, which covers an
// answer that was still streaming when the user exited.
func (s *InterviewSession) flushPairsLocked() []api.QA {
	pairs := make([]api.QA, 0, len(s.questions))
	for _, q := range s.questions {
		answer := q.Answer
		if answer == "" {
			answer = s.currentAnswer
		}
		pairs = append(pairs, api.QA{Question: q.Text, Answer: answer})
	}
	return pairs
}

// flush persists the session both to the backend and the local archive.
// Failures are logged only; teardown never fails on persistence.
func (s *InterviewSession) flush(sessionID string, pairs []api.QA) {
	if sessionID == "" || len(pairs) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.apiClient.SaveSession(gctx, sessionID, pairs)
	})
	if s.archive != nil {
		g.Go(func() error {
			_, err := s.archive.SaveInterview(sessionID, pairs)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("Failed to flush session")
	}
}

// GenerateAnswer classifies the pending question, builds the matching prompt,
// and streams the AI answer. It blocks until the stream ends or is cancelled;
// cancellation keeps the partial answer. The capture state machine is not
// involved: answers can be generated and cancelled in any session state.
func (s *InterviewSession) GenerateAnswer(ctx context.Context) (string, error) {
	s.mutex.Lock()
	question := strings.TrimSpace(s.rolling)
	if question == "" && len(s.questions) > 0 {
		question = s.questions[len(s.questions)-1].Text
	}
	sessionID := s.setup.SessionID
	s.mutex.Unlock()

	if question == "" {
		return "", fmt.Errorf("no pending question to answer")
	}
	if sessionID == "" {
		return "", fmt.Errorf("no session id configured")
	}

	ctx, cancel := context.WithCancel(ctx)
	s.mutex.Lock()
	s.answerCancel = cancel
	s.currentAnswer = ""
	s.mutex.Unlock()
	defer func() {
		s.mutex.Lock()
		s.answerCancel = nil
		s.mutex.Unlock()
		cancel()
	}()

	questionType, err := s.apiClient.ClassifyQuestion(ctx, question)
	if err != nil {
		log.Warn().Err(err).Msg("Question classification failed, using scenario template")
		questionType = api.QuestionScenario
	}

	prompt := api.BuildPrompt(s.setup, questionType, question)

	answer, err := s.apiClient.GenerateAnswer(ctx, sessionID, prompt, func(chunk string) {
		s.mutex.Lock()
		s.currentAnswer += chunk
		cb := s.OnAnswerChunk
		s.mutex.Unlock()
		if cb != nil {
			cb(chunk)
		}
	})
	if err != nil {
		return "", err
	}

	s.mutex.Lock()
	s.currentAnswer = answer
	if len(s.questions) > 0 {
		s.questions[len(s.questions)-1].Answer = answer
	}
	s.mutex.Unlock()

	// Incremental save so an abrupt exit loses at most the last pair.
	saveCtx, saveCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer saveCancel()
	if err := s.apiClient.SaveSession(saveCtx, sessionID, []api.QA{{Question: question, Answer: answer}}); err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("Failed to save answered question")
	}

	return answer, nil
}

// CancelAnswer aborts an in-flight answer stream, if any. Independent of
// session stop.
func (s *InterviewSession) CancelAnswer() {
	s.mutex.RLock()
	cancel := s.answerCancel
	s.mutex.RUnlock()
	if cancel != nil {
		cancel()
	}
}

// ClearTranscript drops all transcript and answer state without touching the
// capture pipeline.
func (s *InterviewSession) ClearTranscript() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.questions = nil
	s.interim = ""
	s.rolling = ""
	s.currentAnswer = ""
}

// Questions returns a snapshot of the finalized question list in order.
func (s *InterviewSession) Questions() []Question {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	out := make([]Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// InterimTranscript returns the latest partial recognition result.
func (s *InterviewSession) InterimTranscript() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.interim
}

// PendingQuestion returns the rolling transcript buffer used as the question
// text when the user asks for an answer before the utterance is finalized.
func (s *InterviewSession) PendingQuestion() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return strings.TrimSpace(s.rolling)
}

// CurrentAnswer returns the answer streamed so far for the latest question.
func (s *InterviewSession) CurrentAnswer() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.currentAnswer
}
