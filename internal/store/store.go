package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"

	"github.com/crackify-ai/crackify-client/internal/api"
)

// FileStore archives finished interviews on disk, next to the best-effort
// backend flush: the raw question/answer pairs as JSONL and a readable
// markdown rendering.
type FileStore struct {
	baseDir string
}

func NewFileStore(baseDir string) (*FileStore, error) {
	interviewDir := filepath.Join(baseDir, "interviews")
	answersDir := filepath.Join(baseDir, "answers")

	if err := os.MkdirAll(interviewDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create interview directory: %w", err)
	}

	if err := os.MkdirAll(answersDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create answers directory: %w", err)
	}

	return &FileStore{
		baseDir: baseDir,
	}, nil
}

// SaveInterview writes the session's question/answer pairs as JSONL and a
// markdown rendering, returning the JSONL path.
func (s *FileStore) SaveInterview(sessionID string, pairs []api.QA) (string, error) {
	filename := fmt.Sprintf("%s.jsonl", sessionID)
	path := filepath.Join(s.baseDir, "interviews", filename)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create interview file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	for _, pair := range pairs {
		if err := encoder.Encode(pair); err != nil {
			return "", fmt.Errorf("failed to encode question: %w", err)
		}
	}

	if err := s.saveAnswers(sessionID, pairs); err != nil {
		return "", err
	}

	log.Info().
		Str("session_id", sessionID).
		Str("file", path).
		Int("questions", len(pairs)).
		Msg("Saved interview")

	return path, nil
}

func (s *FileStore) saveAnswers(sessionID string, pairs []api.QA) error {
	filename := fmt.Sprintf("%s.md", sessionID)
	path := filepath.Join(s.baseDir, "answers", filename)

	var md []byte
	for i, pair := range pairs {
		md = append(md, fmt.Sprintf("## Q%d: %s\n\n%s\n\n", i+1, pair.Question, pair.Answer)...)
	}

	if err := os.WriteFile(path, md, 0644); err != nil {
		return fmt.Errorf("failed to write answers file: %w", err)
	}
	return nil
}

// LoadInterview reads a previously archived session back.
func (s *FileStore) LoadInterview(sessionID string) ([]api.QA, error) {
	filename := fmt.Sprintf("%s.jsonl", sessionID)
	path := filepath.Join(s.baseDir, "interviews", filename)

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open interview file: %w", err)
	}
	defer file.Close()

	var pairs []api.QA
	decoder := json.NewDecoder(file)

	for decoder.More() {
		var pair api.QA
		if err := decoder.Decode(&pair); err != nil {
			return nil, fmt.Errorf("failed to decode question: %w", err)
		}
		pairs = append(pairs, pair)
	}

	return pairs, nil
}

// GenerateSessionID mints a sortable local session id, used when the backend
// has not handed one out.
func GenerateSessionID() string {
	return fmt.Sprintf("session_%s", ulid.Make().String())
}
