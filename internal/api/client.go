package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// QA is one question/answer pair as persisted by the backend.
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Client talks to the Crackify backend REST API. Every request carries the
// bearer token; the client never inspects or refreshes it.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		// Answer streams stay open as long as the model generates, so the
		// client itself has no overall timeout; callers cancel via context.
		httpClient: &http.Client{},
	}
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	return resp, nil
}

// ClassifyQuestion asks the backend which prompt template fits the question.
// Callers fall back to the scenario template when this fails.
func (c *Client) ClassifyQuestion(ctx context.Context, question string) (string, error) {
	resp, err := c.postJSON(ctx, "/classify_question", map[string]string{"question": question})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read classify response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("classify_question returned %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode classify response: %w", err)
	}

	log.Debug().Str("type", result.Type).Msg("Classified question")
	return result.Type, nil
}

// GenerateAnswer streams the AI answer for the given prompt. Each received
// chunk is passed to onChunk in arrival order; the concatenated answer is
// returned once the stream ends. Cancelling ctx stops the read and returns
// whatever accumulated so far without an error.
func (c *Client) GenerateAnswer(ctx context.Context, sessionID, prompt string, onChunk func(string)) (string, error) {
	started := time.Now()

	resp, err := c.postJSON(ctx, "/generate_answer", map[string]string{
		"session_id": sessionID,
		"question":   prompt,
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("generate_answer returned %d: %s", resp.StatusCode, string(body))
	}

	var answer bytes.Buffer
	buf := make([]byte, 4096)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			chunk := string(buf[:n])
			answer.WriteString(chunk)
			if onChunk != nil {
				onChunk(chunk)
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if ctx.Err() != nil {
				// User cancelled the stream; the partial answer stands.
				log.Info().
					Int("answer_len", answer.Len()).
					Dur("elapsed", time.Since(started)).
					Msg("Answer stream cancelled")
				return answer.String(), nil
			}
			return answer.String(), fmt.Errorf("answer stream failed: %w", err)
		}
	}

	log.Debug().
		Int("answer_len", answer.Len()).
		Dur("elapsed", time.Since(started)).
		Msg("Answer stream completed")

	return answer.String(), nil
}

// SaveSession persists a batch of question/answer pairs for the session.
// Used incrementally after each generated answer and once more at session end.
func (c *Client) SaveSession(ctx context.Context, sessionID string, pairs []QA) error {
	resp, err := c.postJSON(ctx, "/save_session", map[string]any{
		"session_id": sessionID,
		"questions":  pairs,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("save_session returned %d: %s", resp.StatusCode, string(body))
	}

	log.Debug().
		Str("session_id", sessionID).
		Int("pairs", len(pairs)).
		Msg("Saved session questions")
	return nil
}
