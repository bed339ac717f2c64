package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"babelroom/domain"
)

type HTTPSynthesizer struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

func NewHTTPSynthesizer(baseURL string, client *http.Client, timeout time.Duration) *HTTPSynthesizer {
	return &HTTPSynthesizer{baseURL: baseURL, client: client, timeout: timeout}
}

type synthesizeRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Voice    string `json:"voice"`
}

// Synthesize renders text to speech. The voice is resolved from the language
// tag through the static registry; the response body is the raw audio.
func (s *HTTPSynthesizer) Synthesize(ctx context.Context, text, language string) ([]byte, error) {
	if text == "" {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	body, err := json.Marshal(synthesizeRequest{Text: text, Language: language, Voice: domain.VoiceFor(language)})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/synthesize", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("synthesizer answered %s", res.Status)
	}
	return io.ReadAll(res.Body)
}
