// Package providers holds the adapters for the external speech and
// translation capabilities. Each provider is an opaque blocking call invoked
// off the delivery path; callers treat any failure as an empty result.
package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type HTTPTranscriber struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

func NewHTTPTranscriber(baseURL string, client *http.Client, timeout time.Duration) *HTTPTranscriber {
	return &HTTPTranscriber{baseURL: baseURL, client: client, timeout: timeout}
}

type transcribeRequest struct {
	// Audio is base64-encoded by the standard json codec.
	Audio    []byte `json:"audio"`
	Language string `json:"language"`
}

type transcribeResponse struct {
	Text string `json:"text"`
}

// Transcribe sends one utterance to the speech-to-text backend.
// An empty text with a nil error means silence or failed recognition.
func (t *HTTPTranscriber) Transcribe(ctx context.Context, audio []byte, language string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	body, err := json.Marshal(transcribeRequest{Audio: audio, Language: language})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/v1/transcribe", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := t.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcriber answered %s", res.Status)
	}

	var out transcribeResponse
	if err = json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.Text, nil
}
