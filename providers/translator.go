package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/abadojack/whatlanggo"

	"babelroom/domain"
)

type HTTPTranslator struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

func NewHTTPTranslator(baseURL string, client *http.Client, timeout time.Duration) *HTTPTranslator {
	return &HTTPTranslator{baseURL: baseURL, client: client, timeout: timeout}
}

type translateRequest struct {
	Text           string `json:"text"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
}

type translateResponse struct {
	Text string `json:"text"`
}

// Translate asks the translation backend for the target language rendition.
// An empty input short-circuits to an empty result.
func (t *HTTPTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	if text == "" {
		return "", nil
	}
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	body, err := json.Marshal(translateRequest{Text: text, SourceLanguage: source, TargetLanguage: target})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/v1/translate", bytes.NewReader(body))
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
		return "", fmt.Errorf("translator answered %s", res.Status)
	}

	var out translateResponse
	if err = json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.Text, nil
}

// DetectLanguage runs locally: no round trip for a hint the caller can
// compute from the text itself.
func (t *HTTPTranslator) DetectLanguage(text string) string {
	if text == "" {
		return domain.DefaultLanguage
	}
	info := whatlanggo.Detect(text)
	code := info.Lang.Iso6391()
	if code == "" {
		return domain.DefaultLanguage
	}
	return code
}
