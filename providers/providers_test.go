package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"babelroom/domain"
)

const testTimeout = 2 * time.Second

func TestHTTPTranscriber_Transcribe(t *testing.T) {
	req := require.New(t)

	// Given a backend echoing the utterance it recognized
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/transcribe", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		var in transcribeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		require.Equal(t, []byte("pcm"), in.Audio)
		require.Equal(t, "en", in.Language)
		json.NewEncoder(w).Encode(transcribeResponse{Text: "hello"})
	}))
	defer server.Close()
	transcriber := NewHTTPTranscriber(server.URL, server.Client(), testTimeout)

	text, err := transcriber.Transcribe(context.Background(), []byte("pcm"), "en")

	req.NoError(err)
	req.Equal("hello", text)
}

func TestHTTPTranscriber_SilenceIsNotAnError(t *testing.T) {
	req := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(transcribeResponse{Text: ""})
	}))
	defer server.Close()
	transcriber := NewHTTPTranscriber(server.URL, server.Client(), testTimeout)

	text, err := transcriber.Transcribe(context.Background(), []byte("pcm"), "en")

	req.NoError(err)
	req.Empty(text)
}

func TestHTTPTranscriber_BackendErrorSurfaces(t *testing.T) {
	req := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()
	transcriber := NewHTTPTranscriber(server.URL, server.Client(), testTimeout)

	_, err := transcriber.Transcribe(context.Background(), []byte("pcm"), "en")

	req.Error(err)
}

func TestHTTPTranslator_Translate(t *testing.T) {
	req := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/translate", r.URL.Path)
		var in translateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		require.Equal(t, "hello", in.Text)
		require.Equal(t, "en", in.SourceLanguage)
		require.Equal(t, "es", in.TargetLanguage)
		json.NewEncoder(w).Encode(translateResponse{Text: "hola"})
	}))
	defer server.Close()
	translator := NewHTTPTranslator(server.URL, server.Client(), testTimeout)

	text, err := translator.Translate(context.Background(), "hello", "en", "es")

	req.NoError(err)
	req.Equal("hola", text)
}

func TestHTTPTranslator_EmptyInputSkipsTheRoundTrip(t *testing.T) {
	req := require.New(t)

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()
	translator := NewHTTPTranslator(server.URL, server.Client(), testTimeout)

	text, err := translator.Translate(context.Background(), "", "en", "es")

	req.NoError(err)
	req.Empty(text)
	req.Equal(int32(0), hits.Load())
}

func TestHTTPTranslator_DetectLanguage(t *testing.T) {
	req := require.New(t)
	translator := NewHTTPTranslator("http://unused", http.DefaultClient, testTimeout)

	// Cyrillic script leaves no ambiguity
	req.Equal("ru", translator.DetectLanguage("Привет, как дела у тебя сегодня?"))

	// Empty or undetectable text falls back to the default
	req.Equal(domain.DefaultLanguage, translator.DetectLanguage(""))
}

func TestHTTPSynthesizer_Synthesize(t *testing.T) {
	req := require.New(t)

	// Given a backend that checks the resolved voice and answers raw audio
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/synthesize", r.URL.Path)
		var in synthesizeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		require.Equal(t, "hola", in.Text)
		require.Equal(t, "es", in.Language)
		require.Equal(t, "Lucia", in.Voice)
		w.Write([]byte{0xCA, 0xFE})
	}))
	defer server.Close()
	synthesizer := NewHTTPSynthesizer(server.URL, server.Client(), testTimeout)

	audio, err := synthesizer.Synthesize(context.Background(), "hola", "es")

	req.NoError(err)
	req.Equal([]byte{0xCA, 0xFE}, audio)
}

func TestHTTPSynthesizer_EmptyTextSkipsTheRoundTrip(t *testing.T) {
	req := require.New(t)

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()
	synthesizer := NewHTTPSynthesizer(server.URL, server.Client(), testTimeout)

	audio, err := synthesizer.Synthesize(context.Background(), "", "es")

	req.NoError(err)
	req.Nil(audio)
	req.Equal(int32(0), hits.Load())
}

func TestHTTPSynthesizer_BackendErrorSurfaces(t *testing.T) {
	req := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()
	synthesizer := NewHTTPSynthesizer(server.URL, server.Client(), testTimeout)

	_, err := synthesizer.Synthesize(context.Background(), "hola", "es")

	req.Error(err)
}
