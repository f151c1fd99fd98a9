package generation

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/bytedance/sonic"
	"github.com/kdduha/aidiagram/internal/apperrors"
	"github.com/kdduha/aidiagram/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOllamaTestClient(url string) *OllamaClient {
	return NewOllamaClient(config.GenerationConfig{
		Provider: config.ProviderOllama,
		URL:      url,
		Model:    "llama3",
	})
}

func TestOllamaClient_Success(t *testing.T) {
	var got ollamaRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, sonic.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"model":"llama3","response":"graph LR\nA-->B","done":true}`)
	}))
	defer srv.Close()

	text, err := newOllamaTestClient(srv.URL).Generate(context.Background(), "draw it")
	require.NoError(t, err)

	assert.Equal(t, "graph LR\nA-->B", text)
	assert.Equal(t, ollamaRequest{Model: "llama3", Prompt: "draw it", Stream: false}, got)
}

func TestOllamaClient_StreamAlwaysFalseOnTheWire(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), `"stream":false`)
		_, _ = io.WriteString(w, `{"response":""}`)
	}))
	defer srv.Close()

	text, err := newOllamaTestClient(srv.URL).Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestOllamaClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"server error", http.StatusInternalServerError, "model crashed", apperrors.ErrServiceError},
		{"not found", http.StatusNotFound, `{"error":"model 'llama3' not found"}`, apperrors.ErrServiceError},
		{"invalid json", http.StatusOK, "<html>", apperrors.ErrMalformedResponse},
		{"missing field", http.StatusOK, `{"done":true}`, apperrors.ErrMalformedResponse},
		{"wrong field type", http.StatusOK, `{"response":42}`, apperrors.ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := newOllamaTestClient(srv.URL).Generate(context.Background(), "p")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestOllamaClient_ServiceErrorCarriesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newOllamaTestClient(srv.URL).Generate(context.Background(), "p")
	require.Error(t, err)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Message, "503")
	assert.Equal(t, "overloaded", appErr.Details)
}

func TestOllamaClient_LongErrorBodyStaysValidUTF8(t *testing.T) {
	body := strings.Repeat("a", maxErrorBody-1) + strings.Repeat("é", 10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	_, err := newOllamaTestClient(srv.URL).Generate(context.Background(), "p")

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.True(t, utf8.ValidString(appErr.Details))
	assert.Equal(t, strings.Repeat("a", maxErrorBody-1)+"...", appErr.Details)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "ab...", truncate("abcdef", 2))
	assert.Equal(t, "a...", truncate("aéb", 2), "never splits a multi-byte rune")
	assert.Equal(t, "...", truncate("ééé", 1))
}

func TestOllamaClient_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newOllamaTestClient(url).Generate(context.Background(), "p")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrServiceUnavailable)
}

func TestOllamaClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	c := NewOllamaClient(config.GenerationConfig{URL: srv.URL, Model: "llama3", Timeout: 50 * time.Millisecond})
	_, err := c.Generate(context.Background(), "p")
	assert.ErrorIs(t, err, apperrors.ErrServiceUnavailable)
}

func TestOllamaClient_RejectsEmptyInput(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	_, err := newOllamaTestClient(srv.URL).Generate(context.Background(), "   ")
	assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)

	c := NewOllamaClient(config.GenerationConfig{URL: srv.URL})
	_, err = c.Generate(context.Background(), "p")
	assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)
	assert.False(t, called)
}
