package bench

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/kdduha/aidiagram/internal/models"
	"github.com/kdduha/aidiagram/internal/prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCases(t *testing.T) {
	cases, err := DefaultCases(prompt.MustNewRegistry())
	require.NoError(t, err)
	require.Len(t, cases, 3)
	assert.Equal(t, models.Flowchart, cases[0].Type)
	assert.NotEmpty(t, cases[0].Description)
	assert.Equal(t, models.ThemeDefault, cases[0].Theme)
}

func TestRunner_Run(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, diagramsPath, r.URL.Path)

		var req models.DiagramRequest
		assert.NoError(t, sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req))

		if req.DiagramType == models.ClassDiagram {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"code":"SERVICE_UNAVAILABLE","message":"generation endpoint unreachable"}`))
			return
		}
		data, _ := sonic.Marshal(models.DiagramResponse{
			DiagramType: req.DiagramType,
			Source:      "graph LR",
			Fenced:      true,
		})
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	cases := []Case{
		{Type: models.Flowchart, Description: "a"},
		{Type: models.ClassDiagram, Description: "b"},
	}

	var seen int
	results := NewRunner(srv.URL+"/", 5*time.Second).Run(context.Background(), cases, 2, func(Result) { seen++ })
	require.Len(t, results, 4)
	assert.Equal(t, 4, seen)

	assert.NoError(t, results[0].Err)
	assert.Equal(t, len("graph LR"), results[0].SourceBytes)
	assert.True(t, results[0].Fenced)

	require.Error(t, results[2].Err)
	assert.Contains(t, results[2].Err.Error(), "bad status 503: SERVICE_UNAVAILABLE")
}

func TestRunner_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := NewRunner("http://127.0.0.1:1", time.Second).Run(ctx, []Case{{Type: models.Flowchart}}, 3, nil)
	assert.Empty(t, results)
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	WriteMarkdown(&buf, []Result{
		{Type: models.Flowchart, Duration: 2 * time.Second, SourceBytes: 100, Fenced: true},
		{Type: models.Flowchart, Duration: 4 * time.Second, SourceBytes: 300},
		{Type: models.ClassDiagram, Err: errors.New("boom")},
	})
	out := buf.String()

	assert.Contains(t, out, "| Flowchart | 2 | 0 | 1 | 3s | 6s | 200 B |")
	assert.Contains(t, out, "| Class Diagram | 1 | 1 | 0 | - | - | - |")
	assert.Contains(t, out, "| **ALL** | 3 | 1 | 1 | 3s | 6s | 200 B |")
}

func TestHumanBytes(t *testing.T) {
	assert.Equal(t, "512 B", humanBytes(512))
	assert.Equal(t, "1.50 KB", humanBytes(1536))
	assert.Equal(t, "2.00 MB", humanBytes(2*1024*1024))
}
