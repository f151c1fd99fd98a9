// Package bench measures end-to-end generation latency against a running
// server through the JSON API.
package bench

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/kdduha/aidiagram/internal/models"
)

const diagramsPath = "/api/diagrams"

type Case struct {
	Type        models.DiagramType
	Description string
	Theme       models.Theme
}

type Result struct {
	Type        models.DiagramType
	Duration    time.Duration
	SourceBytes int
	Fenced      bool
	Err         error
}

type agg struct {
	count       int
	failed      int
	fenced      int
	total       time.Duration
	sourceBytes int
}

type catalog interface {
	Types() []models.DiagramType
	DefaultDescription(diagramType models.DiagramType) (string, error)
}

// DefaultCases returns one case per diagram type with its default description.
func DefaultCases(c catalog) ([]Case, error) {
	var cases []Case
	for _, t := range c.Types() {
		description, err := c.DefaultDescription(t)
		if err != nil {
			return nil, err
		}
		cases = append(cases, Case{Type: t, Description: description, Theme: models.ThemeDefault})
	}
	return cases, nil
}

type Runner struct {
	client   *http.Client
	endpoint string
}

func NewRunner(serverURL string, timeout time.Duration) *Runner {
	return &Runner{
		client:   &http.Client{Timeout: timeout},
		endpoint: strings.TrimRight(serverURL, "/") + diagramsPath,
	}
}

// Run sends every case repeat times, one request at a time. onResult, if set,
// is called after each request.
func (r *Runner) Run(ctx context.Context, cases []Case, repeat int, onResult func(Result)) []Result {
	if repeat < 1 {
		repeat = 1
	}

	var results []Result
	for _, c := range cases {
		for i := 0; i < repeat; i++ {
			if ctx.Err() != nil {
				return results
			}
			res := r.runCase(ctx, c)
			if onResult != nil {
				onResult(res)
			}
			results = append(results, res)
		}
	}
	return results
}

func (r *Runner) runCase(ctx context.Context, c Case) Result {
	start := time.Now()

	resp, err := r.send(ctx, models.DiagramRequest{
		DiagramType: c.Type,
		Description: c.Description,
		Theme:       c.Theme,
	})
	res := Result{
		Type:     c.Type,
		Duration: time.Since(start),
		Err:      err,
	}
	if err == nil {
		res.SourceBytes = len(resp.Source)
		res.Fenced = resp.Fenced
	}
	return res
}

func (r *Runner) send(ctx context.Context, req models.DiagramRequest) (*models.DiagramResponse, error) {
	body, err := sonic.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal req: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr models.ErrorResponse
		if sonic.Unmarshal(raw, &apiErr) == nil && apiErr.Code != "" {
			return nil, fmt.Errorf("bad status %d: %s: %s", resp.StatusCode, apiErr.Code, apiErr.Message)
		}
		return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out models.DiagramResponse
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

func aggregate(results []Result) map[models.DiagramType]agg {
	m := map[models.DiagramType]agg{}
	for _, r := range results {
		a := m[r.Type]
		a.count++
		if r.Err != nil {
			a.failed++
			m[r.Type] = a
			continue
		}
		if r.Fenced {
			a.fenced++
		}
		a.total += r.Duration
		a.sourceBytes += r.SourceBytes
		m[r.Type] = a
	}
	return m
}

// WriteMarkdown writes per-type averages over the successful requests.
func WriteMarkdown(w io.Writer, results []Result) {
	fmt.Fprint(w, "\n## Benchmark Results\n\n")
	fmt.Fprintln(w, "| Diagram Type | Requests | Failed | Fenced | Avg Time | Total Time | Avg Source Size |")
	fmt.Fprintln(w, "|--------------|----------|--------|--------|----------|------------|-----------------|")

	m := aggregate(results)
	types := make([]models.DiagramType, 0, len(m))
	for t := range m {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	var all agg
	for _, t := range types {
		a := m[t]
		writeRow(w, string(t), a)
		all.count += a.count
		all.failed += a.failed
		all.fenced += a.fenced
		all.total += a.total
		all.sourceBytes += a.sourceBytes
	}

	if all.count > 0 {
		writeRow(w, "**ALL**", all)
	}
}

func writeRow(w io.Writer, name string, a agg) {
	ok := a.count - a.failed
	if ok == 0 {
		fmt.Fprintf(w, "| %s | %d | %d | 0 | - | - | - |\n", name, a.count, a.failed)
		return
	}
	avg := a.total / time.Duration(ok)
	fmt.Fprintf(w, "| %s | %d | %d | %d | %v | %v | %s |\n",
		name,
		a.count,
		a.failed,
		a.fenced,
		avg.Round(time.Millisecond),
		a.total.Round(time.Millisecond),
		humanBytes(int64(a.sourceBytes/ok)),
	)
}

func humanBytes(size int64) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case size >= MB:
		return fmt.Sprintf("%.2f MB", float64(size)/MB)
	case size >= KB:
		return fmt.Sprintf("%.2f KB", float64(size)/KB)
	default:
		return fmt.Sprintf("%d B", size)
	}
}
