package httpapi

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/civigen/billforge/engine"
	"github.com/civigen/billforge/eventbus"
	"github.com/civigen/billforge/kialo"
	"github.com/civigen/billforge/model"
	"github.com/civigen/billforge/pdfgen"
	"github.com/civigen/billforge/scraper"
	sqliteStore "github.com/civigen/billforge/store/sqlite"
	"github.com/civigen/billforge/webflow"
)

// --- stubs ---

type stubFetcher struct{}

func (stubFetcher) FetchBillDetails(_ context.Context, url string) (*scraper.BillDetails, error) {
	return &scraper.BillDetails{
		Title:       "HB 23: Water Quality Improvements",
		Description: "An act relating to water quality.",
		GovID:       "HB 23",
		SourceURL:   url,
	}, nil
}

type stubGenerator struct{}

func (stubGenerator) Summarize(context.Context, string) (string, error) {
	return "A bill summary.", nil
}
func (stubGenerator) GeneratePros(context.Context, string) (string, error) {
	return "1) Pro.", nil
}
func (stubGenerator) GenerateCons(context.Context, string) (string, error) {
	return "1) Con.", nil
}

type stubDiscussion struct{ block chan struct{} }

func (s *stubDiscussion) CreateDiscussion(ctx context.Context, _ kialo.DiscussionRequest) (string, error) {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "https://www.kialo.com/water-quality-12345", nil
}

type stubCMS struct{}

func (stubCMS) CreateLiveItem(context.Context, webflow.ItemFields) (*webflow.Item, error) {
	return &webflow.Item{ID: "item-1", Slug: "a-bill"}, nil
}

// testEngine builds an Engine wired to a real SQLite store, in-memory bus,
// and stub collaborators. Good enough for HTTP handler tests.
func testEngine(t *testing.T, discussion *stubDiscussion) *engine.Engine {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := sqliteStore.New(dbPath)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	if discussion == nil {
		discussion = &stubDiscussion{}
	}
	noopPDF := func(pdfgen.Details, string) error { return nil }

	eng := engine.New(
		engine.Config{ContinueWithoutDiscussion: true},
		st, eventbus.NewInMemoryBus(),
		stubFetcher{}, stubGenerator{}, discussion, stubCMS{}, noopPDF, nil,
	)
	eng.Start(context.Background())
	t.Cleanup(eng.Stop)
	return eng
}

func TestHealthEndpoint(t *testing.T) {
	h := New(testEngine(t, nil))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	h.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "ok" {
		t.Fatalf("expected 'ok', got %q", w.Body.String())
	}
}

func TestCreateRunMissingURL(t *testing.T) {
	h := New(testEngine(t, nil))

	req := httptest.NewRequest(http.MethodPost, "/api/runs", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Router().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCreateRunInvalidJurisdiction(t *testing.T) {
	h := New(testEngine(t, nil))

	body := `{"bill_url":"https://www.flsenate.gov/bill","jurisdiction":"TX"}`
	req := httptest.NewRequest(http.MethodPost, "/api/runs", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Router().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCreateRunCompletesWithinAck(t *testing.T) {
	h := New(testEngine(t, nil), WithAckTimeout(5*time.Second))

	body := `{"bill_url":"https://www.flsenate.gov/Session/Bill/2024/23"}`
	req := httptest.NewRequest(http.MethodPost, "/api/runs", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Router().ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp createRunResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != model.StatusComplete {
		t.Fatalf("status = %q, error = %q", resp.Status, resp.Error)
	}
	if resp.DiscussionURL != "https://www.kialo.com/water-quality-12345" {
		t.Fatalf("discussion URL = %q", resp.DiscussionURL)
	}
}

func TestCreateRunAcksLongRuns(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	h := New(testEngine(t, &stubDiscussion{block: block}), WithAckTimeout(700*time.Millisecond))

	body := `{"bill_url":"https://www.flsenate.gov/Session/Bill/2024/23"}`
	req := httptest.NewRequest(http.MethodPost, "/api/runs", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Router().ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}
	var resp createRunResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID == "" {
		t.Fatal("expected run ID in 202 response")
	}
	if resp.Status != model.StatusRunning {
		t.Fatalf("status = %q", resp.Status)
	}
}

func TestListRunsEmpty(t *testing.T) {
	h := New(testEngine(t, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
	w := httptest.NewRecorder()
	h.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var runs []*model.Run
	if err := json.NewDecoder(w.Body).Decode(&runs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected empty list, got %d", len(runs))
	}
}

func TestGetRunNotFound(t *testing.T) {
	h := New(testEngine(t, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/runs/nope", nil)
	w := httptest.NewRecorder()
	h.Router().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestGetRunAfterCreate(t *testing.T) {
	eng := testEngine(t, nil)
	h := New(eng, WithAckTimeout(5*time.Second))

	body := `{"bill_url":"https://www.flsenate.gov/Session/Bill/2024/23","jurisdiction":"FL"}`
	req := httptest.NewRequest(http.MethodPost, "/api/runs", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Router().ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d", w.Code)
	}
	var created createRunResponse
	json.NewDecoder(w.Body).Decode(&created)

	req = httptest.NewRequest(http.MethodGet, "/api/runs/"+created.ID, nil)
	w = httptest.NewRecorder()
	h.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var run model.Run
	if err := json.NewDecoder(w.Body).Decode(&run); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if run.Jurisdiction != model.JurisdictionFL {
		t.Fatalf("jurisdiction = %q", run.Jurisdiction)
	}
}

func TestRunEventsNotFound(t *testing.T) {
	h := New(testEngine(t, nil))

	req := httptest.NewRequest(http.MethodGet, "/api/runs/nope/events", nil)
	w := httptest.NewRecorder()
	h.Router().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestRunEventsReplaysHistory(t *testing.T) {
	eng := testEngine(t, nil)
	h := New(eng, WithAckTimeout(5*time.Second))

	body := `{"bill_url":"https://www.flsenate.gov/Session/Bill/2024/23"}`
	req := httptest.NewRequest(http.MethodPost, "/api/runs", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Router().ServeHTTP(w, req)
	var created createRunResponse
	json.NewDecoder(w.Body).Decode(&created)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req = httptest.NewRequest(http.MethodGet, "/api/runs/"+created.ID+"/events", nil).WithContext(ctx)
	w = httptest.NewRecorder()
	h.Router().ServeHTTP(w, req)

	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}

	var sawDone bool
	scanner := bufio.NewScanner(w.Body)
	for scanner.Scan() {
		if strings.HasPrefix(scanner.Text(), "event: done") {
			sawDone = true
		}
	}
	if !sawDone {
		t.Fatal("expected replayed done event in SSE stream")
	}
}
