// Package engine provides the bill processing orchestration logic for
// billforge. It depends only on interfaces (store, eventbus, scraper, llm,
// kialo, webflow, notify).
package engine

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/civigen/billforge/eventbus"
	"github.com/civigen/billforge/kialo"
	"github.com/civigen/billforge/model"
	"github.com/civigen/billforge/notify"
	"github.com/civigen/billforge/pdfgen"
	"github.com/civigen/billforge/scraper"
	"github.com/civigen/billforge/store"
	"github.com/civigen/billforge/webflow"
)

// BillFetcher fetches bill details from a legislature site.
type BillFetcher interface {
	FetchBillDetails(ctx context.Context, billPageURL string) (*scraper.BillDetails, error)
}

// TextGenerator produces the summary and debate arguments for a bill.
type TextGenerator interface {
	Summarize(ctx context.Context, fullText string) (string, error)
	GeneratePros(ctx context.Context, fullText string) (string, error)
	GenerateCons(ctx context.Context, fullText string) (string, error)
}

// DiscussionPublisher creates a Kialo discussion and returns its URL.
type DiscussionPublisher interface {
	CreateDiscussion(ctx context.Context, req kialo.DiscussionRequest) (string, error)
}

// CMSPublisher publishes a bill item to the CMS.
type CMSPublisher interface {
	CreateLiveItem(ctx context.Context, fields webflow.ItemFields) (*webflow.Item, error)
}

// PDFWriter renders the bill summary document.
type PDFWriter func(d pdfgen.Details, outPath string) error

// Config holds engine-specific configuration.
type Config struct {
	// DataDir is where generated artifacts (summary PDFs) are written.
	DataDir string

	// ContinueWithoutDiscussion keeps a run going when the Kialo workflow
	// fails; the CMS item is then published without a discussion link.
	ContinueWithoutDiscussion bool
}

// Engine orchestrates bill processing run lifecycle.
type Engine struct {
	config     Config
	store      store.Store
	bus        eventbus.Bus
	fetcher    BillFetcher
	generator  TextGenerator
	discussion DiscussionPublisher
	cms        CMSPublisher
	pdf        PDFWriter
	notifier   notify.Notifier

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Engine with all dependencies.
func New(
	cfg Config,
	st store.Store,
	bus eventbus.Bus,
	fetcher BillFetcher,
	generator TextGenerator,
	discussion DiscussionPublisher,
	cms CMSPublisher,
	pdf PDFWriter,
	notifier notify.Notifier,
) *Engine {
	if pdf == nil {
		pdf = pdfgen.CreateSummaryPDF
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Engine{
		config:     cfg,
		store:      st,
		bus:        bus,
		fetcher:    fetcher,
		generator:  generator,
		discussion: discussion,
		cms:        cms,
		pdf:        pdf,
		notifier:   notifier,
	}
}

// Start prepares the engine for background runs. Call Stop to shut down.
func (e *Engine) Start(ctx context.Context) {
	e.ctx, e.cancel = context.WithCancel(ctx)
}

// Stop cancels all background work and waits for in-flight runs to finish.
func (e *Engine) Stop() {
	if e.cancel != nil {
		e.cancel()
	}
	e.wg.Wait()
}

// Store returns the bill store.
func (e *Engine) Store() store.Store { return e.store }

// Bus returns the event bus.
func (e *Engine) Bus() eventbus.Bus { return e.bus }

// CreateAndRunBill creates a run for a bill URL and processes it in the
// background.
func (e *Engine) CreateAndRunBill(billURL string, jurisdiction model.Jurisdiction, language string) (*model.Run, error) {
	if billURL == "" {
		return nil, fmt.Errorf("bill URL is required")
	}
	if jurisdiction == "" {
		jurisdiction = model.JurisdictionFL
	}
	if language == "" {
		language = "EN"
	}

	id := uuid.New().String()[:8]
	now := time.Now().UTC()
	run := &model.Run{
		ID:           id,
		BillURL:      billURL,
		Jurisdiction: jurisdiction,
		Language:     language,
		Status:       model.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := e.store.CreateRun(run); err != nil {
		return nil, fmt.Errorf("creating run: %w", err)
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.runBill(run.ID)
	}()

	return run, nil
}

func (e *Engine) runBill(runID string) {
	ctx := e.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	run, err := e.store.GetRun(runID)
	if err != nil {
		log.Printf("run %s not found while starting: %v", runID, err)
		return
	}

	run.Status = model.StatusRunning
	run.UpdatedAt = time.Now().UTC()
	e.store.UpdateRun(run)

	e.emitEvent(run.ID, "status", "Fetching bill details...")
	details, err := e.fetcher.FetchBillDetails(ctx, run.BillURL)
	if err != nil {
		e.failRun(run, fmt.Sprintf("fetching bill details: %v", err))
		return
	}
	if details.Title == "" {
		e.failRun(run, "bill page has no title")
		return
	}
	e.emitEvent(run.ID, "status", fmt.Sprintf("Fetched %s", details.Title))

	// The scraped description stands in for the bill text when generating
	// the summary and arguments.
	sourceText := details.Description
	if sourceText == "" {
		sourceText = details.Title
	}

	e.emitEvent(run.ID, "status", "Generating summary...")
	summary, err := e.generator.Summarize(ctx, sourceText)
	if err != nil {
		e.failRun(run, fmt.Sprintf("generating summary: %v", err))
		return
	}

	e.emitEvent(run.ID, "status", "Generating arguments...")
	pros, err := e.generator.GeneratePros(ctx, summary)
	if err != nil {
		e.failRun(run, fmt.Sprintf("generating pros: %v", err))
		return
	}
	cons, err := e.generator.GenerateCons(ctx, summary)
	if err != nil {
		e.failRun(run, fmt.Sprintf("generating cons: %v", err))
		return
	}

	bill := &model.Bill{
		GovID:       details.GovID,
		Title:       details.Title,
		Description: details.Description,
		SourceURL:   details.SourceURL,
		TextPath:    details.PDFPath,
	}
	if err := e.store.CreateBill(bill); err != nil {
		e.failRun(run, fmt.Sprintf("recording bill: %v", err))
		return
	}
	run.BillID = bill.ID
	run.UpdatedAt = time.Now().UTC()
	e.store.UpdateRun(run)

	for _, meta := range []struct {
		typ  model.MetaType
		text string
	}{
		{model.MetaSummary, summary},
		{model.MetaPro, pros},
		{model.MetaCon, cons},
	} {
		if err := e.store.AddBillMeta(&model.BillMeta{
			BillID:   bill.ID,
			Type:     meta.typ,
			Text:     meta.text,
			Language: run.Language,
		}); err != nil {
			e.failRun(run, fmt.Sprintf("recording bill %s: %v", meta.typ, err))
			return
		}
	}

	if e.config.DataDir != "" {
		e.emitEvent(run.ID, "status", "Writing summary PDF...")
		pdfPath := filepath.Join(e.config.DataDir, fmt.Sprintf("bill_summary_%s.pdf", run.ID))
		err := e.pdf(pdfgen.Details{
			Title:     details.Title,
			GovID:     details.GovID,
			SourceURL: details.SourceURL,
			Summary:   summary,
			Pros:      pros,
			Cons:      cons,
		}, pdfPath)
		if err != nil {
			log.Printf("Summary PDF failed for run %s (continuing): %v", run.ID, err)
			e.emitEvent(run.ID, "status", "Summary PDF failed, continuing")
		}
	}

	e.emitEvent(run.ID, "status", "Creating Kialo discussion...")
	discussionURL, err := e.discussion.CreateDiscussion(ctx, kialo.DiscussionRequest{
		Title:   details.Title,
		Summary: summary,
		ProsRaw: pros,
		ConsRaw: cons,
	})
	if err != nil {
		if !e.config.ContinueWithoutDiscussion {
			e.failRun(run, fmt.Sprintf("creating discussion: %v", err))
			return
		}
		log.Printf("Kialo workflow failed for run %s (continuing without discussion): %v", run.ID, err)
		e.emitEvent(run.ID, "error", fmt.Sprintf("discussion failed: %v", err))
		e.emitEvent(run.ID, "status", "Continuing without discussion")
	} else {
		run.DiscussionURL = discussionURL
		run.UpdatedAt = time.Now().UTC()
		e.store.UpdateRun(run)
		e.emitEvent(run.ID, "output", discussionURL)
	}

	e.emitEvent(run.ID, "status", "Publishing CMS item...")
	item, err := e.cms.CreateLiveItem(ctx, webflow.ItemFields{
		Title:        details.Title,
		Description:  details.Description,
		Jurisdiction: string(run.Jurisdiction),
		KialoURL:     run.DiscussionURL,
		GovURL:       details.SourceURL,
		Support:      pros,
		Oppose:       cons,
	})
	if err != nil {
		e.failRun(run, fmt.Sprintf("publishing CMS item: %v", err))
		return
	}

	run.WebflowItemID = item.ID
	run.Status = model.StatusComplete
	run.UpdatedAt = time.Now().UTC()
	e.store.UpdateRun(run)
	e.emitEvent(run.ID, "done", item.ID)

	if err := e.notifier.RunCompleted(ctx, run, bill); err != nil {
		log.Printf("Completion notification failed for run %s: %v", run.ID, err)
	}
}

func (e *Engine) failRun(run *model.Run, errMsg string) {
	log.Printf("Run %s failed: %s", run.ID, errMsg)
	run.Status = model.StatusError
	run.Error = errMsg
	run.UpdatedAt = time.Now().UTC()
	e.store.UpdateRun(run)
	e.emitEvent(run.ID, "error", errMsg)

	ctx := e.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if err := e.notifier.RunFailed(ctx, run); err != nil {
		log.Printf("Failure notification failed for run %s: %v", run.ID, err)
	}
}

func (e *Engine) emitEvent(runID, eventType, data string) {
	event := &model.Event{
		RunID:     runID,
		Type:      eventType,
		Data:      data,
		CreatedAt: time.Now().UTC(),
	}
	if err := e.store.AddEvent(event); err != nil {
		log.Printf("Error storing event: %v", err)
	}
	e.bus.Publish(runID, event)
}
