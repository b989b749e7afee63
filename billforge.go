// Package billforge is the top-level entry point for the billforge service.
//
// Use the Builder to compose a custom billforge application:
//
//	app, err := billforge.NewBuilder().Build()
//	app.Start(ctx)
//
// Or customize individual components:
//
//	app, err := billforge.NewBuilder().
//	    WithStore(myStore).
//	    WithDiscussionPublisher(myPublisher).
//	    Build()
package billforge

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/civigen/billforge/engine"
	"github.com/civigen/billforge/eventbus"
	"github.com/civigen/billforge/httpapi"
	"github.com/civigen/billforge/notify"
	"github.com/civigen/billforge/store"
)

// Config holds top-level configuration for a billforge application.
type Config struct {
	// ServerAddr is the address the HTTP server listens on (default ":7090").
	ServerAddr string

	// DataDir is the directory for persistent data (default "~/.billforge").
	DataDir string

	// DatabasePath is the full path to the SQLite database file.
	DatabasePath string

	// OpenAIAPIKey authenticates the LLM calls.
	OpenAIAPIKey string

	// OpenAIModel overrides both default chat models when set.
	OpenAIModel string

	// Kialo automation settings.
	KialoUsername  string
	KialoPassword  string
	KialoEnv       string // "ec2" (headless) or "local"
	KialoImagePath string
	KialoTag       string

	// Webflow CMS settings.
	WebflowAPIKey        string
	WebflowCollectionID  string
	WebflowSiteID        string
	WebflowJurisdictions map[string]string

	// Slack notification settings. Both must be set to enable notifications.
	SlackBotToken string
	SlackChannel  string

	// AckTimeout bounds how long POST /api/runs blocks before answering 202
	// (default 39s).
	AckTimeout time.Duration

	// ContinueWithoutDiscussion publishes the CMS item even when the Kialo
	// automation fails (default true via the serve command).
	ContinueWithoutDiscussion bool
}

// Builder constructs a billforge App.
type Builder struct {
	config     Config
	store      store.Store
	bus        eventbus.Bus
	fetcher    engine.BillFetcher
	generator  engine.TextGenerator
	discussion engine.DiscussionPublisher
	cms        engine.CMSPublisher
	pdf        engine.PDFWriter
	notifier   notify.Notifier
}

// NewBuilder creates a new Builder with sensible defaults.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithConfig sets the application configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithStore sets the store implementation.
func (b *Builder) WithStore(s store.Store) *Builder {
	b.store = s
	return b
}

// WithBus sets the event bus implementation.
func (b *Builder) WithBus(bus eventbus.Bus) *Builder {
	b.bus = bus
	return b
}

// WithFetcher sets the bill page fetcher.
func (b *Builder) WithFetcher(f engine.BillFetcher) *Builder {
	b.fetcher = f
	return b
}

// WithTextGenerator sets the summary/arguments generator.
func (b *Builder) WithTextGenerator(g engine.TextGenerator) *Builder {
	b.generator = g
	return b
}

// WithDiscussionPublisher sets the Kialo publisher implementation.
func (b *Builder) WithDiscussionPublisher(d engine.DiscussionPublisher) *Builder {
	b.discussion = d
	return b
}

// WithCMSPublisher sets the CMS publisher implementation.
func (b *Builder) WithCMSPublisher(c engine.CMSPublisher) *Builder {
	b.cms = c
	return b
}

// WithPDFWriter sets the summary PDF renderer.
func (b *Builder) WithPDFWriter(w engine.PDFWriter) *Builder {
	b.pdf = w
	return b
}

// WithNotifier sets the run outcome notifier.
func (b *Builder) WithNotifier(n notify.Notifier) *Builder {
	b.notifier = n
	return b
}

// Build creates the App. Missing components are filled with defaults.
func (b *Builder) Build() (*App, error) {
	if err := applyDefaults(b); err != nil {
		return nil, err
	}

	eng := engine.New(
		engine.Config{
			DataDir:                   b.config.DataDir,
			ContinueWithoutDiscussion: b.config.ContinueWithoutDiscussion,
		},
		b.store,
		b.bus,
		b.fetcher,
		b.generator,
		b.discussion,
		b.cms,
		b.pdf,
		b.notifier,
	)

	handler := httpapi.New(eng, httpapi.WithAckTimeout(b.config.AckTimeout))

	return &App{
		config:  b.config,
		engine:  eng,
		handler: handler,
	}, nil
}

// App is a running billforge application.
type App struct {
	config  Config
	engine  *engine.Engine
	handler *httpapi.Handler
}

// Engine returns the underlying engine for direct access.
func (a *App) Engine() *engine.Engine { return a.engine }

// Start starts the HTTP server. Blocks until ctx is done.
func (a *App) Start(ctx context.Context) error {
	a.engine.Start(ctx)

	srv := &http.Server{
		Addr:    a.config.ServerAddr,
		Handler: a.handler.Router(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("billforge server listening on %s", a.config.ServerAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	a.engine.Stop()
	return a.engine.Store().Close()
}
