package kialo

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"
)

// Environment selects the browser launch profile.
type Environment string

const (
	// EnvEC2 runs headless with sandboxing and shared memory disabled, a
	// fixed viewport, and no GPU. Required on display-less servers.
	EnvEC2 Environment = "ec2"
	// EnvLocal runs a visible browser, useful for interactive debugging.
	EnvLocal Environment = "local"
)

// Credentials authenticate the automation against the Kialo login form.
type Credentials struct {
	Username string
	Password string
}

// Session owns exactly one browser process for the duration of one
// CreateDiscussion call. Sessions are not shared or reused; Close must run
// on every exit path.
type Session struct {
	ctx         context.Context
	cancel      context.CancelFunc
	cancelAlloc context.CancelFunc
}

func openSession(ctx context.Context, env Environment) (*Session, error) {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	switch env {
	case EnvEC2:
		opts = append(opts,
			chromedp.Flag("headless", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("disable-extensions", true),
			chromedp.Flag("disable-setuid-sandbox", true),
			chromedp.Flag("disable-infobars", true),
			chromedp.WindowSize(1920, 1080),
		)
	default:
		opts = append(opts, chromedp.Flag("headless", false))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancel := chromedp.NewContext(allocCtx)

	// Run with no actions forces the browser to launch now, so a missing
	// binary or a crash on startup is reported here rather than mid-workflow.
	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		cancelAlloc()
		return nil, fmt.Errorf("starting browser: %w", err)
	}

	return &Session{ctx: browserCtx, cancel: cancel, cancelAlloc: cancelAlloc}, nil
}

// Context returns the chromedp context all page operations must derive from.
func (s *Session) Context() context.Context { return s.ctx }

// Close terminates the browser process. Safe to call exactly once.
func (s *Session) Close() {
	s.cancel()
	s.cancelAlloc()
}
