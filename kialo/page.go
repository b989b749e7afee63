package kialo

import (
	"context"
	"strings"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
)

// page abstracts the browser operations the workflow driver needs. The real
// implementation drives chromedp; tests substitute a scripted fake so the
// state machine can be exercised without a browser.
type page interface {
	Navigate(ctx context.Context, url string) error
	WaitVisible(ctx context.Context, sel string) error
	Click(ctx context.Context, sel string) error
	Clear(ctx context.Context, sel string) error
	SendKeys(ctx context.Context, sel, text string) error
	PressEnter(ctx context.Context, sel string) error
	SetUploadFiles(ctx context.Context, sel, path string) error
	Evaluate(ctx context.Context, js string) error
	Location(ctx context.Context) (string, error)
}

// chromedpPage implements page on top of a live chromedp session. Selectors
// starting with "//" are XPath, everything else is a CSS query.
type chromedpPage struct{}

func selOpt(sel string) chromedp.QueryOption {
	if strings.HasPrefix(sel, "//") {
		return chromedp.BySearch
	}
	return chromedp.ByQuery
}

func (chromedpPage) Navigate(ctx context.Context, url string) error {
	return chromedp.Run(ctx, chromedp.Navigate(url), chromedp.WaitReady("body", chromedp.ByQuery))
}

func (chromedpPage) WaitVisible(ctx context.Context, sel string) error {
	return chromedp.Run(ctx, chromedp.WaitVisible(sel, selOpt(sel)))
}

func (chromedpPage) Click(ctx context.Context, sel string) error {
	return chromedp.Run(ctx, chromedp.Click(sel, selOpt(sel)))
}

func (chromedpPage) Clear(ctx context.Context, sel string) error {
	return chromedp.Run(ctx, chromedp.Clear(sel, selOpt(sel)))
}

func (chromedpPage) SendKeys(ctx context.Context, sel, text string) error {
	return chromedp.Run(ctx, chromedp.SendKeys(sel, text, selOpt(sel)))
}

func (chromedpPage) PressEnter(ctx context.Context, sel string) error {
	return chromedp.Run(ctx, chromedp.SendKeys(sel, kb.Enter, selOpt(sel)))
}

func (chromedpPage) SetUploadFiles(ctx context.Context, sel, path string) error {
	return chromedp.Run(ctx, chromedp.SetUploadFiles(sel, []string{path}, selOpt(sel)))
}

func (chromedpPage) Evaluate(ctx context.Context, js string) error {
	return chromedp.Run(ctx, chromedp.Evaluate(js, nil))
}

func (chromedpPage) Location(ctx context.Context) (string, error) {
	var url string
	if err := chromedp.Run(ctx, chromedp.Location(&url)); err != nil {
		return "", err
	}
	return url, nil
}
