package kialo

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"
)

// Step identifies one state of the discussion-creation workflow. The
// sequence is strictly linear; any step failure aborts the remainder of the
// run. Partial discussions left on Kialo after a failure are not cleaned up.
type Step string

const (
	StepSessionInit          Step = "session_init"
	StepAuthenticate         Step = "authenticate"
	StepInitiateDiscussion   Step = "initiate_discussion"
	StepSelectVisibility     Step = "select_visibility"
	StepEnterMetadata        Step = "enter_metadata"
	StepUploadMedia          Step = "upload_media"
	StepTag                  Step = "tag"
	StepResolveDiscussionURL Step = "resolve_discussion_url"
	StepPopulateThesis       Step = "populate_thesis"
	StepPopulateArguments    Step = "populate_arguments"
	StepPublish              Step = "publish"
	StepFinalizeURL          Step = "finalize_url"
)

// Selectors are Kialo's UI contract. They can break without notice when the
// platform ships new markup; nothing here can detect that beyond timeouts.
const (
	selUsername          = `input[name="emailOrUsername"]`
	selPassword          = `input[name="password"]`
	selLoginButton       = `//button[@aria-label="Log In"]`
	selNewDiscussion     = `//button[@aria-label="New Discussion"]`
	selVisibilityRadio   = `.radio-option__input`
	selNextButton        = `//button[contains(@class, "icon-button") and contains(@aria-label, "Next")]`
	selNameField         = `.input-field__text-input`
	selThesisField       = `.top-node-text-editor__editor`
	selFileInput         = `input[type="file"][data-testid="image-upload-input-element"]`
	selUploadConfirm     = `//button[contains(@aria-label, "Drag and drop or click")]`
	selTagInput          = `input.pill-editor-input`
	selCreateButton      = `//button[contains(@class, "icon-button") and contains(@aria-label, "Create")]`
	selEnterButton       = `//button[contains(@class, "button") and contains(@aria-label, "Enter")]`
	selThesisEditor      = `//p[contains(text(), "Test Thesis")]`
	selThesisEditorAlt   = `//p[contains(text(), "S") or contains(text(), "H")]`
	selClaimEditor       = `//p[contains(@class, "notranslate") and contains(@dir, "auto")]`
	selSaveButton        = `//button[contains(@class, "save") and contains(@aria-label, "Save")]`
	selConfirmButton     = `//button[contains(@class, "button") and contains(@aria-label, "Confirm")]`
	selAddProClaim       = `//button[contains(@aria-label, "Add a new pro claim") and contains(@class, "hoverable")]`
	selAddConClaim       = `//button[contains(@aria-label, "Add a new con claim") and contains(@class, "hoverable")]`
	selShareButton       = `//button[@aria-label="Share"]`
	selPublishDiscussion = `//button[@aria-label="Publish Discussion"]`
	selPublishButton     = `//button[contains(@class, "icon-button") and contains(@aria-label, "Publish")]`
)

// placeholderThesis is what the creation wizard receives as the thesis. The
// real summary replaces it in the edit pass; the wizard step always submits
// this constant.
const placeholderThesis = "Test Thesis"

const (
	lookupAttempts   = 3
	lookupRetryPause = 500 * time.Millisecond
)

const forceFileInputJS = `(() => {
	const el = document.querySelector('input[type="file"][data-testid="image-upload-input-element"]');
	if (!el) return;
	el.style.height = '1px';
	el.style.width = '1px';
	el.style.opacity = 1;
	el.removeAttribute('hidden');
})()`

const fireFileChangeJS = `(() => {
	const el = document.querySelector('input[type="file"][data-testid="image-upload-input-element"]');
	if (el) el.dispatchEvent(new Event('change', { bubbles: true }));
})()`

// DiscussionRequest carries the material for one discussion. ProsRaw and
// ConsRaw are free-form LLM output expected to contain three numbered
// clauses each; fewer is tolerated via zero-padding.
type DiscussionRequest struct {
	Title   string
	Summary string
	ProsRaw string
	ConsRaw string
}

// Config configures the discussion publisher.
type Config struct {
	Credentials Credentials
	Environment Environment

	// BaseURL is the platform root (default "https://www.kialo.com").
	BaseURL string

	// ImagePath is the local image asset uploaded as the discussion media.
	ImagePath string

	// Tag is entered into the tag editor during creation (default "DDP").
	Tag string

	// StepTimeout bounds each wait for a UI element (default 10s).
	StepTimeout time.Duration

	// SettleDelay is the short fixed pause used where the UI has known
	// animation lag that polling alone does not absorb (default 1s).
	SettleDelay time.Duration

	// OnStep, if set, observes each workflow step as it begins.
	OnStep func(Step)
}

// Publisher creates Kialo discussions through browser automation. One call
// to CreateDiscussion owns one browser session for its whole duration.
type Publisher struct {
	cfg Config

	// openPage opens a browser session and returns the page, the base
	// context page operations must derive from, and a close function.
	// Tests replace this with a scripted fake.
	openPage func(ctx context.Context) (page, context.Context, func(), error)
}

// NewPublisher creates a Publisher with defaults applied.
func NewPublisher(cfg Config) *Publisher {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.kialo.com"
	}
	if cfg.Tag == "" {
		cfg.Tag = "DDP"
	}
	if cfg.StepTimeout == 0 {
		cfg.StepTimeout = 10 * time.Second
	}
	if cfg.SettleDelay == 0 {
		cfg.SettleDelay = time.Second
	}
	p := &Publisher{cfg: cfg}
	p.openPage = func(ctx context.Context) (page, context.Context, func(), error) {
		sess, err := openSession(ctx, cfg.Environment)
		if err != nil {
			return nil, nil, nil, err
		}
		return chromedpPage{}, sess.Context(), sess.Close, nil
	}
	return p
}

// CreateDiscussion runs the full creation workflow and returns the cleaned
// public discussion URL. The browser session is torn down on every exit
// path. The run is synchronous and cannot be cancelled mid-sequence; callers
// that stop waiting simply stop waiting, the browser run completes or fails
// on its own.
func (p *Publisher) CreateDiscussion(ctx context.Context, req DiscussionRequest) (string, error) {
	if strings.TrimSpace(req.Title) == "" {
		return "", errors.New("kialo: discussion title is required")
	}

	pros := FormatArguments(req.ProsRaw)
	cons := FormatArguments(req.ConsRaw)
	summary := TruncateSummary(req.Summary)

	pg, base, closeSession, err := p.openPage(ctx)
	if err != nil {
		return "", stepErr(KindSessionInit, StepSessionInit, err)
	}
	defer closeSession()

	d := &driver{cfg: p.cfg, pg: pg, base: base}
	return d.run(req.Title, summary, pros, cons)
}

// driver walks one discussion through the fixed step sequence.
type driver struct {
	cfg  Config
	pg   page
	base context.Context
}

func (d *driver) run(title, summary string, pros, cons [ClaimsPerSide]string) (string, error) {
	if err := d.authenticate(); err != nil {
		return "", err
	}
	if err := d.initiateDiscussion(); err != nil {
		return "", err
	}
	if err := d.selectVisibility(); err != nil {
		return "", err
	}
	if err := d.enterMetadata(title); err != nil {
		return "", err
	}
	if err := d.uploadMedia(); err != nil {
		return "", err
	}
	if err := d.tag(); err != nil {
		return "", err
	}
	if err := d.resolveDiscussionURL(); err != nil {
		return "", err
	}
	if err := d.populateThesis(summary); err != nil {
		return "", err
	}
	if err := d.populateArguments(pros, cons); err != nil {
		return "", err
	}
	if err := d.publish(); err != nil {
		return "", err
	}
	return d.finalizeURL()
}

func (d *driver) authenticate() error {
	d.begin(StepAuthenticate)
	if err := d.op(func(ctx context.Context) error {
		return d.pg.Navigate(ctx, d.cfg.BaseURL+"/my")
	}); err != nil {
		return stepErr(KindAuthentication, StepAuthenticate, err)
	}
	for _, sel := range []string{selUsername, selPassword, selLoginButton} {
		if err := d.wait(sel); err != nil {
			return stepErr(KindAuthentication, StepAuthenticate, err)
		}
	}
	if err := d.typeInto(selUsername, d.cfg.Credentials.Username); err != nil {
		return stepErr(KindAuthentication, StepAuthenticate, err)
	}
	if err := d.typeInto(selPassword, d.cfg.Credentials.Password); err != nil {
		return stepErr(KindAuthentication, StepAuthenticate, err)
	}
	if err := d.click(selLoginButton); err != nil {
		return stepErr(KindAuthentication, StepAuthenticate, err)
	}
	log.Printf("kialo: logged in as %s", d.cfg.Credentials.Username)
	return nil
}

func (d *driver) initiateDiscussion() error {
	d.begin(StepInitiateDiscussion)
	if err := d.click(selNewDiscussion); err != nil {
		return stepErr(KindNavigation, StepInitiateDiscussion, err)
	}
	return nil
}

func (d *driver) selectVisibility() error {
	d.begin(StepSelectVisibility)
	if err := d.click(selVisibilityRadio); err != nil {
		return stepErr(KindNavigation, StepSelectVisibility, err)
	}
	if err := d.click(selNextButton); err != nil {
		return stepErr(KindNavigation, StepSelectVisibility, err)
	}
	return nil
}

func (d *driver) enterMetadata(title string) error {
	d.begin(StepEnterMetadata)
	if err := d.typeInto(selNameField, title); err != nil {
		return stepErr(KindElementTimeout, StepEnterMetadata, err)
	}
	if err := d.typeInto(selThesisField, placeholderThesis); err != nil {
		return stepErr(KindElementTimeout, StepEnterMetadata, err)
	}
	// Two wizard pages to advance past here.
	for i := 0; i < 2; i++ {
		if err := d.click(selNextButton); err != nil {
			return stepErr(KindElementTimeout, StepEnterMetadata, err)
		}
	}
	return nil
}

func (d *driver) uploadMedia() error {
	d.begin(StepUploadMedia)
	// The file input is hidden by default; resize it and strip the hidden
	// attribute so it becomes interactable before sending the file path.
	if err := d.op(func(ctx context.Context) error {
		return d.pg.Evaluate(ctx, forceFileInputJS)
	}); err != nil {
		return stepErr(KindUpload, StepUploadMedia, err)
	}
	if err := d.op(func(ctx context.Context) error {
		return d.pg.SetUploadFiles(ctx, selFileInput, d.cfg.ImagePath)
	}); err != nil {
		return stepErr(KindUpload, StepUploadMedia, err)
	}
	// Some flows only react to an explicit change event.
	if err := d.op(func(ctx context.Context) error {
		return d.pg.Evaluate(ctx, fireFileChangeJS)
	}); err != nil {
		return stepErr(KindUpload, StepUploadMedia, err)
	}
	// The confirmation control is not always rendered; clicking it is best
	// effort when the upload already started on file selection.
	if err := d.click(selUploadConfirm); err != nil {
		log.Printf("kialo: upload confirmation control not clicked (continuing): %v", err)
	}
	return nil
}

func (d *driver) tag() error {
	d.begin(StepTag)
	if err := d.wait(selTagInput); err != nil {
		return stepErr(KindElementTimeout, StepTag, err)
	}
	if err := d.op(func(ctx context.Context) error {
		return d.pg.Clear(ctx, selTagInput)
	}); err != nil {
		return stepErr(KindElementTimeout, StepTag, err)
	}
	if err := d.typeInto(selTagInput, d.cfg.Tag); err != nil {
		return stepErr(KindElementTimeout, StepTag, err)
	}
	if err := d.op(func(ctx context.Context) error {
		return d.pg.PressEnter(ctx, selTagInput)
	}); err != nil {
		return stepErr(KindElementTimeout, StepTag, err)
	}
	if err := d.click(selNextButton); err != nil {
		return stepErr(KindElementTimeout, StepTag, err)
	}
	d.settle()
	if err := d.click(selCreateButton); err != nil {
		return stepErr(KindElementTimeout, StepTag, err)
	}
	d.settle()
	if err := d.click(selEnterButton); err != nil {
		return stepErr(KindElementTimeout, StepTag, err)
	}
	return nil
}

func (d *driver) resolveDiscussionURL() error {
	d.begin(StepResolveDiscussionURL)
	d.settle()
	var current string
	if err := d.op(func(ctx context.Context) error {
		var err error
		current, err = d.pg.Location(ctx)
		return err
	}); err != nil {
		return stepErr(KindNavigation, StepResolveDiscussionURL, err)
	}
	if err := d.op(func(ctx context.Context) error {
		return d.pg.Navigate(ctx, editURL(current))
	}); err != nil {
		return stepErr(KindNavigation, StepResolveDiscussionURL, err)
	}
	return nil
}

func (d *driver) populateThesis(summary string) error {
	d.begin(StepPopulateThesis)
	d.settle()
	// Locate the thesis editor created in the previous step: by the
	// placeholder text first, falling back to the bill-prefix text match
	// the platform markup has historically required.
	sel := selThesisEditor
	if err := d.wait(sel); err != nil {
		sel = selThesisEditorAlt
		if err := d.wait(sel); err != nil {
			return stepErr(KindElementTimeout, StepPopulateThesis, err)
		}
	}
	if err := d.replaceText(sel, summary); err != nil {
		return stepErr(KindElementTimeout, StepPopulateThesis, err)
	}
	if err := d.save(); err != nil {
		return stepErr(KindElementTimeout, StepPopulateThesis, err)
	}
	if err := d.click(selConfirmButton); err != nil {
		return stepErr(KindElementTimeout, StepPopulateThesis, err)
	}
	return nil
}

func (d *driver) populateArguments(pros, cons [ClaimsPerSide]string) error {
	d.begin(StepPopulateArguments)
	// Empty argument strings are still submitted; an empty claim is
	// preferable to silently shifting the remaining arguments.
	for _, text := range pros {
		if err := d.addClaim(selAddProClaim, text); err != nil {
			return stepErr(KindElementTimeout, StepPopulateArguments, err)
		}
	}
	for _, text := range cons {
		if err := d.addClaim(selAddConClaim, text); err != nil {
			return stepErr(KindElementTimeout, StepPopulateArguments, err)
		}
	}
	return nil
}

func (d *driver) addClaim(addSel, text string) error {
	d.settle()
	if err := d.click(addSel); err != nil {
		return err
	}
	d.settle()
	if err := d.replaceText(selClaimEditor, text); err != nil {
		return err
	}
	return d.save()
}

func (d *driver) publish() error {
	d.begin(StepPublish)
	d.settle()
	if err := d.click(selShareButton); err != nil {
		return stepErr(KindPublish, StepPublish, err)
	}
	d.settle()
	if err := d.click(selPublishDiscussion); err != nil {
		return stepErr(KindPublish, StepPublish, err)
	}
	// Short publish wizard: two confirmations, then the final publish.
	for i := 0; i < 2; i++ {
		d.settle()
		if err := d.click(selNextButton); err != nil {
			return stepErr(KindPublish, StepPublish, err)
		}
	}
	d.settle()
	if err := d.click(selPublishButton); err != nil {
		return stepErr(KindPublish, StepPublish, err)
	}
	return nil
}

func (d *driver) finalizeURL() (string, error) {
	d.begin(StepFinalizeURL)
	var current string
	if err := d.op(func(ctx context.Context) error {
		var err error
		current, err = d.pg.Location(ctx)
		return err
	}); err != nil {
		return "", stepErr(KindNavigation, StepFinalizeURL, err)
	}
	url := CleanKialoURL(current)
	log.Printf("kialo: discussion published at %s", url)
	return url, nil
}

// --- primitives ---

func (d *driver) begin(s Step) {
	if d.cfg.OnStep != nil {
		d.cfg.OnStep(s)
	}
}

// op runs one page operation under the per-step bounded wait.
func (d *driver) op(fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(d.base, d.cfg.StepTimeout)
	defer cancel()
	return fn(ctx)
}

// wait polls for an element, retrying the lookup a bounded number of times
// to absorb transient rendering delays. Retry lives at this leaf only; no
// workflow step is ever retried as a whole.
func (d *driver) wait(sel string) error {
	var err error
	for attempt := 0; attempt < lookupAttempts; attempt++ {
		if attempt > 0 {
			d.pause(lookupRetryPause)
		}
		err = d.op(func(ctx context.Context) error {
			return d.pg.WaitVisible(ctx, sel)
		})
		if err == nil {
			return nil
		}
	}
	return err
}

func (d *driver) click(sel string) error {
	if err := d.wait(sel); err != nil {
		return err
	}
	return d.op(func(ctx context.Context) error {
		return d.pg.Click(ctx, sel)
	})
}

func (d *driver) typeInto(sel, text string) error {
	if err := d.wait(sel); err != nil {
		return err
	}
	return d.op(func(ctx context.Context) error {
		return d.pg.SendKeys(ctx, sel, text)
	})
}

func (d *driver) replaceText(sel, text string) error {
	if err := d.wait(sel); err != nil {
		return err
	}
	if err := d.op(func(ctx context.Context) error {
		return d.pg.Clear(ctx, sel)
	}); err != nil {
		return err
	}
	return d.op(func(ctx context.Context) error {
		return d.pg.SendKeys(ctx, sel, text)
	})
}

func (d *driver) save() error {
	d.settle()
	return d.click(selSaveButton)
}

// settle pauses for the configured animation-settling delay.
func (d *driver) settle() { d.pause(d.cfg.SettleDelay) }

func (d *driver) pause(dur time.Duration) {
	select {
	case <-time.After(dur):
	case <-d.base.Done():
	}
}
