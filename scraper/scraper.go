// Package scraper fetches legislative bill details from the Florida Senate
// and congress.gov bill pages.
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// BillDetails holds the fields extracted from a bill page.
type BillDetails struct {
	Title       string
	Description string
	GovID       string // e.g. "HB 23", extracted from the title
	SourceURL   string
	PDFPath     string // local path of the downloaded bill text PDF
}

var govIDRe = regexp.MustCompile(`([A-Z]{1,2} \d+):`)

// Scraper fetches and parses bill pages.
type Scraper struct {
	// BaseURL resolves relative links on the bill page
	// (default "https://www.flsenate.gov").
	BaseURL string

	// DownloadDir is where bill text PDFs are written (default os.TempDir).
	DownloadDir string

	client *http.Client
}

// New creates a Scraper with defaults applied.
func New() *Scraper {
	return &Scraper{
		BaseURL:     "https://www.flsenate.gov",
		DownloadDir: os.TempDir(),
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchBillDetails fetches a bill page, extracts its title, description, and
// government ID, and downloads the bill text PDF when one is linked.
func (s *Scraper) FetchBillDetails(ctx context.Context, billPageURL string) (*BillDetails, error) {
	pageURL, err := s.resolve(billPageURL)
	if err != nil {
		return nil, fmt.Errorf("resolving bill URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching bill page: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching bill page: unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing bill page: %w", err)
	}

	details := &BillDetails{SourceURL: pageURL}

	// The bill title is the first h2 after the prev/next navigation block.
	title := doc.Find("#prevNextBillNav").NextAllFiltered("h2").First()
	if title.Length() == 0 {
		title = doc.Find("#prevNextBillNav ~ h2").First()
	}
	details.Title = strings.TrimSpace(title.Text())
	if m := govIDRe.FindStringSubmatch(details.Title); m != nil {
		details.GovID = m[1]
	}

	details.Description = strings.TrimSpace(doc.Find("p.width80").First().Text())

	if href, ok := doc.Find("a.lnk_BillTextPDF").First().Attr("href"); ok {
		pdfURL, err := s.resolve(href)
		if err != nil {
			return nil, fmt.Errorf("resolving bill text link: %w", err)
		}
		path, err := s.downloadPDF(ctx, pdfURL)
		if err != nil {
			return nil, err
		}
		details.PDFPath = path
	}

	return details, nil
}

// downloadPDF fetches a bill text PDF to the download directory.
func (s *Scraper) downloadPDF(ctx context.Context, pdfURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pdfURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading bill text: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading bill text: unexpected status %d", resp.StatusCode)
	}

	path := filepath.Join(s.DownloadDir, "bill_text.pdf")
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer out.Close()
	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", fmt.Errorf("writing bill text: %w", err)
	}
	return path, nil
}

func (s *Scraper) resolve(ref string) (string, error) {
	base, err := url.Parse(s.BaseURL)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(u).String(), nil
}
