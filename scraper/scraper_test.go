package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const billPageHTML = `<!DOCTYPE html>
<html>
<body>
<div id="prevNextBillNav"><a href="/Session/Bill/2024/22">Prev</a></div>
<h2>HB 23: Water Quality Improvements</h2>
<p class="width80">An act relating to water quality improvements; providing grant funding for stormwater projects.</p>
<a class="lnk_BillTextPDF" href="/Session/Bill/2024/23/BillText/er/PDF">Bill Text PDF</a>
</body>
</html>`

func newTestScraper(t *testing.T, handler http.Handler) (*Scraper, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	s := New()
	s.BaseURL = srv.URL
	s.DownloadDir = t.TempDir()
	return s, srv
}

func TestFetchBillDetails(t *testing.T) {
	pdfBody := []byte("%PDF-1.4 fake bill text")
	mux := http.NewServeMux()
	mux.HandleFunc("/Session/Bill/2024/23", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(billPageHTML))
	})
	mux.HandleFunc("/Session/Bill/2024/23/BillText/er/PDF", func(w http.ResponseWriter, r *http.Request) {
		w.Write(pdfBody)
	})

	s, srv := newTestScraper(t, mux)

	details, err := s.FetchBillDetails(context.Background(), srv.URL+"/Session/Bill/2024/23")
	require.NoError(t, err)

	assert.Equal(t, "HB 23: Water Quality Improvements", details.Title)
	assert.Equal(t, "HB 23", details.GovID)
	assert.Equal(t, "An act relating to water quality improvements; providing grant funding for stormwater projects.", details.Description)
	assert.Equal(t, srv.URL+"/Session/Bill/2024/23", details.SourceURL)

	require.NotEmpty(t, details.PDFPath)
	got, err := os.ReadFile(details.PDFPath)
	require.NoError(t, err)
	assert.Equal(t, pdfBody, got)
}

func TestFetchBillDetailsNoPDFLink(t *testing.T) {
	page := `<div id="prevNextBillNav"></div><h2>SB 100: Tax Relief</h2><p class="width80">An act providing tax relief.</p>`
	s, srv := newTestScraper(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))

	details, err := s.FetchBillDetails(context.Background(), srv.URL+"/bill")
	require.NoError(t, err)
	assert.Equal(t, "SB 100", details.GovID)
	assert.Empty(t, details.PDFPath)
}

func TestFetchBillDetailsStatusError(t *testing.T) {
	s, srv := newTestScraper(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	_, err := s.FetchBillDetails(context.Background(), srv.URL+"/missing")
	assert.Error(t, err)
}

func TestFetchBillDetailsNoGovID(t *testing.T) {
	page := `<div id="prevNextBillNav"></div><h2>A bill without an identifier</h2>`
	s, srv := newTestScraper(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))

	details, err := s.FetchBillDetails(context.Background(), srv.URL+"/bill")
	require.NoError(t, err)
	assert.Empty(t, details.GovID)
	assert.Equal(t, "A bill without an identifier", details.Title)
}
