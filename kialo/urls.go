package kialo

import (
	"fmt"
	"strings"
)

// CleanURL strips the permissions suffix a discussion URL carries right after
// creation, leaving the canonical discussion URL with a trailing slash.
func CleanURL(url string) string {
	base, _, _ := strings.Cut(url, "/permissions")
	return base + "/"
}

// CleanKialoURL strips the transient editing action parameter from a
// discussion URL. Everything from "&action=" onward is edit-session state,
// not part of the shareable URL.
func CleanKialoURL(url string) string {
	base, _, _ := strings.Cut(url, "&action=")
	return base
}

// editURL derives the edit-mode URL for a freshly created discussion. The
// last five characters of the creation URL are the discussion id segment;
// Kialo addresses the thesis node as <id>.0 and the editable body as <id>.3.
func editURL(currentURL string) string {
	if len(currentURL) < 5 {
		return currentURL
	}
	id := currentURL[len(currentURL)-5:]
	return fmt.Sprintf("%s?path=%s.0~%s.3&active=~%s.3&action=edit", currentURL, id, id, id)
}
