package model

import "testing"

func TestTruncateShortString(t *testing.T) {
	got := Truncate("hello", 10)
	if got != "hello" {
		t.Fatalf("expected 'hello', got %q", got)
	}
}

func TestTruncateLongString(t *testing.T) {
	got := Truncate("hello world", 8)
	if got != "hello..." {
		t.Fatalf("expected 'hello...', got %q", got)
	}
}

func TestTruncateVerySmallMaxLen(t *testing.T) {
	got := Truncate("hello", 2)
	if got != "he" {
		t.Fatalf("expected 'he', got %q", got)
	}
}

func TestStatusTerminal(t *testing.T) {
	if StatusPending.Terminal() || StatusRunning.Terminal() {
		t.Fatal("pending/running must not be terminal")
	}
	if !StatusComplete.Terminal() || !StatusError.Terminal() {
		t.Fatal("complete/error must be terminal")
	}
}

func TestStatusConstants(t *testing.T) {
	statuses := []Status{StatusPending, StatusRunning, StatusComplete, StatusError}
	expected := []string{"pending", "running", "complete", "error"}
	for i, s := range statuses {
		if string(s) != expected[i] {
			t.Fatalf("expected %q, got %q", expected[i], s)
		}
	}
}

func TestMetaTypeConstants(t *testing.T) {
	if string(MetaSummary) != "summary" {
		t.Fatalf("expected 'summary', got %q", MetaSummary)
	}
	if string(MetaPro) != "pro" {
		t.Fatalf("expected 'pro', got %q", MetaPro)
	}
	if string(MetaCon) != "con" {
		t.Fatalf("expected 'con', got %q", MetaCon)
	}
}
