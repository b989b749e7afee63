package sqlite

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/civigen/billforge/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestBillCRUD(t *testing.T) {
	store := newTestStore(t)

	bill := &model.Bill{
		GovID:       "HB 23",
		Title:       "HB 23: Water and Wastewater Facility Operators",
		Description: "Revises licensure requirements.",
		SourceURL:   "https://www.flsenate.gov/Session/Bill/2024/23",
		TextPath:    "bill_text.pdf",
	}
	if err := store.CreateBill(bill); err != nil {
		t.Fatalf("create bill: %v", err)
	}
	if bill.ID == 0 {
		t.Fatal("bill ID not assigned")
	}

	got, err := store.GetBill(bill.ID)
	if err != nil {
		t.Fatalf("get bill: %v", err)
	}
	if got.GovID != "HB 23" || got.Title != bill.Title {
		t.Fatalf("unexpected bill: %+v", got)
	}

	byGov, err := store.GetBillByGovID("HB 23")
	if err != nil {
		t.Fatalf("get bill by gov id: %v", err)
	}
	if byGov.ID != bill.ID {
		t.Fatalf("expected bill %d, got %d", bill.ID, byGov.ID)
	}
}

func TestBillMeta(t *testing.T) {
	store := newTestStore(t)

	bill := &model.Bill{GovID: "SB 100", Title: "SB 100: Transit"}
	if err := store.CreateBill(bill); err != nil {
		t.Fatalf("create bill: %v", err)
	}

	for _, mt := range []model.MetaType{model.MetaSummary, model.MetaPro, model.MetaCon} {
		meta := &model.BillMeta{
			BillID:   bill.ID,
			Type:     mt,
			Text:     fmt.Sprintf("%s text", mt),
			Language: "EN",
		}
		if err := store.AddBillMeta(meta); err != nil {
			t.Fatalf("add meta %s: %v", mt, err)
		}
		if meta.ID == 0 {
			t.Fatal("meta ID not assigned")
		}
	}

	metas, err := store.GetBillMeta(bill.ID)
	if err != nil {
		t.Fatalf("get metas: %v", err)
	}
	if len(metas) != 3 {
		t.Fatalf("expected 3 metas, got %d", len(metas))
	}
	if metas[0].Type != model.MetaSummary || metas[2].Type != model.MetaCon {
		t.Fatalf("unexpected meta order: %+v", metas)
	}
}

func TestRunCRUD(t *testing.T) {
	store := newTestStore(t)

	now := time.Now().UTC()
	run := &model.Run{
		ID:           "abc12345",
		BillURL:      "https://www.flsenate.gov/Session/Bill/2024/23",
		Jurisdiction: model.JurisdictionFL,
		Language:     "EN",
		Status:       model.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := store.CreateRun(run); err != nil {
		t.Fatalf("create run: %v", err)
	}

	got, err := store.GetRun(run.ID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if got.BillURL != run.BillURL || got.Status != model.StatusPending {
		t.Fatalf("unexpected run: %+v", got)
	}

	got.Status = model.StatusComplete
	got.DiscussionURL = "https://www.kialo.com/d/12345/"
	got.WebflowItemID = "item-1"
	if err := store.UpdateRun(got); err != nil {
		t.Fatalf("update run: %v", err)
	}

	got2, err := store.GetRun(run.ID)
	if err != nil {
		t.Fatalf("get updated run: %v", err)
	}
	if got2.Status != model.StatusComplete || got2.DiscussionURL != "https://www.kialo.com/d/12345/" {
		t.Fatalf("run not updated: %+v", got2)
	}
}

func TestListRuns(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 3; i++ {
		now := time.Now().UTC().Add(time.Duration(i) * time.Second)
		run := &model.Run{
			ID:           fmt.Sprintf("run%05d", i),
			BillURL:      "https://example.com/bill",
			Jurisdiction: model.JurisdictionUS,
			Language:     "EN",
			Status:       model.StatusPending,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := store.CreateRun(run); err != nil {
			t.Fatalf("create run %d: %v", i, err)
		}
	}

	runs, err := store.ListRuns()
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	if runs[0].ID != "run00002" {
		t.Fatalf("expected newest first, got %s", runs[0].ID)
	}
}

func TestEvents(t *testing.T) {
	store := newTestStore(t)

	now := time.Now().UTC()
	run := &model.Run{
		ID: "evt12345", BillURL: "https://example.com/bill",
		Jurisdiction: model.JurisdictionFL, Language: "EN",
		Status: model.StatusPending, CreatedAt: now, UpdatedAt: now,
	}
	if err := store.CreateRun(run); err != nil {
		t.Fatalf("create run: %v", err)
	}

	for i := 0; i < 3; i++ {
		e := &model.Event{
			RunID:     run.ID,
			Type:      "status",
			Data:      fmt.Sprintf("step %d", i),
			CreatedAt: now,
		}
		if err := store.AddEvent(e); err != nil {
			t.Fatalf("add event: %v", err)
		}
		if e.ID == 0 {
			t.Fatal("event ID not assigned")
		}
	}

	events, err := store.GetEvents(run.ID, 0)
	if err != nil {
		t.Fatalf("get events: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}

	after, err := store.GetEvents(run.ID, events[1].ID)
	if err != nil {
		t.Fatalf("get events after: %v", err)
	}
	if len(after) != 1 || after[0].Data != "step 2" {
		t.Fatalf("unexpected tail events: %+v", after)
	}
}
