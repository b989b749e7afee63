// Package store defines the persistence interface for billforge.
package store

import "github.com/civigen/billforge/model"

// Store persists bills, generated bill metadata, runs, and run events.
type Store interface {
	CreateBill(bill *model.Bill) error
	GetBill(id int64) (*model.Bill, error)
	GetBillByGovID(govID string) (*model.Bill, error)
	AddBillMeta(meta *model.BillMeta) error
	GetBillMeta(billID int64) ([]*model.BillMeta, error)

	CreateRun(run *model.Run) error
	GetRun(id string) (*model.Run, error)
	ListRuns() ([]*model.Run, error)
	UpdateRun(run *model.Run) error

	AddEvent(event *model.Event) error
	GetEvents(runID string, afterID int64) ([]*model.Event, error)

	Close() error
}
