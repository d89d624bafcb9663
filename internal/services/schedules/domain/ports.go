package domain

import "context"

// ReaderPort is the read-only view the reminder loop needs
type ReaderPort interface {
	LoadAll(ctx context.Context) ([]Schedule, error)
}

// StorageRepo is the full persistence surface for schedules
type StorageRepo interface {
	ReaderPort
	Save(ctx context.Context, s Schedule) (int64, error)
	Update(ctx context.Context, s Schedule) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, q string) ([]Schedule, error)
}
