package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"lichhen/internal/services/schedules/domain"
)

type fakeStore struct {
	schedules []domain.Schedule
	err       error
}

func (f *fakeStore) LoadAll(context.Context) ([]domain.Schedule, error) {
	return f.schedules, f.err
}

type fakeNotifier struct {
	got []string
}

func (f *fakeNotifier) Notify(_ context.Context, title, message string) error {
	f.got = append(f.got, title+": "+message)
	return nil
}

func timePtr(t time.Time) *time.Time { return &t }

func TestCheckOnceFiresInsideWindow(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 9, 45, 0, 0, time.UTC)
	store := &fakeStore{schedules: []domain.Schedule{
		{
			ID:              1,
			Event:           "họp nhóm",
			StartTime:       timePtr(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)),
			Location:        "phòng 302",
			ReminderMinutes: 15,
		},
		{
			ID:              2,
			Event:           "gặp khách hàng",
			StartTime:       timePtr(time.Date(2025, 1, 1, 14, 0, 0, 0, time.UTC)),
			ReminderMinutes: 15,
		},
	}}
	n := &fakeNotifier{}
	svc := New(store, n, Config{}, WithClock(func() time.Time { return now }))

	if err := svc.CheckOnce(context.Background(), now); err != nil {
		t.Fatalf("CheckOnce: %v", err)
	}
	if len(n.got) != 1 {
		t.Fatalf("notified = %v, want exactly the 10:00 schedule", n.got)
	}
	if !strings.Contains(n.got[0], "họp nhóm") || !strings.Contains(n.got[0], "phòng 302") {
		t.Fatalf("message = %q", n.got[0])
	}
}

func TestCheckOnceNotifiesOnlyOnce(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 9, 45, 0, 0, time.UTC)
	store := &fakeStore{schedules: []domain.Schedule{{
		ID:              7,
		Event:           "họp",
		StartTime:       timePtr(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)),
		ReminderMinutes: 15,
	}}}
	n := &fakeNotifier{}
	svc := New(store, n, Config{}, WithClock(func() time.Time { return now }))

	for i := 0; i < 3; i++ {
		if err := svc.CheckOnce(context.Background(), now); err != nil {
			t.Fatalf("CheckOnce: %v", err)
		}
	}
	if len(n.got) != 1 {
		t.Fatalf("notified %d times, want 1", len(n.got))
	}
}

func TestCheckOnceSkipsUnresolved(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 9, 45, 0, 0, time.UTC)
	store := &fakeStore{schedules: []domain.Schedule{{ID: 3, Event: "họp"}}}
	n := &fakeNotifier{}
	svc := New(store, n, Config{}, WithClock(func() time.Time { return now }))

	if err := svc.CheckOnce(context.Background(), now); err != nil {
		t.Fatalf("CheckOnce: %v", err)
	}
	if len(n.got) != 0 {
		t.Fatalf("notified = %v, want none", n.got)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	svc := New(&fakeStore{}, &fakeNotifier{}, Config{Every: time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
