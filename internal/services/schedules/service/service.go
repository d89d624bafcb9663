// Package service implements the schedules service, parsing sentences and
// persisting the accepted records
package service

import (
	"context"
	"strings"

	"lichhen/internal/core/schedule"
	perr "lichhen/internal/platform/errors"
	"lichhen/internal/platform/logger"
	"lichhen/internal/services/schedules/domain"
)

// Service parses appointment sentences and stores the results
type Service struct {
	Pipe *schedule.Pipeline
	Repo domain.StorageRepo
}

// New constructs a schedules service
func New(pipe *schedule.Pipeline, repo domain.StorageRepo) *Service {
	return &Service{Pipe: pipe, Repo: repo}
}

// Parse parses one sentence without persisting anything
func (s *Service) Parse(_ context.Context, input string) schedule.Result {
	return s.Pipe.Process(input)
}

// ParseBatch parses each sentence independently
func (s *Service) ParseBatch(_ context.Context, inputs []string) []schedule.Result {
	return s.Pipe.ProcessBatch(inputs)
}

// ParseAndSave parses a sentence and, when it validates, stores the schedule.
// The parse result is returned either way so clients can show diagnostics
func (s *Service) ParseAndSave(ctx context.Context, input string) (schedule.Result, *domain.Schedule, error) {
	res := s.Pipe.Process(input)
	if !res.Success {
		return res, nil, perr.Validationf("parse failed: %s", strings.Join(res.Errors, "; "))
	}

	rec := res.Record
	// end_time stays null, sentences name a start only
	sc := domain.Schedule{
		Event:           rec.Event,
		StartTime:       rec.StartTime,
		Location:        rec.Location,
		ReminderMinutes: rec.ReminderMinutes,
	}

	id, err := s.Repo.Save(ctx, sc)
	if err != nil {
		return res, nil, err
	}
	sc.ID = id

	logger.C(ctx).Info().
		Int64("id", id).
		Str("event", sc.Event).
		Int("confidence", res.Confidence).
		Msg("schedule saved")
	return res, &sc, nil
}

// List returns all stored schedules
func (s *Service) List(ctx context.Context) ([]domain.Schedule, error) {
	return s.Repo.LoadAll(ctx)
}

// Search returns schedules whose event or location matches q
func (s *Service) Search(ctx context.Context, q string) ([]domain.Schedule, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, perr.InvalidArgf("search query is empty")
	}
	return s.Repo.Search(ctx, q)
}

// Update rewrites a stored schedule
func (s *Service) Update(ctx context.Context, sc domain.Schedule) error {
	if sc.ID <= 0 {
		return perr.InvalidArgf("schedule id is required")
	}
	if strings.TrimSpace(sc.Event) == "" {
		return perr.InvalidArgf("event is required")
	}
	return s.Repo.Update(ctx, sc)
}

// Delete removes a stored schedule
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return perr.InvalidArgf("schedule id is required")
	}
	return s.Repo.Delete(ctx, id)
}
