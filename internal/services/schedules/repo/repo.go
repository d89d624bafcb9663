// Package repo provides the Postgres repository for the schedules service
package repo

import (
	"context"

	perr "lichhen/internal/platform/errors"

	"lichhen/internal/modkit/repokit"
	"lichhen/internal/services/schedules/domain"
)

// binder implements repokit.Binder[domain.StorageRepo]
type binder struct{}

// NewPG returns a Postgres binder for domain.StorageRepo
func NewPG() repokit.Binder[domain.StorageRepo] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) domain.StorageRepo { return &pg{q: q} }

type pg struct{ q repokit.Queryer }

const columns = `id, event, start_time, end_time, location, reminder_minutes, created_at`

// LoadAll returns every schedule ordered by start time, soonest first
func (s *pg) LoadAll(ctx context.Context) ([]domain.Schedule, error) {
	q := `
		SELECT ` + columns + `
		FROM schedules
		ORDER BY start_time NULLS LAST, id`
	rows, err := s.q.Query(ctx, q)
	if err != nil {
		return nil, perr.FromPostgres(err, "load schedules")
	}
	defer rows.Close()

	var out []domain.Schedule
	for rows.Next() {
		var sc domain.Schedule
		if err := rows.Scan(
			&sc.ID, &sc.Event, &sc.StartTime, &sc.EndTime,
			&sc.Location, &sc.ReminderMinutes, &sc.CreatedAt,
		); err != nil {
			return nil, perr.FromPostgres(err, "scan schedule")
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// Save inserts a schedule and returns its id
func (s *pg) Save(ctx context.Context, sc domain.Schedule) (int64, error) {
	const q = `
		INSERT INTO schedules (event, start_time, end_time, location, reminder_minutes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	var id int64
	err := s.q.QueryRow(ctx, q,
		sc.Event, sc.StartTime, sc.EndTime, sc.Location, sc.ReminderMinutes,
	).Scan(&id)
	if err != nil {
		return 0, perr.FromPostgres(err, "save schedule")
	}
	return id, nil
}

// Update rewrites all mutable fields of a schedule
func (s *pg) Update(ctx context.Context, sc domain.Schedule) error {
	const q = `
		UPDATE schedules
		SET event = $2, start_time = $3, end_time = $4, location = $5, reminder_minutes = $6
		WHERE id = $1`
	tag, err := s.q.Exec(ctx, q,
		sc.ID, sc.Event, sc.StartTime, sc.EndTime, sc.Location, sc.ReminderMinutes,
	)
	if err != nil {
		return perr.FromPostgres(err, "update schedule")
	}
	if tag.RowsAffected() == 0 {
		return perr.NotFoundf("schedule %d not found", sc.ID)
	}
	return nil
}

// Delete removes a schedule by id
func (s *pg) Delete(ctx context.Context, id int64) error {
	tag, err := s.q.Exec(ctx, `DELETE FROM schedules WHERE id = $1`, id)
	if err != nil {
		return perr.FromPostgres(err, "delete schedule")
	}
	if tag.RowsAffected() == 0 {
		return perr.NotFoundf("schedule %d not found", id)
	}
	return nil
}

// Search matches the query against event and location, case-insensitively
func (s *pg) Search(ctx context.Context, query string) ([]domain.Schedule, error) {
	q := `
		SELECT ` + columns + `
		FROM schedules
		WHERE event ILIKE '%' || $1 || '%' OR location ILIKE '%' || $1 || '%'
		ORDER BY start_time NULLS LAST, id`
	rows, err := s.q.Query(ctx, q, query)
	if err != nil {
		return nil, perr.FromPostgres(err, "search schedules")
	}
	defer rows.Close()

	var out []domain.Schedule
	for rows.Next() {
		var sc domain.Schedule
		if err := rows.Scan(
			&sc.ID, &sc.Event, &sc.StartTime, &sc.EndTime,
			&sc.Location, &sc.ReminderMinutes, &sc.CreatedAt,
		); err != nil {
			return nil, perr.FromPostgres(err, "scan schedule")
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}
