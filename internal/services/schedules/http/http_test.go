package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"lichhen/internal/core/rules"
	"lichhen/internal/core/schedule"
	perr "lichhen/internal/platform/errors"
	phttp "lichhen/internal/platform/net/http"
	"lichhen/internal/services/schedules/domain"
	"lichhen/internal/services/schedules/service"
)

var refNow = time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)

type memRepo struct {
	rows   []domain.Schedule
	nextID int64
}

func (m *memRepo) LoadAll(context.Context) ([]domain.Schedule, error) { return m.rows, nil }

func (m *memRepo) Save(_ context.Context, s domain.Schedule) (int64, error) {
	m.nextID++
	s.ID = m.nextID
	m.rows = append(m.rows, s)
	return s.ID, nil
}

func (m *memRepo) Update(_ context.Context, s domain.Schedule) error {
	for i := range m.rows {
		if m.rows[i].ID == s.ID {
			m.rows[i] = s
			return nil
		}
	}
	return perr.NotFoundf("schedule %d not found", s.ID)
}

func (m *memRepo) Delete(_ context.Context, id int64) error {
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return perr.NotFoundf("schedule %d not found", id)
}

func (m *memRepo) Search(_ context.Context, q string) ([]domain.Schedule, error) {
	var out []domain.Schedule
	for _, s := range m.rows {
		if strings.Contains(s.Event, q) || strings.Contains(s.Location, q) {
			out = append(out, s)
		}
	}
	return out, nil
}

func newTestMux(repo domain.StorageRepo) stdhttp.Handler {
	pipe := schedule.New(rules.MustLoad(), schedule.WithClock(func() time.Time { return refNow }))
	svc := service.New(pipe, repo)
	mux := chi.NewRouter()
	New(svc).Mount(phttp.AdaptChi(mux))
	return mux
}

func do(t *testing.T, h stdhttp.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *stdhttp.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestParseEndpoint(t *testing.T) {
	t.Parallel()

	h := newTestMux(&memRepo{})
	rec := do(t, h, stdhttp.MethodPost, "/v1/parse",
		`{"text":"Họp nhóm 10 giờ sáng mai ở phòng 302"}`)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d body %s", rec.Code, rec.Body.String())
	}

	var env struct {
		Data schedule.Result `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !env.Data.Success || env.Data.Record.Location != "phòng 302" {
		t.Fatalf("result = %+v", env.Data)
	}
}

func TestParseEndpointRejectsEmptyBody(t *testing.T) {
	t.Parallel()

	h := newTestMux(&memRepo{})
	rec := do(t, h, stdhttp.MethodPost, "/v1/parse", `{"text":""}`)
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCreateListDelete(t *testing.T) {
	t.Parallel()

	repo := &memRepo{}
	h := newTestMux(repo)

	rec := do(t, h, stdhttp.MethodPost, "/v1/schedules",
		`{"text":"Gặp khách hàng 14 giờ chiều mai ở văn phòng hà nội"}`)
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("create status = %d body %s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, stdhttp.MethodGet, "/v1/schedules", "")
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var env struct {
		Data []domain.Schedule `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(env.Data) != 1 || env.Data[0].ID != 1 {
		t.Fatalf("list = %+v", env.Data)
	}

	rec = do(t, h, stdhttp.MethodDelete, "/v1/schedules/1", "")
	if rec.Code != stdhttp.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if len(repo.rows) != 0 {
		t.Fatalf("rows = %d after delete", len(repo.rows))
	}
}

func TestCreateRejectsUnparseable(t *testing.T) {
	t.Parallel()

	h := newTestMux(&memRepo{})
	rec := do(t, h, stdhttp.MethodPost, "/v1/schedules", `{"text":"Gặp đối tác"}`)
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSearchEndpoint(t *testing.T) {
	t.Parallel()

	start := refNow.Add(26 * time.Hour)
	repo := &memRepo{rows: []domain.Schedule{
		{ID: 1, Event: "họp nhóm", Location: "phòng 302", StartTime: &start},
		{ID: 2, Event: "gặp sếp", Location: "tầng 5", StartTime: &start},
	}, nextID: 2}
	h := newTestMux(repo)

	rec := do(t, h, stdhttp.MethodGet, "/v1/schedules/search?q=302", "")
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var env struct {
		Data []domain.Schedule `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(env.Data) != 1 || env.Data[0].ID != 1 {
		t.Fatalf("search = %+v", env.Data)
	}

	rec = do(t, h, stdhttp.MethodGet, "/v1/schedules/search", "")
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("empty query status = %d, want 422", rec.Code)
	}
}

func TestDeleteBadID(t *testing.T) {
	t.Parallel()

	h := newTestMux(&memRepo{})
	rec := do(t, h, stdhttp.MethodDelete, "/v1/schedules/abc", "")
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	rec = do(t, h, stdhttp.MethodDelete, "/v1/schedules/99", "")
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestUpdateEndpoint(t *testing.T) {
	t.Parallel()

	start := refNow.Add(26 * time.Hour)
	repo := &memRepo{rows: []domain.Schedule{
		{ID: 1, Event: "họp nhóm", StartTime: &start, ReminderMinutes: 15},
	}, nextID: 1}
	h := newTestMux(repo)

	rec := do(t, h, stdhttp.MethodPut, "/v1/schedules/1",
		`{"event":"họp ban giám đốc","location":"phòng 401","reminder_minutes":30}`)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d body %s", rec.Code, rec.Body.String())
	}
	if repo.rows[0].Event != "họp ban giám đốc" || repo.rows[0].ReminderMinutes != 30 {
		t.Fatalf("row = %+v", repo.rows[0])
	}
}
