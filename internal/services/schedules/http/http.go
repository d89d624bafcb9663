// Package http mounts the schedules service endpoints
package http

import (
	stdhttp "net/http"
	"strconv"
	"time"

	"lichhen/internal/core/schedule"
	perr "lichhen/internal/platform/errors"
	phttp "lichhen/internal/platform/net/http"
	"lichhen/internal/platform/net/http/bind"
	"lichhen/internal/services/schedules/domain"
	"lichhen/internal/services/schedules/service"
)

// ParseRequest is the body for the parse and create endpoints
type ParseRequest struct {
	Text string `json:"text" validate:"required,min=1,max=500"`
}

// BatchRequest is the body for the batch parse endpoint
type BatchRequest struct {
	Texts []string `json:"texts" validate:"required,min=1,max=100,dive,max=500"`
}

// UpdateRequest is the body for rewriting a stored schedule
type UpdateRequest struct {
	Event           string  `json:"event" validate:"required,min=1,max=200"`
	StartTime       *string `json:"start_time,omitempty"`
	Location        string  `json:"location" validate:"max=200"`
	ReminderMinutes int     `json:"reminder_minutes" validate:"min=0,max=1440"`
}

// CreateResponse pairs the stored schedule with its parse diagnostics
type CreateResponse struct {
	Schedule *domain.Schedule `json:"schedule"`
	Parse    schedule.Result  `json:"parse"`
}

// HTTP wires the schedules service into the router
type HTTP struct {
	svc *service.Service
}

// New constructs the HTTP surface for the schedules service
func New(svc *service.Service) *HTTP { return &HTTP{svc: svc} }

// Mount registers all schedule routes under /v1
func (h *HTTP) Mount(r phttp.Router) {
	r.Route("/v1", func(v phttp.Router) {
		v.Post("/parse", phttp.JSONHandler(h.parse))
		v.Post("/parse/batch", phttp.JSONHandler(h.parseBatch))
		v.Post("/schedules", phttp.Handle(h.create))
		v.Get("/schedules", phttp.JSONHandlerNoBody(h.list))
		v.Get("/schedules/search", phttp.JSONHandlerNoBody(h.search))
		v.Put("/schedules/{id}", phttp.JSONHandler(h.update))
		v.Delete("/schedules/{id}", phttp.Handle(h.remove))
	})
}

func (h *HTTP) parse(r *stdhttp.Request, req ParseRequest) (any, error) {
	return h.svc.Parse(r.Context(), req.Text), nil
}

func (h *HTTP) parseBatch(r *stdhttp.Request, req BatchRequest) (any, error) {
	return h.svc.ParseBatch(r.Context(), req.Texts), nil
}

func (h *HTTP) create(r *stdhttp.Request) phttp.Response {
	req, err := bind.ParseJSON[ParseRequest](r)
	if err != nil {
		return phttp.Error(err)
	}
	res, sc, err := h.svc.ParseAndSave(r.Context(), req.Text)
	if err != nil {
		return phttp.Error(err)
	}
	return phttp.Created(CreateResponse{Schedule: sc, Parse: res})
}

func (h *HTTP) list(r *stdhttp.Request) (any, error) {
	return h.svc.List(r.Context())
}

func (h *HTTP) search(r *stdhttp.Request) (any, error) {
	return h.svc.Search(r.Context(), r.URL.Query().Get("q"))
}

func (h *HTTP) update(r *stdhttp.Request, req UpdateRequest) (any, error) {
	id, err := pathID(r)
	if err != nil {
		return nil, err
	}
	sc := domain.Schedule{
		ID:              id,
		Event:           req.Event,
		Location:        req.Location,
		ReminderMinutes: req.ReminderMinutes,
	}
	if req.StartTime != nil {
		t, err := time.Parse(time.RFC3339, *req.StartTime)
		if err != nil {
			return nil, perr.InvalidArgf("start_time must be RFC 3339: %v", err)
		}
		sc.StartTime = &t
	}
	if err := h.svc.Update(r.Context(), sc); err != nil {
		return nil, err
	}
	return sc, nil
}

func (h *HTTP) remove(r *stdhttp.Request) phttp.Response {
	id, err := pathID(r)
	if err != nil {
		return phttp.Error(err)
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		return phttp.Error(err)
	}
	return phttp.NoContent()
}

func pathID(r *stdhttp.Request) (int64, error) {
	raw := phttp.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, perr.InvalidArgf("invalid schedule id %q", raw)
	}
	return id, nil
}
