package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/mailpulse/internal/analytics"
	"github.com/ignite/mailpulse/internal/domain"
	"github.com/ignite/mailpulse/internal/pkg/httputil"
)

// Handlers exposes the aggregation service over HTTP. Every handler is a
// thin translation layer: parse params, call the façade, map typed errors
// to status codes. No aggregation logic lives here.
type Handlers struct {
	svc *analytics.Service
}

// NewHandlers creates the analytics handler set.
func NewHandlers(svc *analytics.Service) *Handlers {
	return &Handlers{svc: svc}
}

// HandleAggregate returns per-entity aggregates for a kind.
//
//	GET /api/v1/analytics/{kind}/aggregate?ids=m1,m2&start=2024-01-01&end=2024-01-31
func (h *Handlers) HandleAggregate(w http.ResponseWriter, r *http.Request) {
	q := queryFromRequest(r)
	results, err := h.svc.AggregateByEntity(r.Context(), q)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.OK(w, map[string]interface{}{"results": results})
}

// HandleTimeSeries returns the bucketed series for a kind.
//
//	GET /api/v1/analytics/{kind}/timeseries?granularity=month&start=&end=&ids=
func (h *Handlers) HandleTimeSeries(w http.ResponseWriter, r *http.Request) {
	q := queryFromRequest(r)
	q.Granularity = domain.Granularity(r.URL.Query().Get("granularity"))
	points, err := h.svc.TimeSeries(r.Context(), q)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.OK(w, map[string]interface{}{"points": points})
}

// HandleSummary returns the rollup for one entity.
//
//	GET /api/v1/analytics/{kind}/{id}/summary?start=&end=
func (h *Handlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	kind := domain.EntityKind(chi.URLParam(r, "kind"))
	id := chi.URLParam(r, "id")
	rng := rangeFromRequest(r)

	result, err := h.svc.EntitySummary(r.Context(), kind, id, rng)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.OK(w, result)
}

// HandleInvalidate drops cached aggregates for one entity. The ingestion
// pipeline calls this after mutating the entity's raw metrics.
//
//	POST /api/v1/analytics/{kind}/{id}/invalidate
func (h *Handlers) HandleInvalidate(w http.ResponseWriter, r *http.Request) {
	kind := domain.EntityKind(chi.URLParam(r, "kind"))
	if !kind.Valid() {
		httputil.BadRequest(w, "unknown entity kind")
		return
	}
	id := chi.URLParam(r, "id")
	removed := h.svc.InvalidateEntity(r.Context(), kind, id)
	httputil.OK(w, map[string]interface{}{"removed": removed})
}

// HandleClearCache drops all cached aggregates for a kind, or everything
// when no kind is given.
//
//	POST /api/v1/analytics/cache/clear  {"kind": "mailbox"}
func (h *Handlers) HandleClearCache(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Kind string `json:"kind"`
	}
	if r.ContentLength > 0 && !httputil.Decode(w, r, &body) {
		return
	}
	kind := domain.EntityKind(body.Kind)
	if body.Kind != "" && !kind.Valid() {
		httputil.BadRequest(w, "unknown entity kind")
		return
	}
	removed := h.svc.ClearScope(r.Context(), kind)
	httputil.OK(w, map[string]interface{}{"removed": removed})
}

func queryFromRequest(r *http.Request) analytics.Query {
	var ids []string
	if raw := r.URL.Query().Get("ids"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return analytics.Query{
		Kind:  domain.EntityKind(chi.URLParam(r, "kind")),
		IDs:   ids,
		Range: rangeFromRequest(r),
	}
}

func rangeFromRequest(r *http.Request) domain.DateRange {
	return domain.DateRange{
		Start: r.URL.Query().Get("start"),
		End:   r.URL.Query().Get("end"),
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case analytics.IsValidation(err):
		httputil.BadRequest(w, err.Error())
	case errors.Is(err, analytics.ErrNoData):
		httputil.NotFound(w, err.Error())
	case analytics.IsUpstream(err):
		httputil.BadGateway(w, "metrics store unavailable")
	default:
		httputil.InternalError(w, err)
	}
}
