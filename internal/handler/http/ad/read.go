package ad

import (
	"fmt"
	"net/http"
	"time"

	"brazucas-cork/internal/common/pagination"
	"brazucas-cork/internal/domain/entity"
	"brazucas-cork/internal/handler/http/auth"
	"brazucas-cork/internal/handler/http/pathutil"
	"brazucas-cork/internal/handler/http/respond"
	adUC "brazucas-cork/internal/usecase/ad"
)

const metricsKind = "ad"

var errInvalidStatus = &entity.ValidationError{
	Field:   "status",
	Message: "must be one of all, pending, draft, pending_approval, published, rejected",
}

// List serves GET /ads. Without ?status it returns one page of published
// ads to anyone. With ?status it is an admin listing.
func (h Handler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		h.listPublished(w, r)
		return
	}

	ctx := r.Context()
	p := auth.PrincipalFrom(ctx)
	if p.Anonymous() {
		respond.FromError(w, fmt.Errorf("authentication required: %w", entity.ErrUnauthorized))
		return
	}

	var (
		items []adUC.Item
		err   error
	)
	switch status {
	case "all":
		items, err = h.Svc.ListAll(ctx, p)
	case "pending":
		items, err = h.Svc.ListPending(ctx, p)
	default:
		st, ok := entity.ParseStatus(status)
		if !ok {
			respond.FromError(w, errInvalidStatus)
			return
		}
		items, err = h.Svc.ListByStatus(ctx, p, st)
	}
	if err != nil {
		h.logger(r).Warn("list ads failed", "status_filter", status, "error", err)
		respond.FromError(w, err)
		return
	}
	respond.OK(w, http.StatusOK, toDTOs(items))
}

func (h Handler) listPublished(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger := h.logger(r)

	params, err := pagination.ParseQueryParams(r, h.Pagination)
	if err != nil {
		pagination.LogError(logger, metricsKind, params, err, "validation")
		pagination.RecordError(metricsKind, "validation")
		respond.FromError(w, &entity.ValidationError{Field: "pagination", Message: err.Error()})
		return
	}
	pagination.LogRequest(logger, metricsKind, params)

	result, err := h.Svc.ListPublishedPage(r.Context(), params)
	if err != nil {
		pagination.LogError(logger, metricsKind, params, err, "database")
		pagination.RecordError(metricsKind, "database")
		respond.FromError(w, err)
		return
	}

	dtos := toDTOs(result.Data)
	duration := time.Since(start)
	pagination.RecordRequest(metricsKind, http.StatusOK, params.Page)
	pagination.RecordDuration(metricsKind, duration.Seconds())
	pagination.UpdateTotalCount(metricsKind, result.Pagination.Total)
	pagination.LogResponse(logger, metricsKind, params, len(dtos), duration)

	respond.OK(w, http.StatusOK, pagination.NewResponse(dtos, result.Pagination))
}

// Mine serves GET /ads/mine.
func (h Handler) Mine(w http.ResponseWriter, r *http.Request) {
	items, err := h.Svc.ListMine(r.Context(), auth.PrincipalFrom(r.Context()))
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.OK(w, http.StatusOK, toDTOs(items))
}

// Get serves GET /ads/{id}.
func (h Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.PathID(r, "id")
	if err != nil {
		respond.FromError(w, err)
		return
	}
	item, err := h.Svc.Get(r.Context(), auth.PrincipalFrom(r.Context()), id)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.OK(w, http.StatusOK, toDTO(*item))
}
