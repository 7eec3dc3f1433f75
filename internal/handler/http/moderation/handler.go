// Package moderation serves the approval workflow endpoints of one content
// kind: submission for review, admin decisions and status history.
package moderation

import (
	"log/slog"
	"net/http"
	"time"

	"brazucas-cork/internal/domain/entity"
	"brazucas-cork/internal/handler/http/auth"
	"brazucas-cork/internal/handler/http/pathutil"
	"brazucas-cork/internal/handler/http/respond"
	"brazucas-cork/internal/observability/logging"
	modUC "brazucas-cork/internal/usecase/moderation"
)

// Handler serves the routes under Prefix for items of Kind.
type Handler struct {
	Svc    *modUC.Service
	Kind   entity.Kind
	Prefix string // "/news" or "/ads"
	Logger *slog.Logger
}

// Register mounts submit, approval and history under h.Prefix.
func (h Handler) Register(mux *http.ServeMux) {
	admin := auth.RequireRole(entity.RoleAdmin)
	mux.Handle("POST "+h.Prefix+"/{id}/submit", auth.RequireAuth(http.HandlerFunc(h.Submit)))
	mux.Handle("POST "+h.Prefix+"/approval", admin(http.HandlerFunc(h.Decide)))
	mux.Handle("GET "+h.Prefix+"/{id}/history", admin(http.HandlerFunc(h.History)))
}

// Submit sets published=true on the caller's item.
func (h Handler) Submit(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.PathID(r, "id")
	if err != nil {
		respond.FromError(w, err)
		return
	}
	out, err := h.Svc.SubmitForReview(r.Context(), auth.PrincipalFrom(r.Context()), h.Kind, id)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.OK(w, http.StatusOK, out)
}

type decisionRequest struct {
	ID       int64 `json:"id"`
	Approved *bool `json:"approved"`
}

// Decide records an admin decision carried as {id, approved}.
func (h Handler) Decide(w http.ResponseWriter, r *http.Request) {
	var req decisionRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.FromError(w, err)
		return
	}
	if req.Approved == nil {
		respond.FromError(w, &entity.ValidationError{Field: "approved", Message: "is required"})
		return
	}

	p := auth.PrincipalFrom(r.Context())
	out, err := h.Svc.Decide(r.Context(), p, h.Kind, req.ID, *req.Approved)
	if err != nil {
		respond.FromError(w, err)
		return
	}

	logging.WithRequestID(r.Context(), h.Logger).Info("moderation decision",
		"kind", h.Kind,
		"id", out.ID,
		"approved", *req.Approved,
		"status", out.Status,
		"by", p.ID)
	respond.OK(w, http.StatusOK, out)
}

// HistoryDTO is one recorded status change.
type HistoryDTO struct {
	From      entity.Status `json:"from,omitempty"`
	To        entity.Status `json:"to"`
	ActorID   int64         `json:"actorId"`
	CreatedAt time.Time     `json:"createdAt"`
}

// History lists the status changes of an item, oldest first.
func (h Handler) History(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.PathID(r, "id")
	if err != nil {
		respond.FromError(w, err)
		return
	}
	changes, err := h.Svc.History(r.Context(), auth.PrincipalFrom(r.Context()), h.Kind, id)
	if err != nil {
		respond.FromError(w, err)
		return
	}

	out := make([]HistoryDTO, 0, len(changes))
	for _, c := range changes {
		out = append(out, HistoryDTO{From: c.From, To: c.To, ActorID: c.ActorID, CreatedAt: c.CreatedAt})
	}
	respond.OK(w, http.StatusOK, out)
}
