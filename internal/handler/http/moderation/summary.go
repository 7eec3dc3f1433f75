package moderation

import (
	"net/http"

	"brazucas-cork/internal/domain/entity"
	"brazucas-cork/internal/handler/http/auth"
	"brazucas-cork/internal/handler/http/respond"
	modUC "brazucas-cork/internal/usecase/moderation"
)

// SummaryHandler serves GET /moderation/summary: item counts per kind and
// status for the admin dashboard.
type SummaryHandler struct {
	Svc *modUC.Service
}

func (h SummaryHandler) Register(mux *http.ServeMux) {
	mux.Handle("GET /moderation/summary", auth.RequireRole(entity.RoleAdmin)(h))
}

func (h SummaryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Svc.StatusCounts(r.Context())
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.OK(w, http.StatusOK, counts)
}
