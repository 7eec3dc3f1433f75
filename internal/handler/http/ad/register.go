package ad

import (
	"log/slog"
	"net/http"

	"brazucas-cork/internal/common/pagination"
	"brazucas-cork/internal/handler/http/auth"
	"brazucas-cork/internal/observability/logging"
	adUC "brazucas-cork/internal/usecase/ad"
)

type Handler struct {
	Svc        *adUC.Service
	Pagination pagination.Config
	Logger     *slog.Logger
}

// Register mounts the /ads routes. Reads are public; writes need a token.
// Moderation routes under /ads are mounted by the moderation handler.
func (h Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /ads", h.List)
	mux.Handle("GET /ads/mine", auth.RequireAuth(http.HandlerFunc(h.Mine)))
	mux.HandleFunc("GET /ads/{id}", h.Get)

	mux.Handle("POST /ads", auth.RequireAuth(http.HandlerFunc(h.Create)))
	mux.Handle("PUT /ads/{id}", auth.RequireAuth(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /ads/{id}", auth.RequireAuth(http.HandlerFunc(h.Delete)))
}

func (h Handler) logger(r *http.Request) *slog.Logger {
	return logging.WithRequestID(r.Context(), h.Logger)
}
