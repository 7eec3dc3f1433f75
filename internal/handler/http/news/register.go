package news

import (
	"log/slog"
	"net/http"

	"brazucas-cork/internal/common/pagination"
	"brazucas-cork/internal/handler/http/auth"
	"brazucas-cork/internal/observability/logging"
	newsUC "brazucas-cork/internal/usecase/news"
)

type Handler struct {
	Svc        *newsUC.Service
	Pagination pagination.Config
	Logger     *slog.Logger
}

// Register mounts the /news routes. Reads are public; writes need a token.
// Moderation routes under /news are mounted by the moderation handler.
func (h Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /news", h.List)
	mux.Handle("GET /news/mine", auth.RequireAuth(http.HandlerFunc(h.Mine)))
	mux.HandleFunc("GET /news/{id}", h.Get)

	mux.Handle("POST /news", auth.RequireAuth(http.HandlerFunc(h.Create)))
	mux.Handle("PUT /news/{id}", auth.RequireAuth(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /news/{id}", auth.RequireAuth(http.HandlerFunc(h.Delete)))
}

func (h Handler) logger(r *http.Request) *slog.Logger {
	return logging.WithRequestID(r.Context(), h.Logger)
}
