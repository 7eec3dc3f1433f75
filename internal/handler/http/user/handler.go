// Package user serves the admin account management endpoints.
package user

import (
	"net/http"

	"brazucas-cork/internal/domain/entity"
	"brazucas-cork/internal/handler/http/auth"
	"brazucas-cork/internal/handler/http/pathutil"
	"brazucas-cork/internal/handler/http/respond"
	userUC "brazucas-cork/internal/usecase/user"
)

type Handler struct {
	Svc *userUC.Service
}

// Register mounts /users. Both routes are admin only.
func (h Handler) Register(mux *http.ServeMux) {
	admin := auth.RequireRole(entity.RoleAdmin)
	mux.Handle("GET /users", admin(http.HandlerFunc(h.List)))
	mux.Handle("PUT /users/{id}/role", admin(http.HandlerFunc(h.SetRole)))
}

func (h Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Svc.List(r.Context(), auth.PrincipalFrom(r.Context()))
	if err != nil {
		respond.FromError(w, err)
		return
	}
	out := make([]auth.UserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, auth.NewUserDTO(u))
	}
	respond.OK(w, http.StatusOK, out)
}

func (h Handler) SetRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.PathID(r, "id")
	if err != nil {
		respond.FromError(w, err)
		return
	}
	var req struct {
		Role string `json:"role"`
	}
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.FromError(w, err)
		return
	}
	role, err := entity.ParseRole(req.Role)
	if err != nil {
		respond.FromError(w, err)
		return
	}

	u, err := h.Svc.SetRole(r.Context(), auth.PrincipalFrom(r.Context()), id, role)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.OK(w, http.StatusOK, auth.NewUserDTO(u))
}
