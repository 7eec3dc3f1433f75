package news

import (
	"net/http"

	"brazucas-cork/internal/handler/http/auth"
	"brazucas-cork/internal/handler/http/pathutil"
	"brazucas-cork/internal/handler/http/respond"
	newsUC "brazucas-cork/internal/usecase/news"
)

// Create serves POST /news. published=true submits the post for review.
func (h Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.FromError(w, err)
		return
	}

	p := auth.PrincipalFrom(r.Context())
	item, err := h.Svc.Create(r.Context(), p, newsUC.CreateInput{
		Title:     req.Title,
		Summary:   req.Summary,
		Body:      req.Body,
		ImageURL:  req.ImageURL,
		Category:  req.Category,
		Published: req.Published,
	})
	if err != nil {
		respond.FromError(w, err)
		return
	}

	h.logger(r).Info("news created",
		"news_id", item.ID,
		"author_id", p.ID,
		"status", item.Status())
	respond.OK(w, http.StatusCreated, toDTO(*item))
}

// Update serves PUT /news/{id}. Absent fields are left unchanged.
func (h Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.PathID(r, "id")
	if err != nil {
		respond.FromError(w, err)
		return
	}
	var req updateRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.FromError(w, err)
		return
	}

	item, err := h.Svc.Update(r.Context(), auth.PrincipalFrom(r.Context()), newsUC.UpdateInput{
		ID:        id,
		Title:     req.Title,
		Summary:   req.Summary,
		Body:      req.Body,
		ImageURL:  req.ImageURL,
		Category:  req.Category,
		Published: req.Published,
	})
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.OK(w, http.StatusOK, toDTO(*item))
}

// Delete serves DELETE /news/{id}.
func (h Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.PathID(r, "id")
	if err != nil {
		respond.FromError(w, err)
		return
	}
	p := auth.PrincipalFrom(r.Context())
	if err := h.Svc.Delete(r.Context(), p, id); err != nil {
		respond.FromError(w, err)
		return
	}

	h.logger(r).Info("news deleted", "news_id", id, "by", p.ID)
	respond.OK(w, http.StatusOK, map[string]int64{"id": id})
}
