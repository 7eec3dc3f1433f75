package ad

import (
	"net/http"

	"brazucas-cork/internal/handler/http/auth"
	"brazucas-cork/internal/handler/http/pathutil"
	"brazucas-cork/internal/handler/http/respond"
	adUC "brazucas-cork/internal/usecase/ad"
)

// Create serves POST /ads.
func (h Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.FromError(w, err)
		return
	}

	p := auth.PrincipalFrom(r.Context())
	item, err := h.Svc.Create(r.Context(), p, adUC.CreateInput{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Price:        req.Price,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		WebsiteURL:   req.WebsiteURL,
		ImageURL:     req.ImageURL,
		Location:     req.Location,
		Published:    req.Published,
	})
	if err != nil {
		respond.FromError(w, err)
		return
	}

	h.logger(r).Info("ad created",
		"ad_id", item.ID,
		"author_id", p.ID,
		"status", item.Status())
	respond.OK(w, http.StatusCreated, toDTO(*item))
}

// Update serves PUT /ads/{id}.
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

	item, err := h.Svc.Update(r.Context(), auth.PrincipalFrom(r.Context()), adUC.UpdateInput{
		ID:           id,
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Price:        req.Price,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		WebsiteURL:   req.WebsiteURL,
		ImageURL:     req.ImageURL,
		Location:     req.Location,
		Published:    req.Published,
	})
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.OK(w, http.StatusOK, toDTO(*item))
}

// Delete serves DELETE /ads/{id}.
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

	h.logger(r).Info("ad deleted", "ad_id", id, "by", p.ID)
	respond.OK(w, http.StatusOK, map[string]int64{"id": id})
}
