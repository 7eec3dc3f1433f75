// Package news provides the HTTP handlers for community news posts.
package news

import (
	"time"

	"brazucas-cork/internal/domain/entity"
	newsUC "brazucas-cork/internal/usecase/news"
)

// DTO is the JSON shape of a post. Status is derived on every response.
type DTO struct {
	ID             int64         `json:"id"`
	Title          string        `json:"title"`
	Slug           string        `json:"slug"`
	Summary        string        `json:"summary"`
	Body           string        `json:"body"`
	BodyHTML       string        `json:"bodyHtml"`
	ImageURL       string        `json:"imageUrl,omitempty"`
	Category       string        `json:"category,omitempty"`
	AuthorID       int64         `json:"authorId"`
	AuthorNickname string        `json:"authorNickname"`
	Published      bool          `json:"published"`
	Approved       *bool         `json:"approved"`
	ApprovedAt     *time.Time    `json:"approvedAt,omitempty"`
	Status         entity.Status `json:"status"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

func toDTO(it newsUC.Item) DTO {
	return DTO{
		ID:             it.ID,
		Title:          it.Title,
		Slug:           it.Slug,
		Summary:        it.Summary,
		Body:           it.Body,
		BodyHTML:       it.BodyHTML,
		ImageURL:       it.ImageURL,
		Category:       it.Category,
		AuthorID:       it.AuthorID,
		AuthorNickname: it.AuthorNickname,
		Published:      it.Published,
		Approved:       it.Approved,
		ApprovedAt:     it.ApprovedAt,
		Status:         it.Status(),
		CreatedAt:      it.CreatedAt,
		UpdatedAt:      it.UpdatedAt,
	}
}

func toDTOs(items []newsUC.Item) []DTO {
	out := make([]DTO, 0, len(items))
	for _, it := range items {
		out = append(out, toDTO(it))
	}
	return out
}

type createRequest struct {
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Body      string `json:"body"`
	ImageURL  string `json:"imageUrl"`
	Category  string `json:"category"`
	Published bool   `json:"published"`
}

type updateRequest struct {
	Title     *string `json:"title"`
	Summary   *string `json:"summary"`
	Body      *string `json:"body"`
	ImageURL  *string `json:"imageUrl"`
	Category  *string `json:"category"`
	Published *bool   `json:"published"`
}
