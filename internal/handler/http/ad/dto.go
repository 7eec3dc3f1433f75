// Package ad provides the HTTP handlers for service advertisements.
package ad

import (
	"time"

	"brazucas-cork/internal/domain/entity"
	adUC "brazucas-cork/internal/usecase/ad"
)

// DTO is the JSON shape of an ad. Description is sanitized HTML.
type DTO struct {
	ID             int64         `json:"id"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Category       string        `json:"category,omitempty"`
	Price          string        `json:"price,omitempty"`
	ContactEmail   string        `json:"contactEmail,omitempty"`
	ContactPhone   string        `json:"contactPhone,omitempty"`
	WebsiteURL     string        `json:"websiteUrl,omitempty"`
	ImageURL       string        `json:"imageUrl,omitempty"`
	Location       string        `json:"location,omitempty"`
	AuthorID       int64         `json:"authorId"`
	AuthorNickname string        `json:"authorNickname"`
	Published      bool          `json:"published"`
	Approved       *bool         `json:"approved"`
	ApprovedAt     *time.Time    `json:"approvedAt,omitempty"`
	Status         entity.Status `json:"status"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

func toDTO(it adUC.Item) DTO {
	return DTO{
		ID:             it.ID,
		Title:          it.Title,
		Description:    it.Description,
		Category:       it.Category,
		Price:          it.Price,
		ContactEmail:   it.ContactEmail,
		ContactPhone:   it.ContactPhone,
		WebsiteURL:     it.WebsiteURL,
		ImageURL:       it.ImageURL,
		Location:       it.Location,
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

func toDTOs(items []adUC.Item) []DTO {
	out := make([]DTO, 0, len(items))
	for _, it := range items {
		out = append(out, toDTO(it))
	}
	return out
}

type createRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	Price        string `json:"price"`
	ContactEmail string `json:"contactEmail"`
	ContactPhone string `json:"contactPhone"`
	WebsiteURL   string `json:"websiteUrl"`
	ImageURL     string `json:"imageUrl"`
	Location     string `json:"location"`
	Published    bool   `json:"published"`
}

type updateRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Category     *string `json:"category"`
	Price        *string `json:"price"`
	ContactEmail *string `json:"contactEmail"`
	ContactPhone *string `json:"contactPhone"`
	WebsiteURL   *string `json:"websiteUrl"`
	ImageURL     *string `json:"imageUrl"`
	Location     *string `json:"location"`
	Published    *bool   `json:"published"`
}
