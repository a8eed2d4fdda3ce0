package dto

import (
	"time"

	"github.com/snipurl/snipurl/internal/model"
)

// CreateShortURLsRequest is the body of POST /v1/shortener/.
type CreateShortURLsRequest struct {
	TargetURLs []string `json:"redir_target_url"`
}

// ShortURLResponse represents a short URL owned by the caller.
type ShortURLResponse struct {
	ID        string    `json:"id"`
	TargetURL string    `json:"redir_target_url"`
	Key       string    `json:"key"`
	SecretKey string    `json:"secret_key"`
	ShortURL  string    `json:"short_url"`
	IsActive  bool      `json:"is_active"`
	Clicks    int64     `json:"clicks"`
	UserEmail string    `json:"user_email"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateShortURLsResponse lists created records and rejected inputs.
type CreateShortURLsResponse struct {
	Created     []ShortURLResponse `json:"created"`
	InvalidURLs []string           `json:"invalid_urls"`
}

// SetActiveRequest is the body of PATCH /v1/shortener/{secret_key}/active.
// IsActive is a pointer so a missing field is distinguishable from false.
type SetActiveRequest struct {
	IsActive *bool `json:"is_active"`
}

// SetActiveResponse echoes the new state.
type SetActiveResponse struct {
	SecretKey string `json:"secret_key"`
	IsActive  bool   `json:"is_active"`
}

// ToShortURLResponse converts a ShortURL model to its response DTO.
func ToShortURLResponse(u *model.ShortURL, shortURL string) ShortURLResponse {
	return ShortURLResponse{
		ID:        u.ID,
		TargetURL: u.TargetURL,
		Key:       u.Key,
		SecretKey: u.SecretKey,
		ShortURL:  shortURL,
		IsActive:  u.IsActive,
		Clicks:    u.Clicks,
		UserEmail: u.OwnerEmail,
		CreatedAt: u.CreatedAt,
	}
}

// ToShortURLResponses converts a list, never returning nil.
func ToShortURLResponses(urls []*model.ShortURL, shortURL func(key string) string) []ShortURLResponse {
	out := make([]ShortURLResponse, 0, len(urls))
	for _, u := range urls {
		out = append(out, ToShortURLResponse(u, shortURL(u.Key)))
	}
	return out
}
