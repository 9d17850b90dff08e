package link

import (
	"time"

	"github.com/clinkr/clinkr-api/internal/domain/click"
)

// CreateRequest shortens a URL
type CreateRequest struct {
	URL         string `json:"url" validate:"required,max=2048"`
	CustomAlias string `json:"custom_alias,omitempty" validate:"omitempty,alphanum,min=4,max=32"`
	UserID      string `json:"user_id,omitempty" validate:"omitempty,uuid"`
}

// LinkResponse is the public link representation
type LinkResponse struct {
	ID          string    `json:"id"`
	ShortCode   string    `json:"short_code"`
	ShortURL    string    `json:"short_url"`
	OriginalURL string    `json:"original_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// LinkResponseFromEntity converts entity to response DTO
func LinkResponseFromEntity(l *Link) *LinkResponse {
	return &LinkResponse{
		ID:          l.ID.String(),
		ShortCode:   l.ShortCode,
		ShortURL:    l.ShortURL(),
		OriginalURL: l.OriginalURL,
		CreatedAt:   l.CreatedAt,
	}
}

// AnalyticsResponse combines verdict aggregates with recent clicks
type AnalyticsResponse struct {
	Stats  *click.Stats   `json:"stats"`
	Recent []*click.Click `json:"recent_clicks"`
}

// ExportResponse carries the CSV download URL
type ExportResponse struct {
	URL string `json:"url"`
}
