package link

import (
	"time"

	"github.com/google/uuid"
)

// Link is one shortened URL. OwnerUserID is null for anonymous links;
// owned links surface in the owner's analytics.
type Link struct {
	ID          uuid.UUID     `db:"id" json:"id"`
	OwnerUserID uuid.NullUUID `db:"owner_user_id" json:"-"`
	OriginalURL string        `db:"original_url" json:"original_url"`
	ShortCode   string        `db:"short_code" json:"short_code"`
	Domain      string        `db:"domain" json:"domain"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
}

// ShortURL renders the public redirect URL
func (l *Link) ShortURL() string {
	return l.Domain + "/" + l.ShortCode
}
