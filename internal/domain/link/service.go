package link

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinkr/clinkr-api/internal/domain/click"
)

// createAttempts bounds retries on short code collisions
const createAttempts = 5

// SubscriptionChecker reports whether a user has an active paid plan
type SubscriptionChecker interface {
	HasActive(ctx context.Context, userID uuid.UUID) (bool, error)
}

// Uploader stores exported artifacts and returns their public URL
type Uploader interface {
	Put(ctx context.Context, key, contentType string, body []byte) (string, error)
}

// Service handles link shortening, resolution and analytics
type Service struct {
	repo       Repository
	clicks     *click.Service
	subs       SubscriptionChecker
	uploader   Uploader
	domain     string
	codeLength int
}

// NewService creates link service. subs and uploader may be nil; without
// them every redirect carries ads and CSV export is disabled.
func NewService(repo Repository, clicks *click.Service, subs SubscriptionChecker, uploader Uploader, domain string, codeLength int) *Service {
	if codeLength <= 0 {
		codeLength = DefaultCodeLength
	}
	return &Service{
		repo:       repo,
		clicks:     clicks,
		subs:       subs,
		uploader:   uploader,
		domain:     domain,
		codeLength: codeLength,
	}
}

// Create shortens a URL. A custom alias is honored when free; otherwise
// random codes are drawn until one fits.
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Link, error) {
	target, err := normalizeTargetURL(req.URL)
	if err != nil {
		return nil, err
	}

	var ownerID uuid.NullUUID
	if req.UserID != "" {
		id, err := uuid.Parse(req.UserID)
		if err == nil {
			ownerID = uuid.NullUUID{UUID: id, Valid: true}
		}
	}

	if req.CustomAlias != "" {
		l := s.newLink(ownerID, target, req.CustomAlias)
		if err := s.repo.Create(ctx, l); err != nil {
			return nil, err
		}
		return l, nil
	}

	for i := 0; i < createAttempts; i++ {
		l := s.newLink(ownerID, target, generateShortCode(s.codeLength))
		err := s.repo.Create(ctx, l)
		if err == nil {
			return l, nil
		}
		if err != ErrCodeTaken {
			return nil, err
		}
	}
	return nil, ErrCodeExhausted
}

func (s *Service) newLink(ownerID uuid.NullUUID, target, code string) *Link {
	return &Link{
		ID:          uuid.New(),
		OwnerUserID: ownerID,
		OriginalURL: target,
		ShortCode:   code,
		Domain:      s.domain,
		CreatedAt:   time.Now(),
	}
}

// Resolve records the click and returns the redirect decision. The
// click verdict never blocks the redirect; it only feeds analytics.
// adFree is true when the link owner holds an active subscription.
func (s *Service) Resolve(ctx context.Context, code, userAgent, sourceIP string) (l *Link, adFree bool, err error) {
	l, err = s.repo.GetByShortCode(ctx, code)
	if err != nil {
		return nil, false, err
	}
	if l == nil {
		return nil, false, ErrLinkNotFound
	}

	if _, err := s.clicks.RecordForLink(ctx, l.ID, l.ShortCode, userAgent, sourceIP); err != nil {
		// Analytics must not break redirects
		return l, false, nil
	}

	if s.subs != nil && l.OwnerUserID.Valid {
		active, err := s.subs.HasActive(ctx, l.OwnerUserID.UUID)
		if err == nil && active {
			adFree = true
		}
	}

	return l, adFree, nil
}

// Get returns a link by ID
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Link, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, ErrLinkNotFound
	}
	return l, nil
}

// Analytics returns verdict aggregates plus the most recent clicks
func (s *Service) Analytics(ctx context.Context, id uuid.UUID, recentLimit int) (*click.Stats, []*click.Click, error) {
	l, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	stats, err := s.clicks.StatsForLink(ctx, l.ID)
	if err != nil {
		return nil, nil, err
	}
	recent, err := s.clicks.ListForLink(ctx, l.ID, recentLimit)
	if err != nil {
		return nil, nil, err
	}
	return stats, recent, nil
}

// ExportCSV renders the link's click log as CSV, stores it and returns
// the download URL
func (s *Service) ExportCSV(ctx context.Context, id uuid.UUID) (string, error) {
	if s.uploader == nil {
		return "", fmt.Errorf("export storage is not configured")
	}

	l, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}

	clicks, err := s.clicks.ListForLink(ctx, l.ID, 500)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"clicked_at", "ip_fingerprint", "user_agent", "is_valid", "reason"})
	for _, c := range clicks {
		w.Write([]string{
			c.CreatedAt.Format(time.RFC3339),
			c.IPFingerprint,
			c.UserAgent,
			fmt.Sprintf("%t", c.IsValid),
			string(c.Reason),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	key := fmt.Sprintf("exports/%s/%d.csv", l.ShortCode, time.Now().Unix())
	return s.uploader.Put(ctx, key, "text/csv", buf.Bytes())
}

// normalizeTargetURL accepts absolute http(s) URLs only
func normalizeTargetURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return "", ErrInvalidTargetURL
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", ErrInvalidTargetURL
	}
	return u.String(), nil
}

// ClickResolver adapts the link repository to the click classifier
type ClickResolver struct {
	repo Repository
}

// NewClickResolver creates a resolver backed by the link repository
func NewClickResolver(repo Repository) *ClickResolver {
	return &ClickResolver{repo: repo}
}

// ResolveShortCode implements click.LinkResolver
func (r *ClickResolver) ResolveShortCode(ctx context.Context, code string) (*click.LinkInfo, error) {
	l, err := r.repo.GetByShortCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, nil
	}
	return &click.LinkInfo{ID: l.ID, OwnerUserID: l.OwnerUserID}, nil
}
