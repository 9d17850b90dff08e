package click

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/clinkr/clinkr-api/internal/pkg/fingerprint"
)

// ErrLinkNotFound means the short code resolves to nothing
var ErrLinkNotFound = errors.New("short link not found")

const maxUserAgentLen = 500

// LinkInfo is the short-link context the classifier needs
type LinkInfo struct {
	ID          uuid.UUID
	OwnerUserID uuid.NullUUID
}

// LinkResolver resolves a short code; returns nil when unknown
type LinkResolver interface {
	ResolveShortCode(ctx context.Context, code string) (*LinkInfo, error)
}

// Publisher receives classified clicks for live fan-out
type Publisher interface {
	Publish(c *Click)
}

// Service classifies inbound redirect clicks. For any resolvable short
// code it always produces a verdict; adversarial user agents and source
// addresses are policy inputs, never errors.
type Service struct {
	repo      Repository
	links     LinkResolver
	limiter   Limiter
	hasher    *fingerprint.Hasher
	publisher Publisher
}

// NewService creates click classifier service. publisher may be nil.
func NewService(repo Repository, links LinkResolver, limiter Limiter, hasher *fingerprint.Hasher, publisher Publisher) *Service {
	return &Service{
		repo:      repo,
		links:     links,
		limiter:   limiter,
		hasher:    hasher,
		publisher: publisher,
	}
}

// Record classifies and persists one click on shortCode
func (s *Service) Record(ctx context.Context, shortCode, userAgent, sourceIP string) (*Click, error) {
	info, err := s.links.ResolveShortCode(ctx, shortCode)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, ErrLinkNotFound
	}

	return s.RecordForLink(ctx, info.ID, shortCode, userAgent, sourceIP)
}

// RecordForLink classifies and persists a click on an already-resolved
// link; the redirect handler uses this to avoid a second lookup
func (s *Service) RecordForLink(ctx context.Context, linkID uuid.UUID, shortCode, userAgent, sourceIP string) (*Click, error) {
	fp := s.hasher.FromIP(sourceIP)

	verdict := true
	reason := ReasonNone

	if IsBotUserAgent(userAgent) {
		verdict = false
		reason = ReasonBotAgent
	} else {
		allowed, err := s.limiter.Allow(ctx, fp, shortCode)
		if err != nil {
			// A broken counter backend must not block redirects; fail
			// open and keep the verdict observable in the logs
			log.Warn().Err(err).Str("short_code", shortCode).Msg("Click limiter unavailable, allowing")
			allowed = true
		}
		if !allowed {
			verdict = false
			reason = ReasonRateLimited
		}
	}

	if len(userAgent) > maxUserAgentLen {
		// Cut on a rune boundary; a split multi-byte character would be
		// invalid UTF-8 and fail the insert
		cut := maxUserAgentLen
		for cut > 0 && !utf8.RuneStart(userAgent[cut]) {
			cut--
		}
		userAgent = userAgent[:cut]
	}

	c := &Click{
		ID:            uuid.New(),
		LinkID:        linkID,
		ShortCode:     shortCode,
		IPFingerprint: fp,
		UserAgent:     userAgent,
		IsValid:       verdict,
		Reason:        reason,
		CreatedAt:     time.Now(),
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.Publish(c)
	}

	return c, nil
}

// ListForLink returns the most recent clicks for a link
func (s *Service) ListForLink(ctx context.Context, linkID uuid.UUID, limit int) ([]*Click, error) {
	return s.repo.ListByLinkID(ctx, linkID, limit)
}

// StatsForLink aggregates verdicts for a link
func (s *Service) StatsForLink(ctx context.Context, linkID uuid.UUID) (*Stats, error) {
	return s.repo.StatsByLinkID(ctx, linkID)
}
