package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/clinkr/clinkr-api/internal/domain/payment"
)

type paymentCounterStub struct {
	counts map[payment.Status]int
}

func (s *paymentCounterStub) CountByStatus(context.Context) (map[payment.Status]int, error) {
	return s.counts, nil
}

type clickCounterStub struct {
	total, valid int
}

func (s *clickCounterStub) CountAll(context.Context) (int, int, error) {
	return s.total, s.valid, nil
}

type linkCounterStub struct {
	count int
}

func (s *linkCounterStub) Count(context.Context) (int, error) {
	return s.count, nil
}

func newTestService(t *testing.T, accessKey string, ttl time.Duration) *Service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(accessKey), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return NewService(
		NewJWTService("test-secret", ttl),
		string(hash),
		&paymentCounterStub{counts: map[payment.Status]int{
			payment.StatusPending:  3,
			payment.StatusActive:   5,
			payment.StatusRejected: 2,
		}},
		&clickCounterStub{total: 100, valid: 80},
		&linkCounterStub{count: 12},
	)
}

func TestLoginWithValidKey(t *testing.T) {
	svc := newTestService(t, "super-secret-key", time.Hour)

	token, expiresAt, err := svc.Login("super-secret-key")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}
	if !expiresAt.After(time.Now()) {
		t.Error("token should expire in the future")
	}
}

func TestLoginWithWrongKey(t *testing.T) {
	svc := newTestService(t, "super-secret-key", time.Hour)

	_, _, err := svc.Login("guess")
	if !errors.Is(err, ErrInvalidAccessKey) {
		t.Errorf("expected ErrInvalidAccessKey, got %v", err)
	}
}

func TestLoginWithoutConfiguredHash(t *testing.T) {
	svc := NewService(NewJWTService("test-secret", time.Hour), "", nil, nil, nil)

	_, _, err := svc.Login("anything")
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	jwtSvc := NewJWTService("test-secret", time.Hour)

	token, _, err := jwtSvc.GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}
	if _, err := jwtSvc.ValidateToken(token); err != nil {
		t.Errorf("freshly issued token should validate: %v", err)
	}

	other := NewJWTService("different-secret", time.Hour)
	if _, err := other.ValidateToken(token); err == nil {
		t.Error("token signed with another secret should not validate")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	jwtSvc := NewJWTService("test-secret", -time.Minute)

	token, _, err := jwtSvc.GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}
	if _, err := jwtSvc.ValidateToken(token); err == nil {
		t.Error("expired token should not validate")
	}
}

func TestDashboardAggregates(t *testing.T) {
	svc := newTestService(t, "super-secret-key", time.Hour)

	stats, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard returned error: %v", err)
	}

	if stats.TotalLinks != 12 {
		t.Errorf("TotalLinks = %d, want 12", stats.TotalLinks)
	}
	if stats.TotalClicks != 100 || stats.ValidClicks != 80 || stats.InvalidClicks != 20 {
		t.Errorf("clicks = %d/%d/%d, want 100/80/20", stats.TotalClicks, stats.ValidClicks, stats.InvalidClicks)
	}
	if stats.PaymentsPending != 3 || stats.PaymentsActive != 5 || stats.PaymentsRejected != 2 {
		t.Errorf("payments = %d/%d/%d, want 3/5/2", stats.PaymentsPending, stats.PaymentsActive, stats.PaymentsRejected)
	}
}
