package admin

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinkr/clinkr-api/internal/domain/payment"
)

// Claims for admin JWT tokens. The dashboard has a single operator
// identity; the token carries no per-user subject.
type Claims struct {
	jwt.RegisteredClaims
}

// JWTService for generating admin tokens
type JWTService struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTService creates admin JWT service
func NewJWTService(secret string, ttl time.Duration) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// GenerateToken creates a new admin JWT
func (s *JWTService) GenerateToken() (string, time.Time, error) {
	expiresAt := time.Now().Add(s.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   "admin",
			Issuer:    "clinkr-admin",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateToken validates admin JWT
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}

// PaymentCounter aggregates ledger rows by review status
type PaymentCounter interface {
	CountByStatus(ctx context.Context) (map[payment.Status]int, error)
}

// ClickCounter aggregates classified clicks
type ClickCounter interface {
	CountAll(ctx context.Context) (total, valid int, err error)
}

// LinkCounter counts shortened links
type LinkCounter interface {
	Count(ctx context.Context) (int, error)
}

// Service handles admin authentication and dashboard aggregates
type Service struct {
	jwt     *JWTService
	keyHash string
	payment PaymentCounter
	clicks  ClickCounter
	links   LinkCounter
}

// NewService creates admin service. keyHash is the bcrypt hash of the
// operator access key.
func NewService(jwtSvc *JWTService, keyHash string, payment PaymentCounter, clicks ClickCounter, links LinkCounter) *Service {
	return &Service{
		jwt:     jwtSvc,
		keyHash: keyHash,
		payment: payment,
		clicks:  clicks,
		links:   links,
	}
}

// Login exchanges the operator access key for a session token
func (s *Service) Login(accessKey string) (token string, expiresAt time.Time, err error) {
	if s.keyHash == "" {
		return "", time.Time{}, ErrNotConfigured
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.keyHash), []byte(accessKey)); err != nil {
		return "", time.Time{}, ErrInvalidAccessKey
	}
	return s.jwt.GenerateToken()
}

// Dashboard collects the aggregates the operator console renders
func (s *Service) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	byStatus, err := s.payment.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	totalClicks, validClicks, err := s.clicks.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	totalLinks, err := s.links.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &DashboardResponse{
		TotalLinks:       totalLinks,
		TotalClicks:      totalClicks,
		ValidClicks:      validClicks,
		InvalidClicks:    totalClicks - validClicks,
		PaymentsPending:  byStatus[payment.StatusPending],
		PaymentsActive:   byStatus[payment.StatusActive],
		PaymentsRejected: byStatus[payment.StatusRejected],
	}, nil
}
