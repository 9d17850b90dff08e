package payment_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/clinkr/clinkr-api/internal/domain/payment"
	"github.com/clinkr/clinkr-api/internal/explorer"
)

// memRepo enforces txid uniqueness atomically, like the DB unique index
type memRepo struct {
	mu      sync.Mutex
	byTxID  map[string]*payment.Payment
	byID    map[uuid.UUID]*payment.Payment
	creates int
}

func newMemRepo() *memRepo {
	return &memRepo{
		byTxID: make(map[string]*payment.Payment),
		byID:   make(map[uuid.UUID]*payment.Payment),
	}
}

func (r *memRepo) Create(_ context.Context, p *payment.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	if _, ok := r.byTxID[p.TxID]; ok {
		return payment.ErrDuplicateTransaction
	}
	cp := *p
	r.byTxID[p.TxID] = &cp
	r.byID[p.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id uuid.UUID) (*payment.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memRepo) ExistsByTxID(_ context.Context, txid string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byTxID[txid]
	return ok, nil
}

func (r *memRepo) Transition(_ context.Context, id uuid.UUID, to payment.Status) (*payment.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok || p.Status != payment.StatusPending {
		return nil, nil
	}
	p.Status = to
	p.ReviewedAt.Time = time.Now()
	p.ReviewedAt.Valid = true
	cp := *p
	return &cp, nil
}

func (r *memRepo) CountByStatus(context.Context) (map[payment.Status]int, error) {
	return nil, nil
}

type entitlementsStub struct {
	mu          sync.Mutex
	activations []uuid.UUID
}

func (e *entitlementsStub) Activate(_ context.Context, userID uuid.UUID, _ string, _ time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.activations = append(e.activations, userID)
	return nil
}

func newTestService(observed string) (*payment.Service, *memRepo, *entitlementsStub) {
	stub := &adapterStub{asset: explorer.AssetUSDT, amount: decimal.RequireFromString(observed)}
	repo := newMemRepo()
	ents := &entitlementsStub{}
	svc := payment.NewService(repo, payment.NewVerifier(explorer.NewRegistry(stub)), ents)
	return svc, repo, ents
}

func TestSubmitRecordsPendingWithCanonicalAmount(t *testing.T) {
	svc, _, _ := newTestService("10.5")

	p, err := svc.Submit(context.Background(), uuid.New(), tronTxID, "TWalletAddr", payment.PlanPremiumMonthly)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if p.Status != payment.StatusPending {
		t.Fatalf("expected pending, got %s", p.Status)
	}
	// Plan amount is stored, never the observed 10.5
	if !p.Amount.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected canonical amount 10, got %s", p.Amount)
	}
	if p.Asset != explorer.AssetUSDT {
		t.Fatalf("expected USDT, got %s", p.Asset)
	}
}

func TestSubmitUnknownPlan(t *testing.T) {
	svc, repo, _ := newTestService("10")

	_, err := svc.Submit(context.Background(), uuid.New(), tronTxID, "w", payment.PlanID("premium-weekly"))
	if !errors.Is(err, payment.ErrUnknownPlan) {
		t.Fatalf("expected ErrUnknownPlan, got %v", err)
	}
	if repo.creates != 0 {
		t.Fatal("no record may be created for an unknown plan")
	}
}

func TestSubmitUnderPaymentRejected(t *testing.T) {
	svc, repo, _ := newTestService("9.99")

	_, err := svc.Submit(context.Background(), uuid.New(), tronTxID, "w", payment.PlanPremiumMonthly)
	if !errors.Is(err, payment.ErrInvalidTransaction) {
		t.Fatalf("expected ErrInvalidTransaction, got %v", err)
	}
	if repo.creates != 0 {
		t.Fatal("no record may be created for an invalid transaction")
	}
}

func TestSubmitDuplicateTxID(t *testing.T) {
	svc, _, _ := newTestService("10")

	if _, err := svc.Submit(context.Background(), uuid.New(), tronTxID, "w", payment.PlanPremiumMonthly); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}

	_, err := svc.Submit(context.Background(), uuid.New(), tronTxID, "w", payment.PlanPremiumMonthly)
	if !errors.Is(err, payment.ErrDuplicateTransaction) {
		t.Fatalf("expected ErrDuplicateTransaction, got %v", err)
	}
}

func TestSubmitConcurrentDuplicates(t *testing.T) {
	svc, _, _ := newTestService("10")

	const workers = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Submit(context.Background(), uuid.New(), tronTxID, "w", payment.PlanPremiumMonthly)
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
				return
			}
			if !errors.Is(err, payment.ErrDuplicateTransaction) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Fatalf("expected exactly one successful submission, got %d", successes)
	}
}

func TestSubmitUpstreamUnavailableCreatesNothing(t *testing.T) {
	stub := &adapterStub{asset: explorer.AssetUSDT, err: explorer.ErrUnavailable}
	repo := newMemRepo()
	svc := payment.NewService(repo, payment.NewVerifier(explorer.NewRegistry(stub)), &entitlementsStub{})

	_, err := svc.Submit(context.Background(), uuid.New(), tronTxID, "w", payment.PlanPremiumMonthly)
	if !errors.Is(err, payment.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
	if repo.creates != 0 {
		t.Fatal("an unreachable explorer must not produce a record")
	}
}

func TestReviewActivatesExactlyOnce(t *testing.T) {
	svc, _, ents := newTestService("10")

	userID := uuid.New()
	p, err := svc.Submit(context.Background(), userID, tronTxID, "w", payment.PlanPremiumMonthly)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	reviewed, err := svc.Review(context.Background(), p.ID, payment.StatusActive)
	if err != nil {
		t.Fatalf("review failed: %v", err)
	}
	if reviewed.Status != payment.StatusActive {
		t.Fatalf("expected active, got %s", reviewed.Status)
	}
	if len(ents.activations) != 1 || ents.activations[0] != userID {
		t.Fatalf("expected one activation for %s, got %v", userID, ents.activations)
	}

	// Second review of a resolved record must fail and not re-activate
	_, err = svc.Review(context.Background(), p.ID, payment.StatusActive)
	if !errors.Is(err, payment.ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
	}
	if len(ents.activations) != 1 {
		t.Fatalf("re-review activated again: %v", ents.activations)
	}
}

func TestReviewRejectDoesNotActivate(t *testing.T) {
	svc, _, ents := newTestService("10")

	p, err := svc.Submit(context.Background(), uuid.New(), tronTxID, "w", payment.PlanPremiumMonthly)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	reviewed, err := svc.Review(context.Background(), p.ID, payment.StatusRejected)
	if err != nil {
		t.Fatalf("review failed: %v", err)
	}
	if reviewed.Status != payment.StatusRejected {
		t.Fatalf("expected rejected, got %s", reviewed.Status)
	}
	if len(ents.activations) != 0 {
		t.Fatal("rejected payment must not activate an entitlement")
	}
}

func TestReviewInvalidDecision(t *testing.T) {
	svc, _, _ := newTestService("10")

	_, err := svc.Review(context.Background(), uuid.New(), payment.StatusPending)
	if !errors.Is(err, payment.ErrInvalidDecision) {
		t.Fatalf("expected ErrInvalidDecision, got %v", err)
	}
}

func TestReviewUnknownPayment(t *testing.T) {
	svc, _, _ := newTestService("10")

	_, err := svc.Review(context.Background(), uuid.New(), payment.StatusActive)
	if !errors.Is(err, payment.ErrPaymentNotFound) {
		t.Fatalf("expected ErrPaymentNotFound, got %v", err)
	}
}
