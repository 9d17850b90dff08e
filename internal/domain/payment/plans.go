package payment

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/clinkr/clinkr-api/internal/explorer"
)

// PlanID represents a paid plan
type PlanID string

const (
	PlanPremiumMonthly PlanID = "premium-monthly"
	PlanPremiumYearly  PlanID = "premium-yearly"
)

// PlanTerms is the required payment for a plan. The plan -> asset/amount
// mapping is product policy, a static table; nothing is inferred from it
// and plans outside the table are rejected outright.
type PlanTerms struct {
	Asset  explorer.Asset
	Amount decimal.Decimal
	months int
}

// ExpiryFrom returns when an entitlement bought at t runs out
func (t PlanTerms) ExpiryFrom(at time.Time) time.Time {
	return at.AddDate(0, t.months, 0)
}

var planTable = map[PlanID]PlanTerms{
	PlanPremiumMonthly: {Asset: explorer.AssetUSDT, Amount: decimal.NewFromInt(10), months: 1},
	PlanPremiumYearly:  {Asset: explorer.AssetBNB, Amount: decimal.NewFromInt(100), months: 12},
}

// Terms looks up the required asset and amount for a plan
func Terms(plan PlanID) (PlanTerms, bool) {
	t, ok := planTable[plan]
	return t, ok
}
