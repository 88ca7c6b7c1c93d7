package discounts

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/karaoke-backend/pkg/db/models"
)

var (
	yearStart = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	yearEnd   = time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC)
	midYear   = time.Date(2025, 6, 15, 21, 0, 0, 0, time.UTC)
)

func policy(id uint, minVisits int, pct int64, active bool) models.DiscountPolicy {
	return models.DiscountPolicy{
		ID:              id,
		Name:            "policy",
		MinVisitReq:     minVisits,
		DiscountPercent: decimal.NewFromInt(pct),
		StartDate:       &yearStart,
		EndDate:         &yearEnd,
		IsActive:        active,
	}
}

func TestEvaluateFirstMatchWins(t *testing.T) {
	policies := []models.DiscountPolicy{
		policy(1, 20, 15, true),
		policy(2, 10, 5, true),
		policy(3, 0, 10, true),
	}

	got := Evaluate(models.Customer{MonthlyVisits: 12}, policies, midYear)
	require.NotNil(t, got)
	require.EqualValues(t, 2, got.ID)

	got = Evaluate(models.Customer{MonthlyVisits: 25}, policies, midYear)
	require.NotNil(t, got)
	require.EqualValues(t, 1, got.ID)
}

func TestEvaluateSkipsInactiveAndOutOfWindow(t *testing.T) {
	expired := policy(1, 0, 50, true)
	past := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	pastEnd := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	expired.StartDate, expired.EndDate = &past, &pastEnd

	policies := []models.DiscountPolicy{
		expired,
		policy(2, 0, 10, false),
	}
	require.Nil(t, Evaluate(models.Customer{MonthlyVisits: 100}, policies, midYear))
}

func TestEvaluateWindowIsInclusive(t *testing.T) {
	policies := []models.DiscountPolicy{policy(1, 0, 5, true)}
	require.NotNil(t, Evaluate(models.Customer{}, policies, yearStart))
	require.NotNil(t, Evaluate(models.Customer{}, policies, yearEnd))
	require.Nil(t, Evaluate(models.Customer{}, policies, yearEnd.Add(time.Nanosecond)))
}

func TestEvaluateIsMonotonicInVisits(t *testing.T) {
	policies := []models.DiscountPolicy{policy(1, 10, 5, true)}
	eligibleAt := -1
	for visits := 0; visits <= 30; visits++ {
		got := Evaluate(models.Customer{MonthlyVisits: visits}, policies, midYear)
		if got != nil && eligibleAt < 0 {
			eligibleAt = visits
		}
		if eligibleAt >= 0 {
			require.NotNil(t, got, "eligibility lost at %d visits", visits)
		}
	}
	require.Equal(t, 10, eligibleAt)
}

func TestEvaluateDoesNotAliasInput(t *testing.T) {
	policies := []models.DiscountPolicy{policy(1, 0, 5, true)}
	got := Evaluate(models.Customer{}, policies, midYear)
	got.Name = "changed"
	require.Equal(t, "policy", policies[0].Name)
}

func TestSelectAppliesGate(t *testing.T) {
	policies := []models.DiscountPolicy{policy(1, 0, 10, true)}

	require.Nil(t, Select(models.Customer{MonthlyVisits: PolicyGate - 1}, policies, midYear))
	require.NotNil(t, Select(models.Customer{MonthlyVisits: PolicyGate}, policies, midYear))
}
