package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/karaoke-backend/pkg/enums"
)

func TestDiscountPolicyActiveAt(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC)
	policy := DiscountPolicy{IsActive: true, StartDate: &start, EndDate: &end}

	require.True(t, policy.ActiveAt(start), "window start is inclusive")
	require.True(t, policy.ActiveAt(end), "window end is inclusive")
	require.False(t, policy.ActiveAt(start.Add(-time.Second)))
	require.False(t, policy.ActiveAt(end.Add(time.Second)))

	policy.IsActive = false
	require.False(t, policy.ActiveAt(start.Add(time.Hour)))
}

func TestDiscountPolicyOpenWindow(t *testing.T) {
	policy := DiscountPolicy{IsActive: true}
	require.True(t, policy.ActiveAt(time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestLineTotal(t *testing.T) {
	item := BillLineItem{Quantity: 10, PriceAtOrder: decimal.NewFromInt(25000)}
	require.True(t, decimal.NewFromInt(250000).Equal(item.LineTotal()))
}

func TestBillIsPaid(t *testing.T) {
	require.False(t, Bill{Status: enums.BillStatusUnpaid}.IsPaid())
	require.True(t, Bill{Status: enums.BillStatusPaid}.IsPaid())
}
