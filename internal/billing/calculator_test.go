package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/karaoke-backend/pkg/db/models"
	"github.com/angelmondragon/karaoke-backend/pkg/enums"
)

var (
	bookedAt    = time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC)
	policyStart = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	policyEnd   = time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC)
)

func roomP01() models.Room {
	return models.Room{ID: 1, Name: "P01", Capacity: 10, PricePerHour: decimal.NewFromInt(150000), Status: enums.RoomStatusOccupied}
}

func loyalPolicy() models.DiscountPolicy {
	return models.DiscountPolicy{
		ID:              1,
		Name:            "Loyal customer",
		MinVisitReq:     10,
		DiscountPercent: decimal.NewFromInt(5),
		StartDate:       &policyStart,
		EndDate:         &policyEnd,
		IsActive:        true,
	}
}

func requireDecimal(t *testing.T, want int64, got decimal.Decimal) {
	t.Helper()
	require.True(t, decimal.NewFromInt(want).Equal(got), "want %d got %s", want, got)
}

func TestPreviewTwoHoursNoDiscount(t *testing.T) {
	snap := Preview(PreviewInput{
		Bill:     models.Bill{ID: 9, StartTime: bookedAt},
		Room:     roomP01(),
		Customer: models.Customer{MonthlyVisits: 3},
		Policies: []models.DiscountPolicy{loyalPolicy()},
	}, bookedAt.Add(2*time.Hour))

	requireDecimal(t, 2, snap.ElapsedHours)
	requireDecimal(t, 300000, snap.RoomCharge)
	requireDecimal(t, 0, snap.ServiceCharge)
	requireDecimal(t, 0, snap.DiscountAmount)
	requireDecimal(t, 300000, snap.Total)
	require.Nil(t, snap.DiscountPolicy)
	require.False(t, snap.IsOvertime, "exactly two hours is not overtime")
	require.EqualValues(t, 9, snap.BillID)
}

func TestPreviewLoyalCustomerDiscount(t *testing.T) {
	snap := Preview(PreviewInput{
		Bill:     models.Bill{StartTime: bookedAt},
		Room:     roomP01(),
		Customer: models.Customer{MonthlyVisits: 12},
		Policies: []models.DiscountPolicy{loyalPolicy()},
	}, bookedAt.Add(2*time.Hour))

	require.NotNil(t, snap.DiscountPolicy)
	requireDecimal(t, 15000, snap.DiscountAmount)
	requireDecimal(t, 285000, snap.Total)
}

func TestPreviewGateBlocksLowThresholdPolicy(t *testing.T) {
	open := loyalPolicy()
	open.MinVisitReq = 0

	snap := Preview(PreviewInput{
		Bill:     models.Bill{StartTime: bookedAt},
		Room:     roomP01(),
		Customer: models.Customer{MonthlyVisits: 9},
		Policies: []models.DiscountPolicy{open},
	}, bookedAt.Add(time.Hour))

	require.Nil(t, snap.DiscountPolicy)
	requireDecimal(t, 150000, snap.Total)
}

func TestPreviewOvertimeAndFractionalHours(t *testing.T) {
	snap := Preview(PreviewInput{
		Bill: models.Bill{StartTime: bookedAt},
		Room: roomP01(),
	}, bookedAt.Add(2*time.Hour+20*time.Minute))

	require.True(t, snap.IsOvertime)
	requireDecimal(t, 350000, snap.RoomCharge)

	snap = Preview(PreviewInput{
		Bill: models.Bill{StartTime: bookedAt},
		Room: roomP01(),
	}, bookedAt.Add(80*time.Minute))
	requireDecimal(t, 200000, snap.RoomCharge)
}

func TestRoomChargeRoundsToCents(t *testing.T) {
	snap := Preview(PreviewInput{
		Bill: models.Bill{StartTime: bookedAt},
		Room: roomP01(),
	}, bookedAt.Add(100*time.Second))

	require.True(t, decimal.RequireFromString("4166.67").Equal(snap.RoomCharge), snap.RoomCharge.String())
	require.True(t, snap.Subtotal.Equal(snap.RoomCharge))
	require.True(t, snap.Total.Equal(snap.RoomCharge), "stored totals stay at cent precision")
}

func TestPreviewBeforeStartChargesNothing(t *testing.T) {
	snap := Preview(PreviewInput{
		Bill: models.Bill{StartTime: bookedAt},
		Room: roomP01(),
	}, bookedAt.Add(-time.Hour))

	requireDecimal(t, 0, snap.ElapsedHours)
	requireDecimal(t, 0, snap.Total)
}

func TestPreviewIsIdempotent(t *testing.T) {
	in := PreviewInput{
		Bill:     models.Bill{StartTime: bookedAt},
		Room:     roomP01(),
		Customer: models.Customer{MonthlyVisits: 15},
		LineItems: []models.BillLineItem{
			{ServiceID: 1, Quantity: 3, PriceAtOrder: decimal.RequireFromString("25000.50")},
		},
		Policies: []models.DiscountPolicy{loyalPolicy()},
	}
	now := bookedAt.Add(97 * time.Minute)

	first := Preview(in, now)
	second := Preview(in, now)
	require.True(t, first.Total.Equal(second.Total))
	require.True(t, first.RoomCharge.Equal(second.RoomCharge))
	require.True(t, first.DiscountAmount.Equal(second.DiscountAmount))
	require.Equal(t, first.IsOvertime, second.IsOvertime)
	require.Equal(t, 3, in.LineItems[0].Quantity)
}

func TestServiceCharge(t *testing.T) {
	items := []models.BillLineItem{
		{Quantity: 10, PriceAtOrder: decimal.NewFromInt(25000)},
		{Quantity: 1, PriceAtOrder: decimal.NewFromInt(150000)},
	}
	requireDecimal(t, 400000, ServiceCharge(items))

	withThird := append(items, models.BillLineItem{Quantity: 2, PriceAtOrder: decimal.NewFromInt(10000)})
	requireDecimal(t, 420000, ServiceCharge(withThird))
	requireDecimal(t, 400000, ServiceCharge(withThird[:2]))
}

func TestServiceChargeHasNoFloatDrift(t *testing.T) {
	items := make([]models.BillLineItem, 0, 10)
	for i := 0; i < 10; i++ {
		items = append(items, models.BillLineItem{Quantity: 1, PriceAtOrder: decimal.RequireFromString("0.10")})
	}
	require.True(t, decimal.NewFromInt(1).Equal(ServiceCharge(items)))
}

func TestElapsedHours(t *testing.T) {
	require.True(t, decimal.RequireFromString("1.5").Equal(ElapsedHours(bookedAt, bookedAt.Add(90*time.Minute))))
	require.True(t, decimal.Zero.Equal(ElapsedHours(bookedAt, bookedAt.Add(-time.Minute))))
}
