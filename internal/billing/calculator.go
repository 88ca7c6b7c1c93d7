// Package billing turns elapsed time, ordered services and loyalty policies
// into bill totals.
package billing

import (
	"time"

	"github.com/angelmondragon/karaoke-backend/internal/discounts"
	"github.com/angelmondragon/karaoke-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// OvertimeThreshold is the expected session length; longer sessions are flagged.
const OvertimeThreshold = 2 * time.Hour

const moneyPlaces = 2

var (
	secondsPerHour = decimal.NewFromInt(3600)
	hundred        = decimal.NewFromInt(100)
	overtimeHours  = decimal.NewFromFloat(OvertimeThreshold.Hours())
)

// Snapshot holds every intermediate value of a bill computation.
type Snapshot struct {
	BillID         uint                   `json:"bill_id"`
	ElapsedHours   decimal.Decimal        `json:"elapsed_hours"`
	RoomCharge     decimal.Decimal        `json:"room_charge"`
	ServiceCharge  decimal.Decimal        `json:"service_charge"`
	Subtotal       decimal.Decimal        `json:"subtotal"`
	DiscountAmount decimal.Decimal        `json:"discount_amount"`
	DiscountPolicy *models.DiscountPolicy `json:"discount_policy,omitempty"`
	Total          decimal.Decimal        `json:"total"`
	IsOvertime     bool                   `json:"is_overtime"`
}

// PreviewInput is everything a live preview reads.
type PreviewInput struct {
	Bill      models.Bill
	Room      models.Room
	Customer  models.Customer
	LineItems []models.BillLineItem
	Policies  []models.DiscountPolicy
}

// Preview computes the bill as if it were settled at now. It has no side effects.
func Preview(in PreviewInput, now time.Time) Snapshot {
	policy := discounts.Select(in.Customer, in.Policies, now)
	return compute(in.Bill.ID, in.Room.PricePerHour, elapsed(in.Bill.StartTime, now), in.LineItems, policy)
}

// ElapsedHours converts the span between start and end into exact decimal hours.
// Spans that end before they start count as zero.
func ElapsedHours(start, end time.Time) decimal.Decimal {
	return elapsed(start, end).Div(secondsPerHour)
}

// ServiceCharge sums quantity times pinned price over the line items.
func ServiceCharge(items []models.BillLineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// elapsed returns the span in seconds.
func elapsed(start, end time.Time) decimal.Decimal {
	d := end.Sub(start)
	if d <= 0 {
		return decimal.Zero
	}
	return decimal.New(d.Nanoseconds(), -9)
}

func compute(billID uint, pricePerHour, seconds decimal.Decimal, items []models.BillLineItem, policy *models.DiscountPolicy) Snapshot {
	hours := seconds.Div(secondsPerHour)
	// charges are kept at cent precision so the returned total equals the stored one
	roomCharge := pricePerHour.Mul(seconds).Div(secondsPerHour).Round(moneyPlaces)
	serviceCharge := ServiceCharge(items)
	subtotal := roomCharge.Add(serviceCharge)

	discount := decimal.Zero
	if policy != nil {
		discount = subtotal.Mul(policy.DiscountPercent).Div(hundred).Round(moneyPlaces)
	}

	return Snapshot{
		BillID:         billID,
		ElapsedHours:   hours,
		RoomCharge:     roomCharge,
		ServiceCharge:  serviceCharge,
		Subtotal:       subtotal,
		DiscountAmount: discount,
		DiscountPolicy: policy,
		Total:          subtotal.Sub(discount),
		IsOvertime:     hours.GreaterThan(overtimeHours),
	}
}
