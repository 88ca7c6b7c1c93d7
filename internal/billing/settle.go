package billing

import (
	"context"

	"github.com/angelmondragon/karaoke-backend/pkg/db"
	"github.com/angelmondragon/karaoke-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/karaoke-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// BillStore is the slice of bill persistence settlement needs.
type BillStore interface {
	FindByID(ctx context.Context, id uint) (*models.Bill, error)
	ListLineItems(ctx context.Context, billID uint) ([]models.BillLineItem, error)
	UpdateTotal(ctx context.Context, id uint, total decimal.Decimal) error
}

// RoomFinder resolves the room a bill is charged against.
type RoomFinder interface {
	FindByID(ctx context.Context, id uint) (*models.Room, error)
}

// PolicyFinder resolves the discount policy pinned on a bill.
type PolicyFinder interface {
	FindByID(ctx context.Context, id uint) (*models.DiscountPolicy, error)
}

// Store groups the lookups Settle performs. Callers scope them to one transaction.
type Store struct {
	Bills    BillStore
	Rooms    RoomFinder
	Policies PolicyFinder
}

// Settle recomputes the bill from its persisted end time, line items and pinned
// policy, writes total_amount and returns the computation. A bill without an
// end time is charged for services only. The pinned policy applies only while
// it is still active.
func Settle(ctx context.Context, store Store, billID uint) (Snapshot, error) {
	bill, err := store.Bills.FindByID(ctx, billID)
	if err != nil {
		if db.IsNotFound(err) {
			return Snapshot{}, pkgerrors.NotFound("bill", billID)
		}
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load bill").Entity("bill", billID)
	}

	room, err := store.Rooms.FindByID(ctx, bill.RoomID)
	if err != nil {
		if db.IsNotFound(err) {
			return Snapshot{}, pkgerrors.NotFound("room", bill.RoomID)
		}
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load room").Entity("room", bill.RoomID)
	}

	items, err := store.Bills.ListLineItems(ctx, bill.ID)
	if err != nil {
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load line items").Entity("bill", bill.ID)
	}

	policy, err := pinnedPolicy(ctx, store.Policies, bill)
	if err != nil {
		return Snapshot{}, err
	}

	seconds := decimal.Zero
	if bill.EndTime != nil {
		seconds = elapsed(bill.StartTime, *bill.EndTime)
	}
	snap := compute(bill.ID, room.PricePerHour, seconds, items, policy)

	if err := store.Bills.UpdateTotal(ctx, bill.ID, snap.Total); err != nil {
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist bill total").Entity("bill", bill.ID)
	}
	return snap, nil
}

func pinnedPolicy(ctx context.Context, policies PolicyFinder, bill *models.Bill) (*models.DiscountPolicy, error) {
	if bill.PolicyID == nil {
		return nil, nil
	}
	policy, err := policies.FindByID(ctx, *bill.PolicyID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load discount policy").Entity("discount_policy", *bill.PolicyID)
	}
	if !policy.IsActive {
		return nil, nil
	}
	return policy, nil
}
