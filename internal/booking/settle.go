package booking

import (
	"context"
	"time"

	"github.com/angelmondragon/karaoke-backend/internal/billing"
	"github.com/angelmondragon/karaoke-backend/internal/discounts"
	"github.com/angelmondragon/karaoke-backend/pkg/db"
	"github.com/angelmondragon/karaoke-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/karaoke-backend/pkg/errors"
)

// SettlePayment closes the bill at now: it pins end_time and the discount
// policy, computes and stores the total, marks the bill paid, frees the room
// and counts the visit. All of it commits or none of it does.
func (e *engine) SettlePayment(ctx context.Context, billID uint, now time.Time) (billing.Snapshot, error) {
	now = now.UTC()
	ctx = e.logg.WithBillID(ctx, billID)

	var (
		snap   billing.Snapshot
		roomID uint
	)
	err := e.inTx(ctx, "settle", func(repos scoped) error {
		bill, err := repos.bills.FindByIDForUpdate(ctx, billID)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.NotFound("bill", billID)
			}
			return storageErr(err, "load bill", "bill", billID)
		}
		if bill.IsPaid() {
			return paidBillErr(bill.ID)
		}
		roomID = bill.RoomID

		customer, err := repos.customers.FindByID(ctx, bill.CustomerID)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.NotFound("customer", bill.CustomerID)
			}
			return storageErr(err, "load customer", "customer", bill.CustomerID)
		}
		policies, err := repos.policies.List(ctx)
		if err != nil {
			return storageErr(err, "load discount policies", "bill", bill.ID)
		}

		var policyID *uint
		if policy := discounts.Select(*customer, policies, now); policy != nil {
			policyID = &policy.ID
		}
		begun, err := repos.bills.BeginSettlement(ctx, bill.ID, now, policyID)
		if err != nil {
			return storageErr(err, "pin settlement time", "bill", bill.ID)
		}
		if !begun {
			return paidBillErr(bill.ID)
		}

		snap, err = billing.Settle(ctx, repos.settlementStore(), bill.ID)
		if err != nil {
			return err
		}

		paid, err := repos.bills.MarkPaid(ctx, bill.ID)
		if err != nil {
			return storageErr(err, "mark bill paid", "bill", bill.ID)
		}
		if !paid {
			return paidBillErr(bill.ID)
		}

		if err := e.releaseRoom(ctx, repos, bill.RoomID); err != nil {
			return err
		}

		if err := repos.customers.IncrementVisits(ctx, bill.CustomerID); err != nil {
			return storageErr(err, "increment monthly visits", "customer", bill.CustomerID)
		}
		return nil
	})
	if err != nil {
		return billing.Snapshot{}, err
	}

	e.metrics.ObserveSettlement(snap.Total)
	fields := map[string]any{
		"total":           snap.Total.StringFixed(2),
		"discount_amount": snap.DiscountAmount.StringFixed(2),
		"is_overtime":     snap.IsOvertime,
	}
	if snap.DiscountPolicy != nil {
		fields["policy_id"] = snap.DiscountPolicy.ID
	}
	e.logg.Info(e.logg.WithFields(e.logg.WithRoomID(ctx, roomID), fields), "bill.settled")
	return snap, nil
}

// releaseRoom returns an occupied or booked room to available.
func (e *engine) releaseRoom(ctx context.Context, repos scoped, roomID uint) error {
	room, err := repos.rooms.FindByID(ctx, roomID)
	if err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.NotFound("room", roomID)
		}
		return storageErr(err, "load room", "room", roomID)
	}
	if !room.Status.InUse() {
		e.logg.Warn(e.logg.WithRoomID(ctx, roomID), "room already available while settling its open bill")
		return nil
	}
	changed, err := repos.rooms.TransitionStatus(ctx, room.ID, room.Status, enums.RoomStatusAvailable)
	if err != nil {
		return storageErr(err, "release room", "room", room.ID)
	}
	if !changed {
		return pkgerrors.New(pkgerrors.CodeConflict, "room changed during settlement").Entity("room", room.ID)
	}
	return nil
}
