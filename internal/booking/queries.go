package booking

import (
	"context"
	"time"

	"github.com/angelmondragon/karaoke-backend/internal/billing"
	"github.com/angelmondragon/karaoke-backend/internal/bills"
	"github.com/angelmondragon/karaoke-backend/pkg/db"
	"github.com/angelmondragon/karaoke-backend/pkg/db/models"
	"github.com/angelmondragon/karaoke-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/karaoke-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// BillItems lists a bill's line items with their totals.
type BillItems struct {
	BillID        uint             `json:"bill_id"`
	Status        enums.BillStatus `json:"status"`
	Items         []ItemLine       `json:"items"`
	ServiceCharge decimal.Decimal  `json:"service_charge"`
}

// ItemLine is one line item with its computed total.
type ItemLine struct {
	bills.LineItemView
	LineTotal decimal.Decimal `json:"line_total"`
}

// PreviewBill computes what an unpaid bill would cost if settled at now.
// All reads share one transaction so a concurrent settlement is never half seen.
func (e *engine) PreviewBill(ctx context.Context, billID uint, now time.Time) (billing.Snapshot, error) {
	now = now.UTC()
	var snap billing.Snapshot
	err := e.inTx(ctx, "preview", func(repos scoped) error {
		bill, err := repos.bills.FindByID(ctx, billID)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.NotFound("bill", billID)
			}
			return storageErr(err, "load bill", "bill", billID)
		}
		if bill.IsPaid() {
			return paidBillErr(bill.ID)
		}

		room, err := repos.rooms.FindByID(ctx, bill.RoomID)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.NotFound("room", bill.RoomID)
			}
			return storageErr(err, "load room", "room", bill.RoomID)
		}
		customer, err := repos.customers.FindByID(ctx, bill.CustomerID)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.NotFound("customer", bill.CustomerID)
			}
			return storageErr(err, "load customer", "customer", bill.CustomerID)
		}
		items, err := repos.bills.ListLineItems(ctx, bill.ID)
		if err != nil {
			return storageErr(err, "load line items", "bill", bill.ID)
		}
		policies, err := repos.policies.List(ctx)
		if err != nil {
			return storageErr(err, "load discount policies", "bill", bill.ID)
		}

		snap = billing.Preview(billing.PreviewInput{
			Bill:      *bill,
			Room:      *room,
			Customer:  *customer,
			LineItems: items,
			Policies:  policies,
		}, now)
		return nil
	})
	if err != nil {
		return billing.Snapshot{}, err
	}
	return snap, nil
}

func (e *engine) ListActiveBills(ctx context.Context) ([]bills.BillView, error) {
	views, err := e.bills.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list active bills")
	}
	return views, nil
}

func (e *engine) ListBillItems(ctx context.Context, billID uint) (*BillItems, error) {
	bill, err := e.bills.FindByID(ctx, billID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.NotFound("bill", billID)
		}
		return nil, storageErr(err, "load bill", "bill", billID)
	}
	views, err := e.bills.ListLineItemViews(ctx, bill.ID)
	if err != nil {
		return nil, storageErr(err, "load line items", "bill", bill.ID)
	}

	out := &BillItems{
		BillID:        bill.ID,
		Status:        bill.Status,
		Items:         make([]ItemLine, 0, len(views)),
		ServiceCharge: decimal.Zero,
	}
	for _, view := range views {
		line := view.LineTotal()
		out.Items = append(out.Items, ItemLine{LineItemView: view, LineTotal: line})
		out.ServiceCharge = out.ServiceCharge.Add(line)
	}
	return out, nil
}

func (e *engine) CurrentBill(ctx context.Context, roomID uint) (*models.Bill, error) {
	if _, err := e.rooms.FindByID(ctx, roomID); err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.NotFound("room", roomID)
		}
		return nil, storageErr(err, "load room", "room", roomID)
	}
	bill, err := e.bills.FindUnpaidByRoom(ctx, roomID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "room has no open bill").Entity("room", roomID)
		}
		return nil, storageErr(err, "load open bill", "room", roomID)
	}
	return bill, nil
}
