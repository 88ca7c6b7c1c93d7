package booking

import (
	"context"

	"github.com/angelmondragon/karaoke-backend/pkg/db"
	"github.com/angelmondragon/karaoke-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/karaoke-backend/pkg/errors"
)

func (e *engine) AddService(ctx context.Context, billID, serviceID uint, quantity int) (*models.BillLineItem, error) {
	if quantity <= 0 {
		e.metrics.IncFailure("add_service", string(pkgerrors.CodeValidation))
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a positive integer").
			WithDetails(map[string]any{"entity": "service", "id": serviceID, "quantity": quantity})
	}

	ctx = e.logg.WithBillID(ctx, billID)

	var item *models.BillLineItem
	err := e.inTx(ctx, "add_service", func(repos scoped) error {
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

		svc, err := repos.catalog.FindByID(ctx, serviceID)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.NotFound("service", serviceID)
			}
			return storageErr(err, "load service", "service", serviceID)
		}

		existing, err := repos.bills.FindLineItemByService(ctx, bill.ID, svc.ID)
		switch {
		case err == nil:
			if err := repos.bills.IncrementLineItem(ctx, existing.ID, quantity); err != nil {
				return storageErr(err, "increment line item", "bill_line_item", existing.ID)
			}
			existing.Quantity += quantity
			item = existing
			return nil
		case !db.IsNotFound(err):
			return storageErr(err, "load line item", "bill", bill.ID)
		}

		item = &models.BillLineItem{
			BillID:       bill.ID,
			ServiceID:    svc.ID,
			Quantity:     quantity,
			PriceAtOrder: svc.Price,
		}
		if err := repos.bills.CreateLineItem(ctx, item); err != nil {
			return storageErr(err, "create line item", "bill", bill.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.metrics.IncLineItem("add")
	e.logg.Info(e.logg.WithFields(ctx, map[string]any{
		"line_item_id": item.ID,
		"service_id":   item.ServiceID,
		"quantity":     item.Quantity,
	}), "bill.service_added")
	return item, nil
}

func (e *engine) RemoveService(ctx context.Context, lineItemID uint) error {
	var billID uint
	err := e.inTx(ctx, "remove_service", func(repos scoped) error {
		item, err := repos.bills.FindLineItem(ctx, lineItemID)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.NotFound("bill_line_item", lineItemID)
			}
			return storageErr(err, "load line item", "bill_line_item", lineItemID)
		}
		billID = item.BillID

		bill, err := repos.bills.FindByIDForUpdate(ctx, item.BillID)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.NotFound("bill", item.BillID)
			}
			return storageErr(err, "load bill", "bill", item.BillID)
		}
		if bill.IsPaid() {
			return paidBillErr(bill.ID)
		}

		if err := repos.bills.DeleteLineItem(ctx, item.ID); err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.NotFound("bill_line_item", item.ID)
			}
			return storageErr(err, "delete line item", "bill_line_item", item.ID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	e.metrics.IncLineItem("remove")
	e.logg.Info(e.logg.WithField(e.logg.WithBillID(ctx, billID), "line_item_id", lineItemID), "bill.service_removed")
	return nil
}
