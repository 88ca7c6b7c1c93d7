package controllers

import (
	"net/http"
	"time"

	"github.com/angelmondragon/karaoke-backend/api/responses"
	"github.com/angelmondragon/karaoke-backend/api/validators"
	"github.com/angelmondragon/karaoke-backend/internal/booking"
	pkgerrors "github.com/angelmondragon/karaoke-backend/pkg/errors"
	"github.com/angelmondragon/karaoke-backend/pkg/logger"
)

type addServiceRequest struct {
	ServiceID uint `json:"service_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,min=1,max=1000"`
}

func engineUnavailable(w http.ResponseWriter, r *http.Request, logg *logger.Logger) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking engine unavailable"))
}

func ListActiveBills(engine booking.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if engine == nil {
			engineUnavailable(w, r, logg)
			return
		}
		views, err := engine.ListActiveBills(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, views)
	}
}

// PreviewBill shows what the bill would total if settled now. Nothing is persisted.
func PreviewBill(engine booking.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if engine == nil {
			engineUnavailable(w, r, logg)
			return
		}
		billID, err := validators.ParsePathID(r, "billId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		snap, err := engine.PreviewBill(r.Context(), billID, time.Now())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toSnapshotResponse(snap))
	}
}

func ListBillItems(engine booking.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if engine == nil {
			engineUnavailable(w, r, logg)
			return
		}
		billID, err := validators.ParsePathID(r, "billId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items, err := engine.ListBillItems(r.Context(), billID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func AddBillItem(engine booking.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if engine == nil {
			engineUnavailable(w, r, logg)
			return
		}
		billID, err := validators.ParsePathID(r, "billId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req addServiceRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := engine.AddService(r.Context(), billID, req.ServiceID, req.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toLineItemResponse(item))
	}
}

func RemoveBillItem(engine booking.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if engine == nil {
			engineUnavailable(w, r, logg)
			return
		}
		itemID, err := validators.ParsePathID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := engine.RemoveService(r.Context(), itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"id": itemID, "removed": true})
	}
}

// SettleBill closes the bill at the current time and frees its room.
func SettleBill(engine booking.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if engine == nil {
			engineUnavailable(w, r, logg)
			return
		}
		billID, err := validators.ParsePathID(r, "billId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		snap, err := engine.SettlePayment(r.Context(), billID, time.Now())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toSnapshotResponse(snap))
	}
}
