package controllers

import (
	"net/http"
	"time"

	"github.com/angelmondragon/karaoke-backend/api/responses"
	"github.com/angelmondragon/karaoke-backend/api/validators"
	"github.com/angelmondragon/karaoke-backend/internal/booking"
	"github.com/angelmondragon/karaoke-backend/internal/dashboard"
	"github.com/angelmondragon/karaoke-backend/internal/rooms"
	pkgerrors "github.com/angelmondragon/karaoke-backend/pkg/errors"
	"github.com/angelmondragon/karaoke-backend/pkg/logger"
)

const maxKeywordLength = 100

// ListRooms returns every room, optionally filtered by a name keyword.
func ListRooms(svc rooms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rooms service unavailable"))
			return
		}
		keyword := validators.QueryKeyword(r, "keyword", maxKeywordLength)
		list, err := svc.ListRooms(r.Context(), keyword)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toRoomResponses(list))
	}
}

func ListAvailableRooms(svc rooms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "rooms service unavailable"))
			return
		}
		list, err := svc.ListAvailableRooms(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toRoomResponses(list))
	}
}

// RoomCurrentBill returns the unpaid bill occupying a room.
func RoomCurrentBill(engine booking.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if engine == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking engine unavailable"))
			return
		}
		roomID, err := validators.ParsePathID(r, "roomId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		bill, err := engine.CurrentBill(r.Context(), roomID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toBillResponse(bill))
	}
}

// Dashboard returns room stats, today's revenue and the latest unpaid bookings.
func Dashboard(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}
		summary, err := svc.Summary(r.Context(), time.Now())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// RecentBookings lists the newest unpaid bills; ?limit= defaults to the dashboard size.
func RecentBookings(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", dashboard.RecentBookingsLimit, 1, 50)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		views, err := svc.RecentBookings(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, views)
	}
}
