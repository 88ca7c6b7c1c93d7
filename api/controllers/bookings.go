package controllers

import (
	"net/http"
	"time"

	"github.com/angelmondragon/karaoke-backend/api/middleware"
	"github.com/angelmondragon/karaoke-backend/api/responses"
	"github.com/angelmondragon/karaoke-backend/api/validators"
	"github.com/angelmondragon/karaoke-backend/internal/booking"
	pkgerrors "github.com/angelmondragon/karaoke-backend/pkg/errors"
	"github.com/angelmondragon/karaoke-backend/pkg/logger"
)

type bookingRequest struct {
	CustomerName string     `json:"customer_name" validate:"required,max=100"`
	Phone        string     `json:"phone" validate:"required,phone"`
	RoomID       uint       `json:"room_id" validate:"required"`
	NumPeople    int        `json:"num_people" validate:"required,min=1"`
	StartTime    *time.Time `json:"start_time,omitempty"`
}

func (req bookingRequest) toInput(staffID uint, now time.Time) booking.BookInput {
	start := now
	if req.StartTime != nil {
		start = *req.StartTime
	}
	return booking.BookInput{
		CustomerName: validators.SanitizeString(req.CustomerName, 100),
		Phone:        validators.NormalizePhone(req.Phone),
		RoomID:       req.RoomID,
		NumPeople:    req.NumPeople,
		StartTime:    start,
		StaffID:      staffID,
		Now:          now,
	}
}

// CreateBooking books a room for the authenticated staff member.
// An omitted start_time is a walk-in starting now.
func CreateBooking(engine booking.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if engine == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking engine unavailable"))
			return
		}
		staffID := middleware.StaffIDFromContext(r.Context())
		if staffID == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "staff context missing"))
			return
		}

		var req bookingRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		bill, err := engine.Book(r.Context(), req.toInput(staffID, time.Now()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toBillResponse(bill))
	}
}
