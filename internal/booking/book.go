package booking

import (
	"context"
	"strings"
	"time"

	"github.com/angelmondragon/karaoke-backend/internal/rooms"
	"github.com/angelmondragon/karaoke-backend/pkg/db"
	"github.com/angelmondragon/karaoke-backend/pkg/db/models"
	"github.com/angelmondragon/karaoke-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/karaoke-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// BookInput carries a booking request. Now is the moment the booking is made.
type BookInput struct {
	CustomerName string
	Phone        string
	RoomID       uint
	NumPeople    int
	StartTime    time.Time
	StaffID      uint
	Now          time.Time
}

func (in BookInput) validate() error {
	switch {
	case in.CustomerName == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "customer name required").Entity("customer", in.Phone)
	case in.Phone == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "phone required").Entity("customer", nil)
	case in.RoomID == 0:
		return pkgerrors.New(pkgerrors.CodeValidation, "room id required").Entity("room", in.RoomID)
	case in.NumPeople <= 0:
		return pkgerrors.New(pkgerrors.CodeValidation, "number of people must be positive").Entity("room", in.RoomID)
	case in.StaffID == 0:
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "staff identity missing")
	case in.StartTime.Before(in.Now):
		return pkgerrors.New(pkgerrors.CodeValidation, "start time is in the past").Entity("room", in.RoomID)
	}
	return nil
}

func (e *engine) Book(ctx context.Context, input BookInput) (*models.Bill, error) {
	input.CustomerName = strings.TrimSpace(input.CustomerName)
	input.Phone = strings.TrimSpace(input.Phone)
	input.StartTime = input.StartTime.UTC()
	input.Now = input.Now.UTC()
	if err := input.validate(); err != nil {
		e.metrics.IncFailure("book", string(pkgerrors.As(err).Code()))
		return nil, err
	}

	ctx = e.logg.WithStaffID(e.logg.WithRoomID(ctx, input.RoomID), input.StaffID)

	var (
		bill   *models.Bill
		status enums.RoomStatus
	)
	err := e.inTx(ctx, "book", func(repos scoped) error {
		room, err := repos.rooms.FindByID(ctx, input.RoomID)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.NotFound("room", input.RoomID)
			}
			return storageErr(err, "load room", "room", input.RoomID)
		}
		if room.Status != enums.RoomStatusAvailable {
			return pkgerrors.New(pkgerrors.CodeConflict, "room is not available").
				WithDetails(map[string]any{"entity": "room", "id": room.ID, "status": room.Status})
		}
		if input.NumPeople > room.Capacity {
			return pkgerrors.New(pkgerrors.CodeCapacityExceeded, "party exceeds room capacity").
				WithDetails(map[string]any{"entity": "room", "id": room.ID, "capacity": room.Capacity, "requested": input.NumPeople})
		}

		customer, err := e.resolveCustomer(ctx, repos, input.CustomerName, input.Phone)
		if err != nil {
			return err
		}

		status = rooms.BookingStatus(input.StartTime, input.Now)
		changed, err := repos.rooms.TransitionStatus(ctx, room.ID, enums.RoomStatusAvailable, status)
		if err != nil {
			return storageErr(err, "update room status", "room", room.ID)
		}
		if !changed {
			return pkgerrors.New(pkgerrors.CodeConflict, "room is not available").Entity("room", room.ID)
		}

		bill = &models.Bill{
			CustomerID:  customer.ID,
			RoomID:      room.ID,
			StaffID:     input.StaffID,
			Status:      enums.BillStatusUnpaid,
			StartTime:   input.StartTime,
			TotalAmount: decimal.Zero,
		}
		if err := repos.bills.Create(ctx, bill); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "room already has an open bill").Entity("room", room.ID)
			}
			return storageErr(err, "create bill", "room", room.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.metrics.IncBooking(string(status))
	ctx = e.logg.WithFields(e.logg.WithBillID(ctx, bill.ID), map[string]any{
		"customer_id": bill.CustomerID,
		"room_status": status,
		"start_time":  bill.StartTime,
	})
	e.logg.Info(ctx, "booking.created")
	return bill, nil
}

// resolveCustomer finds the customer by phone, refreshing the stored name, or creates one.
func (e *engine) resolveCustomer(ctx context.Context, repos scoped, name, phone string) (*models.Customer, error) {
	customer, err := repos.customers.FindByPhone(ctx, phone)
	if err == nil {
		if customer.FullName != name {
			if err := repos.customers.UpdateName(ctx, customer.ID, name); err != nil {
				return nil, storageErr(err, "update customer name", "customer", customer.ID)
			}
			customer.FullName = name
		}
		return customer, nil
	}
	if !db.IsNotFound(err) {
		return nil, storageErr(err, "load customer", "customer", phone)
	}

	customer = &models.Customer{FullName: name, Phone: phone}
	if err := repos.customers.Create(ctx, customer); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "customer phone registered concurrently").Entity("customer", phone)
		}
		return nil, storageErr(err, "create customer", "customer", phone)
	}
	return customer, nil
}
