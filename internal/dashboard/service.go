package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/karaoke-backend/internal/bills"
	"github.com/angelmondragon/karaoke-backend/internal/rooms"
	pkgerrors "github.com/angelmondragon/karaoke-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// RecentBookingsLimit is how many open bills the dashboard shows.
const RecentBookingsLimit = 5

// Summary is the front-desk overview.
type Summary struct {
	Rooms          rooms.Stats      `json:"rooms"`
	TodayRevenue   decimal.Decimal  `json:"today_revenue"`
	RecentBookings []bills.BillView `json:"recent_bookings"`
}

type revenueSource interface {
	PaidTotalsBetween(ctx context.Context, from, to time.Time) ([]decimal.Decimal, error)
	ListRecentUnpaid(ctx context.Context, limit int) ([]bills.BillView, error)
}

// Service computes dashboard figures.
type Service interface {
	RoomStats(ctx context.Context) (rooms.Stats, error)
	TodayRevenue(ctx context.Context, now time.Time) (decimal.Decimal, error)
	RecentBookings(ctx context.Context, limit int) ([]bills.BillView, error)
	Summary(ctx context.Context, now time.Time) (*Summary, error)
}

type service struct {
	rooms rooms.Service
	bills revenueSource
	loc   *time.Location
}

// NewService wires the dashboard. Days are cut in loc.
func NewService(roomSvc rooms.Service, billRepo revenueSource, loc *time.Location) (Service, error) {
	if roomSvc == nil {
		return nil, fmt.Errorf("rooms service required")
	}
	if billRepo == nil {
		return nil, fmt.Errorf("bills repository required")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &service{rooms: roomSvc, bills: billRepo, loc: loc}, nil
}

func (s *service) RoomStats(ctx context.Context) (rooms.Stats, error) {
	return s.rooms.Stats(ctx)
}

// TodayRevenue sums totals of bills settled on now's calendar day.
func (s *service) TodayRevenue(ctx context.Context, now time.Time) (decimal.Decimal, error) {
	from, to := DayBounds(now, s.loc)
	totals, err := s.bills.PaidTotalsBetween(ctx, from, to)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum today revenue")
	}
	sum := decimal.Zero
	for _, total := range totals {
		sum = sum.Add(total)
	}
	return sum, nil
}

func (s *service) RecentBookings(ctx context.Context, limit int) ([]bills.BillView, error) {
	if limit <= 0 {
		limit = RecentBookingsLimit
	}
	views, err := s.bills.ListRecentUnpaid(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list recent bookings")
	}
	return views, nil
}

func (s *service) Summary(ctx context.Context, now time.Time) (*Summary, error) {
	stats, err := s.RoomStats(ctx)
	if err != nil {
		return nil, err
	}
	revenue, err := s.TodayRevenue(ctx, now)
	if err != nil {
		return nil, err
	}
	recent, err := s.RecentBookings(ctx, RecentBookingsLimit)
	if err != nil {
		return nil, err
	}
	return &Summary{Rooms: stats, TodayRevenue: revenue, RecentBookings: recent}, nil
}

// DayBounds returns the UTC instants bounding now's calendar day in loc.
func DayBounds(now time.Time, loc *time.Location) (time.Time, time.Time) {
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	return start.UTC(), end.UTC()
}
