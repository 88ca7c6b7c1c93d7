package rooms

import (
	"context"
	"fmt"

	"github.com/angelmondragon/karaoke-backend/pkg/db/models"
	"github.com/angelmondragon/karaoke-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/karaoke-backend/pkg/errors"
)

// Stats summarises room occupancy for the dashboard.
type Stats struct {
	Total     int64 `json:"total"`
	Available int64 `json:"available"`
	Occupied  int64 `json:"occupied"`
	Booked    int64 `json:"booked"`
}

// Service exposes read operations over rooms.
type Service interface {
	ListRooms(ctx context.Context, keyword string) ([]models.Room, error)
	ListAvailableRooms(ctx context.Context) ([]models.Room, error)
	Stats(ctx context.Context) (Stats, error)
}

type service struct {
	repo Repository
}

// NewService wires a rooms service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("rooms repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListRooms(ctx context.Context, keyword string) ([]models.Room, error) {
	rooms, err := s.repo.List(ctx, keyword)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list rooms")
	}
	return rooms, nil
}

func (s *service) ListAvailableRooms(ctx context.Context) ([]models.Room, error) {
	rooms, err := s.repo.ListByStatus(ctx, enums.RoomStatusAvailable)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list available rooms")
	}
	return rooms, nil
}

func (s *service) Stats(ctx context.Context) (Stats, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return Stats{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count rooms")
	}
	stats := Stats{
		Available: counts[enums.RoomStatusAvailable],
		Occupied:  counts[enums.RoomStatusOccupied],
		Booked:    counts[enums.RoomStatusBooked],
	}
	for _, n := range counts {
		stats.Total += n
	}
	return stats, nil
}
