package rooms

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/karaoke-backend/pkg/db/dbtest"
	"github.com/angelmondragon/karaoke-backend/pkg/db/models"
	"github.com/angelmondragon/karaoke-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/karaoke-backend/pkg/errors"
)

func TestRepositoryListAndCount(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	rooms := []models.Room{
		{Name: "P02", Capacity: 10, PricePerHour: decimal.NewFromInt(150000), Status: enums.RoomStatusOccupied},
		{Name: "P01", Capacity: 10, PricePerHour: decimal.NewFromInt(150000), Status: enums.RoomStatusAvailable},
		{Name: "VIP1", Capacity: 15, PricePerHour: decimal.NewFromInt(200000), Status: enums.RoomStatusBooked},
	}
	require.NoError(t, db.Create(&rooms).Error)

	repo := NewRepository(db)

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "P02", all[0].Name, "listed in id order")

	filtered, err := repo.List(ctx, "p0")
	require.NoError(t, err)
	require.Len(t, filtered, 2)

	available, err := repo.ListByStatus(ctx, enums.RoomStatusAvailable)
	require.NoError(t, err)
	require.Len(t, available, 1)
	require.Equal(t, "P01", available[0].Name)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, counts[enums.RoomStatusAvailable])
	require.EqualValues(t, 1, counts[enums.RoomStatusOccupied])
	require.EqualValues(t, 1, counts[enums.RoomStatusBooked])
}

func TestRepositoryTransitionStatusIsConditional(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	room := models.Room{Name: "P01", Capacity: 10, PricePerHour: decimal.NewFromInt(150000), Status: enums.RoomStatusAvailable}
	require.NoError(t, db.Create(&room).Error)

	repo := NewRepository(db)

	changed, err := repo.TransitionStatus(ctx, room.ID, enums.RoomStatusAvailable, enums.RoomStatusOccupied)
	require.NoError(t, err)
	require.True(t, changed)

	changed, err = repo.TransitionStatus(ctx, room.ID, enums.RoomStatusAvailable, enums.RoomStatusBooked)
	require.NoError(t, err)
	require.False(t, changed, "second booking must not win the room")

	got, err := repo.FindByID(ctx, room.ID)
	require.NoError(t, err)
	require.Equal(t, enums.RoomStatusOccupied, got.Status)
	require.True(t, decimal.NewFromInt(150000).Equal(got.PricePerHour))
}

func TestRepositoryTransitionStatusRejectsIllegalEdge(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	room := models.Room{Name: "P01", Capacity: 10, PricePerHour: decimal.NewFromInt(150000), Status: enums.RoomStatusOccupied}
	require.NoError(t, db.Create(&room).Error)

	repo := NewRepository(db)

	changed, err := repo.TransitionStatus(ctx, room.ID, enums.RoomStatusOccupied, enums.RoomStatusBooked)
	require.False(t, changed)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeStateConflict), "got %v", err)

	got, err := repo.FindByID(ctx, room.ID)
	require.NoError(t, err)
	require.Equal(t, enums.RoomStatusOccupied, got.Status)

	changed, err = repo.TransitionStatus(ctx, room.ID, enums.RoomStatusOccupied, enums.RoomStatusAvailable)
	require.NoError(t, err)
	require.True(t, changed)
}
