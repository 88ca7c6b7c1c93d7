package rooms

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/karaoke-backend/pkg/enums"
)

func TestBookingStatus(t *testing.T) {
	now := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		start time.Time
		want  enums.RoomStatus
	}{
		{"now", now, enums.RoomStatusOccupied},
		{"inside window", now.Add(10 * time.Minute), enums.RoomStatusOccupied},
		{"window edge", now.Add(WalkInWindow), enums.RoomStatusOccupied},
		{"just past window", now.Add(WalkInWindow + time.Second), enums.RoomStatusBooked},
		{"tomorrow", now.Add(24 * time.Hour), enums.RoomStatusBooked},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, BookingStatus(tc.start, now))
		})
	}
}

func TestCanTransition(t *testing.T) {
	require.True(t, CanTransition(enums.RoomStatusAvailable, enums.RoomStatusOccupied))
	require.True(t, CanTransition(enums.RoomStatusAvailable, enums.RoomStatusBooked))
	require.True(t, CanTransition(enums.RoomStatusOccupied, enums.RoomStatusAvailable))
	require.True(t, CanTransition(enums.RoomStatusBooked, enums.RoomStatusAvailable))

	require.False(t, CanTransition(enums.RoomStatusOccupied, enums.RoomStatusBooked))
	require.False(t, CanTransition(enums.RoomStatusBooked, enums.RoomStatusOccupied))
	require.False(t, CanTransition(enums.RoomStatusAvailable, enums.RoomStatusAvailable))
	require.False(t, CanTransition("cleaning", enums.RoomStatusAvailable))
}
