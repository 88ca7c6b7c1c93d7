package rooms

import (
	"time"

	"github.com/angelmondragon/karaoke-backend/pkg/enums"
)

// WalkInWindow is how close to now a start time must be for the room to be
// occupied immediately instead of held as a reservation.
const WalkInWindow = 30 * time.Minute

var transitions = map[enums.RoomStatus][]enums.RoomStatus{
	enums.RoomStatusAvailable: {enums.RoomStatusOccupied, enums.RoomStatusBooked},
	enums.RoomStatusOccupied:  {enums.RoomStatusAvailable},
	enums.RoomStatusBooked:    {enums.RoomStatusAvailable},
}

// BookingStatus returns the status a room takes when booked for start at now.
func BookingStatus(start, now time.Time) enums.RoomStatus {
	if !start.After(now.Add(WalkInWindow)) {
		return enums.RoomStatusOccupied
	}
	return enums.RoomStatusBooked
}

// CanTransition reports whether the lifecycle allows moving from one status to another.
// Occupied and Booked only return to Available, and only through settlement.
func CanTransition(from, to enums.RoomStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
