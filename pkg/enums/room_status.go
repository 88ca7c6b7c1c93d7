package enums

import "fmt"

// RoomStatus tracks whether a room can take a new booking.
type RoomStatus string

const (
	RoomStatusAvailable RoomStatus = "available"
	RoomStatusOccupied  RoomStatus = "occupied"
	RoomStatusBooked    RoomStatus = "booked"
)

var validRoomStatuses = []RoomStatus{
	RoomStatusAvailable,
	RoomStatusOccupied,
	RoomStatusBooked,
}

// String implements fmt.Stringer.
func (s RoomStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known RoomStatus.
func (s RoomStatus) IsValid() bool {
	for _, candidate := range validRoomStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// InUse reports whether the room is tied to an unpaid bill.
func (s RoomStatus) InUse() bool {
	return s == RoomStatusOccupied || s == RoomStatusBooked
}

// ParseRoomStatus converts raw input into a RoomStatus.
func ParseRoomStatus(value string) (RoomStatus, error) {
	for _, candidate := range validRoomStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid room status %q", value)
}
