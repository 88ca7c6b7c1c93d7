package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/karaoke-backend/pkg/enums"
)

// Room is a rentable karaoke room.
type Room struct {
	ID           uint             `gorm:"column:id;primaryKey;autoIncrement"`
	Name         string           `gorm:"column:name;not null;uniqueIndex"`
	Capacity     int              `gorm:"column:capacity;not null"`
	PricePerHour decimal.Decimal  `gorm:"column:price_per_hour;type:numeric(12,2);not null;default:0"`
	Status       enums.RoomStatus `gorm:"column:status;type:varchar(16);not null;default:'available'"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
