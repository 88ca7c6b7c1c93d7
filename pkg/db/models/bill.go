package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/karaoke-backend/pkg/enums"
)

// Bill is one room rental from booking to settlement.
type Bill struct {
	ID          uint             `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerID  uint             `gorm:"column:customer_id;not null;index"`
	RoomID      uint             `gorm:"column:room_id;not null;index"`
	StaffID     uint             `gorm:"column:staff_id;not null"`
	PolicyID    *uint            `gorm:"column:policy_id"`
	Status      enums.BillStatus `gorm:"column:status;type:varchar(16);not null;default:'unpaid';index"`
	StartTime   time.Time        `gorm:"column:start_time;not null"`
	EndTime     *time.Time       `gorm:"column:end_time"`
	TotalAmount decimal.Decimal  `gorm:"column:total_amount;type:numeric(14,2);not null;default:0"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// IsPaid reports whether the bill has been settled.
func (b Bill) IsPaid() bool {
	return b.Status == enums.BillStatusPaid
}
