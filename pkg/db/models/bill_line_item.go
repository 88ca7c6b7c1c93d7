package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillLineItem pins the service price at the moment it was ordered.
type BillLineItem struct {
	ID           uint            `gorm:"column:id;primaryKey;autoIncrement"`
	BillID       uint            `gorm:"column:bill_id;not null;uniqueIndex:idx_bill_line_items_bill_service"`
	ServiceID    uint            `gorm:"column:service_id;not null;uniqueIndex:idx_bill_line_items_bill_service"`
	Quantity     int             `gorm:"column:quantity;not null"`
	PriceAtOrder decimal.Decimal `gorm:"column:price_at_order;type:numeric(12,2);not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// LineTotal is quantity times the pinned price.
func (li BillLineItem) LineTotal() decimal.Decimal {
	return li.PriceAtOrder.Mul(decimal.NewFromInt(int64(li.Quantity)))
}
