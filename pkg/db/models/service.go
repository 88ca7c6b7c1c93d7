package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service is an orderable item (drinks, snacks, fruit platters).
type Service struct {
	ID        uint            `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string          `gorm:"column:name;not null;uniqueIndex"`
	Unit      string          `gorm:"column:unit;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null;default:0"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
