package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountPolicy is a loyalty rule; nil dates leave that side of the window open.
type DiscountPolicy struct {
	ID              uint            `gorm:"column:id;primaryKey;autoIncrement"`
	Name            string          `gorm:"column:name;not null"`
	MinVisitReq     int             `gorm:"column:min_visit_req;not null;default:0"`
	DiscountPercent decimal.Decimal `gorm:"column:discount_percent;type:numeric(5,2);not null;default:0"`
	StartDate       *time.Time      `gorm:"column:start_date"`
	EndDate         *time.Time      `gorm:"column:end_date"`
	IsActive        bool            `gorm:"column:is_active;not null"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// ActiveAt reports whether the policy is switched on and now falls inside its window.
func (p DiscountPolicy) ActiveAt(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	if p.StartDate != nil && now.Before(*p.StartDate) {
		return false
	}
	if p.EndDate != nil && now.After(*p.EndDate) {
		return false
	}
	return true
}
