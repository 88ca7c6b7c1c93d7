package models

import "time"

// Customer is identified by phone; the name may change between visits.
type Customer struct {
	ID            uint      `gorm:"column:id;primaryKey;autoIncrement"`
	FullName      string    `gorm:"column:full_name;not null"`
	Phone         string    `gorm:"column:phone;not null;uniqueIndex"`
	MonthlyVisits int       `gorm:"column:monthly_visits;not null;default:0"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
