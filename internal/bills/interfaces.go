package bills

import (
	"context"
	"time"

	"github.com/angelmondragon/karaoke-backend/pkg/db/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BillView is an unpaid bill joined with its room and customer for listings.
type BillView struct {
	BillID        uint      `json:"bill_id"`
	RoomID        uint      `json:"room_id"`
	RoomName      string    `json:"room_name"`
	CustomerID    uint      `json:"customer_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	StaffID       uint      `json:"staff_id"`
	StartTime     time.Time `json:"start_time"`
	ItemCount     int64     `json:"item_count"`
}

// LineItemView is a line item joined with its service name and unit.
type LineItemView struct {
	ID           uint            `json:"id"`
	ServiceID    uint            `json:"service_id"`
	ServiceName  string          `json:"service_name"`
	Unit         string          `json:"unit"`
	Quantity     int             `json:"quantity"`
	PriceAtOrder decimal.Decimal `json:"price_at_order"`
}

// LineTotal is quantity times the pinned price.
func (v LineItemView) LineTotal() decimal.Decimal {
	return v.PriceAtOrder.Mul(decimal.NewFromInt(int64(v.Quantity)))
}

// Repository exposes bill and line item persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, bill *models.Bill) error
	FindByID(ctx context.Context, id uint) (*models.Bill, error)
	// FindByIDForUpdate row-locks the bill on dialects that support it.
	FindByIDForUpdate(ctx context.Context, id uint) (*models.Bill, error)
	FindUnpaidByRoom(ctx context.Context, roomID uint) (*models.Bill, error)
	// BeginSettlement pins end_time and the discount policy on an unpaid bill.
	// It reports false when the bill is no longer unpaid.
	BeginSettlement(ctx context.Context, id uint, endTime time.Time, policyID *uint) (bool, error)
	UpdateTotal(ctx context.Context, id uint, total decimal.Decimal) error
	// MarkPaid flips an unpaid bill to paid and reports whether a row changed.
	MarkPaid(ctx context.Context, id uint) (bool, error)

	ListLineItems(ctx context.Context, billID uint) ([]models.BillLineItem, error)
	ListLineItemViews(ctx context.Context, billID uint) ([]LineItemView, error)
	FindLineItem(ctx context.Context, id uint) (*models.BillLineItem, error)
	FindLineItemByService(ctx context.Context, billID, serviceID uint) (*models.BillLineItem, error)
	CreateLineItem(ctx context.Context, item *models.BillLineItem) error
	IncrementLineItem(ctx context.Context, id uint, quantity int) error
	DeleteLineItem(ctx context.Context, id uint) error

	ListActive(ctx context.Context) ([]BillView, error)
	ListRecentUnpaid(ctx context.Context, limit int) ([]BillView, error)
	PaidTotalsBetween(ctx context.Context, from, to time.Time) ([]decimal.Decimal, error)
}
