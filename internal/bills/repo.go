package bills

import (
	"context"
	"time"

	"github.com/angelmondragon/karaoke-backend/internal/repo"
	"github.com/angelmondragon/karaoke-backend/pkg/db/models"
	"github.com/angelmondragon/karaoke-backend/pkg/enums"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const billViewColumns = `bills.id AS bill_id, bills.room_id, rooms.name AS room_name,
	bills.customer_id, customers.full_name AS customer_name, customers.phone AS customer_phone,
	bills.staff_id, bills.start_time,
	(SELECT COUNT(*) FROM bill_line_items li WHERE li.bill_id = bills.id) AS item_count`

type repository struct {
	repo.Base
}

// NewRepository builds a bills repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) Create(ctx context.Context, bill *models.Bill) error {
	return r.DB(ctx).Create(bill).Error
}

func (r *repository) FindByID(ctx context.Context, id uint) (*models.Bill, error) {
	var bill models.Bill
	if err := r.DB(ctx).Where("id = ?", id).First(&bill).Error; err != nil {
		return nil, err
	}
	return &bill, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id uint) (*models.Bill, error) {
	var bill models.Bill
	if err := r.ForUpdate(ctx).Where("id = ?", id).First(&bill).Error; err != nil {
		return nil, err
	}
	return &bill, nil
}

func (r *repository) FindUnpaidByRoom(ctx context.Context, roomID uint) (*models.Bill, error) {
	var bill models.Bill
	err := r.DB(ctx).
		Where("room_id = ? AND status = ?", roomID, enums.BillStatusUnpaid).
		Order("id DESC").
		First(&bill).Error
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

func (r *repository) BeginSettlement(ctx context.Context, id uint, endTime time.Time, policyID *uint) (bool, error) {
	res := r.DB(ctx).
		Model(&models.Bill{}).
		Where("id = ? AND status = ?", id, enums.BillStatusUnpaid).
		Updates(map[string]any{
			"end_time":  endTime,
			"policy_id": policyID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) UpdateTotal(ctx context.Context, id uint, total decimal.Decimal) error {
	res := r.DB(ctx).
		Model(&models.Bill{}).
		Where("id = ?", id).
		Update("total_amount", total)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) MarkPaid(ctx context.Context, id uint) (bool, error) {
	res := r.DB(ctx).
		Model(&models.Bill{}).
		Where("id = ? AND status = ? AND end_time IS NOT NULL", id, enums.BillStatusUnpaid).
		Update("status", enums.BillStatusPaid)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) ListLineItems(ctx context.Context, billID uint) ([]models.BillLineItem, error) {
	var items []models.BillLineItem
	err := r.DB(ctx).
		Where("bill_id = ?", billID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListLineItemViews(ctx context.Context, billID uint) ([]LineItemView, error) {
	var views []LineItemView
	err := r.DB(ctx).
		Table("bill_line_items").
		Select(`bill_line_items.id, bill_line_items.service_id, services.name AS service_name,
			services.unit, bill_line_items.quantity, bill_line_items.price_at_order`).
		Joins("JOIN services ON services.id = bill_line_items.service_id").
		Where("bill_line_items.bill_id = ?", billID).
		Order("bill_line_items.id ASC").
		Scan(&views).Error
	if err != nil {
		return nil, err
	}
	return views, nil
}

func (r *repository) FindLineItem(ctx context.Context, id uint) (*models.BillLineItem, error) {
	var item models.BillLineItem
	if err := r.DB(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) FindLineItemByService(ctx context.Context, billID, serviceID uint) (*models.BillLineItem, error) {
	var item models.BillLineItem
	err := r.DB(ctx).
		Where("bill_id = ? AND service_id = ?", billID, serviceID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) CreateLineItem(ctx context.Context, item *models.BillLineItem) error {
	return r.DB(ctx).Create(item).Error
}

func (r *repository) IncrementLineItem(ctx context.Context, id uint, quantity int) error {
	res := r.DB(ctx).
		Model(&models.BillLineItem{}).
		Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) DeleteLineItem(ctx context.Context, id uint) error {
	res := r.DB(ctx).Where("id = ?", id).Delete(&models.BillLineItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) ListActive(ctx context.Context) ([]BillView, error) {
	var views []BillView
	err := r.billViews(ctx).
		Where("bills.status = ? AND rooms.status = ?", enums.BillStatusUnpaid, enums.RoomStatusOccupied).
		Order("bills.start_time ASC, bills.id ASC").
		Scan(&views).Error
	if err != nil {
		return nil, err
	}
	return views, nil
}

func (r *repository) ListRecentUnpaid(ctx context.Context, limit int) ([]BillView, error) {
	if limit <= 0 {
		limit = 5
	}
	var views []BillView
	err := r.billViews(ctx).
		Where("bills.status = ?", enums.BillStatusUnpaid).
		Order("bills.start_time DESC, bills.id DESC").
		Limit(limit).
		Scan(&views).Error
	if err != nil {
		return nil, err
	}
	return views, nil
}

func (r *repository) PaidTotalsBetween(ctx context.Context, from, to time.Time) ([]decimal.Decimal, error) {
	var totals []decimal.Decimal
	err := r.DB(ctx).
		Model(&models.Bill{}).
		Where("status = ? AND end_time >= ? AND end_time < ?", enums.BillStatusPaid, from, to).
		Pluck("total_amount", &totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}

func (r *repository) billViews(ctx context.Context) *gorm.DB {
	return r.DB(ctx).
		Table("bills").
		Select(billViewColumns).
		Joins("JOIN rooms ON rooms.id = bills.room_id").
		Joins("JOIN customers ON customers.id = bills.customer_id")
}
