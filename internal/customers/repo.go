package customers

import (
	"context"

	"github.com/angelmondragon/karaoke-backend/internal/repo"
	"github.com/angelmondragon/karaoke-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes customer persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uint) (*models.Customer, error)
	FindByPhone(ctx context.Context, phone string) (*models.Customer, error)
	Create(ctx context.Context, customer *models.Customer) error
	UpdateName(ctx context.Context, id uint, fullName string) error
	IncrementVisits(ctx context.Context, id uint) error
	ResetMonthlyVisits(ctx context.Context) (int64, error)
}

type repository struct {
	repo.Base
}

// NewRepository builds a customers repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) FindByID(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := r.DB(ctx).Where("id = ?", id).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *repository) FindByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.DB(ctx).Where("phone = ?", phone).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *repository) Create(ctx context.Context, customer *models.Customer) error {
	return r.DB(ctx).Create(customer).Error
}

func (r *repository) UpdateName(ctx context.Context, id uint, fullName string) error {
	return r.DB(ctx).
		Model(&models.Customer{}).
		Where("id = ?", id).
		Update("full_name", fullName).Error
}

func (r *repository) IncrementVisits(ctx context.Context, id uint) error {
	res := r.DB(ctx).
		Model(&models.Customer{}).
		Where("id = ?", id).
		Update("monthly_visits", gorm.Expr("monthly_visits + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) ResetMonthlyVisits(ctx context.Context) (int64, error) {
	res := r.DB(ctx).
		Model(&models.Customer{}).
		Where("monthly_visits <> 0").
		Update("monthly_visits", 0)
	return res.RowsAffected, res.Error
}
