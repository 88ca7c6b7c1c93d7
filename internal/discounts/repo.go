package discounts

import (
	"context"

	"github.com/angelmondragon/karaoke-backend/internal/repo"
	"github.com/angelmondragon/karaoke-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes discount policy persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uint) (*models.DiscountPolicy, error)
	// List returns every policy in evaluation order (id ascending).
	List(ctx context.Context) ([]models.DiscountPolicy, error)
}

type repository struct {
	repo.Base
}

// NewRepository builds a discount policy repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) FindByID(ctx context.Context, id uint) (*models.DiscountPolicy, error) {
	var policy models.DiscountPolicy
	if err := r.DB(ctx).Where("id = ?", id).First(&policy).Error; err != nil {
		return nil, err
	}
	return &policy, nil
}

func (r *repository) List(ctx context.Context) ([]models.DiscountPolicy, error) {
	var policies []models.DiscountPolicy
	if err := r.DB(ctx).Order("id ASC").Find(&policies).Error; err != nil {
		return nil, err
	}
	return policies, nil
}
