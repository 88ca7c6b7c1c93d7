package catalog

import (
	"context"
	"strings"

	"github.com/angelmondragon/karaoke-backend/internal/repo"
	"github.com/angelmondragon/karaoke-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes the orderable service catalogue.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uint) (*models.Service, error)
	List(ctx context.Context, keyword string) ([]models.Service, error)
}

type repository struct {
	repo.Base
}

// NewRepository builds a catalogue repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) FindByID(ctx context.Context, id uint) (*models.Service, error) {
	var svc models.Service
	if err := r.DB(ctx).Where("id = ?", id).First(&svc).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *repository) List(ctx context.Context, keyword string) ([]models.Service, error) {
	var services []models.Service
	query := r.DB(ctx).Model(&models.Service{})
	if kw := strings.TrimSpace(keyword); kw != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(kw)+"%")
	}
	if err := query.Order("name ASC").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}
