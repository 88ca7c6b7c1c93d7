package rooms

import (
	"context"
	"strings"

	"github.com/angelmondragon/karaoke-backend/internal/repo"
	"github.com/angelmondragon/karaoke-backend/pkg/db/models"
	"github.com/angelmondragon/karaoke-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/karaoke-backend/pkg/errors"
	"gorm.io/gorm"
)

type repository struct {
	repo.Base
}

// NewRepository builds a rooms repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) FindByID(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	if err := r.DB(ctx).Where("id = ?", id).First(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *repository) List(ctx context.Context, keyword string) ([]models.Room, error) {
	var rooms []models.Room
	query := r.DB(ctx).Model(&models.Room{})
	if kw := strings.TrimSpace(keyword); kw != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(kw)+"%")
	}
	if err := query.Order("id ASC").Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *repository) ListByStatus(ctx context.Context, status enums.RoomStatus) ([]models.Room, error) {
	var rooms []models.Room
	err := r.DB(ctx).
		Where("status = ?", status).
		Order("name ASC").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *repository) CountByStatus(ctx context.Context) (map[enums.RoomStatus]int64, error) {
	var rows []struct {
		Status enums.RoomStatus
		Total  int64
	}
	err := r.DB(ctx).
		Model(&models.Room{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[enums.RoomStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

func (r *repository) TransitionStatus(ctx context.Context, id uint, from, to enums.RoomStatus) (bool, error) {
	if !CanTransition(from, to) {
		return false, pkgerrors.New(pkgerrors.CodeStateConflict, "room status transition not allowed").
			WithDetails(map[string]any{"entity": "room", "id": id, "from": from, "to": to})
	}
	res := r.DB(ctx).
		Model(&models.Room{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
