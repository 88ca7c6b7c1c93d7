package rooms

import (
	"context"

	"github.com/angelmondragon/karaoke-backend/pkg/db/models"
	"github.com/angelmondragon/karaoke-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository exposes room persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uint) (*models.Room, error)
	List(ctx context.Context, keyword string) ([]models.Room, error)
	ListByStatus(ctx context.Context, status enums.RoomStatus) ([]models.Room, error)
	CountByStatus(ctx context.Context) (map[enums.RoomStatus]int64, error)
	// TransitionStatus moves the room from one status to another only if it is
	// still in the expected status. It reports whether a row changed.
	TransitionStatus(ctx context.Context, id uint, from, to enums.RoomStatus) (bool, error)
}
