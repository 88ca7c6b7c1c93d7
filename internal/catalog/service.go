package catalog

import (
	"context"
	"fmt"

	"github.com/angelmondragon/karaoke-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/karaoke-backend/pkg/errors"
)

// Service lists orderable items for the order form.
type Service interface {
	ListServices(ctx context.Context, keyword string) ([]models.Service, error)
}

type service struct {
	repo Repository
}

// NewService wires a catalogue service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListServices(ctx context.Context, keyword string) ([]models.Service, error) {
	services, err := s.repo.List(ctx, keyword)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list services")
	}
	return services, nil
}
