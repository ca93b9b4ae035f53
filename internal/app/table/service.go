package table

import (
	"context"
	"fmt"

	"tableserve/internal/adapter/logger"
	"tableserve/internal/domain"
	"tableserve/internal/interfaces"
)

type Service struct {
	tables interfaces.TableRepository
	count  int
	lgr    logger.Logger
}

func NewService(tables interfaces.TableRepository, count int, lgr logger.Logger) *Service {
	return &Service{tables: tables, count: count, lgr: lgr}
}

func (s *Service) List(ctx context.Context) ([]*domain.Table, error) {
	return s.tables.List(ctx)
}

func (s *Service) Get(ctx context.Context, tableNumber int) (*domain.Table, error) {
	return s.tables.Get(ctx, tableNumber)
}

// Initialize wipes and recreates the full table range, all vacant. Bootstrap
// only: it discards any in-flight occupancy state.
func (s *Service) Initialize(ctx context.Context) (int, error) {
	if err := s.tables.Initialize(ctx, s.count); err != nil {
		return 0, err
	}
	s.lgr.Info("tables_initialized", fmt.Sprintf("%d tables initialized", s.count), "", map[string]any{
		"count": s.count,
	})
	return s.count, nil
}
