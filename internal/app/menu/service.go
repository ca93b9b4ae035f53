package menu

import (
	"context"
	"fmt"

	"tableserve/internal/adapter/cache"
	"tableserve/internal/adapter/logger"
	"tableserve/internal/domain"
	"tableserve/internal/interfaces"
)

type Service struct {
	repo  interfaces.MenuRepository
	cache *cache.MenuCache
	lgr   logger.Logger
}

func NewService(repo interfaces.MenuRepository, cache *cache.MenuCache, lgr logger.Logger) *Service {
	return &Service{repo: repo, cache: cache, lgr: lgr}
}

// List serves from the TTL cache when fresh. Every mutation below
// invalidates, so a stale read can outlive a menu edit only within the
// freshness window.
func (s *Service) List(ctx context.Context) ([]*domain.MenuItem, error) {
	if items, ok := s.cache.Get(); ok {
		return items, nil
	}

	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(items)
	return items, nil
}

func (s *Service) Create(ctx context.Context, cmd interfaces.UpsertMenuItemCommand) (*domain.MenuItem, error) {
	if err := validate(cmd); err != nil {
		return nil, err
	}

	item := &domain.MenuItem{
		Name:        cmd.Name,
		Category:    cmd.Category,
		Price:       cmd.Price,
		Description: cmd.Description,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	s.cache.Invalidate()

	s.lgr.Info("menu_item_created", fmt.Sprintf("Menu item %s created", item.Name), "", map[string]any{
		"menu_item_id": item.ID,
	})
	return item, nil
}

func (s *Service) Update(ctx context.Context, id int64, cmd interfaces.UpsertMenuItemCommand) (*domain.MenuItem, error) {
	if err := validate(cmd); err != nil {
		return nil, err
	}

	item := &domain.MenuItem{
		ID:          id,
		Name:        cmd.Name,
		Category:    cmd.Category,
		Price:       cmd.Price,
		Description: cmd.Description,
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	s.cache.Invalidate()
	return item, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate()
	return nil
}

func validate(cmd interfaces.UpsertMenuItemCommand) error {
	if cmd.Name == "" {
		return domain.Validationf("menu item name is required")
	}
	if cmd.Price < 0 {
		return domain.Validationf("menu item price must not be negative")
	}
	return nil
}
