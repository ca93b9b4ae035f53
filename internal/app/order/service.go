package order

import (
	"context"
	"errors"
	"fmt"

	"tableserve/internal/adapter/logger"
	"tableserve/internal/domain"
	"tableserve/internal/interfaces"
)

type Service struct {
	orders    interfaces.OrderRepository
	menu      interfaces.MenuRepository
	publisher interfaces.EventPublisher
	lgr       logger.Logger
}

func NewService(orders interfaces.OrderRepository, menu interfaces.MenuRepository, publisher interfaces.EventPublisher, lgr logger.Logger) *Service {
	return &Service{orders: orders, menu: menu, publisher: publisher, lgr: lgr}
}

// Create submits a waiter's order. The price of every item is snapshotted
// from the menu here, and the repository claims the vacant table in the same
// transaction that inserts the order.
func (s *Service) Create(ctx context.Context, waiterID int64, cmd interfaces.CreateOrderCommand) (*domain.Order, error) {
	if len(cmd.Items) == 0 {
		return nil, domain.Validationf("order must contain at least one item")
	}

	items := make([]domain.OrderItem, 0, len(cmd.Items))
	for _, it := range cmd.Items {
		menuItem, err := s.menu.Get(ctx, it.MenuItemID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.Validationf("unknown menu item %d", it.MenuItemID)
			}
			return nil, err
		}
		id := menuItem.ID
		items = append(items, domain.OrderItem{
			MenuItemID: &id,
			Name:       menuItem.Name,
			Quantity:   it.Quantity,
			Price:      menuItem.Price,
			Status:     domain.ItemPending,
		})
	}

	order, err := domain.NewOrder(cmd.TableNumber, waiterID, items)
	if err != nil {
		return nil, err
	}

	table, err := s.orders.CreateForVacantTable(ctx, order)
	if err != nil {
		return nil, err
	}

	s.lgr.Info("order_created", fmt.Sprintf("Order %d created for table %d", order.ID, order.TableNumber), "", map[string]any{
		"order_id":     order.ID,
		"table_number": order.TableNumber,
		"total_amount": order.TotalAmount,
	})

	s.emit(ctx, domain.TableUpdated(table))
	s.emit(ctx, domain.NewOrderEvent(order))

	return order, nil
}

// KitchenQueue lists everything the kitchen still cares about.
func (s *Service) KitchenQueue(ctx context.Context) ([]*domain.Order, error) {
	return s.orders.ListByStatus(ctx, domain.OrderPending, domain.OrderInKitchen, domain.OrderReady)
}

// UpdateStatus applies a chef-driven transition. Marking an order served
// cascades its table from occupied to served in the same transaction.
func (s *Service) UpdateStatus(ctx context.Context, orderID int64, status domain.OrderStatus) (*domain.Order, error) {
	if !domain.ValidOrderStatus(status) {
		return nil, domain.Validationf("unknown order status %q", status)
	}

	current, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !current.CanTransitionTo(status) {
		return nil, domain.Conflictf("order %d cannot move from %s to %s", orderID, current.Status, status)
	}

	if status == domain.OrderServed {
		order, table, err := s.orders.MarkServed(ctx, orderID)
		if err != nil {
			return nil, err
		}
		s.emit(ctx, domain.OrderUpdated(order))
		s.emit(ctx, domain.TableUpdated(table))
		return order, nil
	}

	order, err := s.orders.UpdateStatus(ctx, orderID, current.Status, status)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, domain.OrderUpdated(order))
	return order, nil
}

func (s *Service) ListServedByTable(ctx context.Context, tableNumber int) ([]*domain.Order, error) {
	return s.orders.ListByTable(ctx, tableNumber, domain.OrderServed)
}

func (s *Service) ListAll(ctx context.Context) ([]*domain.Order, error) {
	return s.orders.ListAll(ctx)
}

// emit broadcasts after the mutation committed; a failed publish is logged
// and never fails the request.
func (s *Service) emit(ctx context.Context, event domain.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.lgr.Error("event_publish_failed", "Failed to publish event", "", map[string]any{
			"event": string(event.Kind),
		}, err)
	}
}
