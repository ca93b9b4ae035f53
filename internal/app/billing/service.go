package billing

import (
	"context"
	"fmt"

	"tableserve/internal/adapter/logger"
	"tableserve/internal/domain"
	"tableserve/internal/interfaces"
)

type Service struct {
	bills     interfaces.BillRepository
	orders    interfaces.OrderRepository
	txns      interfaces.TransactionRepository
	menu      interfaces.MenuRepository
	publisher interfaces.EventPublisher
	taxRate   float64
	lgr       logger.Logger
}

func NewService(
	bills interfaces.BillRepository,
	orders interfaces.OrderRepository,
	txns interfaces.TransactionRepository,
	menu interfaces.MenuRepository,
	publisher interfaces.EventPublisher,
	taxRate float64,
	lgr logger.Logger,
) *Service {
	return &Service{
		bills:     bills,
		orders:    orders,
		txns:      txns,
		menu:      menu,
		publisher: publisher,
		taxRate:   taxRate,
		lgr:       lgr,
	}
}

// Generate aggregates the table's uncovered orders into one bill plus its
// audit transaction. The repository applies the bill, the transaction, the
// bulk served -> billed flip and the table transition atomically; the table
// is not released here, only on payment confirmation.
func (s *Service) Generate(ctx context.Context, receptionistID int64, tableNumber int) (*domain.Bill, error) {
	orders, err := s.orders.ListBillable(ctx, tableNumber)
	if err != nil {
		return nil, err
	}

	hasServed := false
	for _, o := range orders {
		if o.Status == domain.OrderServed {
			hasServed = true
			break
		}
	}
	if !hasServed {
		return nil, domain.Validationf("no served orders for table %d", tableNumber)
	}

	lines, subtotal, tax, total := domain.ComputeBill(orders, s.menuNames(ctx), s.taxRate)

	// The bill references the first contributing order even when several
	// orders were summed. See DESIGN.md for the multi-order tab question.
	bill := &domain.Bill{
		OrderID:        orders[0].ID,
		TableNumber:    tableNumber,
		Subtotal:       subtotal,
		Tax:            tax,
		Total:          total,
		ReceptionistID: receptionistID,
		Items:          lines,
	}
	txn := &domain.Transaction{
		TableNumber:    tableNumber,
		OrderID:        orders[0].ID,
		WaiterID:       orders[0].WaiterID,
		ReceptionistID: receptionistID,
		TotalAmount:    total,
	}

	table, err := s.bills.Create(ctx, bill, txn)
	if err != nil {
		return nil, err
	}

	s.lgr.Info("bill_generated", fmt.Sprintf("Bill %d generated for table %d", bill.ID, tableNumber), "", map[string]any{
		"bill_id":      bill.ID,
		"table_number": tableNumber,
		"total":        total,
	})

	s.emit(ctx, domain.TableUpdated(table))
	return bill, nil
}

// menuNames resolves current menu names for bill lines. A failed lookup is
// not fatal: the computation falls back to the snapshots on the order items.
func (s *Service) menuNames(ctx context.Context) map[int64]string {
	items, err := s.menu.List(ctx)
	if err != nil {
		s.lgr.Error("menu_lookup_failed", "Falling back to order item snapshots", "", nil, err)
		return nil
	}
	names := make(map[int64]string, len(items))
	for _, item := range items {
		names[item.ID] = item.Name
	}
	return names
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Bill, error) {
	return s.bills.Get(ctx, id)
}

// MarkPaid confirms payment: is_paid flips false -> true exactly once and
// the table returns to vacant.
func (s *Service) MarkPaid(ctx context.Context, id int64) (*domain.Bill, error) {
	bill, table, err := s.bills.MarkPaid(ctx, id)
	if err != nil {
		return nil, err
	}

	s.lgr.Info("payment_confirmed", fmt.Sprintf("Bill %d paid, table %d released", bill.ID, bill.TableNumber), "", map[string]any{
		"bill_id":      bill.ID,
		"table_number": bill.TableNumber,
	})

	s.emit(ctx, domain.TableUpdated(table))
	return bill, nil
}

func (s *Service) ListBills(ctx context.Context) ([]*domain.Bill, error) {
	return s.bills.List(ctx)
}

func (s *Service) ListTransactions(ctx context.Context) ([]*domain.Transaction, error) {
	return s.txns.List(ctx)
}

func (s *Service) emit(ctx context.Context, event domain.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.lgr.Error("event_publish_failed", "Failed to publish event", "", map[string]any{
			"event": string(event.Kind),
		}, err)
	}
}
