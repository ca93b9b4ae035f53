package billing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableserve/internal/adapter/logger"
	"tableserve/internal/domain"
	"tableserve/internal/interfaces"
)

type fakeBillRepo struct {
	nextID int64
	bills  map[int64]*domain.Bill
	txns   []*domain.Transaction
	tables map[int]domain.TableStatus
}

func newFakeBillRepo() *fakeBillRepo {
	return &fakeBillRepo{
		nextID: 1,
		bills:  map[int64]*domain.Bill{},
		tables: map[int]domain.TableStatus{},
	}
}

func (f *fakeBillRepo) Create(ctx context.Context, bill *domain.Bill, txn *domain.Transaction) (*domain.Table, error) {
	if f.tables[bill.TableNumber] != domain.TableServed {
		return nil, domain.Conflictf("table %d is not served", bill.TableNumber)
	}
	bill.ID = f.nextID
	f.nextID++
	txn.BillID = bill.ID
	f.bills[bill.ID] = bill
	f.txns = append(f.txns, txn)
	f.tables[bill.TableNumber] = domain.TableBilled
	return &domain.Table{TableNumber: bill.TableNumber, Status: domain.TableBilled}, nil
}

func (f *fakeBillRepo) Get(ctx context.Context, id int64) (*domain.Bill, error) {
	b, ok := f.bills[id]
	if !ok {
		return nil, domain.NotFoundf("bill %d", id)
	}
	return b, nil
}

func (f *fakeBillRepo) List(ctx context.Context) ([]*domain.Bill, error) {
	var out []*domain.Bill
	for _, b := range f.bills {
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBillRepo) MarkPaid(ctx context.Context, id int64) (*domain.Bill, *domain.Table, error) {
	b, ok := f.bills[id]
	if !ok {
		return nil, nil, domain.NotFoundf("bill %d", id)
	}
	if b.IsPaid {
		return nil, nil, domain.Conflictf("bill %d is already paid", id)
	}
	b.IsPaid = true
	f.tables[b.TableNumber] = domain.TableVacant
	return b, &domain.Table{TableNumber: b.TableNumber, Status: domain.TableVacant}, nil
}

type fakeOrderLister struct {
	interfaces.OrderRepository
	billable []*domain.Order
}

func (f *fakeOrderLister) ListBillable(ctx context.Context, tableNumber int) ([]*domain.Order, error) {
	return f.billable, nil
}

type fakeTxnRepo struct{ repo *fakeBillRepo }

func (f *fakeTxnRepo) List(ctx context.Context) ([]*domain.Transaction, error) {
	return f.repo.txns, nil
}

type fakeMenuRepo struct{ names map[int64]string }

func (f *fakeMenuRepo) List(ctx context.Context) ([]*domain.MenuItem, error) {
	var out []*domain.MenuItem
	for id, name := range f.names {
		out = append(out, &domain.MenuItem{ID: id, Name: name})
	}
	return out, nil
}

func (f *fakeMenuRepo) Get(ctx context.Context, id int64) (*domain.MenuItem, error) {
	return nil, domain.NotFoundf("menu item %d", id)
}
func (f *fakeMenuRepo) Create(ctx context.Context, item *domain.MenuItem) error { return nil }
func (f *fakeMenuRepo) Update(ctx context.Context, item *domain.MenuItem) error { return nil }
func (f *fakeMenuRepo) Delete(ctx context.Context, id int64) error              { return nil }

type capturePublisher struct{ events []domain.Event }

func (c *capturePublisher) Publish(ctx context.Context, event domain.Event) error {
	c.events = append(c.events, event)
	return nil
}

func newTestService(billable []*domain.Order) (*Service, *fakeBillRepo, *capturePublisher) {
	bills := newFakeBillRepo()
	bills.tables[3] = domain.TableServed
	pub := &capturePublisher{}
	svc := NewService(
		bills,
		&fakeOrderLister{billable: billable},
		&fakeTxnRepo{repo: bills},
		&fakeMenuRepo{names: map[int64]string{4: "Burger"}},
		pub,
		0.10,
		logger.Nop(),
	)
	return svc, bills, pub
}

func servedOrder() *domain.Order {
	menuID := int64(4)
	return &domain.Order{
		ID:          1,
		TableNumber: 3,
		WaiterID:    7,
		Status:      domain.OrderServed,
		Items: []domain.OrderItem{
			{MenuItemID: &menuID, Name: "Burger", Quantity: 2, Price: 10},
		},
	}
}

func TestGenerateBillScenario(t *testing.T) {
	svc, repo, pub := newTestService([]*domain.Order{servedOrder()})

	bill, err := svc.Generate(context.Background(), 9, 3)
	require.NoError(t, err)

	assert.Equal(t, 20.0, bill.Subtotal)
	assert.Equal(t, 2.0, bill.Tax)
	assert.Equal(t, 22.0, bill.Total)
	assert.Equal(t, int64(1), bill.OrderID)
	assert.False(t, bill.IsPaid)

	require.Len(t, repo.txns, 1)
	assert.Equal(t, 22.0, repo.txns[0].TotalAmount)
	assert.Equal(t, int64(7), repo.txns[0].WaiterID)
	assert.Equal(t, int64(9), repo.txns[0].ReceptionistID)

	assert.Equal(t, domain.TableBilled, repo.tables[3], "table held until payment")
	require.Len(t, pub.events, 1)
	assert.Equal(t, domain.EventTableUpdated, pub.events[0].Kind)
}

func TestGenerateRejectsTableWithoutServedOrders(t *testing.T) {
	svc, repo, pub := newTestService(nil)

	_, err := svc.Generate(context.Background(), 9, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Empty(t, repo.bills, "no bill record on rejection")
	assert.Empty(t, repo.txns, "no transaction record on rejection")
	assert.Empty(t, pub.events)
}

func TestGenerateRequiresAtLeastOneServedOrder(t *testing.T) {
	billed := servedOrder()
	billed.Status = domain.OrderBilled
	svc, _, _ := newTestService([]*domain.Order{billed})

	_, err := svc.Generate(context.Background(), 9, 3)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestMarkPaidReleasesTableOnce(t *testing.T) {
	svc, repo, pub := newTestService([]*domain.Order{servedOrder()})

	bill, err := svc.Generate(context.Background(), 9, 3)
	require.NoError(t, err)

	paid, err := svc.MarkPaid(context.Background(), bill.ID)
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)
	assert.Equal(t, domain.TableVacant, repo.tables[3])

	last := pub.events[len(pub.events)-1]
	assert.Equal(t, domain.EventTableUpdated, last.Kind)
	assert.Equal(t, domain.TableVacant, last.Payload.(*domain.Table).Status)

	// Confirming twice must not double-free the table.
	_, err = svc.MarkPaid(context.Background(), bill.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestMarkPaidUnknownBill(t *testing.T) {
	svc, _, _ := newTestService(nil)

	_, err := svc.MarkPaid(context.Background(), 42)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
