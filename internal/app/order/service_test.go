package order

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableserve/internal/adapter/logger"
	"tableserve/internal/domain"
	"tableserve/internal/interfaces"
)

type fakeOrderRepo struct {
	mu          sync.Mutex
	nextID      int64
	tableStatus map[int]domain.TableStatus
	orders      map[int64]*domain.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		nextID:      1,
		tableStatus: map[int]domain.TableStatus{},
		orders:      map[int64]*domain.Order{},
	}
}

func (f *fakeOrderRepo) CreateForVacantTable(ctx context.Context, order *domain.Order) (*domain.Table, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	status, ok := f.tableStatus[order.TableNumber]
	if !ok {
		return nil, domain.NotFoundf("table %d", order.TableNumber)
	}
	if status != domain.TableVacant {
		return nil, domain.Conflictf("table %d is %s, not vacant", order.TableNumber, status)
	}

	order.ID = f.nextID
	f.nextID++
	f.orders[order.ID] = order
	f.tableStatus[order.TableNumber] = domain.TableOccupied

	id := order.ID
	return &domain.Table{TableNumber: order.TableNumber, Status: domain.TableOccupied, CurrentOrder: &id}, nil
}

func (f *fakeOrderRepo) Get(ctx context.Context, id int64) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, domain.NotFoundf("order %d", id)
	}
	return o, nil
}

func (f *fakeOrderRepo) ListByStatus(ctx context.Context, statuses ...domain.OrderStatus) ([]*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Order
	for _, o := range f.orders {
		for _, s := range statuses {
			if o.Status == s {
				out = append(out, o)
			}
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) ListByTable(ctx context.Context, tableNumber int, statuses ...domain.OrderStatus) ([]*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Order
	for _, o := range f.orders {
		if o.TableNumber != tableNumber {
			continue
		}
		for _, s := range statuses {
			if o.Status == s {
				out = append(out, o)
			}
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) ListBillable(ctx context.Context, tableNumber int) ([]*domain.Order, error) {
	return f.ListByTable(ctx, tableNumber, domain.OrderServed, domain.OrderBilled)
}

func (f *fakeOrderRepo) ListAll(ctx context.Context) ([]*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Order
	for _, o := range f.orders {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeOrderRepo) UpdateStatus(ctx context.Context, id int64, from, to domain.OrderStatus) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, domain.NotFoundf("order %d", id)
	}
	if o.Status != from {
		return nil, domain.Conflictf("order %d is %s, not %s", id, o.Status, from)
	}
	o.Status = to
	return o, nil
}

func (f *fakeOrderRepo) MarkServed(ctx context.Context, id int64) (*domain.Order, *domain.Table, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, nil, domain.NotFoundf("order %d", id)
	}
	if o.Status != domain.OrderReady {
		return nil, nil, domain.Conflictf("order %d is %s, not ready", id, o.Status)
	}
	if f.tableStatus[o.TableNumber] != domain.TableOccupied {
		return nil, nil, domain.Conflictf("table %d is not occupied", o.TableNumber)
	}
	o.Status = domain.OrderServed
	f.tableStatus[o.TableNumber] = domain.TableServed
	return o, &domain.Table{TableNumber: o.TableNumber, Status: domain.TableServed, CurrentOrder: &o.ID}, nil
}

type fakeMenuRepo struct {
	items map[int64]*domain.MenuItem
}

func (f *fakeMenuRepo) Get(ctx context.Context, id int64) (*domain.MenuItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, domain.NotFoundf("menu item %d", id)
	}
	return item, nil
}

func (f *fakeMenuRepo) List(ctx context.Context) ([]*domain.MenuItem, error) {
	var out []*domain.MenuItem
	for _, item := range f.items {
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeMenuRepo) Create(ctx context.Context, item *domain.MenuItem) error { return nil }
func (f *fakeMenuRepo) Update(ctx context.Context, item *domain.MenuItem) error { return nil }
func (f *fakeMenuRepo) Delete(ctx context.Context, id int64) error              { return nil }

type capturePublisher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (c *capturePublisher) Publish(ctx context.Context, event domain.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return nil
}

func (c *capturePublisher) kinds() []domain.EventKind {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.EventKind, len(c.events))
	for i, e := range c.events {
		out[i] = e.Kind
	}
	return out
}

func newTestService() (*Service, *fakeOrderRepo, *capturePublisher) {
	repo := newFakeOrderRepo()
	repo.tableStatus[3] = domain.TableVacant
	menu := &fakeMenuRepo{items: map[int64]*domain.MenuItem{
		4: {ID: 4, Name: "Burger", Price: 10},
	}}
	pub := &capturePublisher{}
	return NewService(repo, menu, pub, logger.Nop()), repo, pub
}

func TestCreateSnapshotsPriceAndOccupiesTable(t *testing.T) {
	svc, repo, pub := newTestService()

	order, err := svc.Create(context.Background(), 7, interfaces.CreateOrderCommand{
		TableNumber: 3,
		Items:       []interfaces.CreateOrderItemCommand{{MenuItemID: 4, Quantity: 2}},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.OrderInKitchen, order.Status)
	assert.Equal(t, 20.0, order.TotalAmount)
	assert.Equal(t, 10.0, order.Items[0].Price, "price snapshotted from menu")
	assert.Equal(t, domain.TableOccupied, repo.tableStatus[3])
	assert.Equal(t, []domain.EventKind{domain.EventTableUpdated, domain.EventNewOrder}, pub.kinds())
}

func TestCreateRejectsUnknownMenuItem(t *testing.T) {
	svc, _, pub := newTestService()

	_, err := svc.Create(context.Background(), 7, interfaces.CreateOrderCommand{
		TableNumber: 3,
		Items:       []interfaces.CreateOrderItemCommand{{MenuItemID: 999, Quantity: 1}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Empty(t, pub.kinds(), "no events for a rejected order")
}

func TestCreateRejectsEmptyOrder(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(context.Background(), 7, interfaces.CreateOrderCommand{TableNumber: 3})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestConcurrentCreatesOnSameTableOneWins(t *testing.T) {
	svc, _, _ := newTestService()

	cmd := interfaces.CreateOrderCommand{
		TableNumber: 3,
		Items:       []interfaces.CreateOrderItemCommand{{MenuItemID: 4, Quantity: 1}},
	}

	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := svc.Create(context.Background(), 7, cmd)
			results <- err
		}()
	}

	var conflicts, successes int
	for i := 0; i < 2; i++ {
		if err := <-results; err != nil {
			assert.True(t, errors.Is(err, domain.ErrConflict))
			conflicts++
		} else {
			successes++
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)
}

func TestUpdateStatusServedCascadesTable(t *testing.T) {
	svc, repo, pub := newTestService()

	order, err := svc.Create(context.Background(), 7, interfaces.CreateOrderCommand{
		TableNumber: 3,
		Items:       []interfaces.CreateOrderItemCommand{{MenuItemID: 4, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), order.ID, domain.OrderReady)
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), order.ID, domain.OrderServed)
	require.NoError(t, err)

	assert.Equal(t, domain.OrderServed, updated.Status)
	assert.Equal(t, domain.TableServed, repo.tableStatus[3])
	assert.Equal(t, []domain.EventKind{
		domain.EventTableUpdated, domain.EventNewOrder, // create
		domain.EventOrderUpdated,                       // ready
		domain.EventOrderUpdated, domain.EventTableUpdated, // served + cascade
	}, pub.kinds())
}

func TestUpdateStatusRejectsSkippedTransition(t *testing.T) {
	svc, _, _ := newTestService()

	order, err := svc.Create(context.Background(), 7, interfaces.CreateOrderCommand{
		TableNumber: 3,
		Items:       []interfaces.CreateOrderItemCommand{{MenuItemID: 4, Quantity: 1}},
	})
	require.NoError(t, err)

	// in_kitchen -> served skips ready.
	_, err = svc.UpdateStatus(context.Background(), order.ID, domain.OrderServed)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.UpdateStatus(context.Background(), 1, domain.OrderStatus("burnt"))
	assert.True(t, errors.Is(err, domain.ErrValidation))
}
