package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/addisbites/ordering-system/internal/core/domain"
	"github.com/addisbites/ordering-system/internal/core/ports"
)

// stubOrderRepo is a mutex-guarded in-memory OrderRepository whose Claim and
// Release are atomic conditional updates, mirroring the production store's
// guarantees.
type stubOrderRepo struct {
	mu        sync.Mutex
	orders    map[string]*domain.Order
	createErr error
	claimErr  error
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[string]*domain.Order)}
}

func cloneOrder(o *domain.Order) *domain.Order {
	clone := *o
	if o.CourierID != nil {
		id := *o.CourierID
		clone.CourierID = &id
	}
	clone.Items = append([]domain.OrderItem(nil), o.Items...)
	clone.StatusHistory = append([]domain.StatusHistoryEntry(nil), o.StatusHistory...)
	return &clone
}

func (r *stubOrderRepo) Create(_ context.Context, o *domain.Order) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = cloneOrder(o)
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id string, customerID int64) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if customerID != 0 && o.CustomerID != customerID {
		return nil, domain.ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (r *stubOrderRepo) ListByStatus(_ context.Context, status domain.OrderStatus) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Order
	for _, o := range r.orders {
		if o.Status == status {
			out = append(out, cloneOrder(o))
		}
	}
	return out, nil
}

func (r *stubOrderRepo) Claim(_ context.Context, orderID string, courierID int64, now time.Time) (bool, error) {
	if r.claimErr != nil {
		return false, r.claimErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok || o.Status != domain.StatusReady || o.CourierID != nil {
		return false, nil
	}
	o.Status = domain.StatusOnTheWay
	o.CourierID = &courierID
	o.UpdatedAt = now
	o.StatusHistory = append(o.StatusHistory, domain.StatusHistoryEntry{Status: domain.StatusOnTheWay, Timestamp: now})
	return true, nil
}

func (r *stubOrderRepo) Release(_ context.Context, orderID string, courierID int64, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok || o.Status != domain.StatusOnTheWay || o.CourierID == nil || *o.CourierID != courierID {
		return false, nil
	}
	o.Status = domain.StatusReady
	o.CourierID = nil
	o.UpdatedAt = now
	o.StatusHistory = append(o.StatusHistory, domain.StatusHistoryEntry{Status: domain.StatusReady, Timestamp: now})
	return true, nil
}

func seedReadyOrder(repo *stubOrderRepo, id string) {
	now := time.Now().UTC()
	repo.orders[id] = &domain.Order{
		ID:            id,
		CustomerID:    777,
		CustomerName:  "Alice Bekele",
		Items:         []domain.OrderItem{{Name: "Doro Wat", Quantity: 1, Price: 320}},
		Total:         320,
		Status:        domain.StatusReady,
		PaymentStatus: domain.PaymentPaid,
		CreatedAt:     now,
		UpdatedAt:     now,
		StatusHistory: []domain.StatusHistoryEntry{{Status: domain.StatusReady, Timestamp: now}},
	}
}

func TestOrderService_CreateOrder(t *testing.T) {
	repo := newStubOrderRepo()
	svc := NewOrderService(repo, zerolog.Nop())

	order, err := svc.CreateOrder(context.Background(), ports.CreateOrderInput{
		CustomerID:   777,
		CustomerName: "Alice Bekele",
		Items: []ports.OrderItemInput{
			{Name: "Doro Wat", Quantity: 2, Price: 320},
			{Name: "Injera", Quantity: 4, Price: 15},
		},
		Address: "Bole Road 12",
	})
	if err != nil {
		t.Fatalf("CreateOrder returned error: %v", err)
	}
	if order.Total != 2*320+4*15 {
		t.Fatalf("unexpected total: %v", order.Total)
	}
	if order.Status != domain.StatusPending {
		t.Fatalf("expected pending status, got %s", order.Status)
	}
	if order.CourierID != nil {
		t.Fatalf("new order must not have a courier")
	}
	if len(order.StatusHistory) != 1 || order.StatusHistory[0].Status != domain.StatusPending {
		t.Fatalf("unexpected status history: %+v", order.StatusHistory)
	}
}

func TestOrderService_CreateOrder_NoItems(t *testing.T) {
	svc := NewOrderService(newStubOrderRepo(), zerolog.Nop())
	if _, err := svc.CreateOrder(context.Background(), ports.CreateOrderInput{CustomerID: 1}); err == nil {
		t.Fatalf("expected error for empty order")
	}
}

func TestOrderService_Claim_Success(t *testing.T) {
	repo := newStubOrderRepo()
	seedReadyOrder(repo, "ORD-1")
	svc := NewOrderService(repo, zerolog.Nop())

	order, err := svc.Claim(context.Background(), "ORD-1", 42)
	if err != nil {
		t.Fatalf("Claim returned error: %v", err)
	}
	if order.Status != domain.StatusOnTheWay {
		t.Fatalf("expected on_the_way, got %s", order.Status)
	}
	if order.CourierID == nil || *order.CourierID != 42 {
		t.Fatalf("unexpected courier: %v", order.CourierID)
	}
}

func TestOrderService_Claim_Conflict(t *testing.T) {
	repo := newStubOrderRepo()
	seedReadyOrder(repo, "ORD-1")
	svc := NewOrderService(repo, zerolog.Nop())

	if _, err := svc.Claim(context.Background(), "ORD-1", 42); err != nil {
		t.Fatalf("first claim failed: %v", err)
	}
	if _, err := svc.Claim(context.Background(), "ORD-1", 43); !errors.Is(err, domain.ErrClaimConflict) {
		t.Fatalf("expected ErrClaimConflict, got %v", err)
	}
}

func TestOrderService_Claim_NotFound(t *testing.T) {
	svc := NewOrderService(newStubOrderRepo(), zerolog.Nop())
	if _, err := svc.Claim(context.Background(), "ORD-missing", 42); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderService_Claim_Concurrent(t *testing.T) {
	// N couriers race for one ready order: exactly one must win, the rest
	// must observe a clean conflict, and the final state must name the
	// winner.
	repo := newStubOrderRepo()
	seedReadyOrder(repo, "ORD-42")
	svc := NewOrderService(repo, zerolog.Nop())

	const couriers = 32
	var wg sync.WaitGroup
	results := make([]error, couriers)

	start := make(chan struct{})
	for i := 0; i < couriers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, results[i] = svc.Claim(context.Background(), "ORD-42", int64(i+1))
		}(i)
	}
	close(start)
	wg.Wait()

	winners := 0
	winnerIdx := -1
	for i, err := range results {
		switch {
		case err == nil:
			winners++
			winnerIdx = i
		case errors.Is(err, domain.ErrClaimConflict):
		default:
			t.Fatalf("courier %d: unexpected error: %v", i+1, err)
		}
	}
	if winners != 1 {
		t.Fatalf("expected exactly one winner, got %d", winners)
	}

	final, err := repo.FindByID(context.Background(), "ORD-42", 0)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if final.Status != domain.StatusOnTheWay {
		t.Fatalf("expected on_the_way, got %s", final.Status)
	}
	if final.CourierID == nil || *final.CourierID != int64(winnerIdx+1) {
		t.Fatalf("final courier %v does not match winner %d", final.CourierID, winnerIdx+1)
	}
}

func TestOrderService_Release(t *testing.T) {
	repo := newStubOrderRepo()
	seedReadyOrder(repo, "ORD-1")
	svc := NewOrderService(repo, zerolog.Nop())

	if _, err := svc.Claim(context.Background(), "ORD-1", 42); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	// A courier can only release what it owns.
	if _, err := svc.Release(context.Background(), "ORD-1", 43); !errors.Is(err, domain.ErrClaimConflict) {
		t.Fatalf("expected ErrClaimConflict for non-owner, got %v", err)
	}

	order, err := svc.Release(context.Background(), "ORD-1", 42)
	if err != nil {
		t.Fatalf("Release returned error: %v", err)
	}
	if order.Status != domain.StatusReady || order.CourierID != nil {
		t.Fatalf("release did not restore claimable state: %+v", order)
	}

	// Once released, the order can be claimed again by someone else.
	if _, err := svc.Claim(context.Background(), "ORD-1", 43); err != nil {
		t.Fatalf("re-claim after release failed: %v", err)
	}
}

func TestOrderService_Release_NotFound(t *testing.T) {
	svc := NewOrderService(newStubOrderRepo(), zerolog.Nop())
	if _, err := svc.Release(context.Background(), "ORD-missing", 42); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderService_ListReady(t *testing.T) {
	repo := newStubOrderRepo()
	seedReadyOrder(repo, "ORD-1")
	seedReadyOrder(repo, "ORD-2")
	svc := NewOrderService(repo, zerolog.Nop())

	if _, err := svc.Claim(context.Background(), "ORD-1", 42); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	ready, err := svc.ListReady(context.Background())
	if err != nil {
		t.Fatalf("ListReady returned error: %v", err)
	}
	if len(ready) != 1 || ready[0].ID != "ORD-2" {
		t.Fatalf("unexpected ready list: %+v", ready)
	}
}

func TestOrderService_GetOrder_CustomerScoping(t *testing.T) {
	repo := newStubOrderRepo()
	seedReadyOrder(repo, "ORD-1")
	svc := NewOrderService(repo, zerolog.Nop())

	if _, err := svc.GetOrder(context.Background(), "ORD-1", 777); err != nil {
		t.Fatalf("owner lookup failed: %v", err)
	}
	if _, err := svc.GetOrder(context.Background(), "ORD-1", 888); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound for foreign customer, got %v", err)
	}
	if _, err := svc.GetOrder(context.Background(), "ORD-1", 0); err != nil {
		t.Fatalf("unscoped lookup failed: %v", err)
	}
}
