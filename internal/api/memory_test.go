package api

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/tastybite/food-ordering/internal/core/domain"
	"github.com/tastybite/food-ordering/internal/core/ports"
)

// In-memory adapters so the router can be exercised end to end without Mongo.

type memIdentities struct {
	mu   sync.Mutex
	seq  int
	byID map[string]domain.Identity
}

func newMemIdentities() *memIdentities {
	return &memIdentities{byID: make(map[string]domain.Identity)}
}

func (m *memIdentities) find(match func(domain.Identity) bool) (*domain.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.byID {
		if match(id) {
			out := id
			return &out, nil
		}
	}
	return nil, domain.ErrIdentityNotFound
}

func (m *memIdentities) FindBySignInKey(_ context.Context, key string) (*domain.Identity, error) {
	return m.find(func(i domain.Identity) bool {
		return (i.Email != "" && i.Email == key) || (i.Mobile != "" && i.Mobile == key)
	})
}

func (m *memIdentities) FindByEmail(_ context.Context, email string) (*domain.Identity, error) {
	return m.find(func(i domain.Identity) bool { return i.Email == email })
}

func (m *memIdentities) FindByID(_ context.Context, id string) (*domain.Identity, error) {
	return m.find(func(i domain.Identity) bool { return i.ID == id })
}

func (m *memIdentities) Create(_ context.Context, in *domain.Identity) (*domain.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, i := range m.byID {
		if (in.Email != "" && i.Email == in.Email) || (in.Mobile != "" && i.Mobile == in.Mobile) {
			return nil, domain.ErrDuplicateIdentity
		}
	}
	m.seq++
	out := *in
	out.ID = fmt.Sprintf("id-%d", m.seq)
	m.byID[out.ID] = out
	return &out, nil
}

type memOrder struct {
	seq   int
	order domain.Order
}

type memOrders struct {
	mu   sync.Mutex
	seq  int
	byID map[string]*memOrder
}

func newMemOrders() *memOrders {
	return &memOrders{byID: make(map[string]*memOrder)}
}

func (m *memOrders) Create(_ context.Context, o *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	o.ID = fmt.Sprintf("ord-%04d", m.seq)
	m.byID[o.ID] = &memOrder{seq: m.seq, order: *o}
	return nil
}

func (m *memOrders) FindByID(_ context.Context, id string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	out := s.order
	return &out, nil
}

func (m *memOrders) FindByIdempotencyKey(_ context.Context, key string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.byID {
		if s.order.IdempotencyKey == key {
			out := s.order
			return &out, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (m *memOrders) UpdateStatus(_ context.Context, id string, from, to domain.OrderStatus, ts time.Time) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if s.order.Status != from {
		return nil, domain.ErrStaleOrder
	}
	s.order.Status = to
	s.order.UpdatedAt = ts
	s.order.StatusHistory = append(append([]domain.StatusHistoryEntry(nil), s.order.StatusHistory...),
		domain.StatusHistoryEntry{Status: to, Timestamp: ts})
	out := s.order
	return &out, nil
}

func (m *memOrders) Delete(_ context.Context, id string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	delete(m.byID, id)
	out := s.order
	return &out, nil
}

func (m *memOrders) List(_ context.Context, f ports.ListOrdersFilter) ([]*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []*memOrder
	for _, s := range m.byID {
		if f.Email == "" || s.order.Purchaser.Email == f.Email {
			all = append(all, s)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].order.CreatedAt.Equal(all[j].order.CreatedAt) {
			return all[i].order.CreatedAt.After(all[j].order.CreatedAt)
		}
		return all[i].seq > all[j].seq
	})
	if f.Limit > 0 {
		start := (f.Page - 1) * f.Limit
		if start > len(all) {
			start = len(all)
		}
		end := start + f.Limit
		if end > len(all) {
			end = len(all)
		}
		all = all[start:end]
	}
	out := make([]*domain.Order, 0, len(all))
	for _, s := range all {
		o := s.order
		out = append(out, &o)
	}
	return out, nil
}

type memFoods struct {
	mu    sync.Mutex
	seq   int
	items map[string]domain.FoodItem
}

func newMemFoods() *memFoods {
	return &memFoods{items: make(map[string]domain.FoodItem)}
}

func (m *memFoods) Create(_ context.Context, item *domain.FoodItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	item.ID = fmt.Sprintf("food-%d", m.seq)
	m.items[item.ID] = *item
	return nil
}

func (m *memFoods) List(context.Context) ([]*domain.FoodItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.FoodItem, 0, len(m.items))
	for _, it := range m.items {
		it := it
		out = append(out, &it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memFoods) Delete(_ context.Context, id string) (*domain.FoodItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return nil, domain.ErrFoodItemNotFound
	}
	delete(m.items, id)
	return &it, nil
}

type memAssets struct {
	mu    sync.Mutex
	seq   int
	files map[string][]byte
}

func newMemAssets() *memAssets {
	return &memAssets{files: make(map[string][]byte)}
}

func (m *memAssets) Save(_ context.Context, name string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	p := fmt.Sprintf("/uploads/%d-%s", m.seq, name)
	m.files[p] = b
	return p, nil
}

func (m *memAssets) Delete(_ context.Context, p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, p)
	return nil
}
