package application

import (
	"context"
	"log/slog"
	"time"

	cartdomain "github.com/loukys/storefront/internal/cart/domain"
	catalogdomain "github.com/loukys/storefront/internal/catalog/domain"
	identitydomain "github.com/loukys/storefront/internal/identity/domain"
	orderdomain "github.com/loukys/storefront/internal/order/domain"
)

type UserLister interface {
	List(ctx context.Context) ([]identitydomain.User, error)
}

type CartLister interface {
	Items(ctx context.Context) ([]cartdomain.Item, error)
}

type ProductLister interface {
	List(ctx context.Context) ([]catalogdomain.Product, error)
}

type OrderRepository interface {
	List(ctx context.Context) ([]orderdomain.Order, error)
	Save(ctx context.Context, orders []orderdomain.Order) error
}

// Service computes read-only projections over the shared store for the
// admin dashboard, plus the order cleanup sweep.
type Service struct {
	log      *slog.Logger
	users    UserLister
	products ProductLister
	orders   OrderRepository
	cart     CartLister
}

func NewService(log *slog.Logger, users UserLister, products ProductLister, orders OrderRepository, cart CartLister) *Service {
	return &Service{log: log, users: users, products: products, orders: orders, cart: cart}
}

type Stats struct {
	TotalOrders  int   `json:"totalOrders"`
	TotalRevenue int64 `json:"totalRevenue"`
	TotalUsers   int   `json:"totalUsers"`
	LowStock     int   `json:"lowStock"`
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	products, err := s.products.List(ctx)
	if err != nil {
		return Stats{}, err
	}

	st := Stats{TotalOrders: len(orders), TotalUsers: len(users)}
	for _, o := range orders {
		st.TotalRevenue += o.Total
	}
	for _, p := range products {
		if p.LowStock() {
			st.LowStock++
		}
	}
	return st, nil
}

type Report struct {
	GeneratedAt      time.Time           `json:"generatedAt"`
	TotalOrders      int                 `json:"totalOrders"`
	TotalRevenue     int64               `json:"totalRevenue"`
	TotalUsers       int                 `json:"totalUsers"`
	TotalProducts    int                 `json:"totalProducts"`
	LowStockProducts int                 `json:"lowStockProducts"`
	RecentOrders     []orderdomain.Order `json:"recentOrders"`
}

const reportRecentOrders = 10

func (s *Service) Report(ctx context.Context) (Report, error) {
	st, err := s.Stats(ctx)
	if err != nil {
		return Report{}, err
	}
	orders, err := s.orders.List(ctx)
	if err != nil {
		return Report{}, err
	}
	products, err := s.products.List(ctx)
	if err != nil {
		return Report{}, err
	}

	recent := orders
	if len(recent) > reportRecentOrders {
		recent = recent[len(recent)-reportRecentOrders:]
	}
	return Report{
		GeneratedAt:      time.Now().UTC(),
		TotalOrders:      st.TotalOrders,
		TotalRevenue:     st.TotalRevenue,
		TotalUsers:       st.TotalUsers,
		TotalProducts:    len(products),
		LowStockProducts: st.LowStock,
		RecentOrders:     recent,
	}, nil
}

// Backup is the full collection dump, suitable for download.
type Backup struct {
	Timestamp time.Time               `json:"timestamp"`
	Users     []identitydomain.User   `json:"users"`
	Products  []catalogdomain.Product `json:"products"`
	Orders    []orderdomain.Order     `json:"orders"`
	Cart      []cartdomain.Item       `json:"cart"`
}

func (s *Service) Backup(ctx context.Context) (Backup, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return Backup{}, err
	}
	products, err := s.products.List(ctx)
	if err != nil {
		return Backup{}, err
	}
	orders, err := s.orders.List(ctx)
	if err != nil {
		return Backup{}, err
	}
	cart, err := s.cart.Items(ctx)
	if err != nil {
		return Backup{}, err
	}
	return Backup{
		Timestamp: time.Now().UTC(),
		Users:     users,
		Products:  products,
		Orders:    orders,
		Cart:      cart,
	}, nil
}

// ClearOldOrders drops orders older than the retention window and
// returns how many were removed.
func (s *Service) ClearOldOrders(ctx context.Context, retention time.Duration) (int, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return 0, err
	}
	cutoff := time.Now().UTC().Add(-retention)
	kept := orders[:0]
	for _, o := range orders {
		if o.Date.After(cutoff) {
			kept = append(kept, o)
		}
	}
	removed := len(orders) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := s.orders.Save(ctx, kept); err != nil {
		return 0, err
	}
	s.log.Info("old orders cleared", "removed", removed)
	return removed, nil
}
