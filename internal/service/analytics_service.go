package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jinzhu/now"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"khawam-pro/models/khawam"
)

// StatusCount is one slice of the status breakdown chart.
type StatusCount struct {
	Status khawam.OrderStatus `json:"status"`
	Count  int64              `json:"count"`
}

// ServiceRevenue is one row of the top-services table.
type ServiceRevenue struct {
	ServiceName string  `json:"serviceName"`
	Orders      int64   `json:"orders"`
	Revenue     float64 `json:"revenue"`
}

// DashboardStats is the aggregate payload the dashboard home renders.
type DashboardStats struct {
	TotalOrders    int64            `json:"totalOrders"`
	OrdersToday    int64            `json:"ordersToday"`
	OrdersThisWeek int64            `json:"ordersThisWeek"`
	RevenueMonth   float64          `json:"revenueMonth"`
	AverageRating  float64          `json:"averageRating"`
	ByStatus       []StatusCount    `json:"byStatus"`
	TopServices    []ServiceRevenue `json:"topServices"`
}

// AnalyticsService computes dashboard aggregates.
type AnalyticsService struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewAnalyticsService creates the service.
func NewAnalyticsService(db *gorm.DB, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{db: db, logger: logger}
}

// DashboardStats runs the independent aggregate queries concurrently; the
// dashboard never needed an ordering guarantee among them. The first error
// wins, later ones are logged.
func (s *AnalyticsService) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	run := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				errOnce.Do(func() { firstErr = fmt.Errorf("%s: %w", name, err) })
				s.logger.Warn("dashboard stat query failed",
					zap.String("stat", name),
					zap.Error(err))
			}
		}()
	}

	today := now.BeginningOfDay()
	week := now.BeginningOfWeek()
	month := now.BeginningOfMonth()

	run("total_orders", func() error {
		return s.db.WithContext(ctx).Model(&khawam.Order{}).Count(&stats.TotalOrders).Error
	})
	run("orders_today", func() error {
		return s.db.WithContext(ctx).Model(&khawam.Order{}).
			Where(fieldCreatedAtGTE, today).
			Count(&stats.OrdersToday).Error
	})
	run("orders_week", func() error {
		return s.db.WithContext(ctx).Model(&khawam.Order{}).
			Where(fieldCreatedAtGTE, week).
			Count(&stats.OrdersThisWeek).Error
	})
	run("revenue_month", func() error {
		return s.db.WithContext(ctx).Model(&khawam.Order{}).
			Select("COALESCE(SUM(total_amount), 0)").
			Where(fieldCreatedAtGTE, month).
			Where("status NOT IN ?", []khawam.OrderStatus{
				khawam.OrderStatusCancelled, khawam.OrderStatusRejected,
			}).
			Scan(&stats.RevenueMonth).Error
	})
	run("average_rating", func() error {
		return s.db.WithContext(ctx).Model(&khawam.Order{}).
			Select("COALESCE(AVG(rating), 0)").
			Where("rating IS NOT NULL").
			Scan(&stats.AverageRating).Error
	})
	run("by_status", func() error {
		return s.db.WithContext(ctx).Model(&khawam.Order{}).
			Select("status, COUNT(*) AS count").
			Group("status").
			Scan(&stats.ByStatus).Error
	})
	run("top_services", func() error {
		return s.db.WithContext(ctx).Model(&khawam.OrderItem{}).
			Select("service_name, COUNT(*) AS orders, COALESCE(SUM(total_price), 0) AS revenue").
			Group("service_name").
			Order("revenue DESC").
			Limit(5).
			Scan(&stats.TopServices).Error
	})

	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return stats, nil
}

// OrdersBetween returns orders in [from, to] for report exports.
func (s *AnalyticsService) OrdersBetween(ctx context.Context, from, to time.Time) ([]khawam.Order, error) {
	var orders []khawam.Order
	err := s.db.WithContext(ctx).
		Preload(preloadItems).
		Where(fieldCreatedAtGTE, from).
		Where(fieldCreatedAtLTE, to).
		Order("created_at").
		Find(&orders).Error
	return orders, err
}
