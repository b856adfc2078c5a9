package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"khawam-pro/models/khawam"
	"khawam-pro/internal/service/notify"
	"khawam-pro/internal/service/workflow"
)

const (
	preloadItems   = "Items"
	preloadHistory = "StatusHistory"

	fieldID           = "id = ?"
	fieldOrderNumber  = "order_number = ?"
	fieldStatusEq     = "status = ?"
	fieldStatusCol    = "status"
	fieldUpdatedAtLT  = "updated_at < ?"
	fieldPhoneEq      = "customer_phone = ?"
	fieldCreatedAtGTE = "created_at >= ?"
	fieldCreatedAtLTE = "created_at <= ?"

	orderNumberPrefix = "ORD"
)

// ErrNoWorkflowHandler is returned when no workflow handler claims the
// ordered service. Callers surface it as an explicit error, never fall back
// silently.
var ErrNoWorkflowHandler = errors.New("no workflow handler matches the requested service")

// OrderQuery filters and paginates order listings.
type OrderQuery struct {
	Status        khawam.OrderStatus  `form:"status"`
	DeliveryType  khawam.DeliveryType `form:"deliveryType"`
	CustomerPhone string              `form:"customerPhone"`
	Page          int                 `form:"page"`
	PageSize      int                 `form:"pageSize"`
	StartTime     *time.Time          `form:"startTime"`
	EndTime       *time.Time          `form:"endTime"`
}

// OrderService manages the order lifecycle.
type OrderService interface {
	CreateOrder(ctx context.Context, form *workflow.FormState, deliveryType khawam.DeliveryType, address string) (*khawam.Order, error)
	GetOrderByID(ctx context.Context, id int64) (*khawam.Order, error)
	GetOrderByNumber(ctx context.Context, orderNumber string) (*khawam.Order, error)
	ListOrders(ctx context.Context, query OrderQuery) ([]khawam.Order, int64, error)
	UpdateOrderStatus(ctx context.Context, id int64, target khawam.OrderStatus, changedBy, reason string) error
	StatusOptions(ctx context.Context, id int64) ([]khawam.OrderStatus, error)
	RateOrder(ctx context.Context, id int64, rating int, comment string) error
	DeleteOrder(ctx context.Context, id int64) error
	ArchiveStaleCompleted(ctx context.Context, olderThan time.Duration) (int64, error)
}

type orderServiceImpl struct {
	db       *gorm.DB
	registry *workflow.Registry
	store    *notify.Store
	logger   *zap.Logger
}

// NewOrderService creates the order service.
func NewOrderService(db *gorm.DB, registry *workflow.Registry, store *notify.Store, logger *zap.Logger) OrderService {
	return &orderServiceImpl{
		db:       db,
		registry: registry,
		store:    store,
		logger:   logger,
	}
}

// CreateOrder dispatches the form to its workflow handler, lets the handler
// shape the payload, and persists order, items and the opening history row
// in one transaction.
func (s *orderServiceImpl) CreateOrder(ctx context.Context, form *workflow.FormState, deliveryType khawam.DeliveryType, address string) (*khawam.Order, error) {
	handler, ok := s.registry.Find(form.ServiceName, form.ServiceID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoWorkflowHandler, form.ServiceName)
	}

	prepared, err := handler.PrepareOrderData(form, workflow.OrderRequest{
		DeliveryType: string(deliveryType),
		Address:      address,
	})
	if err != nil {
		return nil, fmt.Errorf("preparing order data: %w", err)
	}

	order := &khawam.Order{
		OrderNumber:   generateOrderNumber(),
		Status:        khawam.OrderStatusPending,
		DeliveryType:  deliveryType,
		CustomerName:  prepared.CustomerName,
		CustomerPhone: prepared.CustomerPhone,
		CustomerEmail: prepared.CustomerEmail,
		Address:       prepared.Address,
		Notes:         prepared.Notes,
		TotalAmount:   prepared.TotalAmount,
	}

	for _, item := range prepared.Items {
		specs, _ := json.Marshal(item.Specifications)
		files, _ := json.Marshal(item.DesignFiles)
		order.Items = append(order.Items, khawam.OrderItem{
			ServiceID:      item.ServiceID,
			ServiceName:    item.ServiceName,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			TotalPrice:     item.TotalPrice,
			Specifications: string(specs),
			DesignFiles:    string(files),
		})
	}

	order.StatusHistory = []khawam.OrderStatusHistory{{
		Status:    khawam.OrderStatusPending,
		ChangedBy: "customer",
	}}

	if err := s.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, fmt.Errorf("creating order: %w", err)
	}

	s.store.Publish(notify.Event{
		Type:        notify.EventOrderCreated,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Status:      string(order.Status),
		Message:     fmt.Sprintf("new order %s (%s)", order.OrderNumber, handler.Name()),
	})

	return order, nil
}

// GetOrderByID loads an order with items and history.
func (s *orderServiceImpl) GetOrderByID(ctx context.Context, id int64) (*khawam.Order, error) {
	var order khawam.Order
	err := s.db.WithContext(ctx).
		Preload(preloadItems).
		Preload(preloadHistory).
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderByNumber loads an order by its public number, for customer
// tracking.
func (s *orderServiceImpl) GetOrderByNumber(ctx context.Context, orderNumber string) (*khawam.Order, error) {
	var order khawam.Order
	err := s.db.WithContext(ctx).
		Preload(preloadItems).
		Preload(preloadHistory).
		Where(fieldOrderNumber, orderNumber).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders returns a filtered page plus the total count.
func (s *orderServiceImpl) ListOrders(ctx context.Context, query OrderQuery) ([]khawam.Order, int64, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.PageSize <= 0 {
		query.PageSize = 10
	}

	tx := s.db.WithContext(ctx).Model(&khawam.Order{})
	if query.Status != "" {
		tx = tx.Where(fieldStatusEq, query.Status)
	}
	if query.DeliveryType != "" {
		tx = tx.Where("delivery_type = ?", query.DeliveryType)
	}
	if query.CustomerPhone != "" {
		tx = tx.Where(fieldPhoneEq, query.CustomerPhone)
	}
	if query.StartTime != nil {
		tx = tx.Where(fieldCreatedAtGTE, query.StartTime)
	}
	if query.EndTime != nil {
		tx = tx.Where(fieldCreatedAtLTE, query.EndTime)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []khawam.Order
	err := tx.Preload(preloadItems).
		Order("created_at DESC").
		Offset((query.Page - 1) * query.PageSize).
		Limit(query.PageSize).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// UpdateOrderStatus enforces the transition table before touching the
// database, then appends a history row and notifies the dashboard. A
// transition to the current status is a no-op success.
func (s *orderServiceImpl) UpdateOrderStatus(ctx context.Context, id int64, target khawam.OrderStatus, changedBy, reason string) error {
	order, err := s.GetOrderByID(ctx, id)
	if err != nil {
		return err
	}

	if err := ValidateTransition(order.Status, target, order.DeliveryType, reason); err != nil {
		return err
	}

	if target == order.Status {
		return nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&khawam.Order{}).
			Where(fieldID, id).
			Update(fieldStatusCol, target).Error; err != nil {
			return err
		}
		return tx.Create(&khawam.OrderStatusHistory{
			OrderID:   id,
			Status:    target,
			Reason:    strings.TrimSpace(reason),
			ChangedBy: changedBy,
		}).Error
	})
	if err != nil {
		return fmt.Errorf("updating order %d status: %w", id, err)
	}

	s.store.Publish(notify.Event{
		Type:        notify.EventStatusChanged,
		OrderID:     id,
		OrderNumber: order.OrderNumber,
		Status:      string(target),
		Message:     fmt.Sprintf("order %s moved to %s", order.OrderNumber, target),
	})

	return nil
}

// StatusOptions returns the option set the dashboard offers for an order.
func (s *orderServiceImpl) StatusOptions(ctx context.Context, id int64) ([]khawam.OrderStatus, error) {
	order, err := s.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return StatusOptionsForOrder(order), nil
}

// RateOrder stores a 1-5 rating on a completed order.
func (s *orderServiceImpl) RateOrder(ctx context.Context, id int64, rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5, got %d", rating)
	}

	order, err := s.GetOrderByID(ctx, id)
	if err != nil {
		return err
	}
	if order.Status != khawam.OrderStatusCompleted && order.Status != khawam.OrderStatusArchived {
		return fmt.Errorf("only completed orders can be rated, order is %q", order.Status)
	}

	err = s.db.WithContext(ctx).Model(&khawam.Order{}).
		Where(fieldID, id).
		Updates(map[string]interface{}{
			"rating":         rating,
			"rating_comment": comment,
		}).Error
	if err != nil {
		return err
	}

	s.store.Publish(notify.Event{
		Type:        notify.EventOrderRated,
		OrderID:     id,
		OrderNumber: order.OrderNumber,
		Message:     fmt.Sprintf("order %s rated %d/5", order.OrderNumber, rating),
	})
	return nil
}

// DeleteOrder soft-deletes an order. Items and history stay, so revenue
// reports over past months are unaffected.
func (s *orderServiceImpl) DeleteOrder(ctx context.Context, id int64) error {
	result := s.db.WithContext(ctx).Delete(&khawam.Order{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ArchiveStaleCompleted moves completed orders untouched for olderThan to
// archived. Archiving is system housekeeping done by the archive watcher;
// it is deliberately outside the staff-facing transition table.
func (s *orderServiceImpl) ArchiveStaleCompleted(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)

	var stale []khawam.Order
	err := s.db.WithContext(ctx).
		Where(fieldStatusEq, khawam.OrderStatusCompleted).
		Where(fieldUpdatedAtLT, cutoff).
		Find(&stale).Error
	if err != nil {
		return 0, err
	}

	var archived int64
	for _, order := range stale {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&khawam.Order{}).
				Where(fieldID, order.ID).
				Update(fieldStatusCol, khawam.OrderStatusArchived).Error; err != nil {
				return err
			}
			return tx.Create(&khawam.OrderStatusHistory{
				OrderID:   order.ID,
				Status:    khawam.OrderStatusArchived,
				Reason:    "auto-archived after completion",
				ChangedBy: "system",
			}).Error
		})
		if err != nil {
			s.logger.Warn("failed to archive order",
				zap.Int64("orderID", order.ID),
				zap.Error(err))
			continue
		}
		archived++

		s.store.Publish(notify.Event{
			Type:        notify.EventOrderArchived,
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			Status:      string(khawam.OrderStatusArchived),
			Message:     fmt.Sprintf("order %s archived", order.OrderNumber),
		})
	}

	return archived, nil
}

// generateOrderNumber builds a short public order number.
func generateOrderNumber() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("%s-%s", orderNumberPrefix, id[:10])
}
