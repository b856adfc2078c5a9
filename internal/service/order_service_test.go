package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"khawam-pro/models/khawam"
	"khawam-pro/internal/service/notify"
	"khawam-pro/internal/service/workflow"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&khawam.Order{},
		&khawam.OrderItem{},
		&khawam.OrderStatusHistory{},
		&khawam.PricingRule{},
	))
	return db
}

func newTestOrderService(t *testing.T, db *gorm.DB) (OrderService, *notify.Store) {
	t.Helper()
	store := notify.NewStore()
	pricing := NewPricingService(db, nil, nil, zap.NewNop())
	registry := workflow.NewRegistry(pricing, zap.NewNop())
	return NewOrderService(db, registry, store, zap.NewNop()), store
}

func certificateForm() *workflow.FormState {
	return &workflow.FormState{
		ServiceID:     1,
		ServiceName:   "طباعة إجازة حفظ القرآن الكريم",
		Quantity:      2,
		CustomerName:  "Ahmad",
		CustomerPhone: "0933111222",
		Certificate: &workflow.CertificateSpec{
			WidthCM: 50, HeightCM: 70, CardType: "canson",
		},
	}
}

func TestCreateOrderDispatchesAndPersists(t *testing.T) {
	db := newTestDB(t)
	svc, store := newTestOrderService(t, db)

	var events []notify.Event
	defer store.Subscribe(func(e notify.Event) { events = append(events, e) })()

	order, err := svc.CreateOrder(context.Background(), certificateForm(), khawam.DeliveryTypeSelf, "")
	require.NoError(t, err)

	assert.NotEmpty(t, order.OrderNumber)
	assert.Equal(t, khawam.OrderStatusPending, order.Status)
	assert.Equal(t, 3000.0, order.TotalAmount)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, 1500.0, order.Items[0].UnitPrice)
	assert.Equal(t, "canson", order.Items[0].SpecificationsMap()["card_type"])

	loaded, err := svc.GetOrderByNumber(context.Background(), order.OrderNumber)
	require.NoError(t, err)
	require.Len(t, loaded.StatusHistory, 1)
	assert.Equal(t, khawam.OrderStatusPending, loaded.StatusHistory[0].Status)

	require.Len(t, events, 1)
	assert.Equal(t, notify.EventOrderCreated, events[0].Type)
}

func TestCreateOrderWithoutHandlerIsExplicitError(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newTestOrderService(t, db)

	form := &workflow.FormState{ServiceName: "catering service", Quantity: 1}
	_, err := svc.CreateOrder(context.Background(), form, khawam.DeliveryTypeSelf, "")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoWorkflowHandler)

	var count int64
	db.Model(&khawam.Order{}).Count(&count)
	assert.Zero(t, count, "no order may be written when dispatch fails")
}

func TestUpdateOrderStatusRejectedBeforeAnyWrite(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newTestOrderService(t, db)

	order, err := svc.CreateOrder(context.Background(), certificateForm(), khawam.DeliveryTypeSelf, "")
	require.NoError(t, err)

	// pending → preparing → then shipping must be rejected for self pickup.
	require.NoError(t, svc.UpdateOrderStatus(context.Background(), order.ID, khawam.OrderStatusPreparing, "admin", ""))

	err = svc.UpdateOrderStatus(context.Background(), order.ID, khawam.OrderStatusShipping, "admin", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "awaiting_pickup")

	loaded, err := svc.GetOrderByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, khawam.OrderStatusPreparing, loaded.Status)
	assert.Len(t, loaded.StatusHistory, 2, "rejected transition must not append history")
}

func TestUpdateOrderStatusCancelNeedsReason(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newTestOrderService(t, db)

	order, err := svc.CreateOrder(context.Background(), certificateForm(), khawam.DeliveryTypeDelivery, "Damascus")
	require.NoError(t, err)

	err = svc.UpdateOrderStatus(context.Background(), order.ID, khawam.OrderStatusCancelled, "admin", "  ")
	require.Error(t, err)

	require.NoError(t, svc.UpdateOrderStatus(
		context.Background(), order.ID, khawam.OrderStatusCancelled, "admin", "customer asked"))

	loaded, err := svc.GetOrderByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, khawam.OrderStatusCancelled, loaded.Status)
	assert.Equal(t, "customer asked", loaded.StatusHistory[len(loaded.StatusHistory)-1].Reason)
}

func TestUpdateOrderStatusNoOpSelection(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newTestOrderService(t, db)

	order, err := svc.CreateOrder(context.Background(), certificateForm(), khawam.DeliveryTypeSelf, "")
	require.NoError(t, err)

	require.NoError(t, svc.UpdateOrderStatus(context.Background(), order.ID, khawam.OrderStatusPending, "admin", ""))

	loaded, err := svc.GetOrderByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.StatusHistory, 1, "no-op selection must not append history")
}

func TestListOrdersFiltersByStatus(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newTestOrderService(t, db)

	for i := 0; i < 3; i++ {
		_, err := svc.CreateOrder(context.Background(), certificateForm(), khawam.DeliveryTypeSelf, "")
		require.NoError(t, err)
	}
	order, err := svc.CreateOrder(context.Background(), certificateForm(), khawam.DeliveryTypeSelf, "")
	require.NoError(t, err)
	require.NoError(t, svc.UpdateOrderStatus(context.Background(), order.ID, khawam.OrderStatusPreparing, "admin", ""))

	pending, total, err := svc.ListOrders(context.Background(), OrderQuery{Status: khawam.OrderStatusPending})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, pending, 3)

	preparing, total, err := svc.ListOrders(context.Background(), OrderQuery{Status: khawam.OrderStatusPreparing})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, preparing, 1)
}

func TestRateOrderOnlyWhenCompleted(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newTestOrderService(t, db)

	order, err := svc.CreateOrder(context.Background(), certificateForm(), khawam.DeliveryTypeSelf, "")
	require.NoError(t, err)

	require.Error(t, svc.RateOrder(context.Background(), order.ID, 5, "great"))

	require.NoError(t, svc.UpdateOrderStatus(context.Background(), order.ID, khawam.OrderStatusPreparing, "admin", ""))
	require.NoError(t, svc.UpdateOrderStatus(context.Background(), order.ID, khawam.OrderStatusAwaitingPickup, "admin", ""))
	require.NoError(t, svc.UpdateOrderStatus(context.Background(), order.ID, khawam.OrderStatusCompleted, "admin", ""))

	require.Error(t, svc.RateOrder(context.Background(), order.ID, 9, "out of range"))
	require.NoError(t, svc.RateOrder(context.Background(), order.ID, 5, "great"))

	loaded, err := svc.GetOrderByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Rating)
	assert.Equal(t, 5, *loaded.Rating)
}

func TestArchiveStaleCompleted(t *testing.T) {
	db := newTestDB(t)
	svc, store := newTestOrderService(t, db)

	order, err := svc.CreateOrder(context.Background(), certificateForm(), khawam.DeliveryTypeSelf, "")
	require.NoError(t, err)
	require.NoError(t, svc.UpdateOrderStatus(context.Background(), order.ID, khawam.OrderStatusPreparing, "admin", ""))
	require.NoError(t, svc.UpdateOrderStatus(context.Background(), order.ID, khawam.OrderStatusAwaitingPickup, "admin", ""))
	require.NoError(t, svc.UpdateOrderStatus(context.Background(), order.ID, khawam.OrderStatusCompleted, "admin", ""))

	// Backdate the completion so it is stale.
	require.NoError(t, db.Model(&khawam.Order{}).
		Where("id = ?", order.ID).
		Update("updated_at", time.Now().Add(-48*time.Hour)).Error)

	var archivedEvents int
	defer store.Subscribe(func(e notify.Event) {
		if e.Type == notify.EventOrderArchived {
			archivedEvents++
		}
	})()

	n, err := svc.ArchiveStaleCompleted(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Equal(t, 1, archivedEvents)

	loaded, err := svc.GetOrderByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, khawam.OrderStatusArchived, loaded.Status)
}

func TestArchiveStaleCompletedCountsOnlySuccesses(t *testing.T) {
	db := newTestDB(t)
	svc, store := newTestOrderService(t, db)

	order, err := svc.CreateOrder(context.Background(), certificateForm(), khawam.DeliveryTypeSelf, "")
	require.NoError(t, err)
	require.NoError(t, svc.UpdateOrderStatus(context.Background(), order.ID, khawam.OrderStatusPreparing, "admin", ""))
	require.NoError(t, svc.UpdateOrderStatus(context.Background(), order.ID, khawam.OrderStatusAwaitingPickup, "admin", ""))
	require.NoError(t, svc.UpdateOrderStatus(context.Background(), order.ID, khawam.OrderStatusCompleted, "admin", ""))

	require.NoError(t, db.Model(&khawam.Order{}).
		Where("id = ?", order.ID).
		Update("updated_at", time.Now().Add(-48*time.Hour)).Error)

	// Without the history table every archive transaction rolls back.
	require.NoError(t, db.Migrator().DropTable(&khawam.OrderStatusHistory{}))

	var archivedEvents int
	defer store.Subscribe(func(e notify.Event) {
		if e.Type == notify.EventOrderArchived {
			archivedEvents++
		}
	})()

	n, err := svc.ArchiveStaleCompleted(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, archivedEvents)

	loaded, err := svc.GetOrderByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, khawam.OrderStatusCompleted, loaded.Status)
}

func TestDeleteOrderIsSoft(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newTestOrderService(t, db)

	order, err := svc.CreateOrder(context.Background(), certificateForm(), khawam.DeliveryTypeSelf, "")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteOrder(context.Background(), order.ID))

	_, err = svc.GetOrderByID(context.Background(), order.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// The row survives for reporting; only the default scope hides it.
	var count int64
	require.NoError(t, db.Unscoped().Model(&khawam.Order{}).
		Where("id = ?", order.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)

	assert.ErrorIs(t, svc.DeleteOrder(context.Background(), order.ID), gorm.ErrRecordNotFound)
}
