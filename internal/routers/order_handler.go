package routers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"khawam-pro/models/khawam"
	"khawam-pro/pkg/middleware/render"
	"khawam-pro/internal/service"
	"khawam-pro/internal/service/workflow"
)

// OrderHandler serves the order endpoints: customer submission and
// tracking, plus the staff-facing listing and status control.
type OrderHandler struct {
	orders   service.OrderService
	registry *workflow.Registry
}

// NewOrderHandler creates the handler.
func NewOrderHandler(orders service.OrderService, registry *workflow.Registry) *OrderHandler {
	return &OrderHandler{orders: orders, registry: registry}
}

// RegisterRoutes mounts public order routes and, on admin, the staff ones.
func (h *OrderHandler) RegisterRoutes(api, admin *gin.RouterGroup) {
	orderGroup := api.Group("/orders")
	{
		orderGroup.POST("", h.CreateOrder)
		orderGroup.GET("/number/:"+ParamOrderNumber, h.TrackOrder)
		orderGroup.POST("/:"+ParamID+"/rate", h.RateOrder)
		orderGroup.GET("/:"+ParamID+"/attachments", h.ListAttachments)
	}

	workflowGroup := api.Group("/workflows")
	{
		workflowGroup.POST("/steps", h.RenderStep)
		workflowGroup.POST("/price", h.PreviewPrice)
	}

	adminOrders := admin.Group("/orders")
	{
		adminOrders.GET("", h.ListOrders)
		adminOrders.GET("/:"+ParamID, h.GetOrder)
		adminOrders.PUT("/:"+ParamID+"/status", h.UpdateOrderStatus)
		adminOrders.GET("/:"+ParamID+"/status-options", h.StatusOptions)
		adminOrders.DELETE("/:"+ParamID, h.DeleteOrder)
		adminOrders.POST("/archive-stale", h.ArchiveStale)
	}
}

// CreateOrderRequest is the order submission payload.
type CreateOrderRequest struct {
	Form         workflow.FormState  `json:"form" binding:"required"`
	DeliveryType khawam.DeliveryType `json:"deliveryType" binding:"required"`
	Address      string              `json:"address"`
}

// CreateOrder submits a new order.
// @Summary Submit an order
// @Description Dispatches the form to its service workflow and persists the prepared order
// @Tags orders
// @Accept json
// @Produce json
// @Param order body CreateOrderRequest true "order form"
// @Success 200 {object} render.Response
// @Failure 422 {object} render.ErrorResponse "no workflow supports this service"
// @Router /api/orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		render.BadRequest(c, err.Error())
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), &req.Form, req.DeliveryType, req.Address)
	if err != nil {
		if errors.Is(err, service.ErrNoWorkflowHandler) {
			render.UnprocessableEntity(c, errNoHandlerForName)
			return
		}
		render.InternalServerError(c, err.Error())
		return
	}

	render.Success(c, gin.H{
		"id":          order.ID,
		"orderNumber": order.OrderNumber,
		"totalAmount": order.TotalAmount,
		"status":      order.Status,
	})
}

// TrackOrder returns an order by its public number.
// @Summary Track an order
// @Tags orders
// @Produce json
// @Param orderNumber path string true "public order number"
// @Success 200 {object} render.Response
// @Router /api/orders/number/{orderNumber} [get]
func (h *OrderHandler) TrackOrder(c *gin.Context) {
	order, err := h.orders.GetOrderByNumber(c.Request.Context(), c.Param(ParamOrderNumber))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			render.NotFound(c, errOrderNotFound)
			return
		}
		render.InternalServerError(c, err.Error())
		return
	}
	render.Success(c, order)
}

// RateOrder stores a customer rating on a completed order.
// @Summary Rate an order
// @Tags orders
// @Accept json
// @Produce json
// @Param id path int true "order id"
// @Success 200 {object} render.Response
// @Router /api/orders/{id}/rate [post]
func (h *OrderHandler) RateOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param(ParamID), 10, 64)
	if err != nil {
		render.BadRequest(c, errInvalidID)
		return
	}

	var req struct {
		Rating  int    `json:"rating" binding:"required"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		render.BadRequest(c, err.Error())
		return
	}

	if err := h.orders.RateOrder(c.Request.Context(), id, req.Rating, req.Comment); err != nil {
		render.BadRequest(c, err.Error())
		return
	}
	render.SuccessWithMessage(c, "thank you for your feedback", nil)
}

// ListAttachments returns the normalized design-file references of an
// order, ready for display.
// @Summary List order attachments
// @Tags orders
// @Produce json
// @Param id path int true "order id"
// @Success 200 {object} render.Response
// @Router /api/orders/{id}/attachments [get]
func (h *OrderHandler) ListAttachments(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param(ParamID), 10, 64)
	if err != nil {
		render.BadRequest(c, errInvalidID)
		return
	}

	order, err := h.orders.GetOrderByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			render.NotFound(c, errOrderNotFound)
			return
		}
		render.InternalServerError(c, err.Error())
		return
	}

	attachments := []service.Attachment{}
	for _, item := range order.Items {
		for _, raw := range item.DesignFileList() {
			attachments = append(attachments, service.NormalizeAttachmentString(raw))
		}
	}
	render.Success(c, attachments)
}

// RenderStepRequest asks a workflow to render one wizard step.
type RenderStepRequest struct {
	Step workflow.StepRequest `json:"step" binding:"required"`
	Form workflow.FormState   `json:"form"`
}

// RenderStep resolves the workflow for the form's service and renders the
// requested step. An unrecognized step type renders as skipped=true with no
// content; an unmatched service is a 422.
// @Summary Render a wizard step
// @Tags workflows
// @Accept json
// @Produce json
// @Success 200 {object} render.Response
// @Router /api/workflows/steps [post]
func (h *OrderHandler) RenderStep(c *gin.Context) {
	var req RenderStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		render.BadRequest(c, err.Error())
		return
	}

	handler, ok := h.registry.Find(req.Form.ServiceName, req.Form.ServiceID)
	if !ok {
		render.UnprocessableEntity(c, errNoHandlerForName)
		return
	}

	view, ok := handler.RenderStep(req.Step, &req.Form)
	if !ok {
		render.Success(c, gin.H{"skipped": true})
		return
	}
	render.Success(c, view)
}

// PreviewPrice computes the live price for the current form state.
// @Summary Preview the order price
// @Tags workflows
// @Accept json
// @Produce json
// @Success 200 {object} render.Response
// @Router /api/workflows/price [post]
func (h *OrderHandler) PreviewPrice(c *gin.Context) {
	var form workflow.FormState
	if err := c.ShouldBindJSON(&form); err != nil {
		render.BadRequest(c, err.Error())
		return
	}

	handler, ok := h.registry.Find(form.ServiceName, form.ServiceID)
	if !ok {
		render.UnprocessableEntity(c, errNoHandlerForName)
		return
	}

	render.Success(c, gin.H{
		"price":          handler.CalculatePrice(c.Request.Context(), &form),
		"specifications": handler.Specifications(&form),
	})
}

// ListOrders returns a filtered page of orders for the dashboard.
// @Summary List orders
// @Tags admin
// @Produce json
// @Param status query string false "order status"
// @Param page query int false "page" default(1)
// @Param pageSize query int false "page size" default(10)
// @Success 200 {object} render.Response
// @Router /api/admin/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	query := service.OrderQuery{
		Status:        khawam.OrderStatus(c.Query("status")),
		DeliveryType:  khawam.DeliveryType(c.Query("deliveryType")),
		CustomerPhone: c.Query("customerPhone"),
		Page:          1,
		PageSize:      10,
	}

	if page := c.Query("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil && p > 0 {
			query.Page = p
		}
	}
	if pageSize := c.Query("pageSize"); pageSize != "" {
		if ps, err := strconv.Atoi(pageSize); err == nil && ps > 0 {
			query.PageSize = ps
		}
	}
	if startTime := c.Query("startTime"); startTime != "" {
		if t, err := time.Parse(time.DateOnly, startTime); err == nil {
			query.StartTime = &t
		}
	}
	if endTime := c.Query("endTime"); endTime != "" {
		if t, err := time.Parse(time.DateOnly, endTime); err == nil {
			query.EndTime = &t
		}
	}

	orders, total, err := h.orders.ListOrders(c.Request.Context(), query)
	if err != nil {
		render.Fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	render.Success(c, gin.H{
		"list":  orders,
		"total": total,
	})
}

// GetOrder returns one order with items and history.
// @Summary Get order detail
// @Tags admin
// @Produce json
// @Param id path int true "order id"
// @Success 200 {object} render.Response
// @Router /api/admin/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param(ParamID), 10, 64)
	if err != nil {
		render.BadRequest(c, errInvalidID)
		return
	}

	order, err := h.orders.GetOrderByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			render.NotFound(c, errOrderNotFound)
			return
		}
		render.InternalServerError(c, err.Error())
		return
	}
	render.Success(c, order)
}

// UpdateOrderStatus applies a status transition. Illegal transitions and
// missing cancellation reasons are rejected before any write.
// @Summary Update order status
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "order id"
// @Success 200 {object} render.Response
// @Router /api/admin/orders/{id}/status [put]
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param(ParamID), 10, 64)
	if err != nil {
		render.BadRequest(c, errInvalidID)
		return
	}

	var req struct {
		Status khawam.OrderStatus `json:"status" binding:"required"`
		Reason string             `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		render.BadRequest(c, err.Error())
		return
	}

	err = h.orders.UpdateOrderStatus(c.Request.Context(), id, req.Status, callerName(c), req.Reason)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			render.NotFound(c, errOrderNotFound)
			return
		}
		render.BadRequest(c, err.Error())
		return
	}
	render.Success(c, nil)
}

// DeleteOrder soft-deletes an order.
// @Summary Delete order
// @Tags admin
// @Produce json
// @Param id path int true "order id"
// @Success 200 {object} render.Response
// @Router /api/admin/orders/{id} [delete]
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param(ParamID), 10, 64)
	if err != nil {
		render.BadRequest(c, errInvalidID)
		return
	}

	if err := h.orders.DeleteOrder(c.Request.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			render.NotFound(c, errOrderNotFound)
			return
		}
		render.InternalServerError(c, err.Error())
		return
	}
	render.Success(c, nil)
}

// ArchiveStale archives completed orders untouched for the given number of
// hours (default 72), same sweep the background watcher runs.
// @Summary Archive stale completed orders
// @Tags admin
// @Accept json
// @Produce json
// @Success 200 {object} render.Response
// @Router /api/admin/orders/archive-stale [post]
func (h *OrderHandler) ArchiveStale(c *gin.Context) {
	var req struct {
		OlderThanHours int `json:"olderThanHours"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		render.BadRequest(c, err.Error())
		return
	}
	if req.OlderThanHours <= 0 {
		req.OlderThanHours = 72
	}

	archived, err := h.orders.ArchiveStaleCompleted(c.Request.Context(), time.Duration(req.OlderThanHours)*time.Hour)
	if err != nil {
		render.InternalServerError(c, err.Error())
		return
	}
	render.Success(c, gin.H{"archived": archived})
}

// StatusOptions returns the option set for the status dropdown: the current
// status plus every legal next status.
// @Summary Get status options
// @Tags admin
// @Produce json
// @Param id path int true "order id"
// @Success 200 {object} render.Response
// @Router /api/admin/orders/{id}/status-options [get]
func (h *OrderHandler) StatusOptions(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param(ParamID), 10, 64)
	if err != nil {
		render.BadRequest(c, errInvalidID)
		return
	}

	options, err := h.orders.StatusOptions(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			render.NotFound(c, errOrderNotFound)
			return
		}
		render.InternalServerError(c, err.Error())
		return
	}
	render.Success(c, options)
}
