package routers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"khawam-pro/pkg/middleware/render"
	"khawam-pro/internal/service"
	"khawam-pro/internal/service/notify"
)

// DashboardHandler serves the admin dashboard: aggregate stats, the Excel
// export, the notification feed and its websocket stream.
type DashboardHandler struct {
	analytics *service.AnalyticsService
	events    *notify.Store
	wsManager *notify.WebSocketManager
	logger    *zap.Logger

	upgrader websocket.Upgrader
}

func NewDashboardHandler(analytics *service.AnalyticsService, events *notify.Store, wsManager *notify.WebSocketManager, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		analytics: analytics,
		events:    events,
		wsManager: wsManager,
		logger:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The dashboard SPA is served from a different origin in dev.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *DashboardHandler) RegisterRoutes(admin *gin.RouterGroup) {
	dashboard := admin.Group("/dashboard")
	{
		dashboard.GET("/stats", h.Stats)
		dashboard.GET("/export", h.ExportOrders)
		dashboard.GET("/notifications", h.Notifications)
		dashboard.GET("/notifications/ws", h.NotificationStream)
	}
}

// Stats returns the dashboard aggregates.
// @Summary Dashboard stats
// @Tags admin
// @Produce json
// @Success 200 {object} render.Response
// @Router /api/admin/dashboard/stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.analytics.DashboardStats(c.Request.Context())
	if err != nil {
		render.InternalServerError(c, err.Error())
		return
	}
	render.Success(c, stats)
}

// ExportOrders streams an Excel workbook of orders in a date range.
// Defaults to the last 30 days when no range is given.
// @Summary Export orders to Excel
// @Tags admin
// @Produce application/octet-stream
// @Param startTime query string false "start date (YYYY-MM-DD)"
// @Param endTime query string false "end date (YYYY-MM-DD)"
// @Router /api/admin/dashboard/export [get]
func (h *DashboardHandler) ExportOrders(c *gin.Context) {
	to := time.Now()
	from := to.AddDate(0, 0, -30)
	if startTime := c.Query("startTime"); startTime != "" {
		if t, err := time.Parse(time.DateOnly, startTime); err == nil {
			from = t
		}
	}
	if endTime := c.Query("endTime"); endTime != "" {
		if t, err := time.Parse(time.DateOnly, endTime); err == nil {
			to = t.AddDate(0, 0, 1)
		}
	}

	orders, err := h.analytics.OrdersBetween(c.Request.Context(), from, to)
	if err != nil {
		render.InternalServerError(c, err.Error())
		return
	}

	workbook, err := service.BuildOrdersWorkbook(orders)
	if err != nil {
		render.InternalServerError(c, err.Error())
		return
	}
	defer workbook.Close()

	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().Format(time.DateOnly))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := workbook.Write(c.Writer); err != nil {
		h.logger.Error("writing orders workbook", zap.Error(err))
	}
}

// Notifications returns the recent event feed for dashboard catch-up.
// @Summary Recent notifications
// @Tags admin
// @Produce json
// @Success 200 {object} render.Response
// @Router /api/admin/dashboard/notifications [get]
func (h *DashboardHandler) Notifications(c *gin.Context) {
	render.Success(c, h.events.Snapshot())
}

// NotificationStream upgrades to a websocket and pushes order events as
// they happen. The manager owns the connection after the upgrade.
// @Summary Notification stream
// @Tags admin
// @Router /api/admin/dashboard/notifications/ws [get]
func (h *DashboardHandler) NotificationStream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := notify.NewWebSocketClient(conn)
	h.wsManager.AddClient(client)
	h.logger.Info("dashboard client connected", zap.Int("clients", h.wsManager.ClientCount()))

	// Drain reads so pings and close frames are processed; drop the
	// client when the peer goes away.
	go func() {
		defer h.wsManager.RemoveClient(client)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
