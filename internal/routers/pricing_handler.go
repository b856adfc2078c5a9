package routers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"khawam-pro/models/khawam"
	"khawam-pro/pkg/middleware/render"
	"khawam-pro/internal/service"
)

// PricingHandler manages the per-service pricing rule table and the
// quote endpoint that backs the live price preview.
type PricingHandler struct {
	pricing *service.PricingService
}

func NewPricingHandler(pricing *service.PricingService) *PricingHandler {
	return &PricingHandler{pricing: pricing}
}

func (h *PricingHandler) RegisterRoutes(api, admin *gin.RouterGroup) {
	api.POST("/pricing/quote", h.Quote)

	adminPricing := admin.Group("/pricing/rules")
	{
		adminPricing.GET("", h.ListRules)
		adminPricing.POST("", h.SaveRule)
		adminPricing.DELETE("/:"+ParamID, h.DeleteRule)
	}
}

// QuoteRequest asks for a price on a spec combination.
type QuoteRequest struct {
	ServiceID int64             `json:"serviceId" binding:"required"`
	Specs     map[string]string `json:"specs"`
	Quantity  int               `json:"quantity"`
}

// Quote prices a spec combination against the active rules.
// @Summary Quote a price
// @Tags pricing
// @Accept json
// @Produce json
// @Param quote body QuoteRequest true "spec combination"
// @Success 200 {object} render.Response
// @Router /api/pricing/quote [post]
func (h *PricingHandler) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		render.BadRequest(c, errInvalidBody)
		return
	}

	price, err := h.pricing.Quote(c.Request.Context(), req.ServiceID, req.Specs, req.Quantity)
	if err != nil {
		render.UnprocessableEntity(c, err.Error())
		return
	}
	render.Success(c, gin.H{"price": price})
}

// ListRules returns the pricing rules for one service.
// @Summary List pricing rules
// @Tags admin
// @Produce json
// @Param serviceId query int true "service id"
// @Success 200 {object} render.Response
// @Router /api/admin/pricing/rules [get]
func (h *PricingHandler) ListRules(c *gin.Context) {
	serviceID, err := strconv.ParseInt(c.Query("serviceId"), 10, 64)
	if err != nil {
		render.BadRequest(c, errInvalidID)
		return
	}

	rules, err := h.pricing.ListRules(c.Request.Context(), serviceID)
	if err != nil {
		render.InternalServerError(c, err.Error())
		return
	}
	render.Success(c, rules)
}

// SaveRule creates or updates a pricing rule and drops cached quotes.
// @Summary Save pricing rule
// @Tags admin
// @Accept json
// @Produce json
// @Success 200 {object} render.Response
// @Router /api/admin/pricing/rules [post]
func (h *PricingHandler) SaveRule(c *gin.Context) {
	var rule khawam.PricingRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		render.BadRequest(c, errInvalidBody)
		return
	}
	if err := h.pricing.SaveRule(c.Request.Context(), &rule); err != nil {
		render.InternalServerError(c, err.Error())
		return
	}
	render.Success(c, rule)
}

// DeleteRule removes a pricing rule and drops cached quotes.
// @Summary Delete pricing rule
// @Tags admin
// @Produce json
// @Param id path int true "rule id"
// @Success 200 {object} render.Response
// @Router /api/admin/pricing/rules/{id} [delete]
func (h *PricingHandler) DeleteRule(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param(ParamID), 10, 64)
	if err != nil {
		render.BadRequest(c, errInvalidID)
		return
	}
	if err := h.pricing.DeleteRule(c.Request.Context(), id); err != nil {
		render.InternalServerError(c, err.Error())
		return
	}
	render.Success(c, nil)
}
