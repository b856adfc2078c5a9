package routers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"khawam-pro/models/khawam"
	"khawam-pro/pkg/middleware/render"
	"khawam-pro/internal/service"
)

// CatalogHandler serves the public storefront content and its admin CRUD:
// products, print services, portfolio works and hero slides.
type CatalogHandler struct {
	catalog *service.CatalogService
}

func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// RegisterRoutes mounts read routes on the public group and mutations on admin.
func (h *CatalogHandler) RegisterRoutes(api, admin *gin.RouterGroup) {
	api.GET("/products", h.ListProducts)
	api.GET("/services", h.ListServices)
	api.GET("/services/:"+ParamID, h.GetService)
	api.GET("/portfolio", h.ListPortfolio)
	api.GET("/portfolio/:"+ParamID, h.GetWork)
	api.GET("/hero-slides", h.ListHeroSlides)

	adminCatalog := admin.Group("")
	{
		adminCatalog.POST("/products", h.SaveProduct)
		adminCatalog.DELETE("/products/:"+ParamID, h.DeleteProduct)
		adminCatalog.POST("/services", h.SaveService)
		adminCatalog.POST("/portfolio", h.SaveWork)
		adminCatalog.DELETE("/portfolio/:"+ParamID, h.DeleteWork)
		adminCatalog.POST("/hero-slides", h.SaveHeroSlide)
		adminCatalog.DELETE("/hero-slides/:"+ParamID, h.DeleteHeroSlide)
	}
}

// ListProducts returns products, optionally filtered by category.
// @Summary List products
// @Tags catalog
// @Produce json
// @Param category query string false "product category"
// @Success 200 {object} render.Response
// @Router /api/products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context(), c.Query("category"))
	if err != nil {
		render.InternalServerError(c, err.Error())
		return
	}
	render.Success(c, products)
}

// ListServices returns the active print services.
// @Summary List print services
// @Tags catalog
// @Produce json
// @Success 200 {object} render.Response
// @Router /api/services [get]
func (h *CatalogHandler) ListServices(c *gin.Context) {
	services, err := h.catalog.ListServices(c.Request.Context())
	if err != nil {
		render.InternalServerError(c, err.Error())
		return
	}
	render.Success(c, services)
}

// GetService returns one print service.
// @Summary Get print service
// @Tags catalog
// @Produce json
// @Param id path int true "service id"
// @Success 200 {object} render.Response
// @Router /api/services/{id} [get]
func (h *CatalogHandler) GetService(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param(ParamID), 10, 64)
	if err != nil {
		render.BadRequest(c, errInvalidID)
		return
	}
	svc, err := h.catalog.GetService(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			render.NotFound(c, errServiceNotFound)
			return
		}
		render.InternalServerError(c, err.Error())
		return
	}
	render.Success(c, svc)
}

// ListPortfolio returns portfolio works.
// @Summary List portfolio works
// @Tags catalog
// @Produce json
// @Param featured query bool false "only featured works"
// @Success 200 {object} render.Response
// @Router /api/portfolio [get]
func (h *CatalogHandler) ListPortfolio(c *gin.Context) {
	featured := c.Query("featured") == "true"
	works, err := h.catalog.ListPortfolio(c.Request.Context(), featured)
	if err != nil {
		render.InternalServerError(c, err.Error())
		return
	}
	render.Success(c, works)
}

// GetWork returns one portfolio work.
// @Summary Get portfolio work
// @Tags catalog
// @Produce json
// @Param id path int true "work id"
// @Success 200 {object} render.Response
// @Router /api/portfolio/{id} [get]
func (h *CatalogHandler) GetWork(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param(ParamID), 10, 64)
	if err != nil {
		render.BadRequest(c, errInvalidID)
		return
	}
	work, err := h.catalog.GetWork(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			render.NotFound(c, errWorkNotFound)
			return
		}
		render.InternalServerError(c, err.Error())
		return
	}
	render.Success(c, work)
}

// ListHeroSlides returns the home page hero slides in display order.
// @Summary List hero slides
// @Tags catalog
// @Produce json
// @Success 200 {object} render.Response
// @Router /api/hero-slides [get]
func (h *CatalogHandler) ListHeroSlides(c *gin.Context) {
	slides, err := h.catalog.ListHeroSlides(c.Request.Context())
	if err != nil {
		render.InternalServerError(c, err.Error())
		return
	}
	render.Success(c, slides)
}

// SaveProduct creates or updates a product.
// @Summary Save product
// @Tags admin
// @Accept json
// @Produce json
// @Success 200 {object} render.Response
// @Router /api/admin/products [post]
func (h *CatalogHandler) SaveProduct(c *gin.Context) {
	var product khawam.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		render.BadRequest(c, errInvalidBody)
		return
	}
	if err := h.catalog.SaveProduct(c.Request.Context(), &product); err != nil {
		render.InternalServerError(c, err.Error())
		return
	}
	render.Success(c, product)
}

// DeleteProduct removes a product.
// @Summary Delete product
// @Tags admin
// @Produce json
// @Param id path int true "product id"
// @Success 200 {object} render.Response
// @Router /api/admin/products/{id} [delete]
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param(ParamID), 10, 64)
	if err != nil {
		render.BadRequest(c, errInvalidID)
		return
	}
	if err := h.catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		render.InternalServerError(c, err.Error())
		return
	}
	render.Success(c, nil)
}

// SaveService creates or updates a print service.
// @Summary Save print service
// @Tags admin
// @Accept json
// @Produce json
// @Success 200 {object} render.Response
// @Router /api/admin/services [post]
func (h *CatalogHandler) SaveService(c *gin.Context) {
	var svc khawam.PrintService
	if err := c.ShouldBindJSON(&svc); err != nil {
		render.BadRequest(c, errInvalidBody)
		return
	}
	if err := h.catalog.SaveService(c.Request.Context(), &svc); err != nil {
		render.InternalServerError(c, err.Error())
		return
	}
	render.Success(c, svc)
}

// SaveWork creates or updates a portfolio work.
// @Summary Save portfolio work
// @Tags admin
// @Accept json
// @Produce json
// @Success 200 {object} render.Response
// @Router /api/admin/portfolio [post]
func (h *CatalogHandler) SaveWork(c *gin.Context) {
	var work khawam.PortfolioWork
	if err := c.ShouldBindJSON(&work); err != nil {
		render.BadRequest(c, errInvalidBody)
		return
	}
	if err := h.catalog.SaveWork(c.Request.Context(), &work); err != nil {
		render.InternalServerError(c, err.Error())
		return
	}
	render.Success(c, work)
}

// DeleteWork removes a portfolio work.
// @Summary Delete portfolio work
// @Tags admin
// @Produce json
// @Param id path int true "work id"
// @Success 200 {object} render.Response
// @Router /api/admin/portfolio/{id} [delete]
func (h *CatalogHandler) DeleteWork(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param(ParamID), 10, 64)
	if err != nil {
		render.BadRequest(c, errInvalidID)
		return
	}
	if err := h.catalog.DeleteWork(c.Request.Context(), id); err != nil {
		render.InternalServerError(c, err.Error())
		return
	}
	render.Success(c, nil)
}

// SaveHeroSlide creates or updates a hero slide.
// @Summary Save hero slide
// @Tags admin
// @Accept json
// @Produce json
// @Success 200 {object} render.Response
// @Router /api/admin/hero-slides [post]
func (h *CatalogHandler) SaveHeroSlide(c *gin.Context) {
	var slide khawam.HeroSlide
	if err := c.ShouldBindJSON(&slide); err != nil {
		render.BadRequest(c, errInvalidBody)
		return
	}
	if err := h.catalog.SaveHeroSlide(c.Request.Context(), &slide); err != nil {
		render.InternalServerError(c, err.Error())
		return
	}
	render.Success(c, slide)
}

// DeleteHeroSlide removes a hero slide.
// @Summary Delete hero slide
// @Tags admin
// @Produce json
// @Param id path int true "slide id"
// @Success 200 {object} render.Response
// @Router /api/admin/hero-slides/{id} [delete]
func (h *CatalogHandler) DeleteHeroSlide(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param(ParamID), 10, 64)
	if err != nil {
		render.BadRequest(c, errInvalidID)
		return
	}
	if err := h.catalog.DeleteHeroSlide(c.Request.Context(), id); err != nil {
		render.InternalServerError(c, err.Error())
		return
	}
	render.Success(c, nil)
}
