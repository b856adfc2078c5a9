package service

import (
	"context"

	"gorm.io/gorm"

	"khawam-pro/models/khawam"
)

// CatalogService manages the storefront content: products, print services,
// portfolio works and hero slides. Plain CRUD, no workflow involvement.
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService creates the service.
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// ListProducts returns available products, optionally filtered by category.
func (s *CatalogService) ListProducts(ctx context.Context, category string) ([]khawam.Product, error) {
	tx := s.db.WithContext(ctx).Where("is_available = ?", true)
	if category != "" {
		tx = tx.Where("category = ?", category)
	}
	var products []khawam.Product
	err := tx.Order("name").Find(&products).Error
	return products, err
}

// SaveProduct creates or updates a product.
func (s *CatalogService) SaveProduct(ctx context.Context, product *khawam.Product) error {
	return s.db.WithContext(ctx).Save(product).Error
}

// DeleteProduct removes a product.
func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Delete(&khawam.Product{}, id).Error
}

// ListServices returns active print services; the storefront feeds their
// names into the workflow registry.
func (s *CatalogService) ListServices(ctx context.Context) ([]khawam.PrintService, error) {
	var services []khawam.PrintService
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name").
		Find(&services).Error
	return services, err
}

// GetService loads one print service.
func (s *CatalogService) GetService(ctx context.Context, id int64) (*khawam.PrintService, error) {
	var service khawam.PrintService
	if err := s.db.WithContext(ctx).First(&service, id).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

// SaveService creates or updates a print service.
func (s *CatalogService) SaveService(ctx context.Context, service *khawam.PrintService) error {
	return s.db.WithContext(ctx).Save(service).Error
}

// ListPortfolio returns portfolio works, featured first.
func (s *CatalogService) ListPortfolio(ctx context.Context, featuredOnly bool) ([]khawam.PortfolioWork, error) {
	tx := s.db.WithContext(ctx)
	if featuredOnly {
		tx = tx.Where("is_featured = ?", true)
	}
	var works []khawam.PortfolioWork
	err := tx.Order("is_featured DESC, created_at DESC").Find(&works).Error
	return works, err
}

// GetWork loads one portfolio work for the work-detail page.
func (s *CatalogService) GetWork(ctx context.Context, id int64) (*khawam.PortfolioWork, error) {
	var work khawam.PortfolioWork
	if err := s.db.WithContext(ctx).First(&work, id).Error; err != nil {
		return nil, err
	}
	return &work, nil
}

// SaveWork creates or updates a portfolio work.
func (s *CatalogService) SaveWork(ctx context.Context, work *khawam.PortfolioWork) error {
	return s.db.WithContext(ctx).Save(work).Error
}

// DeleteWork removes a portfolio work.
func (s *CatalogService) DeleteWork(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Delete(&khawam.PortfolioWork{}, id).Error
}

// ListHeroSlides returns active slides in display order.
func (s *CatalogService) ListHeroSlides(ctx context.Context) ([]khawam.HeroSlide, error) {
	var slides []khawam.HeroSlide
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order").
		Find(&slides).Error
	return slides, err
}

// SaveHeroSlide creates or updates a slide.
func (s *CatalogService) SaveHeroSlide(ctx context.Context, slide *khawam.HeroSlide) error {
	return s.db.WithContext(ctx).Save(slide).Error
}

// DeleteHeroSlide removes a slide.
func (s *CatalogService) DeleteHeroSlide(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Delete(&khawam.HeroSlide{}, id).Error
}
