package database

import (
	"gorm.io/gorm"

	"khawam-pro/models/khawam"
)

// Seed service IDs. Pricing rules and the storefront reference these.
const (
	ServiceIDCertificate int64 = 1
	ServiceIDLecture     int64 = 2
	ServiceIDClothing    int64 = 3
	ServiceIDPrinting    int64 = 4
)

// SeedCatalog inserts the storefront baseline when the catalog is empty:
// the four service families and the lecture-note pricing tiers. Safe to
// call on every start.
func SeedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&khawam.PrintService{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	services := []khawam.PrintService{
		{
			BaseModel:   khawam.BaseModel{ID: ServiceIDCertificate},
			Name:        "Quran Certificates",
			NameAr:      "شهادات وإجازات القرآن الكريم",
			Description: "طباعة شهادات وإجازات بخطوط عربية مذهبة",
			BasePrice:   1000,
			IsActive:    true,
		},
		{
			BaseModel:   khawam.BaseModel{ID: ServiceIDLecture},
			Name:        "Lecture Notes Printing",
			NameAr:      "طباعة محاضرات وملازم",
			Description: "طباعة وتجليد المحاضرات والملازم الجامعية",
			BasePrice:   50,
			IsActive:    true,
		},
		{
			BaseModel:   khawam.BaseModel{ID: ServiceIDClothing},
			Name:        "Clothing Printing",
			NameAr:      "طباعة الملابس",
			Description: "طباعة التصاميم على القمصان والتيشيرتات",
			BasePrice:   9000,
			IsActive:    true,
		},
		{
			BaseModel:   khawam.BaseModel{ID: ServiceIDPrinting},
			Name:        "General Printing",
			NameAr:      "خدمات الطباعة العامة",
			Description: "بنرات، ستيكرات، بطاقات وكل أعمال الطباعة",
			BasePrice:   500,
			IsActive:    true,
		},
	}
	if err := db.Create(&services).Error; err != nil {
		return err
	}

	// Lecture pricing: per-page price drops at the bulk tier, double-sided
	// color is the premium path.
	rules := []khawam.PricingRule{
		{ServiceID: ServiceIDLecture, AttributePath: "color_mode/bw", UnitPrice: 50, MinQuantity: 1, IsActive: true},
		{ServiceID: ServiceIDLecture, AttributePath: "color_mode/bw", UnitPrice: 35, MinQuantity: 10, IsActive: true},
		{ServiceID: ServiceIDLecture, AttributePath: "color_mode/color", UnitPrice: 150, MinQuantity: 1, IsActive: true},
		{ServiceID: ServiceIDLecture, AttributePath: "color_mode/color/sides/2", UnitPrice: 125, MinQuantity: 1, IsActive: true},
		{ServiceID: ServiceIDClothing, AttributePath: "garment_type/tshirt", UnitPrice: 9000, MinQuantity: 1, IsActive: true},
		{ServiceID: ServiceIDClothing, AttributePath: "garment_type/hoodie", UnitPrice: 15000, MinQuantity: 1, IsActive: true},
	}
	return db.Create(&rules).Error
}
