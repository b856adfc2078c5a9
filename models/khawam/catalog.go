package khawam

// Product is a ready-made item sold in the storefront.
type Product struct {
	BaseModel
	Name        string  `gorm:"column:name;type:varchar(255)" json:"name"`
	NameAr      string  `gorm:"column:name_ar;type:varchar(255)" json:"nameAr"`
	Description string  `gorm:"column:description;type:text" json:"description"`
	Price       float64 `gorm:"column:price" json:"price"`
	ImageURL    string  `gorm:"column:image_url;type:text" json:"imageUrl"`
	Category    string  `gorm:"column:category;type:varchar(100)" json:"category"`
	IsAvailable bool    `gorm:"column:is_available;default:true" json:"isAvailable"`
}

// TableName maps Product to its table.
func (Product) TableName() string {
	return "products"
}

// PrintService is an orderable service (lecture printing, clothing print,
// Quran certificates, generic printing...). Name and NameAr feed the
// workflow registry's keyword matching.
type PrintService struct {
	BaseModel
	Name        string  `gorm:"column:name;type:varchar(255)" json:"name"`
	NameAr      string  `gorm:"column:name_ar;type:varchar(255)" json:"nameAr"`
	Description string  `gorm:"column:description;type:text" json:"description"`
	BasePrice   float64 `gorm:"column:base_price" json:"basePrice"`
	ImageURL    string  `gorm:"column:image_url;type:text" json:"imageUrl"`
	IsActive    bool    `gorm:"column:is_active;default:true" json:"isActive"`
}

// TableName maps PrintService to its table.
func (PrintService) TableName() string {
	return "services"
}

// PortfolioWork is a past work shown in the portfolio gallery.
type PortfolioWork struct {
	BaseModel
	Title       string `gorm:"column:title;type:varchar(255)" json:"title"`
	TitleAr     string `gorm:"column:title_ar;type:varchar(255)" json:"titleAr"`
	Description string `gorm:"column:description;type:text" json:"description"`
	ImageURL    string `gorm:"column:image_url;type:text" json:"imageUrl"`
	Category    string `gorm:"column:category;type:varchar(100)" json:"category"`
	IsFeatured  bool   `gorm:"column:is_featured;default:false" json:"isFeatured"`
}

// TableName maps PortfolioWork to its table.
func (PortfolioWork) TableName() string {
	return "portfolio_works"
}

// HeroSlide is a banner on the storefront home page.
type HeroSlide struct {
	BaseModel
	Title     string `gorm:"column:title;type:varchar(255)" json:"title"`
	Subtitle  string `gorm:"column:subtitle;type:varchar(255)" json:"subtitle"`
	ImageURL  string `gorm:"column:image_url;type:text" json:"imageUrl"`
	LinkURL   string `gorm:"column:link_url;type:text" json:"linkUrl"`
	SortOrder int    `gorm:"column:sort_order;type:int;default:0" json:"sortOrder"`
	IsActive  bool   `gorm:"column:is_active;default:true" json:"isActive"`
}

// TableName maps HeroSlide to its table.
func (HeroSlide) TableName() string {
	return "hero_slides"
}
