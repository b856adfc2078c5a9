package khawam

// PricingRule is one row of the hierarchical pricing table. Rules are
// matched by service plus an attribute path (e.g. "paper_size/A4/sides/2")
// and resolve to a unit price. More specific paths win over shorter ones.
type PricingRule struct {
	BaseModel
	ServiceID     int64   `gorm:"column:service_id;type:bigint;index" json:"serviceId"`
	AttributePath string  `gorm:"column:attribute_path;type:varchar(255)" json:"attributePath"`
	UnitPrice     float64 `gorm:"column:unit_price" json:"unitPrice"`
	MinQuantity   int     `gorm:"column:min_quantity;type:int;default:1" json:"minQuantity"`
	IsActive      bool    `gorm:"column:is_active;default:true" json:"isActive"`
}

// TableName maps PricingRule to its table.
func (PricingRule) TableName() string {
	return "pricing_rules"
}
