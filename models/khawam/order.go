package khawam

import (
	"encoding/json"

	"gorm.io/gorm"
)

// OrderStatus enumerates the lifecycle of a print order.
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"         // submitted, not reviewed yet
	OrderStatusAccepted       OrderStatus = "accepted"        // reviewed and accepted by staff
	OrderStatusPreparing      OrderStatus = "preparing"       // in production
	OrderStatusShipping       OrderStatus = "shipping"        // handed to courier
	OrderStatusAwaitingPickup OrderStatus = "awaiting_pickup" // ready at the shop
	OrderStatusCompleted      OrderStatus = "completed"
	OrderStatusCancelled      OrderStatus = "cancelled"
	OrderStatusRejected       OrderStatus = "rejected"
	OrderStatusArchived       OrderStatus = "archived"
)

// DeliveryType determines how the finished order reaches the customer.
type DeliveryType string

const (
	DeliveryTypeDelivery DeliveryType = "delivery" // courier
	DeliveryTypeSelf     DeliveryType = "self"     // customer pickup
)

// Order is a customer print order.
type Order struct {
	BaseModel
	OrderNumber   string         `gorm:"column:order_number;type:varchar(50);unique" json:"orderNumber"`
	Status        OrderStatus    `gorm:"column:status;type:varchar(50)" json:"status"`
	DeliveryType  DeliveryType   `gorm:"column:delivery_type;type:varchar(20)" json:"deliveryType"`
	CustomerName  string         `gorm:"column:customer_name;type:varchar(255)" json:"customerName"`
	CustomerPhone string         `gorm:"column:customer_phone;type:varchar(50)" json:"customerPhone"`
	CustomerEmail string         `gorm:"column:customer_email;type:varchar(255)" json:"customerEmail"`
	Address       string         `gorm:"column:address;type:text" json:"address"`
	Latitude      *float64       `gorm:"column:latitude" json:"latitude,omitempty"`
	Longitude     *float64       `gorm:"column:longitude" json:"longitude,omitempty"`
	Notes         string         `gorm:"column:notes;type:text" json:"notes"`
	TotalAmount   float64        `gorm:"column:total_amount" json:"totalAmount"`
	Rating        *int           `gorm:"column:rating" json:"rating,omitempty"`
	RatingComment string         `gorm:"column:rating_comment;type:text" json:"ratingComment"`
	CreatedBy     string         `gorm:"column:created_by;type:varchar(100)" json:"createdBy"`
	DeletedAt     gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`

	Items         []OrderItem          `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	StatusHistory []OrderStatusHistory `gorm:"foreignKey:OrderID" json:"statusHistory,omitempty"`
}

// TableName maps Order to its table.
func (Order) TableName() string {
	return "orders"
}

// OrderItem is a single service line inside an order. Specifications is the
// flattened key/value bag produced by the workflow handler that built the
// item; its shape depends on the service kind.
type OrderItem struct {
	BaseModel
	OrderID        int64   `gorm:"column:order_id;type:bigint;index" json:"orderId"`
	ServiceID      int64   `gorm:"column:service_id;type:bigint" json:"serviceId"`
	ServiceName    string  `gorm:"column:service_name;type:varchar(255)" json:"serviceName"`
	Quantity       int     `gorm:"column:quantity;type:int" json:"quantity"`
	UnitPrice      float64 `gorm:"column:unit_price" json:"unitPrice"`
	TotalPrice     float64 `gorm:"column:total_price" json:"totalPrice"`
	Specifications string  `gorm:"column:specifications;type:text" json:"-"`
	DesignFiles    string  `gorm:"column:design_files;type:text" json:"-"`
}

// TableName maps OrderItem to its table.
func (OrderItem) TableName() string {
	return "order_items"
}

// SpecificationsMap decodes the stored specification bag. A missing or
// malformed column yields an empty map rather than an error; the bag is
// display-only.
func (i *OrderItem) SpecificationsMap() map[string]string {
	out := map[string]string{}
	if i.Specifications == "" {
		return out
	}
	_ = json.Unmarshal([]byte(i.Specifications), &out)
	return out
}

// DesignFileList decodes the stored design-file references.
func (i *OrderItem) DesignFileList() []string {
	if i.DesignFiles == "" {
		return nil
	}
	var out []string
	_ = json.Unmarshal([]byte(i.DesignFiles), &out)
	return out
}

// OrderStatusHistory is an append-only log entry of a status change.
type OrderStatusHistory struct {
	BaseModel
	OrderID   int64       `gorm:"column:order_id;type:bigint;index" json:"orderId"`
	Status    OrderStatus `gorm:"column:status;type:varchar(50)" json:"status"`
	Reason    string      `gorm:"column:reason;type:text" json:"reason"`
	ChangedBy string      `gorm:"column:changed_by;type:varchar(100)" json:"changedBy"`
}

// TableName maps OrderStatusHistory to its table.
func (OrderStatusHistory) TableName() string {
	return "order_status_history"
}
