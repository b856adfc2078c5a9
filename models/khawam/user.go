package khawam

// UserRole separates storefront customers from dashboard staff.
type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleAdmin    UserRole = "admin"
)

// User is an account able to log in to the storefront or dashboard.
type User struct {
	BaseModel
	Name         string   `gorm:"column:name;type:varchar(255)" json:"name"`
	Email        string   `gorm:"column:email;type:varchar(255);unique" json:"email"`
	Phone        string   `gorm:"column:phone;type:varchar(50)" json:"phone"`
	PasswordHash string   `gorm:"column:password_hash;type:varchar(255)" json:"-"`
	Role         UserRole `gorm:"column:role;type:varchar(20);default:customer" json:"role"`
}

// TableName maps User to its table.
func (User) TableName() string {
	return "users"
}
