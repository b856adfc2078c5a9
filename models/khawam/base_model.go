/*
Package khawam provides the data model definitions for the Khawam Pro
printing-shop backend.
*/
package khawam

// BaseModel is embedded by every persisted model.
type BaseModel struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt KhawamTime `gorm:"column:created_at;type:datetime" json:"createdAt"`
	UpdatedAt KhawamTime `gorm:"column:updated_at;type:datetime" json:"updatedAt"`
}
