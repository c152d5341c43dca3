package model

import "time"

// BaseModel holds the identity and bookkeeping columns shared by all
// catalog entities. IDs are numeric autoincrement values because they are
// exchanged with clients in request bodies (e.g. export model id lists).
type BaseModel struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updatedAt"`
}
