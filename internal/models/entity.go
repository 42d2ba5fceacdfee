package models

import "time"

type Entity struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	CategoryID  int64     `gorm:"index;not null" json:"category_id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Status      Status    `gorm:"size:16;default:pending;not null;index" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
