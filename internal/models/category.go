package models

import "time"

type Category struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Status    Status    `gorm:"size:16;default:pending;not null;index" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	Traits    []Trait   `json:"traits,omitempty"`
}

type Trait struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	CategoryID int64     `gorm:"index;not null" json:"category_id"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	CreatedAt  time.Time `json:"created_at"`
}
