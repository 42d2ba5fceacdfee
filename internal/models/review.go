package models

import "time"

// TraitReview is one trait rating. Ratings submitted together share a BatchID.
type TraitReview struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	BatchID   string    `gorm:"size:36;index;not null" json:"batch_id"`
	EntityID  int64     `gorm:"index;not null" json:"entity_id"`
	UserID    int64     `gorm:"index;not null" json:"user_id"`
	TraitID   int64     `gorm:"index;not null" json:"trait_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
