package models

import "time"

type Question struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	EntityID  int64     `gorm:"index;not null" json:"entity_id"`
	UserID    int64     `gorm:"index;not null" json:"user_id"`
	Text      string    `gorm:"type:text;not null" json:"question_text"`
	CreatedAt time.Time `json:"created_at"`
}

type Answer struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	QuestionID int64     `gorm:"index;not null" json:"question_id"`
	UserID     int64     `gorm:"index;not null" json:"user_id"`
	Text       string    `gorm:"type:text;not null" json:"answer_text"`
	Upvotes    int       `gorm:"not null;default:0" json:"upvotes"`
	Downvotes  int       `gorm:"not null;default:0" json:"downvotes"`
	CreatedAt  time.Time `json:"created_at"`
}

type AnswerVote struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	AnswerID  int64     `gorm:"uniqueIndex:idx_answer_user;not null" json:"answer_id"`
	UserID    int64     `gorm:"uniqueIndex:idx_answer_user;not null" json:"user_id"`
	VoteType  string    `gorm:"size:10;not null" json:"vote_type"`
	CreatedAt time.Time `json:"created_at"`
}
