package models

import (
	"time"

	"gorm.io/gorm"
)

// Quiz is a stored quiz definition, owned by the user who authored it. Live
// game sessions play a materialized copy (game.Quiz), never these rows.
type Quiz struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	OwnerID   uint           `json:"owner_id" gorm:"index"`
	Title     string         `json:"title" gorm:"not null"`
	Questions []Question     `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
}

type Question struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
	QuizID        uint           `json:"quiz_id"`
	OrderNum      int            `json:"order_num"`
	Text          string         `json:"text" gorm:"not null"`
	Options       []Option       `json:"options,omitempty" gorm:"foreignKey:QuestionID"`
	CorrectAnswer int            `json:"correct_answer"`
	TimeLimit     int            `json:"time_limit"`
}

type Option struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
	QuestionID uint           `json:"question_id"`
	OrderNum   int            `json:"order_num"`
	Text       string         `json:"text" gorm:"not null"`
}
