package models

import "time"

type Post struct {
	ID       string  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID   string  `gorm:"column:user_id;type:uuid" json:"user_id"`
	Title    string  `gorm:"column:title;type:text" json:"title"`
	Content  string  `gorm:"column:content;type:text" json:"content"`
	ImageURL *string `gorm:"column:image_url;type:text" json:"image_url"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (Post) TableName() string { return "posts" }
