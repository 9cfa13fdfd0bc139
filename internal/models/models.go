package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"size:320;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null"        json:"-"`
	CreatedAt    time.Time `json:"created_at"`

	Interests   []Interest   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Newsletters []Newsletter `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

type Interest struct {
	ID     uint   `gorm:"primaryKey;autoIncrement"                    json:"id"`
	UserID uint   `gorm:"index;not null;uniqueIndex:idx_user_interest" json:"user_id"`
	Name   string `gorm:"size:200;not null;uniqueIndex:idx_user_interest" json:"name"`
	Active bool   `gorm:"default:true"                                json:"active"`
}

type Newsletter struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"index;not null"           json:"user_id"`
	Title     string    `gorm:"size:300;not null"        json:"title"`
	CreatedAt time.Time `json:"created_at"`

	ContentItems []ContentItem `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

type ContentItem struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"      json:"id"`
	NewsletterID uint   `gorm:"index;not null"                json:"newsletter_id"`
	Interest     string `gorm:"size:200;index;not null"       json:"interest"`
	SourceURL    string `gorm:"size:2048;uniqueIndex;not null" json:"source_url"`
	Summary      string `gorm:"type:text"                     json:"summary"`
}
