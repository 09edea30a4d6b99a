package models

import "time"

// Group is a topical namespace posts can be filed under. Groups are
// created out of band (migration, seed, admin tooling) and are immutable
// as far as request handling is concerned.
type Group struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Slug        string    `gorm:"size:64;not null;uniqueIndex" json:"slug"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Group) TableName() string {
	return "groups"
}
