package domain

import "time"

type Todo struct {
	ID        uint   `gorm:"primarykey"`
	Title     string `gorm:"not null"`
	Completed bool   `gorm:"not null;default:false"`
	UserID    uint   `gorm:"not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
	User      *User `gorm:"constraint:OnDelete:CASCADE"`
}
