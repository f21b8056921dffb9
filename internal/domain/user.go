package domain

import "time"

// User owns todos. Deleting a user removes its todos through the
// ON DELETE CASCADE constraint declared on the association.
type User struct {
	ID        uint      `gorm:"primarykey"`
	Name      string    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Todos     []Todo `gorm:"constraint:OnDelete:CASCADE"`
}
