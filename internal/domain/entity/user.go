package entity

import "github.com/google/uuid"

type User struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid" json:"id"`
	Email     string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	FirstName string    `gorm:"size:50;not null" json:"first_name"`
	LastName  string    `gorm:"size:50;not null" json:"last_name"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	City      *string   `gorm:"size:100" json:"city,omitempty"`
	Country   *string   `gorm:"size:100" json:"country,omitempty"`
}
