package model

import (
	"time"
)

type UserRole string

const (
	Student UserRole = "student"
	Grader  UserRole = "grader"
	Admin   UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name     string   `gorm:"size:100;not null" json:"name"`
	Email    string   `gorm:"size:100;unique;not null" json:"email"`
	Password string   `gorm:"size:100;not null" json:"-"`
	Role     UserRole `gorm:"size:20;default:'student'" json:"role"`
	Language string   `gorm:"size:10;default:'bn'" json:"language"`
	Disabled bool     `gorm:"default:false" json:"disabled"`

	LastLogin time.Time `json:"lastLogin"`
	LastSeen  time.Time `json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}
