package models

import "time"

type UserRole string

const (
	RoleUser    UserRole = "user"
	RoleOfficer UserRole = "officer"
	RoleAdmin   UserRole = "admin"
)

type AuthMethod string

const (
	AuthMethodPassword AuthMethod = "PASSWORD"
	AuthMethodGoogle   AuthMethod = "GOOGLE"
)

const UserStatusActive = "active"

type User struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Username     *string `gorm:"size:100;uniqueIndex" json:"username"`
	Email        string  `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string  `gorm:"size:255;not null;column:password" json:"-"`
	FirstName    string  `gorm:"size:100" json:"firstName"`
	LastName     string  `gorm:"size:100" json:"lastName"`

	Role   UserRole `gorm:"size:50;not null;default:'user'" json:"role"`
	Status string   `gorm:"size:20;not null;default:'active'" json:"status"`

	EmailVerified    bool `gorm:"default:false" json:"emailVerified"`
	IsActive         bool `gorm:"default:true" json:"isActive"`
	ProfileCompleted bool `gorm:"default:false" json:"profileCompleted"`

	// Single-use verification/reset code with absolute expiry (unix millis).
	ResetCode       *string `gorm:"size:10" json:"-"`
	ResetCodeExpiry *int64  `json:"-"`

	ProfilePhoto string     `gorm:"size:255" json:"profilePhoto"`
	AuthMethod   AuthMethod `gorm:"size:50;default:'PASSWORD'" json:"authMethod"`

	DeviceID  string     `gorm:"size:255" json:"deviceId"`
	FCMToken  string     `gorm:"size:255" json:"-"`
	LastLogin *time.Time `json:"lastLogin"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
