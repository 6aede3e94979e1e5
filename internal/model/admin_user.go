package model

import "time"

type AdminRole string

const (
	AdminRoleAdmin AdminRole = "admin"
)

type AdminUser struct {
	ID           uint      `gorm:"primaryKey"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:text;not null"`
	Name         string    `gorm:"type:varchar(255)"`
	Role         AdminRole `gorm:"type:varchar(32);not null;default:'admin'"`
	IsActive     bool      `gorm:"not null;default:true"`
	LastLoginAt  *time.Time
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (AdminUser) TableName() string {
	return "admin_users"
}
