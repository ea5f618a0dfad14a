package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

type User struct {
	ID           string    `gorm:"primaryKey;size:36"                 json:"id"`
	Username     string    `gorm:"uniqueIndex;not null"               json:"username"`
	Email        string    `gorm:"uniqueIndex;not null"               json:"email"`
	PasswordHash string    `gorm:"not null"                           json:"-"`
	Roles        []string  `gorm:"type:text;serializer:json;not null" json:"roles"`
	CreatedAt    time.Time `                                          json:"created_at"`
	UpdatedAt    time.Time `                                          json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Product.CreatedBy is a foreign key to User.ID. A user that is still
// referenced cannot be deleted.
type Product struct {
	ID          string    `gorm:"primaryKey;size:36"     json:"id"`
	Title       string    `gorm:"uniqueIndex;not null"   json:"title"`
	Description string    `gorm:"not null"               json:"description"`
	Quantity    int       `gorm:"not null"               json:"quantity"`
	Price       float64   `gorm:"type:numeric;not null"  json:"price"`
	CreatedBy   string    `gorm:"size:36;index;not null" json:"created_by"`
	Creator     *User     `gorm:"foreignKey:CreatedBy;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	CreatedAt   time.Time `                              json:"created_at"`
	UpdatedAt   time.Time `                              json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
