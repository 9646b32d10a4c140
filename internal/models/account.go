// internal/models/account.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Account struct {
	BaseModel
	Username     string        `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email        string        `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string        `json:"-" gorm:"size:255;not null"`
	AccountType  AccountType   `json:"account_type" gorm:"type:varchar(20);not null"`
	Status       AccountStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	ProfileData  JSONB         `json:"profile_data" gorm:"type:jsonb"`
	LastLoginAt  *time.Time    `json:"last_login_at"`

	// Relationships
	Products []Product        `json:"products,omitempty" gorm:"foreignKey:OwnerProducerID"`
	Requests []PublishRequest `json:"requests,omitempty" gorm:"foreignKey:PublisherID"`
}

func (a *Account) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hashedPassword)
	return nil
}

func (a *Account) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password))
}
