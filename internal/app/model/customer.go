package model

import "time"

type Customer struct {
	ID           uint      `gorm:"primarykey" json:"id"`                             // customer id
	Name         string    `gorm:"size:120;not null" json:"name"`                    // display name
	Email        string    `gorm:"size:120;uniqueIndex;not null" json:"email"`       // login email, lower-cased
	PasswordHash string    `gorm:"size:255;not null" json:"-"`                       // bcrypt hash
	Address      string    `gorm:"size:255" json:"address"`                          // shipping address
	Phone        string    `gorm:"size:20" json:"phone"`                             // contact phone
	CreatedAt    time.Time `json:"created_at"`                                       // created at
	UpdatedAt    time.Time `json:"updated_at"`                                       // updated at

	Orders []Order `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"orders,omitempty"`
}

func (Customer) TableName() string {
	return "customers"
}
