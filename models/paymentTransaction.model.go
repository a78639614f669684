package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PaymentStatus defines the state of a verified payment
type PaymentStatus string

const (
	PaymentStatusVerified PaymentStatus = "VERIFIED"
	PaymentStatusEnrolled PaymentStatus = "ENROLLED"
	PaymentStatusFailed   PaymentStatus = "FAILED"
)

// PaymentTransaction records a payment whose gateway signature has been verified
type PaymentTransaction struct {
	gorm.Model
	UserID        uint                      `gorm:"not null;index" json:"userId"`
	Gateway       string                    `gorm:"type:varchar(50)" json:"paymentGateway"`
	OrderID       string                    `gorm:"type:varchar(100);index" json:"orderId"`
	PaymentID     string                    `gorm:"type:varchar(100);uniqueIndex" json:"paymentId"`
	Signature     string                    `gorm:"type:varchar(255)" json:"-"`
	Amount        int64                     `gorm:"not null;default:0" json:"amount"` // paise
	Currency      string                    `gorm:"type:varchar(10);default:'INR'" json:"currency"`
	CourseIDs     datatypes.JSONSlice[uint] `json:"courseIds"`
	Status        PaymentStatus             `gorm:"type:varchar(20);default:'VERIFIED'" json:"status"`
	FailureReason string                    `gorm:"type:text" json:"failureReason,omitempty"`
}

func (PaymentTransaction) TableName() string {
	return "payment_transactions"
}
