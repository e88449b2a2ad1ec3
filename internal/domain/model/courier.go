package model

import "time"

type CourierStatus string

const (
	CourierStatusActive   CourierStatus = "ACTIVE"
	CourierStatusInactive CourierStatus = "INACTIVE"
)

type Courier struct {
	ID          int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string        `gorm:"type:varchar(255);not null" json:"name"`
	Phone       string        `gorm:"type:varchar(30);not null" json:"phone"`
	VehicleType string        `gorm:"type:varchar(50)" json:"vehicle_type"`
	Status      CourierStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'" json:"status"`
	CreatedAt   time.Time     `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
