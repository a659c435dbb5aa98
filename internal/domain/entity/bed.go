package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BedStatus represents the occupancy state of a bed
type BedStatus string

const (
	BedStatusAvailable   BedStatus = "AVAILABLE"
	BedStatusOccupied    BedStatus = "OCCUPIED"
	BedStatusMaintenance BedStatus = "MAINTENANCE"
	BedStatusCleaning    BedStatus = "CLEANING"
)

// BedType classifies the equipment of a bed
type BedType string

const (
	BedTypeStandard   BedType = "STANDARD"
	BedTypeAdjustable BedType = "ADJUSTABLE"
	BedTypeICU        BedType = "ICU"
	BedTypeVentilator BedType = "VENTILATOR"
	BedTypePediatric  BedType = "PEDIATRIC"
)

// Bed is a chargeable bed inside a ward. A bed is OCCUPIED iff it has
// exactly one ACTIVE allocation.
type Bed struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	WardID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"ward_id"`
	BedNumber   string          `gorm:"type:varchar(20);not null" json:"bed_number"`
	BedType     BedType         `gorm:"type:varchar(20);not null;default:'STANDARD'" json:"bed_type"`
	PricePerDay decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price_per_day"`
	Status      BedStatus       `gorm:"type:varchar(20);not null;default:'AVAILABLE';index" json:"status"`
	IsActive    bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Bed) TableName() string {
	return "beds"
}

// IsAvailable checks if a patient can be admitted to the bed
func (b *Bed) IsAvailable() bool {
	return b.IsActive && b.Status == BedStatusAvailable
}

// IsOccupied checks if the bed has an active allocation
func (b *Bed) IsOccupied() bool {
	return b.Status == BedStatusOccupied
}

// BedFilter narrows bed listings
type BedFilter struct {
	WardID *uuid.UUID
	Status *BedStatus
}
