package entity

import (
	"time"

	"github.com/google/uuid"
)

// WardType classifies a ward
type WardType string

const (
	WardTypeGeneral     WardType = "GENERAL"
	WardTypeICU         WardType = "ICU"
	WardTypePrivate     WardType = "PRIVATE"
	WardTypeSemiPrivate WardType = "SEMI_PRIVATE"
	WardTypeEmergency   WardType = "EMERGENCY"
	WardTypeMaternity   WardType = "MATERNITY"
	WardTypePediatric   WardType = "PEDIATRIC"
)

// Ward groups beds on a floor
type Ward struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	WardType    WardType  `gorm:"type:varchar(20);not null;index" json:"ward_type"`
	FloorNumber string    `gorm:"type:varchar(10);not null" json:"floor_number"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Ward) TableName() string {
	return "wards"
}

// WardSummary is a ward with its derived bed counts
// Note: Capacity and AvailableBeds are computed by query, never stored
type WardSummary struct {
	Ward
	Capacity      int `json:"capacity"`
	AvailableBeds int `json:"available_beds"`
}
