package models

import "time"

// Security is the canonical internal record for a tradable instrument.
// Its primary key is monotonic and never reused. Securities are never
// hard-deleted: retiring one clears the Active flag so historical
// identifier bindings and time series stay resolvable.
type Security struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"not null" json:"name"`
	Classification string    `json:"classification,omitempty"`
	Country        string    `gorm:"size:2" json:"country,omitempty"`
	Currency       string    `gorm:"size:3" json:"currency,omitempty"`
	Active         bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
