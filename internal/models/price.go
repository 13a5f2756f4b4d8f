package models

import "time"

// Price is one source-tagged daily price observation. Multiple sources may
// report the same (security, date); exactly one row exists per
// (security, date, source), and the priority reconciler picks among them.
// Immutable time-series data — no updates, no soft deletes.
type Price struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	SecurityID    uint       `gorm:"not null;uniqueIndex:uq_prices_security_source_date;index:idx_prices_security_date" json:"security_id"`
	SourceID      uint       `gorm:"not null;uniqueIndex:uq_prices_security_source_date" json:"source_id"`
	PriceDate     time.Time  `gorm:"not null;uniqueIndex:uq_prices_security_source_date;index:idx_prices_security_date" json:"price_date"`
	Open          *float64   `json:"open,omitempty"`
	High          *float64   `json:"high,omitempty"`
	Low           *float64   `json:"low,omitempty"`
	Close         float64    `gorm:"not null" json:"close"`
	Volume        *int64     `json:"volume,omitempty"`
	AdjustedClose *float64   `json:"adjusted_close,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`

	Security Security   `gorm:"foreignKey:SecurityID" json:"-"`
	Source   DataSource `gorm:"foreignKey:SourceID" json:"-"`
}
