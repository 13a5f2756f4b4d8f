package models

import (
	"time"

	"secmaster/internal/identifier"
)

// SourceKind describes how a data source delivers observations.
type SourceKind string

const (
	SourceKindAPI     SourceKind = "api"
	SourceKindFile    SourceKind = "file"
	SourceKindManual  SourceKind = "manual"
	SourceKindDerived SourceKind = "derived"
)

// DataSource is a priority-ranked provider of observations. Lower Priority
// wins when multiple active sources report the same (security, date) key.
// Rows are configuration-like: created at setup time, rarely mutated beyond
// the priority and active flag.
type DataSource struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Code          string          `gorm:"not null;uniqueIndex:uq_data_sources_code" json:"code"`
	Name          string          `json:"name,omitempty"`
	Kind          SourceKind      `gorm:"not null" json:"kind"`
	PreferredType identifier.Type `gorm:"column:preferred_identifier_type" json:"preferred_identifier_type,omitempty"`
	Priority      int             `gorm:"not null;default:100" json:"priority"`
	Active        bool            `gorm:"not null;default:true" json:"active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
