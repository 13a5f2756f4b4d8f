package models

import "time"

// FactorDataType is the value domain of a factor.
type FactorDataType string

const (
	FactorDataTypeNumeric FactorDataType = "numeric"
	FactorDataTypeText    FactorDataType = "text"
	FactorDataTypeBoolean FactorDataType = "boolean"
)

// FactorDefinition names a factor (momentum, book-to-price, ESG score, ...)
// whose values are reported per security and date by one or more sources.
type FactorDefinition struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Code        string         `gorm:"not null;uniqueIndex:uq_factor_definitions_code" json:"code"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `json:"description,omitempty"`
	Category    string         `json:"category,omitempty"`
	DataType    FactorDataType `gorm:"not null;default:numeric" json:"data_type"`
	CreatedAt   time.Time      `json:"created_at"`
}

// FactorValue is one source-tagged factor observation. Exactly one row per
// (security, factor, date, source); the reconciler selects among sources.
type FactorValue struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SecurityID   uint      `gorm:"not null;uniqueIndex:uq_factor_values_key;index:idx_factor_values_security_date" json:"security_id"`
	FactorID     uint      `gorm:"not null;uniqueIndex:uq_factor_values_key" json:"factor_id"`
	SourceID     uint      `gorm:"not null;uniqueIndex:uq_factor_values_key" json:"source_id"`
	AsOfDate     time.Time `gorm:"not null;uniqueIndex:uq_factor_values_key;index:idx_factor_values_security_date" json:"as_of_date"`
	ValueNumeric *float64  `json:"value_numeric,omitempty"`
	ValueText    *string   `json:"value_text,omitempty"`
	CreatedAt    time.Time `json:"created_at"`

	Security Security         `gorm:"foreignKey:SecurityID" json:"-"`
	Factor   FactorDefinition `gorm:"foreignKey:FactorID" json:"-"`
	Source   DataSource       `gorm:"foreignKey:SourceID" json:"-"`
}
