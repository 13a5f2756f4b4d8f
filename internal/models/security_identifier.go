package models

import (
	"time"

	"secmaster/internal/identifier"
)

// SecurityIdentifier binds one external code to one security for a validity
// interval. Intervals are half-open: ValidFrom is inclusive (nil means
// "always"), ValidTo is exclusive (nil means "still valid"). Rows are
// appended when a code is bound or changes ownership — an ownership change
// closes the old row's ValidTo and opens a new row — and are never mutated
// in place once closed, so the full mapping history is preserved.
//
// The non-overlap invariant per (security, type) is enforced by a guard
// inside the insert transaction, not by a storage constraint. The composite
// unique index on (type, value, valid_from) is the race signal for
// concurrent create-or-resolve callers.
type SecurityIdentifier struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	SecurityID uint            `gorm:"not null;index:idx_security_identifiers_security" json:"security_id"`
	Type       identifier.Type `gorm:"column:identifier_type;not null;index:idx_security_identifiers_type_value;uniqueIndex:uq_security_identifiers_binding" json:"identifier_type"`
	Value      string          `gorm:"column:identifier_value;not null;index:idx_security_identifiers_type_value;uniqueIndex:uq_security_identifiers_binding" json:"identifier_value"`
	IsPrimary  bool            `json:"is_primary"`
	ValidFrom  *time.Time      `gorm:"uniqueIndex:uq_security_identifiers_binding" json:"valid_from,omitempty"`
	ValidTo    *time.Time      `json:"valid_to,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`

	Security Security `gorm:"foreignKey:SecurityID" json:"-"`
}
