package services

import (
	"fmt"
	"time"

	apperrors "secmaster/internal/errors"
	"secmaster/internal/identifier"
	"secmaster/internal/models"

	"gorm.io/gorm"
)

// intervalsOverlap reports whether two half-open validity intervals
// [aFrom, aTo) and [bFrom, bTo) intersect. A nil from bound is unbounded
// past, a nil to bound is unbounded future.
func intervalsOverlap(aFrom, aTo, bFrom, bTo *time.Time) bool {
	startsBeforeEnd := func(start, end *time.Time) bool {
		if start == nil || end == nil {
			return true
		}
		return start.Before(*end)
	}
	return startsBeforeEnd(aFrom, bTo) && startsBeforeEnd(bFrom, aTo)
}

// checkBindingConflicts is the write-time guard for the identifier table.
// It must run inside the same transaction as the insert it protects.
//
// Two invariants are checked: the new interval may not overlap an existing
// interval of the same (security, type), and the (type, value) pair may not
// be bound, with an overlapping interval, to a different security.
func checkBindingConflicts(tx *gorm.DB, securityID uint, idType identifier.Type, value string, validFrom, validTo *time.Time) error {
	var siblings []models.SecurityIdentifier
	if err := tx.Where("security_id = ? AND identifier_type = ?", securityID, idType).
		Find(&siblings).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, sib := range siblings {
		if intervalsOverlap(validFrom, validTo, sib.ValidFrom, sib.ValidTo) {
			return apperrors.WithMessage(apperrors.ErrIdentifierConflict,
				fmt.Sprintf("%s interval overlaps existing binding %q on security %d", idType, sib.Value, securityID))
		}
	}

	var claims []models.SecurityIdentifier
	if err := tx.Where("identifier_type = ? AND identifier_value = ? AND security_id <> ?", idType, value, securityID).
		Find(&claims).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, claim := range claims {
		if intervalsOverlap(validFrom, validTo, claim.ValidFrom, claim.ValidTo) {
			return apperrors.WithMessage(apperrors.ErrDuplicateIdentifier,
				fmt.Sprintf("%s %q is already bound to security %d", idType, value, claim.SecurityID))
		}
	}

	return nil
}
