package services

import (
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "secmaster/internal/errors"
	"secmaster/internal/models"
)

// asOfOrToday normalizes an optional as-of date: nil means the current UTC
// date at midnight.
func asOfOrToday(asOf *time.Time) time.Time {
	if asOf != nil {
		return *asOf
	}
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// isUniqueConstraintError checks whether a GORM error is a unique
// constraint violation.
func isUniqueConstraintError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // SQLite
		strings.Contains(msg, "duplicate key value violates unique constraint") // PostgreSQL
}

// sourceRegistry loads the full data source table keyed by ID for use with
// the priority reconciler.
func sourceRegistry(db *gorm.DB) (map[uint]models.DataSource, error) {
	var sources []models.DataSource
	if err := db.Find(&sources).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	registry := make(map[uint]models.DataSource, len(sources))
	for _, src := range sources {
		registry[src.ID] = src
	}
	return registry, nil
}
