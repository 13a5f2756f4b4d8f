package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"secmaster/internal/identifier"
	"secmaster/internal/models"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Date builds a UTC midnight date, the granularity used by validity
// intervals and observation keys.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DatePtr is Date returning a pointer, for optional interval bounds.
func DatePtr(year int, month time.Month, day int) *time.Time {
	d := Date(year, month, day)
	return &d
}

// CreateTestSecurity creates a security with a unique name.
func CreateTestSecurity(t *testing.T, db *gorm.DB) *models.Security {
	t.Helper()
	name := fmt.Sprintf("Test Security %d", nextID())
	return CreateTestSecurityWithParams(t, db, name, "equity", "US", "USD")
}

// CreateTestSecurityWithParams creates a security with the given fields.
func CreateTestSecurityWithParams(t *testing.T, db *gorm.DB, name, classification, country, currency string) *models.Security {
	t.Helper()

	security := &models.Security{
		Name:           name,
		Classification: classification,
		Country:        country,
		Currency:       currency,
		Active:         true,
	}
	if err := db.Create(security).Error; err != nil {
		t.Fatalf("failed to create test security: %v", err)
	}
	return security
}

// BindTestIdentifier attaches an identifier row directly, bypassing the
// service-level guards. Useful for seeding histories.
func BindTestIdentifier(t *testing.T, db *gorm.DB, securityID uint, idType identifier.Type, value string, validFrom, validTo *time.Time) *models.SecurityIdentifier {
	t.Helper()

	row := &models.SecurityIdentifier{
		SecurityID: securityID,
		Type:       idType,
		Value:      value,
		ValidFrom:  validFrom,
		ValidTo:    validTo,
	}
	if err := db.Create(row).Error; err != nil {
		t.Fatalf("failed to bind test identifier: %v", err)
	}
	return row
}

// CreateTestSource creates a data source with the given code and priority.
func CreateTestSource(t *testing.T, db *gorm.DB, code string, priority int, active bool) *models.DataSource {
	t.Helper()

	source := &models.DataSource{
		Code:     code,
		Name:     code,
		Kind:     models.SourceKindAPI,
		Priority: priority,
		Active:   active,
	}
	if err := db.Create(source).Error; err != nil {
		t.Fatalf("failed to create test source: %v", err)
	}
	return source
}

// CreateTestFactor creates a numeric factor definition.
func CreateTestFactor(t *testing.T, db *gorm.DB, code string) *models.FactorDefinition {
	t.Helper()

	factor := &models.FactorDefinition{
		Code:     code,
		Name:     code,
		DataType: models.FactorDataTypeNumeric,
	}
	if err := db.Create(factor).Error; err != nil {
		t.Fatalf("failed to create test factor: %v", err)
	}
	return factor
}

// CreateTestPrice inserts one price observation directly.
func CreateTestPrice(t *testing.T, db *gorm.DB, securityID, sourceID uint, date time.Time, close float64) *models.Price {
	t.Helper()

	price := &models.Price{
		SecurityID: securityID,
		SourceID:   sourceID,
		PriceDate:  date,
		Close:      close,
	}
	if err := db.Create(price).Error; err != nil {
		t.Fatalf("failed to create test price: %v", err)
	}
	return price
}
