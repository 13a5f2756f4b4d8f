package services

import (
	"time"

	"secmaster/internal/identifier"
	"secmaster/internal/models"
	"secmaster/internal/pagination"
)

// SecurityServicer defines the contract for the canonical security store:
// entity CRUD, time-versioned identifier bindings, and point-in-time lookup.
type SecurityServicer interface {
	CreateSecurity(name, classification, country, currency string) (*models.Security, error)
	GetSecurityByID(id uint) (*models.Security, error)
	// GetByIdentifier performs the point-in-time lookup. A nil asOf means
	// "today". Returns (nil, nil) when no binding is active at asOf.
	GetByIdentifier(idType identifier.Type, value string, asOf *time.Time) (*models.Security, error)
	AddIdentifier(securityID uint, idType identifier.Type, value string, isPrimary bool, validFrom, validTo *time.Time) (*models.SecurityIdentifier, error)
	GetIdentifiers(securityID uint) ([]models.SecurityIdentifier, error)
	// SearchSecurities matches name substrings or exact identifier values.
	// Both criteria empty yields an empty page, never a full table scan.
	SearchSecurities(namePattern, identifierValue string, page pagination.PageRequest) (*pagination.PageResponse[models.Security], error)
	DeactivateSecurity(id uint) error
}

// ResolveOrCreateInput carries the identifier to resolve plus the fields
// used to create a security when no binding exists.
type ResolveOrCreateInput struct {
	Value          string
	Type           identifier.Type
	Name           string
	Classification string
	Country        string
	Currency       string
	AsOf           *time.Time
}

// ResolverServicer translates external identifiers into internal security
// IDs. "Not found" is an expected outcome and is returned as a nil ID, not
// an error.
type ResolverServicer interface {
	DetectIdentifierType(value string) (identifier.Type, bool)
	Resolve(value string, idType identifier.Type, asOf *time.Time) (*uint, error)
	ResolveAuto(value string, asOf *time.Time) (*uint, error)
	// ResolveOrCreate resolves, creating and binding a new security on a
	// miss. The bool result reports whether a security was created.
	ResolveOrCreate(input ResolveOrCreateInput) (uint, bool, error)
}

// SourceServicer manages the priority-ranked data source registry.
type SourceServicer interface {
	CreateSource(code, name string, kind models.SourceKind, preferredType identifier.Type, priority int) (*models.DataSource, error)
	ListSources() ([]models.DataSource, error)
	GetSourceByCode(code string) (*models.DataSource, error)
	// UpdateSource mutates the priority and/or active flag; nil leaves a
	// field unchanged.
	UpdateSource(code string, priority *int, active *bool) (*models.DataSource, error)
}

// PriceInput is one daily price observation from a single source.
type PriceInput struct {
	SecurityID    uint
	PriceDate     time.Time
	Open          *float64
	High          *float64
	Low           *float64
	Close         float64
	Volume        *int64
	AdjustedClose *float64
}

// BestPrice is a reconciled price row annotated with the winning source.
type BestPrice struct {
	models.Price
	SourceCode     string `json:"source_code"`
	SourcePriority int    `json:"source_priority"`
}

// PriceServicer ingests source-tagged prices and reconciles them.
type PriceServicer interface {
	// RecordPrices is idempotent on (security, source, date); the returned
	// count is the number of newly inserted rows.
	RecordPrices(sourceCode string, entries []PriceInput) (int, error)
	GetPriceHistory(securityID uint, from, to time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.Price], error)
	// GetBestPrices returns one row per date: the observation from the
	// highest-priority active source. Nil bounds leave the range open.
	GetBestPrices(securityID uint, from, to *time.Time) ([]BestPrice, error)
}

// FactorValueInput is one factor observation from a single source.
type FactorValueInput struct {
	SecurityID   uint
	FactorCode   string
	AsOfDate     time.Time
	ValueNumeric *float64
	ValueText    *string
}

// BestFactorValue is a reconciled factor row annotated with its factor and
// winning source.
type BestFactorValue struct {
	models.FactorValue
	FactorCode     string `json:"factor_code"`
	SourceCode     string `json:"source_code"`
	SourcePriority int    `json:"source_priority"`
}

// FactorServicer manages factor definitions and reconciles factor values.
type FactorServicer interface {
	CreateFactor(code, name, description, category string, dataType models.FactorDataType) (*models.FactorDefinition, error)
	ListFactors() ([]models.FactorDefinition, error)
	RecordValues(sourceCode string, entries []FactorValueInput) (int, error)
	GetBestValues(securityID uint, factorCode string, from, to *time.Time) ([]BestFactorValue, error)
	// GetLatestFactors returns, per factor, the reconciled value at the most
	// recent observation date for the security.
	GetLatestFactors(securityID uint) ([]BestFactorValue, error)
}
