package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "secmaster/internal/errors"
	"secmaster/internal/identifier"
	"secmaster/internal/logger"
	"secmaster/internal/models"
	"secmaster/internal/pagination"
)

// securityService owns the canonical security table and the time-versioned
// identifier mapping table.
type securityService struct {
	db *gorm.DB
}

// NewSecurityService creates a new SecurityServicer.
func NewSecurityService(db *gorm.DB) SecurityServicer {
	return &securityService{db: db}
}

// validateSecurityFields checks the format constraints shared by the create
// paths: name required, country two letters, currency three letters.
func validateSecurityFields(name, country, currency string) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.WithMessage(apperrors.ErrValidation, "Name is required")
	}
	if country != "" && len(country) != 2 {
		return apperrors.WithMessage(apperrors.ErrValidation, "Country must be a 2-letter code")
	}
	if currency != "" && len(currency) != 3 {
		return apperrors.WithMessage(apperrors.ErrValidation, "Currency must be a 3-letter code")
	}
	return nil
}

// CreateSecurity inserts a new canonical security record.
func (s *securityService) CreateSecurity(name, classification, country, currency string) (*models.Security, error) {
	if err := validateSecurityFields(name, country, currency); err != nil {
		return nil, err
	}

	security := &models.Security{
		Name:           strings.TrimSpace(name),
		Classification: classification,
		Country:        strings.ToUpper(country),
		Currency:       strings.ToUpper(currency),
		Active:         true,
	}
	if err := s.db.Create(security).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Infow("security created", "security_id", security.ID, "name", security.Name)
	return security, nil
}

// GetSecurityByID returns a security by its internal ID.
func (s *securityService) GetSecurityByID(id uint) (*models.Security, error) {
	var security models.Security
	if err := s.db.First(&security, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSecurityNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &security, nil
}

// GetByIdentifier returns the security bound to (type, value) at asOf.
// When callers have violated the non-overlap invariant and several rows
// match, the row with the latest non-null valid_from wins, nulls last.
func (s *securityService) GetByIdentifier(idType identifier.Type, value string, asOf *time.Time) (*models.Security, error) {
	at := asOfOrToday(asOf)

	var security models.Security
	err := s.db.
		Joins("JOIN security_identifiers si ON si.security_id = securities.id").
		Where("si.identifier_type = ? AND si.identifier_value = ?", idType, value).
		Where("(si.valid_from IS NULL OR si.valid_from <= ?)", at).
		Where("(si.valid_to IS NULL OR si.valid_to > ?)", at).
		Order("si.valid_from DESC NULLS LAST").
		First(&security).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &security, nil
}

// AddIdentifier binds an external code to a security for a validity
// interval. The overlap and cross-security duplicate guards run inside the
// same transaction as the insert.
func (s *securityService) AddIdentifier(securityID uint, idType identifier.Type, value string, isPrimary bool, validFrom, validTo *time.Time) (*models.SecurityIdentifier, error) {
	if !idType.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "Unknown identifier type: "+string(idType))
	}
	if strings.TrimSpace(value) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "Identifier value is required")
	}
	if validFrom != nil && validTo != nil && !validFrom.Before(*validTo) {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "valid_from must be before valid_to")
	}

	row := &models.SecurityIdentifier{
		SecurityID: securityID,
		Type:       idType,
		Value:      value,
		IsPrimary:  isPrimary,
		ValidFrom:  validFrom,
		ValidTo:    validTo,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var security models.Security
		if err := tx.First(&security, securityID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrSecurityNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := checkBindingConflicts(tx, securityID, idType, value, validFrom, validTo); err != nil {
			return err
		}

		if err := tx.Create(row).Error; err != nil {
			if isUniqueConstraintError(err) {
				return apperrors.WithMessage(apperrors.ErrDuplicateIdentifier,
					"Identifier "+string(idType)+" "+value+" is already bound")
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Debugw("identifier added",
		"security_id", securityID, "identifier_type", idType, "identifier_value", value)
	return row, nil
}

// GetIdentifiers returns all identifiers bound to a security, currently
// open bindings first, then by valid_from descending.
func (s *securityService) GetIdentifiers(securityID uint) ([]models.SecurityIdentifier, error) {
	if _, err := s.GetSecurityByID(securityID); err != nil {
		return nil, err
	}

	var identifiers []models.SecurityIdentifier
	if err := s.db.Where("security_id = ?", securityID).
		Order("valid_from DESC NULLS FIRST").
		Order("identifier_type ASC").
		Find(&identifiers).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return identifiers, nil
}

// SearchSecurities matches securities by name substring or exact identifier
// value. Empty criteria return an empty page rather than the whole table.
func (s *securityService) SearchSecurities(namePattern, identifierValue string, page pagination.PageRequest) (*pagination.PageResponse[models.Security], error) {
	page.Defaults()

	if namePattern == "" && identifierValue == "" {
		result := pagination.NewPageResponse([]models.Security{}, page.Page, page.PageSize, 0)
		return &result, nil
	}

	base := s.db.Model(&models.Security{})
	if identifierValue != "" {
		base = base.
			Joins("JOIN security_identifiers si ON si.security_id = securities.id").
			Where("si.identifier_value = ?", identifierValue).
			Distinct()
	} else {
		base = base.Where("name LIKE ?", "%"+namePattern+"%")
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var securities []models.Security
	if err := base.Order("name ASC").Scopes(pagination.Paginate(page)).Find(&securities).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(securities, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// DeactivateSecurity clears the active flag. Securities are never deleted;
// historical bindings and time series stay queryable.
func (s *securityService) DeactivateSecurity(id uint) error {
	result := s.db.Model(&models.Security{}).Where("id = ?", id).Update("active", false)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrSecurityNotFound
	}
	return nil
}
