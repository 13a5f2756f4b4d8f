package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "secmaster/internal/errors"
	"secmaster/internal/identifier"
	"secmaster/internal/logger"
	"secmaster/internal/models"
)

// sourceService manages the data source registry.
type sourceService struct {
	db *gorm.DB
}

// NewSourceService creates a new SourceServicer.
func NewSourceService(db *gorm.DB) SourceServicer {
	return &sourceService{db: db}
}

// CreateSource registers a new priority-ranked data source.
func (s *sourceService) CreateSource(code, name string, kind models.SourceKind, preferredType identifier.Type, priority int) (*models.DataSource, error) {
	if strings.TrimSpace(code) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "Source code is required")
	}
	switch kind {
	case models.SourceKindAPI, models.SourceKindFile, models.SourceKindManual, models.SourceKindDerived:
	default:
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "Unknown source kind: "+string(kind))
	}
	if preferredType != "" && !preferredType.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "Unknown identifier type: "+string(preferredType))
	}

	source := &models.DataSource{
		Code:          strings.ToUpper(code),
		Name:          name,
		Kind:          kind,
		PreferredType: preferredType,
		Priority:      priority,
		Active:        true,
	}
	if err := s.db.Create(source).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.ErrDuplicateSource
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Infow("data source created", "code", source.Code, "priority", source.Priority)
	return source, nil
}

// ListSources returns all registered sources ordered by priority.
func (s *sourceService) ListSources() ([]models.DataSource, error) {
	var sources []models.DataSource
	if err := s.db.Order("priority ASC, code ASC").Find(&sources).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return sources, nil
}

// GetSourceByCode returns a source by its unique code.
func (s *sourceService) GetSourceByCode(code string) (*models.DataSource, error) {
	var source models.DataSource
	if err := s.db.Where("code = ?", strings.ToUpper(code)).First(&source).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSourceNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &source, nil
}

// UpdateSource mutates the priority and/or active flag of a source. These
// are the only fields expected to change after setup.
func (s *sourceService) UpdateSource(code string, priority *int, active *bool) (*models.DataSource, error) {
	source, err := s.GetSourceByCode(code)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if priority != nil {
		updates["priority"] = *priority
	}
	if active != nil {
		updates["active"] = *active
	}
	if len(updates) == 0 {
		return source, nil
	}

	if err := s.db.Model(source).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Infow("data source updated", "code", source.Code, "priority", source.Priority, "active", source.Active)
	return source, nil
}
