package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "secmaster/internal/errors"
	"secmaster/internal/logger"
	"secmaster/internal/models"
)

// factorService manages factor definitions and reconciles source-tagged
// factor values.
type factorService struct {
	db *gorm.DB
}

// NewFactorService creates a new FactorServicer.
func NewFactorService(db *gorm.DB) FactorServicer {
	return &factorService{db: db}
}

// CreateFactor registers a new factor definition.
func (s *factorService) CreateFactor(code, name, description, category string, dataType models.FactorDataType) (*models.FactorDefinition, error) {
	if strings.TrimSpace(code) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "Factor code is required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "Factor name is required")
	}
	if dataType == "" {
		dataType = models.FactorDataTypeNumeric
	}
	switch dataType {
	case models.FactorDataTypeNumeric, models.FactorDataTypeText, models.FactorDataTypeBoolean:
	default:
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "Unknown factor data type: "+string(dataType))
	}

	factor := &models.FactorDefinition{
		Code:        strings.ToUpper(code),
		Name:        name,
		Description: description,
		Category:    category,
		DataType:    dataType,
	}
	if err := s.db.Create(factor).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.ErrDuplicateFactor
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Infow("factor created", "code", factor.Code, "data_type", factor.DataType)
	return factor, nil
}

// ListFactors returns all factor definitions ordered by code.
func (s *factorService) ListFactors() ([]models.FactorDefinition, error) {
	var factors []models.FactorDefinition
	if err := s.db.Order("code ASC").Find(&factors).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return factors, nil
}

// RecordValues bulk-inserts factor observations for one source, skipping
// rows already present for the (security, factor, source, date) key.
func (s *factorService) RecordValues(sourceCode string, entries []FactorValueInput) (int, error) {
	if len(entries) == 0 {
		return 0, apperrors.WithMessage(apperrors.ErrValidation, "Values array is empty")
	}

	source, err := NewSourceService(s.db).GetSourceByCode(sourceCode)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, entry := range entries {
		factor, err := s.factorByCode(entry.FactorCode)
		if err != nil {
			return count, err
		}
		row := models.FactorValue{
			SecurityID:   entry.SecurityID,
			FactorID:     factor.ID,
			SourceID:     source.ID,
			AsOfDate:     entry.AsOfDate,
			ValueNumeric: entry.ValueNumeric,
			ValueText:    entry.ValueText,
		}
		result := s.db.
			Where("security_id = ? AND factor_id = ? AND source_id = ? AND as_of_date = ?",
				row.SecurityID, row.FactorID, row.SourceID, row.AsOfDate).
			FirstOrCreate(&row)
		if result.Error != nil {
			return count, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
		}
		if result.RowsAffected > 0 {
			count++
		}
	}

	return count, nil
}

// GetBestValues returns one factor value per date for a single factor: the
// row from the highest-priority active source, ties broken by source code.
func (s *factorService) GetBestValues(securityID uint, factorCode string, from, to *time.Time) ([]BestFactorValue, error) {
	factor, err := s.factorByCode(factorCode)
	if err != nil {
		return nil, err
	}
	sources, err := sourceRegistry(s.db)
	if err != nil {
		return nil, err
	}

	query := s.db.Where("security_id = ? AND factor_id = ?", securityID, factor.ID)
	if from != nil {
		query = query.Where("as_of_date >= ?", *from)
	}
	if to != nil {
		query = query.Where("as_of_date <= ?", *to)
	}

	var observations []models.FactorValue
	if err := query.Order("as_of_date ASC").Find(&observations).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	selected := selectBest(observations,
		func(v models.FactorValue) time.Time { return v.AsOfDate },
		func(v models.FactorValue) uint { return v.SourceID },
		sources)

	best := make([]BestFactorValue, 0, len(selected))
	for _, row := range selected {
		src := sources[row.SourceID]
		best = append(best, BestFactorValue{
			FactorValue:    row,
			FactorCode:     factor.Code,
			SourceCode:     src.Code,
			SourcePriority: src.Priority,
		})
	}
	return best, nil
}

// GetLatestFactors returns, for each factor with observations on the
// security, the reconciled value at its most recent observation date.
func (s *factorService) GetLatestFactors(securityID uint) ([]BestFactorValue, error) {
	sources, err := sourceRegistry(s.db)
	if err != nil {
		return nil, err
	}

	var factors []models.FactorDefinition
	if err := s.db.Order("code ASC").Find(&factors).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var observations []models.FactorValue
	if err := s.db.Where("security_id = ?", securityID).
		Order("as_of_date ASC").Find(&observations).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	byFactor := make(map[uint][]models.FactorValue)
	for _, obs := range observations {
		byFactor[obs.FactorID] = append(byFactor[obs.FactorID], obs)
	}

	latest := make([]BestFactorValue, 0, len(byFactor))
	for _, factor := range factors {
		group, ok := byFactor[factor.ID]
		if !ok {
			continue
		}
		selected := selectBest(group,
			func(v models.FactorValue) time.Time { return v.AsOfDate },
			func(v models.FactorValue) uint { return v.SourceID },
			sources)
		if len(selected) == 0 {
			continue
		}
		row := selected[len(selected)-1]
		src := sources[row.SourceID]
		latest = append(latest, BestFactorValue{
			FactorValue:    row,
			FactorCode:     factor.Code,
			SourceCode:     src.Code,
			SourcePriority: src.Priority,
		})
	}
	return latest, nil
}

func (s *factorService) factorByCode(code string) (*models.FactorDefinition, error) {
	var factor models.FactorDefinition
	if err := s.db.Where("code = ?", strings.ToUpper(code)).First(&factor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFactorNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &factor, nil
}
