package services

import (
	"time"

	"gorm.io/gorm"

	apperrors "secmaster/internal/errors"
	"secmaster/internal/models"
	"secmaster/internal/pagination"
)

// priceService ingests source-tagged price observations and reconciles
// competing sources by priority.
type priceService struct {
	db *gorm.DB
}

// NewPriceService creates a new PriceServicer.
func NewPriceService(db *gorm.DB) PriceServicer {
	return &priceService{db: db}
}

// RecordPrices bulk-inserts price observations for one source, skipping
// rows already present for the (security, source, date) key.
func (s *priceService) RecordPrices(sourceCode string, entries []PriceInput) (int, error) {
	if len(entries) == 0 {
		return 0, apperrors.WithMessage(apperrors.ErrValidation, "Prices array is empty")
	}

	source, err := s.sourceByCode(sourceCode)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, entry := range entries {
		row := models.Price{
			SecurityID:    entry.SecurityID,
			SourceID:      source.ID,
			PriceDate:     entry.PriceDate,
			Open:          entry.Open,
			High:          entry.High,
			Low:           entry.Low,
			Close:         entry.Close,
			Volume:        entry.Volume,
			AdjustedClose: entry.AdjustedClose,
		}
		result := s.db.
			Where("security_id = ? AND source_id = ? AND price_date = ?",
				row.SecurityID, row.SourceID, row.PriceDate).
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

// GetPriceHistory returns the raw, unreconciled price rows for a security
// within a date range, most recent first.
func (s *priceService) GetPriceHistory(securityID uint, from, to time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.Price], error) {
	page.Defaults()

	base := s.db.Model(&models.Price{}).
		Where("security_id = ? AND price_date >= ? AND price_date <= ?", securityID, from, to)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var prices []models.Price
	if err := base.Order("price_date DESC").Scopes(pagination.Paginate(page)).Find(&prices).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(prices, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBestPrices returns one price per date: the row from the
// highest-priority active source, ties broken by source code. A single
// range query feeds the pure in-memory reduction; no per-row lookups.
func (s *priceService) GetBestPrices(securityID uint, from, to *time.Time) ([]BestPrice, error) {
	sources, err := sourceRegistry(s.db)
	if err != nil {
		return nil, err
	}

	query := s.db.Where("security_id = ?", securityID)
	if from != nil {
		query = query.Where("price_date >= ?", *from)
	}
	if to != nil {
		query = query.Where("price_date <= ?", *to)
	}

	var observations []models.Price
	if err := query.Order("price_date ASC").Find(&observations).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	selected := selectBest(observations,
		func(p models.Price) time.Time { return p.PriceDate },
		func(p models.Price) uint { return p.SourceID },
		sources)

	best := make([]BestPrice, 0, len(selected))
	for _, row := range selected {
		src := sources[row.SourceID]
		best = append(best, BestPrice{Price: row, SourceCode: src.Code, SourcePriority: src.Priority})
	}
	return best, nil
}

func (s *priceService) sourceByCode(code string) (*models.DataSource, error) {
	return NewSourceService(s.db).GetSourceByCode(code)
}
