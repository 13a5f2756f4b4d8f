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
)

// resolverService answers "what internal security does this external code
// refer to, as of this date" by combining pattern detection with
// point-in-time lookups against the identifier table.
type resolverService struct {
	db *gorm.DB
}

// NewResolverService creates a new ResolverServicer.
func NewResolverService(db *gorm.DB) ResolverServicer {
	return &resolverService{db: db}
}

// errLostCreateRace marks a unique-constraint violation during the
// create-or-resolve insert: a concurrent caller bound the identifier first.
var errLostCreateRace = errors.New("lost create-or-resolve race")

// DetectIdentifierType classifies a raw identifier value without resolving it.
func (r *resolverService) DetectIdentifierType(value string) (identifier.Type, bool) {
	return identifier.DetectBest(value)
}

// Resolve returns the ID of the security bound to (type, value) at asOf, or
// nil when no binding is active. A miss is an expected outcome, not an error.
func (r *resolverService) Resolve(value string, idType identifier.Type, asOf *time.Time) (*uint, error) {
	if !idType.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "Unknown identifier type: "+string(idType))
	}
	return r.resolveTx(r.db, value, idType, asOfOrToday(asOf))
}

// resolveTx is the point-in-time query shared by Resolve and the
// create-or-resolve transaction. Among rows matching the as-of date the
// latest non-null valid_from wins, nulls last — this also resolves
// pre-existing overlap violations deterministically instead of raising.
func (r *resolverService) resolveTx(tx *gorm.DB, value string, idType identifier.Type, at time.Time) (*uint, error) {
	var row models.SecurityIdentifier
	err := tx.
		Where("identifier_type = ? AND identifier_value = ?", idType, value).
		Where("(valid_from IS NULL OR valid_from <= ?)", at).
		Where("(valid_to IS NULL OR valid_to > ?)", at).
		Order("valid_from DESC NULLS LAST").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &row.SecurityID, nil
}

// ResolveAuto detects the identifier type and resolves. When nothing is
// detected it returns nil without guessing. When the detected type has no
// active binding, the vendor ticker types are tried as a fallback, since
// ticker formats are weak heuristics and short codes often collide.
func (r *resolverService) ResolveAuto(value string, asOf *time.Time) (*uint, error) {
	detected, ok := identifier.DetectBest(value)
	if !ok {
		return nil, nil
	}

	id, err := r.Resolve(value, detected, asOf)
	if err != nil || id != nil {
		return id, err
	}

	for _, tickerType := range identifier.TickerTypes {
		if tickerType == detected {
			continue
		}
		id, err = r.Resolve(value, tickerType, asOf)
		if err != nil || id != nil {
			return id, err
		}
	}
	return nil, nil
}

// ResolveOrCreate resolves an identifier, creating a new security and
// binding on a miss. A miss whose new open-ended binding would still
// overlap a binding effective at another date (a backdated as_of against a
// later interval) is rejected as a duplicate rather than creating a second
// holder. The check-then-create runs inside one transaction;
// a storage uniqueness violation is treated as the signal that a concurrent
// caller won the race, in which case the identifier is re-resolved instead
// of retrying the create.
func (r *resolverService) ResolveOrCreate(in ResolveOrCreateInput) (uint, bool, error) {
	if !in.Type.Valid() {
		return 0, false, apperrors.WithMessage(apperrors.ErrValidation, "Unknown identifier type: "+string(in.Type))
	}
	if strings.TrimSpace(in.Value) == "" {
		return 0, false, apperrors.WithMessage(apperrors.ErrValidation, "Identifier value is required")
	}

	at := asOfOrToday(in.AsOf)

	var (
		securityID uint
		created    bool
	)
	err := r.db.Transaction(func(tx *gorm.DB) error {
		existing, err := r.resolveTx(tx, in.Value, in.Type, at)
		if err != nil {
			return err
		}
		if existing != nil {
			securityID = *existing
			return nil
		}

		if err := validateSecurityFields(in.Name, in.Country, in.Currency); err != nil {
			return err
		}

		security := &models.Security{
			Name:           strings.TrimSpace(in.Name),
			Classification: in.Classification,
			Country:        strings.ToUpper(in.Country),
			Currency:       strings.ToUpper(in.Currency),
			Active:         true,
		}
		if err := tx.Create(security).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		validFrom := at
		if err := checkBindingConflicts(tx, security.ID, in.Type, in.Value, &validFrom, nil); err != nil {
			return err
		}
		binding := &models.SecurityIdentifier{
			SecurityID: security.ID,
			Type:       in.Type,
			Value:      in.Value,
			IsPrimary:  true,
			ValidFrom:  &validFrom,
		}
		if err := tx.Create(binding).Error; err != nil {
			if isUniqueConstraintError(err) {
				return errLostCreateRace
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		securityID = security.ID
		created = true
		return nil
	})

	if errors.Is(err, errLostCreateRace) {
		// The losing writer's transaction rolled back; the winner's binding
		// must now be visible.
		winner, rerr := r.Resolve(in.Value, in.Type, in.AsOf)
		if rerr != nil {
			return 0, false, rerr
		}
		if winner == nil {
			return 0, false, apperrors.WithMessage(apperrors.ErrDuplicateIdentifier,
				"Identifier "+string(in.Type)+" "+in.Value+" is bound outside the requested as-of date")
		}
		return *winner, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	if created {
		logger.Get().Infow("security created for identifier",
			"security_id", securityID, "identifier_type", in.Type, "identifier_value", in.Value)
	}
	return securityID, created, nil
}
