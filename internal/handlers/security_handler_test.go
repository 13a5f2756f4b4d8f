package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "secmaster/internal/errors"
	"secmaster/internal/identifier"
	"secmaster/internal/models"
	"secmaster/internal/pagination"
	"secmaster/internal/services"
)

// --- mock security service ---

type mockSecurityService struct {
	createSecurityFn     func(name, classification, country, currency string) (*models.Security, error)
	getSecurityByIDFn    func(id uint) (*models.Security, error)
	getByIdentifierFn    func(idType identifier.Type, value string, asOf *time.Time) (*models.Security, error)
	addIdentifierFn      func(securityID uint, idType identifier.Type, value string, isPrimary bool, validFrom, validTo *time.Time) (*models.SecurityIdentifier, error)
	getIdentifiersFn     func(securityID uint) ([]models.SecurityIdentifier, error)
	searchSecuritiesFn   func(namePattern, identifierValue string, page pagination.PageRequest) (*pagination.PageResponse[models.Security], error)
	deactivateSecurityFn func(id uint) error
}

var _ services.SecurityServicer = (*mockSecurityService)(nil)

func (m *mockSecurityService) CreateSecurity(name, classification, country, currency string) (*models.Security, error) {
	if m.createSecurityFn != nil {
		return m.createSecurityFn(name, classification, country, currency)
	}
	return &models.Security{}, nil
}

func (m *mockSecurityService) GetSecurityByID(id uint) (*models.Security, error) {
	if m.getSecurityByIDFn != nil {
		return m.getSecurityByIDFn(id)
	}
	return &models.Security{}, nil
}

func (m *mockSecurityService) GetByIdentifier(idType identifier.Type, value string, asOf *time.Time) (*models.Security, error) {
	if m.getByIdentifierFn != nil {
		return m.getByIdentifierFn(idType, value, asOf)
	}
	return nil, nil
}

func (m *mockSecurityService) AddIdentifier(securityID uint, idType identifier.Type, value string, isPrimary bool, validFrom, validTo *time.Time) (*models.SecurityIdentifier, error) {
	if m.addIdentifierFn != nil {
		return m.addIdentifierFn(securityID, idType, value, isPrimary, validFrom, validTo)
	}
	return &models.SecurityIdentifier{}, nil
}

func (m *mockSecurityService) GetIdentifiers(securityID uint) ([]models.SecurityIdentifier, error) {
	if m.getIdentifiersFn != nil {
		return m.getIdentifiersFn(securityID)
	}
	return nil, nil
}

func (m *mockSecurityService) SearchSecurities(namePattern, identifierValue string, page pagination.PageRequest) (*pagination.PageResponse[models.Security], error) {
	if m.searchSecuritiesFn != nil {
		return m.searchSecuritiesFn(namePattern, identifierValue, page)
	}
	resp := pagination.NewPageResponse([]models.Security{}, 1, 50, 0)
	return &resp, nil
}

func (m *mockSecurityService) DeactivateSecurity(id uint) error {
	if m.deactivateSecurityFn != nil {
		return m.deactivateSecurityFn(id)
	}
	return nil
}

// --- router setup ---

func setupSecurityRouter(handler *SecurityHandler) *gin.Engine {
	r := gin.New()
	r.POST("/pipeline/securities", handler.CreateSecurity)
	r.POST("/pipeline/securities/:id/identifiers", handler.AddIdentifier)
	r.GET("/securities", handler.SearchSecurities)
	r.GET("/securities/:id", handler.GetSecurity)
	r.GET("/securities/:id/identifiers", handler.GetIdentifiers)
	r.DELETE("/securities/:id", handler.DeactivateSecurity)
	return r
}

// --- tests ---

func TestSecurityHandler_CreateSecurity(t *testing.T) {
	t.Run("returns_201_on_success", func(t *testing.T) {
		svc := &mockSecurityService{
			createSecurityFn: func(name, classification, country, currency string) (*models.Security, error) {
				return &models.Security{ID: 1, Name: name, Classification: classification, Country: country, Currency: currency, Active: true}, nil
			},
		}
		r := setupSecurityRouter(NewSecurityHandler(svc))

		rec := doRequest(r, "POST", "/pipeline/securities",
			`{"name":"Apple Inc","classification":"equity","country":"US","currency":"USD"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		sec := result["security"].(map[string]interface{})
		if sec["name"] != "Apple Inc" {
			t.Errorf("expected name=Apple Inc, got %v", sec["name"])
		}
	})

	t.Run("returns_400_missing_name", func(t *testing.T) {
		r := setupSecurityRouter(NewSecurityHandler(&mockSecurityService{}))

		rec := doRequest(r, "POST", "/pipeline/securities", `{"country":"US"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "VALIDATION_ERROR")
	})

	t.Run("returns_400_invalid_currency", func(t *testing.T) {
		r := setupSecurityRouter(NewSecurityHandler(&mockSecurityService{}))

		rec := doRequest(r, "POST", "/pipeline/securities",
			`{"name":"Apple Inc","currency":"DOLLARS"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestSecurityHandler_AddIdentifier(t *testing.T) {
	t.Run("returns_201_on_success", func(t *testing.T) {
		svc := &mockSecurityService{
			addIdentifierFn: func(securityID uint, idType identifier.Type, value string, isPrimary bool, validFrom, validTo *time.Time) (*models.SecurityIdentifier, error) {
				return &models.SecurityIdentifier{ID: 1, SecurityID: securityID, Type: idType, Value: value}, nil
			},
		}
		r := setupSecurityRouter(NewSecurityHandler(svc))

		rec := doRequest(r, "POST", "/pipeline/securities/1/identifiers",
			`{"identifier_type":"ISIN","identifier_value":"US0378331005","is_primary":true,"valid_from":"2022-01-01"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns_400_unknown_type", func(t *testing.T) {
		r := setupSecurityRouter(NewSecurityHandler(&mockSecurityService{}))

		rec := doRequest(r, "POST", "/pipeline/securities/1/identifiers",
			`{"identifier_type":"BOGUS","identifier_value":"X"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns_400_invalid_valid_from", func(t *testing.T) {
		r := setupSecurityRouter(NewSecurityHandler(&mockSecurityService{}))

		rec := doRequest(r, "POST", "/pipeline/securities/1/identifiers",
			`{"identifier_type":"ISIN","identifier_value":"US0378331005","valid_from":"not-a-date"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns_409_on_interval_conflict", func(t *testing.T) {
		svc := &mockSecurityService{
			addIdentifierFn: func(uint, identifier.Type, string, bool, *time.Time, *time.Time) (*models.SecurityIdentifier, error) {
				return nil, apperrors.ErrIdentifierConflict
			},
		}
		r := setupSecurityRouter(NewSecurityHandler(svc))

		rec := doRequest(r, "POST", "/pipeline/securities/1/identifiers",
			`{"identifier_type":"ISIN","identifier_value":"US0378331005"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "IDENTIFIER_CONFLICT")
	})

	t.Run("returns_400_invalid_path_id", func(t *testing.T) {
		r := setupSecurityRouter(NewSecurityHandler(&mockSecurityService{}))

		rec := doRequest(r, "POST", "/pipeline/securities/abc/identifiers",
			`{"identifier_type":"ISIN","identifier_value":"US0378331005"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestSecurityHandler_GetSecurity(t *testing.T) {
	t.Run("returns_404_for_unknown_security", func(t *testing.T) {
		svc := &mockSecurityService{
			getSecurityByIDFn: func(id uint) (*models.Security, error) {
				return nil, apperrors.ErrSecurityNotFound
			},
		}
		r := setupSecurityRouter(NewSecurityHandler(svc))

		rec := doRequest(r, "GET", "/securities/99999", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "SECURITY_NOT_FOUND")
	})
}

func TestSecurityHandler_SearchSecurities(t *testing.T) {
	t.Run("passes_criteria_to_service", func(t *testing.T) {
		var gotName, gotIdentifier string
		svc := &mockSecurityService{
			searchSecuritiesFn: func(namePattern, identifierValue string, page pagination.PageRequest) (*pagination.PageResponse[models.Security], error) {
				gotName, gotIdentifier = namePattern, identifierValue
				resp := pagination.NewPageResponse([]models.Security{}, 1, 50, 0)
				return &resp, nil
			},
		}
		r := setupSecurityRouter(NewSecurityHandler(svc))

		rec := doRequest(r, "GET", "/securities?name=Acme&identifier=US0378331005", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotName != "Acme" || gotIdentifier != "US0378331005" {
			t.Errorf("criteria not forwarded: name=%q identifier=%q", gotName, gotIdentifier)
		}
	})
}

func TestSecurityHandler_DeactivateSecurity(t *testing.T) {
	t.Run("returns_200_on_success", func(t *testing.T) {
		r := setupSecurityRouter(NewSecurityHandler(&mockSecurityService{}))

		rec := doRequest(r, "DELETE", "/securities/1", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("returns_404_for_unknown_security", func(t *testing.T) {
		svc := &mockSecurityService{
			deactivateSecurityFn: func(id uint) error { return apperrors.ErrSecurityNotFound },
		}
		r := setupSecurityRouter(NewSecurityHandler(svc))

		rec := doRequest(r, "DELETE", "/securities/99999", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
