package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"secmaster/internal/handlers"
	"secmaster/internal/logger"
	"secmaster/internal/middleware"
	"secmaster/internal/models"
	"secmaster/internal/services"
	"secmaster/internal/validator"
)

const testAPIKey = "test-pipeline-key"

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:integdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.Security{},
		&models.SecurityIdentifier{},
		&models.DataSource{},
		&models.Price{},
		&models.FactorDefinition{},
		&models.FactorValue{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	securityService := services.NewSecurityService(db)
	resolverService := services.NewResolverService(db)
	sourceService := services.NewSourceService(db)
	priceService := services.NewPriceService(db)
	factorService := services.NewFactorService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler()
	securityHandler := handlers.NewSecurityHandler(securityService)
	resolutionHandler := handlers.NewResolutionHandler(resolverService)
	sourceHandler := handlers.NewSourceHandler(sourceService)
	priceHandler := handlers.NewPriceHandler(priceService)
	factorHandler := handlers.NewFactorHandler(factorService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.Use(middleware.PipelineAuthMiddleware(testAPIKey))
	auth.POST("/token", authHandler.IssueToken)

	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(testAPIKey))
	pipeline.POST("/securities", securityHandler.CreateSecurity)
	pipeline.POST("/securities/:id/identifiers", securityHandler.AddIdentifier)
	pipeline.POST("/resolve-or-create", resolutionHandler.ResolveOrCreate)
	pipeline.POST("/prices/:source", priceHandler.RecordPrices)
	pipeline.POST("/factors/:source", factorHandler.RecordValues)

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	securities := protected.Group("/securities")
	securities.GET("", securityHandler.SearchSecurities)
	securities.GET("/:id", securityHandler.GetSecurity)
	securities.GET("/:id/identifiers", securityHandler.GetIdentifiers)
	securities.DELETE("/:id", securityHandler.DeactivateSecurity)
	securities.GET("/:id/prices", priceHandler.GetPriceHistory)
	securities.GET("/:id/prices/best", priceHandler.GetBestPrices)
	securities.GET("/:id/factors/latest", factorHandler.GetLatestFactors)
	securities.GET("/:id/factors/:code/best", factorHandler.GetBestValues)

	resolve := protected.Group("/resolve")
	resolve.GET("", resolutionHandler.Resolve)
	resolve.GET("/auto", resolutionHandler.ResolveAuto)
	resolve.GET("/detect", resolutionHandler.Detect)

	sources := protected.Group("/sources")
	sources.POST("", sourceHandler.CreateSource)
	sources.GET("", sourceHandler.ListSources)
	sources.PATCH("/:code", sourceHandler.UpdateSource)

	factors := protected.Group("/factors")
	factors.POST("", factorHandler.CreateFactor)
	factors.GET("", factorHandler.ListFactors)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// pipelineRequest makes a request authenticated with the pipeline API key.
func (app *testApp) pipelineRequest(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", testAPIKey)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// readToken exchanges the pipeline API key for a read token.
func (app *testApp) readToken(t *testing.T) string {
	t.Helper()
	rec := app.pipelineRequest("POST", "/api/v1/auth/token", `{"client_name":"integration-tests"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("token exchange failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["token"].(string)
}

// createSecurity creates a security via the pipeline and returns its ID.
func (app *testApp) createSecurity(t *testing.T, name string) float64 {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"classification":"equity","country":"US","currency":"USD"}`, name)
	rec := app.pipelineRequest("POST", "/api/v1/pipeline/securities", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create security failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	security := result["security"].(map[string]interface{})
	return security["id"].(float64)
}

// createSource registers a data source via the API.
func (app *testApp) createSource(t *testing.T, token, code string, priority int) {
	t.Helper()
	body := fmt.Sprintf(`{"code":%q,"name":%q,"kind":"api","priority":%d}`, code, code, priority)
	rec := app.request("POST", "/api/v1/sources", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create source %s failed: %d %s", code, rec.Code, rec.Body.String())
	}
}
