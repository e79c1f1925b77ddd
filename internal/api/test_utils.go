package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/atable/backend/internal/models"
	"github.com/atable/backend/internal/service"
	"github.com/atable/backend/internal/types"
)

// TestEnv bundles the router and services backing a handler test
type TestEnv struct {
	Router      *gin.Engine
	DB          *gorm.DB
	AuthService *service.AuthService
	LLM         service.ILLMService
	Importer    service.IImporterService
}

// SetupTestEnv builds a full route table over an in-memory database.
// llm and importer may be nil when the test never reaches those routes.
func SetupTestEnv(t *testing.T, llm service.ILLMService, importer service.IImporterService) *TestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Recipe{},
		&models.PlannedEvent{},
		&models.PlannedMeal{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	authService := service.NewAuthService(db, "test-secret")
	recipeService := service.NewRecipeService(db)
	planningService := service.NewPlanningService(db)

	router := gin.New()
	router.Use(gin.Recovery())
	RegisterRoutes(router, db, Services{
		Auth:      authService,
		Recipes:   recipeService,
		Planning:  planningService,
		Shopping:  service.NewShoppingService(recipeService),
		LLM:       llm,
		Importer:  importer,
		Reconcile: service.NewReconcileService(recipeService, planningService),
	})

	return &TestEnv{
		Router:      router,
		DB:          db,
		AuthService: authService,
		LLM:         llm,
		Importer:    importer,
	}
}

// CreateTestUserAndToken creates a user and returns their id and a valid
// token for authenticated requests.
func CreateTestUserAndToken(t *testing.T, env *TestEnv) (uuid.UUID, string) {
	t.Helper()

	userID := uuid.New()
	hashed, err := bcrypt.GenerateFromPassword([]byte("testpassword123"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := models.User{
		ID:           userID,
		Name:         "Test User",
		Email:        fmt.Sprintf("testuser+%s@example.com", userID),
		PasswordHash: string(hashed),
	}
	if err := env.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	token, err := env.AuthService.GenerateToken(&types.TokenClaims{
		UserID:   user.ID,
		Username: user.Name,
	})
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return userID, token
}

// PerformRequest makes an HTTP request against the test router. An empty
// token leaves the request unauthenticated.
func PerformRequest(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request

	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		req = httptest.NewRequest(method, path, bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	router.ServeHTTP(w, req)
	return w
}
