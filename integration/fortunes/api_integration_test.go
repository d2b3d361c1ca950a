package fortunes_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/fortune-api/api"
	"github.com/killallgit/fortune-api/api/types"
	"github.com/killallgit/fortune-api/internal/database"
	"github.com/killallgit/fortune-api/internal/models"
	"github.com/killallgit/fortune-api/internal/services/fortunes"
	"github.com/killallgit/fortune-api/pkg/config"
	"github.com/killallgit/fortune-api/pkg/logging"
)

type APITestSuite struct {
	t      *testing.T
	db     *database.DB
	repo   *fortunes.RepositoryImpl
	server *httptest.Server
}

// setupAPITestSuite migrates a file-backed sqlite store with the embedded
// migrations and serves it through the full middleware stack.
func setupAPITestSuite(t *testing.T) *APITestSuite {
	gin.SetMode(gin.TestMode)

	dbPath := filepath.Join(t.TempDir(), "fortunes.db")

	u, err := database.MigrationURL(config.DriverSQLite, dbPath, "")
	if err != nil {
		t.Fatalf("Failed to build migration url: %v", err)
	}
	migrator, err := database.NewMigrator(config.DriverSQLite, u, io.Discard)
	if err != nil {
		t.Fatalf("Failed to create migrator: %v", err)
	}
	if err := migrator.Up(); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	db, err := database.Initialize(dbPath, false)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	cfg := &config.Config{
		Server:       config.ServerConfig{Host: "127.0.0.1", Port: 8080},
		Database:     config.DatabaseConfig{Driver: config.DriverSQLite, Path: dbPath},
		RateLimiting: config.RateLimitConfig{Enabled: true, RequestsPerSecond: 1000, Burst: 1000},
		Security:     config.SecurityConfig{EnableRequestID: true, MaxRequestBytes: 1 << 20},
	}

	repo := fortunes.NewRepository(db.DB)
	srv := api.NewServer(cfg, &types.Dependencies{
		Fortunes: repo,
		Store:    db,
		Logger:   logging.Discard(),
	})
	if err := srv.Initialize(); err != nil {
		t.Fatalf("Failed to initialize server: %v", err)
	}

	suite := &APITestSuite{
		t:      t,
		db:     db,
		repo:   repo,
		server: httptest.NewServer(srv.Engine()),
	}
	t.Cleanup(suite.cleanup)
	return suite
}

func (suite *APITestSuite) cleanup() {
	suite.server.Close()
	_ = suite.db.Close()
}

func (suite *APITestSuite) get(path string, out any) int {
	suite.t.Helper()

	resp, err := http.Get(suite.server.URL + path)
	if err != nil {
		suite.t.Fatalf("GET %s failed: %v", path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			suite.t.Fatalf("Failed to decode %s response: %v", path, err)
		}
	}
	return resp.StatusCode
}

func TestFortunesAPI(t *testing.T) {
	suite := setupAPITestSuite(t)
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		var list []models.Fortune
		if code := suite.get("/fortunes", &list); code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", code)
		}
		if len(list) != 0 {
			t.Errorf("Expected no fortunes, got %d", len(list))
		}

		var errResp types.ErrorResponse
		if code := suite.get("/random", &errResp); code != http.StatusInternalServerError {
			t.Fatalf("Expected 500 on empty store, got %d", code)
		}
		if errResp.Error != "EMPTY_STORE" {
			t.Errorf("Expected EMPTY_STORE, got %q", errResp.Error)
		}
	})

	seeded, err := fortunes.Seed(ctx, suite.repo, fortunes.DefaultFortunes, logging.Discard())
	if err != nil {
		t.Fatalf("Failed to seed: %v", err)
	}

	t.Run("list after seeding", func(t *testing.T) {
		var list []models.Fortune
		if code := suite.get("/fortunes", &list); code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", code)
		}
		if len(list) != seeded {
			t.Fatalf("Expected %d fortunes, got %d", seeded, len(list))
		}
		for i := 1; i < len(list); i++ {
			if list[i-1].ID >= list[i].ID {
				t.Errorf("Listing not ordered by id at %d: %d >= %d", i, list[i-1].ID, list[i].ID)
			}
		}
	})

	t.Run("random draws from the store", func(t *testing.T) {
		known := make(map[string]bool, len(fortunes.DefaultFortunes))
		for _, text := range fortunes.DefaultFortunes {
			known[text] = true
		}

		seen := make(map[uint]bool)
		deadline := time.Now().Add(2 * time.Second)
		for len(seen) < 2 && time.Now().Before(deadline) {
			var f models.Fortune
			if code := suite.get("/random", &f); code != http.StatusOK {
				t.Fatalf("Expected 200, got %d", code)
			}
			if !known[f.Text] {
				t.Fatalf("Random returned unknown fortune %q", f.Text)
			}
			seen[f.ID] = true
		}
		if len(seen) < 2 {
			t.Errorf("Expected random to return different fortunes over repeated calls")
		}
	})

	t.Run("health", func(t *testing.T) {
		var health types.HealthResponse
		if code := suite.get("/health", &health); code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", code)
		}
		if health.Database["status"] != "healthy" {
			t.Errorf("Expected healthy store, got %v", health.Database)
		}
	})
}
