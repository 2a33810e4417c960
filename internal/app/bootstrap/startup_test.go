package bootstrap

import (
	"strings"
	"testing"
	"time"

	userstore "github.com/dalemusser/repairhub/internal/app/store/users"
	"github.com/dalemusser/repairhub/internal/domain/models"
	"github.com/dalemusser/repairhub/internal/testutil"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func validConfig() AppConfig {
	return AppConfig{
		MongoURI:          "mongodb://localhost:27017",
		MongoDatabase:     "repairhub",
		MongoMaxPoolSize:  100,
		MongoMinPoolSize:  5,
		SessionKey:        "a-long-enough-session-key-for-tests",
		SessionName:       "repairhub-session",
		SessionMaxAge:     24 * time.Hour,
		DashboardPageSize: 5,
		RepairsPageSize:   10,
		PageLinkWindow:    3,
		Locale:            "en",
	}
}

func TestValidateConfig_Accepts(t *testing.T) {
	if err := ValidateConfig(&config.CoreConfig{Env: "dev"}, validConfig(), testLogger()); err != nil {
		t.Fatalf("ValidateConfig: %v", err)
	}
}

func TestValidateConfig_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		env    string
		mutate func(*AppConfig)
	}{
		{"bad mongo uri", "dev", func(c *AppConfig) { c.MongoURI = "postgres://nope" }},
		{"empty database", "dev", func(c *AppConfig) { c.MongoDatabase = "" }},
		{"short session key", "dev", func(c *AppConfig) { c.SessionKey = "short" }},
		{"zero page size", "dev", func(c *AppConfig) { c.DashboardPageSize = 0 }},
		{"unknown locale", "dev", func(c *AppConfig) { c.Locale = "fr" }},
		{"bad timezone", "dev", func(c *AppConfig) { c.Timezone = "Mars/Olympus" }},
		{"admin without password", "dev", func(c *AppConfig) { c.AdminUsername = "boss" }},
		{"dev key in prod", "prod", func(c *AppConfig) { c.SessionKey = "dev-only-change-me-please-0123456789ABCDEF" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			if err := ValidateConfig(&config.CoreConfig{Env: tc.env}, cfg, testLogger()); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadLocation(t *testing.T) {
	loc, err := loadLocation("")
	if err != nil || loc != time.Local {
		t.Errorf("blank zone = %v, %v; want time.Local", loc, err)
	}
	loc, err = loadLocation("Europe/Sofia")
	if err != nil {
		t.Fatalf("Europe/Sofia: %v", err)
	}
	if !strings.Contains(loc.String(), "Sofia") {
		t.Errorf("loc = %s", loc)
	}
}

func TestEnsureAdmin_CreatesNew(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := EnsureAdmin(ctx, db, "boss", "secret-password", testLogger()); err != nil {
		t.Fatalf("ensureAdmin failed: %v", err)
	}

	users := userstore.New(db)
	u, err := users.Authenticate(ctx, "boss", "secret-password")
	if err != nil {
		t.Fatalf("created admin cannot sign in: %v", err)
	}
	if !u.IsAdmin() {
		t.Errorf("roles = %v, want %q", u.Roles, models.RoleAdmin)
	}
}

func TestEnsureAdmin_PromotesExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	users := userstore.New(db)
	existing, err := users.Create(ctx, "ivan", "original-password")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	if err := EnsureAdmin(ctx, db, "Ivan", "ignored-password", testLogger()); err != nil {
		t.Fatalf("ensureAdmin failed: %v", err)
	}

	u, err := users.GetByID(ctx, existing.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !u.IsAdmin() {
		t.Errorf("roles = %v, want admin", u.Roles)
	}
	if _, err := users.Authenticate(ctx, "ivan", "original-password"); err != nil {
		t.Errorf("password should be unchanged: %v", err)
	}
}

func TestEnsureAdmin_AlreadyAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	users := userstore.New(db)
	existing, err := users.Create(ctx, "boss", "pw-123456", models.RoleAdmin)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	if err := EnsureAdmin(ctx, db, "boss", "other-password", testLogger()); err != nil {
		t.Fatalf("ensureAdmin failed: %v", err)
	}

	u, err := users.GetByID(ctx, existing.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(u.Roles) != 1 {
		t.Errorf("roles = %v, want exactly one", u.Roles)
	}
}
