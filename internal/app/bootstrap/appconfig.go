// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework side (ports, TLS, logging, CORS); everything RepairHub itself
// needs lives here and is passed to every lifecycle hook.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string `validate:"required"`
	MongoDatabase    string `validate:"required"`
	MongoMaxPoolSize uint64 `validate:"gte=1"`
	MongoMinPoolSize uint64 `validate:"ltefield=MongoMaxPoolSize"`

	// Session management configuration
	SessionKey    string        `validate:"required,min=16"`
	SessionName   string        `validate:"required"`
	SessionDomain string        // blank means current host
	SessionMaxAge time.Duration `validate:"gt=0"`

	// Dashboard and catalog paging
	DashboardPageSize int `validate:"gte=1,lte=100"`
	RepairsPageSize   int `validate:"gte=1,lte=100"`
	PageLinkWindow    int `validate:"gte=1,lte=10"`

	// Presentation
	Locale   string `validate:"oneof=en bg"`
	Timezone string // IANA name; blank means the server's local zone

	MetricsEnabled bool

	// Optional administrator ensured at startup.
	AdminUsername string `validate:"required_with=AdminPassword"`
	AdminPassword string `validate:"required_with=AdminUsername,omitempty,min=8"`
}
