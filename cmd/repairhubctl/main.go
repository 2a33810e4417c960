package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dalemusser/repairhub/internal/app/system/timeouts"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ctlConfig is the subset of the server configuration the CLI needs. Keys and
// environment variables match the server's (REPAIRHUB_MONGO_URI, ...).
type ctlConfig struct {
	MongoURI          string
	MongoDatabase     string
	Locale            string
	Timezone          string
	DashboardPageSize int
}

var (
	v      = viper.New()
	cfg    ctlConfig
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "repairhubctl",
	Short: "RepairHub administration tool",
	Long:  `repairhubctl seeds demo data, manages administrators and prints the dashboard from the command line.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig(v)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c

		verbose, _ := cmd.Flags().GetBool("verbose")
		if verbose {
			l, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			logger = l
		}
		return nil
	},
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("mongo-uri", "", "MongoDB connection URI")
	pf.String("mongo-database", "", "MongoDB database name")
	pf.String("locale", "", "Output language: en or bg")
	pf.String("timezone", "", "IANA time zone for dates and ranges")
	pf.BoolP("verbose", "v", false, "Log progress to stderr")

	for key, flag := range map[string]string{
		"mongo_uri":      "mongo-uri",
		"mongo_database": "mongo-database",
		"locale":         "locale",
		"timezone":       "timezone",
	} {
		if err := v.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

// loadConfig merges defaults, an optional config file, REPAIRHUB_* variables
// and flags, in increasing precedence.
func loadConfig(v *viper.Viper) (ctlConfig, error) {
	v.SetDefault("mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("mongo_database", "repairhub")
	v.SetDefault("locale", "en")
	v.SetDefault("timezone", "")
	v.SetDefault("dashboard_page_size", 5)

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.SetEnvPrefix("REPAIRHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return ctlConfig{}, fmt.Errorf("read config: %w", err)
		}
	}

	c := ctlConfig{
		MongoURI:          v.GetString("mongo_uri"),
		MongoDatabase:     v.GetString("mongo_database"),
		Locale:            v.GetString("locale"),
		Timezone:          v.GetString("timezone"),
		DashboardPageSize: v.GetInt("dashboard_page_size"),
	}
	if err := wafflemongo.ValidateURI(c.MongoURI); err != nil {
		return ctlConfig{}, fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if c.MongoDatabase == "" {
		return ctlConfig{}, errors.New("mongo_database is required")
	}
	return c, nil
}

func (c ctlConfig) location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// connect opens the database and returns it with a function that closes the
// client.
func connect(ctx context.Context) (*mongo.Database, func(), error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	pctx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}
	logger.Info("connected", zap.String("database", cfg.MongoDatabase))

	closeFn := func() { _ = client.Disconnect(context.Background()) }
	return client.Database(cfg.MongoDatabase), closeFn, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
