package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/repairhub/internal/app/features/dashboard"
	"github.com/dalemusser/repairhub/internal/app/system/facets"
	"github.com/dalemusser/repairhub/internal/app/system/locale"
	"github.com/dalemusser/repairhub/internal/app/system/paging"
	"github.com/dalemusser/repairhub/internal/domain/models"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("REPAIRHUB_MONGO_DATABASE", "from_env")

	c, err := loadConfig(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "mongodb://localhost:27017", c.MongoURI)
	assert.Equal(t, "from_env", c.MongoDatabase)
	assert.Equal(t, "en", c.Locale)
	assert.Equal(t, 5, c.DashboardPageSize)
}

func TestLoadConfig_FlagWins(t *testing.T) {
	t.Setenv("REPAIRHUB_MONGO_DATABASE", "from_env")

	v := viper.New()
	v.Set("mongo_database", "from_flag")
	c, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "from_flag", c.MongoDatabase)
}

func TestCtlConfigLocation(t *testing.T) {
	loc, err := ctlConfig{}.location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	_, err = ctlConfig{Timezone: "Nowhere/Atlantis"}.location()
	assert.Error(t, err)
}

func TestDemoData(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	data := demoData(now)

	require.Len(t, data, len(demoNames))
	regs := map[string]bool{}
	var blank, invalid int
	for _, u := range data {
		assert.Len(t, u.cars, 2)
		for _, c := range u.cars {
			assert.False(t, regs[c.car.Registration], "registration %s repeated", c.car.Registration)
			regs[c.car.Registration] = true
			assert.GreaterOrEqual(t, len(c.repairs), 3)
			for _, r := range c.repairs {
				assert.False(t, r.Date.After(now), "repair dated in the future")
				assert.GreaterOrEqual(t, r.KM, 0)
				switch r.Profit {
				case "":
					blank++
				case "n/a", "1 200":
					invalid++
				}
			}
		}
	}
	assert.Positive(t, blank)
	assert.Positive(t, invalid)
	assert.Equal(t, data, demoData(now), "data set is deterministic")
}

func TestPrintDashboard(t *testing.T) {
	loc := locale.New("en", time.UTC)
	f := facets.New()
	f.Count["ivan"] = 3
	f.Profit["ivan"] = decimal.RequireFromString("150")
	f.Count["maria"] = 1
	f.Profit["maria"] = decimal.RequireFromString("50")

	pl := dashboard.Payload{
		Users: paging.Page[models.User]{
			Items:  []models.User{{Username: "maria", CreatedAt: time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)}},
			Number: 1, Total: 1, Size: 5,
		},
		TotalUsers: 1,
		Facets:     f,
		Slices: []dashboard.Slice{
			{Username: "ivan", Share: decimal.RequireFromString("75")},
			{Username: "maria", Share: decimal.RequireFromString("25")},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, printDashboard(&buf, loc, pl))
	out := buf.String()

	assert.Contains(t, out, "page 1 of 1, 1 total")
	assert.Contains(t, out, "2024-05-02")
	assert.Contains(t, out, "75.00%")
	assert.Contains(t, out, "25.00%")

	lines := strings.Split(out, "\n")
	var total string
	for _, l := range lines {
		if strings.HasPrefix(l, "TOTAL") {
			total = l
		}
	}
	require.NotEmpty(t, total)
	assert.Contains(t, total, "4")
	assert.Contains(t, total, "200.00")
}
