package main

import (
	"errors"
	"fmt"
	"time"

	carstore "github.com/dalemusser/repairhub/internal/app/store/cars"
	repairstore "github.com/dalemusser/repairhub/internal/app/store/repairs"
	userstore "github.com/dalemusser/repairhub/internal/app/store/users"
	"github.com/dalemusser/repairhub/internal/domain/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type demoCar struct {
	car     models.Car
	repairs []models.Repair
}

type demoUser struct {
	username string
	cars     []demoCar
}

var (
	demoNames = []string{"ivan", "maria", "georgi", "elena"}
	demoMakes = []struct{ make, engine string }{
		{"VW Golf", "1.9 TDI"},
		{"Opel Astra", "1.6 16V"},
		{"Toyota Corolla", "1.8 Hybrid"},
		{"BMW 320d", "2.0 D"},
		{"Skoda Octavia", "2.0 TDI"},
	}
	demoJobs    = []string{"Oil and filter change", "Front brake pads", "Timing belt kit", "Clutch replacement", "Air conditioning service", "Diagnostics"}
	demoProfits = []string{"120.50", "85", "640.00", "910.40", "75.99", "", "n/a", "1 200"}
)

// demoData builds a fixed data set relative to now: every user owns two cars
// and each car has repairs spread over the past year and a bit. A few profits
// are blank or unparseable so the dashboard's zero handling is visible.
func demoData(now time.Time) []demoUser {
	out := make([]demoUser, 0, len(demoNames))
	n := 0
	for ui, name := range demoNames {
		u := demoUser{username: name}
		for ci := 0; ci < 2; ci++ {
			mk := demoMakes[(ui*2+ci)%len(demoMakes)]
			dc := demoCar{car: models.Car{
				CustomerName: fmt.Sprintf("Customer %d", ui*2+ci+1),
				VIN:          fmt.Sprintf("WDEMO%012d", ui*2+ci+1),
				Registration: fmt.Sprintf("CA%04dAB", 1000+ui*2+ci),
				Make:         mk.make,
				Engine:       mk.engine,
			}}
			repairs := 3 + (ui+ci)%4
			for ri := 0; ri < repairs; ri++ {
				daysAgo := (n*37 + ri*11) % 420
				dc.repairs = append(dc.repairs, models.Repair{
					Date:        now.AddDate(0, 0, -daysAgo),
					KM:          80000 + n*1500 + ri*4200,
					Profit:      demoProfits[n%len(demoProfits)],
					Description: demoJobs[n%len(demoJobs)],
				})
				n++
			}
			u.cars = append(u.cars, dc)
		}
		out = append(out, u)
	}
	return out
}

func init() {
	var password string
	var seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Insert demo users, cars and repairs",
		Long:  `seed inserts a fixed set of demo users with cars and repairs. Users that already exist are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, closeFn, err := connect(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			users := userstore.New(db)
			cars := carstore.New(db)
			repairs := repairstore.New(db)

			var created, skipped, repairCount int
			for _, du := range demoData(time.Now().UTC()) {
				u, err := users.Create(ctx, du.username, password)
				if errors.Is(err, userstore.ErrDuplicateUsername) {
					logger.Info("user exists, skipping", zap.String("username", du.username))
					skipped++
					continue
				}
				if err != nil {
					return fmt.Errorf("create user %s: %w", du.username, err)
				}
				created++

				owner := models.OwnerRef{ID: u.ID, Username: u.Username}
				for _, dc := range du.cars {
					dc.car.Owner = owner
					car, err := cars.Create(ctx, dc.car)
					if err != nil {
						return fmt.Errorf("create car %s: %w", dc.car.Registration, err)
					}
					for _, rep := range dc.repairs {
						if _, err := repairs.Create(ctx, car, rep); err != nil {
							return fmt.Errorf("create repair for %s: %w", car.Registration, err)
						}
						repairCount++
					}
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created %d users (%d skipped) with %d repairs\n", created, skipped, repairCount)
			return nil
		},
	}
	seedCmd.Flags().StringVar(&password, "password", "demo1234", "Password for every demo user")
	rootCmd.AddCommand(seedCmd)
}
