package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"chadder/internal/datastore"
	"chadder/internal/pkg"
	"chadder/internal/services"

	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/urfave/cli/v2"
)

func init() {
	// for development
	//nolint:errcheck
	godotenv.Load("../../.env")

	// for production
	//nolint:errcheck
	godotenv.Load("./.env")
}

func main() {
	app := &cli.App{
		Name: "export",
		Commands: []*cli.Command{
			commandExportPayouts(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// commandExportPayouts writes the week's payout sheet: each streamer's vote
// total and pro-rata share of the prize pool, CSV, ready for the payout run.
func commandExportPayouts() *cli.Command {
	return &cli.Command{
		Name: "payouts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "output",
				Value: "./payouts.csv",
			},
			&cli.IntFlag{
				Name:  "weeks-ago",
				Value: 0,
				Usage: "0 exports the running week, 1 the finished one",
			},
		},
		Action: func(c *cli.Context) error {
			ctx := context.Background()

			db, err := getDb()
			if err != nil {
				return err
			}

			weekStart := pkg.StartOfWeek(time.Now()).AddDate(0, 0, -7*c.Int("weeks-ago"))

			weeklyVotes, err := datastore.SumAllVotesFromTime(ctx, db, weekStart)
			if err != nil {
				return err
			}
			poolAmount := services.PoolAmount(weeklyVotes)

			file, err := os.Create(c.String("output"))
			if err != nil {
				return err
			}
			//nolint:errcheck
			defer file.Close()

			w := csv.NewWriter(file)
			//nolint:errcheck
			defer w.Flush()

			if err := w.Write([]string{"streamer", "votes", "share", "amount"}); err != nil {
				return err
			}

			limit := 100
			offset := 0
			rows := 0

			for {
				totals, err := datastore.GetStreamerTotalsFromTime(ctx, db, &weekStart, limit, offset)
				offset += limit
				if err != nil {
					return err
				}

				if len(totals) == 0 {
					break
				}

				for _, total := range totals {
					share := 0.0
					if weeklyVotes > 0 {
						share = float64(total.TotalVotes) / float64(weeklyVotes)
					}

					err := w.Write([]string{
						total.Streamer,
						strconv.Itoa(total.TotalVotes),
						strconv.FormatFloat(share, 'f', 6, 64),
						strconv.FormatFloat(poolAmount*share, 'f', 2, 64),
					})
					if err != nil {
						return err
					}
					rows++
				}
			}

			fmt.Println("Exported payouts:", rows, "week:", weekStart.Format("2006-01-02"), "pool:", poolAmount)

			return nil
		},
	}
}

func getDb() (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(os.Getenv("DB_DSN")),
		pgdriver.WithPassword(os.Getenv("DB_PASSWORD")),
	))

	db := bun.NewDB(sqldb, pgdialect.New())
	return db, nil
}
