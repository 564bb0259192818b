package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"time"

	"chadder/internal/datastore"
	"chadder/internal/models"
	"chadder/internal/services"

	"github.com/google/uuid"
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
		Name: "migrate",
		Commands: []*cli.Command{
			commandMigration(),
			commandConfigMigration(),
			commandSeedStreamers(),
			commandCreateAdmin(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandMigration() *cli.Command {
	return &cli.Command{
		Name: "migrate",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableUsers(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableVotes(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableGemGrant(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableStreamers(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableSubscriptions(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTablePrizePool(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableAdmins(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableUserFavorites(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableConfig(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			fmt.Println("Migration success")

			return nil
		},
	}
}

// insert default configs to db
func commandConfigMigration() *cli.Command {
	return &cli.Command{
		Name:        "migrate-config",
		Description: "Insert default configs to db",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			configs := []models.Config{
				{Key: services.CONFIG_SERVER_MODE, Value: "production"},
				{Key: services.CONFIG_STREAMER_LEADERBOARD_LIMIT, Value: "20"},
				{Key: services.CONFIG_SUPPORTER_LEADERBOARD_LIMIT, Value: "20"},
				{Key: services.CONFIG_DISCOVERY_POOL_SIZE, Value: "50"},
				{Key: services.CONFIG_CRONJOB_TIME_PRIZE_POOL, Value: "@every 15m"},
				{Key: services.CONFIG_CRONJOB_TIME_LEADERBOARD, Value: "@every 1h"},
				{Key: services.CONFIG_CRONJOB_TIME_STREAMER_SYNC, Value: "@every 5m"},
			}

			for _, config := range configs {
				_, err = db.NewInsert().Model(&config).Exec(ctx)
				if err != nil {
					log.Println(err)
				}
			}

			fmt.Println("Migration success")

			return nil
		},
	}
}

// seed the streamer directory from a CSV of Twitch logins, one per row
func commandSeedStreamers() *cli.Command {
	return &cli.Command{
		Name: "seed-streamers",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "input",
				Value: "./streamers.csv",
			},
		},
		Action: func(c *cli.Context) error {
			ctx := context.Background()

			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			inputPath := c.String("input")
			if _, err := os.Stat(inputPath); os.IsNotExist(err) {
				return err
			}

			file, err := os.Open(inputPath)
			if err != nil {
				return err
			}

			r := csv.NewReader(file)

			count := 0
			for {
				row, err := r.Read()
				if err != nil {
					break
				}
				if len(row) == 0 || row[0] == "" {
					continue
				}

				streamer := &models.Streamer{
					Username:  row[0],
					UpdatedAt: time.Now(),
				}
				if err := datastore.UpsertStreamer(ctx, db, streamer); err != nil {
					fmt.Println(err)
					continue
				}
				count++
			}

			fmt.Println("Seeded streamers:", count)

			return nil
		},
	}
}

func commandCreateAdmin() *cli.Command {
	return &cli.Command{
		Name: "create-admin",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "email",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			ctx := context.Background()

			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			admin := &models.Admin{
				Email:     c.String("email"),
				APIKey:    uuid.NewString(),
				Enabled:   true,
				CreatedAt: time.Now(),
			}

			_, err = db.NewInsert().Model(admin).Exec(ctx)
			if err != nil {
				return err
			}

			fmt.Println("Admin created:", admin.Email, "api key:", admin.APIKey)

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
