package services

import (
	"context"
	"time"

	"github.com/mroth/weightedrand/v2"
	"github.com/samber/do"
	"github.com/uptrace/bun"

	"chadder/internal/datastore"
	"chadder/internal/models"
	"chadder/internal/pkg"
)

// ServiceDiscovery surfaces a streamer to try next. The pick is a weighted
// draw over the discovery pool: every streamer gets a base weight of 1 so new
// channels can surface, plus their weekly vote total so momentum still counts.
type ServiceDiscovery struct {
	container          *do.Injector
	readonlyPostgresDB *bun.DB

	serviceConfig *ServiceConfig
	serviceTwitch *ServiceTwitch
}

func NewServiceDiscovery(container *do.Injector) (*ServiceDiscovery, error) {
	readonlyPostgresDB, err := do.InvokeNamed[*bun.DB](container, "db-readonly")
	if err != nil {
		return nil, err
	}

	serviceConfig, err := do.Invoke[*ServiceConfig](container)
	if err != nil {
		return nil, err
	}

	serviceTwitch, err := do.Invoke[*ServiceTwitch](container)
	if err != nil {
		return nil, err
	}

	return &ServiceDiscovery{container, readonlyPostgresDB, serviceConfig, serviceTwitch}, nil
}

// PickStreamer draws one streamer for the discovery feed.
func (service *ServiceDiscovery) PickStreamer(ctx context.Context) (*models.Streamer, error) {
	poolSize, _ := service.serviceConfig.GetIntConfig(ctx, CONFIG_DISCOVERY_POOL_SIZE, DISCOVERY_POOL_DEFAULT_SIZE)

	usernames, err := datastore.ListAllStreamerUsernames(ctx, service.readonlyPostgresDB)
	if err != nil {
		return nil, err
	}
	if len(usernames) == 0 {
		return nil, ErrStreamerNotFound
	}
	if len(usernames) > poolSize {
		usernames = usernames[:poolSize]
	}

	week := pkg.StartOfWeek(time.Now())
	totals, err := datastore.GetStreamerTotalsFromTime(ctx, service.readonlyPostgresDB, &week, poolSize, 0)
	if err != nil {
		return nil, err
	}

	weeklyVotes := make(map[string]int, len(totals))
	for _, total := range totals {
		weeklyVotes[total.Streamer] = total.TotalVotes
	}

	choices := make([]weightedrand.Choice[string, int], 0, len(usernames))
	for _, username := range usernames {
		choices = append(choices, weightedrand.NewChoice(username, 1+weeklyVotes[username]))
	}

	gacha, err := NewServiceGacha(choices)
	if err != nil {
		return nil, err
	}

	return service.serviceTwitch.GetStreamerProfile(ctx, gacha.Pick())
}
