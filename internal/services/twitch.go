package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/uptrace/bun"

	"chadder/internal/datastore"
	"chadder/internal/datastore/redis_store"
	"chadder/internal/models"
	"chadder/internal/pkg"
	"chadder/internal/pkg/caching"
)

// Helix payloads. Only the fields the mirror needs.
type TwitchUser struct {
	ID              string `json:"id"`
	Login           string `json:"login"`
	DisplayName     string `json:"display_name"`
	Description     string `json:"description"`
	ProfileImageURL string `json:"profile_image_url"`
}

type TwitchStream struct {
	UserLogin   string `json:"user_login"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	GameName    string `json:"game_name"`
	ViewerCount int    `json:"viewer_count"`
}

type twitchTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// ServiceTwitch talks to the Helix API under an app (client-credentials)
// token. The token lives in redis and is renewed a minute before expiry so all
// instances share one grant.
type ServiceTwitch struct {
	container          *do.Injector
	redisDB            redis.UniversalClient
	postgresDB         *bun.DB
	readonlyPostgresDB *bun.DB
	cache              caching.Cache
	readonlyCache      caching.ReadOnlyCache

	serviceHTTP *ServiceHTTP

	clientID     string
	clientSecret string
}

func NewServiceTwitch(container *do.Injector) (*ServiceTwitch, error) {
	vs := do.MustInvokeNamed[map[string]string](container, "envs")

	redisDB, err := do.InvokeNamed[redis.UniversalClient](container, "redis-db")
	if err != nil {
		return nil, err
	}

	postgresDB, err := do.Invoke[*bun.DB](container)
	if err != nil {
		return nil, err
	}

	readonlyPostgresDB, err := do.InvokeNamed[*bun.DB](container, "db-readonly")
	if err != nil {
		return nil, err
	}

	cache, err := do.Invoke[caching.Cache](container)
	if err != nil {
		return nil, err
	}

	readonlyCache, err := do.Invoke[caching.ReadOnlyCache](container)
	if err != nil {
		return nil, err
	}

	serviceHTTP, err := do.Invoke[*ServiceHTTP](container)
	if err != nil {
		return nil, err
	}

	return &ServiceTwitch{
		container:          container,
		redisDB:            redisDB,
		postgresDB:         postgresDB,
		readonlyPostgresDB: readonlyPostgresDB,
		cache:              cache,
		readonlyCache:      readonlyCache,
		serviceHTTP:        serviceHTTP,
		clientID:           vs["TWITCH_CLIENT_ID"],
		clientSecret:       vs["TWITCH_CLIENT_SECRET"],
	}, nil
}

// appToken returns a valid app token, renewing through the OAuth endpoint when
// the cached one is missing or inside the 60s expiry margin.
func (service *ServiceTwitch) appToken(ctx context.Context) (string, error) {
	token, err := redis_store.GetTwitchToken(ctx, service.redisDB)
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	if token != nil && time.Until(token.ExpiresAt) > time.Minute {
		return token.AccessToken, nil
	}

	form := url.Values{
		"client_id":     {service.clientID},
		"client_secret": {service.clientSecret},
		"grant_type":    {"client_credentials"},
	}

	var res twitchTokenResponse
	if err := service.serviceHTTP.PostFormJSON(ctx, TWITCH_AUTH_BASE_URL+"/token", form, &res); err != nil {
		return "", fmt.Errorf("twitch token grant: %w", err)
	}

	ttl := time.Duration(res.ExpiresIn)*time.Second - time.Minute
	if ttl < time.Minute {
		ttl = time.Minute
	}

	fresh := &redis_store.AppToken{
		AccessToken: res.AccessToken,
		ExpiresAt:   time.Now().Add(ttl),
	}
	if err := redis_store.SetTwitchToken(ctx, service.redisDB, fresh, ttl); err != nil {
		log.Println(err)
	}

	return res.AccessToken, nil
}

func (service *ServiceTwitch) helixGet(ctx context.Context, path string, query url.Values, out any) error {
	token, err := service.appToken(ctx)
	if err != nil {
		return err
	}

	headers := http.Header{
		"Client-Id":     {service.clientID},
		"Authorization": {"Bearer " + token},
	}

	return service.serviceHTTP.GetJSON(ctx, TWITCH_HELIX_BASE_URL+path+"?"+query.Encode(), headers, out)
}

// GetUsers resolves profiles for the given logins, chunked to the Helix batch
// limit. Unknown logins are silently absent from the result.
func (service *ServiceTwitch) GetUsers(ctx context.Context, logins []string) ([]*TwitchUser, error) {
	var users []*TwitchUser
	for _, chunk := range pkg.ChunkStrings(logins, TWITCH_BATCH_LIMIT) {
		query := url.Values{"login": chunk}

		var res struct {
			Data []*TwitchUser `json:"data"`
		}
		if err := service.helixGet(ctx, "/users", query, &res); err != nil {
			return nil, err
		}

		users = append(users, res.Data...)
	}

	return users, nil
}

// GetStreams returns the live streams among the given logins. Offline channels
// simply do not appear.
func (service *ServiceTwitch) GetStreams(ctx context.Context, logins []string) ([]*TwitchStream, error) {
	var streams []*TwitchStream
	for _, chunk := range pkg.ChunkStrings(logins, TWITCH_BATCH_LIMIT) {
		query := url.Values{"user_login": chunk}

		var res struct {
			Data []*TwitchStream `json:"data"`
		}
		if err := service.helixGet(ctx, "/streams", query, &res); err != nil {
			return nil, err
		}

		streams = append(streams, res.Data...)
	}

	return streams, nil
}

// RefreshStreamers pulls profile and live state from Helix for every known
// streamer and rewrites the mirror rows. Runs from cron; also callable from
// the admin surface.
func (service *ServiceTwitch) RefreshStreamers(ctx context.Context) (int, error) {
	logins, err := datastore.ListAllStreamerUsernames(ctx, service.readonlyPostgresDB)
	if err != nil {
		return 0, err
	}
	if len(logins) == 0 {
		return 0, nil
	}

	users, err := service.GetUsers(ctx, logins)
	if err != nil {
		return 0, err
	}

	streams, err := service.GetStreams(ctx, logins)
	if err != nil {
		return 0, err
	}

	liveByLogin := make(map[string]*TwitchStream, len(streams))
	for _, stream := range streams {
		if stream.Type == "live" {
			liveByLogin[stream.UserLogin] = stream
		}
	}

	now := time.Now()
	updated := 0
	for _, user := range users {
		streamer := &models.Streamer{
			Username:        user.Login,
			DisplayName:     user.DisplayName,
			Bio:             user.Description,
			ProfileImageURL: user.ProfileImageURL,
			UpdatedAt:       now,
		}

		if stream, ok := liveByLogin[user.Login]; ok {
			streamer.IsLive = true
			streamer.ViewerCount = stream.ViewerCount
			streamer.StreamTitle = stream.Title
			streamer.GameName = stream.GameName
		}

		if err := datastore.UpsertStreamer(ctx, service.postgresDB, streamer); err != nil {
			log.Println("Upsert streamer:", user.Login, err)
			continue
		}

		if err := service.cache.Delete(ctx, DBKeyStreamer(user.Login)); err != nil {
			log.Println(err)
		}
		updated++
	}

	return updated, nil
}

// GetStreamerProfile serves one streamer from the mirror, falling back to a
// live Helix lookup (and seeding the mirror) for logins never seen before.
func (service *ServiceTwitch) GetStreamerProfile(ctx context.Context, login string) (*models.Streamer, error) {
	callback := func() (*models.Streamer, error) {
		streamer, err := datastore.GetStreamer(ctx, service.readonlyPostgresDB, login)
		if err == nil {
			return streamer, nil
		}

		users, err := service.GetUsers(ctx, []string{login})
		if err != nil {
			return nil, err
		}
		if len(users) == 0 {
			return nil, ErrStreamerNotFound
		}

		user := users[0]
		streamer = &models.Streamer{
			Username:        user.Login,
			DisplayName:     user.DisplayName,
			Bio:             user.Description,
			ProfileImageURL: user.ProfileImageURL,
			UpdatedAt:       time.Now(),
		}
		if err := datastore.UpsertStreamer(ctx, service.postgresDB, streamer); err != nil {
			log.Println(err)
		}

		return streamer, nil
	}

	return caching.UseCacheWithRO(ctx, service.readonlyCache, service.cache, DBKeyStreamer(login), CACHE_TTL_1_MIN, callback)
}

// GetStreamerProfiles serves a batch from the mirror only. Missing logins are
// skipped; the sync cron fills the mirror.
func (service *ServiceTwitch) GetStreamerProfiles(ctx context.Context, logins []string) ([]*models.Streamer, error) {
	return datastore.ListStreamers(ctx, service.readonlyPostgresDB, logins)
}
