package handler

import (
	"errors"
	"log"
	"strings"

	"chadder/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupStreamer struct {
	container *do.Injector
}

// GetStreamers serves a batch of profiles from the Twitch mirror. Logins come
// comma-separated; unknown ones are absent from the result.
func (gr *groupStreamer) GetStreamers(c echo.Context) error {
	ctx := c.Request().Context()

	raw := c.QueryParam("logins")
	if raw == "" {
		return httpx.RestAbort(c, nil, errorx.Wrap(errors.New("logins is required"), errorx.Invalid))
	}

	var logins []string
	for _, login := range strings.Split(raw, ",") {
		login = strings.TrimSpace(login)
		if login != "" {
			logins = append(logins, login)
		}
	}
	if len(logins) == 0 {
		return httpx.RestAbort(c, nil, errorx.Wrap(errors.New("logins is required"), errorx.Invalid))
	}

	serviceTwitch, err := do.Invoke[*services.ServiceTwitch](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	streamers, err := serviceTwitch.GetStreamerProfiles(ctx, logins)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, streamers, nil)
}

// GetStreamer serves a single profile with its vote windows attached.
func (gr *groupStreamer) GetStreamer(c echo.Context) error {
	ctx := c.Request().Context()

	login := c.Param("login")
	if login == "" {
		return httpx.RestAbort(c, nil, errorx.Wrap(errors.New("login is required"), errorx.Invalid))
	}

	serviceTwitch, err := do.Invoke[*services.ServiceTwitch](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	streamer, err := serviceTwitch.GetStreamerProfile(ctx, login)
	if err != nil {
		if errors.Is(err, services.ErrStreamerNotFound) {
			return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
		}
		return httpx.RestAbort(c, nil, err)
	}

	serviceVote, err := do.Invoke[*services.ServiceVote](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	windows, err := serviceVote.GetStreamerWindows(ctx, streamer.Username)
	if err != nil {
		log.Println(err)
	} else {
		streamer.VoteTotals = windows
	}

	return httpx.RestAbort(c, streamer, nil)
}

func (gr *groupStreamer) Discover(c echo.Context) error {
	ctx := c.Request().Context()

	serviceDiscovery, err := do.Invoke[*services.ServiceDiscovery](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	streamer, err := serviceDiscovery.PickStreamer(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, streamer, nil)
}
