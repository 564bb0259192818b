package handler

import (
	"errors"

	"chadder/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupLeaderboard struct {
	container *do.Injector
}

func (gr *groupLeaderboard) GetStreamerLeaderboard(c echo.Context) error {
	ctx := c.Request().Context()

	var name string
	switch c.Param("window") {
	case "today":
		name = services.LEADERBOARD_STREAMERS_TODAY
	case "weekly":
		name = services.LEADERBOARD_STREAMERS_WEEKLY
	case "alltime":
		name = services.LEADERBOARD_STREAMERS_ALLTIME
	default:
		return httpx.RestAbort(c, nil, errorx.Wrap(errors.New("unknown window"), errorx.Invalid))
	}

	serviceLeaderboard, err := do.Invoke[*services.ServiceLeaderboard](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	items, err := serviceLeaderboard.GetStreamerLeaderboard(ctx, name)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, items, nil)
}

func (gr *groupLeaderboard) GetSupporterLeaderboard(c echo.Context) error {
	ctx := c.Request().Context()

	// the caller's own rank is optional; anonymous requests still get the board
	userID := ""
	if user, err := ResolveValidUser(ctx, gr.container); err == nil {
		userID = user.ID
	}

	serviceLeaderboard, err := do.Invoke[*services.ServiceLeaderboard](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	response, err := serviceLeaderboard.GetSupporterLeaderboard(ctx, userID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, response, nil)
}
