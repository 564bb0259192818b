package handler

import (
	"chadder/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupAdmin struct {
	container *do.Injector
}

func (gr *groupAdmin) GetStats(c echo.Context) error {
	ctx := c.Request().Context()

	serviceAdmin, err := do.Invoke[*services.ServiceAdmin](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	stats, err := serviceAdmin.GetStats(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, stats, nil)
}

func (gr *groupAdmin) RefreshStreamers(c echo.Context) error {
	ctx := c.Request().Context()

	serviceTwitch, err := do.Invoke[*services.ServiceTwitch](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	updated, err := serviceTwitch.RefreshStreamers(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]interface{}{"updated": updated}, nil)
}

func (gr *groupAdmin) RebuildLeaderboards(c echo.Context) error {
	ctx := c.Request().Context()

	serviceLeaderboard, err := do.Invoke[*services.ServiceLeaderboard](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	if err := serviceLeaderboard.Rebuild(ctx); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, "success", nil)
}

func (gr *groupAdmin) RecalculatePrizePool(c echo.Context) error {
	ctx := c.Request().Context()

	servicePrizePool, err := do.Invoke[*services.ServicePrizePool](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	pool, err := servicePrizePool.CalculateWeeklyPrizePool(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, pool, nil)
}
