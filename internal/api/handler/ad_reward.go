package handler

import (
	"errors"

	"chadder/internal/pkg/limiter"
	"chadder/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupAdReward struct {
	container *do.Injector
}

func (gr *groupAdReward) GetStatus(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceAdReward, err := do.Invoke[*services.ServiceAdReward](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	status, err := serviceAdReward.GetGateStatus(ctx, user.ID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, status, nil)
}

func (gr *groupAdReward) Watch(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceAdReward, err := do.Invoke[*services.ServiceAdReward](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	status, err := serviceAdReward.WatchAd(ctx, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAdGateClosed):
			return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
		case errors.Is(err, services.ErrUserLock), errors.Is(err, limiter.ErrRateLimited):
			return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.RateLimiting))
		default:
			return httpx.RestAbort(c, nil, err)
		}
	}

	return httpx.RestAbort(c, status, nil)
}
