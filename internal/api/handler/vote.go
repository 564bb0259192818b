package handler

import (
	"errors"
	"strconv"

	"chadder/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupVote struct {
	container *do.Injector
}

type castVotePayload struct {
	Streamer string `json:"streamer"`
	Amount   int    `json:"amount"`
}

func (gr *groupVote) CastVote(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload castVotePayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}
	if payload.Streamer == "" {
		return httpx.RestAbort(c, nil, errorx.Wrap(errors.New("streamer is required"), errorx.Invalid))
	}

	serviceVote, err := do.Invoke[*services.ServiceVote](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	vote, err := serviceVote.RecordVote(ctx, user, payload.Streamer, payload.Amount)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidVoteAmount):
			return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
		case errors.Is(err, services.ErrInsufficientBalance):
			return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
		case errors.Is(err, services.ErrUserLock):
			return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.RateLimiting))
		default:
			return httpx.RestAbort(c, nil, err)
		}
	}

	return httpx.RestAbort(c, vote, nil)
}

func (gr *groupVote) GetHistory(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if offset < 0 {
		offset = 0
	}

	serviceVote, err := do.Invoke[*services.ServiceVote](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	votes, err := serviceVote.GetVoteHistory(ctx, user.ID, limit, offset)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, votes, nil)
}

func (gr *groupVote) GetMyWindows(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceVote, err := do.Invoke[*services.ServiceVote](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	windows, err := serviceVote.GetUserWindows(ctx, user.ID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, windows, nil)
}

func (gr *groupVote) GetStreamerWindows(c echo.Context) error {
	ctx := c.Request().Context()

	login := c.Param("login")
	if login == "" {
		return httpx.RestAbort(c, nil, errorx.Wrap(errors.New("login is required"), errorx.Invalid))
	}

	serviceVote, err := do.Invoke[*services.ServiceVote](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	windows, err := serviceVote.GetStreamerWindows(ctx, login)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, windows, nil)
}
