package handler

import (
	"errors"

	"chadder/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupFavorite struct {
	container *do.Injector
}

func (gr *groupFavorite) GetFavorites(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceFavorite, err := do.Invoke[*services.ServiceFavorite](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	favorites, err := serviceFavorite.GetFavorites(ctx, user.ID)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, favorites, nil)
}

func (gr *groupFavorite) AddFavorite(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	login := c.Param("login")
	if login == "" {
		return httpx.RestAbort(c, nil, errorx.Wrap(errors.New("login is required"), errorx.Invalid))
	}

	serviceFavorite, err := do.Invoke[*services.ServiceFavorite](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	if err := serviceFavorite.AddFavorite(ctx, user.ID, login); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, "success", nil)
}

func (gr *groupFavorite) RemoveFavorite(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	login := c.Param("login")
	if login == "" {
		return httpx.RestAbort(c, nil, errorx.Wrap(errors.New("login is required"), errorx.Invalid))
	}

	serviceFavorite, err := do.Invoke[*services.ServiceFavorite](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	if err := serviceFavorite.RemoveFavorite(ctx, user.ID, login); err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, "success", nil)
}
