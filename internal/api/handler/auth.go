package handler

import (
	"errors"
	"strings"

	"chadder/internal/models"
	"chadder/internal/services"

	"github.com/google/uuid"
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupAuth struct {
	container *do.Injector
}

type loginPayload struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// Login mints a token for an identity already verified upstream. The gateway
// in front of this service owns the actual credential check.
func (gr *groupAuth) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))
	if payload.Email == "" {
		return httpx.RestAbort(c, nil, errorx.Wrap(errors.New("email is required"), errorx.Invalid))
	}

	serviceUser, err := do.Invoke[*services.ServiceUser](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	userAuth := &models.UserFromAuth{
		Email:       payload.Email,
		DisplayName: payload.DisplayName,
	}

	existing, _ := serviceUser.FindUserByEmail(ctx, payload.Email)
	if existing != nil {
		userAuth.ID = existing.ID
	} else {
		userAuth.ID = uuid.NewString()
	}

	user, err := serviceUser.FindOrCreateUser(ctx, userAuth)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	authentication, err := do.Invoke[*services.Authentication](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	token, err := authentication.CreateToken(&models.UserFromAuth{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	})
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]interface{}{
		"token": token,
		"user":  user,
	}, nil)
}

func (gr *groupAuth) Me(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, user, nil)
}
