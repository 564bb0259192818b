package handler

import (
	"database/sql"
	"errors"
	"io"
	"log"
	"net/http"

	"chadder/internal/models"
	"chadder/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupBilling struct {
	container *do.Injector
}

type checkoutPayload struct {
	Tier string `json:"tier"`
}

func (gr *groupBilling) CreateCheckoutSession(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload checkoutPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	serviceBilling, err := do.Invoke[*services.ServiceBilling](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	url, err := serviceBilling.CreateCheckoutSession(ctx, user, payload.Tier)
	if err != nil {
		if errors.Is(err, services.ErrUnknownTier) {
			return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
		}
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]interface{}{"url": url}, nil)
}

// Webhook receives Stripe events. The signature is verified against the raw
// body; once it checks out we always ack with 200, even when processing
// fails, so Stripe does not endlessly redeliver an event we cannot apply.
// Processing failures are logged for manual replay.
func (gr *groupBilling) Webhook(c echo.Context) error {
	ctx := c.Request().Context()

	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}

	serviceBilling, err := do.Invoke[*services.ServiceBilling](gr.container)
	if err != nil {
		return c.NoContent(http.StatusInternalServerError)
	}

	event, err := serviceBilling.VerifyEvent(payload, c.Request().Header.Get("Stripe-Signature"))
	if err != nil {
		log.Println("Webhook signature verification failed:", err)
		return c.NoContent(http.StatusBadRequest)
	}

	if err := serviceBilling.ProcessEvent(ctx, event); err != nil {
		log.Println("Webhook processing failed:", "event:", event.ID, "type:", event.Type, "err:", err)
	}

	return c.NoContent(http.StatusOK)
}

func (gr *groupBilling) GetSubscription(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := ResolveValidUser(ctx, gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	serviceBilling, err := do.Invoke[*services.ServiceBilling](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	sub, err := serviceBilling.GetSubscription(ctx, user.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return httpx.RestAbort(c, &models.Subscription{
				UserID: user.ID,
				Tier:   models.TIER_FREE,
				Status: models.SUBSCRIPTION_STATUS_INACTIVE,
			}, nil)
		}
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, sub, nil)
}
