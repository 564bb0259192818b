package handler

import (
	"math"

	"chadder/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"
)

type groupPrizePool struct {
	container *do.Injector
}

// GetPrizePool serves the running week's pool. Rounding to cents happens only
// here; the stored amount stays unrounded.
func (gr *groupPrizePool) GetPrizePool(c echo.Context) error {
	ctx := c.Request().Context()

	servicePrizePool, err := do.Invoke[*services.ServicePrizePool](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	pool, err := servicePrizePool.GetCurrentPrizePool(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	return httpx.RestAbort(c, map[string]interface{}{
		"week_start":     pool.WeekStart,
		"week_end":       pool.WeekEnd,
		"current_amount": math.Round(pool.CurrentAmount*100) / 100,
		"is_active":      pool.IsActive,
		"updated_at":     pool.UpdatedAt,
	}, nil)
}
