package handler

import (
	"net/http"

	"chadder/internal/services"

	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo-contrib/pprof"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/samber/do"
)

type Config struct {
	Container *do.Injector
	Mode      string
	Origins   []string
}

func New(cfg *Config) (http.Handler, error) {
	r := echo.New()
	r.Pre(middleware.RemoveTrailingSlash())
	if cfg.Mode == "debug" {
		r.Debug = true
		pprof.Register(r)
	}

	r.JSONSerializer = httpx.SegmentJSONSerializer{}
	r.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339}\t${method}\t${uri}\t${status}\t${latency_human}\n",
	}))
	r.Use(middleware.Recover())

	r.GET("", func(c echo.Context) error {
		return c.String(http.StatusOK, "chadder")
	})

	authentication, err := do.Invoke[*services.Authentication](cfg.Container)
	if err != nil {
		return nil, err
	}

	cors := middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Origins,
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           60 * 60,
	})

	// Stripe posts here; no CORS, no auth. Signature verification happens in
	// the handler against the raw body.
	b := groupBilling{cfg.Container}
	r.POST("/webhook", b.Webhook)

	pp := groupPrizePool{cfg.Container}
	r.GET("/prize-pool", pp.GetPrizePool, cors)

	routesCheckout := r.Group("/create-checkout-session")
	routesCheckout.Use(cors, Authn(authentication))
	routesCheckout.POST("", b.CreateCheckoutSession)

	routesTwitch := r.Group("/api/twitch")
	routesTwitch.Use(cors)
	{
		s := groupStreamer{cfg.Container}
		routesTwitch.GET("/streamers", s.GetStreamers)
		routesTwitch.GET("/user/:login", s.GetStreamer)
	}

	routesAPIv1 := r.Group("/api/v1")
	{
		routesAPIv1.Use(cors)
		routesAPIv1.Use(Authn(authentication)) // Authn will NOT terminate unauthenticated request.

		a := groupAuth{cfg.Container}
		routesAPIv1.POST("/auth/login", a.Login)
		routesAPIv1.GET("/user/me", a.Me)

		v := groupVote{cfg.Container}
		routesAPIv1.POST("/votes", v.CastVote)
		routesAPIv1.GET("/votes", v.GetHistory)
		routesAPIv1.GET("/votes/me", v.GetMyWindows)
		routesAPIv1.GET("/votes/streamer/:login", v.GetStreamerWindows)

		l := groupLeaderboard{cfg.Container}
		routesAPIv1.GET("/leaderboard/streamers/:window", l.GetStreamerLeaderboard)
		routesAPIv1.GET("/leaderboard/supporters", l.GetSupporterLeaderboard)

		ad := groupAdReward{cfg.Container}
		routesAPIv1.GET("/ads/status", ad.GetStatus)
		routesAPIv1.POST("/ads/watch", ad.Watch)

		f := groupFavorite{cfg.Container}
		routesAPIv1.GET("/favorites", f.GetFavorites)
		routesAPIv1.POST("/favorites/:login", f.AddFavorite)
		routesAPIv1.DELETE("/favorites/:login", f.RemoveFavorite)

		s := groupStreamer{cfg.Container}
		routesAPIv1.GET("/discovery", s.Discover)

		routesAPIv1.GET("/subscription", b.GetSubscription)

		routesAPIv1Admin := routesAPIv1.Group("/admin")
		{
			admin, err := do.Invoke[*services.ServiceAdmin](cfg.Container)
			if err != nil {
				return nil, err
			}

			routesAPIv1Admin.Use(AuthnAdmin(admin))
			ga := groupAdmin{cfg.Container}
			routesAPIv1Admin.GET("/stats", ga.GetStats)
			routesAPIv1Admin.POST("/streamers/refresh", ga.RefreshStreamers)
			routesAPIv1Admin.POST("/leaderboards/rebuild", ga.RebuildLeaderboards)
			routesAPIv1Admin.POST("/prize-pool/recalculate", ga.RecalculatePrizePool)
		}
	}

	return r, nil
}
