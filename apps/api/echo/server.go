package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/surveyops/respops/core"
	"github.com/surveyops/respops/core/banner"
	"github.com/surveyops/respops/core/caze"
	"github.com/surveyops/respops/core/collex"
	"github.com/surveyops/respops/core/message"
	"github.com/surveyops/respops/core/party"
	"github.com/surveyops/respops/core/survey"
	"github.com/surveyops/respops/core/user"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool

		UserSvc    *user.Service
		SurveySvc  *survey.Service
		CollexSvc  *collex.Service
		CaseSvc    *caze.Service
		PartySvc   *party.Service
		BannerSvc  *banner.Service
		MessageSvc *message.Service

		Logger core.Logger
		Conf   *core.Config

		// Shutdown is closed-over by the error handler to request a
		// graceful stop on unrecoverable errors.
		Shutdown func()
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	appJWTConfig.SigningKey = []byte(opts.Conf.SecretKey)

	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	shutdown := s.opts.Shutdown
	if shutdown == nil {
		shutdown = func() {}
	}
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, shutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)
	s.app.GET("/info", info(conf))

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(appJWTConfig)

	registerUserAPI(v1, jwt, s.opts.UserSvc, conf)
	registerSurveyAPI(v1, jwt, s.opts.SurveySvc, s.opts.CollexSvc)
	registerCollexAPI(v1, jwt, s.opts.CollexSvc)
	registerCaseAPI(v1, jwt, s.opts.CaseSvc)
	registerPartyAPI(v1, jwt, s.opts.PartySvc, s.opts.CaseSvc)
	registerBannerAPI(v1, jwt, s.opts.BannerSvc)
	registerMessageAPI(v1, jwt, s.opts.MessageSvc)
}

func (s *server) Start() error {
	return s.app.Start(s.opts.Address)
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to the ResponseOps API!")
}

func info(conf *core.Config) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		return ctx.JSON(http.StatusOK, echo.Map{
			"name":  conf.AppName,
			"env":   conf.Env,
			"build": conf.Build,
		})
	}
}
