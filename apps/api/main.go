package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	echoapi "github.com/surveyops/respops/apps/api/echo"
	"github.com/surveyops/respops/core"
	"github.com/surveyops/respops/core/banner"
	"github.com/surveyops/respops/core/caze"
	"github.com/surveyops/respops/core/collex"
	"github.com/surveyops/respops/core/message"
	"github.com/surveyops/respops/core/party"
	"github.com/surveyops/respops/core/survey"
	"github.com/surveyops/respops/core/user"
	emailsvc "github.com/surveyops/respops/services/email"
	logsvc "github.com/surveyops/respops/services/logger"
	rmsvc "github.com/surveyops/respops/services/rm"
	"github.com/surveyops/respops/storage/database"
	dummydb "github.com/surveyops/respops/storage/database/dummy"
	"github.com/surveyops/respops/storage/database/sqlxrepos"
)

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lshortfile)
	if err := run(std); err != nil {
		std.Fatalf("%+v", err)
	}
}

func run(std *log.Logger) error {
	conf := core.NewConfig()

	var logger core.Logger
	if conf.RollbarToken != "" {
		logger = logsvc.NewRollbarLogger(std, conf)
	} else {
		logger = core.NewConsoleLogger(std)
	}
	logger.Enable(!conf.Debug)

	clock := core.NewClock()

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	// portal storage: postgres, or in-memory for local hacking
	var (
		usrRepo    user.Repository
		bannerRepo banner.Repository
	)
	if conf.Database.Engine == "dummy" {
		db, err := dummydb.Open()
		if err != nil {
			return err
		}
		usrRepo = dummydb.NewUserRepository(db)
		bannerRepo = dummydb.NewBannerRepository(db)
	} else {
		db, err := database.Open(conf)
		if err != nil {
			return err
		}
		defer db.Close()
		if err = database.Ping(db); err != nil {
			return err
		}
		if err = database.Migrate(db); err != nil {
			return err
		}
		usrRepo = sqlxrepos.NewUserRepository(db)
		bannerRepo = sqlxrepos.NewBannerRepository(db)
	}

	// downstream survey-data-collection services
	collexClient := rmsvc.NewCollexService(conf)
	sampleClient := rmsvc.NewSampleService(conf)
	caseClient := rmsvc.NewCaseService(conf)
	surveyClient := rmsvc.NewSurveyService(conf)
	partyClient := rmsvc.NewPartyService(conf)
	messageClient := rmsvc.NewMessageService(conf)

	usrSvc := user.NewService(usrRepo, mailSvc, clock, conf)
	surveySvc := survey.NewService(surveyClient, clock, conf.SurveyCacheTTL, logger)
	collexSvc := collex.NewService(collexClient, collexClient, sampleClient, clock)
	caseSvc := caze.NewService(caseClient)
	partySvc := party.NewService(partyClient)
	bannerSvc := banner.NewService(bannerRepo, clock)
	messageSvc := message.NewService(messageClient, partySvc, mailSvc, clock, conf)

	// warm the survey cache in the background and keep it fresh
	scheduler := cron.New()
	refresh := func() {
		if err := surveySvc.RefreshCache(context.Background()); err != nil {
			logger.Warn("survey cache refresh failed", err)
		}
	}
	go refresh()
	if _, err := scheduler.AddFunc(conf.SurveyRefreshCron, refresh); err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	app := echoapi.NewServer(&echoapi.Options{
		Address:    conf.Server.Address(),
		UserSvc:    usrSvc,
		SurveySvc:  surveySvc,
		CollexSvc:  collexSvc,
		CaseSvc:    caseSvc,
		PartySvc:   partySvc,
		BannerSvc:  bannerSvc,
		MessageSvc: messageSvc,
		Logger:     logger,
		Conf:       conf,
		Shutdown:   func() { shutdown <- syscall.SIGTERM },
	})

	serverErrs := make(chan error, 1)
	go func() { serverErrs <- app.Start() }()

	select {
	case err := <-serverErrs:
		return err
	case sig := <-shutdown:
		logger.Info("shutting down", sig)

		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()
		if err := app.Stop(ctx); err != nil {
			return err
		}
	}
	return nil
}
