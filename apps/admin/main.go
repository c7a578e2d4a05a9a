package main

import (
	"log"
	"os"

	"github.com/surveyops/respops/core"
	"github.com/surveyops/respops/core/banner"
	"github.com/surveyops/respops/core/user"
	"github.com/surveyops/respops/storage/database"
	dummydb "github.com/surveyops/respops/storage/database/dummy"
	"github.com/surveyops/respops/storage/database/sqlxrepos"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()
	clock := core.NewClock()

	var (
		usrRepo    user.Repository
		bannerRepo banner.Repository
	)
	if conf.Database.Engine == "dummy" {
		db, err := dummydb.Open()
		errAndDie(err)
		usrRepo = dummydb.NewUserRepository(db)
		bannerRepo = dummydb.NewBannerRepository(db)
	} else {
		db, err := database.Open(conf)
		errAndDie(err)
		defer db.Close()
		errAndDie(database.Ping(db))
		errAndDie(database.Migrate(db))
		usrRepo = sqlxrepos.NewUserRepository(db)
		bannerRepo = sqlxrepos.NewBannerRepository(db)
	}

	cli := commandLine{
		usrRepo:   usrRepo,
		bannerSvc: banner.NewService(bannerRepo, clock),
		clock:     clock,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
