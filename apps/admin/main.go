package main

import (
	"fmt"
	"os"

	"github.com/trezcool/shkola/core"
	"github.com/trezcool/shkola/core/calendar"
	"github.com/trezcool/shkola/core/class"
	logsvc "github.com/trezcool/shkola/services/logger"
	"github.com/trezcool/shkola/storage/database"
	sqlxrepos "github.com/trezcool/shkola/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()

	zl, err := logsvc.NewZapLogger(conf.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "building zap logger: %v\n", err)
		os.Exit(1)
	}
	rootLogger := logsvc.NewRollbarLogger(zl, conf)
	rootLogger.Enable(!conf.Debug)
	logger := rootLogger.Named("ADMIN")

	// set up DB
	if err = database.CreateIfNotExist(conf); err != nil {
		logger.Fatal(fmt.Sprintf("creating database: %v", err), err)
	}
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}

	// start CLI
	usrRepo := sqlxrepos.NewUserRepository(db)
	cli := commandLine{
		db:       db.DB,
		usrRepo:  usrRepo,
		classSvc: class.NewService(sqlxrepos.NewClassRepository(db), nil),
		eventSvc: calendar.NewService(sqlxrepos.NewEventRepository(db)),
	}
	err = cli.run(os.Args)

	_ = db.Close()
	rootLogger.Sync()
	if err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %s", err), err)
		}
		os.Exit(1)
	}
}
