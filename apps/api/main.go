package main

import (
	"context"
	"expvar"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	echoapi "github.com/trezcool/shkola/apps/api/echo"
	"github.com/trezcool/shkola/core"
	"github.com/trezcool/shkola/core/bell"
	"github.com/trezcool/shkola/core/calendar"
	"github.com/trezcool/shkola/core/class"
	"github.com/trezcool/shkola/core/order"
	"github.com/trezcool/shkola/core/schedule"
	"github.com/trezcool/shkola/core/ticket"
	"github.com/trezcool/shkola/core/user"
	emailsvc "github.com/trezcool/shkola/services/email"
	logsvc "github.com/trezcool/shkola/services/logger"
	"github.com/trezcool/shkola/storage/database"
	inmemdb "github.com/trezcool/shkola/storage/database/inmem"
	sqlxrepos "github.com/trezcool/shkola/storage/database/sqlx"
)

type repositories struct {
	users    user.Repository
	classes  class.Repository
	schedule schedule.Repository
	events   calendar.Repository
	orders   order.Repository
	tickets  ticket.Repository
	tx       core.Transactor
}

func main() {
	inmem := flag.Bool("inmem", false, "keep every record in memory instead of PostgreSQL")
	flag.Parse()

	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	zl, err := logsvc.NewZapLogger(conf.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "building zap logger: %v\n", err)
		os.Exit(1)
	}
	rootLogger := logsvc.NewRollbarLogger(zl, conf)
	rootLogger.Enable(!conf.Debug)
	defer rootLogger.Sync()

	logger := rootLogger.Named("API")
	dbLogger := rootLogger.Named("DB")

	loc, err := conf.Location()
	if err != nil {
		logger.Fatal(fmt.Sprintf("loading bell timezone %q: %v", conf.Bell.Timezone, err), err)
	}

	// set up DB
	var repos repositories
	if *inmem {
		logger.Warn("running with in-memory storage; data is lost on exit")
		repos = inmemRepositories(inmemdb.Open())
	} else {
		db, err := setUpDB(conf)
		if err != nil {
			dbLogger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
		}
		defer func() {
			if err := db.Close(); err != nil {
				dbLogger.Error("Failed to close", err)
			}
		}()
		repos = sqlxRepositories(db)
	}

	// set up services
	mailSvc := emailsvc.NewService(conf, logger)
	usrSvc := user.NewService(repos.users, mailSvc, conf)
	clsSvc := class.NewService(repos.classes, usrSvc)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	board := bell.NewBoard(loc, conf.Bell.PollInterval)
	if err = board.Start(ctx); err != nil {
		logger.Fatal(fmt.Sprintf("starting bell board: %v", err), err)
	}

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.Publish("bell", expvar.Func(func() interface{} {
		st, _ := board.Current()
		return st
	}))

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(echoapi.ServerDeps{
		Conf:        conf,
		Logger:      logger,
		Validate:    validate,
		Translator:  translator,
		UserSvc:     usrSvc,
		ClassSvc:    clsSvc,
		ScheduleSvc: schedule.NewService(repos.schedule, repos.tx, usrSvc, clsSvc, loc),
		CalendarSvc: calendar.NewService(repos.events),
		OrderSvc:    order.NewService(repos.orders, clsSvc),
		TicketSvc:   ticket.NewService(repos.tickets),
		Board:       board,
	})

	go server.Start()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Error(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer shutdownCancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(shutdownCtx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Error(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}

	if err = board.Stop(); err != nil {
		logger.Error("stopping bell board", err)
	}
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(context.Background(), db.DB); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func sqlxRepositories(db *sqlx.DB) repositories {
	return repositories{
		users:    sqlxrepos.NewUserRepository(db),
		classes:  sqlxrepos.NewClassRepository(db),
		schedule: sqlxrepos.NewScheduleRepository(db),
		events:   sqlxrepos.NewEventRepository(db),
		orders:   sqlxrepos.NewOrderRepository(db),
		tickets:  sqlxrepos.NewTicketRepository(db),
		tx:       database.NewTransactor(db),
	}
}

func inmemRepositories(db *inmemdb.DB) repositories {
	return repositories{
		users:    inmemdb.NewUserRepository(db),
		classes:  inmemdb.NewClassRepository(db),
		schedule: inmemdb.NewScheduleRepository(db),
		events:   inmemdb.NewEventRepository(db),
		orders:   inmemdb.NewOrderRepository(db),
		tickets:  inmemdb.NewTicketRepository(db),
		tx:       inmemdb.NewTransactor(),
	}
}
