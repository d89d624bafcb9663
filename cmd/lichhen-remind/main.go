package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"lichhen/internal/platform/config"
	"lichhen/internal/platform/logger"
	"lichhen/internal/platform/store/pg"

	"lichhen/internal/modkit/repokit"
	remsvc "lichhen/internal/services/reminder/service"
	schedrepo "lichhen/internal/services/schedules/repo"
)

func main() {
	root := config.New()
	remCfg := root.Prefix("REMIND_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")

	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var tracer pg.QueryTracer
	if pgCfg.MayBool("LOG_SQL", false) {
		tracer = pg.Tracer(*l)
	}
	db, err := pg.Open(ctx, pg.Config{
		URL:      pgCfg.MustString("DBURL"),
		MaxConns: int32(pgCfg.MayInt("MAX_CONNS", 2)),
		SlowMs:   pgCfg.MayInt("SLOW_MS", 500),
	}, tracer, nil)
	if err != nil {
		l.Panic().Err(err).Msg("pg.Open failed")
	}
	defer db.Close()

	repo := repokit.MustBind(schedrepo.NewPG(), db.Querier())
	svc := remsvc.New(repo, remsvc.NewLogNotifier(), remsvc.Config{
		Every:  remCfg.MayDuration("EVERY", time.Minute),
		Window: remCfg.MayDuration("WINDOW", time.Minute),
	})

	if err := svc.Run(ctx); err != nil && err != context.Canceled {
		l.Panic().Err(err).Msg("reminder loop stopped")
	}
}
