package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"lichhen/internal/platform/config"
	"lichhen/internal/platform/logger"
	phttp "lichhen/internal/platform/net/http"
	"lichhen/internal/platform/net/middleware"
	"lichhen/internal/platform/store/pg"

	"lichhen/internal/core/rules"
	"lichhen/internal/core/schedule"
	"lichhen/internal/modkit/repokit"
	schedhttp "lichhen/internal/services/schedules/http"
	schedrepo "lichhen/internal/services/schedules/repo"
	schedsvc "lichhen/internal/services/schedules/service"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")

	// bring up logging early
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var tracer pg.QueryTracer
	if pgCfg.MayBool("LOG_SQL", false) {
		tracer = pg.Tracer(*l)
	}
	db, err := pg.Open(ctx, pg.Config{
		URL:      pgCfg.MustString("DBURL"),
		MaxConns: int32(pgCfg.MayInt("MAX_CONNS", 4)),
		SlowMs:   pgCfg.MayInt("SLOW_MS", 500),
	}, tracer, nil)
	if err != nil {
		l.Panic().Err(err).Msg("pg.Open failed")
	}
	defer db.Close()

	pipe := schedule.New(rules.MustLoad())
	repo := repokit.MustBind(schedrepo.NewPG(), db.Querier())
	svc := schedsvc.New(pipe, repo)

	// http server (reads CORE_API_PORT)
	srv := phttp.NewServer(apiCfg)

	r := srv.Router()
	r.Use(
		middleware.RequestID,
		middleware.RecoverJSON,
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: 500 * time.Millisecond}),
		middleware.CORS(middleware.CORSOptions{}),
	)
	schedhttp.New(svc).Mount(r)

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
