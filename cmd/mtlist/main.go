package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"mtlist/internal/config"
	"mtlist/internal/httpapi"
	"mtlist/internal/poller"
	"mtlist/internal/render"
	"mtlist/internal/servers"
	"mtlist/internal/sink"
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, errConfig := config.Load(os.Args[1:])
	if errConfig != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", errConfig)
		return 1
	}

	logger := config.MustCreateLogger(cfg)
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting mtlist", zap.Stringer("config", cfg))

	regions := sink.NewRegions()
	var out sink.Sink = regions
	if cfg.OutputDir != "" {
		fileSink, errSink := sink.NewFileSink(cfg.OutputDir, logger)
		if errSink != nil {
			logger.Error("Failed to setup output dir", zap.Error(errSink))
			return 1
		}
		out = sink.Multi{regions, fileSink}
	}

	directory := servers.NewDirectory(cfg.Render.URL, cfg.Timeout, logger)
	listPoller := poller.New(directory, out, config.NewShared(cfg.Render), cfg.Interval, logger,
		poller.WithRenderOptions(render.WithMoreURL(cfg.MoreURL)))

	router := httpapi.NewRouter(httpapi.Deps{
		Regions: regions,
		Poller:  listPoller,
		Target:  cfg.Render.Target,
		MoreURL: cfg.MoreURL,
	}, logger, cfg.RunMode == config.ModeTest)

	group, ctx := errgroup.WithContext(rootCtx)
	group.Go(func() error {
		return listPoller.Run(ctx)
	})
	group.Go(func() error {
		return httpapi.Serve(ctx, cfg.Listen, router, logger)
	})

	if errRun := group.Wait(); errRun != nil {
		logger.Error("Exited with error", zap.Error(errRun))
		return 1
	}
	return 0
}
