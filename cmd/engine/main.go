package main

import (
	"context"
	"errors"
	"flag"

	"github.com/lintang-b-s/navigatorx-matrix/pkg/engine"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/http"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/http/usecases"
	log "github.com/lintang-b-s/navigatorx-matrix/pkg/logger"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	configPath = flag.String("config", "./data", "directory holding config.yaml")
)

func main() {
	flag.Parse()
	if err := util.ReadConfig(*configPath); err != nil {
		panic(err)
	}
	logger, err := log.New()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	matrixEngine, err := engine.NewEngine(engine.Config{
		GraphFile:      viper.GetString("GRAPH_FILE"),
		SnapRadiusKm:   viper.GetFloat64("SNAP_RADIUS_KM"),
		MaxTableSize:   viper.GetInt("MAX_TABLE_SIZE"),
		MaxSearchHeaps: viper.GetInt("MAX_SEARCH_HEAPS"),
		Workers:        viper.GetInt("MATRIX_WORKERS"),
	}, logger)
	if err != nil {
		logger.Fatal("cannot load engine", zap.Error(err))
	}

	matrixService, err := usecases.NewMatrixService(logger, matrixEngine.GetRoutingEngine(), matrixEngine.GetSnapper(),
		viper.GetInt("SNAP_CACHE_SIZE"))
	if err != nil {
		logger.Fatal("cannot create matrix service", zap.Error(err))
	}

	ctx, cleanup, err := NewContext()
	if err != nil {
		panic(err)
	}

	api := http.NewServer(logger)
	g, err := api.Use(ctx, viper.GetBool("USE_RATE_LIMIT"), matrixService)
	if err != nil {
		logger.Fatal("cannot start api", zap.Error(err))
	}

	signal := http.GracefulShutdown()

	logger.Info("Navigatorx Matrix Server Stopped", zap.String("signal", signal.String()))
	cleanup()
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("api stopped with error", zap.Error(err))
	}
}

func NewContext() (context.Context, func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	cb := func() {
		cancel()
	}

	return ctx, cb, nil
}
