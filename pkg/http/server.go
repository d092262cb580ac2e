package http

import (
	"context"

	http_router "github.com/lintang-b-s/navigatorx-matrix/pkg/http/router"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/http/router/controllers"
	http_server "github.com/lintang-b-s/navigatorx-matrix/pkg/http/server"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Server struct {
	Log *zap.Logger
}

func NewServer(log *zap.Logger) *Server {
	return &Server{Log: log}
}

// Use starts the API on an errgroup. callers Wait on the returned group.
func (s *Server) Use(
	ctx context.Context,
	useRateLimit bool,
	matrixService controllers.MatrixService,
) (*errgroup.Group, error) {
	config := http_server.Config{
		Port:    viper.GetInt("API_PORT"),
		Timeout: viper.GetDuration("API_TIMEOUT"),
	}
	trusted, err := http_router.ParseTrustedProxies(viper.GetStringSlice("TRUSTED_PROXIES"))
	if err != nil {
		return nil, err
	}
	opts := http_router.Options{
		RateLimit: http_router.RateLimit{
			Enabled:    useRateLimit,
			RPS:        viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:      max(1, viper.GetInt("RATE_LIMIT_RPS")),
			MaxClients: viper.GetInt("RATE_LIMIT_MAX_CLIENTS"),
		},
		TrustedProxies: trusted,
	}

	server := http_router.NewAPI(s.Log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(gctx, config, matrixService, opts)
	})

	return g, nil
}
