package util

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

func setDefaults() {
	viper.SetDefault("API_PORT", 6060)
	viper.SetDefault("API_TIMEOUT", "30s")
	viper.SetDefault("HTTP_SERVER_READ_TIMEOUT", 10*time.Second)
	viper.SetDefault("HTTP_SERVER_WRITE_TIMEOUT", 10*time.Second)
	viper.SetDefault("HTTP_SERVER_IDLE_TIMEOUT", 60*time.Second)
	viper.SetDefault("HTTP_SERVER_READ_HEADER_TIMEOUT", 5*time.Second)

	viper.SetDefault("GRAPH_FILE", "./data/matrix.graph")
	viper.SetDefault("OSM_FILE", "./data/map.osm.pbf")
	viper.SetDefault("CONTRACT_GRAPH", true)
	viper.SetDefault("U_TURN_PENALTY", 200)

	viper.SetDefault("SNAP_RADIUS_KM", 0.05)
	viper.SetDefault("SNAP_CACHE_SIZE", 1<<16)
	viper.SetDefault("MAX_TABLE_SIZE", 100)
	viper.SetDefault("MAX_SEARCH_HEAPS", 4096)
	viper.SetDefault("MATRIX_WORKERS", 1)

	viper.SetDefault("USE_RATE_LIMIT", false)
	viper.SetDefault("RATE_LIMIT_RPS", 20)
	viper.SetDefault("RATE_LIMIT_MAX_CLIENTS", 10000)
	viper.SetDefault("TRUSTED_PROXIES", []string{})
	viper.SetDefault("LOG_LEVEL", "info")
}

// ReadConfig. loads config.yaml from configPath (if any) on top of the defaults; env vars win.
func ReadConfig(configPath string) error {
	setDefaults()
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("fatal error config file: %w", err)
	}
	return nil
}
