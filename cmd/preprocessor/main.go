package main

import (
	"flag"

	"github.com/lintang-b-s/navigatorx-matrix/pkg/costfunction"
	log "github.com/lintang-b-s/navigatorx-matrix/pkg/logger"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/osmparser"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/preprocessor"
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

	costFunction := costfunction.NewTimeCostFunction(int32(viper.GetInt("U_TURN_PENALTY")))

	osmParser := osmparser.NewOSMParser(costFunction, logger)
	network, err := osmParser.Parse(viper.GetString("OSM_FILE"))
	if err != nil {
		logger.Fatal("cannot parse osm file", zap.Error(err))
	}

	prep := preprocessor.NewPreprocessor(network, costFunction, viper.GetBool("CONTRACT_GRAPH"), logger)
	err = prep.PreProcessing(viper.GetString("GRAPH_FILE"))
	if err != nil {
		logger.Fatal("preprocessing failed", zap.Error(err))
	}

	logger.Sugar().Infof("Preprocessing completed successfully.")
}
