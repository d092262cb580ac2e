package main

import (
	"encoding/csv"
	"flag"
	"math/rand"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/lintang-b-s/navigatorx-matrix/pkg/concurrent"
	da "github.com/lintang-b-s/navigatorx-matrix/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/engine"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/geo"
	log "github.com/lintang-b-s/navigatorx-matrix/pkg/logger"
	"go.uber.org/zap"
)

var (
	graphFile  = flag.String("graph", "./data/matrix.graph", "graph file written by cmd/preprocessor")
	tableSize  = flag.Int("n", 50, "number of origins and destinations per matrix")
	trials     = flag.Int("trials", 20, "number of random matrices")
	checkCells = flag.Int("check", 100, "cells per matrix compared against point to point queries")
	workers    = flag.Int("workers", 4, "matrices computed concurrently")
	seed       = flag.Int64("seed", 1, "random seed")
	outFile    = flag.String("out", "matrix_eval.csv", "csv output")
)

// randomLocations. segment endpoints of the graph, jittered by up to ~10 m.
func randomLocations(rd *rand.Rand, network *da.RoadNetwork, n int) []geo.Coordinate {
	locs := make([]geo.Coordinate, n)
	for i := range locs {
		seg := network.GetSegment(da.Index(rd.Intn(network.NumberOfSegments())))
		c := network.GetVertexCoordinate(seg.GetFrom())
		locs[i] = geo.NewCoordinate(c.Lat+(rd.Float64()-0.5)*1e-4, c.Lon+(rd.Float64()-0.5)*1e-4)
	}
	return locs
}

func main() {
	flag.Parse()
	logger, err := log.New()
	if err != nil {
		panic(err)
	}

	e, err := engine.NewEngine(engine.Config{
		GraphFile:    *graphFile,
		SnapRadiusKm: 0.05,
		MaxTableSize: *tableSize,
		Workers:      1,
	}, logger)
	if err != nil {
		panic(err)
	}
	re := e.GetRoutingEngine()
	network := re.GetGraph().GetRoadNetwork()

	fout, err := os.Create(*outFile)
	if err != nil {
		panic(err)
	}
	defer fout.Close()
	w := csv.NewWriter(fout)
	defer w.Flush()
	_ = w.Write([]string{"trial", "n", "millis", "forward_searches", "reverse_drains", "checked", "mismatches"})

	lock := sync.Mutex{}

	runTrial := func(trial int) int {
		rd := rand.New(rand.NewSource(*seed + int64(trial)))
		locs := randomLocations(rd, network, *tableSize)
		nodes := make([]da.PhantomNode, len(locs))
		for i, l := range locs {
			nodes[i] = e.GetSnapper().Snap(l)
		}

		before := time.Now()
		m, err := re.ComputeMatrix(nodes, nodes)
		if err != nil {
			logger.Error("matrix failed", zap.Int("trial", trial), zap.Error(err))
			return trial
		}
		took := time.Since(before)

		mismatches := 0
		for k := 0; k < *checkCells; k++ {
			i, j := rd.Intn(len(nodes)), rd.Intn(len(nodes))
			if !nodes[i].IsResolved() || !nodes[j].IsResolved() {
				continue
			}
			want, found, err := re.ShortestPath(nodes[i], nodes[j])
			if err != nil {
				logger.Error("point to point query failed", zap.Int("trial", trial), zap.Error(err))
				continue
			}
			got, isDistance := m.Get(i, j).Distance()
			if found != isDistance || (found && want != got) {
				mismatches++
				logger.Warn("matrix cell differs from point to point query",
					zap.Int("trial", trial), zap.Int("row", i), zap.Int("col", j),
					zap.String("cell", m.Get(i, j).String()), zap.Int32("shortest_path", want))
			}
		}

		stats := m.Stats()
		lock.Lock()
		_ = w.Write([]string{
			strconv.Itoa(trial),
			strconv.Itoa(len(nodes)),
			strconv.FormatInt(took.Milliseconds(), 10),
			strconv.Itoa(stats.ForwardSearches[0] + stats.ForwardSearches[1]),
			strconv.Itoa(stats.ReverseDrains[0] + stats.ReverseDrains[1]),
			strconv.Itoa(*checkCells),
			strconv.Itoa(mismatches),
		})
		lock.Unlock()
		logger.Sugar().Infof("done trial %v in %v", trial, took)
		return trial
	}

	wp := concurrent.NewWorkerPool[int, int](*workers, *trials)
	wp.Start(runTrial)
	for t := 0; t < *trials; t++ {
		wp.AddJob(t)
	}
	wp.Close()
	wp.Wait()
}
