package main

import (
	"context"
	"errors"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/semspace/semspace/internal/feed"
	"github.com/semspace/semspace/internal/render"
	"github.com/semspace/semspace/internal/util"
	"github.com/semspace/semspace/pkg/anim"
	"github.com/semspace/semspace/pkg/dataset"
	"github.com/semspace/semspace/pkg/graph"
	"github.com/semspace/semspace/pkg/interact"
	"github.com/semspace/semspace/pkg/logger"
	"github.com/semspace/semspace/pkg/logger/console"
	"github.com/semspace/semspace/pkg/scene"
	"github.com/semspace/semspace/pkg/space"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)
	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	ctx := context.Background()

	var src dataset.Source
	if url := util.GetEnvString("DATASET_URL", ""); url != "" {
		src = dataset.NewWebSource(url)
	} else {
		src = dataset.FileSource{Path: util.GetEnvString("DATASET_PATH", "embeddings.json")}
	}

	d, err := dataset.Load(ctx, src)
	if err != nil {
		logger.Fatal("Failed to load dataset", "err", err)
	}
	if err := d.Normalize(space.DefaultTargetExtent); err != nil {
		logger.Fatal("Failed to normalize dataset", "err", err)
	}

	threshold := util.GetEnvNumeric("SIMILARITY_THRESHOLD", graph.DefaultSimilarityThreshold)
	edges := graph.BuildEdges(d, threshold)
	stats := graph.ComputeStats(d, edges)
	logger.Info("Graph built", "nodes", stats.Nodes, "edges", stats.Edges)

	s := scene.Build(d, edges)
	engine := interact.New(d, s)

	var publisher *feed.Publisher
	var onStats render.StatsFunc
	if feedURL := util.GetEnvString("FEED_URL", ""); feedURL != "" {
		publisher = feed.NewPublisher(feedURL)
		publisher.Start(ctx)
		defer publisher.Stop()
		onStats = func(st render.Stats) { publisher.Publish(st) }
	}

	width := util.GetEnvInt("VIEWER_WIDTH", 1280)
	height := util.GetEnvInt("VIEWER_HEIGHT", 800)
	game, err := render.NewGame(s, engine, render.GameOptions{
		Width:   width,
		Height:  height,
		Anim:    anim.Config{},
		OnStats: onStats,
	})
	if err != nil {
		logger.Fatal("Failed to init viewer", "err", err)
	}
	defer game.Loop().Stop()

	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle("semspace")

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Fatal("Viewer exited", "err", err)
	}
}
