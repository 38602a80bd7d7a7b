package main

import (
	"flag"
	"fmt"
	"os"

	"HurstLab/internal/di"
	"HurstLab/pkg/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	path := flag.String("config", "config/config.yaml", "path to the YAML config")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hurstlab: load config %s: %v\n", *path, err)
		return 2
	}

	app, err := di.InitializeApp(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hurstlab: init (source=%s cache=%s): %v\n", cfg.Source.Type, cfg.Cache.Backend, err)
		return 1
	}
	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "hurstlab: %v\n", err)
		return 1
	}
	return 0
}
