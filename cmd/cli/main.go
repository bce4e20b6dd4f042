package main

import (
	"context"
	"log"
	"os"

	"github.com/avoronin/facadekeeper/internal/buildinfo"
	"github.com/avoronin/facadekeeper/internal/cli"
	"github.com/avoronin/facadekeeper/internal/config"
	"github.com/avoronin/facadekeeper/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := cli.NewApp(ctx, cfg, logging.NewDefault())
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)
}
