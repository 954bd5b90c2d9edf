package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/ledgerclient/internal/client/cli"
	"github.com/dmitrijs2005/ledgerclient/internal/client/config"
	"github.com/dmitrijs2005/ledgerclient/internal/logging"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.NewTextLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	ctx := context.Background()

	app, err := cli.NewApp(cfg, logger, os.Stdin, os.Stdout)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
