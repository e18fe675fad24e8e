package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/Jacobbrewer1/porter/cmd/bot/config"
	"github.com/Jacobbrewer1/porter/pkg/logging"
)

// PathMetrics is the path for metrics.
const PathMetrics = "/metrics"

// PathHealth is the path for health check.
const PathHealth = "/health"

func main() {
	a, err := InitializeApp()
	if err != nil {
		log.Fatalln(err)
	}
	config.Parse(a.Log())
	a.Info("Starting application")
	if err := a.Run(); err != nil {
		a.Error("Error running application", slog.String(logging.KeyError, err.Error()))
		os.Exit(1)
	}
}
