package main

import (
	"context"
	"errors"
	"os"

	"github.com/fsdevblog/transactions-service/internal/app"
	"github.com/fsdevblog/transactions-service/internal/config"
	"github.com/fsdevblog/transactions-service/internal/logger"
)

func main() {
	conf := config.MustLoadConfig()
	l := logger.New(os.Stdout)

	if err := app.New(conf, l).Run(); err != nil {
		if errors.Is(err, context.Canceled) {
			l.Info("graceful shutdown")
			os.Exit(0)
		}
		l.WithError(err).Fatal("app stopped")
	}
}
