package main

import (
	"context"
	"log/slog"
	"mindline/app/client/llm"
	"mindline/app/client/mailer"
	"mindline/app/config"
	"mindline/app/server"
	"mindline/app/service/booking"
	"mindline/app/service/directory"
	"mindline/app/service/ledger"
	"mindline/app/service/notify"
	"mindline/app/service/prompt"
	"mindline/app/service/router"
	"mindline/app/service/safety"
	"mindline/app/util/mylog"
	"os"
	"os/signal"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
)

func main() {
	di := do.New()
	defer di.Shutdown()
	defer log.Info("Waiting for services to finish...")

	mylog.Preinit()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	do.ProvideValue(di, appCtx)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)

	if err = mylog.Init(cfg.Log); err != nil {
		log.Fatalf("logging init failed: %v", err)
	}

	do.Provide(di, llm.NewClient)
	do.Provide(di, mailer.NewClient)
	do.Provide(di, safety.New)
	do.Provide(di, directory.New)
	do.Provide(di, ledger.New)
	do.Provide(di, notify.New)
	do.Provide(di, prompt.New)
	do.Provide(di, booking.New)
	do.Provide(di, router.New)
	do.Provide(di, server.New)

	do.Provide(di, func(di *do.Injector) (booking.Ledger, error) {
		return do.MustInvoke[*ledger.Service](di), nil
	})
	do.Provide(di, func(di *do.Injector) (booking.Notifier, error) {
		return do.MustInvoke[*notify.Service](di), nil
	})
	do.Provide(di, func(di *do.Injector) (router.Generator, error) {
		return do.MustInvoke[*llm.Client](di), nil
	})

	slog.Info("Service started")

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		log.Info("Shutting down...")

		cancel()
	}()

	go do.MustInvoke[*notify.Service](di).Run(appCtx)

	go func() {
		if err := do.MustInvoke[*server.Service](di).Run(appCtx); err != nil {
			slog.Error("Server stopped", "error", err)
			cancel()
		}
	}()

	<-appCtx.Done()
}
