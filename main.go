package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/formforge/formforge/app"
	"github.com/formforge/formforge/config"
	"github.com/formforge/formforge/database"
	"github.com/formforge/formforge/httpx"
	"github.com/formforge/formforge/log"
	"github.com/formforge/formforge/routes"
	"github.com/formforge/formforge/store"
	"github.com/formforge/formforge/submit"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("main.db.open:", err)
	}
	defer db.Close()

	bearerServer := httpx.NewBearerServer(db, cfg)

	app := app.App{
		DB:           db,
		BearerServer: bearerServer,
		Config:       cfg,
		Store:        store.NewSQL(db),
		Guard:        submit.Guard{MinDwell: cfg.MinDwell},
		Limiter:      submit.NewLimiter(cfg.SubmitRate, time.Hour),
	}

	handler := routes.Wire(app)

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("Listening on " + cfg.Url())
	return srv.ListenAndServe()
}
