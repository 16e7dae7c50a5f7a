// Package main runs the qrlink HTTP service.
//
//	@title			qrlink API
//	@version		1.0
//	@description	Short links that redirect to a destination and render as QR codes
//	@host			localhost:8080
//	@BasePath		/
//	@schemes		http https
package main

import (
	"log/slog"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	_ "github.com/sp3dr4/qrlink/docs"
	appfx "github.com/sp3dr4/qrlink/internal/fx"
)

func main() {
	fx.New(
		appfx.HTTPServerModules,
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger}
		}),
	).Run()
}
