package main

import (
	"embed"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/logger"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	log := newLevelLogger(logger.NewDefaultLogger(), appLogLevel)
	app := NewAppWithLogger(log)

	err := wails.Run(&options.App{
		Title:  "hullgen",
		Width:  1280,
		Height: 800,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		Logger:    log,
		LogLevel:  appLogLevel,
		OnStartup: app.startup,
		Bind: []interface{}{
			app,
		},
	})
	if err != nil {
		log.Fatal("Error: " + err.Error())
	}
}
