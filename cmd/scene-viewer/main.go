package main

import (
	"errors"
	"flag"
	"os"
	"runtime"

	"scenery/internal/config"
	"scenery/internal/logger"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/xlab/closer"
	"go.uber.org/zap"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "assets/render.toml", "render settings file")
	debug := flag.Bool("debug", false, "verbose logging")
	flag.Parse()

	defer closer.Close()
	closer.Bind(logger.Sync)

	closer.Checked(func() error {
		return run(*configPath, *debug)
	}, false)
}

func run(configPath string, debug bool) error {
	if err := logger.Init(debug); err != nil {
		return err
	}

	settings, err := config.Load(configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logger.Log.Info("no settings file, using defaults", zap.String("path", configPath))
		settings = config.Default()
	case err != nil:
		return err
	}
	settings.Debug = settings.Debug || debug
	config.Apply(settings)

	if err := glfw.Init(); err != nil {
		return err
	}
	defer glfw.Terminate()

	window, err := setupWindow(settings.Window)
	if err != nil {
		return err
	}
	defer window.Destroy()

	app, err := setupViewer(window, settings)
	if err != nil {
		return err
	}
	defer app.CleanUp()

	app.Run()
	return nil
}
