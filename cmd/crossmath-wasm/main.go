//go:build js && wasm

// Command crossmath-wasm is the browser build. Serve it with "crossmath serve".
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"

	"github.com/phanxgames/crossmath"
	"github.com/phanxgames/crossmath/gfx"
	"github.com/phanxgames/crossmath/sound"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: log.InfoLevel})
	cfg := crossmath.DefaultConfig(gfx.DefaultProfile)

	err := gfx.Run(context.Background(), gfx.Options{
		Config: cfg,
		Logger: logger,
		Sound:  sound.New(cfg.Sound, logger),
	})
	if err != nil {
		logger.Fatal("run", "err", err)
	}
}
