//go:build js && wasm

// Command seqdia-wasm runs the live editor in the browser.
//
// Build with:
//
//	GOOS=js GOARCH=wasm go build -o seqdia.wasm ./cmd/seqdia-wasm
//
// Copy seqdia.wasm and $(go env GOROOT)/lib/wasm/wasm_exec.js into a
// directory, set [server] wasm_dir to it and open /static/wasm.html on
// "seqdia serve".
package main

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/seqdia/internal/wasmhost"
	"github.com/matzehuels/seqdia/pkg/editor"
	"github.com/matzehuels/seqdia/pkg/engine"
)

func main() {
	logger := log.NewWithOptions(wasmhost.Console{}, log.Options{
		Prefix: "seqdia",
		Level:  log.InfoLevel,
	})

	page, err := wasmhost.NewPage()
	if err != nil {
		logger.Error("cannot start editor", "err", err)
		return
	}

	ctx := context.Background()
	eng := engine.New(engine.WithLogger(logger))
	ctrl := editor.New(eng, page, editor.WithLogger(logger))
	if err := ctrl.Initialize(ctx); err != nil {
		logger.Warn("shared diagram not loaded", "err", err)
	}

	select {}
}
