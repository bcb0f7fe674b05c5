//go:build js && wasm

package wasmhost

import (
	"strings"
	"syscall/js"
)

// Console is an io.Writer that sends each write to console.log.
type Console struct{}

func (Console) Write(p []byte) (int, error) {
	js.Global().Get("console").Call("log", strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
