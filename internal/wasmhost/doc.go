// Package wasmhost runs the editor controller inside the browser.
//
// [Page] and [Editor] implement the editor host interfaces over the DOM and a
// CodeMirror 5 instance created from the page's textarea. The engine runs in
// the same WebAssembly module, so the browser build needs no server.
//
// The package only builds for GOOS=js GOARCH=wasm.
package wasmhost
