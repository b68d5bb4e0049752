//go:build !linux

package main

import (
	"runtime"

	"golang.design/x/hotkey/mainthread"
)

func init() {
	runtime.LockOSThread()
}

// Hotkey registration on darwin and windows must happen from the main
// thread's event loop.
func main() {
	mainthread.Init(execute)
}
