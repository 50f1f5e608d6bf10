package panel

import (
	"log"
	"runtime"
	"sync"

	"golang.design/x/clipboard"
)

var (
	clipboardOnce sync.Once
	clipboardOK   bool
)

// initClipboard initializes the system clipboard once. Unavailable
// clipboards (headless CI, wasm) degrade copy to a no-op.
func initClipboard() {
	clipboardOnce.Do(func() {
		if runtime.GOARCH == "wasm" || runtime.GOOS == "js" {
			return
		}
		if err := clipboard.Init(); err != nil {
			log.Printf("[PANEL] clipboard unavailable: %v", err)
			return
		}
		clipboardOK = true
	})
}

// copyText puts text on the system clipboard when one is available.
func copyText(s string) {
	if !clipboardOK || s == "" {
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(s))
}
