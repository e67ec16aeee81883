// Package platform holds the host checks and screen geometry shared by the
// app handlers. Only macOS is supported: everything goes through osascript.
package platform

import (
	"fmt"
	"runtime"
)

// ErrUnsupported is returned on hosts without osascript.
var ErrUnsupported = fmt.Errorf("producer is not supported on %s/%s; supported: darwin (use --dry-run elsewhere)", runtime.GOOS, runtime.GOARCH)

// CheckSupported reports whether goos can drive applications through
// osascript.
func CheckSupported(goos string) error {
	if goos != "darwin" {
		return ErrUnsupported
	}
	return nil
}
