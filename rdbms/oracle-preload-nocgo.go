//go:build !cgo || !(linux || darwin)

package rdbms

import (
	"fmt"
	"runtime"
)

func dlopenGlobal(path string) error {
	return fmt.Errorf("unable to load %v: loading the Oracle client from a directory is not supported on %v without cgo", path, runtime.GOOS)
}
