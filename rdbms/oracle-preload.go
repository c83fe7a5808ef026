//go:build cgo && (linux || darwin)

package rdbms

/*
#cgo linux LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdlib.h>
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// dlopenGlobal loads the shared library at path with its symbols made available to libraries
// loaded later, so the OCI plugin binds to this copy of the client.
func dlopenGlobal(path string) error {
	cs := C.CString(path)
	defer C.free(unsafe.Pointer(cs))
	if h := C.dlopen(cs, C.RTLD_NOW|C.RTLD_GLOBAL); h == nil {
		return fmt.Errorf("unable to load %v: %v", path, C.GoString(C.dlerror()))
	}
	return nil
}
