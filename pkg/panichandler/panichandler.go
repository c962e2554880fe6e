// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package panichandler

import (
	"fmt"
	"log"
	"runtime/debug"
)

// PanicHandler converts a recovered value into an error (wrapping the panic value if it is an error).
// Returns nil when recoverVal is nil, so it can be called directly with recover().
//
//	defer func() {
//	    if perr := panichandler.PanicHandler("op", recover()); perr != nil {
//	        rtnErr = perr
//	    }
//	}()
func PanicHandler(debugStr string, recoverVal any) error {
	if recoverVal == nil {
		return nil
	}
	log.Printf("[panic] in %s: %v\n", debugStr, recoverVal)
	debug.PrintStack()
	if err, ok := recoverVal.(error); ok {
		return fmt.Errorf("panic in %s: %w", debugStr, err)
	}
	return fmt.Errorf("panic in %s: %v", debugStr, recoverVal)
}
