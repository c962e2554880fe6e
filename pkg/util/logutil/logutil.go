// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package logutil

import (
	"log"

	"github.com/wavetermdev/waveblocks/pkg/blocksbase"
)

// DevPrintf logs using log.Printf only if running in dev mode (BLOCKS_DEV set)
func DevPrintf(format string, v ...any) {
	if blocksbase.IsDevMode() {
		log.Printf(format, v...)
	}
}
