// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/wavetermdev/waveblocks/cmd/blocksctl/cmd"
	"github.com/wavetermdev/waveblocks/pkg/blocksbase"
)

// set by the build
var BlocksVersion = "0.0.0"
var BuildTime = "0"

func main() {
	blocksbase.BlocksVersion = BlocksVersion
	blocksbase.BuildTime = BuildTime
	cmd.Execute()
}
