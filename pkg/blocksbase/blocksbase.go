// Copyright 2025, Command Line Inc.
// SPDX-License-Identifier: Apache-2.0

package blocksbase

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

// set by main-blocksctl.go
var BlocksVersion = "0.0.0"
var BuildTime = "0"

const (
	BlocksDevVarName           = "BLOCKS_DEV"
	BlocksConfigVersionVarName = "BLOCKS_CONFIG_VERSION"
	BlocksEnvFileVarName       = "BLOCKS_ENVFILE"
)

const DefaultEnvFile = ".env"
const DefaultConfigVersion = "3.40.1"

var Dev_VarCache string           // caches BLOCKS_DEV
var ConfigVersion_VarCache string // caches BLOCKS_CONFIG_VERSION

var baseLock = &sync.Mutex{}
var envLoaded bool

// LoadEnv reads the optional env file (BLOCKS_ENVFILE, default ".env") and
// caches the BLOCKS_* variables. Values already present in the environment win.
// A missing env file is not an error.
func LoadEnv() error {
	baseLock.Lock()
	defer baseLock.Unlock()
	envFile := os.Getenv(BlocksEnvFileVarName)
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if _, statErr := os.Stat(envFile); statErr == nil {
		if err := godotenv.Load(envFile); err != nil {
			return err
		}
		log.Printf("[blocksbase] loaded env file %s\n", envFile)
	}
	Dev_VarCache = os.Getenv(BlocksDevVarName)
	ConfigVersion_VarCache = os.Getenv(BlocksConfigVersionVarName)
	envLoaded = true
	return nil
}

func IsDevMode() bool {
	return Dev_VarCache != ""
}

// GetConfigVersion returns the version string stamped into serialized config files.
func GetConfigVersion() string {
	if ConfigVersion_VarCache != "" {
		return ConfigVersion_VarCache
	}
	return DefaultConfigVersion
}

func IsEnvLoaded() bool {
	baseLock.Lock()
	defer baseLock.Unlock()
	return envLoaded
}
