// Copyright (c) 2024 The rxdeb developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/btcsuite/btclog"

	"github.com/radiantblockchain/rxdeb/rxscript"
)

// backendLog is the logging backend used to create all subsystem loggers.
var backendLog = btclog.NewBackend(os.Stderr)

// Subsystem loggers.
var (
	rxdbLog = backendLog.Logger("RXDB")
	scrpLog = backendLog.Logger("SCRP")
)

func init() {
	rxscript.UseLogger(scrpLog)
}

// setLogLevel sets the logging level of all subsystem loggers to the passed
// level name.  An invalid level name is an error.
func setLogLevel(levelName string) error {
	level, ok := btclog.LevelFromString(levelName)
	if !ok {
		return fmt.Errorf("invalid debug level %q", levelName)
	}

	rxdbLog.SetLevel(level)
	scrpLog.SetLevel(level)
	return nil
}
