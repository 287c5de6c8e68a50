// Copyright (c) 2024 The rxdeb developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	flags "github.com/jessevdk/go-flags"

	"github.com/radiantblockchain/rxdeb/chaincfg"
	"github.com/radiantblockchain/rxdeb/rxscript"
)

// config defines the configuration options for rxdeb.
//
// See loadConfig for details on the configuration load process.
type config struct {
	ShowVersion   bool     `short:"V" long:"version" description:"Display version information and exit"`
	Network       string   `long:"network" description:"Network to use {mainnet, testnet, regtest}" default:"mainnet"`
	DebugLevel    string   `short:"d" long:"debuglevel" description:"Logging level {trace, debug, info, warn, error, critical}" default:"info"`
	Interactive   bool     `short:"i" long:"interactive" description:"Start the step debugger REPL instead of running to completion"`
	AllowDisabled bool     `long:"allowdisabled" description:"Execute opcodes the active flag set disables (debugging only)"`
	HistoryDepth  uint32   `long:"historydepth" description:"Cap the rewind history at this many steps (0 = unlimited)"`
	Artifact      string   `long:"artifact" description:"Path to a compiled contract artifact (JSON) for source-level display"`
	Tx            string   `long:"tx" description:"Spending transaction as hex"`
	FetchTx       string   `long:"fetchtx" description:"Fetch the spending transaction with this txid from the remote UTXO endpoint"`
	InputIndex    int      `long:"idx" description:"Input index being validated" default:"0"`
	Amount        int64    `long:"amount" description:"Value of the output being spent"`
	Utxos         []string `long:"utxo" description:"Coin spent by the matching input as value:scripthex (repeat once per input)"`
	Electrum      string   `long:"electrum" description:"Remote UTXO endpoint as host:port (default chosen by network)"`
	Proxy         string   `long:"proxy" description:"Connect to the remote UTXO endpoint via SOCKS5 proxy (host:port)"`
	ProxyUser     string   `long:"proxyuser" description:"Username for proxy server"`
	ProxyPass     string   `long:"proxypass" default-mask:"-" description:"Password for proxy server"`

	params *chaincfg.Params
}

// loadConfig initializes and parses the config using command line options.
// The positional arguments are the unlocking and locking scripts as hex.
func loadConfig() (*config, []string, error) {
	cfg := config{}
	parser := flags.NewParser(&cfg, flags.Default)
	parser.Usage = "[OPTIONS] <unlocking-script-hex> <locking-script-hex>"

	remainingArgs, err := parser.Parse()
	if err != nil {
		return nil, nil, err
	}

	params, err := chaincfg.ParamsForName(cfg.Network)
	if err != nil {
		return nil, nil, err
	}
	cfg.params = params

	if cfg.Electrum == "" {
		cfg.Electrum = params.DefaultElectrumServer
	}

	return &cfg, remainingArgs, nil
}

// parseScriptArg decodes a positional script argument from hex.
func parseScriptArg(name, arg string) ([]byte, error) {
	script, err := hex.DecodeString(strings.TrimSpace(arg))
	if err != nil {
		return nil, fmt.Errorf("invalid %s script hex: %v", name, err)
	}
	return script, nil
}

// parseUtxoArg decodes a --utxo option of the form value:scripthex.
func parseUtxoArg(arg string) (rxscript.Coin, error) {
	parts := strings.SplitN(arg, ":", 2)
	if len(parts) != 2 {
		return rxscript.Coin{}, fmt.Errorf("utxo %q is not of the "+
			"form value:scripthex", arg)
	}

	value, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return rxscript.Coin{}, fmt.Errorf("invalid utxo value %q: %v",
			parts[0], err)
	}

	script, err := hex.DecodeString(parts[1])
	if err != nil {
		return rxscript.Coin{}, fmt.Errorf("invalid utxo script hex: %v",
			err)
	}

	return rxscript.Coin{Value: value, PkScript: script}, nil
}
