// Copyright (c) 2024 The rxdeb developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// rxdeb is a step debugger for Radiant scripts.  It takes an unlocking and a
// locking script, optionally a spending transaction with its input coins,
// and either verifies the pair to completion or drops into an interactive
// stepping session.
package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/radiantblockchain/rxdeb/rxscript"
	"github.com/radiantblockchain/rxdeb/wire"
)

// version is the release version of the tool.
const version = "0.2.0"

// Exit code layout: 0 success, 1 usage or environment failure, and
// 10+ErrorCode for a classified script failure so wrappers can map verdicts
// stably.
const scriptErrorExitBase = 10

// sigCacheSize bounds the signature cache; hashCacheSize is the initial
// capacity of the sighash cache, which does not evict.
const (
	sigCacheSize  = 1000
	hashCacheSize = 100
)

func main() {
	os.Exit(realMain())
}

func realMain() int {
	cfg, args, err := loadConfig()
	if err != nil {
		return 1
	}

	if cfg.ShowVersion {
		fmt.Printf("rxdeb version %s\n", version)
		return 0
	}

	if err := setLogLevel(cfg.DebugLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	var artifact *Artifact
	if cfg.Artifact != "" {
		artifact, err = loadArtifact(cfg.Artifact)
		if err != nil {
			fmt.Fprintf(os.Stderr, "unable to load artifact: %v\n", err)
			return 1
		}
		rxdbLog.Infof("Loaded contract artifact %q (%d bytecode bytes)",
			artifact.Name, len(artifact.ScriptBytes()))
	}

	// The locking script may come from a positional argument or from the
	// loaded artifact.
	var scriptSig, scriptPubKey []byte
	switch {
	case len(args) >= 2:
		scriptSig, err = parseScriptArg("unlocking", args[0])
		if err == nil {
			scriptPubKey, err = parseScriptArg("locking", args[1])
		}

	case len(args) == 1 && artifact != nil:
		scriptSig, err = parseScriptArg("unlocking", args[0])
		scriptPubKey = artifact.ScriptBytes()

	default:
		err = fmt.Errorf("two script arguments are required " +
			"(or one with --artifact)")
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	tx, coins, err := resolveTransaction(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	var ctx *rxscript.ExecutionContext
	amount := cfg.Amount
	if tx != nil && len(coins) == len(tx.TxIn) {
		ctx, err = rxscript.NewExecutionContext(tx, coins, cfg.InputIndex)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		amount = coins[cfg.InputIndex].Value
	}

	vm, err := rxscript.NewEngine(scriptSig, scriptPubKey, tx,
		cfg.InputIndex, rxscript.StandardVerifyFlags,
		rxscript.NewSigCache(sigCacheSize),
		rxscript.NewHashCache(hashCacheSize), amount, ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCodeForErr(err)
	}
	vm.SetAllowDisabledOpcodes(cfg.AllowDisabled)
	vm.SetHistoryLimit(int(cfg.HistoryDepth))

	if cfg.Interactive {
		session := newRepl(vm, artifact, os.Stdin, os.Stdout)
		if err := session.run(); err != nil {
			return exitCodeForErr(err)
		}
		return 0
	}

	if err := vm.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "verification failed: %v (%s)\n", err,
			rxscript.ErrorCodeOf(err))
		return exitCodeForErr(err)
	}
	rxdbLog.Infof("Verification succeeded after %d operations",
		vm.TotalOps())
	fmt.Println("OK")
	return 0
}

// resolveTransaction produces the spending transaction and input coins from
// the configuration: an inline hex transaction, a remote fetch by txid, or
// neither for free-standing script debugging.
func resolveTransaction(cfg *config) (*wire.MsgTx, []rxscript.Coin, error) {
	var tx *wire.MsgTx

	switch {
	case cfg.Tx != "":
		raw, err := hex.DecodeString(cfg.Tx)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid transaction hex: %v",
				err)
		}
		tx = &wire.MsgTx{}
		if err := tx.Deserialize(bytes.NewReader(raw)); err != nil {
			return nil, nil, fmt.Errorf("unable to deserialize "+
				"transaction: %v", err)
		}

	case cfg.FetchTx != "":
		client, err := dialElectrum(cfg.Electrum, cfg.Proxy,
			cfg.ProxyUser, cfg.ProxyPass)
		if err != nil {
			return nil, nil, err
		}
		defer client.Close()

		rxdbLog.Infof("Fetching transaction %s from %s", cfg.FetchTx,
			cfg.Electrum)
		tx, err = client.FetchTransaction(cfg.FetchTx)
		if err != nil {
			return nil, nil, err
		}

	default:
		return nil, nil, nil
	}

	if cfg.InputIndex < 0 || cfg.InputIndex >= len(tx.TxIn) {
		return nil, nil, fmt.Errorf("input index %d is out of range "+
			"for a transaction with %d inputs", cfg.InputIndex,
			len(tx.TxIn))
	}

	coins := make([]rxscript.Coin, 0, len(cfg.Utxos))
	for _, arg := range cfg.Utxos {
		coin, err := parseUtxoArg(arg)
		if err != nil {
			return nil, nil, err
		}
		coins = append(coins, coin)
	}
	if len(coins) != 0 && len(coins) != len(tx.TxIn) {
		return nil, nil, fmt.Errorf("%d --utxo options given for a "+
			"transaction with %d inputs", len(coins), len(tx.TxIn))
	}

	return tx, coins, nil
}

// exitCodeForErr maps a script failure to its stable process exit code.
func exitCodeForErr(err error) int {
	code := rxscript.ErrorCodeOf(err)
	if code == rxscript.ErrOK {
		return 0
	}
	return scriptErrorExitBase + int(code)
}
