// Copyright (c) 2024 The rxdeb developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/radiantblockchain/rxdeb/rxscript"
)

// repl drives the interactive step debugger over an engine.
type repl struct {
	vm       *rxscript.Engine
	artifact *Artifact
	in       *bufio.Scanner
	out      io.Writer
	done     bool
	lastErr  error
}

// newRepl returns a REPL bound to the given engine and streams.
func newRepl(vm *rxscript.Engine, artifact *Artifact, in io.Reader, out io.Writer) *repl {
	return &repl{
		vm:       vm,
		artifact: artifact,
		in:       bufio.NewScanner(in),
		out:      out,
	}
}

// run processes commands until quit or end of input.  It returns the final
// execution error, which is nil when the scripts verified.
func (r *repl) run() error {
	fmt.Fprintln(r.out, "rxdeb interactive debugger; type 'help' for commands")
	r.printPC()

	for {
		fmt.Fprint(r.out, "rxdeb> ")
		if !r.in.Scan() {
			break
		}

		line := strings.TrimSpace(r.in.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "help", "?":
			r.printHelp()

		case "step", "s":
			r.step()

		case "run", "r":
			for !r.done {
				r.step()
			}

		case "rewind", "b":
			if !r.vm.Rewind() {
				fmt.Fprintln(r.out, "already at the start")
				continue
			}
			r.done = false
			r.lastErr = nil
			r.printPC()

		case "reset":
			r.vm.Reset()
			r.done = false
			r.lastErr = nil
			r.printPC()

		case "stack":
			r.printStack(r.vm.GetStack())

		case "altstack":
			r.printStack(r.vm.GetAltStack())

		case "dis":
			for idx := 0; ; idx++ {
				dis, err := r.vm.DisasmScript(idx)
				if err != nil {
					break
				}
				fmt.Fprint(r.out, dis)
			}

		case "ctx":
			r.printContext()

		case "quit", "q", "exit":
			return r.finalError()

		default:
			fmt.Fprintf(r.out, "unknown command %q; type 'help'\n",
				fields[0])
		}
	}

	return r.finalError()
}

// step executes one opcode and reports the result.
func (r *repl) step() {
	if r.done {
		fmt.Fprintln(r.out, "execution has finished")
		return
	}

	done, err := r.vm.Step()
	if err != nil {
		r.done = true
		r.lastErr = err
		fmt.Fprintf(r.out, "error: %v (%s)\n", err,
			rxscript.ErrorCodeOf(err))
		return
	}
	if done {
		r.done = true
		r.lastErr = r.vm.CheckErrorCondition(true)
		if r.lastErr != nil {
			fmt.Fprintf(r.out, "script failed: %v (%s)\n", r.lastErr,
				rxscript.ErrorCodeOf(r.lastErr))
		} else {
			fmt.Fprintln(r.out, "script succeeded")
		}
		return
	}
	r.printPC()
}

// printPC shows the next opcode to execute and, when an artifact with a
// source map is loaded, the matching source location.
func (r *repl) printPC() {
	dis, err := r.vm.DisasmPC()
	if err != nil {
		return
	}
	fmt.Fprintln(r.out, dis)

	if r.artifact != nil {
		_, byteIdx := r.vm.PC()
		if entry, ok := r.artifact.SourceLocation(int(byteIdx)); ok {
			fmt.Fprintf(r.out, "  at %s:%d:%d (%s)\n", entry.File,
				entry.Line, entry.Column, entry.Function)
		}
	}
}

// printStack dumps the passed stack contents top first.
func (r *repl) printStack(items [][]byte) {
	if len(items) == 0 {
		fmt.Fprintln(r.out, "(empty)")
		return
	}
	for i := len(items) - 1; i >= 0; i-- {
		item := items[i]
		if len(item) == 0 {
			fmt.Fprintf(r.out, "%3d: <empty>\n", len(items)-1-i)
			continue
		}
		fmt.Fprintf(r.out, "%3d: %s\n", len(items)-1-i,
			hex.EncodeToString(item))
	}
}

// printContext summarizes the execution context bound to the engine.
func (r *repl) printContext() {
	ctx := r.vm.Context()
	if ctx == nil {
		fmt.Fprintln(r.out, "no execution context")
		return
	}

	tx := ctx.Tx()
	fmt.Fprintf(r.out, "input index: %d\n", ctx.InputIndex())
	fmt.Fprintf(r.out, "tx version: %d, locktime: %d\n", tx.Version,
		tx.LockTime)
	fmt.Fprintf(r.out, "inputs: %d, outputs: %d\n", ctx.TxInputCount(),
		ctx.TxOutputCount())
	for i := 0; i < ctx.TxInputCount(); i++ {
		value, _ := ctx.UtxoValue(i)
		script, _ := ctx.UtxoBytecode(i)
		fmt.Fprintf(r.out, "  utxo[%d]: value %d, script %d bytes\n", i,
			value, len(script))
	}
}

func (r *repl) printHelp() {
	fmt.Fprint(r.out, `commands:
  step (s)     execute the next opcode
  rewind (b)   undo the last step
  run (r)      run to completion
  reset        restart from the beginning
  stack        show the data stack
  altstack     show the alternate stack
  dis          disassemble all scripts
  ctx          show the execution context
  quit (q)     exit
`)
}

// finalError reports the verification verdict of the session.
func (r *repl) finalError() error {
	if !r.done {
		return nil
	}
	return r.lastErr
}
