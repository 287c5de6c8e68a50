// Copyright (c) 2024 The rxdeb developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rxscript

import (
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/radiantblockchain/rxdeb/wire"
)

// Ref is a 36-byte reference to a specific transaction output: a 32-byte
// txid stored exactly as it appears on the wire followed by a 4-byte little
// endian output index.  Two references are equal iff they are byte equal,
// which the array representation gives for free.
type Ref [RefSize]byte

// NewRef builds a reference from an outpoint.
func NewRef(op wire.OutPoint) Ref {
	var ref Ref
	copy(ref[:chainhash.HashSize], op.Hash[:])
	binary.LittleEndian.PutUint32(ref[chainhash.HashSize:], op.Index)
	return ref
}

// makeRef converts a raw 36-byte operand into a Ref.  The caller must have
// validated the length.
func makeRef(b []byte) Ref {
	var ref Ref
	copy(ref[:], b)
	return ref
}

// OutPoint converts the reference back to the outpoint it names.
func (r Ref) OutPoint() wire.OutPoint {
	var op wire.OutPoint
	copy(op.Hash[:], r[:chainhash.HashSize])
	op.Index = binary.LittleEndian.Uint32(r[chainhash.HashSize:])
	return op
}

// String returns the reference in the outpoint form "hash:index".
func (r Ref) String() string {
	return r.OutPoint().String()
}

// refSet is a set of references.
type refSet map[Ref]struct{}

func (s refSet) add(r Ref)           { s[r] = struct{}{} }
func (s refSet) contains(r Ref) bool { _, ok := s[r]; return ok }

// Coin describes an unspent output being consumed by a transaction input.
type Coin struct {
	Value    int64
	PkScript []byte
}

// ScriptSummary carries the precomputed reference and state separator
// information for one script, together with the value of the enclosing
// output so aggregation queries need not look it up again.
type ScriptSummary struct {
	// Value of the enclosing UTXO or output.
	Value int64

	// Reference sets by the opcode that introduced them.
	PushRefs            refSet
	RequireRefs         refSet
	SingletonRefs       refSet
	DisallowSiblingRefs refSet

	// StateSeparatorIndex is the byte offset of the first
	// OP_STATESEPARATOR or StateSeparatorAbsent.
	StateSeparatorIndex uint32

	// CodeScriptHash is the double SHA-256 of the code script view, used
	// by the code-script-hash aggregation queries.
	CodeScriptHash chainhash.Hash

	script []byte
}

// summarizeScript walks a script and classifies every reference operand into
// the summary sets.  The sets are derived solely from the script bytes;
// conditional execution does not change them.  Malformed scripts yield the
// summary of their parseable prefix, matching how the interpreter will fail
// on them later.
func summarizeScript(script []byte, value int64) *ScriptSummary {
	summary := &ScriptSummary{
		Value:               value,
		PushRefs:            make(refSet),
		RequireRefs:         make(refSet),
		SingletonRefs:       make(refSet),
		DisallowSiblingRefs: make(refSet),
		StateSeparatorIndex: StateSeparatorAbsent,
		script:              script,
	}

	tokenizer := MakeScriptTokenizer(script)
	for tokenizer.Next() {
		switch tokenizer.Opcode() {
		case OP_PUSHINPUTREF:
			if len(tokenizer.Data()) == RefSize {
				summary.PushRefs.add(makeRef(tokenizer.Data()))
			}

		case OP_REQUIREINPUTREF:
			if len(tokenizer.Data()) == RefSize {
				summary.RequireRefs.add(makeRef(tokenizer.Data()))
			}

		case OP_PUSHINPUTREFSINGLETON:
			if len(tokenizer.Data()) == RefSize {
				summary.SingletonRefs.add(makeRef(tokenizer.Data()))
			}

		case OP_DISALLOWPUSHINPUTREFSIBLING:
			if len(tokenizer.Data()) == RefSize {
				summary.DisallowSiblingRefs.add(makeRef(tokenizer.Data()))
			}

		case OP_STATESEPARATOR:
			if summary.StateSeparatorIndex == StateSeparatorAbsent {
				summary.StateSeparatorIndex =
					uint32(tokenizer.ByteIndex() - 1)
			}
		}
	}

	summary.CodeScriptHash = chainhash.DoubleHashH(summary.CodeScript())
	return summary
}

// containsRef reports whether the summary references r under either the push
// or singleton opcode.
func (s *ScriptSummary) containsRef(r Ref) bool {
	return s.PushRefs.contains(r) || s.SingletonRefs.contains(r)
}

// CodeScript returns the script portion after the first state separator, or
// the whole script when there is none.
func (s *ScriptSummary) CodeScript() []byte {
	if s.StateSeparatorIndex == StateSeparatorAbsent {
		return s.script
	}
	return s.script[s.StateSeparatorIndex+1:]
}

// StateScript returns the script portion before the first state separator,
// or nil when there is none.
func (s *ScriptSummary) StateScript() []byte {
	if s.StateSeparatorIndex == StateSeparatorAbsent {
		return nil
	}
	return s.script[:s.StateSeparatorIndex]
}

// ExecutionContext holds the precomputed transaction state the introspection
// and reference opcodes query.  It is immutable after construction and safe
// for concurrent readers.
type ExecutionContext struct {
	tx         *wire.MsgTx
	inputCoins []Coin
	inputIndex int

	inputSummaries  []*ScriptSummary
	outputSummaries []*ScriptSummary

	inputRefs  refSet
	outputRefs refSet
}

// NewExecutionContext builds the context for validating tx's input at
// inputIndex given the coins each input spends.  The number of coins must
// match the number of transaction inputs.
func NewExecutionContext(tx *wire.MsgTx, inputCoins []Coin, inputIndex int) (*ExecutionContext, error) {
	if len(inputCoins) != len(tx.TxIn) {
		return nil, fmt.Errorf("input coin count %d does not match "+
			"transaction input count %d", len(inputCoins),
			len(tx.TxIn))
	}
	if inputIndex < 0 || inputIndex >= len(tx.TxIn) {
		str := fmt.Sprintf("transaction input index %d is out of "+
			"range [0, %d)", inputIndex, len(tx.TxIn))
		return nil, scriptError(ErrInvalidTxInputIndex, str)
	}

	ctx := &ExecutionContext{
		tx:         tx,
		inputCoins: inputCoins,
		inputIndex: inputIndex,
		inputRefs:  make(refSet),
		outputRefs: make(refSet),
	}

	ctx.inputSummaries = make([]*ScriptSummary, len(inputCoins))
	for i, coin := range inputCoins {
		summary := summarizeScript(coin.PkScript, coin.Value)
		ctx.inputSummaries[i] = summary
		for ref := range summary.PushRefs {
			ctx.inputRefs.add(ref)
		}
		for ref := range summary.SingletonRefs {
			ctx.inputRefs.add(ref)
		}
	}

	ctx.outputSummaries = make([]*ScriptSummary, len(tx.TxOut))
	for i, txOut := range tx.TxOut {
		summary := summarizeScript(txOut.PkScript, txOut.Value)
		ctx.outputSummaries[i] = summary
		for ref := range summary.PushRefs {
			ctx.outputRefs.add(ref)
		}
		for ref := range summary.SingletonRefs {
			ctx.outputRefs.add(ref)
		}
	}

	return ctx, nil
}

// Tx returns the transaction being validated.
func (ctx *ExecutionContext) Tx() *wire.MsgTx { return ctx.tx }

// InputIndex returns the index of the input being validated.
func (ctx *ExecutionContext) InputIndex() int { return ctx.inputIndex }

// TxVersion returns the transaction version.
func (ctx *ExecutionContext) TxVersion() int32 { return ctx.tx.Version }

// TxLockTime returns the transaction locktime.
func (ctx *ExecutionContext) TxLockTime() uint32 { return ctx.tx.LockTime }

// TxInputCount returns the number of transaction inputs.
func (ctx *ExecutionContext) TxInputCount() int { return len(ctx.tx.TxIn) }

// TxOutputCount returns the number of transaction outputs.
func (ctx *ExecutionContext) TxOutputCount() int { return len(ctx.tx.TxOut) }

// checkInputIndex validates an input index for the queries below.
func (ctx *ExecutionContext) checkInputIndex(i int) error {
	if i < 0 || i >= len(ctx.tx.TxIn) {
		str := fmt.Sprintf("transaction input index %d is out of "+
			"range [0, %d)", i, len(ctx.tx.TxIn))
		return scriptError(ErrInvalidTxInputIndex, str)
	}
	return nil
}

// checkOutputIndex validates an output index for the queries below.
func (ctx *ExecutionContext) checkOutputIndex(i int) error {
	if i < 0 || i >= len(ctx.tx.TxOut) {
		str := fmt.Sprintf("transaction output index %d is out of "+
			"range [0, %d)", i, len(ctx.tx.TxOut))
		return scriptError(ErrInvalidTxOutputIndex, str)
	}
	return nil
}

// UtxoValue returns the value of the coin spent by input i.
func (ctx *ExecutionContext) UtxoValue(i int) (int64, error) {
	if err := ctx.checkInputIndex(i); err != nil {
		return 0, err
	}
	return ctx.inputCoins[i].Value, nil
}

// UtxoBytecode returns the locking script of the coin spent by input i.
func (ctx *ExecutionContext) UtxoBytecode(i int) ([]byte, error) {
	if err := ctx.checkInputIndex(i); err != nil {
		return nil, err
	}
	return ctx.inputCoins[i].PkScript, nil
}

// OutpointTxHash returns the txid of the outpoint spent by input i, as
// stored.
func (ctx *ExecutionContext) OutpointTxHash(i int) ([]byte, error) {
	if err := ctx.checkInputIndex(i); err != nil {
		return nil, err
	}
	return ctx.tx.TxIn[i].PreviousOutPoint.Hash[:], nil
}

// OutpointIndex returns the output index of the outpoint spent by input i.
func (ctx *ExecutionContext) OutpointIndex(i int) (uint32, error) {
	if err := ctx.checkInputIndex(i); err != nil {
		return 0, err
	}
	return ctx.tx.TxIn[i].PreviousOutPoint.Index, nil
}

// InputBytecode returns the unlocking script of input i.
func (ctx *ExecutionContext) InputBytecode(i int) ([]byte, error) {
	if err := ctx.checkInputIndex(i); err != nil {
		return nil, err
	}
	return ctx.tx.TxIn[i].SignatureScript, nil
}

// InputSequence returns the sequence number of input i.
func (ctx *ExecutionContext) InputSequence(i int) (uint32, error) {
	if err := ctx.checkInputIndex(i); err != nil {
		return 0, err
	}
	return ctx.tx.TxIn[i].Sequence, nil
}

// OutputValue returns the value of output j.
func (ctx *ExecutionContext) OutputValue(j int) (int64, error) {
	if err := ctx.checkOutputIndex(j); err != nil {
		return 0, err
	}
	return ctx.tx.TxOut[j].Value, nil
}

// OutputBytecode returns the locking script of output j.
func (ctx *ExecutionContext) OutputBytecode(j int) ([]byte, error) {
	if err := ctx.checkOutputIndex(j); err != nil {
		return nil, err
	}
	return ctx.tx.TxOut[j].PkScript, nil
}

// InputSummary returns the script summary for the coin spent by input i.
func (ctx *ExecutionContext) InputSummary(i int) (*ScriptSummary, error) {
	if err := ctx.checkInputIndex(i); err != nil {
		return nil, err
	}
	return ctx.inputSummaries[i], nil
}

// OutputSummary returns the script summary for output j.
func (ctx *ExecutionContext) OutputSummary(j int) (*ScriptSummary, error) {
	if err := ctx.checkOutputIndex(j); err != nil {
		return nil, err
	}
	return ctx.outputSummaries[j], nil
}

// StateSeparatorIndexUtxo returns the first state separator byte index of
// the coin spent by input i, or StateSeparatorAbsent.
func (ctx *ExecutionContext) StateSeparatorIndexUtxo(i int) (uint32, error) {
	summary, err := ctx.InputSummary(i)
	if err != nil {
		return 0, err
	}
	return summary.StateSeparatorIndex, nil
}

// StateSeparatorIndexOutput returns the first state separator byte index of
// output j, or StateSeparatorAbsent.
func (ctx *ExecutionContext) StateSeparatorIndexOutput(j int) (uint32, error) {
	summary, err := ctx.OutputSummary(j)
	if err != nil {
		return 0, err
	}
	return summary.StateSeparatorIndex, nil
}

// CodeScriptUtxo returns the code script view of the coin spent by input i.
func (ctx *ExecutionContext) CodeScriptUtxo(i int) ([]byte, error) {
	summary, err := ctx.InputSummary(i)
	if err != nil {
		return nil, err
	}
	return summary.CodeScript(), nil
}

// CodeScriptOutput returns the code script view of output j.
func (ctx *ExecutionContext) CodeScriptOutput(j int) ([]byte, error) {
	summary, err := ctx.OutputSummary(j)
	if err != nil {
		return nil, err
	}
	return summary.CodeScript(), nil
}

// StateScriptUtxo returns the state script view of the coin spent by input
// i.  It is empty when the script has no separator.
func (ctx *ExecutionContext) StateScriptUtxo(i int) ([]byte, error) {
	summary, err := ctx.InputSummary(i)
	if err != nil {
		return nil, err
	}
	return summary.StateScript(), nil
}

// StateScriptOutput returns the state script view of output j.  It is empty
// when the script has no separator.
func (ctx *ExecutionContext) StateScriptOutput(j int) ([]byte, error) {
	summary, err := ctx.OutputSummary(j)
	if err != nil {
		return nil, err
	}
	return summary.StateScript(), nil
}

// InputRefs returns the union of references pushed by any input coin script.
func (ctx *ExecutionContext) InputRefs() map[Ref]struct{} { return ctx.inputRefs }

// OutputRefs returns the union of references pushed by any output script.
func (ctx *ExecutionContext) OutputRefs() map[Ref]struct{} { return ctx.outputRefs }

// RefValueSumUtxos returns the sum of the values of the input coins whose
// scripts reference r.
func (ctx *ExecutionContext) RefValueSumUtxos(r Ref) int64 {
	var sum int64
	for _, summary := range ctx.inputSummaries {
		if summary.containsRef(r) {
			sum += summary.Value
		}
	}
	return sum
}

// RefValueSumOutputs returns the sum of the values of the outputs whose
// scripts reference r.
func (ctx *ExecutionContext) RefValueSumOutputs(r Ref) int64 {
	var sum int64
	for _, summary := range ctx.outputSummaries {
		if summary.containsRef(r) {
			sum += summary.Value
		}
	}
	return sum
}

// RefOutputCountUtxos returns the number of input coins whose scripts
// reference r.
func (ctx *ExecutionContext) RefOutputCountUtxos(r Ref) uint32 {
	var count uint32
	for _, summary := range ctx.inputSummaries {
		if summary.containsRef(r) {
			count++
		}
	}
	return count
}

// RefOutputCountOutputs returns the number of outputs whose scripts
// reference r.
func (ctx *ExecutionContext) RefOutputCountOutputs(r Ref) uint32 {
	var count uint32
	for _, summary := range ctx.outputSummaries {
		if summary.containsRef(r) {
			count++
		}
	}
	return count
}

// RefOutputCountZeroValuedUtxos returns the number of zero-valued input
// coins whose scripts reference r.
func (ctx *ExecutionContext) RefOutputCountZeroValuedUtxos(r Ref) uint32 {
	var count uint32
	for _, summary := range ctx.inputSummaries {
		if summary.Value == 0 && summary.containsRef(r) {
			count++
		}
	}
	return count
}

// RefOutputCountZeroValuedOutputs returns the number of zero-valued outputs
// whose scripts reference r.
func (ctx *ExecutionContext) RefOutputCountZeroValuedOutputs(r Ref) uint32 {
	var count uint32
	for _, summary := range ctx.outputSummaries {
		if summary.Value == 0 && summary.containsRef(r) {
			count++
		}
	}
	return count
}

// refTypeOf classifies r against a summary list: 2 when any script carries
// it as a singleton, 1 when carried as a plain push ref, 0 when absent.
func refTypeOf(summaries []*ScriptSummary, r Ref) int64 {
	refType := int64(0)
	for _, summary := range summaries {
		if summary.SingletonRefs.contains(r) {
			return 2
		}
		if summary.PushRefs.contains(r) {
			refType = 1
		}
	}
	return refType
}

// RefTypeUtxos classifies r across the input coin scripts.
func (ctx *ExecutionContext) RefTypeUtxos(r Ref) int64 {
	return refTypeOf(ctx.inputSummaries, r)
}

// RefTypeOutputs classifies r across the output scripts.
func (ctx *ExecutionContext) RefTypeOutputs(r Ref) int64 {
	return refTypeOf(ctx.outputSummaries, r)
}

// CodeScriptHashValueSumUtxos returns the sum of the values of the input
// coins whose code script hashes to csh.
func (ctx *ExecutionContext) CodeScriptHashValueSumUtxos(csh chainhash.Hash) int64 {
	var sum int64
	for _, summary := range ctx.inputSummaries {
		if summary.CodeScriptHash == csh {
			sum += summary.Value
		}
	}
	return sum
}

// CodeScriptHashValueSumOutputs returns the sum of the values of the outputs
// whose code script hashes to csh.
func (ctx *ExecutionContext) CodeScriptHashValueSumOutputs(csh chainhash.Hash) int64 {
	var sum int64
	for _, summary := range ctx.outputSummaries {
		if summary.CodeScriptHash == csh {
			sum += summary.Value
		}
	}
	return sum
}

// CodeScriptHashOutputCountUtxos returns the number of input coins whose
// code script hashes to csh.
func (ctx *ExecutionContext) CodeScriptHashOutputCountUtxos(csh chainhash.Hash) uint32 {
	var count uint32
	for _, summary := range ctx.inputSummaries {
		if summary.CodeScriptHash == csh {
			count++
		}
	}
	return count
}

// CodeScriptHashOutputCountOutputs returns the number of outputs whose code
// script hashes to csh.
func (ctx *ExecutionContext) CodeScriptHashOutputCountOutputs(csh chainhash.Hash) uint32 {
	var count uint32
	for _, summary := range ctx.outputSummaries {
		if summary.CodeScriptHash == csh {
			count++
		}
	}
	return count
}

// CodeScriptHashZeroValuedOutputCountUtxos returns the number of zero-valued
// input coins whose code script hashes to csh.
func (ctx *ExecutionContext) CodeScriptHashZeroValuedOutputCountUtxos(csh chainhash.Hash) uint32 {
	var count uint32
	for _, summary := range ctx.inputSummaries {
		if summary.Value == 0 && summary.CodeScriptHash == csh {
			count++
		}
	}
	return count
}

// CodeScriptHashZeroValuedOutputCountOutputs returns the number of
// zero-valued outputs whose code script hashes to csh.
func (ctx *ExecutionContext) CodeScriptHashZeroValuedOutputCountOutputs(csh chainhash.Hash) uint32 {
	var count uint32
	for _, summary := range ctx.outputSummaries {
		if summary.Value == 0 && summary.CodeScriptHash == csh {
			count++
		}
	}
	return count
}

// singletonCounts returns how many input coin scripts and how many output
// scripts carry r as a singleton reference.
func (ctx *ExecutionContext) singletonCounts(r Ref) (inputs, outputs int) {
	for _, summary := range ctx.inputSummaries {
		if summary.SingletonRefs.contains(r) {
			inputs++
		}
	}
	for _, summary := range ctx.outputSummaries {
		if summary.SingletonRefs.contains(r) {
			outputs++
		}
	}
	return inputs, outputs
}
