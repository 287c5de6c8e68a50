// Copyright (c) 2024 The rxdeb developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rxscript

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/radiantblockchain/rxdeb/wire"
)

// refOpScript assembles a reference opcode with its inline 36-byte operand,
// followed by any trailing opcodes.
func refOpScript(op byte, ref Ref, tail ...byte) []byte {
	script := make([]byte, 0, refOpLen+len(tail))
	script = append(script, op)
	script = append(script, ref[:]...)
	script = append(script, tail...)
	return script
}

// testRef returns a distinctive reference that does not collide with the
// outpoints produced by newTestTx.
func testRef(tag byte) Ref {
	var ref Ref
	for i := range ref {
		ref[i] = tag
	}
	return ref
}

// TestRefRoundTrip ensures the outpoint <-> reference conversion is a
// bijection.
func TestRefRoundTrip(t *testing.T) {
	t.Parallel()

	var hash chainhash.Hash
	for i := range hash {
		hash[i] = byte(255 - i)
	}
	op := wire.OutPoint{Hash: hash, Index: 0xdeadbeef}

	ref := NewRef(op)
	if got := ref.OutPoint(); got != op {
		t.Fatalf("round trip mismatch: got %v, want %v", got, op)
	}
}

// TestScriptSummary ensures reference classification and the state
// separator index are derived from the script bytes.
func TestScriptSummary(t *testing.T) {
	t.Parallel()

	refA := testRef(0xa1)
	refB := testRef(0xb2)

	script := refOpScript(OP_PUSHINPUTREF, refA)
	script = append(script, refOpScript(OP_PUSHINPUTREFSINGLETON, refB)...)
	script = append(script, OP_STATESEPARATOR)
	script = append(script, refOpScript(OP_REQUIREINPUTREF, refA)...)
	script = append(script, OP_1)

	summary := summarizeScript(script, 900)
	if !summary.PushRefs.contains(refA) {
		t.Error("push ref missing from summary")
	}
	if !summary.SingletonRefs.contains(refB) {
		t.Error("singleton ref missing from summary")
	}
	if !summary.RequireRefs.contains(refA) {
		t.Error("require ref missing from summary")
	}

	wantSep := uint32(2 * refOpLen)
	if summary.StateSeparatorIndex != wantSep {
		t.Errorf("state separator index %d, want %d",
			summary.StateSeparatorIndex, wantSep)
	}

	wantState := script[:wantSep]
	wantCode := script[wantSep+1:]
	if string(summary.StateScript()) != string(wantState) {
		t.Error("state script view mismatch")
	}
	if string(summary.CodeScript()) != string(wantCode) {
		t.Error("code script view mismatch")
	}
	if summary.CodeScriptHash != chainhash.DoubleHashH(wantCode) {
		t.Error("code script hash mismatch")
	}

	// No separator: the code script is the whole script and the state
	// script is empty.
	flat := summarizeScript([]byte{OP_1, OP_2}, 0)
	if flat.StateSeparatorIndex != StateSeparatorAbsent {
		t.Error("unexpected separator in flat script")
	}
	if len(flat.StateScript()) != 0 {
		t.Error("flat script has a state script")
	}
	if len(flat.CodeScript()) != 2 {
		t.Error("flat script code view truncated")
	}
}

// refTestContext builds a one-input transaction whose coin script and
// output scripts are configurable and returns the tx plus coins.
func refTestContext(t *testing.T, coinScript []byte, outScripts ...[]byte) (*wire.MsgTx, []Coin) {
	t.Helper()

	tx := wire.NewMsgTx(wire.TxVersion)
	var hash chainhash.Hash
	hash[0] = 0x01
	tx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: wire.OutPoint{Hash: hash, Index: 0},
		Sequence:         wire.MaxTxInSequenceNum,
	})
	for i, script := range outScripts {
		tx.AddTxOut(&wire.TxOut{
			Value:    int64(500 * (i + 1)),
			PkScript: script,
		})
	}
	coins := []Coin{{Value: 1000, PkScript: coinScript}}
	return tx, coins
}

// TestPushInputRef covers both the success and the not-found paths.
func TestPushInputRef(t *testing.T) {
	t.Parallel()

	// Referencing the outpoint of the input being validated succeeds and
	// leaves the reference on the stack.
	var hash chainhash.Hash
	hash[0] = 0x01
	selfRef := NewRef(wire.OutPoint{Hash: hash, Index: 0})

	coinScript := refOpScript(OP_PUSHINPUTREF, selfRef, OP_DROP, OP_1)
	tx, coins := refTestContext(t, coinScript, []byte{OP_1})
	ctx, err := NewExecutionContext(tx, coins, 0)
	if err != nil {
		t.Fatalf("NewExecutionContext: %v", err)
	}

	result := VerifyScript(nil, coinScript, tx, 0, coins[0].Value,
		testFlags, nil, nil, ctx)
	if !result.Success {
		t.Fatalf("verification failed: %v", result.Err)
	}

	// A reference that names neither the outpoint nor any input script
	// is rejected.  The foreign script is executed against a context
	// whose coin carries no references.
	foreign := refOpScript(OP_PUSHINPUTREF, testRef(0xcc), OP_DROP, OP_1)
	tx, coins = refTestContext(t, []byte{OP_1}, []byte{OP_1})
	ctx, err = NewExecutionContext(tx, coins, 0)
	if err != nil {
		t.Fatalf("NewExecutionContext: %v", err)
	}

	result = VerifyScript(nil, foreign, tx, 0, coins[0].Value, testFlags,
		nil, nil, ctx)
	if !IsErrorCode(result.Err, ErrReferenceNotFound) {
		t.Fatalf("got %v, want ErrReferenceNotFound", result.Err)
	}
}

// TestRequireInputRef covers the validation-only opcode.
func TestRequireInputRef(t *testing.T) {
	t.Parallel()

	var hash chainhash.Hash
	hash[0] = 0x01
	selfRef := NewRef(wire.OutPoint{Hash: hash, Index: 0})

	// OP_REQUIREINPUTREF pushes nothing, so the trailing OP_1 is the
	// only stack item.
	script := refOpScript(OP_REQUIREINPUTREF, selfRef, OP_1)
	tx, coins := refTestContext(t, script, []byte{OP_1})
	ctx, err := NewExecutionContext(tx, coins, 0)
	if err != nil {
		t.Fatalf("NewExecutionContext: %v", err)
	}

	result := VerifyScript(nil, script, tx, 0, coins[0].Value, testFlags,
		nil, nil, ctx)
	if !result.Success {
		t.Fatalf("verification failed: %v", result.Err)
	}
	if result.StackDepth != 1 {
		t.Fatalf("stack depth %d, want 1", result.StackDepth)
	}

	missing := refOpScript(OP_REQUIREINPUTREF, testRef(0xdd), OP_1)
	tx, coins = refTestContext(t, []byte{OP_1}, []byte{OP_1})
	ctx, err = NewExecutionContext(tx, coins, 0)
	if err != nil {
		t.Fatalf("NewExecutionContext: %v", err)
	}
	result = VerifyScript(nil, missing, tx, 0, coins[0].Value, testFlags,
		nil, nil, ctx)
	if !IsErrorCode(result.Err, ErrReferenceNotFound) {
		t.Fatalf("got %v, want ErrReferenceNotFound", result.Err)
	}
}

// TestSingletonRef requires exactly one input and one output carrier.
func TestSingletonRef(t *testing.T) {
	t.Parallel()

	refS := testRef(0x51)
	coinScript := refOpScript(OP_PUSHINPUTREFSINGLETON, refS, OP_DROP, OP_1)
	carrierOut := refOpScript(OP_PUSHINPUTREFSINGLETON, refS, OP_DROP, OP_1)

	// One input carrier, one output carrier: valid.
	tx, coins := refTestContext(t, coinScript, carrierOut)
	ctx, err := NewExecutionContext(tx, coins, 0)
	if err != nil {
		t.Fatalf("NewExecutionContext: %v", err)
	}
	result := VerifyScript(nil, coinScript, tx, 0, coins[0].Value,
		testFlags, nil, nil, ctx)
	if !result.Success {
		t.Fatalf("verification failed: %v", result.Err)
	}

	// No output carrier: mismatch.
	tx, coins = refTestContext(t, coinScript, []byte{OP_1})
	ctx, err = NewExecutionContext(tx, coins, 0)
	if err != nil {
		t.Fatalf("NewExecutionContext: %v", err)
	}
	result = VerifyScript(nil, coinScript, tx, 0, coins[0].Value,
		testFlags, nil, nil, ctx)
	if !IsErrorCode(result.Err, ErrSingletonMismatch) {
		t.Fatalf("got %v, want ErrSingletonMismatch", result.Err)
	}

	// Two output carriers: mismatch.
	tx, coins = refTestContext(t, coinScript, carrierOut, carrierOut)
	ctx, err = NewExecutionContext(tx, coins, 0)
	if err != nil {
		t.Fatalf("NewExecutionContext: %v", err)
	}
	result = VerifyScript(nil, coinScript, tx, 0, coins[0].Value,
		testFlags, nil, nil, ctx)
	if !IsErrorCode(result.Err, ErrSingletonMismatch) {
		t.Fatalf("got %v, want ErrSingletonMismatch", result.Err)
	}
}

// TestDisallowPushInputRef rejects references present elsewhere in the
// transaction.
func TestDisallowPushInputRef(t *testing.T) {
	t.Parallel()

	refD := testRef(0x77)

	// The reference appears in an output: disallowed.
	script := refOpScript(OP_DISALLOWPUSHINPUTREF, refD, OP_1)
	carrierOut := refOpScript(OP_PUSHINPUTREF, refD, OP_DROP, OP_1)
	tx, coins := refTestContext(t, script, carrierOut)
	ctx, err := NewExecutionContext(tx, coins, 0)
	if err != nil {
		t.Fatalf("NewExecutionContext: %v", err)
	}
	result := VerifyScript(nil, script, tx, 0, coins[0].Value, testFlags,
		nil, nil, ctx)
	if !IsErrorCode(result.Err, ErrInvalidReference) {
		t.Fatalf("got %v, want ErrInvalidReference", result.Err)
	}

	// Absent everywhere else: allowed.
	tx, coins = refTestContext(t, script, []byte{OP_1})
	ctx, err = NewExecutionContext(tx, coins, 0)
	if err != nil {
		t.Fatalf("NewExecutionContext: %v", err)
	}
	result = VerifyScript(nil, script, tx, 0, coins[0].Value, testFlags,
		nil, nil, ctx)
	if !result.Success {
		t.Fatalf("verification failed: %v", result.Err)
	}
}

// TestDisallowSiblingRef rejects a reference carried by more than one
// output.
func TestDisallowSiblingRef(t *testing.T) {
	t.Parallel()

	refD := testRef(0x88)
	script := refOpScript(OP_DISALLOWPUSHINPUTREFSIBLING, refD, OP_1)
	carrierOut := refOpScript(OP_PUSHINPUTREF, refD, OP_DROP, OP_1)

	// One carrying output is fine.
	tx, coins := refTestContext(t, script, carrierOut)
	ctx, err := NewExecutionContext(tx, coins, 0)
	if err != nil {
		t.Fatalf("NewExecutionContext: %v", err)
	}
	result := VerifyScript(nil, script, tx, 0, coins[0].Value, testFlags,
		nil, nil, ctx)
	if !result.Success {
		t.Fatalf("verification failed: %v", result.Err)
	}

	// Two carrying outputs are siblings.
	tx, coins = refTestContext(t, script, carrierOut, carrierOut)
	ctx, err = NewExecutionContext(tx, coins, 0)
	if err != nil {
		t.Fatalf("NewExecutionContext: %v", err)
	}
	result = VerifyScript(nil, script, tx, 0, coins[0].Value, testFlags,
		nil, nil, ctx)
	if !IsErrorCode(result.Err, ErrInvalidReference) {
		t.Fatalf("got %v, want ErrInvalidReference", result.Err)
	}
}

// TestTruncatedRefOperand ensures a short inline operand is classified as an
// invalid reference at parse time.
func TestTruncatedRefOperand(t *testing.T) {
	t.Parallel()

	script := []byte{OP_PUSHINPUTREF, 0x01, 0x02, 0x03}
	assertScriptErr(t, nil, script, ErrInvalidReference)
}

// TestAggregationQueries covers the value sum, output count, zero-valued,
// and ref type queries against a mixed transaction.
func TestAggregationQueries(t *testing.T) {
	t.Parallel()

	refA := testRef(0xa5)

	carrier := refOpScript(OP_PUSHINPUTREF, refA, OP_DROP, OP_1)
	tx := wire.NewMsgTx(wire.TxVersion)
	var hash chainhash.Hash
	hash[0] = 0x01
	tx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: wire.OutPoint{Hash: hash, Index: 0},
		Sequence:         wire.MaxTxInSequenceNum,
	})
	tx.AddTxOut(&wire.TxOut{Value: 600, PkScript: carrier})
	tx.AddTxOut(&wire.TxOut{Value: 400, PkScript: carrier})
	tx.AddTxOut(&wire.TxOut{Value: 0, PkScript: carrier})
	tx.AddTxOut(&wire.TxOut{Value: 250, PkScript: []byte{OP_1}})

	coins := []Coin{{Value: 1000, PkScript: carrier}}
	ctx, err := NewExecutionContext(tx, coins, 0)
	if err != nil {
		t.Fatalf("NewExecutionContext: %v", err)
	}

	if got := ctx.RefValueSumOutputs(refA); got != 1000 {
		t.Errorf("RefValueSumOutputs = %d, want 1000", got)
	}
	if got := ctx.RefValueSumUtxos(refA); got != 1000 {
		t.Errorf("RefValueSumUtxos = %d, want 1000", got)
	}
	if got := ctx.RefOutputCountOutputs(refA); got != 3 {
		t.Errorf("RefOutputCountOutputs = %d, want 3", got)
	}
	if got := ctx.RefOutputCountUtxos(refA); got != 1 {
		t.Errorf("RefOutputCountUtxos = %d, want 1", got)
	}
	if got := ctx.RefOutputCountZeroValuedOutputs(refA); got != 1 {
		t.Errorf("RefOutputCountZeroValuedOutputs = %d, want 1", got)
	}
	if got := ctx.RefTypeOutputs(refA); got != 1 {
		t.Errorf("RefTypeOutputs = %d, want 1", got)
	}
	if got := ctx.RefTypeOutputs(testRef(0xee)); got != 0 {
		t.Errorf("RefTypeOutputs(absent) = %d, want 0", got)
	}

	// The same queries through the opcodes.
	script := AddDataPush(nil, refA[:])
	script = append(script, OP_REFVALUESUM_OUTPUTS)
	script = AddDataPush(script, scriptNum(1000).Bytes())
	script = append(script, OP_NUMEQUAL, OP_VERIFY)
	script = AddDataPush(script, refA[:])
	script = append(script, OP_REFOUTPUTCOUNT_OUTPUTS, OP_3, OP_NUMEQUAL)

	result := VerifyScript(nil, script, tx, 0, coins[0].Value, testFlags,
		nil, nil, ctx)
	if !result.Success {
		t.Fatalf("aggregation script failed: %v", result.Err)
	}
}

// TestCodeScriptHashQueries covers the code-script-hash aggregation family,
// which matches scripts by the double SHA-256 of their code script view.
func TestCodeScriptHashQueries(t *testing.T) {
	t.Parallel()

	// A stateful script: state before the separator, code after it.
	stateful := []byte{OP_16, OP_DROP}
	stateful = append(stateful, OP_STATESEPARATOR)
	stateful = append(stateful, OP_DUP, OP_DROP, OP_1)
	codeHash := chainhash.DoubleHashH(CodeScript(stateful))

	tx := wire.NewMsgTx(wire.TxVersion)
	var hash chainhash.Hash
	hash[0] = 0x01
	tx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: wire.OutPoint{Hash: hash, Index: 0},
		Sequence:         wire.MaxTxInSequenceNum,
	})
	tx.AddTxOut(&wire.TxOut{Value: 700, PkScript: stateful})
	tx.AddTxOut(&wire.TxOut{Value: 0, PkScript: stateful})
	tx.AddTxOut(&wire.TxOut{Value: 300, PkScript: []byte{OP_1}})

	coins := []Coin{{Value: 1200, PkScript: stateful}}
	ctx, err := NewExecutionContext(tx, coins, 0)
	if err != nil {
		t.Fatalf("NewExecutionContext: %v", err)
	}

	if got := ctx.CodeScriptHashValueSumOutputs(codeHash); got != 700 {
		t.Errorf("CodeScriptHashValueSumOutputs = %d, want 700", got)
	}
	if got := ctx.CodeScriptHashValueSumUtxos(codeHash); got != 1200 {
		t.Errorf("CodeScriptHashValueSumUtxos = %d, want 1200", got)
	}
	if got := ctx.CodeScriptHashOutputCountOutputs(codeHash); got != 2 {
		t.Errorf("CodeScriptHashOutputCountOutputs = %d, want 2", got)
	}
	if got := ctx.CodeScriptHashZeroValuedOutputCountOutputs(codeHash); got != 1 {
		t.Errorf("CodeScriptHashZeroValuedOutputCountOutputs = %d, want 1",
			got)
	}

	// And through the opcode path.
	script := AddDataPush(nil, codeHash[:])
	script = append(script, OP_CODESCRIPTHASHOUTPUTCOUNT_OUTPUTS, OP_2,
		OP_NUMEQUAL)
	result := VerifyScript(nil, script, tx, 0, coins[0].Value, testFlags,
		nil, nil, ctx)
	if !result.Success {
		t.Fatalf("code script hash script failed: %v", result.Err)
	}
}

// TestStateScriptViews covers the state and code script view opcodes.
func TestStateScriptViews(t *testing.T) {
	t.Parallel()

	stateful := []byte{OP_16, OP_DROP, OP_STATESEPARATOR, OP_1}
	tx, coins := refTestContext(t, stateful, stateful)
	ctx, err := NewExecutionContext(tx, coins, 0)
	if err != nil {
		t.Fatalf("NewExecutionContext: %v", err)
	}

	// The separator in the coin script sits at byte offset 2.
	script := []byte{OP_0, OP_STATESEPARATORINDEX_UTXO, OP_2, OP_NUMEQUAL,
		OP_VERIFY}
	// Code script of output 0 is the single OP_1 byte.
	script = append(script, OP_0, OP_CODESCRIPTBYTECODE_OUTPUT)
	script = AddDataPush(script, []byte{OP_1})
	script = append(script, OP_EQUAL, OP_VERIFY)
	// State script of output 0 is the two bytes before the separator.
	script = append(script, OP_0, OP_STATESCRIPTBYTECODE_OUTPUT)
	script = AddDataPush(script, []byte{OP_16, OP_DROP})
	script = append(script, OP_EQUAL)

	result := VerifyScript(nil, script, tx, 0, coins[0].Value, testFlags,
		nil, nil, ctx)
	if !result.Success {
		t.Fatalf("state view script failed: %v", result.Err)
	}

	// A script without a separator reports the sentinel.
	script = []byte{OP_0, OP_STATESEPARATORINDEX_UTXO}
	script = AddDataPush(script, scriptNum(int64(StateSeparatorAbsent)).Bytes())
	script = append(script, OP_NUMEQUAL)
	tx2, coins2 := refTestContext(t, []byte{OP_1}, []byte{OP_1})
	ctx2, err := NewExecutionContext(tx2, coins2, 0)
	if err != nil {
		t.Fatalf("NewExecutionContext: %v", err)
	}
	result = VerifyScript(nil, script, tx2, 0, coins2[0].Value, testFlags,
		nil, nil, ctx2)
	if !result.Success {
		t.Fatalf("sentinel script failed: %v", result.Err)
	}
}

// TestUnimplementedRefQueries ensures the defined-but-unimplemented summary
// opcodes are classified as bad opcodes, matching the reference debugger.
func TestUnimplementedRefQueries(t *testing.T) {
	t.Parallel()

	for _, op := range []byte{
		OP_REFHASHDATASUMMARY_UTXO, OP_REFHASHVALUESUM_UTXOS,
		OP_REFDATASUMMARY_OUTPUT, OP_PUSH_TX_STATE,
	} {
		assertScriptErr(t, nil, []byte{OP_1, op}, ErrBadOpcode)
	}
}

// TestInputRefsInvariant ensures every reference extracted from an input
// coin script is present in the context union.
func TestInputRefsInvariant(t *testing.T) {
	t.Parallel()

	refA := testRef(0x31)
	refB := testRef(0x32)

	tx := wire.NewMsgTx(wire.TxVersion)
	for i := 0; i < 2; i++ {
		var hash chainhash.Hash
		hash[0] = byte(i + 1)
		tx.AddTxIn(&wire.TxIn{
			PreviousOutPoint: wire.OutPoint{Hash: hash, Index: 0},
			Sequence:         wire.MaxTxInSequenceNum,
		})
	}
	tx.AddTxOut(&wire.TxOut{Value: 1, PkScript: []byte{OP_1}})

	coins := []Coin{
		{Value: 10, PkScript: refOpScript(OP_PUSHINPUTREF, refA, OP_DROP, OP_1)},
		{Value: 20, PkScript: refOpScript(OP_PUSHINPUTREFSINGLETON, refB, OP_DROP, OP_1)},
	}
	ctx, err := NewExecutionContext(tx, coins, 0)
	if err != nil {
		t.Fatalf("NewExecutionContext: %v", err)
	}

	inputRefs := ctx.InputRefs()
	if _, ok := inputRefs[refA]; !ok {
		t.Error("push ref missing from input union")
	}
	if _, ok := inputRefs[refB]; !ok {
		t.Error("singleton ref missing from input union")
	}
}
