// Copyright (c) 2024 The rxdeb developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rxscript

import (
	"bytes"
	"crypto/sha256"
	"testing"

	"golang.org/x/crypto/ripemd160"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/radiantblockchain/rxdeb/wire"
)

// btcHash160 computes ripemd160(sha256(b)) the way OP_HASH160 does.
func btcHash160(b []byte) []byte {
	h := sha256.Sum256(b)
	hasher := ripemd160.New()
	hasher.Write(h[:])
	return hasher.Sum(nil)
}

// testFlags enables the Radiant opcode families without the standardness
// checks that would reject the hand-assembled test scripts (non-minimal
// pushes in particular).
const testFlags = Script64BitIntegers | ScriptNativeIntrospection |
	ScriptEnhancedReferences | ScriptEnableMul | ScriptEnableReverseBytes

// newTestTx returns a transaction with the requested number of inputs and
// outputs together with matching coins.  Outpoints and values are distinct
// so tests can tell them apart.
func newTestTx(numInputs, numOutputs int) (*wire.MsgTx, []Coin) {
	tx := wire.NewMsgTx(wire.TxVersion)
	coins := make([]Coin, numInputs)
	for i := 0; i < numInputs; i++ {
		var hash chainhash.Hash
		hash[0] = byte(i + 1)
		tx.AddTxIn(&wire.TxIn{
			PreviousOutPoint: wire.OutPoint{Hash: hash, Index: uint32(i)},
			Sequence:         wire.MaxTxInSequenceNum,
		})
		coins[i] = Coin{
			Value:    int64(1000 * (i + 1)),
			PkScript: []byte{OP_1},
		}
	}
	for i := 0; i < numOutputs; i++ {
		tx.AddTxOut(&wire.TxOut{
			Value:    int64(500 * (i + 1)),
			PkScript: []byte{OP_1},
		})
	}
	return tx, coins
}

// runScripts executes the script pair with no transaction context and
// returns the execution error.
func runScripts(t *testing.T, scriptSig, scriptPubKey []byte) error {
	t.Helper()

	vm, err := NewEngine(scriptSig, scriptPubKey, nil, 0, testFlags, nil,
		nil, 0, nil)
	if err != nil {
		return err
	}
	return vm.Execute()
}

// assertScriptOK fails the test when the script pair does not verify.
func assertScriptOK(t *testing.T, scriptSig, scriptPubKey []byte) {
	t.Helper()

	if err := runScripts(t, scriptSig, scriptPubKey); err != nil {
		t.Fatalf("script failed unexpectedly: %v", err)
	}
}

// assertScriptErr fails the test when the script pair does not fail with the
// given code.
func assertScriptErr(t *testing.T, scriptSig, scriptPubKey []byte, code ErrorCode) {
	t.Helper()

	err := runScripts(t, scriptSig, scriptPubKey)
	if err == nil {
		t.Fatalf("script succeeded, want error code %v", code)
	}
	if !IsErrorCode(err, code) {
		t.Fatalf("script failed with %v (%v), want code %v", err,
			ErrorCodeOf(err), code)
	}
}

// TestArithmeticLock covers the basic two-phase execution: the unlocking
// script supplies an operand the locking script checks.
func TestArithmeticLock(t *testing.T) {
	t.Parallel()

	scriptSig := []byte{OP_5}
	scriptPubKey := []byte{OP_3, OP_ADD, OP_8, OP_NUMEQUAL}
	assertScriptOK(t, scriptSig, scriptPubKey)
}

// TestDivisionByZero ensures OP_DIV with a zero divisor is classified.
func TestDivisionByZero(t *testing.T) {
	t.Parallel()

	err := runScripts(t, nil, []byte{OP_5, OP_0, OP_DIV})
	if err == nil {
		t.Fatal("division by zero succeeded")
	}
	if !IsErrorCode(err, ErrDivByZero) {
		t.Fatalf("got %v (%v), want ErrDivByZero", err, ErrorCodeOf(err))
	}
}

// TestModuloByZero ensures OP_MOD with a zero divisor is classified.
func TestModuloByZero(t *testing.T) {
	t.Parallel()

	assertScriptErr(t, nil, []byte{OP_5, OP_0, OP_MOD}, ErrModByZero)
}

// TestUnbalancedConditional ensures a script ending inside a conditional
// fails.
func TestUnbalancedConditional(t *testing.T) {
	t.Parallel()

	assertScriptErr(t, nil, []byte{OP_1, OP_IF, OP_1},
		ErrUnbalancedConditional)
	assertScriptErr(t, nil, []byte{OP_ELSE, OP_1},
		ErrUnbalancedConditional)
	assertScriptErr(t, nil, []byte{OP_ENDIF, OP_1},
		ErrUnbalancedConditional)
}

// TestConditionals exercises both branches and nesting.
func TestConditionals(t *testing.T) {
	t.Parallel()

	assertScriptOK(t, nil, []byte{OP_1, OP_IF, OP_1, OP_ELSE, OP_0, OP_ENDIF})
	assertScriptOK(t, nil, []byte{OP_0, OP_IF, OP_0, OP_ELSE, OP_1, OP_ENDIF})
	assertScriptOK(t, nil, []byte{OP_0, OP_NOTIF, OP_1, OP_ENDIF})
	assertScriptOK(t, nil, []byte{
		OP_1, OP_IF, OP_1, OP_IF, OP_1, OP_ENDIF, OP_ELSE, OP_0, OP_ENDIF,
	})

	// Opcodes inside a skipped branch must not execute; a division by
	// zero in the untaken branch is unreachable.
	assertScriptOK(t, nil, []byte{
		OP_0, OP_IF, OP_1, OP_0, OP_DIV, OP_ENDIF, OP_1,
	})
}

// TestSpliceIdentity concatenates and re-splits two pushed strings and
// verifies both halves round trip.
func TestSpliceIdentity(t *testing.T) {
	t.Parallel()

	var scriptSig []byte
	scriptSig = AddDataPush(scriptSig, []byte("hello"))
	scriptSig = AddDataPush(scriptSig, []byte("world"))

	scriptPubKey := []byte{OP_CAT, OP_5, OP_SPLIT}
	scriptPubKey = AddDataPush(scriptPubKey, []byte("world"))
	scriptPubKey = append(scriptPubKey, OP_EQUAL, OP_VERIFY)
	scriptPubKey = AddDataPush(scriptPubKey, []byte("hello"))
	scriptPubKey = append(scriptPubKey, OP_EQUAL)

	assertScriptOK(t, scriptSig, scriptPubKey)
}

// TestSplitOutOfRange ensures a split position outside the element fails.
func TestSplitOutOfRange(t *testing.T) {
	t.Parallel()

	script := AddDataPush(nil, []byte{0xaa, 0xbb})
	script = append(script, OP_16, OP_SPLIT)
	assertScriptErr(t, nil, script, ErrInvalidStackOperation)
}

// TestIntrospectionInputCount runs OP_TXINPUTCOUNT against a two-input
// transaction.
func TestIntrospectionInputCount(t *testing.T) {
	t.Parallel()

	tx, coins := newTestTx(2, 1)
	ctx, err := NewExecutionContext(tx, coins, 0)
	if err != nil {
		t.Fatalf("NewExecutionContext: %v", err)
	}

	scriptPubKey := []byte{OP_TXINPUTCOUNT, OP_2, OP_NUMEQUAL}
	result := VerifyScript(nil, scriptPubKey, tx, 0, coins[0].Value,
		testFlags, nil, nil, ctx)
	if !result.Success {
		t.Fatalf("verification failed: %v", result.Err)
	}
}

// TestIntrospectionWithoutContext ensures introspection opcodes fail with
// the dedicated error when the engine has no context.
func TestIntrospectionWithoutContext(t *testing.T) {
	t.Parallel()

	assertScriptErr(t, nil, []byte{OP_TXINPUTCOUNT},
		ErrIntrospectionContextUnavailable)
}

// TestIntrospectionIndexRange ensures out-of-range context queries are
// classified by side.
func TestIntrospectionIndexRange(t *testing.T) {
	t.Parallel()

	tx, coins := newTestTx(1, 1)
	ctx, err := NewExecutionContext(tx, coins, 0)
	if err != nil {
		t.Fatalf("NewExecutionContext: %v", err)
	}

	result := VerifyScript(nil, []byte{OP_16, OP_UTXOVALUE}, tx, 0,
		coins[0].Value, testFlags, nil, nil, ctx)
	if !IsErrorCode(result.Err, ErrInvalidTxInputIndex) {
		t.Fatalf("got %v, want ErrInvalidTxInputIndex", result.Err)
	}

	result = VerifyScript(nil, []byte{OP_16, OP_OUTPUTVALUE}, tx, 0,
		coins[0].Value, testFlags, nil, nil, ctx)
	if !IsErrorCode(result.Err, ErrInvalidTxOutputIndex) {
		t.Fatalf("got %v, want ErrInvalidTxOutputIndex", result.Err)
	}
}

// TestBlake3Determinism hashes the same input twice in-script and compares.
func TestBlake3Determinism(t *testing.T) {
	t.Parallel()

	script := AddDataPush(nil, []byte("abc"))
	script = append(script, OP_DUP, OP_BLAKE3, OP_SWAP, OP_BLAKE3, OP_EQUAL)
	assertScriptOK(t, nil, script)
}

// TestK12Determinism hashes the same input twice in-script and compares.
func TestK12Determinism(t *testing.T) {
	t.Parallel()

	script := AddDataPush(nil, []byte("abc"))
	script = append(script, OP_DUP, OP_K12, OP_SWAP, OP_K12, OP_EQUAL)
	assertScriptOK(t, nil, script)
}

// TestHashOpcodeSizes checks every hash opcode leaves a digest of the
// documented width.
func TestHashOpcodeSizes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		op   byte
		size byte
	}{
		{OP_RIPEMD160, 20},
		{OP_SHA1, 20},
		{OP_SHA256, 32},
		{OP_HASH160, 20},
		{OP_HASH256, 32},
		{OP_SHA512_256, 32},
		{OP_HASH512_256, 32},
		{OP_BLAKE3, 32},
		{OP_K12, 32},
	}

	for _, test := range tests {
		script := AddDataPush(nil, []byte("abc"))
		script = append(script, test.op, OP_SIZE)
		script = AddDataPush(script, []byte{test.size})
		script = append(script, OP_NUMEQUAL, OP_NIP)
		if err := runScripts(t, nil, script); err != nil {
			t.Errorf("opcode %s: %v", OpcodeName(test.op), err)
		}
	}
}

// TestShiftVectors covers the byte-level shift semantics: big-endian within
// the element, length preserving.
func TestShiftVectors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src   []byte
		count byte
		op    byte
		want  []byte
	}{
		{[]byte{0x01}, OP_0, OP_LSHIFT, []byte{0x01}},
		{[]byte{0x01}, OP_0, OP_RSHIFT, []byte{0x01}},
		{[]byte{0x01}, OP_3, OP_LSHIFT, []byte{0x08}},
		{[]byte{0x10}, OP_2, OP_RSHIFT, []byte{0x04}},
		{[]byte{0x00, 0x01}, OP_4, OP_LSHIFT, []byte{0x00, 0x10}},
		{[]byte{0x80, 0x00}, OP_1, OP_LSHIFT, []byte{0x00, 0x00}},
		{[]byte{0x00, 0x80}, OP_8, OP_RSHIFT, []byte{0x00, 0x00}},
		{[]byte{0x01, 0x00}, OP_8, OP_LSHIFT, []byte{0x00, 0x00}},
		{[]byte{0x12, 0x34}, OP_8, OP_RSHIFT, []byte{0x00, 0x12}},
	}

	for i, test := range tests {
		script := AddDataPush(nil, test.src)
		script = append(script, test.count, test.op)
		script = AddDataPush(script, test.want)
		script = append(script, OP_EQUAL)
		if err := runScripts(t, nil, script); err != nil {
			t.Errorf("test %d (%s): %v", i, OpcodeName(test.op), err)
		}
	}
}

// TestNum2BinBin2Num covers numeric widening and re-minimizing.
func TestNum2BinBin2Num(t *testing.T) {
	t.Parallel()

	// 2 widened to 4 bytes.
	script := []byte{OP_2, OP_4, OP_NUM2BIN}
	script = AddDataPush(script, []byte{0x02, 0x00, 0x00, 0x00})
	script = append(script, OP_EQUAL)
	assertScriptOK(t, nil, script)

	// -2 widened to 3 bytes carries the sign into the last byte.
	script = []byte{OP_1NEGATE, OP_2, OP_MUL, OP_3, OP_NUM2BIN}
	script = AddDataPush(script, []byte{0x02, 0x00, 0x80})
	script = append(script, OP_EQUAL)
	assertScriptOK(t, nil, script)

	// BIN2NUM re-minimizes a padded value.
	script = AddDataPush(nil, []byte{0x02, 0x00, 0x00, 0x00})
	script = append(script, OP_BIN2NUM, OP_2, OP_NUMEQUAL)
	assertScriptOK(t, nil, script)

	// A number cannot be narrowed below its minimal width.
	script = AddDataPush(nil, []byte{0x12, 0x34, 0x56})
	script = append(script, OP_1, OP_NUM2BIN)
	assertScriptErr(t, nil, script, ErrImpossibleEncoding)
}

// TestBitwiseOps covers AND/OR/XOR/INVERT and their size constraint.
func TestBitwiseOps(t *testing.T) {
	t.Parallel()

	script := AddDataPush(nil, []byte{0xff})
	script = AddDataPush(script, []byte{0x0f})
	script = append(script, OP_AND)
	script = AddDataPush(script, []byte{0x0f})
	script = append(script, OP_EQUAL)
	assertScriptOK(t, nil, script)

	script = AddDataPush(nil, []byte{0xf0})
	script = AddDataPush(script, []byte{0x0f})
	script = append(script, OP_OR)
	script = AddDataPush(script, []byte{0xff})
	script = append(script, OP_EQUAL)
	assertScriptOK(t, nil, script)

	script = AddDataPush(nil, []byte{0x0f})
	script = append(script, OP_INVERT)
	script = AddDataPush(script, []byte{0xf0})
	script = append(script, OP_EQUAL)
	assertScriptOK(t, nil, script)

	// Mismatched operand sizes fail.
	script = AddDataPush(nil, []byte{0x0f, 0x00})
	script = AddDataPush(script, []byte{0x0f})
	script = append(script, OP_XOR)
	assertScriptErr(t, nil, script, ErrInvalidStackOperation)
}

// TestReverseBytes covers the re-enabled OP_REVERSEBYTES.
func TestReverseBytes(t *testing.T) {
	t.Parallel()

	script := AddDataPush(nil, []byte{0x01, 0x02, 0x03})
	script = append(script, OP_REVERSEBYTES)
	script = AddDataPush(script, []byte{0x03, 0x02, 0x01})
	script = append(script, OP_EQUAL)
	assertScriptOK(t, nil, script)
}

// TestOpReturn ensures OP_RETURN fails immediately with its own kind.
func TestOpReturn(t *testing.T) {
	t.Parallel()

	assertScriptErr(t, nil, []byte{OP_1, OP_RETURN}, ErrOpReturn)
}

// TestVerifyFamily ensures each verify variant carries its named error.
func TestVerifyFamily(t *testing.T) {
	t.Parallel()

	assertScriptErr(t, nil, []byte{OP_0, OP_VERIFY}, ErrVerify)
	assertScriptErr(t, nil, []byte{OP_1, OP_2, OP_EQUALVERIFY, OP_1},
		ErrEqualVerify)
	assertScriptErr(t, nil, []byte{OP_1, OP_2, OP_NUMEQUALVERIFY, OP_1},
		ErrNumEqualVerify)
}

// TestBadOpcode ensures undefined opcodes are classified.
func TestBadOpcode(t *testing.T) {
	t.Parallel()

	assertScriptErr(t, nil, []byte{OP_1, 0xf0}, ErrBadOpcode)
	assertScriptErr(t, nil, []byte{OP_RESERVED}, ErrBadOpcode)
	assertScriptErr(t, nil, []byte{OP_1, OP_IF, OP_VERIF, OP_ENDIF},
		ErrBadOpcode)

	// OP_VERIF is invalid even in an unexecuted branch.
	assertScriptErr(t, nil, []byte{OP_0, OP_IF, OP_VERIF, OP_ENDIF},
		ErrBadOpcode)
}

// TestDisabledOpcodes ensures the flag-gated families report
// ErrDisabledOpcode when their flag is missing, and run when the debugging
// override is set.
func TestDisabledOpcodes(t *testing.T) {
	t.Parallel()

	flagsNoMul := testFlags &^ ScriptEnableMul

	vm, err := NewEngine(nil, []byte{OP_2, OP_3, OP_MUL, OP_6, OP_NUMEQUAL},
		nil, 0, flagsNoMul, nil, nil, 0, nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if err := vm.Execute(); !IsErrorCode(err, ErrDisabledOpcode) {
		t.Fatalf("got %v, want ErrDisabledOpcode", err)
	}

	vm, err = NewEngine(nil, []byte{OP_2, OP_3, OP_MUL, OP_6, OP_NUMEQUAL},
		nil, 0, flagsNoMul, nil, nil, 0, nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	vm.SetAllowDisabledOpcodes(true)
	if err := vm.Execute(); err != nil {
		t.Fatalf("allow-disabled execution failed: %v", err)
	}
}

// TestMinimalData ensures executed pushes are held to the minimal push rule
// when the flag is active.
func TestMinimalData(t *testing.T) {
	t.Parallel()

	// [OP_DATA_1 0x01] should have been OP_1.
	vm, err := NewEngine(nil, []byte{0x01, 0x01}, nil, 0,
		testFlags|ScriptVerifyMinimalData, nil, nil, 0, nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if err := vm.Execute(); !IsErrorCode(err, ErrMinimalData) {
		t.Fatalf("got %v, want ErrMinimalData", err)
	}
}

// TestMinimalIf ensures the OP_IF operand rule under the flag.
func TestMinimalIf(t *testing.T) {
	t.Parallel()

	script := []byte{OP_2, OP_IF, OP_1, OP_ENDIF}
	vm, err := NewEngine(nil, script, nil, 0,
		testFlags|ScriptVerifyMinimalIf, nil, nil, 0, nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if err := vm.Execute(); !IsErrorCode(err, ErrMinimalIf) {
		t.Fatalf("got %v, want ErrMinimalIf", err)
	}
}

// TestCleanStack covers the clean stack post-condition.
func TestCleanStack(t *testing.T) {
	t.Parallel()

	run := func(script []byte) error {
		vm, err := NewEngine(nil, script, nil, 0,
			testFlags|ScriptVerifyCleanStack, nil, nil, 0, nil)
		if err != nil {
			return err
		}
		return vm.Execute()
	}

	if err := run([]byte{OP_1}); err != nil {
		t.Fatalf("single-element stack failed: %v", err)
	}
	if err := run([]byte{OP_1, OP_1}); !IsErrorCode(err, ErrCleanStack) {
		t.Fatalf("got %v, want ErrCleanStack", err)
	}
}

// TestSigPushOnly covers the push-only unlocking script requirement.
func TestSigPushOnly(t *testing.T) {
	t.Parallel()

	_, err := NewEngine([]byte{OP_1, OP_DUP}, []byte{OP_DROP}, nil, 0,
		testFlags|ScriptVerifySigPushOnly, nil, nil, 0, nil)
	if !IsErrorCode(err, ErrSigPushOnly) {
		t.Fatalf("got %v, want ErrSigPushOnly", err)
	}
}

// TestAltStack covers the alt stack round trip and its dedicated error.
func TestAltStack(t *testing.T) {
	t.Parallel()

	assertScriptOK(t, nil, []byte{
		OP_1, OP_2, OP_TOALTSTACK, OP_3, OP_ADD, OP_FROMALTSTACK,
		OP_ADD, OP_6, OP_NUMEQUAL,
	})
	assertScriptErr(t, nil, []byte{OP_FROMALTSTACK},
		ErrInvalidAltStackOperation)
}

// TestStepAndRewind walks a script one opcode at a time, rewinds all the way
// back, and requires the restored state to match the initial one.
func TestStepAndRewind(t *testing.T) {
	t.Parallel()

	script := []byte{OP_1, OP_2, OP_ADD, OP_3, OP_NUMEQUAL}
	vm, err := NewEngine(nil, script, nil, 0, testFlags, nil, nil, 0, nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	initialStack := vm.GetStack()
	initialScriptIdx, initialByteIdx := vm.PC()

	// Step three opcodes in.
	depths := []int{1, 2, 1}
	for i := 0; i < 3; i++ {
		done, err := vm.Step()
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if done {
			t.Fatalf("step %d: finished early", i)
		}
		if got := len(vm.GetStack()); got != depths[i] {
			t.Fatalf("step %d: stack depth %d, want %d", i, got,
				depths[i])
		}
	}

	if vm.HistoryDepth() != 3 {
		t.Fatalf("history depth %d, want 3", vm.HistoryDepth())
	}

	// Rewind all the way back and verify the state is the initial one.
	for i := 0; i < 3; i++ {
		if !vm.Rewind() {
			t.Fatalf("rewind %d failed", i)
		}
	}
	if vm.Rewind() {
		t.Fatal("rewind past the start succeeded")
	}

	if got := vm.GetStack(); len(got) != len(initialStack) {
		t.Fatalf("stack depth after rewind: %d, want %d", len(got),
			len(initialStack))
	}
	scriptIdx, byteIdx := vm.PC()
	if scriptIdx != initialScriptIdx || byteIdx != initialByteIdx {
		t.Fatalf("pc after rewind: %d:%d, want %d:%d", scriptIdx,
			byteIdx, initialScriptIdx, initialByteIdx)
	}

	// The engine still runs to completion after the rewinds.
	if err := vm.Execute(); err != nil {
		t.Fatalf("execute after rewind: %v", err)
	}
}

// TestRewindPastFailure ensures a failed step can be rewound and the state
// before the failure is restored.
func TestRewindPastFailure(t *testing.T) {
	t.Parallel()

	script := []byte{OP_5, OP_0, OP_DIV}
	vm, err := NewEngine(nil, script, nil, 0, testFlags, nil, nil, 0, nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	var stepErr error
	for {
		done, err := vm.Step()
		if err != nil {
			stepErr = err
			break
		}
		if done {
			break
		}
	}
	if !IsErrorCode(stepErr, ErrDivByZero) {
		t.Fatalf("got %v, want ErrDivByZero", stepErr)
	}

	if !vm.Rewind() {
		t.Fatal("rewind after failure did not succeed")
	}
	if got := len(vm.GetStack()); got != 2 {
		t.Fatalf("stack depth after rewind: %d, want 2", got)
	}
}

// TestHistoryLimit ensures the bounded rewind buffer evicts the oldest
// snapshots.
func TestHistoryLimit(t *testing.T) {
	t.Parallel()

	script := []byte{OP_1, OP_2, OP_3, OP_4, OP_5}
	vm, err := NewEngine(nil, script, nil, 0, testFlags, nil, nil, 0, nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	vm.SetHistoryLimit(2)

	for i := 0; i < 4; i++ {
		if _, err := vm.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if vm.HistoryDepth() != 2 {
		t.Fatalf("history depth %d, want 2", vm.HistoryDepth())
	}

	// Two rewinds land on the state after the second step.
	vm.Rewind()
	vm.Rewind()
	if got := len(vm.GetStack()); got != 2 {
		t.Fatalf("stack depth %d, want 2", got)
	}
	if vm.Rewind() {
		t.Fatal("rewind past the bounded history succeeded")
	}
}

// TestReset returns the engine to its initial state after a complete run.
func TestReset(t *testing.T) {
	t.Parallel()

	vm, err := NewEngine([]byte{OP_5}, []byte{OP_3, OP_ADD, OP_8, OP_NUMEQUAL},
		nil, 0, testFlags, nil, nil, 0, nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if err := vm.Execute(); err != nil {
		t.Fatalf("first run: %v", err)
	}

	vm.Reset()
	if vm.HistoryDepth() != 0 {
		t.Fatal("history survived reset")
	}
	if err := vm.Execute(); err != nil {
		t.Fatalf("second run: %v", err)
	}
}

// TestStepCallback ensures the per-opcode notification fires with the
// executed opcode values.
func TestStepCallback(t *testing.T) {
	t.Parallel()

	script := []byte{OP_1, OP_2, OP_ADD}
	vm, err := NewEngine(nil, script, nil, 0, testFlags, nil, nil, 0, nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	var seen []byte
	vm.SetStepCallback(func(info StepInfo) {
		seen = append(seen, info.Opcode)
	})
	if err := vm.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	want := []byte{OP_1, OP_2, OP_ADD}
	if !bytes.Equal(seen, want) {
		t.Fatalf("callback saw %x, want %x", seen, want)
	}
}

// TestP2SHExecution covers the third execution phase: the redeem script
// popped from the stack is run over the remaining stack items.
func TestP2SHExecution(t *testing.T) {
	t.Parallel()

	// Redeem script: OP_ADD OP_8 OP_NUMEQUAL.
	redeemScript := []byte{OP_ADD, OP_8, OP_NUMEQUAL}

	// Locking script: HASH160 <hash160(redeem)> EQUAL.
	redeemHash := btcHash160(redeemScript)
	scriptPubKey := []byte{OP_HASH160}
	scriptPubKey = AddDataPush(scriptPubKey, redeemHash)
	scriptPubKey = append(scriptPubKey, OP_EQUAL)

	// Unlocking script: the operands and the serialized redeem script.
	scriptSig := []byte{OP_3, OP_5}
	scriptSig = AddDataPush(scriptSig, redeemScript)

	vm, err := NewEngine(scriptSig, scriptPubKey, nil, 0,
		testFlags|ScriptBip16, nil, nil, 0, nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if err := vm.Execute(); err != nil {
		t.Fatalf("p2sh execution failed: %v", err)
	}
}

// TestOpCodeSeparatorAndActiveBytecode ensures OP_CODESEPARATOR narrows the
// active script view.
func TestOpCodeSeparatorAndActiveBytecode(t *testing.T) {
	t.Parallel()

	tx, coins := newTestTx(1, 1)
	ctx, err := NewExecutionContext(tx, coins, 0)
	if err != nil {
		t.Fatalf("NewExecutionContext: %v", err)
	}

	// The script is 7 bytes and the separator sits at offset 1, so the
	// active bytecode reported afterwards is the trailing 5 bytes.
	script := []byte{OP_1, OP_CODESEPARATOR, OP_ACTIVEBYTECODE, OP_SIZE,
		OP_5, OP_NUMEQUAL, OP_NIP}

	result := VerifyScript(nil, script, tx, 0, coins[0].Value, testFlags,
		nil, nil, ctx)
	if !result.Success {
		t.Fatalf("verification failed: %v", result.Err)
	}
}

// TestStateSeparatorInUnlockingScript ensures the separator is rejected in
// the unlocking phase.
func TestStateSeparatorInUnlockingScript(t *testing.T) {
	t.Parallel()

	assertScriptErr(t, []byte{OP_STATESEPARATOR, OP_1}, []byte{OP_1},
		ErrInvalidStateSeparatorLocation)

	// In a locking script it is a no-op.
	assertScriptOK(t, nil, []byte{OP_1, OP_STATESEPARATOR, OP_1, OP_DROP})
}

// TestOpCountTracking ensures non-push operations are counted and pushes are
// not.
func TestOpCountTracking(t *testing.T) {
	t.Parallel()

	vm, err := NewEngine(nil, []byte{OP_1, OP_2, OP_ADD, OP_3, OP_NUMEQUAL},
		nil, 0, testFlags, nil, nil, 0, nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if err := vm.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if vm.TotalOps() != 2 {
		t.Fatalf("total ops %d, want 2", vm.TotalOps())
	}
}
