// Copyright (c) 2024 The rxdeb developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rxscript

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/radiantblockchain/rxdeb/wire"
)

// halfOrder is used to tame ECDSA malleability (see the low S flag).
var halfOrder = new(big.Int).Rsh(secp256k1.S256().N, 1)

// ScriptFlags is a bitmask defining additional operations or tests that will
// be done when executing a script pair.
type ScriptFlags uint32

const (
	// ScriptBip16 defines whether the bip16 threshold has passed and thus
	// pay-to-script hash transactions will be fully validated.
	ScriptBip16 ScriptFlags = 1 << iota

	// ScriptVerifyStrictEncoding defines that signature scripts and
	// public keys must follow the strict encoding requirements.
	ScriptVerifyStrictEncoding

	// ScriptVerifyDERSignatures defines that signatures are required to
	// comply with the DER format.
	ScriptVerifyDERSignatures

	// ScriptVerifyLowS defines that signatures are required to comply
	// with the DER format and whose S value is <= order / 2.
	ScriptVerifyLowS

	// ScriptVerifyNullDummy defines that the extra stack item consumed by
	// OP_CHECKMULTISIG must be zero length.
	ScriptVerifyNullDummy

	// ScriptVerifySigPushOnly defines that signature scripts must contain
	// only pushed data.
	ScriptVerifySigPushOnly

	// ScriptVerifyMinimalData defines that scripts must use the smallest
	// push operator that can represent the data.
	ScriptVerifyMinimalData

	// ScriptDiscourageUpgradableNops defines whether to verify that
	// NOP1 through NOP10 are reserved for future soft-fork upgrades.
	ScriptDiscourageUpgradableNops

	// ScriptVerifyCleanStack defines that the stack must contain only one
	// stack element after evaluation and that the element must be true if
	// interpreted as a boolean.
	ScriptVerifyCleanStack

	// ScriptVerifyCheckLockTimeVerify defines whether to verify that a
	// transaction output is spendable based on the locktime.
	ScriptVerifyCheckLockTimeVerify

	// ScriptVerifyCheckSequenceVerify defines whether to allow execution
	// pathways of a script to be restricted based on the age of the
	// output being spent.
	ScriptVerifyCheckSequenceVerify

	// ScriptVerifyMinimalIf defines that the operand of OP_IF and
	// OP_NOTIF must be an empty vector or [0x01].
	ScriptVerifyMinimalIf

	// ScriptVerifyNullFail defines that signatures must be empty if a
	// CHECKSIG or CHECKMULTISIG operation fails.
	ScriptVerifyNullFail

	// ScriptEnableSigHashForkID defines that signature hash types must
	// carry the FORKID bit.  The bit is mandatory for this network and
	// must be present in any standard flag combination.
	ScriptEnableSigHashForkID

	// Script64BitIntegers widens numeric operands from the legacy 4
	// bytes to 8 bytes.
	Script64BitIntegers

	// ScriptNativeIntrospection enables the native introspection opcodes.
	ScriptNativeIntrospection

	// ScriptEnhancedReferences enables the reference tracking and
	// aggregation opcodes.
	ScriptEnhancedReferences

	// ScriptPushTxState reserves the transaction state push opcode.
	ScriptPushTxState

	// ScriptEnableMul enables OP_MUL.
	ScriptEnableMul

	// ScriptEnableReverseBytes enables OP_REVERSEBYTES.
	ScriptEnableReverseBytes
)

// StandardVerifyFlags are the script flags used when executing transaction
// scripts to enforce the checks which are required for a script to be
// considered standard on the Radiant network.
const StandardVerifyFlags = ScriptBip16 |
	ScriptVerifyStrictEncoding |
	ScriptVerifyDERSignatures |
	ScriptVerifyLowS |
	ScriptVerifyNullDummy |
	ScriptVerifySigPushOnly |
	ScriptVerifyMinimalData |
	ScriptDiscourageUpgradableNops |
	ScriptVerifyCleanStack |
	ScriptVerifyCheckLockTimeVerify |
	ScriptVerifyCheckSequenceVerify |
	ScriptVerifyMinimalIf |
	ScriptVerifyNullFail |
	ScriptEnableSigHashForkID |
	Script64BitIntegers |
	ScriptNativeIntrospection |
	ScriptEnhancedReferences |
	ScriptEnableMul |
	ScriptEnableReverseBytes

// MandatoryVerifyFlags are the consensus-critical flags which every
// verification must include.
const MandatoryVerifyFlags = ScriptBip16 | ScriptEnableSigHashForkID

// snapshot captures the complete mutable interpreter state so a debugger can
// rewind.  Stack element byte slices are shared since elements are treated
// as immutable by the engine.
type snapshot struct {
	scriptIdx   int
	byteIdx     int32
	opcodeIdx   int
	numOps      int
	totalOps    int
	lastCodeSep int
	numScripts  int

	dstack          [][]byte
	astack          [][]byte
	condStack       []int
	savedFirstStack [][]byte

	pushRefs      map[Ref]struct{}
	requireRefs   map[Ref]struct{}
	singletonRefs map[Ref]struct{}
}

// StepInfo describes the opcode most recently executed by Step.  It is
// passed to the engine's step callback for debugger display.
type StepInfo struct {
	ScriptIndex int
	ByteIndex   int32
	OpcodeIndex int
	Opcode      byte
	Data        []byte
}

// Engine is the virtual machine that executes scripts.
type Engine struct {
	flags           ScriptFlags
	scripts         [][]byte
	scriptIdx       int
	opcodeIdx       int
	tokenizer       ScriptTokenizer
	savedFirstStack [][]byte
	dstack          stack
	astack          stack
	condStack       []int
	numOps          int
	totalOps        int
	lastCodeSep     int
	bip16           bool
	allowDisabled   bool

	tx      *wire.MsgTx
	txIdx   int
	ctx     *ExecutionContext
	checker SignatureChecker

	// Reference sets accumulated by the reference opcodes during this
	// execution.
	pushRefs      map[Ref]struct{}
	requireRefs   map[Ref]struct{}
	singletonRefs map[Ref]struct{}

	history      []snapshot
	historyLimit int
	onStep       func(StepInfo)
}

// hasFlag returns whether the script engine instance has the passed flag
// set.
func (vm *Engine) hasFlag(flag ScriptFlags) bool {
	return vm.flags&flag == flag
}

// isBranchExecuting returns whether or not the current conditional branch is
// actively executing.
func (vm *Engine) isBranchExecuting() bool {
	if len(vm.condStack) == 0 {
		return true
	}
	for _, cond := range vm.condStack {
		if cond != OpCondTrue {
			return false
		}
	}
	return true
}

// scriptNumLen returns the widest numeric operand the active flags allow.
func (vm *Engine) scriptNumLen() int {
	if vm.hasFlag(Script64BitIntegers) {
		return maxScriptNumLen
	}
	return legacyScriptNumLen
}

// isConditionalOpcode reports whether the opcode must be processed even when
// it appears in a non-executing branch, since it maintains the conditional
// stack.
func isConditionalOpcode(op byte) bool {
	switch op {
	case OP_IF, OP_NOTIF, OP_ELSE, OP_ENDIF:
		return true
	}
	return false
}

// executeOpcode performs execution on the passed opcode.  It takes into
// account whether or not it is hidden by conditionals, but some rules still
// must be tested in that case.
func (vm *Engine) executeOpcode(op *opcode, data []byte) error {
	// OP_VERIF and OP_VERNOTIF invalidate the script even when they
	// appear in a non-executed branch.
	if op.value == OP_VERIF || op.value == OP_VERNOTIF {
		return opcodeVerConditional(op, data, vm)
	}

	// Nothing left to do when this is not a conditional opcode and it is
	// not in an executing branch.  Skipped opcodes do not touch the
	// stacks and do not count against the operation budget.
	if !vm.isBranchExecuting() && !isConditionalOpcode(op.value) {
		return nil
	}

	// Note that this includes OP_RESERVED which counts as a non-push
	// operation.
	if op.value > OP_16 {
		vm.numOps++
		vm.totalOps++
		if vm.numOps > MaxOpsPerScript {
			str := fmt.Sprintf("exceeded max operation limit of %d",
				MaxOpsPerScript)
			return scriptError(ErrOpCount, str)
		}
	} else if len(data) > MaxScriptElementSize {
		str := fmt.Sprintf("element size %d exceeds max allowed size %d",
			len(data), MaxScriptElementSize)
		return scriptError(ErrPushSize, str)
	}

	// Ensure all executed data push opcodes use the minimal encoding.
	if vm.dstack.verifyMinimalData && op.value <= OP_PUSHDATA4 {
		if err := checkMinimalDataPush(op, data); err != nil {
			return err
		}
	}

	return op.opfunc(op, data, vm)
}

// saveSnapshot appends the live state to the rewind history, evicting the
// oldest entry when a history limit is configured.
func (vm *Engine) saveSnapshot() {
	snap := snapshot{
		scriptIdx:       vm.scriptIdx,
		byteIdx:         vm.tokenizer.ByteIndex(),
		opcodeIdx:       vm.opcodeIdx,
		numOps:          vm.numOps,
		totalOps:        vm.totalOps,
		lastCodeSep:     vm.lastCodeSep,
		numScripts:      len(vm.scripts),
		dstack:          vm.dstack.snapshot(),
		astack:          vm.astack.snapshot(),
		condStack:       append([]int(nil), vm.condStack...),
		savedFirstStack: append([][]byte(nil), vm.savedFirstStack...),
		pushRefs:        copyRefSet(vm.pushRefs),
		requireRefs:     copyRefSet(vm.requireRefs),
		singletonRefs:   copyRefSet(vm.singletonRefs),
	}

	if vm.historyLimit > 0 && len(vm.history) >= vm.historyLimit {
		copy(vm.history, vm.history[1:])
		vm.history[len(vm.history)-1] = snap
		return
	}
	vm.history = append(vm.history, snap)
}

func copyRefSet(src map[Ref]struct{}) map[Ref]struct{} {
	dst := make(map[Ref]struct{}, len(src))
	for ref := range src {
		dst[ref] = struct{}{}
	}
	return dst
}

// Rewind pops the most recent snapshot back into the live state.  It
// returns false when the history is empty.
func (vm *Engine) Rewind() bool {
	if len(vm.history) == 0 {
		return false
	}

	snap := vm.history[len(vm.history)-1]
	vm.history = vm.history[:len(vm.history)-1]

	vm.scriptIdx = snap.scriptIdx
	vm.opcodeIdx = snap.opcodeIdx
	vm.numOps = snap.numOps
	vm.totalOps = snap.totalOps
	vm.lastCodeSep = snap.lastCodeSep
	vm.scripts = vm.scripts[:snap.numScripts]
	vm.dstack.restore(snap.dstack)
	vm.astack.restore(snap.astack)
	vm.condStack = snap.condStack
	vm.savedFirstStack = snap.savedFirstStack
	vm.pushRefs = snap.pushRefs
	vm.requireRefs = snap.requireRefs
	vm.singletonRefs = snap.singletonRefs

	if vm.scriptIdx < len(vm.scripts) {
		vm.tokenizer = MakeScriptTokenizer(vm.scripts[vm.scriptIdx])
		vm.tokenizer.offset = snap.byteIdx
	}
	return true
}

// HistoryDepth returns the number of snapshots available for rewinding.
func (vm *Engine) HistoryDepth() int {
	return len(vm.history)
}

// SetHistoryLimit caps the rewind buffer at the given number of snapshots.
// A limit of 0 means unlimited.  Older snapshots are evicted first.
func (vm *Engine) SetHistoryLimit(limit int) {
	vm.historyLimit = limit
}

// SetStepCallback registers a function invoked after every successfully
// executed opcode.
func (vm *Engine) SetStepCallback(cb func(StepInfo)) {
	vm.onStep = cb
}

// SetSignatureChecker replaces the engine's signature checker.  A debugger
// exploring scripts without a real spending transaction installs
// DummySignatureChecker here.
func (vm *Engine) SetSignatureChecker(checker SignatureChecker) {
	vm.checker = checker
}

// SetAllowDisabledOpcodes relaxes the flag gating of disabled opcodes so a
// debugging session can explore them.  It must never be set for real
// validation.
func (vm *Engine) SetAllowDisabledOpcodes(allow bool) {
	vm.allowDisabled = allow
}

// Context returns the execution context the engine introspects, which may be
// nil.
func (vm *Engine) Context() *ExecutionContext {
	return vm.ctx
}

// PC returns the current script index and byte offset of the next opcode to
// execute.
func (vm *Engine) PC() (scriptIdx int, byteIdx int32) {
	return vm.scriptIdx, vm.tokenizer.ByteIndex()
}

// OpcodeIndex returns the ordinal of the next opcode within the current
// script, for display purposes.
func (vm *Engine) OpcodeIndex() int {
	return vm.opcodeIdx
}

// TotalOps returns the number of non-push operations executed so far across
// all script phases.
func (vm *Engine) TotalOps() int {
	return vm.totalOps
}

// CheckErrorCondition returns nil if the running script has ended and was
// successful, leaving a true boolean on the stack.  An error otherwise,
// including if the script has not finished.
func (vm *Engine) CheckErrorCondition(finalScript bool) error {
	// Check execution is actually done by ensuring the script index is
	// after the final script in the array.
	if vm.scriptIdx < len(vm.scripts) {
		return scriptError(ErrUnknown,
			"error check when script unfinished")
	}

	if finalScript && vm.hasFlag(ScriptVerifyCleanStack) &&
		vm.dstack.Depth() != 1 {

		str := fmt.Sprintf("stack must contain exactly one item (contains %d)",
			vm.dstack.Depth())
		return scriptError(ErrCleanStack, str)
	} else if vm.dstack.Depth() < 1 {
		return scriptError(ErrEvalFalse,
			"stack empty at end of script execution")
	}

	v, err := vm.dstack.PopBool()
	if err != nil {
		return err
	}
	if !v {
		// Log interesting data.
		log.Tracef("%v", newLogClosure(func() string {
			dis0, _ := vm.DisasmScript(0)
			dis1, _ := vm.DisasmScript(1)
			return fmt.Sprintf("scripts failed: script0: %s\n"+
				"script1: %s", dis0, dis1)
		}))
		return scriptError(ErrEvalFalse,
			"false stack entry at end of script execution")
	}
	return nil
}

// advanceScript transitions to the next script phase once the current script
// is exhausted.  It returns done=true when no phases remain.
func (vm *Engine) advanceScript() (done bool, err error) {
	// Illegal to have a conditional that straddles two scripts.
	if len(vm.condStack) != 0 {
		return true, scriptError(ErrUnbalancedConditional,
			"end of script reached in conditional execution")
	}

	// The alt stack doesn't persist between scripts.
	if vm.astack.Depth() > 0 {
		_ = vm.astack.DropN(vm.astack.Depth())
	}

	// The number of operations and the code separator position are per
	// script.
	vm.numOps = 0
	vm.lastCodeSep = 0

	switch {
	case vm.scriptIdx == 0 && vm.bip16:
		vm.scriptIdx++
		vm.savedFirstStack = vm.GetStack()

	case vm.scriptIdx == 1 && vm.bip16:
		// Put us past the end for CheckErrorCondition.
		vm.scriptIdx++

		// Check the script ran successfully.
		if err := vm.CheckErrorCondition(false); err != nil {
			return true, err
		}

		if len(vm.savedFirstStack) == 0 {
			return true, scriptError(ErrInvalidStackOperation,
				"no redeem script after pay-to-script-hash "+
					"evaluation")
		}

		// Run the redeem script from the first stack over the
		// remainder of that stack.
		script := vm.savedFirstStack[len(vm.savedFirstStack)-1]
		vm.scripts = append(vm.scripts, script)
		vm.SetStack(vm.savedFirstStack[:len(vm.savedFirstStack)-1])

	default:
		vm.scriptIdx++
	}

	// There are zero length scripts in the wild.
	for vm.scriptIdx < len(vm.scripts) &&
		len(vm.scripts[vm.scriptIdx]) == 0 {

		vm.scriptIdx++
	}

	if vm.scriptIdx >= len(vm.scripts) {
		return true, nil
	}

	vm.tokenizer = MakeScriptTokenizer(vm.scripts[vm.scriptIdx])
	vm.opcodeIdx = 0
	return false, nil
}

// Step executes the next instruction and moves the program counter to the
// next opcode in the script, or the next script if the current one has
// ended.  Step returns true in the case that the last opcode was
// successfully executed.
//
// The result of calling Step or any other method is undefined if an error is
// returned, except that Rewind remains valid and restores the state prior to
// the failed step.
func (vm *Engine) Step() (done bool, err error) {
	if vm.scriptIdx >= len(vm.scripts) {
		return true, nil
	}

	// Snapshot the state so the debugger can rewind past this step, even
	// when it fails.
	vm.saveSnapshot()

	// Attempt to parse the next opcode from the current script.
	if !vm.tokenizer.Next() {
		if err := vm.tokenizer.Err(); err != nil {
			return true, err
		}
		return vm.advanceScript()
	}

	info := StepInfo{
		ScriptIndex: vm.scriptIdx,
		ByteIndex:   vm.tokenizer.ByteIndex(),
		OpcodeIndex: vm.opcodeIdx,
		Opcode:      vm.tokenizer.Opcode(),
		Data:        vm.tokenizer.Data(),
	}
	vm.opcodeIdx++

	// Execute the opcode while taking into account several things such as
	// disabled opcodes, illegal opcodes, maximum allowed operations per
	// script, maximum script element sizes, and conditionals.
	err = vm.executeOpcode(vm.tokenizer.op, vm.tokenizer.Data())
	if err != nil {
		return true, err
	}

	// The number of elements in the combination of the data and alt
	// stacks must not exceed the maximum number of stack elements
	// allowed.
	combinedStackSize := vm.dstack.Depth() + vm.astack.Depth()
	if combinedStackSize > MaxStackSize {
		str := fmt.Sprintf("combined stack size %d > max allowed %d",
			combinedStackSize, MaxStackSize)
		return false, scriptError(ErrStackSize, str)
	}

	if vm.onStep != nil {
		vm.onStep(info)
	}

	// Prepare for the next instruction.
	if vm.tokenizer.Done() {
		return vm.advanceScript()
	}
	return false, nil
}

// Execute will execute all scripts in the script engine and return either
// nil for successful validation or an error if one occurred.
func (vm *Engine) Execute() (err error) {
	done := false
	for !done {
		log.Tracef("%v", newLogClosure(func() string {
			dis, err := vm.DisasmPC()
			if err != nil {
				return fmt.Sprintf("stepping - failed to disasm pc: %v",
					err)
			}
			return fmt.Sprintf("stepping %v", dis)
		}))

		done, err = vm.Step()
		if err != nil {
			return err
		}
		log.Tracef("%v", newLogClosure(func() string {
			var dstr, astr string

			// Log the non-empty stacks when tracing.
			if vm.dstack.Depth() != 0 {
				dstr = "Stack:\n" + vm.dstack.String()
			}
			if vm.astack.Depth() != 0 {
				astr = "AltStack:\n" + vm.astack.String()
			}

			return dstr + astr
		}))
	}

	return vm.CheckErrorCondition(true)
}

// Reset returns the engine to its initial state: fresh stacks, cleared
// history and reference sets, and the program counter at the start of the
// first non-empty script.  Any pay-to-script-hash redeem script discovered
// during a prior run is discarded.
func (vm *Engine) Reset() {
	if len(vm.scripts) > 2 {
		vm.scripts = vm.scripts[:2]
	}
	vm.dstack.restore(nil)
	vm.astack.restore(nil)
	vm.condStack = nil
	vm.savedFirstStack = nil
	vm.history = nil
	vm.numOps = 0
	vm.totalOps = 0
	vm.opcodeIdx = 0
	vm.lastCodeSep = 0
	vm.pushRefs = make(map[Ref]struct{})
	vm.requireRefs = make(map[Ref]struct{})
	vm.singletonRefs = make(map[Ref]struct{})

	vm.scriptIdx = 0
	for vm.scriptIdx < len(vm.scripts) &&
		len(vm.scripts[vm.scriptIdx]) == 0 {

		vm.scriptIdx++
	}
	if vm.scriptIdx < len(vm.scripts) {
		vm.tokenizer = MakeScriptTokenizer(vm.scripts[vm.scriptIdx])
	}
}

// subScript returns the script since the most recent OP_CODESEPARATOR.
func (vm *Engine) subScript() []byte {
	return vm.scripts[vm.scriptIdx][vm.lastCodeSep:]
}

// pushCopy pushes a copy of the passed bytes so later stack mutation cannot
// alias context-owned memory.
func (vm *Engine) pushCopy(b []byte) error {
	cp := make([]byte, len(b))
	copy(cp, b)
	vm.dstack.PushByteArray(cp)
	return nil
}

// popIndex pops a numeric transaction input or output index off the stack.
func (vm *Engine) popIndex() (int, error) {
	v, err := vm.dstack.PopInt()
	if err != nil {
		return 0, err
	}
	return int(v.Int32()), nil
}

// popRef pops a 36-byte reference off the stack.
func (vm *Engine) popRef() (Ref, error) {
	var ref Ref

	so, err := vm.dstack.PopByteArray()
	if err != nil {
		return ref, err
	}
	if len(so) != RefSize {
		str := fmt.Sprintf("reference operand is %d bytes instead of %d",
			len(so), RefSize)
		return ref, scriptError(ErrInvalidReference, str)
	}
	return makeRef(so), nil
}

// takeRefOperand validates the inline 36-byte operand of a reference opcode
// and the flag gating of the reference opcode family.
func (vm *Engine) takeRefOperand(op *opcode, data []byte) (Ref, error) {
	var ref Ref
	if !vm.hasFlag(ScriptEnhancedReferences) && !vm.allowDisabled {
		str := fmt.Sprintf("attempt to execute disabled opcode %s",
			op.name)
		return ref, scriptError(ErrDisabledOpcode, str)
	}
	if len(data) != RefSize {
		str := fmt.Sprintf("%s operand is %d bytes instead of %d",
			op.name, len(data), RefSize)
		return ref, scriptError(ErrInvalidReference, str)
	}
	return makeRef(data), nil
}

// refKnownToInputs reports whether the reference names the outpoint of the
// input being validated or appears in one of the input UTXO scripts.
func (vm *Engine) refKnownToInputs(ref Ref) bool {
	ctx := vm.ctx
	if ref == NewRef(ctx.tx.TxIn[ctx.inputIndex].PreviousOutPoint) {
		return true
	}
	return ctx.inputRefs.contains(ref)
}

// introspectionContext returns the execution context after validating that
// the native introspection opcodes are enabled and a context is present.
func (vm *Engine) introspectionContext() (*ExecutionContext, error) {
	if !vm.hasFlag(ScriptNativeIntrospection) && !vm.allowDisabled {
		return nil, scriptError(ErrDisabledOpcode,
			"native introspection opcodes are not enabled")
	}
	if vm.ctx == nil {
		return nil, scriptError(ErrIntrospectionContextUnavailable,
			"no execution context is available for introspection")
	}
	return vm.ctx, nil
}

// referenceContext returns the execution context after validating that the
// reference opcodes are enabled and a context is present.
func (vm *Engine) referenceContext() (*ExecutionContext, error) {
	if !vm.hasFlag(ScriptEnhancedReferences) && !vm.allowDisabled {
		return nil, scriptError(ErrDisabledOpcode,
			"reference opcodes are not enabled")
	}
	if vm.ctx == nil {
		return nil, scriptError(ErrIntrospectionContextUnavailable,
			"no execution context is available for reference queries")
	}
	return vm.ctx, nil
}

// checkSignatureLength validates a raw signature (including the hash type
// byte) is a possible DER signature length.
func (vm *Engine) checkSignatureLength(sig []byte) error {
	if !vm.hasFlag(ScriptVerifyDERSignatures) &&
		!vm.hasFlag(ScriptVerifyLowS) &&
		!vm.hasFlag(ScriptVerifyStrictEncoding) {

		return nil
	}

	if len(sig) < minSigLen || len(sig) > maxSigLen {
		str := fmt.Sprintf("signature is %d bytes which is outside the "+
			"valid range of %d to %d", len(sig), minSigLen, maxSigLen)
		return scriptError(ErrSigBadLength, str)
	}
	return nil
}

// checkHashTypeEncoding returns whether or not the passed hashtype adheres
// to the strict encoding requirements if enabled.
func (vm *Engine) checkHashTypeEncoding(hashType SigHashType) error {
	if !vm.hasFlag(ScriptVerifyStrictEncoding) {
		return nil
	}

	base := hashType &^ (SigHashAnyOneCanPay | SigHashForkID)
	if base < SigHashAll || base > SigHashSingle {
		str := fmt.Sprintf("invalid hash type 0x%x", hashType)
		return scriptError(ErrSigHashType, str)
	}
	return nil
}

// checkPubKeyEncoding returns whether or not the passed public key adheres
// to the strict encoding requirements if enabled.
func (vm *Engine) checkPubKeyEncoding(pubKey []byte) error {
	if !vm.hasFlag(ScriptVerifyStrictEncoding) {
		return nil
	}

	if len(pubKey) == 33 && (pubKey[0] == 0x02 || pubKey[0] == 0x03) {
		// Compressed
		return nil
	}
	if len(pubKey) == 65 && pubKey[0] == 0x04 {
		// Uncompressed
		return nil
	}
	return scriptError(ErrPubKeyType,
		"unsupported public key type")
}

// checkSignatureEncoding returns whether or not the passed signature (DER
// bytes without the trailing hash type) adheres to the strict encoding
// requirements if enabled.
func (vm *Engine) checkSignatureEncoding(sig []byte) error {
	if !vm.hasFlag(ScriptVerifyDERSignatures) &&
		!vm.hasFlag(ScriptVerifyLowS) &&
		!vm.hasFlag(ScriptVerifyStrictEncoding) {

		return nil
	}

	// The format of a DER encoded signature is as follows:
	//
	// 0x30 <total length> 0x02 <length of R> <R> 0x02 <length of S> <S>
	//   - 0x30 is the ASN.1 identifier for a sequence
	//   - Total length is 1 byte and specifies length of all remaining data
	//   - 0x02 is the ASN.1 identifier that specifies an integer follows
	//   - Length of R is 1 byte and specifies how many bytes R occupies
	//   - R is the arbitrary length big-endian encoded number which
	//     represents the R value of the signature.  DER encoding dictates
	//     that the value must be encoded using the minimum possible number
	//     of bytes.  This implies the first byte can only be null if the
	//     highest bit of the next byte is set in order to prevent it from
	//     being interpreted as a negative number.
	//   - 0x02 is once again the ASN.1 integer identifier
	//   - Length of S is 1 byte and specifies how many bytes S occupies
	//   - S is the arbitrary length big-endian encoded number which
	//     represents the S value of the signature.  The encoding rules are
	//     identical as those for R.
	const (
		asn1SequenceID = 0x30
		asn1IntegerID  = 0x02

		// minDERSigLen is the minimum length of a DER encoded signature
		// and is when both R and S are 1 byte each.
		//
		// 0x30 + <1-byte> + 0x02 + 0x01 + <byte> + 0x2 + 0x01 + <byte>
		minDERSigLen = 8

		// maxDERSigLen is the maximum length of a DER encoded
		// signature and is when both R and S are 33 bytes each.  It
		// is 33 bytes because a 256-bit integer requires 32 bytes and
		// an additional leading null byte might be required if the
		// high bit is set in the value.
		//
		// 0x30 + <1-byte> + 0x02 + 0x21 + <33 bytes> + 0x2 + 0x21 +
		// <33 bytes>
		maxDERSigLen = 72

		// sequenceOffset is the byte offset within the signature of
		// the expected ASN.1 sequence identifier.
		sequenceOffset = 0

		// dataLenOffset is the byte offset within the signature of
		// the expected total length of all remaining data in the
		// signature.
		dataLenOffset = 1

		// rTypeOffset is the byte offset within the signature of the
		// ASN.1 identifier for R and is expected to indicate an ASN.1
		// integer.
		rTypeOffset = 2

		// rLenOffset is the byte offset within the signature of the
		// length of R.
		rLenOffset = 3

		// rOffset is the byte offset within the signature of R.
		rOffset = 4
	)

	// The signature must adhere to the minimum and maximum allowed length.
	sigLen := len(sig)
	if sigLen < minDERSigLen {
		str := fmt.Sprintf("malformed signature: too short: %d < %d",
			sigLen, minDERSigLen)
		return scriptError(ErrSigDER, str)
	}
	if sigLen > maxDERSigLen {
		str := fmt.Sprintf("malformed signature: too long: %d > %d",
			sigLen, maxDERSigLen)
		return scriptError(ErrSigDER, str)
	}

	// The signature must start with the ASN.1 sequence identifier.
	if sig[sequenceOffset] != asn1SequenceID {
		str := fmt.Sprintf("malformed signature: format has wrong "+
			"type: %#x", sig[sequenceOffset])
		return scriptError(ErrSigDER, str)
	}

	// The signature must indicate the correct amount of data for all
	// elements related to R and S.
	if int(sig[dataLenOffset]) != sigLen-2 {
		str := fmt.Sprintf("malformed signature: bad length: %d != %d",
			sig[dataLenOffset], sigLen-2)
		return scriptError(ErrSigDER, str)
	}

	// Calculate the offsets of the elements related to S and ensure S is
	// inside the signature.
	//
	// rLen specifies the length of the big-endian encoded number which
	// represents the R value of the signature.
	//
	// sTypeOffset is the offset of the ASN.1 identifier for S and, like
	// its R counterpart, is expected to indicate an ASN.1 integer.
	//
	// sLenOffset and sOffset are the byte offsets within the signature of
	// the length of S and S itself, respectively.
	rLen := int(sig[rLenOffset])
	sTypeOffset := rOffset + rLen
	sLenOffset := sTypeOffset + 1
	if sTypeOffset >= sigLen {
		return scriptError(ErrSigDER,
			"malformed signature: S type indicator missing")
	}
	if sLenOffset >= sigLen {
		return scriptError(ErrSigDER,
			"malformed signature: S length missing")
	}

	// The lengths of R and S must match the overall length of the
	// signature.
	//
	// sLen specifies the length of the big-endian encoded number which
	// represents the S value of the signature.
	sOffset := sLenOffset + 1
	sLen := int(sig[sLenOffset])
	if sOffset+sLen != sigLen {
		return scriptError(ErrSigDER,
			"malformed signature: invalid S length")
	}

	// R elements must be ASN.1 integers.
	if sig[rTypeOffset] != asn1IntegerID {
		str := fmt.Sprintf("malformed signature: R integer marker: "+
			"%#x != %#x", sig[rTypeOffset], asn1IntegerID)
		return scriptError(ErrSigDER, str)
	}

	// Zero-length integers are not allowed for R.
	if rLen == 0 {
		return scriptError(ErrSigDER,
			"malformed signature: R length is zero")
	}

	// R must not be negative.
	if sig[rOffset]&0x80 != 0 {
		return scriptError(ErrSigDER,
			"malformed signature: R is negative")
	}

	// Null bytes at the start of R are not allowed, unless R would
	// otherwise be interpreted as a negative number.
	if rLen > 1 && sig[rOffset] == 0x00 && sig[rOffset+1]&0x80 == 0 {
		return scriptError(ErrSigDER,
			"malformed signature: R value has too much padding")
	}

	// S elements must be ASN.1 integers.
	if sig[sTypeOffset] != asn1IntegerID {
		str := fmt.Sprintf("malformed signature: S integer marker: "+
			"%#x != %#x", sig[sTypeOffset], asn1IntegerID)
		return scriptError(ErrSigDER, str)
	}

	// Zero-length integers are not allowed for S.
	if sLen == 0 {
		return scriptError(ErrSigDER,
			"malformed signature: S length is zero")
	}

	// S must not be negative.
	if sig[sOffset]&0x80 != 0 {
		return scriptError(ErrSigDER,
			"malformed signature: S is negative")
	}

	// Null bytes at the start of S are not allowed, unless S would
	// otherwise be interpreted as a negative number.
	if sLen > 1 && sig[sOffset] == 0x00 && sig[sOffset+1]&0x80 == 0 {
		return scriptError(ErrSigDER,
			"malformed signature: S value has too much padding")
	}

	// Verify the S value is <= half the order of the curve.  This check
	// is done because when it is higher, the complement modulo the order
	// can be used instead which is a shorter encoding by 1 byte.  Further,
	// without enforcing this, it is possible to replace a signature in a
	// valid transaction with the complement while still being a valid
	// signature that verifies.  This would result in changing the
	// transaction hash and thus is a source of malleability.
	if vm.hasFlag(ScriptVerifyLowS) {
		sValue := new(big.Int).SetBytes(sig[sOffset : sOffset+sLen])
		if sValue.Cmp(halfOrder) > 0 {
			return scriptError(ErrSigHighS,
				"signature is not canonical due to "+
					"unnecessarily high S value")
		}
	}

	return nil
}

// getStack returns the contents of stack as a byte array bottom up.
func getStack(stack *stack) [][]byte {
	array := make([][]byte, stack.Depth())
	for i := range array {
		// PeekByteArray can't fail due to overflow, already checked
		array[len(array)-i-1], _ = stack.PeekByteArray(int32(i))
	}
	return array
}

// setStack sets the stack to the contents of the array where the last item
// in the array is the top item in the stack.
func setStack(stack *stack, data [][]byte) {
	// This can not error.  Only errors are for invalid arguments.
	stack.restore(nil)
	for i := range data {
		stack.PushByteArray(data[i])
	}
}

// GetStack returns the contents of the primary stack as an array.  The last
// item in the array is the top of the stack.
func (vm *Engine) GetStack() [][]byte {
	return getStack(&vm.dstack)
}

// SetStack sets the contents of the primary stack to the contents of the
// provided array where the last item in the array will be the top of the
// stack.
func (vm *Engine) SetStack(data [][]byte) {
	setStack(&vm.dstack, data)
}

// GetAltStack returns the contents of the alternate stack as an array.  The
// last item in the array is the top of the stack.
func (vm *Engine) GetAltStack() [][]byte {
	return getStack(&vm.astack)
}

// SetAltStack sets the contents of the alternate stack to the contents of
// the provided array where the last item in the array will be the top of the
// stack.
func (vm *Engine) SetAltStack(data [][]byte) {
	setStack(&vm.astack, data)
}

// DisasmPC returns the string for the disassembly of the opcode that will be
// next to execute when Step is called.
func (vm *Engine) DisasmPC() (string, error) {
	if vm.scriptIdx >= len(vm.scripts) {
		return "", scriptError(ErrUnknown, "program counter is past "+
			"the final script")
	}

	var disbuf strings.Builder
	tokenizer := MakeScriptTokenizer(vm.scripts[vm.scriptIdx])
	tokenizer.offset = vm.tokenizer.ByteIndex()
	if !tokenizer.Next() {
		if err := tokenizer.Err(); err != nil {
			return "", err
		}
		return fmt.Sprintf("%02x:%04x: end of script", vm.scriptIdx,
			vm.opcodeIdx), nil
	}
	disasmOpcode(&disbuf, tokenizer.op, tokenizer.Data(), false)
	return fmt.Sprintf("%02x:%04x: %s", vm.scriptIdx, vm.opcodeIdx,
		disbuf.String()), nil
}

// DisasmScript returns the disassembly string for the script at the given
// offset index.  Index 0 is the signature script and 1 is the public key
// script.
func (vm *Engine) DisasmScript(idx int) (string, error) {
	if idx < 0 || idx >= len(vm.scripts) {
		str := fmt.Sprintf("script index %d >= total scripts %d", idx,
			len(vm.scripts))
		return "", scriptError(ErrUnknown, str)
	}

	var disbuf strings.Builder
	var opcodeIdx int
	tokenizer := MakeScriptTokenizer(vm.scripts[idx])
	for tokenizer.Next() {
		disbuf.WriteString(fmt.Sprintf("%02x:%04x: ", idx, opcodeIdx))
		disasmOpcode(&disbuf, tokenizer.op, tokenizer.Data(), false)
		disbuf.WriteByte('\n')
		opcodeIdx++
	}
	return disbuf.String(), tokenizer.Err()
}

// NewEngine returns a new script engine for the provided unlocking script,
// locking script, transaction, and input index.  The flags modify the
// behavior of the script engine according to the description provided by
// each flag.  The sigCache and hashCache are optional; the context may be
// nil, in which case the introspection and reference opcodes fail with
// ErrIntrospectionContextUnavailable.  A nil transaction installs the dummy
// signature checker for free-standing debugging.
func NewEngine(scriptSig, scriptPubKey []byte, tx *wire.MsgTx, txIdx int,
	flags ScriptFlags, sigCache *SigCache, hashCache *HashCache,
	inputAmount int64, ctx *ExecutionContext) (*Engine, error) {

	if tx != nil && (txIdx < 0 || txIdx >= len(tx.TxIn)) {
		str := fmt.Sprintf("transaction input index %d is out of "+
			"range [0, %d)", txIdx, len(tx.TxIn))
		return nil, scriptError(ErrInvalidTxInputIndex, str)
	}

	vm := Engine{
		flags:         flags,
		tx:            tx,
		txIdx:         txIdx,
		ctx:           ctx,
		pushRefs:      make(map[Ref]struct{}),
		requireRefs:   make(map[Ref]struct{}),
		singletonRefs: make(map[Ref]struct{}),
	}

	// The signature script must only contain data pushes when the
	// associated flag is set.
	if vm.hasFlag(ScriptVerifySigPushOnly) && !IsPushOnlyScript(scriptSig) {
		return nil, scriptError(ErrSigPushOnly,
			"signature script is not push only")
	}

	scripts := [][]byte{scriptSig, scriptPubKey}
	for _, scr := range scripts {
		if len(scr) > MaxScriptSize {
			str := fmt.Sprintf("script size %d is larger than max "+
				"allowed size %d", len(scr), MaxScriptSize)
			return nil, scriptError(ErrScriptSize, str)
		}
	}
	vm.scripts = scripts

	// Advance the program counter to the public key script when the
	// signature script is empty since there is nothing to execute for it
	// in that case.
	for vm.scriptIdx < len(scripts) && len(scripts[vm.scriptIdx]) == 0 {
		vm.scriptIdx++
	}

	if vm.hasFlag(ScriptBip16) && IsPayToScriptHash(scriptPubKey) {
		// Only accept input scripts that push data for P2SH.
		if !IsPushOnlyScript(scriptSig) {
			return nil, scriptError(ErrSigPushOnly,
				"pay to script hash is not push only")
		}
		vm.bip16 = true
	}

	if vm.hasFlag(ScriptVerifyMinimalData) {
		vm.dstack.verifyMinimalData = true
		vm.astack.verifyMinimalData = true
	}
	vm.dstack.numLen = vm.scriptNumLen()
	vm.astack.numLen = vm.scriptNumLen()

	if tx != nil {
		checker := NewTxSignatureChecker(tx, txIdx, inputAmount)
		checker.sigCache = sigCache
		if hashCache != nil {
			txid := tx.TxHash()
			sigHashes, ok := hashCache.GetSigHashes(&txid)
			if !ok {
				hashCache.AddSigHashes(tx)
				sigHashes, _ = hashCache.GetSigHashes(&txid)
			}
			checker.sigHashes = sigHashes
		}
		vm.checker = checker
	} else {
		vm.checker = DummySignatureChecker{}
	}

	if vm.scriptIdx < len(scripts) {
		vm.tokenizer = MakeScriptTokenizer(scripts[vm.scriptIdx])
	}

	return &vm, nil
}

// VerifyResult describes the outcome of verifying one input.
type VerifyResult struct {
	// Success is true when the script pair verified.
	Success bool

	// Err is nil on success and otherwise carries the typed failure.
	Err error

	// ErrorCode is the classification of Err.
	ErrorCode ErrorCode

	// OpCount is the number of non-push operations executed.
	OpCount int

	// StackDepth is the data stack depth when execution stopped.
	StackDepth int32
}

// VerifyScript runs the unlocking and locking script pair for the given
// input to completion and reports the verdict.
func VerifyScript(scriptSig, scriptPubKey []byte, tx *wire.MsgTx, txIdx int,
	amount int64, flags ScriptFlags, sigCache *SigCache,
	hashCache *HashCache, ctx *ExecutionContext) VerifyResult {

	vm, err := NewEngine(scriptSig, scriptPubKey, tx, txIdx, flags,
		sigCache, hashCache, amount, ctx)
	if err != nil {
		return VerifyResult{Err: err, ErrorCode: ErrorCodeOf(err)}
	}

	// Step to completion by hand so the reported stack depth reflects the
	// state at the end of execution, before the final verdict pop.
	var done bool
	for !done && err == nil {
		done, err = vm.Step()
	}
	depth := vm.dstack.Depth()
	if err == nil {
		err = vm.CheckErrorCondition(true)
	}

	return VerifyResult{
		Success:    err == nil,
		Err:        err,
		ErrorCode:  ErrorCodeOf(err),
		OpCount:    vm.TotalOps(),
		StackDepth: depth,
	}
}

// VerifyTransaction verifies every input of the transaction against the
// provided spent coins and returns the ordered per-input results without
// short-circuiting on the first failure.
func VerifyTransaction(tx *wire.MsgTx, utxos []Coin, flags ScriptFlags,
	sigCache *SigCache, hashCache *HashCache) ([]VerifyResult, error) {

	if len(utxos) != len(tx.TxIn) {
		return nil, fmt.Errorf("utxo count %d does not match "+
			"transaction input count %d", len(utxos), len(tx.TxIn))
	}

	results := make([]VerifyResult, len(tx.TxIn))
	for i, txIn := range tx.TxIn {
		ctx, err := NewExecutionContext(tx, utxos, i)
		if err != nil {
			return nil, err
		}
		results[i] = VerifyScript(txIn.SignatureScript,
			utxos[i].PkScript, tx, i, utxos[i].Value, flags,
			sigCache, hashCache, ctx)
	}
	return results, nil
}
