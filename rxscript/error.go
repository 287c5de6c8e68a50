// Copyright (c) 2024 The rxdeb developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rxscript

import "fmt"

// ErrorCode identifies a kind of script error.  The set is closed: every
// interpreter and verifier failure is exactly one of these codes.
type ErrorCode int

// These constants are used to identify a specific Error.
const (
	// ErrOK is the zero value and indicates no error.  It never appears
	// inside a returned Error.
	ErrOK ErrorCode = iota

	// ErrUnknown indicates a failure that could not be classified.
	ErrUnknown

	// ErrEvalFalse is returned when a script evaluates without error but
	// finishes with a false or empty top stack element.
	ErrEvalFalse

	// ErrOpReturn is returned when OP_RETURN is executed.
	ErrOpReturn

	// ErrScriptSize is returned when a script exceeds the maximum allowed
	// script size.
	ErrScriptSize

	// ErrPushSize is returned when a stack element would exceed the
	// maximum allowed element size.
	ErrPushSize

	// ErrOpCount is returned when a script contains more non-push
	// operations than the maximum allowed.
	ErrOpCount

	// ErrStackSize is returned when the combined depth of the data and
	// alternate stacks exceeds the maximum.
	ErrStackSize

	// ErrSigCount is returned when the signature count of a multisig
	// operation is negative or greater than the pubkey count.
	ErrSigCount

	// ErrPubKeyCount is returned when the pubkey count of a multisig
	// operation is negative or exceeds the maximum.
	ErrPubKeyCount

	// ErrVerify is returned when OP_VERIFY fails.
	ErrVerify

	// ErrEqualVerify is returned when OP_EQUALVERIFY fails.
	ErrEqualVerify

	// ErrCheckMultiSigVerify is returned when OP_CHECKMULTISIGVERIFY
	// fails.
	ErrCheckMultiSigVerify

	// ErrCheckSigVerify is returned when OP_CHECKSIGVERIFY or
	// OP_CHECKDATASIGVERIFY fails.
	ErrCheckSigVerify

	// ErrNumEqualVerify is returned when OP_NUMEQUALVERIFY fails.
	ErrNumEqualVerify

	// ErrBadOpcode is returned when an opcode outside the defined set, or
	// a defined opcode with no executable semantics, is encountered.
	ErrBadOpcode

	// ErrDisabledOpcode is returned when an opcode that the active flag
	// set disables is encountered.
	ErrDisabledOpcode

	// ErrInvalidStackOperation is returned when a stack operation is
	// attempted with insufficient or out-of-range operands.
	ErrInvalidStackOperation

	// ErrInvalidAltStackOperation is returned when the alternate stack
	// lacks the required operands.
	ErrInvalidAltStackOperation

	// ErrUnbalancedConditional is returned when an OP_ELSE or OP_ENDIF has
	// no matching OP_IF, or when a script ends with an open conditional.
	ErrUnbalancedConditional

	// ErrSigHashType is returned when the hash type of a signature is not
	// one of the supported values.
	ErrSigHashType

	// ErrSigDER is returned when a signature is not canonical DER.
	ErrSigDER

	// ErrMinimalData is returned when the minimal data flag is set and a
	// push is not the smallest possible encoding.
	ErrMinimalData

	// ErrSigPushOnly is returned when a signature script contains
	// non-push operations and the flags require push only.
	ErrSigPushOnly

	// ErrSigHighS is returned when the low S flag is set and a signature
	// S value is above the half order.
	ErrSigHighS

	// ErrSigNullDummy is returned when the null dummy flag is set and the
	// extra multisig stack item is not empty.
	ErrSigNullDummy

	// ErrPubKeyType is returned when strict encoding is enabled and a
	// public key is neither compressed nor uncompressed.
	ErrPubKeyType

	// ErrCleanStack is returned when the clean stack flag is set and more
	// than one item remains after evaluation.
	ErrCleanStack

	// ErrMinimalIf is returned when the minimal if flag is set and the
	// OP_IF/OP_NOTIF operand is not an empty vector or 0x01.
	ErrMinimalIf

	// ErrSigNullFail is returned when the null fail flag is set and a
	// failed signature check was given a non-empty signature.
	ErrSigNullFail

	// ErrNegativeLockTime is returned when a locktime operand is
	// negative.
	ErrNegativeLockTime

	// ErrUnsatisfiedLockTime is returned when a locktime or sequence
	// requirement is not met by the transaction.
	ErrUnsatisfiedLockTime

	// ErrDivByZero is returned when OP_DIV is given a zero divisor.
	ErrDivByZero

	// ErrModByZero is returned when OP_MOD is given a zero divisor.
	ErrModByZero

	// ErrInvalidNumberRange is returned when a stack element interpreted
	// as a number is wider than the allowed script number size.
	ErrInvalidNumberRange

	// ErrImpossibleEncoding is returned when OP_NUM2BIN is asked to fit a
	// number into fewer bytes than its minimal encoding requires.
	ErrImpossibleEncoding

	// ErrContextNotPresent is returned when an operation requires the
	// transaction context and the engine has none.
	ErrContextNotPresent

	// ErrInvalidTxInputIndex is returned when a context query references
	// an input index outside the transaction.
	ErrInvalidTxInputIndex

	// ErrInvalidTxOutputIndex is returned when a context query references
	// an output index outside the transaction.
	ErrInvalidTxOutputIndex

	// ErrInvalidStateSeparatorLocation is returned when a state separator
	// appears at an invalid script position.
	ErrInvalidStateSeparatorLocation

	// ErrMustUseForkID is returned when a signature lacks the mandatory
	// FORKID bit in its hash type.
	ErrMustUseForkID

	// ErrInvalidReference is returned when a reference opcode operand is
	// malformed or violates a disallow constraint.
	ErrInvalidReference

	// ErrReferenceNotFound is returned when a required reference does not
	// appear in the transaction inputs.
	ErrReferenceNotFound

	// ErrSingletonMismatch is returned when a singleton reference does
	// not appear in exactly one input and exactly one output.
	ErrSingletonMismatch

	// ErrIntrospectionContextUnavailable is returned when an
	// introspection opcode executes without an execution context.
	ErrIntrospectionContextUnavailable

	// ErrSigBadLength is returned when a signature has an impossible
	// length for its claimed encoding.
	ErrSigBadLength

	// numErrorCodes is the maximum error code number used in tests.
	numErrorCodes
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrOK:                              "ErrOK",
	ErrUnknown:                         "ErrUnknown",
	ErrEvalFalse:                       "ErrEvalFalse",
	ErrOpReturn:                        "ErrOpReturn",
	ErrScriptSize:                      "ErrScriptSize",
	ErrPushSize:                        "ErrPushSize",
	ErrOpCount:                         "ErrOpCount",
	ErrStackSize:                       "ErrStackSize",
	ErrSigCount:                        "ErrSigCount",
	ErrPubKeyCount:                     "ErrPubKeyCount",
	ErrVerify:                          "ErrVerify",
	ErrEqualVerify:                     "ErrEqualVerify",
	ErrCheckMultiSigVerify:             "ErrCheckMultiSigVerify",
	ErrCheckSigVerify:                  "ErrCheckSigVerify",
	ErrNumEqualVerify:                  "ErrNumEqualVerify",
	ErrBadOpcode:                       "ErrBadOpcode",
	ErrDisabledOpcode:                  "ErrDisabledOpcode",
	ErrInvalidStackOperation:           "ErrInvalidStackOperation",
	ErrInvalidAltStackOperation:        "ErrInvalidAltStackOperation",
	ErrUnbalancedConditional:           "ErrUnbalancedConditional",
	ErrSigHashType:                     "ErrSigHashType",
	ErrSigDER:                          "ErrSigDER",
	ErrMinimalData:                     "ErrMinimalData",
	ErrSigPushOnly:                     "ErrSigPushOnly",
	ErrSigHighS:                        "ErrSigHighS",
	ErrSigNullDummy:                    "ErrSigNullDummy",
	ErrPubKeyType:                      "ErrPubKeyType",
	ErrCleanStack:                      "ErrCleanStack",
	ErrMinimalIf:                       "ErrMinimalIf",
	ErrSigNullFail:                     "ErrSigNullFail",
	ErrNegativeLockTime:                "ErrNegativeLockTime",
	ErrUnsatisfiedLockTime:             "ErrUnsatisfiedLockTime",
	ErrDivByZero:                       "ErrDivByZero",
	ErrModByZero:                       "ErrModByZero",
	ErrInvalidNumberRange:              "ErrInvalidNumberRange",
	ErrImpossibleEncoding:              "ErrImpossibleEncoding",
	ErrContextNotPresent:               "ErrContextNotPresent",
	ErrInvalidTxInputIndex:             "ErrInvalidTxInputIndex",
	ErrInvalidTxOutputIndex:            "ErrInvalidTxOutputIndex",
	ErrInvalidStateSeparatorLocation:   "ErrInvalidStateSeparatorLocation",
	ErrMustUseForkID:                   "ErrMustUseForkID",
	ErrInvalidReference:                "ErrInvalidReference",
	ErrReferenceNotFound:               "ErrReferenceNotFound",
	ErrSingletonMismatch:               "ErrSingletonMismatch",
	ErrIntrospectionContextUnavailable: "ErrIntrospectionContextUnavailable",
	ErrSigBadLength:                    "ErrSigBadLength",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// Error identifies a script-related error.  It is used to indicate three
// classes of errors:
//  1. Script execution failures due to violating one of the many requirements
//     imposed by the script engine or evaluating to false.
//  2. Improper API usage by callers.
//  3. Malformed scripts.
//
// The caller can use type assertions to determine if an error is an Error and
// access the ErrorCode field to ascertain the specific reason for the
// failure.
type Error struct {
	ErrorCode   ErrorCode
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// scriptError creates an Error given a set of arguments.
func scriptError(c ErrorCode, desc string) Error {
	return Error{ErrorCode: c, Description: desc}
}

// IsErrorCode returns whether or not the provided error is a script error
// with the provided error code.
func IsErrorCode(err error, c ErrorCode) bool {
	serr, ok := err.(Error)
	return ok && serr.ErrorCode == c
}

// ErrorCodeOf extracts the error code from err.  A nil error maps to ErrOK
// and a non-script error maps to ErrUnknown.
func ErrorCodeOf(err error) ErrorCode {
	if err == nil {
		return ErrOK
	}
	if serr, ok := err.(Error); ok {
		return serr.ErrorCode
	}
	return ErrUnknown
}
