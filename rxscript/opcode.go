// Copyright (c) 2024 The rxdeb developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rxscript

import (
	"bytes"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/ripemd160"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/radiantblockchain/rxdeb/rxhash"
)

// An opcode defines the information related to a script opcode.  opfunc, if
// present, is the function to call to perform the opcode on the script.  The
// current script is passed in as a slice with the first member being the
// opcode itself.
type opcode struct {
	value  byte
	name   string
	length int
	opfunc func(*opcode, []byte, *Engine) error
}

// These constants are the values of the Radiant script opcodes.  The set is
// the Bitcoin legacy set with the splice and arithmetic opcodes re-enabled,
// plus the Radiant-specific introspection, state separator, and reference
// tracking opcodes.
const (
	OP_0                   = 0x00 // 0
	OP_FALSE               = 0x00 // 0 - AKA OP_0
	OP_DATA_1              = 0x01 // 1
	OP_DATA_2              = 0x02 // 2
	OP_DATA_3              = 0x03 // 3
	OP_DATA_4              = 0x04 // 4
	OP_DATA_5              = 0x05 // 5
	OP_DATA_6              = 0x06 // 6
	OP_DATA_7              = 0x07 // 7
	OP_DATA_8              = 0x08 // 8
	OP_DATA_9              = 0x09 // 9
	OP_DATA_10             = 0x0a // 10
	OP_DATA_11             = 0x0b // 11
	OP_DATA_12             = 0x0c // 12
	OP_DATA_13             = 0x0d // 13
	OP_DATA_14             = 0x0e // 14
	OP_DATA_15             = 0x0f // 15
	OP_DATA_16             = 0x10 // 16
	OP_DATA_17             = 0x11 // 17
	OP_DATA_18             = 0x12 // 18
	OP_DATA_19             = 0x13 // 19
	OP_DATA_20             = 0x14 // 20
	OP_DATA_21             = 0x15 // 21
	OP_DATA_22             = 0x16 // 22
	OP_DATA_23             = 0x17 // 23
	OP_DATA_24             = 0x18 // 24
	OP_DATA_25             = 0x19 // 25
	OP_DATA_26             = 0x1a // 26
	OP_DATA_27             = 0x1b // 27
	OP_DATA_28             = 0x1c // 28
	OP_DATA_29             = 0x1d // 29
	OP_DATA_30             = 0x1e // 30
	OP_DATA_31             = 0x1f // 31
	OP_DATA_32             = 0x20 // 32
	OP_DATA_33             = 0x21 // 33
	OP_DATA_34             = 0x22 // 34
	OP_DATA_35             = 0x23 // 35
	OP_DATA_36             = 0x24 // 36
	OP_DATA_37             = 0x25 // 37
	OP_DATA_38             = 0x26 // 38
	OP_DATA_39             = 0x27 // 39
	OP_DATA_40             = 0x28 // 40
	OP_DATA_41             = 0x29 // 41
	OP_DATA_42             = 0x2a // 42
	OP_DATA_43             = 0x2b // 43
	OP_DATA_44             = 0x2c // 44
	OP_DATA_45             = 0x2d // 45
	OP_DATA_46             = 0x2e // 46
	OP_DATA_47             = 0x2f // 47
	OP_DATA_48             = 0x30 // 48
	OP_DATA_49             = 0x31 // 49
	OP_DATA_50             = 0x32 // 50
	OP_DATA_51             = 0x33 // 51
	OP_DATA_52             = 0x34 // 52
	OP_DATA_53             = 0x35 // 53
	OP_DATA_54             = 0x36 // 54
	OP_DATA_55             = 0x37 // 55
	OP_DATA_56             = 0x38 // 56
	OP_DATA_57             = 0x39 // 57
	OP_DATA_58             = 0x3a // 58
	OP_DATA_59             = 0x3b // 59
	OP_DATA_60             = 0x3c // 60
	OP_DATA_61             = 0x3d // 61
	OP_DATA_62             = 0x3e // 62
	OP_DATA_63             = 0x3f // 63
	OP_DATA_64             = 0x40 // 64
	OP_DATA_65             = 0x41 // 65
	OP_DATA_66             = 0x42 // 66
	OP_DATA_67             = 0x43 // 67
	OP_DATA_68             = 0x44 // 68
	OP_DATA_69             = 0x45 // 69
	OP_DATA_70             = 0x46 // 70
	OP_DATA_71             = 0x47 // 71
	OP_DATA_72             = 0x48 // 72
	OP_DATA_73             = 0x49 // 73
	OP_DATA_74             = 0x4a // 74
	OP_DATA_75             = 0x4b // 75
	OP_PUSHDATA1           = 0x4c // 76
	OP_PUSHDATA2           = 0x4d // 77
	OP_PUSHDATA4           = 0x4e // 78
	OP_1NEGATE             = 0x4f // 79
	OP_RESERVED            = 0x50 // 80
	OP_1                   = 0x51 // 81 - AKA OP_TRUE
	OP_TRUE                = 0x51 // 81
	OP_2                   = 0x52 // 82
	OP_3                   = 0x53 // 83
	OP_4                   = 0x54 // 84
	OP_5                   = 0x55 // 85
	OP_6                   = 0x56 // 86
	OP_7                   = 0x57 // 87
	OP_8                   = 0x58 // 88
	OP_9                   = 0x59 // 89
	OP_10                  = 0x5a // 90
	OP_11                  = 0x5b // 91
	OP_12                  = 0x5c // 92
	OP_13                  = 0x5d // 93
	OP_14                  = 0x5e // 94
	OP_15                  = 0x5f // 95
	OP_16                  = 0x60 // 96
	OP_NOP                 = 0x61 // 97
	OP_VER                 = 0x62 // 98
	OP_IF                  = 0x63 // 99
	OP_NOTIF               = 0x64 // 100
	OP_VERIF               = 0x65 // 101
	OP_VERNOTIF            = 0x66 // 102
	OP_ELSE                = 0x67 // 103
	OP_ENDIF               = 0x68 // 104
	OP_VERIFY              = 0x69 // 105
	OP_RETURN              = 0x6a // 106
	OP_TOALTSTACK          = 0x6b // 107
	OP_FROMALTSTACK        = 0x6c // 108
	OP_2DROP               = 0x6d // 109
	OP_2DUP                = 0x6e // 110
	OP_3DUP                = 0x6f // 111
	OP_2OVER               = 0x70 // 112
	OP_2ROT                = 0x71 // 113
	OP_2SWAP               = 0x72 // 114
	OP_IFDUP               = 0x73 // 115
	OP_DEPTH               = 0x74 // 116
	OP_DROP                = 0x75 // 117
	OP_DUP                 = 0x76 // 118
	OP_NIP                 = 0x77 // 119
	OP_OVER                = 0x78 // 120
	OP_PICK                = 0x79 // 121
	OP_ROLL                = 0x7a // 122
	OP_ROT                 = 0x7b // 123
	OP_SWAP                = 0x7c // 124
	OP_TUCK                = 0x7d // 125
	OP_CAT                 = 0x7e // 126
	OP_SPLIT               = 0x7f // 127
	OP_NUM2BIN             = 0x80 // 128
	OP_BIN2NUM             = 0x81 // 129
	OP_SIZE                = 0x82 // 130
	OP_INVERT              = 0x83 // 131
	OP_AND                 = 0x84 // 132
	OP_OR                  = 0x85 // 133
	OP_XOR                 = 0x86 // 134
	OP_EQUAL               = 0x87 // 135
	OP_EQUALVERIFY         = 0x88 // 136
	OP_RESERVED1           = 0x89 // 137
	OP_RESERVED2           = 0x8a // 138
	OP_1ADD                = 0x8b // 139
	OP_1SUB                = 0x8c // 140
	OP_2MUL                = 0x8d // 141
	OP_2DIV                = 0x8e // 142
	OP_NEGATE              = 0x8f // 143
	OP_ABS                 = 0x90 // 144
	OP_NOT                 = 0x91 // 145
	OP_0NOTEQUAL           = 0x92 // 146
	OP_ADD                 = 0x93 // 147
	OP_SUB                 = 0x94 // 148
	OP_MUL                 = 0x95 // 149
	OP_DIV                 = 0x96 // 150
	OP_MOD                 = 0x97 // 151
	OP_LSHIFT              = 0x98 // 152
	OP_RSHIFT              = 0x99 // 153
	OP_BOOLAND             = 0x9a // 154
	OP_BOOLOR              = 0x9b // 155
	OP_NUMEQUAL            = 0x9c // 156
	OP_NUMEQUALVERIFY      = 0x9d // 157
	OP_NUMNOTEQUAL         = 0x9e // 158
	OP_LESSTHAN            = 0x9f // 159
	OP_GREATERTHAN         = 0xa0 // 160
	OP_LESSTHANOREQUAL     = 0xa1 // 161
	OP_GREATERTHANOREQUAL  = 0xa2 // 162
	OP_MIN                 = 0xa3 // 163
	OP_MAX                 = 0xa4 // 164
	OP_WITHIN              = 0xa5 // 165
	OP_RIPEMD160           = 0xa6 // 166
	OP_SHA1                = 0xa7 // 167
	OP_SHA256              = 0xa8 // 168
	OP_HASH160             = 0xa9 // 169
	OP_HASH256             = 0xaa // 170
	OP_CODESEPARATOR       = 0xab // 171
	OP_CHECKSIG            = 0xac // 172
	OP_CHECKSIGVERIFY      = 0xad // 173
	OP_CHECKMULTISIG       = 0xae // 174
	OP_CHECKMULTISIGVERIFY = 0xaf // 175
	OP_NOP1                = 0xb0 // 176
	OP_CHECKLOCKTIMEVERIFY = 0xb1 // 177 - AKA OP_NOP2
	OP_NOP2                = 0xb1 // 177
	OP_CHECKSEQUENCEVERIFY = 0xb2 // 178 - AKA OP_NOP3
	OP_NOP3                = 0xb2 // 178
	OP_NOP4                = 0xb3 // 179
	OP_NOP5                = 0xb4 // 180
	OP_NOP6                = 0xb5 // 181
	OP_NOP7                = 0xb6 // 182
	OP_NOP8                = 0xb7 // 183
	OP_NOP9                = 0xb8 // 184
	OP_NOP10               = 0xb9 // 185
	OP_CHECKDATASIG        = 0xba // 186
	OP_CHECKDATASIGVERIFY  = 0xbb // 187
	OP_REVERSEBYTES        = 0xbc // 188

	// State separator opcodes.
	OP_STATESEPARATOR             = 0xbd // 189
	OP_STATESEPARATORINDEX_UTXO   = 0xbe // 190
	OP_STATESEPARATORINDEX_OUTPUT = 0xbf // 191

	// Native introspection opcodes.
	OP_INPUTINDEX          = 0xc0 // 192
	OP_ACTIVEBYTECODE      = 0xc1 // 193
	OP_TXVERSION           = 0xc2 // 194
	OP_TXINPUTCOUNT        = 0xc3 // 195
	OP_TXOUTPUTCOUNT       = 0xc4 // 196
	OP_TXLOCKTIME          = 0xc5 // 197
	OP_UTXOVALUE           = 0xc6 // 198
	OP_UTXOBYTECODE        = 0xc7 // 199
	OP_OUTPOINTTXHASH      = 0xc8 // 200
	OP_OUTPOINTINDEX       = 0xc9 // 201
	OP_INPUTBYTECODE       = 0xca // 202
	OP_INPUTSEQUENCENUMBER = 0xcb // 203
	OP_OUTPUTVALUE         = 0xcc // 204
	OP_OUTPUTBYTECODE      = 0xcd // 205

	// SHA-512/256 hash opcodes.
	OP_SHA512_256  = 0xce // 206
	OP_HASH512_256 = 0xcf // 207

	// Reference tracking opcodes.
	OP_PUSHINPUTREF                = 0xd0 // 208
	OP_REQUIREINPUTREF             = 0xd1 // 209
	OP_DISALLOWPUSHINPUTREF        = 0xd2 // 210
	OP_DISALLOWPUSHINPUTREFSIBLING = 0xd3 // 211
	OP_REFHASHDATASUMMARY_UTXO     = 0xd4 // 212
	OP_REFHASHVALUESUM_UTXOS       = 0xd5 // 213
	OP_REFHASHDATASUMMARY_OUTPUT   = 0xd6 // 214
	OP_REFHASHVALUESUM_OUTPUTS     = 0xd7 // 215
	OP_PUSHINPUTREFSINGLETON       = 0xd8 // 216
	OP_REFTYPE_UTXO                = 0xd9 // 217
	OP_REFTYPE_OUTPUT              = 0xda // 218

	// Reference aggregation opcodes.
	OP_REFVALUESUM_UTXOS                 = 0xdb // 219
	OP_REFVALUESUM_OUTPUTS               = 0xdc // 220
	OP_REFOUTPUTCOUNT_UTXOS              = 0xdd // 221
	OP_REFOUTPUTCOUNT_OUTPUTS            = 0xde // 222
	OP_REFOUTPUTCOUNTZEROVALUED_UTXOS    = 0xdf // 223
	OP_REFOUTPUTCOUNTZEROVALUED_OUTPUTS  = 0xe0 // 224
	OP_REFDATASUMMARY_UTXO               = 0xe1 // 225
	OP_REFDATASUMMARY_OUTPUT             = 0xe2 // 226
	OP_CODESCRIPTHASHVALUESUM_UTXOS      = 0xe3 // 227
	OP_CODESCRIPTHASHVALUESUM_OUTPUTS    = 0xe4 // 228
	OP_CODESCRIPTHASHOUTPUTCOUNT_UTXOS   = 0xe5 // 229
	OP_CODESCRIPTHASHOUTPUTCOUNT_OUTPUTS = 0xe6 // 230

	OP_CODESCRIPTHASHZEROVALUEDOUTPUTCOUNT_UTXOS   = 0xe7 // 231
	OP_CODESCRIPTHASHZEROVALUEDOUTPUTCOUNT_OUTPUTS = 0xe8 // 232

	// Code and state script views.
	OP_CODESCRIPTBYTECODE_UTXO    = 0xe9 // 233
	OP_CODESCRIPTBYTECODE_OUTPUT  = 0xea // 234
	OP_STATESCRIPTBYTECODE_UTXO   = 0xeb // 235
	OP_STATESCRIPTBYTECODE_OUTPUT = 0xec // 236

	OP_PUSH_TX_STATE = 0xed // 237

	// Additional hash opcodes.
	OP_BLAKE3 = 0xee // 238
	OP_K12    = 0xef // 239

	OP_UNKNOWN240    = 0xf0 // 240
	OP_UNKNOWN241    = 0xf1 // 241
	OP_UNKNOWN242    = 0xf2 // 242
	OP_UNKNOWN243    = 0xf3 // 243
	OP_UNKNOWN244    = 0xf4 // 244
	OP_UNKNOWN245    = 0xf5 // 245
	OP_UNKNOWN246    = 0xf6 // 246
	OP_UNKNOWN247    = 0xf7 // 247
	OP_UNKNOWN248    = 0xf8 // 248
	OP_UNKNOWN249    = 0xf9 // 249
	OP_UNKNOWN250    = 0xfa // 250
	OP_UNKNOWN251    = 0xfb // 251
	OP_UNKNOWN252    = 0xfc // 252
	OP_UNKNOWN253    = 0xfd // 253
	OP_UNKNOWN254    = 0xfe // 254
	OP_INVALIDOPCODE = 0xff // 255
)

// Conditional execution constants.
const (
	OpCondFalse = 0
	OpCondTrue  = 1
	OpCondSkip  = 2
)

// refOpLen is the parsed length of a reference opcode: the opcode byte plus
// its fixed 36-byte operand.
const refOpLen = 1 + RefSize

// opcodeArray holds details about all possible opcodes such as how many
// bytes the opcode and any associated data should take, its human-readable
// name, and the handler function.
var opcodeArray = [256]opcode{
	// Data push opcodes.
	OP_FALSE:     {OP_FALSE, "OP_0", 1, opcodeFalse},
	OP_DATA_1:    {OP_DATA_1, "OP_DATA_1", 2, opcodePushData},
	OP_DATA_2:    {OP_DATA_2, "OP_DATA_2", 3, opcodePushData},
	OP_DATA_3:    {OP_DATA_3, "OP_DATA_3", 4, opcodePushData},
	OP_DATA_4:    {OP_DATA_4, "OP_DATA_4", 5, opcodePushData},
	OP_DATA_5:    {OP_DATA_5, "OP_DATA_5", 6, opcodePushData},
	OP_DATA_6:    {OP_DATA_6, "OP_DATA_6", 7, opcodePushData},
	OP_DATA_7:    {OP_DATA_7, "OP_DATA_7", 8, opcodePushData},
	OP_DATA_8:    {OP_DATA_8, "OP_DATA_8", 9, opcodePushData},
	OP_DATA_9:    {OP_DATA_9, "OP_DATA_9", 10, opcodePushData},
	OP_DATA_10:   {OP_DATA_10, "OP_DATA_10", 11, opcodePushData},
	OP_DATA_11:   {OP_DATA_11, "OP_DATA_11", 12, opcodePushData},
	OP_DATA_12:   {OP_DATA_12, "OP_DATA_12", 13, opcodePushData},
	OP_DATA_13:   {OP_DATA_13, "OP_DATA_13", 14, opcodePushData},
	OP_DATA_14:   {OP_DATA_14, "OP_DATA_14", 15, opcodePushData},
	OP_DATA_15:   {OP_DATA_15, "OP_DATA_15", 16, opcodePushData},
	OP_DATA_16:   {OP_DATA_16, "OP_DATA_16", 17, opcodePushData},
	OP_DATA_17:   {OP_DATA_17, "OP_DATA_17", 18, opcodePushData},
	OP_DATA_18:   {OP_DATA_18, "OP_DATA_18", 19, opcodePushData},
	OP_DATA_19:   {OP_DATA_19, "OP_DATA_19", 20, opcodePushData},
	OP_DATA_20:   {OP_DATA_20, "OP_DATA_20", 21, opcodePushData},
	OP_DATA_21:   {OP_DATA_21, "OP_DATA_21", 22, opcodePushData},
	OP_DATA_22:   {OP_DATA_22, "OP_DATA_22", 23, opcodePushData},
	OP_DATA_23:   {OP_DATA_23, "OP_DATA_23", 24, opcodePushData},
	OP_DATA_24:   {OP_DATA_24, "OP_DATA_24", 25, opcodePushData},
	OP_DATA_25:   {OP_DATA_25, "OP_DATA_25", 26, opcodePushData},
	OP_DATA_26:   {OP_DATA_26, "OP_DATA_26", 27, opcodePushData},
	OP_DATA_27:   {OP_DATA_27, "OP_DATA_27", 28, opcodePushData},
	OP_DATA_28:   {OP_DATA_28, "OP_DATA_28", 29, opcodePushData},
	OP_DATA_29:   {OP_DATA_29, "OP_DATA_29", 30, opcodePushData},
	OP_DATA_30:   {OP_DATA_30, "OP_DATA_30", 31, opcodePushData},
	OP_DATA_31:   {OP_DATA_31, "OP_DATA_31", 32, opcodePushData},
	OP_DATA_32:   {OP_DATA_32, "OP_DATA_32", 33, opcodePushData},
	OP_DATA_33:   {OP_DATA_33, "OP_DATA_33", 34, opcodePushData},
	OP_DATA_34:   {OP_DATA_34, "OP_DATA_34", 35, opcodePushData},
	OP_DATA_35:   {OP_DATA_35, "OP_DATA_35", 36, opcodePushData},
	OP_DATA_36:   {OP_DATA_36, "OP_DATA_36", 37, opcodePushData},
	OP_DATA_37:   {OP_DATA_37, "OP_DATA_37", 38, opcodePushData},
	OP_DATA_38:   {OP_DATA_38, "OP_DATA_38", 39, opcodePushData},
	OP_DATA_39:   {OP_DATA_39, "OP_DATA_39", 40, opcodePushData},
	OP_DATA_40:   {OP_DATA_40, "OP_DATA_40", 41, opcodePushData},
	OP_DATA_41:   {OP_DATA_41, "OP_DATA_41", 42, opcodePushData},
	OP_DATA_42:   {OP_DATA_42, "OP_DATA_42", 43, opcodePushData},
	OP_DATA_43:   {OP_DATA_43, "OP_DATA_43", 44, opcodePushData},
	OP_DATA_44:   {OP_DATA_44, "OP_DATA_44", 45, opcodePushData},
	OP_DATA_45:   {OP_DATA_45, "OP_DATA_45", 46, opcodePushData},
	OP_DATA_46:   {OP_DATA_46, "OP_DATA_46", 47, opcodePushData},
	OP_DATA_47:   {OP_DATA_47, "OP_DATA_47", 48, opcodePushData},
	OP_DATA_48:   {OP_DATA_48, "OP_DATA_48", 49, opcodePushData},
	OP_DATA_49:   {OP_DATA_49, "OP_DATA_49", 50, opcodePushData},
	OP_DATA_50:   {OP_DATA_50, "OP_DATA_50", 51, opcodePushData},
	OP_DATA_51:   {OP_DATA_51, "OP_DATA_51", 52, opcodePushData},
	OP_DATA_52:   {OP_DATA_52, "OP_DATA_52", 53, opcodePushData},
	OP_DATA_53:   {OP_DATA_53, "OP_DATA_53", 54, opcodePushData},
	OP_DATA_54:   {OP_DATA_54, "OP_DATA_54", 55, opcodePushData},
	OP_DATA_55:   {OP_DATA_55, "OP_DATA_55", 56, opcodePushData},
	OP_DATA_56:   {OP_DATA_56, "OP_DATA_56", 57, opcodePushData},
	OP_DATA_57:   {OP_DATA_57, "OP_DATA_57", 58, opcodePushData},
	OP_DATA_58:   {OP_DATA_58, "OP_DATA_58", 59, opcodePushData},
	OP_DATA_59:   {OP_DATA_59, "OP_DATA_59", 60, opcodePushData},
	OP_DATA_60:   {OP_DATA_60, "OP_DATA_60", 61, opcodePushData},
	OP_DATA_61:   {OP_DATA_61, "OP_DATA_61", 62, opcodePushData},
	OP_DATA_62:   {OP_DATA_62, "OP_DATA_62", 63, opcodePushData},
	OP_DATA_63:   {OP_DATA_63, "OP_DATA_63", 64, opcodePushData},
	OP_DATA_64:   {OP_DATA_64, "OP_DATA_64", 65, opcodePushData},
	OP_DATA_65:   {OP_DATA_65, "OP_DATA_65", 66, opcodePushData},
	OP_DATA_66:   {OP_DATA_66, "OP_DATA_66", 67, opcodePushData},
	OP_DATA_67:   {OP_DATA_67, "OP_DATA_67", 68, opcodePushData},
	OP_DATA_68:   {OP_DATA_68, "OP_DATA_68", 69, opcodePushData},
	OP_DATA_69:   {OP_DATA_69, "OP_DATA_69", 70, opcodePushData},
	OP_DATA_70:   {OP_DATA_70, "OP_DATA_70", 71, opcodePushData},
	OP_DATA_71:   {OP_DATA_71, "OP_DATA_71", 72, opcodePushData},
	OP_DATA_72:   {OP_DATA_72, "OP_DATA_72", 73, opcodePushData},
	OP_DATA_73:   {OP_DATA_73, "OP_DATA_73", 74, opcodePushData},
	OP_DATA_74:   {OP_DATA_74, "OP_DATA_74", 75, opcodePushData},
	OP_DATA_75:   {OP_DATA_75, "OP_DATA_75", 76, opcodePushData},
	OP_PUSHDATA1: {OP_PUSHDATA1, "OP_PUSHDATA1", -1, opcodePushData},
	OP_PUSHDATA2: {OP_PUSHDATA2, "OP_PUSHDATA2", -2, opcodePushData},
	OP_PUSHDATA4: {OP_PUSHDATA4, "OP_PUSHDATA4", -4, opcodePushData},
	OP_1NEGATE:   {OP_1NEGATE, "OP_1NEGATE", 1, opcode1Negate},
	OP_RESERVED:  {OP_RESERVED, "OP_RESERVED", 1, opcodeReserved},
	OP_TRUE:      {OP_TRUE, "OP_1", 1, opcodeN},
	OP_2:         {OP_2, "OP_2", 1, opcodeN},
	OP_3:         {OP_3, "OP_3", 1, opcodeN},
	OP_4:         {OP_4, "OP_4", 1, opcodeN},
	OP_5:         {OP_5, "OP_5", 1, opcodeN},
	OP_6:         {OP_6, "OP_6", 1, opcodeN},
	OP_7:         {OP_7, "OP_7", 1, opcodeN},
	OP_8:         {OP_8, "OP_8", 1, opcodeN},
	OP_9:         {OP_9, "OP_9", 1, opcodeN},
	OP_10:        {OP_10, "OP_10", 1, opcodeN},
	OP_11:        {OP_11, "OP_11", 1, opcodeN},
	OP_12:        {OP_12, "OP_12", 1, opcodeN},
	OP_13:        {OP_13, "OP_13", 1, opcodeN},
	OP_14:        {OP_14, "OP_14", 1, opcodeN},
	OP_15:        {OP_15, "OP_15", 1, opcodeN},
	OP_16:        {OP_16, "OP_16", 1, opcodeN},

	// Control opcodes.
	OP_NOP:                 {OP_NOP, "OP_NOP", 1, opcodeNop},
	OP_VER:                 {OP_VER, "OP_VER", 1, opcodeReserved},
	OP_IF:                  {OP_IF, "OP_IF", 1, opcodeIf},
	OP_NOTIF:               {OP_NOTIF, "OP_NOTIF", 1, opcodeNotIf},
	OP_VERIF:               {OP_VERIF, "OP_VERIF", 1, opcodeVerConditional},
	OP_VERNOTIF:            {OP_VERNOTIF, "OP_VERNOTIF", 1, opcodeVerConditional},
	OP_ELSE:                {OP_ELSE, "OP_ELSE", 1, opcodeElse},
	OP_ENDIF:               {OP_ENDIF, "OP_ENDIF", 1, opcodeEndif},
	OP_VERIFY:              {OP_VERIFY, "OP_VERIFY", 1, opcodeVerify},
	OP_RETURN:              {OP_RETURN, "OP_RETURN", 1, opcodeReturn},
	OP_CHECKLOCKTIMEVERIFY: {OP_CHECKLOCKTIMEVERIFY, "OP_CHECKLOCKTIMEVERIFY", 1, opcodeCheckLockTimeVerify},
	OP_CHECKSEQUENCEVERIFY: {OP_CHECKSEQUENCEVERIFY, "OP_CHECKSEQUENCEVERIFY", 1, opcodeCheckSequenceVerify},

	// Stack opcodes.
	OP_TOALTSTACK:   {OP_TOALTSTACK, "OP_TOALTSTACK", 1, opcodeToAltStack},
	OP_FROMALTSTACK: {OP_FROMALTSTACK, "OP_FROMALTSTACK", 1, opcodeFromAltStack},
	OP_2DROP:        {OP_2DROP, "OP_2DROP", 1, opcode2Drop},
	OP_2DUP:         {OP_2DUP, "OP_2DUP", 1, opcode2Dup},
	OP_3DUP:         {OP_3DUP, "OP_3DUP", 1, opcode3Dup},
	OP_2OVER:        {OP_2OVER, "OP_2OVER", 1, opcode2Over},
	OP_2ROT:         {OP_2ROT, "OP_2ROT", 1, opcode2Rot},
	OP_2SWAP:        {OP_2SWAP, "OP_2SWAP", 1, opcode2Swap},
	OP_IFDUP:        {OP_IFDUP, "OP_IFDUP", 1, opcodeIfDup},
	OP_DEPTH:        {OP_DEPTH, "OP_DEPTH", 1, opcodeDepth},
	OP_DROP:         {OP_DROP, "OP_DROP", 1, opcodeDrop},
	OP_DUP:          {OP_DUP, "OP_DUP", 1, opcodeDup},
	OP_NIP:          {OP_NIP, "OP_NIP", 1, opcodeNip},
	OP_OVER:         {OP_OVER, "OP_OVER", 1, opcodeOver},
	OP_PICK:         {OP_PICK, "OP_PICK", 1, opcodePick},
	OP_ROLL:         {OP_ROLL, "OP_ROLL", 1, opcodeRoll},
	OP_ROT:          {OP_ROT, "OP_ROT", 1, opcodeRot},
	OP_SWAP:         {OP_SWAP, "OP_SWAP", 1, opcodeSwap},
	OP_TUCK:         {OP_TUCK, "OP_TUCK", 1, opcodeTuck},

	// Splice opcodes.
	OP_CAT:          {OP_CAT, "OP_CAT", 1, opcodeCat},
	OP_SPLIT:        {OP_SPLIT, "OP_SPLIT", 1, opcodeSplit},
	OP_NUM2BIN:      {OP_NUM2BIN, "OP_NUM2BIN", 1, opcodeNum2bin},
	OP_BIN2NUM:      {OP_BIN2NUM, "OP_BIN2NUM", 1, opcodeBin2num},
	OP_SIZE:         {OP_SIZE, "OP_SIZE", 1, opcodeSize},
	OP_REVERSEBYTES: {OP_REVERSEBYTES, "OP_REVERSEBYTES", 1, opcodeReverseBytes},

	// Bitwise logic opcodes.
	OP_INVERT:      {OP_INVERT, "OP_INVERT", 1, opcodeInvert},
	OP_AND:         {OP_AND, "OP_AND", 1, opcodeAnd},
	OP_OR:          {OP_OR, "OP_OR", 1, opcodeOr},
	OP_XOR:         {OP_XOR, "OP_XOR", 1, opcodeXor},
	OP_EQUAL:       {OP_EQUAL, "OP_EQUAL", 1, opcodeEqual},
	OP_EQUALVERIFY: {OP_EQUALVERIFY, "OP_EQUALVERIFY", 1, opcodeEqualVerify},
	OP_RESERVED1:   {OP_RESERVED1, "OP_RESERVED1", 1, opcodeReserved},
	OP_RESERVED2:   {OP_RESERVED2, "OP_RESERVED2", 1, opcodeReserved},

	// Numeric related opcodes.
	OP_1ADD:               {OP_1ADD, "OP_1ADD", 1, opcode1Add},
	OP_1SUB:               {OP_1SUB, "OP_1SUB", 1, opcode1Sub},
	OP_2MUL:               {OP_2MUL, "OP_2MUL", 1, opcode2Mul},
	OP_2DIV:               {OP_2DIV, "OP_2DIV", 1, opcode2Div},
	OP_NEGATE:             {OP_NEGATE, "OP_NEGATE", 1, opcodeNegate},
	OP_ABS:                {OP_ABS, "OP_ABS", 1, opcodeAbs},
	OP_NOT:                {OP_NOT, "OP_NOT", 1, opcodeNot},
	OP_0NOTEQUAL:          {OP_0NOTEQUAL, "OP_0NOTEQUAL", 1, opcode0NotEqual},
	OP_ADD:                {OP_ADD, "OP_ADD", 1, opcodeAdd},
	OP_SUB:                {OP_SUB, "OP_SUB", 1, opcodeSub},
	OP_MUL:                {OP_MUL, "OP_MUL", 1, opcodeMul},
	OP_DIV:                {OP_DIV, "OP_DIV", 1, opcodeDiv},
	OP_MOD:                {OP_MOD, "OP_MOD", 1, opcodeMod},
	OP_LSHIFT:             {OP_LSHIFT, "OP_LSHIFT", 1, opcodeLShift},
	OP_RSHIFT:             {OP_RSHIFT, "OP_RSHIFT", 1, opcodeRShift},
	OP_BOOLAND:            {OP_BOOLAND, "OP_BOOLAND", 1, opcodeBoolAnd},
	OP_BOOLOR:             {OP_BOOLOR, "OP_BOOLOR", 1, opcodeBoolOr},
	OP_NUMEQUAL:           {OP_NUMEQUAL, "OP_NUMEQUAL", 1, opcodeNumEqual},
	OP_NUMEQUALVERIFY:     {OP_NUMEQUALVERIFY, "OP_NUMEQUALVERIFY", 1, opcodeNumEqualVerify},
	OP_NUMNOTEQUAL:        {OP_NUMNOTEQUAL, "OP_NUMNOTEQUAL", 1, opcodeNumNotEqual},
	OP_LESSTHAN:           {OP_LESSTHAN, "OP_LESSTHAN", 1, opcodeLessThan},
	OP_GREATERTHAN:        {OP_GREATERTHAN, "OP_GREATERTHAN", 1, opcodeGreaterThan},
	OP_LESSTHANOREQUAL:    {OP_LESSTHANOREQUAL, "OP_LESSTHANOREQUAL", 1, opcodeLessThanOrEqual},
	OP_GREATERTHANOREQUAL: {OP_GREATERTHANOREQUAL, "OP_GREATERTHANOREQUAL", 1, opcodeGreaterThanOrEqual},
	OP_MIN:                {OP_MIN, "OP_MIN", 1, opcodeMin},
	OP_MAX:                {OP_MAX, "OP_MAX", 1, opcodeMax},
	OP_WITHIN:             {OP_WITHIN, "OP_WITHIN", 1, opcodeWithin},

	// Crypto opcodes.
	OP_RIPEMD160:           {OP_RIPEMD160, "OP_RIPEMD160", 1, opcodeRipemd160},
	OP_SHA1:                {OP_SHA1, "OP_SHA1", 1, opcodeSha1},
	OP_SHA256:              {OP_SHA256, "OP_SHA256", 1, opcodeSha256},
	OP_HASH160:             {OP_HASH160, "OP_HASH160", 1, opcodeHash160},
	OP_HASH256:             {OP_HASH256, "OP_HASH256", 1, opcodeHash256},
	OP_SHA512_256:          {OP_SHA512_256, "OP_SHA512_256", 1, opcodeSha512_256},
	OP_HASH512_256:         {OP_HASH512_256, "OP_HASH512_256", 1, opcodeHash512_256},
	OP_BLAKE3:              {OP_BLAKE3, "OP_BLAKE3", 1, opcodeBlake3},
	OP_K12:                 {OP_K12, "OP_K12", 1, opcodeK12},
	OP_CODESEPARATOR:       {OP_CODESEPARATOR, "OP_CODESEPARATOR", 1, opcodeCodeSeparator},
	OP_CHECKSIG:            {OP_CHECKSIG, "OP_CHECKSIG", 1, opcodeCheckSig},
	OP_CHECKSIGVERIFY:      {OP_CHECKSIGVERIFY, "OP_CHECKSIGVERIFY", 1, opcodeCheckSigVerify},
	OP_CHECKMULTISIG:       {OP_CHECKMULTISIG, "OP_CHECKMULTISIG", 1, opcodeCheckMultiSig},
	OP_CHECKMULTISIGVERIFY: {OP_CHECKMULTISIGVERIFY, "OP_CHECKMULTISIGVERIFY", 1, opcodeCheckMultiSigVerify},
	OP_CHECKDATASIG:        {OP_CHECKDATASIG, "OP_CHECKDATASIG", 1, opcodeCheckDataSig},
	OP_CHECKDATASIGVERIFY:  {OP_CHECKDATASIGVERIFY, "OP_CHECKDATASIGVERIFY", 1, opcodeCheckDataSigVerify},

	// Reserved opcodes.
	OP_NOP1:  {OP_NOP1, "OP_NOP1", 1, opcodeNop},
	OP_NOP4:  {OP_NOP4, "OP_NOP4", 1, opcodeNop},
	OP_NOP5:  {OP_NOP5, "OP_NOP5", 1, opcodeNop},
	OP_NOP6:  {OP_NOP6, "OP_NOP6", 1, opcodeNop},
	OP_NOP7:  {OP_NOP7, "OP_NOP7", 1, opcodeNop},
	OP_NOP8:  {OP_NOP8, "OP_NOP8", 1, opcodeNop},
	OP_NOP9:  {OP_NOP9, "OP_NOP9", 1, opcodeNop},
	OP_NOP10: {OP_NOP10, "OP_NOP10", 1, opcodeNop},

	// State separator opcodes.
	OP_STATESEPARATOR:             {OP_STATESEPARATOR, "OP_STATESEPARATOR", 1, opcodeStateSeparator},
	OP_STATESEPARATORINDEX_UTXO:   {OP_STATESEPARATORINDEX_UTXO, "OP_STATESEPARATORINDEX_UTXO", 1, opcodeStateSeparatorIndexUtxo},
	OP_STATESEPARATORINDEX_OUTPUT: {OP_STATESEPARATORINDEX_OUTPUT, "OP_STATESEPARATORINDEX_OUTPUT", 1, opcodeStateSeparatorIndexOutput},

	// Native introspection opcodes.
	OP_INPUTINDEX:          {OP_INPUTINDEX, "OP_INPUTINDEX", 1, opcodeInputIndex},
	OP_ACTIVEBYTECODE:      {OP_ACTIVEBYTECODE, "OP_ACTIVEBYTECODE", 1, opcodeActiveBytecode},
	OP_TXVERSION:           {OP_TXVERSION, "OP_TXVERSION", 1, opcodeTxVersion},
	OP_TXINPUTCOUNT:        {OP_TXINPUTCOUNT, "OP_TXINPUTCOUNT", 1, opcodeTxInputCount},
	OP_TXOUTPUTCOUNT:       {OP_TXOUTPUTCOUNT, "OP_TXOUTPUTCOUNT", 1, opcodeTxOutputCount},
	OP_TXLOCKTIME:          {OP_TXLOCKTIME, "OP_TXLOCKTIME", 1, opcodeTxLockTime},
	OP_UTXOVALUE:           {OP_UTXOVALUE, "OP_UTXOVALUE", 1, opcodeUtxoValue},
	OP_UTXOBYTECODE:        {OP_UTXOBYTECODE, "OP_UTXOBYTECODE", 1, opcodeUtxoBytecode},
	OP_OUTPOINTTXHASH:      {OP_OUTPOINTTXHASH, "OP_OUTPOINTTXHASH", 1, opcodeOutpointTxHash},
	OP_OUTPOINTINDEX:       {OP_OUTPOINTINDEX, "OP_OUTPOINTINDEX", 1, opcodeOutpointIndex},
	OP_INPUTBYTECODE:       {OP_INPUTBYTECODE, "OP_INPUTBYTECODE", 1, opcodeInputBytecode},
	OP_INPUTSEQUENCENUMBER: {OP_INPUTSEQUENCENUMBER, "OP_INPUTSEQUENCENUMBER", 1, opcodeInputSequenceNumber},
	OP_OUTPUTVALUE:         {OP_OUTPUTVALUE, "OP_OUTPUTVALUE", 1, opcodeOutputValue},
	OP_OUTPUTBYTECODE:      {OP_OUTPUTBYTECODE, "OP_OUTPUTBYTECODE", 1, opcodeOutputBytecode},

	// Reference tracking opcodes carry a fixed 36-byte operand.
	OP_PUSHINPUTREF:                {OP_PUSHINPUTREF, "OP_PUSHINPUTREF", refOpLen, opcodePushInputRef},
	OP_REQUIREINPUTREF:             {OP_REQUIREINPUTREF, "OP_REQUIREINPUTREF", refOpLen, opcodeRequireInputRef},
	OP_DISALLOWPUSHINPUTREF:        {OP_DISALLOWPUSHINPUTREF, "OP_DISALLOWPUSHINPUTREF", refOpLen, opcodeDisallowPushInputRef},
	OP_DISALLOWPUSHINPUTREFSIBLING: {OP_DISALLOWPUSHINPUTREFSIBLING, "OP_DISALLOWPUSHINPUTREFSIBLING", refOpLen, opcodeDisallowPushInputRefSibling},
	OP_PUSHINPUTREFSINGLETON:       {OP_PUSHINPUTREFSINGLETON, "OP_PUSHINPUTREFSINGLETON", refOpLen, opcodePushInputRefSingleton},

	// Data summary opcodes are defined but have no executable semantics in
	// the debugger, matching the reference implementation.
	OP_REFHASHDATASUMMARY_UTXO:   {OP_REFHASHDATASUMMARY_UTXO, "OP_REFHASHDATASUMMARY_UTXO", 1, opcodeUnimplementedRefQuery},
	OP_REFHASHVALUESUM_UTXOS:     {OP_REFHASHVALUESUM_UTXOS, "OP_REFHASHVALUESUM_UTXOS", 1, opcodeUnimplementedRefQuery},
	OP_REFHASHDATASUMMARY_OUTPUT: {OP_REFHASHDATASUMMARY_OUTPUT, "OP_REFHASHDATASUMMARY_OUTPUT", 1, opcodeUnimplementedRefQuery},
	OP_REFHASHVALUESUM_OUTPUTS:   {OP_REFHASHVALUESUM_OUTPUTS, "OP_REFHASHVALUESUM_OUTPUTS", 1, opcodeUnimplementedRefQuery},
	OP_REFDATASUMMARY_UTXO:       {OP_REFDATASUMMARY_UTXO, "OP_REFDATASUMMARY_UTXO", 1, opcodeUnimplementedRefQuery},
	OP_REFDATASUMMARY_OUTPUT:     {OP_REFDATASUMMARY_OUTPUT, "OP_REFDATASUMMARY_OUTPUT", 1, opcodeUnimplementedRefQuery},
	OP_PUSH_TX_STATE:             {OP_PUSH_TX_STATE, "OP_PUSH_TX_STATE", 1, opcodeUnimplementedRefQuery},

	OP_REFTYPE_UTXO:   {OP_REFTYPE_UTXO, "OP_REFTYPE_UTXO", 1, opcodeRefTypeUtxo},
	OP_REFTYPE_OUTPUT: {OP_REFTYPE_OUTPUT, "OP_REFTYPE_OUTPUT", 1, opcodeRefTypeOutput},

	// Reference aggregation opcodes.
	OP_REFVALUESUM_UTXOS:                {OP_REFVALUESUM_UTXOS, "OP_REFVALUESUM_UTXOS", 1, opcodeRefValueSumUtxos},
	OP_REFVALUESUM_OUTPUTS:              {OP_REFVALUESUM_OUTPUTS, "OP_REFVALUESUM_OUTPUTS", 1, opcodeRefValueSumOutputs},
	OP_REFOUTPUTCOUNT_UTXOS:             {OP_REFOUTPUTCOUNT_UTXOS, "OP_REFOUTPUTCOUNT_UTXOS", 1, opcodeRefOutputCountUtxos},
	OP_REFOUTPUTCOUNT_OUTPUTS:           {OP_REFOUTPUTCOUNT_OUTPUTS, "OP_REFOUTPUTCOUNT_OUTPUTS", 1, opcodeRefOutputCountOutputs},
	OP_REFOUTPUTCOUNTZEROVALUED_UTXOS:   {OP_REFOUTPUTCOUNTZEROVALUED_UTXOS, "OP_REFOUTPUTCOUNTZEROVALUED_UTXOS", 1, opcodeRefOutputCountZeroValuedUtxos},
	OP_REFOUTPUTCOUNTZEROVALUED_OUTPUTS: {OP_REFOUTPUTCOUNTZEROVALUED_OUTPUTS, "OP_REFOUTPUTCOUNTZEROVALUED_OUTPUTS", 1, opcodeRefOutputCountZeroValuedOutputs},

	OP_CODESCRIPTHASHVALUESUM_UTXOS:                {OP_CODESCRIPTHASHVALUESUM_UTXOS, "OP_CODESCRIPTHASHVALUESUM_UTXOS", 1, opcodeCodeScriptHashValueSumUtxos},
	OP_CODESCRIPTHASHVALUESUM_OUTPUTS:              {OP_CODESCRIPTHASHVALUESUM_OUTPUTS, "OP_CODESCRIPTHASHVALUESUM_OUTPUTS", 1, opcodeCodeScriptHashValueSumOutputs},
	OP_CODESCRIPTHASHOUTPUTCOUNT_UTXOS:             {OP_CODESCRIPTHASHOUTPUTCOUNT_UTXOS, "OP_CODESCRIPTHASHOUTPUTCOUNT_UTXOS", 1, opcodeCodeScriptHashOutputCountUtxos},
	OP_CODESCRIPTHASHOUTPUTCOUNT_OUTPUTS:           {OP_CODESCRIPTHASHOUTPUTCOUNT_OUTPUTS, "OP_CODESCRIPTHASHOUTPUTCOUNT_OUTPUTS", 1, opcodeCodeScriptHashOutputCountOutputs},
	OP_CODESCRIPTHASHZEROVALUEDOUTPUTCOUNT_UTXOS:   {OP_CODESCRIPTHASHZEROVALUEDOUTPUTCOUNT_UTXOS, "OP_CODESCRIPTHASHZEROVALUEDOUTPUTCOUNT_UTXOS", 1, opcodeCodeScriptHashZeroValuedOutputCountUtxos},
	OP_CODESCRIPTHASHZEROVALUEDOUTPUTCOUNT_OUTPUTS: {OP_CODESCRIPTHASHZEROVALUEDOUTPUTCOUNT_OUTPUTS, "OP_CODESCRIPTHASHZEROVALUEDOUTPUTCOUNT_OUTPUTS", 1, opcodeCodeScriptHashZeroValuedOutputCountOutputs},

	OP_CODESCRIPTBYTECODE_UTXO:    {OP_CODESCRIPTBYTECODE_UTXO, "OP_CODESCRIPTBYTECODE_UTXO", 1, opcodeCodeScriptBytecodeUtxo},
	OP_CODESCRIPTBYTECODE_OUTPUT:  {OP_CODESCRIPTBYTECODE_OUTPUT, "OP_CODESCRIPTBYTECODE_OUTPUT", 1, opcodeCodeScriptBytecodeOutput},
	OP_STATESCRIPTBYTECODE_UTXO:   {OP_STATESCRIPTBYTECODE_UTXO, "OP_STATESCRIPTBYTECODE_UTXO", 1, opcodeStateScriptBytecodeUtxo},
	OP_STATESCRIPTBYTECODE_OUTPUT: {OP_STATESCRIPTBYTECODE_OUTPUT, "OP_STATESCRIPTBYTECODE_OUTPUT", 1, opcodeStateScriptBytecodeOutput},

	// Undefined opcodes.
	OP_UNKNOWN240:    {OP_UNKNOWN240, "OP_UNKNOWN240", 1, opcodeInvalid},
	OP_UNKNOWN241:    {OP_UNKNOWN241, "OP_UNKNOWN241", 1, opcodeInvalid},
	OP_UNKNOWN242:    {OP_UNKNOWN242, "OP_UNKNOWN242", 1, opcodeInvalid},
	OP_UNKNOWN243:    {OP_UNKNOWN243, "OP_UNKNOWN243", 1, opcodeInvalid},
	OP_UNKNOWN244:    {OP_UNKNOWN244, "OP_UNKNOWN244", 1, opcodeInvalid},
	OP_UNKNOWN245:    {OP_UNKNOWN245, "OP_UNKNOWN245", 1, opcodeInvalid},
	OP_UNKNOWN246:    {OP_UNKNOWN246, "OP_UNKNOWN246", 1, opcodeInvalid},
	OP_UNKNOWN247:    {OP_UNKNOWN247, "OP_UNKNOWN247", 1, opcodeInvalid},
	OP_UNKNOWN248:    {OP_UNKNOWN248, "OP_UNKNOWN248", 1, opcodeInvalid},
	OP_UNKNOWN249:    {OP_UNKNOWN249, "OP_UNKNOWN249", 1, opcodeInvalid},
	OP_UNKNOWN250:    {OP_UNKNOWN250, "OP_UNKNOWN250", 1, opcodeInvalid},
	OP_UNKNOWN251:    {OP_UNKNOWN251, "OP_UNKNOWN251", 1, opcodeInvalid},
	OP_UNKNOWN252:    {OP_UNKNOWN252, "OP_UNKNOWN252", 1, opcodeInvalid},
	OP_UNKNOWN253:    {OP_UNKNOWN253, "OP_UNKNOWN253", 1, opcodeInvalid},
	OP_UNKNOWN254:    {OP_UNKNOWN254, "OP_UNKNOWN254", 1, opcodeInvalid},
	OP_INVALIDOPCODE: {OP_INVALIDOPCODE, "OP_INVALIDOPCODE", 1, opcodeInvalid},
}

// opcodeOnelineRepls defines opcode names which are replaced when doing a
// one-line disassembly.  This is done to match the output of the reference
// implementation while not changing the opcode names in the nicer full
// disassembly.
var opcodeOnelineRepls = map[string]string{
	"OP_1NEGATE": "-1",
	"OP_0":       "0",
	"OP_1":       "1",
	"OP_2":       "2",
	"OP_3":       "3",
	"OP_4":       "4",
	"OP_5":       "5",
	"OP_6":       "6",
	"OP_7":       "7",
	"OP_8":       "8",
	"OP_9":       "9",
	"OP_10":      "10",
	"OP_11":      "11",
	"OP_12":      "12",
	"OP_13":      "13",
	"OP_14":      "14",
	"OP_15":      "15",
	"OP_16":      "16",
}

// OpcodeName returns the human-readable name for the passed opcode value.
func OpcodeName(op byte) string {
	return opcodeArray[op].name
}

// disasmOpcode writes a human-readable disassembly of the provided opcode
// and data into the provided buffer.  The compact flag indicates the
// disassembly should print a more compact representation of data-carrying
// opcodes.
func disasmOpcode(buf *strings.Builder, op *opcode, data []byte, compact bool) {
	// Replace opcode which represent values (e.g. OP_0 through OP_16 and
	// OP_1NEGATE) with the raw value when performing a compact
	// disassembly.
	opcodeName := op.name
	if compact {
		if replName, ok := opcodeOnelineRepls[opcodeName]; ok {
			opcodeName = replName
		}

		// Either write the human-readable opcode or the parsed data in
		// hex for data-carrying opcodes.
		switch {
		case op.length == 1 && !isReferenceOpcode(op.value):
			buf.WriteString(opcodeName)

		case isReferenceOpcode(op.value):
			buf.WriteString(opcodeName)
			buf.WriteByte(' ')
			buf.WriteString(hex.EncodeToString(data))

		default:
			buf.WriteString(hex.EncodeToString(data))
		}
		return
	}

	buf.WriteString(opcodeName)

	switch {
	case op.length == 1 && !isReferenceOpcode(op.value):
		// No data.

	// OP_PUSHDATA{1,2,4} and the reference opcodes print their length in
	// addition to the data.
	case op.length != 1:
		buf.WriteString(fmt.Sprintf(" 0x%02x %x", len(data), data))
	}
}

// *******************************************
// Opcode implementation functions start here.
// *******************************************

// opcodeDisabled is a common handler for disabled opcodes.  It returns an
// appropriate error indicating the opcode is disabled.  While it would
// ordinarily make more sense to detect if the script contains any disabled
// opcodes before executing in an initial parse step, the consensus rules
// dictate the script doesn't fail until the program counter passes over a
// disabled opcode (even when they appear in a branch that is not executed).
func opcodeDisabled(op *opcode, data []byte, vm *Engine) error {
	str := fmt.Sprintf("attempt to execute disabled opcode %s", op.name)
	return scriptError(ErrDisabledOpcode, str)
}

// opcodeReserved is a common handler for all reserved opcodes.  It returns an
// appropriate error indicating the opcode is reserved.
func opcodeReserved(op *opcode, data []byte, vm *Engine) error {
	str := fmt.Sprintf("attempt to execute reserved opcode %s", op.name)
	return scriptError(ErrBadOpcode, str)
}

// opcodeInvalid is a common handler for all invalid opcodes.  It returns an
// appropriate error indicating the opcode is invalid.
func opcodeInvalid(op *opcode, data []byte, vm *Engine) error {
	str := fmt.Sprintf("attempt to execute invalid opcode %s", op.name)
	return scriptError(ErrBadOpcode, str)
}

// opcodeUnimplementedRefQuery handles the reference summary opcodes that are
// defined in the opcode space but have no executable semantics in the
// debugger, matching the reference implementation which rejects them.
func opcodeUnimplementedRefQuery(op *opcode, data []byte, vm *Engine) error {
	str := fmt.Sprintf("opcode %s has no executable semantics in the "+
		"debugger", op.name)
	return scriptError(ErrBadOpcode, str)
}

// opcodeFalse pushes an empty array to the data stack to represent false.
// Note that 0, when encoded as a number according to the numeric encoding
// consensus rules, is an empty array.
func opcodeFalse(op *opcode, data []byte, vm *Engine) error {
	vm.dstack.PushByteArray(nil)
	return nil
}

// opcodePushData is a common handler for the vast majority of opcodes that
// push raw data (bytes) to the data stack.
func opcodePushData(op *opcode, data []byte, vm *Engine) error {
	vm.dstack.PushByteArray(data)
	return nil
}

// opcode1Negate pushes -1, encoded as a number, to the data stack.
func opcode1Negate(op *opcode, data []byte, vm *Engine) error {
	vm.dstack.PushInt(scriptNum(-1))
	return nil
}

// opcodeN is a common handler for the small integer data push opcodes.  It
// pushes the numeric value the opcode represents (which will be from 1 to
// 16) onto the data stack.
func opcodeN(op *opcode, data []byte, vm *Engine) error {
	// The opcodes are all defined consecutively, so the numeric value is
	// the difference.
	vm.dstack.PushByteArray([]byte{(op.value - (OP_1 - 1))})
	return nil
}

// opcodeNop is a common handler for the NOP family of opcodes.  As the name
// implies it generally does nothing, however, it will return an error when
// the flag to discourage use of NOPs is set for select opcodes.
func opcodeNop(op *opcode, data []byte, vm *Engine) error {
	switch op.value {
	case OP_NOP1, OP_NOP4, OP_NOP5, OP_NOP6, OP_NOP7, OP_NOP8, OP_NOP9,
		OP_NOP10:

		if vm.hasFlag(ScriptDiscourageUpgradableNops) {
			str := fmt.Sprintf("%s reserved for soft-fork upgrades",
				op.name)
			return scriptError(ErrDisabledOpcode, str)
		}
	}
	return nil
}

// popIfBool pops the top item off the stack and interprets it as a boolean
// per the OP_IF rules, enforcing minimal-if encoding when the flag is set.
func popIfBool(vm *Engine) (bool, error) {
	if vm.hasFlag(ScriptVerifyMinimalIf) {
		so, err := vm.dstack.PopByteArray()
		if err != nil {
			return false, err
		}

		if len(so) > 1 {
			str := fmt.Sprintf("conditional has data of length %d",
				len(so))
			return false, scriptError(ErrMinimalIf, str)
		}
		if len(so) == 1 && so[0] != 1 {
			str := fmt.Sprintf("conditional failed on non-bool data %x",
				so)
			return false, scriptError(ErrMinimalIf, str)
		}

		return asBool(so), nil
	}

	return vm.dstack.PopBool()
}

// opcodeIf treats the top item on the data stack as a boolean and removes
// it.
//
// An appropriate entry is added to the conditional stack depending on whether
// the boolean is true and whether this if is on an executing branch in order
// to allow proper execution of further opcodes depending on the conditional
// logic.  When the boolean is true, the first branch will be executed (unless
// this opcode is nested in a non-executed branch).
//
// <expression> if [statements] [else [statements]] endif
//
// Data stack transformation: [... bool] -> [...]
// Conditional stack transformation: [...] -> [... OpCondValue]
func opcodeIf(op *opcode, data []byte, vm *Engine) error {
	condVal := OpCondFalse
	if vm.isBranchExecuting() {
		ok, err := popIfBool(vm)
		if err != nil {
			return err
		}

		if ok {
			condVal = OpCondTrue
		}
	} else {
		condVal = OpCondSkip
	}
	vm.condStack = append(vm.condStack, condVal)
	return nil
}

// opcodeNotIf treats the top item on the data stack as a boolean and removes
// it.
//
// An appropriate entry is added to the conditional stack depending on whether
// the boolean is true and whether this if is on an executing branch in order
// to allow proper execution of further opcodes depending on the conditional
// logic.  When the boolean is false, the first branch will be executed
// (unless this opcode is nested in a non-executed branch).
//
// <expression> notif [statements] [else [statements]] endif
//
// Data stack transformation: [... bool] -> [...]
// Conditional stack transformation: [...] -> [... OpCondValue]
func opcodeNotIf(op *opcode, data []byte, vm *Engine) error {
	condVal := OpCondFalse
	if vm.isBranchExecuting() {
		ok, err := popIfBool(vm)
		if err != nil {
			return err
		}

		if !ok {
			condVal = OpCondTrue
		}
	} else {
		condVal = OpCondSkip
	}
	vm.condStack = append(vm.condStack, condVal)
	return nil
}

// opcodeVerConditional is the handler for OP_VERIF and OP_VERNOTIF, which
// make the script invalid even when they occur in an unexecuted branch.
func opcodeVerConditional(op *opcode, data []byte, vm *Engine) error {
	str := fmt.Sprintf("attempt to execute reserved opcode %s", op.name)
	return scriptError(ErrBadOpcode, str)
}

// opcodeElse inverts conditional execution for other half of if/else/endif.
//
// An error is returned if there has not already been a matching OP_IF.
//
// Conditional stack transformation: [... OpCondValue] -> [... !OpCondValue]
func opcodeElse(op *opcode, data []byte, vm *Engine) error {
	if len(vm.condStack) == 0 {
		str := fmt.Sprintf("encountered opcode %s with no matching "+
			"opcode to begin conditional execution", op.name)
		return scriptError(ErrUnbalancedConditional, str)
	}

	// Only one of OpCondValue, OpCondFalse, and OpCondSkip can be on the
	// conditional stack at a time.
	conditionalIdx := len(vm.condStack) - 1
	switch vm.condStack[conditionalIdx] {
	case OpCondTrue:
		vm.condStack[conditionalIdx] = OpCondFalse
	case OpCondFalse:
		vm.condStack[conditionalIdx] = OpCondTrue
	case OpCondSkip:
		// Value doesn't change in skip since it indicates this opcode
		// is nested in a non-executed branch.
	}
	return nil
}

// opcodeEndif terminates a conditional block, removing the value from the
// conditional execution stack.
//
// An error is returned if there has not already been a matching OP_IF.
//
// Conditional stack transformation: [... OpCondValue] -> [...]
func opcodeEndif(op *opcode, data []byte, vm *Engine) error {
	if len(vm.condStack) == 0 {
		str := fmt.Sprintf("encountered opcode %s with no matching "+
			"opcode to begin conditional execution", op.name)
		return scriptError(ErrUnbalancedConditional, str)
	}

	vm.condStack = vm.condStack[:len(vm.condStack)-1]
	return nil
}

// abstractVerify examines the top item on the data stack as a boolean value
// and verifies it evaluates to true.  An error is returned either when there
// is no item on the stack or when that item evaluates to false.  In the
// latter case where the verification fails specifically due to the top item
// evaluating to false, the returned error will use the passed error code.
func abstractVerify(op *opcode, vm *Engine, c ErrorCode) error {
	verified, err := vm.dstack.PopBool()
	if err != nil {
		return err
	}

	if !verified {
		str := fmt.Sprintf("%s failed", op.name)
		return scriptError(c, str)
	}
	return nil
}

// opcodeVerify examines the top item on the data stack as a boolean value
// and verifies it evaluates to true.  An error is returned if it does not.
func opcodeVerify(op *opcode, data []byte, vm *Engine) error {
	return abstractVerify(op, vm, ErrVerify)
}

// opcodeReturn returns an appropriate error since it is always an error to
// return early from a script.
func opcodeReturn(op *opcode, data []byte, vm *Engine) error {
	return scriptError(ErrOpReturn, "script returned early")
}

// opcodeCheckLockTimeVerify compares the top item on the data stack to the
// locktime field of the transaction containing the script signature
// validating if the transaction outputs are spendable yet.
func opcodeCheckLockTimeVerify(op *opcode, data []byte, vm *Engine) error {
	// If the ScriptVerifyCheckLockTimeVerify script flag is not set, treat
	// opcode as OP_NOP2 instead.
	if !vm.hasFlag(ScriptVerifyCheckLockTimeVerify) {
		if vm.hasFlag(ScriptDiscourageUpgradableNops) {
			return scriptError(ErrDisabledOpcode,
				"OP_NOP2 reserved for soft-fork upgrades")
		}
		return nil
	}

	// The current transaction locktime is a uint32 resulting in a maximum
	// locktime of 2^32-1 (the year 2106).  However, scriptNums are signed
	// and therefore a standard 4-byte scriptNum would only support up to a
	// maximum of 2^31-1 (the year 2038).  Thus, a 5-byte scriptNum is used
	// here since it will support up to 2^39-1 which allows dates beyond
	// the current locktime limit.
	so, err := vm.dstack.PeekByteArray(0)
	if err != nil {
		return err
	}
	lockTime, err := makeScriptNum(so, vm.dstack.verifyMinimalData,
		cltvScriptNumLen)
	if err != nil {
		return err
	}

	// In the rare event that the argument needs to be < 0 due to some
	// arithmetic being done first, you can always use
	// 0 OP_MAX OP_CHECKLOCKTIMEVERIFY.
	if lockTime < 0 {
		str := fmt.Sprintf("negative lock time: %d", lockTime)
		return scriptError(ErrNegativeLockTime, str)
	}

	return vm.checker.CheckLockTime(int64(lockTime))
}

// opcodeCheckSequenceVerify compares the top item on the data stack to the
// sequence field of the transaction input validating relative locktimes per
// BIP68.
func opcodeCheckSequenceVerify(op *opcode, data []byte, vm *Engine) error {
	// If the ScriptVerifyCheckSequenceVerify script flag is not set, treat
	// opcode as OP_NOP3 instead.
	if !vm.hasFlag(ScriptVerifyCheckSequenceVerify) {
		if vm.hasFlag(ScriptDiscourageUpgradableNops) {
			return scriptError(ErrDisabledOpcode,
				"OP_NOP3 reserved for soft-fork upgrades")
		}
		return nil
	}

	// The arithmetic is the same as for OP_CHECKLOCKTIMEVERIFY: a 5-byte
	// scriptNum covers the full sequence range.
	so, err := vm.dstack.PeekByteArray(0)
	if err != nil {
		return err
	}
	stackSequence, err := makeScriptNum(so, vm.dstack.verifyMinimalData,
		cltvScriptNumLen)
	if err != nil {
		return err
	}

	if stackSequence < 0 {
		str := fmt.Sprintf("negative sequence: %d", stackSequence)
		return scriptError(ErrNegativeLockTime, str)
	}

	sequence := int64(stackSequence)

	// To provide for future soft-fork extensibility, if the operand has
	// the disabled locktime flag set, CHECKSEQUENCEVERIFY behaves as a
	// NOP.
	if sequence&int64(sequenceLockTimeDisabled) != 0 {
		return nil
	}

	return vm.checker.CheckSequence(sequence)
}

// opcodeToAltStack removes the top item from the main data stack and pushes
// it onto the alternate data stack.
//
// Main data stack transformation: [... x1 x2 x3] -> [... x1 x2]
// Alt data stack transformation:  [... y1 y2 y3] -> [... y1 y2 y3 x3]
func opcodeToAltStack(op *opcode, data []byte, vm *Engine) error {
	so, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	vm.astack.PushByteArray(so)

	return nil
}

// opcodeFromAltStack removes the top item from the alternate data stack and
// pushes it onto the main data stack.
//
// Main data stack transformation: [... x1 x2 x3] -> [... x1 x2 x3 y3]
// Alt data stack transformation:  [... y1 y2 y3] -> [... y1 y2]
func opcodeFromAltStack(op *opcode, data []byte, vm *Engine) error {
	so, err := vm.astack.PopByteArray()
	if err != nil {
		return scriptError(ErrInvalidAltStackOperation,
			"alternate stack is empty")
	}
	vm.dstack.PushByteArray(so)

	return nil
}

// opcode2Drop removes the top 2 items from the data stack.
//
// Stack transformation: [... x1 x2 x3] -> [... x1]
func opcode2Drop(op *opcode, data []byte, vm *Engine) error {
	return vm.dstack.DropN(2)
}

// opcode2Dup duplicates the top 2 items on the data stack.
//
// Stack transformation: [... x1 x2 x3] -> [... x1 x2 x3 x2 x3]
func opcode2Dup(op *opcode, data []byte, vm *Engine) error {
	return vm.dstack.DupN(2)
}

// opcode3Dup duplicates the top 3 items on the data stack.
//
// Stack transformation: [... x1 x2 x3] -> [... x1 x2 x3 x1 x2 x3]
func opcode3Dup(op *opcode, data []byte, vm *Engine) error {
	return vm.dstack.DupN(3)
}

// opcode2Over duplicates the 2 items before the top 2 items on the data
// stack.
//
// Stack transformation: [... x1 x2 x3 x4] -> [... x1 x2 x3 x4 x1 x2]
func opcode2Over(op *opcode, data []byte, vm *Engine) error {
	return vm.dstack.OverN(2)
}

// opcode2Rot rotates the top 6 items on the data stack to the left twice.
//
// Stack transformation: [... x1 x2 x3 x4 x5 x6] -> [... x3 x4 x5 x6 x1 x2]
func opcode2Rot(op *opcode, data []byte, vm *Engine) error {
	return vm.dstack.RotN(2)
}

// opcode2Swap swaps the top 2 items on the data stack with the 2 that come
// before them.
//
// Stack transformation: [... x1 x2 x3 x4] -> [... x3 x4 x1 x2]
func opcode2Swap(op *opcode, data []byte, vm *Engine) error {
	return vm.dstack.SwapN(2)
}

// opcodeIfDup duplicates the item on the top of the data stack if it is not
// zero.
//
// Stack transformation (x1==0): [... x1] -> [... x1]
// Stack transformation (x1!=0): [... x1] -> [... x1 x1]
func opcodeIfDup(op *opcode, data []byte, vm *Engine) error {
	so, err := vm.dstack.PeekByteArray(0)
	if err != nil {
		return err
	}

	// Push copy of data iff it isn't zero
	if asBool(so) {
		vm.dstack.PushByteArray(so)
	}

	return nil
}

// opcodeDepth pushes the depth of the data stack prior to executing this
// opcode, encoded as a number, onto the data stack.
//
// Stack transformation: [...] -> [... <num of items on the stack>]
// Example with 2 items: [x1 x2] -> [x1 x2 2]
func opcodeDepth(op *opcode, data []byte, vm *Engine) error {
	vm.dstack.PushInt(scriptNum(vm.dstack.Depth()))
	return nil
}

// opcodeDrop removes the top item from the data stack.
//
// Stack transformation: [... x1 x2 x3] -> [... x1 x2]
func opcodeDrop(op *opcode, data []byte, vm *Engine) error {
	return vm.dstack.DropN(1)
}

// opcodeDup duplicates the top item on the data stack.
//
// Stack transformation: [... x1 x2 x3] -> [... x1 x2 x3 x3]
func opcodeDup(op *opcode, data []byte, vm *Engine) error {
	return vm.dstack.DupN(1)
}

// opcodeNip removes the item before the top item on the data stack.
//
// Stack transformation: [... x1 x2 x3] -> [... x1 x3]
func opcodeNip(op *opcode, data []byte, vm *Engine) error {
	return vm.dstack.NipN(1)
}

// opcodeOver duplicates the item before the top item on the data stack.
//
// Stack transformation: [... x1 x2 x3] -> [... x1 x2 x3 x2]
func opcodeOver(op *opcode, data []byte, vm *Engine) error {
	return vm.dstack.OverN(1)
}

// opcodePick treats the top item on the data stack as an integer and
// duplicates the item on the stack that number of items back to the top.
//
// Stack transformation: [xn ... x2 x1 x0 n] -> [xn ... x2 x1 x0 xn]
// Example with n=1: [x2 x1 x0 1] -> [x2 x1 x0 x1]
// Example with n=2: [x2 x1 x0 2] -> [x2 x1 x0 x2]
func opcodePick(op *opcode, data []byte, vm *Engine) error {
	val, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	return vm.dstack.PickN(val.Int32())
}

// opcodeRoll treats the top item on the data stack as an integer and moves
// the item on the stack that number of items back to the top.
//
// Stack transformation: [xn ... x2 x1 x0 n] -> [... x2 x1 x0 xn]
// Example with n=1: [x2 x1 x0 1] -> [x2 x0 x1]
// Example with n=2: [x2 x1 x0 2] -> [x1 x0 x2]
func opcodeRoll(op *opcode, data []byte, vm *Engine) error {
	val, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	return vm.dstack.RollN(val.Int32())
}

// opcodeRot rotates the top 3 items on the data stack to the left.
//
// Stack transformation: [... x1 x2 x3] -> [... x2 x3 x1]
func opcodeRot(op *opcode, data []byte, vm *Engine) error {
	return vm.dstack.RotN(1)
}

// opcodeSwap swaps the top two items on the stack.
//
// Stack transformation: [... x1 x2] -> [... x2 x1]
func opcodeSwap(op *opcode, data []byte, vm *Engine) error {
	return vm.dstack.SwapN(1)
}

// opcodeTuck inserts a duplicate of the top item of the data stack before
// the second-to-top item.
//
// Stack transformation: [... x1 x2] -> [... x2 x1 x2]
func opcodeTuck(op *opcode, data []byte, vm *Engine) error {
	return vm.dstack.Tuck()
}

// opcodeCat concatenates the top two items on the stack.
//
// Stack transformation: [... x1 x2] -> [... x1||x2]
func opcodeCat(op *opcode, data []byte, vm *Engine) error {
	v1, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	v0, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	if len(v0)+len(v1) > MaxScriptElementSize {
		str := fmt.Sprintf("concatenated size %d exceeds max allowed "+
			"size %d", len(v0)+len(v1), MaxScriptElementSize)
		return scriptError(ErrPushSize, str)
	}

	combined := make([]byte, 0, len(v0)+len(v1))
	combined = append(combined, v0...)
	combined = append(combined, v1...)
	vm.dstack.PushByteArray(combined)
	return nil
}

// opcodeSplit splits the second-to-top stack item at the position given by
// the top stack item, pushing both halves.
//
// Stack transformation: [... x n] -> [... x[:n] x[n:]]
func opcodeSplit(op *opcode, data []byte, vm *Engine) error {
	n, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	v, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	pos := int(n.Int64())
	if pos < 0 || pos > len(v) {
		str := fmt.Sprintf("split position %d is outside the element "+
			"of size %d", pos, len(v))
		return scriptError(ErrInvalidStackOperation, str)
	}

	left := make([]byte, pos)
	copy(left, v[:pos])
	right := make([]byte, len(v)-pos)
	copy(right, v[pos:])

	vm.dstack.PushByteArray(left)
	vm.dstack.PushByteArray(right)
	return nil
}

// minimallyEncode returns the numerically minimal encoding of the passed
// byte array, preserving its sign.  It operates on a copy.
func minimallyEncode(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}

	v := make([]byte, len(data))
	copy(v, data)

	last := v[len(v)-1]
	if last&0x7f != 0 {
		return v
	}

	// The value is zero (or negative zero) when only a single byte
	// remains.
	if len(v) == 1 {
		return nil
	}

	// When the byte before the trailing sign byte has its high bit set,
	// the extra byte is required and the encoding is already minimal.
	if v[len(v)-2]&0x80 != 0 {
		return v
	}

	sign := last & 0x80
	for i := len(v) - 1; i > 0; i-- {
		if v[i-1] != 0 {
			if v[i-1]&0x80 != 0 {
				// An extra byte is required to hold the sign.
				v[i] = sign
				return v[:i+1]
			}
			v[i-1] |= sign
			return v[:i]
		}
	}

	// The magnitude is zero.
	return nil
}

// opcodeNum2bin converts the numeric value of the second-to-top stack item
// into a byte array of the length given by the top stack item, padding with
// zeros and carrying the sign bit into the final byte.
//
// Stack transformation: [... x n] -> [... encoded]
func opcodeNum2bin(op *opcode, data []byte, vm *Engine) error {
	n, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	v, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	size := int(n.Int64())
	if size > MaxScriptElementSize {
		str := fmt.Sprintf("requested encoding size %d exceeds max "+
			"allowed size %d", size, MaxScriptElementSize)
		return scriptError(ErrPushSize, str)
	}
	if size < 0 {
		str := fmt.Sprintf("requested encoding size %d is negative",
			size)
		return scriptError(ErrImpossibleEncoding, str)
	}

	minimal := minimallyEncode(v)
	if len(minimal) > size {
		str := fmt.Sprintf("cannot encode a %d byte number in %d bytes",
			len(minimal), size)
		return scriptError(ErrImpossibleEncoding, str)
	}

	if len(minimal) == size {
		vm.dstack.PushByteArray(minimal)
		return nil
	}

	var signBit byte
	if len(minimal) > 0 {
		signBit = minimal[len(minimal)-1] & 0x80
		minimal[len(minimal)-1] &= 0x7f
	}

	result := make([]byte, size)
	copy(result, minimal)
	result[size-1] |= signBit
	vm.dstack.PushByteArray(result)
	return nil
}

// opcodeBin2num converts the top stack item into its minimal numeric
// encoding.
//
// Stack transformation: [... x] -> [... num(x)]
func opcodeBin2num(op *opcode, data []byte, vm *Engine) error {
	v, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	minimal := minimallyEncode(v)
	if len(minimal) > vm.scriptNumLen() {
		str := fmt.Sprintf("numeric value encoded as %x is %d bytes "+
			"which exceeds the max allowed of %d", minimal,
			len(minimal), vm.scriptNumLen())
		return scriptError(ErrInvalidNumberRange, str)
	}

	vm.dstack.PushByteArray(minimal)
	return nil
}

// opcodeSize pushes the size of the top item of the data stack onto the data
// stack.
//
// Stack transformation: [... x1] -> [... x1 len(x1)]
func opcodeSize(op *opcode, data []byte, vm *Engine) error {
	so, err := vm.dstack.PeekByteArray(0)
	if err != nil {
		return err
	}

	vm.dstack.PushInt(scriptNum(len(so)))
	return nil
}

// opcodeReverseBytes reverses the bytes of the top stack item.
//
// Stack transformation: [... x] -> [... reverse(x)]
func opcodeReverseBytes(op *opcode, data []byte, vm *Engine) error {
	if !vm.hasFlag(ScriptEnableReverseBytes) && !vm.allowDisabled {
		return opcodeDisabled(op, data, vm)
	}

	v, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	reversed := make([]byte, len(v))
	for i, b := range v {
		reversed[len(v)-1-i] = b
	}
	vm.dstack.PushByteArray(reversed)
	return nil
}

// opcodeInvert flips every bit of the top stack item.
//
// Stack transformation: [... x] -> [... ~x]
func opcodeInvert(op *opcode, data []byte, vm *Engine) error {
	v, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	inverted := make([]byte, len(v))
	for i, b := range v {
		inverted[i] = ^b
	}
	vm.dstack.PushByteArray(inverted)
	return nil
}

// bitwiseBinaryOp is a common handler for OP_AND, OP_OR, and OP_XOR.  The
// operands must be the same length.
func bitwiseBinaryOp(vm *Engine, combine func(a, b byte) byte) error {
	v1, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	v0, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	if len(v0) != len(v1) {
		str := fmt.Sprintf("bitwise operands have mismatched sizes "+
			"%d and %d", len(v0), len(v1))
		return scriptError(ErrInvalidStackOperation, str)
	}

	result := make([]byte, len(v0))
	for i := range v0 {
		result[i] = combine(v0[i], v1[i])
	}
	vm.dstack.PushByteArray(result)
	return nil
}

// opcodeAnd computes the bitwise AND of the top two stack items.
func opcodeAnd(op *opcode, data []byte, vm *Engine) error {
	return bitwiseBinaryOp(vm, func(a, b byte) byte { return a & b })
}

// opcodeOr computes the bitwise OR of the top two stack items.
func opcodeOr(op *opcode, data []byte, vm *Engine) error {
	return bitwiseBinaryOp(vm, func(a, b byte) byte { return a | b })
}

// opcodeXor computes the bitwise XOR of the top two stack items.
func opcodeXor(op *opcode, data []byte, vm *Engine) error {
	return bitwiseBinaryOp(vm, func(a, b byte) byte { return a ^ b })
}

// opcodeEqual removes the top 2 items of the data stack, compares them as
// raw bytes, and pushes the result, encoded as a boolean, back to the stack.
//
// Stack transformation: [... x1 x2] -> [... bool]
func opcodeEqual(op *opcode, data []byte, vm *Engine) error {
	a, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	b, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	vm.dstack.PushBool(bytes.Equal(a, b))
	return nil
}

// opcodeEqualVerify is a combination of opcodeEqual and opcodeVerify.
// Specifically, it removes the top 2 items of the data stack, compares them,
// and pushes the result, encoded as a boolean, back to the stack.  Then, it
// examines the top item on the data stack as a boolean value and verifies it
// evaluates to true.  An error is returned if it does not.
//
// Stack transformation: [... x1 x2] -> [... bool] -> [...]
func opcodeEqualVerify(op *opcode, data []byte, vm *Engine) error {
	err := opcodeEqual(op, data, vm)
	if err == nil {
		err = abstractVerify(op, vm, ErrEqualVerify)
	}
	return err
}

// opcode1Add treats the top item on the data stack as an integer and
// replaces it with its incremented value (plus 1).
//
// Stack transformation: [... x1 x2] -> [... x1 x2+1]
func opcode1Add(op *opcode, data []byte, vm *Engine) error {
	m, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	vm.dstack.PushInt(m + 1)
	return nil
}

// opcode1Sub treats the top item on the data stack as an integer and
// replaces it with its decremented value (minus 1).
//
// Stack transformation: [... x1 x2] -> [... x1 x2-1]
func opcode1Sub(op *opcode, data []byte, vm *Engine) error {
	m, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	vm.dstack.PushInt(m - 1)

	return nil
}

// opcode2Mul treats the top item on the data stack as an integer and
// replaces it with its value doubled.
//
// Stack transformation: [... x1 x2] -> [... x1 2*x2]
func opcode2Mul(op *opcode, data []byte, vm *Engine) error {
	m, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	vm.dstack.PushInt(m * 2)
	return nil
}

// opcode2Div treats the top item on the data stack as an integer and
// replaces it with its value halved, truncating toward zero.
//
// Stack transformation: [... x1 x2] -> [... x1 x2/2]
func opcode2Div(op *opcode, data []byte, vm *Engine) error {
	m, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	vm.dstack.PushInt(m / 2)
	return nil
}

// opcodeNegate treats the top item on the data stack as an integer and
// replaces it with its negation.
//
// Stack transformation: [... x1 x2] -> [... x1 -x2]
func opcodeNegate(op *opcode, data []byte, vm *Engine) error {
	m, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	vm.dstack.PushInt(-m)
	return nil
}

// opcodeAbs treats the top item on the data stack as an integer and replaces
// it with its absolute value.
//
// Stack transformation: [... x1 x2] -> [... x1 abs(x2)]
func opcodeAbs(op *opcode, data []byte, vm *Engine) error {
	m, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if m < 0 {
		m = -m
	}
	vm.dstack.PushInt(m)
	return nil
}

// opcodeNot treats the top item on the data stack as an integer and replaces
// it with its "inverted" value (0 becomes 1, non-zero becomes 0).
//
// Stack transformation (x2==0): [... x1 0] -> [... x1 1]
// Stack transformation (x2!=0): [... x1 1] -> [... x1 0]
func opcodeNot(op *opcode, data []byte, vm *Engine) error {
	m, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if m == 0 {
		vm.dstack.PushInt(scriptNum(1))
	} else {
		vm.dstack.PushInt(scriptNum(0))
	}
	return nil
}

// opcode0NotEqual treats the top item on the data stack as an integer and
// replaces it with either a 0 if it is zero, or a 1 if it is not 0.
//
// Stack transformation (x2==0): [... x1 0] -> [... x1 0]
// Stack transformation (x2!=0): [... x1 1] -> [... x1 1]
func opcode0NotEqual(op *opcode, data []byte, vm *Engine) error {
	m, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if m != 0 {
		m = 1
	}
	vm.dstack.PushInt(m)
	return nil
}

// opcodeAdd treats the top two items on the data stack as integers and
// replaces them with their sum.
//
// Stack transformation: [... x1 x2] -> [... x1+x2]
func opcodeAdd(op *opcode, data []byte, vm *Engine) error {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	vm.dstack.PushInt(v0 + v1)
	return nil
}

// opcodeSub treats the top two items on the data stack as integers and
// replaces them with the result of subtracting the top entry from the
// second-to-top entry.
//
// Stack transformation: [... x1 x2] -> [... x1-x2]
func opcodeSub(op *opcode, data []byte, vm *Engine) error {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	vm.dstack.PushInt(v1 - v0)
	return nil
}

// opcodeMul treats the top two items on the data stack as integers and
// replaces them with their product.
//
// Stack transformation: [... x1 x2] -> [... x1*x2]
func opcodeMul(op *opcode, data []byte, vm *Engine) error {
	if !vm.hasFlag(ScriptEnableMul) && !vm.allowDisabled {
		return opcodeDisabled(op, data, vm)
	}

	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	vm.dstack.PushInt(v0 * v1)
	return nil
}

// opcodeDiv treats the top two items on the data stack as integers and
// replaces them with the quotient of the second-to-top entry divided by the
// top entry, truncating toward zero.
//
// Stack transformation: [... x1 x2] -> [... x1/x2]
func opcodeDiv(op *opcode, data []byte, vm *Engine) error {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if v0 == 0 {
		return scriptError(ErrDivByZero, "division by zero")
	}

	vm.dstack.PushInt(v1 / v0)
	return nil
}

// opcodeMod treats the top two items on the data stack as integers and
// replaces them with the remainder of the second-to-top entry divided by the
// top entry.  The result carries the sign of the dividend.
//
// Stack transformation: [... x1 x2] -> [... x1%x2]
func opcodeMod(op *opcode, data []byte, vm *Engine) error {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if v0 == 0 {
		return scriptError(ErrModByZero, "modulo by zero")
	}

	vm.dstack.PushInt(v1 % v0)
	return nil
}

// shiftBytes shifts the bits of src by n positions, treating the element as
// a big-endian bit string.  The byte length is preserved; bits shifted past
// either end are discarded and zeros fill in from the other side.
func shiftBytes(src []byte, n int, left bool) []byte {
	result := make([]byte, len(src))
	byteShift := n / 8
	bitShift := uint(n % 8)

	for i := range result {
		if left {
			j := i + byteShift
			if j >= len(src) {
				continue
			}
			result[i] = src[j] << bitShift
			if bitShift > 0 && j+1 < len(src) {
				result[i] |= src[j+1] >> (8 - bitShift)
			}
		} else {
			j := i - byteShift
			if j < 0 {
				continue
			}
			result[i] = src[j] >> bitShift
			if bitShift > 0 && j-1 >= 0 {
				result[i] |= src[j-1] << (8 - bitShift)
			}
		}
	}
	return result
}

// opcodeLShift shifts the second-to-top stack item left by the number of
// bits given by the top stack item.
//
// Stack transformation: [... x n] -> [... x<<n]
func opcodeLShift(op *opcode, data []byte, vm *Engine) error {
	n, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	v, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	if n < 0 {
		str := fmt.Sprintf("negative shift count: %d", n)
		return scriptError(ErrInvalidStackOperation, str)
	}

	shift := int(n.Int64())
	if shift > 8*len(v) {
		shift = 8 * len(v)
	}
	vm.dstack.PushByteArray(shiftBytes(v, shift, true))
	return nil
}

// opcodeRShift shifts the second-to-top stack item right by the number of
// bits given by the top stack item.
//
// Stack transformation: [... x n] -> [... x>>n]
func opcodeRShift(op *opcode, data []byte, vm *Engine) error {
	n, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	v, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	if n < 0 {
		str := fmt.Sprintf("negative shift count: %d", n)
		return scriptError(ErrInvalidStackOperation, str)
	}

	shift := int(n.Int64())
	if shift > 8*len(v) {
		shift = 8 * len(v)
	}
	vm.dstack.PushByteArray(shiftBytes(v, shift, false))
	return nil
}

// opcodeBoolAnd treats the top two items on the data stack as integers.
// When both of them are not zero, they are replaced with a 1, otherwise a 0.
//
// Stack transformation (x1==0, x2==0): [... 0 0] -> [... 0]
// Stack transformation (x1!=0, x2==0): [... 5 0] -> [... 0]
// Stack transformation (x1==0, x2!=0): [... 0 7] -> [... 0]
// Stack transformation (x1!=0, x2!=0): [... 4 8] -> [... 1]
func opcodeBoolAnd(op *opcode, data []byte, vm *Engine) error {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if v0 != 0 && v1 != 0 {
		vm.dstack.PushInt(scriptNum(1))
	} else {
		vm.dstack.PushInt(scriptNum(0))
	}

	return nil
}

// opcodeBoolOr treats the top two items on the data stack as integers.  When
// either of them are not zero, they are replaced with a 1, otherwise a 0.
//
// Stack transformation (x1==0, x2==0): [... 0 0] -> [... 0]
// Stack transformation (x1!=0, x2==0): [... 5 0] -> [... 1]
// Stack transformation (x1==0, x2!=0): [... 0 7] -> [... 1]
// Stack transformation (x1!=0, x2!=0): [... 4 8] -> [... 1]
func opcodeBoolOr(op *opcode, data []byte, vm *Engine) error {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if v0 != 0 || v1 != 0 {
		vm.dstack.PushInt(scriptNum(1))
	} else {
		vm.dstack.PushInt(scriptNum(0))
	}

	return nil
}

// opcodeNumEqual treats the top two items on the data stack as integers.
// When they are equal, they are replaced with a 1, otherwise a 0.
//
// Stack transformation (x1==x2): [... 5 5] -> [... 1]
// Stack transformation (x1!=x2): [... 5 7] -> [... 0]
func opcodeNumEqual(op *opcode, data []byte, vm *Engine) error {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if v0 == v1 {
		vm.dstack.PushInt(scriptNum(1))
	} else {
		vm.dstack.PushInt(scriptNum(0))
	}

	return nil
}

// opcodeNumEqualVerify is a combination of opcodeNumEqual and opcodeVerify.
//
// Stack transformation: [... x1 x2] -> [... bool] -> [...]
func opcodeNumEqualVerify(op *opcode, data []byte, vm *Engine) error {
	err := opcodeNumEqual(op, data, vm)
	if err == nil {
		err = abstractVerify(op, vm, ErrNumEqualVerify)
	}
	return err
}

// opcodeNumNotEqual treats the top two items on the data stack as integers.
// When they are NOT equal, they are replaced with a 1, otherwise a 0.
//
// Stack transformation (x1==x2): [... 5 5] -> [... 0]
// Stack transformation (x1!=x2): [... 5 7] -> [... 1]
func opcodeNumNotEqual(op *opcode, data []byte, vm *Engine) error {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if v0 != v1 {
		vm.dstack.PushInt(scriptNum(1))
	} else {
		vm.dstack.PushInt(scriptNum(0))
	}

	return nil
}

// opcodeLessThan treats the top two items on the data stack as integers.
// When the second-to-top item is less than the top item, they are replaced
// with a 1, otherwise a 0.
//
// Stack transformation: [... x1 x2] -> [... bool]
func opcodeLessThan(op *opcode, data []byte, vm *Engine) error {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if v1 < v0 {
		vm.dstack.PushInt(scriptNum(1))
	} else {
		vm.dstack.PushInt(scriptNum(0))
	}

	return nil
}

// opcodeGreaterThan treats the top two items on the data stack as integers.
// When the second-to-top item is greater than the top item, they are
// replaced with a 1, otherwise a 0.
//
// Stack transformation: [... x1 x2] -> [... bool]
func opcodeGreaterThan(op *opcode, data []byte, vm *Engine) error {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if v1 > v0 {
		vm.dstack.PushInt(scriptNum(1))
	} else {
		vm.dstack.PushInt(scriptNum(0))
	}
	return nil
}

// opcodeLessThanOrEqual treats the top two items on the data stack as
// integers.  When the second-to-top item is less than or equal to the top
// item, they are replaced with a 1, otherwise a 0.
//
// Stack transformation: [... x1 x2] -> [... bool]
func opcodeLessThanOrEqual(op *opcode, data []byte, vm *Engine) error {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if v1 <= v0 {
		vm.dstack.PushInt(scriptNum(1))
	} else {
		vm.dstack.PushInt(scriptNum(0))
	}
	return nil
}

// opcodeGreaterThanOrEqual treats the top two items on the data stack as
// integers.  When the second-to-top item is greater than or equal to the top
// item, they are replaced with a 1, otherwise a 0.
//
// Stack transformation: [... x1 x2] -> [... bool]
func opcodeGreaterThanOrEqual(op *opcode, data []byte, vm *Engine) error {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if v1 >= v0 {
		vm.dstack.PushInt(scriptNum(1))
	} else {
		vm.dstack.PushInt(scriptNum(0))
	}

	return nil
}

// opcodeMin treats the top two items on the data stack as integers and
// replaces them with the minimum of the two.
//
// Stack transformation: [... x1 x2] -> [... min(x1, x2)]
func opcodeMin(op *opcode, data []byte, vm *Engine) error {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if v1 < v0 {
		vm.dstack.PushInt(v1)
	} else {
		vm.dstack.PushInt(v0)
	}

	return nil
}

// opcodeMax treats the top two items on the data stack as integers and
// replaces them with the maximum of the two.
//
// Stack transformation: [... x1 x2] -> [... max(x1, x2)]
func opcodeMax(op *opcode, data []byte, vm *Engine) error {
	v0, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	v1, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if v1 > v0 {
		vm.dstack.PushInt(v1)
	} else {
		vm.dstack.PushInt(v0)
	}

	return nil
}

// opcodeWithin treats the top 3 items on the data stack as integers.  When
// the value to test is within the specified range (left inclusive), they are
// replaced with a 1, otherwise a 0.
//
// The top item is the max value, the second-top-item is the minimum value,
// and the third-to-top item is the value to test.
//
// Stack transformation: [... x min max] -> [... bool]
func opcodeWithin(op *opcode, data []byte, vm *Engine) error {
	maxVal, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	minVal, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	x, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	if x >= minVal && x < maxVal {
		vm.dstack.PushInt(scriptNum(1))
	} else {
		vm.dstack.PushInt(scriptNum(0))
	}
	return nil
}

// opcodeRipemd160 treats the top item of the data stack as raw bytes and
// replaces it with ripemd160(data).
//
// Stack transformation: [... x1] -> [... ripemd160(x1)]
func opcodeRipemd160(op *opcode, data []byte, vm *Engine) error {
	buf, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	hasher := ripemd160.New()
	hasher.Write(buf)
	vm.dstack.PushByteArray(hasher.Sum(nil))
	return nil
}

// opcodeSha1 treats the top item of the data stack as raw bytes and replaces
// it with sha1(data).
//
// Stack transformation: [... x1] -> [... sha1(x1)]
func opcodeSha1(op *opcode, data []byte, vm *Engine) error {
	buf, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	hash := sha1.Sum(buf)
	vm.dstack.PushByteArray(hash[:])
	return nil
}

// opcodeSha256 treats the top item of the data stack as raw bytes and
// replaces it with sha256(data).
//
// Stack transformation: [... x1] -> [... sha256(x1)]
func opcodeSha256(op *opcode, data []byte, vm *Engine) error {
	buf, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	hash := sha256.Sum256(buf)
	vm.dstack.PushByteArray(hash[:])
	return nil
}

// opcodeHash160 treats the top item of the data stack as raw bytes and
// replaces it with ripemd160(sha256(data)).
//
// Stack transformation: [... x1] -> [... ripemd160(sha256(x1))]
func opcodeHash160(op *opcode, data []byte, vm *Engine) error {
	buf, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	hash := sha256.Sum256(buf)
	hasher := ripemd160.New()
	hasher.Write(hash[:])
	vm.dstack.PushByteArray(hasher.Sum(nil))
	return nil
}

// opcodeHash256 treats the top item of the data stack as raw bytes and
// replaces it with sha256(sha256(data)).
//
// Stack transformation: [... x1] -> [... sha256(sha256(x1))]
func opcodeHash256(op *opcode, data []byte, vm *Engine) error {
	buf, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	vm.dstack.PushByteArray(chainhash.DoubleHashB(buf))
	return nil
}

// opcodeSha512_256 treats the top item of the data stack as raw bytes and
// replaces it with sha512/256(data).
//
// Stack transformation: [... x1] -> [... sha512_256(x1)]
func opcodeSha512_256(op *opcode, data []byte, vm *Engine) error {
	buf, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	hash := rxhash.Sha512_256(buf)
	vm.dstack.PushByteArray(hash[:])
	return nil
}

// opcodeHash512_256 treats the top item of the data stack as raw bytes and
// replaces it with sha512/256(sha512/256(data)).
//
// Stack transformation: [... x1] -> [... sha512_256(sha512_256(x1))]
func opcodeHash512_256(op *opcode, data []byte, vm *Engine) error {
	buf, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	hash := rxhash.Hash512_256(buf)
	vm.dstack.PushByteArray(hash[:])
	return nil
}

// opcodeBlake3 treats the top item of the data stack as raw bytes and
// replaces it with blake3(data).  The single-chunk hasher bounds the input
// size.
//
// Stack transformation: [... x1] -> [... blake3(x1)]
func opcodeBlake3(op *opcode, data []byte, vm *Engine) error {
	buf, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	if len(buf) > rxhash.Blake3MaxInput {
		str := fmt.Sprintf("blake3 input of %d bytes exceeds the "+
			"single-chunk limit of %d", len(buf),
			rxhash.Blake3MaxInput)
		return scriptError(ErrPushSize, str)
	}

	hash := rxhash.Blake3(buf)
	vm.dstack.PushByteArray(hash[:])
	return nil
}

// opcodeK12 treats the top item of the data stack as raw bytes and replaces
// it with k12(data).  The single-block hasher bounds the input size.
//
// Stack transformation: [... x1] -> [... k12(x1)]
func opcodeK12(op *opcode, data []byte, vm *Engine) error {
	buf, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	if len(buf) > rxhash.K12MaxInput {
		str := fmt.Sprintf("k12 input of %d bytes exceeds the "+
			"single-block limit of %d", len(buf), rxhash.K12MaxInput)
		return scriptError(ErrPushSize, str)
	}

	hash := rxhash.K12(buf)
	vm.dstack.PushByteArray(hash[:])
	return nil
}

// opcodeCodeSeparator stores the current script offset as the most recently
// seen OP_CODESEPARATOR which is used during signature checking.
func opcodeCodeSeparator(op *opcode, data []byte, vm *Engine) error {
	vm.lastCodeSep = int(vm.tokenizer.ByteIndex())
	return nil
}

// opcodeCheckSig treats the top 2 items on the stack as a public key and a
// signature and replaces them with a bool which indicates if the signature
// was successfully verified.
//
// The process of verifying a signature requires calculating a signature hash
// in the same way the transaction signer did.  It involves hashing portions
// of the transaction based on the hash type byte (which is the final byte of
// the signature) and the script code from the most recent OP_CODESEPARATOR
// (or the beginning of the script if there are none) to the end of the
// script, with pushes of the signature being checked removed.  Any other
// OP_CODESEPARATORs in that range are kept.
//
// Stack transformation: [... signature pubkey] -> [... bool]
func opcodeCheckSig(op *opcode, data []byte, vm *Engine) error {
	pkBytes, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	fullSigBytes, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	// The signature actually needs to be longer than this, but at least 1
	// byte is needed for the hash type below.  The full length is checked
	// depending on the script flags and upon parsing the signature.
	if len(fullSigBytes) > 0 {
		if err := vm.checkSignatureLength(fullSigBytes); err != nil {
			return err
		}

		hashType := SigHashType(fullSigBytes[len(fullSigBytes)-1])
		if err := vm.checkHashTypeEncoding(hashType); err != nil {
			return err
		}
		if err := vm.checkSignatureEncoding(
			fullSigBytes[:len(fullSigBytes)-1]); err != nil {

			return err
		}
	}
	if err := vm.checkPubKeyEncoding(pkBytes); err != nil {
		return err
	}

	// Get script starting from the most recent OP_CODESEPARATOR with the
	// signature being checked removed.
	subScript := vm.subScript()
	subScript = removeOpcodeByData(subScript, fullSigBytes)

	valid, err := vm.checker.CheckSig(fullSigBytes, pkBytes, subScript)
	if err != nil {
		return err
	}

	if !valid && vm.hasFlag(ScriptVerifyNullFail) && len(fullSigBytes) > 0 {
		return scriptError(ErrSigNullFail,
			"signature not empty on failed checksig")
	}

	vm.dstack.PushBool(valid)
	return nil
}

// opcodeCheckSigVerify is a combination of opcodeCheckSig and opcodeVerify.
//
// Stack transformation: [... signature pubkey] -> [... bool] -> [...]
func opcodeCheckSigVerify(op *opcode, data []byte, vm *Engine) error {
	err := opcodeCheckSig(op, data, vm)
	if err == nil {
		err = abstractVerify(op, vm, ErrCheckSigVerify)
	}
	return err
}

// opcodeCheckMultiSig treats the top item on the stack as an integer number
// of public keys, followed by that many entries as raw data representing the
// public keys, followed by the integer number of signatures, followed by
// that many entries as raw data representing the signatures.
//
// Due to a bug in the original implementation, the signature verification
// operates on the last stack item as an extra item which is unused.  When
// the null dummy flag is set, it must be an empty vector.
//
// All of the aforementioned stack items are replaced with a bool which
// indicates if the requisite number of signatures were successfully
// verified.
//
// Stack transformation:
// [... dummy [sig ...] numsigs [pubkey ...] numpubkeys] -> [... bool]
func opcodeCheckMultiSig(op *opcode, data []byte, vm *Engine) error {
	numKeys, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}

	numPubKeys := int(numKeys.Int32())
	if numPubKeys < 0 || numPubKeys > MaxPubKeysPerMultiSig {
		str := fmt.Sprintf("number of pubkeys %d is invalid", numPubKeys)
		return scriptError(ErrPubKeyCount, str)
	}
	vm.numOps += numPubKeys
	vm.totalOps += numPubKeys
	if vm.numOps > MaxOpsPerScript {
		str := fmt.Sprintf("exceeded max operation limit of %d",
			MaxOpsPerScript)
		return scriptError(ErrOpCount, str)
	}

	pubKeys := make([][]byte, 0, numPubKeys)
	for i := 0; i < numPubKeys; i++ {
		pubKey, err := vm.dstack.PopByteArray()
		if err != nil {
			return err
		}
		pubKeys = append(pubKeys, pubKey)
	}

	numSigs, err := vm.dstack.PopInt()
	if err != nil {
		return err
	}
	numSignatures := int(numSigs.Int32())
	if numSignatures < 0 {
		str := fmt.Sprintf("number of signatures %d is negative",
			numSignatures)
		return scriptError(ErrSigCount, str)
	}
	if numSignatures > numPubKeys {
		str := fmt.Sprintf("more signatures than pubkeys: %d > %d",
			numSignatures, numPubKeys)
		return scriptError(ErrSigCount, str)
	}

	signatures := make([][]byte, 0, numSignatures)
	for i := 0; i < numSignatures; i++ {
		signature, err := vm.dstack.PopByteArray()
		if err != nil {
			return err
		}
		signatures = append(signatures, signature)
	}

	// A bug in the original implementation means one more stack value
	// than should be used must be popped.  Unfortunately, this buggy
	// behavior is now part of consensus and a hard fork would be required
	// to fix it.
	dummy, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	// Since the dummy argument is otherwise not checked, it could be any
	// value which unfortunately provides a source of malleability.  Thus,
	// there is a script flag to force an error when the value is NOT 0.
	if vm.hasFlag(ScriptVerifyNullDummy) && len(dummy) != 0 {
		str := fmt.Sprintf("multisig dummy argument has length %d "+
			"instead of 0", len(dummy))
		return scriptError(ErrSigNullDummy, str)
	}

	// Get script starting from the most recent OP_CODESEPARATOR.
	script := vm.subScript()

	// Remove the signatures since there is no way for a signature to sign
	// itself.
	for _, sigBytes := range signatures {
		script = removeOpcodeByData(script, sigBytes)
	}

	success := true
	numPubKeys++
	pubKeyIdx := -1
	signatureIdx := 0
	for numSignatures > 0 {
		// When there are more signatures than public keys remaining,
		// there is no way to succeed since too many signatures are
		// invalid, so exit early.
		pubKeyIdx++
		numPubKeys--
		if numSignatures > numPubKeys {
			success = false
			break
		}

		signature := signatures[signatureIdx]
		pubKey := pubKeys[pubKeyIdx]

		// The order of the signature and public key evaluation is
		// important here since it can be distinguished by an
		// OP_CHECKMULTISIG NOT when the strict encoding flag is set.
		if len(signature) == 0 {
			continue
		}
		if err := vm.checkSignatureLength(signature); err != nil {
			return err
		}
		hashType := SigHashType(signature[len(signature)-1])
		if err := vm.checkHashTypeEncoding(hashType); err != nil {
			return err
		}
		if err := vm.checkSignatureEncoding(
			signature[:len(signature)-1]); err != nil {

			return err
		}
		if err := vm.checkPubKeyEncoding(pubKey); err != nil {
			return err
		}

		valid, err := vm.checker.CheckSig(signature, pubKey, script)
		if err != nil {
			return err
		}
		if valid {
			// The signature matched this pubkey; move on to the
			// next signature.
			signatureIdx++
			numSignatures--
		}
	}

	if !success && vm.hasFlag(ScriptVerifyNullFail) {
		for _, sig := range signatures {
			if len(sig) > 0 {
				str := "not all signatures empty on failed checkmultisig"
				return scriptError(ErrSigNullFail, str)
			}
		}
	}

	vm.dstack.PushBool(success)
	return nil
}

// opcodeCheckMultiSigVerify is a combination of opcodeCheckMultiSig and
// opcodeVerify.
//
// Stack transformation:
// [... dummy [sig ...] numsigs [pubkey ...] numpubkeys] -> [... bool] -> [...]
func opcodeCheckMultiSigVerify(op *opcode, data []byte, vm *Engine) error {
	err := opcodeCheckMultiSig(op, data, vm)
	if err == nil {
		err = abstractVerify(op, vm, ErrCheckMultiSigVerify)
	}
	return err
}

// opcodeCheckDataSig verifies a signature over the single SHA-256 of an
// arbitrary message against a public key.  Unlike OP_CHECKSIG, the
// signature carries no trailing hash type byte.
//
// Stack transformation: [... sig msg pubkey] -> [... bool]
func opcodeCheckDataSig(op *opcode, data []byte, vm *Engine) error {
	pkBytes, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	msg, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	sigBytes, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	if len(sigBytes) > 0 {
		if err := vm.checkSignatureEncoding(sigBytes); err != nil {
			return err
		}
	}
	if err := vm.checkPubKeyEncoding(pkBytes); err != nil {
		return err
	}

	valid, err := vm.checker.CheckDataSig(sigBytes, msg, pkBytes)
	if err != nil {
		return err
	}

	if !valid && vm.hasFlag(ScriptVerifyNullFail) && len(sigBytes) > 0 {
		return scriptError(ErrSigNullFail,
			"signature not empty on failed checkdatasig")
	}

	vm.dstack.PushBool(valid)
	return nil
}

// opcodeCheckDataSigVerify is a combination of opcodeCheckDataSig and
// opcodeVerify.
//
// Stack transformation: [... sig msg pubkey] -> [... bool] -> [...]
func opcodeCheckDataSigVerify(op *opcode, data []byte, vm *Engine) error {
	err := opcodeCheckDataSig(op, data, vm)
	if err == nil {
		err = abstractVerify(op, vm, ErrCheckSigVerify)
	}
	return err
}

// opcodeStateSeparator is a no-op during execution.  Its role is structural:
// it splits a locking script into the state script before it and the code
// script after it.  It is only valid inside a locking script.
func opcodeStateSeparator(op *opcode, data []byte, vm *Engine) error {
	if vm.scriptIdx == 0 {
		return scriptError(ErrInvalidStateSeparatorLocation,
			"state separator is not valid in an unlocking script")
	}
	return nil
}

// opcodeStateSeparatorIndexUtxo pushes the byte index of the first state
// separator of the UTXO script spent by the input whose index is on the top
// of the stack.
//
// Stack transformation: [... idx] -> [... sepindex]
func opcodeStateSeparatorIndexUtxo(op *opcode, data []byte, vm *Engine) error {
	ctx, err := vm.introspectionContext()
	if err != nil {
		return err
	}

	idx, err := vm.popIndex()
	if err != nil {
		return err
	}

	sepIdx, err := ctx.StateSeparatorIndexUtxo(idx)
	if err != nil {
		return err
	}
	vm.dstack.PushInt(scriptNum(int64(sepIdx)))
	return nil
}

// opcodeStateSeparatorIndexOutput pushes the byte index of the first state
// separator of the output script whose index is on the top of the stack.
//
// Stack transformation: [... idx] -> [... sepindex]
func opcodeStateSeparatorIndexOutput(op *opcode, data []byte, vm *Engine) error {
	ctx, err := vm.introspectionContext()
	if err != nil {
		return err
	}

	idx, err := vm.popIndex()
	if err != nil {
		return err
	}

	sepIdx, err := ctx.StateSeparatorIndexOutput(idx)
	if err != nil {
		return err
	}
	vm.dstack.PushInt(scriptNum(int64(sepIdx)))
	return nil
}

// opcodeInputIndex pushes the index of the input being validated.
func opcodeInputIndex(op *opcode, data []byte, vm *Engine) error {
	ctx, err := vm.introspectionContext()
	if err != nil {
		return err
	}

	vm.dstack.PushInt(scriptNum(ctx.InputIndex()))
	return nil
}

// opcodeActiveBytecode pushes the currently executing script, starting from
// the most recent OP_CODESEPARATOR.
func opcodeActiveBytecode(op *opcode, data []byte, vm *Engine) error {
	if _, err := vm.introspectionContext(); err != nil {
		return err
	}

	sub := vm.subScript()
	active := make([]byte, len(sub))
	copy(active, sub)
	vm.dstack.PushByteArray(active)
	return nil
}

// opcodeTxVersion pushes the transaction version.
func opcodeTxVersion(op *opcode, data []byte, vm *Engine) error {
	ctx, err := vm.introspectionContext()
	if err != nil {
		return err
	}

	vm.dstack.PushInt(scriptNum(ctx.TxVersion()))
	return nil
}

// opcodeTxInputCount pushes the number of transaction inputs.
func opcodeTxInputCount(op *opcode, data []byte, vm *Engine) error {
	ctx, err := vm.introspectionContext()
	if err != nil {
		return err
	}

	vm.dstack.PushInt(scriptNum(ctx.TxInputCount()))
	return nil
}

// opcodeTxOutputCount pushes the number of transaction outputs.
func opcodeTxOutputCount(op *opcode, data []byte, vm *Engine) error {
	ctx, err := vm.introspectionContext()
	if err != nil {
		return err
	}

	vm.dstack.PushInt(scriptNum(ctx.TxOutputCount()))
	return nil
}

// opcodeTxLockTime pushes the transaction locktime.
func opcodeTxLockTime(op *opcode, data []byte, vm *Engine) error {
	ctx, err := vm.introspectionContext()
	if err != nil {
		return err
	}

	vm.dstack.PushInt(scriptNum(int64(ctx.TxLockTime())))
	return nil
}

// opcodeUtxoValue pushes the value of the UTXO spent by the input whose
// index is on the top of the stack.
//
// Stack transformation: [... idx] -> [... value]
func opcodeUtxoValue(op *opcode, data []byte, vm *Engine) error {
	ctx, err := vm.introspectionContext()
	if err != nil {
		return err
	}

	idx, err := vm.popIndex()
	if err != nil {
		return err
	}

	value, err := ctx.UtxoValue(idx)
	if err != nil {
		return err
	}
	vm.dstack.PushInt(scriptNum(value))
	return nil
}

// opcodeUtxoBytecode pushes the locking script of the UTXO spent by the
// input whose index is on the top of the stack.
//
// Stack transformation: [... idx] -> [... script]
func opcodeUtxoBytecode(op *opcode, data []byte, vm *Engine) error {
	ctx, err := vm.introspectionContext()
	if err != nil {
		return err
	}

	idx, err := vm.popIndex()
	if err != nil {
		return err
	}

	script, err := ctx.UtxoBytecode(idx)
	if err != nil {
		return err
	}
	return vm.pushCopy(script)
}

// opcodeOutpointTxHash pushes the 32-byte txid of the outpoint spent by the
// input whose index is on the top of the stack.
//
// Stack transformation: [... idx] -> [... txid]
func opcodeOutpointTxHash(op *opcode, data []byte, vm *Engine) error {
	ctx, err := vm.introspectionContext()
	if err != nil {
		return err
	}

	idx, err := vm.popIndex()
	if err != nil {
		return err
	}

	hash, err := ctx.OutpointTxHash(idx)
	if err != nil {
		return err
	}
	return vm.pushCopy(hash)
}

// opcodeOutpointIndex pushes the output index of the outpoint spent by the
// input whose index is on the top of the stack.
//
// Stack transformation: [... idx] -> [... outpointindex]
func opcodeOutpointIndex(op *opcode, data []byte, vm *Engine) error {
	ctx, err := vm.introspectionContext()
	if err != nil {
		return err
	}

	idx, err := vm.popIndex()
	if err != nil {
		return err
	}

	outIdx, err := ctx.OutpointIndex(idx)
	if err != nil {
		return err
	}
	vm.dstack.PushInt(scriptNum(int64(outIdx)))
	return nil
}

// opcodeInputBytecode pushes the unlocking script of the input whose index
// is on the top of the stack.
//
// Stack transformation: [... idx] -> [... script]
func opcodeInputBytecode(op *opcode, data []byte, vm *Engine) error {
	ctx, err := vm.introspectionContext()
	if err != nil {
		return err
	}

	idx, err := vm.popIndex()
	if err != nil {
		return err
	}

	script, err := ctx.InputBytecode(idx)
	if err != nil {
		return err
	}
	return vm.pushCopy(script)
}

// opcodeInputSequenceNumber pushes the sequence number of the input whose
// index is on the top of the stack.
//
// Stack transformation: [... idx] -> [... sequence]
func opcodeInputSequenceNumber(op *opcode, data []byte, vm *Engine) error {
	ctx, err := vm.introspectionContext()
	if err != nil {
		return err
	}

	idx, err := vm.popIndex()
	if err != nil {
		return err
	}

	sequence, err := ctx.InputSequence(idx)
	if err != nil {
		return err
	}
	vm.dstack.PushInt(scriptNum(int64(sequence)))
	return nil
}

// opcodeOutputValue pushes the value of the output whose index is on the top
// of the stack.
//
// Stack transformation: [... idx] -> [... value]
func opcodeOutputValue(op *opcode, data []byte, vm *Engine) error {
	ctx, err := vm.introspectionContext()
	if err != nil {
		return err
	}

	idx, err := vm.popIndex()
	if err != nil {
		return err
	}

	value, err := ctx.OutputValue(idx)
	if err != nil {
		return err
	}
	vm.dstack.PushInt(scriptNum(value))
	return nil
}

// opcodeOutputBytecode pushes the locking script of the output whose index
// is on the top of the stack.
//
// Stack transformation: [... idx] -> [... script]
func opcodeOutputBytecode(op *opcode, data []byte, vm *Engine) error {
	ctx, err := vm.introspectionContext()
	if err != nil {
		return err
	}

	idx, err := vm.popIndex()
	if err != nil {
		return err
	}

	script, err := ctx.OutputBytecode(idx)
	if err != nil {
		return err
	}
	return vm.pushCopy(script)
}

// opcodePushInputRef validates the 36-byte inline reference operand and
// pushes it onto the stack.  When an execution context is available, the
// reference must name the outpoint of the input being validated or appear in
// one of the input UTXO scripts.
//
// Stack transformation: [...] -> [... ref]
func opcodePushInputRef(op *opcode, data []byte, vm *Engine) error {
	ref, err := vm.takeRefOperand(op, data)
	if err != nil {
		return err
	}

	if vm.ctx != nil {
		if !vm.refKnownToInputs(ref) {
			str := fmt.Sprintf("reference %s not found in any input",
				ref)
			return scriptError(ErrReferenceNotFound, str)
		}
	}

	vm.pushRefs[ref] = struct{}{}
	return vm.pushCopy(data)
}

// opcodeRequireInputRef validates that the 36-byte inline reference operand
// appears in the transaction inputs.  Nothing is pushed.
func opcodeRequireInputRef(op *opcode, data []byte, vm *Engine) error {
	ref, err := vm.takeRefOperand(op, data)
	if err != nil {
		return err
	}

	if vm.ctx != nil {
		if !vm.refKnownToInputs(ref) {
			str := fmt.Sprintf("required reference %s not found in "+
				"any input", ref)
			return scriptError(ErrReferenceNotFound, str)
		}
	}

	vm.requireRefs[ref] = struct{}{}
	return nil
}

// opcodeDisallowPushInputRef validates that the 36-byte inline reference
// operand is not referenced by any other input UTXO script nor any output
// script of the transaction.  Nothing is pushed.
func opcodeDisallowPushInputRef(op *opcode, data []byte, vm *Engine) error {
	ref, err := vm.takeRefOperand(op, data)
	if err != nil {
		return err
	}

	if ctx := vm.ctx; ctx != nil {
		for i, summary := range ctx.inputSummaries {
			if i == ctx.inputIndex {
				// The currently executing UTXO script produces
				// the reference itself.
				continue
			}
			if summary.containsRef(ref) {
				str := fmt.Sprintf("disallowed reference %s is "+
					"present in input %d", ref, i)
				return scriptError(ErrInvalidReference, str)
			}
		}
		if ctx.outputRefs.contains(ref) {
			str := fmt.Sprintf("disallowed reference %s is present "+
				"in an output", ref)
			return scriptError(ErrInvalidReference, str)
		}
	}

	return nil
}

// opcodeDisallowPushInputRefSibling validates that at most one output of the
// transaction carries the 36-byte inline reference operand.  Nothing is
// pushed.
func opcodeDisallowPushInputRefSibling(op *opcode, data []byte, vm *Engine) error {
	ref, err := vm.takeRefOperand(op, data)
	if err != nil {
		return err
	}

	if ctx := vm.ctx; ctx != nil {
		if count := ctx.RefOutputCountOutputs(ref); count > 1 {
			str := fmt.Sprintf("reference %s has %d sibling outputs",
				ref, count)
			return scriptError(ErrInvalidReference, str)
		}
	}

	return nil
}

// opcodePushInputRefSingleton validates that the 36-byte inline reference
// operand appears in exactly one input UTXO script and exactly one output
// script, then pushes it onto the stack.
//
// Stack transformation: [...] -> [... ref]
func opcodePushInputRefSingleton(op *opcode, data []byte, vm *Engine) error {
	ref, err := vm.takeRefOperand(op, data)
	if err != nil {
		return err
	}

	if ctx := vm.ctx; ctx != nil {
		inputs, outputs := ctx.singletonCounts(ref)
		if inputs != 1 || outputs != 1 {
			str := fmt.Sprintf("singleton reference %s appears in "+
				"%d inputs and %d outputs", ref, inputs, outputs)
			return scriptError(ErrSingletonMismatch, str)
		}
	}

	vm.singletonRefs[ref] = struct{}{}
	return vm.pushCopy(data)
}

// opcodeRefTypeUtxo pops a 36-byte reference and pushes its classification
// across the input UTXO scripts: 0 when absent, 1 for a plain push
// reference, 2 for a singleton.
//
// Stack transformation: [... ref] -> [... type]
func opcodeRefTypeUtxo(op *opcode, data []byte, vm *Engine) error {
	ctx, err := vm.referenceContext()
	if err != nil {
		return err
	}

	ref, err := vm.popRef()
	if err != nil {
		return err
	}

	vm.dstack.PushInt(scriptNum(ctx.RefTypeUtxos(ref)))
	return nil
}

// opcodeRefTypeOutput pops a 36-byte reference and pushes its classification
// across the output scripts: 0 when absent, 1 for a plain push reference, 2
// for a singleton.
//
// Stack transformation: [... ref] -> [... type]
func opcodeRefTypeOutput(op *opcode, data []byte, vm *Engine) error {
	ctx, err := vm.referenceContext()
	if err != nil {
		return err
	}

	ref, err := vm.popRef()
	if err != nil {
		return err
	}

	vm.dstack.PushInt(scriptNum(ctx.RefTypeOutputs(ref)))
	return nil
}

// opcodeRefValueSumUtxos pops a 36-byte reference and pushes the sum of the
// values of the input coins whose scripts reference it.
//
// Stack transformation: [... ref] -> [... sum]
func opcodeRefValueSumUtxos(op *opcode, data []byte, vm *Engine) error {
	ctx, err := vm.referenceContext()
	if err != nil {
		return err
	}

	ref, err := vm.popRef()
	if err != nil {
		return err
	}

	vm.dstack.PushInt(scriptNum(ctx.RefValueSumUtxos(ref)))
	return nil
}

// opcodeRefValueSumOutputs pops a 36-byte reference and pushes the sum of
// the values of the outputs whose scripts reference it.
//
// Stack transformation: [... ref] -> [... sum]
func opcodeRefValueSumOutputs(op *opcode, data []byte, vm *Engine) error {
	ctx, err := vm.referenceContext()
	if err != nil {
		return err
	}

	ref, err := vm.popRef()
	if err != nil {
		return err
	}

	vm.dstack.PushInt(scriptNum(ctx.RefValueSumOutputs(ref)))
	return nil
}

// opcodeRefOutputCountUtxos pops a 36-byte reference and pushes the number
// of input coins whose scripts reference it.
//
// Stack transformation: [... ref] -> [... count]
func opcodeRefOutputCountUtxos(op *opcode, data []byte, vm *Engine) error {
	ctx, err := vm.referenceContext()
	if err != nil {
		return err
	}

	ref, err := vm.popRef()
	if err != nil {
		return err
	}

	vm.dstack.PushInt(scriptNum(int64(ctx.RefOutputCountUtxos(ref))))
	return nil
}

// opcodeRefOutputCountOutputs pops a 36-byte reference and pushes the number
// of outputs whose scripts reference it.
//
// Stack transformation: [... ref] -> [... count]
func opcodeRefOutputCountOutputs(op *opcode, data []byte, vm *Engine) error {
	ctx, err := vm.referenceContext()
	if err != nil {
		return err
	}

	ref, err := vm.popRef()
	if err != nil {
		return err
	}

	vm.dstack.PushInt(scriptNum(int64(ctx.RefOutputCountOutputs(ref))))
	return nil
}

// opcodeRefOutputCountZeroValuedUtxos pops a 36-byte reference and pushes
// the number of zero-valued input coins whose scripts reference it.
//
// Stack transformation: [... ref] -> [... count]
func opcodeRefOutputCountZeroValuedUtxos(op *opcode, data []byte, vm *Engine) error {
	ctx, err := vm.referenceContext()
	if err != nil {
		return err
	}

	ref, err := vm.popRef()
	if err != nil {
		return err
	}

	vm.dstack.PushInt(scriptNum(int64(ctx.RefOutputCountZeroValuedUtxos(ref))))
	return nil
}

// opcodeRefOutputCountZeroValuedOutputs pops a 36-byte reference and pushes
// the number of zero-valued outputs whose scripts reference it.
//
// Stack transformation: [... ref] -> [... count]
func opcodeRefOutputCountZeroValuedOutputs(op *opcode, data []byte, vm *Engine) error {
	ctx, err := vm.referenceContext()
	if err != nil {
		return err
	}

	ref, err := vm.popRef()
	if err != nil {
		return err
	}

	vm.dstack.PushInt(scriptNum(int64(ctx.RefOutputCountZeroValuedOutputs(ref))))
	return nil
}

// popCodeScriptHash pops a 32-byte code script hash from the stack.
func popCodeScriptHash(vm *Engine) (chainhash.Hash, error) {
	var csh chainhash.Hash

	so, err := vm.dstack.PopByteArray()
	if err != nil {
		return csh, err
	}
	if len(so) != chainhash.HashSize {
		str := fmt.Sprintf("code script hash operand is %d bytes "+
			"instead of %d", len(so), chainhash.HashSize)
		return csh, scriptError(ErrInvalidStackOperation, str)
	}

	copy(csh[:], so)
	return csh, nil
}

// opcodeCodeScriptHashValueSumUtxos pops a 32-byte code script hash and
// pushes the sum of the values of the input coins whose code scripts hash to
// it.
//
// Stack transformation: [... hash] -> [... sum]
func opcodeCodeScriptHashValueSumUtxos(op *opcode, data []byte, vm *Engine) error {
	ctx, err := vm.referenceContext()
	if err != nil {
		return err
	}

	csh, err := popCodeScriptHash(vm)
	if err != nil {
		return err
	}

	vm.dstack.PushInt(scriptNum(ctx.CodeScriptHashValueSumUtxos(csh)))
	return nil
}

// opcodeCodeScriptHashValueSumOutputs pops a 32-byte code script hash and
// pushes the sum of the values of the outputs whose code scripts hash to it.
//
// Stack transformation: [... hash] -> [... sum]
func opcodeCodeScriptHashValueSumOutputs(op *opcode, data []byte, vm *Engine) error {
	ctx, err := vm.referenceContext()
	if err != nil {
		return err
	}

	csh, err := popCodeScriptHash(vm)
	if err != nil {
		return err
	}

	vm.dstack.PushInt(scriptNum(ctx.CodeScriptHashValueSumOutputs(csh)))
	return nil
}

// opcodeCodeScriptHashOutputCountUtxos pops a 32-byte code script hash and
// pushes the number of input coins whose code scripts hash to it.
//
// Stack transformation: [... hash] -> [... count]
func opcodeCodeScriptHashOutputCountUtxos(op *opcode, data []byte, vm *Engine) error {
	ctx, err := vm.referenceContext()
	if err != nil {
		return err
	}

	csh, err := popCodeScriptHash(vm)
	if err != nil {
		return err
	}

	vm.dstack.PushInt(scriptNum(int64(ctx.CodeScriptHashOutputCountUtxos(csh))))
	return nil
}

// opcodeCodeScriptHashOutputCountOutputs pops a 32-byte code script hash and
// pushes the number of outputs whose code scripts hash to it.
//
// Stack transformation: [... hash] -> [... count]
func opcodeCodeScriptHashOutputCountOutputs(op *opcode, data []byte, vm *Engine) error {
	ctx, err := vm.referenceContext()
	if err != nil {
		return err
	}

	csh, err := popCodeScriptHash(vm)
	if err != nil {
		return err
	}

	vm.dstack.PushInt(scriptNum(int64(ctx.CodeScriptHashOutputCountOutputs(csh))))
	return nil
}

// opcodeCodeScriptHashZeroValuedOutputCountUtxos pops a 32-byte code script
// hash and pushes the number of zero-valued input coins whose code scripts
// hash to it.
//
// Stack transformation: [... hash] -> [... count]
func opcodeCodeScriptHashZeroValuedOutputCountUtxos(op *opcode, data []byte, vm *Engine) error {
	ctx, err := vm.referenceContext()
	if err != nil {
		return err
	}

	csh, err := popCodeScriptHash(vm)
	if err != nil {
		return err
	}

	count := ctx.CodeScriptHashZeroValuedOutputCountUtxos(csh)
	vm.dstack.PushInt(scriptNum(int64(count)))
	return nil
}

// opcodeCodeScriptHashZeroValuedOutputCountOutputs pops a 32-byte code
// script hash and pushes the number of zero-valued outputs whose code
// scripts hash to it.
//
// Stack transformation: [... hash] -> [... count]
func opcodeCodeScriptHashZeroValuedOutputCountOutputs(op *opcode, data []byte, vm *Engine) error {
	ctx, err := vm.referenceContext()
	if err != nil {
		return err
	}

	csh, err := popCodeScriptHash(vm)
	if err != nil {
		return err
	}

	count := ctx.CodeScriptHashZeroValuedOutputCountOutputs(csh)
	vm.dstack.PushInt(scriptNum(int64(count)))
	return nil
}

// opcodeCodeScriptBytecodeUtxo pushes the code script view of the UTXO spent
// by the input whose index is on the top of the stack.
//
// Stack transformation: [... idx] -> [... script]
func opcodeCodeScriptBytecodeUtxo(op *opcode, data []byte, vm *Engine) error {
	ctx, err := vm.introspectionContext()
	if err != nil {
		return err
	}

	idx, err := vm.popIndex()
	if err != nil {
		return err
	}

	script, err := ctx.CodeScriptUtxo(idx)
	if err != nil {
		return err
	}
	return vm.pushCopy(script)
}

// opcodeCodeScriptBytecodeOutput pushes the code script view of the output
// whose index is on the top of the stack.
//
// Stack transformation: [... idx] -> [... script]
func opcodeCodeScriptBytecodeOutput(op *opcode, data []byte, vm *Engine) error {
	ctx, err := vm.introspectionContext()
	if err != nil {
		return err
	}

	idx, err := vm.popIndex()
	if err != nil {
		return err
	}

	script, err := ctx.CodeScriptOutput(idx)
	if err != nil {
		return err
	}
	return vm.pushCopy(script)
}

// opcodeStateScriptBytecodeUtxo pushes the state script view of the UTXO
// spent by the input whose index is on the top of the stack.  The view is
// empty when the script has no state separator.
//
// Stack transformation: [... idx] -> [... script]
func opcodeStateScriptBytecodeUtxo(op *opcode, data []byte, vm *Engine) error {
	ctx, err := vm.introspectionContext()
	if err != nil {
		return err
	}

	idx, err := vm.popIndex()
	if err != nil {
		return err
	}

	script, err := ctx.StateScriptUtxo(idx)
	if err != nil {
		return err
	}
	return vm.pushCopy(script)
}

// opcodeStateScriptBytecodeOutput pushes the state script view of the output
// whose index is on the top of the stack.  The view is empty when the script
// has no state separator.
//
// Stack transformation: [... idx] -> [... script]
func opcodeStateScriptBytecodeOutput(op *opcode, data []byte, vm *Engine) error {
	ctx, err := vm.introspectionContext()
	if err != nil {
		return err
	}

	idx, err := vm.popIndex()
	if err != nil {
		return err
	}

	script, err := ctx.StateScriptOutput(idx)
	if err != nil {
		return err
	}
	return vm.pushCopy(script)
}
