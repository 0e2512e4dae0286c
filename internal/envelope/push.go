// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package envelope

import (
	"encoding/binary"

	"github.com/btcsuite/btcd/txscript"
)

// readPush reads a single script data push starting at pos and returns its
// payload and the position immediately after it. ok is false if the byte at
// pos is not a recognized push opcode, or the push's claimed length runs
// past the end of data — the latter is a length overrun, not a hard error:
// callers stop collecting further payloads but keep what they already have.
func readPush(data []byte, pos int) (payload []byte, next int, ok bool) {
	if pos >= len(data) {
		return nil, pos, false
	}

	op := data[pos]
	switch {
	case op == txscript.OP_0:
		return []byte{}, pos + 1, true

	case op >= txscript.OP_DATA_1 && op <= txscript.OP_DATA_75:
		n := int(op)
		end := pos + 1 + n
		if end > len(data) {
			return nil, pos, false
		}
		return data[pos+1 : end], end, true

	case op == txscript.OP_PUSHDATA1:
		if pos+1 >= len(data) {
			return nil, pos, false
		}
		n := int(data[pos+1])
		end := pos + 2 + n
		if end > len(data) {
			return nil, pos, false
		}
		return data[pos+2 : end], end, true

	case op == txscript.OP_PUSHDATA2:
		if pos+2 >= len(data) {
			return nil, pos, false
		}
		n := int(binary.LittleEndian.Uint16(data[pos+1 : pos+3]))
		end := pos + 3 + n
		if end > len(data) {
			return nil, pos, false
		}
		return data[pos+3 : end], end, true

	case op == txscript.OP_PUSHDATA4:
		if pos+4 >= len(data) {
			return nil, pos, false
		}
		n := int(binary.LittleEndian.Uint32(data[pos+1 : pos+5]))
		end := pos + 5 + n
		if end > len(data) {
			return nil, pos, false
		}
		return data[pos+5 : end], end, true

	case op == txscript.OP_1NEGATE:
		return []byte{0x81}, pos + 1, true

	case op >= txscript.OP_1 && op <= txscript.OP_16:
		return []byte{op - txscript.OP_1 + 1}, pos + 1, true

	default:
		return nil, pos, false
	}
}

// collectPushes reads successive pushes starting at pos until a non-push
// byte is hit or a push's length overruns the data.
func collectPushes(data []byte, pos int) [][]byte {
	var payloads [][]byte
	for pos < len(data) {
		payload, next, ok := readPush(data, pos)
		if !ok {
			break
		}
		payloads = append(payloads, payload)
		pos = next
	}
	return payloads
}
