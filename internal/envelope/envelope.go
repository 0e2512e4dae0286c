// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

// Package envelope decodes Bitcoin Ordinals inscription envelopes out of a
// transaction input's witness stack: the OP_FALSE OP_IF "ord" ... OP_ENDIF
// framing around a sequence of tag/value pushes.
package envelope

import (
	"bytes"
	"math/big"

	"github.com/btcsuite/btcd/txscript"

	"ordbridge/internal/inscriptionid"
	"ordbridge/internal/reverse"
	"ordbridge/internal/sequencereader"
)

// ordMarker is the tag push that disambiguates inscription envelopes from
// other uses of the OP_FALSE OP_IF ... OP_ENDIF envelope shape.
const ordMarker = "ord"

// Envelope holds the tagged fields and body recovered from one inscription
// envelope. Every field except ContentType and Body is an optional extra
// that is never persisted — it exists only for the duration of indexing one
// transaction (spec.md §3's "Optional envelope tag extras carried in-memory only").
type Envelope struct {
	ContentType     string
	Body            []byte
	Pointer         []byte
	Parent          *inscriptionid.ID
	Metadata        []byte
	Metaprotocol    string
	ContentEncoding string
	Delegate        *inscriptionid.ID
}

// PointerValue interprets Pointer as a little-endian unsigned integer, the
// way the ord protocol encodes the sat position a pointer tag targets.
// Returns nil if no pointer tag was present.
func (e *Envelope) PointerValue() *big.Int {
	if len(e.Pointer) == 0 {
		return nil
	}

	buf := append([]byte{}, e.Pointer...)
	return new(big.Int).SetBytes(reverse.Bytes(buf))
}

// Parse scans every item of a transaction input's witness stack, in order,
// and returns the first valid envelope found. Returns ok=false if no item
// contains a valid envelope — this is never an error, envelopes are simply
// absent from the overwhelming majority of witness stacks.
func Parse(witness [][]byte) (env *Envelope, ok bool) {
	for _, item := range witness {
		if env, ok = parseWitnessItem(item); ok {
			return env, true
		}
	}

	return nil, false
}

// parseWitnessItem scans one witness item for the OP_FALSE OP_IF "ord"
// marker, trying every occurrence in order until one yields a valid envelope
// or the item is exhausted.
func parseWitnessItem(data []byte) (*Envelope, bool) {
	for i := 0; i+1 < len(data); i++ {
		if data[i] != txscript.OP_0 || data[i+1] != txscript.OP_IF {
			continue
		}

		tagPush, next, ok := readPush(data, i+2)
		if !ok || string(tagPush) != ordMarker {
			continue
		}

		payloads := collectPushes(data, next)
		if env, valid := buildEnvelope(payloads); valid {
			return env, true
		}
	}

	return nil, false
}

// buildEnvelope parses the tag/value pairs of a located envelope's payloads
// per spec.md §4.1's "Payload parsing" rules, returning ok=false only if
// neither a content_type nor a body ended up present.
func buildEnvelope(payloads [][]byte) (*Envelope, bool) {
	env := new(Envelope)

	var metadataParts [][]byte
	var bodyParts [][]byte

	sr := sequencereader.New(payloads)
	for sr.HasNext() {
		fieldTag, _ := sr.Next()
		if len(fieldTag) == 0 {
			// First empty payload at an even index is the body separator;
			// everything after it is body.
			for sr.HasNext() {
				part, _ := sr.Next()
				bodyParts = append(bodyParts, part)
			}
			break
		}

		if !sr.HasNext() {
			// Tag with no following value: stop field parsing, not an error.
			break
		}
		value, _ := sr.Next()

		if len(fieldTag) == 1 {
			applyTag(env, tag(fieldTag[0]), value, &metadataParts)
		}
		// Multi-byte tag payloads are skipped without aborting.
	}

	if len(metadataParts) > 0 {
		env.Metadata = bytes.Join(metadataParts, nil)
	}
	if len(bodyParts) > 0 {
		env.Body = bytes.Join(bodyParts, nil)
	}

	if env.ContentType == "" && len(env.Body) == 0 {
		return nil, false
	}

	return env, true
}

// applyTag fills env's field for a recognized tag, respecting each field's
// first-occurrence-wins or concatenate-on-repeat semantics. Unknown tags are
// ignored without rejecting the envelope.
func applyTag(env *Envelope, t tag, value []byte, metadataParts *[][]byte) {
	switch t {
	case tagContentType:
		if env.ContentType == "" {
			env.ContentType = string(value)
		}
	case tagPointer:
		if env.Pointer == nil {
			env.Pointer = append([]byte{}, value...)
		}
	case tagParent:
		if env.Parent == nil {
			if id, err := inscriptionid.NewFromDataPush(value); err == nil {
				env.Parent = id
			}
		}
	case tagMetadata:
		*metadataParts = append(*metadataParts, value)
	case tagMetaprotocol:
		if env.Metaprotocol == "" {
			env.Metaprotocol = string(value)
		}
	case tagContentEncoding:
		if env.ContentEncoding == "" {
			env.ContentEncoding = string(value)
		}
	case tagDelegate:
		if env.Delegate == nil {
			if id, err := inscriptionid.NewFromDataPush(value); err == nil {
				env.Delegate = id
			}
		}
	}
}
