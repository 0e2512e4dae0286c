// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package attestation

import (
	"errors"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
)

// ErrNonTaprootSender is returned when a claim's sender_address does not
// decode to a P2TR address. Spec.md §9 Open Questions: "this spec requires
// P2TR senders and marks non-P2TR claims as failed via AW."
var ErrNonTaprootSender = errors.New("sender address is not a taproot address")

// senderWitnessProgram converts a bech32/bech32m sender address into the
// 32-byte witness program the contract's address type expects, spec.md
// §4.5 step b.
func senderWitnessProgram(senderAddress string, params *chaincfg.Params) ([]byte, error) {
	addr, err := btcutil.DecodeAddress(senderAddress, params)
	if err != nil {
		return nil, err
	}

	taproot, ok := addr.(*btcutil.AddressTaproot)
	if !ok {
		return nil, ErrNonTaprootSender
	}

	return taproot.WitnessProgram(), nil
}
