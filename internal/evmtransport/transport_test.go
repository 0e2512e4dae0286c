// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package evmtransport

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"ordbridge/internal/attestation"
)

func TestPackAttestBurnArgs(t *testing.T) {
	witnessProgram := make([]byte, 32)
	witnessProgram[0] = 0xaa
	witnessProgram[31] = 0xbb

	params := attestation.TxParams{
		SenderWitnessProgram: witnessProgram,
		InscriptionHash:      big.NewInt(42),
		TokenID:              7,
	}

	sender, hash, tokenID := packAttestBurnArgs(params)

	require.Equal(t, byte(0xaa), sender[0])
	require.Equal(t, byte(0xbb), sender[31])
	require.Equal(t, big.NewInt(42), hash)
	require.Equal(t, big.NewInt(7), tokenID)
}

func TestPackAttestBurnArgs_ShortWitnessProgramRightAligned(t *testing.T) {
	witnessProgram := []byte{0x01, 0x02}

	sender, _, _ := packAttestBurnArgs(attestation.TxParams{
		SenderWitnessProgram: witnessProgram,
		InscriptionHash:      big.NewInt(0),
	})

	require.Equal(t, byte(0x01), sender[30])
	require.Equal(t, byte(0x02), sender[31])
	require.Equal(t, byte(0x00), sender[0])
}
