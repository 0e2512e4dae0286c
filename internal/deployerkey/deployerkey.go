// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

// Package deployerkey derives the attestation worker's signing key from
// the operator-supplied BIP39 mnemonic (DEPLOYER_MNEMONIC), following the
// standard Ethereum BIP44 derivation path m/44'/60'/0'/0/0.
package deployerkey

import (
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip32"
	"github.com/tyler-smith/go-bip39"
)

// ethereumDerivationPath is the BIP44 path for Ethereum account 0,
// external chain, address index 0.
var ethereumDerivationPath = []uint32{
	bip32.FirstHardenedChild + 44,
	bip32.FirstHardenedChild + 60,
	bip32.FirstHardenedChild + 0,
	0,
	0,
}

// ErrInvalidMnemonic is returned when the configured mnemonic fails BIP39
// checksum validation.
var ErrInvalidMnemonic = errors.New("invalid BIP39 mnemonic")

// Derive turns a BIP39 mnemonic into the deployer's Ethereum signing key.
func Derive(mnemonic, passphrase string) (*ecdsa.PrivateKey, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}

	seed := bip39.NewSeed(mnemonic, passphrase)

	key, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("derive master key: %w", err)
	}

	for level, index := range ethereumDerivationPath {
		key, err = key.NewChildKey(index)
		if err != nil {
			return nil, fmt.Errorf("derive child key at level %d: %w", level, err)
		}
	}

	privateKey, err := crypto.ToECDSA(key.Key)
	if err != nil {
		return nil, fmt.Errorf("convert derived key to ECDSA: %w", err)
	}

	return privateKey, nil
}
