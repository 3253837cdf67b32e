// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package commitswap

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/luxfi/database"
	"github.com/luxfi/geth/common"
	"github.com/zeebo/blake3"
)

// receiptSize is the fixed encoded size of a SwapReceipt.
const receiptSize = 20 + 20 + 20 + 8 + 32

// SwapReceipt records one executed delegated swap.
type SwapReceipt struct {
	Owner    common.Address
	TokenIn  common.Address
	TokenOut common.Address
	AmountIn uint64
	TxHash   common.Hash
}

// ID derives the receipt's journal key from its contents.
func (r *SwapReceipt) ID() [32]byte {
	var amountBE [8]byte
	binary.BigEndian.PutUint64(amountBE[:], r.AmountIn)

	hasher := blake3.New()
	hasher.Write(r.Owner[:])
	hasher.Write(r.TokenIn[:])
	hasher.Write(r.TokenOut[:])
	hasher.Write(amountBE[:])
	hasher.Write(r.TxHash[:])

	var id [32]byte
	copy(id[:], hasher.Sum(nil))
	return id
}

func (r *SwapReceipt) encode() []byte {
	out := make([]byte, 0, receiptSize)
	out = append(out, r.Owner[:]...)
	out = append(out, r.TokenIn[:]...)
	out = append(out, r.TokenOut[:]...)
	var amountBE [8]byte
	binary.BigEndian.PutUint64(amountBE[:], r.AmountIn)
	out = append(out, amountBE[:]...)
	out = append(out, r.TxHash[:]...)
	return out
}

func decodeReceipt(data []byte) (*SwapReceipt, error) {
	if len(data) != receiptSize {
		return nil, fmt.Errorf("malformed receipt: %d bytes", len(data))
	}
	r := &SwapReceipt{
		Owner:    common.BytesToAddress(data[0:20]),
		TokenIn:  common.BytesToAddress(data[20:40]),
		TokenOut: common.BytesToAddress(data[40:60]),
		AmountIn: binary.BigEndian.Uint64(data[60:68]),
	}
	r.TxHash = common.BytesToHash(data[68:100])
	return r, nil
}

// Journal is an append-only record of executed swaps, kept outside ledger
// state. It exists for operators and indexers; the protocol never reads it.
type Journal struct {
	db database.Database
}

// NewJournal creates a journal over [db]. A nil database yields a nil journal,
// which every caller treats as "journaling disabled".
func NewJournal(db database.Database) *Journal {
	if db == nil {
		return nil
	}
	return &Journal{db: db}
}

// Record appends a receipt and returns its id.
func (j *Journal) Record(r *SwapReceipt) ([32]byte, error) {
	id := r.ID()
	if err := j.db.Put(id[:], r.encode()); err != nil {
		return [32]byte{}, err
	}
	return id, nil
}

// Get returns the receipt stored under [id], or (nil, nil) if absent.
func (j *Journal) Get(id [32]byte) (*SwapReceipt, error) {
	data, err := j.db.Get(id[:])
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeReceipt(data)
}
