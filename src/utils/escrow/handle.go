package escrow

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// DeriveHandle deterministically maps an order sequence number to the
// handle of its on-ledger locked-funds record. Pure function, same
// derivation the ledger itself uses, so both sides agree on the handle
// without talking to each other.
func DeriveHandle(sequenceNo int64) string {
	var seq [8]byte
	binary.LittleEndian.PutUint64(seq[:], uint64(sequenceNo))

	h := sha256.New()
	h.Write([]byte("escrow"))
	h.Write(seq[:])
	return hex.EncodeToString(h.Sum(nil))
}
