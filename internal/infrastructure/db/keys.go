package db

import "fmt"

// Key layout. Account keys embed the zero-padded id so a prefix scan walks
// accounts in id order; the ledger index embeds owner and creation time so a
// reverse scan yields an owner's entries newest first.
const (
	accountPrefix   = "account:"
	ledgerPrefix    = "tx:"
	ledgerIdxPrefix = "txidx:"
	ratePrefix      = "rate:"

	accountIDSeqKey  = "seq:account_id"
	accountNumSeqKey = "seq:account_number"
)

func accountKey(id int64) []byte {
	return []byte(fmt.Sprintf("%s%020d", accountPrefix, id))
}

func ledgerKey(id string) []byte {
	return []byte(ledgerPrefix + id)
}

func ledgerOwnerPrefix(ownerID int64) []byte {
	return []byte(fmt.Sprintf("%s%020d:", ledgerIdxPrefix, ownerID))
}

func ledgerIdxKey(ownerID int64, createdAtNanos int64, id string) []byte {
	return []byte(fmt.Sprintf("%s%020d:%020d:%s", ledgerIdxPrefix, ownerID, createdAtNanos, id))
}

func rateKey(base, quote string) []byte {
	return []byte(ratePrefix + base + ":" + quote)
}
