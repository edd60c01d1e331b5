package domain

import "context"

// TxManager runs a function inside a single database transaction.
// The tx handle is passed to the ...Tx repository methods; if fn returns an
// error the transaction is rolled back and no mutation survives.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(tx interface{}) error) error
}
