package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// TxItem is a single write destined for a Tx. Repos expose Tx* builders
// returning these so services can compose cross-table commits.
type TxItem = types.TransactWriteItem

// TransactWriter is the slice of the DynamoDB API a Tx needs.
type TransactWriter interface {
	TransactWriteItems(ctx context.Context, in *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Tx collects writes across tables and commits them as one DynamoDB
// transaction. An uncommitted Tx writes nothing, so error paths need no
// rollback. Commit may be called at most once.
type Tx struct {
	client    TransactWriter
	items     []types.TransactWriteItem
	committed bool
}

// NewTx returns an empty transaction bound to the client.
func NewTx(client TransactWriter) *Tx {
	return &Tx{client: client}
}

// TxFactory hands out fresh transactions; one per request-handling flow.
type TxFactory struct {
	client TransactWriter
}

func NewTxFactory(client TransactWriter) *TxFactory {
	return &TxFactory{client: client}
}

func (f *TxFactory) NewTx() *Tx { return NewTx(f.client) }

// Add appends write items to the transaction.
func (tx *Tx) Add(items ...types.TransactWriteItem) {
	tx.items = append(tx.items, items...)
}

// Len reports how many writes are queued.
func (tx *Tx) Len() int { return len(tx.items) }

// Commit submits all queued writes atomically. DynamoDB either applies every
// item or none; a conflict with a concurrent transaction surfaces as an error
// and the caller retries the whole request.
func (tx *Tx) Commit(ctx context.Context) error {
	if tx.committed {
		return fmt.Errorf("transaction already committed")
	}
	tx.committed = true
	if len(tx.items) == 0 {
		return nil
	}
	_, err := tx.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: tx.items,
	})
	if err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
