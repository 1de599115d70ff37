package amatino

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Concurrency limits for fan-out helpers
const (
	DefaultConcurrency = 10
	DeleteConcurrency  = 5
)

// BalancePair is an account's own balance alongside its recursive balance.
type BalancePair struct {
	Balance   Balance
	Recursive Balance
}

// RetrieveBalancePair fetches the plain and recursive balance of one account
// in parallel.
func (c *Client) RetrieveBalancePair(ctx context.Context, entityID string, q BalanceQuery) (BalancePair, error) {
	var pair BalancePair
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b, err := c.RetrieveBalance(ctx, entityID, q)
		if err != nil {
			return err
		}
		pair.Balance = b
		return nil
	})
	g.Go(func() error {
		b, err := c.RetrieveRecursiveBalance(ctx, entityID, q)
		if err != nil {
			return err
		}
		pair.Recursive = b
		return nil
	})

	if err := g.Wait(); err != nil {
		return BalancePair{}, err
	}
	return pair, nil
}

// RetrieveAccounts fetches accounts by id, DefaultConcurrency at a time.
// Results keep the order of ids and the first failure cancels the rest.
func (c *Client) RetrieveAccounts(ctx context.Context, entityID string, ids []int64) ([]Account, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	accounts := make([]Account, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(DefaultConcurrency)

	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			account, err := c.RetrieveAccount(ctx, entityID, id)
			if err != nil {
				return fmt.Errorf("account %d: %w", id, err)
			}
			accounts[i] = account
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return accounts, nil
}

// BatchDeleteResult contains the results of a batch delete operation
type BatchDeleteResult struct {
	Requested  int
	Successful []int64
	Failed     []DeleteError
}

// DeleteError records one failed delete
type DeleteError struct {
	TransactionID int64
	Err           error
}

func (e DeleteError) Error() string {
	return fmt.Sprintf("failed to delete transaction %d: %v", e.TransactionID, e.Err)
}

func (e DeleteError) Unwrap() error { return e.Err }

// BatchDeleteTransactions deletes transactions in parallel. A failure does
// not stop the remaining deletes.
func (c *Client) BatchDeleteTransactions(ctx context.Context, txs []Transaction) BatchDeleteResult {
	result := BatchDeleteResult{Requested: len(txs)}
	if len(txs) == 0 {
		return result
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(DeleteConcurrency)

	successChan := make(chan int64, len(txs))
	errorChan := make(chan DeleteError, len(txs))

	for _, tx := range txs {
		tx := tx
		g.Go(func() error {
			if err := c.DeleteTransaction(ctx, tx); err != nil {
				c.logger.Warn().
					Err(err).
					Int64("transaction_id", tx.ID).
					Str("entity_id", tx.EntityID).
					Msg("Failed to delete transaction")
				errorChan <- DeleteError{TransactionID: tx.ID, Err: err}
				return nil
			}
			successChan <- tx.ID
			return nil
		})
	}

	_ = g.Wait()
	close(successChan)
	close(errorChan)

	for id := range successChan {
		result.Successful = append(result.Successful, id)
	}
	for err := range errorChan {
		result.Failed = append(result.Failed, err)
	}
	return result
}
