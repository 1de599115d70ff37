package amatino

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/s0up4200/amatino/api"
)

const (
	balancePath          = "/accounts/balance"
	recursiveBalancePath = "/accounts/balance/recursive"
)

// Balance is the total value of an account at a point in time. A recursive
// balance includes every descendant account.
type Balance struct {
	AccountID     int64
	EntityID      string
	Time          time.Time
	GeneratedTime time.Time
	Recursive     bool
	Denomination  Denomination
	Magnitude     decimal.Decimal
}

// BalanceQuery selects one balance. A nil At means now, and a zero
// Denomination means the account's own unit.
type BalanceQuery struct {
	AccountID    int64
	At           *time.Time
	Denomination Denomination
}

// QueryFor returns a BalanceQuery for account in its own unit.
func QueryFor(account Account, at *time.Time) BalanceQuery {
	return BalanceQuery{AccountID: account.ID, At: at, Denomination: account.Denomination}
}

func (q BalanceQuery) Serialise() any {
	m := map[string]any{
		accountKey:     q.AccountID,
		"balance_time": api.OptionalTime(q.At),
	}
	q.Denomination.put(m, "_denomination")
	return m
}

// RetrieveBalance fetches the balance of one account.
func (c *Client) RetrieveBalance(ctx context.Context, entityID string, q BalanceQuery) (Balance, error) {
	return c.retrieveOneBalance(ctx, balancePath, entityID, q)
}

// RetrieveBalances fetches several balances in one request.
func (c *Client) RetrieveBalances(ctx context.Context, entityID string, qs ...BalanceQuery) ([]Balance, error) {
	return c.retrieveBalances(ctx, balancePath, entityID, qs)
}

// RetrieveRecursiveBalance fetches the balance of an account and all of its
// descendants.
func (c *Client) RetrieveRecursiveBalance(ctx context.Context, entityID string, q BalanceQuery) (Balance, error) {
	return c.retrieveOneBalance(ctx, recursiveBalancePath, entityID, q)
}

// RetrieveRecursiveBalances fetches several recursive balances in one request.
func (c *Client) RetrieveRecursiveBalances(ctx context.Context, entityID string, qs ...BalanceQuery) ([]Balance, error) {
	return c.retrieveBalances(ctx, recursiveBalancePath, entityID, qs)
}

func (c *Client) retrieveOneBalance(ctx context.Context, path, entityID string, q BalanceQuery) (Balance, error) {
	balances, err := c.retrieveBalances(ctx, path, entityID, []BalanceQuery{q})
	if err != nil {
		return Balance{}, err
	}
	if len(balances) == 0 {
		return Balance{}, &api.UnexpectedResponseTypeError{Expected: "non-empty list", Actual: "empty list"}
	}
	return balances[0], nil
}

func (c *Client) retrieveBalances(ctx context.Context, path, entityID string, qs []BalanceQuery) ([]Balance, error) {
	if len(qs) == 0 {
		return nil, fmt.Errorf("%w: no balance queries", ErrInvalidArgument)
	}
	resp, err := c.sendList(ctx, api.MethodGet, path, api.EncodeAll(qs), api.NewParameters(entityID))
	if err != nil {
		return nil, err
	}
	return api.DeserialiseMany(resp, balanceDecoder(entityID))
}

func balanceDecoder(entityID string) api.DecodeFunc[Balance] {
	return func(data json.RawMessage) (Balance, error) {
		obj, err := api.AsObject(data)
		if err != nil {
			return Balance{}, err
		}

		b := Balance{EntityID: entityID}
		var balanceTime, generated api.Time
		var magnitude api.Amount
		var globalID, customID *int64
		err = requireAll(obj,
			field{"balance_time", &balanceTime},
			field{"generated_time", &generated},
			field{"recursive", &b.Recursive},
			field{"global_unit_denomination", &globalID},
			field{"custom_unit_denomination", &customID},
			field{accountKey, &b.AccountID},
			field{"balance", &magnitude},
		)
		if err != nil {
			return Balance{}, err
		}
		if b.Denomination, err = denominationFromIDs(globalID, customID); err != nil {
			return Balance{}, fmt.Errorf("balance of account %d: %w", b.AccountID, err)
		}
		b.Time = balanceTime.Time
		b.GeneratedTime = generated.Time
		b.Magnitude = magnitude.Decimal
		return b, nil
	}
}
