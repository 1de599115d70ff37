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
	transactionPath = "/transactions"
	transactionKey  = "transaction_id"

	MaxTransactionDescriptionLength = 1024
	MaxEntryDescriptionLength       = 1024
)

// Entry allocates an amount to one account as a debit or a credit.
type Entry struct {
	Side        Side
	Amount      decimal.Decimal
	AccountID   int64
	Description string
}

func (e Entry) Serialise() any {
	return map[string]any{
		"side":        int(e.Side),
		"amount":      api.FormatAmount(e.Amount),
		"account_id":  e.AccountID,
		"description": e.Description,
	}
}

// Transaction is an exchange of value between two or more accounts at a
// point in time.
type Transaction struct {
	ID           int64
	EntityID     string
	Time         time.Time
	VersionTime  time.Time
	Description  string
	Entries      []Entry
	Denomination Denomination
}

// Magnitude is the sum of the debit entries.
func (t Transaction) Magnitude() decimal.Decimal {
	total := decimal.Zero
	for _, e := range t.Entries {
		if e.Side == Debit {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// TransactionFields are the caller supplied values of a transaction.
type TransactionFields struct {
	Time         time.Time
	Entries      []Entry
	Denomination Denomination
	Description  string
}

type transactionArgs struct {
	id           *int64
	time         api.Time
	entries      []Entry
	denomination Denomination
	description  api.ConstrainedString
}

func newTransactionArgs(f TransactionFields) (transactionArgs, error) {
	if f.Time.IsZero() {
		return transactionArgs{}, fmt.Errorf("%w: transaction time is required", ErrInvalidArgument)
	}
	if len(f.Entries) == 0 {
		return transactionArgs{}, fmt.Errorf("%w: a transaction needs entries", ErrInvalidArgument)
	}
	for i, e := range f.Entries {
		if !e.Side.Valid() {
			return transactionArgs{}, fmt.Errorf("%w: entry %d: side %d", ErrInvalidArgument, i, int(e.Side))
		}
		if _, err := api.NewConstrainedString(e.Description, "entry description", MaxEntryDescriptionLength); err != nil {
			return transactionArgs{}, err
		}
	}
	if err := f.Denomination.validate(); err != nil {
		return transactionArgs{}, err
	}
	description, err := api.NewConstrainedString(f.Description, "description", MaxTransactionDescriptionLength)
	if err != nil {
		return transactionArgs{}, err
	}
	entries := make([]Entry, len(f.Entries))
	copy(entries, f.Entries)
	return transactionArgs{
		time:         api.NewTime(f.Time),
		entries:      entries,
		denomination: f.Denomination,
		description:  description,
	}, nil
}

func (a transactionArgs) Serialise() any {
	entries := make([]any, len(a.entries))
	for i, e := range a.entries {
		entries[i] = e.Serialise()
	}
	m := map[string]any{
		"transaction_time": a.time.Serialise(),
		"description":      a.description.Serialise(),
		"entries":          entries,
	}
	a.denomination.put(m, "_denomination")
	if a.id != nil {
		m[transactionKey] = *a.id
	}
	return m
}

type transactionRetrieve struct {
	id           int64
	denomination Denomination
	version      *int64
}

func (a transactionRetrieve) Serialise() any {
	m := map[string]any{
		transactionKey: a.id,
		"version":      a.version,
	}
	a.denomination.put(m, "_denomination")
	return m
}

// CreateTransaction records a transaction in entityID. Whether debits equal
// credits is checked by the API, not here.
func (c *Client) CreateTransaction(ctx context.Context, entityID string, f TransactionFields) (Transaction, error) {
	args, err := newTransactionArgs(f)
	if err != nil {
		return Transaction{}, err
	}
	resp, err := c.send(ctx, api.MethodPost, transactionPath, args, api.NewParameters(entityID))
	if err != nil {
		return Transaction{}, err
	}
	return api.DeserialiseFirst(resp, transactionDecoder(entityID))
}

// RetrieveTransaction fetches one transaction expressed in denomination.
func (c *Client) RetrieveTransaction(ctx context.Context, entityID string, id int64, denomination Denomination) (Transaction, error) {
	txs, err := c.RetrieveTransactions(ctx, entityID, []int64{id}, denomination)
	if err != nil {
		return Transaction{}, err
	}
	if len(txs) == 0 {
		return Transaction{}, &api.UnexpectedResponseTypeError{Expected: "non-empty list", Actual: "empty list"}
	}
	return txs[0], nil
}

// RetrieveTransactions fetches several transactions in one request. The ids
// travel in the body of a GET.
func (c *Client) RetrieveTransactions(ctx context.Context, entityID string, ids []int64, denomination Denomination) ([]Transaction, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no transaction ids", ErrInvalidArgument)
	}
	if err := denomination.validate(); err != nil {
		return nil, err
	}
	items := make([]api.Encodable, len(ids))
	for i, id := range ids {
		items[i] = transactionRetrieve{id: id, denomination: denomination}
	}
	resp, err := c.sendList(ctx, api.MethodGet, transactionPath, items, api.NewParameters(entityID))
	if err != nil {
		return nil, err
	}
	return api.DeserialiseMany(resp, transactionDecoder(entityID))
}

// TransactionUpdate holds replacement values for UpdateTransaction. Zero or
// nil fields keep the transaction's current value.
type TransactionUpdate struct {
	Time         time.Time
	Entries      []Entry
	Denomination *Denomination
	Description  *string
}

// UpdateTransaction replaces tx's data and returns the new version.
func (c *Client) UpdateTransaction(ctx context.Context, tx Transaction, u TransactionUpdate) (Transaction, error) {
	f := TransactionFields{
		Time:         tx.Time,
		Entries:      tx.Entries,
		Denomination: tx.Denomination,
		Description:  tx.Description,
	}
	if !u.Time.IsZero() {
		f.Time = u.Time
	}
	if len(u.Entries) > 0 {
		f.Entries = u.Entries
	}
	if u.Denomination != nil {
		f.Denomination = *u.Denomination
	}
	if u.Description != nil {
		f.Description = *u.Description
	}

	args, err := newTransactionArgs(f)
	if err != nil {
		return Transaction{}, err
	}
	id := tx.ID
	args.id = &id

	resp, err := c.send(ctx, api.MethodPut, transactionPath, args, api.NewParameters(tx.EntityID))
	if err != nil {
		return Transaction{}, err
	}
	updated, err := api.DeserialiseFirst(resp, transactionDecoder(tx.EntityID))
	if err != nil {
		return Transaction{}, err
	}
	if updated.ID != tx.ID {
		return Transaction{}, &MismatchedIDError{Resource: "transaction", Want: fmt.Sprint(tx.ID), Got: fmt.Sprint(updated.ID)}
	}
	return updated, nil
}

// DeleteTransaction removes tx from every view of the entity's accounts.
func (c *Client) DeleteTransaction(ctx context.Context, tx Transaction) error {
	params := api.NewParameters(tx.EntityID, api.IntTarget(transactionKey, tx.ID))
	_, err := c.call(ctx, api.MethodDelete, transactionPath, nil, params)
	return err
}

func decodeEntry(data json.RawMessage) (Entry, error) {
	obj, err := api.AsObject(data)
	if err != nil {
		return Entry{}, err
	}
	var e Entry
	var amount api.Amount
	var description *string
	err = requireAll(obj,
		field{"side", &e.Side},
		field{"amount", &amount},
		field{accountKey, &e.AccountID},
		field{"description", &description},
	)
	if err != nil {
		return Entry{}, err
	}
	e.Amount = amount.Decimal
	e.Description = derefString(description)
	return e, nil
}

func transactionDecoder(entityID string) api.DecodeFunc[Transaction] {
	return func(data json.RawMessage) (Transaction, error) {
		obj, err := api.AsObject(data)
		if err != nil {
			return Transaction{}, err
		}

		t := Transaction{EntityID: entityID}
		var txTime, versionTime api.Time
		var description *string
		var entries json.RawMessage
		var globalID, customID *int64
		err = requireAll(obj,
			field{transactionKey, &t.ID},
			field{"transaction_time", &txTime},
			field{"version_time", &versionTime},
			field{"description", &description},
			field{"entries", &entries},
			field{"global_unit_denomination", &globalID},
			field{"custom_unit_denomination", &customID},
		)
		if err != nil {
			return Transaction{}, err
		}
		if t.Entries, err = api.DecodeMany(entries, decodeEntry); err != nil {
			return Transaction{}, err
		}
		if t.Denomination, err = denominationFromIDs(globalID, customID); err != nil {
			return Transaction{}, fmt.Errorf("transaction %d: %w", t.ID, err)
		}
		t.Time = txTime.Time
		t.VersionTime = versionTime.Time
		t.Description = derefString(description)
		return t, nil
	}
}
