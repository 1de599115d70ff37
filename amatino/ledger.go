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
	ledgerPath          = "/accounts/ledger"
	recursiveLedgerPath = "/accounts/ledger/recursive"

	ledgerRowLength = 8
)

// LedgerRow is one transaction seen from the ledger's account, with the
// running balance after it.
type LedgerRow struct {
	TransactionID       int64
	TransactionTime     time.Time
	Description         string
	OpposingAccountID   *int64
	OpposingAccountName string
	Debit               decimal.Decimal
	Credit              decimal.Decimal
	Balance             decimal.Decimal
}

// Ledger is a page of transactions touching one account, ordered by time.
type Ledger struct {
	AccountID     int64
	EntityID      string
	Start         time.Time
	End           time.Time
	Recursive     bool
	GeneratedTime time.Time
	Denomination  Denomination
	Page          int
	NumberOfPages int
	OldestFirst   bool
	Rows          []LedgerRow
}

// HasMorePages reports whether pages after this one exist.
func (l Ledger) HasMorePages() bool {
	return l.Page < l.NumberOfPages
}

// LedgerQuery selects a ledger page. Zero Start, End or Denomination leave
// the choice to the API, and a zero Page means the first.
type LedgerQuery struct {
	AccountID    int64
	Start        *time.Time
	End          *time.Time
	Denomination Denomination
	Page         int
	OldestFirst  bool
}

func (q LedgerQuery) Serialise() any {
	page := q.Page
	if page < 1 {
		page = 1
	}
	m := map[string]any{
		accountKey:           q.AccountID,
		"start_time":         api.OptionalTime(q.Start),
		"end_time":           api.OptionalTime(q.End),
		"page":               page,
		"order_oldest_first": q.OldestFirst,
	}
	q.Denomination.put(m, "_denomination")
	return m
}

// RetrieveLedger fetches a page of an account's ledger.
func (c *Client) RetrieveLedger(ctx context.Context, entityID string, q LedgerQuery) (Ledger, error) {
	return c.retrieveLedger(ctx, ledgerPath, entityID, q)
}

// RetrieveRecursiveLedger fetches a ledger including every descendant
// account.
func (c *Client) RetrieveRecursiveLedger(ctx context.Context, entityID string, q LedgerQuery) (Ledger, error) {
	return c.retrieveLedger(ctx, recursiveLedgerPath, entityID, q)
}

// NextLedgerPage fetches the page after l, or nil on the last page.
func (c *Client) NextLedgerPage(ctx context.Context, l Ledger) (*Ledger, error) {
	if !l.HasMorePages() {
		return nil, nil
	}
	path := ledgerPath
	if l.Recursive {
		path = recursiveLedgerPath
	}
	next, err := c.retrieveLedger(ctx, path, l.EntityID, LedgerQuery{
		AccountID:    l.AccountID,
		Start:        &l.Start,
		End:          &l.End,
		Denomination: l.Denomination,
		Page:         l.Page + 1,
		OldestFirst:  l.OldestFirst,
	})
	if err != nil {
		return nil, err
	}
	return &next, nil
}

func (c *Client) retrieveLedger(ctx context.Context, path, entityID string, q LedgerQuery) (Ledger, error) {
	resp, err := c.sendBare(ctx, api.MethodGet, path, q, api.NewParameters(entityID))
	if err != nil {
		return Ledger{}, err
	}
	return api.Deserialise(resp, ledgerDecoder(entityID))
}

func ledgerDecoder(entityID string) api.DecodeFunc[Ledger] {
	return func(data json.RawMessage) (Ledger, error) {
		obj, err := api.AsObject(data)
		if err != nil {
			return Ledger{}, err
		}

		l := Ledger{EntityID: entityID}
		var start, end, generated api.Time
		var globalID, customID *int64
		var rows []json.RawMessage
		err = requireAll(obj,
			field{accountKey, &l.AccountID},
			field{"start_time", &start},
			field{"end_time", &end},
			field{"recursive", &l.Recursive},
			field{"generated_time", &generated},
			field{"global_unit_denomination", &globalID},
			field{"custom_unit_denomination", &customID},
			field{"ledger_rows", &rows},
			field{"page", &l.Page},
			field{"number_of_pages", &l.NumberOfPages},
			field{"ordered_oldest_first", &l.OldestFirst},
		)
		if err != nil {
			return Ledger{}, err
		}
		if l.Denomination, err = denominationFromIDs(globalID, customID); err != nil {
			return Ledger{}, fmt.Errorf("ledger of account %d: %w", l.AccountID, err)
		}
		l.Rows = make([]LedgerRow, 0, len(rows))
		for _, raw := range rows {
			row, err := decodeLedgerRow(raw)
			if err != nil {
				return Ledger{}, err
			}
			l.Rows = append(l.Rows, row)
		}
		l.Start = start.Time
		l.End = end.Time
		l.GeneratedTime = generated.Time
		return l, nil
	}
}

// decodeLedgerRow reads a row sent as a positional array.
func decodeLedgerRow(data json.RawMessage) (LedgerRow, error) {
	cells, err := api.AsList(data)
	if err != nil {
		return LedgerRow{}, err
	}
	if len(cells) != ledgerRowLength {
		return LedgerRow{}, &api.UnexpectedResponseTypeError{
			Expected: fmt.Sprintf("ledger row of %d cells", ledgerRowLength),
			Actual:   fmt.Sprintf("%d cells", len(cells)),
		}
	}

	var row LedgerRow
	var txTime api.Time
	var description, opposingName *string
	var debit, credit, balance api.Amount
	dsts := []any{&row.TransactionID, &txTime, &description, &row.OpposingAccountID, &opposingName, &debit, &credit, &balance}
	for i, dst := range dsts {
		if err := json.Unmarshal(cells[i], dst); err != nil {
			return LedgerRow{}, fmt.Errorf("%w: ledger row cell %d: %w", api.ErrInvalidResponse, i, err)
		}
	}
	row.TransactionTime = txTime.Time
	row.Description = derefString(description)
	row.OpposingAccountName = derefString(opposingName)
	row.Debit = debit.Decimal
	row.Credit = credit.Decimal
	row.Balance = balance.Decimal
	return row, nil
}
