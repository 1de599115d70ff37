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
	positionPath    = "/positions"
	performancePath = "/performances"
)

// Position is a balance sheet: assets, liabilities and equity at a point in
// time.
type Position struct {
	EntityID      string
	BalanceTime   time.Time
	GeneratedTime time.Time
	Denomination  Denomination
	Depth         int
	Assets        []TreeNode
	Liabilities   []TreeNode
	Equities      []TreeNode
}

func (p Position) TotalAssets() decimal.Decimal      { return totalOf(p.Assets) }
func (p Position) TotalLiabilities() decimal.Decimal { return totalOf(p.Liabilities) }
func (p Position) TotalEquity() decimal.Decimal      { return totalOf(p.Equities) }

// Performance is an income statement: income and expenses over a period.
type Performance struct {
	EntityID      string
	Start         time.Time
	End           time.Time
	GeneratedTime time.Time
	Denomination  Denomination
	Depth         int
	Income        []TreeNode
	Expenses      []TreeNode
}

func (p Performance) TotalIncome() decimal.Decimal   { return totalOf(p.Income) }
func (p Performance) TotalExpenses() decimal.Decimal { return totalOf(p.Expenses) }

// PositionQuery selects a position. A nil At means now and a zero Depth
// lets the API choose how deep to nest.
type PositionQuery struct {
	At           *time.Time
	Denomination Denomination
	Depth        int
}

func (q PositionQuery) Serialise() any {
	m := map[string]any{
		"balance_time": api.OptionalTime(q.At),
		"depth":        optionalDepth(q.Depth),
	}
	q.Denomination.put(m, "_denomination")
	return m
}

// PerformanceQuery selects a performance over [Start, End].
type PerformanceQuery struct {
	Start        time.Time
	End          time.Time
	Denomination Denomination
	Depth        int
}

func (q PerformanceQuery) Serialise() any {
	m := map[string]any{
		"start_time": api.FormatTime(q.Start),
		"end_time":   api.FormatTime(q.End),
		"depth":      optionalDepth(q.Depth),
	}
	q.Denomination.put(m, "_denomination")
	return m
}

func optionalDepth(depth int) any {
	if depth <= 0 {
		return nil
	}
	return depth
}

// RetrievePosition fetches the balance sheet of entityID.
func (c *Client) RetrievePosition(ctx context.Context, entityID string, q PositionQuery) (Position, error) {
	if err := q.Denomination.validate(); err != nil {
		return Position{}, err
	}
	resp, err := c.sendBare(ctx, api.MethodGet, positionPath, q, api.NewParameters(entityID))
	if err != nil {
		return Position{}, err
	}
	return api.Deserialise(resp, positionDecoder(entityID))
}

// RetrievePerformance fetches the income statement of entityID.
func (c *Client) RetrievePerformance(ctx context.Context, entityID string, q PerformanceQuery) (Performance, error) {
	if err := q.Denomination.validate(); err != nil {
		return Performance{}, err
	}
	if !q.End.After(q.Start) {
		return Performance{}, fmt.Errorf("%w: performance end must be after start", ErrInvalidArgument)
	}
	resp, err := c.sendBare(ctx, api.MethodGet, performancePath, q, api.NewParameters(entityID))
	if err != nil {
		return Performance{}, err
	}
	return api.Deserialise(resp, performanceDecoder(entityID))
}

func positionDecoder(entityID string) api.DecodeFunc[Position] {
	return func(data json.RawMessage) (Position, error) {
		obj, err := api.AsObject(data)
		if err != nil {
			return Position{}, err
		}

		p := Position{EntityID: entityID}
		var balanceTime, generated api.Time
		var globalID, customID *int64
		var assets, liabilities, equities json.RawMessage
		var depth *int
		err = requireAll(obj,
			field{"balance_time", &balanceTime},
			field{"generated_time", &generated},
			field{"global_unit_denomination", &globalID},
			field{"custom_unit_denomination", &customID},
			field{"assets", &assets},
			field{"liabilities", &liabilities},
			field{"equities", &equities},
			field{"depth", &depth},
		)
		if err != nil {
			return Position{}, err
		}
		if p.Denomination, err = denominationFromIDs(globalID, customID); err != nil {
			return Position{}, fmt.Errorf("position: %w", err)
		}
		if p.Assets, err = api.DecodeOptionalMany(assets, decodeTreeNode, true); err != nil {
			return Position{}, err
		}
		if p.Liabilities, err = api.DecodeOptionalMany(liabilities, decodeTreeNode, true); err != nil {
			return Position{}, err
		}
		if p.Equities, err = api.DecodeOptionalMany(equities, decodeTreeNode, true); err != nil {
			return Position{}, err
		}
		p.Depth = derefInt(depth)
		p.BalanceTime = balanceTime.Time
		p.GeneratedTime = generated.Time
		return p, nil
	}
}

func performanceDecoder(entityID string) api.DecodeFunc[Performance] {
	return func(data json.RawMessage) (Performance, error) {
		obj, err := api.AsObject(data)
		if err != nil {
			return Performance{}, err
		}

		p := Performance{EntityID: entityID}
		var start, end, generated api.Time
		var globalID, customID *int64
		var income, expenses json.RawMessage
		var depth *int
		err = requireAll(obj,
			field{"start_time", &start},
			field{"end_time", &end},
			field{"generated_time", &generated},
			field{"global_unit_denomination", &globalID},
			field{"custom_unit_denomination", &customID},
			field{"income", &income},
			field{"expenses", &expenses},
			field{"depth", &depth},
		)
		if err != nil {
			return Performance{}, err
		}
		if p.Denomination, err = denominationFromIDs(globalID, customID); err != nil {
			return Performance{}, fmt.Errorf("performance: %w", err)
		}
		if p.Income, err = api.DecodeOptionalMany(income, decodeTreeNode, true); err != nil {
			return Performance{}, err
		}
		if p.Expenses, err = api.DecodeOptionalMany(expenses, decodeTreeNode, true); err != nil {
			return Performance{}, err
		}
		p.Depth = derefInt(depth)
		p.Start = start.Time
		p.End = end.Time
		p.GeneratedTime = generated.Time
		return p, nil
	}
}
