package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/s0up4200/amatino/amatino"
)

func amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func sampleTree() amatino.Tree {
	return amatino.Tree{
		EntityID:     "b5a3bd94",
		BalanceTime:  time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		Denomination: amatino.GlobalDenomination(5),
		Nodes: []amatino.TreeNode{
			{
				AccountID: 1, Name: "Assets", Type: amatino.Asset,
				AccountBalance: amount("0"), RecursiveBalance: amount("1500"),
				Children: []amatino.TreeNode{
					{AccountID: 2, Depth: 1, Name: "Cash", Type: amatino.Asset, AccountBalance: amount("1500"), RecursiveBalance: amount("1500")},
					{AccountID: 3, Depth: 1, Name: "Hidden", Type: amatino.Asset},
				},
			},
			{AccountID: 4, Name: "Rent", Type: amatino.Expense, AccountBalance: amount("-300"), RecursiveBalance: amount("-300")},
		},
	}
}

func TestFormatTree(t *testing.T) {
	out := NewConsoleFormatter().FormatTree(sampleTree())

	assert.Contains(t, out, "Entity b5a3bd94 at 2024-03-31 00:00:00 (global unit 5)")
	assert.Contains(t, out, "├── Assets [1] 1500.00 (own 0.00)")
	assert.Contains(t, out, "│   ├── Cash [2] 1500.00")
	assert.Contains(t, out, "│   ╰── Hidden [3] (no read permission)")
	assert.Contains(t, out, "╰── Rent [4] -300.00")
	assert.Contains(t, out, "Total asset: 1500.00")
	assert.Contains(t, out, "Total expense: -300.00")
	assert.NotContains(t, out, "Total liability")
}

func TestFormatTreeEmpty(t *testing.T) {
	assert.Equal(t, "No accounts found", NewConsoleFormatter().FormatTree(amatino.Tree{}))
}

func TestFormatNodes(t *testing.T) {
	f := NewConsoleFormatter()
	nodes := sampleTree().Flatten()

	out := f.FormatNodes(nodes[1:2], `Name == "Cash"`)
	assert.Contains(t, out, `Account matching 'Name == "Cash"' (1)`)
	assert.Contains(t, out, "╰── Cash [2] 1500.00 (asset, depth 1)")

	out = f.FormatNodes(nodes, "true")
	assert.Contains(t, out, "Accounts matching 'true' (4)")
	assert.Equal(t, 3, strings.Count(out, "├──"))

	assert.Equal(t, "No accounts match 'false'", f.FormatNodes(nil, "false"))
}

func TestFormatBalancePair(t *testing.T) {
	pair := amatino.BalancePair{
		Balance: amatino.Balance{
			AccountID: 7, Time: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
			Denomination: amatino.CustomDenomination(9), Magnitude: decimal.RequireFromString("12.5"),
		},
		Recursive: amatino.Balance{AccountID: 7, Recursive: true, Magnitude: decimal.RequireFromString("100")},
	}

	out := NewConsoleFormatter().FormatBalancePair(pair)
	assert.Contains(t, out, "Account 7 at 2024-01-02 03:04:05 (custom unit 9)")
	assert.Contains(t, out, "Balance:   12.50")
	assert.Contains(t, out, "Recursive: 100.00")
}

func TestFormatAccounts(t *testing.T) {
	parent := int64(1)
	out := NewConsoleFormatter().FormatAccounts([]amatino.Account{
		{ID: 1, Name: "Assets", Type: amatino.Asset, Denomination: amatino.GlobalDenomination(5)},
		{ID: 2, Name: "Cash", Type: amatino.Asset, Denomination: amatino.GlobalDenomination(5), ParentAccountID: &parent, Description: "Float"},
	})

	assert.Contains(t, out, "├── Assets [1] (asset)")
	assert.Contains(t, out, "╰── Cash [2] (asset)")
	assert.Contains(t, out, "    Parent: 1")
	assert.Contains(t, out, "    Description: Float")
}

func TestFormatUsers(t *testing.T) {
	out := NewConsoleFormatter().FormatUsers(amatino.UserList{
		Page: 1, NumberOfPages: 2, State: amatino.StateActive,
		Users: []amatino.User{
			{ID: 10, Email: "a@example.com", Name: "Alice"},
			{ID: 11, Email: "b@example.com", Handle: "bob"},
		},
	})

	assert.Contains(t, out, "Users, active, page 1 of 2")
	assert.Contains(t, out, "10 Alice <a@example.com>")
	assert.Contains(t, out, "11 bob <b@example.com>")
}
