package amatino

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/s0up4200/amatino/api"
)

const treePath = "/trees"

// TreeNode is an account as it appears in a tree, with its own balance and
// the balance of everything beneath it. Accounts the user cannot read carry
// nil balances and a placeholder name.
type TreeNode struct {
	AccountID        int64
	Depth            int
	AccountBalance   *decimal.Decimal
	RecursiveBalance *decimal.Decimal
	Name             string
	Type             AMType
	Children         []TreeNode
}

// HasChildren reports whether n has any child nodes
func (n TreeNode) HasChildren() bool {
	return len(n.Children) > 0
}

// Readable reports whether the user may see n's balances.
func (n TreeNode) Readable() bool {
	return n.AccountBalance != nil && n.RecursiveBalance != nil
}

// Walk visits n and its descendants depth first, stopping early when fn
// returns false.
func (n TreeNode) Walk(fn func(TreeNode) bool) bool {
	if !fn(n) {
		return false
	}
	for _, child := range n.Children {
		if !child.Walk(fn) {
			return false
		}
	}
	return true
}

// Tree is every account in an entity, nested under its parent, balanced at
// one point in time.
type Tree struct {
	EntityID      string
	BalanceTime   time.Time
	GeneratedTime time.Time
	Denomination  Denomination
	Nodes         []TreeNode
}

// NodesOfType returns the top level nodes of type t.
func (t Tree) NodesOfType(am AMType) []TreeNode {
	return nodesOfType(t.Nodes, am)
}

// Total sums the recursive balances of the top level nodes of type am.
// Unreadable nodes count as zero.
func (t Tree) Total(am AMType) decimal.Decimal {
	return totalOf(t.NodesOfType(am))
}

// Flatten returns every node in the tree, parents before children.
func (t Tree) Flatten() []TreeNode {
	return flatten(t.Nodes)
}

// TreeQuery selects a tree. A nil At means now. Denomination is required.
type TreeQuery struct {
	At           *time.Time
	Denomination Denomination
}

func (q TreeQuery) Serialise() any {
	m := map[string]any{
		"balance_time": api.OptionalTime(q.At),
	}
	q.Denomination.put(m, "_denomination")
	return m
}

// RetrieveTree fetches the account tree of entityID.
func (c *Client) RetrieveTree(ctx context.Context, entityID string, q TreeQuery) (Tree, error) {
	if err := q.Denomination.validate(); err != nil {
		return Tree{}, err
	}
	resp, err := c.sendBare(ctx, api.MethodGet, treePath, q, api.NewParameters(entityID))
	if err != nil {
		return Tree{}, err
	}
	return api.Deserialise(resp, treeDecoder(entityID))
}

// FetchAccount retrieves the full account that node describes.
func (c *Client) FetchAccount(ctx context.Context, entityID string, node TreeNode) (Account, error) {
	return c.RetrieveAccount(ctx, entityID, node.AccountID)
}

func treeDecoder(entityID string) api.DecodeFunc[Tree] {
	return func(data json.RawMessage) (Tree, error) {
		obj, err := api.AsObject(data)
		if err != nil {
			return Tree{}, err
		}

		t := Tree{EntityID: entityID}
		var balanceTime, generated api.Time
		var globalID, customID *int64
		var nodes json.RawMessage
		err = requireAll(obj,
			field{"balance_time", &balanceTime},
			field{"generated_time", &generated},
			field{"global_unit_denomination", &globalID},
			field{"custom_unit_denomination", &customID},
			field{"tree", &nodes},
		)
		if err != nil {
			return Tree{}, err
		}
		if t.Denomination, err = denominationFromIDs(globalID, customID); err != nil {
			return Tree{}, fmt.Errorf("tree: %w", err)
		}
		if t.Nodes, err = api.DecodeOptionalMany(nodes, decodeTreeNode, true); err != nil {
			return Tree{}, err
		}
		t.BalanceTime = balanceTime.Time
		t.GeneratedTime = generated.Time
		return t, nil
	}
}

func decodeTreeNode(data json.RawMessage) (TreeNode, error) {
	obj, err := api.AsObject(data)
	if err != nil {
		return TreeNode{}, err
	}

	var n TreeNode
	var accountBalance, recursiveBalance *api.Amount
	var children json.RawMessage
	err = requireAll(obj,
		field{accountKey, &n.AccountID},
		field{"depth", &n.Depth},
		field{"account_balance", &accountBalance},
		field{"recursive_balance", &recursiveBalance},
		field{"name", &n.Name},
		field{"type", &n.Type},
		field{"children", &children},
	)
	if err != nil {
		return TreeNode{}, err
	}
	if accountBalance != nil {
		n.AccountBalance = &accountBalance.Decimal
	}
	if recursiveBalance != nil {
		n.RecursiveBalance = &recursiveBalance.Decimal
	}
	if n.Children, err = api.DecodeOptionalMany(children, decodeTreeNode, false); err != nil {
		return TreeNode{}, err
	}
	return n, nil
}

func nodesOfType(nodes []TreeNode, am AMType) []TreeNode {
	var out []TreeNode
	for _, n := range nodes {
		if n.Type == am {
			out = append(out, n)
		}
	}
	return out
}

func totalOf(nodes []TreeNode) decimal.Decimal {
	total := decimal.Zero
	for _, n := range nodes {
		if n.RecursiveBalance != nil {
			total = total.Add(*n.RecursiveBalance)
		}
	}
	return total
}

func flatten(nodes []TreeNode) []TreeNode {
	var out []TreeNode
	for _, root := range nodes {
		root.Walk(func(n TreeNode) bool {
			out = append(out, n)
			return true
		})
	}
	return out
}
