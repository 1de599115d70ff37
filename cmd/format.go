package cmd

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/s0up4200/amatino/amatino"
)

const (
	branchMid  = "\u251c\u2500\u2500 "
	branchLast = "\u2570\u2500\u2500 "
	indentMid  = "\u2502   "
	indentLast = "    "
	dateLayout = "2006-01-02 15:04:05"
)

// ConsoleFormatter renders Amatino objects for a terminal
type ConsoleFormatter struct{}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{}
}

// FormatTree draws every account in tree with its balances
func (f *ConsoleFormatter) FormatTree(tree amatino.Tree) string {
	if len(tree.Nodes) == 0 {
		return "No accounts found"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\nEntity %s at %s (%s):\n\n", tree.EntityID, tree.BalanceTime.Format(dateLayout), tree.Denomination)

	f.writeNodes(&sb, tree.Nodes, "")

	sb.WriteString("\n")
	for _, am := range []amatino.AMType{amatino.Asset, amatino.Liability, amatino.Equity, amatino.Income, amatino.Expense} {
		if len(tree.NodesOfType(am)) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "Total %s: %s\n", am, tree.Total(am).StringFixed(2))
	}
	return sb.String()
}

func (f *ConsoleFormatter) writeNodes(sb *strings.Builder, nodes []amatino.TreeNode, prefix string) {
	for i, node := range nodes {
		isLast := i == len(nodes)-1
		branch, indent := branchMid, indentMid
		if isLast {
			branch, indent = branchLast, indentLast
		}

		fmt.Fprintf(sb, "%s%s%s\n", prefix, branch, f.nodeLine(node))
		if node.HasChildren() {
			f.writeNodes(sb, node.Children, prefix+indent)
		}
	}
}

func (f *ConsoleFormatter) nodeLine(node amatino.TreeNode) string {
	if !node.Readable() {
		return fmt.Sprintf("%s [%d] (no read permission)", node.Name, node.AccountID)
	}
	line := fmt.Sprintf("%s [%d] %s", node.Name, node.AccountID, formatBalance(node.RecursiveBalance))
	if node.HasChildren() {
		line += fmt.Sprintf(" (own %s)", formatBalance(node.AccountBalance))
	}
	return line
}

// FormatNodes lists filtered nodes without their hierarchy
func (f *ConsoleFormatter) FormatNodes(nodes []amatino.TreeNode, expression string) string {
	if len(nodes) == 0 {
		return fmt.Sprintf("No accounts match '%s'", expression)
	}

	var sb strings.Builder
	sb.WriteString("\nAccount")
	if len(nodes) != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(&sb, " matching '%s' (%d):\n\n", expression, len(nodes))

	for i, node := range nodes {
		branch := branchMid
		if i == len(nodes)-1 {
			branch = branchLast
		}
		fmt.Fprintf(&sb, "%s%s (%s, depth %d)\n", branch, f.nodeLine(node), node.Type, node.Depth)
	}

	sb.WriteString("\n")
	return sb.String()
}

// FormatBalancePair shows an account's own and recursive balance
func (f *ConsoleFormatter) FormatBalancePair(pair amatino.BalancePair) string {
	var sb strings.Builder
	b := pair.Balance
	fmt.Fprintf(&sb, "\nAccount %d at %s (%s):\n\n", b.AccountID, b.Time.Format(dateLayout), b.Denomination)
	fmt.Fprintf(&sb, "%sBalance:   %s\n", branchMid, b.Magnitude.StringFixed(2))
	fmt.Fprintf(&sb, "%sRecursive: %s\n", branchLast, pair.Recursive.Magnitude.StringFixed(2))
	sb.WriteString("\n")
	return sb.String()
}

// FormatEntity shows one entity
func (f *ConsoleFormatter) FormatEntity(e amatino.Entity) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\n%s%s [%s]\n", branchLast, e.Name, e.ID)
	if e.Description != "" {
		fmt.Fprintf(&sb, "%sDescription: %s\n", indentLast, e.Description)
	}
	fmt.Fprintf(&sb, "%sOwner: %d | Region: %d | Active: %t\n", indentLast, e.OwnerID, e.RegionID, e.Active)
	sb.WriteString("\n")
	return sb.String()
}

// FormatAccounts lists accounts with their denomination and parent
func (f *ConsoleFormatter) FormatAccounts(accounts []amatino.Account) string {
	if len(accounts) == 0 {
		return "No accounts found"
	}

	var sb strings.Builder
	sb.WriteString("\n")
	for i, a := range accounts {
		isLast := i == len(accounts)-1
		branch, indent := branchMid, indentMid
		if isLast {
			branch, indent = branchLast, indentLast
		}

		fmt.Fprintf(&sb, "%s%s [%d] (%s)\n", branch, a.Name, a.ID, a.Type)
		fmt.Fprintf(&sb, "%sDenomination: %s\n", indent, a.Denomination)
		if a.ParentAccountID != nil {
			fmt.Fprintf(&sb, "%sParent: %d\n", indent, *a.ParentAccountID)
		}
		if a.Description != "" {
			fmt.Fprintf(&sb, "%sDescription: %s\n", indent, a.Description)
		}
		if !isLast {
			sb.WriteString("\u2502\n")
		}
	}
	sb.WriteString("\n")
	return sb.String()
}

// FormatUsers shows one page of users
func (f *ConsoleFormatter) FormatUsers(list amatino.UserList) string {
	if len(list.Users) == 0 {
		return "No users found"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\nUsers, %s, page %d of %d:\n\n", list.State, list.Page, list.NumberOfPages)
	for i, u := range list.Users {
		branch := branchMid
		if i == len(list.Users)-1 {
			branch = branchLast
		}
		name := u.Name
		if name == "" {
			name = u.Handle
		}
		fmt.Fprintf(&sb, "%s%d %s <%s>\n", branch, u.ID, name, u.Email)
	}
	sb.WriteString("\n")
	return sb.String()
}

func formatBalance(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return d.StringFixed(2)
}
