package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/amatino/amatino"
	"github.com/s0up4200/amatino/api"
)

var (
	entityID string

	balanceAccount int64
	balanceAt      string
	balanceUnits   unitFlags

	usersState string
	usersPage  int
	usersAll   bool
)

var entityCmd = &cobra.Command{
	Use:   "entity ENTITY_ID",
	Short: "Show an entity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := sessionClient()
		if err != nil {
			return err
		}
		entity, err := client.RetrieveEntity(cmd.Context(), args[0])
		if err != nil {
			return notFound(err, "entity %s", args[0])
		}
		fmt.Fprint(cmd.OutOrStdout(), NewConsoleFormatter().FormatEntity(entity))
		return nil
	},
}

var accountCmd = &cobra.Command{
	Use:   "account ACCOUNT_ID...",
	Short: "Show one or more accounts",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		client, err := sessionClient()
		if err != nil {
			return err
		}
		accounts, err := client.RetrieveAccounts(cmd.Context(), entityID, ids)
		if err != nil {
			return notFound(err, "account in entity %s", entityID)
		}
		fmt.Fprint(cmd.OutOrStdout(), NewConsoleFormatter().FormatAccounts(accounts))
		return nil
	},
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show an account's balance and recursive balance",
	RunE: func(cmd *cobra.Command, args []string) error {
		at, err := parseAt(balanceAt)
		if err != nil {
			return err
		}
		client, err := sessionClient()
		if err != nil {
			return err
		}
		pair, err := client.RetrieveBalancePair(cmd.Context(), entityID, amatino.BalanceQuery{
			AccountID:    balanceAccount,
			At:           at,
			Denomination: balanceUnits.denomination(),
		})
		if err != nil {
			return notFound(err, "account %d in entity %s", balanceAccount, entityID)
		}
		fmt.Fprint(cmd.OutOrStdout(), NewConsoleFormatter().FormatBalancePair(pair))
		return nil
	},
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List the users billed to the session's user",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := sessionClient()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		formatter := NewConsoleFormatter()

		list, err := client.ListUsers(cmd.Context(), amatino.State(usersState), usersPage)
		if err != nil {
			return err
		}
		fmt.Fprint(out, formatter.FormatUsers(list))

		for usersAll && list.HasMorePages() {
			next, err := client.NextUserPage(cmd.Context(), list)
			if err != nil {
				return err
			}
			list = *next
			fmt.Fprint(out, formatter.FormatUsers(list))
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{accountCmd, balanceCmd, treeCmd} {
		c.Flags().StringVarP(&entityID, "entity", "e", "", "entity id")
		_ = c.MarkFlagRequired("entity")
	}

	balanceCmd.Flags().Int64VarP(&balanceAccount, "account", "a", 0, "account id")
	_ = balanceCmd.MarkFlagRequired("account")
	balanceCmd.Flags().StringVar(&balanceAt, "at", "", "balance time (default now)")
	balanceUnits.register(balanceCmd)

	usersCmd.Flags().StringVar(&usersState, "state", string(amatino.StateAll), "all, active or deleted")
	usersCmd.Flags().IntVar(&usersPage, "page", 1, "page to show")
	usersCmd.Flags().BoolVar(&usersAll, "all-pages", false, "keep fetching until the last page")
}

// notFound rewords a 404 with what was being looked up
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, api.ErrResourceNotFound) {
		return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
	}
	return err
}
