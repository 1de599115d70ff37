package amatino

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/amatino/api"
)

func balanceJSON(recursive bool, amount string) string {
	return fmt.Sprintf(`{
		"account_id": 10,
		"balance_time": "2024-03-31_00:00:00.000000",
		"generated_time": "2024-04-01_09:30:00.123456",
		"recursive": %t,
		"global_unit_denomination": 5,
		"custom_unit_denomination": null,
		"balance": %q
	}`, recursive, amount)
}

func TestRetrieveBalance(t *testing.T) {
	at := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	t.Run("plain", func(t *testing.T) {
		client, rec := newTestClient(t, http.StatusOK, `[`+balanceJSON(false, "(1,234.50)")+`]`)

		balance, err := client.RetrieveBalance(context.Background(), testEntityID, BalanceQuery{AccountID: 10, At: &at, Denomination: GlobalDenomination(5)})
		require.NoError(t, err)
		assert.Equal(t, int64(10), balance.AccountID)
		assert.False(t, balance.Recursive)
		assert.True(t, balance.Magnitude.Equal(decimal.RequireFromString("-1234.50")))
		assert.True(t, at.Equal(balance.Time))
		assert.Equal(t, GlobalDenomination(5), balance.Denomination)

		got := rec.last(t)
		assert.Equal(t, http.MethodGet, got.Method)
		assert.Equal(t, "/accounts/balance", got.Path)
		assert.JSONEq(t, `[{
			"account_id": 10,
			"balance_time": "2024-03-31_00:00:00.000000",
			"global_unit_denomination": 5,
			"custom_unit_denomination": null
		}]`, got.Body)
	})

	t.Run("now in the account's own unit", func(t *testing.T) {
		client, rec := newTestClient(t, http.StatusOK, `[`+balanceJSON(true, "10")+`]`)

		balance, err := client.RetrieveRecursiveBalance(context.Background(), testEntityID, BalanceQuery{AccountID: 10})
		require.NoError(t, err)
		assert.True(t, balance.Recursive)

		got := rec.last(t)
		assert.Equal(t, "/accounts/balance/recursive", got.Path)
		assert.JSONEq(t, `[{
			"account_id": 10,
			"balance_time": null,
			"global_unit_denomination": null,
			"custom_unit_denomination": null
		}]`, got.Body)
	})

	t.Run("several", func(t *testing.T) {
		body := `[` + balanceJSON(false, "1") + `,` + strings.Replace(balanceJSON(false, "2"), `"account_id": 10`, `"account_id": 11`, 1) + `]`
		client, rec := newTestClient(t, http.StatusOK, body)

		account := Account{ID: 11, Denomination: CustomDenomination(8)}
		balances, err := client.RetrieveBalances(context.Background(), testEntityID, BalanceQuery{AccountID: 10}, QueryFor(account, nil))
		require.NoError(t, err)
		require.Len(t, balances, 2)
		assert.Equal(t, int64(11), balances[1].AccountID)
		assert.Contains(t, rec.last(t).Body, `"custom_unit_denomination":8`)
	})

	t.Run("no queries", func(t *testing.T) {
		client, rec := newTestClient(t, http.StatusOK, `[]`)

		_, err := client.RetrieveBalances(context.Background(), testEntityID)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.Zero(t, rec.count())
	})

	t.Run("missing balance", func(t *testing.T) {
		client, _ := newTestClient(t, http.StatusOK, `[{"account_id": 10, "balance_time": "2024-03-31_00:00:00.000000", "generated_time": "2024-04-01_00:00:00.000000", "recursive": false, "global_unit_denomination": 5, "custom_unit_denomination": null}]`)

		_, err := client.RetrieveBalance(context.Background(), testEntityID, BalanceQuery{AccountID: 10})
		var missing *api.MissingKeyError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "balance", missing.Key)
	})
}

func TestRetrieveBalancePair(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/accounts/balance":
			_, _ = fmt.Fprintf(w, "[%s]", balanceJSON(false, "5"))
		case "/accounts/balance/recursive":
			_, _ = fmt.Fprintf(w, "[%s]", balanceJSON(true, "15"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	client := New(newRequester(t, handler), testSession, zerolog.Nop())

	pair, err := client.RetrieveBalancePair(context.Background(), testEntityID, BalanceQuery{AccountID: 10})
	require.NoError(t, err)
	assert.True(t, pair.Balance.Magnitude.Equal(decimal.NewFromInt(5)))
	assert.True(t, pair.Recursive.Magnitude.Equal(decimal.NewFromInt(15)))
	assert.True(t, pair.Recursive.Recursive)
}

func TestRetrieveBalancePairFailure(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/accounts/balance/recursive" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = fmt.Fprintf(w, "[%s]", balanceJSON(false, "5"))
	})
	client := New(newRequester(t, handler), testSession, zerolog.Nop())

	_, err := client.RetrieveBalancePair(context.Background(), testEntityID, BalanceQuery{AccountID: 10})
	require.Error(t, err)
	assert.True(t, api.IsUnauthorized(err))
}
