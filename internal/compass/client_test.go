package compass

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"compass-earn/internal/config"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, sortCase string, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClientWithHTTP(config.CompassConf{
		ApiUrl:        srv.URL + "/",
		ApiKey:        "test-key",
		SortParamCase: sortCase,
	}, srv.Client())
}

func TestClientSendsAPIKey(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, pathVault, r.URL.Path)
		assert.Equal(t, "base", r.URL.Query().Get("chain"))
		assert.Equal(t, "0xvault", r.URL.Query().Get("vault_address"))
		assert.False(t, r.URL.Query().Has("user_address"))
		fmt.Fprint(w, `{"name":"Steakhouse USDC","symbol":"steakUSDC","apy":"0.061"}`)
	})

	v, err := c.Vault(context.Background(), "base", "0xvault", "")
	require.NoError(t, err)
	assert.Equal(t, "Steakhouse USDC", v.Name)
	assert.Equal(t, "0xvault", v.Address)
}

func TestClientAPIError(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"detail":"amount must be positive"}`)
	})

	_, err := c.Positions(context.Background(), "base", "0xowner")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.True(t, apiErr.IsClientError())
	assert.Contains(t, apiErr.Error(), "amount must be positive")
}

func TestManage(t *testing.T) {
	tests := []struct {
		name      string
		response  string
		wantTx    bool
		wantTyped bool
		wantErr   error
	}{
		{
			name:     "transaction",
			response: `{"transaction":` + dynamicFeePayload + `}`,
			wantTx:   true,
		},
		{
			name: "typed data",
			response: `{"eip_712":{"types":{"EIP712Domain":[{"name":"name","type":"string"}],"Manage":[{"name":"amount","type":"uint256"}]},
				"primaryType":"Manage","domain":{"name":"Earn"},"message":{"amount":"1"}}}`,
			wantTyped: true,
		},
		{
			name:     "empty",
			response: `{}`,
			wantErr:  ErrEmptyPayload,
		},
		{
			name:     "transaction without to",
			response: `{"transaction":{"chainId":"8453"}}`,
			wantErr:  ErrInvalidTransaction,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, pathManage, r.URL.Path)

				body, _ := io.ReadAll(r.Body)
				var req ManageRequest
				assert.NoError(t, json.Unmarshal(body, &req))
				assert.Equal(t, "DEPOSIT", req.Action)
				assert.Equal(t, "0xvault", req.Venue.VaultAddress)

				fmt.Fprint(w, tt.response)
			})

			resp, err := c.Manage(context.Background(), &ManageRequest{
				Owner:  "0xowner",
				Chain:  "base",
				Venue:  Venue{Type: "VAULT", VaultAddress: "0xvault"},
				Action: "DEPOSIT",
				Amount: "1",
			})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTx, resp.Transaction != nil)
			assert.Equal(t, tt.wantTyped, resp.TypedData != nil)
		})
	}
}

func TestVaultListingSortCasing(t *testing.T) {
	tests := []struct {
		sortCase  string
		wantKey   string
		wantValue string
	}{
		{SortCaseSnake, "order_by", "tvl_usd"},
		{SortCaseCamel, "orderBy", "tvlUsd"},
	}
	for _, tt := range tests {
		t.Run(tt.sortCase, func(t *testing.T) {
			c := newTestClient(t, tt.sortCase, func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				assert.Equal(t, tt.wantValue, q.Get(tt.wantKey))
				assert.Equal(t, "10", q.Get("limit"))
				assert.False(t, q.Has("offset"))
				fmt.Fprint(w, `{"vaults":[{"address":"0x1","name":"A"}],"total":1}`)
			})

			list, err := c.MorphoVaults(context.Background(), VaultQuery{Chain: "base", OrderBy: "tvl_usd", Limit: 10})
			require.NoError(t, err)
			require.Len(t, list.Vaults, 1)
		})
	}
}

func TestSnakeToCamel(t *testing.T) {
	assert.Equal(t, "tvlUsd", SnakeToCamel("tvl_usd"))
	assert.Equal(t, "orderBy", SnakeToCamel("order_by"))
	assert.Equal(t, "apy7d", SnakeToCamel("apy_7d"))
	assert.Equal(t, "tvl", SnakeToCamel("tvl"))
}

func TestTokenBalanceAndPrice(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case pathTokenBalance:
			fmt.Fprint(w, `{"token_address":"0xusdc","token_symbol":"USDC","amount":"12.5","balance_raw":"12500000","decimals":6}`)
		case pathTokenPrice:
			fmt.Fprint(w, `{"price":"0.9998"}`)
		default:
			http.NotFound(w, r)
		}
	})

	bal, err := c.TokenBalance(context.Background(), "base", "0xusdc", "0xuser")
	require.NoError(t, err)
	assert.Equal(t, "12500000", bal.BalanceRaw.String())
	assert.Equal(t, 6, bal.Decimals)

	price, err := c.TokenPrice(context.Background(), "base", "0xusdc")
	require.NoError(t, err)
	assert.Equal(t, "0xusdc", price.Token)
	assert.Equal(t, "0.9998", price.Price)
}

func TestCreateAccount(t *testing.T) {
	c := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, pathCreateAccount, r.URL.Path)
		fmt.Fprintf(w, `{"transaction":%s,"earn_account_address":"0x00000000000000000000000000000000000000e1"}`, dynamicFeePayload)
	})

	resp, err := c.CreateAccount(context.Background(), &CreateAccountRequest{Chain: "base", Owner: "0xowner", Sender: "0xowner"})
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xe1"), resp.EarnAccountAddress)
}
