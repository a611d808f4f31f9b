package bybit

import (
	"context"
	"encoding/json"
	"fmt"

	bybit_api "github.com/bybit-exchange/bybit.go.api"
)

// GetAvailableMargin returns the USD balance available to open new
// positions on the unified account.
func (c *Client) GetAvailableMargin(ctx context.Context) (float64, error) {
	params := map[string]interface{}{
		"accountType": "UNIFIED",
	}

	result, err := c.call(ctx, "get_account_wallet", func() (interface{}, error) {
		return c.httpClient.NewUtaBybitServiceWithParams(params).GetAccountWallet(ctx)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to get account wallet: %w", err)
	}

	margin, err := parseAvailableMarginResponse(result)
	if err != nil {
		return 0, fmt.Errorf("failed to parse wallet response: %w", err)
	}

	return margin, nil
}

func parseAvailableMarginResponse(response interface{}) (float64, error) {
	serverResp, ok := response.(*bybit_api.ServerResponse)
	if !ok {
		return 0, fmt.Errorf("invalid response type")
	}

	if serverResp.RetCode != 0 {
		return 0, fmt.Errorf("API error: %s (code: %d)", serverResp.RetMsg, serverResp.RetCode)
	}

	resultBytes, err := json.Marshal(serverResp.Result)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal result: %w", err)
	}

	var walletResult struct {
		List []struct {
			AccountType           string `json:"accountType"`
			TotalAvailableBalance string `json:"totalAvailableBalance"`
			TotalEquity           string `json:"totalEquity"`
		} `json:"list"`
	}

	if err := json.Unmarshal(resultBytes, &walletResult); err != nil {
		return 0, fmt.Errorf("failed to unmarshal wallet result: %w", err)
	}

	if len(walletResult.List) == 0 {
		return 0, fmt.Errorf("no account data found")
	}

	return parseFloat64(walletResult.List[0].TotalAvailableBalance), nil
}
