package bybit

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	bybit_api "github.com/bybit-exchange/bybit.go.api"

	"github.com/ducminhle1904/futures-signal-bot/internal/exchange"
)

const metaCacheTTL = 1 * time.Hour

type cachedMeta struct {
	meta      *exchange.SymbolMeta
	fetchedAt time.Time
}

// GetSymbolMeta returns the order constraints for a symbol, serving
// from the cache while the entry is fresh.
func (c *Client) GetSymbolMeta(ctx context.Context, symbol string) (*exchange.SymbolMeta, error) {
	c.metaMu.RLock()
	if entry, ok := c.metaCache[symbol]; ok && time.Since(entry.fetchedAt) < metaCacheTTL {
		c.metaMu.RUnlock()
		return entry.meta, nil
	}
	c.metaMu.RUnlock()

	meta, err := c.fetchSymbolMeta(ctx, symbol)
	if err != nil {
		return nil, err
	}

	c.metaMu.Lock()
	c.metaCache[symbol] = cachedMeta{meta: meta, fetchedAt: time.Now()}
	c.metaMu.Unlock()

	return meta, nil
}

func (c *Client) fetchSymbolMeta(ctx context.Context, symbol string) (*exchange.SymbolMeta, error) {
	params := map[string]interface{}{
		"category": c.category,
		"symbol":   symbol,
	}

	result, err := c.call(ctx, "get_instrument_info", func() (interface{}, error) {
		return c.httpClient.NewUtaBybitServiceWithParams(params).GetInstrumentInfo(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch instrument info for %s: %w", symbol, err)
	}

	meta, err := parseInstrumentInfoResponse(result, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to parse instrument info for %s: %w", symbol, err)
	}

	return meta, nil
}

// parseInstrumentInfoResponse extracts the lot-size constraints for the
// target symbol from the instrument info API response.
func parseInstrumentInfoResponse(response interface{}, targetSymbol string) (*exchange.SymbolMeta, error) {
	serverResp, ok := response.(*bybit_api.ServerResponse)
	if !ok {
		return nil, fmt.Errorf("invalid response type")
	}

	if serverResp.RetCode != 0 {
		return nil, fmt.Errorf("API error: %s (code: %d)", serverResp.RetMsg, serverResp.RetCode)
	}

	resultBytes, err := json.Marshal(serverResp.Result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	var instrumentResult struct {
		Category string `json:"category"`
		List     []struct {
			Symbol        string `json:"symbol"`
			Status        string `json:"status"`
			LotSizeFilter struct {
				MinNotionalValue string `json:"minNotionalValue"`
				MaxOrderQty      string `json:"maxOrderQty"`
				MinOrderQty      string `json:"minOrderQty"`
				QtyStep          string `json:"qtyStep"`
			} `json:"lotSizeFilter"`
		} `json:"list"`
	}

	if err := json.Unmarshal(resultBytes, &instrumentResult); err != nil {
		return nil, fmt.Errorf("failed to unmarshal instrument result: %w", err)
	}

	for _, item := range instrumentResult.List {
		if item.Symbol != targetSymbol {
			continue
		}
		stepSize := parseFloat64(item.LotSizeFilter.QtyStep)
		return &exchange.SymbolMeta{
			Symbol:      item.Symbol,
			StepSize:    stepSize,
			MinQty:      parseFloat64(item.LotSizeFilter.MinOrderQty),
			MinNotional: parseFloat64(item.LotSizeFilter.MinNotionalValue),
			Precision:   precisionFromStep(stepSize),
		}, nil
	}

	return nil, fmt.Errorf("instrument %s not found", targetSymbol)
}

// precisionFromStep derives the quantity decimal precision from the
// step size: a step of 0.001 means 3 decimals, a step of 1 means 0.
func precisionFromStep(step float64) int {
	if step <= 0 || step >= 1 {
		return 0
	}
	return int(math.Round(-math.Log10(step)))
}
