package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorize(t *testing.T) {
	cases := []struct {
		message   string
		category  ErrorCategory
		retryable bool
	}{
		{"context deadline exceeded", ErrorCategoryTimeout, true},
		{"dial tcp: connection refused", ErrorCategoryNetwork, true},
		{"invalid api key", ErrorCategoryCredentials, false},
		{"too many requests", ErrorCategoryRateLimit, true},
		{"retCode 10001: params error", ErrorCategoryExchange, true},
	}

	for _, tc := range cases {
		t.Run(tc.message, func(t *testing.T) {
			botErr := Categorize(stderrors.New(tc.message), "bybit", "get_price")
			require.NotNil(t, botErr)
			assert.Equal(t, tc.category, botErr.Category)
			assert.Equal(t, tc.retryable, botErr.IsRetryable())
		})
	}
}

func TestCategorize_PassesThroughBotError(t *testing.T) {
	original := New(ErrorCategoryConfiguration, "config", "load", "symbols missing")
	assert.Same(t, original, Categorize(original, "other", "op"))
	assert.Nil(t, Categorize(nil, "bybit", "op"))
}

func TestWrapAndUnwrap(t *testing.T) {
	underlying := stderrors.New("boom")
	botErr := Wrap(underlying, ErrorCategoryNetwork, "bybit", "get_instrument_info")

	require.NotNil(t, botErr)
	assert.True(t, stderrors.Is(botErr, underlying))
	assert.Contains(t, botErr.Error(), "NETWORK")
	assert.Contains(t, botErr.Error(), "get_instrument_info")

	wrapped := fmt.Errorf("outer: %w", botErr)
	var target *BotError
	require.True(t, stderrors.As(wrapped, &target))
	assert.Equal(t, ErrorCategoryNetwork, target.Category)
}

func TestIsFatal(t *testing.T) {
	assert.True(t, New(ErrorCategoryCredentials, "bybit", "auth", "bad key").IsFatal())
	assert.True(t, New(ErrorCategoryConfiguration, "config", "load", "bad file").IsFatal())
	assert.False(t, New(ErrorCategoryTimeout, "bybit", "get_price", "slow").IsFatal())
}

func TestWithRetryable(t *testing.T) {
	botErr := New(ErrorCategoryExchange, "bybit", "get_price", "rejected").WithRetryable(false)
	assert.False(t, botErr.IsRetryable())
}
