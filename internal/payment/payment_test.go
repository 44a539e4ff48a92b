package payment

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var referenceRe = regexp.MustCompile(`^VYG-\d+-[A-Z0-9]{9}$`)

func TestNewQuote(t *testing.T) {
	total := decimal.NewFromInt(1360)

	q := NewQuote(&total, MethodCard)
	assert.True(t, q.Deposit.Equal(decimal.NewFromInt(408)))
	assert.True(t, q.Remaining.Equal(decimal.NewFromInt(952)))
	assert.True(t, q.AmountToPay.Equal(total))

	q = NewQuote(&total, MethodInstallments)
	assert.True(t, q.AmountToPay.Equal(decimal.NewFromInt(408)))
}

func TestNewQuote_RoundingKeepsSum(t *testing.T) {
	total := decimal.RequireFromString("3876.55")
	q := NewQuote(&total, MethodInstallments)

	assert.Equal(t, "1162.97", q.Deposit.StringFixed(2))
	assert.True(t, q.Deposit.Add(q.Remaining).Equal(total))
}

func TestNewQuote_MissingTotalIsZero(t *testing.T) {
	q := NewQuote(nil, MethodBankTransfer)
	assert.True(t, q.TotalAmount.IsZero())
	assert.True(t, q.AmountToPay.IsZero())
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("installments")
	require.NoError(t, err)
	assert.Equal(t, MethodInstallments, m)

	_, err = ParseMethod("crypto")
	assert.Error(t, err)
}

func TestProcessorRun_PhasesInOrder(t *testing.T) {
	var waited []time.Duration
	p := NewProcessor(func(ctx context.Context, d time.Duration) error {
		waited = append(waited, d)
		return nil
	})
	p.Now = func() time.Time { return time.UnixMilli(1760400000000) }

	var seen []string
	res, err := p.Run(context.Background(), func(ph Phase) { seen = append(seen, ph.Status) })
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Validating card details...",
		"Processing payment...",
		"Generating booking reference...",
	}, seen)
	assert.Equal(t, []time.Duration{time.Second, 1500 * time.Millisecond, 500 * time.Millisecond}, waited)
	assert.Equal(t, "completed", res.Status)
	assert.Regexp(t, referenceRe, res.Reference)
	assert.Contains(t, res.Reference, "VYG-1760400000000-")
}

func TestProcessorRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewProcessor(Sleep).Run(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScaledSleep_Zero(t *testing.T) {
	start := time.Now()
	require.NoError(t, ScaledSleep(0)(context.Background(), time.Hour))
	assert.Less(t, time.Since(start), time.Second)
}

func TestNewReference_FormatAndUnique(t *testing.T) {
	seen := make(map[string]bool)
	now := time.Now()
	for i := 0; i < 2000; i++ {
		ref := NewReference(now, nil)
		require.Regexp(t, referenceRe, ref)
		require.False(t, seen[ref], "duplicate %s", ref)
		seen[ref] = true
	}
}

func TestCardDetails_Last4(t *testing.T) {
	assert.Equal(t, "4242", CardDetails{Number: "4242 4242 4242 4242"}.Last4())
	assert.Equal(t, "", CardDetails{Number: "12"}.Last4())
}
