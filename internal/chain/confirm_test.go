package chain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-launchpad-sol/internal/logic/domain"
)

const testSignature = "5VERv8NMvzbJMEkV8xnrLkEaWRtSz9CosKDYjCJjBRnbJLgp8uirBgmQpjKhoR4tjF3ZpRzrFmBV6UjKdiSZkQUW"

func TestRpcLedger_GetSignatureStatus(t *testing.T) {
	cases := []struct {
		name   string
		result string
		want   *SignatureStatus
	}{
		{
			name:   "confirmed",
			result: `{"context":{"slot":10},"value":[{"slot":9,"confirmations":1,"err":null,"confirmationStatus":"confirmed"}]}`,
			want:   &SignatureStatus{Confirmed: true},
		},
		{
			name:   "finalized",
			result: `{"context":{"slot":10},"value":[{"slot":9,"confirmations":null,"err":null,"confirmationStatus":"finalized"}]}`,
			want:   &SignatureStatus{Confirmed: true},
		},
		{
			name:   "processed only",
			result: `{"context":{"slot":10},"value":[{"slot":9,"confirmations":0,"err":null,"confirmationStatus":"processed"}]}`,
			want:   &SignatureStatus{},
		},
		{
			name:   "unknown",
			result: `{"context":{"slot":10},"value":[null]}`,
			want:   nil,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := NewRpcLedger(newRPCServer(t, map[string]string{"getSignatureStatuses": tc.result}))
			got, err := l.GetSignatureStatus(context.Background(), testSignature)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("failed on chain", func(t *testing.T) {
		l := NewRpcLedger(newRPCServer(t, map[string]string{
			"getSignatureStatuses": `{"context":{"slot":10},"value":[{"slot":9,"confirmations":1,"err":{"InstructionError":[2,{"Custom":1}]},"confirmationStatus":"confirmed"}]}`,
		}))
		got, err := l.GetSignatureStatus(context.Background(), testSignature)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Contains(t, got.Err, "InstructionError")
	})

	t.Run("rpc error", func(t *testing.T) {
		l := NewRpcLedger(newRPCServer(t, nil))
		_, err := l.GetSignatureStatus(context.Background(), testSignature)
		assert.ErrorIs(t, err, domain.ErrNetwork)
	})
}

// statusLedger 按调用次序返回预置的交易状态，序列用完后重复最后一个
type statusLedger struct {
	memLedger
	statuses []*SignatureStatus
	errs     []error
	calls    int
}

func (l *statusLedger) GetSignatureStatus(context.Context, string) (*SignatureStatus, error) {
	i := l.calls
	l.calls++
	if i < len(l.errs) && l.errs[i] != nil {
		return nil, l.errs[i]
	}
	if len(l.statuses) == 0 {
		return nil, nil
	}
	if i >= len(l.statuses) {
		i = len(l.statuses) - 1
	}
	return l.statuses[i], nil
}

var fastConfirm = ConfirmOptions{Interval: time.Millisecond, Timeout: time.Second}

func TestWaitForConfirmation(t *testing.T) {
	t.Run("confirmed after polling", func(t *testing.T) {
		l := &statusLedger{statuses: []*SignatureStatus{nil, {}, {Confirmed: true}}}
		require.NoError(t, WaitForConfirmation(context.Background(), l, testSignature, fastConfirm))
		assert.Equal(t, 3, l.calls)
	})

	t.Run("query errors are retried", func(t *testing.T) {
		l := &statusLedger{
			errs:     []error{errors.New("connection reset")},
			statuses: []*SignatureStatus{nil, {Confirmed: true}},
		}
		require.NoError(t, WaitForConfirmation(context.Background(), l, testSignature, fastConfirm))
		assert.Equal(t, 2, l.calls)
	})

	t.Run("failed on chain", func(t *testing.T) {
		l := &statusLedger{statuses: []*SignatureStatus{{Err: "InstructionError"}}}
		err := WaitForConfirmation(context.Background(), l, testSignature, fastConfirm)
		assert.ErrorIs(t, err, ErrTransactionFailed)
		assert.ErrorIs(t, err, domain.ErrNetwork)
		assert.Equal(t, 1, l.calls)
	})

	t.Run("timeout", func(t *testing.T) {
		l := &statusLedger{}
		err := WaitForConfirmation(context.Background(), l, testSignature,
			ConfirmOptions{Interval: time.Millisecond, Timeout: 20 * time.Millisecond})
		assert.ErrorIs(t, err, ErrNotConfirmed)
		assert.ErrorIs(t, err, domain.ErrNetwork)
		assert.Greater(t, l.calls, 1)
	})
}
