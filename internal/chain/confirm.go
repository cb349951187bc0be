package chain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"token-launchpad-sol/internal/logic/domain"
	"token-launchpad-sol/pkg/logger"
)

const (
	defaultConfirmInterval = time.Second
	defaultConfirmTimeout  = time.Minute
)

var (
	ErrNotConfirmed      = errors.New("transaction not confirmed")
	ErrTransactionFailed = errors.New("transaction failed on chain")
)

// ConfirmOptions 轮询交易状态的间隔与上限，零值取默认
type ConfirmOptions struct {
	Interval time.Duration
	Timeout  time.Duration
}

// WaitForConfirmation 轮询交易状态直到 confirmed。
// 查询失败只记日志并继续轮询，超时或 ctx 取消时返回 ErrNotConfirmed。
func WaitForConfirmation(ctx context.Context, ledger Ledger, signature string, opt ConfirmOptions) error {
	if opt.Interval <= 0 {
		opt.Interval = defaultConfirmInterval
	}
	if opt.Timeout <= 0 {
		opt.Timeout = defaultConfirmTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, opt.Timeout)
	defer cancel()

	ticker := time.NewTicker(opt.Interval)
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		status, err := ledger.GetSignatureStatus(ctx, signature)
		switch {
		case err != nil:
			logger.Warnf("[Confirm] 查询交易状态失败，继续轮询: signature=%s attempt=%d err=%v", signature, attempt, err)
		case status == nil:
		case status.Err != "":
			return fmt.Errorf("%w: %w: signature=%s err=%s", domain.ErrNetwork, ErrTransactionFailed, signature, status.Err)
		case status.Confirmed:
			logger.Infof("[Confirm] 交易已确认: signature=%s attempt=%d", signature, attempt)
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w: signature=%s: %v", domain.ErrNetwork, ErrNotConfirmed, signature, ctx.Err())
		case <-ticker.C:
		}
	}
}
