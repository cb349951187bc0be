package chain

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/mr-tron/base58"

	"token-launchpad-sol/internal/config"
	"token-launchpad-sol/internal/logic/assembler"
	"token-launchpad-sol/internal/logic/domain"
	"token-launchpad-sol/pkg/logger"
)

// Wallet 外部钱包能力：提供身份，并对交易补签后提交
type Wallet interface {
	// PublicKey 未连接时第二个返回值为 false
	PublicKey(ctx context.Context) (common.PublicKey, bool)
	// SignAndSend 用户拒绝签名时返回 domain.ErrWalletRejection
	SignAndSend(ctx context.Context, tx types.Transaction) (string, error)
}

// Sender 交易提交通道，*client.Client 满足该接口
type Sender interface {
	SendTransaction(ctx context.Context, tx types.Transaction) (string, error)
}

// ConfirmFunc 签名前的用户确认，返回 false 表示拒绝
type ConfirmFunc func(ctx context.Context, tx types.Transaction) bool

var ErrNoKeypair = errors.New("no keypair configured")

// KeypairWallet 本地私钥钱包（CLI 场景）
type KeypairWallet struct {
	account types.Account
	sender  Sender
	confirm ConfirmFunc
}

func NewKeypairWallet(account types.Account, sender Sender, confirm ConfirmFunc) *KeypairWallet {
	return &KeypairWallet{account: account, sender: sender, confirm: confirm}
}

func (w *KeypairWallet) PublicKey(context.Context) (common.PublicKey, bool) {
	if w == nil || w.account.PublicKey == (common.PublicKey{}) {
		return common.PublicKey{}, false
	}
	return w.account.PublicKey, true
}

func (w *KeypairWallet) SignAndSend(ctx context.Context, tx types.Transaction) (string, error) {
	if w.confirm != nil && !w.confirm(ctx, tx) {
		logger.Infof("[Wallet] 用户拒绝签名")
		return "", fmt.Errorf("%w: declined by user", domain.ErrWalletRejection)
	}
	if err := assembler.Sign(&tx, w.account); err != nil {
		return "", err
	}
	sig, err := w.sender.SendTransaction(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("%w: sendTransaction: %v", domain.ErrNetwork, err)
	}
	logger.Infof("[Wallet] 交易已提交: signature=%s", sig)
	return sig, nil
}

// LoadKeypair 优先读取 keypair 文件（solana-keygen 的 JSON 字节数组），否则使用 base58 私钥
func LoadKeypair(c config.WalletConfig) (types.Account, error) {
	if path := strings.TrimSpace(c.KeypairPath); path != "" {
		raw, err := os.ReadFile(expandHome(path))
		if err != nil {
			return types.Account{}, fmt.Errorf("read keypair %s: %w", path, err)
		}
		return AccountFromJSON(raw)
	}
	if secret := strings.TrimSpace(c.SecretKey); secret != "" {
		b, err := base58.Decode(secret)
		if err != nil {
			return types.Account{}, fmt.Errorf("decode secret key: %w", err)
		}
		return accountFromBytes(b)
	}
	return types.Account{}, ErrNoKeypair
}

// AccountFromJSON 解析 [12,34,...] 形式的 64 字节私钥
func AccountFromJSON(raw []byte) (types.Account, error) {
	var ints []int
	if err := json.Unmarshal(raw, &ints); err != nil {
		return types.Account{}, fmt.Errorf("keypair is not a json byte array: %w", err)
	}
	b := make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return types.Account{}, fmt.Errorf("keypair byte out of range at %d: %d", i, v)
		}
		b[i] = byte(v)
	}
	return accountFromBytes(b)
}

func accountFromBytes(b []byte) (types.Account, error) {
	if len(b) != 64 {
		return types.Account{}, fmt.Errorf("keypair must be 64 bytes, got %d", len(b))
	}
	return types.AccountFromBytes(b)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// TerminalConfirm 在终端打印交易摘要并等待 y/N
func TerminalConfirm(in io.Reader, out io.Writer) ConfirmFunc {
	reader := bufio.NewReader(in)
	return func(_ context.Context, tx types.Transaction) bool {
		fmt.Fprintf(out, "Transaction: %d instruction(s), %d signer(s), blockhash %s\n",
			len(tx.Message.Instructions), tx.Message.Header.NumRequireSignatures, tx.Message.RecentBlockHash)
		for i, ix := range tx.Message.Instructions {
			idx := int(ix.ProgramIDIndex)
			if idx < len(tx.Message.Accounts) {
				fmt.Fprintf(out, "  #%d %s\n", i, tx.Message.Accounts[idx].ToBase58())
			}
		}
		fmt.Fprint(out, "Sign and send? [y/N]: ")
		line, _ := reader.ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		default:
			return false
		}
	}
}
