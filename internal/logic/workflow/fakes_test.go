package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/require"

	"token-launchpad-sol/internal/chain"
	"token-launchpad-sol/internal/logic/domain"
	"token-launchpad-sol/internal/logic/instruction"
	"token-launchpad-sol/internal/storage"
)

const (
	testBlockhash = "EkSnNWid2cvwEVnVx9aBqawnmiCNiDgp3gUdkDPTKN1N"
	testCID       = "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"
	testGateway   = "https://gw.example/ipfs/"
)

// callLog 记录跨依赖的调用顺序
type callLog []string

func (l *callLog) add(s string) { *l = append(*l, s) }

type fakeWallet struct {
	log       *callLog
	account   types.Account
	connected bool
	reject    bool
	sendErr   error
	seen      []types.Transaction
}

func (w *fakeWallet) PublicKey(context.Context) (common.PublicKey, bool) {
	return w.account.PublicKey, w.connected
}

func (w *fakeWallet) SignAndSend(_ context.Context, tx types.Transaction) (string, error) {
	w.log.add("wallet.sign")
	w.seen = append(w.seen, tx)
	if w.reject {
		return "", fmt.Errorf("%w: user declined", domain.ErrWalletRejection)
	}
	if w.sendErr != nil {
		return "", w.sendErr
	}
	return "5igSig", nil
}

type fakeLedger struct {
	log          *callLog
	rent         uint64
	rentErr      error
	blockhashErr error
	accountErr   error
	accounts     map[common.PublicKey]*chain.AccountInfo
	panicOnRent  bool

	// statuses 按调用次序返回，用完后重复最后一个；为空时表示交易未知
	statuses []*chain.SignatureStatus
	polls    int
}

func (l *fakeLedger) GetRentExemptionLamports(_ context.Context, size uint64) (uint64, error) {
	l.log.add(fmt.Sprintf("ledger.rent(%d)", size))
	if l.panicOnRent {
		panic("rent oracle exploded")
	}
	return l.rent, l.rentErr
}

func (l *fakeLedger) GetFreshnessToken(context.Context) (string, error) {
	l.log.add("ledger.blockhash")
	if l.blockhashErr != nil {
		return "", l.blockhashErr
	}
	return testBlockhash, nil
}

func (l *fakeLedger) GetAccountInfo(_ context.Context, addr common.PublicKey) (*chain.AccountInfo, error) {
	l.log.add("ledger.account")
	if l.accountErr != nil {
		return nil, l.accountErr
	}
	return l.accounts[addr], nil
}

func (l *fakeLedger) GetSignatureStatus(_ context.Context, signature string) (*chain.SignatureStatus, error) {
	l.log.add("ledger.status(" + signature + ")")
	i := l.polls
	l.polls++
	if len(l.statuses) == 0 {
		return nil, nil
	}
	if i >= len(l.statuses) {
		i = len(l.statuses) - 1
	}
	return l.statuses[i], nil
}

type fakeUploader struct {
	log       *callLog
	binaryErr error
	jsonErr   error
	binaryURI string
	docs      []domain.MetadataDocument
}

func (u *fakeUploader) UploadBinary(_ context.Context, fileName string, data []byte, contentType string) (storage.UploadResult, error) {
	u.log.add("upload.binary")
	if u.binaryErr != nil {
		return storage.UploadResult{}, u.binaryErr
	}
	uri := u.binaryURI
	if uri == "" {
		uri = "ipfs://" + testCID
	}
	return storage.UploadResult{URI: uri}, nil
}

func (u *fakeUploader) UploadJSON(_ context.Context, document interface{}) (storage.UploadResult, error) {
	u.log.add("upload.json")
	if doc, ok := document.(domain.MetadataDocument); ok {
		u.docs = append(u.docs, doc)
	}
	if u.jsonErr != nil {
		return storage.UploadResult{}, u.jsonErr
	}
	return storage.UploadResult{URI: testGateway + testCID}, nil
}

type fakeSink struct {
	events []domain.LaunchEvent
	err    error
}

func (s *fakeSink) Publish(_ context.Context, ev domain.LaunchEvent) error {
	s.events = append(s.events, ev)
	return s.err
}

type harness struct {
	log      *callLog
	creator  types.Account
	mint     types.Account
	wallet   *fakeWallet
	ledger   *fakeLedger
	uploader *fakeUploader
	sink     *fakeSink
	deps     Deps
}

func newHarness() *harness {
	log := &callLog{}
	h := &harness{
		log:      log,
		creator:  types.NewAccount(),
		mint:     types.NewAccount(),
		ledger:   &fakeLedger{log: log, rent: 1461600, accounts: map[common.PublicKey]*chain.AccountInfo{}},
		uploader: &fakeUploader{log: log},
		sink:     &fakeSink{},
	}
	h.wallet = &fakeWallet{log: log, account: h.creator, connected: true}
	h.deps = Deps{
		Wallet:      h.wallet,
		Ledger:      h.ledger,
		Uploader:    h.uploader,
		Gateway:     storage.NewGateway(testGateway),
		Builder:     instruction.NewBuilder(domain.DefaultPrograms()),
		Events:      h.sink,
		NewIdentity: func() types.Account { return h.mint },
	}
	return h
}

func sandboxDraft() domain.TokenMetadataDraft {
	return domain.TokenMetadataDraft{Name: "Sandbox", Symbol: "sbx", Decimals: 9}
}

func pngImage() *domain.ImageArtifact {
	return &domain.ImageArtifact{FileName: "logo.png", ContentType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}
}

func requireReason(t *testing.T, err error, reason error, state domain.State) {
	t.Helper()
	var f *domain.Failure
	require.True(t, errors.As(err, &f), "want *domain.Failure, got %v", err)
	require.ErrorIs(t, err, reason)
	require.Equal(t, reason, f.Reason())
	require.Equal(t, state, f.State)
}

func docJSON(t *testing.T, doc domain.MetadataDocument) string {
	t.Helper()
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	return string(raw)
}
