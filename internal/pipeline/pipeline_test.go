package pipeline

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"compass-earn/internal/cctp"
	"compass-earn/internal/compass"
	"compass-earn/internal/constant"
	"compass-earn/internal/signer"

	"github.com/ethereum/go-ethereum/common"
	evmTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	ownerKey   = "b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291"
	sponsorKey = "8a1f9a8f95be41cd7ccb6168179afb4504aefe388d1e14474d32c45c72ce7b7a"
)

var vault = common.HexToAddress("0x7BfA7C4f149E7415b73bdeDfe609237e29CBF34A")

// steps records the order in which pipeline steps run and can fail any of them.
type steps struct {
	calls    []string
	failAt   string
	reverted bool
}

func (s *steps) hit(name string) error {
	s.calls = append(s.calls, name)
	if s.failAt == name {
		return errors.New(name + " failed")
	}
	return nil
}

func (s *steps) source(chainID int64) TransactionSource {
	return SourceFunc(func(ctx context.Context) (*compass.UnsignedTransaction, error) {
		if err := s.hit("fetch"); err != nil {
			return nil, err
		}
		return &compass.UnsignedTransaction{
			ChainId: compass.NewQuantity(big.NewInt(chainID)),
			To:      vault,
			Data:    []byte{0x01},
		}, nil
	})
}

func (s *steps) Prepare(ctx context.Context, tx *compass.UnsignedTransaction) error {
	if err := s.hit("prepare"); err != nil {
		return err
	}
	tx.Nonce = compass.NewQuantity(big.NewInt(0))
	tx.Gas = compass.NewQuantity(big.NewInt(60000))
	tx.MaxFeePerGas = compass.NewQuantity(big.NewInt(10))
	tx.MaxPriorityFeePerGas = compass.NewQuantity(big.NewInt(1))
	return nil
}

func (s *steps) Broadcast(ctx context.Context, tx *evmTypes.Transaction) (common.Hash, error) {
	if err := s.hit("submit"); err != nil {
		return common.Hash{}, err
	}
	return tx.Hash(), nil
}

func (s *steps) Confirm(ctx context.Context, hash common.Hash) (*evmTypes.Receipt, error) {
	if err := s.hit("confirm"); err != nil {
		return nil, err
	}
	r := &evmTypes.Receipt{TxHash: hash, Status: evmTypes.ReceiptStatusSuccessful, BlockNumber: big.NewInt(100)}
	if s.reverted {
		r.Status = evmTypes.ReceiptStatusFailed
		return r, errors.New("reverted")
	}
	return r, nil
}

// signingSteps wraps a real signer so signing shows up in the call order.
type signingSteps struct {
	*steps
	s *signer.Signer
}

func (w signingSteps) Address() common.Address {
	return w.s.Address()
}

func (w signingSteps) SignTransaction(tx *evmTypes.Transaction, chainID *big.Int) (*evmTypes.Transaction, error) {
	if err := w.hit("sign"); err != nil {
		return nil, err
	}
	return w.s.SignTransaction(tx, chainID)
}

type memRecorder struct {
	submitted []*Submission
	finished  map[common.Hash]string
	err       error
}

func (m *memRecorder) Submitted(ctx context.Context, s *Submission) error {
	m.submitted = append(m.submitted, s)
	return m.err
}

func (m *memRecorder) Finished(ctx context.Context, hash common.Hash, status string, blockNumber uint64) error {
	if m.finished == nil {
		m.finished = map[common.Hash]string{}
	}
	m.finished[hash] = status
	return m.err
}

func mustSigner(t *testing.T, key string) *signer.Signer {
	t.Helper()
	s, err := signer.FromHex(key)
	require.NoError(t, err)
	return s
}

func newSubmitter(t *testing.T, st *steps, rec Recorder) *Submitter {
	return &Submitter{
		Signer:      signingSteps{steps: st, s: mustSigner(t, ownerKey)},
		Preparer:    st,
		Broadcaster: st,
		Confirmer:   st,
		Recorder:    rec,
	}
}

var depositMeta = Meta{Chain: "base", Action: constant.ActionDeposit, Owner: "0xowner"}

func TestSubmitterRunsStepsInOrderOnce(t *testing.T) {
	st := &steps{}
	rec := &memRecorder{}

	res, err := newSubmitter(t, st, rec).Run(context.Background(), depositMeta, st.source(8453))
	require.NoError(t, err)

	assert.Equal(t, []string{"fetch", "prepare", "sign", "submit", "confirm"}, st.calls)
	assert.NotEqual(t, common.Hash{}, res.Hash)
	assert.Equal(t, uint64(100), res.Receipt.BlockNumber.Uint64())

	require.Len(t, rec.submitted, 1)
	assert.Equal(t, res.Hash, rec.submitted[0].Hash)
	assert.Equal(t, constant.ActionDeposit, rec.submitted[0].Action)
	assert.Equal(t, mustSigner(t, ownerKey).Address(), rec.submitted[0].From)
	assert.Equal(t, constant.StatusConfirmed, rec.finished[res.Hash])
}

func TestSubmitterAbortsOnFirstError(t *testing.T) {
	tests := []struct {
		failAt string
		want   []string
	}{
		{"fetch", []string{"fetch"}},
		{"prepare", []string{"fetch", "prepare"}},
		{"sign", []string{"fetch", "prepare", "sign"}},
		{"submit", []string{"fetch", "prepare", "sign", "submit"}},
		{"confirm", []string{"fetch", "prepare", "sign", "submit", "confirm"}},
	}
	for _, tt := range tests {
		t.Run(tt.failAt, func(t *testing.T) {
			st := &steps{failAt: tt.failAt}
			rec := &memRecorder{}

			_, err := newSubmitter(t, st, rec).Run(context.Background(), depositMeta, st.source(8453))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.failAt+" failed")
			assert.Equal(t, tt.want, st.calls)
			assert.Empty(t, rec.finished)
		})
	}
}

func TestSubmitterReverted(t *testing.T) {
	st := &steps{reverted: true}
	rec := &memRecorder{}

	res, err := newSubmitter(t, st, rec).Run(context.Background(), depositMeta, st.source(8453))
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, constant.StatusFailed, rec.finished[res.Hash])
}

func TestSubmitterRecorderErrorIsNotFatal(t *testing.T) {
	st := &steps{}
	rec := &memRecorder{err: errors.New("db down")}

	_, err := newSubmitter(t, st, rec).Run(context.Background(), depositMeta, st.source(8453))
	require.NoError(t, err)
}

func TestSubmitterRejectsForeignSender(t *testing.T) {
	st := &steps{}
	source := SourceFunc(func(ctx context.Context) (*compass.UnsignedTransaction, error) {
		return &compass.UnsignedTransaction{
			ChainId: compass.NewQuantity(big.NewInt(8453)),
			From:    common.HexToAddress("0x0000000000000000000000000000000000000B0B"),
			To:      vault,
		}, nil
	})

	_, err := newSubmitter(t, st, nil).Run(context.Background(), depositMeta, source)
	require.ErrorContains(t, err, "does not match signer")
	assert.Empty(t, st.calls)
}

func TestSubmitterInvalidPayload(t *testing.T) {
	st := &steps{}
	_, err := newSubmitter(t, st, nil).Run(context.Background(), depositMeta, Static(&compass.UnsignedTransaction{}))
	require.ErrorIs(t, err, compass.ErrInvalidTransaction)
	assert.Empty(t, st.calls)
}

func TestSubmitterWithoutSigner(t *testing.T) {
	_, err := (&Submitter{}).Run(context.Background(), depositMeta, Static(nil))
	require.ErrorIs(t, err, ErrSignerRequired)
}

type fakeSponsor struct {
	st  *steps
	req *compass.SponsorRequest
}

func (f *fakeSponsor) PrepareSponsored(ctx context.Context, req *compass.SponsorRequest) (*compass.UnsignedTransaction, error) {
	f.req = req
	return &compass.UnsignedTransaction{
		ChainId: compass.NewQuantity(big.NewInt(8453)),
		From:    common.HexToAddress(req.Sender),
		To:      vault,
	}, nil
}

func permitTypedData() *compass.TypedData {
	return &compass.TypedData{TypedData: apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": {{Name: "name", Type: "string"}},
			"Manage":       {{Name: "amount", Type: "uint256"}},
		},
		PrimaryType: "Manage",
		Domain:      apitypes.TypedDataDomain{Name: "Earn"},
		Message:     apitypes.TypedDataMessage{"amount": "1000000"},
	}}
}

func TestSponsoredRun(t *testing.T) {
	owner := mustSigner(t, ownerKey)
	sponsorKeySigner := mustSigner(t, sponsorKey)
	st := &steps{}
	sponsor := &fakeSponsor{st: st}

	flow := &Sponsored{
		Owner:   owner,
		Sponsor: sponsor,
		Submitter: &Submitter{
			Signer:      signingSteps{steps: st, s: sponsorKeySigner},
			Preparer:    st,
			Broadcaster: st,
			Confirmer:   st,
		},
	}

	fetched := 0
	source := TypedDataFunc(func(ctx context.Context) (*compass.TypedData, error) {
		fetched++
		return permitTypedData(), nil
	})

	_, err := flow.Run(context.Background(), Meta{Chain: "base", Action: constant.ActionDeposit}, source)
	require.NoError(t, err)

	assert.Equal(t, 1, fetched)
	require.NotNil(t, sponsor.req)
	assert.Equal(t, owner.Address().Hex(), sponsor.req.Owner)
	assert.Equal(t, sponsorKeySigner.Address().Hex(), sponsor.req.Sender)

	recovered, err := signer.RecoverTypedData(permitTypedData().TypedData, sponsor.req.Signature)
	require.NoError(t, err)
	assert.Equal(t, owner.Address(), recovered)

	assert.Equal(t, []string{"prepare", "sign", "submit", "confirm"}, st.calls)
}

func TestSponsoredRejectsInvalidTypedData(t *testing.T) {
	sponsor := &fakeSponsor{}
	flow := &Sponsored{Owner: mustSigner(t, ownerKey), Sponsor: sponsor, Submitter: &Submitter{}}

	source := TypedDataFunc(func(ctx context.Context) (*compass.TypedData, error) {
		return &compass.TypedData{}, nil
	})
	_, err := flow.Run(context.Background(), Meta{Chain: "base"}, source)
	require.ErrorIs(t, err, compass.ErrEmptyPayload)
	assert.Nil(t, sponsor.req)
}

type fakeAttester struct {
	calls int
	err   error
}

func (f *fakeAttester) WaitForAttestation(ctx context.Context, domain uint32, hash common.Hash) (*cctp.Message, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &cctp.Message{Message: "0x01", Attestation: "0x02", Status: constant.AttestationComplete}, nil
}

func TestBridgeRun(t *testing.T) {
	src := &steps{}
	dst := &steps{}
	att := &fakeAttester{}

	var minted *cctp.Message
	b := &Bridge{Source: newSubmitter(t, src, nil), Destination: newSubmitter(t, dst, nil), Attester: att}
	res, err := b.Run(context.Background(), &BridgeRequest{
		SourceDomain:    6,
		SourceMeta:      Meta{Chain: "base", Action: constant.ActionCctpBurn},
		DestinationMeta: Meta{Chain: "arbitrum", Action: constant.ActionCctpMint},
		Approval:        src.source(8453),
		Burn:            src.source(8453),
		Mint: func(msg *cctp.Message) TransactionSource {
			minted = msg
			return dst.source(42161)
		},
	})
	require.NoError(t, err)

	assert.Len(t, src.calls, 10)
	assert.Equal(t, []string{"fetch", "prepare", "sign", "submit", "confirm"}, dst.calls)
	assert.Equal(t, 1, att.calls)
	assert.Equal(t, "0x02", minted.Attestation)
	assert.NotNil(t, res.Approval)
	assert.NotNil(t, res.Burn)
	assert.NotNil(t, res.Mint)
}

func TestBridgeStopsWhenAttestationFails(t *testing.T) {
	src := &steps{}
	dst := &steps{}
	att := &fakeAttester{err: errors.New("timed out")}

	b := &Bridge{Source: newSubmitter(t, src, nil), Destination: newSubmitter(t, dst, nil), Attester: att}
	res, err := b.Run(context.Background(), &BridgeRequest{
		SourceMeta:      Meta{Chain: "base"},
		DestinationMeta: Meta{Chain: "arbitrum"},
		Burn:            src.source(8453),
		Mint: func(msg *cctp.Message) TransactionSource {
			return dst.source(42161)
		},
	})
	require.ErrorContains(t, err, "timed out")
	assert.NotNil(t, res.Burn)
	assert.Nil(t, res.Mint)
	assert.Empty(t, dst.calls)
}

func TestBridgeStopsWhenBurnFails(t *testing.T) {
	src := &steps{failAt: "submit"}
	att := &fakeAttester{}

	b := &Bridge{Source: newSubmitter(t, src, nil), Destination: newSubmitter(t, &steps{}, nil), Attester: att}
	_, err := b.Run(context.Background(), &BridgeRequest{
		SourceMeta: Meta{Chain: "base"},
		Burn:       src.source(8453),
	})
	require.ErrorContains(t, err, "burn")
	assert.Equal(t, 0, att.calls)
}
