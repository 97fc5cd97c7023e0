package chain

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"compass-earn/internal/compass"
	"compass-earn/internal/poll"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	evmTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient implements the methods under test; anything else panics on the nil embed.
type fakeClient struct {
	Client

	nonce      uint64
	gas        uint64
	gasErr     error
	tip        *big.Int
	gasPrice   *big.Int
	baseFee    *big.Int
	sendErr    error
	sent       []*evmTypes.Transaction
	receipts   []*evmTypes.Receipt
	receiptErr []error
	lookups    int
	// known holds hashes TransactionByHash finds
	known map[common.Hash]bool
}

func (f *fakeClient) TransactionByHash(ctx context.Context, hash common.Hash) (*evmTypes.Transaction, bool, error) {
	if f.known[hash] {
		return nil, true, nil
	}
	return nil, false, ethereum.NotFound
}

func (f *fakeClient) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return f.nonce, nil
}

func (f *fakeClient) EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error) {
	return f.gas, f.gasErr
}

func (f *fakeClient) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return f.tip, nil
}

func (f *fakeClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return f.gasPrice, nil
}

func (f *fakeClient) HeaderByNumber(ctx context.Context, number *big.Int) (*evmTypes.Header, error) {
	return &evmTypes.Header{BaseFee: f.baseFee}, nil
}

func (f *fakeClient) SendTransaction(ctx context.Context, tx *evmTypes.Transaction) error {
	f.sent = append(f.sent, tx)
	return f.sendErr
}

func (f *fakeClient) TransactionReceipt(ctx context.Context, hash common.Hash) (*evmTypes.Receipt, error) {
	i := f.lookups
	f.lookups++
	return f.receipts[i], f.receiptErr[i]
}

var (
	from  = common.HexToAddress("0x00000000000000000000000000000000000A11CE")
	vault = common.HexToAddress("0x7BfA7C4f149E7415b73bdeDfe609237e29CBF34A")
)

func unsigned() *compass.UnsignedTransaction {
	return &compass.UnsignedTransaction{
		ChainId: compass.NewQuantity(big.NewInt(8453)),
		From:    from,
		To:      vault,
		Data:    []byte{0xde, 0xad},
	}
}

func TestFillDefaultsEIP1559(t *testing.T) {
	client := &fakeClient{nonce: 7, gas: 100000, tip: big.NewInt(2), baseFee: big.NewInt(10)}
	tx := unsigned()

	require.NoError(t, FillDefaults(context.Background(), client, tx))

	assert.Equal(t, uint64(7), tx.Nonce.Uint64())
	assert.Equal(t, uint64(120000), tx.Gas.Uint64())
	assert.Equal(t, "2", tx.MaxPriorityFeePerGas.String())
	assert.Equal(t, "22", tx.MaxFeePerGas.String())
	assert.False(t, tx.IsLegacy())
}

func TestFillDefaultsKeepsProvidedFields(t *testing.T) {
	client := &fakeClient{nonce: 7}
	tx := unsigned()
	tx.Nonce = compass.NewQuantity(big.NewInt(3))
	tx.Gas = compass.NewQuantity(big.NewInt(50000))
	tx.MaxFeePerGas = compass.NewQuantity(big.NewInt(100))
	tx.MaxPriorityFeePerGas = compass.NewQuantity(big.NewInt(1))

	require.NoError(t, FillDefaults(context.Background(), client, tx))

	assert.Equal(t, uint64(3), tx.Nonce.Uint64())
	assert.Equal(t, uint64(50000), tx.Gas.Uint64())
	assert.Equal(t, "100", tx.MaxFeePerGas.String())
}

func TestFillDefaultsEstimateFailure(t *testing.T) {
	client := &fakeClient{gasErr: errors.New("execution reverted"), gasPrice: big.NewInt(5)}
	tx := unsigned()

	require.NoError(t, FillDefaults(context.Background(), client, tx))

	assert.Equal(t, uint64(defaultGasLimit*gasBufferPercent/100), tx.Gas.Uint64())
	// no base fee on the header means a legacy gas price
	assert.Equal(t, "5", tx.GasPrice.String())
	assert.True(t, tx.IsLegacy())
}

func TestFillDefaultsNeedsSender(t *testing.T) {
	tx := unsigned()
	tx.From = common.Address{}
	require.Error(t, FillDefaults(context.Background(), &fakeClient{}, tx))
}

func testTx() *evmTypes.Transaction {
	return evmTypes.NewTx(&evmTypes.DynamicFeeTx{
		ChainID:   big.NewInt(8453),
		Nonce:     1,
		GasTipCap: big.NewInt(1),
		GasFeeCap: big.NewInt(2),
		Gas:       21000,
		To:        &vault,
	})
}

func TestBroadcast(t *testing.T) {
	tx := testTx()

	client := &fakeClient{}
	hash, err := NewBroadcaster(client).Broadcast(context.Background(), tx)
	require.NoError(t, err)
	assert.Equal(t, tx.Hash(), hash)
	assert.Len(t, client.sent, 1)

	misleading := errors.New(`json: cannot unmarshal, result "0x1234"`)
	client = &fakeClient{sendErr: misleading, known: map[common.Hash]bool{tx.Hash(): true}}
	hash, err = NewBroadcaster(client).Broadcast(context.Background(), tx)
	require.NoError(t, err)
	assert.Equal(t, tx.Hash(), hash)

	// same error text but the node never saw the transaction
	client = &fakeClient{sendErr: errors.New(`insufficient funds: result balance 0x0`)}
	_, err = NewBroadcaster(client).Broadcast(context.Background(), tx)
	require.ErrorContains(t, err, "insufficient funds")

	client = &fakeClient{sendErr: errors.New("nonce too low")}
	_, err = NewBroadcaster(client).Broadcast(context.Background(), tx)
	require.ErrorContains(t, err, "nonce too low")
}

func fastPoll() poll.Config {
	return poll.Config{Interval: time.Millisecond, Timeout: time.Second}
}

func TestConfirmAfterNotFound(t *testing.T) {
	mined := &evmTypes.Receipt{Status: evmTypes.ReceiptStatusSuccessful, BlockNumber: big.NewInt(42)}
	client := &fakeClient{
		receipts:   []*evmTypes.Receipt{nil, nil, mined},
		receiptErr: []error{ethereum.NotFound, ethereum.NotFound, nil},
	}

	r, err := NewReceiptWaiter(client, fastPoll()).Confirm(context.Background(), testTx().Hash())
	require.NoError(t, err)
	assert.Same(t, mined, r)
	assert.Equal(t, 3, client.lookups)
}

func TestConfirmReverted(t *testing.T) {
	failed := &evmTypes.Receipt{Status: evmTypes.ReceiptStatusFailed, BlockNumber: big.NewInt(42)}
	client := &fakeClient{
		receipts:   []*evmTypes.Receipt{failed},
		receiptErr: []error{nil},
	}

	r, err := NewReceiptWaiter(client, fastPoll()).Confirm(context.Background(), testTx().Hash())
	require.ErrorIs(t, err, ErrReverted)
	assert.Same(t, failed, r)
}

func TestConfirmRPCError(t *testing.T) {
	client := &fakeClient{
		receipts:   []*evmTypes.Receipt{nil, nil},
		receiptErr: []error{errors.New("connection refused"), nil},
	}

	_, err := NewReceiptWaiter(client, fastPoll()).Confirm(context.Background(), testTx().Hash())
	require.ErrorContains(t, err, "connection refused")
	assert.Equal(t, 1, client.lookups)
}
