package compass

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Quantity is an integer field of an upstream payload. The API is not consistent
// about encoding: it sends JSON numbers, decimal strings and 0x-prefixed hex.
type Quantity struct {
	v *big.Int
}

// NewQuantity wraps a big.Int.
func NewQuantity(v *big.Int) Quantity {
	if v == nil {
		return Quantity{}
	}
	return Quantity{v: new(big.Int).Set(v)}
}

// IsSet reports whether the field was present in the payload.
func (q Quantity) IsSet() bool {
	return q.v != nil
}

// Big returns a copy of the value, or nil when unset.
func (q Quantity) Big() *big.Int {
	if q.v == nil {
		return nil
	}
	return new(big.Int).Set(q.v)
}

// Uint64 returns the value truncated to uint64, zero when unset.
func (q Quantity) Uint64() uint64 {
	if q.v == nil {
		return 0
	}
	return q.v.Uint64()
}

func (q Quantity) String() string {
	if q.v == nil {
		return ""
	}
	return q.v.String()
}

func (q Quantity) MarshalJSON() ([]byte, error) {
	if q.v == nil {
		return []byte("null"), nil
	}
	return json.Marshal(q.v.String())
}

func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		q.v = nil
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			q.v = nil
			return nil
		}
	}

	v, err := parseQuantity(raw)
	if err != nil {
		return err
	}
	q.v = v
	return nil
}

func parseQuantity(raw string) (*big.Int, error) {
	if strings.HasPrefix(raw, "0x") || strings.HasPrefix(raw, "0X") {
		v, err := hexutil.DecodeBig(strings.ToLower(raw))
		if err != nil {
			return nil, fmt.Errorf("invalid hex quantity %q: %w", raw, err)
		}
		return v, nil
	}
	v, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil, fmt.Errorf("invalid quantity %q", raw)
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("negative quantity %q", raw)
	}
	if v.BitLen() > 256 {
		return nil, fmt.Errorf("quantity %q exceeds 256 bits", raw)
	}
	return v, nil
}
