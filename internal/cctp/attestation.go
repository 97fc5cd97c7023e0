// Package cctp polls Circle's attestation service for burned USDC messages.
package cctp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"compass-earn/internal/constant"
	"compass-earn/internal/poll"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest/httpc"
)

// Message is one CCTP message of a burn transaction.
type Message struct {
	Message     string `json:"message"`
	Attestation string `json:"attestation"`
	EventNonce  string `json:"eventNonce"`
	Status      string `json:"status"`
	CctpVersion int    `json:"cctpVersion,omitempty"`
}

// Complete reports whether the message carries a usable attestation.
func (m *Message) Complete() bool {
	return m.Status == constant.AttestationComplete &&
		m.Attestation != "" && m.Attestation != constant.AttestationPending
}

// MessageBytes decodes the attested message.
func (m *Message) MessageBytes() ([]byte, error) {
	return hexutil.Decode(m.Message)
}

// AttestationBytes decodes the attestation signature set.
func (m *Message) AttestationBytes() ([]byte, error) {
	return hexutil.Decode(m.Attestation)
}

type messagesResponse struct {
	Messages []Message `json:"messages"`
}

type Client struct {
	baseURL string
	service httpc.Service
	poll    poll.Config
}

func NewClient(baseURL string, c poll.Config) *Client {
	return NewClientWithHTTP(baseURL, c, &http.Client{Timeout: 30 * time.Second})
}

func NewClientWithHTTP(baseURL string, c poll.Config, cli *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		service: httpc.NewServiceWithClient("circle-iris", cli),
		poll:    c,
	}
}

// Message fetches the first message of the burn in txHash once. A burn that the
// service has not indexed yet, or whose attestation is still pending, yields
// poll.ErrNotReady together with whatever was returned.
func (c *Client) Message(ctx context.Context, sourceDomain uint32, txHash common.Hash) (*Message, error) {
	q := url.Values{}
	q.Set("transactionHash", txHash.Hex())
	u := fmt.Sprintf("%s/v2/messages/%d?%s", c.baseURL, sourceDomain, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.service.DoRequest(req)
	if err != nil {
		return nil, fmt.Errorf("circle attestation api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read attestation response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, poll.ErrNotReady
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("circle attestation api error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed messagesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode attestation response: %w", err)
	}
	if len(parsed.Messages) == 0 {
		return nil, poll.ErrNotReady
	}
	msg := &parsed.Messages[0]
	if !msg.Complete() {
		return msg, poll.ErrNotReady
	}
	return msg, nil
}

// WaitForAttestation polls Message until the attestation is complete.
func (c *Client) WaitForAttestation(ctx context.Context, sourceDomain uint32, txHash common.Hash) (*Message, error) {
	logger := logx.WithContext(ctx)
	attempt := 0
	msg, err := poll.Until(ctx, c.poll, func(ctx context.Context) (*Message, error) {
		attempt++
		msg, err := c.Message(ctx, sourceDomain, txHash)
		if err == poll.ErrNotReady {
			status := "not indexed"
			if msg != nil {
				status = msg.Status
			}
			logger.Infof("等待 CCTP attestation (第 %d 次): %s", attempt, status)
		}
		return msg, err
	})
	if err != nil {
		return nil, fmt.Errorf("attestation for %s: %w", txHash.Hex(), err)
	}
	logger.Infof("CCTP attestation 已完成, 共查询 %d 次", attempt)
	return msg, nil
}
