package chainrpc

import (
	"context"
	"fmt"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Client adapts *ethclient.Client to the Reader interface. Its Reader
// methods emit exactly eth_getCode, eth_getStorageAt, and eth_call
// against the dialed node, matching the wire contract spec'd for the
// detector; BlockNumber additionally emits eth_blockNumber for the
// block collector.
type Client struct {
	eth *ethclient.Client
}

// Dial connects to the given JSON-RPC endpoint and wraps it as a Reader.
func Dial(rawurl string) (*Client, error) {
	eth, err := ethclient.Dial(rawurl)
	if err != nil {
		return nil, fmt.Errorf("dial rpc %q: %w", rawurl, err)
	}
	return &Client{eth: eth}, nil
}

// NewClient wraps an already-dialed ethclient.Client.
func NewClient(eth *ethclient.Client) *Client {
	return &Client{eth: eth}
}

// Close releases the underlying transport.
func (c *Client) Close() {
	c.eth.Close()
}

// BlockNumber returns the chain's current head height, satisfying
// collector.BlockNumberer.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	n, err := c.eth.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("eth_blockNumber: %w", err)
	}
	return n, nil
}

func (c *Client) CodeAt(ctx context.Context, addr common.Address, block BlockTag) ([]byte, error) {
	if h, ok := block.Hash(); ok {
		code, err := c.eth.CodeAtHash(ctx, addr, h)
		if err != nil {
			return nil, fmt.Errorf("eth_getCode(%s, %s): %w", addr, block, err)
		}
		return code, nil
	}
	code, err := c.eth.CodeAt(ctx, addr, block.Number())
	if err != nil {
		return nil, fmt.Errorf("eth_getCode(%s, %s): %w", addr, block, err)
	}
	return code, nil
}

func (c *Client) StorageAt(ctx context.Context, addr common.Address, slot common.Hash, block BlockTag) ([32]byte, error) {
	var word [32]byte
	raw, err := c.eth.StorageAt(ctx, addr, slot, block.Number())
	if err != nil {
		return word, fmt.Errorf("eth_getStorageAt(%s, %s, %s): %w", addr, slot, block, err)
	}
	// StorageAt may return fewer than 32 bytes for an unset slot on some
	// nodes; left-pad into the fixed-size word.
	copy(word[32-len(raw):], raw)
	return word, nil
}

func (c *Client) Call(ctx context.Context, to common.Address, data []byte, block BlockTag) ([]byte, error) {
	msg := ethereum.CallMsg{To: &to, Data: data}
	var (
		out []byte
		err error
	)
	if h, ok := block.Hash(); ok {
		out, err = c.eth.CallContractAtHash(ctx, msg, h)
	} else {
		out, err = c.eth.CallContract(ctx, msg, block.Number())
	}
	if err != nil {
		return nil, fmt.Errorf("eth_call(%s, %x, %s): %w", to, data, block, err)
	}
	return out, nil
}
