package rpc

import (
	"context"

	"github.com/crytic/fuzz-cli/logging"
	"github.com/crytic/fuzz-cli/logging/colors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
)

// MaxBlocks is the largest chain the seed state may be built from. Larger chains are most likely public networks
// passed by mistake.
const MaxBlocks = 5000

// ConnectionError is returned when the node cannot be reached.
type ConnectionError struct {
	URL string
	Err error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	return "Unable to connect to the RPC endpoint " + e.URL
}

// Unwrap returns the transport error.
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// TooManyBlocksError is returned when the chain holds more than MaxBlocks blocks.
type TooManyBlocksError struct {
	URL    string
	Blocks uint64
}

// Error implements the error interface.
func (e *TooManyBlocksError) Error() string {
	return "Number of blocks existing on the ethereum node running at " + e.URL +
		" can not exceed 5000. Did you pass the correct RPC url?"
}

// Client fetches the chain state a campaign is seeded with from an Ethereum node.
type Client struct {
	// url is the endpoint of the node.
	url string

	// client is the underlying JSON-RPC client.
	client *gethrpc.Client

	// logger describes the Client's log object that can be used to log important events
	logger *logging.Logger
}

// Dial creates a Client for the node at url. For HTTP endpoints no connection is made until the first call.
func Dial(ctx context.Context, url string) (*Client, error) {
	client, err := gethrpc.DialContext(ctx, url)
	if err != nil {
		return nil, &ConnectionError{URL: url, Err: err}
	}
	return &Client{
		url:    url,
		client: client,
		logger: logging.GlobalLogger.NewSubLogger("module", logging.RPC_SERVICE),
	}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() {
	c.client.Close()
}

// call performs a JSON-RPC call. Errors reported by the node are returned as they are, anything else means the node
// could not be reached.
func (c *Client) call(ctx context.Context, result any, method string, args ...any) error {
	c.logger.Trace("Calling ", colors.Bold, method, colors.Reset, " on ", c.url)
	err := c.client.CallContext(ctx, result, method, args...)
	if err == nil {
		return nil
	}
	var rpcErr gethrpc.Error
	if errors.As(err, &rpcErr) {
		return errors.Wrapf(err, "%s failed", method)
	}
	return &ConnectionError{URL: c.url, Err: err}
}

// ContractExists returns whether code is deployed at address in the latest block.
func (c *Client) ContractExists(ctx context.Context, address string) (bool, error) {
	if !common.IsHexAddress(address) {
		return false, errors.Errorf("%q is not a valid address", address)
	}
	var code hexutil.Bytes
	if err := c.call(ctx, &code, "eth_getCode", common.HexToAddress(address), "latest"); err != nil {
		return false, err
	}
	return len(code) > 0, nil
}

// LatestBlockNumber returns the number of the latest block.
func (c *Client) LatestBlockNumber(ctx context.Context) (uint64, error) {
	var number hexutil.Uint64
	if err := c.call(ctx, &number, "eth_blockNumber"); err != nil {
		return 0, err
	}
	return uint64(number), nil
}

// Block is a block as returned by eth_getBlockByNumber with full transaction objects.
type Block struct {
	Number       hexutil.Uint64   `json:"number"`
	Transactions []map[string]any `json:"transactions"`
}

// GetBlock returns block number n with full transactions, or nil if the node does not know it.
func (c *Client) GetBlock(ctx context.Context, n uint64) (*Block, error) {
	var block *Block
	if err := c.call(ctx, &block, "eth_getBlockByNumber", hexutil.EncodeUint64(n), true); err != nil {
		return nil, err
	}
	return block, nil
}

// GetAllBlocks returns every block from genesis to the latest one. Chains longer than MaxBlocks are refused.
func (c *Client) GetAllBlocks(ctx context.Context) ([]*Block, error) {
	latest, err := c.LatestBlockNumber(ctx)
	if err != nil {
		return nil, err
	}
	count := latest + 1
	if count > MaxBlocks {
		return nil, &TooManyBlocksError{URL: c.url, Blocks: count}
	}

	c.logger.Debug("Fetching ", count, " blocks from ", c.url)
	blocks := make([]*Block, 0, count)
	for n := uint64(0); n < count; n++ {
		block, err := c.GetBlock(ctx, n)
		if err != nil {
			return nil, err
		}
		if block == nil {
			return nil, errors.Errorf("block %d is missing on the node at %s", n, c.url)
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}
