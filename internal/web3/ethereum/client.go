// Package ethereum implements the live balance backend on top of a
// JSON-RPC endpoint using go-ethereum.
package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	gethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	xerrors "NeoLink/internal/errors"
	"NeoLink/internal/web3"
)

const defaultRequestTimeout = 15 * time.Second

// erc20ABI covers the two read calls a balance lookup needs.
const erc20ABI = `[
  {"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"type":"function"},
  {"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"type":"function"}
]`

// Client reads native and ERC-20 balances from a single EVM chain.
type Client struct {
	eth     *ethclient.Client
	chain   web3.ChainConfig
	abi     abi.ABI
	timeout time.Duration
}

// NewClient dials the chain's RPC endpoint. The connection is lazy on
// the go-ethereum side, a bad URL surfaces on the first call.
func NewClient(cfg web3.ChainConfig) (*Client, error) {
	if cfg.RPCURL == "" {
		return nil, xerrors.New(xerrors.CodeInitFailure, "ethereum: rpc url is required")
	}
	eth, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.CodeInitFailure, err, "ethereum: dial rpc endpoint")
	}
	parsed, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return nil, xerrors.Wrap(xerrors.CodeInitFailure, err, "ethereum: parse erc20 abi")
	}
	return &Client{eth: eth, chain: cfg, abi: parsed, timeout: defaultRequestTimeout}, nil
}

// Balance implements web3.BalanceProvider. The native symbol reads the
// account balance, everything else goes through the token contract.
func (c *Client) Balance(ctx context.Context, address, symbol string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	account := common.HexToAddress(address)

	if symbol == strings.ToUpper(c.chain.NativeSymbol) {
		wei, err := c.eth.BalanceAt(ctx, account, nil)
		if err != nil {
			return 0, xerrors.Wrap(xerrors.CodeProviderUnavailable, err, "ethereum: read native balance")
		}
		return weiToUnit(wei, 18), nil
	}

	contract, ok := c.chain.TokenAddress(symbol)
	if !ok {
		return 0, xerrors.New(xerrors.CodeUnknownToken,
			fmt.Sprintf("ethereum: no contract registered for %s on %s", symbol, c.chain.Name))
	}
	token := common.HexToAddress(contract)

	raw, err := c.callUint(ctx, token, "balanceOf", account)
	if err != nil {
		return 0, xerrors.Wrap(xerrors.CodeProviderUnavailable, err, "ethereum: read token balance")
	}
	decimals, err := c.tokenDecimals(ctx, token)
	if err != nil {
		return 0, xerrors.Wrap(xerrors.CodeProviderUnavailable, err, "ethereum: read token decimals")
	}
	return weiToUnit(raw, decimals), nil
}

// GasPrice exposes the node's suggested price so the gas oracle can
// fall back to on-chain data.
func (c *Client) GasPrice(ctx context.Context) (*big.Int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	price, err := c.eth.SuggestGasPrice(ctx)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.CodeProviderUnavailable, err, "ethereum: suggest gas price")
	}
	return price, nil
}

// Close releases the underlying RPC connection.
func (c *Client) Close() {
	c.eth.Close()
}

func (c *Client) callUint(ctx context.Context, contract common.Address, method string, args ...interface{}) (*big.Int, error) {
	input, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := gethereum.CallMsg{To: &contract, Data: input}
	out, err := c.eth.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	values, err := c.abi.Unpack(method, out)
	if err != nil || len(values) == 0 {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	result, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unpack %s: unexpected type %T", method, values[0])
	}
	return result, nil
}

func (c *Client) tokenDecimals(ctx context.Context, contract common.Address) (int, error) {
	input, err := c.abi.Pack("decimals")
	if err != nil {
		return 0, fmt.Errorf("pack decimals: %w", err)
	}
	msg := gethereum.CallMsg{To: &contract, Data: input}
	out, err := c.eth.CallContract(ctx, msg, nil)
	if err != nil {
		return 0, fmt.Errorf("call decimals: %w", err)
	}
	values, err := c.abi.Unpack("decimals", out)
	if err != nil || len(values) == 0 {
		return 0, fmt.Errorf("unpack decimals: %w", err)
	}
	d, ok := values[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("unpack decimals: unexpected type %T", values[0])
	}
	return int(d), nil
}

func weiToUnit(raw *big.Int, decimals int) float64 {
	scale := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
	value := new(big.Float).SetInt(raw)
	out, _ := new(big.Float).Quo(value, scale).Float64()
	return out
}

var _ web3.BalanceProvider = (*Client)(nil)
