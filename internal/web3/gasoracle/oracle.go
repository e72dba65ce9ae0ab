// Package gasoracle resolves network fee tiers, preferring a gas
// oracle API and degrading through on-chain data to static values.
package gasoracle

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"net/http"
	"net/url"
	"strconv"
	"time"

	xerrors "NeoLink/internal/errors"
	"NeoLink/internal/web3"
	"NeoLink/pkg/logger"
)

const defaultTimeout = 10 * time.Second

// Static tiers used when every live source is unreachable.
const (
	staticSafe     = 12
	staticStandard = 15
	staticFast     = 20
)

// ChainEstimator is the slice of the RPC client the oracle needs for
// its on-chain fallback.
type ChainEstimator interface {
	GasPrice(ctx context.Context) (*big.Int, error)
}

// Config controls the oracle endpoint. The URL is an Etherscan-style
// gastracker endpoint; the API key raises its rate limit but is not
// required.
type Config struct {
	URL     string        `json:"url"`
	APIKey  string        `json:"-"`
	Timeout time.Duration `json:"timeout"`
}

// Oracle resolves gas tiers with a fixed source priority: keyed oracle
// request, unkeyed oracle request, on-chain suggestion, static values.
type Oracle struct {
	cfg    Config
	client *http.Client
	chain  ChainEstimator
}

// NewOracle builds an oracle. The chain estimator may be nil when no
// RPC endpoint is configured.
func NewOracle(cfg Config, chain ChainEstimator) *Oracle {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Oracle{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		chain:  chain,
	}
}

// GasTiers implements web3.GasProvider. It never fails: the static
// tier set is the terminal fallback.
func (o *Oracle) GasTiers(ctx context.Context) (web3.GasTiers, error) {
	if o.cfg.URL != "" {
		if o.cfg.APIKey != "" {
			if tiers, err := o.fetch(ctx, o.cfg.APIKey); err == nil {
				return tiers, nil
			} else {
				logger.Named("gasoracle").Warn("keyed oracle request failed", "error", err)
			}
		}
		if tiers, err := o.fetch(ctx, ""); err == nil {
			return tiers, nil
		} else {
			logger.Named("gasoracle").Warn("oracle request failed", "error", err)
		}
	}
	if o.chain != nil {
		if tiers, err := o.fromChain(ctx); err == nil {
			return tiers, nil
		} else {
			logger.Named("gasoracle").Warn("on-chain gas estimate failed", "error", err)
		}
	}
	return web3.GasTiers{Safe: staticSafe, Standard: staticStandard, Fast: staticFast, Source: "static"}, nil
}

// oracleResponse mirrors the Etherscan gastracker payload.
type oracleResponse struct {
	Status string `json:"status"`
	Result struct {
		SafeGasPrice    string `json:"SafeGasPrice"`
		ProposeGasPrice string `json:"ProposeGasPrice"`
		FastGasPrice    string `json:"FastGasPrice"`
	} `json:"result"`
}

func (o *Oracle) fetch(ctx context.Context, apiKey string) (web3.GasTiers, error) {
	endpoint, err := url.Parse(o.cfg.URL)
	if err != nil {
		return web3.GasTiers{}, xerrors.Wrap(xerrors.CodeProviderUnavailable, err, "gasoracle: parse endpoint")
	}
	q := endpoint.Query()
	if apiKey != "" {
		q.Set("apikey", apiKey)
	}
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return web3.GasTiers{}, xerrors.Wrap(xerrors.CodeProviderUnavailable, err, "gasoracle: build request")
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return web3.GasTiers{}, xerrors.Wrap(xerrors.CodeProviderUnavailable, err, "gasoracle: call oracle")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return web3.GasTiers{}, xerrors.New(xerrors.CodeProviderUnavailable,
			fmt.Sprintf("gasoracle: oracle returned status %d", resp.StatusCode))
	}

	var payload oracleResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return web3.GasTiers{}, xerrors.Wrap(xerrors.CodeProviderUnavailable, err, "gasoracle: decode response")
	}
	if payload.Status != "1" {
		return web3.GasTiers{}, xerrors.New(xerrors.CodeProviderUnavailable, "gasoracle: oracle reported failure")
	}

	safe, err1 := parseGwei(payload.Result.SafeGasPrice)
	standard, err2 := parseGwei(payload.Result.ProposeGasPrice)
	fast, err3 := parseGwei(payload.Result.FastGasPrice)
	if err1 != nil || err2 != nil || err3 != nil {
		return web3.GasTiers{}, xerrors.New(xerrors.CodeProviderUnavailable, "gasoracle: malformed tier values")
	}
	return web3.GasTiers{Safe: safe, Standard: standard, Fast: fast, Source: "oracle"}, nil
}

// fromChain scales the node suggestion into three tiers.
func (o *Oracle) fromChain(ctx context.Context) (web3.GasTiers, error) {
	price, err := o.chain.GasPrice(ctx)
	if err != nil {
		return web3.GasTiers{}, err
	}
	gwei := new(big.Float).Quo(new(big.Float).SetInt(price), big.NewFloat(1e9))
	standard, _ := gwei.Float64()
	return web3.GasTiers{
		Safe:     int64(math.Round(standard * 0.8)),
		Standard: int64(math.Round(standard)),
		Fast:     int64(math.Round(standard * 1.2)),
		Source:   "chain",
	}, nil
}

func parseGwei(s string) (int64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int64(math.Round(v)), nil
}

var _ web3.GasProvider = (*Oracle)(nil)
