// Package chain owns the connection to the blockchain full node.
package chain

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/aptos-labs/aptos-go-sdk"
	"github.com/rs/zerolog"

	klog "github.com/Mahesh00234h/installment/internal/log"
)

// ErrResourceNotFound is returned when a requested account resource does not
// exist (the account never initialized the module's storage).
var ErrResourceNotFound = errors.New("resource not found")

// Client is a gateway to one full node. It holds no per-request state and is
// safe for concurrent use.
type Client struct {
	node   *aptos.Client
	logger zerolog.Logger
}

// New creates a gateway bound to the given node REST endpoint.
func New(nodeURL string) (*Client, error) {
	node, err := aptos.NewClient(aptos.NetworkConfig{
		Name:    "custom",
		NodeUrl: nodeURL,
	})
	if err != nil {
		return nil, fmt.Errorf("create node client: %w", err)
	}
	return &Client{
		node:   node,
		logger: klog.WithComponent("chain"),
	}, nil
}

// SubmitEntryFunction signs the entry-function call with the payer's key,
// submits it, and blocks until the transaction reaches a terminal on-chain
// state. The transaction hash is returned even when the wait or the
// transaction itself fails, so callers can log what was submitted.
func (c *Client) SubmitEntryFunction(payer *aptos.Account, entry *aptos.EntryFunction) (string, error) {
	resp, err := c.node.BuildSignAndSubmitTransaction(payer, aptos.TransactionPayload{Payload: entry})
	if err != nil {
		return "", fmt.Errorf("submit %s: %w", entry.Function, err)
	}

	c.logger.Debug().
		Str("function", entry.Function).
		Str("hash", resp.Hash).
		Msg("transaction submitted")

	txn, err := c.node.WaitForTransaction(resp.Hash)
	if err != nil {
		return resp.Hash, fmt.Errorf("wait for transaction %s: %w", resp.Hash, err)
	}
	if !txn.Success {
		// Surface the node's abort reason verbatim.
		return resp.Hash, fmt.Errorf("transaction %s failed: %s", resp.Hash, txn.VmStatus)
	}

	return resp.Hash, nil
}

// ReadResource fetches a named account resource as an untyped record.
func (c *Client) ReadResource(address aptos.AccountAddress, resourceType string) (map[string]any, error) {
	record, err := c.node.AccountResource(address, resourceType)
	if err != nil {
		var httpErr *aptos.HttpError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return nil, ErrResourceNotFound
		}
		return nil, fmt.Errorf("read resource %s: %w", resourceType, err)
	}
	return record, nil
}
