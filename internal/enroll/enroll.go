// Package enroll runs device setup: obtain (or reuse) the device key pair,
// register the public key with the provider, and materialize one WireGuard
// profile per relay.
package enroll

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"wg-relay-webui/internal/diaglog"
	"wg-relay-webui/internal/profiles"
	"wg-relay-webui/internal/relays"
)

// ErrAccountRequired indicates an empty account number was submitted.
var ErrAccountRequired = errors.New("account number is required")

// KeySource provides WireGuard key operations (implemented by the tunnel
// controller over the external wg tool).
type KeySource interface {
	GeneratePrivateKey() (string, error)
	PublicKey(privateKey string) (string, error)
}

// Registrar submits a public key and returns the assigned address string.
type Registrar interface {
	RegisterKey(ctx context.Context, account, publicKey string) (string, error)
}

// DirectoryFetcher retrieves the current relay directory.
type DirectoryFetcher interface {
	Fetch(ctx context.Context) ([]relays.Relay, error)
}

// Enroller orchestrates the setup flow.
type Enroller struct {
	store     *profiles.Store
	keys      KeySource
	registrar Registrar
	directory DirectoryFetcher
	cache     *relays.Store
	log       *diaglog.Logger
}

// NewEnroller wires the setup orchestrator. The cache may be nil.
func NewEnroller(store *profiles.Store, keys KeySource, registrar Registrar, directory DirectoryFetcher, cache *relays.Store, log *diaglog.Logger) *Enroller {
	if log == nil {
		log = diaglog.New("")
	}
	return &Enroller{
		store:     store,
		keys:      keys,
		registrar: registrar,
		directory: directory,
		cache:     cache,
		log:       log,
	}
}

// Result summarises a completed setup run.
type Result struct {
	ProfilesWritten int    `json:"profilesWritten"`
	AssignedAddress string `json:"assignedAddress"`
	ReusedKey       bool   `json:"reusedKey"`
}

// Run executes setup for account. cached is the relay list already on hand;
// when empty the directory is fetched (and the cache updated). Re-running
// setup reuses the private key found in any existing valid profile so the
// provider-side key registration stays stable.
func (e *Enroller) Run(ctx context.Context, account string, cached []relays.Relay) (Result, error) {
	account = strings.TrimSpace(account)
	if account == "" {
		return Result{}, ErrAccountRequired
	}

	privateKey, reused, err := e.store.FindExistingPrivateKey()
	if err != nil {
		return Result{}, fmt.Errorf("scan existing profiles: %w", err)
	}
	if !reused {
		privateKey, err = e.keys.GeneratePrivateKey()
		if err != nil {
			return Result{}, err
		}
	} else {
		e.log.Infof("setup: reusing private key from existing profile")
	}

	publicKey, err := e.keys.PublicKey(privateKey)
	if err != nil {
		return Result{}, err
	}

	address, err := e.registrar.RegisterKey(ctx, account, publicKey)
	if err != nil {
		return Result{}, err
	}

	list := cached
	if len(list) == 0 {
		list, err = e.directory.Fetch(ctx)
		if err != nil {
			return Result{}, fmt.Errorf("fetch relay directory: %w", err)
		}
		if e.cache != nil {
			if err := e.cache.Save(list, time.Now()); err != nil {
				e.log.Warnf("setup: cache relay directory failed: %v", err)
			}
		}
	}

	count, err := e.store.WriteAll(list, privateKey, address)
	if err != nil {
		return Result{ProfilesWritten: count, AssignedAddress: address, ReusedKey: reused},
			fmt.Errorf("materialize profiles (%d written): %w", count, err)
	}

	e.log.Infof("setup: wrote %d profiles", count)
	return Result{ProfilesWritten: count, AssignedAddress: address, ReusedKey: reused}, nil
}
