// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-tally/election"
	"github.com/danielhkuo/quickly-tally/models"
	"github.com/danielhkuo/quickly-tally/store"
)

var (
	ErrElectionNotFound    = errors.New("election not found")
	ErrAlreadyInstantiated = errors.New("election already instantiated")
	ErrInvalidElectionID   = errors.New("invalid election id")
)

const registryName = "instances/"

// Runtime owns the election instances kept in one store. Every entry
// point runs inside a single store transaction and calls are serialized.
type Runtime struct {
	store  store.Store
	clock  election.Clock
	logger *slog.Logger

	mu sync.Mutex
}

type Option func(*Runtime)

func WithClock(clock election.Clock) Option {
	return func(r *Runtime) { r.clock = clock }
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) { r.logger = logger }
}

func New(s store.Store, opts ...Option) *Runtime {
	r := &Runtime{store: s, clock: election.SystemClock{}}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Instantiate creates a new election instance with a random id and runs
// its initialization.
func (r *Runtime) Instantiate(ctx context.Context, sender models.Address, msg models.InstantiateMsg) (string, error) {
	id := uuid.NewString()
	if err := r.InstantiateWithID(ctx, id, sender, msg); err != nil {
		return "", err
	}
	return id, nil
}

// InstantiateWithID initializes the instance id. It fails with
// ErrAlreadyInstantiated if id was initialized before. Ids must be
// non-empty and must not contain "/".
func (r *Runtime) InstantiateWithID(ctx context.Context, id string, sender models.Address, msg models.InstantiateMsg) error {
	if id == "" || strings.Contains(id, "/") {
		return ErrInvalidElectionID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.store.Update(ctx, func(txn store.Txn) error {
		registry := r.registry(txn)
		exists, err := registry.Contains(id)
		if err != nil {
			return fmt.Errorf("failed to check registry: %w", err)
		}
		if exists {
			return ErrAlreadyInstantiated
		}

		inst := models.Instance{ID: id, Creator: sender, CreatedAt: r.clock.Now().UTC()}
		if err := registry.Insert(id, inst); err != nil {
			return fmt.Errorf("failed to register election: %w", err)
		}
		return r.contract(txn, id).Instantiate(sender, msg)
	})
}

// Execute runs a state-changing message on behalf of sender, whose
// address the caller has already authenticated.
func (r *Runtime) Execute(ctx context.Context, id string, sender models.Address, msg models.ExecuteMsg) error {
	switch {
	case msg.SubmitVote != nil:
		candidateID := msg.SubmitVote.CandidateID
		return r.update(ctx, id, func(c *election.Contract) error {
			return c.SubmitVote(sender, candidateID)
		})
	default:
		return fmt.Errorf("%w: empty execute message", models.ErrMalformedMessage)
	}
}

// Query answers a read-only message. The result is the bare value:
// string, []models.Candidate, uint32, uint64 or []models.CandidateResult.
func (r *Runtime) Query(ctx context.Context, id string, q models.QueryMsg) (any, error) {
	var out any
	err := r.view(ctx, id, func(c *election.Contract) error {
		var err error
		switch q {
		case models.QueryGetName:
			out, err = c.Name()
		case models.QueryGetCandidateList:
			out, err = c.Candidates()
		case models.QueryGetVotersCount:
			out, err = c.VotersCount()
		case models.QueryGetCloseTime:
			out, err = c.CloseTime()
		case models.QueryGetResults:
			out, err = c.Results()
		default:
			err = fmt.Errorf("%w: %q", models.ErrUnknownMessage, string(q))
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Summary reads everything about an election except its results in one
// transaction.
func (r *Runtime) Summary(ctx context.Context, id string) (models.ElectionSummary, error) {
	summary := models.ElectionSummary{ID: id}
	err := r.view(ctx, id, func(c *election.Contract) error {
		var err error
		if summary.Name, err = c.Name(); err != nil {
			return err
		}
		if summary.Candidates, err = c.Candidates(); err != nil {
			return err
		}
		if summary.VotersCount, err = c.VotersCount(); err != nil {
			return err
		}
		if summary.CloseTime, err = c.CloseTime(); err != nil {
			return err
		}
		summary.Status, err = c.Status()
		return err
	})
	if err != nil {
		return models.ElectionSummary{}, err
	}
	return summary, nil
}

// Instance returns the registry entry of id.
func (r *Runtime) Instance(ctx context.Context, id string) (models.Instance, error) {
	if id == "" {
		return models.Instance{}, ErrElectionNotFound
	}
	var inst models.Instance
	err := r.store.View(ctx, func(txn store.Txn) error {
		var err error
		inst, err = r.registry(txn).Get(id)
		if errors.Is(err, store.ErrNotFound) {
			return ErrElectionNotFound
		}
		return err
	})
	return inst, err
}

func (r *Runtime) update(ctx context.Context, id string, fn func(*election.Contract) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.store.Update(ctx, func(txn store.Txn) error {
		if err := r.mustExist(txn, id); err != nil {
			return err
		}
		return fn(r.contract(txn, id))
	})
}

func (r *Runtime) view(ctx context.Context, id string, fn func(*election.Contract) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.store.View(ctx, func(txn store.Txn) error {
		if err := r.mustExist(txn, id); err != nil {
			return err
		}
		return fn(r.contract(txn, id))
	})
}

func (r *Runtime) mustExist(txn store.Txn, id string) error {
	if id == "" {
		return ErrElectionNotFound
	}
	exists, err := r.registry(txn).Contains(id)
	if err != nil {
		return fmt.Errorf("failed to check registry: %w", err)
	}
	if !exists {
		return ErrElectionNotFound
	}
	return nil
}

func (r *Runtime) registry(txn store.Txn) *store.Table[string, models.Instance] {
	return store.NewTable[string, models.Instance](txn, registryName, store.StringCodec[string]{}, store.JSONCodec[models.Instance]{})
}

func (r *Runtime) contract(txn store.Txn, id string) *election.Contract {
	return election.New(store.Prefixed(txn, InstancePrefix(id)), r.clock, r.logger.With("election_id", id))
}

// InstancePrefix is the key prefix holding all state of election id.
func InstancePrefix(id string) []byte {
	return []byte("e/" + id + "/")
}
