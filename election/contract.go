// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"cmp"
	"errors"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/danielhkuo/quickly-tally/models"
	"github.com/danielhkuo/quickly-tally/store"
)

// Storage layout inside one election instance
const (
	recordKey = "config"
	tallyName = "candidate_result_state/"
	voterName = "voters_state/"
)

// Clock supplies the current time for the open/closed decision.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Contract is the election state machine bound to one invocation's
// transaction. Build a new one for every call.
type Contract struct {
	clock   Clock
	logger  *slog.Logger
	record  *store.Item[models.ElectionRecord]
	tallies *store.Table[uint16, uint32]
	voters  *store.Table[models.Address, bool]
}

// New binds the election tables to txn, which must already be scoped to
// a single election instance.
func New(txn store.Txn, clock Clock, logger *slog.Logger) *Contract {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Contract{
		clock:   clock,
		logger:  logger,
		record:  store.NewItem[models.ElectionRecord](txn, recordKey, store.JSONCodec[models.ElectionRecord]{}),
		tallies: store.NewTable[uint16, uint32](txn, tallyName, store.Uint16Codec{}, store.Uint32Codec{}),
		voters:  store.NewTable[models.Address, bool](txn, voterName, store.StringCodec[models.Address]{}, store.BoolCodec{}),
	}
}

// Instantiate persists the election record and seeds a zero tally per
// candidate and an unvoted status per voter. Duplicate candidate ids or
// voter addresses are rejected before anything is written.
func (c *Contract) Instantiate(sender models.Address, msg models.InstantiateMsg) error {
	seenCandidates := make(map[uint16]struct{}, len(msg.Candidates))
	for _, cand := range msg.Candidates {
		if _, ok := seenCandidates[cand.ID]; ok {
			return ErrDuplicateCandidate
		}
		seenCandidates[cand.ID] = struct{}{}
	}
	seenVoters := make(map[models.Address]struct{}, len(msg.Voters))
	for _, voter := range msg.Voters {
		if voter == "" {
			return ErrInvalidVoter
		}
		if _, ok := seenVoters[voter]; ok {
			return ErrDuplicateVoter
		}
		seenVoters[voter] = struct{}{}
	}

	record := models.ElectionRecord{
		Name:       msg.Name,
		Candidates: msg.Candidates,
		Voters:     msg.Voters,
		CloseTime:  msg.CloseTime,
	}
	if err := c.record.Save(record); err != nil {
		return err
	}

	for _, cand := range msg.Candidates {
		if err := c.tallies.Insert(cand.ID, 0); err != nil {
			return err
		}
	}

	for _, voter := range msg.Voters {
		if err := c.voters.Insert(voter, false); err != nil {
			return err
		}
	}

	c.logger.Info("election instantiated",
		"creator", sender,
		"name", msg.Name,
		"candidates", len(msg.Candidates),
		"voters", len(msg.Voters),
		"close_time", msg.CloseTime,
	)
	return nil
}

// SubmitVote records one vote. Checks run in a fixed order and the first
// failing one decides the error: closed, not eligible, already voted,
// unknown candidate. Nothing is written unless all pass.
func (c *Contract) SubmitVote(sender models.Address, candidateID uint16) error {
	record, err := c.loadRecord("submit vote")
	if err != nil {
		return err
	}
	if closed(c.clock.Now(), record.CloseTime) {
		return ErrVotingClosed
	}

	if sender == "" {
		return ErrNotEligible
	}
	eligible, err := c.voters.Contains(sender)
	if err != nil {
		return err
	}
	if !eligible {
		return ErrNotEligible
	}

	voted, err := c.voters.Get(sender)
	if err != nil {
		return checkStored("load voter status", err)
	}
	if voted {
		return ErrAlreadyVoted
	}

	count, err := c.tallies.Get(candidateID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrInvalidCandidate
	}
	if err != nil {
		return checkStored("load tally", err)
	}
	if count == math.MaxUint32 {
		return invariant("increment tally", errors.New("vote count overflow"))
	}

	if err := c.voters.Insert(sender, true); err != nil {
		return err
	}
	if err := c.tallies.Insert(candidateID, count+1); err != nil {
		return err
	}

	c.logger.Debug("vote accepted", "voter", sender, "candidate_id", candidateID)
	return nil
}

func (c *Contract) Name() (string, error) {
	record, err := c.loadRecord("get name")
	if err != nil {
		return "", err
	}
	return record.Name, nil
}

// Candidates returns the candidate list in instantiation order.
func (c *Contract) Candidates() ([]models.Candidate, error) {
	record, err := c.loadRecord("get candidate list")
	if err != nil {
		return nil, err
	}
	if record.Candidates == nil {
		return []models.Candidate{}, nil
	}
	return record.Candidates, nil
}

// VotersCount counts registered voters, voted or not, by walking the
// voter table.
func (c *Contract) VotersCount() (uint32, error) {
	n, err := c.voters.Count()
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (c *Contract) CloseTime() (uint64, error) {
	record, err := c.loadRecord("get close time")
	if err != nil {
		return 0, err
	}
	return record.CloseTime, nil
}

// Status is StatusOpen until the close time, StatusClosed from then on.
func (c *Contract) Status() (string, error) {
	record, err := c.loadRecord("get status")
	if err != nil {
		return "", err
	}
	if closed(c.clock.Now(), record.CloseTime) {
		return models.StatusClosed, nil
	}
	return models.StatusOpen, nil
}

// Results returns every tally sorted by candidate id. It fails with
// ErrVotingNotClosed while voting is open.
func (c *Contract) Results() ([]models.CandidateResult, error) {
	record, err := c.loadRecord("get results")
	if err != nil {
		return nil, err
	}
	if !closed(c.clock.Now(), record.CloseTime) {
		return nil, ErrVotingNotClosed
	}

	results := make([]models.CandidateResult, 0, len(record.Candidates))
	err = c.tallies.Iterate(func(id uint16, votes uint32) error {
		results = append(results, models.CandidateResult{ID: id, Votes: votes})
		return nil
	})
	if err != nil {
		return nil, checkStored("iterate tallies", err)
	}

	slices.SortFunc(results, func(a, b models.CandidateResult) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return results, nil
}

func (c *Contract) loadRecord(op string) (models.ElectionRecord, error) {
	record, err := c.record.Load()
	if err != nil {
		return models.ElectionRecord{}, checkStored(op, err)
	}
	return record, nil
}

// checkStored turns missing or undecodable data into an invariant error
// and passes storage failures through unchanged.
func checkStored(op string, err error) error {
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrCorrupt) {
		return invariant(op, err)
	}
	return err
}

// closed reports whether now is at or past closeTime (unix seconds).
func closed(now time.Time, closeTime uint64) bool {
	secs := now.Unix()
	return secs >= 0 && uint64(secs) >= closeTime
}
