// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-tally/auth"
	"github.com/danielhkuo/quickly-tally/cliparse"
	"github.com/danielhkuo/quickly-tally/host"
	"github.com/danielhkuo/quickly-tally/models"
	"github.com/danielhkuo/quickly-tally/store"
)

// Close times used across tests
const (
	FutureCloseTime uint64 = 2682000000
	PastCloseTime   uint64 = 4195
)

// Now is the starting time of every FixedClock.
var Now = time.Unix(1700000000, 0).UTC()

// FixedClock is an election.Clock that only moves when told to.
type FixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func NewFixedClock() *FixedClock {
	return &FixedClock{t: Now}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Set moves the clock to unix seconds secs.
func (c *FixedClock) Set(secs uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = time.Unix(int64(secs), 0).UTC()
}

// SetupTestStore opens a fresh in-memory SQLite store
func SetupTestStore(t *testing.T) store.Store {
	t.Helper()

	s, err := store.Open(store.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// SetupTestRuntime returns a runtime over a fresh test store and the
// clock it reads.
func SetupTestRuntime(t *testing.T) (*host.Runtime, *FixedClock) {
	t.Helper()

	clock := NewFixedClock()
	return host.New(SetupTestStore(t), host.WithClock(clock)), clock
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          3318,
		StorageDriver: store.DriverSQLite,
		StorageURL:    ":memory:",
		VoterKeySalt:  "test-voter-salt",
		AdminKeySalt:  "test-admin-salt",
		LogLevel:      "info",
	}
}

// TestElection is an election created through the runtime, with the keys
// a client would have received.
type TestElection struct {
	ID        string
	AdminKey  string
	VoterKeys map[models.Address]string
}

// AliceAndBob is the two-candidate, three-voter election used by most tests.
func AliceAndBob(closeTime uint64) models.InstantiateMsg {
	return models.InstantiateMsg{
		Name: "Test voting 001",
		Candidates: []models.Candidate{
			{ID: 0, Name: "Alice"},
			{ID: 1, Name: "Bob"},
		},
		Voters:    []models.Address{"voter1", "voter2", "voter3"},
		CloseTime: closeTime,
	}
}

// CreateTestElection instantiates msg and derives the admin and voter keys
func CreateTestElection(t *testing.T, rt *host.Runtime, cfg cliparse.Config, msg models.InstantiateMsg) TestElection {
	t.Helper()

	id, err := rt.Instantiate(context.Background(), "creator", msg)
	if err != nil {
		t.Fatalf("Failed to create test election: %v", err)
	}

	e := TestElection{
		ID:        id,
		AdminKey:  auth.GenerateAdminKey(id, cfg.AdminKeySalt),
		VoterKeys: make(map[models.Address]string, len(msg.Voters)),
	}
	for _, v := range msg.Voters {
		e.VoterKeys[v] = auth.GenerateVoterKey(id, string(v), cfg.VoterKeySalt)
	}
	return e
}

// VoterHeaders returns the headers that authenticate address
func (e TestElection) VoterHeaders(address models.Address) map[string]string {
	return map[string]string{
		"X-Voter-Address": string(address),
		"X-Voter-Key":     e.VoterKeys[address],
	}
}

// MakeRequest creates an HTTP test request. A []byte or string body is
// sent as is, anything else is JSON encoded.
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	switch b := body.(type) {
	case nil:
		req = httptest.NewRequest(method, path, nil)
	case []byte:
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	case string:
		req = httptest.NewRequest(method, path, bytes.NewReader([]byte(b)))
		req.Header.Set("Content-Type", "application/json")
	default:
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
