// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/quickly-tally/auth"
	"github.com/danielhkuo/quickly-tally/models"
	"github.com/danielhkuo/quickly-tally/testutil"
)

// TestFullVotingWorkflow tests the complete end-to-end workflow:
// 1. Create election
// 2. Check summary
// 3. Voters submit votes
// 4. Rejected attempts leave tallies unchanged
// 5. Results stay sealed while open
// 6. Close time passes
// 7. Verify results
func TestFullVotingWorkflow(t *testing.T) {
	cfg := testutil.GetTestConfig()
	rt, clock := testutil.SetupTestRuntime(t)
	electionHandler := NewElectionHandler(rt, cfg)
	votingHandler := NewVotingHandler(rt, cfg)
	resultsHandler := NewResultsHandler(rt)

	// Step 1: Create an election
	req := testutil.MakeRequest("POST", "/elections", `{
		"name": "Integration Test Election",
		"candidates": [{"id": 0, "name": "Alice"}, {"id": 1, "name": "Bob"}],
		"voters": ["voter1", "voter2", "voter3"],
		"close_time": 2682000000
	}`, nil)
	w := httptest.NewRecorder()
	electionHandler.CreateElection(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 1 - Create election failed: %d - %s", w.Code, w.Body.String())
	}

	var created models.CreateElectionResponse
	json.NewDecoder(w.Body).Decode(&created)
	electionID := created.ElectionID
	if electionID == "" || created.AdminKey == "" || len(created.VoterKeys) != 3 {
		t.Fatalf("Step 1 - Incomplete response: %+v", created)
	}
	t.Logf("Step 1 - Created election: %s", electionID)

	voterHeaders := func(addr models.Address) map[string]string {
		return map[string]string{"X-Voter-Address": string(addr), "X-Voter-Key": created.VoterKeys[addr]}
	}
	vote := func(addr models.Address, body string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/elections/"+electionID+"/votes", body, voterHeaders(addr))
		req.SetPathValue("id", electionID)
		w := httptest.NewRecorder()
		votingHandler.SubmitVote(w, req)
		return w
	}

	// Step 2: Summary shows an open election with three voters
	req = testutil.MakeRequest("GET", "/elections/"+electionID, nil, nil)
	req.SetPathValue("id", electionID)
	w = httptest.NewRecorder()
	electionHandler.GetElection(w, req)
	var summary models.ElectionSummary
	testutil.AssertJSON(t, w, &summary)
	if summary.Status != models.StatusOpen || summary.VotersCount != 3 {
		t.Fatalf("Step 2 - Unexpected summary: %+v", summary)
	}

	// Step 3: Every voter votes once
	for addr, candidate := range map[models.Address]string{"voter1": "1", "voter2": "0", "voter3": "1"} {
		if w := vote(addr, `{"candidate_id":`+candidate+`}`); w.Code != http.StatusOK {
			t.Fatalf("Step 3 - Vote by %s failed: %d - %s", addr, w.Code, w.Body.String())
		}
	}

	// Step 4: Repeat votes are rejected
	if w := vote("voter1", `{"candidate_id":0}`); w.Code != http.StatusConflict {
		t.Errorf("Step 4 - Expected 409 for repeat vote, got %d", w.Code)
	}

	// Step 5: Results are sealed while open
	getResults := func() *httptest.ResponseRecorder {
		req := testutil.MakeRequest("GET", "/elections/"+electionID+"/results", nil, nil)
		req.SetPathValue("id", electionID)
		w := httptest.NewRecorder()
		resultsHandler.GetResults(w, req)
		return w
	}
	if w := getResults(); w.Code != http.StatusForbidden {
		t.Errorf("Step 5 - Expected 403 while open, got %d", w.Code)
	}

	// Step 6: Close time passes
	clock.Set(testutil.FutureCloseTime)
	if w := vote("voter2", `{"candidate_id":1}`); w.Code != http.StatusConflict {
		t.Errorf("Step 6 - Expected 409 after close, got %d", w.Code)
	}

	// Step 7: Verify results
	w = getResults()
	testutil.AssertStatus(t, w, http.StatusOK)
	var results models.ResultsResponse
	testutil.AssertJSON(t, w, &results)

	want := []models.CandidateResult{{ID: 0, Votes: 1}, {ID: 1, Votes: 2}}
	if len(results.Results) != len(want) {
		t.Fatalf("Step 7 - Expected %d results, got %d", len(want), len(results.Results))
	}
	for i := range want {
		if results.Results[i] != want[i] {
			t.Errorf("Step 7 - Result %d = %+v, want %+v", i, results.Results[i], want[i])
		}
	}
}

// TestEmptyVoterListWorkflow covers an election nobody may vote in.
func TestEmptyVoterListWorkflow(t *testing.T) {
	cfg := testutil.GetTestConfig()
	rt, _ := testutil.SetupTestRuntime(t)
	votingHandler := NewVotingHandler(rt, cfg)
	resultsHandler := NewResultsHandler(rt)

	e := testutil.CreateTestElection(t, rt, cfg, models.InstantiateMsg{
		Name:       "Nobody votes",
		Candidates: []models.Candidate{{ID: 0, Name: "Alice"}},
		CloseTime:  testutil.FutureCloseTime,
	})

	req := testutil.MakeRequest("GET", "/elections/"+e.ID+"/voters/count", nil, nil)
	req.SetPathValue("id", e.ID)
	w := httptest.NewRecorder()
	resultsHandler.GetVotersCount(w, req)
	var count models.VotersCountResponse
	testutil.AssertJSON(t, w, &count)
	if count.Count != 0 {
		t.Errorf("Expected 0 voters, got %d", count.Count)
	}

	// Even a correctly signed key does not make an address eligible
	headers := map[string]string{
		"X-Voter-Address": "voter1",
		"X-Voter-Key":     auth.GenerateVoterKey(e.ID, "voter1", cfg.VoterKeySalt),
	}
	req = testutil.MakeRequest("POST", "/elections/"+e.ID+"/votes", `{"candidate_id":0}`, headers)
	req.SetPathValue("id", e.ID)
	w = httptest.NewRecorder()
	votingHandler.SubmitVote(w, req)
	testutil.AssertStatus(t, w, http.StatusForbidden)
}
