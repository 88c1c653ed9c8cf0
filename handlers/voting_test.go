// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/quickly-tally/auth"
	"github.com/danielhkuo/quickly-tally/models"
	"github.com/danielhkuo/quickly-tally/testutil"
)

func submitVote(h *VotingHandler, electionID string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	req := testutil.MakeRequest("POST", "/elections/"+electionID+"/votes", body, headers)
	req.SetPathValue("id", electionID)
	w := httptest.NewRecorder()
	h.SubmitVote(w, req)
	return w
}

func TestSubmitVote(t *testing.T) {
	cfg := testutil.GetTestConfig()
	rt, _ := testutil.SetupTestRuntime(t)
	handler := NewVotingHandler(rt, cfg)
	e := testutil.CreateTestElection(t, rt, cfg, testutil.AliceAndBob(testutil.FutureCloseTime))

	outsider := map[string]string{
		"X-Voter-Address": "non-eligible-voter",
		"X-Voter-Key":     auth.GenerateVoterKey(e.ID, "non-eligible-voter", cfg.VoterKeySalt),
	}

	// order matters: later cases depend on earlier votes
	tests := []struct {
		name           string
		headers        map[string]string
		body           interface{}
		expectedStatus int
	}{
		{"first vote", e.VoterHeaders("voter2"), `{"candidate_id":0}`, http.StatusOK},
		{"second vote same candidate", e.VoterHeaders("voter2"), `{"candidate_id":0}`, http.StatusConflict},
		{"second vote other candidate", e.VoterHeaders("voter2"), `{"candidate_id":1}`, http.StatusConflict},
		{"not eligible", outsider, `{"candidate_id":1}`, http.StatusForbidden},
		{"unknown candidate", e.VoterHeaders("voter1"), `{"candidate_id":9}`, http.StatusBadRequest},
		{"missing candidate id", e.VoterHeaders("voter1"), `{}`, http.StatusBadRequest},
		{"invalid JSON", e.VoterHeaders("voter1"), `{"candidate_id":`, http.StatusBadRequest},
		{"missing voter key", map[string]string{"X-Voter-Address": "voter1"}, `{"candidate_id":0}`, http.StatusUnauthorized},
		{"key for another voter", map[string]string{"X-Voter-Address": "voter1", "X-Voter-Key": e.VoterKeys["voter3"]}, `{"candidate_id":0}`, http.StatusUnauthorized},
		{"no headers", nil, `{"candidate_id":0}`, http.StatusUnauthorized},
		{"voter1 after rejections", e.VoterHeaders("voter1"), `{"candidate_id":1}`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := submitVote(handler, e.ID, tt.body, tt.headers)
			testutil.AssertStatus(t, w, tt.expectedStatus)

			var resp models.ErrorResponse
			if w.Code != http.StatusOK {
				testutil.AssertJSON(t, w, &resp)
				if resp.Message == "" {
					t.Error("Expected an error message")
				}
			}
		})
	}
}

func TestSubmitVoteErrorMessages(t *testing.T) {
	cfg := testutil.GetTestConfig()
	rt, clock := testutil.SetupTestRuntime(t)
	handler := NewVotingHandler(rt, cfg)
	e := testutil.CreateTestElection(t, rt, cfg, testutil.AliceAndBob(testutil.FutureCloseTime))

	w := submitVote(handler, e.ID, `{"candidate_id":0}`, e.VoterHeaders("voter1"))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = submitVote(handler, e.ID, `{"candidate_id":0}`, e.VoterHeaders("voter1"))
	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Error != "Conflict" || resp.Message != "voter has already voted" {
		t.Errorf("Unexpected error response %+v", resp)
	}

	clock.Set(testutil.FutureCloseTime)
	w = submitVote(handler, e.ID, `{"candidate_id":0}`, e.VoterHeaders("voter3"))
	testutil.AssertStatus(t, w, http.StatusConflict)
	testutil.AssertJSON(t, w, &resp)
	if resp.Message != "voting close time has passed, voting is closed" {
		t.Errorf("Unexpected message %q", resp.Message)
	}
}

func TestSubmitVoteUnknownElection(t *testing.T) {
	cfg := testutil.GetTestConfig()
	rt, _ := testutil.SetupTestRuntime(t)
	handler := NewVotingHandler(rt, cfg)

	headers := map[string]string{
		"X-Voter-Address": "voter1",
		"X-Voter-Key":     auth.GenerateVoterKey("missing", "voter1", cfg.VoterKeySalt),
	}
	w := submitVote(handler, "missing", `{"candidate_id":0}`, headers)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestSubmitVoteClosedElection(t *testing.T) {
	cfg := testutil.GetTestConfig()
	rt, _ := testutil.SetupTestRuntime(t)
	handler := NewVotingHandler(rt, cfg)
	e := testutil.CreateTestElection(t, rt, cfg, testutil.AliceAndBob(testutil.PastCloseTime))

	for _, voter := range []models.Address{"voter1", "voter2", "voter3"} {
		w := submitVote(handler, e.ID, `{"candidate_id":0}`, e.VoterHeaders(voter))
		testutil.AssertStatus(t, w, http.StatusConflict)
	}
}

func TestExecute(t *testing.T) {
	cfg := testutil.GetTestConfig()
	rt, clock := testutil.SetupTestRuntime(t)
	handler := NewVotingHandler(rt, cfg)
	e := testutil.CreateTestElection(t, rt, cfg, testutil.AliceAndBob(testutil.FutureCloseTime))

	tests := []struct {
		name           string
		voter          models.Address
		body           string
		expectedStatus int
	}{
		{"submit vote", "voter1", `{"submit_vote":{"candidate_id":1}}`, http.StatusOK},
		{"already voted", "voter1", `{"submit_vote":{"candidate_id":0}}`, http.StatusConflict},
		{"unknown variant", "voter2", `{"retract_vote":{}}`, http.StatusBadRequest},
		{"two variants", "voter2", `{"submit_vote":{"candidate_id":1},"x":{}}`, http.StatusBadRequest},
		{"candidate id overflow", "voter2", `{"submit_vote":{"candidate_id":65536}}`, http.StatusBadRequest},
		{"not JSON", "voter2", `submit_vote`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/elections/"+e.ID+"/execute", tt.body, e.VoterHeaders(tt.voter))
			req.SetPathValue("id", e.ID)
			w := httptest.NewRecorder()
			handler.Execute(w, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}

	clock.Set(testutil.FutureCloseTime)
	results, err := rt.Query(context.Background(), e.ID, models.QueryGetResults)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	want := []models.CandidateResult{{ID: 0, Votes: 0}, {ID: 1, Votes: 1}}
	got := results.([]models.CandidateResult)
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Expected results %v, got %v", want, got)
	}
}

func TestExecuteRequiresVoterKey(t *testing.T) {
	cfg := testutil.GetTestConfig()
	rt, _ := testutil.SetupTestRuntime(t)
	handler := NewVotingHandler(rt, cfg)
	e := testutil.CreateTestElection(t, rt, cfg, testutil.AliceAndBob(testutil.FutureCloseTime))

	req := testutil.MakeRequest("POST", "/elections/"+e.ID+"/execute", `{"submit_vote":{"candidate_id":1}}`, map[string]string{
		"X-Voter-Address": "voter1",
	})
	req.SetPathValue("id", e.ID)
	w := httptest.NewRecorder()
	handler.Execute(w, req)
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}
