// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/danielhkuo/quickly-tally/models"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Client talks to the quickly-tally HTTP API.
type Client struct {
	base string
	http *http.Client
}

func NewClient(base string) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) CreateElection(ctx context.Context, msg []byte) (models.CreateElectionResponse, error) {
	var resp models.CreateElectionResponse
	body, err := c.do(ctx, http.MethodPost, "/elections", msg, nil)
	if err != nil {
		return resp, err
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return resp, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp, nil
}

func (c *Client) Vote(ctx context.Context, electionID string, voter models.Address, voterKey string, candidateID uint16) error {
	msg, err := json.Marshal(models.ExecuteMsg{SubmitVote: &models.SubmitVoteMsg{CandidateID: candidateID}})
	if err != nil {
		return err
	}
	_, err = c.do(ctx, http.MethodPost, "/elections/"+url.PathEscape(electionID)+"/execute", msg, map[string]string{
		"X-Voter-Address": string(voter),
		"X-Voter-Key":     voterKey,
	})
	return err
}

// Summary returns the raw election summary.
func (c *Client) Summary(ctx context.Context, electionID string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/elections/"+url.PathEscape(electionID), nil, nil)
}

// Results returns the raw results document.
func (c *Client) Results(ctx context.Context, electionID string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "/elections/"+url.PathEscape(electionID)+"/results", nil, nil)
}

// Query sends a raw query message and returns the bare answer.
func (c *Client) Query(ctx context.Context, electionID string, msg []byte) ([]byte, error) {
	return c.do(ctx, http.MethodPost, "/elections/"+url.PathEscape(electionID)+"/query", msg, nil)
}

func (c *Client) VoterKey(ctx context.Context, electionID, adminKey, address string) (string, error) {
	path := "/elections/" + url.PathEscape(electionID) + "/voter-key?address=" + url.QueryEscape(address)
	body, err := c.do(ctx, http.MethodGet, path, nil, map[string]string{"X-Admin-Key": adminKey})
	if err != nil {
		return "", err
	}
	return gjson.GetBytes(body, "voter_key").String(), nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, headers map[string]string) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Message: gjson.GetBytes(out, "message").String()}
	}
	return out, nil
}
