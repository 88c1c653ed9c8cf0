// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/schollz/progressbar/v3"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli"

	"github.com/danielhkuo/quickly-tally/models"
)

var electionFlag = cli.StringFlag{
	Name:  "election, e",
	Usage: "election id",
}

func client(c *cli.Context) *Client {
	return NewClient(c.GlobalString("server"))
}

func onUsageError(name string) cli.OnUsageErrorFunc {
	return func(c *cli.Context, err error, isSubcommand bool) error {
		PrintError(c, err, name)
		return cli.NewExitError("", 1)
	}
}

func requireString(c *cli.Context, name string) (string, error) {
	v := c.String(name)
	if v == "" {
		return "", fmt.Errorf("argument '%s' is required", name)
	}
	return v, nil
}

func createCommand() cli.Command {
	return cli.Command{
		Name:        "create",
		Usage:       "create an election",
		Description: "Reads an instantiate message from a JSON file and prints the election id and keys.",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "file, f", Usage: "instantiate message (JSON)"},
		},
		Action: func(c *cli.Context) error {
			path, err := requireString(c, "file")
			if err != nil {
				return err
			}
			msg, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			if !gjson.ValidBytes(msg) {
				return fmt.Errorf("%s is not valid JSON", path)
			}

			resp, err := client(c).CreateElection(context.Background(), msg)
			if err != nil {
				return err
			}
			out, err := json.Marshal(resp)
			if err != nil {
				return err
			}
			printOK("created election %s", resp.ElectionID)
			return FormatOutput(c.App.Writer, out)
		},
		OnUsageError: onUsageError("create"),
	}
}

func voteCommand() cli.Command {
	return cli.Command{
		Name:  "vote",
		Usage: "submit a vote",
		Flags: []cli.Flag{
			electionFlag,
			cli.StringFlag{Name: "voter, v", Usage: "voter address"},
			cli.StringFlag{Name: "key, k", Usage: "voter key"},
			cli.IntFlag{Name: "candidate, c", Value: -1, Usage: "candidate id"},
		},
		Action: func(c *cli.Context) error {
			electionID, err := requireString(c, "election")
			if err != nil {
				return err
			}
			voter, err := requireString(c, "voter")
			if err != nil {
				return err
			}
			key, err := requireString(c, "key")
			if err != nil {
				return err
			}
			candidate := c.Int("candidate")
			if candidate < 0 || candidate > math.MaxUint16 {
				return errors.New("argument 'candidate' must be between 0 and 65535")
			}

			if err := client(c).Vote(context.Background(), electionID, models.Address(voter), key, uint16(candidate)); err != nil {
				return err
			}
			printOK("vote recorded for %s", voter)
			return nil
		},
		OnUsageError: onUsageError("vote"),
	}
}

func infoCommand() cli.Command {
	return cli.Command{
		Name:  "info",
		Usage: "show an election summary",
		Flags: []cli.Flag{electionFlag},
		Action: func(c *cli.Context) error {
			electionID, err := requireString(c, "election")
			if err != nil {
				return err
			}
			out, err := client(c).Summary(context.Background(), electionID)
			if err != nil {
				return err
			}
			return FormatOutput(c.App.Writer, out)
		},
		OnUsageError: onUsageError("info"),
	}
}

func resultsCommand() cli.Command {
	return cli.Command{
		Name:        "results",
		Usage:       "show the tallies of a closed election",
		Description: "Fails while the election is still open.",
		Flags:       []cli.Flag{electionFlag},
		Action: func(c *cli.Context) error {
			electionID, err := requireString(c, "election")
			if err != nil {
				return err
			}
			out, err := client(c).Results(context.Background(), electionID)
			if err != nil {
				return err
			}
			return FormatOutput(c.App.Writer, out)
		},
		OnUsageError: onUsageError("results"),
	}
}

func queryCommand() cli.Command {
	return cli.Command{
		Name:        "query",
		Usage:       "send a raw query message",
		Description: `Example: tallyctl query -e <id> -m '{"get_voters_count":{}}'`,
		Flags: []cli.Flag{
			electionFlag,
			cli.StringFlag{Name: "msg, m", Usage: "query message (JSON)"},
		},
		Action: func(c *cli.Context) error {
			electionID, err := requireString(c, "election")
			if err != nil {
				return err
			}
			msg, err := requireString(c, "msg")
			if err != nil {
				return err
			}
			out, err := client(c).Query(context.Background(), electionID, []byte(msg))
			if err != nil {
				return err
			}
			return FormatOutput(c.App.Writer, out)
		},
		OnUsageError: onUsageError("query"),
	}
}

func voterKeyCommand() cli.Command {
	return cli.Command{
		Name:  "voter-key",
		Usage: "re-issue a voter key",
		Flags: []cli.Flag{
			electionFlag,
			cli.StringFlag{Name: "admin-key, a", Usage: "admin key"},
			cli.StringFlag{Name: "address", Usage: "voter address"},
		},
		Action: func(c *cli.Context) error {
			electionID, err := requireString(c, "election")
			if err != nil {
				return err
			}
			adminKey, err := requireString(c, "admin-key")
			if err != nil {
				return err
			}
			address, err := requireString(c, "address")
			if err != nil {
				return err
			}
			key, err := client(c).VoterKey(context.Background(), electionID, adminKey, address)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, key)
			return nil
		},
		OnUsageError: onUsageError("voter-key"),
	}
}

// replayVote is one entry of a replay file.
type replayVote struct {
	Voter       models.Address
	VoterKey    string
	CandidateID uint16
}

// parseReplay reads {"election_id", "voter_keys", "votes": [{"voter",
// "voter_key", "candidate_id"}]}. The output of create plus a votes list
// is a valid replay file; a vote without voter_key takes it from
// voter_keys.
func parseReplay(data []byte) (string, []replayVote, error) {
	if !gjson.ValidBytes(data) {
		return "", nil, errors.New("replay file is not valid JSON")
	}
	doc := gjson.ParseBytes(data)

	electionID := doc.Get("election_id").String()
	if electionID == "" {
		return "", nil, errors.New("replay file has no election_id")
	}

	keys := map[string]string{}
	doc.Get("voter_keys").ForEach(func(addr, key gjson.Result) bool {
		keys[addr.String()] = key.String()
		return true
	})

	var (
		votes []replayVote
		err   error
	)
	doc.Get("votes").ForEach(func(i, v gjson.Result) bool {
		voter := v.Get("voter").String()
		if voter == "" {
			err = fmt.Errorf("vote %d: voter is required", i.Int())
			return false
		}
		candidate, perr := replayCandidate(v.Get("candidate_id"))
		if perr != nil {
			err = fmt.Errorf("vote %d: %w", i.Int(), perr)
			return false
		}
		key := v.Get("voter_key").String()
		if key == "" {
			key = keys[voter]
		}
		votes = append(votes, replayVote{
			Voter:       models.Address(voter),
			VoterKey:    key,
			CandidateID: candidate,
		})
		return true
	})
	if err != nil {
		return "", nil, err
	}
	return electionID, votes, nil
}

// replayCandidate accepts only a JSON integer in the u16 range. Strings,
// booleans and fractions are rejected rather than coerced.
func replayCandidate(r gjson.Result) (uint16, error) {
	if r.Type != gjson.Number {
		return 0, errors.New("candidate_id must be an integer between 0 and 65535")
	}
	id, err := strconv.ParseUint(r.Raw, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("candidate_id %s must be an integer between 0 and 65535", r.Raw)
	}
	return uint16(id), nil
}

func replayCommand() cli.Command {
	return cli.Command{
		Name:        "replay",
		Usage:       "submit a batch of votes from a file",
		Description: "Rejected votes are reported and do not stop the replay.",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "file, f", Usage: "replay file (JSON)"},
		},
		Action: func(c *cli.Context) error {
			path, err := requireString(c, "file")
			if err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			electionID, votes, err := parseReplay(data)
			if err != nil {
				return err
			}

			cl := client(c)
			bar := progressbar.Default(int64(len(votes)))
			var rejected []string
			for _, v := range votes {
				if err := cl.Vote(context.Background(), electionID, v.Voter, v.VoterKey, v.CandidateID); err != nil {
					var apiErr *APIError
					if !errors.As(err, &apiErr) {
						return err
					}
					rejected = append(rejected, fmt.Sprintf("%s: %s", v.Voter, apiErr.Message))
				}
				bar.Add(1)
			}
			fmt.Println()

			for _, r := range rejected {
				printFailed("%s", r)
			}
			printOK("%d of %d votes accepted", len(votes)-len(rejected), len(votes))
			return nil
		},
		OnUsageError: onUsageError("replay"),
	}
}
