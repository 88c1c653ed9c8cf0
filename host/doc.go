// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package host runs election instances on top of a store.Store.

A Runtime plays the part of the execution environment: it assigns
instance ids, keeps the registry of instances, scopes every call to the
instance's key prefix (e/<id>/) and commits storage changes only when
the election core returns nil.

	rt := host.New(s, host.WithLogger(logger))
	id, err := rt.Instantiate(ctx, creator, msg)
	err = rt.Execute(ctx, id, voter, models.ExecuteMsg{SubmitVote: &models.SubmitVoteMsg{CandidateID: 0}})
	results, err := rt.Query(ctx, id, models.QueryGetResults)

Calls are serialized with a mutex. The caller address passed to Execute
must already be authenticated.
*/
package host
