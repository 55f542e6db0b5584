// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package flow implements the voter authentication and voting state machine.

# Steps

A session moves through three steps:

	CredentialsEntry → OTPVerification → StatusDisplay

A voter whose login response reports has_voted skips straight to
StatusDisplay. Back, Reset and ToggleMode return to CredentialsEntry.

# State

FlowState holds the step, the stored voter record, the loading flag, the
current error message and the auth mode. Transitions are computed by the
pure function Reduce; the Controller performs remote calls and feeds their
outcomes back as events:

	next := flow.Reduce(state, flow.Authenticated{Voter: v})

# Controller

	ctrl := flow.New(client,
		flow.WithNotifier(notifier),
		flow.WithLogger(logger),
		flow.WithCallTimeout(15*time.Second),
	)
	err := ctrl.Submit(ctx, creds)
	err = ctrl.Verify(ctx, "123456")
	err = ctrl.CastVote(ctx)

Loading is set before every remote call and cleared when it settles. The
error message is cleared when an action starts and replaced on failure.

# Stale Responses

Every remote action records the controller generation when it starts.
Reset, Back and ToggleMode advance the generation; a response belonging to
an earlier generation is dropped and the action returns ErrStale. A second
remote action while one is in flight returns ErrBusy without touching state.

# Error Messages

MessageFor prefers the message carried by the remote error (any error
implementing ServerMessager) and otherwise falls back to a fixed text per
Action.
*/
package flow
