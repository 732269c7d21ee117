// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package editor

import "context"

// Store persists draft sessions with an expiry.
//
// Every method reports a missing or released session as apperr.NotFound.
type Store interface {
	/*
		Acquire registers draft as the open session of its actor and target.

		Returns:
		  - *Draft: The stored session, which is the existing one when the
		    actor already has a session open on that target
		  - bool: true when draft was stored as a new session
	*/
	Acquire(context context.Context, draft *Draft) (*Draft, bool, error)

	Get(context context.Context, id string) (*Draft, error)

	// Save replaces the stored document of an open session and refreshes its expiry.
	Save(context context.Context, draft *Draft) error

	// Release removes the session and returns it. Exactly one caller wins.
	Release(context context.Context, id string) (*Draft, error)
}
