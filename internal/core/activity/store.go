// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package activity

import "context"

// Repository defines the persistence contract of the activity log.
type Repository interface {
	Recorder

	/*
		ListByActor returns the actor's entries, newest first, and the total count.

		Parameters:
		  - context: context.Context
		  - actorID: string (UUID)
		  - limit: int
		  - offset: int
	*/
	ListByActor(context context.Context, actorID string, limit, offset int) ([]*Entry, int, error)
}
