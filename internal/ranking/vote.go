package ranking

import "cinereview-backend/internal/models"

// Tally is the pair of vote counters of a post.
type Tally struct {
	Up   int
	Down int
}

// ApplyVote returns the viewer's new vote state and the new tally after clicking event.
//
//	none + up   -> up,   Up+1
//	none + down -> down, Down+1
//	up   + up   -> none, Up-1
//	up   + down -> down, Up-1 Down+1
//	down + down -> none, Down-1
//	down + up   -> up,   Down-1 Up+1
//
// Any other event leaves state and tally unchanged. Counters never drop below zero.
func ApplyVote(current models.VoteState, tally Tally, event models.VoteState) (models.VoteState, Tally) {
	if event != models.VoteUp && event != models.VoteDown {
		return current, tally
	}

	switch current {
	case models.VoteUp:
		tally.Up = decrement(tally.Up)
	case models.VoteDown:
		tally.Down = decrement(tally.Down)
	}

	if current == event {
		return models.VoteNone, tally
	}

	if event == models.VoteUp {
		tally.Up++
	} else {
		tally.Down++
	}
	return event, tally
}

// VotePost applies event to post on behalf of its viewer and reports whether anything changed.
// Anonymous viewers cannot vote; the post is left as is.
func VotePost(post *models.Post, event models.VoteState, authenticated bool) bool {
	if !authenticated {
		return false
	}
	state, tally := ApplyVote(post.UserVote, Tally{Up: post.Upvotes, Down: post.Downvotes}, event)
	changed := state != post.UserVote || tally.Up != post.Upvotes || tally.Down != post.Downvotes
	post.UserVote = state
	post.Upvotes = tally.Up
	post.Downvotes = tally.Down
	return changed
}

func decrement(n int) int {
	if n <= 0 {
		return 0
	}
	return n - 1
}
