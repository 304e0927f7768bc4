// Package guard keeps two admins from submitting for the same match at the
// same moment.
package guard

import (
	"context"
	"errors"
	"fmt"
)

var ErrInFlight = errors.New("another submission for this resource is in progress")

// SubmissionGuard hands out short-lived exclusive holds on a key. The
// returned release func is safe to call more than once.
type SubmissionGuard interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// MatchKey is the guard key of a match result submission.
func MatchKey(matchID string) string {
	return fmt.Sprintf("codm:submission:match:%s", matchID)
}
