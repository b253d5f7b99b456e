package core

import (
	"errors"
	"fmt"
)

// ErrInvalidGoldenKey means the long-lived account credential was rejected
// (HTTP 403). Nothing downstream can fix it, so it is never retried.
var ErrInvalidGoldenKey = errors.New("golden key was rejected")

// ErrInvalidSession means the short-lived csrf token / session cookie pair
// was rejected. The edit client refreshes the session exactly once and
// replays the request before treating it as terminal.
var ErrInvalidSession = errors.New("csrf token or session cookie was rejected")

// ApiError is the catch-all for transport failures and responses the
// extraction rules cannot make sense of.
type ApiError struct {
	Op  string
	Err error
}

func (e *ApiError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ApiError) Unwrap() error {
	return e.Err
}

// NotFoundError reports that the requested entity does not exist on the
// site, detected via the empty-content page marker or a 404.
type NotFoundError struct {
	Kind string
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d does not exist", e.Kind, e.ID)
}

// OfferAlreadyRaisedError carries the server's cooldown message returned
// when offers for a lot were raised too recently.
type OfferAlreadyRaisedError struct {
	Msg string
}

func (e *OfferAlreadyRaisedError) Error() string {
	return fmt.Sprintf("offers already raised: %s", e.Msg)
}
