package domain

import "errors"

// Error is a domain error carrying a stable code used to pick the user-facing message.
type Error struct {
	code string
	msg  string
	// parent lets a specific error also match a broader category with errors.Is.
	parent error
}

func (e *Error) Error() string { return e.msg }

// Code returns the stable identifier of the error.
func (e *Error) Code() string { return e.code }

func (e *Error) Unwrap() error { return e.parent }

func newError(code, msg string) *Error {
	return &Error{code: code, msg: msg}
}

// Domain errors.
var (
	ErrEventNotFound     = newError("event_not_found", "event not found")
	ErrEventExists       = newError("event_exists", "event already registered")
	ErrInvalidCapacity   = newError("invalid_capacity", "capacity must be a positive integer")
	ErrAlreadyMember     = newError("already_member", "participant already tracked by the event")
	ErrAlreadyAccepted   = &Error{code: "already_accepted", msg: "participant already accepted", parent: ErrAlreadyMember}
	ErrAlreadyWaitlisted = &Error{code: "already_waitlisted", msg: "participant already waitlisted", parent: ErrAlreadyMember}
	ErrCapacityExceeded  = newError("capacity_exceeded", "event is full")
	ErrNotAMember        = newError("not_a_member", "participant is neither accepted nor waitlisted")
	ErrInvalidTimeFormat = newError("invalid_time_format", "unparsable event time")
	ErrTimeInPast        = newError("time_in_past", "event time must be in the future")
	ErrUnauthorized      = newError("unauthorized", "actor is not allowed to perform this action")
	ErrMalformedImport   = newError("malformed_import", "snapshot failed structural validation")
	ErrItemNotFound      = newError("item_not_found", "no matching item in the vault")
	ErrInvalidItem       = newError("invalid_item", "item description is empty or too long")
	ErrTradeNotFound     = newError("trade_not_found", "no trade tracked for this message")
	ErrOfferTaken        = newError("offer_taken", "trade offer already has an interested party")
	ErrSelfTrade         = newError("self_trade", "poster cannot trade with themselves")
	ErrNotPoster         = newError("not_poster", "only the poster can accept the trade")
	ErrStageMismatch     = newError("stage_mismatch", "trade is not in the expected stage")
)

// Code extracts the domain error code from err, or "" when err is not a domain error.
func Code(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.code
	}
	return ""
}
