package entities

import "time"

// TradeStage is the position of a trade in the negotiation handshake.
type TradeStage int

const (
	TradeOffered TradeStage = iota
	TradeInterestDeclared
	TradeAccepted
	TradeCompleted
)

func (s TradeStage) String() string {
	switch s {
	case TradeOffered:
		return "offered"
	case TradeInterestDeclared:
		return "interest_declared"
	case TradeAccepted:
		return "accepted"
	case TradeCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// TradeOffer is an item put up for trade. MessageID is the offer post.
type TradeOffer struct {
	MessageID string
	ChannelID string
	PosterID  string
	Item      string
	Stage     TradeStage
	// SessionID is the interest message of the session that claimed this offer, if any.
	SessionID string
	CreatedAt time.Time
}

// TradeSession tracks the handshake started by an interest signal. It is keyed by InterestMessageID.
type TradeSession struct {
	InterestMessageID string
	TradePostID       string
	ChannelID         string
	PosterID          string
	InterestedID      string
	Item              string
	Stage             TradeStage
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (t *TradeSession) Clone() *TradeSession {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
