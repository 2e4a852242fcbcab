package discord

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"guildbot/internal/domain"
)

// Layouts accepted for event times, tried in order. Layouts without a zone are read in the
// configured location.
var eventTimeLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"02/01/2006 15:04",
	"02/01/2006 à 15:04",
	"2006-01-02 3:04PM",
	"2006-01-02 3:04pm",
}

// <t:1700000000> or <t:1700000000:F>, as produced by timestamp pickers.
var discordTimestamp = regexp.MustCompile(`^<t:(-?\d+)(?::[tTdDfFR])?>$`)

// ParseEventTime reads a user-supplied start time and returns it in UTC.
// Accepted inputs: RFC 3339, a Discord timestamp tag, a unix timestamp, or one of eventTimeLayouts.
func ParseEventTime(input string, loc *time.Location, now time.Time) (time.Time, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return time.Time{}, domain.ErrInvalidTimeFormat
	}
	if loc == nil {
		loc = time.UTC
	}
	t, ok := parseAny(s, loc)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidTimeFormat, input)
	}
	if !t.After(now) {
		return time.Time{}, domain.ErrTimeInPast
	}
	return t.UTC(), nil
}

func parseAny(s string, loc *time.Location) (time.Time, bool) {
	if m := discordTimestamp.FindStringSubmatch(s); m != nil {
		sec, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return time.Time{}, false
		}
		return time.Unix(sec, 0), true
	}
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil && len(s) >= 9 {
		return time.Unix(sec, 0), true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	for _, layout := range eventTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Timestamp renders t as a Discord timestamp tag, localized by each client.
// style is one of t, T, d, D, f, F, R.
func Timestamp(t time.Time, style string) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), style)
}
