package discord

import "guildbot/internal/domain"

// ErrorKey maps an error to the translation key of its user-facing message.
// Non-domain errors map to errors.generic.
func ErrorKey(err error) string {
	if err == nil {
		return ""
	}
	if code := domain.Code(err); code != "" {
		return "errors." + code
	}
	return "errors.generic"
}
