package tz

import (
	"log"
	"time"
)

// Load returns the named location, or UTC when the name is unknown to the tz database.
func Load(name string) *time.Location {
	if name == "" || name == "UTC" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("⚠️ tz: fuseau %q inconnu, utilisation de UTC: %v", name, err)
		return time.UTC
	}
	return loc
}
