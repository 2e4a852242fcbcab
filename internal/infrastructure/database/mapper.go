package database

import (
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// pgtypeTimestamptzToTime returns t.Time when Valid, else zero time.
func pgtypeTimestamptzToTime(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time.UTC()
}

// userIDToInt64 converts a Discord snowflake to the BIGINT column type.
func userIDToInt64(userID string) (int64, error) {
	id, err := strconv.ParseUint(userID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user id %q: %w", userID, err)
	}
	return int64(id), nil
}

func int64ToUserID(id int64) string {
	return strconv.FormatUint(uint64(id), 10)
}
