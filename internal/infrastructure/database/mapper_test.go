package database

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserIDMapping_RoundTripsFullSnowflakeRange(t *testing.T) {
	for _, id := range []string{"0", "80351110224678912", "9223372036854775807", "9223372036854775808", "18446744073709551615"} {
		t.Run(id, func(t *testing.T) {
			stored, err := userIDToInt64(id)
			require.NoError(t, err)
			assert.Equal(t, id, int64ToUserID(stored))
		})
	}
}

func TestUserIDToInt64_RejectsNonSnowflakes(t *testing.T) {
	for _, id := range []string{"", "-1", "abc", "12a", "18446744073709551616"} {
		_, err := userIDToInt64(id)
		assert.Error(t, err, "id %q", id)
	}
}

func TestPgtypeTimestamptzToTime(t *testing.T) {
	assert.True(t, pgtypeTimestamptzToTime(pgtype.Timestamptz{}).IsZero())

	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	local := time.Date(2030, 3, 14, 20, 30, 0, 0, paris)
	got := pgtypeTimestamptzToTime(pgtype.Timestamptz{Time: local, Valid: true})
	assert.Equal(t, time.UTC, got.Location())
	assert.True(t, got.Equal(local))
}
