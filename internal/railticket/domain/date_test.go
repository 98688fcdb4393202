package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	for _, in := range []string{"03-11-2026", "2026-11-03", " 03-11-2026 "} {
		d, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, NewDate(2026, time.November, 3), d)
	}

	for _, bad := range []string{"", "31-02-2026", "11/03/2026", "tomorrow"} {
		_, err := ParseDate(bad)
		assert.ErrorIs(t, err, ErrInvalidRequest, bad)
	}
}

func TestDateAddMonthsClampsToMonthEnd(t *testing.T) {
	assert.Equal(t, NewDate(2026, time.February, 28), NewDate(2025, time.December, 31).AddMonths(2))
	assert.Equal(t, NewDate(2028, time.February, 29), NewDate(2027, time.December, 31).AddMonths(2))
	assert.Equal(t, NewDate(2027, time.January, 14), NewDate(2026, time.November, 14).AddMonths(2))
}

func TestDateOrdering(t *testing.T) {
	a := NewDate(2026, time.October, 14)
	b := NewDate(2026, time.October, 15)

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.After(a))
	assert.True(t, Date{}.IsZero())
}

func TestDateJSON(t *testing.T) {
	raw, err := json.Marshal(NewDate(2026, time.November, 3))
	require.NoError(t, err)
	assert.JSONEq(t, `"03-11-2026"`, string(raw))

	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2026-11-03"`), &d))
	assert.Equal(t, NewDate(2026, time.November, 3), d)
	assert.Error(t, json.Unmarshal([]byte(`20261103`), &d))
}

func TestParseSeatClassAndGender(t *testing.T) {
	class, ok := ParseSeatClass(" TATKAL ")
	assert.True(t, ok)
	assert.Equal(t, Tatkal, class)
	_, ok = ParseSeatClass("first")
	assert.False(t, ok)
	assert.False(t, SeatClass("first").Valid())

	gender, ok := ParseGender("FEMALE")
	assert.True(t, ok)
	assert.Equal(t, Female, gender)
	_, ok = ParseGender("other")
	assert.False(t, ok)
}

func TestUserSecret(t *testing.T) {
	user, err := NewUser(" admin ", "Admin@123", "9876500002")
	require.NoError(t, err)

	assert.Equal(t, "admin", user.Username)
	assert.True(t, user.CheckSecret("Admin@123"))
	assert.False(t, user.CheckSecret("admin@123"))
	assert.Equal(t, 0, user.Ledger().Len())

	_, err = NewUser("", "x", "")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
