package journal

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwgops/pospay/internal/domain"
)

func tempJournal(t *testing.T) *Journal {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "transactions.csv"))
}

func TestAppendAndRecent(t *testing.T) {
	j := tempJournal(t)

	require.NoError(t, j.Append(domain.JournalEntry{
		CustomerLabel: "12345 Smith",
		AmountText:    "$50.00",
		Outcome:       "APPROVED",
		UnixTime:      1700000000,
		AuthCode:      "AUTH1",
	}))
	require.NoError(t, j.Append(domain.JournalEntry{
		CustomerLabel: "99999 Jones",
		AmountText:    "$20.00",
		Outcome:       "DECLINED - Error: The customer's bank declined the transaction.",
		UnixTime:      1700000100,
	}))

	entries, err := j.Recent()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, "99999 Jones", entries[0].CustomerLabel)
	assert.Empty(t, entries[0].AuthCode)
	assert.Equal(t, "12345 Smith", entries[1].CustomerLabel)
	assert.Equal(t, "AUTH1", entries[1].AuthCode)
	assert.Equal(t, int64(1700000000), entries[1].UnixTime)
}

func TestAppendEmptyLabelBecomesNone(t *testing.T) {
	j := tempJournal(t)
	require.NoError(t, j.Append(domain.JournalEntry{
		AmountText: "$5.00",
		Outcome:    "DECLINED",
		UnixTime:   1700000000,
	}))

	entries, err := j.Recent()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "None", entries[0].CustomerLabel)
}

func TestRecentCapped(t *testing.T) {
	j := tempJournal(t)
	for i := 0; i < RecentLimit+9; i++ {
		require.NoError(t, j.Append(domain.JournalEntry{
			CustomerLabel: fmt.Sprintf("cust-%d", i),
			AmountText:    "$1.00",
			Outcome:       "APPROVED",
			UnixTime:      int64(1700000000 + i),
			AuthCode:      fmt.Sprintf("A%d", i),
		}))
	}

	entries, err := j.Recent()
	require.NoError(t, err)
	require.Len(t, entries, RecentLimit)
	assert.Equal(t, fmt.Sprintf("cust-%d", RecentLimit+8), entries[0].CustomerLabel)
}

func TestRecentMissingFile(t *testing.T) {
	j := New(filepath.Join(t.TempDir(), "does-not-exist.csv"))
	entries, err := j.Recent()
	require.NoError(t, err)
	assert.Empty(t, entries)
}
