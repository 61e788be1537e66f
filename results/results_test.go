package results

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/minaorangina/crazyeights/game"
	utils "github.com/minaorangina/crazyeights/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func someResults() []Result {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return []Result{
		{GameID: "g1", PlayerName: "Hermione", Winner: game.Player, Moves: 31, StartedAt: base, FinishedAt: base.Add(5 * time.Minute)},
		{GameID: "g2", PlayerName: "Ron", Winner: game.Opponent, Moves: 44, StartedAt: base, FinishedAt: base.Add(9 * time.Minute)},
		{GameID: "g3", PlayerName: "Harry", Winner: game.Player, Moves: 12, StartedAt: base, FinishedAt: base.Add(2*time.Minute + 500*time.Millisecond)},
	}
}

func testRecorder(t *testing.T, rec Recorder) {
	ctx := context.Background()

	t.Run("rejects results without a winner", func(t *testing.T) {
		err := rec.Record(ctx, Result{GameID: "nope"})
		utils.AssertErrorIs(t, err, ErrInvalidResult)
	})

	t.Run("returns the most recent first", func(t *testing.T) {
		for _, r := range someResults() {
			require.NoError(t, rec.Record(ctx, r))
		}

		got, err := rec.Recent(ctx, 2)
		require.NoError(t, err)
		require.Len(t, got, 2)

		utils.AssertEqual(t, got[0].GameID, "g2")
		utils.AssertEqual(t, got[1].GameID, "g1")

		all, err := rec.Recent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, all, 3)
		utils.AssertEqual(t, all[2].GameID, "g3")

		want := someResults()[1]
		assert.Equal(t, want.PlayerName, got[0].PlayerName)
		assert.Equal(t, want.Winner, got[0].Winner)
		assert.Equal(t, want.Moves, got[0].Moves)
		assert.True(t, want.StartedAt.Equal(got[0].StartedAt))
		assert.True(t, want.FinishedAt.Equal(got[0].FinishedAt))
	})
}

func TestMemoryRecorder(t *testing.T) {
	testRecorder(t, NewMemoryRecorder())
}

func TestSQLiteRecorder(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "results.db")

	rec, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer rec.Close()

	testRecorder(t, rec)

	t.Run("a game is only recorded once", func(t *testing.T) {
		err := rec.Record(ctx, someResults()[0])
		utils.AssertErrored(t, err)
	})

	t.Run("results survive reopening", func(t *testing.T) {
		require.NoError(t, rec.Close())

		reopened, err := OpenSQLite(ctx, path)
		require.NoError(t, err)
		defer reopened.Close()

		got, err := reopened.Recent(ctx, 10)
		require.NoError(t, err)
		utils.AssertEqual(t, len(got), 3)
	})
}
