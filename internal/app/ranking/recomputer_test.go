package ranking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/codeclash-vn/codeclash/internal/domains/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScoreStore struct {
	mu      sync.Mutex
	scores  []entities.UserScore
	updates map[string]entities.UserRank

	fetchErr   error
	updateErrs map[string]error
	fetchGate  chan struct{}
	fetches    int
}

func newFakeScoreStore(scores []entities.UserScore) *fakeScoreStore {
	return &fakeScoreStore{
		scores:  scores,
		updates: make(map[string]entities.UserRank),
	}
}

func (s *fakeScoreStore) FetchUserScores(ctx context.Context) ([]entities.UserScore, error) {
	s.mu.Lock()
	s.fetches++
	gate := s.fetchGate
	s.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.scores, nil
}

func (s *fakeScoreStore) UpdateUserRank(ctx context.Context, userId string, userRank entities.UserRank) error {
	if err, exists := s.updateErrs[userId]; exists {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates[userId] = userRank
	return nil
}

func (s *fakeScoreStore) fetchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches
}

func TestRunAssignsHonorScoresAndRanks(t *testing.T) {
	store := newFakeScoreStore([]entities.UserScore{
		{UserId: "1", TotalScore: 10, BattleScore: 5},
		{UserId: "2", TotalScore: 3, BattleScore: 1},
	})
	recomputer := NewRecomputer(store, time.Minute, 50)

	require.NoError(t, recomputer.Run(context.Background()))

	assert.Equal(t, entities.UserRank{HonorScore: 15, Rank: 1}, store.updates["1"])
	assert.Equal(t, entities.UserRank{HonorScore: 4, Rank: 2}, store.updates["2"])
}

func TestRankUserScoresTieBreaksByUserId(t *testing.T) {
	ranked := RankUserScores([]entities.UserScore{
		{UserId: "charlie", TotalScore: 5, BattleScore: 5},
		{UserId: "alice", TotalScore: 10, BattleScore: 0},
		{UserId: "bob", TotalScore: 0, BattleScore: 10},
	})

	require.Len(t, ranked, 3)
	assert.Equal(t, "alice", ranked[0].UserId)
	assert.Equal(t, "bob", ranked[1].UserId)
	assert.Equal(t, "charlie", ranked[2].UserId)
	assert.Equal(t, []int{1, 2, 3}, []int{ranked[0].Rank, ranked[1].Rank, ranked[2].Rank})
}

func TestRunSkipsFailedWrites(t *testing.T) {
	store := newFakeScoreStore([]entities.UserScore{
		{UserId: "1", TotalScore: 10},
		{UserId: "2", TotalScore: 8},
		{UserId: "3", TotalScore: 6},
	})
	store.updateErrs = map[string]error{"2": assert.AnError}
	recomputer := NewRecomputer(store, time.Minute, 2)

	require.NoError(t, recomputer.Run(context.Background()))

	assert.Contains(t, store.updates, "1")
	assert.NotContains(t, store.updates, "2")
	assert.Contains(t, store.updates, "3", "a failed write must not abort the rest of the pass")
}

func TestRunReportsSnapshotFailure(t *testing.T) {
	store := newFakeScoreStore(nil)
	store.fetchErr = assert.AnError
	recomputer := NewRecomputer(store, time.Minute, 50)

	assert.ErrorIs(t, recomputer.Run(context.Background()), assert.AnError)
}

func TestRunSkipsOverlappingPass(t *testing.T) {
	store := newFakeScoreStore([]entities.UserScore{{UserId: "1", TotalScore: 1}})
	store.fetchGate = make(chan struct{})
	recomputer := NewRecomputer(store, time.Minute, 50)

	done := make(chan error, 1)
	go func() {
		done <- recomputer.Run(context.Background())
	}()
	// Wait for the first pass to enter its snapshot read.
	require.Eventually(t, func() bool { return store.fetchCount() == 1 }, time.Second, time.Millisecond)

	require.NoError(t, recomputer.Run(context.Background()))
	assert.Equal(t, 1, store.fetchCount(), "overlapping pass must be skipped, not interleaved")

	close(store.fetchGate)
	require.NoError(t, <-done)
}

func TestStartIsIdempotentAndRunsImmediately(t *testing.T) {
	store := newFakeScoreStore([]entities.UserScore{{UserId: "1", TotalScore: 1}})
	recomputer := NewRecomputer(store, time.Hour, 50)

	recomputer.Start()
	recomputer.Start()
	defer recomputer.Stop()

	require.Eventually(t, func() bool { return store.fetchCount() == 1 }, time.Second, time.Millisecond)
	// A second Start must not have scheduled a second immediate pass.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, store.fetchCount())
}

func TestRestartAfterStopResumesSchedule(t *testing.T) {
	store := newFakeScoreStore([]entities.UserScore{{UserId: "1", TotalScore: 1}})
	recomputer := NewRecomputer(store, 10*time.Millisecond, 50)

	recomputer.Start()
	require.Eventually(t, func() bool { return store.fetchCount() >= 1 }, time.Second, time.Millisecond)
	recomputer.Stop()

	stopped := store.fetchCount()
	recomputer.Start()
	// The restarted recomputer must keep ticking, not just run once.
	require.Eventually(t, func() bool { return store.fetchCount() >= stopped+2 }, time.Second, time.Millisecond)
	assert.NotPanics(t, func() { recomputer.Stop() })
}

func TestStopAfterStop(t *testing.T) {
	store := newFakeScoreStore(nil)
	recomputer := NewRecomputer(store, time.Hour, 50)

	recomputer.Start()
	recomputer.Stop()
	assert.NotPanics(t, func() { recomputer.Stop() })
}

func TestNewRecomputerDefaultsBatchSize(t *testing.T) {
	recomputer := NewRecomputer(newFakeScoreStore(nil), time.Minute, 0)
	assert.Equal(t, DefaultBatchSize, recomputer.batchSize)
}
