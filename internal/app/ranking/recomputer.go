package ranking

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/codeclash-vn/codeclash/internal/domains/entities"
	"github.com/codeclash-vn/codeclash/pkg/logging"
	"go.uber.org/zap"
)

const DefaultBatchSize = 50

// ScoreStore is the persisted per-user score collection the recomputer
// scans and rewrites.
type ScoreStore interface {
	FetchUserScores(ctx context.Context) ([]entities.UserScore, error)
	UpdateUserRank(ctx context.Context, userId string, userRank entities.UserRank) error
}

// Recomputer periodically rewrites honor scores and dense ranks for the
// whole user population.
type Recomputer struct {
	store     ScoreStore
	interval  time.Duration
	batchSize int

	stopCh   chan struct{}
	wg       sync.WaitGroup
	running  bool
	inFlight atomic.Bool
	mu       sync.Mutex
}

func NewRecomputer(store ScoreStore, interval time.Duration, batchSize int) *Recomputer {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Recomputer{
		store:     store,
		interval:  interval,
		batchSize: batchSize,
	}
}

// Start begins the recurring recompute with one immediate run.
// Calling Start while already running is a no-op; after Stop a new
// Start resumes the schedule on a fresh stop channel.
func (r *Recomputer) Start() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.stopCh = make(chan struct{})
	stopCh := r.stopCh
	r.mu.Unlock()

	logging.Info("starting rank recomputer", zap.Duration("interval", r.interval))

	r.wg.Add(1)
	go r.loop(stopCh)
}

// Stop cancels the recurring timer. An in-flight run is left to finish.
func (r *Recomputer) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	stopCh := r.stopCh
	r.mu.Unlock()

	close(stopCh)
	r.wg.Wait()
	logging.Info("rank recomputer stopped")
}

func (r *Recomputer) loop(stopCh <-chan struct{}) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	if err := r.Run(context.Background()); err != nil {
		logging.Error("rank recompute failed", zap.Error(err))
	}

	for {
		select {
		case <-ticker.C:
			if err := r.Run(context.Background()); err != nil {
				logging.Error("rank recompute failed", zap.Error(err))
			}
		case <-stopCh:
			return
		}
	}
}

// Run performs one full recompute pass. A tick that fires while the
// previous pass is still in flight is skipped. A failure to read the
// snapshot aborts the pass; per-user write failures are logged and
// skipped so the rest of the population still gets ranked.
func (r *Recomputer) Run(ctx context.Context) error {
	if !r.inFlight.CompareAndSwap(false, true) {
		logging.Info("rank recompute already in flight, skipping tick")
		return nil
	}
	defer r.inFlight.Store(false)

	userScores, err := r.store.FetchUserScores(ctx)
	if err != nil {
		return err
	}

	ranked := RankUserScores(userScores)

	var failed atomic.Int32
	for start := 0; start < len(ranked); start += r.batchSize {
		end := start + r.batchSize
		if end > len(ranked) {
			end = len(ranked)
		}
		var wg sync.WaitGroup
		for _, userScore := range ranked[start:end] {
			wg.Add(1)
			go func(userScore entities.UserScore) {
				defer wg.Done()
				err := r.store.UpdateUserRank(ctx, userScore.UserId, entities.UserRank{
					HonorScore: userScore.HonorScore,
					Rank:       userScore.Rank,
				})
				if err != nil {
					failed.Add(1)
					logging.Error("failed to update user rank",
						zap.String("user_id", userScore.UserId),
						zap.Error(err),
					)
				}
			}(userScore)
		}
		wg.Wait()
	}

	logging.Info("rank recompute finished",
		zap.Int("users", len(ranked)),
		zap.Int32("failed", failed.Load()),
	)
	return nil
}

// RankUserScores derives honor scores and dense 1-based ranks, ordered
// by honor score descending with user id ascending as tie-break.
func RankUserScores(userScores []entities.UserScore) []entities.UserScore {
	ranked := make([]entities.UserScore, len(userScores))
	copy(ranked, userScores)
	for i := range ranked {
		ranked[i].HonorScore = ranked[i].TotalScore + ranked[i].BattleScore
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].HonorScore != ranked[j].HonorScore {
			return ranked[i].HonorScore > ranked[j].HonorScore
		}
		return ranked[i].UserId < ranked[j].UserId
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
