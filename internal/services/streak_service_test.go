package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danhtrinhdevelopermay/BSA6/internal/models"
	"github.com/danhtrinhdevelopermay/BSA6/pkg/lock"
)

// fakeUserRepo is an in-memory UserRepository shared by the service tests.
type fakeUserRepo struct {
	mu           sync.Mutex
	users        map[uint]*models.User
	streakWrites int
	failStreak   bool
	failCreate   bool
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uint]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) CreateUser(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate {
		return errors.New("create failed")
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetUserByID(id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetUserByExternalID(externalID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.ExternalID == externalID {
			copied := *user
			return &copied, nil
		}
	}
	return nil, errors.New("user not found")
}

func (r *fakeUserRepo) GetUsers() ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]models.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, *user)
	}
	return users, nil
}

func (r *fakeUserRepo) UpdateUser(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) UpdateStreak(id uint, streak int, lastActive *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failStreak {
		return errors.New("write failed")
	}
	user, ok := r.users[id]
	if !ok {
		return errors.New("user not found")
	}
	user.Streak = streak
	user.LastActive = lastActive
	r.streakWrites++
	return nil
}

func (r *fakeUserRepo) AddXP(id uint, gain int) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	user.XP += gain
	copied := *user
	return &copied, nil
}

func ts(t time.Time) *time.Time { return &t }

func TestEvaluateStreak(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name       string
		streak     int
		lastActive *time.Time
		want       StreakResult
	}{
		{
			name:       "first activity starts at one",
			streak:     0,
			lastActive: nil,
			want:       StreakResult{Updated: true, NewStreak: 1, Celebrate: true},
		},
		{
			name:       "same day is a no-op",
			streak:     4,
			lastActive: ts(time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)),
			want:       StreakResult{Updated: false, NewStreak: 4},
		},
		{
			name:       "consecutive day increments",
			streak:     4,
			lastActive: ts(time.Date(2025, 6, 14, 23, 59, 0, 0, time.UTC)),
			want:       StreakResult{Updated: true, NewStreak: 5, Celebrate: true},
		},
		{
			name:       "two day gap resets to one",
			streak:     9,
			lastActive: ts(time.Date(2025, 6, 13, 10, 0, 0, 0, time.UTC)),
			want:       StreakResult{Updated: true, NewStreak: 1, Celebrate: true},
		},
		{
			name:       "long gap resets to one",
			streak:     100,
			lastActive: ts(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
			want:       StreakResult{Updated: true, NewStreak: 1, Celebrate: true},
		},
		{
			name:   "day boundary is UTC not local",
			streak: 2,
			// 01:30 on the 15th in a +02:00 zone is 23:30 UTC on the 14th,
			// so this still counts as yesterday.
			lastActive: ts(time.Date(2025, 6, 15, 1, 30, 0, 0, time.FixedZone("EET", 2*3600))),
			want:       StreakResult{Updated: true, NewStreak: 3, Celebrate: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateStreak(tt.streak, tt.lastActive, now)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateStreakIdempotentWithinDay(t *testing.T) {
	now := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	first := EvaluateStreak(3, ts(now.Add(-24*time.Hour)), now)
	require.True(t, first.Updated)

	// Re-evaluating with the already-updated state later the same day must
	// not move the streak again.
	active := now
	second := EvaluateStreak(first.NewStreak, &active, now.Add(5*time.Hour))
	assert.False(t, second.Updated)
	assert.Equal(t, first.NewStreak, second.NewStreak)
}

func TestCelebrationMessage(t *testing.T) {
	tests := []struct {
		streak int
		want   string
	}{
		{1, "Welcome back! Your learning journey begins! 🌟"},
		{3, "3 days in a row! You're building momentum! 🔥"},
		{7, "One week streak! You're on fire! 🔥🔥"},
		{14, "Two weeks! You're becoming unstoppable! ⚡"},
		{30, "30 days! Learning champion! 🏆"},
		{100, "100 days! You're a learning legend! 👑"},
		{20, "20 days streak! Keep up the amazing work! 🎉"},
		{50, "50 days streak! Keep up the amazing work! 🎉"},
		{2, "2 days in a row! Keep it going! 💪"},
		{5, "5 days in a row! Keep it going! 💪"},
		{11, "11 days in a row! Keep it going! 💪"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CelebrationMessage(tt.streak), "streak %d", tt.streak)
	}
}

func TestCheckDailyStreakPersists(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	repo := newFakeUserRepo(&models.User{
		ID:         1,
		Streak:     6,
		LastActive: ts(now.Add(-24 * time.Hour)),
	})
	svc := NewStreakService(repo, lock.NewKeyedMutex(), func() time.Time { return now })

	result, err := svc.CheckDailyStreak(1)
	require.NoError(t, err)
	assert.Equal(t, StreakResult{Updated: true, NewStreak: 7, Celebrate: true}, result)

	user, err := repo.GetUserByID(1)
	require.NoError(t, err)
	assert.Equal(t, 7, user.Streak)
	require.NotNil(t, user.LastActive)
	assert.Equal(t, now, *user.LastActive)
}

func TestCheckDailyStreakSecondCallSameDay(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	repo := newFakeUserRepo(&models.User{ID: 1, Streak: 2, LastActive: ts(now.Add(-24 * time.Hour))})
	svc := NewStreakService(repo, lock.NewKeyedMutex(), func() time.Time { return now })

	first, err := svc.CheckDailyStreak(1)
	require.NoError(t, err)
	assert.True(t, first.Updated)

	second, err := svc.CheckDailyStreak(1)
	require.NoError(t, err)
	assert.False(t, second.Updated)
	assert.Equal(t, first.NewStreak, second.NewStreak)
	assert.Equal(t, 1, repo.streakWrites)
}

func TestCheckDailyStreakConcurrentSingleIncrement(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	repo := newFakeUserRepo(&models.User{ID: 1, Streak: 3, LastActive: ts(now.Add(-24 * time.Hour))})
	svc := NewStreakService(repo, lock.NewKeyedMutex(), func() time.Time { return now })

	const callers = 50
	var wg sync.WaitGroup
	updates := make(chan bool, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := svc.CheckDailyStreak(1)
			assert.NoError(t, err)
			updates <- result.Updated
		}()
	}
	wg.Wait()
	close(updates)

	updated := 0
	for u := range updates {
		if u {
			updated++
		}
	}
	assert.Equal(t, 1, updated, "exactly one caller should observe the increment")
	assert.Equal(t, 1, repo.streakWrites)

	user, _ := repo.GetUserByID(1)
	assert.Equal(t, 4, user.Streak)
}

func TestCheckDailyStreakWriteFailure(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	repo := newFakeUserRepo(&models.User{ID: 1, Streak: 5, LastActive: ts(now.Add(-24 * time.Hour))})
	repo.failStreak = true
	svc := NewStreakService(repo, lock.NewKeyedMutex(), func() time.Time { return now })

	result, err := svc.CheckDailyStreak(1)
	require.Error(t, err)
	assert.False(t, result.Updated, "a failed write must never report success")
	assert.Equal(t, 5, result.NewStreak)
}

func TestResetStreak(t *testing.T) {
	now := time.Now().UTC()
	repo := newFakeUserRepo(&models.User{ID: 1, Streak: 12, LastActive: &now})
	svc := NewStreakService(repo, lock.NewKeyedMutex(), nil)

	require.NoError(t, svc.ResetStreak(1))

	user, err := repo.GetUserByID(1)
	require.NoError(t, err)
	assert.Equal(t, 0, user.Streak)
	assert.Nil(t, user.LastActive)
}
