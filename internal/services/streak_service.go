package services

import (
	"fmt"
	"time"

	"github.com/danhtrinhdevelopermay/BSA6/internal/repositories"
	"github.com/danhtrinhdevelopermay/BSA6/pkg/lock"
)

// Clock supplies the current time. Injected so day-boundary logic can be
// tested against fixed instants instead of the wall clock.
type Clock func() time.Time

// StreakResult is the outcome of a daily streak evaluation.
type StreakResult struct {
	Updated   bool `json:"updated"`
	NewStreak int  `json:"newStreak"`
	Celebrate bool `json:"celebrateStreak"`
}

// EvaluateStreak is the pure streak transition over (streak, lastActive) at
// the given instant. Day boundaries are UTC calendar days.
func EvaluateStreak(currentStreak int, lastActive *time.Time, now time.Time) StreakResult {
	today := calendarDay(now)

	if lastActive == nil {
		// First recorded activity.
		return StreakResult{Updated: true, NewStreak: 1, Celebrate: true}
	}

	last := calendarDay(*lastActive)
	if last.Equal(today) {
		// Already counted today.
		return StreakResult{Updated: false, NewStreak: currentStreak}
	}

	if daysBetween(last, today) == 1 {
		return StreakResult{Updated: true, NewStreak: currentStreak + 1, Celebrate: true}
	}

	// Missed at least one day: streak starts over.
	return StreakResult{Updated: true, NewStreak: 1, Celebrate: true}
}

// CelebrationMessage returns the copy shown when a streak milestone fires.
// Pure and deterministic.
func CelebrationMessage(streak int) string {
	switch streak {
	case 1:
		return "Welcome back! Your learning journey begins! 🌟"
	case 3:
		return "3 days in a row! You're building momentum! 🔥"
	case 7:
		return "One week streak! You're on fire! 🔥🔥"
	case 14:
		return "Two weeks! You're becoming unstoppable! ⚡"
	case 30:
		return "30 days! Learning champion! 🏆"
	case 100:
		return "100 days! You're a learning legend! 👑"
	}
	if streak%10 == 0 {
		return fmt.Sprintf("%d days streak! Keep up the amazing work! 🎉", streak)
	}
	return fmt.Sprintf("%d days in a row! Keep it going! 💪", streak)
}

func calendarDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

// StreakService applies the streak transition to a user and persists the
// result, at most once per UTC calendar day per user.
type StreakService struct {
	users repositories.UserRepository
	locks *lock.KeyedMutex
	now   Clock
}

// NewStreakService creates a new StreakService
func NewStreakService(users repositories.UserRepository, locks *lock.KeyedMutex, now Clock) *StreakService {
	if now == nil {
		now = time.Now
	}
	return &StreakService{users: users, locks: locks, now: now}
}

// CheckDailyStreak evaluates and, if a day boundary was crossed, persists the
// user's streak. The per-user lock guarantees exactly one logical increment
// per day even under concurrent profile fetches. A failed write is reported
// as Updated=false, never as a successful increment.
func (s *StreakService) CheckDailyStreak(userID uint) (StreakResult, error) {
	key := fmt.Sprintf("user:%d", userID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return StreakResult{}, fmt.Errorf("streak: loading user %d: %w", userID, err)
	}

	result := EvaluateStreak(user.Streak, user.LastActive, s.now())
	if !result.Updated {
		return result, nil
	}

	now := s.now()
	if err := s.users.UpdateStreak(user.ID, result.NewStreak, &now); err != nil {
		return StreakResult{Updated: false, NewStreak: user.Streak},
			fmt.Errorf("streak: persisting streak for user %d: %w", userID, err)
	}
	return result, nil
}

// ResetStreak clears the streak state entirely (testing hook).
func (s *StreakService) ResetStreak(userID uint) error {
	key := fmt.Sprintf("user:%d", userID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	return s.users.UpdateStreak(userID, 0, nil)
}
