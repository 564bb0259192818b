package services_test

import (
	"testing"
	"time"

	"chadder/internal/models"
	"chadder/internal/services"
)

func TestGateStatusFreshUser(t *testing.T) {
	now := time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)
	user := &models.User{ID: "u1"}

	status := services.GateStatus(user, now)

	if !status.CanWatchAd {
		t.Error("fresh user should be able to watch")
	}
	if status.AdsRemaining != services.AD_MAX_PER_DAY {
		t.Errorf("AdsRemaining = %d, want %d", status.AdsRemaining, services.AD_MAX_PER_DAY)
	}
	if status.CooldownRemaining != 0 {
		t.Errorf("CooldownRemaining = %v, want 0", status.CooldownRemaining)
	}
}

func TestGateStatusCooldownActive(t *testing.T) {
	now := time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)
	last := now.Add(-10 * time.Second)
	user := &models.User{ID: "u1", LastAdWatched: &last, AdsWatchedToday: 1}

	status := services.GateStatus(user, now)

	if status.CanWatchAd {
		t.Error("gate should be closed during cooldown")
	}
	if status.AdsRemaining != services.AD_MAX_PER_DAY-1 {
		t.Errorf("AdsRemaining = %d, want %d", status.AdsRemaining, services.AD_MAX_PER_DAY-1)
	}
	want := (services.AD_COOLDOWN - 10*time.Second).Seconds()
	if status.CooldownRemaining != want {
		t.Errorf("CooldownRemaining = %v, want %v", status.CooldownRemaining, want)
	}
}

func TestGateStatusCooldownElapsed(t *testing.T) {
	now := time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)
	last := now.Add(-services.AD_COOLDOWN)
	user := &models.User{ID: "u1", LastAdWatched: &last, AdsWatchedToday: 2}

	status := services.GateStatus(user, now)

	if !status.CanWatchAd {
		t.Error("gate should reopen once the cooldown elapses")
	}
	if status.CooldownRemaining != 0 {
		t.Errorf("CooldownRemaining = %v, want 0", status.CooldownRemaining)
	}
}

func TestGateStatusDailyCapReached(t *testing.T) {
	now := time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)
	last := now.Add(-time.Hour)
	user := &models.User{ID: "u1", LastAdWatched: &last, AdsWatchedToday: services.AD_MAX_PER_DAY}

	status := services.GateStatus(user, now)

	if status.CanWatchAd {
		t.Error("gate should be closed at the daily cap")
	}
	if status.AdsRemaining != 0 {
		t.Errorf("AdsRemaining = %d, want 0", status.AdsRemaining)
	}
}

func TestGateStatusCounterResetsAtMidnight(t *testing.T) {
	// last watch was yesterday; today's counter starts over
	now := time.Date(2025, 3, 12, 0, 30, 0, 0, time.UTC)
	last := time.Date(2025, 3, 11, 23, 0, 0, 0, time.UTC)
	user := &models.User{ID: "u1", LastAdWatched: &last, AdsWatchedToday: services.AD_MAX_PER_DAY}

	status := services.GateStatus(user, now)

	if !status.CanWatchAd {
		t.Error("gate should reopen after the UTC midnight reset")
	}
	if status.AdsRemaining != services.AD_MAX_PER_DAY {
		t.Errorf("AdsRemaining = %d, want %d", status.AdsRemaining, services.AD_MAX_PER_DAY)
	}
}
