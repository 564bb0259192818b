package models

// AdGateStatus is the response of the ad-reward gate check.
type AdGateStatus struct {
	CanWatchAd        bool    `json:"can_watch_ad"`
	AdsRemaining      int     `json:"ads_remaining"`
	CooldownRemaining float64 `json:"cooldown_remaining"`
}
