package services

// Reward issuance policy. Pure integer arithmetic over already-validated
// inputs; these functions never fail.

const (
	// DonationRewardGems is granted for every material listing created.
	DonationRewardGems = 5

	// OrderBonusGems is granted unconditionally after every settled order.
	OrderBonusGems = 2

	// DailyLoginBaseGems is the base grant for a daily login claim.
	DailyLoginBaseGems = 5

	// streakBonusStep adds 2 gems per completed 7-day streak.
	streakBonusStep = 2
	streakBonusCap  = 10
)

// StreakBonusGems returns the bonus portion of a daily login reward:
// +2 gems per completed 7-day streak, capped at +10.
func StreakBonusGems(streak int) int {
	bonus := streak / 7 * streakBonusStep
	if bonus > streakBonusCap {
		bonus = streakBonusCap
	}
	return bonus
}

// DailyLoginGems returns the total gems for a daily login claim at the
// given streak value.
func DailyLoginGems(streak int) int {
	return DailyLoginBaseGems + StreakBonusGems(streak)
}
