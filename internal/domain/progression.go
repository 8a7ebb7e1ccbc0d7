package domain

import "time"

// UserProgression is the subset of a user profile owned by the progression engine
type UserProgression struct {
	UserID    string    `json:"user_id"`
	Level     int       `json:"level"`
	Exp       int64     `json:"exp"`
	Rubies    int64     `json:"rubies"`
	Energy    int       `json:"energy"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProgressionView is the read model returned to clients, including the
// EXP still required for the next level so client mirrors never recompute it.
type ProgressionView struct {
	UserProgression
	ExpThreshold int64 `json:"exp_threshold"`
	ExpToNext    int64 `json:"exp_to_next"`
}

// ProgressionResult describes the outcome of one EXP award
type ProgressionResult struct {
	Level        int   `json:"level"`
	Exp          int64 `json:"exp"`
	LeveledUp    bool  `json:"leveled_up"`
	LevelsGained int   `json:"levels_gained"`
	EnergyReward int   `json:"energy_reward"`
	Energy       int   `json:"energy"`
}

// RubyGrantResult describes the outcome of a ruby grant
type RubyGrantResult struct {
	Granted int64  `json:"granted"`
	Reason  string `json:"reason"`
	Balance int64  `json:"balance"`
}

// RewardType identifies the currency a grant pays out in
type RewardType string

const (
	RewardTypeExp    RewardType = "EXP"
	RewardTypeRubies RewardType = "RUBIES"
)

// Currency names recorded on transactions
const (
	CurrencyRubies = "rubies"
	CurrencyEnergy = "energy"
)

// CurrencyTransaction is an append-only audit record of a balance change
type CurrencyTransaction struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Currency  string    `json:"currency"`
	Amount    int64     `json:"amount"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}
