// Package domain defines the device-local user configuration.
package domain

import (
	"errors"

	recorddomain "github.com/nvillagra/prodtrack/internal/record/domain"
	"github.com/shopspring/decimal"
)

type Theme string

var (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

func (t Theme) Valid() bool { return t == ThemeDark || t == ThemeLight }

// VoiceConfig holds the speech-synthesis parameters the client applies.
type VoiceConfig struct {
	Pitch    float64 `json:"pitch"`
	Rate     float64 `json:"rate"`
	VoiceURI string  `json:"voice_uri,omitempty"`
}

// Settings is the singleton per-device configuration. It has no remote copy;
// only the optional AI key ever leaves the device, inside request headers.
type Settings struct {
	Nickname    string                                             `json:"nickname"`
	Theme       Theme                                              `json:"theme"`
	TTSEnabled  bool                                               `json:"tts_enabled"`
	Voice       VoiceConfig                                        `json:"voice"`
	MonthlyGoal decimal.Decimal                                    `json:"monthly_goal"`
	Prices      map[recorddomain.InstallationType]decimal.Decimal  `json:"prices"`
	APIKey      string                                             `json:"api_key,omitempty"`
}

// Store loads and persists settings. Load never fails: a missing or corrupt
// payload degrades to defaults, and partially saved older payloads are
// backfilled field by field.
type Store interface {
	Load() Settings
	Save(settings Settings) error
	EffectivePrice(t recorddomain.InstallationType) decimal.Decimal
}

var (
	ErrInvalidTheme = errors.New("invalid_theme")
	ErrInvalidPrice = errors.New("invalid_price")
	ErrInvalidGoal  = errors.New("invalid_goal")
)
