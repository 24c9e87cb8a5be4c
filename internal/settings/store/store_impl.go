package store

import (
	"encoding/json"

	"github.com/nvillagra/prodtrack/internal/config"
	"github.com/nvillagra/prodtrack/internal/localstore"
	recorddomain "github.com/nvillagra/prodtrack/internal/record/domain"
	settingsdomain "github.com/nvillagra/prodtrack/internal/settings/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// StorageKey carries the schema version; bumping it is the migration strategy.
const StorageKey = "settings.v2"

type Params struct {
	fx.In

	Store  *localstore.Store
	Prices *config.PriceDefaultsHolder
	Log    *zap.Logger
}

type Store struct {
	store  *localstore.Store
	prices *config.PriceDefaultsHolder
	log    *zap.Logger
}

func New(p Params) settingsdomain.Store {
	return &Store{
		store:  p.Store,
		prices: p.Prices,
		log:    p.Log.Named("settings.store"),
	}
}

func (s *Store) defaults() settingsdomain.Settings {
	return settingsdomain.Settings{
		Nickname:    "Técnico",
		Theme:       settingsdomain.ThemeDark,
		TTSEnabled:  true,
		Voice:       settingsdomain.VoiceConfig{Pitch: 1, Rate: 1},
		MonthlyGoal: decimal.Zero,
		Prices:      s.defaultPrices(),
	}
}

func (s *Store) defaultPrices() map[recorddomain.InstallationType]decimal.Decimal {
	d := s.prices.Current()
	return map[recorddomain.InstallationType]decimal.Decimal{
		recorddomain.TypeResidential: d.Residential,
		recorddomain.TypeCorporate:   d.Corporate,
		recorddomain.TypePole:        d.Pole,
		recorddomain.TypeService:     d.Service,
	}
}

// Load reads persisted settings merged over defaults. Unmarshalling into the
// defaults struct is the field-level merge: fields absent from an older
// payload keep their default, and the price table merges key by key.
func (s *Store) Load() settingsdomain.Settings {
	settings := s.defaults()
	raw, ok := s.store.Get(StorageKey)
	if ok {
		if err := json.Unmarshal(raw, &settings); err != nil {
			s.log.Warn("unreadable settings payload, using defaults", zap.Error(err))
			settings = s.defaults()
		}
	}
	s.normalizePrices(&settings)
	if !settings.Theme.Valid() {
		settings.Theme = settingsdomain.ThemeDark
	}
	return settings
}

// Save persists the full settings object, replacing any prior value.
func (s *Store) Save(settings settingsdomain.Settings) error {
	if !settings.Theme.Valid() {
		return settingsdomain.ErrInvalidTheme
	}
	if settings.MonthlyGoal.IsNegative() {
		return settingsdomain.ErrInvalidGoal
	}
	for t, price := range settings.Prices {
		if price.IsNegative() {
			return settingsdomain.ErrInvalidPrice
		}
		// The remote schema requires a strictly positive service price.
		if t == recorddomain.TypeService && !price.IsPositive() {
			return settingsdomain.ErrInvalidPrice
		}
	}
	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return s.store.Put(StorageKey, raw)
}

// EffectivePrice resolves the configured unit price for a type, falling back
// to the built-in default when absent or not positive.
func (s *Store) EffectivePrice(t recorddomain.InstallationType) decimal.Decimal {
	settings := s.Load()
	if price, ok := settings.Prices[t]; ok && price.IsPositive() {
		return price
	}
	return s.defaultPrices()[t]
}

func (s *Store) normalizePrices(settings *settingsdomain.Settings) {
	defaults := s.defaultPrices()
	if settings.Prices == nil {
		settings.Prices = defaults
		return
	}
	for _, t := range recorddomain.AllTypes() {
		price, ok := settings.Prices[t]
		if !ok || price.IsNegative() {
			settings.Prices[t] = defaults[t]
		}
	}
	if !settings.Prices[recorddomain.TypeService].IsPositive() {
		settings.Prices[recorddomain.TypeService] = defaults[recorddomain.TypeService]
	}
}
