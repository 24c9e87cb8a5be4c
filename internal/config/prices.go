package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// PriceDefaults is the built-in unit price per installation type, in thousands
// of guaraníes. Settings overrides are merged on top of these at read time.
type PriceDefaults struct {
	Residential decimal.Decimal `mapstructure:"residential"`
	Corporate   decimal.Decimal `mapstructure:"corporate"`
	Pole        decimal.Decimal `mapstructure:"pole"`
	Service     decimal.Decimal `mapstructure:"service"`
}

func DefaultPrices() PriceDefaults {
	return PriceDefaults{
		Residential: decimal.NewFromInt(7),
		Corporate:   decimal.NewFromInt(12),
		Pole:        decimal.NewFromInt(5),
		Service:     decimal.NewFromInt(10),
	}
}

// PriceDefaultsHolder exposes the current defaults and hot-reloads them when
// the backing prices.yml changes.
type PriceDefaultsHolder struct {
	current atomic.Value // holds PriceDefaults
}

func NewPriceDefaultsHolder() (*PriceDefaultsHolder, error) {
	v := viper.New()

	v.SetConfigName("prices")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/prodtrack")
	v.AddConfigPath(".")

	v.SetEnvPrefix("PRODTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultPrices()
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		v.SetDefault("prices.residential", defaults.Residential)
		v.SetDefault("prices.corporate", defaults.Corporate)
		v.SetDefault("prices.pole", defaults.Pole)
		v.SetDefault("prices.service", defaults.Service)
	}

	cfg := defaults
	if err := v.UnmarshalKey("prices", &cfg, viper.DecodeHook(decimalDecodeHook())); err != nil {
		return nil, err
	}
	if err := validatePrices(cfg); err != nil {
		return nil, err
	}

	holder := &PriceDefaultsHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated := DefaultPrices()
		if err := v.UnmarshalKey("prices", &updated, viper.DecodeHook(decimalDecodeHook())); err != nil {
			log.Printf("[prices-config] reload failed: %v", err)
			return
		}
		if err := validatePrices(updated); err != nil {
			log.Printf("[prices-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
	})

	return holder, nil
}

// StaticPriceDefaults returns a holder pinned to cfg, with no file watching.
func StaticPriceDefaults(cfg PriceDefaults) *PriceDefaultsHolder {
	holder := &PriceDefaultsHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *PriceDefaultsHolder) Current() PriceDefaults {
	return h.current.Load().(PriceDefaults)
}

func validatePrices(cfg PriceDefaults) error {
	for _, p := range []decimal.Decimal{cfg.Residential, cfg.Corporate, cfg.Pole} {
		if p.IsNegative() {
			return errors.New("price defaults must be non-negative")
		}
	}
	// The remote schema requires a strictly positive service price.
	if !cfg.Service.IsPositive() {
		return errors.New("service price must be positive")
	}
	return nil
}
