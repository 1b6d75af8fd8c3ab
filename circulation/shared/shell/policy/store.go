package policy

import (
	"context"
	"errors"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/eventstore"
)

// ErrLoadingPolicyFailed wraps storage failures of the underlying Provider.
var ErrLoadingPolicyFailed = errors.New("loading policy failed")

// Store turns raw settings into a core.Policy.
type Store struct {
	provider Provider
	logger   eventstore.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger makes the Store warn about malformed settings.
func WithLogger(logger eventstore.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates a Store reading from provider.
func NewStore(provider Provider, opts ...Option) *Store {
	s := &Store{provider: provider}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Load reads all settings. Missing or malformed values fall back to the defaults,
// storage errors are returned.
func (s *Store) Load(ctx context.Context) (core.Policy, error) {
	settings, err := s.readSettings(ctx)
	if err != nil {
		return core.Policy{}, errors.Join(ErrLoadingPolicyFailed, err)
	}

	p := core.DefaultPolicy()

	p.LoanPeriodDays = s.positiveInt(settings, core.SettingLoanPeriodDays, p.LoanPeriodDays)
	p.MaxRenewals = s.nonNegativeInt(settings, core.SettingMaxRenewals, p.MaxRenewals)
	p.FinePerDay = s.nonNegativeDecimal(settings, core.SettingFinePerDay, p.FinePerDay)
	p.GracePeriodDays = s.nonNegativeInt(settings, core.SettingGracePeriodDays, p.GracePeriodDays)
	p.MaxFineAmount = s.nonNegativeDecimal(settings, core.SettingMaxFineAmount, p.MaxFineAmount)
	p.DefaultBorrowingLimit = s.positiveInt(settings, core.SettingDefaultBorrowingLimit, p.DefaultBorrowingLimit)
	p.ReservationExpiryDays = s.positiveInt(settings, core.SettingReservationExpiryDays, p.ReservationExpiryDays)

	return p, nil
}

// Load is a shortcut for NewStore(provider).Load(ctx).
func Load(ctx context.Context, provider Provider) (core.Policy, error) {
	return NewStore(provider).Load(ctx)
}

func (s *Store) readSettings(ctx context.Context) (map[string]string, error) {
	if bulk, ok := s.provider.(BulkProvider); ok {
		return bulk.GetSettings(ctx)
	}

	keys := []string{
		core.SettingLoanPeriodDays,
		core.SettingMaxRenewals,
		core.SettingFinePerDay,
		core.SettingGracePeriodDays,
		core.SettingMaxFineAmount,
		core.SettingDefaultBorrowingLimit,
		core.SettingReservationExpiryDays,
	}

	settings := make(map[string]string, len(keys))
	for _, key := range keys {
		value, found, err := s.provider.GetSetting(ctx, key)
		if err != nil {
			return nil, err
		}

		if found {
			settings[key] = value
		}
	}

	return settings, nil
}

func (s *Store) positiveInt(settings map[string]string, key string, fallback int) int {
	return s.intSetting(settings, key, fallback, 1)
}

func (s *Store) nonNegativeInt(settings map[string]string, key string, fallback int) int {
	return s.intSetting(settings, key, fallback, 0)
}

func (s *Store) intSetting(settings map[string]string, key string, fallback int, minimum int) int {
	raw, found := settings[key]
	if !found {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < minimum {
		s.warnMalformed(key, raw)
		return fallback
	}

	return value
}

func (s *Store) nonNegativeDecimal(settings map[string]string, key string, fallback decimal.Decimal) decimal.Decimal {
	raw, found := settings[key]
	if !found {
		return fallback
	}

	value, err := decimal.NewFromString(raw)
	if err != nil || value.IsNegative() {
		s.warnMalformed(key, raw)
		return fallback
	}

	return value
}

func (s *Store) warnMalformed(key, raw string) {
	if s.logger != nil {
		s.logger.Warn("malformed policy setting, using default", "key", key, "value", raw)
	}
}
