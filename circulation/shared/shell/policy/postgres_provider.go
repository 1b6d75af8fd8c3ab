package policy

import (
	"context"
	"database/sql"
	"errors"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // postgres dialect
	"github.com/jmoiron/sqlx"
)

const defaultSettingsTableName = "policy_settings"

var (
	// ErrReadingPolicySettingsFailed is returned when the settings table cannot be queried.
	ErrReadingPolicySettingsFailed = errors.New("reading policy settings failed")

	// ErrWritingPolicySettingFailed is returned when a setting cannot be stored.
	ErrWritingPolicySettingFailed = errors.New("writing policy setting failed")
)

// PostgresProvider reads settings from a key/value table, see SettingsTableDDL.
type PostgresProvider struct {
	db        *sqlx.DB
	tableName string
	dialect   goqu.DialectWrapper
}

type settingRow struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}

// PostgresOption configures a PostgresProvider.
type PostgresOption func(*PostgresProvider)

// WithSettingsTableName overrides the default table name "policy_settings".
func WithSettingsTableName(tableName string) PostgresOption {
	return func(p *PostgresProvider) {
		if tableName != "" {
			p.tableName = tableName
		}
	}
}

// NewPostgresProvider creates a PostgresProvider on top of an sqlx connection.
func NewPostgresProvider(db *sqlx.DB, opts ...PostgresOption) *PostgresProvider {
	p := &PostgresProvider{
		db:        db,
		tableName: defaultSettingsTableName,
		dialect:   goqu.Dialect("postgres"),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// SettingsTableDDL returns the statement creating the settings table.
func SettingsTableDDL(tableName string) string {
	return `CREATE TABLE IF NOT EXISTS "` + tableName + `" (
	"key" text PRIMARY KEY,
	"value" text NOT NULL,
	"updated_at" timestamptz NOT NULL DEFAULT now()
)`
}

func (p *PostgresProvider) GetSetting(ctx context.Context, key string) (string, bool, error) {
	query, args, err := p.dialect.From(p.tableName).
		Prepared(true).
		Select("value").
		Where(goqu.C("key").Eq(key)).
		ToSQL()

	if err != nil {
		return "", false, errors.Join(ErrReadingPolicySettingsFailed, err)
	}

	var value string
	err = p.db.GetContext(ctx, &value, query, args...)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", false, nil
	case err != nil:
		return "", false, errors.Join(ErrReadingPolicySettingsFailed, err)
	}

	return value, true, nil
}

func (p *PostgresProvider) GetSettings(ctx context.Context) (map[string]string, error) {
	query, args, err := p.dialect.From(p.tableName).
		Prepared(true).
		Select("key", "value").
		ToSQL()

	if err != nil {
		return nil, errors.Join(ErrReadingPolicySettingsFailed, err)
	}

	var rows []settingRow
	if err = p.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Join(ErrReadingPolicySettingsFailed, err)
	}

	settings := make(map[string]string, len(rows))
	for _, row := range rows {
		settings[row.Key] = row.Value
	}

	return settings, nil
}

// SetSetting inserts or updates a setting.
func (p *PostgresProvider) SetSetting(ctx context.Context, key, value string) error {
	query, args, err := p.dialect.Insert(p.tableName).
		Prepared(true).
		Rows(goqu.Record{"key": key, "value": value}).
		OnConflict(goqu.DoUpdate("key", goqu.Record{
			"value":      goqu.L(`EXCLUDED."value"`),
			"updated_at": goqu.L("now()"),
		})).
		ToSQL()

	if err != nil {
		return errors.Join(ErrWritingPolicySettingFailed, err)
	}

	if _, err = p.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Join(ErrWritingPolicySettingFailed, err)
	}

	return nil
}
