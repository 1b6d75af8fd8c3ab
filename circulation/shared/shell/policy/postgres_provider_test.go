package policy_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell/policy"
)

func givenMockSQLX(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return sqlx.NewDb(db, "postgres"), mock
}

func Test_PostgresProvider_GetSetting(t *testing.T) {
	// arrange
	db, mock := givenMockSQLX(t)
	provider := policy.NewPostgresProvider(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "value" FROM "policy_settings" WHERE ("key" = $1)`)).
		WithArgs(core.SettingMaxRenewals).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("4"))

	// act
	value, found, err := provider.GetSetting(context.Background(), core.SettingMaxRenewals)

	// assert
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "4", value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_PostgresProvider_GetSetting_NotConfigured(t *testing.T) {
	// arrange
	db, mock := givenMockSQLX(t)
	provider := policy.NewPostgresProvider(db, policy.WithSettingsTableName("settings"))

	mock.ExpectQuery(regexp.QuoteMeta(`FROM "settings"`)).
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	// act
	_, found, err := provider.GetSetting(context.Background(), core.SettingFinePerDay)

	// assert
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_PostgresProvider_LoadPolicy(t *testing.T) {
	// arrange
	db, mock := givenMockSQLX(t)
	provider := policy.NewPostgresProvider(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "key", "value" FROM "policy_settings"`)).
		WillReturnRows(sqlmock.NewRows([]string{"key", "value"}).
			AddRow(core.SettingLoanPeriodDays, "7").
			AddRow(core.SettingFinePerDay, "1.25"))

	// act
	p, err := policy.Load(context.Background(), provider)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 7, p.LoanPeriodDays)
	assert.Equal(t, "1.25", p.FinePerDay.StringFixed(2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_PostgresProvider_QueryFails(t *testing.T) {
	// arrange
	db, mock := givenMockSQLX(t)
	provider := policy.NewPostgresProvider(db)

	mock.ExpectQuery(`SELECT`).WillReturnError(errors.New("connection refused"))

	// act
	_, err := policy.Load(context.Background(), provider)

	// assert
	assert.ErrorIs(t, err, policy.ErrLoadingPolicyFailed)
	assert.ErrorIs(t, err, policy.ErrReadingPolicySettingsFailed)
}

func Test_PostgresProvider_SetSetting(t *testing.T) {
	// arrange
	db, mock := givenMockSQLX(t)
	provider := policy.NewPostgresProvider(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "policy_settings"`)+`.*`+regexp.QuoteMeta(`ON CONFLICT`)).
		WithArgs(core.SettingMaxRenewals, "3").
		WillReturnResult(sqlmock.NewResult(0, 1))

	// act
	err := provider.SetSetting(context.Background(), core.SettingMaxRenewals, "3")

	// assert
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
