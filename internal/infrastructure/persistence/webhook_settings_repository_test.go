package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/oakline/ledger/internal/application/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestGormWebhookSettingsRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormWebhookSettingsRepository(setupLedgerTestDB(t))

	cfg, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, export.WebhookConfig{}, cfg)

	first := export.WebhookConfig{EndpointURL: "https://sheets.example.com/a", Enabled: true}
	require.NoError(t, repo.Save(ctx, first))
	cfg, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, cfg)

	second := export.WebhookConfig{EndpointURL: "https://sheets.example.com/b", Enabled: false}
	require.NoError(t, repo.Save(ctx, second))
	cfg, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, cfg)
}

func TestGormWebhookSettingsRepository_LoadFailure(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB, DriverName: "postgres"}),
		&gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)

	dbErr := errors.New("relation does not exist")
	mock.ExpectQuery(`SELECT \* FROM "webhook_settings" WHERE name = \$1`).WillReturnError(dbErr)

	_, err = NewGormWebhookSettingsRepository(gormDB).Load(context.Background())
	assert.ErrorIs(t, err, dbErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}
