package tenant_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/opsarc/tenantd/internal/domain"
	"github.com/opsarc/tenantd/internal/tenant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockedManager(t *testing.T) (*tenant.PartitionManager, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return tenant.NewPartitionManager(gdb), mock
}

func TestDerivePartitionID(t *testing.T) {
	tests := []struct {
		name    string
		display string
		want    string
	}{
		{"simple", "acme", "org_acme"},
		{"upper case folded", "Acme", "org_acme"},
		{"surrounding whitespace trimmed", "  Acme  ", "org_acme"},
		{"internal whitespace to underscore", "Acme Corp", "org_acme_corp"},
		{"whitespace runs collapse", "Acme \t  Corp", "org_acme_corp"},
		{"illegal runes stripped", "Acme, Inc.", "org_acme_inc"},
		{"digits and hyphens kept", "acme-2 west", "org_acme-2_west"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tenant.DerivePartitionID(tt.display))
		})
	}
}

// Names that the directory treats as the same organization must derive the
// same partition id, and vice versa for clearly distinct names.
func TestDerivePartitionIDCollisionConsistency(t *testing.T) {
	colliding := [][2]string{
		{"Acme", "acme"},
		{"Acme Corp", "ACME CORP"},
		{"Acme  Corp", "Acme Corp"},
		{" acme ", "acme"},
	}
	for _, pair := range colliding {
		assert.Equal(t,
			tenant.DerivePartitionID(pair[0]),
			tenant.DerivePartitionID(pair[1]),
			"%q and %q should collide", pair[0], pair[1])
	}

	distinct := [][2]string{
		{"Acme", "Acme Corp"},
		{"acme-east", "acme-west"},
	}
	for _, pair := range distinct {
		assert.NotEqual(t,
			tenant.DerivePartitionID(pair[0]),
			tenant.DerivePartitionID(pair[1]),
			"%q and %q should not collide", pair[0], pair[1])
	}
}

func TestPartitionManagerCreate(t *testing.T) {
	t.Run("creates table and cycles a probe row", func(t *testing.T) {
		m, mock := newMockedManager(t)

		mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS "org_acme"`)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "org_acme" (doc) VALUES ('{"_init": true}'::jsonb)`)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "org_acme" WHERE doc @> '{"_init": true}'::jsonb`)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, m.Create(context.Background(), "org_acme"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("succeeds when the probe cycle fails", func(t *testing.T) {
		m, mock := newMockedManager(t)

		mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS "org_acme"`)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "org_acme"`)).
			WillReturnError(assert.AnError)
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "org_acme"`)).
			WillReturnError(assert.AnError)

		assert.NoError(t, m.Create(context.Background(), "org_acme"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("fails when the table cannot be created", func(t *testing.T) {
		m, mock := newMockedManager(t)

		mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS "org_acme"`)).
			WillReturnError(assert.AnError)

		assert.ErrorIs(t, m.Create(context.Background(), "org_acme"), assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPartitionManagerCopyAll(t *testing.T) {
	m, mock := newMockedManager(t)

	// Ids are regenerated by the destination's column default; only doc
	// and created_at travel.
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "org_acme_corp" (doc, created_at) SELECT doc, created_at FROM "org_acme"`)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	assert.NoError(t, m.CopyAll(context.Background(), "org_acme", "org_acme_corp"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPartitionManagerDrop(t *testing.T) {
	t.Run("drops the table", func(t *testing.T) {
		m, mock := newMockedManager(t)

		mock.ExpectExec(regexp.QuoteMeta(`DROP TABLE IF EXISTS "org_acme"`)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.NoError(t, m.Drop(context.Background(), "org_acme"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("repeated drop is a no-op", func(t *testing.T) {
		m, mock := newMockedManager(t)

		mock.ExpectExec(regexp.QuoteMeta(`DROP TABLE IF EXISTS "org_acme"`)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta(`DROP TABLE IF EXISTS "org_acme"`)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.NoError(t, m.Drop(context.Background(), "org_acme"))
		assert.NoError(t, m.Drop(context.Background(), "org_acme"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPartitionManagerReadAll(t *testing.T) {
	m, mock := newMockedManager(t)

	rows := sqlmock.NewRows([]string{"doc"}).
		AddRow([]byte(`{"k": "v1"}`)).
		AddRow([]byte(`{"k": "v2"}`))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT doc FROM "org_acme"`)).
		WillReturnRows(rows)

	docs, err := m.ReadAll(context.Background(), "org_acme")
	assert.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "v1", docs[0]["k"])
	assert.Equal(t, "v2", docs[1]["k"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Partition ids are interpolated into DDL, so anything that is not a
// derived id must be rejected before any SQL is issued.
func TestPartitionManagerRejectsInvalidIDs(t *testing.T) {
	m, mock := newMockedManager(t)
	ctx := context.Background()

	for _, id := range []string{"", "acme", "org_", "org_Acme", `org_a"cme`, "org_a;drop table admins"} {
		assert.ErrorIs(t, m.Create(ctx, id), domain.ErrInvalidInput, "id %q", id)
		assert.ErrorIs(t, m.Drop(ctx, id), domain.ErrInvalidInput, "id %q", id)
		assert.ErrorIs(t, m.CopyAll(ctx, id, "org_acme"), domain.ErrInvalidInput, "id %q", id)
		assert.ErrorIs(t, m.CopyAll(ctx, "org_acme", id), domain.ErrInvalidInput, "id %q", id)
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}
