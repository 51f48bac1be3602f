// internal/tenant/partition.go
package tenant

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/opsarc/tenantd/internal/domain"
	"github.com/opsarc/tenantd/internal/model"
	"gorm.io/gorm"
)

// PartitionPrefix namespaces tenant tables away from the master tables.
const PartitionPrefix = "org_"

var (
	whitespaceRuns = regexp.MustCompile(`\s+`)
	invalidRunes   = regexp.MustCompile(`[^a-z0-9_-]`)
	validPartition = regexp.MustCompile(`^` + PartitionPrefix + `[a-z0-9_-]+$`)
)

// DerivePartitionID maps a display name to its partition identifier:
// trimmed, lower-cased, whitespace runs collapsed to "_", runes that are
// not legal in an identifier stripped, prefixed with PartitionPrefix.
// Deterministic and pure, so two display names differing only by case or
// whitespace style derive the same id. That collision mirrors the
// directory's case-insensitive uniqueness rule.
func DerivePartitionID(displayName string) string {
	safe := strings.ToLower(strings.TrimSpace(displayName))
	safe = whitespaceRuns.ReplaceAllString(safe, "_")
	safe = invalidRunes.ReplaceAllString(safe, "")
	return PartitionPrefix + safe
}

// PartitionManagerIface covers the partition-level structural operations
// the workflows need from the store.
type PartitionManagerIface interface {
	Create(ctx context.Context, id string) error
	CopyAll(ctx context.Context, srcID, dstID string) error
	Drop(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	ReadAll(ctx context.Context, id string) ([]model.JSONMap, error)
	BulkInsert(ctx context.Context, id string, docs []model.JSONMap) error
}

// PartitionManager manages tenant partitions as one table per
// organization, each holding opaque JSONB documents.
type PartitionManager struct {
	db *gorm.DB
}

func NewPartitionManager(db *gorm.DB) *PartitionManager {
	return &PartitionManager{db: db}
}

type partitionDoc struct {
	Doc model.JSONMap `gorm:"column:doc"`
}

// Create creates an empty addressable partition. The probe
// insert-and-delete forces the table through a full write cycle; probe
// failures are ignored.
func (m *PartitionManager) Create(ctx context.Context, id string) error {
	ident, err := sanitize(id)
	if err != nil {
		return err
	}

	ddl := fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (
			id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			doc jsonb NOT NULL,
			created_at timestamptz NOT NULL DEFAULT now()
		)`, ident)
	if err := m.db.WithContext(ctx).Exec(ddl).Error; err != nil {
		return fmt.Errorf("creating partition %s: %w", id, err)
	}

	probe := fmt.Sprintf(`INSERT INTO %s (doc) VALUES ('{"_init": true}'::jsonb)`, ident)
	unprobe := fmt.Sprintf(`DELETE FROM %s WHERE doc @> '{"_init": true}'::jsonb`, ident)
	_ = m.db.WithContext(ctx).Exec(probe).Error
	_ = m.db.WithContext(ctx).Exec(unprobe).Error

	return nil
}

// CopyAll bulk-copies every document from src into dst. Store-assigned ids
// are regenerated on insert, so dst ends up content-equal but
// identity-reassigned.
func (m *PartitionManager) CopyAll(ctx context.Context, srcID, dstID string) error {
	src, err := sanitize(srcID)
	if err != nil {
		return err
	}
	dst, err := sanitize(dstID)
	if err != nil {
		return err
	}

	stmt := fmt.Sprintf(`INSERT INTO %s (doc, created_at) SELECT doc, created_at FROM %s`, dst, src)
	if err := m.db.WithContext(ctx).Exec(stmt).Error; err != nil {
		return fmt.Errorf("copying partition %s to %s: %w", srcID, dstID, err)
	}
	return nil
}

// Drop removes the partition and its contents. Dropping an absent
// partition is a no-op.
func (m *PartitionManager) Drop(ctx context.Context, id string) error {
	ident, err := sanitize(id)
	if err != nil {
		return err
	}

	if err := m.db.WithContext(ctx).Exec(fmt.Sprintf(`DROP TABLE IF EXISTS %s`, ident)).Error; err != nil {
		return fmt.Errorf("dropping partition %s: %w", id, err)
	}
	return nil
}

// Exists reports whether the partition is addressable.
func (m *PartitionManager) Exists(ctx context.Context, id string) (bool, error) {
	if _, err := sanitize(id); err != nil {
		return false, err
	}
	return m.db.WithContext(ctx).Migrator().HasTable(id), nil
}

// ReadAll returns every document in the partition.
func (m *PartitionManager) ReadAll(ctx context.Context, id string) ([]model.JSONMap, error) {
	ident, err := sanitize(id)
	if err != nil {
		return nil, err
	}

	var rows []partitionDoc
	if err := m.db.WithContext(ctx).Table(ident).Select("doc").Order("created_at").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("reading partition %s: %w", id, err)
	}

	docs := make([]model.JSONMap, 0, len(rows))
	for _, r := range rows {
		docs = append(docs, r.Doc)
	}
	return docs, nil
}

// BulkInsert appends documents to the partition.
func (m *PartitionManager) BulkInsert(ctx context.Context, id string, docs []model.JSONMap) error {
	if len(docs) == 0 {
		return nil
	}

	ident, err := sanitize(id)
	if err != nil {
		return err
	}

	rows := make([]map[string]interface{}, 0, len(docs))
	for _, d := range docs {
		rows = append(rows, map[string]interface{}{"doc": d})
	}

	if err := m.db.WithContext(ctx).Table(ident).Create(rows).Error; err != nil {
		return fmt.Errorf("inserting into partition %s: %w", id, err)
	}
	return nil
}

// sanitize rejects anything that is not a derived partition id and quotes
// it for interpolation into DDL, which cannot take bind parameters.
func sanitize(id string) (string, error) {
	if !validPartition.MatchString(id) {
		return "", fmt.Errorf("%w: invalid partition id %q", domain.ErrInvalidInput, id)
	}
	return pgx.Identifier{id}.Sanitize(), nil
}
