package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/ether/uiflex-go/lib/exception"
	"github.com/ether/uiflex-go/lib/models/change"
	"github.com/ether/uiflex-go/lib/models/variant"
)

// sqlStore holds the queries shared by the SQL backends. Only the placeholder
// format differs between them.
type sqlStore struct {
	sqlDB   *sql.DB
	builder sq.StatementBuilderType
}

func newSQLStore(sqlDB *sql.DB, placeholder sq.PlaceholderFormat) sqlStore {
	return sqlStore{
		sqlDB:   sqlDB,
		builder: sq.StatementBuilder.PlaceholderFormat(placeholder),
	}
}

// ============== CHANGE METHODS ==============

func (d sqlStore) GetChanges(ctx context.Context, reference string) ([]change.Definition, error) {
	resultedSQL, args, err := d.builder.
		Select("definition").
		From("flex_change").
		Where(sq.Eq{"reference": reference}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := d.sqlDB.QueryContext(ctx, resultedSQL, args...)
	if err != nil {
		return nil, exception.NewDatabaseError("error loading changes of "+reference, err)
	}
	defer rows.Close()

	definitions := make([]change.Definition, 0)
	for rows.Next() {
		def, err := ReadToChangeDefinition(rows)
		if err != nil {
			return nil, err
		}
		definitions = append(definitions, *def)
	}
	return definitions, rows.Err()
}

func (d sqlStore) GetChange(ctx context.Context, id string) (*change.Definition, error) {
	resultedSQL, args, err := d.builder.
		Select("definition").
		From("flex_change").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	def, err := ReadToChangeDefinition(d.sqlDB.QueryRowContext(ctx, resultedSQL, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrChangeNotFound
		}
		return nil, err
	}
	return def, nil
}

func (d sqlStore) SaveChange(ctx context.Context, def change.Definition) error {
	if err := validateDefinition(def); err != nil {
		return err
	}
	definition, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("error marshaling change: %w", err)
	}

	resultedSQL, args, err := d.builder.
		Insert("flex_change").
		Columns("id", "reference", "layer", "change_type", "definition").
		Values(def.FileName, def.Reference, def.Layer.String(), def.ChangeType, string(definition)).
		Suffix(`ON CONFLICT(id) DO UPDATE SET
			reference = excluded.reference,
			layer = excluded.layer,
			change_type = excluded.change_type,
			definition = excluded.definition,
			updated_at = CURRENT_TIMESTAMP`).
		ToSql()
	if err != nil {
		return err
	}

	if _, err = d.sqlDB.ExecContext(ctx, resultedSQL, args...); err != nil {
		return exception.NewDatabaseError("error saving change "+def.FileName, err)
	}
	return nil
}

func (d sqlStore) RemoveChange(ctx context.Context, id string) error {
	resultedSQL, args, err := d.builder.
		Delete("flex_change").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	result, err := d.sqlDB.ExecContext(ctx, resultedSQL, args...)
	if err != nil {
		return exception.NewDatabaseError("error removing change "+id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrChangeNotFound
	}
	return nil
}

// ============== VARIANT METHODS ==============

func (d sqlStore) GetVariants(ctx context.Context, reference string) (variant.SelectionSet, error) {
	resultedSQL, args, err := d.builder.
		Select("group_id", "data").
		From("flex_variant_group").
		Where(sq.Eq{"reference": reference}).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := d.sqlDB.QueryContext(ctx, resultedSQL, args...)
	if err != nil {
		return nil, exception.NewDatabaseError("error loading variants of "+reference, err)
	}
	defer rows.Close()

	set := make(variant.SelectionSet)
	for rows.Next() {
		groupID, group, err := ReadToVariantGroup(rows)
		if err != nil {
			return nil, err
		}
		set[groupID] = group
	}
	return set, rows.Err()
}

func (d sqlStore) SaveVariants(ctx context.Context, reference string, set variant.SelectionSet) error {
	tx, err := d.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	deleteSQL, args, err := d.builder.
		Delete("flex_variant_group").
		Where(sq.Eq{"reference": reference}).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, deleteSQL, args...); err != nil {
		return err
	}

	for groupID, group := range set {
		data, err := json.Marshal(group)
		if err != nil {
			return fmt.Errorf("error marshaling variant group %s: %w", groupID, err)
		}
		insertSQL, args, err := d.builder.
			Insert("flex_variant_group").
			Columns("reference", "group_id", "data").
			Values(reference, groupID, string(data)).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, insertSQL, args...); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return exception.NewDatabaseError("error saving variants of "+reference, err)
	}
	return nil
}

func (d sqlStore) Ping(ctx context.Context) error {
	return d.sqlDB.PingContext(ctx)
}

func (d sqlStore) Close() error {
	return d.sqlDB.Close()
}
