package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lessons_reporter_bot/internal/domain/listing"
	"lessons_reporter_bot/internal/domain/student"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

var studentColumns = []string{"id", "name", "parent_id", "created_at"}

type PostgresStudentRepository struct {
	db *sqlx.DB
}

func NewPostgresStudentRepository(db *sqlx.DB) *PostgresStudentRepository {
	return &PostgresStudentRepository{db: db}
}

func (r *PostgresStudentRepository) Create(ctx context.Context, s *student.Student) error {
	query, args, err := psql.Insert("students").
		Columns("name", "parent_id").
		Values(s.Name, s.ParentID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build SQL query (name: %s): %w", s.Name, err)
	}

	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&s.ID, &s.CreatedAt); err != nil {
		return fmt.Errorf("create student (name: %s): %w", s.Name, err)
	}
	return nil
}

func (r *PostgresStudentRepository) GetByID(ctx context.Context, id int64) (*student.Student, error) {
	query, args, err := psql.Select(studentColumns...).From("students").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build SQL query (id: %d): %w", id, err)
	}

	var s student.Student
	if err := r.db.GetContext(ctx, &s, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, student.ErrNotFound
		}
		return nil, fmt.Errorf("get student (id: %d): %w", id, err)
	}
	return &s, nil
}

func (r *PostgresStudentRepository) listQuery(opts listing.Options) squirrel.SelectBuilder {
	return psql.Select(studentColumns...).
		From("students").
		OrderBy(orderBy(opts, student.FieldName, student.FieldID)...)
}

func (r *PostgresStudentRepository) List(ctx context.Context, opts listing.Options) ([]*student.Student, error) {
	query, args, err := r.listQuery(opts).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build SQL query: %w", err)
	}

	var students []*student.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("list students (order: %s): %w", opts.OrderBy, err)
	}
	return students, nil
}

// updateQuery returns false when upd changes nothing.
func (r *PostgresStudentRepository) updateQuery(id int64, upd student.Update) (squirrel.UpdateBuilder, bool) {
	set := map[string]any{}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.ParentID != nil {
		set["parent_id"] = *upd.ParentID
	}
	return psql.Update("students").SetMap(set).Where(squirrel.Eq{"id": id}), len(set) > 0
}

func (r *PostgresStudentRepository) Update(ctx context.Context, id int64, upd student.Update) error {
	builder, ok := r.updateQuery(id, upd)
	if !ok {
		_, err := r.GetByID(ctx, id)
		return err
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build SQL query (id: %d): %w", id, err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update student (id: %d): %w", id, err)
	}
	return requireAffected(res, student.ErrNotFound)
}

func (r *PostgresStudentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	query, args, err := psql.Delete("students").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return false, fmt.Errorf("build SQL query (id: %d): %w", id, err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete student (id: %d): %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected (id: %d): %w", id, err)
	}
	return n > 0, nil
}

// requireAffected maps "no rows touched" to notFound.
func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
