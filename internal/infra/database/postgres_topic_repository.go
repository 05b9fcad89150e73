package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lessons_reporter_bot/internal/domain/listing"
	"lessons_reporter_bot/internal/domain/topic"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

var topicColumns = []string{"id", "label", "created_at"}

type PostgresTopicRepository struct {
	db *sqlx.DB
}

func NewPostgresTopicRepository(db *sqlx.DB) *PostgresTopicRepository {
	return &PostgresTopicRepository{db: db}
}

func (r *PostgresTopicRepository) Create(ctx context.Context, t *topic.Topic) error {
	query, args, err := psql.Insert("topics").
		Columns("label").
		Values(t.Label).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build SQL query (label: %s): %w", t.Label, err)
	}

	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&t.ID, &t.CreatedAt); err != nil {
		return fmt.Errorf("create topic (label: %s): %w", t.Label, err)
	}
	return nil
}

func (r *PostgresTopicRepository) GetByID(ctx context.Context, id int64) (*topic.Topic, error) {
	query, args, err := psql.Select(topicColumns...).From("topics").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build SQL query (id: %d): %w", id, err)
	}

	var t topic.Topic
	if err := r.db.GetContext(ctx, &t, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, topic.ErrNotFound
		}
		return nil, fmt.Errorf("get topic (id: %d): %w", id, err)
	}
	return &t, nil
}

func (r *PostgresTopicRepository) listQuery(opts listing.Options) squirrel.SelectBuilder {
	return psql.Select(topicColumns...).
		From("topics").
		OrderBy(orderBy(opts, topic.FieldLabel, topic.FieldID)...)
}

func (r *PostgresTopicRepository) List(ctx context.Context, opts listing.Options) ([]*topic.Topic, error) {
	query, args, err := r.listQuery(opts).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build SQL query: %w", err)
	}

	var topics []*topic.Topic
	if err := r.db.SelectContext(ctx, &topics, query, args...); err != nil {
		return nil, fmt.Errorf("list topics (order: %s): %w", opts.OrderBy, err)
	}
	return topics, nil
}

func (r *PostgresTopicRepository) Delete(ctx context.Context, id int64) (bool, error) {
	query, args, err := psql.Delete("topics").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return false, fmt.Errorf("build SQL query (id: %d): %w", id, err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete topic (id: %d): %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected (id: %d): %w", id, err)
	}
	return n > 0, nil
}
