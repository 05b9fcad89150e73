package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lessons_reporter_bot/internal/domain/listing"
	"lessons_reporter_bot/internal/domain/report"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// dateLayout is how lesson dates are sent to the DATE column. Passing a
// time.Time would let the session time zone shift the day.
const dateLayout = "2006-01-02"

var reportColumns = []string{
	"id", "lesson_date", "lesson_count", "topic_id", "student_id",
	"homework_status", "is_proactive", "is_paid", "comment", "is_sent", "created_at",
}

type PostgresReportRepository struct {
	db *sqlx.DB
}

func NewPostgresReportRepository(db *sqlx.DB) *PostgresReportRepository {
	return &PostgresReportRepository{db: db}
}

func (r *PostgresReportRepository) insertQuery(rep *report.Report) squirrel.InsertBuilder {
	return psql.Insert("reports").
		Columns("lesson_date", "lesson_count", "topic_id", "student_id",
			"homework_status", "is_proactive", "is_paid", "comment", "is_sent").
		Values(rep.LessonDate.Format(dateLayout), rep.LessonCount, rep.TopicID, rep.StudentID,
			int(rep.Homework), rep.IsProactive, rep.IsPaid, rep.Comment, rep.IsSent).
		Suffix("RETURNING id, created_at")
}

func (r *PostgresReportRepository) Create(ctx context.Context, rep *report.Report) error {
	query, args, err := r.insertQuery(rep).ToSql()
	if err != nil {
		return fmt.Errorf("build SQL query (student_id: %d): %w", rep.StudentID, err)
	}

	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&rep.ID, &rep.CreatedAt); err != nil {
		return fmt.Errorf("create report (student_id: %d, lesson_date: %s): %w",
			rep.StudentID, rep.LessonDate.Format(dateLayout), err)
	}
	return nil
}

func (r *PostgresReportRepository) GetByID(ctx context.Context, id int64) (*report.Report, error) {
	query, args, err := psql.Select(reportColumns...).From("reports").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build SQL query (id: %d): %w", id, err)
	}

	var rep report.Report
	if err := r.db.GetContext(ctx, &rep, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, report.ErrNotFound
		}
		return nil, fmt.Errorf("get report (id: %d): %w", id, err)
	}
	return &rep, nil
}

func (r *PostgresReportRepository) listQuery(where squirrel.Sqlizer, opts listing.Options) squirrel.SelectBuilder {
	q := psql.Select(reportColumns...).From("reports")
	if where != nil {
		q = q.Where(where)
	}
	return q.OrderBy(orderBy(opts, report.FieldLessonDate, report.FieldID)...)
}

func (r *PostgresReportRepository) selectReports(ctx context.Context, q squirrel.SelectBuilder) ([]*report.Report, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build SQL query: %w", err)
	}
	var reports []*report.Report
	if err := r.db.SelectContext(ctx, &reports, query, args...); err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *PostgresReportRepository) List(ctx context.Context, opts listing.Options) ([]*report.Report, error) {
	reports, err := r.selectReports(ctx, r.listQuery(nil, opts))
	if err != nil {
		return nil, fmt.Errorf("list reports (order: %s): %w", opts.OrderBy, err)
	}
	return reports, nil
}

func (r *PostgresReportRepository) ListByStudent(ctx context.Context, studentID int64, opts listing.Options) ([]*report.Report, error) {
	reports, err := r.selectReports(ctx, r.listQuery(squirrel.Eq{"student_id": studentID}, opts))
	if err != nil {
		return nil, fmt.Errorf("list reports (student_id: %d): %w", studentID, err)
	}
	return reports, nil
}

func (r *PostgresReportRepository) ListUnsent(ctx context.Context) ([]*report.Report, error) {
	q := r.listQuery(squirrel.Eq{"is_sent": false}, listing.By(report.FieldLessonDate))
	reports, err := r.selectReports(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list unsent reports: %w", err)
	}
	return reports, nil
}

func (r *PostgresReportRepository) CountByStudent(ctx context.Context, studentID int64) (int, error) {
	query, args, err := psql.Select("COUNT(*)").From("reports").Where(squirrel.Eq{"student_id": studentID}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build SQL query (student_id: %d): %w", studentID, err)
	}

	var count int
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count reports (student_id: %d): %w", studentID, err)
	}
	return count, nil
}

func (r *PostgresReportRepository) markSentQuery(id int64) squirrel.UpdateBuilder {
	return psql.Update("reports").
		Set("is_sent", true).
		Where(squirrel.Eq{"id": id, "is_sent": false})
}

func (r *PostgresReportRepository) MarkSent(ctx context.Context, id int64) error {
	query, args, err := r.markSentQuery(id).ToSql()
	if err != nil {
		return fmt.Errorf("build SQL query (id: %d): %w", id, err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("mark report sent (id: %d): %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected (id: %d): %w", id, err)
	}
	if affected > 0 {
		return nil
	}

	// Nothing flipped: either the row is gone or another run got there first.
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return fmt.Errorf("%w (id: %d)", report.ErrAlreadySent, id)
}
