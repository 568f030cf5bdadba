package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"herdscope/internal/model"
	apperrors "herdscope/pkg/errors"
)

// SaveDispatch stores a report and its failed recipients in one transaction.
func (s *Store) SaveDispatch(ctx context.Context, report *model.DispatchReport) error {
	sentJSON, err := json.Marshal(report.Sent)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO dispatches (id, kind, subject, status, message, sent_to, sent_count, failed_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.ID, report.Kind, report.Subject, report.Status, report.Message,
		string(sentJSON), len(report.Sent), len(report.Failed), report.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert dispatch: %w", err)
	}

	for _, f := range report.Failed {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO dispatch_failures (dispatch_id, recipient, reason, created_at) VALUES (?, ?, ?, ?)`,
			report.ID, f.Recipient, f.Reason, report.CreatedAt.UTC())
		if err != nil {
			return fmt.Errorf("failed to insert dispatch failure: %w", err)
		}
	}

	return tx.Commit()
}

// ListDispatches returns reports newest first.
func (s *Store) ListDispatches(ctx context.Context, opts ...ListOption) ([]model.DispatchReport, error) {
	builder := selectDispatches()
	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	reports := []model.DispatchReport{}
	for rows.Next() {
		report, err := scanDispatch(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range reports {
		if reports[i].Failed, err = s.failures(ctx, reports[i].ID); err != nil {
			return nil, err
		}
	}
	return reports, nil
}

// GetDispatch fetches one report by id.
func (s *Store) GetDispatch(ctx context.Context, id string) (*model.DispatchReport, error) {
	query, args, err := selectDispatches().Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	report, err := scanDispatch(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("dispatch %s not found", id))
	}
	if err != nil {
		return nil, err
	}

	if report.Failed, err = s.failures(ctx, id); err != nil {
		return nil, err
	}
	return &report, nil
}

func (s *Store) failures(ctx context.Context, dispatchID string) ([]model.FailedRecipient, error) {
	query, args, err := sq.Select("recipient", "reason").
		From("dispatch_failures").
		Where(sq.Eq{"dispatch_id": dispatchID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	failed := []model.FailedRecipient{}
	for rows.Next() {
		var f model.FailedRecipient
		if err := rows.Scan(&f.Recipient, &f.Reason); err != nil {
			return nil, err
		}
		failed = append(failed, f)
	}
	return failed, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDispatch(row scanner) (model.DispatchReport, error) {
	var (
		report    model.DispatchReport
		sentJSON  string
		createdAt time.Time
	)
	err := row.Scan(
		&report.ID,
		&report.Kind,
		&report.Subject,
		&report.Status,
		&report.Message,
		&sentJSON,
		&createdAt,
	)
	if err != nil {
		return report, err
	}

	report.Sent = []string{}
	if err := json.Unmarshal([]byte(sentJSON), &report.Sent); err != nil {
		return report, fmt.Errorf("failed to decode recipients of %s: %w", report.ID, err)
	}
	report.CreatedAt = createdAt.UTC()
	return report, nil
}
