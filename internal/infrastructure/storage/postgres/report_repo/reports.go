// Package report_repo provides the PostgreSQL implementation of the
// cash-report repository.
package report_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"davrcash/internal/core/id"
	"davrcash/internal/domain/cashreport"
	"davrcash/internal/infrastructure/storage/postgres"
)

const (
	reportsTable = "cash_reports"
	itemsTable   = "cash_report_items"
	statusTable  = "report_statuses"
)

var itemColumns = []string{"id", "report_id", "label", "type", "source", "amount", "group_id", "report_date"}

// ReportRepo implements cashreport.Repository.
type ReportRepo struct {
	txManager *postgres.TxManager
	batch     *postgres.BatchInserter
	builder   squirrel.StatementBuilderType
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{
		txManager: txManager,
		batch:     postgres.NewBatchInserter(txManager),
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// reportSelect joins the status code onto every report read; the lifecycle
// gate needs it on each lookup.
func (r *ReportRepo) reportSelect() squirrel.SelectBuilder {
	return r.builder.
		Select(
			"r.id", "r.date", "r.terminal_id", "r.status_id", "r.user_id",
			"r.cash_ids", "r.total_amount", "r.total_manager_price",
			"r.difference", "r.arryt_income",
			"r.created_at", "r.updated_at", "r.version",
			"s.code AS status_code",
		).
		From(reportsTable + " r").
		Join(statusTable + " s ON s.id = r.status_id")
}

// GetByTerminalAndDate returns the report for a terminal-day, (nil, nil) if none.
func (r *ReportRepo) GetByTerminalAndDate(ctx context.Context, terminalID id.ID, date time.Time) (*cashreport.Report, error) {
	q := r.reportSelect().Where(squirrel.Eq{"r.terminal_id": terminalID, "r.date": date})
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var report cashreport.Report
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &report, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get report by terminal and date: %w", err)
	}
	return &report, nil
}

// GetByID returns one report, (nil, nil) if not found.
func (r *ReportRepo) GetByID(ctx context.Context, reportID id.ID) (*cashreport.Report, error) {
	q := r.reportSelect().Where(squirrel.Eq{"r.id": reportID})
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var report cashreport.Report
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &report, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get report by id: %w", err)
	}
	return &report, nil
}

// List returns reports matching the filter plus the unpaged total.
func (r *ReportRepo) List(ctx context.Context, filter cashreport.ListFilter) ([]cashreport.Report, int64, error) {
	q := r.reportSelect()
	countQ := r.builder.Select("COUNT(*)").From(reportsTable + " r")

	apply := func(b squirrel.SelectBuilder) squirrel.SelectBuilder {
		if len(filter.TerminalIDs) > 0 {
			b = b.Where(squirrel.Eq{"r.terminal_id": filter.TerminalIDs})
		}
		if filter.UserID != nil {
			b = b.Where(squirrel.Eq{"r.user_id": *filter.UserID})
		}
		if filter.From != nil {
			b = b.Where(squirrel.GtOrEq{"r.date": *filter.From})
		}
		if filter.To != nil {
			b = b.Where(squirrel.LtOrEq{"r.date": *filter.To})
		}
		return b
	}
	q = apply(q).OrderBy("r.date DESC", "r.created_at DESC")
	countQ = apply(countQ)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	querier := r.txManager.GetQuerier(ctx)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list: %w", err)
	}
	var reports []cashreport.Report
	if err := pgxscan.Select(ctx, querier, &reports, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("list reports: %w", err)
	}

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}
	var total int64
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reports: %w", err)
	}

	return reports, total, nil
}

// CreateWithItems inserts the report and bulk-inserts its line items.
// Must run inside a transaction so a failure leaves nothing behind.
func (r *ReportRepo) CreateWithItems(ctx context.Context, report *cashreport.Report, items []cashreport.LineItem) error {
	if r.txManager.GetTx(ctx) == nil {
		return fmt.Errorf("CreateWithItems requires transaction context")
	}

	q := r.builder.Insert(reportsTable).SetMap(reportRow(report))
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert report: %w", err)
	}

	return r.insertItems(ctx, items)
}

// ReplaceWithItems updates the report's numeric fields in place, then
// rewrites the line-item set. Status is deliberately untouched.
func (r *ReportRepo) ReplaceWithItems(ctx context.Context, report *cashreport.Report, items []cashreport.LineItem) error {
	if r.txManager.GetTx(ctx) == nil {
		return fmt.Errorf("ReplaceWithItems requires transaction context")
	}

	q := r.builder.Update(reportsTable).
		Set("user_id", report.UserID).
		Set("cash_ids", report.CashIDs).
		Set("total_amount", report.TotalAmount).
		Set("total_manager_price", report.TotalManagerPrice).
		Set("difference", report.Difference).
		Set("arryt_income", report.ArrytIncome).
		Set("updated_at", report.UpdatedAt).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": report.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("update report: %w", err)
	}

	delSQL, delArgs, err := r.builder.Delete(itemsTable).Where(squirrel.Eq{"report_id": report.ID}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := querier.Exec(ctx, delSQL, delArgs...); err != nil {
		return fmt.Errorf("delete line items: %w", err)
	}

	return r.insertItems(ctx, items)
}

func (r *ReportRepo) insertItems(ctx context.Context, items []cashreport.LineItem) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(items))
	for _, it := range items {
		rows = append(rows, []any{
			it.ID, it.ReportID, it.Label, string(it.Type), it.Source,
			it.Amount, it.GroupID, it.ReportDate,
		})
	}
	if _, err := r.batch.CopyFromSlice(ctx, itemsTable, itemColumns, rows); err != nil {
		return fmt.Errorf("insert line items: %w", err)
	}
	return nil
}

// SetStatus updates the report's status field.
func (r *ReportRepo) SetStatus(ctx context.Context, reportID, statusID id.ID) error {
	q := r.builder.Update(reportsTable).
		Set("status_id", statusID).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": reportID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	querier := r.txManager.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("report %s not found", reportID)
	}
	return nil
}

// ListItems returns line items for one report, narrowed by the filter.
func (r *ReportRepo) ListItems(ctx context.Context, reportID id.ID, filter cashreport.ItemFilter) ([]cashreport.LineItem, error) {
	q := r.builder.
		Select(itemColumns...).
		From(itemsTable).
		Where(squirrel.Eq{"report_id": reportID}).
		OrderBy("id")

	if len(filter.Types) > 0 {
		q = q.Where(squirrel.Eq{"type": filter.Types})
	}
	if len(filter.Sources) > 0 {
		q = q.Where(squirrel.Eq{"source": filter.Sources})
	}
	if len(filter.ExcludeSources) > 0 {
		q = q.Where(squirrel.NotEq{"source": filter.ExcludeSources})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var items []cashreport.LineItem
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list line items: %w", err)
	}
	return items, nil
}

func reportRow(report *cashreport.Report) map[string]any {
	return map[string]any{
		"id":                  report.ID,
		"date":                report.Date,
		"terminal_id":         report.TerminalID,
		"status_id":           report.StatusID,
		"user_id":             report.UserID,
		"cash_ids":            report.CashIDs,
		"total_amount":        report.TotalAmount,
		"total_manager_price": report.TotalManagerPrice,
		"difference":          report.Difference,
		"arryt_income":        report.ArrytIncome,
		"created_at":          report.CreatedAt,
		"updated_at":          report.UpdatedAt,
		"version":             report.Version,
	}
}
