package cashreport

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"davrcash/internal/core/apperror"
	appctx "davrcash/internal/core/context"
	"davrcash/internal/core/id"
	"davrcash/internal/core/tx"
	"davrcash/internal/core/types"
	"davrcash/internal/domain/catalogs/organization"
	"davrcash/internal/domain/catalogs/status"
	"davrcash/internal/domain/catalogs/terminal"
	"davrcash/pkg/logger"
)

// TerminalDirectory resolves terminals, usually through the reference cache.
type TerminalDirectory interface {
	Terminal(ctx context.Context, termID id.ID) (*terminal.Terminal, error)
}

// OrganizationDirectory resolves organizations, usually through the reference cache.
type OrganizationDirectory interface {
	Organization(ctx context.Context, orgID id.ID) (*organization.Organization, error)
}

// StatusDirectory resolves report statuses, usually through the reference cache.
type StatusDirectory interface {
	StatusByID(ctx context.Context, stID id.ID) (*status.Status, error)
	StatusByCode(ctx context.Context, code string) (*status.Status, error)
}

// Locker serializes submissions for one terminal-day. Concurrent submits
// otherwise interleave the delete/insert of line items.
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// NoopLocker runs fn without locking. For tests and single-node deployments.
type NoopLocker struct{}

func (NoopLocker) WithLock(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Service is the reconciliation engine: channel previews, editable rows,
// submission, and the status workflow.
type Service struct {
	repo      Repository
	terminals TerminalDirectory
	orgs      OrganizationDirectory
	statuses  StatusDirectory
	providers Providers
	txManager tx.Manager
	locker    Locker
	loc       *time.Location
}

// NewService creates the engine. loc is the business-day time zone.
func NewService(
	repo Repository,
	terminals TerminalDirectory,
	orgs OrganizationDirectory,
	statuses StatusDirectory,
	providers Providers,
	txManager tx.Manager,
	locker Locker,
	loc *time.Location,
) *Service {
	if locker == nil {
		locker = NoopLocker{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		repo:      repo,
		terminals: terminals,
		orgs:      orgs,
		statuses:  statuses,
		providers: providers,
		txManager: txManager,
		locker:    locker,
		loc:       loc,
	}
}

// Location returns the business-day time zone.
func (s *Service) Location() *time.Location {
	return s.loc
}

// requireTerminal rejects callers not assigned to the terminal. This is an
// authorization concern layered above the lifecycle gate.
func (s *Service) requireTerminal(ctx context.Context, terminalID id.ID) error {
	if !appctx.HasTerminalAccess(ctx, terminalID.String()) {
		return apperror.NewForbidden("terminal is not assigned to caller").
			WithDetail("terminal_id", terminalID.String())
	}
	return nil
}

// IsEditable implements the mutability gate: editable when no report exists
// for the terminal-day, or its status is outside the locked set. Recomputed
// on every call; only the status list itself is cached.
func (s *Service) IsEditable(ctx context.Context, terminalID id.ID, date time.Time) (bool, error) {
	if err := s.requireTerminal(ctx, terminalID); err != nil {
		return false, err
	}
	report, err := s.repo.GetByTerminalAndDate(ctx, terminalID, date)
	if err != nil {
		return false, fmt.Errorf("lookup report: %w", err)
	}
	if report == nil {
		return true, nil
	}
	return !IsLocked(report.StatusCode), nil
}

// --- Credentials ---

// credentials is everything submission needs, resolved up front so a missing
// key aborts before any provider call is made.
type credentials struct {
	terminal *terminal.Terminal
	org      *organization.Organization

	iikoID             string
	clickServiceIDs    []string
	paymeMerchantIDs   []string
	paymeBusinessID    string
	yandexRestaurantID string
	arrytToken         string
}

func (s *Service) resolveTerminalOrg(ctx context.Context, terminalID id.ID) (*terminal.Terminal, *organization.Organization, error) {
	term, err := s.terminals.Terminal(ctx, terminalID)
	if err != nil {
		return nil, nil, err
	}
	if term == nil {
		return nil, nil, apperror.NewNotFound("terminal", terminalID.String())
	}
	org, err := s.orgs.Organization(ctx, term.OrganizationID)
	if err != nil {
		return nil, nil, err
	}
	if org == nil {
		return nil, nil, apperror.NewNotFound("organization", term.OrganizationID.String())
	}
	return term, org, nil
}

// resolveAllCredentials fails fast with the first missing credential key.
func (s *Service) resolveAllCredentials(ctx context.Context, terminalID id.ID) (*credentials, error) {
	term, org, err := s.resolveTerminalOrg(ctx, terminalID)
	if err != nil {
		return nil, err
	}
	creds := &credentials{terminal: term, org: org}

	if term.IikoID == nil || *term.IikoID == "" {
		return nil, apperror.NewCredentialMissing("iiko_id")
	}
	creds.iikoID = *term.IikoID

	if len(term.ClickServiceIDs) == 0 {
		return nil, apperror.NewCredentialMissing("click_service_ids")
	}
	creds.clickServiceIDs = term.ClickServiceIDs

	if len(term.PaymeMerchantIDs) == 0 {
		return nil, apperror.NewCredentialMissing("payme_merchant_ids")
	}
	creds.paymeMerchantIDs = term.PaymeMerchantIDs

	if org.PaymeBusinessID == nil || *org.PaymeBusinessID == "" {
		return nil, apperror.NewCredentialMissing("payme_business_id")
	}
	creds.paymeBusinessID = *org.PaymeBusinessID

	if term.YandexRestaurantID == nil || *term.YandexRestaurantID == "" {
		return nil, apperror.NewCredentialMissing("yandex_restaurant_id")
	}
	creds.yandexRestaurantID = *term.YandexRestaurantID

	if org.ArrytToken == nil || *org.ArrytToken == "" {
		return nil, apperror.NewCredentialMissing("arryt_token")
	}
	creds.arrytToken = *org.ArrytToken

	return creds, nil
}

func (s *Service) totalQuery(org *organization.Organization, date time.Time, cutoff *string) TotalQuery {
	return TotalQuery{
		Date:      date,
		WorkStart: org.WorkStartTime,
		WorkEnd:   org.WorkEndTime,
		Cutoff:    cutoff,
	}
}

// lockedReport returns the existing report when it is in the locked set,
// nil when previews should hit live providers.
func (s *Service) lockedReport(ctx context.Context, terminalID id.ID, date time.Time) (*Report, error) {
	report, err := s.repo.GetByTerminalAndDate(ctx, terminalID, date)
	if err != nil {
		return nil, fmt.Errorf("lookup report: %w", err)
	}
	if report == nil || !IsLocked(report.StatusCode) {
		return nil, nil
	}
	return report, nil
}

func (s *Service) sumStoredItems(ctx context.Context, reportID id.ID, sources ...string) (types.Money, error) {
	items, err := s.repo.ListItems(ctx, reportID, ItemFilter{Sources: sources})
	if err != nil {
		return types.ZeroMoney(), fmt.Errorf("list line items: %w", err)
	}
	total := types.ZeroMoney()
	for _, it := range items {
		total = total.Add(it.Amount)
	}
	return total, nil
}

// --- Per-channel previews (§ read projections) ---
// Live and frozen paths produce identical shapes so the dashboard renders
// one schema regardless of lock state.

// ClickPreview returns the Click total, live or from stored line items.
func (s *Service) ClickPreview(ctx context.Context, terminalID id.ID, date time.Time, cutoff *string) (types.Money, error) {
	if err := s.requireTerminal(ctx, terminalID); err != nil {
		return types.ZeroMoney(), err
	}
	frozen, err := s.lockedReport(ctx, terminalID, date)
	if err != nil {
		return types.ZeroMoney(), err
	}
	if frozen != nil {
		return s.sumStoredItems(ctx, frozen.ID, SourceClick)
	}

	term, org, err := s.resolveTerminalOrg(ctx, terminalID)
	if err != nil {
		return types.ZeroMoney(), err
	}
	if len(term.ClickServiceIDs) == 0 {
		return types.ZeroMoney(), apperror.NewCredentialMissing("click_service_ids")
	}
	return s.providers.Click.Total(ctx, s.totalQuery(org, date, cutoff), term.ClickServiceIDs)
}

// PaymePreview returns the Payme total, live or from stored line items.
func (s *Service) PaymePreview(ctx context.Context, terminalID id.ID, date time.Time, cutoff *string) (types.Money, error) {
	if err := s.requireTerminal(ctx, terminalID); err != nil {
		return types.ZeroMoney(), err
	}
	frozen, err := s.lockedReport(ctx, terminalID, date)
	if err != nil {
		return types.ZeroMoney(), err
	}
	if frozen != nil {
		return s.sumStoredItems(ctx, frozen.ID, SourcePayme)
	}

	term, org, err := s.resolveTerminalOrg(ctx, terminalID)
	if err != nil {
		return types.ZeroMoney(), err
	}
	if len(term.PaymeMerchantIDs) == 0 {
		return types.ZeroMoney(), apperror.NewCredentialMissing("payme_merchant_ids")
	}
	if org.PaymeBusinessID == nil || *org.PaymeBusinessID == "" {
		return types.ZeroMoney(), apperror.NewCredentialMissing("payme_business_id")
	}
	return s.providers.Payme.Total(ctx, s.totalQuery(org, date, cutoff), term.PaymeMerchantIDs, *org.PaymeBusinessID)
}

// CashierPreview returns the register total, live or from the stored report.
func (s *Service) CashierPreview(ctx context.Context, terminalID id.ID, date time.Time, cutoff *string) (CashierResult, error) {
	if err := s.requireTerminal(ctx, terminalID); err != nil {
		return CashierResult{}, err
	}
	frozen, err := s.lockedReport(ctx, terminalID, date)
	if err != nil {
		return CashierResult{}, err
	}
	if frozen != nil {
		return CashierResult{Total: frozen.TotalAmount, CashIDs: frozen.CashIDs}, nil
	}

	term, org, err := s.resolveTerminalOrg(ctx, terminalID)
	if err != nil {
		return CashierResult{}, err
	}
	if term.IikoID == nil || *term.IikoID == "" {
		return CashierResult{}, apperror.NewCredentialMissing("iiko_id")
	}
	q := s.totalQuery(org, date, cutoff)
	total, err := s.providers.Iiko.RegisterTotal(ctx, q, *term.IikoID)
	if err != nil {
		return CashierResult{}, err
	}
	return CashierResult{Total: total}, nil
}

// ExpressPreview returns the express bundle, live or rebuilt from stored
// line items grouped by sub-channel source.
func (s *Service) ExpressPreview(ctx context.Context, terminalID id.ID, date time.Time, cutoff *string) (ExpressBreakdown, error) {
	if err := s.requireTerminal(ctx, terminalID); err != nil {
		return ExpressBreakdown{}, err
	}
	frozen, err := s.lockedReport(ctx, terminalID, date)
	if err != nil {
		return ExpressBreakdown{}, err
	}
	if frozen != nil {
		items, err := s.repo.ListItems(ctx, frozen.ID, ItemFilter{Sources: expressSources})
		if err != nil {
			return ExpressBreakdown{}, fmt.Errorf("list line items: %w", err)
		}
		var bd ExpressBreakdown
		for _, it := range items {
			switch it.Source {
			case SourceYandexEats:
				bd.YandexEats = bd.YandexEats.Add(it.Amount)
			case SourceMyUzcard:
				bd.MyUzcard = bd.MyUzcard.Add(it.Amount)
			case SourceWolt:
				bd.Wolt = bd.Wolt.Add(it.Amount)
			}
		}
		return bd, nil
	}

	term, org, err := s.resolveTerminalOrg(ctx, terminalID)
	if err != nil {
		return ExpressBreakdown{}, err
	}
	if term.YandexRestaurantID == nil || *term.YandexRestaurantID == "" {
		return ExpressBreakdown{}, apperror.NewCredentialMissing("yandex_restaurant_id")
	}
	return s.providers.Express.Breakdown(ctx, s.totalQuery(org, date, cutoff), *term.YandexRestaurantID)
}

// ArrytPreview returns delivery income and courier withdrawals, live or
// reshaped from stored withdraw line items.
func (s *Service) ArrytPreview(ctx context.Context, terminalID id.ID, date time.Time, cutoff *string) (ArrytBundle, error) {
	if err := s.requireTerminal(ctx, terminalID); err != nil {
		return ArrytBundle{}, err
	}
	frozen, err := s.lockedReport(ctx, terminalID, date)
	if err != nil {
		return ArrytBundle{}, err
	}
	if frozen != nil {
		items, err := s.repo.ListItems(ctx, frozen.ID, ItemFilter{Sources: []string{SourceArryt}})
		if err != nil {
			return ArrytBundle{}, fmt.Errorf("list line items: %w", err)
		}
		bundle := ArrytBundle{CustomerPrice: frozen.ArrytIncome, Withdraws: make([]CourierWithdraw, 0, len(items))}
		for _, it := range items {
			first, last := splitCourierLabel(it.Label)
			bundle.Withdraws = append(bundle.Withdraws, CourierWithdraw{
				FirstName: first,
				LastName:  last,
				Amount:    it.Amount,
			})
		}
		return bundle, nil
	}

	_, org, err := s.resolveTerminalOrg(ctx, terminalID)
	if err != nil {
		return ArrytBundle{}, err
	}
	if org.ArrytToken == nil || *org.ArrytToken == "" {
		return ArrytBundle{}, apperror.NewCredentialMissing("arryt_token")
	}
	return s.providers.Arryt.Deliveries(ctx, s.totalQuery(org, date, cutoff), *org.ArrytToken)
}

// --- Editable incomes / expenses ---

// EditableIncomes returns manual income rows for the dashboard. Rows are
// readonly exactly when the owning report is locked.
func (s *Service) EditableIncomes(ctx context.Context, terminalID id.ID, date time.Time) ([]EditableEntry, error) {
	if err := s.requireTerminal(ctx, terminalID); err != nil {
		return nil, err
	}
	report, err := s.repo.GetByTerminalAndDate(ctx, terminalID, date)
	if err != nil {
		return nil, fmt.Errorf("lookup report: %w", err)
	}
	if report == nil {
		entries := make([]EditableEntry, 0, len(DefaultManualIncomeKeys))
		for _, key := range DefaultManualIncomeKeys {
			entries = append(entries, EditableEntry{Key: key, Label: key, Value: types.ZeroMoney()})
		}
		return entries, nil
	}

	items, err := s.repo.ListItems(ctx, report.ID, ItemFilter{
		Types:          []LineItemType{ItemIncome},
		ExcludeSources: channelIncomeSources,
	})
	if err != nil {
		return nil, fmt.Errorf("list line items: %w", err)
	}
	readonly := IsLocked(report.StatusCode)
	entries := make([]EditableEntry, 0, len(items))
	for _, it := range items {
		entries = append(entries, EditableEntry{
			Key:      it.Source,
			Label:    it.Label,
			Value:    it.Amount,
			Readonly: readonly,
		})
	}
	return entries, nil
}

// EditableExpenses returns manual expense rows. Courier withdrawals are
// shown in the Arryt preview, not here.
func (s *Service) EditableExpenses(ctx context.Context, terminalID id.ID, date time.Time) ([]EditableEntry, error) {
	if err := s.requireTerminal(ctx, terminalID); err != nil {
		return nil, err
	}
	report, err := s.repo.GetByTerminalAndDate(ctx, terminalID, date)
	if err != nil {
		return nil, fmt.Errorf("lookup report: %w", err)
	}
	if report == nil {
		return []EditableEntry{{
			Key:   SourceOtherExpenses,
			Label: DefaultExpenseLabel,
			Value: types.ZeroMoney(),
		}}, nil
	}

	items, err := s.repo.ListItems(ctx, report.ID, ItemFilter{
		Types:          []LineItemType{ItemOutcome},
		ExcludeSources: []string{SourceArryt},
	})
	if err != nil {
		return nil, fmt.Errorf("list line items: %w", err)
	}
	readonly := IsLocked(report.StatusCode)
	entries := make([]EditableEntry, 0, len(items))
	for _, it := range items {
		entries = append(entries, EditableEntry{
			Key:      it.Source,
			Label:    it.Label,
			Value:    it.Amount,
			Readonly: readonly,
		})
	}
	return entries, nil
}

// --- Submission ---

// SubmitRequest carries everything the caller provides on end-of-day close.
type SubmitRequest struct {
	TerminalID id.ID
	Date       time.Time // already normalized to local midnight
	Incomes    []ManualEntry
	Expenses   []ManualEntry
}

// channelFetch is the joined result of the six concurrent provider calls.
type channelFetch struct {
	click         types.Money
	payme         types.Money
	registerTotal types.Money
	cashIDs       []string
	express       ExpressBreakdown
	arryt         ArrytBundle
}

// fetchChannels issues all six provider calls concurrently; they are
// independent network round-trips and the submit's wall-clock cost is the
// slowest one, not the sum.
func (s *Service) fetchChannels(ctx context.Context, creds *credentials, q TotalQuery) (*channelFetch, error) {
	var fetch channelFetch
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		total, err := s.providers.Click.Total(gctx, q, creds.clickServiceIDs)
		if err != nil {
			return fmt.Errorf("click: %w", err)
		}
		fetch.click = total
		return nil
	})
	g.Go(func() error {
		total, err := s.providers.Payme.Total(gctx, q, creds.paymeMerchantIDs, creds.paymeBusinessID)
		if err != nil {
			return fmt.Errorf("payme: %w", err)
		}
		fetch.payme = total
		return nil
	})
	g.Go(func() error {
		total, err := s.providers.Iiko.RegisterTotal(gctx, q, creds.iikoID)
		if err != nil {
			return fmt.Errorf("register total: %w", err)
		}
		fetch.registerTotal = total
		return nil
	})
	g.Go(func() error {
		ids, err := s.providers.Iiko.RegisterSessions(gctx, q, creds.iikoID)
		if err != nil {
			return fmt.Errorf("register sessions: %w", err)
		}
		fetch.cashIDs = ids
		return nil
	})
	g.Go(func() error {
		bd, err := s.providers.Express.Breakdown(gctx, q, creds.yandexRestaurantID)
		if err != nil {
			return fmt.Errorf("express: %w", err)
		}
		fetch.express = bd
		return nil
	})
	g.Go(func() error {
		bundle, err := s.providers.Arryt.Deliveries(gctx, q, creds.arrytToken)
		if err != nil {
			return fmt.Errorf("arryt: %w", err)
		}
		fetch.arryt = bundle
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &fetch, nil
}

// buildLineItems assembles the full ledger for one submission: one income
// row per channel (zero when the provider returned nothing), caller-supplied
// manual incomes, one outcome per courier withdraw, manual expenses last.
func buildLineItems(req SubmitRequest, fetch *channelFetch) []LineItem {
	date := req.Date
	items := make([]LineItem, 0, 5+len(req.Incomes)+len(fetch.arryt.Withdraws)+len(req.Expenses))

	channelIncome := func(label, source string, amount types.Money) LineItem {
		return LineItem{
			ID:         id.New(),
			Label:      label,
			Type:       ItemIncome,
			Source:     source,
			Amount:     amount,
			ReportDate: date,
		}
	}

	items = append(items,
		channelIncome("Click", SourceClick, fetch.click),
		channelIncome("Payme", SourcePayme, fetch.payme),
		channelIncome("Yandex Eats", SourceYandexEats, fetch.express.YandexEats),
		channelIncome("My Uzcard", SourceMyUzcard, fetch.express.MyUzcard),
		channelIncome("Wolt", SourceWolt, fetch.express.Wolt),
	)

	for _, inc := range req.Incomes {
		label := inc.Label
		if label == "" {
			label = inc.Key
		}
		items = append(items, LineItem{
			ID:         id.New(),
			Label:      label,
			Type:       ItemIncome,
			Source:     inc.Key,
			Amount:     inc.Amount,
			ReportDate: date,
		})
	}

	for _, w := range fetch.arryt.Withdraws {
		items = append(items, LineItem{
			ID:         id.New(),
			Label:      w.FullName(),
			Type:       ItemOutcome,
			Source:     SourceArryt,
			Amount:     w.Amount,
			ReportDate: date,
		})
	}

	for _, exp := range req.Expenses {
		items = append(items, LineItem{
			ID:         id.New(),
			Label:      exp.Label,
			Type:       ItemOutcome,
			Source:     SourceOtherExpenses,
			Amount:     exp.Amount,
			ReportDate: date,
		})
	}

	return items
}

// sumItems adds every line-item amount regardless of type. The manager total
// has always summed raw amounts; keep it that way.
func sumItems(items []LineItem) types.Money {
	total := types.ZeroMoney()
	for _, it := range items {
		total = total.Add(it.Amount)
	}
	return total
}

// Submit closes out a terminal-day: fetches every channel concurrently,
// merges with manual entries, computes the variance and performs an
// idempotent create-or-replace of the report and its line items.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*Report, error) {
	if err := s.requireTerminal(ctx, req.TerminalID); err != nil {
		return nil, err
	}

	// Lock check before anything else: no provider call, no write.
	existing, err := s.repo.GetByTerminalAndDate(ctx, req.TerminalID, req.Date)
	if err != nil {
		return nil, fmt.Errorf("lookup report: %w", err)
	}
	if existing != nil && IsLocked(existing.StatusCode) {
		return nil, apperror.NewReportLocked(req.TerminalID.String(), req.Date.Format("2006-01-02"))
	}

	// All credentials up front; a missing key aborts before any fetch.
	creds, err := s.resolveAllCredentials(ctx, req.TerminalID)
	if err != nil {
		return nil, err
	}

	fetch, err := s.fetchChannels(ctx, creds, s.totalQuery(creds.org, req.Date, nil))
	if err != nil {
		return nil, err
	}

	items := buildLineItems(req, fetch)
	totalManager := sumItems(items)

	difference := types.ZeroMoney()
	if fetch.registerTotal.IsPositive() {
		difference = totalManager.Sub(fetch.registerTotal)
	}

	var report *Report
	lockKey := fmt.Sprintf("cashreport:%s:%s", req.TerminalID, req.Date.Format("2006-01-02"))
	err = s.locker.WithLock(ctx, lockKey, func(ctx context.Context) error {
		return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
			// Re-read inside the lock: a concurrent submit may have created
			// or locked the report since the eager check above.
			current, err := s.repo.GetByTerminalAndDate(ctx, req.TerminalID, req.Date)
			if err != nil {
				return fmt.Errorf("lookup report: %w", err)
			}
			if current != nil && IsLocked(current.StatusCode) {
				return apperror.NewReportLocked(req.TerminalID.String(), req.Date.Format("2006-01-02"))
			}

			now := time.Now()
			if current == nil {
				sent, err := s.statuses.StatusByCode(ctx, string(StatusSent))
				if err != nil {
					return fmt.Errorf("resolve sent status: %w", err)
				}
				if sent == nil {
					return apperror.NewNotFound("status", string(StatusSent))
				}
				report = &Report{
					ID:                id.New(),
					Date:              req.Date,
					TerminalID:        req.TerminalID,
					StatusID:          sent.ID,
					UserID:            callerID(ctx),
					CashIDs:           fetch.cashIDs,
					TotalAmount:       fetch.registerTotal,
					TotalManagerPrice: totalManager,
					Difference:        difference,
					ArrytIncome:       fetch.arryt.CustomerPrice,
					CreatedAt:         now,
					UpdatedAt:         now,
					Version:           1,
					StatusCode:        StatusSent,
				}
				for i := range items {
					items[i].ReportID = report.ID
				}
				return s.repo.CreateWithItems(ctx, report, items)
			}

			// Resubmission: numeric fields replaced, status untouched.
			report = current
			report.UserID = callerID(ctx)
			report.CashIDs = fetch.cashIDs
			report.TotalAmount = fetch.registerTotal
			report.TotalManagerPrice = totalManager
			report.Difference = difference
			report.ArrytIncome = fetch.arryt.CustomerPrice
			report.UpdatedAt = now
			for i := range items {
				items[i].ReportID = report.ID
			}
			return s.repo.ReplaceWithItems(ctx, report, items)
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "cash report submitted",
		"terminal_id", req.TerminalID.String(),
		"date", req.Date.Format("2006-01-02"),
		"total_manager_price", report.TotalManagerPrice.String(),
		"difference", report.Difference.String(),
		"line_items", len(items),
	)
	return report, nil
}

func callerID(ctx context.Context) id.ID {
	uid, err := id.Parse(appctx.GetUserID(ctx))
	if err != nil {
		return id.Nil()
	}
	return uid
}

// --- Status workflow ---

// SetStatus moves a report through the lifecycle table. Transitions outside
// the table are rejected for regular users; admins may jump anywhere, and
// every override is audit-logged.
func (s *Service) SetStatus(ctx context.Context, reportID, statusID id.ID) (*Report, error) {
	report, err := s.repo.GetByID(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("lookup report: %w", err)
	}
	if report == nil {
		return nil, apperror.NewNotFound("report", reportID.String())
	}
	if err := s.requireTerminal(ctx, report.TerminalID); err != nil {
		return nil, err
	}

	target, err := s.statuses.StatusByID(ctx, statusID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, apperror.NewNotFound("status", statusID.String())
	}

	from := report.StatusCode
	to := StatusCode(target.Code)
	if !CanTransition(from, to) {
		user := appctx.GetUser(ctx)
		if user == nil || !user.IsAdmin {
			return nil, apperror.NewInvalidTransition(string(from), string(to))
		}
		logger.Warn(ctx, "status transition override",
			"report_id", reportID.String(),
			"from", string(from),
			"to", string(to),
		)
	}

	if err := s.repo.SetStatus(ctx, reportID, statusID); err != nil {
		return nil, fmt.Errorf("set status: %w", err)
	}
	report.StatusID = statusID
	report.StatusCode = to
	return report, nil
}

// --- Read paths ---

// Get returns one report, enforcing terminal assignment.
func (s *Service) Get(ctx context.Context, reportID id.ID) (*Report, error) {
	report, err := s.repo.GetByID(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("lookup report: %w", err)
	}
	if report == nil {
		return nil, apperror.NewNotFound("report", reportID.String())
	}
	if err := s.requireTerminal(ctx, report.TerminalID); err != nil {
		return nil, err
	}
	return report, nil
}

// Items returns a report's full ledger.
func (s *Service) Items(ctx context.Context, reportID id.ID) ([]LineItem, error) {
	if _, err := s.Get(ctx, reportID); err != nil {
		return nil, err
	}
	return s.repo.ListItems(ctx, reportID, ItemFilter{})
}

// List returns reports visible to the caller: admins see everything the
// filter allows, others only their assigned terminals.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Report, int64, error) {
	user := appctx.GetUser(ctx)
	if user == nil {
		return nil, 0, apperror.NewUnauthorized("authentication required")
	}
	if !user.IsAdmin {
		assigned := make([]id.ID, 0, len(user.TerminalIDs))
		for _, tid := range user.TerminalIDs {
			parsed, err := id.Parse(tid)
			if err != nil {
				continue
			}
			assigned = append(assigned, parsed)
		}
		if len(filter.TerminalIDs) == 0 {
			filter.TerminalIDs = assigned
		} else {
			// Intersect requested terminals with the assignment set.
			allowed := make(map[id.ID]bool, len(assigned))
			for _, tid := range assigned {
				allowed[tid] = true
			}
			kept := filter.TerminalIDs[:0]
			for _, tid := range filter.TerminalIDs {
				if allowed[tid] {
					kept = append(kept, tid)
				}
			}
			filter.TerminalIDs = kept
		}
		if len(filter.TerminalIDs) == 0 {
			return []Report{}, 0, nil
		}
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 500 {
		filter.Limit = 500
	}
	return s.repo.List(ctx, filter)
}

// MyReports returns reports the caller submitted.
func (s *Service) MyReports(ctx context.Context, filter ListFilter) ([]Report, int64, error) {
	uid := callerID(ctx)
	if id.IsNil(uid) {
		return nil, 0, apperror.NewUnauthorized("authentication required")
	}
	filter.UserID = &uid
	return s.List(ctx, filter)
}
