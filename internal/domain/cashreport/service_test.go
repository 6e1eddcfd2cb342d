package cashreport

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"davrcash/internal/core/apperror"
	appctx "davrcash/internal/core/context"
	"davrcash/internal/core/id"
	"davrcash/internal/core/types"
	"davrcash/internal/domain/catalogs/organization"
	"davrcash/internal/domain/catalogs/status"
	"davrcash/internal/domain/catalogs/terminal"
)

// --- Fakes ---

type fakeRepo struct {
	reports map[id.ID]*Report
	items   map[id.ID][]LineItem
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		reports: map[id.ID]*Report{},
		items:   map[id.ID][]LineItem{},
	}
}

func (r *fakeRepo) GetByTerminalAndDate(_ context.Context, terminalID id.ID, date time.Time) (*Report, error) {
	for _, rep := range r.reports {
		if rep.TerminalID == terminalID && rep.Date.Equal(date) {
			cp := *rep
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) GetByID(_ context.Context, reportID id.ID) (*Report, error) {
	rep, ok := r.reports[reportID]
	if !ok {
		return nil, nil
	}
	cp := *rep
	return &cp, nil
}

func (r *fakeRepo) List(_ context.Context, filter ListFilter) ([]Report, int64, error) {
	var out []Report
	for _, rep := range r.reports {
		if len(filter.TerminalIDs) > 0 {
			found := false
			for _, tid := range filter.TerminalIDs {
				if rep.TerminalID == tid {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		if filter.UserID != nil && rep.UserID != *filter.UserID {
			continue
		}
		out = append(out, *rep)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepo) CreateWithItems(_ context.Context, report *Report, items []LineItem) error {
	cp := *report
	r.reports[report.ID] = &cp
	r.items[report.ID] = append([]LineItem(nil), items...)
	return nil
}

func (r *fakeRepo) ReplaceWithItems(_ context.Context, report *Report, items []LineItem) error {
	stored, ok := r.reports[report.ID]
	if !ok {
		return apperror.NewNotFound("report", report.ID.String())
	}
	cp := *report
	cp.StatusID = stored.StatusID
	cp.StatusCode = stored.StatusCode
	cp.Version = stored.Version + 1
	r.reports[report.ID] = &cp
	r.items[report.ID] = append([]LineItem(nil), items...)
	return nil
}

func (r *fakeRepo) SetStatus(_ context.Context, reportID, statusID id.ID) error {
	rep, ok := r.reports[reportID]
	if !ok {
		return apperror.NewNotFound("report", reportID.String())
	}
	rep.StatusID = statusID
	return nil
}

func (r *fakeRepo) ListItems(_ context.Context, reportID id.ID, filter ItemFilter) ([]LineItem, error) {
	var out []LineItem
	for _, it := range r.items[reportID] {
		if len(filter.Types) > 0 && !containsType(filter.Types, it.Type) {
			continue
		}
		if len(filter.Sources) > 0 && !containsString(filter.Sources, it.Source) {
			continue
		}
		if containsString(filter.ExcludeSources, it.Source) {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

func containsType(types []LineItemType, t LineItemType) bool {
	for _, v := range types {
		if v == t {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

type fakeDirectory struct {
	terminal *terminal.Terminal
	org      *organization.Organization
	statuses []status.Status
}

func (d *fakeDirectory) Terminal(_ context.Context, termID id.ID) (*terminal.Terminal, error) {
	if d.terminal != nil && d.terminal.ID == termID {
		return d.terminal, nil
	}
	return nil, nil
}

func (d *fakeDirectory) Organization(_ context.Context, orgID id.ID) (*organization.Organization, error) {
	if d.org != nil && d.org.ID == orgID {
		return d.org, nil
	}
	return nil, nil
}

func (d *fakeDirectory) StatusByID(_ context.Context, stID id.ID) (*status.Status, error) {
	for i := range d.statuses {
		if d.statuses[i].ID == stID {
			return &d.statuses[i], nil
		}
	}
	return nil, nil
}

func (d *fakeDirectory) StatusByCode(_ context.Context, code string) (*status.Status, error) {
	for i := range d.statuses {
		if d.statuses[i].Code == code {
			return &d.statuses[i], nil
		}
	}
	return nil, nil
}

type fakeProviders struct {
	click         types.Money
	payme         types.Money
	registerTotal types.Money
	cashIDs       []string
	express       ExpressBreakdown
	arryt         ArrytBundle

	failClick      error
	lastClickQuery TotalQuery
}

func (p *fakeProviders) Total(_ context.Context, q TotalQuery, _ []string) (types.Money, error) {
	p.lastClickQuery = q
	if p.failClick != nil {
		return types.ZeroMoney(), p.failClick
	}
	return p.click, nil
}

type paymeFake struct{ p *fakeProviders }

func (f paymeFake) Total(_ context.Context, _ TotalQuery, _ []string, _ string) (types.Money, error) {
	return f.p.payme, nil
}

type iikoFake struct{ p *fakeProviders }

func (f iikoFake) RegisterTotal(_ context.Context, _ TotalQuery, _ string) (types.Money, error) {
	return f.p.registerTotal, nil
}

func (f iikoFake) RegisterSessions(_ context.Context, _ TotalQuery, _ string) ([]string, error) {
	return f.p.cashIDs, nil
}

type expressFake struct{ p *fakeProviders }

func (f expressFake) Breakdown(_ context.Context, _ TotalQuery, _ string) (ExpressBreakdown, error) {
	return f.p.express, nil
}

type arrytFake struct{ p *fakeProviders }

func (f arrytFake) Deliveries(_ context.Context, _ TotalQuery, _ string) (ArrytBundle, error) {
	return f.p.arryt, nil
}

type noopTxManager struct{}

func (noopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// --- Fixture ---

type fixture struct {
	service  *Service
	repo     *fakeRepo
	dir      *fakeDirectory
	provider *fakeProviders

	terminalID id.ID
	date       time.Time
	sentID     id.ID
	checkingID id.ID
	confirmID  id.ID
	cancelID   id.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	orgID := id.New()
	termID := id.New()
	businessID := "biz-1"
	iikoID := "iiko-1"
	yandexID := "yx-1"
	token := "arryt-token"

	dir := &fakeDirectory{
		terminal: &terminal.Terminal{
			ID:                 termID,
			OrganizationID:     orgID,
			Name:               "Chilanzar",
			IikoID:             &iikoID,
			ClickServiceIDs:    []string{"svc-1"},
			PaymeMerchantIDs:   []string{"m-1"},
			YandexRestaurantID: &yandexID,
			Active:             true,
		},
		org: &organization.Organization{
			ID:              orgID,
			Name:            "Davr",
			PaymeBusinessID: &businessID,
			ArrytToken:      &token,
			WorkStartTime:   "10:00",
			WorkEndTime:     "03:00",
			Active:          true,
		},
	}

	f := &fixture{
		repo:       newFakeRepo(),
		dir:        dir,
		provider:   &fakeProviders{},
		terminalID: termID,
		date:       time.Date(2024, 5, 30, 0, 0, 0, 0, time.UTC),
		sentID:     id.New(),
		checkingID: id.New(),
		confirmID:  id.New(),
		cancelID:   id.New(),
	}

	dir.statuses = []status.Status{
		{ID: f.sentID, Code: string(StatusSent), Label: "Sent", Active: true},
		{ID: f.checkingID, Code: string(StatusChecking), Label: "Checking", Active: true},
		{ID: f.confirmID, Code: string(StatusConfirmed), Label: "Confirmed", Active: true},
		{ID: f.cancelID, Code: string(StatusCancelled), Label: "Cancelled", Active: true},
	}

	providers := Providers{
		Click:   f.provider,
		Payme:   paymeFake{f.provider},
		Iiko:    iikoFake{f.provider},
		Express: expressFake{f.provider},
		Arryt:   arrytFake{f.provider},
	}

	f.service = NewService(f.repo, dir, dir, dir, providers, noopTxManager{}, NoopLocker{}, time.UTC)
	return f
}

func (f *fixture) userCtx(admin bool) context.Context {
	user := &appctx.UserContext{
		UserID:      id.New().String(),
		Email:       "manager@davrcash.local",
		Roles:       []string{"manager"},
		TerminalIDs: []string{f.terminalID.String()},
		IsAdmin:     admin,
	}
	return appctx.WithUser(context.Background(), user)
}

// --- Submission ---

func TestSubmitFirstReport(t *testing.T) {
	f := newFixture(t)
	ctx := f.userCtx(false)

	f.provider.click = types.MustMoney("100")
	f.provider.payme = types.MustMoney("50")
	f.provider.registerTotal = types.MustMoney("150")
	f.provider.cashIDs = []string{"sess-1", "sess-2"}
	f.provider.express = ExpressBreakdown{YandexEats: types.MustMoney("20")}
	f.provider.arryt = ArrytBundle{
		CustomerPrice: types.MustMoney("30"),
		Withdraws: []CourierWithdraw{
			{FirstName: "A", LastName: "B", Amount: types.MustMoney("10")},
		},
	}

	report, err := f.service.Submit(ctx, SubmitRequest{
		TerminalID: f.terminalID,
		Date:       f.date,
	})
	require.NoError(t, err)
	require.NotNil(t, report)

	// 100 + 50 + 20 + 0 + 0 + 10 = 180
	assert.True(t, report.TotalManagerPrice.Equal(types.MustMoney("180")),
		"total_manager_price = %s", report.TotalManagerPrice)
	assert.True(t, report.Difference.Equal(types.MustMoney("30")),
		"difference = %s", report.Difference)
	assert.True(t, report.TotalAmount.Equal(types.MustMoney("150")))
	assert.True(t, report.ArrytIncome.Equal(types.MustMoney("30")))
	assert.Equal(t, []string{"sess-1", "sess-2"}, report.CashIDs)
	assert.Equal(t, StatusSent, report.StatusCode)
	assert.Equal(t, f.sentID, report.StatusID)

	items := f.repo.items[report.ID]
	require.Len(t, items, 6)

	var incomes, outcomes int
	for _, it := range items {
		switch it.Type {
		case ItemIncome:
			incomes++
		case ItemOutcome:
			outcomes++
		}
	}
	assert.Equal(t, 5, incomes)
	assert.Equal(t, 1, outcomes)

	withdraws, err := f.repo.ListItems(ctx, report.ID, ItemFilter{Sources: []string{SourceArryt}})
	require.NoError(t, err)
	require.Len(t, withdraws, 1)
	assert.Equal(t, "A B", withdraws[0].Label)
}

func TestSubmitZeroRegisterHasZeroDifference(t *testing.T) {
	f := newFixture(t)
	ctx := f.userCtx(false)

	f.provider.click = types.MustMoney("100")
	f.provider.registerTotal = types.ZeroMoney()

	report, err := f.service.Submit(ctx, SubmitRequest{TerminalID: f.terminalID, Date: f.date})
	require.NoError(t, err)

	assert.True(t, report.Difference.IsZero(), "difference = %s", report.Difference)
	assert.True(t, report.TotalManagerPrice.Equal(types.MustMoney("100")))
}

func TestSubmitResubmissionReplacesItems(t *testing.T) {
	f := newFixture(t)
	ctx := f.userCtx(false)

	f.provider.click = types.MustMoney("100")
	first, err := f.service.Submit(ctx, SubmitRequest{TerminalID: f.terminalID, Date: f.date})
	require.NoError(t, err)

	f.provider.click = types.MustMoney("140")
	second, err := f.service.Submit(ctx, SubmitRequest{
		TerminalID: f.terminalID,
		Date:       f.date,
		Expenses:   []ManualEntry{{Label: "Такси", Amount: types.MustMoney("5")}},
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "resubmission must reuse the report row")
	assert.Equal(t, StatusSent, second.StatusCode, "status survives resubmission")
	assert.True(t, second.TotalManagerPrice.Equal(types.MustMoney("145")))

	items := f.repo.items[second.ID]
	assert.Len(t, items, 6, "5 channel incomes + 1 manual expense")

	expenses, err := f.repo.ListItems(ctx, second.ID, ItemFilter{Sources: []string{SourceOtherExpenses}})
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, "Такси", expenses[0].Label)
}

func TestSubmitLockedReportRejected(t *testing.T) {
	f := newFixture(t)
	ctx := f.userCtx(false)

	report, err := f.service.Submit(ctx, SubmitRequest{TerminalID: f.terminalID, Date: f.date})
	require.NoError(t, err)

	stored := f.repo.reports[report.ID]
	stored.StatusID = f.checkingID
	stored.StatusCode = StatusChecking

	_, err = f.service.Submit(ctx, SubmitRequest{TerminalID: f.terminalID, Date: f.date})
	require.Error(t, err)
	assert.True(t, apperror.IsReportLocked(err), "expected REPORT_LOCKED, got %v", err)
}

func TestSubmitMissingCredentialFailsFast(t *testing.T) {
	f := newFixture(t)
	ctx := f.userCtx(false)

	f.dir.terminal.IikoID = nil

	_, err := f.service.Submit(ctx, SubmitRequest{TerminalID: f.terminalID, Date: f.date})
	require.Error(t, err)
	assert.True(t, apperror.IsCredentialMissing(err))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "iiko_id", appErr.Details["credential"])
	assert.Empty(t, f.repo.reports, "no report may be written on credential failure")
}

func TestSubmitProviderFailureNoWrites(t *testing.T) {
	f := newFixture(t)
	ctx := f.userCtx(false)

	f.provider.failClick = apperror.NewUpstream("click", errors.New("gateway timeout"))

	_, err := f.service.Submit(ctx, SubmitRequest{TerminalID: f.terminalID, Date: f.date})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUpstream, appErr.Code)
	assert.Empty(t, f.repo.reports, "no report may be written on provider failure")
	assert.Empty(t, f.repo.items)
}

func TestSubmitUnknownTerminalNotFound(t *testing.T) {
	f := newFixture(t)
	// Admins bypass the assignment check, so the directory miss decides.
	ctx := f.userCtx(true)

	_, err := f.service.Submit(ctx, SubmitRequest{TerminalID: id.New(), Date: f.date})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestSubmitUnassignedTerminalForbidden(t *testing.T) {
	f := newFixture(t)
	user := &appctx.UserContext{
		UserID:      id.New().String(),
		TerminalIDs: []string{id.New().String()},
	}
	ctx := appctx.WithUser(context.Background(), user)

	_, err := f.service.Submit(ctx, SubmitRequest{TerminalID: f.terminalID, Date: f.date})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)
}

// --- Previews ---

func TestClickPreviewLiveAndFrozen(t *testing.T) {
	f := newFixture(t)
	ctx := f.userCtx(false)

	f.provider.click = types.MustMoney("77")
	total, err := f.service.ClickPreview(ctx, f.terminalID, f.date, nil)
	require.NoError(t, err)
	assert.True(t, total.Equal(types.MustMoney("77")))

	report, err := f.service.Submit(ctx, SubmitRequest{TerminalID: f.terminalID, Date: f.date})
	require.NoError(t, err)

	stored := f.repo.reports[report.ID]
	stored.StatusCode = StatusConfirmed

	// Provider now disagrees; the frozen path must win.
	f.provider.click = types.MustMoney("9999")
	total, err = f.service.ClickPreview(ctx, f.terminalID, f.date, nil)
	require.NoError(t, err)
	assert.True(t, total.Equal(types.MustMoney("77")), "frozen preview reads stored items")
}

func TestClickPreviewCutoffReachesProvider(t *testing.T) {
	f := newFixture(t)
	ctx := f.userCtx(false)

	cutoff := "14:30"
	_, err := f.service.ClickPreview(ctx, f.terminalID, f.date, &cutoff)
	require.NoError(t, err)

	q := f.provider.lastClickQuery
	require.NotNil(t, q.Cutoff)
	assert.Equal(t, "14:30", *q.Cutoff)
	assert.Equal(t, "10:00", q.WorkStart)
	assert.Equal(t, "03:00", q.WorkEnd)
	assert.True(t, q.Date.Equal(f.date))
}

func TestArrytPreviewFrozenReshapesWithdraws(t *testing.T) {
	f := newFixture(t)
	ctx := f.userCtx(false)

	f.provider.arryt = ArrytBundle{
		CustomerPrice: types.MustMoney("30"),
		Withdraws: []CourierWithdraw{
			{FirstName: "Alisher", LastName: "Usmanov", Amount: types.MustMoney("12")},
		},
	}
	report, err := f.service.Submit(ctx, SubmitRequest{TerminalID: f.terminalID, Date: f.date})
	require.NoError(t, err)

	f.repo.reports[report.ID].StatusCode = StatusChecking

	bundle, err := f.service.ArrytPreview(ctx, f.terminalID, f.date, nil)
	require.NoError(t, err)
	assert.True(t, bundle.CustomerPrice.Equal(types.MustMoney("30")))
	require.Len(t, bundle.Withdraws, 1)
	assert.Equal(t, "Alisher", bundle.Withdraws[0].FirstName)
	assert.Equal(t, "Usmanov", bundle.Withdraws[0].LastName)
	assert.True(t, bundle.Withdraws[0].Amount.Equal(types.MustMoney("12")))
}

func TestExpressPreviewFrozenGroupsBySource(t *testing.T) {
	f := newFixture(t)
	ctx := f.userCtx(false)

	f.provider.express = ExpressBreakdown{
		YandexEats: types.MustMoney("20"),
		Wolt:       types.MustMoney("5"),
	}
	report, err := f.service.Submit(ctx, SubmitRequest{TerminalID: f.terminalID, Date: f.date})
	require.NoError(t, err)
	f.repo.reports[report.ID].StatusCode = StatusConfirmed

	bd, err := f.service.ExpressPreview(ctx, f.terminalID, f.date, nil)
	require.NoError(t, err)
	assert.True(t, bd.YandexEats.Equal(types.MustMoney("20")))
	assert.True(t, bd.MyUzcard.IsZero())
	assert.True(t, bd.Wolt.Equal(types.MustMoney("5")))
}

// --- Editable rows ---

func TestEditableIncomesDefaultsWhenNoReport(t *testing.T) {
	f := newFixture(t)
	ctx := f.userCtx(false)

	entries, err := f.service.EditableIncomes(ctx, f.terminalID, f.date)
	require.NoError(t, err)
	require.Len(t, entries, len(DefaultManualIncomeKeys))
	for i, key := range DefaultManualIncomeKeys {
		assert.Equal(t, key, entries[i].Key)
		assert.True(t, entries[i].Value.IsZero())
		assert.False(t, entries[i].Readonly)
	}
}

func TestEditableExpensesDefaultWhenNoReport(t *testing.T) {
	f := newFixture(t)
	ctx := f.userCtx(false)

	entries, err := f.service.EditableExpenses(ctx, f.terminalID, f.date)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, SourceOtherExpenses, entries[0].Key)
	assert.Equal(t, DefaultExpenseLabel, entries[0].Label)
}

func TestEditableIncomesReadonlyWhenLocked(t *testing.T) {
	f := newFixture(t)
	ctx := f.userCtx(false)

	report, err := f.service.Submit(ctx, SubmitRequest{
		TerminalID: f.terminalID,
		Date:       f.date,
		Incomes:    []ManualEntry{{Key: "cash", Label: "Наличные", Amount: types.MustMoney("40")}},
	})
	require.NoError(t, err)
	f.repo.reports[report.ID].StatusCode = StatusChecking

	entries, err := f.service.EditableIncomes(ctx, f.terminalID, f.date)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "cash", entries[0].Key)
	assert.True(t, entries[0].Readonly)
}

func TestEditableIncomesIncludeFreeFormKeys(t *testing.T) {
	f := newFixture(t)
	ctx := f.userCtx(false)

	_, err := f.service.Submit(ctx, SubmitRequest{
		TerminalID: f.terminalID,
		Date:       f.date,
		Incomes:    []ManualEntry{{Key: "tips", Label: "Чаевые", Amount: types.MustMoney("7")}},
	})
	require.NoError(t, err)

	entries, err := f.service.EditableIncomes(ctx, f.terminalID, f.date)
	require.NoError(t, err)
	require.Len(t, entries, 1, "channel rows stay out, manual keys stay in")
	assert.Equal(t, "tips", entries[0].Key)
	assert.Equal(t, "Чаевые", entries[0].Label)
	assert.True(t, entries[0].Value.Equal(types.MustMoney("7")))
}

func TestEditableExpensesExcludeCourierWithdraws(t *testing.T) {
	f := newFixture(t)
	ctx := f.userCtx(false)

	f.provider.arryt = ArrytBundle{
		Withdraws: []CourierWithdraw{{FirstName: "A", LastName: "B", Amount: types.MustMoney("10")}},
	}
	_, err := f.service.Submit(ctx, SubmitRequest{
		TerminalID: f.terminalID,
		Date:       f.date,
		Expenses:   []ManualEntry{{Label: "Хозтовары", Amount: types.MustMoney("3")}},
	})
	require.NoError(t, err)

	entries, err := f.service.EditableExpenses(ctx, f.terminalID, f.date)
	require.NoError(t, err)
	require.Len(t, entries, 1, "courier withdraws must not surface as expenses")
	assert.Equal(t, SourceOtherExpenses, entries[0].Key)
}

// --- Status workflow ---

func TestSetStatusHappyPath(t *testing.T) {
	f := newFixture(t)
	ctx := f.userCtx(false)

	report, err := f.service.Submit(ctx, SubmitRequest{TerminalID: f.terminalID, Date: f.date})
	require.NoError(t, err)

	updated, err := f.service.SetStatus(ctx, report.ID, f.checkingID)
	require.NoError(t, err)
	assert.Equal(t, StatusChecking, updated.StatusCode)
	f.repo.reports[report.ID].StatusCode = StatusChecking

	updated, err = f.service.SetStatus(ctx, report.ID, f.confirmID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, updated.StatusCode)
}

func TestSetStatusInvalidTransitionRejected(t *testing.T) {
	f := newFixture(t)
	ctx := f.userCtx(false)

	report, err := f.service.Submit(ctx, SubmitRequest{TerminalID: f.terminalID, Date: f.date})
	require.NoError(t, err)

	_, err = f.service.SetStatus(ctx, report.ID, f.confirmID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidTransition, appErr.Code)
}

func TestSetStatusAdminOverride(t *testing.T) {
	f := newFixture(t)
	ctx := f.userCtx(true)

	report, err := f.service.Submit(ctx, SubmitRequest{TerminalID: f.terminalID, Date: f.date})
	require.NoError(t, err)

	// sent -> confirmed skips checking; only admins may do this.
	updated, err := f.service.SetStatus(ctx, report.ID, f.confirmID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, updated.StatusCode)
}

// --- Editability gate ---

func TestIsEditable(t *testing.T) {
	f := newFixture(t)
	ctx := f.userCtx(false)

	editable, err := f.service.IsEditable(ctx, f.terminalID, f.date)
	require.NoError(t, err)
	assert.True(t, editable, "no report yet")

	report, err := f.service.Submit(ctx, SubmitRequest{TerminalID: f.terminalID, Date: f.date})
	require.NoError(t, err)

	editable, err = f.service.IsEditable(ctx, f.terminalID, f.date)
	require.NoError(t, err)
	assert.True(t, editable, "sent is editable")

	f.repo.reports[report.ID].StatusCode = StatusConfirmed
	editable, err = f.service.IsEditable(ctx, f.terminalID, f.date)
	require.NoError(t, err)
	assert.False(t, editable, "confirmed is locked")
}

// --- Listing ---

func TestListScopedToAssignedTerminals(t *testing.T) {
	f := newFixture(t)
	ctx := f.userCtx(false)

	_, err := f.service.Submit(ctx, SubmitRequest{TerminalID: f.terminalID, Date: f.date})
	require.NoError(t, err)

	// A report on a foreign terminal, injected directly.
	foreign := &Report{ID: id.New(), TerminalID: id.New(), Date: f.date, StatusCode: StatusSent}
	f.repo.reports[foreign.ID] = foreign

	reports, total, err := f.service.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, reports, 1)
	assert.Equal(t, f.terminalID, reports[0].TerminalID)
}

func TestListRequestedForeignTerminalFiltered(t *testing.T) {
	f := newFixture(t)
	ctx := f.userCtx(false)

	foreignID := id.New()
	reports, total, err := f.service.List(ctx, ListFilter{TerminalIDs: []id.ID{foreignID}})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, reports)
}
