package purchases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jomora1/proyvarchar/internal/core/apperror"
	"github.com/jomora1/proyvarchar/internal/core/id"
	"github.com/jomora1/proyvarchar/internal/core/types"
)

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type memPurchaseRepo struct {
	purchases []*Purchase
	lines     map[id.ID][]Line
}

func newMemPurchaseRepo() *memPurchaseRepo {
	return &memPurchaseRepo{lines: make(map[id.ID][]Line)}
}

func (r *memPurchaseRepo) Create(ctx context.Context, p *Purchase) error {
	copied := *p
	r.purchases = append([]*Purchase{&copied}, r.purchases...)
	return nil
}

func (r *memPurchaseRepo) SaveLines(ctx context.Context, lines []Line) error {
	for _, line := range lines {
		r.lines[line.PurchaseID] = append(r.lines[line.PurchaseID], line)
	}
	return nil
}

func (r *memPurchaseRepo) GetByID(ctx context.Context, purchaseID id.ID) (*Purchase, error) {
	for _, p := range r.purchases {
		if p.ID == purchaseID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, apperror.NewNotFound("purchase", purchaseID.String())
}

func (r *memPurchaseRepo) GetLines(ctx context.Context, purchaseID id.ID) ([]Line, error) {
	return r.lines[purchaseID], nil
}

func (r *memPurchaseRepo) List(ctx context.Context) ([]*Purchase, error) {
	return r.purchases, nil
}

func (r *memPurchaseRepo) ListByDateRange(ctx context.Context, from, to time.Time) ([]*Purchase, error) {
	out := make([]*Purchase, 0)
	for _, p := range r.purchases {
		if !p.Date.Before(from) && !p.Date.After(to) {
			out = append(out, p)
		}
	}
	return out, nil
}

type stockRecord struct {
	code string
	qty  int
	cost types.Money
}

type memInventory struct {
	known    map[string]bool
	recorded []stockRecord
}

func (inv *memInventory) RecordPurchase(ctx context.Context, code string, qty int, unitCost types.Money, at time.Time) error {
	if !inv.known[code] {
		return apperror.NewNotFound("product", code)
	}
	inv.recorded = append(inv.recorded, stockRecord{code: code, qty: qty, cost: unitCost})
	return nil
}

func newFixture(codes ...string) (*Service, *memPurchaseRepo, *memInventory) {
	repo := newMemPurchaseRepo()
	inv := &memInventory{known: make(map[string]bool)}
	for _, code := range codes {
		inv.known[code] = true
	}
	return NewService(repo, inv, passthroughTx{}), repo, inv
}

func purchaseInput(lines ...NewLineInput) NewPurchaseInput {
	return NewPurchaseInput{UserID: "u1", Lines: lines}
}

func TestCreate_ComputesTotalsAndFeedsStock(t *testing.T) {
	svc, repo, inv := newFixture("A", "B")

	p, err := svc.Create(context.Background(), purchaseInput(
		NewLineInput{ProductCode: "A", ProductName: "Widget", Quantity: 3, UnitCost: types.NewMoney(100)},
		NewLineInput{ProductCode: "B", ProductName: "Gadget", Quantity: 2, UnitCost: types.NewMoney(250)},
	))
	require.NoError(t, err)

	assert.True(t, p.TotalAmount.Equal(types.NewMoney(800)))
	assert.Equal(t, 5, p.TotalItems)
	assert.Equal(t, StatusCompleted, p.Status)
	assert.Equal(t, "General supplier", p.SupplierName)
	require.Len(t, p.Lines, 2)
	assert.True(t, p.Lines[0].Subtotal.Equal(types.NewMoney(300)))

	require.Len(t, inv.recorded, 2)
	assert.Equal(t, stockRecord{code: "A", qty: 3, cost: types.NewMoney(100)}, inv.recorded[0])
	assert.Equal(t, stockRecord{code: "B", qty: 2, cost: types.NewMoney(250)}, inv.recorded[1])

	stored, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, stored.TotalAmount.Equal(p.TotalAmount))
}

func TestCreate_KeepsProvidedSupplierName(t *testing.T) {
	svc, _, _ := newFixture("A")

	in := purchaseInput(NewLineInput{ProductCode: "A", Quantity: 1, UnitCost: types.NewMoney(10)})
	in.SupplierName = "Distribuidora Norte"

	p, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "Distribuidora Norte", p.SupplierName)
}

func TestCreate_UnknownProductFailsWholePurchase(t *testing.T) {
	svc, _, inv := newFixture("A")

	_, err := svc.Create(context.Background(), purchaseInput(
		NewLineInput{ProductCode: "A", Quantity: 1, UnitCost: types.NewMoney(10)},
		NewLineInput{ProductCode: "MISSING", Quantity: 1, UnitCost: types.NewMoney(10)},
	))
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	// First line's stock call ran before the failure; the real store
	// rolls the transaction back.
	assert.Len(t, inv.recorded, 1)
}

func TestCreate_ValidationRejections(t *testing.T) {
	svc, _, _ := newFixture("A")
	ctx := context.Background()

	cases := []struct {
		name string
		in   NewPurchaseInput
	}{
		{"no lines", purchaseInput()},
		{"blank product", purchaseInput(NewLineInput{Quantity: 1, UnitCost: types.NewMoney(10)})},
		{"zero quantity", purchaseInput(NewLineInput{ProductCode: "A", Quantity: 0, UnitCost: types.NewMoney(10)})},
		{"negative cost", purchaseInput(NewLineInput{ProductCode: "A", Quantity: 1, UnitCost: types.NewMoney(-1)})},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.in)
			require.Error(t, err)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeValidation, appErr.Code)
		})
	}
}

func TestGetByID_LoadsLines(t *testing.T) {
	svc, _, _ := newFixture("A")
	ctx := context.Background()

	created, err := svc.Create(ctx, purchaseInput(
		NewLineInput{ProductCode: "A", Quantity: 4, UnitCost: types.NewMoney(25)},
	))
	require.NoError(t, err)

	p, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, p.Lines, 1)
	assert.True(t, p.Lines[0].Subtotal.Equal(types.NewMoney(100)))
}

func TestGetSummary_SplitsCurrentMonth(t *testing.T) {
	svc, repo, _ := newFixture()
	ctx := context.Background()

	now := time.Now().UTC()
	thisMonth := time.Date(now.Year(), now.Month(), 1, 10, 0, 0, 0, time.UTC)
	lastMonth := thisMonth.AddDate(0, -1, 0)

	repo.purchases = []*Purchase{
		{ID: id.New(), TotalAmount: types.NewMoney(500), TotalItems: 5, Date: thisMonth},
		{ID: id.New(), TotalAmount: types.NewMoney(300), TotalItems: 3, Date: lastMonth},
	}

	summary, err := svc.GetSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalPurchases)
	assert.True(t, summary.TotalAmount.Equal(types.NewMoney(800)))
	assert.Equal(t, 8, summary.TotalItems)
	assert.Equal(t, 1, summary.MonthlyPurchases)
	assert.True(t, summary.MonthlyAmount.Equal(types.NewMoney(500)))
}

func TestListByDateRange(t *testing.T) {
	svc, repo, _ := newFixture()
	ctx := context.Background()

	jan := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)
	inRange := &Purchase{ID: id.New(), TotalAmount: types.NewMoney(100), Date: jan}
	outOfRange := &Purchase{ID: id.New(), TotalAmount: types.NewMoney(200), Date: feb}
	repo.purchases = []*Purchase{outOfRange, inRange}

	list, err := svc.ListByDateRange(ctx,
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, inRange.ID, list[0].ID)
}
