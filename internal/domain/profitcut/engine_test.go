package profitcut

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jomora1/proyvarchar/internal/core/apperror"
	"github.com/jomora1/proyvarchar/internal/core/id"
	"github.com/jomora1/proyvarchar/internal/core/types"
	"github.com/jomora1/proyvarchar/internal/domain/catalogs/product"
	"github.com/jomora1/proyvarchar/internal/domain/sales"
)

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type memCutRepo struct {
	cuts []*ProfitCut
}

func (r *memCutRepo) Create(ctx context.Context, cut *ProfitCut) error {
	r.cuts = append([]*ProfitCut{cut}, r.cuts...)
	return nil
}

func (r *memCutRepo) GetByID(ctx context.Context, cutID id.ID) (*ProfitCut, error) {
	for _, cut := range r.cuts {
		if cut.ID == cutID {
			return cut, nil
		}
	}
	return nil, apperror.NewNotFound("profit cut", cutID.String())
}

func (r *memCutRepo) List(ctx context.Context) ([]*ProfitCut, error) {
	return r.cuts, nil
}

type memItemLedger struct {
	items []*sales.Item
}

func (l *memItemLedger) ListAllItems(ctx context.Context) ([]sales.Item, error) {
	out := make([]sales.Item, 0, len(l.items))
	for _, item := range l.items {
		out = append(out, *item)
	}
	return out, nil
}

func (l *memItemLedger) UpdateItemCut(ctx context.Context, itemID id.ID, cutUnits int, isCutIncluded bool, cutID id.ID) error {
	for _, item := range l.items {
		if item.ID == itemID {
			item.CutUnits = cutUnits
			item.IsCutIncluded = isCutIncluded
			item.CutID = &cutID
			return nil
		}
	}
	return apperror.NewNotFound("sale item", itemID.String())
}

type memCatalog struct {
	products []*product.Product
}

func (c *memCatalog) List(ctx context.Context) ([]*product.Product, error) {
	return c.products, nil
}

func ledgerItem(code string, qty int, unitPrice, paid float64) *sales.Item {
	price := types.NewMoney(unitPrice)
	subtotal := price.Mul(types.NewMoney(float64(qty)))
	paidM := types.NewMoney(paid)
	return &sales.Item{
		ID:          id.New(),
		SaleID:      id.New(),
		ProductCode: code,
		Quantity:    qty,
		UnitPrice:   price,
		Subtotal:    subtotal,
		Paid:        paidM,
		Pending:     subtotal.Sub(paidM),
	}
}

func catalogProduct(code string, costPrice float64) *product.Product {
	return &product.Product{Code: code, CostPrice: types.NewMoney(costPrice)}
}

func newEngine(ledger *memItemLedger, catalog *memCatalog, cfg Config) (*Engine, *memCutRepo) {
	repo := &memCutRepo{}
	return NewEngine(repo, ledger, catalog, passthroughTx{}, cfg), repo
}

func TestCreateCut_RecognizesOnlyFullyPaidUnits(t *testing.T) {
	// Two units at 5000; 6000 paid covers exactly one whole unit.
	ledger := &memItemLedger{items: []*sales.Item{ledgerItem("A", 2, 5000, 6000)}}
	catalog := &memCatalog{products: []*product.Product{catalogProduct("A", 3000)}}
	engine, _ := newEngine(ledger, catalog, DefaultConfig())

	result, err := engine.CreateCut(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, 1, result.ItemsCount)
	assert.True(t, result.TotalRevenue.Equal(types.NewMoney(5000)))
	assert.True(t, result.TotalCost.Equal(types.NewMoney(3000)))
	assert.True(t, result.NetProfit.Equal(types.NewMoney(2000)))

	item := ledger.items[0]
	assert.Equal(t, 1, item.CutUnits)
	assert.False(t, item.IsCutIncluded)
}

func TestCreateCut_NothingNewToSettle(t *testing.T) {
	// One unit already recognized; no further payment since.
	item := ledgerItem("A", 2, 5000, 6000)
	item.CutUnits = 1
	ledger := &memItemLedger{items: []*sales.Item{item}}
	catalog := &memCatalog{products: []*product.Product{catalogProduct("A", 3000)}}
	engine, _ := newEngine(ledger, catalog, DefaultConfig())

	_, err := engine.CreateCut(context.Background(), "u1")
	require.Error(t, err)
	assert.True(t, apperror.IsNothingToSettle(err))
}

func TestCreateCut_RerunIsIdempotent(t *testing.T) {
	ledger := &memItemLedger{items: []*sales.Item{ledgerItem("A", 3, 1000, 2000)}}
	catalog := &memCatalog{products: []*product.Product{catalogProduct("A", 600)}}
	engine, repo := newEngine(ledger, catalog, DefaultConfig())
	ctx := context.Background()

	first, err := engine.CreateCut(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, first.ItemsCount)

	// No payment happened in between: the rescan finds nothing.
	_, err = engine.CreateCut(ctx, "u1")
	require.Error(t, err)
	assert.True(t, apperror.IsNothingToSettle(err))
	assert.Len(t, repo.cuts, 1)
}

func TestCreateCut_FinalUnitMarksItemIncluded(t *testing.T) {
	item := ledgerItem("A", 2, 5000, 10000)
	item.CutUnits = 1
	ledger := &memItemLedger{items: []*sales.Item{item}}
	catalog := &memCatalog{products: []*product.Product{catalogProduct("A", 3000)}}
	engine, _ := newEngine(ledger, catalog, DefaultConfig())

	result, err := engine.CreateCut(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, 1, result.ItemsCount)
	assert.Equal(t, 2, item.CutUnits)
	assert.True(t, item.IsCutIncluded)
	require.NotNil(t, item.CutID)
	assert.Equal(t, result.CutID, *item.CutID)
}

func TestCreateCut_OverpaymentNeverExceedsQuantity(t *testing.T) {
	// Rounding tolerance let paid exceed the subtotal slightly; the unit
	// count is still clamped by quantity.
	item := ledgerItem("A", 2, 100, 200.01)
	ledger := &memItemLedger{items: []*sales.Item{item}}
	catalog := &memCatalog{products: []*product.Product{catalogProduct("A", 50)}}
	engine, _ := newEngine(ledger, catalog, DefaultConfig())

	result, err := engine.CreateCut(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, result.ItemsCount)
	assert.Equal(t, 2, item.CutUnits)
}

func TestCreateCut_SkipsItemsAlreadyIncluded(t *testing.T) {
	done := ledgerItem("A", 1, 100, 100)
	done.CutUnits = 1
	done.IsCutIncluded = true
	fresh := ledgerItem("A", 1, 100, 100)
	ledger := &memItemLedger{items: []*sales.Item{done, fresh}}
	catalog := &memCatalog{products: []*product.Product{catalogProduct("A", 40)}}
	engine, _ := newEngine(ledger, catalog, DefaultConfig())

	result, err := engine.CreateCut(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.ItemsCount)
	assert.Equal(t, 1, done.CutUnits)
}

func TestCreateCut_MissingProductSkipsCost(t *testing.T) {
	ledger := &memItemLedger{items: []*sales.Item{ledgerItem("GONE", 1, 500, 500)}}
	engine, _ := newEngine(ledger, &memCatalog{}, DefaultConfig())

	result, err := engine.CreateCut(context.Background(), "u1")
	require.NoError(t, err)

	assert.True(t, result.TotalRevenue.Equal(types.NewMoney(500)))
	assert.True(t, result.TotalCost.IsZero())
	assert.True(t, result.NetProfit.Equal(types.NewMoney(500)))
}

func TestCreateCut_MissingProductFailPolicy(t *testing.T) {
	ledger := &memItemLedger{items: []*sales.Item{ledgerItem("GONE", 1, 500, 500)}}
	engine, repo := newEngine(ledger, &memCatalog{}, Config{MissingProduct: MissingProductFail})

	_, err := engine.CreateCut(context.Background(), "u1")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, repo.cuts)
}

func TestGetLast(t *testing.T) {
	ledger := &memItemLedger{items: []*sales.Item{ledgerItem("A", 1, 100, 100)}}
	catalog := &memCatalog{products: []*product.Product{catalogProduct("A", 40)}}
	engine, _ := newEngine(ledger, catalog, DefaultConfig())
	ctx := context.Background()

	_, err := engine.GetLast(ctx)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))

	result, err := engine.CreateCut(ctx, "u1")
	require.NoError(t, err)

	last, err := engine.GetLast(ctx)
	require.NoError(t, err)
	assert.Equal(t, result.CutID, last.ID)
	assert.WithinDuration(t, time.Now().UTC(), last.Date, time.Minute)
}
