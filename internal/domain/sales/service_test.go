package sales

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

type memSaleRepo struct {
	sales map[id.ID]*Sale
	items map[id.ID][]Item
}

func newMemSaleRepo() *memSaleRepo {
	return &memSaleRepo{
		sales: make(map[id.ID]*Sale),
		items: make(map[id.ID][]Item),
	}
}

func (r *memSaleRepo) CreateSale(ctx context.Context, sale *Sale) error {
	copied := *sale
	r.sales[sale.ID] = &copied
	return nil
}

func (r *memSaleRepo) CreateItems(ctx context.Context, items []Item) error {
	for _, item := range items {
		r.items[item.SaleID] = append(r.items[item.SaleID], item)
	}
	return nil
}

func (r *memSaleRepo) GetSale(ctx context.Context, saleID id.ID) (*Sale, error) {
	sale, ok := r.sales[saleID]
	if !ok {
		return nil, apperror.NewNotFound("sale", saleID.String())
	}
	copied := *sale
	return &copied, nil
}

func (r *memSaleRepo) GetItems(ctx context.Context, saleID id.ID) ([]Item, error) {
	return r.items[saleID], nil
}

func (r *memSaleRepo) UpdateSalePayment(ctx context.Context, saleID id.ID, paid types.Money, status Status) error {
	sale, ok := r.sales[saleID]
	if !ok {
		return apperror.NewNotFound("sale", saleID.String())
	}
	sale.Paid = paid
	sale.Status = status
	return nil
}

func (r *memSaleRepo) UpdateItemPayment(ctx context.Context, itemID id.ID, paid, pending types.Money) error {
	for saleID, items := range r.items {
		for i := range items {
			if items[i].ID == itemID {
				r.items[saleID][i].Paid = paid
				r.items[saleID][i].Pending = pending
				return nil
			}
		}
	}
	return apperror.NewNotFound("sale item", itemID.String())
}

func (r *memSaleRepo) UpdateItemCut(ctx context.Context, itemID id.ID, cutUnits int, isCutIncluded bool, cutID id.ID) error {
	return nil
}

func (r *memSaleRepo) List(ctx context.Context) ([]*Sale, error) {
	out := make([]*Sale, 0, len(r.sales))
	for _, sale := range r.sales {
		out = append(out, sale)
	}
	return out, nil
}

func (r *memSaleRepo) ListByClient(ctx context.Context, clientID id.ID) ([]*Sale, error) {
	out := make([]*Sale, 0)
	for _, sale := range r.sales {
		if sale.ClientID == clientID {
			out = append(out, sale)
		}
	}
	return out, nil
}

func (r *memSaleRepo) ListAllItems(ctx context.Context) ([]Item, error) {
	out := make([]Item, 0)
	for _, items := range r.items {
		out = append(out, items...)
	}
	return out, nil
}

func (r *memSaleRepo) CountByClient(ctx context.Context, clientID id.ID) (int, error) {
	count := 0
	for _, sale := range r.sales {
		if sale.ClientID == clientID {
			count++
		}
	}
	return count, nil
}

type memInventory struct {
	stock      map[string]int
	decrements []string
}

func (inv *memInventory) DecrementStock(ctx context.Context, code string, qty int) error {
	available := inv.stock[code]
	if qty > available {
		return apperror.NewInsufficientStock(code, qty, available)
	}
	inv.stock[code] -= qty
	inv.decrements = append(inv.decrements, code)
	return nil
}

type memRecorder struct {
	recorded []types.Money
}

func (r *memRecorder) RecordInitial(ctx context.Context, saleID id.ID, amount types.Money, date time.Time, userID string) (id.ID, error) {
	r.recorded = append(r.recorded, amount)
	return id.New(), nil
}

func newFixture(stock map[string]int) (*Service, *memSaleRepo, *memInventory, *memRecorder) {
	repo := newMemSaleRepo()
	inv := &memInventory{stock: stock}
	rec := &memRecorder{}
	return NewService(repo, inv, rec, passthroughTx{}), repo, inv, rec
}

func saleInput(paymentType PaymentType, amountPaid float64, items ...NewItemInput) NewSaleInput {
	return NewSaleInput{
		ClientID:    id.New(),
		Items:       items,
		PaymentType: paymentType,
		AmountPaid:  types.NewMoney(amountPaid),
		UserID:      "u1",
	}
}

func TestCreate_TotalPayment(t *testing.T) {
	svc, repo, inv, rec := newFixture(map[string]int{"A": 10, "B": 5})

	sale, err := svc.Create(context.Background(), saleInput(PaymentTotal, 0,
		NewItemInput{ProductCode: "A", Quantity: 2, UnitPrice: types.NewMoney(1500)},
		NewItemInput{ProductCode: "B", Quantity: 1, UnitPrice: types.NewMoney(2000)},
	))
	require.NoError(t, err)

	assert.True(t, sale.Total.Equal(types.NewMoney(5000)))
	assert.True(t, sale.Paid.Equal(types.NewMoney(5000)))
	assert.Equal(t, StatusPaid, sale.Status)
	assert.True(t, sale.Pending().IsZero())

	assert.Equal(t, 8, inv.stock["A"])
	assert.Equal(t, 4, inv.stock["B"])
	assert.Empty(t, rec.recorded, "total payment records no initial payment")

	items, err := repo.GetItems(context.Background(), sale.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 0, items[0].Seq)
	assert.Equal(t, 1, items[1].Seq)
}

func TestCreate_PartialPaymentSeedsHeaderOnly(t *testing.T) {
	// An initial partial amount goes into the header's Paid; line items
	// keep their full pending until the allocator distributes payments.
	svc, repo, _, rec := newFixture(map[string]int{"A": 10})

	sale, err := svc.Create(context.Background(), saleInput(PaymentPartial, 3000,
		NewItemInput{ProductCode: "A", Quantity: 2, UnitPrice: types.NewMoney(5000)},
	))
	require.NoError(t, err)

	assert.True(t, sale.Paid.Equal(types.NewMoney(3000)))
	assert.Equal(t, StatusPartial, sale.Status)

	items, err := repo.GetItems(context.Background(), sale.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Paid.IsZero())
	assert.True(t, items[0].Pending.Equal(types.NewMoney(10000)))

	require.Len(t, rec.recorded, 1)
	assert.True(t, rec.recorded[0].Equal(types.NewMoney(3000)))
}

func TestCreate_InTolerancePaymentClampsHeader(t *testing.T) {
	// An amount within the rounding tolerance of the total is accepted;
	// the payment record keeps the full amount but the header never
	// exceeds the total.
	svc, repo, _, rec := newFixture(map[string]int{"A": 10})

	sale, err := svc.Create(context.Background(), saleInput(PaymentPartial, 100.01,
		NewItemInput{ProductCode: "A", Quantity: 1, UnitPrice: types.NewMoney(100)},
	))
	require.NoError(t, err)

	assert.True(t, sale.Paid.Equal(sale.Total))
	assert.Equal(t, StatusPaid, sale.Status)
	assert.True(t, sale.Pending().IsZero())

	stored, err := repo.GetSale(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.False(t, stored.Paid.GreaterThan(stored.Total))

	require.Len(t, rec.recorded, 1)
	assert.True(t, rec.recorded[0].Equal(types.NewMoney(100.01)))
}

func TestCreate_PartialWithZeroPaidRecordsNothing(t *testing.T) {
	svc, _, _, rec := newFixture(map[string]int{"A": 10})

	sale, err := svc.Create(context.Background(), saleInput(PaymentPartial, 0,
		NewItemInput{ProductCode: "A", Quantity: 1, UnitPrice: types.NewMoney(100)},
	))
	require.NoError(t, err)

	assert.Equal(t, StatusPartial, sale.Status)
	assert.Empty(t, rec.recorded)
}

func TestCreate_InsufficientStockAborts(t *testing.T) {
	svc, _, _, _ := newFixture(map[string]int{"A": 1})

	_, err := svc.Create(context.Background(), saleInput(PaymentTotal, 0,
		NewItemInput{ProductCode: "A", Quantity: 5, UnitPrice: types.NewMoney(100)},
	))
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)
}

func TestCreate_ValidationRejections(t *testing.T) {
	svc, _, _, _ := newFixture(map[string]int{"A": 10})
	ctx := context.Background()

	cases := []struct {
		name string
		in   NewSaleInput
	}{
		{"no client", NewSaleInput{
			Items:       []NewItemInput{{ProductCode: "A", Quantity: 1, UnitPrice: types.NewMoney(100)}},
			PaymentType: PaymentTotal,
		}},
		{"no items", saleInput(PaymentTotal, 0)},
		{"bad payment type", saleInput("credit", 0,
			NewItemInput{ProductCode: "A", Quantity: 1, UnitPrice: types.NewMoney(100)})},
		{"negative amount", saleInput(PaymentPartial, -1,
			NewItemInput{ProductCode: "A", Quantity: 1, UnitPrice: types.NewMoney(100)})},
		{"zero quantity", saleInput(PaymentTotal, 0,
			NewItemInput{ProductCode: "A", Quantity: 0, UnitPrice: types.NewMoney(100)})},
		{"zero unit price", saleInput(PaymentTotal, 0,
			NewItemInput{ProductCode: "A", Quantity: 1, UnitPrice: types.Zero()})},
		{"amount paid exceeds total", saleInput(PaymentPartial, 200,
			NewItemInput{ProductCode: "A", Quantity: 1, UnitPrice: types.NewMoney(100)})},
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

func TestGetByID_LoadsItems(t *testing.T) {
	svc, _, _, _ := newFixture(map[string]int{"A": 10})
	ctx := context.Background()

	created, err := svc.Create(ctx, saleInput(PaymentTotal, 0,
		NewItemInput{ProductCode: "A", Quantity: 3, UnitPrice: types.NewMoney(250)},
	))
	require.NoError(t, err)

	sale, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, sale.Items, 1)
	assert.True(t, sale.Items[0].Subtotal.Equal(types.NewMoney(750)))

	_, err = svc.GetByID(ctx, id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCountByClient(t *testing.T) {
	svc, _, _, _ := newFixture(map[string]int{"A": 10})
	ctx := context.Background()

	in := saleInput(PaymentTotal, 0,
		NewItemInput{ProductCode: "A", Quantity: 1, UnitPrice: types.NewMoney(100)})
	_, err := svc.Create(ctx, in)
	require.NoError(t, err)

	count, err := svc.CountByClient(ctx, in.ClientID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = svc.CountByClient(ctx, id.New())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
