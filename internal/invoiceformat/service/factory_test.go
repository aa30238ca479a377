package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/railzwaylabs/invoicefmt/internal/clock"
	"github.com/railzwaylabs/invoicefmt/internal/config"
	"github.com/railzwaylabs/invoicefmt/internal/currencyformat"
	customfielddomain "github.com/railzwaylabs/invoicefmt/internal/customfield/domain"
	customfieldrepository "github.com/railzwaylabs/invoicefmt/internal/customfield/repository"
	customfieldservice "github.com/railzwaylabs/invoicefmt/internal/customfield/service"
	invoicedomain "github.com/railzwaylabs/invoicefmt/internal/invoice/domain"
	invoicerepository "github.com/railzwaylabs/invoicefmt/internal/invoice/repository"
	formatdomain "github.com/railzwaylabs/invoicefmt/internal/invoiceformat/domain"
	"github.com/railzwaylabs/invoicefmt/internal/observability"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MockInvoiceRepo struct {
	mock.Mock
}

func (m *MockInvoiceRepo) FindByID(ctx context.Context, id snowflake.ID) (*invoicedomain.Invoice, error) {
	args := m.Called(ctx, id)
	invoice, _ := args.Get(0).(*invoicedomain.Invoice)
	return invoice, args.Error(1)
}

func (m *MockInvoiceRepo) ListItems(ctx context.Context, invoiceID snowflake.ID) ([]invoicedomain.InvoiceItem, error) {
	args := m.Called(ctx, invoiceID)
	items, _ := args.Get(0).([]invoicedomain.InvoiceItem)
	return items, args.Error(1)
}

type factoryFixture struct {
	db        *gorm.DB
	invoice   invoicedomain.Invoice
	subID     snowflake.ID
	factory   *Factory
	metrics   *observability.Metrics
	generated time.Time
}

func newFactoryFixture(t *testing.T) factoryFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&invoicedomain.Invoice{}, &invoicedomain.InvoiceItem{}, &customfielddomain.CustomField{}))

	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	invoice := invoicedomain.Invoice{
		ID:            node.Generate(),
		OrgID:         node.Generate(),
		AccountID:     node.Generate(),
		InvoiceNumber: "INV-100",
		Currency:      "NZD",
		Status:        invoicedomain.InvoiceStatusFinalized,
		PaidAmount:    decimal.Zero,
		InvoiceDate:   now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, db.Create(&invoice).Error)

	subID := node.Generate()
	rows := []invoicedomain.InvoiceItem{
		{ItemType: invoicedomain.ItemTypeRecurring, Description: strPtr("Plan"), Amount: decimal.RequireFromString("30"), SubscriptionID: idPtr(subID)},
		{ItemType: invoicedomain.ItemTypeTax, Description: strPtr("GST"), Amount: decimal.RequireFromString("1.99")},
		{ItemType: invoicedomain.ItemTypeTax, Description: strPtr("VAT"), Amount: decimal.RequireFromString("3.99")},
		{ItemType: invoicedomain.ItemTypeTax, Description: strPtr("GST"), Amount: decimal.RequireFromString("2.99")},
	}
	for i := range rows {
		rows[i].ID = node.Generate()
		rows[i].InvoiceID = invoice.ID
		rows[i].AccountID = invoice.AccountID
		rows[i].Currency = "NZD"
		rows[i].CreatedAt = now.Add(time.Duration(i) * time.Second)
		rows[i].UpdatedAt = now
	}
	require.NoError(t, db.Create(&rows).Error)

	field := customField(customfielddomain.ObjectTypeSubscription, subID, "region", "north")
	field.AccountID = invoice.AccountID
	field.CreatedAt = now
	require.NoError(t, db.Create(&field).Error)

	metrics := observability.NewMetrics()
	customFields := customfieldservice.New(customfieldservice.Params{
		Log:  zap.NewNop(),
		Repo: customfieldrepository.Provide(db),
	})

	factory := NewFactory(FactoryParams{
		Log:          zap.NewNop(),
		Config:       config.Config{Format: config.FormatConfig{DefaultLocale: "en-NZ"}},
		Invoices:     invoicerepository.NewRepository(db),
		CustomFields: customFields,
		Money:        currencyformat.NewImplicitSymbol(),
		Clock:        clock.Fixed(now),
		Metrics:      metrics,
	})

	return factoryFixture{db: db, invoice: invoice, subID: subID, factory: factory, metrics: metrics, generated: now}
}

func TestFactoryCreate(t *testing.T) {
	fixture := newFactoryFixture(t)

	formatter, err := fixture.factory.Create(context.Background(), fixture.invoice.ID, "")
	require.NoError(t, err)

	assert.Equal(t, "en-NZ", formatter.Locale().String())
	require.Len(t, formatter.Items(), 4)

	grouped := formatter.TaxItemsGroupedByDescription()
	require.Len(t, grouped, 2)
	assert.Equal(t, "GST", *grouped[0].Description())
	assert.True(t, decimal.RequireFromString("4.98").Equal(grouped[0].Amount()))
	assert.Equal(t, "VAT", *grouped[1].Description())

	nonTax := formatter.NonTaxItems()
	require.Len(t, nonTax, 1)
	fielded, ok := nonTax[0].(formatdomain.FieldedItem)
	require.True(t, ok)
	require.Len(t, fielded.SubscriptionCustomFields(), 1)
	assert.Equal(t, "north", fielded.SubscriptionCustomFields()[0].FieldValue())

	out := formatter.Render(context.Background())
	assert.Equal(t, "INV-100", out.InvoiceNumber)
	assert.Equal(t, fixture.generated, out.GeneratedAt)
	assert.True(t, decimal.RequireFromString("38.97").Equal(out.Totals.Charged))

	assert.Equal(t, float64(1), counterValue(t, fixture.metrics, "invoicefmt_formatters_built_total"))
	assert.Equal(t, float64(1), counterValue(t, fixture.metrics, "invoicefmt_item_supplier_invocations_total"))
}

func TestFactoryCreateLocale(t *testing.T) {
	fixture := newFactoryFixture(t)

	formatter, err := fixture.factory.Create(context.Background(), fixture.invoice.ID, "en_US")
	require.NoError(t, err)
	assert.Equal(t, "en-US", formatter.Locale().String())

	_, err = fixture.factory.Create(context.Background(), fixture.invoice.ID, "not a locale!")
	assert.ErrorIs(t, err, formatdomain.ErrInvalidLocale)
}

func TestFactoryCreateErrors(t *testing.T) {
	fixture := newFactoryFixture(t)
	ctx := context.Background()

	_, err := fixture.factory.Create(ctx, 0, "")
	assert.ErrorIs(t, err, invoicedomain.ErrInvalidInvoiceID)

	_, err = fixture.factory.Create(ctx, node.Generate(), "")
	assert.ErrorIs(t, err, invoicedomain.ErrInvoiceNotFound)
}

func TestFactoryCreateRepositoryFailure(t *testing.T) {
	repo := new(MockInvoiceRepo)
	boom := errors.New("db down")
	invoiceID := node.Generate()
	repo.On("FindByID", mock.Anything, invoiceID).Return(nil, boom).Once()

	factory := NewFactory(FactoryParams{
		Log:      zap.NewNop(),
		Invoices: repo,
		Money:    currencyformat.NewImplicitSymbol(),
		Clock:    clock.SystemClock{},
	})

	_, err := factory.Create(context.Background(), invoiceID, "en")
	assert.ErrorIs(t, err, boom)
	repo.AssertExpectations(t)
}

func TestFactoryCreateWithoutCustomFields(t *testing.T) {
	repo := new(MockInvoiceRepo)
	invoice := &invoicedomain.Invoice{ID: node.Generate(), AccountID: node.Generate(), Currency: "USD"}
	subID := node.Generate()
	repo.On("FindByID", mock.Anything, invoice.ID).Return(invoice, nil).Once()
	repo.On("ListItems", mock.Anything, invoice.ID).Return([]invoicedomain.InvoiceItem{
		{ID: node.Generate(), ItemType: invoicedomain.ItemTypeUsage, Amount: decimal.NewFromInt(3), SubscriptionID: idPtr(subID)},
	}, nil).Once()

	factory := NewFactory(FactoryParams{
		Log:      zap.NewNop(),
		Invoices: repo,
		Money:    currencyformat.NewImplicitSymbol(),
		Clock:    clock.SystemClock{},
	})

	formatter, err := factory.Create(context.Background(), invoice.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "en-US", formatter.Locale().String())
	assert.Empty(t, formatter.CustomFields())
	require.Len(t, formatter.Items(), 1)
	assert.Empty(t, formatter.Items()[0].(formatdomain.FieldedItem).SubscriptionCustomFields())
	repo.AssertExpectations(t)
}

func TestFactoryCreateRecordsSpan(t *testing.T) {
	fixture := newFactoryFixture(t)
	recorder := tracetest.NewSpanRecorder()
	fixture.factory.tracing = sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	_, err := fixture.factory.Create(context.Background(), fixture.invoice.ID, "")
	require.NoError(t, err)
	_, err = fixture.factory.Create(context.Background(), node.Generate(), "")
	require.ErrorIs(t, err, invoicedomain.ErrInvoiceNotFound)

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	ok := spans[0]
	assert.Equal(t, "invoiceformat.Factory.Create", ok.Name())
	assert.Contains(t, ok.Attributes(), attribute.String("invoice.id", fixture.invoice.ID.String()))
	assert.Equal(t, codes.Unset, ok.Status().Code)

	failed := spans[1]
	assert.Equal(t, "invoiceformat.Factory.Create", failed.Name())
	assert.Equal(t, codes.Error, failed.Status().Code)
	assert.Len(t, failed.Events(), 1)
}
