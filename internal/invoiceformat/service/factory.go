package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/railzwaylabs/invoicefmt/internal/clock"
	"github.com/railzwaylabs/invoicefmt/internal/config"
	"github.com/railzwaylabs/invoicefmt/internal/currencyformat"
	customfielddomain "github.com/railzwaylabs/invoicefmt/internal/customfield/domain"
	invoicedomain "github.com/railzwaylabs/invoicefmt/internal/invoice/domain"
	formatdomain "github.com/railzwaylabs/invoicefmt/internal/invoiceformat/domain"
	"github.com/railzwaylabs/invoicefmt/internal/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

const tracerName = "github.com/railzwaylabs/invoicefmt/internal/invoiceformat"

type FactoryParams struct {
	fx.In

	Log          *zap.Logger
	Config       config.Config
	Invoices     invoicedomain.Repository
	CustomFields customfielddomain.Service `optional:"true"`
	Money        currencyformat.Formatter
	Clock        clock.Clock
	Metrics      *observability.Metrics `optional:"true"`
	Tracing      trace.TracerProvider   `optional:"true"`
}

// Factory builds a Formatter for a stored invoice.
type Factory struct {
	log           *zap.Logger
	invoices      invoicedomain.Repository
	customFields  customfielddomain.Service
	money         currencyformat.Formatter
	clock         clock.Clock
	metrics       *observability.Metrics
	tracing       trace.TracerProvider
	defaultLocale string
}

func NewFactory(p FactoryParams) *Factory {
	return &Factory{
		log:           p.Log.Named("invoiceformat.service"),
		invoices:      p.Invoices,
		customFields:  p.CustomFields,
		money:         p.Money,
		clock:         p.Clock,
		metrics:       p.Metrics,
		tracing:       p.Tracing,
		defaultLocale: p.Config.Format.DefaultLocale,
	}
}

// Create loads the invoice, its lines and the custom fields of its account. An empty
// locale falls back to the configured default.
func (f *Factory) Create(ctx context.Context, invoiceID snowflake.ID, locale string) (*Formatter, error) {
	ctx, span := f.tracer().Start(ctx, "invoiceformat.Factory.Create")
	defer span.End()
	span.SetAttributes(attribute.String("invoice.id", invoiceID.String()))

	formatter, err := f.create(ctx, invoiceID, locale)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		f.recordBuilt(outcome(err))
		return nil, err
	}
	f.recordBuilt("ok")
	return formatter, nil
}

func (f *Factory) create(ctx context.Context, invoiceID snowflake.ID, locale string) (*Formatter, error) {
	if invoiceID == 0 {
		return nil, invoicedomain.ErrInvalidInvoiceID
	}

	tag, err := f.parseLocale(locale)
	if err != nil {
		return nil, err
	}

	invoice, err := f.invoices.FindByID(ctx, invoiceID)
	if err != nil {
		f.log.Error("failed to load invoice", zap.String("invoice_id", invoiceID.String()), zap.Error(err))
		return nil, fmt.Errorf("load invoice: %w", err)
	}
	if invoice == nil {
		return nil, invoicedomain.ErrInvoiceNotFound
	}

	rows, err := f.invoices.ListItems(ctx, invoice.ID)
	if err != nil {
		f.log.Error("failed to load invoice items", zap.String("invoice_id", invoiceID.String()), zap.Error(err))
		return nil, fmt.Errorf("load invoice items: %w", err)
	}

	var fields []customfielddomain.CustomField
	if f.customFields != nil {
		fields, err = f.customFields.ListForAccount(ctx, invoice.AccountID)
		if err != nil {
			return nil, fmt.Errorf("load custom fields: %w", err)
		}
	}

	items := NewItemList(func() []formatdomain.Item { return formatdomain.Lines(rows) }, fields)
	items.metrics = f.metrics

	formatter := NewFormatter(*invoice, items, tag, f.money, f.clock)
	formatter.metrics = f.metrics

	f.log.Debug("invoice formatter built",
		zap.String("invoice_id", invoiceID.String()),
		zap.String("locale", tag.String()),
		zap.Int("items", len(rows)),
		zap.Int("custom_fields", len(fields)),
	)
	return formatter, nil
}

func (f *Factory) parseLocale(locale string) (language.Tag, error) {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		locale = f.defaultLocale
	}
	if locale == "" {
		return language.AmericanEnglish, nil
	}
	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return language.Und, fmt.Errorf("%w: %q", formatdomain.ErrInvalidLocale, locale)
	}
	return tag, nil
}

func (f *Factory) tracer() trace.Tracer {
	if f.tracing != nil {
		return f.tracing.Tracer(tracerName)
	}
	return otel.Tracer(tracerName)
}

func (f *Factory) recordBuilt(status string) {
	if f.metrics != nil {
		f.metrics.IncrFormatterBuilt(status)
	}
}

func outcome(err error) string {
	switch {
	case errors.Is(err, invoicedomain.ErrInvoiceNotFound):
		return "not_found"
	case errors.Is(err, invoicedomain.ErrInvalidInvoiceID), errors.Is(err, formatdomain.ErrInvalidLocale):
		return "invalid"
	default:
		return "error"
	}
}
