package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrInvoiceNotFound  = errors.New("invoice_not_found")
	ErrInvalidInvoiceID = errors.New("invalid_invoice_id")
)

type Repository interface {
	FindByID(ctx context.Context, id snowflake.ID) (*Invoice, error)
	ListItems(ctx context.Context, invoiceID snowflake.ID) ([]InvoiceItem, error)
}
