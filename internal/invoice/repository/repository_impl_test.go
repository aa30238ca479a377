package repository

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	invoicedomain "github.com/railzwaylabs/invoicefmt/internal/invoice/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func TestFindByIDAndListItems(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&invoicedomain.Invoice{}, &invoicedomain.InvoiceItem{}))

	node, _ := snowflake.NewNode(1)
	now := time.Now().UTC()
	inv := invoicedomain.Invoice{
		ID:            node.Generate(),
		OrgID:         node.Generate(),
		AccountID:     node.Generate(),
		InvoiceNumber: "INV-001",
		Currency:      "NZD",
		Status:        invoicedomain.InvoiceStatusFinalized,
		PaidAmount:    decimal.RequireFromString("2.50"),
		Metadata:      datatypes.JSONMap{"source": "test"},
		InvoiceDate:   now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, db.Create(&inv).Error)

	gst := "GST"
	second := invoicedomain.InvoiceItem{
		ID: node.Generate(), InvoiceID: inv.ID, AccountID: inv.AccountID,
		ItemType: invoicedomain.ItemTypeTax, Description: &gst,
		Amount: decimal.RequireFromString("1.99"), Currency: "NZD",
		CreatedAt: now.Add(time.Minute), UpdatedAt: now,
	}
	first := invoicedomain.InvoiceItem{
		ID: node.Generate(), InvoiceID: inv.ID, AccountID: inv.AccountID,
		ItemType: invoicedomain.ItemTypeRecurring,
		Amount:   decimal.RequireFromString("10"), Currency: "NZD",
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, db.Create(&second).Error)
	require.NoError(t, db.Create(&first).Error)

	repo := NewRepository(db)
	ctx := context.Background()

	found, err := repo.FindByID(ctx, inv.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "INV-001", found.InvoiceNumber)
	assert.True(t, decimal.RequireFromString("2.5").Equal(found.PaidAmount))
	assert.Equal(t, "test", found.Metadata["source"])

	missing, err := repo.FindByID(ctx, node.Generate())
	require.NoError(t, err)
	assert.Nil(t, missing)

	items, err := repo.ListItems(ctx, inv.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, first.ID, items[0].ID)
	assert.Nil(t, items[0].Description)
	assert.Equal(t, second.ID, items[1].ID)
	assert.Equal(t, "GST", *items[1].Description)
	assert.True(t, decimal.RequireFromString("1.99").Equal(items[1].Amount))
}
