package currencyformat

import (
	"strings"
	"testing"

	"github.com/railzwaylabs/invoicefmt/internal/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestImplicitSymbol(t *testing.T) {
	f := NewImplicitSymbol()
	nz := language.MustParse("en-NZ")

	out := f.Format(decimal.RequireFromString("1.99"), "NZD", nz)
	assert.True(t, strings.HasSuffix(out, "$1.99"), out)
	assert.NotContains(t, out, "NZD")

	out = f.Format(decimal.RequireFromString("1.23456"), "NZD", nz)
	assert.True(t, strings.HasSuffix(out, "1.23"), out)

	out = f.Format(decimal.RequireFromString("1.2"), "nzd", nz)
	assert.True(t, strings.HasSuffix(out, "1.20"), out)

	out = f.Format(decimal.RequireFromString("-4.98"), "NZD", nz)
	assert.True(t, strings.HasPrefix(out, "-"), out)
	assert.True(t, strings.HasSuffix(out, "4.98"), out)
}

func TestImplicitSymbolGrouping(t *testing.T) {
	f := NewImplicitSymbol()

	assert.Contains(t, f.Format(decimal.RequireFromString("1234.5"), "NZD", language.MustParse("en-NZ")), "1,234.50")
	assert.Contains(t, f.Format(decimal.RequireFromString("1234.5"), "EUR", language.German), "1.234,50")
}

func TestSymbolPlacementFollowsLocale(t *testing.T) {
	f := NewImplicitSymbol()

	assert.Equal(t, "1.234,50\u00a0€", f.Format(decimal.RequireFromString("1234.5"), "EUR", language.German))
	assert.Equal(t, "-1.234,50\u00a0€", f.Format(decimal.RequireFromString("-1234.5"), "EUR", language.MustParse("de-DE")))
	assert.True(t, strings.HasSuffix(f.Format(decimal.RequireFromString("3"), "EUR", language.French), "\u00a0€"))
	assert.Equal(t, "-$4.98", f.Format(decimal.RequireFromString("-4.98"), "USD", language.AmericanEnglish))

	assert.True(t, symbolFollows(language.MustParse("de-AT")))
	assert.False(t, symbolFollows(language.MustParse("en-NZ")))
	assert.False(t, symbolFollows(language.Japanese))
}

func TestExplicitSymbol(t *testing.T) {
	f := NewExplicitSymbol()
	nz := language.MustParse("en-NZ")

	assert.Contains(t, f.Format(decimal.RequireFromString("1.99"), "NZD", nz), "NZ$1.99")
	assert.Contains(t, f.Format(decimal.RequireFromString("1.99"), "USD", nz), "US$1.99")
}

func TestCurrencyScale(t *testing.T) {
	f := NewImplicitSymbol()

	out := f.Format(decimal.RequireFromString("1500.4"), "JPY", language.Japanese)
	assert.Contains(t, out, "1,500")
	assert.NotContains(t, out, ".4")
}

func TestUnknownCurrency(t *testing.T) {
	f := NewImplicitSymbol()

	assert.Equal(t, "XXZ 1.5", f.Format(decimal.RequireFromString("1.5"), "XXZ", language.English))
	assert.Equal(t, "1.5", f.Format(decimal.RequireFromString("1.5"), "", language.English))
}

func TestNewFromConfig(t *testing.T) {
	cfg := config.Config{}
	assert.IsType(t, formatter{}, NewFromConfig(cfg))
	assert.Nil(t, NewFromConfig(cfg).(formatter).symbolTag)

	cfg.Format.ExplicitCurrencySymbol = true
	assert.NotNil(t, NewFromConfig(cfg).(formatter).symbolTag)
}
