// Package currencyformat renders amounts as localized currency strings.
package currencyformat

import (
	"strings"

	"github.com/railzwaylabs/invoicefmt/internal/config"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var Module = fx.Module("currencyformat",
	fx.Provide(NewFromConfig),
)

type Formatter interface {
	// Format renders amount in the given ISO 4217 currency using the number
	// conventions of tag.
	Format(amount decimal.Decimal, currencyCode string, tag language.Tag) string
}

// NewFromConfig picks the explicit symbol formatter when configured.
func NewFromConfig(cfg config.Config) Formatter {
	if cfg.Format.ExplicitCurrencySymbol {
		return NewExplicitSymbol()
	}
	return NewImplicitSymbol()
}

type formatter struct {
	// symbolTag overrides the locale used for the currency symbol when set.
	symbolTag *language.Tag
}

// NewImplicitSymbol uses the symbol customary in the target locale, e.g. "$" for NZD
// in New Zealand English.
func NewImplicitSymbol() Formatter {
	return formatter{}
}

// NewExplicitSymbol always uses the unambiguous symbol, e.g. "NZ$" or "US$".
func NewExplicitSymbol() Formatter {
	und := language.Und
	return formatter{symbolTag: &und}
}

func (f formatter) Format(amount decimal.Decimal, currencyCode string, tag language.Tag) string {
	code := strings.ToUpper(strings.TrimSpace(currencyCode))
	unit, err := currency.ParseISO(code)
	if err != nil {
		return strings.TrimSpace(code + " " + amount.String())
	}

	scale, _ := currency.Standard.Rounding(unit)
	rounded := amount.Round(int32(scale))

	printer := message.NewPrinter(tag)
	digits := printer.Sprint(number.Decimal(rounded.Abs().InexactFloat64(), number.Scale(scale)))

	symbolTag := tag
	if f.symbolTag != nil {
		symbolTag = *f.symbolTag
	}
	symbol := message.NewPrinter(symbolTag).Sprint(currency.Symbol(unit))

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
	}
	if symbolFollows(tag) {
		return sign + digits + "\u00a0" + symbol
	}
	return sign + symbol + digits
}

// Languages whose currency pattern places the symbol after the amount,
// separated by a no-break space. Regional variants follow their language.
var suffixSymbolLanguages = map[string]bool{
	"bg": true, "cs": true, "da": true, "de": true, "el": true, "es": true,
	"et": true, "fi": true, "fr": true, "hr": true, "hu": true, "it": true,
	"lt": true, "lv": true, "nb": true, "no": true, "pl": true, "ro": true,
	"ru": true, "sk": true, "sl": true, "sv": true, "uk": true, "vi": true,
}

func symbolFollows(tag language.Tag) bool {
	base, _ := tag.Base()
	return suffixSymbolLanguages[base.String()]
}
