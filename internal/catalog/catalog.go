// Package catalog derives display metadata for currency codes: localized names,
// flag images and symbols.
package catalog

import (
	"fmt"
	"strings"

	"fxconverter/internal/domain"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const DefaultFlagBase = "https://flagcdn.com/w40"

// Meta is everything a picker needs to draw one currency.
type Meta struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	NameEn     string `json:"name_en"`
	Symbol     string `json:"symbol"`
	FlagRegion string `json:"flag_region"`
	FlagURL    string `json:"flag_url"`
}

type entry struct {
	code   string
	name   string
	nameEn string
	region string
}

// selectable currencies, in picker order
var entries = []entry{
	{"CNY", "人民币", "Chinese Yuan", "cn"},
	{"USD", "美元", "US Dollar", "us"},
	{"EUR", "欧元", "Euro", "eu"},
	{"JPY", "日元", "Japanese Yen", "jp"},
	{"KRW", "韩元", "South Korean Won", "kr"},
	{"HKD", "港币", "Hong Kong Dollar", "hk"},
	{"GBP", "英镑", "British Pound", "gb"},
	{"AUD", "澳元", "Australian Dollar", "au"},
	{"CAD", "加元", "Canadian Dollar", "ca"},
	{"SGD", "新加坡元", "Singapore Dollar", "sg"},
	{"CHF", "瑞士法郎", "Swiss Franc", "ch"},
	{"NZD", "新西兰元", "New Zealand Dollar", "nz"},
	{"TWD", "新台币", "New Taiwan Dollar", "tw"},
	{"MOP", "澳门元", "Macanese Pataca", "mo"},
	{"THB", "泰铢", "Thai Baht", "th"},
}

var byCode = func() map[string]entry {
	m := make(map[string]entry, len(entries))
	for _, e := range entries {
		m[e.code] = e
	}
	return m
}()

type Catalog struct {
	flagBase string
	printer  *message.Printer
}

func New(flagBase string) *Catalog {
	if flagBase == "" {
		flagBase = DefaultFlagBase
	}
	return &Catalog{
		flagBase: strings.TrimRight(flagBase, "/"),
		printer:  message.NewPrinter(language.English),
	}
}

// Validate normalizes code and checks it is a known ISO 4217 currency.
func Validate(code string) (string, error) {
	c := domain.NormalizeCode(code)
	if !domain.ValidCode(c) {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidCurrency, code)
	}
	if _, err := currency.ParseISO(c); err != nil {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidCurrency, code)
	}
	return c, nil
}

// FlagRegion maps a currency code to the two-letter region of its flag image.
func FlagRegion(code string) string {
	if e, ok := byCode[code]; ok {
		return e.region
	}
	if len(code) < 2 {
		return strings.ToLower(code)
	}
	return strings.ToLower(code[:2])
}

func (c *Catalog) Meta(code string) Meta {
	m := Meta{
		Code:       code,
		Name:       code,
		NameEn:     code,
		Symbol:     code,
		FlagRegion: FlagRegion(code),
	}
	if e, ok := byCode[code]; ok {
		m.Name, m.NameEn = e.name, e.nameEn
	}
	if u, err := currency.ParseISO(code); err == nil {
		m.Symbol = c.printer.Sprint(currency.Symbol(u))
	}
	m.FlagURL = fmt.Sprintf("%s/%s.png", c.flagBase, m.FlagRegion)
	return m
}

// Options lists the selectable currencies in picker order.
func (c *Catalog) Options() []Meta {
	out := make([]Meta, 0, len(entries))
	for _, e := range entries {
		out = append(out, c.Meta(e.code))
	}
	return out
}
