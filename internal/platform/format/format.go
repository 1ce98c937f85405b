// Package format concentra el formato de presentación pt-BR (moneda y fechas).
package format

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// BRL formatea como "R$ 1.234,56".
func BRL(d decimal.Decimal) string {
	return printer.Sprintf("R$ %.2f", d.Round(2).InexactFloat64())
}

// Percent formatea con una casa decimal: "42,5%".
func Percent(p float64) string {
	return printer.Sprintf("%.1f%%", p)
}

// DayMonthTime formatea "dd/MM HH:mm" en la zona dada (nil = local).
func DayMonthTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("02/01 15:04")
}

// Clock formatea "HH:mm" en la zona dada (nil = local).
func Clock(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("15:04")
}
