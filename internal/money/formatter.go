package money

import (
	"fmt"
	"log/slog"
	"math"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Round2 округляет сумму до двух знаков после запятой.
func Round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}

type Formatter struct {
	logger *slog.Logger
}

// NewFormatter создает форматтер денежных сумм.
func NewFormatter(logger *slog.Logger) *Formatter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Formatter{logger: logger}
}

// Format форматирует сумму с кодом валюты под локаль.
// При любой ошибке форматирования возвращает запасной вид "сумма код".
func (f *Formatter) Format(amount float64, code, locale string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		f.logger.Warn("unknown currency code, using fallback format",
			slog.String("currency", code),
			slog.String("error", err.Error()),
		)
		return fallback(amount, code)
	}

	tag, err := language.Parse(locale)
	if err != nil {
		f.logger.Warn("unknown locale, using fallback format",
			slog.String("locale", locale),
			slog.String("error", err.Error()),
		)
		return fallback(amount, code)
	}

	printer := message.NewPrinter(tag)
	return printer.Sprintf("%v", currency.NarrowSymbol(unit.Amount(Round2(amount))))
}

func fallback(amount float64, code string) string {
	return fmt.Sprintf("%.2f %s", amount, code)
}
