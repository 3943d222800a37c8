package translate

import (
	"log"
	"strconv"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/message"
)

var printer *message.Printer

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("uvm: locale: %v", err)
	}

	SetLanguage(locales...)
}

// SetLanguage selects the message language as the best match of the
// preferred languages. With no languages, en-US is used.
func SetLanguage(locales ...string) {
	if len(locales) == 0 {
		locales = []string{"en-US"}
	}

	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// From an en-US Sprintf() format, translate to string.
//
// Integer arguments are formatted for the language, digit grouping
// included; pass addresses, offsets and line numbers through Decimal.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}

// Integer is any integer type.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Decimal is an integer rendered as plain ASCII decimal digits.
type Decimal string

// DecimalOf formats an integer without locale digit grouping.
func DecimalOf[T Integer](value T) Decimal {
	if value < 0 {
		return Decimal(strconv.FormatInt(int64(value), 10))
	}
	return Decimal(strconv.FormatUint(uint64(value), 10))
}

func (d Decimal) String() string {
	return string(d)
}
