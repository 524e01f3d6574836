// Package translate formats user visible messages for the current locale.
//
// The locale is taken from the INTCODE_LOCALE environment variable if set,
// otherwise from the host, falling back to en-US.
package translate

import (
	"log"
	"os"
	"strings"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/message"
)

const (
	ENV_LOCALE = "INTCODE_LOCALE" // Comma separated locale override.
)

var printer *message.Printer

func init() {
	SetLocale(locales()...)
}

// locales returns the preferred locales, most preferred first.
func locales() (tags []string) {
	if env := os.Getenv(ENV_LOCALE); len(env) != 0 {
		for _, tag := range strings.Split(env, ",") {
			if tag = strings.TrimSpace(tag); len(tag) != 0 {
				tags = append(tags, tag)
			}
		}
		return
	}

	tags, err := locale.GetLocales()
	if err != nil {
		log.Printf("intcode: locale: %v", err)
	}

	return
}

// SetLocale selects the message printer for the best match of tags.
func SetLocale(tags ...string) {
	if len(tags) == 0 {
		tags = []string{"en-US"}
	}

	printer = message.NewPrinter(message.MatchLanguage(tags...))
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}
