package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	defer SetLocale(locales()...)

	SetLocale()
	assert.Equal("pc 12 code 99: ok", From("pc %d code %d: %v", 12, 99, "ok"))
	assert.Equal("stage -3", From("stage %d", -3))
}

func TestLocales(t *testing.T) {
	assert := assert.New(t)

	t.Setenv(ENV_LOCALE, " fr-FR, ,en-GB")
	assert.Equal([]string{"fr-FR", "en-GB"}, locales())
}
