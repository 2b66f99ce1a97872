package language

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"isiprint/internal/domain/ports"
	"isiprint/internal/infrastructure/logger"
	"isiprint/internal/testutil"
)

func TestMatch(t *testing.T) {
	tests := map[string]string{
		"":      "es",
		"es":    "es",
		"en":    "en",
		"en-US": "en",
		"fr_CA": "fr",
		"es-MX": "es",
		"de":    "es",
		"!!":    "es",
	}
	for in, want := range tests {
		assert.Equal(t, want, Match(in), "Match(%q)", in)
	}
}

func TestService_DefaultAndPersist(t *testing.T) {
	store := testutil.NewMemoryStore()
	s := NewService(store, "", logger.Nop())
	assert.Equal(t, Default, s.Current())

	assert.Equal(t, "fr", s.Set("fr-FR"))
	assert.Equal(t, "fr", s.Current())
	assert.Equal(t, `"fr"`, store.Raw(ports.KeyLanguage))

	assert.Equal(t, "fr", NewService(store, "", logger.Nop()).Current())
}

func TestService_BareStoredCode(t *testing.T) {
	store := testutil.NewMemoryStore()
	_ = store.Put(ports.KeyLanguage, []byte("en"))
	assert.Equal(t, "en", NewService(store, "", logger.Nop()).Current())
}

func TestService_Fallback(t *testing.T) {
	assert.Equal(t, "en", NewService(testutil.NewMemoryStore(), "en-GB", logger.Nop()).Current())
}

func TestService_StoreFailuresSwallowed(t *testing.T) {
	store := testutil.NewMemoryStore()
	store.FailReads = true
	store.FailWrites = true

	s := NewService(store, "", logger.Nop())
	assert.Equal(t, Default, s.Current())
	assert.Equal(t, "en", s.Set("en"))
	assert.Equal(t, "en", s.Current())
}
