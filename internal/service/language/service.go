// Package language stores the display language preference.
package language

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"golang.org/x/text/language"

	"isiprint/internal/domain/ports"
)

// Default is used when nothing valid is stored.
const Default = "es"

// Supported lists the language codes the UI is translated into.
var Supported = []string{"es", "en", "fr"}

var matcher = language.NewMatcher([]language.Tag{
	language.Spanish,
	language.English,
	language.French,
})

// Match maps any BCP 47 (or POSIX style) tag to the closest supported code.
// Unknown input yields Default.
func Match(tag string) string {
	tag = strings.ReplaceAll(strings.TrimSpace(tag), "_", "-")
	if tag == "" {
		return Default
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		return Default
	}
	_, idx, conf := matcher.Match(parsed)
	if conf == language.No {
		return Default
	}
	return Supported[idx]
}

// Service holds the current language and persists changes best-effort.
type Service struct {
	store  ports.SettingsStore
	logger ports.Logger

	mutex   sync.Mutex
	current string
}

// NewService loads the stored preference. fallback, when non-empty, is
// used instead of Default if nothing is stored.
func NewService(store ports.SettingsStore, fallback string, logger ports.Logger) *Service {
	s := &Service{store: store, logger: logger, current: Default}
	if fallback != "" {
		s.current = Match(fallback)
	}

	raw, err := store.Get(ports.KeyLanguage)
	switch {
	case err == nil:
		s.current = Match(decode(raw))
	case !errors.Is(err, ports.ErrKeyNotFound):
		logger.Warn("[LANG] Failed to read language: %v", err)
	}
	return s
}

// decode accepts both a JSON string and a bare code.
func decode(raw []byte) string {
	var code string
	if err := json.Unmarshal(raw, &code); err == nil {
		return code
	}
	return string(raw)
}

// Current returns the active language code.
func (s *Service) Current() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.current
}

// Set matches tag to a supported language, makes it current and persists
// it. The matched code is returned.
func (s *Service) Set(tag string) string {
	code := Match(tag)

	s.mutex.Lock()
	s.current = code
	s.mutex.Unlock()

	raw, _ := json.Marshal(code)
	if err := s.store.Put(ports.KeyLanguage, raw); err != nil {
		s.logger.Warn("[LANG] Failed to persist language: %v", err)
	}
	return code
}
