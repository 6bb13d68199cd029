package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/wishsync/internal/client/models"
	"github.com/dmitrijs2005/wishsync/internal/client/storage"
	"github.com/dmitrijs2005/wishsync/internal/validate"
)

// PreferencesService keeps the display language and currency locally.
type PreferencesService interface {
	Get(ctx context.Context) models.Preferences
	SetLanguage(ctx context.Context, lang string) error
	SetCurrency(ctx context.Context, currency string) error
}

type preferencesService struct {
	d        Deps
	defaults models.Preferences
}

// NewPreferencesService returns a service falling back to defaults for unset
// preferences.
func NewPreferencesService(d Deps, defaults models.Preferences) PreferencesService {
	return &preferencesService{d: d.withDefaults(), defaults: defaults}
}

func (s *preferencesService) Get(ctx context.Context) models.Preferences {
	p := s.defaults
	if v, ok := s.d.Store.Get(ctx, storage.KeyLanguage, "").(string); ok && v != "" {
		p.Language = v
	}
	if v, ok := s.d.Store.Get(ctx, storage.KeyCurrency, "").(string); ok && v != "" {
		p.Currency = v
	}
	return p
}

func (s *preferencesService) SetLanguage(ctx context.Context, lang string) error {
	lang = strings.TrimSpace(lang)
	if err := validate.Var(lang, "required,bcp47_language_tag"); err != nil {
		return fmt.Errorf("set language: %w", err)
	}
	s.d.Store.Set(ctx, storage.KeyLanguage, lang)
	return nil
}

func (s *preferencesService) SetCurrency(ctx context.Context, currency string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if err := validate.Var(currency, "required,iso4217"); err != nil {
		return fmt.Errorf("set currency: %w", err)
	}
	s.d.Store.Set(ctx, storage.KeyCurrency, currency)
	return nil
}
