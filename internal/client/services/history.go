package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/wishsync/internal/client/models"
	"github.com/dmitrijs2005/wishsync/internal/client/storage"
)

// MaxSearchHistory bounds the number of remembered queries.
const MaxSearchHistory = 20

// SearchHistoryService remembers recent search queries, newest first. It is
// local in both session states.
type SearchHistoryService interface {
	List(ctx context.Context) []models.SearchEntry
	Add(ctx context.Context, query string)
	Remove(ctx context.Context, query string)
	Clear(ctx context.Context)
}

type searchHistoryService struct {
	d Deps
}

func NewSearchHistoryService(d Deps) SearchHistoryService {
	return &searchHistoryService{d: d.withDefaults()}
}

func (s *searchHistoryService) List(ctx context.Context) []models.SearchEntry {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	return loadList[models.SearchEntry](ctx, s.d, storage.KeySearchHistory)
}

// Add moves query to the front. Queries differing only in case or
// surrounding space are the same query.
func (s *searchHistoryService) Add(ctx context.Context, query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		return
	}

	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	list := loadList[models.SearchEntry](ctx, s.d, storage.KeySearchHistory)

	out := make([]models.SearchEntry, 0, len(list)+1)
	out = append(out, models.SearchEntry{Query: query, SearchedAt: s.d.Now()})
	for _, e := range list {
		if strings.EqualFold(e.Query, query) {
			continue
		}
		out = append(out, e)
	}
	if len(out) > MaxSearchHistory {
		out = out[:MaxSearchHistory]
	}
	saveList(ctx, s.d, storage.KeySearchHistory, out)
}

func (s *searchHistoryService) Remove(ctx context.Context, query string) {
	query = strings.TrimSpace(query)

	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	list := loadList[models.SearchEntry](ctx, s.d, storage.KeySearchHistory)

	out := list[:0]
	for _, e := range list {
		if !strings.EqualFold(e.Query, query) {
			out = append(out, e)
		}
	}
	saveList(ctx, s.d, storage.KeySearchHistory, out)
}

func (s *searchHistoryService) Clear(ctx context.Context) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	s.d.Store.Remove(ctx, storage.KeySearchHistory)
}
