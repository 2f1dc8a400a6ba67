package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/taskdeckapp/taskdeck-server/internal/config"
	"github.com/taskdeckapp/taskdeck-server/internal/logger"
	"github.com/taskdeckapp/taskdeck-server/internal/search"
	"github.com/taskdeckapp/taskdeck-server/internal/service"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.SearchIndex

	// Created reports whether the index was freshly created on startup
	// rather than opened from an existing directory.
	Created bool
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve search index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, created, err := search.NewSearchIndex(search.Options{
		IndexPath: cfg.Search.IndexPath,
		Logger:    log.Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount, "created", created)

	return &SearchIndexHandle{SearchIndex: index, Created: created}, nil
}

// ProvideSearchService provides the search service.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	svc := service.NewSearchService(indexHandle.SearchIndex, storeHandle.Store, log)

	// Wire to store for automatic indexing on writes
	storeHandle.SetSearchIndexer(indexHandle.SearchIndex)

	return svc, nil
}

// TriggerSearchReindexIfNeeded rebuilds the index when it was freshly
// created or is empty while the database holds data. Should be called
// after all services are wired.
func TriggerSearchReindexIfNeeded(i do.Injector) {
	searchService := do.MustInvoke[*service.SearchService](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !indexHandle.Created {
		docCount, _ := indexHandle.DocumentCount()
		if docCount > 0 {
			return
		}
	}

	go func() {
		ctx := context.Background()
		if err := searchService.ReindexAll(ctx); err != nil {
			log.Error("Initial search reindex failed", "error", err)
			return
		}
		count, _ := indexHandle.DocumentCount()
		log.Info("Initial search reindex completed", "documents", count)
	}()
}
