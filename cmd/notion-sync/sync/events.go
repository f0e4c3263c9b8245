package sync

import (
	"context"
	"errors"
	"fmt"
	"os"

	"notion-sync-backend/cmd/notion-sync/applog"
	"notion-sync-backend/cmd/notion-sync/model"
	"notion-sync-backend/cmd/notion-sync/notion"

	"github.com/goforj/godump"
)

// IDocStore is the slice of the Notion client the reconcilers need.
type IDocStore interface {
	QueryDatabase(ctx context.Context, databaseID, startCursor string, pageSize int) (*notion.QueryResponse, error)
	CreatePage(ctx context.Context, databaseID string, properties map[string]notion.Property) (*notion.Page, error)
	UpdatePage(ctx context.Context, pageID string, properties map[string]notion.Property) (*notion.Page, error)
}

type IEventRepo interface {
	UpsertEvent(ctx context.Context, event model.Event) error
}

var ErrNoEventsDatabase = errors.New("events database id is not configured")

// EventReconciler mirrors the Notion events database into the relational
// events table: fetch all pages, drop cancelled ones, map, and blind-
// overwrite one row per page.
type EventReconciler struct {
	docStore   IDocStore
	eventRepo  IEventRepo
	databaseID string
}

func NewEventReconciler(docStore IDocStore, eventRepo IEventRepo, databaseID string) *EventReconciler {

	return &EventReconciler{
		docStore:   docStore,
		eventRepo:  eventRepo,
		databaseID: databaseID,
	}
}

// Reconcile runs one event cycle and returns the number of rows written.
// The first upsert failure aborts the remaining batch; the next scheduled
// cycle retries the whole sync, which is safe because every write is an
// unconditional overwrite.
func (r *EventReconciler) Reconcile(ctx context.Context) (int, error) {

	if r.databaseID == "" {
		return 0, ErrNoEventsDatabase
	}

	pages, err := queryAllPages(ctx, r.docStore, r.databaseID)
	if err != nil {
		return 0, fmt.Errorf("fetching event pages: %w", err)
	}

	if os.Getenv("NOTION_SYNC_DEBUG_DUMP") != "" && len(pages) > 0 {
		godump.Dump(pages[0])
	}

	synced := 0
	for _, page := range pages {

		if model.EventCancelled(page) {
			continue
		}

		event := model.EventFromPage(page)

		err = r.eventRepo.UpsertEvent(ctx, event)
		if err != nil {
			return synced, fmt.Errorf("upserting event %d: %w", event.ID, err)
		}
		synced++
	}

	applog.Info("event sync finished", "pages", len(pages), "synced", synced)

	return synced, nil
}

// queryAllPages drains the query cursor. Page order is preserved; rows
// are written in source order, one at a time.
func queryAllPages(ctx context.Context, store IDocStore, databaseID string) ([]notion.Page, error) {

	var pages []notion.Page
	cursor := ""

	for {
		resp, err := store.QueryDatabase(ctx, databaseID, cursor, notion.MaxPageSize)
		if err != nil {
			return nil, err
		}

		pages = append(pages, resp.Results...)

		if !resp.HasMore {
			return pages, nil
		}
		cursor = resp.NextCursor
	}
}
