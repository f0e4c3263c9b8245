package sync

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"notion-sync-backend/cmd/notion-sync/applog"
	"notion-sync-backend/cmd/notion-sync/model"
	"notion-sync-backend/cmd/notion-sync/notion"
)

type IMemberRepo interface {
	ListMembers(ctx context.Context) ([]model.Member, error)
}

var ErrNoMembersDatabase = errors.New("members database id is not configured")

// Counts is the outcome of one member cycle. A member whose insert or
// update failed is counted as skipped, same as an unchanged one.
type Counts struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
}

// MemberReconciler pushes the relational members table into the Notion
// members database: insert rows with no matching page, update rows whose
// page drifted, leave the rest alone. Individual page writes hit a
// rate-limited third-party API, so a failing member never stops the ones
// after it.
type MemberReconciler struct {
	docStore   IDocStore
	memberRepo IMemberRepo
	databaseID string
}

func NewMemberReconciler(docStore IDocStore, memberRepo IMemberRepo, databaseID string) *MemberReconciler {

	return &MemberReconciler{
		docStore:   docStore,
		memberRepo: memberRepo,
		databaseID: databaseID,
	}
}

func (r *MemberReconciler) Reconcile(ctx context.Context) (Counts, error) {

	var counts Counts

	if r.databaseID == "" {
		return counts, ErrNoMembersDatabase
	}

	members, err := r.memberRepo.ListMembers(ctx)
	if err != nil {
		return counts, fmt.Errorf("reading member rows: %w", err)
	}

	pages, err := queryAllPages(ctx, r.docStore, r.databaseID)
	if err != nil {
		return counts, fmt.Errorf("fetching member pages: %w", err)
	}

	index := indexByStudentNumber(pages)

	for _, member := range members {

		page, ok := index[member.StudentNumber]
		if !ok {
			_, err = r.docStore.CreatePage(ctx, r.databaseID, member.NotionProperties())
			if err != nil {
				applog.Error("member insert failed", err, "student_number", member.StudentNumber)
				counts.Skipped++
				continue
			}
			counts.Inserted++
			continue
		}

		changes := member.DiffPage(page)
		if len(changes) == 0 {
			counts.Skipped++
			continue
		}

		applog.Info("member changed",
			"student_number", member.StudentNumber,
			"fields", describeChanges(changes),
		)

		_, err = r.docStore.UpdatePage(ctx, page.ID, member.NotionProperties())
		if err != nil {
			applog.Error("member update failed", err, "student_number", member.StudentNumber)
			counts.Skipped++
			continue
		}
		counts.Updated++
	}

	applog.Info("member sync finished",
		"inserted", counts.Inserted,
		"updated", counts.Updated,
		"skipped", counts.Skipped,
	)

	return counts, nil
}

// indexByStudentNumber keys the fetched pages by natural key. Duplicate
// student numbers are not expected; if they occur the last page wins and
// a warning is logged.
func indexByStudentNumber(pages []notion.Page) map[int64]notion.Page {

	index := make(map[int64]notion.Page, len(pages))

	for _, page := range pages {
		number, ok := model.PageStudentNumber(page)
		if !ok {
			continue
		}
		if _, dup := index[number]; dup {
			applog.Warn("duplicate student number in members database", "student_number", number)
		}
		index[number] = page
	}

	return index
}

func describeChanges(changes []model.FieldChange) string {

	parts := make([]string, 0, len(changes))
	for _, ch := range changes {
		parts = append(parts, fmt.Sprintf("%s: %q -> %q", ch.Field, ch.Old, ch.New))
	}

	return strings.Join(parts, "; ")
}
