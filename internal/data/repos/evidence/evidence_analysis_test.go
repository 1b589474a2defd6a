package evidence

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/justicebot/justicebot-backend/internal/data/repos/testutil"
	types "github.com/justicebot/justicebot-backend/internal/domain"
	"github.com/justicebot/justicebot-backend/internal/platform/dbctx"
	"gorm.io/datatypes"
)

func TestEvidenceAnalysisRepo(t *testing.T) {
	db := testutil.DB(t)
	dbc := dbctx.Of(context.Background())
	repo := NewEvidenceAnalysisRepo(db, testutil.Logger(t))

	first := &types.EvidenceAnalysis{
		DocumentID:     "notice",
		OwnerUserID:    "user123",
		ObjectName:     "evidence/user123/notice.pdf",
		ExtractedText:  "You must vacate by March 1",
		Classification: "Eviction Notice",
		SuggestedForms: datatypes.JSONSlice[string]{"N4", "T2"},
		MeritScore:     62,
		Explanation:    "first",
	}
	created, err := repo.Upsert(dbc, first)
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if !created {
		t.Fatalf("first Upsert: expected created=true")
	}

	second := &types.EvidenceAnalysis{
		DocumentID:     "notice",
		OwnerUserID:    "user123",
		ObjectName:     "evidence/user123/notice.png",
		ExtractedText:  "Updated text",
		Classification: "Lease Agreement",
		SuggestedForms: datatypes.JSONSlice[string]{"T6"},
		MeritScore:     10,
		Explanation:    "second",
		CreatedAt:      time.Now().UTC().Add(time.Minute),
	}
	created, err = repo.Upsert(dbc, second)
	if err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	if created {
		t.Fatalf("second Upsert: expected created=false")
	}

	got, err := repo.GetByDocumentID(dbc, "notice")
	if err != nil || got == nil {
		t.Fatalf("GetByDocumentID: err=%v row=%v", err, got)
	}
	if got.Classification != "Lease Agreement" || got.Explanation != "second" || got.ExtractedText != "Updated text" {
		t.Fatalf("last write should win, got %+v", got)
	}
	if len(got.SuggestedForms) != 1 || got.SuggestedForms[0] != "T6" {
		t.Fatalf("suggested forms: %v", got.SuggestedForms)
	}

	var n int64
	if err := db.Model(&types.EvidenceAnalysis{}).Count(&n).Error; err != nil || n != 1 {
		t.Fatalf("row count: err=%v n=%d", err, n)
	}

	missing, err := repo.GetByDocumentID(dbc, "nope")
	if err != nil || missing != nil {
		t.Fatalf("missing: err=%v row=%v", err, missing)
	}
}

func TestEvidenceAnalysisRepoListByOwner(t *testing.T) {
	db := testutil.DB(t)
	dbc := dbctx.Of(context.Background())
	repo := NewEvidenceAnalysisRepo(db, testutil.Logger(t))

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		row := &types.EvidenceAnalysis{
			DocumentID:    id,
			OwnerUserID:   "owner",
			ObjectName:    "evidence/owner/" + id + ".pdf",
			ExtractedText: "text " + id,
			CreatedAt:     base.Add(time.Duration(i) * time.Hour),
		}
		if _, err := repo.Upsert(dbc, row); err != nil {
			t.Fatalf("seed %s: %v", id, err)
		}
	}
	if _, err := repo.Upsert(dbc, &types.EvidenceAnalysis{DocumentID: "x", OwnerUserID: "other", ObjectName: "evidence/other/x.pdf", ExtractedText: "x"}); err != nil {
		t.Fatalf("seed other: %v", err)
	}

	rows, err := repo.ListByOwner(dbc, "owner", 2)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(rows) != 2 || rows[0].DocumentID != "c" || rows[1].DocumentID != "b" {
		t.Fatalf("unexpected order: %+v", rows)
	}

	if _, err := repo.Upsert(dbc, &types.EvidenceAnalysis{}); err == nil {
		t.Fatalf("expected error for empty document id")
	}
}

func TestEvidenceAnalysisRepoConcurrentUpsertCreatesOnce(t *testing.T) {
	db := testutil.DB(t)
	repo := NewEvidenceAnalysisRepo(db, testutil.Logger(t))

	const writers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		errs    []error
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.Upsert(dbctx.Of(context.Background()), &types.EvidenceAnalysis{
				DocumentID:    "lease",
				OwnerUserID:   "user123",
				ObjectName:    "evidence/user123/lease.pdf",
				ExtractedText: "Lease agreement",
			})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
			}
			if ok {
				created++
			}
		}()
	}
	wg.Wait()
	if len(errs) != 0 {
		t.Fatalf("Upsert errors: %v", errs)
	}
	if created != 1 {
		t.Fatalf("created=%d across %d writers, want 1", created, writers)
	}
}
