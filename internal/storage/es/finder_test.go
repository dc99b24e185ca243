package es

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lumenlearn/objecthub/internal/domain"
	"github.com/lumenlearn/objecthub/internal/query"
	"github.com/lumenlearn/objecthub/internal/storage"
	pkgtesting "github.com/lumenlearn/objecthub/pkg/testing"
	"github.com/testcontainers/testcontainers-go"
)

var (
	testCtx     context.Context
	testFinder  *Finder
	testIndexer *Indexer

	adaID      = uuid.New()
	graceID    = uuid.New()
	herschelID = uuid.New()

	quantumCuid = uuid.NewString()
	organicCuid = uuid.NewString()
	wavesCuid   = uuid.NewString()
)

const starCount = 15

func TestMain(m *testing.M) {
	testCtx = context.Background()

	es, err := pkgtesting.NewESContainer(testCtx)
	if err != nil {
		panic(err)
	}
	defer testcontainers.TerminateContainer(es.Container)

	cfg := ClientConfig{
		Addresses:     []string{es.Address},
		WorkingIndex:  "objects_working_test",
		ReleasedIndex: "objects_released_test",
	}

	testIndexer, err = NewIndexer(testCtx, cfg)
	if err != nil {
		panic(err)
	}
	testFinder, err = NewFinder(cfg)
	if err != nil {
		panic(err)
	}

	if err := seed(testCtx); err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

func seed(ctx context.Context) error {
	now := time.Now().UTC().Truncate(time.Millisecond)

	quantum := domain.WorkingRecord{
		ID:   uuid.New(),
		Cuid: quantumCuid,
		Author: domain.Author{
			ID:       adaID,
			Username: "ada",
			Name:     "Ada Lovelace",
		},
		Name:        "Quantum Mechanics Primer",
		Description: "superposition and measurement",
		Status:      domain.StatusReleased,
		Collection:  "physics",
		Length:      "nanomodule",
		Levels:      []string{"undergraduate"},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	organic := domain.WorkingRecord{
		ID:   uuid.New(),
		Cuid: organicCuid,
		Author: domain.Author{
			ID:       graceID,
			Username: "grace",
			Name:     "Grace Hopper",
		},
		Name:        "Organic Chemistry Lab",
		Description: "synthesis of esters",
		Status:      domain.StatusUnreleased,
		Collection:  "chemistry",
		Length:      "module",
		Levels:      []string{"graduate"},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	waves := domain.WorkingRecord{
		ID:   uuid.New(),
		Cuid: wavesCuid,
		Author: domain.Author{
			ID:       adaID,
			Username: "ada",
			Name:     "Ada Lovelace",
		},
		Name:               "Wave Optics",
		Description:        "interference and diffraction",
		Status:             domain.StatusReview,
		Collection:         "physics",
		Length:             "module",
		Levels:             []string{"graduate"},
		DownloadRestricted: true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	// the star catalog is deliberately larger than the Elasticsearch
	// default response size of 10 hits
	catalog := []domain.WorkingRecord{quantum, organic, waves}
	for i := 1; i <= starCount; i++ {
		catalog = append(catalog, domain.WorkingRecord{
			ID:   uuid.New(),
			Cuid: uuid.NewString(),
			Author: domain.Author{
				ID:       herschelID,
				Username: "herschel",
				Name:     "Caroline Herschel",
			},
			Name:        fmt.Sprintf("Star Catalog %02d", i),
			Description: "positions and magnitudes",
			Status:      domain.StatusWaiting,
			Collection:  "astronomy",
			Length:      "nanomodule",
			Levels:      []string{"undergraduate"},
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	if err := testIndexer.BulkIndexWorking(ctx, catalog); err != nil {
		return err
	}

	released := domain.ReleasedRecord{
		ID:          uuid.New(),
		Cuid:        quantumCuid,
		Author:      quantum.Author,
		Name:        quantum.Name,
		Description: quantum.Description,
		Collection:  quantum.Collection,
		Length:      quantum.Length,
		Levels:      quantum.Levels,
		ReleasedAt:  now,
		UpdatedAt:   now,
	}
	if err := testIndexer.IndexReleased(ctx, released); err != nil {
		return err
	}

	// documents must be visible to search before the tests run
	client := testIndexer.client
	_, err := client.Indices.Refresh().Index("objects_working_test,objects_released_test").Do(ctx)
	return err
}

func TestFindWorking_TextMode(t *testing.T) {
	hits, err := testFinder.FindWorking(testCtx, query.Predicate{
		Mode: query.ModeText,
		Term: "quantum",
	}, storage.FindOptions{})
	if err != nil {
		t.Fatalf("FindWorking failed: %v", err)
	}

	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	if hits[0].Record.Cuid != quantumCuid {
		t.Errorf("expected cuid %s, got %s", quantumCuid, hits[0].Record.Cuid)
	}
	if hits[0].Score <= 0 {
		t.Errorf("expected positive relevance score, got %f", hits[0].Score)
	}
}

func TestFindWorking_FieldMode_Collection(t *testing.T) {
	hits, err := testFinder.FindWorking(testCtx, query.Predicate{
		Mode:       query.ModeField,
		Collection: "chemistry",
	}, storage.FindOptions{})
	if err != nil {
		t.Fatalf("FindWorking failed: %v", err)
	}

	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	if hits[0].Record.Name != "Organic Chemistry Lab" {
		t.Errorf("unexpected record: %s", hits[0].Record.Name)
	}
}

func TestFindWorking_StatusRestriction(t *testing.T) {
	hits, err := testFinder.FindWorking(testCtx, query.Predicate{
		Mode:            query.ModeField,
		WorkingStatuses: []domain.Status{domain.StatusUnreleased},
	}, storage.FindOptions{})
	if err != nil {
		t.Fatalf("FindWorking failed: %v", err)
	}

	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	if hits[0].Record.Status != domain.StatusUnreleased {
		t.Errorf("unexpected status: %s", hits[0].Record.Status)
	}
}

func TestFindWorking_ExactAuthor(t *testing.T) {
	hits, err := testFinder.FindWorking(testCtx, query.Predicate{
		Mode:        query.ModeField,
		ExactAuthor: &graceID,
	}, storage.FindOptions{})
	if err != nil {
		t.Fatalf("FindWorking failed: %v", err)
	}

	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	if hits[0].Record.Author.Username != "grace" {
		t.Errorf("unexpected author: %s", hits[0].Record.Author.Username)
	}
}

func TestFindWorking_ReleasedOnlyExcludesRestricted(t *testing.T) {
	hits, err := testFinder.FindWorking(testCtx, query.Predicate{
		Mode:         query.ModeField,
		Collection:   "physics",
		ReleasedOnly: true,
	}, storage.FindOptions{})
	if err != nil {
		t.Fatalf("FindWorking failed: %v", err)
	}

	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	if hits[0].Record.DownloadRestricted {
		t.Error("restricted record should have been excluded")
	}
}

func TestFindWorking_Unsatisfiable(t *testing.T) {
	hits, err := testFinder.FindWorking(testCtx, query.Predicate{
		Mode:          query.ModeField,
		Unsatisfiable: true,
	}, storage.FindOptions{})
	if err != nil {
		t.Fatalf("FindWorking failed: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("expected no hits, got %d", len(hits))
	}
}

func TestFindWorking_SortAndPage(t *testing.T) {
	hits, err := testFinder.FindWorking(testCtx, query.Predicate{
		Mode: query.ModeField,
	}, storage.FindOptions{SortBy: "name", Skip: 1, Limit: 1})
	if err != nil {
		t.Fatalf("FindWorking failed: %v", err)
	}

	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	if hits[0].Record.Name != "Quantum Mechanics Primer" {
		t.Errorf("unexpected page content: %s", hits[0].Record.Name)
	}
}

func TestFindWorking_ReturnsFullCandidateSet(t *testing.T) {
	hits, err := testFinder.FindWorking(testCtx, query.Predicate{
		Mode:       query.ModeField,
		Collection: "astronomy",
	}, storage.FindOptions{})
	if err != nil {
		t.Fatalf("FindWorking failed: %v", err)
	}

	if len(hits) != starCount {
		t.Fatalf("expected all %d candidates, got %d", starCount, len(hits))
	}
}

func TestFindReleased(t *testing.T) {
	hits, err := testFinder.FindReleased(testCtx, query.Predicate{
		Mode: query.ModeText,
		Term: "superposition",
	}, storage.FindOptions{})
	if err != nil {
		t.Fatalf("FindReleased failed: %v", err)
	}

	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	if hits[0].Record.Cuid != quantumCuid {
		t.Errorf("expected cuid %s, got %s", quantumCuid, hits[0].Record.Cuid)
	}
	if hits[0].Record.ReleasedAt.IsZero() {
		t.Error("released snapshot should carry its release time")
	}
}
