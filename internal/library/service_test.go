package library_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lumenlearn/objecthub/internal/domain"
	"github.com/lumenlearn/objecthub/internal/library"
	"github.com/lumenlearn/objecthub/internal/query"
	"github.com/lumenlearn/objecthub/internal/storage/in_mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	records   *in_mem.Store
	outcomes  *in_mem.OutcomeStore
	changelog *in_mem.ChangelogStore
	svc       *library.Service
}

func newFixture() *fixture {
	records := in_mem.NewStore()
	outcomes := in_mem.NewOutcomeStore()
	changelog := in_mem.NewChangelogStore()
	return &fixture{
		records:   records,
		outcomes:  outcomes,
		changelog: changelog,
		svc:       library.NewService(records, outcomes, changelog),
	}
}

var (
	ada   = domain.Author{ID: uuid.New(), Username: "alovelace", Name: "Ada Lovelace"}
	grace = domain.Author{ID: uuid.New(), Username: "ghopper", Name: "Grace Hopper"}
)

func seedWorking(t *testing.T, f *fixture, cuid, name string, author domain.Author, status domain.Status, collection string) domain.WorkingRecord {
	t.Helper()
	rec := domain.WorkingRecord{
		ID:         uuid.New(),
		Cuid:       cuid,
		Author:     author,
		Name:       name,
		Status:     status,
		Collection: collection,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	require.NoError(t, f.records.CreateWorking(context.Background(), rec))
	return rec
}

func seedReleased(f *fixture, cuid, name string, author domain.Author, collection string) domain.ReleasedRecord {
	rec := domain.ReleasedRecord{
		ID:         uuid.New(),
		Cuid:       cuid,
		Author:     author,
		Name:       name,
		Collection: collection,
		ReleasedAt: time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	f.records.SeedReleased(rec)
	return rec
}

func strptr(s string) *string { return &s }

func search(t *testing.T, f *fixture, filter query.Filter, requester domain.Requester) *library.SearchResult {
	t.Helper()
	res, err := f.svc.Search(context.Background(), filter, requester, library.Page{}, library.SortOption{})
	require.NoError(t, err)
	return res
}

func TestSearch_OneSummaryPerCuid(t *testing.T) {
	f := newFixture()
	seedWorking(t, f, "c1", "Network Defense", ada, domain.StatusReview, "cyber-ops")
	seedReleased(f, "c1", "Network Defense", ada, "cyber-ops")
	seedReleased(f, "c2", "Cryptography Basics", grace, "cyber-ops")

	res := search(t, f, query.Filter{}, domain.Requester{ID: ada.ID, Username: ada.Username, AccessGroups: []string{"admin"}})

	seen := make(map[string]int)
	for _, o := range res.Objects {
		seen[o.Cuid]++
	}
	for cuid, n := range seen {
		assert.Equal(t, 1, n, "cuid %s returned %d summaries", cuid, n)
	}
	assert.Len(t, res.Objects, 2)
}

func TestSearch_StatusFilterAppliedPostJoin(t *testing.T) {
	f := newFixture()
	seedWorking(t, f, "c1", "Network Defense", ada, domain.StatusReview, "cyber-ops")
	seedReleased(f, "c1", "Network Defense", ada, "cyber-ops")

	res := search(t, f, query.Filter{Statuses: []string{"released"}},
		domain.Requester{AccessGroups: []string{"editor"}, Username: "ed", ID: uuid.New()})

	require.Len(t, res.Objects, 1, "released snapshot must survive even though its working copy is in review")
	assert.Equal(t, "c1", res.Objects[0].Cuid)
	assert.Equal(t, domain.StatusReleased, res.Objects[0].Status)
	assert.True(t, res.Objects[0].HasRevision)
}

func TestSearch_InSyncWorkingCopyMeansNoRevision(t *testing.T) {
	f := newFixture()
	seedWorking(t, f, "c1", "Network Defense", ada, domain.StatusReleased, "cyber-ops")
	seedReleased(f, "c1", "Network Defense", ada, "cyber-ops")

	res := search(t, f, query.Filter{}, domain.Requester{AccessGroups: []string{"admin"}, ID: uuid.New()})

	require.Len(t, res.Objects, 1)
	assert.False(t, res.Objects[0].HasRevision)
	assert.Empty(t, res.Objects[0].RevisionURI)
}

func TestSearch_RevisionFlagSurvivesRenamedWorkingCopy(t *testing.T) {
	f := newFixture()
	seedWorking(t, f, "c1", "Beta Decay", ada, domain.StatusReview, "cyber-ops")
	seedReleased(f, "c1", "Alpha Particles", ada, "cyber-ops")

	res := search(t, f, query.Filter{Text: strptr("alpha")},
		domain.Requester{ID: uuid.New(), Username: "root", AccessGroups: []string{"admin"}})

	require.Len(t, res.Objects, 1, "the released snapshot matches the term")
	assert.Equal(t, "Alpha Particles", res.Objects[0].Name)
	assert.True(t, res.Objects[0].HasRevision,
		"a pending edit that no longer matches the predicate is still a revision")
}

func TestSearch_UnreleasedRevisionDisclosedOnlyToAuthor(t *testing.T) {
	f := newFixture()
	seedWorking(t, f, "c1", "Network Defense v2", ada, domain.StatusUnreleased, "cyber-ops")
	seedReleased(f, "c1", "Network Defense", ada, "cyber-ops")

	author := domain.Requester{ID: ada.ID, Username: ada.Username}
	res := search(t, f, query.Filter{}, author)
	require.Len(t, res.Objects, 1)
	assert.True(t, res.Objects[0].HasRevision)
	assert.Equal(t, "/learning-objects/c1/revision", res.Objects[0].RevisionURI)

	stranger := domain.Requester{ID: grace.ID, Username: grace.Username}
	res = search(t, f, query.Filter{}, stranger)
	require.Len(t, res.Objects, 1)
	assert.True(t, res.Objects[0].HasRevision)
	assert.Empty(t, res.Objects[0].RevisionURI, "non-author must not learn where the revision lives")
}

func TestSearch_RegexMetacharactersAreSafe(t *testing.T) {
	f := newFixture()
	seedReleased(f, "c1", "C++ (Advanced) [Lab]", ada, "cyber-ops")

	term := `. + * ^ $ ? [ ] ( ) |`
	res := search(t, f, query.Filter{Text: &term}, domain.Anonymous)
	assert.NotNil(t, res)

	literal := "C++ (Advanced)"
	res = search(t, f, query.Filter{Text: &literal}, domain.Anonymous)
	require.Len(t, res.Objects, 1)
	assert.Equal(t, "c1", res.Objects[0].Cuid)
}

func TestSearch_TotalIndependentOfPagination(t *testing.T) {
	f := newFixture()
	for i := 0; i < 7; i++ {
		seedReleased(f, uuid.NewString(), "Object "+string(rune('A'+i)), ada, "cyber-ops")
	}

	small, err := f.svc.Search(context.Background(), query.Filter{}, domain.Anonymous,
		library.Page{Number: 1, Limit: 1}, library.SortOption{})
	require.NoError(t, err)
	large, err := f.svc.Search(context.Background(), query.Filter{}, domain.Anonymous,
		library.Page{Number: 1, Limit: 1000}, library.SortOption{})
	require.NoError(t, err)

	assert.Equal(t, 7, small.Total)
	assert.Equal(t, small.Total, large.Total)
	assert.Len(t, small.Objects, 1)
	assert.Len(t, large.Objects, 7)
}

func TestSearch_PageBelowOneCoercedToOne(t *testing.T) {
	f := newFixture()
	for i := 0; i < 3; i++ {
		seedReleased(f, uuid.NewString(), "Object "+string(rune('A'+i)), ada, "cyber-ops")
	}

	res, err := f.svc.Search(context.Background(), query.Filter{}, domain.Anonymous,
		library.Page{Number: -2, Limit: 2}, library.SortOption{})
	require.NoError(t, err)

	assert.Len(t, res.Objects, 2)
	assert.Equal(t, 3, res.Total)
}

func TestSearch_EmptyOutcomeResolutionReturnsNothing(t *testing.T) {
	f := newFixture()
	seedReleased(f, "c1", "Network Defense", ada, "cyber-ops")

	res := search(t, f, query.Filter{StandardOutcomeIDs: []string{uuid.NewString()}}, domain.Anonymous)

	assert.Empty(t, res.Objects, "unresolvable outcome filter must match nothing, not everything")
	assert.Zero(t, res.Total)
}

func TestSearch_OutcomeFilterMatchesMappedObjects(t *testing.T) {
	f := newFixture()
	seedReleased(f, "c1", "Network Defense", ada, "cyber-ops")
	seedReleased(f, "c2", "Cryptography Basics", grace, "cyber-ops")

	std := uuid.New()
	w := seedWorking(t, f, "c1", "Network Defense", ada, domain.StatusReleased, "cyber-ops")
	require.NoError(t, f.outcomes.SaveOutcome(context.Background(), domain.Outcome{
		ID: uuid.New(), ObjectID: w.ID, Cuid: "c1", Verb: "analyze", Text: "network traffic",
		Mappings: []uuid.UUID{std},
	}))

	res := search(t, f, query.Filter{StandardOutcomeIDs: []string{std.String()}}, domain.Anonymous)

	require.Len(t, res.Objects, 1)
	assert.Equal(t, "c1", res.Objects[0].Cuid)
}

func TestSearch_AnonymousSeesOnlyReleased(t *testing.T) {
	f := newFixture()
	seedWorking(t, f, "c1", "Hidden Draft", ada, domain.StatusUnreleased, "cyber-ops")
	seedWorking(t, f, "c2", "In Review", ada, domain.StatusReview, "cyber-ops")
	seedReleased(f, "c2", "In Review v1", ada, "cyber-ops")
	seedReleased(f, "c3", "Public Object", grace, "cyber-ops")

	res := search(t, f, query.Filter{Statuses: []string{"released"}}, domain.Anonymous)

	require.Len(t, res.Objects, 2)
	for _, o := range res.Objects {
		assert.Equal(t, domain.StatusReleased, o.Status)
		assert.Empty(t, o.RevisionURI, "anonymous requester must never receive a revision pointer")
	}
}

func TestSearch_CuratorScopedToCollectionPlusOwned(t *testing.T) {
	f := newFixture()
	curator := domain.Requester{ID: uuid.New(), Username: "curator1", AccessGroups: []string{"curator@cyber-ops"}}

	seedWorking(t, f, "c1", "Cyber Draft", ada, domain.StatusWaiting, "cyber-ops")
	seedWorking(t, f, "c2", "Bio Draft", ada, domain.StatusWaiting, "bio-sci")
	own := domain.WorkingRecord{
		ID: uuid.New(), Cuid: "c3", Author: domain.Author{ID: curator.ID, Username: curator.Username},
		Name: "My Own Draft", Status: domain.StatusUnreleased, Collection: "bio-sci",
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, f.records.CreateWorking(context.Background(), own))

	res := search(t, f, query.Filter{}, curator)

	cuids := make([]string, 0, len(res.Objects))
	for _, o := range res.Objects {
		cuids = append(cuids, o.Cuid)
	}
	assert.ElementsMatch(t, []string{"c1", "c3"}, cuids,
		"curator sees granted collection plus owned records, nothing else")
}

func TestSearch_AdminBypassesCollectionRestriction(t *testing.T) {
	f := newFixture()
	seedWorking(t, f, "c1", "Cyber Draft", ada, domain.StatusWaiting, "cyber-ops")
	seedWorking(t, f, "c2", "Bio Draft", ada, domain.StatusWaiting, "bio-sci")

	res := search(t, f, query.Filter{}, domain.Requester{ID: uuid.New(), Username: "boss", AccessGroups: []string{"admin"}})

	assert.Len(t, res.Objects, 2)
}

func TestSearch_TextModeRanksByRelevance(t *testing.T) {
	f := newFixture()
	seedReleased(f, "c1", "Networking", ada, "cyber-ops")
	seedReleased(f, "c2", "Network Defense for Network Engineers", grace, "cyber-ops")

	term := "network defense"
	res := search(t, f, query.Filter{Text: &term}, domain.Anonymous)

	require.Len(t, res.Objects, 2)
	assert.Equal(t, "c2", res.Objects[0].Cuid, "stronger match ranks first")
}

func TestSearch_FieldModeSortsByRequestedField(t *testing.T) {
	f := newFixture()
	seedReleased(f, "c1", "Zeta", ada, "cyber-ops")
	seedReleased(f, "c2", "Alpha", grace, "cyber-ops")

	res, err := f.svc.Search(context.Background(), query.Filter{}, domain.Anonymous,
		library.Page{}, library.SortOption{OrderBy: "name"})
	require.NoError(t, err)

	require.Len(t, res.Objects, 2)
	assert.Equal(t, "Alpha", res.Objects[0].Name)

	res, err = f.svc.Search(context.Background(), query.Filter{}, domain.Anonymous,
		library.Page{}, library.SortOption{OrderBy: "name", Desc: true})
	require.NoError(t, err)
	assert.Equal(t, "Zeta", res.Objects[0].Name)
}

func TestSearch_WorkingEditMatchesButReleasedProjected(t *testing.T) {
	f := newFixture()
	// the edit renamed the object; only the working copy matches the term
	seedWorking(t, f, "c1", "Quantum Computing Primer", ada, domain.StatusReview, "cyber-ops")
	seedReleased(f, "c1", "Intro to Qubits", ada, "cyber-ops")

	term := "quantum computing"
	res := search(t, f, query.Filter{Text: &term}, domain.Requester{AccessGroups: []string{"admin"}, ID: uuid.New()})

	require.Len(t, res.Objects, 1)
	assert.Equal(t, "Intro to Qubits", res.Objects[0].Name, "public projection is the released snapshot")
	assert.True(t, res.Objects[0].HasRevision)
}

func TestGetByCuid_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.GetByCuid(context.Background(), "missing", domain.Anonymous)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGetByCuid_ConcealsUnreleasedFromStrangers(t *testing.T) {
	f := newFixture()
	seedWorking(t, f, "c1", "Hidden Draft", ada, domain.StatusUnreleased, "cyber-ops")

	_, err := f.svc.GetByCuid(context.Background(), "c1", domain.Anonymous)
	require.Error(t, err, "existence of an unreleased draft must not leak")

	summary, err := f.svc.GetByCuid(context.Background(), "c1", domain.Requester{ID: ada.ID, Username: ada.Username})
	require.NoError(t, err)
	assert.Equal(t, "Hidden Draft", summary.Name)
}

func TestGetByCuid_MaterializesOutcomes(t *testing.T) {
	f := newFixture()
	w := seedWorking(t, f, "c1", "Network Defense", ada, domain.StatusReleased, "cyber-ops")
	seedReleased(f, "c1", "Network Defense", ada, "cyber-ops")
	require.NoError(t, f.outcomes.SaveOutcome(context.Background(), domain.Outcome{
		ID: uuid.New(), ObjectID: w.ID, Cuid: "c1", Verb: "explain", Text: "packet filtering",
	}))

	summary, err := f.svc.GetByCuid(context.Background(), "c1", domain.Anonymous)
	require.NoError(t, err)

	require.Len(t, summary.Outcomes, 1)
	assert.Equal(t, "explain", summary.Outcomes[0].Verb)
}

func TestCreateUpdateDelete_Lifecycle(t *testing.T) {
	f := newFixture()
	author := domain.Requester{ID: uuid.New(), Username: "author1"}
	ctx := context.Background()

	rec, err := f.svc.Create(ctx, author, library.CreateInput{Name: "New Object", Collection: "cyber-ops"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUnreleased, rec.Status)
	assert.NotEmpty(t, rec.Cuid)

	updated, err := f.svc.Update(ctx, author, rec.ID.String(), library.UpdateInput{Name: strptr("Renamed Object")})
	require.NoError(t, err)
	assert.Equal(t, "Renamed Object", updated.Name)

	entries, err := f.svc.Changelog(ctx, author, rec.Cuid)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	require.NoError(t, f.svc.Delete(ctx, author, rec.ID.String()))
	_, err = f.svc.GetByCuid(ctx, rec.Cuid, author)
	assert.Error(t, err)
}

func TestCreate_RequiresAuthentication(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(context.Background(), domain.Anonymous, library.CreateInput{Name: "X"})
	assert.Error(t, err)
}

func TestUpdate_ForbiddenForStrangers(t *testing.T) {
	f := newFixture()
	rec := seedWorking(t, f, "c1", "Draft", ada, domain.StatusUnreleased, "cyber-ops")

	stranger := domain.Requester{ID: uuid.New(), Username: "stranger"}
	_, err := f.svc.Update(context.Background(), stranger, rec.ID.String(), library.UpdateInput{Name: strptr("Hijacked")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "may not modify")
}

func TestUpdate_CollectionCuratorMayModify(t *testing.T) {
	f := newFixture()
	rec := seedWorking(t, f, "c1", "Draft", ada, domain.StatusWaiting, "cyber-ops")

	curator := domain.Requester{ID: uuid.New(), Username: "curator1", AccessGroups: []string{"curator@cyber-ops"}}
	updated, err := f.svc.Update(context.Background(), curator, rec.ID.String(), library.UpdateInput{Name: strptr("Polished Draft")})
	require.NoError(t, err)
	assert.Equal(t, "Polished Draft", updated.Name)
}
