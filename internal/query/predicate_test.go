package query

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/lumenlearn/objecthub/internal/apperr"
	"github.com/lumenlearn/objecthub/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthors struct {
	authors []domain.Author
}

func (s *stubAuthors) FindAuthors(_ context.Context, term string) ([]domain.Author, error) {
	var out []domain.Author
	for _, a := range s.authors {
		if strings.Contains(strings.ToLower(a.Username), strings.ToLower(term)) ||
			strings.Contains(strings.ToLower(a.Name), strings.ToLower(term)) {
			out = append(out, a)
		}
	}
	return out, nil
}

type stubOutcomes struct {
	cuids map[uuid.UUID][]string
}

func (s *stubOutcomes) CuidsForStandardOutcomes(_ context.Context, ids []uuid.UUID) ([]string, error) {
	var out []string
	for _, id := range ids {
		out = append(out, s.cuids[id]...)
	}
	return out, nil
}

func newTestBuilder(authors ...domain.Author) *Builder {
	return NewBuilder(&stubAuthors{authors: authors}, &stubOutcomes{})
}

func strptr(s string) *string { return &s }

func TestBuild_TextPresenceSelectsTextMode(t *testing.T) {
	b := newTestBuilder()

	tests := []struct {
		name string
		text *string
		want Mode
	}{
		{"text term", strptr("cyber operations"), ModeText},
		{"empty string still text mode", strptr(""), ModeText},
		{"absent text is field mode", nil, ModeField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := b.Build(context.Background(), Filter{Text: tt.text})
			require.NoError(t, err)
			assert.Equal(t, tt.want, plan.Predicate.Mode)
		})
	}
}

func TestBuild_StatusFilterStaysOutOfPredicate(t *testing.T) {
	b := newTestBuilder()

	plan, err := b.Build(context.Background(), Filter{Statuses: []string{"released", "review"}})
	require.NoError(t, err)

	assert.Equal(t, []domain.Status{domain.StatusReleased, domain.StatusReview}, plan.Statuses)
	assert.True(t, plan.FiltersByStatus())
}

func TestBuild_UnknownStatusIsValidationError(t *testing.T) {
	b := newTestBuilder()

	_, err := b.Build(context.Background(), Filter{Statuses: []string{"published"}})
	require.Error(t, err)

	var ve *apperr.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestBuild_EmptyOutcomeResolutionIsUnsatisfiable(t *testing.T) {
	b := NewBuilder(&stubAuthors{}, &stubOutcomes{})

	plan, err := b.Build(context.Background(), Filter{
		StandardOutcomeIDs: []string{uuid.NewString()},
	})
	require.NoError(t, err)

	assert.True(t, plan.Predicate.Unsatisfiable, "zero outcome matches must not mean match-everything")
}

func TestBuild_OutcomeResolutionMapsToCuids(t *testing.T) {
	std := uuid.New()
	b := NewBuilder(&stubAuthors{}, &stubOutcomes{cuids: map[uuid.UUID][]string{std: {"cuid-1"}}})

	plan, err := b.Build(context.Background(), Filter{StandardOutcomeIDs: []string{std.String()}})
	require.NoError(t, err)

	assert.False(t, plan.Predicate.Unsatisfiable)
	assert.Equal(t, []string{"cuid-1"}, plan.Predicate.OutcomeCuids)
}

func TestBuild_MalformedOutcomeIDIsValidationError(t *testing.T) {
	b := newTestBuilder()

	_, err := b.Build(context.Background(), Filter{StandardOutcomeIDs: []string{"not-a-uuid"}})

	var ve *apperr.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestBuild_ExactAuthorRestrictsStrictly(t *testing.T) {
	ada := domain.Author{ID: uuid.New(), Username: "alovelace", Name: "Ada Lovelace"}
	b := newTestBuilder(ada)

	plan, err := b.Build(context.Background(), Filter{Author: "alovelace"})
	require.NoError(t, err)

	require.NotNil(t, plan.Predicate.ExactAuthor)
	assert.Equal(t, ada.ID, *plan.Predicate.ExactAuthor)
	assert.Empty(t, plan.Predicate.AuthorIDs)
}

func TestBuild_FuzzyAuthorsBecomeORCandidates(t *testing.T) {
	a1 := domain.Author{ID: uuid.New(), Username: "jsmith", Name: "Jan Smith"}
	a2 := domain.Author{ID: uuid.New(), Username: "psmithers", Name: "Pat Smithers"}
	b := newTestBuilder(a1, a2)

	plan, err := b.Build(context.Background(), Filter{Author: "smith"})
	require.NoError(t, err)

	assert.Nil(t, plan.Predicate.ExactAuthor)
	assert.ElementsMatch(t, []uuid.UUID{a1.ID, a2.ID}, plan.Predicate.AuthorIDs)
}

func TestBuild_TextTermResolvesAuthorCandidates(t *testing.T) {
	a := domain.Author{ID: uuid.New(), Username: "mcurie", Name: "Marie Curie"}
	b := newTestBuilder(a)

	plan, err := b.Build(context.Background(), Filter{Text: strptr("curie")})
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{a.ID}, plan.Predicate.AuthorIDs)
}

func TestBuild_UnknownExplicitAuthorInFieldModeIsUnsatisfiable(t *testing.T) {
	b := newTestBuilder()

	plan, err := b.Build(context.Background(), Filter{Author: "nobody"})
	require.NoError(t, err)

	assert.True(t, plan.Predicate.Unsatisfiable)
}

func TestEscapeTerm_AllMetacharactersStayLiteral(t *testing.T) {
	term := `. + * ^ $ ? [ ] ( ) |`

	escaped := EscapeTerm(term)

	re, err := regexp.Compile("(?i)" + escaped)
	require.NoError(t, err, "escaped term must always compile")
	assert.True(t, re.MatchString("prefix "+term+" suffix"))
	assert.False(t, re.MatchString("prefix something else suffix"))
}

func TestEscapeTerm_PlainTermUnchanged(t *testing.T) {
	assert.Equal(t, "cyber operations", EscapeTerm("cyber operations"))
}

func TestTermPattern_MatchesSubstringCaseInsensitive(t *testing.T) {
	p := Predicate{Mode: ModeText, Term: "c++ (advanced)"}

	re, err := regexp.Compile("(?i)" + p.TermPattern())
	require.NoError(t, err)
	assert.True(t, re.MatchString("Intro to C++ (Advanced) Topics"))
}
