package content

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"aptitude-trainer/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLibrary(t *testing.T) *Library {
	t.Helper()
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "numerical-aptitude.md"),
		[]byte("# Numerical Aptitude\n\n1) What is 2+2?\n- A) 3\n- B) 4\nAnswer: B\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logic.md"),
		[]byte("1) Question\n- A) Yes\nAnswer: A\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"),
		[]byte("not a topic"), 0o644))

	return NewLibrary(dir)
}

func TestListTopics(t *testing.T) {
	library := newTestLibrary(t)

	topics, err := library.ListTopics()
	require.NoError(t, err)
	require.Len(t, topics, 2)

	// Sorted by slug; only .md files count.
	assert.Equal(t, "logic", topics[0].Slug)
	assert.Equal(t, "Logic", topics[0].Title)
	assert.Equal(t, "numerical-aptitude", topics[1].Slug)
	assert.Equal(t, "Numerical Aptitude", topics[1].Title)
}

func TestLoadTopic(t *testing.T) {
	library := newTestLibrary(t)

	doc, err := library.LoadTopic("numerical-aptitude")
	require.NoError(t, err)
	assert.Contains(t, doc, "What is 2+2?")
}

func TestLoadTopicUnknownSlug(t *testing.T) {
	library := newTestLibrary(t)

	_, err := library.LoadTopic("does-not-exist")
	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.ErrTopicNotFound, domainErr.Code)
}

func TestLoadTopicRejectsTraversal(t *testing.T) {
	library := newTestLibrary(t)

	for _, slug := range []string{"../secrets", "..", "a/b", `a\b`, "", "a..b/c"} {
		_, err := library.LoadTopic(slug)
		var domainErr *domain.DomainError
		require.True(t, errors.As(err, &domainErr), "slug %q must be rejected", slug)
		assert.Equal(t, domain.ErrTopicNotFound, domainErr.Code)
	}
}

func TestTopicTitleFallsBackToSlug(t *testing.T) {
	library := newTestLibrary(t)
	// logic.md has no heading, so the slug is title-cased.
	assert.Equal(t, "Logic", library.TopicTitle("logic"))
}
