package content

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"aptitude-trainer/internal/domain"
)

// slugPattern restricts topic identifiers to names that cannot escape the
// content directory.
var slugPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Topic is one practice category backed by a markdown document.
type Topic struct {
	Slug  string
	Title string
}

// Library resolves category slugs to question documents under a fixed
// content directory.
type Library struct {
	dir string
}

// NewLibrary creates a Library rooted at dir.
func NewLibrary(dir string) *Library {
	return &Library{dir: dir}
}

// ListTopics returns every category in the content directory, sorted by slug.
func (l *Library) ListTopics() ([]Topic, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read content directory %s: %w", l.dir, err)
	}

	var topics []Topic
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		slug := strings.TrimSuffix(entry.Name(), ".md")
		if !slugPattern.MatchString(slug) {
			continue
		}
		topics = append(topics, Topic{Slug: slug, Title: l.TopicTitle(slug)})
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].Slug < topics[j].Slug })
	return topics, nil
}

// LoadTopic returns the raw document for the slug. Any identifier that would
// resolve outside the content directory is reported as not found rather than
// read.
func (l *Library) LoadTopic(slug string) (string, error) {
	if !slugPattern.MatchString(slug) {
		return "", domain.NewTopicNotFoundError(slug)
	}
	data, err := os.ReadFile(filepath.Join(l.dir, slug+".md"))
	if err != nil {
		if os.IsNotExist(err) {
			return "", domain.NewTopicNotFoundError(slug)
		}
		return "", fmt.Errorf("failed to read topic %s: %w", slug, err)
	}
	return string(data), nil
}

// TopicTitle derives a display title: the document's first level-one heading
// when present, otherwise the slug with dashes spaced and words capitalized.
func (l *Library) TopicTitle(slug string) string {
	data, err := os.ReadFile(filepath.Join(l.dir, slug+".md"))
	if err == nil {
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if strings.HasPrefix(line, "# ") {
				return strings.TrimSpace(strings.TrimPrefix(line, "# "))
			}
		}
	}
	words := strings.Split(strings.ReplaceAll(slug, "-", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
