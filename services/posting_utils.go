package services

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-api/models"
)

const wordsPerMinute = 200

// ReadingTime estimates minutes to read content at 200 words per minute, rounded up.
// Empty content reads in 0 minutes.
func ReadingTime(content string) int {
	words := len(strings.Fields(content))
	return (words + wordsPerMinute - 1) / wordsPerMinute
}

// ParseTagList splits a comma-separated tag list. Names are trimmed, empty entries are
// dropped and repeats keep their first position. Case is preserved.
func ParseTagList(csv string) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, raw := range strings.Split(csv, ",") {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// BuildImageName returns a fresh object name that keeps the extension of filename.
func BuildImageName(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if ext == "" || ext == "." {
		return "", fmt.Errorf("file %q has no extension", filename)
	}
	return uuid.NewString() + ext, nil
}

// BuildContentURL constructs the public page URL of a blog post or project
// Parameters:
//   - baseURL: The site URL (e.g., "https://example.com")
//   - kind: The content kind the id belongs to
//   - id: The row ID
//
// Returns:
//   - The full URL (e.g., "https://example.com/blog/12"), or "" without a base URL
func BuildContentURL(baseURL string, kind models.ContentKind, id uint) string {
	if baseURL == "" {
		return ""
	}
	section := "blog"
	if kind.Name == models.ProjectKind.Name {
		section = "projects"
	}
	return fmt.Sprintf("%s/%s/%d", strings.TrimSuffix(baseURL, "/"), section, id)
}
