package cms

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// Problem is one finding from Validate.
type Problem struct {
	Kind    Kind
	Slug    string
	Paths   []string
	Message string
}

func (p Problem) String() string {
	if p.Slug == "" {
		return fmt.Sprintf("%s: %s", p.Kind, p.Message)
	}
	return fmt.Sprintf("%s/%s: %s %v", p.Kind, p.Slug, p.Message, p.Paths)
}

// Validate parses every kind and reports parse failures and duplicate slugs.
// Lookups keep working with duplicates present (the first match wins), so this
// is meant for build-time checks, not for the request path.
func Validate(ctx context.Context, store *Store) ([]Problem, error) {
	var problems []Problem
	for _, kind := range Kinds {
		items, err := store.Items(ctx, kind)
		if err != nil {
			var parseErr *ParseError
			if errors.As(err, &parseErr) {
				problems = append(problems, Problem{Kind: kind, Paths: []string{parseErr.Path}, Message: parseErr.Error()})
				continue
			}
			return nil, err
		}
		problems = append(problems, duplicateSlugs(kind, items)...)
	}
	return problems, nil
}

func duplicateSlugs(kind Kind, items []Item) []Problem {
	paths := map[string][]string{}
	for _, item := range items {
		paths[item.Slug] = append(paths[item.Slug], item.SourcePath)
	}
	var problems []Problem
	for slug, files := range paths {
		if len(files) < 2 {
			continue
		}
		sort.Strings(files)
		problems = append(problems, Problem{Kind: kind, Slug: slug, Paths: files, Message: "duplicate slug"})
	}
	sort.Slice(problems, func(i, j int) bool { return problems[i].Slug < problems[j].Slug })
	return problems
}
