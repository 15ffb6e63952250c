package cms

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"
)

const defaultContentDir = "content"

// Recorder receives content load and cache observations. internal/metrics implements it.
type Recorder interface {
	ObserveContentLoad(kind string, result string)
	ObserveCacheLookup(kind string, hit bool)
}

type noopRecorder struct{}

func (noopRecorder) ObserveContentLoad(string, string) {}
func (noopRecorder) ObserveCacheLookup(string, bool)   {}

// Store reads content files from <root>/<kind>/*.md. Every call re-reads the
// directory unless caching is enabled, in which case results are kept until
// Invalidate is called for the kind.
type Store struct {
	fsys     fs.FS
	dir      string
	cache    *kindCache
	logger   *zap.Logger
	recorder Recorder
}

// StoreOption customises a Store.
type StoreOption func(*Store)

// WithCache keeps parsed listings in memory until invalidated.
func WithCache(enabled bool) StoreOption {
	return func(s *Store) {
		if enabled {
			s.cache = newKindCache()
		} else {
			s.cache = nil
		}
	}
}

// WithLogger sets the logger used to report load failures.
func WithLogger(logger *zap.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRecorder wires load and cache observations.
func WithRecorder(r Recorder) StoreOption {
	return func(s *Store) {
		if r != nil {
			s.recorder = r
		}
	}
}

// NewStore builds a store rooted at dir on the local filesystem.
func NewStore(dir string, opts ...StoreOption) *Store {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = defaultContentDir
	}
	return NewStoreFS(os.DirFS(dir), append([]StoreOption{withDir(dir)}, opts...)...)
}

// NewStoreFS builds a store over an arbitrary filesystem, e.g. fstest.MapFS or an embed.FS.
func NewStoreFS(fsys fs.FS, opts ...StoreOption) *Store {
	s := &Store{
		fsys:     fsys,
		logger:   zap.NewNop(),
		recorder: noopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func withDir(dir string) StoreOption {
	return func(s *Store) { s.dir = dir }
}

// Dir returns the local content root, or "" for stores built over an fs.FS.
func (s *Store) Dir() string {
	return s.dir
}

// Invalidate drops the cached listing for kind. It is a no-op without a cache.
func (s *Store) Invalidate(kind Kind) {
	if s.cache != nil {
		s.cache.invalidate(kind)
	}
}

// InvalidateAll drops every cached listing.
func (s *Store) InvalidateAll() {
	if s.cache != nil {
		s.cache.reset()
	}
}

// ListPosts returns all posts, newest first.
func (s *Store) ListPosts(ctx context.Context) ([]Post, error) {
	posts, err := list(ctx, s, KindPosts, parsePost, sortPosts)
	if err != nil {
		return nil, err
	}
	return cloneAll(posts), nil
}

// ListCases returns all case studies, most recent year first.
func (s *Store) ListCases(ctx context.Context) ([]CaseStudy, error) {
	cases, err := list(ctx, s, KindCases, parseCase, sortCases)
	if err != nil {
		return nil, err
	}
	return cloneAll(cases), nil
}

// ListServices returns all services by their configured order.
func (s *Store) ListServices(ctx context.Context) ([]Service, error) {
	services, err := list(ctx, s, KindServices, parseService, sortServices)
	if err != nil {
		return nil, err
	}
	return cloneAll(services), nil
}

// ListIndustries returns all industries by their configured order.
func (s *Store) ListIndustries(ctx context.Context) ([]Industry, error) {
	industries, err := list(ctx, s, KindIndustries, parseIndustry, sortIndustries)
	if err != nil {
		return nil, err
	}
	return cloneAll(industries), nil
}

// Items returns the kind-agnostic view of a collection in the same order as
// the typed listing.
func (s *Store) Items(ctx context.Context, kind Kind) ([]Item, error) {
	switch kind {
	case KindPosts:
		posts, err := s.ListPosts(ctx)
		if err != nil {
			return nil, err
		}
		items := make([]Item, 0, len(posts))
		for _, p := range posts {
			items = append(items, Item{Kind: kind, Entry: p.Entry, Date: p.Date})
		}
		return items, nil
	case KindCases:
		cases, err := s.ListCases(ctx)
		if err != nil {
			return nil, err
		}
		items := make([]Item, 0, len(cases))
		for _, c := range cases {
			items = append(items, Item{Kind: kind, Entry: c.Entry, Date: c.YearDate()})
		}
		return items, nil
	case KindServices:
		services, err := s.ListServices(ctx)
		if err != nil {
			return nil, err
		}
		items := make([]Item, 0, len(services))
		for _, sv := range services {
			items = append(items, Item{Kind: kind, Entry: sv.Entry})
		}
		return items, nil
	case KindIndustries:
		industries, err := s.ListIndustries(ctx)
		if err != nil {
			return nil, err
		}
		items := make([]Item, 0, len(industries))
		for _, in := range industries {
			items = append(items, Item{Kind: kind, Entry: in.Entry})
		}
		return items, nil
	}
	return nil, ErrUnknownKind
}

type parseFunc[T any] func(file, frontMatter, body string, info fs.FileInfo) (T, error)

func list[T any](ctx context.Context, s *Store, kind Kind, parse parseFunc[T], order func([]T)) ([]T, error) {
	if s.cache != nil {
		if cached, ok := s.cache.get(kind); ok {
			if items, ok := cached.([]T); ok {
				s.recorder.ObserveCacheLookup(string(kind), true)
				return items, nil
			}
		}
		s.recorder.ObserveCacheLookup(string(kind), false)
	}

	items, err := load(ctx, s, kind, parse)
	if err != nil {
		s.recorder.ObserveContentLoad(string(kind), "error")
		s.logger.Warn("content load failed", zap.String("kind", string(kind)), zap.Error(err))
		return nil, err
	}
	order(items)
	s.recorder.ObserveContentLoad(string(kind), "ok")

	if s.cache != nil {
		s.cache.put(kind, items)
	}
	return items, nil
}

func load[T any](ctx context.Context, s *Store, kind Kind, parse parseFunc[T]) ([]T, error) {
	dir := string(kind)
	entries, err := fs.ReadDir(s.fsys, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// No directory yet means no content yet.
			return []T{}, nil
		}
		return nil, err
	}

	items := make([]T, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || !isContentFile(entry.Name()) {
			continue
		}
		file := path.Join(dir, entry.Name())
		data, err := fs.ReadFile(s.fsys, file)
		if err != nil {
			return nil, err
		}
		info, statErr := entry.Info()
		if statErr != nil {
			info = nil
		}
		fm, body := SplitFrontMatter(string(data))
		item, err := parse(file, fm, body, info)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func isContentFile(name string) bool {
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
		return false
	}
	ext := strings.ToLower(path.Ext(name))
	return ext == ".md" || ext == ".mdx"
}

func newEntry(file, slug, title, description, body string, info fs.FileInfo) Entry {
	base := strings.TrimSuffix(path.Base(file), path.Ext(file))
	slug = SanitizeSlug(firstNonEmpty(slug, base))
	if slug == "" {
		slug = strings.ToLower(base)
	}
	e := Entry{
		Slug:        slug,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Body:        body,
		SourcePath:  file,
	}
	if e.Title == "" {
		e.Title = PrettifySlug(slug)
	}
	if info != nil {
		e.UpdatedAt = info.ModTime()
	}
	return e
}

func parsePost(file, fm, body string, info fs.FileInfo) (Post, error) {
	var front postFrontMatter
	if err := decodeFrontMatter(file, fm, &front); err != nil {
		return Post{}, err
	}
	return Post{
		Entry:      newEntry(file, front.Slug, front.Title, firstNonEmpty(front.Description, front.Excerpt), body, info),
		Date:       ParseDate(front.Date),
		Author:     strings.TrimSpace(front.Author),
		Categories: trimAll(front.Categories),
		Tags:       trimAll(front.Tags),
		Image:      strings.TrimSpace(front.Image),
	}, nil
}

func parseCase(file, fm, body string, info fs.FileInfo) (CaseStudy, error) {
	var front caseFrontMatter
	if err := decodeFrontMatter(file, fm, &front); err != nil {
		return CaseStudy{}, err
	}
	return CaseStudy{
		Entry:    newEntry(file, front.Slug, front.Title, front.Description, body, info),
		Client:   strings.TrimSpace(front.Client),
		Industry: strings.TrimSpace(front.Industry),
		Services: trimAll(front.Services),
		Results:  front.Results,
		Year:     front.Year,
		Image:    strings.TrimSpace(front.Image),
	}, nil
}

func parseService(file, fm, body string, info fs.FileInfo) (Service, error) {
	var front serviceFrontMatter
	if err := decodeFrontMatter(file, fm, &front); err != nil {
		return Service{}, err
	}
	return Service{
		Entry:    newEntry(file, front.Slug, front.Title, front.Description, body, info),
		Features: trimAll(front.Features),
		Icon:     strings.TrimSpace(front.Icon),
		Order:    front.Order,
	}, nil
}

func parseIndustry(file, fm, body string, info fs.FileInfo) (Industry, error) {
	var front industryFrontMatter
	if err := decodeFrontMatter(file, fm, &front); err != nil {
		return Industry{}, err
	}
	return Industry{
		Entry:      newEntry(file, front.Slug, front.Title, front.Description, body, info),
		Challenges: trimAll(front.Challenges),
		Solutions:  trimAll(front.Solutions),
		Icon:       strings.TrimSpace(front.Icon),
		Order:      front.Order,
	}, nil
}

func sortPosts(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].Date.Equal(posts[j].Date) {
			return posts[i].Date.After(posts[j].Date)
		}
		return posts[i].Slug < posts[j].Slug
	})
}

func sortCases(cases []CaseStudy) {
	sort.SliceStable(cases, func(i, j int) bool {
		if cases[i].Year != cases[j].Year {
			return cases[i].Year > cases[j].Year
		}
		return cases[i].Slug < cases[j].Slug
	})
}

func sortServices(services []Service) {
	sort.SliceStable(services, func(i, j int) bool {
		return byOrder(services[i].Order, services[j].Order, services[i].Entry, services[j].Entry)
	})
}

func sortIndustries(industries []Industry) {
	sort.SliceStable(industries, func(i, j int) bool {
		return byOrder(industries[i].Order, industries[j].Order, industries[i].Entry, industries[j].Entry)
	})
}

func byOrder(oi, oj int, a, b Entry) bool {
	if oi != oj {
		return oi < oj
	}
	if a.Title != b.Title {
		return a.Title < b.Title
	}
	return a.Slug < b.Slug
}
