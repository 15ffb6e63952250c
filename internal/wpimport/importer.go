// Package wpimport converts a WordPress WXR export into markdown posts for
// the content store.
package wpimport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/nexo-digital/site/internal/cms"
)

// DescriptionLength caps the description derived from the post body.
const DescriptionLength = 160

// Summary reports the outcome of one import run.
type Summary struct {
	RunID   string `json:"runId"`
	Created int    `json:"created"`
	Skipped int    `json:"skipped"`
	Errored int    `json:"errored"`
	Ignored int    `json:"ignored"`
}

// Importer writes one markdown file per published post under OutDir/posts.
type Importer struct {
	outDir string
	logger *zap.Logger
	dryRun bool
	idGen  func() string
}

// Option customises an Importer.
type Option func(*Importer)

// WithLogger sets the logger used for per-item reporting.
func WithLogger(logger *zap.Logger) Option {
	return func(i *Importer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithDryRun converts and counts items without writing files.
func WithDryRun(enabled bool) Option {
	return func(i *Importer) {
		i.dryRun = enabled
	}
}

// WithIDGenerator overrides the run id source.
func WithIDGenerator(fn func() string) Option {
	return func(i *Importer) {
		if fn != nil {
			i.idGen = fn
		}
	}
}

// New builds an importer writing into the content directory outDir.
func New(outDir string, opts ...Option) *Importer {
	imp := &Importer{
		outDir: outDir,
		logger: zap.NewNop(),
		idGen:  func() string { return ulid.Make().String() },
	}
	for _, opt := range opts {
		opt(imp)
	}
	return imp
}

// Post is a converted WordPress post ready to be written.
type Post struct {
	Title       string
	Slug        string
	Date        time.Time
	Author      string
	Categories  []string
	Tags        []string
	Description string
	Body        string
}

type frontMatter struct {
	Title       string   `yaml:"title"`
	Slug        string   `yaml:"slug"`
	Date        string   `yaml:"date,omitempty"`
	Author      string   `yaml:"author,omitempty"`
	Categories  []string `yaml:"categories,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
	Description string   `yaml:"description,omitempty"`
}

// Run decodes the export and writes every published post. Only a failure to
// decode the export itself is returned; per-item failures are logged and
// counted.
func (imp *Importer) Run(ctx context.Context, r io.Reader) (Summary, error) {
	summary := Summary{RunID: imp.idGen()}
	logger := imp.logger.With(zap.String("run_id", summary.RunID))

	ch, err := decode(r)
	if err != nil {
		return summary, err
	}
	logger.Info("wordpress export decoded",
		zap.String("site", ch.Title),
		zap.Int("items", len(ch.Items)),
	)

	dir := filepath.Join(imp.outDir, string(cms.KindPosts))
	if !imp.dryRun {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return summary, fmt.Errorf("wpimport: create %s: %w", dir, err)
		}
	}

	for _, it := range ch.Items {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if !it.published() {
			summary.Ignored++
			continue
		}
		itemLog := logger.With(zap.String("post_id", it.PostID), zap.String("title", it.Title))

		post, err := convert(it)
		if err != nil {
			summary.Errored++
			itemLog.Warn("convert post failed", zap.Error(err))
			continue
		}
		if imp.dryRun {
			summary.Created++
			continue
		}
		path := filepath.Join(dir, post.Slug+".md")
		switch err := writePost(path, post); {
		case errors.Is(err, os.ErrExist):
			summary.Skipped++
			itemLog.Info("post already exists", zap.String("path", path))
		case err != nil:
			summary.Errored++
			itemLog.Warn("write post failed", zap.String("path", path), zap.Error(err))
		default:
			summary.Created++
			itemLog.Debug("post written", zap.String("path", path))
		}
	}

	logger.Info("wordpress import finished",
		zap.Int("created", summary.Created),
		zap.Int("skipped", summary.Skipped),
		zap.Int("errored", summary.Errored),
		zap.Int("ignored", summary.Ignored),
	)
	return summary, nil
}

func convert(it item) (Post, error) {
	title := strings.TrimSpace(it.Title)
	slug := Slugify(it.PostName)
	if slug == "" {
		slug = Slugify(title)
	}
	if slug == "" {
		return Post{}, errors.New("wpimport: post has neither slug nor title")
	}
	if title == "" {
		title = cms.PrettifySlug(slug)
	}

	body, err := HTMLToMarkdown(it.content())
	if err != nil {
		return Post{}, err
	}

	var date time.Time
	if raw := strings.TrimSpace(it.PostDate); raw != "" && !strings.HasPrefix(raw, "0000") {
		if date = cms.ParseDate(raw); date.IsZero() {
			return Post{}, fmt.Errorf("wpimport: unparseable post_date %q", raw)
		}
	} else if raw := strings.TrimSpace(it.PubDate); raw != "" {
		if t, perr := time.Parse(time.RFC1123Z, raw); perr == nil {
			date = t.UTC()
		}
	}

	description := ""
	if ex := strings.TrimSpace(it.excerpt()); ex != "" {
		if md, err := HTMLToMarkdown(ex); err == nil {
			description = truncate(strings.Join(strings.Fields(stripMarkdown(md)), " "), DescriptionLength)
		}
	}
	if description == "" {
		description = truncate(strings.Join(strings.Fields(stripMarkdown(body)), " "), DescriptionLength)
	}

	return Post{
		Title:       title,
		Slug:        slug,
		Date:        date,
		Author:      strings.TrimSpace(it.Creator),
		Categories:  it.terms("category"),
		Tags:        it.terms("post_tag"),
		Description: description,
		Body:        body,
	}, nil
}

// Render produces the markdown file contents for post.
func Render(post Post) ([]byte, error) {
	fm := frontMatter{
		Title:       post.Title,
		Slug:        post.Slug,
		Author:      post.Author,
		Categories:  post.Categories,
		Tags:        post.Tags,
		Description: post.Description,
	}
	if !post.Date.IsZero() {
		fm.Date = post.Date.Format("2006-01-02")
	}
	head, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("wpimport: encode front matter: %w", err)
	}
	var b strings.Builder
	b.WriteString("---\n")
	b.Write(head)
	b.WriteString("---\n\n")
	b.WriteString(post.Body)
	return []byte(b.String()), nil
}

// writePost creates path exclusively; an existing file yields os.ErrExist.
func writePost(path string, post Post) error {
	data, err := Render(post)
	if err != nil {
		return err
	}
	return createExclusive(path, bytes.NewReader(data))
}

// createExclusive copies r into a new file at path. A failed copy or close
// removes the file so a later run can retry it.
func createExclusive(path string, r io.Reader) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	_, err = io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return err
	}
	return nil
}

var (
	markdownLinks = regexp.MustCompile(`!?\[([^\]]*)\]\([^)]*\)`)
	markdownMarks = strings.NewReplacer("**", "", "*", "", "`", "", "#", "", "> ", "")
)

func stripMarkdown(md string) string {
	return markdownMarks.Replace(markdownLinks.ReplaceAllString(md, "$1"))
}

// truncate cuts s to at most n runes, backing off to a word boundary.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	cut := string(runes[:n])
	if i := strings.LastIndex(cut, " "); i > n/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:")
}
