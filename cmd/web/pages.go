package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/nexo-digital/site/internal/cms"
	"github.com/nexo-digital/site/internal/handlers"
	"github.com/nexo-digital/site/internal/markdown"
	"github.com/nexo-digital/site/internal/platform/requestctx"
	"github.com/nexo-digital/site/internal/programmatic"
	"github.com/nexo-digital/site/internal/seo"
	"github.com/nexo-digital/site/internal/seodata"
	"github.com/nexo-digital/site/internal/tools"
)

const (
	homeDescription = "Marketing digital, SEO e desenvolvimento web para empresas em Portugal."
	homeSections    = 3
	relatedLinks    = 6

	descriptionLength = 160
)

func (a *app) home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	view := &handlers.HomeView{}

	if services, err := a.content.Services(ctx); err != nil {
		a.degrade(ctx, "services", err)
	} else {
		view.Services = handlers.Cards(services, handlers.ServiceCardOf)
	}
	if cases, err := a.content.Cases(ctx); err != nil {
		a.degrade(ctx, "cases", err)
	} else {
		if len(cases) > homeSections {
			cases = cases[:homeSections]
		}
		view.Cases = handlers.Cards(cases, handlers.CaseCardOf)
	}
	if posts, err := a.content.RecentPosts(ctx, homeSections); err != nil {
		a.degrade(ctx, "posts", err)
	} else {
		view.Posts = handlers.Cards(posts, handlers.PostCardOf)
	}

	page := a.page("/", "", homeDescription)
	page.Home = view
	page.AddJSONLD(seo.Organization(a.site.Name, a.site.URL("/"), a.site.URL("/assets/logo.svg"), nil))
	page.AddJSONLD(seo.WebSite(a.site.Name, a.site.URL("/"), page.Lang))
	a.views.render(w, r, http.StatusOK, "home", page)
}

func (a *app) postIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	category := strings.TrimSpace(r.URL.Query().Get("categoria"))

	var (
		posts []cms.Post
		err   error
	)
	if category != "" {
		posts, err = a.content.PostsByCategory(ctx, category)
	} else {
		posts, err = a.content.Posts(ctx)
	}
	if err != nil {
		a.serverError(w, r, err)
		return
	}

	page := a.page("/artigos", "Artigos", "Artigos sobre marketing digital, SEO e crescimento online.")
	page.Category = category
	page.Posts = handlers.Cards(posts, handlers.PostCardOf)
	if category != "" {
		// Filtered listings point at the unfiltered canonical.
		page.SEO.Robots = "noindex, follow"
	}
	a.views.render(w, r, http.StatusOK, "posts", page)
}

func (a *app) postDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	post, ok, err := a.content.PostBySlug(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	if !ok {
		a.notFound(w, r)
		return
	}
	body, err := markdown.Render(post.Body)
	if err != nil {
		a.serverError(w, r, err)
		return
	}

	path := "/artigos/" + post.Slug
	page := a.page(path, post.Title, describe(post.Description, post.Body))
	page.SEO.OG.Type = "article"
	page.SEO.Keywords = post.Tags
	if post.Image != "" {
		page.SEO = page.SEO.WithImage(a.site.URL(post.Image))
	}
	view := &handlers.PostView{
		PostCard:    handlers.PostCardOf(post),
		Author:      post.Author,
		Tags:        post.Tags,
		BodyHTML:    body,
		ReadingTime: markdown.ReadingTime(post.Body),
	}
	for _, h := range markdown.Headings(post.Body) {
		view.Headings = append(view.Headings, handlers.Heading{Level: h.Level, ID: h.ID, Text: h.Text})
	}
	page.Post = view
	page.AddJSONLD(seo.Article(seo.ArticleInput{
		Headline:      post.Title,
		Description:   post.Description,
		URL:           a.site.URL(path),
		ImageURL:      page.SEO.OG.Image,
		AuthorName:    post.Author,
		PublisherName: a.site.Name,
		Published:     post.Date,
		Modified:      post.UpdatedAt,
		Keywords:      post.Tags,
	}))
	a.views.render(w, r, http.StatusOK, "post", page)
}

func (a *app) caseIndex(w http.ResponseWriter, r *http.Request) {
	cases, err := a.content.Cases(r.Context())
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	page := a.page("/casos-de-estudo", "Casos de Estudo", "Projetos reais e os resultados que alcançámos com os nossos clientes.")
	page.Cases = handlers.Cards(cases, handlers.CaseCardOf)
	a.views.render(w, r, http.StatusOK, "cases", page)
}

func (a *app) caseDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cs, ok, err := a.content.CaseBySlug(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	if !ok {
		a.notFound(w, r)
		return
	}
	body, err := markdown.Render(cs.Body)
	if err != nil {
		a.serverError(w, r, err)
		return
	}

	view := &handlers.CaseView{CaseCard: handlers.CaseCardOf(cs), BodyHTML: body}
	for _, res := range cs.Results {
		view.Results = append(view.Results, handlers.Result{Label: res.Label, Value: res.Value})
	}
	titles := a.serviceTitles(ctx)
	for _, slug := range cs.Services {
		label, ok := titles[slug]
		if !ok {
			label = cms.PrettifySlug(slug)
		}
		view.Services = append(view.Services, handlers.Link{Href: "/servicos/" + slug, Label: label})
	}

	page := a.page("/casos-de-estudo/"+cs.Slug, cs.Title, describe(cs.Description, cs.Body))
	page.SEO.OG.Type = "article"
	if cs.Image != "" {
		page.SEO = page.SEO.WithImage(a.site.URL(cs.Image))
	}
	page.Case = view
	a.views.render(w, r, http.StatusOK, "case", page)
}

// serviceTitles maps service slugs to their titles for case links. Failures
// fall back to prettified slugs.
func (a *app) serviceTitles(ctx context.Context) map[string]string {
	services, err := a.content.Services(ctx)
	if err != nil {
		a.degrade(ctx, "service titles", err)
		return nil
	}
	out := make(map[string]string, len(services))
	for _, s := range services {
		out[s.Slug] = s.Title
	}
	return out
}

func (a *app) serviceIndex(w http.ResponseWriter, r *http.Request) {
	services, err := a.content.Services(r.Context())
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	page := a.page("/servicos", "Serviços", "Os serviços de marketing digital e desenvolvimento que oferecemos.")
	page.Cards = handlers.Cards(services, handlers.ServiceCardOf)
	a.views.render(w, r, http.StatusOK, "services", page)
}

func (a *app) serviceDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	svc, ok, err := a.content.ServiceBySlug(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	if !ok {
		a.notFound(w, r)
		return
	}
	body, err := markdown.Render(svc.Body)
	if err != nil {
		a.serverError(w, r, err)
		return
	}

	path := "/servicos/" + svc.Slug
	page := a.page(path, svc.Title, describe(svc.Description, svc.Body))
	page.Detail = &handlers.DetailView{
		Title:       svc.Title,
		Description: svc.Description,
		BodyHTML:    body,
		Icon:        svc.Icon,
	}
	if len(svc.Features) > 0 {
		page.Detail.Lists = append(page.Detail.Lists, handlers.LabeledList{Title: "O que inclui", Items: svc.Features})
	}
	if related, err := a.content.CasesByService(ctx, svc.Slug); err != nil {
		a.degrade(ctx, "related cases", err)
	} else {
		page.Related = handlers.Cards(related, handlers.CaseCardOf)
	}
	page.AddJSONLD(seo.Service(svc.Title, svc.Description, a.site.URL(path), a.site.Name, ""))
	a.views.render(w, r, http.StatusOK, "service", page)
}

func (a *app) industryIndex(w http.ResponseWriter, r *http.Request) {
	industries, err := a.content.Industries(r.Context())
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	page := a.page("/setores", "Setores", "Soluções digitais adaptadas a cada setor de atividade.")
	page.Cards = handlers.Cards(industries, handlers.IndustryCardOf)
	a.views.render(w, r, http.StatusOK, "industries", page)
}

func (a *app) industryDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ind, ok, err := a.content.IndustryBySlug(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	if !ok {
		a.notFound(w, r)
		return
	}
	body, err := markdown.Render(ind.Body)
	if err != nil {
		a.serverError(w, r, err)
		return
	}

	page := a.page("/setores/"+ind.Slug, ind.Title, describe(ind.Description, ind.Body))
	page.Detail = &handlers.DetailView{
		Title:       ind.Title,
		Description: ind.Description,
		BodyHTML:    body,
		Icon:        ind.Icon,
	}
	if len(ind.Challenges) > 0 {
		page.Detail.Lists = append(page.Detail.Lists, handlers.LabeledList{Title: "Desafios", Items: ind.Challenges})
	}
	if len(ind.Solutions) > 0 {
		page.Detail.Lists = append(page.Detail.Lists, handlers.LabeledList{Title: "Soluções", Items: ind.Solutions})
	}
	if related, err := a.content.CasesByIndustry(ctx, ind.Slug); err != nil {
		a.degrade(ctx, "related cases", err)
	} else {
		page.Related = handlers.Cards(related, handlers.CaseCardOf)
	}
	a.views.render(w, r, http.StatusOK, "industry", page)
}

func (a *app) toolIndex(w http.ResponseWriter, r *http.Request) {
	page := a.page("/ferramentas", "Ferramentas", "Ferramentas gratuitas de marketing digital.")
	page.Tools = tools.All()
	a.views.render(w, r, http.StatusOK, "tools", page)
}

func (a *app) toolDetail(w http.ResponseWriter, r *http.Request) {
	tool, ok := tools.BySlug(chi.URLParam(r, "slug"))
	if !ok {
		a.notFound(w, r)
		return
	}
	page := a.page(tool.Path(), tool.Name, tool.Description)
	page.Tool = &tool
	a.views.render(w, r, http.StatusOK, "tool", page)
}

func (a *app) programmaticPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	first, second := chi.URLParam(r, "first"), chi.URLParam(r, "second")
	ctx = requestctx.With(ctx, zap.String("first", first), zap.String("second", second))
	r = r.WithContext(ctx)
	resolved, err := a.programmatic.Resolve(ctx, first, second)
	if err != nil {
		a.serverError(w, r, err)
		return
	}

	path := "/" + first + "/" + second
	var page handlers.PageData
	switch resolved.Kind {
	case programmatic.PageServiceLocation:
		page = a.serviceLocationPage(ctx, path, resolved.Service, resolved.Location)
	case programmatic.PageIndustrySolution:
		page = a.industrySolutionPage(ctx, path, resolved.Industry, resolved.Service)
	default:
		a.notFound(w, r)
		return
	}
	a.views.render(w, r, http.StatusOK, "programmatic", page)
}

func (a *app) serviceLocationPage(ctx context.Context, path string, svc seodata.Service, loc seodata.Location) handlers.PageData {
	title := fmt.Sprintf("%s em %s", svc.Name, loc.Name)
	description := fmt.Sprintf("%s em %s: estratégia, execução e resultados medidos para empresas locais.", svc.Label(), loc.Name)
	page := a.page(path, title, description)
	page.SEO.Keywords = append(append([]string(nil), svc.Keywords...), loc.Keywords...)

	view := &handlers.ProgrammaticView{
		Heading:  title,
		Intro:    joinSentences(svc.Description, loc.Description),
		Service:  handlers.Link{Href: "/servicos/" + svc.Slug, Label: svc.Name},
		Location: loc.Name,
		Keywords: page.SEO.Keywords,
		FAQ: []seo.FAQ{
			{
				Question: fmt.Sprintf("Trabalham com empresas em %s?", loc.Name),
				Answer:   fmt.Sprintf("Sim. Acompanhamos empresas em %s e na região, presencialmente ou à distância.", loc.Name),
			},
			{
				Question: fmt.Sprintf("Quanto tempo demora a ver resultados de %s?", svc.Label()),
				Answer:   "Os primeiros indicadores surgem normalmente entre um e três meses, consoante o ponto de partida.",
			},
		},
	}

	if locations, err := a.seoData.ListLocations(ctx); err != nil {
		a.degrade(ctx, "nearby locations", err)
	} else {
		for _, other := range locations {
			if other.Slug == loc.Slug {
				continue
			}
			view.Links = append(view.Links, handlers.Link{
				Href:  programmatic.Pair{First: svc.Slug, Second: other.Slug}.Path(),
				Label: fmt.Sprintf("%s em %s", svc.Name, other.Name),
			})
			if len(view.Links) == relatedLinks {
				break
			}
		}
	}

	page.Programmatic = view
	page.AddJSONLD(seo.Service(svc.Name, description, a.site.URL(path), a.site.Name, loc.Name))
	page.AddJSONLD(seo.FAQPage(view.FAQ))
	return page
}

func (a *app) industrySolutionPage(ctx context.Context, path string, ind seodata.Industry, svc seodata.Service) handlers.PageData {
	title := fmt.Sprintf("%s para %s", svc.Name, ind.Name)
	description := fmt.Sprintf("%s pensado para %s: resolvemos os desafios específicos do setor.", svc.Label(), ind.Name)
	page := a.page(path, title, description)
	page.SEO.Keywords = append(append([]string(nil), svc.Keywords...), ind.Keywords...)

	view := &handlers.ProgrammaticView{
		Heading:    title,
		Intro:      joinSentences(ind.Description, svc.Description),
		Service:    handlers.Link{Href: "/servicos/" + svc.Slug, Label: svc.Name},
		Industry:   ind.Name,
		Keywords:   page.SEO.Keywords,
		PainPoints: ind.PainPoints,
		FAQ: []seo.FAQ{
			{
				Question: fmt.Sprintf("Já trabalharam no setor de %s?", ind.Name),
				Answer:   "Sim. Conhecemos o ciclo de venda e os canais que funcionam neste setor.",
			},
		},
	}

	if services, err := a.seoData.ListServices(ctx); err != nil {
		a.degrade(ctx, "other solutions", err)
	} else {
		for _, other := range services {
			if other.Slug == svc.Slug {
				continue
			}
			view.Links = append(view.Links, handlers.Link{
				Href:  programmatic.Pair{First: ind.Slug, Second: other.Slug}.Path(),
				Label: fmt.Sprintf("%s para %s", other.Name, ind.Name),
			})
			if len(view.Links) == relatedLinks {
				break
			}
		}
	}

	page.Programmatic = view
	page.AddJSONLD(seo.Service(svc.Name, description, a.site.URL(path), a.site.Name, ""))
	page.AddJSONLD(seo.FAQPage(view.FAQ))
	return page
}

func joinSentences(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

// describe falls back to the start of the body when the front matter has no
// description.
func describe(description, body string) string {
	if description = strings.TrimSpace(description); description != "" {
		return description
	}
	return markdown.Summary(body, descriptionLength)
}
