package main

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/nexo-digital/site/internal/cms"
	"github.com/nexo-digital/site/internal/platform/httpx"
	"github.com/nexo-digital/site/internal/platform/requestctx"
	"github.com/nexo-digital/site/internal/tools"
)

type contentList struct {
	Kind  cms.Kind   `json:"kind"`
	Items []cms.Item `json:"items"`
}

type linkResponse struct {
	URL string `json:"url"`
}

func (a *app) apiContentList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	kind, err := cms.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NotFound("unknown content kind"))
		return
	}
	items, err := a.store.Items(ctx, kind)
	if err != nil {
		a.apiContentError(w, r, err)
		return
	}
	if items == nil {
		items = []cms.Item{}
	}
	httpx.WriteJSON(w, http.StatusOK, contentList{Kind: kind, Items: items})
}

func (a *app) apiContentItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	kind, err := cms.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NotFound("unknown content kind"))
		return
	}
	slug := chi.URLParam(r, "slug")
	ctx = requestctx.With(ctx, zap.String("kind", string(kind)), zap.String("slug", slug))
	r = r.WithContext(ctx)
	item, ok, err := a.content.ItemBySlug(ctx, kind, slug)
	if err != nil {
		a.apiContentError(w, r, err)
		return
	}
	if !ok {
		httpx.WriteError(ctx, w, httpx.NotFound("content not found").WithDetails(map[string]any{"kind": kind}))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, item)
}

func (a *app) apiContentError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	requestctx.Logger(ctx).Error("content api failed", zap.Error(err))
	var perr *cms.ParseError
	if errors.As(err, &perr) {
		httpx.WriteError(ctx, w, httpx.NewError("content_parse_error", "content file could not be parsed", http.StatusInternalServerError))
		return
	}
	httpx.WriteError(ctx, w, httpx.NewError("content_error", "content unavailable", http.StatusInternalServerError))
}

func (a *app) apiWhatsApp(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	link, err := tools.WhatsAppLink(q.Get("phone"), q.Get("text"))
	writeLink(w, r, link, err)
}

func (a *app) apiUTM(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	link, err := tools.UTMURL(q.Get("url"), tools.UTMParams{
		Source:   q.Get("source"),
		Medium:   q.Get("medium"),
		Campaign: q.Get("campaign"),
		Term:     q.Get("term"),
		Content:  q.Get("content"),
	})
	writeLink(w, r, link, err)
}

func (a *app) apiEmail(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	link, err := tools.EmailLink(q.Get("to"), q.Get("subject"), q.Get("body"))
	writeLink(w, r, link, err)
}

// writeLink answers a tool request. Every tool error is a caller error.
func writeLink(w http.ResponseWriter, r *http.Request, link string, err error) {
	if err != nil {
		httpx.WriteError(r.Context(), w, httpx.BadRequest(err.Error()))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, linkResponse{URL: link})
}
