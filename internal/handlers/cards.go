package handlers

import (
	"github.com/nexo-digital/site/internal/cms"
)

func PostCardOf(p cms.Post) PostCard {
	return PostCard{
		Href:        "/artigos/" + p.Slug,
		Title:       p.Title,
		Description: p.Description,
		Date:        p.Date,
		Categories:  p.Categories,
		Image:       p.Image,
	}
}

func CaseCardOf(c cms.CaseStudy) CaseCard {
	return CaseCard{
		Href:        "/casos-de-estudo/" + c.Slug,
		Title:       c.Title,
		Client:      c.Client,
		Description: c.Description,
		Industry:    c.Industry,
		Year:        c.Year,
		Image:       c.Image,
	}
}

func ServiceCardOf(s cms.Service) ServiceCard {
	return ServiceCard{
		Href:        "/servicos/" + s.Slug,
		Title:       s.Title,
		Description: s.Description,
		Icon:        s.Icon,
		Features:    s.Features,
	}
}

func IndustryCardOf(i cms.Industry) ServiceCard {
	return ServiceCard{
		Href:        "/setores/" + i.Slug,
		Title:       i.Title,
		Description: i.Description,
		Icon:        i.Icon,
	}
}

// Cards maps fn over items, returning a non-nil slice.
func Cards[T, C any](items []T, fn func(T) C) []C {
	out := make([]C, 0, len(items))
	for _, it := range items {
		out = append(out, fn(it))
	}
	return out
}
