package seo

import (
	"encoding/json"
	"time"
)

const schemaContext = "https://schema.org"

// JSON marshals v to a compact JSON string. It returns an empty string on error.
func JSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// Organization returns the agency Organization schema.
func Organization(name, url, logoURL string, sameAs []string) map[string]any {
	m := map[string]any{
		"@context": schemaContext,
		"@type":    "Organization",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	if logoURL != "" {
		m["logo"] = logoURL
	}
	if len(sameAs) > 0 {
		m["sameAs"] = sameAs
	}
	return m
}

// WebSite returns a minimal WebSite schema.
func WebSite(name, url, language string) map[string]any {
	m := map[string]any{
		"@context": schemaContext,
		"@type":    "WebSite",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	if language != "" {
		m["inLanguage"] = language
	}
	return m
}

// BreadcrumbItem maps name and absolute item URL.
type BreadcrumbItem struct {
	Name string
	Item string
}

// BreadcrumbList builds schema.org BreadcrumbList.
func BreadcrumbList(items []BreadcrumbItem) map[string]any {
	el := make([]map[string]any, 0, len(items))
	for i, it := range items {
		el = append(el, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     it.Name,
			"item":     it.Item,
		})
	}
	return map[string]any{
		"@context":        schemaContext,
		"@type":           "BreadcrumbList",
		"itemListElement": el,
	}
}

// ArticleInput carries the fields of an Article schema.
type ArticleInput struct {
	Headline      string
	Description   string
	URL           string
	ImageURL      string
	AuthorName    string
	PublisherName string
	Published     time.Time
	Modified      time.Time
	Keywords      []string
}

// Article returns the BlogPosting-compatible Article schema.
func Article(in ArticleInput) map[string]any {
	m := map[string]any{
		"@context": schemaContext,
		"@type":    "Article",
		"headline": in.Headline,
	}
	if in.Description != "" {
		m["description"] = in.Description
	}
	if in.URL != "" {
		m["url"] = in.URL
		m["mainEntityOfPage"] = in.URL
	}
	if in.ImageURL != "" {
		m["image"] = in.ImageURL
	}
	if in.AuthorName != "" {
		m["author"] = map[string]any{"@type": "Person", "name": in.AuthorName}
	}
	if in.PublisherName != "" {
		m["publisher"] = map[string]any{"@type": "Organization", "name": in.PublisherName}
	}
	if !in.Published.IsZero() {
		m["datePublished"] = in.Published.UTC().Format(time.RFC3339)
	}
	if !in.Modified.IsZero() {
		m["dateModified"] = in.Modified.UTC().Format(time.RFC3339)
	}
	if len(in.Keywords) > 0 {
		m["keywords"] = in.Keywords
	}
	return m
}

// Service describes an offering. areaServed is set on location pages.
func Service(name, description, url, providerName, areaServed string) map[string]any {
	m := map[string]any{
		"@context":    schemaContext,
		"@type":       "Service",
		"name":        name,
		"description": description,
	}
	if url != "" {
		m["url"] = url
	}
	if providerName != "" {
		m["provider"] = map[string]any{"@type": "Organization", "name": providerName}
	}
	if areaServed != "" {
		m["areaServed"] = map[string]any{"@type": "City", "name": areaServed}
	}
	return m
}

// FAQ is one question and answer pair.
type FAQ struct {
	Question string
	Answer   string
}

// FAQPage builds a FAQPage schema. It returns nil without questions.
func FAQPage(items []FAQ) map[string]any {
	if len(items) == 0 {
		return nil
	}
	entities := make([]map[string]any, 0, len(items))
	for _, it := range items {
		entities = append(entities, map[string]any{
			"@type": "Question",
			"name":  it.Question,
			"acceptedAnswer": map[string]any{
				"@type": "Answer",
				"text":  it.Answer,
			},
		})
	}
	return map[string]any{
		"@context":   schemaContext,
		"@type":      "FAQPage",
		"mainEntity": entities,
	}
}
