package wpimport

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

type rss struct {
	XMLName xml.Name `xml:"rss"`
	Channel channel  `xml:"channel"`
}

type channel struct {
	Title string `xml:"title"`
	Link  string `xml:"link"`
	Items []item `xml:"item"`
}

// nsText keeps the namespace so content:encoded and excerpt:encoded, which
// share a local name, can be told apart.
type nsText struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

type category struct {
	Domain   string `xml:"domain,attr"`
	Nicename string `xml:"nicename,attr"`
	Value    string `xml:",chardata"`
}

type item struct {
	Title      string     `xml:"title"`
	Link       string     `xml:"link"`
	PubDate    string     `xml:"pubDate"`
	Creator    string     `xml:"creator"`
	Encoded    []nsText   `xml:"encoded"`
	PostID     string     `xml:"post_id"`
	PostDate   string     `xml:"post_date"`
	PostName   string     `xml:"post_name"`
	Status     string     `xml:"status"`
	PostType   string     `xml:"post_type"`
	Categories []category `xml:"category"`
}

func (it item) content() string { return it.encoded("content") }

func (it item) excerpt() string { return it.encoded("excerpt") }

func (it item) encoded(space string) string {
	for _, e := range it.Encoded {
		if strings.Contains(e.XMLName.Space, space) {
			return e.Value
		}
	}
	return ""
}

func (it item) terms(domain string) []string {
	var out []string
	for _, c := range it.Categories {
		if c.Domain != domain {
			continue
		}
		if v := strings.TrimSpace(c.Value); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// published reports whether the item is a published blog post.
func (it item) published() bool {
	return strings.EqualFold(strings.TrimSpace(it.PostType), "post") &&
		strings.EqualFold(strings.TrimSpace(it.Status), "publish")
}

func decode(r io.Reader) (channel, error) {
	var doc rss
	dec := xml.NewDecoder(r)
	dec.Entity = xml.HTMLEntity
	if err := dec.Decode(&doc); err != nil {
		return channel{}, fmt.Errorf("wpimport: decode export: %w", err)
	}
	return doc.Channel, nil
}
