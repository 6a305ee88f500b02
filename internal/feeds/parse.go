package feeds

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
	"time"
)

// entry is one RSS item or Atom entry before labelling and cleanup.
type entry struct {
	Title       string
	Link        string
	Description string
	Published   string
}

// parseFeed auto-detects RSS 2.0, RSS 1.0 (RDF) or Atom 1.0 from the root element.
func parseFeed(data []byte) ([]entry, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("feed: empty body")
	}
	switch detectFormat(trimmed) {
	case "rss":
		return parseRSS(trimmed)
	case "rdf":
		return parseRDF(trimmed)
	case "atom":
		return parseAtom(trimmed)
	default:
		return nil, errors.New("feed: unknown format (expected <rss> or <feed>)")
	}
}

func detectFormat(data []byte) string {
	d := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := d.Token()
		if err != nil {
			return ""
		}
		if se, ok := tok.(xml.StartElement); ok {
			switch strings.ToLower(se.Name.Local) {
			case "rss":
				return "rss"
			case "rdf":
				return "rdf"
			case "feed":
				return "atom"
			}
			return ""
		}
	}
}

type rssRoot struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	Date        string `xml:"date"` // dc:date
}

// rdfRoot is RSS 1.0: items are siblings of the channel, not children.
type rdfRoot struct {
	Items []rssItem `xml:"item"`
}

func parseRSS(data []byte) ([]entry, error) {
	var root rssRoot
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("feed: parse rss: %w", err)
	}
	return rssEntries(root.Channel.Items), nil
}

func parseRDF(data []byte) ([]entry, error) {
	var root rdfRoot
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("feed: parse rdf: %w", err)
	}
	return rssEntries(root.Items), nil
}

func rssEntries(items []rssItem) []entry {
	out := make([]entry, 0, len(items))
	for _, it := range items {
		pub := strings.TrimSpace(it.PubDate)
		if pub == "" {
			pub = strings.TrimSpace(it.Date)
		}
		out = append(out, entry{
			Title:       strings.TrimSpace(it.Title),
			Link:        strings.TrimSpace(it.Link),
			Description: strings.TrimSpace(it.Description),
			Published:   pub,
		})
	}
	return out
}

type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
}

type atomEntry struct {
	Title     string     `xml:"title"`
	Links     []atomLink `xml:"link"`
	Summary   string     `xml:"summary"`
	Content   string     `xml:"content"`
	Published string     `xml:"published"`
	Updated   string     `xml:"updated"`
}

func parseAtom(data []byte) ([]entry, error) {
	var root atomFeed
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("feed: parse atom: %w", err)
	}
	out := make([]entry, 0, len(root.Entries))
	for _, e := range root.Entries {
		pub := strings.TrimSpace(e.Published)
		if pub == "" {
			pub = strings.TrimSpace(e.Updated)
		}
		desc := strings.TrimSpace(e.Summary)
		if desc == "" {
			desc = strings.TrimSpace(e.Content)
		}
		out = append(out, entry{
			Title:       strings.TrimSpace(e.Title),
			Link:        atomEntryLink(e.Links),
			Description: desc,
			Published:   pub,
		})
	}
	return out, nil
}

// atomEntryLink prefers rel="alternate" (or no rel) over other links.
func atomEntryLink(links []atomLink) string {
	for _, l := range links {
		if l.Rel == "" || l.Rel == "alternate" {
			return strings.TrimSpace(l.Href)
		}
	}
	if len(links) > 0 {
		return strings.TrimSpace(links[0].Href)
	}
	return ""
}

var dateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
	time.RFC3339Nano,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"2 Jan 2006 15:04:05 -0700",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseDate returns the zero time when s matches no known layout.
func parseDate(s string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
