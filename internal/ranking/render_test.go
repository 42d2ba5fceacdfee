package ranking

import (
	"encoding/json"
	"encoding/xml"
	"strings"
	"testing"
	"time"
)

var feed = Feed{
	BaseURL:  "http://localhost",
	BasePath: "/api",
	Now:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
}

func reportEntities() []Entity {
	last := time.Date(2025, 5, 20, 8, 30, 0, 0, time.UTC)
	return []Entity{
		{ID: 11, Name: "Șef <rău>", Description: "Ține & ceartă", Category: "Șefi", AvgRating: 1.5, LastReviewAt: &last, Traits: traits(1, 1, 4)},
		{ID: 12, Name: "Coleg", Category: "Colegi", AvgRating: 4.25, Traits: traits(5, 4, 3)},
	}
}

func TestReportJSON(t *testing.T) {
	body, err := Build(reportEntities(), DefaultParams()).JSON()
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	if !strings.Contains(string(body), "\n    \"title\": \"Cele Mai Detestabile Entități\"") {
		t.Errorf("expected 4-space indent and unescaped unicode, got:\n%s", body)
	}
	if !strings.Contains(string(body), "Șef <rău>") {
		t.Error("html characters should not be escaped")
	}

	var out struct {
		Count int              `json:"count"`
		Items []map[string]any `json:"items"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Count != 1 || len(out.Items) != 1 {
		t.Fatalf("count = %d items = %d", out.Count, len(out.Items))
	}
	item := out.Items[0]
	if item["detestability_percentage"] != 66.67 || item["negative_traits_count"] != 2.0 || item["total_traits"] != 3.0 {
		t.Errorf("item = %v", item)
	}
	if _, ok := item["desirability_percentage"]; ok {
		t.Error("most_detestable items must not carry desirability_percentage")
	}
}

func TestReportJSONLeast(t *testing.T) {
	p := DefaultParams()
	p.Kind = LeastDetestable
	body, err := Build(reportEntities(), p).JSON()
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	var out struct {
		Items []map[string]any `json:"items"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Items) != 1 || out.Items[0]["name"] != "Coleg" || out.Items[0]["desirability_percentage"] != 100.0 {
		t.Errorf("items = %v", out.Items)
	}
}

func TestReportJSONNoResults(t *testing.T) {
	body, err := Build(nil, DefaultParams()).JSON()
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["title"] != "Fără rezultate" {
		t.Errorf("title = %v", out["title"])
	}
	if items, ok := out["items"].([]any); !ok || len(items) != 0 {
		t.Errorf("items = %#v, want empty array", out["items"])
	}
	if _, ok := out["count"]; ok {
		t.Error("no-results payload has no count")
	}
}

type parsedRSS struct {
	Version string `xml:"version,attr"`
	Channel struct {
		// must precede Link: the first field matching a local name wins
		AtomLink struct {
			Href string `xml:"href,attr"`
			Rel  string `xml:"rel,attr"`
		} `xml:"http://www.w3.org/2005/Atom link"`
		Title         string `xml:"title"`
		Link          string `xml:"link"`
		Language      string `xml:"language"`
		LastBuildDate string `xml:"lastBuildDate"`
		Items []struct {
			Title       string `xml:"title"`
			Description string `xml:"description"`
			Link        string `xml:"link"`
			GUID        string `xml:"guid"`
			PubDate     string `xml:"pubDate"`
			Category    string `xml:"category"`
		} `xml:"item"`
	} `xml:"channel"`
}

func TestReportRSS(t *testing.T) {
	body, err := Build(reportEntities(), DefaultParams()).RSS(feed)
	if err != nil {
		t.Fatalf("rss: %v", err)
	}
	if !strings.HasPrefix(string(body), `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Errorf("missing xml declaration:\n%s", body)
	}
	if !strings.Contains(string(body), "<![CDATA[") {
		t.Error("description should be CDATA")
	}

	var doc parsedRSS
	if err := xml.Unmarshal(body, &doc); err != nil {
		t.Fatalf("not well-formed: %v\n%s", err, body)
	}
	ch := doc.Channel
	if doc.Version != "2.0" || ch.Language != "ro-RO" || ch.Link != "http://localhost/rankings/most_detestable" {
		t.Errorf("channel = %+v", ch)
	}
	if ch.AtomLink.Href != "http://localhost/api/rss-rankings?type=most_detestable" || ch.AtomLink.Rel != "self" {
		t.Errorf("atom link = %+v", ch.AtomLink)
	}
	if ch.LastBuildDate != "Sun, 01 Jun 2025 12:00:00 +0000" {
		t.Errorf("lastBuildDate = %q", ch.LastBuildDate)
	}
	if len(ch.Items) != 1 {
		t.Fatalf("items = %d", len(ch.Items))
	}
	item := ch.Items[0]
	if item.Title != "1. Șef <rău> - 66.67% detestabil" {
		t.Errorf("title = %q", item.Title)
	}
	if item.Link != "http://localhost/entity/11" || item.GUID != item.Link {
		t.Errorf("link/guid = %q %q", item.Link, item.GUID)
	}
	if item.PubDate != "Tue, 20 May 2025 08:30:00 +0000" {
		t.Errorf("pubDate = %q", item.PubDate)
	}
	if item.Category != "Șefi" {
		t.Errorf("category = %q", item.Category)
	}
	for _, want := range []string{
		"<p><strong>Poziție în clasament:</strong> 1</p>",
		"<p><strong>Rating general:</strong> 1.5/5</p>",
		"<p><strong>Scor detestabilitate:</strong> 66.67%</p>",
		"<p><strong>Trăsături negative:</strong> 2 din 3</p>",
		"<p><strong>Descriere:</strong> Ține &amp; ceartă</p>",
	} {
		if !strings.Contains(item.Description, want) {
			t.Errorf("description missing %q:\n%s", want, item.Description)
		}
	}
}

func TestReportRSSPositiveAndFallbackDate(t *testing.T) {
	p := DefaultParams()
	p.Kind = LeastDetestable
	body, err := Build(reportEntities(), p).RSS(feed)
	if err != nil {
		t.Fatalf("rss: %v", err)
	}
	var doc parsedRSS
	if err := xml.Unmarshal(body, &doc); err != nil {
		t.Fatalf("not well-formed: %v", err)
	}
	item := doc.Channel.Items[0]
	if item.Title != "1. Coleg - 100% pozitiv" {
		t.Errorf("title = %q", item.Title)
	}
	if item.PubDate != "Sun, 01 Jun 2025 12:00:00 +0000" {
		t.Errorf("pubDate should fall back to build time, got %q", item.PubDate)
	}
	if strings.Contains(item.Description, "Descriere") {
		t.Error("empty description should be omitted")
	}
	if !strings.Contains(item.Description, "<p><strong>Trăsături pozitive:</strong> 3 din 3</p>") {
		t.Errorf("description = %s", item.Description)
	}
}

func TestReportRSSNoResults(t *testing.T) {
	body, err := Build(nil, DefaultParams()).RSS(feed)
	if err != nil {
		t.Fatalf("rss: %v", err)
	}
	var doc parsedRSS
	if err := xml.Unmarshal(body, &doc); err != nil {
		t.Fatalf("not well-formed: %v", err)
	}
	if doc.Channel.Title != "Fără rezultate" || len(doc.Channel.Items) != 0 {
		t.Errorf("channel = %+v", doc.Channel)
	}
}

func TestErrorBody(t *testing.T) {
	ct, body := ErrorBody(FormatJSON, "Invalid format. Valid formats are: rss, json")
	if ct != ContentTypeJSON || string(body) != `{"error":"Invalid format. Valid formats are: rss, json"}` {
		t.Errorf("json error = %s %s", ct, body)
	}

	ct, body = ErrorBody(FormatRSS, "Query failed: a < b")
	want := "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<error>Query failed: a &lt; b</error>"
	if ct != ContentTypeXML || string(body) != want {
		t.Errorf("xml error = %s %q", ct, body)
	}
}
