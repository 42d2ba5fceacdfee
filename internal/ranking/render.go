package ranking

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"html"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	ContentTypeJSON = "application/json; charset=utf-8"
	ContentTypeXML  = "application/xml; charset=utf-8"
)

type jsonItem struct {
	Name                    string   `json:"name"`
	Category                string   `json:"category"`
	PositiveTraitsCount     int      `json:"positive_traits_count"`
	NegativeTraitsCount     int      `json:"negative_traits_count"`
	TotalTraits             int      `json:"total_traits"`
	DetestabilityPercentage *float64 `json:"detestability_percentage,omitempty"`
	DesirabilityPercentage  *float64 `json:"desirability_percentage,omitempty"`
}

type jsonReport struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Count       *int       `json:"count,omitempty"`
	Items       []jsonItem `json:"items"`
}

func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// JSON renders the report. An empty report has no count field.
func (r Report) JSON() ([]byte, error) {
	out := jsonReport{Title: r.Title, Description: r.Description, Items: []jsonItem{}}
	if r.Empty() {
		return encodeJSON(out)
	}

	count := len(r.Items)
	out.Count = &count
	for _, s := range r.Items {
		item := jsonItem{
			Name:                s.Name,
			Category:            s.Category,
			PositiveTraitsCount: s.PositiveTraits,
			NegativeTraitsCount: s.NegativeTraits(),
			TotalTraits:         s.TotalTraits,
		}
		score := r.Score(s)
		if r.Kind == MostDetestable {
			item.DetestabilityPercentage = &score
		} else {
			item.DesirabilityPercentage = &score
		}
		out.Items = append(out.Items, item)
	}
	return encodeJSON(out)
}

type rssDoc struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Atom    string     `xml:"xmlns:atom,attr,omitempty"`
	Channel rssChannel `xml:"channel"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssChannel struct {
	AtomLink      *atomLink `xml:"atom:link,omitempty"`
	Title         string    `xml:"title"`
	Description   string    `xml:"description"`
	Link          string    `xml:"link,omitempty"`
	Language      string    `xml:"language,omitempty"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type cdata struct {
	Text string `xml:",cdata"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Description cdata  `xml:"description"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	PubDate     string `xml:"pubDate"`
	Category    string `xml:"category"`
}

// Feed holds the addressing used inside RSS output.
type Feed struct {
	// BaseURL is the public site origin, e.g. http://localhost.
	BaseURL string
	// BasePath is the API mount point, e.g. /api.
	BasePath string
	Now      time.Time
}

func (f Feed) now() time.Time {
	if f.Now.IsZero() {
		return time.Now()
	}
	return f.Now
}

func (f Feed) EntityURL(id int64) string {
	return f.BaseURL + "/entity/" + strconv.FormatInt(id, 10)
}

func marshalRSS(doc rssDoc) ([]byte, error) {
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

// RSS renders the report as an RSS 2.0 document. An empty report becomes a
// bare channel carrying the explanation.
func (r Report) RSS(f Feed) ([]byte, error) {
	if r.Empty() {
		return marshalRSS(rssDoc{
			Version: "2.0",
			Channel: rssChannel{Title: r.Title, Description: r.Description},
		})
	}

	now := f.now()
	ch := rssChannel{
		AtomLink: &atomLink{
			Href: f.BaseURL + f.BasePath + "/rss-rankings?type=" + url.QueryEscape(string(r.Kind)),
			Rel:  "self",
			Type: "application/rss+xml",
		},
		Title:         r.Title,
		Description:   r.Description,
		Link:          f.BaseURL + "/rankings/" + string(r.Kind),
		Language:      "ro-RO",
		LastBuildDate: now.Format(time.RFC1123Z),
	}

	for i, s := range r.Items {
		pos := i + 1
		score := formatNumber(r.Score(s))
		suffix := "% detestabil"
		if r.Kind == LeastDetestable {
			suffix = "% pozitiv"
		}

		pub := now
		if s.LastReviewAt != nil {
			pub = *s.LastReviewAt
		}
		link := f.EntityURL(s.ID)
		ch.Items = append(ch.Items, rssItem{
			Title:       strconv.Itoa(pos) + ". " + s.Name + " - " + score + suffix,
			Description: cdata{r.itemHTML(pos, s)},
			Link:        link,
			GUID:        link,
			PubDate:     pub.Format(time.RFC1123Z),
			Category:    s.Category,
		})
	}

	return marshalRSS(rssDoc{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: ch,
	})
}

func (r Report) itemHTML(pos int, s Scored) string {
	var b strings.Builder
	p := func(label, value string) {
		b.WriteString("<p><strong>" + label + ":</strong> " + value + "</p>")
	}
	p("Poziție în clasament", strconv.Itoa(pos))
	p("Categorie", html.EscapeString(s.Category))
	p("Rating general", formatNumber(s.AvgRating)+"/5")
	if r.Kind == MostDetestable {
		p("Scor detestabilitate", formatNumber(s.DetestabilityScore)+"%")
		p("Trăsături negative", strconv.Itoa(s.NegativeTraits())+" din "+strconv.Itoa(s.TotalTraits))
	} else {
		p("Scor pozitivitate", formatNumber(s.PositivePercentage)+"%")
		p("Trăsături pozitive", strconv.Itoa(s.PositiveTraits)+" din "+strconv.Itoa(s.TotalTraits))
	}
	if s.Description != "" {
		p("Descriere", html.EscapeString(s.Description))
	}
	return b.String()
}

// ErrorBody renders msg in the given representation.
func ErrorBody(format Format, msg string) (contentType string, body []byte) {
	if format == FormatJSON {
		b, _ := json.Marshal(map[string]string{"error": msg})
		return ContentTypeJSON, b
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString("<error>")
	_ = xml.EscapeText(&buf, []byte(msg))
	buf.WriteString("</error>")
	return ContentTypeXML, buf.Bytes()
}
