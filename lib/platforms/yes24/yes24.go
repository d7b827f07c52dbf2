// Package yes24 extracts events from the Yes24 ticket listing pages.
// Yes24 has no JSON catalog endpoint, the listing only exists as
// rendered HTML.
package yes24

import (
	"context"
	"regexp"
	"strings"

	"ticketsnap-backend/lib/catalog"
	"ticketsnap-backend/lib/htmlutil"
	"ticketsnap-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("platforms/yes24")

var idPerfRegex = regexp.MustCompile(`IdPerf=(\d+)`)

// ParseList extracts every event container from a listing page. A
// container that cannot be parsed contributes a marker record, in line
// with the catalog error policy.
func ParseList(ctx context.Context, page string) ([]catalog.Record, error) {
	_, span := tracer.Start(ctx, "ParseList")
	defer span.End()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse listing html")
		return nil, err
	}

	events := []catalog.Record{}
	doc.Find("ul.list_wrap").Each(func(_ int, sel *goquery.Selection) {
		events = append(events, parseEvent(sel))
	})
	return events, nil
}

func parseEvent(sel *goquery.Selection) catalog.Record {
	rec := catalog.Record{}

	link := sel.Find("li.poster a").First()
	if href, ok := link.Attr("href"); ok {
		rec["event_url"] = href
		if m := idPerfRegex.FindStringSubmatch(href); m != nil {
			rec["event_id"] = m[1]
		}
	}
	if src, ok := link.Find("img").First().Attr("src"); ok {
		rec["poster_image"] = src
	}

	content := sel.Find("li.conlist").First()
	title := content.Find("h3 a").First()
	if title.Length() == 0 {
		title = content.Find("h3").First()
	}
	if title.Length() > 0 {
		rec["title"] = htmlutil.CleanText(title.Text())
	}

	content.Find("ul.con_txt li").Each(func(_ int, li *goquery.Selection) {
		text := htmlutil.CleanText(htmlutil.GetText(li.Get(0)))
		label, value, found := strings.Cut(text, ":")
		if !found {
			return
		}
		key := detailKey(strings.TrimSpace(label))
		value = strings.TrimSpace(value)
		if key == "genre" {
			value = textutil.StripBrackets(value)
		}
		rec[key] = value
	})

	if href, ok := sel.NextFiltered("div.btn").Find("a").First().Attr("href"); ok {
		rec["booking_url"] = href
	}
	return rec
}

// the listing uses display labels; map the known ones to stable keys
// and mechanically derive the rest
func detailKey(label string) string {
	switch {
	case strings.Contains(label, "Genre"):
		return "genre"
	case strings.Contains(label, "Date/Time"):
		return "date_time"
	case strings.Contains(label, "Venue"):
		return "venue"
	case strings.Contains(label, "Age"):
		return "age_group"
	case label == "Time":
		return "duration"
	}
	return textutil.SnakeKey(label)
}

// StatsConfig aggregates parsed listing events. Yes24 pages carry no
// structured prices or regions, so only the genre and venue dimensions
// apply.
func StatsConfig() catalog.StatsConfig {
	return catalog.StatsConfig{
		CategoryField: "genre",
		VenueField:    "venue",
	}
}
