package posts

import (
	"fmt"
	"math"
	"strings"
	"text/template"
	"time"
)

// PriceInput carries the fields interpolated into a price narrative.
type PriceInput struct {
	Benchmark     string
	Price         float64
	Currency      string
	Trend         string
	PercentChange float64
	Date          time.Time
}

// NewsInput carries the fields interpolated into a news narrative.
type NewsInput struct {
	Title     string
	Summary   string
	Source    string
	URL       string
	Sentiment string
	Date      time.Time
}

// benchmarkNames maps upstream benchmark codes to display names.
var benchmarkNames = map[string]string{
	"BRENT_CRUDE_USD": "Brent Crude",
	"WTI_USD":         "WTI",
	"NATURAL_GAS_USD": "Natural Gas",
}

// DisplayName returns the display name for a benchmark code, falling back to
// a cleaned-up version of the code itself.
func DisplayName(code string) string {
	if name, ok := benchmarkNames[code]; ok {
		return name
	}
	name := strings.TrimSuffix(code, "_USD")
	name = strings.ReplaceAll(name, "_", " ")
	return strings.Title(strings.ToLower(name)) //nolint:staticcheck // codes are plain ASCII
}

var priceTitles = map[string]string{
	"up":   "%s Climbs %.1f%% to $%.2f",
	"down": "%s Slips %.1f%% to $%.2f",
	"flat": "%s Holds Steady at $%.2f",
}

var priceBodies = map[string]*template.Template{
	"up": template.Must(template.New("price-up").Parse(
		`{{.Name}} traded at ${{printf "%.2f" .Price}} per barrel on {{.Date}}, up {{printf "%.1f" .Change}}% from the previous session.

The move higher keeps {{.Name}} in focus for buyers weighing near-term cargo commitments. Firmer benchmark prices typically feed through to physical premiums within one to two fixture cycles, so counterparties with open requirements may want to lock in terms early.

We continue to monitor the major benchmarks daily and will publish the next update after the following market session.`)),
	"down": template.Must(template.New("price-down").Parse(
		`{{.Name}} traded at ${{printf "%.2f" .Price}} per barrel on {{.Date}}, down {{printf "%.1f" .Change}}% from the previous session.

Softer benchmark prices tend to open a window for buyers, particularly on spot cargoes where discounts surface first. Sellers holding inventory may prefer structured offtake terms over spot exposure while the market finds a floor.

We continue to monitor the major benchmarks daily and will publish the next update after the following market session.`)),
	"flat": template.Must(template.New("price-flat").Parse(
		`{{.Name}} held at ${{printf "%.2f" .Price}} per barrel on {{.Date}}, unchanged from the previous session.

A steady print usually reflects balanced flows rather than absent interest; both sides of the book remain active at current levels. Stable benchmarks make this a practical moment to negotiate term contracts without chasing a moving reference.

We continue to monitor the major benchmarks daily and will publish the next update after the following market session.`)),
}

var newsTitles = map[string]string{
	"positive": "Market Brief: %s",
	"neutral":  "Industry Update: %s",
	"negative": "Market Watch: %s",
}

var newsBodies = map[string]*template.Template{
	"positive": template.Must(template.New("news-positive").Parse(
		`{{.Summary}}

The tone of this report points to firming conditions in the oil and gas market. Developments like this one tend to support benchmark prices and tighten availability on prompt cargoes, so buyers should factor the stronger backdrop into near-term procurement plans.

Source: {{.Source}} ({{.URL}})`)),
	"neutral": template.Must(template.New("news-neutral").Parse(
		`{{.Summary}}

We flag this report as relevant background for participants in the oil and gas market. It does not change our near-term view on benchmark direction, but it is worth keeping on the radar when planning forward commitments.

Source: {{.Source}} ({{.URL}})`)),
	"negative": template.Must(template.New("news-negative").Parse(
		`{{.Summary}}

The tone of this report points to pressure on the oil and gas market. Episodes like this one often widen discounts on spot cargoes before term prices react, which can favor buyers able to move quickly.

Source: {{.Source}} ({{.URL}})`)),
}

// RenderPricePost produces the title and body for a price narrative, keyed by
// trend direction.
func RenderPricePost(in PriceInput) (title, body string, err error) {
	tmpl, ok := priceBodies[in.Trend]
	if !ok {
		return "", "", fmt.Errorf("no price template for trend %q", in.Trend)
	}

	name := DisplayName(in.Benchmark)
	change := math.Abs(in.PercentChange)

	if in.Trend == "flat" {
		title = fmt.Sprintf(priceTitles[in.Trend], name, in.Price)
	} else {
		title = fmt.Sprintf(priceTitles[in.Trend], name, change, in.Price)
	}

	var b strings.Builder
	err = tmpl.Execute(&b, map[string]any{
		"Name":   name,
		"Price":  in.Price,
		"Change": change,
		"Date":   in.Date.Format("January 2, 2006"),
	})
	if err != nil {
		return "", "", fmt.Errorf("render price post: %w", err)
	}

	return title, b.String(), nil
}

// RenderNewsPost produces the title and body for a news narrative, keyed by
// sentiment label.
func RenderNewsPost(in NewsInput) (title, body string, err error) {
	tmpl, ok := newsBodies[in.Sentiment]
	if !ok {
		return "", "", fmt.Errorf("no news template for sentiment %q", in.Sentiment)
	}

	title = fmt.Sprintf(newsTitles[in.Sentiment], in.Title)

	var b strings.Builder
	err = tmpl.Execute(&b, map[string]any{
		"Summary": in.Summary,
		"Source":  in.Source,
		"URL":     in.URL,
	})
	if err != nil {
		return "", "", fmt.Errorf("render news post: %w", err)
	}

	return title, b.String(), nil
}
