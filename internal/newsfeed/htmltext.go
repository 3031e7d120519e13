package newsfeed

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StripHTML reduces an upstream article body to plain text. News providers
// often return summaries with embedded markup; scoring and storage both want
// clean text.
func StripHTML(s string) string {
	if !strings.ContainsRune(s, '<') {
		return strings.TrimSpace(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}

	doc.Find("script, style").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}
