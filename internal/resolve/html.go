package resolve

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ImportTableHTML parses an exported listing page (e.g. the B3 listed
// companies table) into raw mapping entries. The first cell of each row
// is the company display name, the second the ticker symbol; a dash or
// empty second cell becomes an explicit "no mapping" entry. Header rows
// are skipped.
func ImportTableHTML(r io.Reader) (map[string]*string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse mapping HTML: %w", err)
	}

	entries := make(map[string]*string)

	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return // header or malformed row
		}

		name := strings.TrimSpace(cells.Eq(0).Text())
		ticker := strings.TrimSpace(cells.Eq(1).Text())
		if name == "" {
			return
		}

		if ticker == "" || ticker == "-" {
			entries[name] = nil
			return
		}
		entries[name] = &ticker
	})

	if len(entries) == 0 {
		return nil, fmt.Errorf("no mapping rows found")
	}

	return entries, nil
}
