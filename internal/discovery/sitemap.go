package discovery

import (
	"encoding/xml"
	"io"
	"strings"
)

// parseSitemap extracts <loc> entries from a sitemap XML document.
//
// Design decision: We scan tokens instead of unmarshaling into a schema
// struct because:
//  1. Sitemaps and sitemap indexes share the <loc> element, so one pass
//     handles both
//  2. Real-world sitemaps are frequently malformed; token scanning keeps
//     the entries read before the first error
func parseSitemap(r io.Reader) []string {
	decoder := xml.NewDecoder(r)

	locs := make([]string, 0)
	inLoc := false
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			inLoc = t.Name.Local == "loc"
		case xml.EndElement:
			inLoc = false
		case xml.CharData:
			if inLoc {
				if loc := strings.TrimSpace(string(t)); loc != "" {
					locs = append(locs, loc)
				}
			}
		}
	}

	return locs
}
