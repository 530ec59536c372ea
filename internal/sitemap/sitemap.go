// Package sitemap renders the site's sitemap and publishes it to the web host.
package sitemap

import (
	"bytes"
	"encoding/xml"
	"strings"
)

const xmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"

// StaticRoutes are the pages that exist independently of posts.
var StaticRoutes = []string{
	"/",
	"/About",
	"/KikoGoats",
	"/SpanishGoats",
	"/BoerGoats",
	"/NigerianDwarfGoats",
	"/DamascusGoats",
	"/PrivacyPolicy",
	"/TermsConditions",
}

type urlSet struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	URLs    []url    `xml:"url"`
}

type url struct {
	Loc string `xml:"loc"`
}

// Build renders a sitemap with the static routes followed by one entry per
// post permalink under /Post/.
func Build(baseURL string, staticRoutes, permalinks []string) ([]byte, error) {
	base := strings.TrimRight(baseURL, "/")
	set := urlSet{XMLNS: xmlns, URLs: make([]url, 0, len(staticRoutes)+len(permalinks))}
	for _, route := range staticRoutes {
		set.URLs = append(set.URLs, url{Loc: join(base, route)})
	}
	for _, link := range permalinks {
		set.URLs = append(set.URLs, url{Loc: join(base, "/Post/"+link)})
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func join(base, route string) string {
	return base + "/" + strings.TrimLeft(route, "/")
}
