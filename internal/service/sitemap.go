package service

import (
	"encoding/xml"
	"strings"
	"time"

	"github.com/nextstepguidance/nextstep/internal/model"
)

// publicRoutes are the pages crawlers may index. Dashboard and admin stay out.
var publicRoutes = []struct {
	Path       string
	Priority   string
	ChangeFreq string
}{
	{"/", "1.0", "weekly"},
	{"/auth", "0.3", "monthly"},
}

type SitemapService struct {
	legalService *LegalService
	baseURL      string
}

func NewSitemapService(legalService *LegalService, baseURL string) *SitemapService {
	return &SitemapService{
		legalService: legalService,
		baseURL:      strings.TrimSuffix(baseURL, "/"),
	}
}

func (s *SitemapService) GenerateSitemap() ([]byte, error) {
	today := time.Now().Format(dateLayout)
	sitemap := model.Sitemap{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
	}

	for _, route := range publicRoutes {
		sitemap.URLs = append(sitemap.URLs, model.SitemapURL{
			Loc:        s.baseURL + route.Path,
			LastMod:    today,
			ChangeFreq: route.ChangeFreq,
			Priority:   route.Priority,
		})
	}

	if s.legalService != nil {
		for _, slug := range s.legalService.Slugs() {
			sitemap.URLs = append(sitemap.URLs, model.SitemapURL{
				Loc:        s.baseURL + "/legal/" + slug,
				ChangeFreq: "yearly",
				Priority:   "0.2",
			})
		}
	}

	output, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}

	return []byte(xml.Header + string(output)), nil
}
