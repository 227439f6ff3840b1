package website

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"time"

	"git.shiro.blog/shiro/shiro/src/blog"
	"git.shiro.blog/shiro/shiro/src/config"
)

func RobotsTxt(c *RequestContext) ResponseData {
	var res ResponseData
	res.Header().Set("Content-Type", "text/plain")
	fmt.Fprintf(&res, "User-agent: *\nAllow: /\n\nSitemap: %s/sitemap.xml\n", config.Config.BaseUrl)
	return res
}

type sitemapUrlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	Urls    []sitemapUrl `xml:"url"`
}

type sitemapUrl struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

func SitemapXml(c *RequestContext) ResponseData {
	articles, err := blog.FetchPublishedArticles(c, c.Conn, time.Now().UTC())
	if err != nil {
		return c.ErrorsAsResponse(err)
	}

	urlSet := sitemapUrlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		Urls: []sitemapUrl{
			{Loc: config.Config.BaseUrl},
		},
	}
	for _, article := range articles {
		urlSet.Urls = append(urlSet.Urls, sitemapUrl{
			Loc:     fmt.Sprintf("%s/articles/%s", config.Config.BaseUrl, article.Slug),
			LastMod: article.UpdatedAt.UTC().Format("2006-01-02"),
		})
	}

	body, err := xml.MarshalIndent(urlSet, "", "  ")
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, err)
	}

	var res ResponseData
	res.Header().Set("Content-Type", "application/xml")
	res.Write([]byte(xml.Header))
	res.Write(body)
	return res
}
