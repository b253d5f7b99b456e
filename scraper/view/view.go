// Package view implements the read-only side of the client: fetching
// rendered pages and extracting domain objects out of them. Extraction is
// stateless, every call re-fetches and re-parses from the network.
package view

import (
	"bytes"
	"context"

	"funpay-client/scraper/core"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("funpay/view")

type Client struct {
	Core *core.Client
}

func NewClient(coreClient *core.Client) Client {
	return Client{Core: coreClient}
}

// request starts an outbound request, attaching the account cookie when
// the core client holds a golden key so reads see the authorized variant
// of a page.
func (c Client) request(ctx context.Context) *resty.Request {
	req := c.Core.Http.R().SetContext(ctx)
	if c.Core.GoldenKey() != "" {
		req.SetHeader("Cookie", c.Core.AuthCookie())
	}
	return req
}

func parseDocument(res *resty.Response) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
}

// pageNotFound reports the sentinel empty-content header the site renders
// instead of a 404 page. Checked before any field extraction so a missing
// entity never yields partial garbage.
func pageNotFound(doc *goquery.Document) bool {
	return doc.Find(".page-content-full .page-header").Length() > 0
}
