package view

import (
	"context"
	"strconv"
	"strings"

	"funpay-client/lib/htmlutil"
	"funpay-client/scraper/core"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

// Offer is a single tradeable listing in its full standalone shape.
type Offer struct {
	Id                  int64
	ShortDescription    string
	DetailedDescription string
	AutoDelivery        bool
	Price               float64
	AttachmentLinks     []string
	Parameters          map[string]string
	Seller              PreviewSeller
}

func (c Client) Offer(ctx context.Context, offerId int64) (Offer, error) {
	ctx, span := tracer.Start(ctx, "client:Offer")
	defer span.End()

	res, err := c.request(ctx).
		SetQueryParam("id", strconv.FormatInt(offerId, 10)).
		Get("/lots/offer")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch offer page")
		return Offer{}, &core.ApiError{Op: "fetch offer", Err: err}
	}
	doc, err := parseDocument(res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return Offer{}, &core.ApiError{Op: "parse offer", Err: err}
	}
	if pageNotFound(doc) {
		span.SetStatus(codes.Error, "offer does not exist")
		return Offer{}, &core.NotFoundError{Kind: "offer", ID: offerId}
	}

	offer := Offer{
		Id:           offerId,
		AutoDelivery: doc.Find(".offer-header-auto-dlv-label").Length() > 0,
	}

	// the first option of the currency selector carries the total price
	priceText := doc.Find(".form-control.input-lg.selectpicker").First().
		Children().First().AttrOr("data-content", "")
	offer.Price, err = htmlutil.ParsePrice(priceText)
	if err != nil {
		span.SetStatus(codes.Error, "failed to extract price")
		return Offer{}, &core.ApiError{Op: "parse offer", Err: err}
	}

	// only param-items nested directly under the list: the first is the
	// short description unless it is the only one, the second is the
	// detailed description, the third holds attachments
	paramItems := doc.Find(".param-list > .param-item")
	switch {
	case paramItems.Length() == 1:
		offer.DetailedDescription = strings.TrimSpace(paramItems.Eq(0).Find("div").First().Text())
	case paramItems.Length() >= 2:
		offer.ShortDescription = strings.TrimSpace(paramItems.Eq(0).Find("div").First().Text())
		offer.DetailedDescription = strings.TrimSpace(paramItems.Eq(1).Find("div").First().Text())
	}
	if paramItems.Length() > 2 {
		paramItems.Eq(2).Find(".attachments-item").Each(func(_ int, sel *goquery.Selection) {
			offer.AttachmentLinks = append(offer.AttachmentLinks, sel.Find("a").First().AttrOr("href", ""))
		})
	}

	offer.Parameters = map[string]string{}
	doc.Find(".param-list .row .col-xs-6").Each(func(_ int, sel *goquery.Selection) {
		item := sel.Find(".param-item").First()
		key := strings.TrimSpace(item.Find("h5").Text())
		if key == "" {
			return
		}
		offer.Parameters[key] = strings.TrimSpace(item.Find(".text-bold").Text())
	})

	offer.Seller, err = parseOfferSeller(doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to extract seller")
		return Offer{}, &core.ApiError{Op: "parse offer", Err: err}
	}

	return offer, nil
}

func parseOfferSeller(doc *goquery.Document) (PreviewSeller, error) {
	nameLink := doc.Find(".media-user-name").First().Find("a").First()
	userId, err := htmlutil.EntityID(nameLink.AttrOr("href", ""), "users")
	if err != nil {
		return PreviewSeller{}, err
	}
	reviewCount, err := htmlutil.LeadingInt(doc.Find(".text-mini.text-light.mb5").First().Text())
	if err != nil {
		return PreviewSeller{}, err
	}
	return PreviewSeller{
		UserId:      userId,
		Username:    strings.TrimSpace(nameLink.Text()),
		AvatarLink:  htmlutil.NormalizeAvatar(doc.Find(".media-user").First().Find("img").AttrOr("src", "")),
		Online:      doc.Find(".media.media-user.online").Length() > 0,
		ReviewCount: reviewCount,
	}, nil
}
