package view

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"funpay-client/lib/htmlutil"
	"funpay-client/scraper/core"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

// Lot is a category of tradeable offers for a given game.
type Lot struct {
	Id            int64
	GameId        int64
	Title         string
	Description   string
	Counters      []LotCounter
	PreviewOffers []PreviewOffer
}

// LotCounter is a sibling-lot link on a lot page with its offer count.
type LotCounter struct {
	LotId   int64
	Param   string
	Counter int
}

// PreviewOffer is an offer's summary shape as embedded in a listing page,
// distinct from its full standalone shape.
type PreviewOffer struct {
	OfferId          int64
	ShortDescription string
	Price            float64
	AutoDelivery     bool
	Promo            bool
	Seller           PreviewSeller
}

// PreviewSeller is a seller's summary shape as embedded next to an offer.
type PreviewSeller struct {
	UserId      int64
	Username    string
	AvatarLink  string
	Online      bool
	ReviewCount int
}

func (c Client) Lot(ctx context.Context, lotId int64) (Lot, error) {
	ctx, span := tracer.Start(ctx, "client:Lot")
	defer span.End()

	res, err := c.request(ctx).Get(fmt.Sprintf("/lots/%d/", lotId))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch lot page")
		return Lot{}, &core.ApiError{Op: "fetch lot", Err: err}
	}
	doc, err := parseDocument(res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return Lot{}, &core.ApiError{Op: "parse lot", Err: err}
	}
	if pageNotFound(doc) {
		span.SetStatus(codes.Error, "lot does not exist")
		return Lot{}, &core.NotFoundError{Kind: "lot", ID: lotId}
	}

	content := doc.Find(".content-with-cd").First()
	lot := Lot{
		Id:          lotId,
		Title:       strings.TrimSpace(content.Find("h1").First().Text()),
		Description: strings.TrimSpace(content.Find("p").First().Text()),
	}
	if gameAttr := doc.Find("[data-game]").First().AttrOr("data-game", ""); gameAttr != "" {
		lot.GameId, err = strconv.ParseInt(gameAttr, 10, 64)
		if err != nil {
			span.SetStatus(codes.Error, "malformed data-game attribute")
			return Lot{}, &core.ApiError{Op: "parse lot", Err: err}
		}
	}

	lot.Counters, err = parseLotCounters(doc, lotId)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to extract counters")
		return Lot{}, &core.ApiError{Op: "parse lot", Err: err}
	}
	lot.PreviewOffers, err = parsePreviewOffers(doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to extract preview offers")
		return Lot{}, &core.ApiError{Op: "parse lot", Err: err}
	}

	return lot, nil
}

func parseLotCounters(doc *goquery.Document, lotId int64) ([]LotCounter, error) {
	var counters []LotCounter
	var firstErr error

	doc.Find(".counter-list a").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href := sel.AttrOr("href", "")
		// chips are not supported yet
		if strings.Contains(href, "chips") {
			return true
		}
		counterLotId, err := htmlutil.EntityID(href, "lots")
		if err != nil {
			firstErr = err
			return false
		}
		if counterLotId == lotId {
			return true
		}
		value, err := strconv.Atoi(strings.TrimSpace(sel.Find(".counter-value").Text()))
		if err != nil {
			firstErr = fmt.Errorf("malformed counter value: %w", err)
			return false
		}
		counters = append(counters, LotCounter{
			LotId:   counterLotId,
			Param:   strings.TrimSpace(sel.Find(".counter-param").Text()),
			Counter: value,
		})
		return true
	})

	return counters, firstErr
}

func parsePreviewOffers(doc *goquery.Document) ([]PreviewOffer, error) {
	var offers []PreviewOffer
	var firstErr error

	doc.Find(".tc a").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		offer, err := parsePreviewOffer(sel)
		if err != nil {
			firstErr = err
			return false
		}
		offers = append(offers, offer)
		return true
	})

	return offers, firstErr
}

func parsePreviewOffer(sel *goquery.Selection) (PreviewOffer, error) {
	href := sel.AttrOr("href", "")
	link, err := url.Parse(href)
	if err != nil {
		return PreviewOffer{}, err
	}
	offerId, err := strconv.ParseInt(link.Query().Get("id"), 10, 64)
	if err != nil {
		return PreviewOffer{}, fmt.Errorf("malformed offer link %q: %w", href, err)
	}
	price, err := strconv.ParseFloat(sel.Find(".tc-price").First().AttrOr("data-s", ""), 64)
	if err != nil {
		return PreviewOffer{}, fmt.Errorf("malformed data-s price on offer %d: %w", offerId, err)
	}

	avatar := sel.Find(".avatar-photo").First()
	sellerId, err := htmlutil.EntityID(avatar.AttrOr("data-href", ""), "users")
	if err != nil {
		return PreviewOffer{}, fmt.Errorf("malformed seller link on offer %d: %w", offerId, err)
	}
	reviewCount := 0
	if text := strings.TrimSpace(sel.Find(".rating-mini-count").Text()); text != "" {
		reviewCount, err = strconv.Atoi(text)
		if err != nil {
			return PreviewOffer{}, fmt.Errorf("malformed review count on offer %d: %w", offerId, err)
		}
	}

	return PreviewOffer{
		OfferId:          offerId,
		ShortDescription: strings.TrimSpace(sel.Find(".tc-desc-text").Text()),
		Price:            price,
		AutoDelivery:     sel.Find(".auto-dlv-icon").Length() > 0,
		Promo:            sel.Find(".promo-offer-icon").Length() > 0,
		Seller: PreviewSeller{
			UserId:      sellerId,
			Username:    strings.TrimSpace(sel.Find(".media-user-name").Text()),
			AvatarLink:  htmlutil.NormalizeAvatar(htmlutil.BackgroundImageURL(avatar.AttrOr("style", ""))),
			Online:      sel.Find(".media-user.online").Length() > 0,
			ReviewCount: reviewCount,
		},
	}, nil
}
