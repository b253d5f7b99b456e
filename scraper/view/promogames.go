package view

import (
	"context"
	"encoding/json"
	"strings"

	"funpay-client/lib/htmlutil"
	"funpay-client/scraper/core"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

// PromoGame is one entry of the promoted-games search results.
type PromoGame struct {
	LotId    int64
	Title    string
	Counters []PromoGameCounter
}

type PromoGameCounter struct {
	LotId int64
	Title string
}

// PromoGames searches promoted games. The endpoint answers with a JSON
// envelope whose html field carries the rendered fragment to extract from.
func (c Client) PromoGames(ctx context.Context, query string) ([]PromoGame, error) {
	ctx, span := tracer.Start(ctx, "client:PromoGames")
	defer span.End()

	res, err := c.request(ctx).
		SetHeader("X-Requested-With", "XMLHttpRequest").
		SetMultipartFormData(map[string]string{"query": query}).
		Post("/games/promoFilter")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch promo games")
		return nil, &core.ApiError{Op: "fetch promo games", Err: err}
	}

	var envelope struct {
		Html string `json:"html"`
	}
	if err := json.Unmarshal(res.Body(), &envelope); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to unmarshal envelope")
		return nil, &core.ApiError{Op: "parse promo games", Err: err}
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(envelope.Html))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html fragment")
		return nil, &core.ApiError{Op: "parse promo games", Err: err}
	}

	var games []PromoGame
	var firstErr error
	doc.Find(".promo-games").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		game, ok, err := parsePromoGame(sel)
		if err != nil {
			firstErr = err
			return false
		}
		if ok {
			games = append(games, game)
		}
		return true
	})
	if firstErr != nil {
		span.RecordError(firstErr)
		span.SetStatus(codes.Error, "failed to extract promo game")
		return nil, &core.ApiError{Op: "parse promo games", Err: firstErr}
	}

	return games, nil
}

func parsePromoGame(sel *goquery.Selection) (PromoGame, bool, error) {
	titleLink := sel.Find(".game-title").First().Find("a").First()
	href := titleLink.AttrOr("href", "")
	// chips are not supported yet
	if strings.Contains(href, "chips") {
		return PromoGame{}, false, nil
	}
	lotId, err := htmlutil.EntityID(href, "lots")
	if err != nil {
		return PromoGame{}, false, err
	}

	game := PromoGame{
		LotId: lotId,
		Title: strings.TrimSpace(titleLink.Text()),
	}

	var counterErr error
	sel.Find(".list-inline li").EachWithBreak(func(_ int, li *goquery.Selection) bool {
		counterLink := li.Find("a").First()
		counterLotId, err := htmlutil.EntityID(counterLink.AttrOr("href", ""), "lots")
		if err != nil {
			counterErr = err
			return false
		}
		if counterLotId == lotId {
			return true
		}
		game.Counters = append(game.Counters, PromoGameCounter{
			LotId: counterLotId,
			Title: strings.TrimSpace(counterLink.Text()),
		})
		return true
	})

	return game, counterErr == nil, counterErr
}
