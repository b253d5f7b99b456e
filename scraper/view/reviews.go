package view

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"funpay-client/lib/htmlutil"
	"funpay-client/scraper/core"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// SellerReview is one review on a seller. Sender is nil unless the page
// exposes the reviewer's identity (the site only does so for the account's
// own reviews).
type SellerReview struct {
	GameTitle   string
	Price       float64
	Text        string
	Stars       int
	SellerReply string
	Sender      *ReviewSender
}

// ReviewSender identifies who left a review. CreatedAt is kept as the
// site's raw human-readable text.
type ReviewSender struct {
	Username   string
	AvatarLink string
	OrderId    string
	CreatedAt  string
}

type SellerReviewsQuery struct {
	UserId int64
	// Pages is the maximum number of continuation pages to fetch; fetching
	// stops early when a page yields no continuation token.
	Pages int
	// Stars filters reviews by rating, 0 means no filter.
	Stars int
}

func (c Client) SellerReviews(ctx context.Context, query SellerReviewsQuery) ([]SellerReview, error) {
	ctx, span := tracer.Start(ctx, "client:SellerReviews")
	defer span.End()
	span.SetAttributes(attribute.Int64("user_id", query.UserId))

	starsFilter := ""
	if query.Stars > 0 {
		starsFilter = strconv.Itoa(query.Stars)
	}

	var reviews []SellerReview
	continueToken := ""

	for page := 0; page < query.Pages; page++ {
		res, err := c.request(ctx).
			SetHeader("X-Requested-With", "XMLHttpRequest").
			SetMultipartFormData(map[string]string{
				"user_id":  strconv.FormatInt(query.UserId, 10),
				"filter":   starsFilter,
				"continue": continueToken,
			}).
			Post("/users/reviews")
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to fetch reviews page")
			return nil, &core.ApiError{Op: "fetch seller reviews", Err: err}
		}
		if res.StatusCode() == http.StatusNotFound {
			span.SetStatus(codes.Error, "user does not exist or is not a seller")
			return nil, &core.NotFoundError{Kind: "user", ID: query.UserId}
		}

		doc, err := parseDocument(res)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to parse html")
			return nil, &core.ApiError{Op: "parse seller reviews", Err: err}
		}
		pageReviews, err := parseReviews(doc.Selection)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to extract reviews")
			return nil, &core.ApiError{Op: "parse seller reviews", Err: err}
		}
		reviews = append(reviews, pageReviews...)

		continueToken = continuationToken(doc)
		if continueToken == "" {
			break
		}
	}

	return reviews, nil
}

// continuationToken pulls the opaque next-page value out of the hidden
// pagination form, empty when this was the last page.
func continuationToken(doc *goquery.Document) string {
	form := doc.Find(".dyn-table-form").First()
	if form.Length() == 0 {
		return ""
	}
	inputs := form.Find("input")
	if inputs.Length() < 2 {
		return ""
	}
	return inputs.Eq(1).AttrOr("value", "")
}

// orderIdFromHref recovers the opaque order code from links like
// "https://funpay.com/orders/ABCD1234/".
func orderIdFromHref(href string) string {
	trimmed := strings.Trim(href, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return ""
}

func parseReviews(root *goquery.Selection) ([]SellerReview, error) {
	var reviews []SellerReview
	var firstErr error

	root.Find(".review-container").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		review, err := parseReview(sel)
		if err != nil {
			firstErr = err
			return false
		}
		reviews = append(reviews, review)
		return true
	})

	return reviews, firstErr
}

func parseReview(sel *goquery.Selection) (SellerReview, error) {
	compiled := sel.Find(".review-compiled-review").First()

	detail := strings.Split(compiled.Find(".review-item-detail").Text(), ", ")
	price, err := htmlutil.ParsePrice(detail[len(detail)-1])
	if err != nil {
		return SellerReview{}, err
	}

	review := SellerReview{
		GameTitle:   strings.TrimSpace(detail[0]),
		Price:       price,
		Text:        strings.TrimSpace(compiled.Find(".review-item-text").Text()),
		SellerReply: strings.TrimSpace(sel.Find(".review-compiled-reply").First().Find("div").First().Text()),
	}

	if rating := compiled.Find(".rating").First(); rating.Length() > 0 {
		class := rating.Children().First().AttrOr("class", "")
		review.Stars, err = strconv.Atoi(strings.TrimPrefix(class, "rating"))
		if err != nil {
			return SellerReview{}, err
		}
	}

	if username := strings.TrimSpace(compiled.Find(".media-user-name").First().Text()); username != "" {
		review.Sender = &ReviewSender{
			Username:   username,
			AvatarLink: htmlutil.NormalizeAvatar(htmlutil.BackgroundImageURL(compiled.Find(".avatar-photo").First().AttrOr("style", ""))),
			OrderId:    orderIdFromHref(compiled.Find(".review-item-order").First().Find("a").First().AttrOr("href", "")),
			CreatedAt:  strings.TrimSpace(compiled.Find(".review-item-date").First().Text()),
		}
	}

	return review, nil
}
