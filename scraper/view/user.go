package view

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"funpay-client/lib/htmlutil"
	"funpay-client/lib/rudate"
	"funpay-client/scraper/core"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

// UserProfile is a profile-page snapshot. Seller is nil for plain users;
// the site renders an aggregate block only for accounts that sell, and its
// presence is what decides the variant.
type UserProfile struct {
	Id           int64
	Username     string
	AvatarLink   string
	Online       bool
	Badges       []string
	RegisteredAt time.Time
	// LastSeenAt is zero when the site gives no parseable value.
	LastSeenAt time.Time
	Seller     *SellerStats
}

// SellerStats is the aggregate block present on seller profiles.
type SellerStats struct {
	Rating        float64
	ReviewCount   int
	PreviewOffers []PreviewOffer
	LastReviews   []SellerReview
}

func (c Client) User(ctx context.Context, userId int64) (UserProfile, error) {
	ctx, span := tracer.Start(ctx, "client:User")
	defer span.End()

	res, err := c.request(ctx).Get(fmt.Sprintf("/users/%d/", userId))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch profile page")
		return UserProfile{}, &core.ApiError{Op: "fetch user", Err: err}
	}
	doc, err := parseDocument(res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return UserProfile{}, &core.ApiError{Op: "parse user", Err: err}
	}
	if pageNotFound(doc) {
		span.SetStatus(codes.Error, "user does not exist")
		return UserProfile{}, &core.NotFoundError{Kind: "user", ID: userId}
	}

	now := time.Now()
	profile := doc.Find(".profile").First()
	header := doc.Find(".container.profile-header").First()

	user := UserProfile{
		Id:         userId,
		Username:   strings.TrimSpace(profile.Find(".mr4").First().Text()),
		AvatarLink: htmlutil.NormalizeAvatar(htmlutil.BackgroundImageURL(header.Find(".avatar-photo").First().AttrOr("style", ""))),
		Online:     profile.Find(".mb40.online").Length() > 0,
	}
	profile.Find(".user-badges").First().Children().Each(func(_ int, sel *goquery.Selection) {
		user.Badges = append(user.Badges, strings.TrimSpace(sel.Text()))
	})

	registeredText := strings.TrimSpace(profile.Find(".text-nowrap").First().Text())
	user.RegisteredAt, err = rudate.ParseRegisterDate(registeredText, now)
	if err != nil {
		// accounts created moments ago render a phrase with no date yet
		user.RegisteredAt = now
	}
	user.LastSeenAt = parseLastSeenAt(profile, user.RegisteredAt, now)

	// the presence of the aggregate block is what makes a profile a seller
	sellerBlock := doc.Find(".param-item.mb10").First()
	if sellerBlock.Length() > 0 {
		stats, err := parseSellerStats(doc, sellerBlock, user)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to extract seller stats")
			return UserProfile{}, &core.ApiError{Op: "parse user", Err: err}
		}
		user.Seller = stats
	}

	return user, nil
}

func parseLastSeenAt(profile *goquery.Selection, registeredAt, now time.Time) time.Time {
	status := strings.TrimSpace(profile.Find(".media-user-status").First().Text())
	switch {
	case status == "":
		return time.Time{}
	case strings.Contains(status, "После регистрации на сайт не заходил"):
		return registeredAt
	case strings.Contains(status, "Онлайн"):
		return now
	}
	lastSeen, err := rudate.ParseLastSeen(status, now)
	if err != nil {
		return time.Time{}
	}
	return lastSeen
}

func parseSellerStats(doc *goquery.Document, block *goquery.Selection, user UserProfile) (*SellerStats, error) {
	stats := &SellerStats{}

	ratingText := strings.TrimSpace(block.Find(".big").First().Text())
	if ratingText != "?" {
		rating, err := strconv.ParseFloat(ratingText, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed seller rating %q: %w", ratingText, err)
		}
		stats.Rating = rating
	}
	reviewCount, err := htmlutil.LeadingInt(block.Find(".text-mini.text-light.mb5").First().Text())
	if err != nil {
		return nil, err
	}
	stats.ReviewCount = reviewCount

	var offerErr error
	doc.Find(".tc-item").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		offer, err := parseProfileOffer(sel, user, reviewCount)
		if err != nil {
			offerErr = err
			return false
		}
		stats.PreviewOffers = append(stats.PreviewOffers, offer)
		return true
	})
	if offerErr != nil {
		return nil, offerErr
	}

	stats.LastReviews, err = parseReviews(doc.Selection)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// parseProfileOffer extracts an offer row from a profile page. The seller
// identity is the profile's own; the promo flag is not rendered there.
func parseProfileOffer(sel *goquery.Selection, user UserProfile, reviewCount int) (PreviewOffer, error) {
	href := sel.AttrOr("href", "")
	link, err := url.Parse(href)
	if err != nil {
		return PreviewOffer{}, err
	}
	offerId, err := strconv.ParseInt(link.Query().Get("id"), 10, 64)
	if err != nil {
		return PreviewOffer{}, fmt.Errorf("malformed offer link %q: %w", href, err)
	}
	priceEl := sel.Find(".tc-price").First()
	price, err := strconv.ParseFloat(priceEl.AttrOr("data-s", ""), 64)
	if err != nil {
		return PreviewOffer{}, fmt.Errorf("malformed data-s price on offer %d: %w", offerId, err)
	}
	return PreviewOffer{
		OfferId:          offerId,
		ShortDescription: strings.TrimSpace(sel.Find(".tc-desc-text").Text()),
		Price:            price,
		AutoDelivery:     priceEl.Find(".auto-dlv-icon").Length() > 0,
		Seller: PreviewSeller{
			UserId:      user.Id,
			Username:    user.Username,
			AvatarLink:  user.AvatarLink,
			Online:      user.Online,
			ReviewCount: reviewCount,
		},
	}, nil
}
