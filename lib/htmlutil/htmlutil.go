package htmlutil

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var nonPrice = regexp.MustCompile(`[^0-9.]`)

// ParsePrice recovers the numeral from a free-text price string like
// "от 1111.32 ₽", discarding currency symbols and locale text.
func ParsePrice(s string) (float64, error) {
	stripped := nonPrice.ReplaceAllString(s, "")
	if stripped == "" {
		return 0, fmt.Errorf("no numeral in price string %q", s)
	}
	price, err := strconv.ParseFloat(stripped, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed price string %q: %w", s, err)
	}
	return price, nil
}

// EntityID extracts the numeric id that follows `section` in the path of
// href, e.g. EntityID("https://funpay.com/lots/210/", "lots") == 210.
func EntityID(href, section string) (int64, error) {
	link, err := url.Parse(href)
	if err != nil {
		return 0, err
	}
	segments := strings.Split(strings.Trim(link.Path, "/"), "/")
	for i, segment := range segments {
		if segment != section || i+1 >= len(segments) {
			continue
		}
		id, err := strconv.ParseInt(segments[i+1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("non-numeric id after /%s/ in %q", section, href)
		}
		return id, nil
	}
	return 0, fmt.Errorf("no /%s/<id> fragment in %q", section, href)
}

var backgroundImage = regexp.MustCompile(`background-image:\s*url\(['"]?(.*?)['"]?\);?`)

// BackgroundImageURL pulls the image link out of an inline
// style="background-image: url(...);" attribute.
func BackgroundImageURL(style string) string {
	groups := backgroundImage.FindStringSubmatch(style)
	if len(groups) < 2 {
		return ""
	}
	return groups[1]
}

const defaultAvatarPath = "/img/layout/avatar.png"

// NormalizeAvatar maps the site's placeholder avatar to the empty string,
// keeping real links as-is.
func NormalizeAvatar(link string) string {
	if link == defaultAvatarPath {
		return ""
	}
	return link
}

var leadingDigits = regexp.MustCompile(`^\d+`)

// LeadingInt parses the digit prefix of strings like "219 отзывов за 2 года".
func LeadingInt(s string) (int, error) {
	digits := leadingDigits.FindString(strings.TrimSpace(s))
	if digits == "" {
		return 0, fmt.Errorf("no leading integer in %q", s)
	}
	return strconv.Atoi(digits)
}
