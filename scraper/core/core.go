package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"funpay-client/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("funpay/core")

const DefaultBaseUrl = "https://funpay.com"

const sessionCookieName = "PHPSESSID"

// Session is the short-lived token pair required to authorize mutating
// form submissions. It is replaced wholesale on every refresh, never
// patched field by field.
type Session struct {
	CsrfToken string
	SessionID string
}

func (s Session) Ready() bool {
	return s.CsrfToken != "" && s.SessionID != ""
}

// Client owns the HTTP transport and the credential/session state shared
// by the view and edit layers. One client serves one account; refreshing
// the session from multiple goroutines at once is not supported.
type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client

	goldenKey string
	session   Session
}

type ClientOptions struct {
	// BaseUrl of the target site, DefaultBaseUrl if empty.
	BaseUrl string
	// Proxy is an optional outbound proxy URL.
	Proxy string
	// GoldenKey is the long-lived account credential. Optional, but
	// required for the edit client and for authorized reads.
	GoldenKey string
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	if opts.Proxy != "" {
		client.SetProxy(opts.Proxy)
	}
	// the site sits behind cloudflare
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 30)

	restyutil.InstrumentClient(client, "funpay")

	c := &Client{
		BaseUrl:   baseUrl,
		Http:      client,
		goldenKey: opts.GoldenKey,
	}
	return c, nil
}

func (c *Client) GoldenKey() string {
	return c.goldenKey
}

// Session returns the current in-memory token pair, which may be unset.
func (c *Client) Session() Session {
	return c.session
}

// AuthCookie composes the Cookie header value for authorized requests:
// the golden key alone until a session exists, then both.
func (c *Client) AuthCookie() string {
	cookie := "golden_key=" + c.goldenKey
	if c.session.Ready() {
		cookie += "; " + sessionCookieName + "=" + c.session.SessionID
	}
	return cookie
}

// RefreshSession fetches an authenticated page with only the golden key
// and scrapes a fresh csrf token and session cookie out of it. The stored
// session is only replaced when both values were obtained.
func (c *Client) RefreshSession(ctx context.Context) (Session, error) {
	ctx, span := tracer.Start(ctx, "client:RefreshSession")
	defer span.End()

	if c.goldenKey == "" {
		err := fmt.Errorf("refreshing the session requires a golden key")
		span.SetStatus(codes.Error, err.Error())
		return Session{}, err
	}

	res, err := c.Http.R().
		SetContext(ctx).
		SetHeader("Cookie", "golden_key="+c.goldenKey).
		Get("/")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch authenticated page")
		return Session{}, &ApiError{Op: "refresh session", Err: err}
	}
	if res.StatusCode() == http.StatusForbidden {
		span.SetStatus(codes.Error, ErrInvalidGoldenKey.Error())
		return Session{}, ErrInvalidGoldenKey
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return Session{}, &ApiError{Op: "refresh session", Err: err}
	}

	appData := doc.Find("body").AttrOr("data-app-data", "")
	if appData == "" {
		err := fmt.Errorf("page carries no data-app-data attribute")
		span.SetStatus(codes.Error, err.Error())
		return Session{}, &ApiError{Op: "refresh session", Err: err}
	}
	var page struct {
		CsrfToken string `json:"csrf-token"`
	}
	if err := json.Unmarshal([]byte(appData), &page); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to unmarshal app data")
		return Session{}, &ApiError{Op: "refresh session", Err: err}
	}
	if page.CsrfToken == "" {
		err := fmt.Errorf("app data carries no csrf token")
		span.SetStatus(codes.Error, err.Error())
		return Session{}, &ApiError{Op: "refresh session", Err: err}
	}

	sessionID := ""
	for _, cookie := range res.Cookies() {
		if cookie.Name == sessionCookieName {
			sessionID = cookie.Value
		}
	}
	if sessionID == "" {
		err := fmt.Errorf("response set no %s cookie", sessionCookieName)
		span.SetStatus(codes.Error, err.Error())
		return Session{}, &ApiError{Op: "refresh session", Err: err}
	}

	c.session = Session{CsrfToken: page.CsrfToken, SessionID: sessionID}
	return c.session, nil
}
