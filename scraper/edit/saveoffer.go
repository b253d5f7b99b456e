package edit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"funpay-client/scraper/core"

	"github.com/go-resty/resty/v2"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel/codes"
)

// staleSessionMsg is the literal message the server returns alongside a
// 400 when the csrf token / session cookie pair expired. Matching on a
// localized string is fragile, so the status code is checked as well.
const staleSessionMsg = "Обновите страницу и повторите попытку."

// CreateOffer describes a new offer to publish under a lot.
type CreateOffer struct {
	LotId              int64
	ShortDescriptionRu string
	ShortDescriptionEn string
	DescriptionRu      string
	DescriptionEn      string
	PaymentMessageRu   string
	PaymentMessageEn   string
	// Fields carries lot-specific form fields keyed by their raw names.
	Fields       map[string]string
	AutoDelivery bool
	Active       bool
	Secrets      []string
	ImageIds     []int64
	Price        *float64
	Amount       *int
}

// EditOffer carries the same payload as CreateOffer plus the id of the
// offer to replace.
type EditOffer struct {
	OfferId            int64
	LotId              int64
	ShortDescriptionRu string
	ShortDescriptionEn string
	DescriptionRu      string
	DescriptionEn      string
	PaymentMessageRu   string
	PaymentMessageEn   string
	Fields             map[string]string
	AutoDelivery       bool
	Active             bool
	Secrets            []string
	ImageIds           []int64
	Price              *float64
	Amount             *int
}

// DeleteOffer removes an offer. On the wire it is a save with the deleted
// flag set.
type DeleteOffer struct {
	OfferId int64
	LotId   int64
}

func (c Client) CreateOffer(ctx context.Context, cmd CreateOffer) error {
	return c.saveOffer(ctx, "create offer", SaveOfferRequest{
		NodeId:           cmd.LotId,
		SummaryRu:        cmd.ShortDescriptionRu,
		SummaryEn:        cmd.ShortDescriptionEn,
		DescRu:           cmd.DescriptionRu,
		DescEn:           cmd.DescriptionEn,
		PaymentMessageRu: cmd.PaymentMessageRu,
		PaymentMessageEn: cmd.PaymentMessageEn,
		Fields:           cmd.Fields,
		AutoDelivery:     cmd.AutoDelivery,
		Active:           cmd.Active,
		Secrets:          cmd.Secrets,
		Images:           cmd.ImageIds,
		Price:            cmd.Price,
		Amount:           cmd.Amount,
	})
}

func (c Client) EditOffer(ctx context.Context, cmd EditOffer) error {
	return c.saveOffer(ctx, "edit offer", SaveOfferRequest{
		OfferId:          cmd.OfferId,
		NodeId:           cmd.LotId,
		SummaryRu:        cmd.ShortDescriptionRu,
		SummaryEn:        cmd.ShortDescriptionEn,
		DescRu:           cmd.DescriptionRu,
		DescEn:           cmd.DescriptionEn,
		PaymentMessageRu: cmd.PaymentMessageRu,
		PaymentMessageEn: cmd.PaymentMessageEn,
		Fields:           cmd.Fields,
		AutoDelivery:     cmd.AutoDelivery,
		Active:           cmd.Active,
		Secrets:          cmd.Secrets,
		Images:           cmd.ImageIds,
		Price:            cmd.Price,
		Amount:           cmd.Amount,
	})
}

func (c Client) DeleteOffer(ctx context.Context, cmd DeleteOffer) error {
	return c.saveOffer(ctx, "delete offer", SaveOfferRequest{
		OfferId: cmd.OfferId,
		NodeId:  cmd.LotId,
		Deleted: true,
	})
}

// SaveOfferRequest is the transport-shaped projection shared by offer
// creation, editing and deletion. It is built right before the HTTP call
// and never stored.
type SaveOfferRequest struct {
	// OfferId is zero when creating.
	OfferId          int64
	NodeId           int64
	SummaryRu        string
	SummaryEn        string
	DescRu           string
	DescEn           string
	PaymentMessageRu string
	PaymentMessageEn string
	Fields           map[string]string
	AutoDelivery     bool
	Active           bool
	Deleted          bool
	Secrets          []string
	Images           []int64
	Price            *float64
	Amount           *int
}

// FormValues projects the request into the fixed multipart field set the
// save endpoint expects. The projection is pure: the same request and
// timestamp always produce the same fields.
func (r SaveOfferRequest) FormValues(csrfToken string, now time.Time) map[string]string {
	form := map[string]string{
		"csrf_token":              csrfToken,
		"offer_id":                "",
		"node_id":                 "",
		"deleted":                 "",
		"auto_delivery":           "",
		"active":                  "",
		"secrets":                 strings.Join(r.Secrets, "\n"),
		"images":                  "",
		"price":                   "",
		"amount":                  "",
		"form_created_at":         strconv.FormatInt(now.UnixMilli(), 10),
		"fields[summary][ru]":     r.SummaryRu,
		"fields[summary][en]":     r.SummaryEn,
		"fields[desc][ru]":        r.DescRu,
		"fields[desc][en]":        r.DescEn,
		"fields[payment_msg][ru]": r.PaymentMessageRu,
		"fields[payment_msg][en]": r.PaymentMessageEn,
	}
	if r.OfferId != 0 {
		form["offer_id"] = strconv.FormatInt(r.OfferId, 10)
	}
	if r.NodeId != 0 {
		form["node_id"] = strconv.FormatInt(r.NodeId, 10)
	}
	if r.Deleted {
		form["deleted"] = "1"
	}
	if r.AutoDelivery {
		form["auto_delivery"] = "on"
	}
	if r.Active {
		form["active"] = "on"
	}
	if len(r.Images) > 0 {
		form["images"] = strings.Join(lo.Map(r.Images, func(id int64, _ int) string {
			return strconv.FormatInt(id, 10)
		}), ",")
	}
	if r.Price != nil {
		form["price"] = strconv.FormatFloat(*r.Price, 'f', -1, 64)
	}
	if r.Amount != nil {
		form["amount"] = strconv.Itoa(*r.Amount)
	}
	for key, value := range r.Fields {
		// free-form fields may not shadow the fixed protocol fields, every
		// populated field maps to exactly one form field
		if _, fixed := form[key]; fixed {
			continue
		}
		form[key] = value
	}
	return form
}

func (c Client) saveOffer(ctx context.Context, op string, request SaveOfferRequest) error {
	ctx, span := tracer.Start(ctx, "client:saveOffer")
	defer span.End()

	err := c.withSessionRetry(ctx, op, func(ctx context.Context, session core.Session) error {
		res, err := c.Core.Http.R().
			SetContext(ctx).
			SetHeader("Cookie", c.Core.AuthCookie()).
			SetHeader("X-Requested-With", "XMLHttpRequest").
			SetMultipartFormData(request.FormValues(session.CsrfToken, time.Now())).
			Post("/lots/offerSave")
		if err != nil {
			return &core.ApiError{Op: op, Err: err}
		}
		return classifySaveResponse(op, res)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save failed")
	}
	return err
}

func classifySaveResponse(op string, res *resty.Response) error {
	if res.StatusCode() == http.StatusForbidden {
		return core.ErrInvalidGoldenKey
	}

	body := bytes.TrimSpace(res.Body())
	if len(body) == 0 {
		return nil
	}
	var payload struct {
		Done   bool            `json:"done"`
		Msg    string          `json:"msg"`
		Error  json.RawMessage `json:"error"`
		Errors json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return &core.ApiError{Op: op, Err: err}
	}

	if res.StatusCode() == http.StatusBadRequest && payload.Msg == staleSessionMsg {
		return core.ErrInvalidSession
	}
	if !payload.Done {
		return &core.ApiError{
			Op:  op,
			Err: fmt.Errorf("server rejected save: %s %s", payload.Error, payload.Errors),
		}
	}
	return nil
}
