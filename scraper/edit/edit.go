// Package edit executes the mutating commands: avatar updates, offer
// raises, offer upserts and image uploads. Commands that submit forms run
// under a bounded refresh-and-replay protocol for the session token pair.
package edit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"funpay-client/scraper/core"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("funpay/edit")

type Client struct {
	Core *core.Client
}

func NewClient(coreClient *core.Client) (Client, error) {
	if coreClient.GoldenKey() == "" {
		return Client{}, fmt.Errorf("mutating commands require a client with a golden key")
	}
	return Client{Core: coreClient}, nil
}

// withSessionRetry runs send with a ready session. A stale-session
// rejection triggers exactly one refresh and one replay; a second
// rejection is terminal. Credential and domain rejections pass through
// untouched, retrying cannot fix those.
func (c Client) withSessionRetry(ctx context.Context, op string, send func(ctx context.Context, session core.Session) error) error {
	session := c.Core.Session()
	if !session.Ready() {
		var err error
		session, err = c.Core.RefreshSession(ctx)
		if err != nil {
			return err
		}
	}

	err := send(ctx, session)
	if !errors.Is(err, core.ErrInvalidSession) {
		return err
	}

	session, err = c.Core.RefreshSession(ctx)
	if err != nil {
		return err
	}
	err = send(ctx, session)
	if errors.Is(err, core.ErrInvalidSession) {
		return &core.ApiError{Op: op, Err: fmt.Errorf("session rejected again after a refresh: %w", err)}
	}
	return err
}

// UpdateAvatar replaces the account avatar.
func (c Client) UpdateAvatar(ctx context.Context, image []byte) error {
	ctx, span := tracer.Start(ctx, "client:UpdateAvatar")
	defer span.End()

	res, err := c.Core.Http.R().
		SetContext(ctx).
		SetHeader("Cookie", c.Core.AuthCookie()).
		SetHeader("X-Requested-With", "XMLHttpRequest").
		SetFileReader("file", "image.jpg", bytes.NewReader(image)).
		Post("/file/avatar")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to upload avatar")
		return &core.ApiError{Op: "update avatar", Err: err}
	}
	if res.StatusCode() == http.StatusForbidden {
		span.SetStatus(codes.Error, core.ErrInvalidGoldenKey.Error())
		return core.ErrInvalidGoldenKey
	}
	return nil
}

// RaiseAllOffers bumps every offer of a lot back to the top of its
// listing.
type RaiseAllOffers struct {
	GameId int64
	LotId  int64
}

func (c Client) RaiseAllOffers(ctx context.Context, cmd RaiseAllOffers) error {
	ctx, span := tracer.Start(ctx, "client:RaiseAllOffers")
	defer span.End()

	res, err := c.Core.Http.R().
		SetContext(ctx).
		SetHeader("Cookie", c.Core.AuthCookie()).
		SetHeader("X-Requested-With", "XMLHttpRequest").
		SetMultipartFormData(map[string]string{
			"game_id": strconv.FormatInt(cmd.GameId, 10),
			"node_id": strconv.FormatInt(cmd.LotId, 10),
		}).
		Post("/lots/raise")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to post raise")
		return &core.ApiError{Op: "raise offers", Err: err}
	}
	if res.StatusCode() == http.StatusForbidden {
		span.SetStatus(codes.Error, core.ErrInvalidGoldenKey.Error())
		return core.ErrInvalidGoldenKey
	}

	var payload struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(res.Body(), &payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to unmarshal raise response")
		return &core.ApiError{Op: "raise offers", Err: err}
	}
	// the cooldown rejection is only distinguishable by its message
	if strings.HasPrefix(payload.Msg, "Подождите") {
		span.SetStatus(codes.Error, "offers already raised")
		return &core.OfferAlreadyRaisedError{Msg: payload.Msg}
	}
	return nil
}

// CreateOfferImage uploads an image for later use in an offer and returns
// the generated image id.
func (c Client) CreateOfferImage(ctx context.Context, image []byte) (int64, error) {
	ctx, span := tracer.Start(ctx, "client:CreateOfferImage")
	defer span.End()

	res, err := c.Core.Http.R().
		SetContext(ctx).
		SetHeader("Cookie", c.Core.AuthCookie()).
		SetHeader("X-Requested-With", "XMLHttpRequest").
		SetFileReader("file", "image.jpg", bytes.NewReader(image)).
		Post("/file/addOfferImage")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to upload image")
		return 0, &core.ApiError{Op: "create offer image", Err: err}
	}
	if res.StatusCode() == http.StatusForbidden {
		span.SetStatus(codes.Error, core.ErrInvalidGoldenKey.Error())
		return 0, core.ErrInvalidGoldenKey
	}

	var payload struct {
		FileId *int64 `json:"fileId"`
	}
	if err := json.Unmarshal(res.Body(), &payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to unmarshal upload response")
		return 0, &core.ApiError{Op: "create offer image", Err: err}
	}
	if payload.FileId == nil {
		err := fmt.Errorf("upload response carries no fileId")
		span.SetStatus(codes.Error, err.Error())
		return 0, &core.ApiError{Op: "create offer image", Err: err}
	}
	return *payload.FileId, nil
}
