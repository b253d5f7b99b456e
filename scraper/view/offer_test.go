package view

import (
	"context"
	"net/http"
	"testing"

	"funpay-client/scraper/core"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestOffer(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/lots/offer", r.URL.Path)
		require.Equal(t, "33502824", r.URL.Query().Get("id"))
		w.Write(fixture(t, "offer.html"))
	}), core.ClientOptions{})

	offer, err := client.Offer(context.Background(), 33502824)
	require.NoError(t, err)

	want := Offer{
		Id:                  33502824,
		ShortDescription:    "Аккаунт 3000 MMR, родная почта",
		DetailedDescription: "Аккаунт создан в 2016, кален 3000, есть инвентарь.",
		AutoDelivery:        true,
		Price:               1111.32,
		AttachmentLinks: []string{
			"https://sfunpay.com/s/attachment/1.jpg",
			"https://sfunpay.com/s/attachment/2.jpg",
		},
		Parameters: map[string]string{
			"Сервер":  "Europe West",
			"Рейтинг": "3000",
		},
		Seller: PreviewSeller{
			UserId:      1940073,
			Username:    "willyblaise",
			AvatarLink:  "https://sfunpay.com/s/avatar/5x/qd/photo.jpg",
			Online:      true,
			ReviewCount: 219,
		},
	}
	require.Empty(t, cmp.Diff(want, offer))
}

func TestOfferNotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(fixture(t, "notfound.html"))
	}), core.ClientOptions{})

	_, err := client.Offer(context.Background(), 1)
	var notFound *core.NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "offer", notFound.Kind)
}
