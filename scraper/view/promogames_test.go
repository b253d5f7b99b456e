package view

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"funpay-client/scraper/core"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const promoFragment = `
<div class="promo-games">
  <div class="game-title"><a href="https://funpay.com/lots/149/">Dota 2</a></div>
  <ul class="list-inline">
    <li><a href="https://funpay.com/lots/149/">Аккаунты</a></li>
    <li><a href="https://funpay.com/lots/150/">Ключи</a></li>
  </ul>
</div>
<div class="promo-games">
  <div class="game-title"><a href="https://funpay.com/chips/81/">Чипы Dota 2</a></div>
</div>`

func TestPromoGames(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/games/promoFilter", r.URL.Path)
		require.Equal(t, "XMLHttpRequest", r.Header.Get("X-Requested-With"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "dota", r.FormValue("query"))

		require.NoError(t, json.NewEncoder(w).Encode(map[string]string{"html": promoFragment}))
	}), core.ClientOptions{})

	games, err := client.PromoGames(context.Background(), "dota")
	require.NoError(t, err)

	want := []PromoGame{
		{
			LotId: 149,
			Title: "Dota 2",
			Counters: []PromoGameCounter{
				// the game's own link is not repeated as a counter
				{LotId: 150, Title: "Ключи"},
			},
		},
	}
	require.Empty(t, cmp.Diff(want, games))
}

func TestPromoGamesMalformedEnvelope(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}), core.ClientOptions{})

	_, err := client.PromoGames(context.Background(), "dota")
	var apiErr *core.ApiError
	require.ErrorAs(t, err, &apiErr)
}
