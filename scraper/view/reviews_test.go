package view

import (
	"context"
	"net/http"
	"testing"

	"funpay-client/scraper/core"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func reviewsHandler(t *testing.T, requests *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*requests++
		require.Equal(t, "/users/reviews", r.URL.Path)
		require.Equal(t, "XMLHttpRequest", r.Header.Get("X-Requested-With"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "1940073", r.FormValue("user_id"))

		switch r.FormValue("continue") {
		case "":
			w.Write(fixture(t, "reviews_page1.html"))
		case "token-page-2":
			w.Write(fixture(t, "reviews_page2.html"))
		default:
			t.Errorf("unexpected continuation token %q", r.FormValue("continue"))
		}
	})
}

func TestSellerReviews(t *testing.T) {
	requests := 0
	client := newTestClient(t, reviewsHandler(t, &requests), core.ClientOptions{})

	reviews, err := client.SellerReviews(context.Background(), SellerReviewsQuery{
		UserId: 1940073,
		Pages:  5,
	})
	require.NoError(t, err)
	// the second page has no continuation form, the loop stops there even
	// though more pages were allowed
	require.Equal(t, 2, requests)

	want := []SellerReview{
		{
			GameTitle:   "Dota 2",
			Price:       1111.32,
			Text:        "Всё отлично, аккаунт отдали быстро",
			Stars:       5,
			SellerReply: "Спасибо за отзыв!",
			Sender: &ReviewSender{
				Username:  "quenstin",
				OrderId:   "ABCD1234",
				CreatedAt: "2 года назад",
			},
		},
		{
			GameTitle: "Counter-Strike 2",
			Price:     250,
			Text:      "Норм",
			Stars:     4,
		},
	}
	require.Empty(t, cmp.Diff(want, reviews))
}

func TestSellerReviewsPageLimit(t *testing.T) {
	requests := 0
	client := newTestClient(t, reviewsHandler(t, &requests), core.ClientOptions{})

	reviews, err := client.SellerReviews(context.Background(), SellerReviewsQuery{
		UserId: 1940073,
		Pages:  1,
	})
	require.NoError(t, err)
	require.Equal(t, 1, requests)
	require.Len(t, reviews, 1)
}

func TestSellerReviewsStarsFilter(t *testing.T) {
	var gotFilter string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotFilter = r.FormValue("filter")
		w.Write(fixture(t, "reviews_page2.html"))
	}), core.ClientOptions{})

	_, err := client.SellerReviews(context.Background(), SellerReviewsQuery{
		UserId: 1940073,
		Pages:  1,
		Stars:  5,
	})
	require.NoError(t, err)
	require.Equal(t, "5", gotFilter)
}

func TestSellerReviewsNotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}), core.ClientOptions{})

	_, err := client.SellerReviews(context.Background(), SellerReviewsQuery{UserId: 1, Pages: 1})
	var notFound *core.NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "user", notFound.Kind)
}

func TestOrderIdFromHref(t *testing.T) {
	require.Equal(t, "ABCD1234", orderIdFromHref("https://funpay.com/orders/ABCD1234/"))
	require.Equal(t, "ABCD1234", orderIdFromHref("/orders/ABCD1234"))
	require.Equal(t, "", orderIdFromHref(""))
}
