package edit

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestFormValues(t *testing.T) {
	price := 100.5
	amount := 10
	request := SaveOfferRequest{
		OfferId:      33502824,
		NodeId:       149,
		SummaryRu:    "тестовое предложение",
		SummaryEn:    "test offer",
		DescRu:       "подробное описание",
		Fields:       map[string]string{"fields[type]": "Аккаунты"},
		AutoDelivery: true,
		Active:       true,
		Secrets:      []string{"key-1", "key-2"},
		Images:       []int64{101, 102},
		Price:        &price,
		Amount:       &amount,
	}
	now := time.Date(2024, 10, 12, 18, 0, 0, 0, time.UTC)

	form := request.FormValues("csrf123", now)
	want := map[string]string{
		"csrf_token":              "csrf123",
		"offer_id":                "33502824",
		"node_id":                 "149",
		"deleted":                 "",
		"auto_delivery":           "on",
		"active":                  "on",
		"secrets":                 "key-1\nkey-2",
		"images":                  "101,102",
		"price":                   "100.5",
		"amount":                  "10",
		"form_created_at":         "1728756000000",
		"fields[summary][ru]":     "тестовое предложение",
		"fields[summary][en]":     "test offer",
		"fields[desc][ru]":        "подробное описание",
		"fields[desc][en]":        "",
		"fields[payment_msg][ru]": "",
		"fields[payment_msg][en]": "",
		"fields[type]":            "Аккаунты",
	}
	require.Empty(t, cmp.Diff(want, form))

	// the projection is pure, the same inputs map to the same fields
	require.Empty(t, cmp.Diff(form, request.FormValues("csrf123", now)))
}

func TestFormValuesDelete(t *testing.T) {
	form := SaveOfferRequest{OfferId: 5, NodeId: 149, Deleted: true}.FormValues("csrf123", time.Now())
	require.Equal(t, "1", form["deleted"])
	require.Equal(t, "5", form["offer_id"])
	require.Equal(t, "", form["price"])
	require.Equal(t, "", form["amount"])
}

func TestFormValuesFieldsCannotShadowFixedFields(t *testing.T) {
	price := 100.5
	form := SaveOfferRequest{
		NodeId: 149,
		Price:  &price,
		Fields: map[string]string{
			"csrf_token":          "forged",
			"price":               "0",
			"deleted":             "1",
			"fields[summary][ru]": "shadowed",
			"fields[type]":        "Аккаунты",
		},
	}.FormValues("csrf123", time.Now())

	require.Equal(t, "csrf123", form["csrf_token"])
	require.Equal(t, "100.5", form["price"])
	require.Equal(t, "", form["deleted"])
	require.Equal(t, "", form["fields[summary][ru]"])
	// keys outside the fixed set still pass through
	require.Equal(t, "Аккаунты", form["fields[type]"])
}

func TestFormValuesCreateOmitsOfferId(t *testing.T) {
	form := SaveOfferRequest{NodeId: 149}.FormValues("csrf123", time.Now())
	require.Equal(t, "", form["offer_id"])
	require.Equal(t, "149", form["node_id"])
}
