package htmlutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	testCases := []struct {
		input    string
		expected float64
	}{
		{"от 1111.32 ₽", 1111.32},
		{"999 ₽", 999},
		{"$ 5.50", 5.5},
		{"0.01", 0.01},
	}

	for _, test := range testCases {
		price, err := ParsePrice(test.input)
		require.NoError(t, err)
		require.Equal(t, test.expected, price)
	}

	_, err := ParsePrice("бесплатно")
	require.Error(t, err)
}

func TestEntityID(t *testing.T) {
	testCases := []struct {
		href     string
		section  string
		expected int64
	}{
		{"https://funpay.com/lots/210/", "lots", 210},
		{"https://funpay.com/users/1940073/", "users", 1940073},
		{"/lots/149/", "lots", 149},
	}

	for _, test := range testCases {
		id, err := EntityID(test.href, test.section)
		require.NoError(t, err)
		require.Equal(t, test.expected, id)
	}

	_, err := EntityID("https://funpay.com/lots/abc/", "lots")
	require.Error(t, err)
	_, err = EntityID("https://funpay.com/chips/", "lots")
	require.Error(t, err)
}

func TestBackgroundImageURL(t *testing.T) {
	require.Equal(t,
		"https://sfunpay.com/s/avatar/6d/h3/6dh3m89zv8k90kwf.jpg",
		BackgroundImageURL("background-image: url(https://sfunpay.com/s/avatar/6d/h3/6dh3m89zv8k90kwf.jpg);"),
	)
	require.Equal(t,
		"/img/layout/avatar.png",
		BackgroundImageURL(`background-image: url("/img/layout/avatar.png");`),
	)
	require.Equal(t, "", BackgroundImageURL("color: red;"))
}

func TestNormalizeAvatar(t *testing.T) {
	require.Equal(t, "", NormalizeAvatar("/img/layout/avatar.png"))
	require.Equal(t, "https://sfunpay.com/s/avatar/x.jpg", NormalizeAvatar("https://sfunpay.com/s/avatar/x.jpg"))
}

func TestLeadingInt(t *testing.T) {
	count, err := LeadingInt("219 отзывов за 2 года")
	require.NoError(t, err)
	require.Equal(t, 219, count)

	_, err = LeadingInt("отзывов нет")
	require.Error(t, err)
}
