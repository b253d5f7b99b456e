package view

import (
	"embed"
	"net/http"
	"net/http/httptest"
	"testing"

	"funpay-client/scraper/core"

	"github.com/stretchr/testify/require"
)

//go:embed testdata
var fixtures embed.FS

func fixture(t *testing.T, name string) []byte {
	data, err := fixtures.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return data
}

func newTestClient(t *testing.T, handler http.Handler, options core.ClientOptions) Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	options.BaseUrl = server.URL
	coreClient, err := core.NewClient(options)
	require.NoError(t, err)
	return NewClient(coreClient)
}
