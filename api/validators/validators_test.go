package validators

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/karaoke-backend/pkg/errors"
)

type bookingBody struct {
	Name  string `json:"customer_name" validate:"required,max=10"`
	Phone string `json:"phone" validate:"required,phone"`
	Count int    `json:"num_people" validate:"required,min=1"`
}

func decode(t *testing.T, body string) (bookingBody, error) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	var dest bookingBody
	err := DecodeJSONBody(req, &dest)
	return dest, err
}

func requireValidation(t *testing.T, err error) *pkgerrors.Error {
	t.Helper()
	var typed *pkgerrors.Error
	require.True(t, errors.As(err, &typed))
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
	return typed
}

func TestDecodeJSONBodyAcceptsFormattedPhone(t *testing.T) {
	got, err := decode(t, `{"customer_name":"Lan","phone":"0909 123-456","num_people":2}`)
	require.NoError(t, err)
	require.Equal(t, "0909123456", NormalizePhone(got.Phone))
}

func TestDecodeJSONBodyRejects(t *testing.T) {
	cases := map[string]string{
		"empty":         ``,
		"unknown field": `{"customer_name":"Lan","phone":"0909123456","num_people":2,"vip":true}`,
		"trailing":      `{"customer_name":"Lan","phone":"0909123456","num_people":2}{}`,
		"short phone":   `{"customer_name":"Lan","phone":"12345","num_people":2}`,
		"letters":       `{"customer_name":"Lan","phone":"09091234ab","num_people":2}`,
		"missing count": `{"customer_name":"Lan","phone":"0909123456"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := decode(t, body)
			requireValidation(t, err)
		})
	}
}

func TestDecodeJSONBodyFieldMessages(t *testing.T) {
	_, err := decode(t, `{"customer_name":"","phone":"1","num_people":0}`)
	typed := requireValidation(t, err)
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	require.Equal(t, "is required", details["customer_name"])
	require.Contains(t, details["phone"], "8 to 15 digits")
}

func TestSanitizeStringIsRuneSafe(t *testing.T) {
	require.Equal(t, "Nguyễn Văn", SanitizeString("  Nguyễn   Văn  ", 0))
	require.Equal(t, "Nguyễn", SanitizeString("Nguyễn Văn An", 7))
	require.Equal(t, "Trà", SanitizeString("Trà đá", 3))
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=7", nil)
	v, err := ParseQueryInt(req, "limit", 5, 1, 50)
	require.NoError(t, err)
	require.Equal(t, 7, v)

	v, err = ParseQueryInt(httptest.NewRequest(http.MethodGet, "/", nil), "limit", 5, 1, 50)
	require.NoError(t, err)
	require.Equal(t, 5, v)

	_, err = ParseQueryInt(httptest.NewRequest(http.MethodGet, "/?limit=51", nil), "limit", 5, 1, 50)
	requireValidation(t, err)
	_, err = ParseQueryInt(httptest.NewRequest(http.MethodGet, "/?limit=x", nil), "limit", 5, 1, 50)
	requireValidation(t, err)
}

func TestQueryKeyword(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?q=+bia++tiger+", nil)
	require.Equal(t, "bia tiger", QueryKeyword(req, "q", 100))
}

func TestParsePathID(t *testing.T) {
	withParam := func(v string) *http.Request {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("billId", v)
		return httptest.NewRequest(http.MethodGet, "/", nil).WithContext(context.WithValue(context.Background(), chi.RouteCtxKey, rctx))
	}
	id, err := ParsePathID(withParam("42"), "billId")
	require.NoError(t, err)
	require.EqualValues(t, 42, id)

	for _, bad := range []string{"", "0", "-1", "abc"} {
		_, err := ParsePathID(withParam(bad), "billId")
		requireValidation(t, err)
	}
}
