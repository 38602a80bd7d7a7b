package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Currency  string `json:"currency" validate:"required"`
	Frequency string `json:"frequency" default:"daily" validate:"oneof=daily weekly monthly"`
	StartDate string `json:"startDate" validate:"required,isodate"`
}

func newContext(body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestReadAndValidateRequest(t *testing.T) {
	c, _ := newContext(`{"currency":"EURUSD","startDate":"2019-01-02"}`)
	var req sampleRequest
	require.Nil(t, ReadAndValidateRequest(c, &req))
	assert.Equal(t, "daily", req.Frequency)

	c, _ = newContext(`{"frequency":"hourly","startDate":"yesterday"}`)
	verrs := ReadAndValidateRequest(c, &sampleRequest{})
	require.Len(t, verrs, 3)
	fields := map[string]string{}
	for _, v := range verrs {
		fields[v.Field] = v.Code
	}
	assert.Equal(t, "ERR_REQUIRED", fields["currency"])
	assert.Equal(t, "ERR_ONEOF", fields["frequency"])
	assert.Equal(t, "ERR_ISODATE", fields["startDate"])

	c, _ = newContext(`{"currency":`)
	verrs = ReadAndValidateRequest(c, &sampleRequest{})
	require.Len(t, verrs, 1)
	assert.Equal(t, "ERR_UNKNOWN", verrs[0].Code)
}

func TestAppErrorResponse(t *testing.T) {
	c, rec := newContext("")
	appErr := NewAppError("ERR_DATA_TOO_SHORT", "", "not enough data", http.StatusInternalServerError).
		WithError(errors.New("cause"))
	require.NoError(t, AppErrorResponse(c, appErr))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body struct {
		Status int        `json:"status"`
		Data   []AppError `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 500, body.Status)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "ERR_DATA_TOO_SHORT", body.Data[0].Code)

	c, rec = newContext("")
	require.NoError(t, AppErrorResponse(c, errors.New("plain")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Something went wrong")
	assert.Contains(t, rec.Body.String(), "ERR_INTERNAL")
	assert.NotContains(t, rec.Body.String(), "plain")
}

func TestClient_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("symbol") {
		case "MSFT":
			assert.Equal(t, "hurstlab-test", r.Header.Get("User-Agent"))
			_, _ = w.Write([]byte("timestamp,open\n"))
		case "JSON":
			_, _ = w.Write([]byte(`{"rows":3}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte("bad symbol"))
		}
	}))
	defer srv.Close()

	c := NewClient(WithUserAgent("hurstlab-test"))
	body, err := c.Fetch(context.Background(), &RequestOptions{
		URL:   srv.URL,
		Query: url.Values{"symbol": {"MSFT"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "timestamp,open\n", string(body))

	var dest struct {
		Rows int `json:"rows"`
	}
	require.NoError(t, c.FetchJSON(context.Background(), &RequestOptions{URL: srv.URL, Query: url.Values{"symbol": {"JSON"}}}, &dest))
	assert.Equal(t, 3, dest.Rows)

	_, err = c.Fetch(context.Background(), &RequestOptions{Method: http.MethodGet, URL: srv.URL})
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.StatusCode)
	assert.Equal(t, "bad symbol", se.Body)

	small := NewClient(WithMaxBodySize(4))
	body, err = small.Fetch(context.Background(), &RequestOptions{URL: srv.URL, Query: url.Values{"symbol": {"MSFT"}}})
	require.NoError(t, err)
	assert.Equal(t, "time", string(body))
}

type pingHandler struct{}

func (pingHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ping", func(c echo.Context) error { return SuccessResponse(c, "pong") })
}

func TestServer_Routes(t *testing.T) {
	s := NewServer(Handlers{pingHandler{}}, ServerConfig{AllowOrigins: []string{"*"}}, nil)
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pong")

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	s.Echo().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
