package router

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	tst "github.com/dakshbank/ledger-service/pkg/internal/testing"

	"github.com/bxcodec/faker/v3"
	"github.com/stretchr/testify/assert"
)

func TestParamsBinder(t *testing.T) {
	type testCase struct {
		name string
		run  func(t *testing.T)
	}

	tests := []func() testCase{
		func() testCase {
			return testCase{
				name: "valid query params",
				run: func(t *testing.T) {
					param1 := fmt.Sprintf("param-1-%v", faker.Word())
					param1Val := fmt.Sprintf("param-1-val-%v", faker.Word())
					param2 := fmt.Sprintf("param-2-%v", faker.Word())
					param2Val := int(time.Now().UnixNano() % 100000)

					queryValues := url.Values{}
					queryValues.Add(param1, param1Val)
					queryValues.Add(param2, strconv.Itoa(param2Val))

					req := httptest.NewRequest("GET", fmt.Sprintf("/v1/some/api?%v", queryValues.Encode()), nil)

					binder := newParamsBinder(req, nil)
					var params struct {
						param1 string
						param2 int
					}
					err := binder.
						QueryParam(param1).String(&params.param1).
						QueryParam(param2).Int(&params.param2).
						Validate(&params)
					assert.Nil(t, err)
					assert.Equal(t, param1Val, params.param1)
					assert.Equal(t, param2Val, params.param2)
				},
			}
		},
		func() testCase {
			return testCase{
				name: "default value",
				run: func(t *testing.T) {
					req := httptest.NewRequest("GET", "/v1/some/api", nil)
					binder := newParamsBinder(req, nil)
					var limit int
					err := binder.
						QueryParam("limit").Default("20").Int(&limit).
						Validate(&struct{}{})
					assert.Nil(t, err)
					assert.Equal(t, 20, limit)
				},
			}
		},
		func() testCase {
			return testCase{
				name: "bad int",
				run: func(t *testing.T) {
					paramName := fmt.Sprint("param-", faker.Word())
					binder := newParamsBinder(httptest.NewRequest("GET", "/", nil), nil)
					var receiver int
					param := binder.newParamBinder(QueryParam, paramName, "not int")
					param.Int(&receiver)
					assert.Equal(t, ParamValidationError(QueryParam, paramName), binder.err)
				},
			}
		},
		func() testCase {
			return testCase{
				name: "custom error",
				run: func(t *testing.T) {
					paramName := fmt.Sprint("param-", faker.Word())
					binder := newParamsBinder(httptest.NewRequest("GET", "/", nil), nil)
					var receiver int
					param := binder.newParamBinder(QueryParam, paramName, "raw")
					param.Custom(&receiver, func(rawValue string) (interface{}, error) {
						return nil, errors.New("some error")
					})
					assert.Equal(t, ParamValidationError(QueryParam, paramName), binder.err)
				},
			}
		},
	}
	for _, ttFn := range tests {
		tt := ttFn()
		t.Run(tt.name, tt.run)
	}
}

func TestToolkitHandlerFunc(t *testing.T) {
	serve := func(handler ToolkitHandlerFunc, req *http.Request) *httptest.ResponseRecorder {
		r := CreateRouter()
		r.Handle(req.Method, req.URL.Path, handler)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("write json payload", func(t *testing.T) {
		want := map[string]interface{}{"key-" + faker.Word(): faker.Sentence()}
		handler := ToolkitHandlerFunc(func(w http.ResponseWriter, req *http.Request, h HandlerToolkit) error {
			return h.WriteJSON(want)
		})
		w := serve(handler, httptest.NewRequest("GET", "/v1/some/api", nil))
		assert.Equal(t, 200, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("content-type"))
		got := map[string]interface{}{}
		tst.JSONUnmarshalBuffer(w.Body, &got)
		assert.Equal(t, want, got)
	})

	t.Run("send http error as-is", func(t *testing.T) {
		message := faker.Sentence()
		handler := ToolkitHandlerFunc(func(w http.ResponseWriter, req *http.Request, h HandlerToolkit) error {
			return ResourceNotFoundError(message)
		})
		w := serve(handler, httptest.NewRequest("GET", "/v1/some/api", nil))
		assert.Equal(t, 404, w.Code)
		var got HTTPError
		tst.JSONUnmarshalBuffer(w.Body, &got)
		assert.Equal(t, message, got.Message)
	})

	t.Run("mask unexpected errors", func(t *testing.T) {
		handler := ToolkitHandlerFunc(func(w http.ResponseWriter, req *http.Request, h HandlerToolkit) error {
			return errors.New("secret internals: " + faker.Word())
		})
		w := serve(handler, httptest.NewRequest("GET", "/v1/some/api", nil))
		assert.Equal(t, 500, w.Code)
		var got HTTPError
		tst.JSONUnmarshalBuffer(w.Body, &got)
		assert.Equal(t, "Internal server error", got.Message)
	})
}

func TestHTTPErrorHelpers(t *testing.T) {
	tests := []struct {
		factory func(string) error
		status  int
	}{
		{BadRequestError, 400},
		{UnauthorizedError, 401},
		{ForbiddenError, 403},
		{ResourceNotFoundError, 404},
		{UnprocessableEntityError, 422},
		{TooManyRequestsError, 429},
	}
	for _, tt := range tests {
		message := faker.Sentence()
		err := tt.factory(message)
		httpErr, ok := err.(HTTPError)
		if !assert.True(t, ok) {
			continue
		}
		assert.Equal(t, tt.status, httpErr.StatusCode)
		assert.Equal(t, http.StatusText(tt.status), httpErr.Status)
		assert.Equal(t, message, httpErr.Message)
	}
}
