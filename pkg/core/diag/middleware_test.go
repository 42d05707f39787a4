package diag

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	tst "github.com/dakshbank/ledger-service/pkg/internal/testing"

	uuid "github.com/satori/go.uuid"
	"github.com/stretchr/testify/assert"
)

type wantLogData struct {
	ctx     context.Context
	msg     string
	msgData MsgData
}

type mockLogger struct {
	gotLogs       []wantLogData
	recentMsgData MsgData
}

func (l *mockLogger) log(ctx context.Context, msg string, args ...interface{}) {
	l.gotLogs = append(l.gotLogs, wantLogData{
		ctx:     ctx,
		msg:     fmt.Sprintf(msg, args...),
		msgData: l.recentMsgData,
	})
	l.recentMsgData = nil
}

func (l *mockLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.log(ctx, msg, args...)
}

func (l *mockLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.log(ctx, msg, args...)
}

func (l *mockLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.log(ctx, msg, args...)
}

func (l *mockLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	l.log(ctx, msg, args...)
}

func (l *mockLogger) WithError(err error) Logger {
	return l
}

func (l *mockLogger) WithData(data MsgData) Logger {
	l.recentMsgData = data
	return l
}

func TestRequestIDMiddleware(t *testing.T) {
	type args struct {
		w     http.ResponseWriter
		req   *http.Request
		setup []requestIDMiddlewareSetup
	}
	type testCase struct {
		name         string
		args         args
		want         string
		wantNotEmpty bool
	}
	tests := []func() testCase{
		func() testCase {
			requestID := uuid.NewV4().String()
			req := httptest.NewRequest("GET", "/not-important", nil)
			req.Header.Add("X-Request-ID", requestID)
			return testCase{
				name: "reuse requestID from header",
				args: args{
					req: req,
					w:   httptest.NewRecorder(),
				},
				want: requestID,
			}
		},
		func() testCase {
			requestID := uuid.NewV4()
			req := httptest.NewRequest("GET", "/not-important", nil)
			return testCase{
				name: "generate a new requestID",
				args: args{
					req: req,
					w:   httptest.NewRecorder(),
					setup: []requestIDMiddlewareSetup{
						func(cfg *requestIDMiddlewareCfg) {
							cfg.newUUID = func() uuid.UUID { return requestID }
						},
					},
				},
				want: requestID.String(),
			}
		},
		func() testCase {
			req := httptest.NewRequest("GET", "/not-important", nil)
			return testCase{
				name: "generate a new requestID with a default cfg",
				args: args{
					req: req,
					w:   httptest.NewRecorder(),
				},
				wantNotEmpty: true,
			}
		},
	}
	for _, ttFn := range tests {
		tt := ttFn()
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				nextCalled = true
				requestID := RequestIDValue(req.Context())
				if tt.wantNotEmpty {
					assert.NotEmpty(t, requestID)
				} else {
					assert.Equal(t, tt.want, requestID)
				}
			})
			mw := NewRequestIDMiddleware(tt.args.setup...)
			mw(next).ServeHTTP(tt.args.w, tt.args.req)
			assert.True(t, nextCalled, "Next should have been called")
		})
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	type testCase struct {
		name string
		run  func(t *testing.T)
	}
	tests := []func() testCase{
		func() testCase {
			return testCase{
				name: "recover from panic and respond with 500",
				run: func(t *testing.T) {
					l := mockLogger{gotLogs: []wantLogData{}}
					mw := NewRecoveryMiddleware(func(cfg *recoveryMiddlewareCfg) {
						cfg.logger = &l
					})
					next := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
						panic("something went really wrong")
					})
					w := httptest.NewRecorder()
					req := httptest.NewRequest("POST", "/v1/entries", nil)
					mw(next).ServeHTTP(w, req)

					assert.Equal(t, http.StatusInternalServerError, w.Code)
					var body map[string]interface{}
					tst.JSONUnmarshalBuffer(w.Body, &body)
					assert.Equal(t, "Internal server error", body["message"])
					if assert.Len(t, l.gotLogs, 1) {
						assert.Equal(t, "something went really wrong", l.gotLogs[0].msgData["panic"])
					}
				},
			}
		},
		func() testCase {
			return testCase{
				name: "pass through without panic",
				run: func(t *testing.T) {
					mw := NewRecoveryMiddleware()
					nextCalled := false
					next := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
						nextCalled = true
						w.WriteHeader(http.StatusNoContent)
					})
					w := httptest.NewRecorder()
					mw(next).ServeHTTP(w, httptest.NewRequest("GET", "/v1/entries", nil))
					assert.True(t, nextCalled)
					assert.Equal(t, http.StatusNoContent, w.Code)
				},
			}
		},
	}
	for _, ttFn := range tests {
		tt := ttFn()
		t.Run(tt.name, tt.run)
	}
}

func TestLogRequestsMiddleware(t *testing.T) {
	t.Run("log request start/end", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/entries?limit=10", nil)
		req.RemoteAddr = "10.0.0.15:35000"

		l := mockLogger{gotLogs: []wantLogData{}}
		mw := NewLogRequestsMiddleware(func(cfg *logRequestsMiddlewareCfg) {
			cfg.logger = &l
		})

		w := httptest.NewRecorder()
		nextCalled := false
		next := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			nextCalled = true
			w.WriteHeader(http.StatusOK)
		})
		mw(next).ServeHTTP(w, req)
		assert.True(t, nextCalled, "Next should have been called")

		if !assert.Len(t, l.gotLogs, 2) {
			return
		}
		assert.Equal(t, "BEGIN REQ: GET /v1/entries", l.gotLogs[0].msg)
		assert.Equal(t, "/v1/entries?limit=10", l.gotLogs[0].msgData["url"])
		assert.Equal(t, "10.0.0.15", l.gotLogs[0].msgData["remoteAddress"])
		assert.Equal(t, "END REQ: 200 - /v1/entries", l.gotLogs[1].msg)
		assert.Equal(t, 200, l.gotLogs[1].msgData["statusCode"])
	})

	t.Run("skip ignored paths", func(t *testing.T) {
		l := mockLogger{gotLogs: []wantLogData{}}
		mw := NewLogRequestsMiddleware(func(cfg *logRequestsMiddlewareCfg) {
			cfg.logger = &l
		})
		w := httptest.NewRecorder()
		next := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {})
		mw(next).ServeHTTP(w, httptest.NewRequest("GET", "/v1/healthcheck/ping", nil))
		assert.Empty(t, l.gotLogs)
	})

	t.Run("obfuscate authorization header", func(t *testing.T) {
		l := mockLogger{gotLogs: []wantLogData{}}
		mw := NewLogRequestsMiddleware(func(cfg *logRequestsMiddlewareCfg) {
			cfg.logger = &l
		})
		req := httptest.NewRequest("GET", "/v1/entries", nil)
		req.RemoteAddr = "10.0.0.15:35000"
		token := "Bearer " + uuid.NewV4().String()
		req.Header.Set("Authorization", token)
		w := httptest.NewRecorder()
		next := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {})
		mw(next).ServeHTTP(w, req)

		if !assert.Len(t, l.gotLogs, 2) {
			return
		}
		headers := l.gotLogs[0].msgData["headers"].(map[string]string)
		assert.Equal(t, fmt.Sprint("*obfuscated, length=", len(token), "*"), headers["Authorization"])
	})
}
