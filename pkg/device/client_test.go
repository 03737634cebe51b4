package device_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/fivetwenty-io/devapi/pkg/device"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubService mimics the login and external connection endpoints.
type stubService struct {
	mutex       sync.Mutex
	loginBody   string
	deviceCode  int
	deviceBody  []byte
	loginCalls  int
	deviceCalls []*recordedRequest
}

type recordedRequest struct {
	path    string
	headers http.Header
	body    string
}

func newStubService(t *testing.T, loginBody string) (*stubService, *httptest.Server) {
	t.Helper()

	stub := &stubService{
		loginBody:  loginBody,
		deviceCode: http.StatusOK,
		deviceBody: []byte(`{"registered": true}`),
	}

	server := httptest.NewServer(http.HandlerFunc(stub.handle))
	t.Cleanup(server.Close)

	return stub, server
}

func (s *stubService) handle(writer http.ResponseWriter, request *http.Request) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	body, _ := io.ReadAll(request.Body)

	if request.URL.Path == "/api-token-auth/" {
		s.loginCalls++

		_, _ = writer.Write([]byte(s.loginBody))

		return
	}

	s.deviceCalls = append(s.deviceCalls, &recordedRequest{
		path:    request.URL.Path,
		headers: request.Header.Clone(),
		body:    string(body),
	})

	writer.WriteHeader(s.deviceCode)
	_, _ = writer.Write(s.deviceBody)
}

func (s *stubService) logins() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.loginCalls
}

func (s *stubService) calls() []*recordedRequest {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return append([]*recordedRequest(nil), s.deviceCalls...)
}

func newConfig(domain string) *device.Config {
	return &device.Config{
		Domain:       domain,
		SimulationID: "sim1",
		DeviceID:     "dev1",
		Username:     "user",
		Password:     "pass",
	}
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("stores token and url prefix", func(t *testing.T) {
		t.Parallel()

		stub, server := newStubService(t, `{"token": "T"}`)

		client, err := device.New(context.Background(), newConfig(server.URL))
		require.NoError(t, err)

		assert.Equal(t, 1, stub.logins())
		assert.Equal(t, "T", client.Token())
		assert.Equal(t, server.URL+"/external-connection/api/sim1/dev1/", client.URLPrefix())
		assert.Equal(t, "sim1", client.SimulationID())
		assert.Equal(t, "dev1", client.DeviceID())
		assert.Equal(t, server.URL, client.Domain())
	})

	t.Run("authenticated headers", func(t *testing.T) {
		t.Parallel()

		_, server := newStubService(t, `{"token": "T"}`)

		client, err := device.New(context.Background(), newConfig(server.URL))
		require.NoError(t, err)

		headers := client.Headers()
		assert.Equal(t, "JWT T", headers.Get("Authorization"))
		assert.Equal(t, "application/json", headers.Get("Content-Type"))
		assert.Len(t, headers, 2)
	})

	t.Run("missing token aborts construction", func(t *testing.T) {
		t.Parallel()

		_, server := newStubService(t, `{"detail": "Unable to log in"}`)

		client, err := device.New(context.Background(), newConfig(server.URL))
		require.Error(t, err)
		assert.Nil(t, client)
		assert.True(t, device.IsKind(err, device.KindMissingToken))
		require.ErrorIs(t, err, device.ErrMissingToken)
	})

	t.Run("non-JSON login response aborts construction", func(t *testing.T) {
		t.Parallel()

		_, server := newStubService(t, `Bad Gateway`)

		client, err := device.New(context.Background(), newConfig(server.URL))
		require.Error(t, err)
		assert.Nil(t, client)
		assert.Equal(t, device.KindDecode, device.KindOf(err))
		require.ErrorIs(t, err, device.ErrInvalidResponse)
	})

	t.Run("null login response is a decode failure", func(t *testing.T) {
		t.Parallel()

		_, server := newStubService(t, `null`)

		client, err := device.New(context.Background(), newConfig(server.URL))
		require.Error(t, err)
		assert.Nil(t, client)
		assert.Equal(t, device.KindDecode, device.KindOf(err))
		require.ErrorIs(t, err, device.ErrInvalidResponse)
	})

	t.Run("custom http client is not modified", func(t *testing.T) {
		t.Parallel()

		_, server := newStubService(t, `{"token": "T"}`)

		custom := &http.Client{Timeout: time.Minute}
		config := newConfig(server.URL)
		config.HTTPClient = custom
		config.HTTPTimeout = 2 * time.Second

		_, err := device.New(context.Background(), config)
		require.NoError(t, err)
		assert.Equal(t, time.Minute, custom.Timeout)
	})

	t.Run("unreachable service", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {}))
		server.Close()

		client, err := device.New(context.Background(), newConfig(server.URL))
		require.Error(t, err)
		assert.Nil(t, client)
		assert.Equal(t, device.KindTransport, device.KindOf(err))
		require.ErrorIs(t, err, device.ErrRequestFailed)
	})

	t.Run("domain required", func(t *testing.T) {
		t.Parallel()

		_, err := device.New(context.Background(), &device.Config{})
		assert.Equal(t, device.KindConfig, device.KindOf(err))
		require.ErrorIs(t, err, device.ErrDomainRequired)

		_, err = device.New(context.Background(), nil)
		require.ErrorIs(t, err, device.ErrDomainRequired)
	})
}

func TestClient_EndpointURL(t *testing.T) {
	t.Parallel()

	_, server := newStubService(t, `{"token": "T"}`)

	client, err := device.New(context.Background(), newConfig(server.URL))
	require.NoError(t, err)

	for _, suffix := range []string{"register", "unregister", "", "market/bid?x=1", "a/b/c"} {
		assert.Equal(t, server.URL+"/external-connection/api/sim1/dev1/"+suffix, client.EndpointURL(suffix))
	}
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Post(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		stub, server := newStubService(t, `{"token": "T"}`)

		client, err := device.New(context.Background(), newConfig(server.URL))
		require.NoError(t, err)

		result, err := client.Post(context.Background(), "register")
		require.NoError(t, err)

		assert.Equal(t, server.URL+"/external-connection/api/sim1/dev1/register", result.URL)
		assert.Equal(t, 200, result.StatusCode)
		assert.True(t, result.Succeeded())
		assert.Equal(t, "success!", result.StatusLine())
		assert.JSONEq(t, `{"registered": true}`, result.Body)

		calls := stub.calls()
		require.Len(t, calls, 1)
		call := calls[0]
		assert.Equal(t, "/external-connection/api/sim1/dev1/register", call.path)
		assert.Equal(t, []string{"JWT T"}, call.headers.Values("Authorization"))
		assert.Equal(t, []string{"application/json"}, call.headers.Values("Content-Type"))
		assert.Equal(t, client.Headers().Get("Authorization"), call.headers.Get("Authorization"))
		assert.JSONEq(t, `{}`, call.body)
	})

	t.Run("non-200 status is not an error", func(t *testing.T) {
		t.Parallel()

		stub, server := newStubService(t, `{"token": "T"}`)
		stub.deviceCode = http.StatusNotFound
		stub.deviceBody = []byte(`{"detail": "Not found."}`)

		client, err := device.New(context.Background(), newConfig(server.URL))
		require.NoError(t, err)

		result, err := client.Post(context.Background(), "register")
		require.NoError(t, err)
		assert.False(t, result.Succeeded())
		assert.Equal(t, "Received response status: 404", result.StatusLine())
		assert.Contains(t, result.Body, "Not found.")
	})

	t.Run("body not text", func(t *testing.T) {
		t.Parallel()

		stub, server := newStubService(t, `{"token": "T"}`)
		stub.deviceBody = []byte{0xff, 0xfe, 0xfd}

		client, err := device.New(context.Background(), newConfig(server.URL))
		require.NoError(t, err)

		result, err := client.Post(context.Background(), "register")
		require.Error(t, err)
		assert.True(t, device.IsKind(err, device.KindBodyNotText))
		require.ErrorIs(t, err, device.ErrBodyNotText)
		require.NotNil(t, result)
		assert.Equal(t, 200, result.StatusCode)
		assert.Empty(t, result.Body)
	})

	t.Run("service gone after login", func(t *testing.T) {
		t.Parallel()

		_, server := newStubService(t, `{"token": "T"}`)

		client, err := device.New(context.Background(), newConfig(server.URL))
		require.NoError(t, err)

		server.Close()

		result, err := client.Post(context.Background(), "register")
		require.Error(t, err)
		assert.Nil(t, result)
		assert.Equal(t, device.KindTransport, device.KindOf(err))
	})
}

func TestClient_PostDebugLogging(t *testing.T) {
	t.Parallel()

	_, server := newStubService(t, `{"token": "T"}`)

	logger := &recordingLogger{}
	config := newConfig(server.URL)
	config.Debug = true
	config.Logger = logger

	client, err := device.New(context.Background(), config)
	require.NoError(t, err)

	_, err = client.Post(context.Background(), "register")
	require.NoError(t, err)

	assert.Equal(t, []string{"HTTP Request", "HTTP Response", "Authenticated", "HTTP Request", "HTTP Response"}, logger.messages)
}

type recordingLogger struct {
	messages []string
}

func (l *recordingLogger) Debug(msg string, _ map[string]interface{}) { l.messages = append(l.messages, msg) }
func (l *recordingLogger) Info(msg string, _ map[string]interface{})  { l.messages = append(l.messages, msg) }
func (l *recordingLogger) Warn(msg string, _ map[string]interface{})  { l.messages = append(l.messages, msg) }
func (l *recordingLogger) Error(msg string, _ map[string]interface{}) { l.messages = append(l.messages, msg) }

func TestReport(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		result   *device.Result
		expected string
	}{
		{
			name:     "success",
			result:   &device.Result{URL: "http://x/external-connection/api/sim1/dev1/register", StatusCode: 200, Body: `{}`},
			expected: "Endpoint url http://x/external-connection/api/sim1/dev1/register\nsuccess!\nResponse body {}\n",
		},
		{
			name:     "failure status",
			result:   &device.Result{URL: "http://x/y", StatusCode: 503, Body: "down"},
			expected: "Endpoint url http://x/y\nReceived response status: 503\nResponse body down\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			require.NoError(t, device.Report(&buf, tt.result))
			assert.Equal(t, tt.expected, buf.String())

			var split bytes.Buffer

			require.NoError(t, device.ReportEndpoint(&split, tt.result.URL))
			require.NoError(t, device.ReportResponse(&split, tt.result))
			assert.Equal(t, tt.expected, split.String())
		})
	}
}

func TestResult_JSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(&device.Result{URL: "u", StatusCode: 201, Body: "b"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"url": "u", "status_code": 201, "body": "b"}`, string(data))
}

func TestError(t *testing.T) {
	t.Parallel()

	err := &device.Error{Kind: device.KindMissingToken, Op: "login", Err: device.ErrMissingToken}
	assert.Equal(t, "login: missing-token: 'token' member does not exist on the authentication response", err.Error())
	assert.True(t, errors.Is(err, device.ErrMissingToken))
	assert.Equal(t, device.KindUnknown, device.KindOf(errors.New("plain")))
	assert.Equal(t, "transport", device.KindTransport.String())
	assert.Equal(t, "body-not-text", device.KindBodyNotText.String())
	assert.Equal(t, "unknown", device.KindUnknown.String())
}
