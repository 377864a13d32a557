package remote

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(bytes.NewBuffer(nil))
	return logger
}

func TestFetchVersion(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		expected string
	}{
		{
			name: "trims marker",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("  1.4.2\n"))
			},
			expected: "1.4.2",
		},
		{
			name: "non-200 means no version",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "missing", http.StatusNotFound)
			},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewClient(server.URL+"/version.txt", testLogger())
			assert.Equal(t, tt.expected, client.FetchVersion(context.Background()))
		})
	}
}

func TestFetchVersion_SendsToken(t *testing.T) {
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte("2.0.0"))
	}))
	defer server.Close()

	client := NewClient(server.URL, testLogger(), WithToken("secret"))
	assert.Equal(t, "2.0.0", client.FetchVersion(context.Background()))
	assert.Equal(t, "Bearer secret", auth)
}

func TestFetchVersion_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(server.URL, testLogger(), WithTimeout(50*time.Millisecond))
	assert.Equal(t, "", client.FetchVersion(context.Background()))
}

func TestFetchVersion_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	assert.Equal(t, "", NewClient(url, testLogger()).FetchVersion(context.Background()))
	assert.Equal(t, "", NewClient("", testLogger()).FetchVersion(context.Background()))
}
