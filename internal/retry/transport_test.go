package retry_test

import (
	"boxdiff/internal/retry"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type transportMock struct {
	fakeRoundTrip func(*http.Request) (*http.Response, error)
}

func (m *transportMock) RoundTrip(request *http.Request) (*http.Response, error) {
	return m.fakeRoundTrip(request)
}

type temporaryError struct{}

func (te *temporaryError) Error() string   { return "temporary" }
func (te *temporaryError) Temporary() bool { return true }

func newClient(base http.RoundTripper, maxRetries uint) *http.Client {
	return &http.Client{
		Transport: &retry.Transport{
			Base: base,
			Policy: &retry.Policy{
				Base:       time.Millisecond,
				Max:        5 * time.Millisecond,
				MaxRetries: maxRetries,
			},
			RetryOn: retry.NewDefaultRetryOn(),
		},
	}
}

func TestTransportRetriesGatewayErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	response, err := newClient(nil, 5).Get(server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer response.Body.Close()
	body, _ := io.ReadAll(response.Body)

	if diff := cmp.Diff(http.StatusOK, response.StatusCode); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("ok", string(body)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(int32(3), calls.Load()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestTransportReturnsLastResponseWhenExhausted(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	response, err := newClient(nil, 2).Get(server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer response.Body.Close()

	if diff := cmp.Diff(http.StatusServiceUnavailable, response.StatusCode); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(int32(3), calls.Load()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestTransportRewindsRequestBody(t *testing.T) {
	var bodies []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(b))
		if len(bodies) < 2 {
			w.WriteHeader(http.StatusConflict)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	response, err := newClient(nil, 3).Post(server.URL, "application/json", strings.NewReader(`{"a":1}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	response.Body.Close()

	if diff := cmp.Diff([]string{`{"a":1}`, `{"a":1}`}, bodies); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestTransportErrors(t *testing.T) {
	t.Run("temporary errors are retried", func(t *testing.T) {
		calls := 0
		base := &transportMock{
			fakeRoundTrip: func(request *http.Request) (*http.Response, error) {
				calls++
				if calls < 2 {
					return nil, &temporaryError{}
				}
				return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
			},
		}
		response, err := newClient(base, 3).Get("http://example.invalid/")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff(http.StatusOK, response.StatusCode); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(2, calls); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})

	t.Run("other errors are returned immediately", func(t *testing.T) {
		calls := 0
		base := &transportMock{
			fakeRoundTrip: func(request *http.Request) (*http.Response, error) {
				calls++
				return nil, errors.New("fake")
			},
		}
		_, err := newClient(base, 3).Get("http://example.invalid/")
		if err == nil || !strings.Contains(err.Error(), "fake") {
			t.Errorf("expected fake error, got %v", err)
		}
		if diff := cmp.Diff(1, calls); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})

	t.Run("canceled context stops retrying", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		base := &transportMock{
			fakeRoundTrip: func(request *http.Request) (*http.Response, error) {
				cancel()
				return &http.Response{StatusCode: http.StatusBadGateway, Body: http.NoBody}, nil
			},
		}
		request, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://example.invalid/", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := newClient(base, 5).Do(request); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestDo(t *testing.T) {
	calls := 0
	got, err := retry.Do(context.Background(), &retry.Policy{Base: time.Millisecond, Max: time.Millisecond, MaxRetries: 3}, func() (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("not yet")
		}
		return "done", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff("done", got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	calls = 0
	_, err = retry.Do(context.Background(), retry.DefaultPolicy(), func() (string, error) {
		calls++
		return "", retry.Permanent(errors.New("bad input"))
	})
	if err == nil || calls != 1 {
		t.Errorf("expected a single failing call, got %d calls and %v", calls, err)
	}
}
