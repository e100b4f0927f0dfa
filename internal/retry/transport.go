package retry

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

type Transport struct {
	Base    http.RoundTripper
	Policy  *Policy
	RetryOn *On
	// Notify is called before every retry with the reason and the upcoming delay.
	Notify func(error, time.Duration)
}

type retriableResponseError struct {
	statusCode int
}

func (e *retriableResponseError) Error() string {
	return http.StatusText(e.statusCode)
}

func (t *Transport) RoundTrip(request *http.Request) (*http.Response, error) {
	if t.RetryOn == nil || !rewindable(request) {
		return t.base().RoundTrip(request)
	}

	var (
		attempt int
		last    *http.Response
	)
	operation := func() (*http.Response, error) {
		if last != nil {
			drain(last)
			last = nil
		}

		r := request
		if attempt > 0 && request.GetBody != nil {
			body, err := request.GetBody()
			if err != nil {
				return nil, backoff.Permanent(err)
			}
			r = request.Clone(request.Context())
			r.Body = body
		}
		attempt++

		response, err := t.base().RoundTrip(r)
		if err != nil {
			if t.RetryOn.CheckError(err) {
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}
		if t.RetryOn.CheckResponse(response) {
			last = response
			return response, &retriableResponseError{statusCode: response.StatusCode}
		}
		return response, nil
	}

	response, err := backoff.RetryNotifyWithData(operation, t.Policy.BackOff(request.Context()), t.Notify)
	if err != nil {
		var rerr *retriableResponseError
		if errors.As(err, &rerr) && response != nil && request.Context().Err() == nil {
			// out of retries: hand the last response to the caller
			return response, nil
		}
		if response != nil {
			drain(response)
		}
		return nil, err
	}
	return response, nil
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func rewindable(request *http.Request) bool {
	return request.Body == nil || request.Body == http.NoBody || request.GetBody != nil
}

func drain(response *http.Response) {
	if response.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(response.Body, 4096))
	_ = response.Body.Close()
}
