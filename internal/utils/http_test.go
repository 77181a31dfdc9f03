package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type valueResponse struct {
	Value int `json:"value"`
}

func TestDoPostSync_Success(t *testing.T) {
	var gotContentType, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		fmt.Fprint(w, `{"value":42}`)
	}))
	defer server.Close()

	_, result, err := DoPostSync[valueResponse](context.Background(), server.Client(), server.URL, map[string]string{"q": "meal"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result == nil || result.Value != 42 {
		t.Fatalf("unexpected result %+v", result)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if gotBody != `{"q":"meal"}` {
		t.Errorf("body = %q", gotBody)
	}
}

func TestDoPostSync_Non2xxStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":"quota"}`)
	}))
	defer server.Close()

	res, result, err := DoPostSync[valueResponse](context.Background(), server.Client(), server.URL, nil)
	if result != nil {
		t.Errorf("expected nil result, got %+v", result)
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusTooManyRequests || !strings.Contains(statusErr.Body, "quota") {
		t.Errorf("unexpected status error %+v", statusErr)
	}
	if res == nil || res.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected response to be returned with the error")
	}
}

func TestDoPostSync_UnmarshalError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json`)
	}))
	defer server.Close()

	_, _, err := DoPostSync[valueResponse](context.Background(), server.Client(), server.URL, nil)
	if err == nil || !strings.Contains(err.Error(), "not json") {
		t.Errorf("expected unmarshal error with preview, got %v", err)
	}
}

func TestDoPostSync_RequestCreateError(t *testing.T) {
	_, _, err := DoPostSync[valueResponse](context.Background(), nil, "://bad-url", nil)
	if err == nil || !strings.Contains(err.Error(), "error creating request") {
		t.Errorf("expected request creation error, got %v", err)
	}
}

func TestDoPostSync_CustomHeaders(t *testing.T) {
	var captured string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Header.Get("x-goog-api-key")
		fmt.Fprint(w, `{"value":1}`)
	}))
	defer server.Close()

	_, _, err := DoPostSync[valueResponse](context.Background(), nil, server.URL, nil,
		HeaderOption{Key: "x-goog-api-key", Value: "secret"},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured != "secret" {
		t.Errorf("expected header to be sent, got %q", captured)
	}
}

func TestDoPostSync_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"value":1}`)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := DoPostSync[valueResponse](ctx, server.Client(), server.URL, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

type failingCloser struct{ closed bool }

func (f *failingCloser) Close() error {
	f.closed = true
	return errors.New("close failed")
}

func TestCloseWithLog(t *testing.T) {
	closer := &failingCloser{}
	CloseWithLog(closer)
	if !closer.closed {
		t.Error("expected Close to be called")
	}
}
