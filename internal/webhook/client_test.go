package webhook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractResponseText_PriorityOrder(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"output.response wins", `{"output":{"response":"from output"},"response":"plain","text":"last"}`, "from output"},
		{"array wrapper unwrapped", `[{"output":{"response":"wrapped"}}]`, "wrapped"},
		{"response", `{"response":"r","reply":"x"}`, "r"},
		{"reply", `{"reply":"styled!","message":"m"}`, "styled!"},
		{"message", `{"message":"m","text":"t"}`, "m"},
		{"text last", `{"text":" trimmed "}`, "trimmed"},
		{"blank skipped", `{"response":"  ","reply":"fallthrough"}`, "fallthrough"},
		{"nothing usable", `{"ok":true}`, ""},
		{"not json", `<html>`, ""},
		{"empty array", `[]`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractResponseText([]byte(tc.raw)))
		})
	}
}

func TestGenerateTryOn_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"result_image_url":"https://cdn.example.com/result.png"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	resp, err := c.GenerateTryOn(context.Background(), TryOnRequest{TryOnID: "tryon-1"})

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "https://cdn.example.com/result.png", resp.ResultImageURL)
}

func TestGenerateTryOn_MalformedBodyIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	resp, err := c.GenerateTryOn(context.Background(), TryOnRequest{})

	require.NoError(t, err, "malformed body means fallback, not error")
	assert.False(t, resp.Success)
}

func TestGenerateTryOn_TimeoutAborts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 30*time.Millisecond, nil)
	start := time.Now()
	_, err := c.GenerateTryOn(context.Background(), TryOnRequest{})

	require.Error(t, err)
	assert.Less(t, time.Since(start), 250*time.Millisecond, "abort must be client-side, not server-side")
}

func TestChat_RetriesTransportFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"reply":"try the denim jacket"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	c.retry.BaseDelay = time.Millisecond

	reply, err := c.Chat(context.Background(), ChatRequest{Message: "what suits me?"})

	require.NoError(t, err)
	assert.Equal(t, "try the denim jacket", reply)
	assert.Equal(t, int32(2), calls.Load())
}

func TestChat_NoUsableField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	c.retry.BaseDelay = time.Millisecond

	_, err := c.Chat(context.Background(), ChatRequest{Message: "hi"})
	assert.Error(t, err)
}
