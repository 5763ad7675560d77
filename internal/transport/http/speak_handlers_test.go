package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"
)

func postSpeak(t *testing.T, ts string, body string) *http.Response {
	t.Helper()

	resp, err := http.Post(ts+"/speak", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("post /speak: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestSpeakEndpointBroadcastsToViewers(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialViewer(t, ctx, ts)
	readEvent(t, ctx, conn, "idle") // initial state

	resp := postSpeak(t, ts.URL, `{"text":"Bonjour"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var ack struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		t.Fatalf("decode ack: %v", err)
	}
	if !ack.Success {
		t.Fatalf("expected success ack")
	}

	msg := readEvent(t, ctx, conn, "speak")
	if msg.Text != "Bonjour" {
		t.Fatalf("text = %q, want Bonjour", msg.Text)
	}
	if msg.Emotion != "calm" {
		t.Fatalf("emotion = %q, want calm (classifier default)", msg.Emotion)
	}
	if msg.Intensity == nil || *msg.Intensity != 0.5 {
		t.Fatalf("intensity = %+v, want 0.5", msg.Intensity)
	}

	// Auto-idle follows the speak.
	readEvent(t, ctx, conn, "idle")
}

func TestSpeakEndpointCallerValuesTakePrecedence(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialViewer(t, ctx, ts)
	readEvent(t, ctx, conn, "idle")

	resp := postSpeak(t, ts.URL, `{"text":"Incroyable !!!","emotion":"calm","intensity":0.1}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	msg := readEvent(t, ctx, conn, "speak")
	if msg.Emotion != "calm" {
		t.Fatalf("caller emotion ignored: %q", msg.Emotion)
	}
	if msg.Intensity == nil || *msg.Intensity != 0.1 {
		t.Fatalf("caller intensity ignored: %+v", msg.Intensity)
	}
}

func TestSpeakEndpointEmptyTextPlaceholder(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialViewer(t, ctx, ts)
	readEvent(t, ctx, conn, "idle")

	resp := postSpeak(t, ts.URL, `{}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	msg := readEvent(t, ctx, conn, "speak")
	if msg.Text != "Test" {
		t.Fatalf("text = %q, want legacy placeholder Test", msg.Text)
	}
}

func TestSpeakEndpointMalformedBody(t *testing.T) {
	ts := startTestServer(t)

	resp := postSpeak(t, ts.URL, `{not json`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Error == "" {
		t.Fatalf("expected parse error message in body")
	}
}

func TestSpeakEndpointUnknownEmotion(t *testing.T) {
	ts := startTestServer(t)

	resp := postSpeak(t, ts.URL, `{"text":"hi","emotion":"furious"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestCORSHeadersAndPreflight(t *testing.T) {
	ts := startTestServer(t)

	resp := postSpeak(t, ts.URL, `{"text":"hi"}`)
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("Allow-Origin = %q, want *", got)
	}

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/speak", nil)
	if err != nil {
		t.Fatalf("build preflight: %v", err)
	}
	pre, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	defer pre.Body.Close()

	if pre.StatusCode != http.StatusOK {
		t.Fatalf("preflight status = %d, want 200", pre.StatusCode)
	}
	body, _ := io.ReadAll(pre.Body)
	if len(body) != 0 {
		t.Fatalf("preflight body should be empty, got %q", body)
	}
	if got := pre.Header.Get("Access-Control-Allow-Methods"); got != "GET, POST, OPTIONS" {
		t.Fatalf("Allow-Methods = %q", got)
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	ts := startTestServer(t)

	resp, err := http.Get(ts.URL + "/nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts := startTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}
