package server

import (
	"context"
	"encoding/json"
	"image"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/facepix/internal/feed"
	"github.com/ayusman/facepix/internal/store"
	"github.com/ayusman/facepix/internal/testutil"
)

func TestAPI_SessionWorkflow(t *testing.T) {
	// Setup
	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	// Sessions are written by the pipeline, not the API, so seed directly.
	session := &store.Session{ID: "session-1"}
	if err := s.Sessions().Create(session); err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}
	session.Frames = 500
	session.FramesMasked = 480
	if err := s.Sessions().Finish(session); err != nil {
		t.Fatalf("failed to finish session: %v", err)
	}

	srv := New(Config{Store: s})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	// 1. List sessions
	resp, err := client.Get(ts.URL + "/api/sessions")
	if err != nil {
		t.Fatalf("GET /api/sessions error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /api/sessions status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var listed struct {
		Sessions []struct {
			ID     string `json:"id"`
			Frames int64  `json:"frames"`
		} `json:"sessions"`
	}
	json.NewDecoder(resp.Body).Decode(&listed)
	resp.Body.Close()

	if len(listed.Sessions) != 1 {
		t.Fatalf("len(sessions) = %d, want 1", len(listed.Sessions))
	}
	if listed.Sessions[0].Frames != 500 {
		t.Errorf("frames = %d, want 500", listed.Sessions[0].Frames)
	}

	// 2. Get single session
	resp, _ = client.Get(ts.URL + "/api/sessions/session-1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /api/sessions/session-1 status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	resp.Body.Close()

	// 3. Delete session
	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/sessions/session-1", nil)
	resp, _ = client.Do(req)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("DELETE status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
	resp.Body.Close()

	// 4. Verify deleted
	resp, _ = client.Get(ts.URL + "/api/sessions/session-1")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("GET after delete status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
	resp.Body.Close()
}

func TestAPI_HealthCheck(t *testing.T) {
	srv := New(Config{SessionID: "session-live"})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET /api/health error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var health struct {
		Status  string `json:"status"`
		Uptime  string `json:"uptime"`
		Session string `json:"session"`
	}
	json.NewDecoder(resp.Body).Decode(&health)

	if health.Status != "ok" {
		t.Errorf("status = %s, want ok", health.Status)
	}
	if health.Session != "session-live" {
		t.Errorf("session = %s, want session-live", health.Session)
	}
}

func TestAPI_StreamServesMaskedFrames(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping gocv test in short mode")
	}

	f := feed.New()

	frame := testutil.GradientFrame(160, 120)
	defer frame.Close()
	if err := f.Publish(frame, nil, 0, false); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	srv := New(Config{Feed: f})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/stream", nil)
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("GET /api/stream error = %v", err)
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/x-mixed-replace") {
		t.Errorf("Content-Type = %q, want multipart/x-mixed-replace", contentType)
	}

	buf := make([]byte, 4096)
	n, err := resp.Body.Read(buf)
	if err != nil {
		t.Fatalf("reading stream: %v", err)
	}

	head := string(buf[:n])
	if !strings.Contains(head, "--frame") {
		t.Error("stream part should start with the frame boundary")
	}
	if !strings.Contains(head, "Content-Type: image/jpeg") {
		t.Error("stream part should declare a JPEG payload")
	}
}

func TestAPI_EventsWebSocket(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping gocv test in short mode")
	}

	f := feed.New()

	srv := New(Config{Feed: f})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial error = %v", err)
	}
	defer conn.Close()

	frame := testutil.GradientFrame(160, 120)
	defer frame.Close()
	boxes := []image.Rectangle{image.Rect(10, 10, 50, 50)}
	if err := f.Publish(frame, boxes, 1, false); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("reading websocket message: %v", err)
	}

	var event feed.Event
	if err := json.Unmarshal(msg, &event); err != nil {
		t.Fatalf("failed to decode event: %v", err)
	}

	if event.Seq != 1 {
		t.Errorf("event.Seq = %d, want 1", event.Seq)
	}
	if len(event.Boxes) != 1 || event.Boxes[0].Width != 40 {
		t.Errorf("event.Boxes = %+v, want one 40px-wide box", event.Boxes)
	}
}
