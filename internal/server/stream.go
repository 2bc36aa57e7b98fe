package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ayusman/facepix/internal/feed"
)

// StreamHandler serves the masked preview as an MJPEG stream.
type StreamHandler struct {
	feed *feed.Feed
}

// NewStreamHandler creates a new StreamHandler reading from the given feed.
func NewStreamHandler(f *feed.Feed) *StreamHandler {
	return &StreamHandler{feed: f}
}

// ServeHTTP streams MJPEG frames to connected clients. Frames reach the
// feed only after the pipeline has masked them, so raw faces never leave
// the process.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for {
		select {
		case <-r.Context().Done():
			return
		default:
		}

		jpeg := h.feed.Frame()
		if jpeg == nil {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		// Write MJPEG frame
		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(jpeg))
		w.Write(jpeg)
		fmt.Fprintf(w, "\r\n")

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}

		time.Sleep(66 * time.Millisecond) // ~15 FPS
	}
}
