package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"net"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/facepix/internal/app"
	"github.com/ayusman/facepix/internal/capture"
	"github.com/ayusman/facepix/internal/config"
	"github.com/ayusman/facepix/internal/detector"
	"github.com/ayusman/facepix/internal/display"
	"github.com/ayusman/facepix/internal/feed"
	"github.com/ayusman/facepix/internal/server"
	"github.com/ayusman/facepix/internal/store"
)

const windowTitle = "facepix"

func main() {
	cfg, err := config.ParseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(1)
	}

	fmt.Println("facepix - live face anonymizer")
	fmt.Println("Press q or ESC to quit.")

	if err := run(cfg); err != nil {
		log.Fatalf("facepix: %v", err)
	}
}

// run owns every resource of a session so the deferred releases fire on
// all exit paths. The processing loop stays on the main goroutine: HighGUI
// windows must be created and driven from the thread that runs main.
func run(cfg config.Config) error {
	var cam capture.Camera
	if cfg.InputURI != "" {
		cam = capture.NewStreamSource(cfg.InputURI)
		fmt.Printf("Reading from %s\n", cfg.InputURI)
	} else {
		cam = capture.NewCamera(cfg.CameraID)
		fmt.Printf("Reading from camera %d\n", cfg.CameraID)
	}
	if err := cam.Open(); err != nil {
		return fmt.Errorf("open capture source: %w", err)
	}
	defer cam.Close()

	// The first frame only establishes the detector input size. It is
	// dropped, not processed.
	first, err := cam.ReadFrame()
	if err != nil {
		return fmt.Errorf("read first frame: %w", err)
	}
	frameSize := image.Pt(first.Cols(), first.Rows())
	first.Close()

	det, err := detector.NewYuNetDetector(cfg.DetectorConfig(), frameSize)
	if err != nil {
		return fmt.Errorf("create detector: %w", err)
	}
	defer det.Close()

	sink := display.NewWindow(windowTitle)
	defer sink.Close()

	appCfg := app.Config{
		Camera:      cam,
		Detector:    det,
		Sink:        sink,
		FacePadding: cfg.FacePadding,
		PixelBlock:  cfg.PixelBlock,
		HoldFrames:  cfg.HoldFrames,
	}

	var (
		st      *store.Store
		session *store.Session
	)
	if cfg.StatsDB != "" {
		st, err = store.New(cfg.StatsDB)
		if err != nil {
			return fmt.Errorf("open stats store: %w", err)
		}
		defer st.Close()

		session = &store.Session{
			ID:     uuid.New().String(),
			Config: sessionSettings(cfg),
		}
		if err := st.Sessions().Create(session); err != nil {
			return fmt.Errorf("record session start: %w", err)
		}
		log.Printf("Session %s started, logging to %s", session.ID, cfg.StatsDB)
	}

	if cfg.ListenAddr != "" {
		f := feed.New()
		appCfg.Feed = f

		// Bind before the pipeline starts so an unusable address fails
		// the run instead of a background goroutine.
		ln, err := net.Listen("tcp", cfg.ListenAddr)
		if err != nil {
			return fmt.Errorf("listen on %s: %w", cfg.ListenAddr, err)
		}
		defer ln.Close()

		srvCfg := server.Config{Feed: f, Store: st}
		if session != nil {
			srvCfg.SessionID = session.ID
		}
		srv := server.New(srvCfg)
		go func() {
			if err := srv.Serve(ln); err != nil && !errors.Is(err, net.ErrClosed) {
				log.Printf("HTTP server error: %v", err)
			}
		}()
		fmt.Printf("Preview available at http://%s\n", ln.Addr())
	}

	summary, err := app.New(appCfg).Run()
	if err != nil {
		return err
	}

	if session != nil {
		session.Frames = int64(summary.Frames)
		session.FramesMasked = int64(summary.FramesMasked)
		session.FacesMasked = int64(summary.FacesMasked)
		session.PeakFaces = summary.PeakFaces
		if err := st.Sessions().Finish(session); err != nil {
			log.Printf("Failed to record session end: %v", err)
		}
	}

	log.Printf("Session ended: %d frames, %d masked (%d faces) in %s",
		summary.Frames, summary.FramesMasked, summary.FacesMasked,
		summary.Duration().Round(time.Millisecond))

	return nil
}

// sessionSettings renders the knobs that shaped a session for its store
// row, so logged counters can be read against the settings that produced
// them.
func sessionSettings(cfg config.Config) string {
	b, _ := json.Marshal(struct {
		Model          string  `json:"model"`
		ScoreThreshold float64 `json:"score_threshold"`
		NMSThreshold   float64 `json:"nms_threshold"`
		PixelBlock     int     `json:"pixel_block"`
		FacePadding    float64 `json:"face_padding"`
		HoldFrames     int     `json:"hold_frames"`
	}{
		Model:          cfg.ModelPath,
		ScoreThreshold: cfg.ScoreThreshold,
		NMSThreshold:   cfg.NMSThreshold,
		PixelBlock:     cfg.PixelBlock,
		FacePadding:    cfg.FacePadding,
		HoldFrames:     cfg.HoldFrames,
	})
	return string(b)
}
