// Package config defines the command-line configuration for facepix.
package config

import (
	"flag"
	"io"

	"github.com/ayusman/facepix/internal/detector"
	"github.com/ayusman/facepix/internal/mask"
)

// Config holds every tunable of a facepix run. The zero value is not
// usable; start from Default or ParseArgs.
type Config struct {
	// ModelPath locates the YuNet face detection model (ONNX).
	ModelPath string

	// CameraID selects the capture device when InputURI is empty.
	CameraID int

	// InputURI is a video file or stream URL. When set it overrides
	// CameraID.
	InputURI string

	// ScoreThreshold is the minimum detection confidence.
	ScoreThreshold float64

	// NMSThreshold controls non-maximum suppression in the detector.
	NMSThreshold float64

	// TopK caps the detection candidates kept before NMS.
	TopK int

	// PixelBlock is the mosaic block size in pixels.
	PixelBlock int

	// FacePadding is the ratio by which detected boxes grow before
	// masking, per side.
	FacePadding float64

	// HoldFrames is how many frames a vanished face stays masked.
	HoldFrames int

	// StatsDB is the SQLite path for the session log. Empty disables
	// the store.
	StatsDB string

	// ListenAddr is the HTTP preview address, e.g. ":8080". Empty
	// disables the server.
	ListenAddr string
}

// Default returns the configuration used when no flags are given.
func Default() Config {
	return Config{
		ModelPath:      "face_detection_yunet_2023mar.onnx",
		CameraID:       0,
		ScoreThreshold: 0.8,
		NMSThreshold:   0.3,
		TopK:           5000,
		PixelBlock:     28,
		FacePadding:    0.5,
		HoldFrames:     20,
	}
}

// ParseArgs fills a Config from command-line arguments, writing usage and
// diagnostics to output. A flag.ErrHelp from --help is returned unchanged
// so the caller can exit cleanly; any other error means the arguments were
// rejected. Out-of-range values are clamped, not rejected.
func ParseArgs(args []string, output io.Writer) (Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet("facepix", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&cfg.ModelPath, "model", cfg.ModelPath, "path to the YuNet face detection model (ONNX)")
	fs.IntVar(&cfg.CameraID, "camera", cfg.CameraID, "capture device index")
	fs.StringVar(&cfg.InputURI, "input", cfg.InputURI, "video file or stream URL (overrides --camera)")
	fs.Float64Var(&cfg.ScoreThreshold, "score-threshold", cfg.ScoreThreshold, "minimum detection confidence")
	fs.Float64Var(&cfg.NMSThreshold, "nms-threshold", cfg.NMSThreshold, "non-maximum suppression threshold")
	fs.IntVar(&cfg.TopK, "top-k", cfg.TopK, "detection candidates kept before suppression")
	fs.IntVar(&cfg.PixelBlock, "pixel-block", cfg.PixelBlock, "pixelation block size in pixels")
	fs.Float64Var(&cfg.FacePadding, "face-padding", cfg.FacePadding, "box expansion ratio before masking")
	fs.IntVar(&cfg.HoldFrames, "hold-frames", cfg.HoldFrames, "frames a vanished face stays masked")
	fs.StringVar(&cfg.StatsDB, "stats-db", cfg.StatsDB, "SQLite path for the session log (empty disables)")
	fs.StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "HTTP preview address, e.g. :8080 (empty disables)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.Validate()
	return cfg, nil
}

// Validate clamps values a run could not work with. A too-small pixel
// block would leave faces recognizable, so it is raised rather than
// reported.
func (c *Config) Validate() {
	if c.PixelBlock < mask.MinBlockSize {
		c.PixelBlock = mask.MinBlockSize
	}
	if c.HoldFrames < 0 {
		c.HoldFrames = 0
	}
	if c.FacePadding < 0 {
		c.FacePadding = 0
	}
}

// DetectorConfig returns the detector settings carried by this
// configuration.
func (c Config) DetectorConfig() detector.Config {
	return detector.Config{
		ModelPath:      c.ModelPath,
		ScoreThreshold: float32(c.ScoreThreshold),
		NMSThreshold:   float32(c.NMSThreshold),
		TopK:           c.TopK,
	}
}
