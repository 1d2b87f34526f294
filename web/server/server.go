package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/df07/go-dungeon-raytracer/pkg/config"
	"github.com/df07/go-dungeon-raytracer/pkg/core"
	"github.com/df07/go-dungeon-raytracer/pkg/integrator"
	"github.com/df07/go-dungeon-raytracer/pkg/log"
	"github.com/df07/go-dungeon-raytracer/pkg/renderer"
	"github.com/df07/go-dungeon-raytracer/pkg/scene"
)

var logger = log.New("server")

// Server renders frames over HTTP and keeps dungeon walks alive between requests
type Server struct {
	addr  string
	cfg   *config.Config
	opts  scene.Options
	mux   *http.ServeMux
	mu       sync.Mutex
	walks    map[string]*walkSession
	order    []string // Walk ids, oldest first
	maxWalks int
	next     int
}

// FrameRequest holds the parameters shared by every rendering endpoint
type FrameRequest struct {
	Scene      string
	Width      int
	Height     int
	Integrator string
	Pose       *scene.Pose // nil uses the scene start
}

// Stats represents render statistics
type Stats struct {
	TotalPixels int   `json:"totalPixels"`
	Tiles       int   `json:"tiles"`
	Workers     int   `json:"workers"`
	RenderMs    int64 `json:"renderMs"`
}

// NewServer creates a server listening on addr. Scene options (tileset, level,
// debug) apply to every scene it builds.
func NewServer(addr string, cfg *config.Config, opts scene.Options) *Server {
	s := &Server{
		addr:     addr,
		cfg:      cfg,
		opts:     opts,
		mux:      http.NewServeMux(),
		walks:    make(map[string]*walkSession),
		maxWalks: MaxWalks,
	}
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/scenes", s.handleScenes)
	s.mux.HandleFunc("/api/render", s.handleRender)
	s.mux.HandleFunc("/api/inspect", s.handleInspect)
	s.mux.HandleFunc("/api/walk", s.handleWalk)
	s.mux.HandleFunc("/api/walk/step", s.handleWalkStep)
	return s
}

// Handler returns the HTTP handler of the server
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start serves until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.mux, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() {
		logger.Noticef("starting web server on http://%s", s.addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scene.List())
}

// handleRender renders one frame and returns it as a PNG image
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseFrameRequest(r.URL.Query())
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}

	sc, err := scene.Build(req.Scene, s.opts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	pose := sc.Start
	if req.Pose != nil {
		pose = *req.Pose
	}

	img, stats, err := s.renderFrame(r.Context(), sc, req, pose)
	if err != nil {
		http.Error(w, fmt.Sprintf("Render error: %v", err), http.StatusInternalServerError)
		return
	}
	logger.Infof("rendered %s %dx%d in %s", req.Scene, req.Width, req.Height, stats.RenderTime)

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Render-Ms", strconv.FormatInt(stats.RenderTime.Milliseconds(), 10))
	if err := png.Encode(w, img.ToNRGBA()); err != nil {
		logger.Warningf("failed to send frame: %v", err)
	}
}

// parseFrameRequest parses and validates the frame parameters of a query
func (s *Server) parseFrameRequest(values url.Values) (*FrameRequest, error) {
	req := &FrameRequest{Scene: values.Get("scene"), Integrator: values.Get("integrator")}
	if req.Scene == "" {
		req.Scene = s.cfg.Scene
	}
	if req.Integrator == "" {
		req.Integrator = s.cfg.Integrator
	}
	switch req.Integrator {
	case config.IntegratorRayTracer, config.IntegratorCasting:
	default:
		return nil, fmt.Errorf("unknown integrator %q", req.Integrator)
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", s.cfg.Width, 1, 2000); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(values, "height", s.cfg.Height, 1, 2000); err != nil {
		return nil, err
	}

	if values.Has("x") || values.Has("y") || values.Has("z") || values.Has("heading") {
		var p scene.Pose
		if p.X, err = parseFloatParam(values, "x", 0, -1e6, 1e6); err != nil {
			return nil, err
		}
		if p.Y, err = parseFloatParam(values, "y", 0, -1e6, 1e6); err != nil {
			return nil, err
		}
		if p.Z, err = parseFloatParam(values, "z", 0, -1e6, 1e6); err != nil {
			return nil, err
		}
		heading, err := parseFloatParam(values, "heading", 0, -3600, 3600)
		if err != nil {
			return nil, err
		}
		p.Heading = heading * math.Pi / 180
		req.Pose = &p
	}
	return req, nil
}

// renderFrame renders sc from pose with the requested integrator
func (s *Server) renderFrame(ctx context.Context, sc *scene.Scene, req *FrameRequest, pose scene.Pose) (*core.Image, renderer.RenderStats, error) {
	cam, err := pose.Camera(sc.FOV)
	if err != nil {
		return nil, renderer.RenderStats{}, err
	}
	sc.Follow(pose)
	var integ integrator.Integrator = integrator.NewRayTracer(sc.World)
	if req.Integrator == config.IntegratorCasting {
		casting := integrator.NewCasting(sc.World.Scene)
		if s.cfg.Colorize {
			casting = casting.Colorized()
		}
		integ = casting
	}
	img, err := core.NewImage(req.Width, req.Height)
	if err != nil {
		return nil, renderer.RenderStats{}, err
	}
	r := renderer.New(cam, integ, renderer.Options{Workers: s.cfg.Workers, TileSize: s.cfg.TileSize})
	stats, err := r.RenderContext(ctx, img)
	return img, stats, err
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if !(parsed >= min && parsed <= max) {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img *core.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img.ToNRGBA()); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warningf("failed to encode response: %v", err)
	}
}
