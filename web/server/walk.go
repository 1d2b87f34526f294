package server

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"

	"github.com/df07/go-dungeon-raytracer/pkg/scene"
)

// MaxWalks is how many walk sessions a server keeps. Opening one more
// closes the oldest.
const MaxWalks = 16

// walkSession is one player walking through one dungeon
type walkSession struct {
	mu     sync.Mutex
	scene  *scene.Scene
	walker *scene.Walker
	req    FrameRequest
}

// WalkStarted is the response to opening a walk session
type WalkStarted struct {
	ID   string     `json:"id"`
	Pose [4]float64 `json:"pose"` // x, y, z, heading in degrees
}

// FrameUpdate represents a single walk frame sent via SSE
type FrameUpdate struct {
	Index     int        `json:"index"`
	Action    string     `json:"action"`
	ImageData string     `json:"imageData"` // Base64 encoded PNG
	Pose      [4]float64 `json:"pose"`
	Message   string     `json:"message,omitempty"`
	HasKey    bool       `json:"hasKey"`
	DoorOpen  bool       `json:"doorOpen"`
	Stats     Stats      `json:"stats"`
}

func poseJSON(p scene.Pose) [4]float64 {
	return [4]float64{p.X, p.Y, p.Z, p.Heading * 180 / math.Pi}
}

// handleWalk opens (POST) or closes (DELETE) a walk session
func (s *Server) handleWalk(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleWalkStart(w, r)
	case http.MethodDelete:
		id := r.URL.Query().Get("id")
		if !s.closeWalk(id) {
			http.Error(w, "unknown walk session", http.StatusNotFound)
			return
		}
		logger.Infof("walk %s closed", id)
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "use POST to start a walk or DELETE to end one", http.StatusMethodNotAllowed)
	}
}

// handleWalkStart opens a walk session on a level based scene
func (s *Server) handleWalkStart(w http.ResponseWriter, r *http.Request) {
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
	if sc.Dungeon == nil {
		http.Error(w, fmt.Sprintf("scene %s has no level to walk through", req.Scene), http.StatusBadRequest)
		return
	}

	walker := scene.NewWalker(sc.Dungeon)
	if req.Pose != nil {
		walker.Teleport(*req.Pose)
	}

	s.mu.Lock()
	s.next++
	id := strconv.Itoa(s.next)
	s.walks[id] = &walkSession{scene: sc, walker: walker, req: *req}
	s.order = append(s.order, id)
	for len(s.order) > s.maxWalks {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.walks, oldest)
		logger.Infof("walk %s evicted", oldest)
	}
	s.mu.Unlock()

	logger.Infof("walk %s started in %s", id, req.Scene)
	writeJSON(w, http.StatusCreated, WalkStarted{ID: id, Pose: poseJSON(walker.Pose())})
}

// handleWalkStep performs actions in a walk session and streams every frame with SSE
func (s *Server) handleWalkStep(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	s.mu.Lock()
	session, ok := s.walks[values.Get("id")]
	s.mu.Unlock()
	if !ok {
		http.Error(w, "unknown walk session", http.StatusNotFound)
		return
	}
	actions, err := scene.ParseActions(values.Get("actions"))
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	setSSEHeaders(w)
	ctx := r.Context()
	index := 0
	for _, action := range actions {
		step, err := session.walker.Do(action)
		if err != nil {
			sendSSEEvent(w, "error", err.Error())
			return
		}
		for _, pose := range step.Frames {
			img, stats, err := s.renderFrame(ctx, session.scene, &session.req, pose)
			if err != nil {
				// client gone or render failed
				sendSSEEvent(w, "error", fmt.Sprintf("Render error: %v", err))
				return
			}
			data, err := imageToBase64PNG(img)
			if err != nil {
				sendSSEEvent(w, "error", fmt.Sprintf("failed to encode image: %v", err))
				return
			}
			update := FrameUpdate{
				Index:     index,
				Action:    action.String(),
				ImageData: data,
				Pose:      poseJSON(pose),
				Message:   step.Message,
				HasKey:    session.walker.HasKey(),
				DoorOpen:  session.walker.DoorOpen(),
				Stats: Stats{
					TotalPixels: stats.Pixels,
					Tiles:       stats.Tiles,
					Workers:     stats.Workers,
					RenderMs:    stats.RenderTime.Milliseconds(),
				},
			}
			payload, err := json.Marshal(update)
			if err != nil {
				sendSSEEvent(w, "error", err.Error())
				return
			}
			if err := sendSSEEvent(w, "frame", string(payload)); err != nil {
				logger.Warningf("walk stream closed: %v", err)
				return
			}
			index++
		}
	}
	sendSSEEvent(w, "complete", strconv.Itoa(index))
}

// closeWalk forgets a walk session. A step already streaming keeps its session
// until it finishes.
func (s *Server) closeWalk(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.walks[id]; !ok {
		return false
	}
	delete(s.walks, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// sendSSEEvent writes one event and flushes it to the client
func sendSSEEvent(w http.ResponseWriter, event, data string) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}
