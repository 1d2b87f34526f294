package renderer

import "time"

// RenderStats contains statistics about one render pass
type RenderStats struct {
	Pixels         int           // Total number of pixels rendered
	Tiles          int           // Number of tiles dispatched
	Workers        int           // Number of workers that took part
	TilesPerWorker []int         // Tiles completed by each worker
	RenderTime     time.Duration // Wall time of the pass
}

// PixelsPerSecond returns the render throughput
func (s RenderStats) PixelsPerSecond() float64 {
	if s.RenderTime <= 0 {
		return 0
	}
	return float64(s.Pixels) / s.RenderTime.Seconds()
}
