package server

import (
	"fmt"
	"net/http"

	"github.com/df07/go-dungeon-raytracer/pkg/core"
	"github.com/df07/go-dungeon-raytracer/pkg/geometry"
	"github.com/df07/go-dungeon-raytracer/pkg/material"
	"github.com/df07/go-dungeon-raytracer/pkg/renderer"
	"github.com/df07/go-dungeon-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for pixel inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	Solid        int                    `json:"solid"`
	GeometryType string                 `json:"geometryType"`
	MaterialType string                 `json:"materialType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	TexturePoint [3]float64             `json:"texturePoint"`
	Distance     float64                `json:"distance"`
	Properties   map[string]interface{} `json:"properties"`
}

// materialInfo describes a material and its color at a texture point
func materialInfo(mat material.Material, point core.Point3) (string, map[string]interface{}) {
	properties := make(map[string]interface{})
	switch m := mat.(type) {
	case *material.FlatMaterial:
		c := m.Emission(point, core.Vec3{}, core.Vec3{})
		properties["color"] = hexColor(c)
		properties["alpha"] = c.A
		properties["luminance"] = c.Luminance()
		switch tex := m.Texture.(type) {
		case *material.ImageTexture:
			properties["texture"] = "image"
			properties["interpolation"] = tex.Interpolation.String()
			properties["border"] = tex.Border.String()
		case *material.ConstantTexture:
			properties["texture"] = "constant"
		}
		return "flat", properties
	case *material.PhongMaterial:
		properties["exponent"] = m.Exponent
		if m.Specular != nil {
			properties["specular"] = hexColor(m.Specular.Color(point))
		}
		return "phong", properties
	case *material.DummyMaterial:
		return "dummy", properties
	}
	return "unknown", properties
}

func hexColor(c core.Color4) string {
	px := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", px.R, px.G, px.B)
}

// inspectPixel casts the primary ray of a pixel and describes the first surface it hits
func inspectPixel(sc *scene.Scene, pose scene.Pose, width, height, px, py int) (InspectResponse, error) {
	cam, err := pose.Camera(sc.FOV)
	if err != nil {
		return InspectResponse{}, err
	}
	ray := renderer.PixelRay(cam, px, py, width, height)
	hit := sc.World.Scene.Intersect(ray, nil, nil)
	if hit == nil {
		return InspectResponse{Hit: false, Solid: -1}, nil
	}

	texPoint := hit.HitPoint()
	if m := hit.Solid.Mapper(); m != nil {
		texPoint = m.Coords(hit)
	}
	resp := InspectResponse{
		Hit:          true,
		Solid:        hit.Solid.Index(),
		Point:        point3(hit.HitPoint()),
		Normal:       [3]float64{hit.Normal.X, hit.Normal.Y, hit.Normal.Z},
		TexturePoint: point3(texPoint),
		Distance:     hit.Distance,
		MaterialType: "none",
	}
	switch hit.Solid.(type) {
	case *geometry.Quad:
		resp.GeometryType = "quad"
	case *geometry.Triangle:
		resp.GeometryType = "triangle"
	}
	if mat, ok := sc.World.Material(hit.Solid); ok {
		resp.MaterialType, resp.Properties = materialInfo(mat, texPoint)
	}
	return resp, nil
}

func point3(p core.Point3) [3]float64 {
	return [3]float64{p.X, p.Y, p.Z}
}

// handleInspect describes what is visible at one pixel of a frame
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	req, err := s.parseFrameRequest(values)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}
	px, err := parseIntParam(values, "px", req.Width/2, 0, req.Width-1)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}
	py, err := parseIntParam(values, "py", req.Height/2, 0, req.Height-1)
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

	resp, err := inspectPixel(sc, pose, req.Width, req.Height, px, py)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
