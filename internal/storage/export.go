package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	Run    RunMetadata    `json:"run"`
	Frames [][][2]float64 `json:"frames"`
}

// Export writes a run's metadata and every frame as one JSON document.
func (s *Store) Export(runID string, w io.Writer) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}

	n, err := s.FrameCount(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		Run:    *meta,
		Frames: make([][][2]float64, n),
	}
	for i := 0; i < n; i++ {
		points, err := s.ReadFrame(runID, i)
		if err != nil {
			return err
		}
		frame := make([][2]float64, len(points))
		for j, p := range points {
			frame[j] = [2]float64{p.X, p.Y}
		}
		data.Frames[i] = frame
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
