package storage

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/san-kum/gravsim/internal/geom"
)

var (
	ErrFrameWrite = errors.New("storage: failed to write frame")
	ErrBadFrame   = errors.New("storage: malformed frame")
)

var framePattern = regexp.MustCompile(`^frame-(\d+)\.txt$`)

func framePath(dir string, n int) string {
	return filepath.Join(dir, fmt.Sprintf("frame-%d.txt", n))
}

// FrameWriter persists point sets as sequentially numbered files in one
// directory, one "x,y" line per point. Frames are never overwritten.
type FrameWriter struct {
	dir     string
	counter int
}

// NewFrameWriter creates dir if needed.
func NewFrameWriter(dir string) (*FrameWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("storage: create frame dir: %w", err)
	}
	return &FrameWriter{dir: dir}, nil
}

func (w *FrameWriter) Dir() string { return w.dir }

// Frames is the number of frames written so far.
func (w *FrameWriter) Frames() int { return w.counter }

func (w *FrameWriter) Write(points []geom.Point) error {
	path := framePath(w.dir, w.counter)
	if err := writePoints(path, points); err != nil {
		return fmt.Errorf("%w %d: %w", ErrFrameWrite, w.counter, err)
	}
	w.counter++
	return nil
}

func writePoints(path string, points []geom.Point) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(file)
	for _, p := range points {
		bw.WriteString(FormatPoint(p))
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		file.Close()
		return err
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// FormatPoint renders p as "x,y" using the shortest decimal form, never
// scientific notation.
func FormatPoint(p geom.Point) string {
	return strconv.FormatFloat(p.X, 'f', -1, 64) + "," + strconv.FormatFloat(p.Y, 'f', -1, 64)
}

func ParsePoint(line string) (geom.Point, error) {
	xs, ys, ok := strings.Cut(line, ",")
	if !ok || strings.Contains(ys, ",") {
		return geom.Point{}, fmt.Errorf("%w: %q", ErrBadFrame, line)
	}
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return geom.Point{}, fmt.Errorf("%w: %q", ErrBadFrame, line)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return geom.Point{}, fmt.Errorf("%w: %q", ErrBadFrame, line)
	}
	return geom.NewPoint(x, y), nil
}

// ReadFrame loads frame n from dir.
func ReadFrame(dir string, n int) ([]geom.Point, error) {
	file, err := os.Open(framePath(dir, n))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	points := make([]geom.Point, 0)
	sc := bufio.NewScanner(file)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		p, err := ParsePoint(line)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", n, err)
		}
		points = append(points, p)
	}
	return points, sc.Err()
}

// CountFrames returns the number of consecutive frames starting at 0.
func CountFrames(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	present := make(map[int]bool, len(entries))
	for _, e := range entries {
		m := framePattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		present[n] = true
	}

	n := 0
	for present[n] {
		n++
	}
	return n, nil
}
