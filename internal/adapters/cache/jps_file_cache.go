package cache

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"store-route-optimizer/internal/domain"
)

// On-disk format identifiers. cacheVersion changes whenever the layout
// below changes; older files then load as a miss and get recomputed.
const (
	cacheExtension = ".jps"
	cacheVersion   = uint32(3)
)

var cacheMagic = [4]byte{'J', 'P', 'S', 0x01}

// JPSFileCache persists a full all-pairs computation to a binary file.
//
// Layout (little-endian, fixed order, no padding):
//
//	magic       4 bytes
//	version     u32
//	fingerprint u64
//	poi_count   u32
//	distances   poi_count^2 * f32 (row-major)
//	per matrix cell:
//	    point_count u16 (0 = no segment stored)
//	    points      point_count * (i16 x, i16 y)
//	    total_cost  i16
//
// The file is safe to delete at any time; deletion is just a forced miss.
type JPSFileCache struct {
	path string
}

// NewJPSFileCache builds a cache writing to prefix + ".jps".
func NewJPSFileCache(prefix string) *JPSFileCache {
	return &JPSFileCache{path: prefix + cacheExtension}
}

// Path returns the backing file location.
func (c *JPSFileCache) Path() string { return c.path }

// Save writes both matrices atomically: the payload goes to a temp file in
// the same directory which is then renamed over the final path, so a crash
// mid-write never leaves a partial file that could validate.
func (c *JPSFileCache) Save(
	fingerprint uint64,
	distances *domain.DistanceMatrix,
	paths *domain.PathMatrix,
) (err error) {
	if distances.Size() != paths.Size() {
		return fmt.Errorf("jps cache save: matrix sizes differ (%d vs %d)", distances.Size(), paths.Size())
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("jps cache save: make cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(c.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("jps cache save: create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	if err = writeCachePayload(w, fingerprint, distances, paths); err != nil {
		return fmt.Errorf("jps cache save: %w", err)
	}
	if err = w.Flush(); err != nil {
		return fmt.Errorf("jps cache save: flush: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("jps cache save: sync: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("jps cache save: close temp file: %w", err)
	}

	if err = os.Rename(tmp.Name(), c.path); err != nil {
		return fmt.Errorf("jps cache save: rename into place: %w", err)
	}
	return nil
}

// Load reads a previously saved computation. Every validation failure
// (missing file, bad magic, version/fingerprint/POI-count mismatch,
// truncated payload) is reported as a miss, never an error: the caller
// must treat the file as cold and recompute.
func (c *JPSFileCache) Load(
	fingerprint uint64,
	poiCount int,
) (*domain.DistanceMatrix, *domain.PathMatrix, bool, error) {
	f, err := os.Open(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, false, nil
		}
		return nil, nil, false, fmt.Errorf("jps cache load: open %q: %w", c.path, err)
	}
	defer f.Close()

	dm, pm, err := readCachePayload(bufio.NewReader(f), fingerprint, poiCount)
	if err != nil {
		// Any format mismatch is a soft miss; the file will be rewritten
		// after recomputation.
		logrus.Debugf("jps cache miss path=%s reason=%v", c.path, err)
		return nil, nil, false, nil
	}
	return dm, pm, true, nil
}

func writeCachePayload(
	w io.Writer,
	fingerprint uint64,
	distances *domain.DistanceMatrix,
	paths *domain.PathMatrix,
) error {
	n := distances.Size()

	if _, err := w.Write(cacheMagic[:]); err != nil {
		return fmt.Errorf("write magic: %w", err)
	}
	for _, v := range []any{cacheVersion, fingerprint, uint32(n)} {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	if err := binary.Write(w, binary.LittleEndian, distances.Data()); err != nil {
		return fmt.Errorf("write distance matrix: %w", err)
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if err := writeSegment(w, paths.At(i, j)); err != nil {
				return fmt.Errorf("write segment (%d,%d): %w", i, j, err)
			}
		}
	}
	return nil
}

func writeSegment(w io.Writer, seg *domain.PathSegment) error {
	if seg == nil {
		return binary.Write(w, binary.LittleEndian, uint16(0))
	}
	if len(seg.Points) > math.MaxUint16 {
		return fmt.Errorf("segment has %d points, exceeds format limit", len(seg.Points))
	}

	if err := binary.Write(w, binary.LittleEndian, uint16(len(seg.Points))); err != nil {
		return err
	}
	for _, p := range seg.Points {
		if err := binary.Write(w, binary.LittleEndian, int16(p.X)); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, int16(p.Y)); err != nil {
			return err
		}
	}
	return binary.Write(w, binary.LittleEndian, int16(seg.Cost))
}

func readCachePayload(
	r io.Reader,
	wantFingerprint uint64,
	wantPOICount int,
) (*domain.DistanceMatrix, *domain.PathMatrix, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, nil, fmt.Errorf("read magic: %w", err)
	}
	if magic != cacheMagic {
		return nil, nil, fmt.Errorf("bad magic %v", magic)
	}

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, nil, fmt.Errorf("read version: %w", err)
	}
	if version != cacheVersion {
		return nil, nil, fmt.Errorf("version %d, want %d", version, cacheVersion)
	}

	var fingerprint uint64
	if err := binary.Read(r, binary.LittleEndian, &fingerprint); err != nil {
		return nil, nil, fmt.Errorf("read fingerprint: %w", err)
	}
	if fingerprint != wantFingerprint {
		return nil, nil, fmt.Errorf("fingerprint %016x, want %016x", fingerprint, wantFingerprint)
	}

	var poiCount uint32
	if err := binary.Read(r, binary.LittleEndian, &poiCount); err != nil {
		return nil, nil, fmt.Errorf("read poi count: %w", err)
	}
	if int(poiCount) != wantPOICount {
		return nil, nil, fmt.Errorf("poi count %d, want %d", poiCount, wantPOICount)
	}

	n := int(poiCount)
	dm := domain.NewDistanceMatrix(n)
	if err := binary.Read(r, binary.LittleEndian, dm.Data()); err != nil {
		return nil, nil, fmt.Errorf("read distance matrix: %w", err)
	}

	pm := domain.NewPathMatrix(n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			seg, err := readSegment(r)
			if err != nil {
				return nil, nil, fmt.Errorf("read segment (%d,%d): %w", i, j, err)
			}
			if seg == nil {
				continue
			}
			// The file stores symmetric cells twice; restore the shared
			// segment object the planner originally built.
			if i > j && pm.At(j, i) != nil {
				pm.Set(i, j, pm.At(j, i))
				continue
			}
			pm.Set(i, j, seg)
		}
	}

	return dm, pm, nil
}

func readSegment(r io.Reader) (*domain.PathSegment, error) {
	var count uint16
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}

	points := make([]domain.Point, count)
	for i := range points {
		var x, y int16
		if err := binary.Read(r, binary.LittleEndian, &x); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.LittleEndian, &y); err != nil {
			return nil, err
		}
		points[i] = domain.Point{X: int(x), Y: int(y)}
	}

	var cost int16
	if err := binary.Read(r, binary.LittleEndian, &cost); err != nil {
		return nil, err
	}
	return &domain.PathSegment{Points: points, Cost: int(cost)}, nil
}
