// Package geo summarizes where players issued location commands.
//
// Locations are game-world units with no datum, so geometries stay in a
// plain XY plane and elevation is dropped.
package geo

import (
	"errors"
	"math"
	"slices"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/zhstats/genrep/pkg/core"
)

// ErrInvalidLocation is returned for locations that cannot be placed on the map.
var ErrInvalidLocation = errors.New("invalid location")

// PointFromLocation converts a location argument into a point.
func PointFromLocation(loc [3]float32) (geom.Point, error) {
	x, y := float64(loc[0]), float64(loc[1])
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return geom.NewEmptyPoint(geom.DimXY), ErrInvalidLocation
	}
	return geom.NewPoint(geom.Coordinates{XY: geom.XY{X: x, Y: y}, Type: geom.DimXY}), nil
}

// Path joins the points into a line in the order given. It returns false for
// fewer than two points.
func Path(points []geom.Point) (geom.LineString, bool) {
	if len(points) < 2 {
		return geom.LineString{}, false
	}
	flat := make([]float64, 0, len(points)*2)
	for _, p := range points {
		c, ok := p.Coordinates()
		if !ok {
			continue
		}
		flat = append(flat, c.X, c.Y)
	}
	if len(flat) < 4 {
		return geom.LineString{}, false
	}
	return geom.NewLineString(geom.NewSequence(flat, geom.DimXY)), true
}

// Footprint builds the summary of one player's points.
func Footprint(num int, points []geom.Point) core.Footprint {
	fp := core.Footprint{PlayerNum: num}
	if len(points) == 0 {
		return fp
	}
	fp.MinX, fp.MinY = math.Inf(1), math.Inf(1)
	fp.MaxX, fp.MaxY = math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		c, ok := p.Coordinates()
		if !ok {
			continue
		}
		fp.Points++
		fp.MinX, fp.MaxX = min(fp.MinX, c.X), max(fp.MaxX, c.X)
		fp.MinY, fp.MaxY = min(fp.MinY, c.Y), max(fp.MaxY, c.Y)
	}
	if fp.Points == 0 {
		return core.Footprint{PlayerNum: num}
	}
	if xy, ok := geom.NewMultiPoint(points).Centroid().XY(); ok {
		fp.CentroidX, fp.CentroidY = xy.X, xy.Y
	}
	if line, ok := Path(points); ok {
		fp.PathLength = line.Length()
	}
	return fp
}

// Footprints returns one footprint per player in players, in ascending
// player order. Players without location commands get an empty footprint.
func Footprints(msgs []core.Message, players []int) []core.Footprint {
	byPlayer := make(map[int][]geom.Point, len(players))
	for _, m := range msgs {
		loc, ok := m.Location()
		if !ok {
			continue
		}
		p, err := PointFromLocation(loc)
		if err != nil {
			continue
		}
		byPlayer[int(m.Player)] = append(byPlayer[int(m.Player)], p)
	}

	nums := slices.Clone(players)
	slices.Sort(nums)
	out := make([]core.Footprint, 0, len(nums))
	for _, num := range slices.Compact(nums) {
		out = append(out, Footprint(num, byPlayer[num]))
	}
	return out
}
