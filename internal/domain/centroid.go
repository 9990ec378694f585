package domain

import "math/rand/v2"

// DefaultCentroid is used when a region prefix is not in the centroid table:
// the approximate geographic center of South Korea.
var DefaultCentroid = Geo{Lat: 36.5, Lon: 127.5}

// DefaultJitterSigma is the standard deviation, in degrees, of the jitter
// added to each axis.
const DefaultJitterSigma = 0.04

// centroids maps the two-character prefix of each top-level administrative
// region to a representative coordinate.
var centroids = map[string]Geo{
	"서울": {37.5665, 126.9780},
	"부산": {35.1796, 129.0756},
	"대구": {35.8714, 128.6014},
	"인천": {37.4563, 126.7052},
	"광주": {35.1595, 126.8526},
	"대전": {36.3504, 127.3845},
	"울산": {35.5384, 129.3114},
	"세종": {36.4800, 127.2890},
	"경기": {37.4138, 127.5183},
	"강원": {37.8228, 128.1555},
	"충북": {36.6350, 127.4914},
	"충남": {36.5184, 126.8000},
	"전북": {35.7175, 127.1530},
	"전남": {34.8161, 126.4629},
	"경북": {36.5760, 128.5056},
	"경남": {35.2383, 128.6925},
	"제주": {33.4890, 126.4983},
}

// RegionPrefix returns the first two characters of a region name.
func RegionPrefix(region string) string {
	r := []rune(region)
	if len(r) > 2 {
		r = r[:2]
	}
	return string(r)
}

// Centroid looks up the centroid for a region by its two-character prefix.
// The boolean is false when the prefix is unknown and DefaultCentroid was returned.
func Centroid(region string) (Geo, bool) {
	if g, ok := centroids[RegionPrefix(region)]; ok {
		return g, true
	}
	return DefaultCentroid, false
}

// Jitter offsets each axis of g by an independent N(0, sigma²) draw from rng.
// A nil rng or a non-positive sigma returns g unchanged.
func Jitter(g Geo, rng *rand.Rand, sigma float64) Geo {
	if rng == nil || sigma <= 0 {
		return g
	}
	return Geo{
		Lat: g.Lat + rng.NormFloat64()*sigma,
		Lon: g.Lon + rng.NormFloat64()*sigma,
	}
}
