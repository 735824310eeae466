package geo

import (
	"math"
	"testing"
)

func TestHaversineKM_SamePoint(t *testing.T) {
	if d := HaversineKM(39.9, 116.3, 39.9, 116.3); d != 0 {
		t.Errorf("distance to self = %f, want 0", d)
	}
}

func TestHaversineKM_Symmetric(t *testing.T) {
	d1 := HaversineKM(39.90, 116.30, 31.23, 121.47)
	d2 := HaversineKM(31.23, 121.47, 39.90, 116.30)
	if math.Abs(d1-d2) > 1e-9 {
		t.Errorf("haversine not symmetric: %f vs %f", d1, d2)
	}
}

func TestHaversineKM_KnownDistances(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		wantKM                 float64
	}{
		// One degree of latitude at the equator.
		{"equator 1 deg lat", 0, 0, 1, 0, 111.2},
		// Beijing to Shanghai, roughly.
		{"beijing-shanghai", 39.9042, 116.4074, 31.2304, 121.4737, 1068},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineKM(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.wantKM)/tt.wantKM > 0.01 {
				t.Errorf("distance = %f km, want %f km within 1%%", got, tt.wantKM)
			}
		})
	}
}

func TestBoundingBox_SupersetOfCircle(t *testing.T) {
	c := Circle{CenterLatitude: 39.905, CenterLongitude: 116.305, RadiusKM: 5}
	box := BoundingBox(c)

	// Sample points on the circle boundary in all directions; every point
	// within the radius must fall inside the box.
	for deg := 0; deg < 360; deg += 15 {
		bearing := float64(deg) * math.Pi / 180
		// Walk ~radius km from center (small-angle approximation is fine
		// for the superset check).
		lat := c.CenterLatitude + (c.RadiusKM/111.32)*math.Cos(bearing)
		lon := c.CenterLongitude + (c.RadiusKM/(111.32*math.Cos(c.CenterLatitude*math.Pi/180)))*math.Sin(bearing)
		if !c.Contains(lat, lon) {
			continue
		}
		inBox := lat >= box.MinLatitude && lat <= box.MaxLatitude &&
			lon >= box.MinLongitude && lon <= box.MaxLongitude
		if !inBox {
			t.Errorf("point (%f, %f) within radius but outside bounding box", lat, lon)
		}
	}
}

func TestBoundingBox_WidensWithLatitude(t *testing.T) {
	equator := BoundingBox(Circle{CenterLatitude: 0, CenterLongitude: 0, RadiusKM: 10})
	north := BoundingBox(Circle{CenterLatitude: 60, CenterLongitude: 0, RadiusKM: 10})

	eqWidth := equator.MaxLongitude - equator.MinLongitude
	noWidth := north.MaxLongitude - north.MinLongitude
	if noWidth <= eqWidth {
		t.Errorf("longitude span at 60N (%f) should exceed span at equator (%f)", noWidth, eqWidth)
	}

	eqHeight := equator.MaxLatitude - equator.MinLatitude
	noHeight := north.MaxLatitude - north.MinLatitude
	if math.Abs(eqHeight-noHeight) > 1e-9 {
		t.Errorf("latitude span should not depend on latitude: %f vs %f", eqHeight, noHeight)
	}
}

func TestCircle_Contains(t *testing.T) {
	c := Circle{CenterLatitude: 39.905, CenterLongitude: 116.305, RadiusKM: 5}
	if !c.Contains(39.90, 116.30) {
		t.Error("nearby point should be inside 5 km circle")
	}
	if c.Contains(40.5, 117.0) {
		t.Error("far point should be outside 5 km circle")
	}
}

func TestValidateCoordinates(t *testing.T) {
	tests := []struct {
		lat, lon float64
		want     bool
	}{
		{0, 0, true},
		{90, 180, true},
		{-90, -180, true},
		{91, 0, false},
		{0, 181, false},
		{-95, 200, false},
	}
	for _, tt := range tests {
		if got := ValidateCoordinates(tt.lat, tt.lon); got != tt.want {
			t.Errorf("ValidateCoordinates(%f, %f) = %v, want %v", tt.lat, tt.lon, got, tt.want)
		}
	}
}
