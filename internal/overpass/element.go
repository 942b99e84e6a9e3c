package overpass

// LatLon is a raw coordinate pair as reported by the service.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Element is the service's native record. Point geometries carry Lat/Lon
// directly; aggregated geometries (ways, relations) carry a Center instead.
// Tag keys are not guaranteed present.
type Element struct {
	ID     int64             `json:"id"`
	Type   string            `json:"type"`
	Lat    *float64          `json:"lat,omitempty"`
	Lon    *float64          `json:"lon,omitempty"`
	Center *LatLon           `json:"center,omitempty"`
	Tags   map[string]string `json:"tags,omitempty"`
}

// Response is the service's top-level response envelope.
type Response struct {
	Elements []Element `json:"elements"`
}
