package enrich

// Walkability is the cached walk/transit/bike score panel for a location.
type Walkability struct {
	WalkScore    int    `json:"walkScore"`
	TransitScore int    `json:"transitScore,omitempty"`
	BikeScore    int    `json:"bikeScore,omitempty"`
	Description  string `json:"description,omitempty"`
}

// POI is one nearby point of interest.
type POI struct {
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
	DistanceMeters float64 `json:"distanceMeters"`
}
