package geoip

// Unknown is the placeholder value used for location fields that could not
// be resolved. Callers compare against the formatted string, so the
// placeholder must be stable.
const Unknown = "Unknown"

// Location is a best-effort IP geolocation result. All fields are optional
// on the wire; unresolved fields are normalized to Unknown.
type Location struct {
	City    string `json:"city"`
	Country string `json:"country"`
	IP      string `json:"ip"`
}

// String formats the location as "City, Country", the canonical form stored
// on profiles and compared by the suspicious login detector.
func (l Location) String() string {
	return l.City + ", " + l.Country
}

// IsUnknown reports whether the lookup failed to resolve both fields.
func (l Location) IsUnknown() bool {
	return l.City == Unknown && l.Country == Unknown
}

// normalize fills empty fields with the Unknown placeholder.
func (l Location) normalize() Location {
	if l.City == "" {
		l.City = Unknown
	}
	if l.Country == "" {
		l.Country = Unknown
	}
	if l.IP == "" {
		l.IP = Unknown
	}
	return l
}

// unknownLocation is returned for failed lookups.
func unknownLocation() Location {
	return Location{City: Unknown, Country: Unknown, IP: Unknown}
}
