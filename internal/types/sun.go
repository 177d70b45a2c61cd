package types

// SunAngles is the sun-window geometry of one hour, in degrees
type SunAngles struct {
	// Incidence is the angle between the beam and the glass normal.
	// HasIncidence is false when the dataset carries no value for the hour.
	Incidence    float64
	HasIncidence bool
	Altitude     float64
	// RelAzimuth is the solar azimuth relative to the surface normal
	RelAzimuth float64
}
