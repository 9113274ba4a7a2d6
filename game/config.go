package game

// Config holds front end settings
type Config struct {
	// ScreenWidth is the logical screen width in pixels
	ScreenWidth int

	// ScreenHeight is the logical screen height in pixels
	ScreenHeight int

	// Zoom is pixels per world unit
	Zoom float64

	// CameraLag is the fraction of the remaining distance the camera covers each frame
	CameraLag float64

	// LookAhead shifts the camera towards where the player is heading, in seconds of travel
	LookAhead float64

	// MinimapSize is the side of the minimap square in pixels
	MinimapSize int

	// SmokeParticles caps live tire smoke particles
	SmokeParticles int

	// Profile enables CPU profile capture on frame rate drops
	Profile bool

	// ProfilesDir receives captured profiles
	ProfilesDir string
}

// DefaultConfig returns a default configuration
func DefaultConfig() Config {
	return Config{
		ScreenWidth:    1280,
		ScreenHeight:   720,
		Zoom:           6,
		CameraLag:      0.1,
		LookAhead:      0.35,
		MinimapSize:    180,
		SmokeParticles: 400,
		ProfilesDir:    "profiles",
	}
}
