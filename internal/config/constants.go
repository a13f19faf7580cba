package config

import "time"

// Application constants
const (
	// Application Info
	AppName    = "IDWR Viewer"
	AppVersion = "1.0.0"

	// Bundled samples
	SampleYearlyDisease  = "yearly_disease.csv"
	SampleYearlyPathogen = "yearly_pathogen.csv"
	DefaultSamplesDir    = "samples"

	// Rate Limiting
	DefaultRateLimit = 100 // requests per second
	DefaultBurstSize = 50

	// Timeouts
	DefaultRequestTimeout = 60 * time.Second
	DefaultFetchTimeout   = 15 * time.Second

	// Limits
	DefaultMaxUploadBytes = 32 << 20 // 32MB

	DefaultLogFile = "logs/app.log"
)
