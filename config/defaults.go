package config

import "github.com/philipp01105/easylog/formatter"

// Default returns a Config populated with the built-in defaults.
func Default() Config {
	fc := formatter.DefaultConfig()
	return Config{
		LogPath:       "var/log/dev-readable.log",
		MaxLineLength: fc.MaxLineLength,
		PrefixLength:  fc.PrefixLength,
		IgnoredRoutes: fc.IgnoredRoutes,
		Level:         "debug",
		Format:        FormatEasyLog,
		Rotation: Rotation{
			MaxSizeMB:  0,
			MaxBackups: 5,
			Compress:   false,
		},
		Buffer: Buffer{
			Limit:    0,
			Overflow: "flush",
		},
	}
}
