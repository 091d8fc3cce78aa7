package config

import "errors"

var (
	// ErrParsingConfig is returned when environment variables cannot be parsed into the config struct.
	ErrParsingConfig = errors.New("config.parse_failed")

	// ErrEnvFile is returned when a dotenv file exists but cannot be read.
	ErrEnvFile = errors.New("config.env_file_unreadable")
)
