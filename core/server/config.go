package server

// Config holds configuration for the health check HTTP server.
type Config struct {
	// Port is the port where the health server will listen.
	Port string `mapstructure:"port" default:"8080"`
}
