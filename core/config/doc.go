// Package config provides configuration management for the sync service.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: health check HTTP server settings (port)
//   - Log: logging level and format
//   - Cache: dedup cache database (SQLite file or MySQL connection)
//   - Bitable: remote table API credentials and limits
//   - Pipeline: run interval, cache retention and source selection
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Bitable.TableID)
package config
