// Package config loads runtime configuration for the gophauth CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via -c or -config. YAML when the name
//     ends in .yaml/.yml, otherwise JSON (comments allowed).
//  3. Environment variables prefixed with GOPHAUTH_.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   identity API base URL
//	-d string   local database file
//	-t int      request timeout (seconds)
//	-l string   log level
//
// Environment
//
//	GOPHAUTH_API_BASE_URL     GOPHAUTH_DATABASE_PATH   GOPHAUTH_REQUEST_TIMEOUT
//	GOPHAUTH_LOG_LEVEL        GOPHAUTH_LOG_BACKEND     GOPHAUTH_LOG_FORMAT
//	GOPHAUTH_LANDING_PATH     GOPHAUTH_LOGIN_PATH
//
// # File schema
//
// The file loader uses timex.Duration for the timeout, so it can be either a
// string like "10s" or integer nanoseconds:
//
//	{
//	  // local development server
//	  "api_base_url": "http://localhost:8000/api/v1",
//	  "database_path": "gophauth.db",
//	  "request_timeout": "10s",
//	  "log_level": "debug"
//	}
package config
