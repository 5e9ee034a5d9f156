// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse loads the client configuration.

# Configuration

Load returns a Config built from layered sources; the command applies its
flags on top and then calls Finalize:

	cfg, err := cliparse.Load(configFile)
	// apply flags
	err = cfg.Finalize()

# Layers

Later layers override earlier ones:

 1. Defaults (see Defaults)
 2. .env in the working directory, if present
 3. YAML file: the one given with --config, else ~/.eballot/eballot.yaml if present
 4. EBALLOT_* environment variables
 5. Command-line flags

# Config Fields

  - APIBaseURL: voting service API root (default: http://localhost:5000/api)
  - StorageType: file, sqlite, postgres or badger (default: file)
  - StoragePath: file, SQLite database or badger directory
    (default: ~/.eballot/session.json, session.db or badger)
  - DatabaseURL: PostgreSQL connection string (postgres only)
  - AlertTimeout: how long alerts stay up (default: 5s)
  - RequestTimeout: per-request limit, 0 for none (default: 0)
  - MetricsTextfile: write request metrics here on exit (default: off)
  - ResultsStatus: status filter of the results election list (default: active)
  - Debug: verbose logging

# Environment Variables

	EBALLOT_API_BASE_URL     → apiBaseUrl
	EBALLOT_STORAGE_TYPE     → storageType
	EBALLOT_STORAGE_PATH     → storagePath
	EBALLOT_DATABASE_URL     → databaseUrl
	EBALLOT_ALERT_TIMEOUT    → alertTimeout
	EBALLOT_REQUEST_TIMEOUT  → requestTimeout
	EBALLOT_METRICS_TEXTFILE → metricsTextfile
	EBALLOT_RESULTS_STATUS   → resultsStatus
	EBALLOT_DEBUG            → debug

# Validation

Finalize returns an error if:
  - the API base URL is not an absolute http or https URL
  - the storage type is unknown
  - postgres storage has no database URL
  - a timeout is negative
  - the results status is not upcoming, active or completed
*/
package cliparse
