package config

import "fmt"

// Storage driver names.
const (
	DriverPostgres = "postgres"
	DriverLocal    = "local"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically. A failure
// here aborts startup — missing credentials are never retried silently.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	switch c.Storage.Driver {
	case DriverPostgres:
		if c.Storage.Database.DSN == "" {
			return fmt.Errorf("storage.database.dsn is required with the postgres driver")
		}
	case DriverLocal:
		if c.Storage.LocalDir == "" {
			return fmt.Errorf("storage.local_dir is required with the local driver")
		}
	default:
		return fmt.Errorf("storage.driver must be %q or %q (got %q)", DriverPostgres, DriverLocal, c.Storage.Driver)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535] (got %d)", c.Server.Port)
	}

	if c.UI.ToastLimit <= 0 {
		return fmt.Errorf("ui.toast_limit must be > 0 (got %d)", c.UI.ToastLimit)
	}
	if c.UI.DefaultPageSize <= 0 {
		return fmt.Errorf("ui.default_page_size must be > 0 (got %d)", c.UI.DefaultPageSize)
	}

	return nil
}
