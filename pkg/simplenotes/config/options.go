package config

import (
	"fmt"
	"time"
)

// WithPort sets the server port
func WithPort(port string) Option {
	return func(c *ServerConfig) error {
		if port == "" {
			return fmt.Errorf("port cannot be empty")
		}
		c.Port = port
		return nil
	}
}

// WithEnvironment sets the environment (development, production, testing)
func WithEnvironment(env string) Option {
	return func(c *ServerConfig) error {
		if env == "" {
			return fmt.Errorf("environment cannot be empty")
		}
		c.Environment = env
		return nil
	}
}

// WithLogging sets log level and format
func WithLogging(level, format string) Option {
	return func(c *ServerConfig) error {
		if level != "" {
			c.LogLevel = level
		}
		if format != "" {
			c.LogFormat = format
		}
		return nil
	}
}

// WithDatabase configures the metadata backend
func WithDatabase(dbType, url string) Option {
	return func(c *ServerConfig) error {
		if dbType != "memory" && dbType != "postgres" {
			return fmt.Errorf("database type must be 'memory' or 'postgres', got: %s", dbType)
		}
		if dbType == "postgres" && url == "" {
			return fmt.Errorf("database URL is required for postgres")
		}
		c.DatabaseType = dbType
		c.DatabaseURL = url
		return nil
	}
}

// WithDatabaseSchema sets the Postgres schema of the markdown_files table
func WithDatabaseSchema(schema string) Option {
	return func(c *ServerConfig) error {
		c.DBSchema = schema
		return nil
	}
}

// WithMemoryStorage keeps note bodies in memory
func WithMemoryStorage() Option {
	return func(c *ServerConfig) error {
		c.Storage.Type = "memory"
		return nil
	}
}

// WithFilesystemStorage stores note bodies below baseDir
func WithFilesystemStorage(baseDir string) Option {
	return func(c *ServerConfig) error {
		if baseDir == "" {
			return fmt.Errorf("filesystem base directory cannot be empty")
		}
		c.Storage.Type = "fs"
		c.Storage.BaseDir = baseDir
		return nil
	}
}

// WithS3Storage stores note bodies in an S3-compatible bucket
func WithS3Storage(s3 S3Config) Option {
	return func(c *ServerConfig) error {
		if s3.Bucket == "" {
			return fmt.Errorf("s3 bucket cannot be empty")
		}
		if s3.Region == "" {
			s3.Region = c.Storage.S3.Region
		}
		c.Storage.Type = "s3"
		c.Storage.S3 = s3
		return nil
	}
}

// WithSupabaseURL sets the hosted project URL
func WithSupabaseURL(url string) Option {
	return func(c *ServerConfig) error {
		c.SupabaseURL = url
		return nil
	}
}

// WithPublicBaseURL overrides the public file URL base
func WithPublicBaseURL(url string) Option {
	return func(c *ServerConfig) error {
		c.PublicBaseURL = url
		return nil
	}
}

// WithAdminPassword sets the shared admin secret
func WithAdminPassword(password string) Option {
	return func(c *ServerConfig) error {
		c.AdminPassword = password
		return nil
	}
}

// WithLocalNotesDir sets the directory listed when the table is unreachable
func WithLocalNotesDir(dir string) Option {
	return func(c *ServerConfig) error {
		c.LocalNotesDir = dir
		return nil
	}
}

// WithAllowedOrigins restricts CORS to the given origins
func WithAllowedOrigins(origins ...string) Option {
	return func(c *ServerConfig) error {
		c.AllowedOrigins = origins
		return nil
	}
}

// WithRequestLimits sets the body size limit and per-request timeout
func WithRequestLimits(maxBodyBytes int64, timeout time.Duration) Option {
	return func(c *ServerConfig) error {
		if maxBodyBytes < 0 {
			return fmt.Errorf("max body bytes cannot be negative")
		}
		c.MaxBodyBytes = maxBodyBytes
		if timeout > 0 {
			c.RequestTimeout = timeout
		}
		return nil
	}
}

// WithEventLogging enables or disables the logging event sink
func WithEventLogging(enabled bool) Option {
	return func(c *ServerConfig) error {
		c.EnableEventLogging = enabled
		return nil
	}
}
