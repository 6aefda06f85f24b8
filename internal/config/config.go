package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Task     TaskConfig     `mapstructure:"task" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// TaskConfig contains settings for the background task subsystem.
type TaskConfig struct {
	// QueueSize is the capacity of the in-memory job queue. Enqueue attempts
	// beyond this capacity are rejected rather than blocking request handlers.
	QueueSize int `mapstructure:"queue_size" validate:"required,gt=0"`

	// WorkerCount is the number of dispatcher goroutines draining the queue.
	WorkerCount int `mapstructure:"worker_count" validate:"required,gt=0"`

	// MergeBatchSize is the number of member rows written per database round
	// trip during a collection merge.
	MergeBatchSize int `mapstructure:"merge_batch_size" validate:"required,gt=0"`
}
