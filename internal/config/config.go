// Package config defines the application configuration structure and loading.
package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
// A missing or short signing key is a fatal startup error, never a
// per-request one.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`

	// AdminEmailDomain marks accounts whose email ends with this domain as
	// administrators. Empty means nobody gets the admin claim. The policy is
	// deliberately replaceable; see auth.RolePolicy.
	AdminEmailDomain string `mapstructure:"admin_email_domain"`
}

// SMTPConfig contains the settings for the setup-email collaborator.
// When Enabled is false the application uses a no-op mailer.
type SMTPConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"     validate:"required_if=Enabled true"`
	Port     int    `mapstructure:"port"     validate:"omitempty,gt=0,lt=65536"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"     validate:"required_if=Enabled true,omitempty,email"`

	// BaseURL is the public URL the password-setup link is built from.
	BaseURL string `mapstructure:"base_url" validate:"required_if=Enabled true,omitempty,url"`
}
