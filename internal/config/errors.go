package config

import "fmt"

// ConfigError reports a failure reading or parsing the configuration file.
type ConfigError struct {
	Kind    string
	Message string
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("config error (%v): %v", e.Kind, e.Message)
}

func errf(kind, format string, args ...any) error {
	return ConfigError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
