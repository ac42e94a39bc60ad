package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validate validates the DaemonConfig using struct tags and cross-field rules.
// Returns an error if validation fails, with actionable error messages.
func (c *DaemonConfig) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())

	if err := v.Struct(c); err != nil {
		return formatValidationErrors(err)
	}

	if err := c.validateDistinctProxyPorts(); err != nil {
		return err
	}
	if err := c.validateDistinctXamppPorts(); err != nil {
		return err
	}

	return nil
}

// validateDistinctProxyPorts ensures the reverse proxy's HTTP and HTTPS
// listeners don't collide.
func (c *DaemonConfig) validateDistinctProxyPorts() error {
	if c.Proxy.HTTPPort != 0 && c.Proxy.HTTPPort == c.Proxy.HTTPSPort {
		return errors.New("proxy: http_port and https_port must differ")
	}
	return nil
}

// validateDistinctXamppPorts ensures Apache's plain and TLS vhost ports
// don't collide.
func (c *DaemonConfig) validateDistinctXamppPorts() error {
	if c.Xampp.HTTPPort != 0 && c.Xampp.HTTPPort == c.Xampp.SSLPort {
		return errors.New("xampp: http_port and ssl_port must differ")
	}
	return nil
}

// formatValidationErrors converts validator.ValidationErrors to user-friendly messages.
func formatValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var messages []string
		for _, e := range validationErrors {
			msg := formatSingleValidationError(e)
			messages = append(messages, msg)
		}
		return errors.New(strings.Join(messages, "; "))
	}
	return err
}

// formatSingleValidationError creates a user-friendly message for a single validation error.
func formatSingleValidationError(e validator.FieldError) string {
	field := e.Namespace()
	tag := e.Tag()

	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, tag)
	}
}
