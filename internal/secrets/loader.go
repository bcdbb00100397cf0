package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source describes how to load a secret value.
type Source struct {
	// Name is used in error messages to give more context about the secret.
	Name string
	// Value is an inline secret value provided via configuration or flags.
	Value string
	// File points to a file containing the secret value. When set it takes
	// precedence over Value and Env.
	File string
	// Env names an environment variable consulted when File is unset.
	Env string
}

// Load returns the resolved secret value from the provided source. The lookup
// order is File, Env, Value. The returned secret is always trimmed.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	if file := strings.TrimSpace(src.File); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		secret := strings.TrimSpace(string(data))
		if secret == "" {
			return "", fmt.Errorf("%s file %q is empty", name, file)
		}
		return secret, nil
	}

	if env := strings.TrimSpace(src.Env); env != "" {
		if secret := strings.TrimSpace(os.Getenv(env)); secret != "" {
			return secret, nil
		}
	}

	secret := strings.TrimSpace(src.Value)
	if secret == "" {
		return "", fmt.Errorf("%s is not configured", name)
	}

	return secret, nil
}

// Credentials is a username/password pair used for HTTP Basic auth.
type Credentials struct {
	Username string
	Password string
}

// LoadCredentials resolves the username directly and the password through Load.
func LoadCredentials(name, username string, password Source) (Credentials, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return Credentials{}, fmt.Errorf("%s username is not configured", name)
	}

	if strings.TrimSpace(password.Name) == "" {
		password.Name = name + " password"
	}

	pass, err := Load(password)
	if err != nil {
		return Credentials{}, err
	}

	return Credentials{Username: username, Password: pass}, nil
}
