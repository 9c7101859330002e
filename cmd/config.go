package cmd

import (
	"github.com/etnz/dcps/portal"
)

// LoadCredentials reads the portal credentials from the environment through getenv.
func LoadCredentials(getenv func(string) string) portal.Credentials {
	return portal.Credentials{
		URL:      getenv(EnvURL),
		ID:       getenv(EnvID),
		Password: getenv(EnvPassword),
	}
}
