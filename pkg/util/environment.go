package util

import (
	"os"
	"strings"
)

func GetEnvironmentVariables() map[string]string {
	environmentVariables := map[string]string{}

	for _, variable := range os.Environ() {
		pair := strings.SplitN(variable, "=", 2)

		environmentVariables[pair[0]] = pair[1]
	}

	return environmentVariables
}

// EnvironmentFlag reports whether the named variable is set to YES, the convention
// used by every TRAVIGO_* toggle.
func EnvironmentFlag(env map[string]string, name string) bool {
	return strings.EqualFold(env[name], "YES")
}
