package config

import (
	"bufio"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// loadEnv copies KEY=VALUE lines from a dotenv file into the process
// environment. Variables already set win.
func loadEnv(path string) {
	file, err := os.Open(path)
	if err != nil {
		logrus.WithField("path", path).Debug("env file not found, using process environment")
		return
	}

	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		line = strings.TrimPrefix(line, "export ")

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)

		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		os.Setenv(key, value)
	}

	if err := scanner.Err(); err != nil {
		logrus.WithError(err).Warn("failed to read env file")
	}
}
