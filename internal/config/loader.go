package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Profile is the optional YAML file that pins API endpoints per environment:
//
//	environments:
//	  DEV:
//	    api_base_url: http://192.168.1.20:8000
//	  PROD:
//	    api_base_url: https://api.nightout.app
type Profile struct {
	Environments map[string]EnvironmentProfile `yaml:"environments"`
}

type EnvironmentProfile struct {
	APIBaseURL string `yaml:"api_base_url"`
}

// Load reads a .env file from the working directory when one exists and then
// the YAML profile at profilePath. An empty profilePath skips the profile.
func Load(profilePath string) (Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	if profilePath == "" {
		return New(), nil
	}

	data, err := os.ReadFile(profilePath)
	if err != nil {
		return nil, fmt.Errorf("[config Load] reading profile %s: %w", profilePath, err)
	}

	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("[config Load] parsing profile %s: %w", profilePath, err)
	}

	baseURLs := make(map[string]string, len(profile.Environments))
	for env, p := range profile.Environments {
		if p.APIBaseURL != "" {
			baseURLs[env] = p.APIBaseURL
		}
	}

	return mainConfig{Client: NewClient(baseURLs)}, nil
}
