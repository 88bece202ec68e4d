package config

import (
	"os"

	"github.com/mitchellh/go-homedir"
)

const DefaultDotenvPath = "~/.tagsearch.env"

var configer Configer = &DotenvConfig{}

func SetConfig(c Configer) {
	configer = c
}

func GetConfig() Configer {
	return configer
}

// DotenvPath returns the dotenv file to load: TAGSEARCH_DOTENV_PATH when set,
// otherwise DefaultDotenvPath. The result has ~ expanded. An empty string means
// there is no file to load.
func DotenvPath() string {
	path := os.Getenv(KeyDotenvPath)
	if path == "" {
		path = DefaultDotenvPath
	}

	expanded, err := homedir.Expand(path)
	if err != nil {
		return ""
	}

	if _, err := os.Stat(expanded); err != nil {
		return ""
	}

	return expanded
}

func LoadFromPath(path string) error {
	return configer.LoadFromPath(path)
}

func Load() error {
	return configer.Load()
}

func GetKey(key string) string {
	return configer.GetKey(key)
}

func MustGetKey(key string) string {
	return configer.MustGetKey(key)
}

func GetKeyWithDefault(key, defaultValue string) string {
	return configer.GetKeyWithDefault(key, defaultValue)
}

func GetIntKey(key string) int {
	return configer.GetIntKey(key)
}

func MustGetIntKey(key string) int {
	return configer.MustGetIntKey(key)
}

func GetIntKeyWithDefault(key string, defaultValue int) int {
	return configer.GetIntKeyWithDefault(key, defaultValue)
}
