package config

import (
	"errors"
	"io/fs"
	"strconv"

	"github.com/apex/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ViperConfig layers command line flags over a dotenv file and the process
// environment. Flags bound with BindFlag win when they were set explicitly.
type ViperConfig struct {
	DotenvPath string
	v          *viper.Viper
}

func NewViperConfig(path string) *ViperConfig {
	v := viper.New()
	v.AutomaticEnv()
	return &ViperConfig{DotenvPath: path, v: v}
}

func (c *ViperConfig) LoadFromPath(path string) error {
	c.DotenvPath = path
	return c.Load()
}

func (c *ViperConfig) Load() error {
	if c.DotenvPath == "" {
		return nil
	}

	c.v.SetConfigFile(c.DotenvPath)
	c.v.SetConfigType("env")
	err := c.v.ReadInConfig()
	if errors.Is(err, fs.ErrNotExist) {
		log.Debugf("No config file at %s, using the environment", c.DotenvPath)
		return nil
	}

	return err
}

// BindFlag makes key resolve to flag when the flag was given on the command line.
func (c *ViperConfig) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return nil
	}

	return c.v.BindPFlag(key, flag)
}

func (c *ViperConfig) GetKey(key string) string {
	return c.v.GetString(key)
}

func (c *ViperConfig) MustGetKey(key string) string {
	val := c.GetKey(key)
	if val == "" {
		log.Fatalf("No such required config key: '%s'", key)
	}

	return val
}

func (c *ViperConfig) GetKeyWithDefault(key, defaultValue string) string {
	val := c.GetKey(key)
	if val == "" {
		return defaultValue
	}

	return val
}

func (c *ViperConfig) GetIntKey(key string) int {
	intVal, err := strconv.Atoi(c.GetKey(key))
	if err != nil {
		return 0
	}

	return intVal
}

func (c *ViperConfig) MustGetIntKey(key string) int {
	intVal, err := strconv.Atoi(c.GetKey(key))
	if err != nil {
		log.Fatalf("Required config key either doesn't exist or isn't an int: '%s': %s", key, err)
	}

	return intVal
}

func (c *ViperConfig) GetIntKeyWithDefault(key string, defaultValue int) int {
	intVal, err := strconv.Atoi(c.GetKey(key))
	if err != nil {
		return defaultValue
	}

	return intVal
}
