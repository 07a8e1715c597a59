package config

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/naveego/anb/pkg/core"
	"github.com/naveego/anb/pkg/report"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "ANB"
	FileName  = "anb.toml"

	KeyPrefix      = "prefix"
	KeyServer      = "server"
	KeyUsername    = "username"
	KeyPassword    = "password"
	KeyStatus      = "status"
	KeyStrict      = "strict"
	KeyConcurrency = "concurrency"
	KeyTimeout     = "timeout"
	KeyOutput      = "output"

	DefaultTimeout = 30 * time.Second
)

var requiredKeys = []string{KeyPrefix, KeyServer, KeyUsername, KeyPassword}

// optionalKeys may also be set by command line flags of the same name.
var optionalKeys = []string{KeyStatus, KeyStrict, KeyConcurrency, KeyTimeout, KeyOutput}

// Config is the merged configuration. It is built once by Load and not
// modified afterwards.
type Config struct {
	Prefix       string        `yaml:"prefix"`
	Server       string        `yaml:"server"`
	Username     string        `yaml:"username"`
	Password     string        `yaml:"password"`
	StatusFilter string        `yaml:"status,omitempty"`
	Strict       bool          `yaml:"strict"`
	Concurrency  int           `yaml:"concurrency"`
	Timeout      time.Duration `yaml:"timeout"`
	Output       string        `yaml:"output"`
	// File is the config file that was read, if any.
	File string `yaml:"-"`
}

type LoadOptions struct {
	// File overrides the default config file location. Unlike the default,
	// an explicit file must exist.
	File string
	// Flags, when set, override file and environment values for any
	// optional key that has a flag of the same name.
	Flags *pflag.FlagSet
}

// PreferencesDir is the per-platform directory user preferences live in.
func PreferencesDir() (string, error) {
	if runtime.GOOS == "darwin" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Preferences"), nil
	}
	return os.UserConfigDir()
}

// DefaultFile is where the config file is looked for when none is given.
func DefaultFile() string {
	dir, err := PreferencesDir()
	if err != nil {
		core.Log.WithError(err).Debug("Could not find preferences directory.")
		return ""
	}
	return filepath.Join(dir, FileName)
}

// Load merges the config file, ANB_ environment variables and flags, in
// increasing order of precedence, and validates the result.
func Load(opts LoadOptions) (Config, error) {
	v, file, err := newViper(opts)
	if err != nil {
		return Config{}, err
	}

	c := Config{
		Prefix:       v.GetString(KeyPrefix),
		Server:       v.GetString(KeyServer),
		Username:     v.GetString(KeyUsername),
		Password:     v.GetString(KeyPassword),
		StatusFilter: v.GetString(KeyStatus),
		Strict:       v.GetBool(KeyStrict),
		Concurrency:  v.GetInt(KeyConcurrency),
		Timeout:      v.GetDuration(KeyTimeout),
		Output:       v.GetString(KeyOutput),
		File:         file,
	}

	return c, c.Validate()
}

func newViper(opts LoadOptions) (*viper.Viper, string, error) {
	v := viper.New()
	v.SetDefault(KeyConcurrency, 1)
	v.SetDefault(KeyTimeout, DefaultTimeout)
	v.SetDefault(KeyOutput, report.FormatLine)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	file := opts.File
	explicit := file != ""
	if !explicit {
		file = DefaultFile()
	}

	log := core.Log.WithField("cmp", "config").WithField("file", file)

	if file != "" {
		_, statErr := os.Stat(file)
		switch {
		case statErr == nil:
			v.SetConfigFile(file)
			v.SetConfigType("toml")
			if err := v.ReadInConfig(); err != nil {
				return nil, "", core.NewError(core.KindConfig, "read "+file, err)
			}
			log.Debug("Read config file.")
		case os.IsNotExist(statErr) && !explicit:
			log.Debug("No config file, using environment only.")
			file = ""
		default:
			return nil, "", core.NewError(core.KindConfig, "read "+file, statErr)
		}
	}

	if opts.Flags != nil {
		for _, key := range optionalKeys {
			flag := opts.Flags.Lookup(key)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, "", errors.Wrapf(err, "bind flag %q", key)
			}
		}
	}

	return v, file, nil
}

// Validate checks that the required keys are present and values are in range.
func (c Config) Validate() error {
	values := map[string]string{
		KeyPrefix:   c.Prefix,
		KeyServer:   c.Server,
		KeyUsername: c.Username,
		KeyPassword: c.Password,
	}

	var missing []string
	for _, key := range requiredKeys {
		if strings.TrimSpace(values[key]) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		var envs []string
		for _, key := range missing {
			envs = append(envs, EnvName(key))
		}
		return core.ConfigErrorf("missing required settings %s: set them in %s or with %s",
			strings.Join(missing, ", "), FileName, strings.Join(envs, ", "))
	}

	if c.Concurrency < 1 {
		return core.ConfigErrorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.Timeout < 0 {
		return core.ConfigErrorf("timeout must not be negative, got %s", c.Timeout)
	}
	if _, err := report.ParseFormat(c.Output); err != nil {
		return err
	}

	return nil
}

// Redacted returns a copy that is safe to print.
func (c Config) Redacted() Config {
	if c.Password != "" {
		c.Password = "********"
	}
	return c
}

// EnvName is the environment variable that overrides key.
func EnvName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(key)
}
