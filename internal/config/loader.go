package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"hostpanel/internal/dbclient"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// FileName is the config file looked up in the working directory.
const FileName = "hostpanel.yaml"

// EnvPrefix marks environment overrides. A double underscore separates
// nesting levels: HOSTPANEL_LOG__LEVEL sets log.level.
const EnvPrefix = "HOSTPANEL_"

// Defaults returns the built-in values.
func Defaults() map[string]any {
	return map[string]any{
		"data_dir":              defaultDataDir(),
		"log.level":             "info",
		"http.addr":             "127.0.0.1:8080",
		"http.session_secret":   "",
		"browser.denied_verbs":  append([]string(nil), dbclient.DefaultDeniedVerbs...),
		"browser.query_timeout": "0s",
		"nodes.check_schedule":  "@every 1m",
		"secrets.backend":       SecretsSQLite,
	}
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "hostpanel")
	}
	return ".hostpanel"
}

// flagKeys maps flag names to config keys where they differ from the
// kebab-to-snake rule.
var flagKeys = map[string]string{
	"log-level":    "log.level",
	"http-addr":    "http.addr",
	"denied-verbs": "browser.denied_verbs",
	"secrets":      "secrets.backend",
}

// Load reads configuration. Precedence (highest to lowest):
// flags > env vars > config file > defaults. An empty cfgFile means
// hostpanel.yaml in the working directory, if present.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. Environment: HOSTPANEL_BROWSER__DENIED_VERBS -> browser.denied_verbs
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags that were explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.FileUsed = used
	cfg.Browser.DeniedVerbs = normalizeVerbs(cfg.Browser.DeniedVerbs)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}
	return ""
}

// normalizeVerbs upper-cases verbs and splits comma lists coming from env or flags.
func normalizeVerbs(in []string) []string {
	out := []string{}
	for _, item := range in {
		for _, v := range strings.Split(item, ",") {
			v = strings.ToUpper(strings.TrimSpace(v))
			if v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}
