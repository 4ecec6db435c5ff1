package sources

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mogud/snowdi/core/configuration"
	"github.com/mogud/snowdi/core/logging/slog"
)

var _ configuration.IConfigurationSource = (*EnvConfigurationSource)(nil)

// EnvConfigurationSource reads process environment variables and, optionally,
// dotenv files. Only variables starting with Prefix are taken, with the prefix
// removed; "__" in a name separates sections, so APP_HTTP__MAXPORT becomes
// HTTP:MAXPORT with Prefix "APP_". Process variables override file values.
type EnvConfigurationSource struct {
	Prefix string
	Files  []string // dotenv files, missing ones are skipped
}

func (ss *EnvConfigurationSource) BuildConfigurationProvider(_ configuration.IConfigurationBuilder) configuration.IConfigurationProvider {
	return NewEnvConfigurationProvider(ss)
}

var _ configuration.IConfigurationProvider = (*EnvConfigurationProvider)(nil)

type EnvConfigurationProvider struct {
	*configuration.Provider

	prefix string
	files  []string
}

func NewEnvConfigurationProvider(source *EnvConfigurationSource) *EnvConfigurationProvider {
	return &EnvConfigurationProvider{
		Provider: configuration.NewProvider(),
		prefix:   source.Prefix,
		files:    source.Files,
	}
}

func (ss *EnvConfigurationProvider) Load() {
	data := make(map[string]string)
	for _, file := range ss.files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		values, err := godotenv.Read(file)
		if err != nil {
			slog.Errorf("read env file %v: %v", file, err)
			continue
		}
		ss.merge(data, values)
	}

	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	ss.merge(data, env)

	ss.Replace(data)
}

func (ss *EnvConfigurationProvider) merge(dst map[string]string, src map[string]string) {
	for k, v := range src {
		if len(ss.prefix) > 0 {
			if len(k) < len(ss.prefix) || !strings.EqualFold(k[:len(ss.prefix)], ss.prefix) {
				continue
			}
			k = k[len(ss.prefix):]
		}
		if len(k) == 0 {
			continue
		}
		dst[strings.ReplaceAll(k, "__", configuration.KeyDelimiter)] = v
	}
}
