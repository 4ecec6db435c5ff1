package sources

import (
	"fmt"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/mogud/snowdi/core/configuration"
	"github.com/mogud/snowdi/core/logging/slog"
	stripjsoncomments "github.com/trapcodeio/go-strip-json-comments"
)

var _ configuration.IConfigurationSource = (*JsonConfigurationSource)(nil)

type JsonConfigurationSource struct {
	Path           string
	Optional       bool
	ReloadOnChange bool
}

func (ss *JsonConfigurationSource) BuildConfigurationProvider(_ configuration.IConfigurationBuilder) configuration.IConfigurationProvider {
	return NewJsonConfigurationProvider(ss)
}

var _ configuration.IConfigurationProvider = (*JsonConfigurationProvider)(nil)

type JsonConfigurationProvider struct {
	*FileConfigurationProvider
}

func NewJsonConfigurationProvider(source *JsonConfigurationSource) *JsonConfigurationProvider {
	provider := &JsonConfigurationProvider{
		FileConfigurationProvider: NewFileConfigurationProvider(&FileConfigurationSource{
			Path:           source.Path,
			Optional:       source.Optional,
			ReloadOnChange: source.ReloadOnChange,
		}),
	}
	provider.OnLoad = provider.OnLoadJson
	return provider
}

// OnLoadJson keeps the previous keys when the new content does not parse.
func (ss *JsonConfigurationProvider) OnLoadJson(bytes []byte) {
	newMap, err := ConvertJsonToConfigurationKV("", string(bytes))
	if err != nil {
		slog.Errorf("load json config %v: %v", ss.path, err)
		return
	}

	ss.Replace(newMap)
}

// ConvertJsonToConfigurationKV flattens a JSON object into ":"-delimited keys;
// array elements are keyed by index, e.g. {"a":{"b":[1]}} gives "a:b:0" = "1".
// Comments are stripped first.
func ConvertJsonToConfigurationKV(head string, json string) (map[string]string, error) {
	var jsons map[string]any
	if err := jsoniter.UnmarshalFromString(stripjsoncomments.Strip(json), &jsons); err != nil {
		return nil, fmt.Errorf("json unmarshal failed: %w", err)
	}

	newMap := make(map[string]string)
	for key, value := range jsons {
		if len(head) == 0 {
			flatten(newMap, key, value)
		} else {
			flatten(newMap, configuration.PathCombine(head, key), value)
		}
	}
	return newMap, nil
}

func flatten(m map[string]string, key string, value any) {
	switch v := value.(type) {
	case nil:
		m[key] = ""
	case string:
		m[key] = v
	case map[string]any:
		for k, child := range v {
			flatten(m, configuration.PathCombine(key, k), child)
		}
	case []any:
		for i, child := range v {
			flatten(m, configuration.PathCombine(key, strconv.Itoa(i)), child)
		}
	case float64:
		m[key] = strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		m[key] = strconv.FormatBool(v)
	default:
		m[key] = fmt.Sprint(v)
	}
}
