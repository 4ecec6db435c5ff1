package sources

import (
	"github.com/mogud/snowdi/core/configuration"
)

var _ configuration.IConfigurationSource = (*MemoryConfigurationSource)(nil)

type MemoryConfigurationSource struct {
	InitData map[string]string
}

func (ss *MemoryConfigurationSource) BuildConfigurationProvider(_ configuration.IConfigurationBuilder) configuration.IConfigurationProvider {
	return NewMemoryConfigurationProvider(ss)
}

var _ configuration.IConfigurationProvider = (*MemoryConfigurationProvider)(nil)

type MemoryConfigurationProvider struct {
	*configuration.Provider
}

func NewMemoryConfigurationProvider(source *MemoryConfigurationSource) *MemoryConfigurationProvider {
	provider := configuration.NewProvider()
	provider.Replace(source.InitData)
	return &MemoryConfigurationProvider{
		Provider: provider,
	}
}
