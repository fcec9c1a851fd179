package config

// Kilnfile represents the structure of the kiln.yaml configuration file.
type Kilnfile struct {
	Version          string                   `yaml:"version"`
	CacheRoot        string                   `yaml:"cacheRoot"`
	DefaultToolchain string                   `yaml:"defaultToolchain"`
	Environment      map[string]string        `yaml:"environment"`
	Toolchains       map[string]*ToolchainDTO `yaml:"toolchains"`
}

// ToolchainDTO represents a toolchain definition in the configuration.
type ToolchainDTO struct {
	SourceFile   string   `yaml:"sourceFile"`
	Template     string   `yaml:"template"`
	Build        []string `yaml:"build"`
	Run          []string `yaml:"run"`
	BuildTimeout string   `yaml:"buildTimeout"`
	RunTimeout   string   `yaml:"runTimeout"`
}
