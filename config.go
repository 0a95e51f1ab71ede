package micropy

import (
	"fmt"

	"github.com/magiconair/properties"
)

type FrameMode int

const (
	FreshFrames FrameMode = iota
	SharedFrames
)

func (m FrameMode) String() string {
	switch m {
	case FreshFrames:
		return "fresh"
	case SharedFrames:
		return "shared"
	}
	panic("unreachable")
}

func ParseFrameMode(s string) (FrameMode, error) {
	switch s {
	case "fresh":
		return FreshFrames, nil
	case "shared":
		return SharedFrames, nil
	}
	return 0, fmt.Errorf("unknown call frame mode %q (want fresh or shared)", s)
}

// Config holds the interpreter settings. It is read from a .properties file;
// keys that are absent take the defaults in the struct tags.
type Config struct {
	InputPrompt  string `properties:"input.prompt,default=Input>>"`
	CallFrames   string `properties:"call.frames,default=fresh"`
	MaxCallDepth int    `properties:"call.maxdepth,default=10000"`
	LogLevel     string `properties:"log.level,default=info"`
	DumpAST      bool   `properties:"dump.ast,default=false"`
}

func DefaultConfig() Config {
	cfg, err := decodeConfig(properties.NewProperties())
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadConfig reads the properties file at path. An empty path yields the
// defaults.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	p, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return Config{}, fmt.Errorf("loading config: %w", err)
	}
	return decodeConfig(p)
}

// ParseConfig reads properties from a string, for embedded or test configs.
func ParseConfig(text string) (Config, error) {
	p, err := properties.LoadString(text)
	if err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	return decodeConfig(p)
}

func decodeConfig(p *properties.Properties) (Config, error) {
	var cfg Config
	if err := p.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := ParseFrameMode(c.CallFrames); err != nil {
		return err
	}
	if c.MaxCallDepth <= 0 {
		return fmt.Errorf("call.maxdepth must be positive, got %d", c.MaxCallDepth)
	}
	return nil
}

func (c Config) FrameMode() FrameMode {
	m, err := ParseFrameMode(c.CallFrames)
	if err != nil {
		return FreshFrames
	}
	return m
}
