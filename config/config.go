// Package config loads the launcher configuration: the activation chord,
// the cancel key, the picker text and the item table.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"launchkey/action"
	"launchkey/chord"
	"launchkey/launcher"
)

var ErrInvalidItem = errors.New("invalid item")

const (
	DefaultHotkey    = "<ctrl>+/"
	DefaultCancelKey = "esc"
	DefaultTitle     = "launchkey"
	DefaultPrompt    = "Launch:"
)

type Item struct {
	Type   string `yaml:"type"`
	Target string `yaml:"target"`
}

type Picker struct {
	Title  string `yaml:"title"`
	Prompt string `yaml:"prompt"`
}

type Config struct {
	Hotkey    string          `yaml:"hotkey"`
	Cancel    string          `yaml:"cancel_key"`
	Picker    Picker          `yaml:"picker"`
	ItemTable map[string]Item `yaml:"items"`

	// Path is where the config was read from; empty for built-in defaults.
	Path string `yaml:"-"`

	chord  chord.Chord
	cancel chord.Key
	items  map[string]action.Descriptor
}

func defaultItems() map[string]Item {
	return map[string]Item{
		"gmail":    {Type: "url", Target: "https://mail.google.com/mail/u/0/#inbox"},
		"vscode":   {Type: "app", Target: "Visual Studio Code"},
		"youtube":  {Type: "app", Target: "YouTube"},
		"xcode":    {Type: "app", Target: "Xcode-26.0.0"},
		"edge":     {Type: "app", Target: "Microsoft Edge"},
		"messages": {Type: "app", Target: "Messages"},
		"warp":     {Type: "app", Target: "Warp"},
		"spotify":  {Type: "app", Target: "Spotify"},
		"claude":   {Type: "app", Target: "Claude"},
		"orbstack": {Type: "app", Target: "OrbStack"},
		"todoist":  {Type: "app", Target: "Todoist"},
		"x":        {Type: "url", Target: "https://x.com/home"},
		"github":   {Type: "url", Target: "https://github.com"},
	}
}

// Default returns the built-in configuration.
func Default() *Config {
	c := &Config{}
	if err := c.finish(); err != nil {
		panic(fmt.Sprintf("built-in config invalid: %v", err))
	}
	return c
}

// ResolvePath picks the config file: flag value, then LAUNCHKEY_CONFIG,
// then the per-user config directory.
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("LAUNCHKEY_CONFIG"); env != "" {
		return env
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "launchkey", "config.yaml")
}

// Load reads and validates the config at path. A missing file yields the
// built-in defaults. Fields left out of the file keep their defaults,
// except items: a file that lists items replaces the whole table.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.Path = path
	return c, nil
}

// Parse decodes and validates YAML config data.
func Parse(data []byte) (*Config, error) {
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.finish(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) finish() error {
	if c.Hotkey == "" {
		c.Hotkey = DefaultHotkey
	}
	if c.Cancel == "" {
		c.Cancel = DefaultCancelKey
	}
	if c.Picker.Title == "" {
		c.Picker.Title = DefaultTitle
	}
	if c.Picker.Prompt == "" {
		c.Picker.Prompt = DefaultPrompt
	}
	if len(c.ItemTable) == 0 {
		c.ItemTable = defaultItems()
	}

	ch, err := chord.Parse(c.Hotkey)
	if err != nil {
		return fmt.Errorf("hotkey %q: %w", c.Hotkey, err)
	}
	cancel, err := chord.ParseKey(c.Cancel)
	if err != nil {
		return fmt.Errorf("cancel_key %q: %w", c.Cancel, err)
	}
	if ch.Contains(cancel) {
		return fmt.Errorf("cancel_key %q is part of hotkey %q", c.Cancel, c.Hotkey)
	}

	items := make(map[string]action.Descriptor, len(c.ItemTable))
	for name, it := range c.ItemTable {
		if name == "" {
			return fmt.Errorf("%w: empty name", ErrInvalidItem)
		}
		kind, err := action.ParseKind(it.Type)
		if err != nil {
			return fmt.Errorf("%w %q: %v", ErrInvalidItem, name, err)
		}
		if it.Target == "" {
			return fmt.Errorf("%w %q: empty target", ErrInvalidItem, name)
		}
		items[name] = action.Descriptor{Kind: kind, Target: it.Target}
	}

	c.chord, c.cancel, c.items = ch, cancel, items
	return nil
}

func (c *Config) Chord() chord.Chord { return c.chord }

func (c *Config) CancelKey() chord.Key { return c.cancel }

// Items builds a fresh item mapping on every call.
func (c *Config) Items() launcher.Items {
	out := make(launcher.Items, len(c.items))
	for name, d := range c.items {
		out[name] = d
	}
	return out
}

// Names lists item names in presentation order.
func (c *Config) Names() []string {
	names := make([]string, 0, len(c.items))
	for name := range c.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
