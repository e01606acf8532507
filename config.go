package main

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"github.com/hesusruiz/hamlj/haml"
	"github.com/hesusruiz/vcutils/yaml"
)

// defaultConfigFile is read when it exists and no other file is specified
const defaultConfigFile = "hamlj.yaml"

// configDirName is the directory of the tool inside the user config directory
const configDirName = "hamlj"

// defaultCodeStyle is the chroma style used to highlight the output in the terminal
const defaultCodeStyle = "swapoff"

// Config holds the settings for one run of the tool
type Config struct {
	Options    haml.Options
	Extensions []string
	CodeStyle  string
}

// loadConfig reads the configuration file on top of the defaults.
// With an empty name the default file is searched in the current directory and
// then in the user config directory, and it is fine if there is none.
func loadConfig(fileName string) (*Config, error) {

	if len(fileName) == 0 {
		fileName = findConfigFile()
	}

	var cfg *yaml.YAML
	var err error

	if len(fileName) > 0 {
		cfg, err = yaml.ParseYamlFile(fileName)
	} else {
		// No configuration file, use an empty one so we get all the defaults
		cfg, err = yaml.ParseYaml("")
	}
	if err != nil {
		return nil, err
	}

	defaults := haml.DefaultOptions()

	c := &Config{}
	c.Options = haml.Options{
		IndentString:  decodeEscapes(cfg.String("hamlj.indent", defaults.IndentString)),
		NewlineString: decodeEscapes(cfg.String("hamlj.newline", defaults.NewlineString)),
		Continuation:  cfg.String("hamlj.continuation", defaults.Continuation),
		Comment:       cfg.String("hamlj.comment", defaults.Comment),
	}
	c.Extensions = splitExtensions(cfg.String("hamlj.extensions", strings.Join(haml.DefaultExtensions, ",")))
	c.CodeStyle = cfg.String("hamlj.codeStyle", defaultCodeStyle)

	return c, nil
}

// findConfigFile returns the first default config file that exists, or "".
func findConfigFile() string {
	candidates := []string{
		defaultConfigFile,
		filepath.Join(xdg.ConfigHome, configDirName, defaultConfigFile),
	}
	for _, name := range candidates {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// splitExtensions parses a comma separated list like '.haml, .jhaml'.
// A missing leading dot is added.
func splitExtensions(list string) []string {
	var exts []string
	for _, e := range strings.Split(list, ",") {
		e = strings.TrimSpace(e)
		if len(e) == 0 {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts = append(exts, e)
	}
	return exts
}

// decodeEscapes converts the escape sequences typed in the command line or the
// config file, like '\n' or '\t', into the characters they represent.
// The string is returned unchanged if it is not a valid Go string literal body.
func decodeEscapes(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	decoded, err := strconv.Unquote(`"` + s + `"`)
	if err != nil {
		return s
	}
	return decoded
}
