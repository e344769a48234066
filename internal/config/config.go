package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Zuo-Peng/coachdoc/internal/parse"
)

type LegendItem struct {
	Label       string `toml:"label"`
	Description string `toml:"description"`
}

type Document struct {
	Title            string       `toml:"title"`
	TranscriptHeader string       `toml:"transcript_header"`
	FeedbackHeader   string       `toml:"feedback_header"`
	ClosingPrompts   []string     `toml:"closing_prompts"`
	Legend           []LegendItem `toml:"legend"`
}

type Serve struct {
	Addr        string `toml:"addr"`
	TempDir     string `toml:"temp_dir"`
	MaxUploadMB int    `toml:"max_upload_mb"`
}

type Config struct {
	Roots        []string `toml:"roots"`
	DBPath       string   `toml:"db_path"`
	OutputSuffix string   `toml:"output_suffix"`
	Encoding     string   `toml:"encoding"`
	Coach        string   `toml:"coach"`
	LogLevel     string   `toml:"log_level"`
	LogJSON      bool     `toml:"log_json"`
	Document     Document `toml:"document"`
	Serve        Serve    `toml:"serve"`
}

// DefaultLegend is the ICF evaluation legend printed above the transcript table.
var DefaultLegend = []LegendItem{
	{"SD", "Evidence of competency demonstration..."},
	{"LD", "Lack of evidence of demonstration..."},
	{"AMDOS", "Ask Me During Our Session"},
	{"SWMDOS", "Share With Me During Our Session"},
	{"CEQ", "Close Ended Question"},
	{"ECNN", "Expansive conversation not needed."},
	{"CD", "Cognitive Distortion"},
}

func Default(home string) *Config {
	return &Config{
		Roots:        []string{filepath.Join(home, "Documents", "Transcripts")},
		DBPath:       filepath.Join(home, ".config", "coachdoc", "coachdoc.db"),
		OutputSuffix: "_Formatted.docx",
		Encoding:     "utf-8",
		LogLevel:     "info",
		Document: Document{
			Title:            "Coaching Session Transcript with Feedback",
			TranscriptHeader: "Coaching Transcript",
			FeedbackHeader:   "Mentor's Feedback",
			ClosingPrompts:   []string{"Strengths:", "Progression Ideas:"},
			Legend:           append([]LegendItem(nil), DefaultLegend...),
		},
		Serve: Serve{
			Addr:        "127.0.0.1:8088",
			TempDir:     filepath.Join(os.TempDir(), "coachdoc"),
			MaxUploadMB: 25,
		},
	}
}

// DefaultPath is ~/.config/coachdoc/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "coachdoc", "config.toml"), nil
}

// Load reads the default config file if it exists.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile reads cfgPath on top of the defaults. An empty path means the
// default location; a missing default file is not an error, a missing
// explicit file is.
func LoadFile(cfgPath string) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	cfg := Default(home)

	explicit := cfgPath != ""
	if !explicit {
		cfgPath = filepath.Join(home, ".config", "coachdoc", "config.toml")
	}
	cfgPath = expandHome(cfgPath, home)

	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config %s: %w", cfgPath, err)
	}

	// expand ~ in paths
	for i, r := range cfg.Roots {
		cfg.Roots[i] = expandHome(r, home)
	}
	cfg.DBPath = expandHome(cfg.DBPath, home)
	cfg.Serve.TempDir = expandHome(cfg.Serve.TempDir, home)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", cfgPath, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.OutputSuffix == "" {
		errs = append(errs, errors.New("output_suffix must not be empty"))
	} else if !strings.HasSuffix(strings.ToLower(c.OutputSuffix), ".docx") {
		errs = append(errs, fmt.Errorf("output_suffix %q must end in .docx", c.OutputSuffix))
	}
	if _, err := parse.LookupEncoding(c.Encoding); err != nil {
		errs = append(errs, err)
	}
	if c.Serve.MaxUploadMB < 0 {
		errs = append(errs, errors.New("serve.max_upload_mb must not be negative"))
	}
	return errors.Join(errs...)
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
