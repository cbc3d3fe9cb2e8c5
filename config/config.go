package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Environment variables that override values from the config file.
const (
	EnvConfigPath  = "SHOWCUT_CONFIG"
	EnvOutputDir   = "SHOWCUT_OUTPUT_DIR"
	EnvCredentials = "GOOGLE_APPLICATION_CREDENTIALS"
)

// Cut engines.
const (
	EngineNative = "native"
	EngineFFmpeg = "ffmpeg"
)

// ErrInvalid is returned when the config fails validation.
var ErrInvalid = errors.New("invalid config")

// Storage types.
const (
	StorageLocal = "local"
	StorageGCS   = "gcs"
)

type Config struct {
	LogLevel  int    `yaml:"log_level"`
	LogFormat string `yaml:"log_format" validate:"oneof=text json"`

	Station  StationConfig  `yaml:"station"`
	HTTP     HTTPConfig     `yaml:"http"`
	Download DownloadConfig `yaml:"download"`
	Cut      CutConfig      `yaml:"cut"`
	Storage  StorageConfig  `yaml:"storage"`
	Tagging  TaggingConfig  `yaml:"tagging"`
}

// StationConfig describes the radio station whose shows are downloaded.
type StationConfig struct {
	Name    string `yaml:"name" validate:"required"`
	Owner   string `yaml:"owner"`
	Website string `yaml:"website" validate:"omitempty,url"`
	// SearchURL and AudioURL are fmt templates taking the escaped query
	// and the loop stream id respectively.
	SearchURL       string `yaml:"search_url" validate:"required,contains=%s"`
	AudioURL        string `yaml:"audio_url" validate:"required,contains=%s"`
	CommentLanguage string `yaml:"comment_language" validate:"len=3"`
	// TimeZone names the IANA zone airdates are shown in. Empty means the
	// local zone of the machine.
	TimeZone string `yaml:"time_zone" validate:"omitempty,timezone"`
}

// Location returns the zone airdates are shown in.
func (s StationConfig) Location() *time.Location {
	if s.TimeZone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(s.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}

type HTTPConfig struct {
	Timeout           time.Duration `yaml:"timeout" validate:"gt=0"`
	UserAgent         string        `yaml:"user_agent"`
	RequestsPerSecond float64       `yaml:"requests_per_second" validate:"gt=0"`
	Burst             int           `yaml:"burst" validate:"gte=1"`
}

type DownloadConfig struct {
	MaxAttempts int           `yaml:"max_attempts" validate:"gte=1"`
	RetryDelay  time.Duration `yaml:"retry_delay" validate:"gte=0"`
	ChunkSize   int           `yaml:"chunk_size" validate:"gte=1024"`
}

type CutConfig struct {
	// Engine used to cut the audio: "native" or "ffmpeg"
	Engine     string `yaml:"engine" validate:"oneof=native ffmpeg"`
	FFmpegPath string `yaml:"ffmpeg_path"`
}

type StorageConfig struct {
	// Type of storage: "local" or "gcs"
	Type string `yaml:"type" validate:"oneof=local gcs"`

	// Local storage options
	OutputDir string `yaml:"output_dir"`
	TempDir   string `yaml:"temp_dir"`

	// GCS storage options
	Bucket          string `yaml:"bucket" validate:"required_if=Type gcs"`
	ObjectPrefix    string `yaml:"object_prefix"`
	CredentialsFile string `yaml:"credentials_file"`
}

type TaggingConfig struct {
	ID3Version   byte `yaml:"id3_version" validate:"oneof=3 4"`
	FetchImages  bool `yaml:"fetch_images"`
	ImageWorkers int  `yaml:"image_workers" validate:"gte=1"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		LogLevel:  0,
		LogFormat: "text",
		Station: StationConfig{
			Name:            "FM4",
			Owner:           "ORF",
			Website:         "https://fm4.orf.at",
			SearchURL:       "https://audioapi.orf.at/fm4/api/json/current/search?q=%s",
			AudioURL:        "https://loopstreamfm4.apa.at/?channel=fm4&id=%s",
			CommentLanguage: "deu",
		},
		HTTP: HTTPConfig{
			Timeout:           30 * time.Second,
			UserAgent:         "showcut/1.0",
			RequestsPerSecond: 2,
			Burst:             2,
		},
		Download: DownloadConfig{
			MaxAttempts: 4,
			RetryDelay:  3 * time.Second,
			ChunkSize:   128 * 1024,
		},
		Cut: CutConfig{
			Engine: EngineNative,
		},
		Storage: StorageConfig{
			Type:      StorageLocal,
			OutputDir: ".",
		},
		Tagging: TaggingConfig{
			ID3Version:   3,
			FetchImages:  true,
			ImageWorkers: 4,
		},
	}
}

// Load reads the YAML config at path on top of the defaults and validates
// the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := Default()

	// Unmarshal the YAML data into the struct
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadOrDefault behaves like Load but falls back to Default when the file
// does not exist. Environment overrides are applied in both cases.
func LoadOrDefault(path string) (*Config, error) {
	config, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		config, err = Default(), nil
	}
	if err != nil {
		return nil, err
	}

	config.ApplyEnv()
	return config, config.Validate()
}

// ApplyEnv overrides config values with the ones set in the environment.
func (c *Config) ApplyEnv() {
	if dir := os.Getenv(EnvOutputDir); dir != "" {
		c.Storage.OutputDir = dir
	}
	if creds := os.Getenv(EnvCredentials); creds != "" && c.Storage.CredentialsFile == "" {
		c.Storage.CredentialsFile = creds
	}
}

// Validate checks the config for missing or out of range values.
func (c *Config) Validate() error {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "" {
			return fld.Name
		}
		return name
	})

	err := v.Struct(c)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	msgs := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q", e.Namespace(), e.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}
