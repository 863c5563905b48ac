package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/nguyentantai21042004/caption-queue/internal/models"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Storage     StorageConfig     `yaml:"storage"`
	Paths       PathsConfig       `yaml:"paths"`
	Caption     CaptionConfig     `yaml:"caption"`
	Whisper     WhisperConfig     `yaml:"whisper"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
	Gemini      GeminiConfig      `yaml:"gemini"`
	Twitter     TwitterConfig     `yaml:"twitter"`
	Twilio      TwilioConfig      `yaml:"twilio"`
	SMS         SMSConfig         `yaml:"sms"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	// PublicURL is the externally visible base URL, used to verify Twilio signatures.
	PublicURL string `yaml:"public_url"`
}

type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

type PathsConfig struct {
	Input    string `yaml:"input"`
	Uploads  string `yaml:"uploads"`
	Archived string `yaml:"archived"`
	Temp     string `yaml:"temp"`
}

type CaptionConfig struct {
	PreferredTones []string `yaml:"preferred_tones"`
	MaxLength      int      `yaml:"max_length"`
	DefaultTone    string   `yaml:"default_tone"`
	SMSTone        string   `yaml:"sms_tone"`
}

type WhisperConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ModelPath  string `yaml:"model_path"`
	BinaryPath string `yaml:"binary_path"`
	Language   string `yaml:"language"`
	Prompt     string `yaml:"prompt"`
	Threads    int    `yaml:"threads"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
}

type GeminiConfig struct {
	Enabled bool     `yaml:"enabled"`
	Model   string   `yaml:"model"`
	APIKeys []string `yaml:"-"`
}

type TwitterConfig struct {
	APIBase     string `yaml:"api_base"`
	Handle      string `yaml:"handle"`
	BearerToken string `yaml:"-"`
}

type TwilioConfig struct {
	APIBase     string `yaml:"api_base"`
	AccountSID  string `yaml:"-"`
	AuthToken   string `yaml:"-"`
	PhoneNumber string `yaml:"-"`
}

type SMSConfig struct {
	// ApprovedNumbers limits who may submit by SMS. Empty allows everyone.
	ApprovedNumbers []string `yaml:"approved_numbers"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent  int           `yaml:"max_concurrent"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

func (c *Config) Validate() error {
	if c.Whisper.Enabled {
		if c.Whisper.ModelPath == "" {
			return fmt.Errorf("whisper.model_path is required")
		}
		if c.Whisper.BinaryPath == "" {
			return fmt.Errorf("whisper.binary_path is required")
		}
	}
	if c.Caption.MaxLength < 0 {
		return fmt.Errorf("caption.max_length must not be negative")
	}
	if c.Performance.MaxConcurrent < 0 {
		return fmt.Errorf("performance.max_concurrent must not be negative")
	}

	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	switch c.Storage.Driver {
	case "":
		c.Storage.Driver = DriverMemory
	case DriverMemory, DriverSQLite:
	default:
		return fmt.Errorf("storage.driver %q is not one of memory, sqlite", c.Storage.Driver)
	}
	if c.Storage.Driver == DriverSQLite && c.Storage.Path == "" {
		c.Storage.Path = "data/captionq.db"
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Paths.Input == "" {
		c.Paths.Input = "data/input"
	}
	if c.Paths.Uploads == "" {
		c.Paths.Uploads = "data/uploads"
	}
	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if c.Caption.MaxLength == 0 {
		c.Caption.MaxLength = 280
	}
	if c.Caption.DefaultTone == "" {
		c.Caption.DefaultTone = "auto"
	}
	if c.Caption.SMSTone == "" {
		c.Caption.SMSTone = c.Caption.DefaultTone
	}
	if c.Whisper.Language == "" {
		c.Whisper.Language = "en"
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 4
	}
	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Twitter.Handle == "" {
		c.Twitter.Handle = "i/web"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}
	if c.Performance.RequestTimeout == 0 {
		c.Performance.RequestTimeout = 30 * time.Second
	}

	return nil
}

// Tones converts caption.preferred_tones. Unknown names are kept
// and left for the tone selector to discard.
func (c CaptionConfig) Tones() []models.Tone {
	out := make([]models.Tone, 0, len(c.PreferredTones))
	for _, t := range c.PreferredTones {
		out = append(out, models.Tone(strings.ToLower(strings.TrimSpace(t))))
	}
	return out
}

// Ready reports whether captions should be requested from Gemini.
func (c GeminiConfig) Ready() bool {
	return c.Enabled && len(c.APIKeys) > 0
}
