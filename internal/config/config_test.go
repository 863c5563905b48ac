package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nguyentantai21042004/caption-queue/internal/models"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "empty config gets defaults",
			config:  Config{},
			wantErr: false,
		},
		{
			name: "whisper enabled with paths",
			config: Config{
				Whisper: WhisperConfig{
					Enabled:    true,
					ModelPath:  "models/ggml-base.en.bin",
					BinaryPath: "./whisper-cli",
				},
			},
			wantErr: false,
		},
		{
			name: "whisper enabled without model",
			config: Config{
				Whisper: WhisperConfig{
					Enabled:    true,
					BinaryPath: "./whisper-cli",
				},
			},
			wantErr: true,
		},
		{
			name:    "unknown storage driver",
			config:  Config{Storage: StorageConfig{Driver: "postgres"}},
			wantErr: true,
		},
		{
			name:    "negative max length",
			config:  Config{Caption: CaptionConfig{MaxLength: -1}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := Config{Storage: StorageConfig{Driver: "SQLite"}}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	checks := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"server.addr", cfg.Server.Addr, ":8080"},
		{"storage.driver", cfg.Storage.Driver, DriverSQLite},
		{"storage.path", cfg.Storage.Path, "data/captionq.db"},
		{"paths.uploads", cfg.Paths.Uploads, "data/uploads"},
		{"caption.max_length", cfg.Caption.MaxLength, 280},
		{"caption.default_tone", cfg.Caption.DefaultTone, "auto"},
		{"caption.sms_tone", cfg.Caption.SMSTone, "auto"},
		{"ffmpeg.binary_path", cfg.FFmpeg.BinaryPath, "ffmpeg"},
		{"gemini.model", cfg.Gemini.Model, "gemini-2.5-flash"},
		{"performance.max_concurrent", cfg.Performance.MaxConcurrent, 2},
		{"performance.request_timeout", cfg.Performance.RequestTimeout, 30 * time.Second},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"

caption:
  preferred_tones: ["Cruel", "clinical", "bogus"]
  max_length: 200
  default_tone: "teasing"

whisper:
  enabled: true
  model_path: "models/test.bin"
  binary_path: "./whisper"
  language: "en"

performance:
  request_timeout: 45s

logging:
  level: "debug"
  format: "json"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("Addr = %v, want %v", cfg.Server.Addr, ":9090")
	}
	if cfg.Whisper.ModelPath != "models/test.bin" {
		t.Errorf("ModelPath = %v, want %v", cfg.Whisper.ModelPath, "models/test.bin")
	}
	if cfg.Caption.SMSTone != "teasing" {
		t.Errorf("SMSTone = %v, want teasing", cfg.Caption.SMSTone)
	}
	if cfg.Performance.RequestTimeout != 45*time.Second {
		t.Errorf("RequestTimeout = %v, want 45s", cfg.Performance.RequestTimeout)
	}

	tones := cfg.Caption.Tones()
	want := []models.Tone{models.ToneCruel, models.ToneClinical, "bogus"}
	if len(tones) != len(want) {
		t.Fatalf("Tones() = %v, want %v", tones, want)
	}
	for i := range want {
		if tones[i] != want[i] {
			t.Errorf("Tones()[%d] = %v, want %v", i, tones[i], want[i])
		}
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(EnvTwitterBearerToken, "bearer")
	t.Setenv(EnvTwilioAccountSID, "AC1")
	t.Setenv(EnvTwilioAuthToken, "tok")
	t.Setenv(EnvTwilioPhoneNumber, "+15550000")
	t.Setenv(EnvApprovedNumbers, "+15551111, +15552222,")
	t.Setenv(EnvGeminiAPIKeys, "k1,k2")
	t.Setenv(EnvDBPath, "/var/lib/captionq.db")

	cfg, err := Load(writeConfig(t, "gemini:\n  enabled: true\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Twitter.BearerToken != "bearer" {
		t.Errorf("BearerToken = %q", cfg.Twitter.BearerToken)
	}
	if cfg.Twilio.AccountSID != "AC1" || cfg.Twilio.AuthToken != "tok" || cfg.Twilio.PhoneNumber != "+15550000" {
		t.Errorf("Twilio = %+v", cfg.Twilio)
	}
	if len(cfg.SMS.ApprovedNumbers) != 2 || cfg.SMS.ApprovedNumbers[1] != "+15552222" {
		t.Errorf("ApprovedNumbers = %v", cfg.SMS.ApprovedNumbers)
	}
	if !cfg.Gemini.Ready() {
		t.Error("Gemini.Ready() = false, want true")
	}
	if cfg.Storage.Driver != DriverSQLite || cfg.Storage.Path != "/var/lib/captionq.db" {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Load() should return error for nonexistent file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [unclosed"))
	if err == nil {
		t.Error("Load() should return error for malformed YAML")
	}
}

func TestPath(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	if got := Path(); got != DefaultPath {
		t.Errorf("Path() = %q, want %q", got, DefaultPath)
	}

	t.Setenv(EnvConfigPath, "/etc/captionq.yaml")
	if got := Path(); got != "/etc/captionq.yaml" {
		t.Errorf("Path() = %q, want /etc/captionq.yaml", got)
	}
}
