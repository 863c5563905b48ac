package transcriber

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nguyentantai21042004/caption-queue/internal/logger"
	"github.com/nguyentantai21042004/caption-queue/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleOutput = `{
  "result": {"language": "en"},
  "transcription": [
    {
      "offsets": {"from": 0, "to": 1200},
      "text": " I need to be",
      "tokens": [
        {"text": "[_BEG_]", "p": 0.10},
        {"text": " I", "p": 0.90},
        {"text": " need", "p": 0.80},
        {"text": " to", "p": 0.70},
        {"text": " be", "p": 0.60}
      ]
    },
    {
      "offsets": {"from": 1200, "to": 2500},
      "text": " exposed   online",
      "tokens": [
        {"text": " exposed", "p": 0.50},
        {"text": " online", "p": 0.50},
        {"text": "[_TT_125]", "p": 0.01}
      ]
    }
  ]
}`

// fakeExecutor emulates ffmpeg and whisper by writing their output files.
type fakeExecutor struct {
	mu       sync.Mutex
	calls    []string
	output   string
	failOn   string
	active   int32
	maxSeen  int32
	delay    time.Duration
	produced []string
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()

	if name == f.failOn {
		return "", errors.New(name + " exploded")
	}

	switch name {
	case "ffmpeg":
		out := args[len(args)-1]
		f.track(out)
		return "", os.WriteFile(out, []byte("RIFF"), 0o644)
	case "whisper-cli":
		n := atomic.AddInt32(&f.active, 1)
		defer atomic.AddInt32(&f.active, -1)
		for {
			old := atomic.LoadInt32(&f.maxSeen)
			if n <= old || atomic.CompareAndSwapInt32(&f.maxSeen, old, n) {
				break
			}
		}
		if f.delay > 0 {
			time.Sleep(f.delay)
		}
		var prefix string
		for i, a := range args {
			if a == "--output-file" {
				prefix = args[i+1]
			}
		}
		out := prefix + ".json"
		f.track(out)
		return "", os.WriteFile(out, []byte(f.output), 0o644)
	}
	return "", errors.New("unexpected binary " + name)
}

func (f *fakeExecutor) LookPath(name string) (string, error) {
	return "/usr/bin/" + name, nil
}

func (f *fakeExecutor) track(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.produced = append(f.produced, path)
}

func newTestWhisper(t *testing.T, exec *fakeExecutor, maxConcurrent int) Transcriber {
	t.Helper()
	return NewWhisper(Config{
		WhisperBinary: "whisper-cli",
		ModelPath:     "ggml-base.en.bin",
		TempDir:       t.TempDir(),
		MaxConcurrent: maxConcurrent,
	}, exec, logger.New("error"))
}

func TestTranscribe(t *testing.T) {
	exec := &fakeExecutor{output: sampleOutput}
	w := newTestWhisper(t, exec, 1)

	res, err := w.Transcribe(context.Background(), "/uploads/clip.m4a")
	require.NoError(t, err)
	assert.Equal(t, "I need to be exposed online", res.Text)
	assert.InDelta(t, 0.666, res.Confidence, 0.01)
	assert.Equal(t, 2500*time.Millisecond, res.Duration)
	assert.Equal(t, []string{"ffmpeg", "whisper-cli"}, exec.calls)

	for _, p := range exec.produced {
		_, err := os.Stat(p)
		assert.True(t, os.IsNotExist(err), "temp file %s was not removed", p)
	}
}

func TestTranscribeFailures(t *testing.T) {
	tests := []struct {
		name string
		exec *fakeExecutor
	}{
		{"ffmpeg fails", &fakeExecutor{output: sampleOutput, failOn: "ffmpeg"}},
		{"whisper fails", &fakeExecutor{output: sampleOutput, failOn: "whisper-cli"}},
		{"bad json", &fakeExecutor{output: "{"}},
		{"silence", &fakeExecutor{output: `{"transcription":[{"text":"  ","tokens":[]}]}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestWhisper(t, tt.exec, 1).Transcribe(context.Background(), "/uploads/a.wav")
			if !errors.Is(err, models.ErrTranscriptionFailed) {
				t.Errorf("Transcribe() error = %v, want ErrTranscriptionFailed", err)
			}
		})
	}
}

func TestTranscribeBoundsConcurrency(t *testing.T) {
	exec := &fakeExecutor{output: sampleOutput, delay: 10 * time.Millisecond}
	w := newTestWhisper(t, exec, 2)

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := w.Transcribe(context.Background(), "/uploads/a.wav")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&exec.maxSeen), int32(2))
}

func TestTranscribeCancelledWhileWaiting(t *testing.T) {
	w := newTestWhisper(t, &fakeExecutor{output: sampleOutput}, 1).(*implWhisper)
	require.NoError(t, w.sem.acquire(context.Background()))
	defer w.sem.release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := w.Transcribe(ctx, "/uploads/a.wav")
	assert.True(t, errors.Is(err, models.ErrTranscriptionFailed))
}

func TestParseOutputWithoutTokens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"transcription":[{"offsets":{"from":0,"to":900},"text":" please "}]}`), 0o644))

	res, err := parseOutput(path)
	require.NoError(t, err)
	assert.Equal(t, "please", res.Text)
	assert.Zero(t, res.Confidence)
}

func TestDisabled(t *testing.T) {
	_, err := Disabled("whisper binary missing").Transcribe(context.Background(), "x.wav")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrTranscriptionFailed))
	assert.True(t, strings.Contains(err.Error(), "whisper binary missing"))
}

func TestCheck(t *testing.T) {
	model := filepath.Join(t.TempDir(), "model.bin")
	cfg := Config{WhisperBinary: "whisper-cli", ModelPath: model}

	assert.Error(t, Check(cfg, &fakeExecutor{}))
	require.NoError(t, os.WriteFile(model, []byte("x"), 0o644))
	assert.NoError(t, Check(cfg, &fakeExecutor{}))
}
