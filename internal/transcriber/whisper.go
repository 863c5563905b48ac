package transcriber

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/caption-queue/internal/models"
)

// whisperOutput is the subset of whisper.cpp's -ojf output we read.
type whisperOutput struct {
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text   string `json:"text"`
		Tokens []struct {
			Text string  `json:"text"`
			P    float64 `json:"p"`
		} `json:"tokens"`
	} `json:"transcription"`
}

func (w *implWhisper) Transcribe(ctx context.Context, audioPath string) (Result, error) {
	if err := w.sem.acquire(ctx); err != nil {
		return Result{}, fmt.Errorf("%w: waiting for a whisper slot: %v", models.ErrTranscriptionFailed, err)
	}
	defer w.sem.release()

	start := time.Now()
	wavPath, err := w.normalize(ctx, audioPath)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", models.ErrTranscriptionFailed, err)
	}
	defer w.cleanupTempFile(ctx, wavPath)

	jsonPath, err := w.transcribe(ctx, wavPath)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", models.ErrTranscriptionFailed, err)
	}
	defer w.cleanupTempFile(ctx, jsonPath)

	res, err := parseOutput(jsonPath)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", models.ErrTranscriptionFailed, err)
	}

	w.logger.Info(ctx, "Transcribed %s in %v (confidence %.2f)", filepath.Base(audioPath), time.Since(start), res.Confidence)
	return res, nil
}

// normalize converts any input to 16kHz mono PCM WAV in the temp dir.
func (w *implWhisper) normalize(ctx context.Context, audioPath string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	wavPath := filepath.Join(w.cfg.TempDir, fmt.Sprintf("%s_%s.wav", base, uuid.NewString()[:8]))

	args := []string{
		"-i", audioPath,
		"-vn",
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-y",
		wavPath,
	}
	if _, err := w.executor.Execute(ctx, w.cfg.FFmpegBinary, args...); err != nil {
		return "", fmt.Errorf("ffmpeg normalize audio: %w", err)
	}
	return wavPath, nil
}

// transcribe runs whisper and returns the path of its JSON output.
func (w *implWhisper) transcribe(ctx context.Context, wavPath string) (string, error) {
	prefix := strings.TrimSuffix(wavPath, filepath.Ext(wavPath))

	// -ojf: full JSON output including per-token probabilities
	args := []string{
		"-m", w.cfg.ModelPath,
		"-f", wavPath,
		"-ojf",
		"-l", w.cfg.Language,
		"-t", strconv.Itoa(w.cfg.Threads),
		"-np",
		"--output-file", prefix,
	}
	if w.cfg.Prompt != "" {
		args = append(args, "--prompt", w.cfg.Prompt)
	}

	if _, err := w.executor.Execute(ctx, w.cfg.WhisperBinary, args...); err != nil {
		return "", fmt.Errorf("whisper transcribe: %w", err)
	}
	return prefix + ".json", nil
}

func parseOutput(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read whisper output: %w", err)
	}
	var out whisperOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return Result{}, fmt.Errorf("decode whisper output: %w", err)
	}

	var (
		parts  []string
		sumP   float64
		tokens int
		endMs  int64
	)
	for _, seg := range out.Transcription {
		parts = append(parts, seg.Text)
		if seg.Offsets.To > endMs {
			endMs = seg.Offsets.To
		}
		for _, tok := range seg.Tokens {
			// special tokens look like [_BEG_] or [_TT_50]
			if strings.HasPrefix(tok.Text, "[_") {
				continue
			}
			sumP += tok.P
			tokens++
		}
	}

	text := strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
	if text == "" {
		return Result{}, fmt.Errorf("no speech detected")
	}

	res := Result{Text: text, Duration: time.Duration(endMs) * time.Millisecond}
	if tokens > 0 {
		res.Confidence = sumP / float64(tokens)
	}
	return res, nil
}

// cleanupTempFile removes a temporary file, logs warning if fails
func (w *implWhisper) cleanupTempFile(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		w.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", path, err)
	}
}
