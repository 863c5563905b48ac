package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/nguyentantai21042004/caption-queue/internal/models"
	"github.com/nguyentantai21042004/caption-queue/pkg/httpclient"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type ingestOptions struct {
	file        string
	directory   string
	url         string
	tone        string
	hint        string
	concurrency int
}

func newIngestCmd() *cobra.Command {
	opts := ingestOptions{}
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Upload audio files to the submission endpoint",
		Example: `  queuectl ingest -f clip.wav --tone cruel
  queuectl ingest -d ./recordings --concurrency 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := collectFiles(opts.file, opts.directory)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no audio files found")
			}
			retry := httpclient.DefaultConfig()
			retry.NonIdempotent = true
			sum, err := runIngest(cmd.Context(), httpclient.New(retry), opts, files)
			fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %d of %d file(s)\n", sum.ok, len(files))
			for _, line := range sum.lines {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "single audio file to upload")
	cmd.Flags().StringVarP(&opts.directory, "directory", "d", "", "directory of audio files to upload")
	cmd.Flags().StringVarP(&opts.url, "url", "u", "http://localhost:8080", "caption queue base URL")
	cmd.Flags().StringVar(&opts.tone, "tone", "auto", "tone request sent with every file")
	cmd.Flags().StringVar(&opts.hint, "hint", "", "caption hint sent with every file")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 2, "parallel uploads")
	cmd.MarkFlagsOneRequired("file", "directory")
	cmd.MarkFlagsMutuallyExclusive("file", "directory")

	return cmd
}

// collectFiles returns the audio files named by file or found directly inside dir, sorted.
func collectFiles(file, dir string) ([]string, error) {
	if file != "" {
		if !models.IsAudioFile(file) {
			return nil, fmt.Errorf("%s: unsupported type, want one of %s", file, strings.Join(models.AudioExtensions, ", "))
		}
		if _, err := os.Stat(file); err != nil {
			return nil, err
		}
		return []string{file}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !models.IsAudioFile(e.Name()) {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}

type ingestSummary struct {
	ok    int
	lines []string
}

func runIngest(ctx context.Context, client *httpclient.Client, opts ingestOptions, files []string) (ingestSummary, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	limit := opts.concurrency
	if limit <= 0 {
		limit = 1
	}

	lines := make([]string, len(files))
	var (
		mu     sync.Mutex
		ok     int
		failed int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, path := range files {
		g.Go(func() error {
			sub, err := upload(gctx, client, opts, path)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				lines[i] = fmt.Sprintf("FAIL %s: %v", filepath.Base(path), err)
				return nil
			}
			ok++
			lines[i] = fmt.Sprintf("OK   %s -> %s [%s/%s] %s", filepath.Base(path), sub.ID, sub.SoundType, sub.Tone, sub.Caption)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ingestSummary{}, err
	}

	sum := ingestSummary{ok: ok, lines: lines}
	if failed > 0 {
		return sum, fmt.Errorf("%d upload(s) failed", failed)
	}
	return sum, nil
}

func upload(ctx context.Context, client *httpclient.Client, opts ingestOptions, path string) (models.Submission, error) {
	endpoint := strings.TrimRight(opts.url, "/") + "/submit/audio"

	resp, err := client.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		body, contentType, err := multipartBody(path, opts.tone, opts.hint)
		if err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)
		return req, nil
	})
	if err != nil {
		return models.Submission{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		var apiErr struct {
			Message string `json:"message"`
		}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Message != "" {
			return models.Submission{}, fmt.Errorf("status %d: %s", resp.StatusCode, apiErr.Message)
		}
		return models.Submission{}, fmt.Errorf("status %d", resp.StatusCode)
	}

	var sub models.Submission
	if err := json.NewDecoder(resp.Body).Decode(&sub); err != nil {
		return models.Submission{}, fmt.Errorf("decode response: %w", err)
	}
	return sub, nil
}

func multipartBody(path, tone, hint string) (*bytes.Buffer, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", err
	}
	if tone != "" {
		_ = w.WriteField("tone", tone)
	}
	if hint != "" {
		_ = w.WriteField("caption_hint", hint)
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return body, w.FormDataContentType(), nil
}
