package ingest

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/nguyentantai21042004/caption-queue/internal/caption"
	"github.com/nguyentantai21042004/caption-queue/internal/classifier"
	"github.com/nguyentantai21042004/caption-queue/internal/lifecycle"
	"github.com/nguyentantai21042004/caption-queue/internal/logger"
	"github.com/nguyentantai21042004/caption-queue/internal/metrics"
	"github.com/nguyentantai21042004/caption-queue/internal/models"
	"github.com/nguyentantai21042004/caption-queue/internal/notifier"
	"github.com/nguyentantai21042004/caption-queue/internal/publisher"
	"github.com/nguyentantai21042004/caption-queue/internal/store"
	"github.com/nguyentantai21042004/caption-queue/internal/tone"
	"github.com/nguyentantai21042004/caption-queue/internal/transcriber"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type transcriberStub struct {
	res   transcriber.Result
	err   error
	paths []string
}

func (s *transcriberStub) Transcribe(ctx context.Context, path string) (transcriber.Result, error) {
	s.paths = append(s.paths, path)
	return s.res, s.err
}

func newPipeline(t *testing.T, tr transcriber.Transcriber, seed uint64) (Pipeline, lifecycle.Service) {
	t.Helper()
	log := logger.New("error")
	sel := tone.New(nil, tone.WithSource(rand.NewPCG(seed, seed+1)))
	engine := caption.New(sel, log, caption.WithSource(rand.NewPCG(seed+2, seed+3)))
	svc := lifecycle.New(store.NewMemory(), publisher.NewStub(log), notifier.NewStub(log), engine, log)
	return New(tr, classifier.New(), engine, svc, log, WithMetrics(metrics.New())), svc
}

func TestIngestTextWithUnknownTone(t *testing.T) {
	allowed := map[models.Tone]bool{
		models.ToneCruel:      true,
		models.ToneTeasing:    true,
		models.TonePossessive: true,
		models.ToneMixed:      true,
	}

	for seed := uint64(0); seed < 20; seed++ {
		p, svc := newPipeline(t, nil, seed)
		sub, err := p.Ingest(context.Background(), Input{
			Source: models.SourceText,
			Text:   "I need to be exposed online",
			Tone:   tone.ParseRequest("beg"),
		})
		require.NoError(t, err)

		assert.Equal(t, models.StatusPending, sub.Status)
		assert.Equal(t, models.SoundBeg, sub.SoundType)
		assert.NotEmpty(t, sub.Caption)
		assert.True(t, allowed[sub.Tone], "tone %s", sub.Tone)
		assert.Equal(t, "I need to be exposed online", sub.Transcript)
		assert.Equal(t, sub.Transcript, sub.RawContent())

		stored, err := svc.Get(context.Background(), sub.ID)
		require.NoError(t, err)
		assert.Equal(t, sub.Caption, stored.Caption)
	}
}

func TestIngestSMSKeepsSender(t *testing.T) {
	p, _ := newPipeline(t, nil, 1)
	sub, err := p.Ingest(context.Background(), Input{
		Source:      models.SourceSMS,
		Text:        "please stop whimpering",
		Tone:        tone.Single(models.ToneClinical),
		PhoneNumber: "+15551234",
		MessageSID:  "SM42",
	})
	require.NoError(t, err)
	assert.Equal(t, models.SourceSMS, sub.Source)
	assert.Equal(t, models.SoundWhimper, sub.SoundType)
	assert.Equal(t, models.ToneClinical, sub.Tone)
	assert.Equal(t, "+15551234", sub.PhoneNumber)
	assert.Equal(t, "SM42", sub.MessageSID)
}

func TestIngestAudio(t *testing.T) {
	stub := &transcriberStub{res: transcriber.Result{Text: "mmm that feels good", Confidence: 0.8}}
	p, _ := newPipeline(t, stub, 2)

	sub, err := p.Ingest(context.Background(), Input{
		Source:    models.SourceAudio,
		AudioPath: "/data/uploads/abc.m4a",
		Filename:  "voice memo.m4a",
		Tone:      tone.Mixed(),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/data/uploads/abc.m4a"}, stub.paths)
	assert.Equal(t, models.SoundMoan, sub.SoundType)
	assert.Equal(t, models.ToneMixed, sub.Tone)
	assert.Equal(t, "voice memo.m4a", sub.Filename)
	assert.Equal(t, "/data/uploads/abc.m4a", sub.RawContent())
	assert.InDelta(t, 0.8, sub.Confidence, 1e-9)
}

func TestIngestAudioTranscriptionFailure(t *testing.T) {
	stub := &transcriberStub{err: errors.New("whisper crashed")}
	p, svc := newPipeline(t, stub, 3)

	_, err := p.Ingest(context.Background(), Input{Source: models.SourceAudio, AudioPath: "/a.wav"})
	require.Error(t, err)

	all, err := svc.List(context.Background(), models.Filter{})
	require.NoError(t, err)
	assert.Empty(t, all, "failed transcription must not create a submission")
}

func TestIngestInvalidInput(t *testing.T) {
	p, _ := newPipeline(t, nil, 4)

	tests := []struct {
		name string
		in   Input
		want error
	}{
		{"empty text", Input{Source: models.SourceText, Text: "   "}, models.ErrInvalidInput},
		{"missing audio path", Input{Source: models.SourceAudio}, models.ErrInvalidInput},
		{"unknown source", Input{Source: "fax", Text: "x"}, models.ErrInvalidInput},
		{"audio without transcriber", Input{Source: models.SourceAudio, AudioPath: "/a.wav"}, models.ErrTranscriptionFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Ingest(context.Background(), tt.in)
			if !errors.Is(err, tt.want) {
				t.Errorf("Ingest() error = %v, want %v", err, tt.want)
			}
		})
	}
}
