package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/caption-queue/internal/caption"
	"github.com/nguyentantai21042004/caption-queue/internal/models"
)

func (p *implPipeline) Ingest(ctx context.Context, in Input) (models.Submission, error) {
	sub := models.Submission{
		Source:      in.Source,
		PhoneNumber: in.PhoneNumber,
		MessageSID:  in.MessageSID,
	}

	switch in.Source {
	case models.SourceText, models.SourceSMS:
		text := strings.TrimSpace(in.Text)
		if text == "" {
			return models.Submission{}, fmt.Errorf("%w: text is empty", models.ErrInvalidInput)
		}
		sub.TextContent = text
		sub.Transcript = text
		sub.Confidence = 1

	case models.SourceAudio:
		if in.AudioPath == "" {
			return models.Submission{}, fmt.Errorf("%w: audio path is empty", models.ErrInvalidInput)
		}
		if p.transcriber == nil {
			return models.Submission{}, fmt.Errorf("%w: no transcriber configured", models.ErrTranscriptionFailed)
		}
		res, err := p.transcriber.Transcribe(ctx, in.AudioPath)
		if err != nil {
			return models.Submission{}, fmt.Errorf("ingest %s: %w", filepath.Base(in.AudioPath), err)
		}
		sub.StoragePath = in.AudioPath
		sub.Filename = in.Filename
		if sub.Filename == "" {
			sub.Filename = filepath.Base(in.AudioPath)
		}
		sub.Transcript = res.Text
		sub.Confidence = res.Confidence

	default:
		return models.Submission{}, fmt.Errorf("%w: unknown source %q", models.ErrInvalidInput, in.Source)
	}

	sub.SoundType = p.classifier.Classify(sub.Transcript)
	sub.Caption, sub.Tone = p.engine.Generate(ctx, caption.Input{
		Transcript: sub.Transcript,
		SoundType:  sub.SoundType,
		Tone:       in.Tone,
		Hint:       in.Hint,
		MaxLength:  p.maxLength,
	})

	created, err := p.lifecycle.Create(ctx, sub)
	if err != nil {
		return models.Submission{}, err
	}

	p.metrics.ObserveIngest(string(created.Source), string(created.SoundType))
	p.metrics.ObserveTone(string(created.Tone))
	p.logger.Debug(ctx, "Ingested %s as %s: %q", created.Source, created.ID, created.Caption)
	return created, nil
}
