package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/caption-queue/internal/caption"
	"github.com/nguyentantai21042004/caption-queue/internal/logger"
	"github.com/nguyentantai21042004/caption-queue/internal/models"
	"github.com/nguyentantai21042004/caption-queue/internal/tone"
	"github.com/sirupsen/logrus"
)

const (
	resultSuccess  = "success"
	resultRejected = "rejected"
	resultError    = "error"
)

func (s *implService) Create(ctx context.Context, sub models.Submission) (models.Submission, error) {
	if !sub.Source.Valid() {
		return models.Submission{}, fmt.Errorf("%w: unknown source %q", models.ErrInvalidInput, sub.Source)
	}
	now := s.now().UTC()
	sub.Status = models.StatusPending
	sub.CreatedAt = now
	sub.UpdatedAt = now
	sub.Posts = nil
	sub.Notifications = nil

	created, err := s.store.Create(ctx, sub)
	if err != nil {
		return models.Submission{}, fmt.Errorf("create submission: %w", err)
	}
	s.logger.Info(ctx, "Created submission %s (source=%s sound=%s tone=%s)",
		created.ID, created.Source, created.SoundType, created.Tone)
	return created, nil
}

func (s *implService) Get(ctx context.Context, id string) (models.Submission, error) {
	return s.store.Get(ctx, id)
}

func (s *implService) List(ctx context.Context, f models.Filter) ([]models.Submission, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", models.ErrInvalidInput, f.Status)
	}
	return s.store.List(ctx, f)
}

func (s *implService) Approve(ctx context.Context, id string) (models.Submission, error) {
	return s.transition(ctx, id, OpApprove, nil)
}

func (s *implService) Reject(ctx context.Context, id string) (models.Submission, error) {
	return s.transition(ctx, id, OpReject, nil)
}

func (s *implService) EditCaption(ctx context.Context, id, text string) (models.Submission, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Submission{}, fmt.Errorf("%w: caption is empty", models.ErrInvalidInput)
	}
	return s.transition(ctx, id, OpEditCaption, func(ctx context.Context, sub *models.Submission) (bool, error) {
		if sub.Caption == text {
			return false, nil
		}
		sub.Caption = text
		return true, nil
	})
}

func (s *implService) RegenerateCaption(ctx context.Context, id string, req tone.Request) (models.Submission, error) {
	return s.transition(ctx, id, OpEditCaption, func(ctx context.Context, sub *models.Submission) (bool, error) {
		text, resolved := s.engine.Generate(ctx, caption.Input{
			Transcript: sub.Transcript,
			SoundType:  sub.SoundType,
			Tone:       req,
			MaxLength:  s.maxLength,
		})
		s.metrics.ObserveTone(string(resolved))
		sub.Caption = text
		sub.Tone = resolved
		return true, nil
	})
}

func (s *implService) Post(ctx context.Context, id string) (models.Submission, error) {
	posted, err := s.transition(ctx, id, OpPost, func(ctx context.Context, sub *models.Submission) (bool, error) {
		res, err := s.publisher.Publish(ctx, sub.Caption)
		if err != nil {
			if !errors.Is(err, models.ErrPostingFailed) {
				err = fmt.Errorf("%w: %v", models.ErrPostingFailed, err)
			}
			return false, err
		}
		sub.Posts = append(sub.Posts, models.PostRecord{
			ExternalPostID: res.ExternalPostID,
			Text:           sub.Caption,
			URL:            res.URL,
			PostedAt:       s.now().UTC(),
		})
		return true, nil
	})
	if err != nil {
		return models.Submission{}, err
	}

	if posted.Source == models.SourceSMS && posted.PhoneNumber != "" && len(posted.Posts) > 0 {
		url := posted.Posts[len(posted.Posts)-1].URL
		if _, err := s.Notify(ctx, posted.ID, posted.PhoneNumber, "Your submission is live: "+url); err != nil {
			s.logger.Warn(ctx, "Notify sender of %s: %v", posted.ID, err)
		} else if refreshed, err := s.store.Get(ctx, posted.ID); err == nil {
			posted = refreshed
		}
	}
	return posted, nil
}

func (s *implService) Notify(ctx context.Context, id, recipient, message string) (models.NotificationRecord, error) {
	if strings.TrimSpace(recipient) == "" {
		return models.NotificationRecord{}, fmt.Errorf("%w: recipient is empty", models.ErrInvalidInput)
	}

	release := s.locks.lock(id)
	defer release()

	sub, err := s.store.Get(ctx, id)
	if err != nil {
		return models.NotificationRecord{}, err
	}

	rec := models.NotificationRecord{
		Recipient: recipient,
		Message:   message,
		CreatedAt: s.now().UTC(),
	}
	res, err := s.notifier.Send(ctx, recipient, message)
	if err != nil {
		s.logger.Warn(ctx, "Notification for %s to %s failed: %v", id, recipient, err)
		rec.DeliveryStatus = models.DeliveryFailed
		rec.ProviderID = res.DeliveryID
		rec.Error = err.Error()
	} else if res.Status == models.DeliveryStubbed {
		rec.ProviderID = res.DeliveryID
		rec.DeliveryStatus = models.DeliveryStubbed
	} else {
		sentAt := s.now().UTC()
		rec.Sent = true
		rec.SentAt = &sentAt
		rec.ProviderID = res.DeliveryID
		rec.DeliveryStatus = res.Status
		if rec.DeliveryStatus == "" {
			rec.DeliveryStatus = models.DeliverySent
		}
	}
	s.metrics.ObserveNotification(rec.DeliveryStatus)

	sub.Notifications = append(sub.Notifications, rec)
	sub.UpdatedAt = s.now().UTC()
	updated, err := s.store.Update(ctx, sub)
	if err != nil {
		return models.NotificationRecord{}, fmt.Errorf("record notification for %s: %w", id, err)
	}
	return updated.Notifications[len(updated.Notifications)-1], nil
}

// mutation edits a loaded submission. It reports whether anything changed.
type mutation func(ctx context.Context, sub *models.Submission) (bool, error)

// transition runs op against submission id under its lock. The new status
// and mutate's changes are stored only if mutate succeeds.
func (s *implService) transition(ctx context.Context, id string, op Operation, mutate mutation) (models.Submission, error) {
	ctx = logger.WithFields(ctx, logrus.Fields{"submission_id": id, "operation": string(op)})
	release := s.locks.lock(id)
	defer release()

	sub, err := s.store.Get(ctx, id)
	if err != nil {
		s.metrics.ObserveTransition(string(op), resultError)
		return models.Submission{}, err
	}

	next, err := Apply(sub.Status, op)
	if err != nil {
		s.metrics.ObserveTransition(string(op), resultRejected)
		s.logger.Warn(ctx, "Rejected %s on %s: %v", op, id, err)
		return models.Submission{}, err
	}

	changed := next != sub.Status
	if mutate != nil {
		edited, err := mutate(ctx, &sub)
		if err != nil {
			s.metrics.ObserveTransition(string(op), resultError)
			s.logger.Error(ctx, "%s on %s failed: %v", op, id, err)
			return models.Submission{}, err
		}
		changed = changed || edited
	}
	if !changed {
		s.metrics.ObserveTransition(string(op), resultSuccess)
		return sub, nil
	}

	prev := sub.Status
	sub.Status = next
	sub.UpdatedAt = s.now().UTC()
	updated, err := s.store.Update(ctx, sub)
	if err != nil {
		s.metrics.ObserveTransition(string(op), resultError)
		return models.Submission{}, fmt.Errorf("%s submission %s: %w", op, id, err)
	}

	s.metrics.ObserveTransition(string(op), resultSuccess)
	s.logger.Info(ctx, "Submission %s: %s -> %s via %s", id, prev, updated.Status, op)
	return updated, nil
}
