package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/nguyentantai21042004/caption-queue/internal/models"
)

func (r *implReporter) Generate(ctx context.Context, f models.Filter, outputPath string) (int, error) {
	subs, err := r.store.List(ctx, f)
	if err != nil {
		return 0, fmt.Errorf("list submissions: %w", err)
	}

	doc, err := godocx.NewDocument()
	if err != nil {
		return 0, fmt.Errorf("new document: %w", err)
	}

	scope := "all submissions"
	if f.Status != "" {
		scope = string(f.Status) + " submissions"
	}
	addStyledRun(doc.AddParagraph(""), "Caption queue digest", true, 16)
	addStyledRun(doc.AddParagraph(""),
		fmt.Sprintf("%s, generated %s", scope, r.now().UTC().Format("2006-01-02 15:04 MST")), false, fontSize)

	addStyledRun(doc.AddParagraph(""), "Summary", true, 15)
	for _, line := range summarize(subs) {
		addLabelled(doc.AddParagraph(""), line[0], line[1])
	}

	for i, sub := range subs {
		addStyledRun(doc.AddParagraph(""), fmt.Sprintf("%d. Submission %s", i+1, sub.ID), true, 14)
		addLabelled(doc.AddParagraph(""), "Status", string(sub.Status))
		addLabelled(doc.AddParagraph(""), "Source", string(sub.Source))
		addLabelled(doc.AddParagraph(""), "Sound type", string(sub.SoundType))
		addLabelled(doc.AddParagraph(""), "Tone", string(sub.Tone))
		addLabelled(doc.AddParagraph(""), "Caption", sub.Caption)
		addLabelled(doc.AddParagraph(""), "Transcript", sub.Transcript)
		addLabelled(doc.AddParagraph(""), "Created", sub.CreatedAt.UTC().Format("2006-01-02 15:04"))
		for _, p := range sub.Posts {
			addLabelled(doc.AddParagraph(""), "Posted", fmt.Sprintf("%s (%s)", p.URL, p.PostedAt.UTC().Format("2006-01-02 15:04")))
		}
		if n := len(sub.Notifications); n > 0 {
			addLabelled(doc.AddParagraph(""), "Notifications", fmt.Sprintf("%d sent, %d failed", countSent(sub.Notifications), n-countSent(sub.Notifications)))
		}
	}

	if dir := filepath.Dir(outputPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := doc.SaveTo(outputPath); err != nil {
		return 0, fmt.Errorf("save %s: %w", outputPath, err)
	}

	r.logger.Info(ctx, "Wrote digest of %d submissions to %s", len(subs), outputPath)
	return len(subs), nil
}

// summarize returns label/value pairs for the totals section.
func summarize(subs []models.Submission) [][2]string {
	byStatus := map[models.Status]int{}
	byTone := map[models.Tone]int{}
	for _, s := range subs {
		byStatus[s.Status]++
		byTone[s.Tone]++
	}

	out := [][2]string{{"Total", fmt.Sprint(len(subs))}}
	for _, st := range []models.Status{models.StatusPending, models.StatusApproved, models.StatusRejected, models.StatusPosted} {
		if n := byStatus[st]; n > 0 {
			out = append(out, [2]string{capitalize(string(st)), fmt.Sprint(n)})
		}
	}

	tones := make([]string, 0, len(byTone))
	for t, n := range byTone {
		tones = append(tones, fmt.Sprintf("%s %d", t, n))
	}
	sort.Strings(tones)
	if len(tones) > 0 {
		out = append(out, [2]string{"Tones", strings.Join(tones, ", ")})
	}
	return out
}

func countSent(recs []models.NotificationRecord) int {
	n := 0
	for _, r := range recs {
		if r.Sent {
			n++
		}
	}
	return n
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
