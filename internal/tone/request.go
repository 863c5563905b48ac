package tone

import (
	"strings"

	"github.com/nguyentantai21042004/caption-queue/internal/models"
)

const (
	specAuto  = "auto"
	specMixed = "mixed"
)

// Request is a tone specifier: one tone, "auto", "mixed", or a candidate list.
// The zero value behaves like Auto.
type Request struct {
	specs []string
}

// Auto requests a tone drawn from the preferred pool.
func Auto() Request { return Request{specs: []string{specAuto}} }

// Mixed requests the composite tone.
func Mixed() Request { return Request{specs: []string{specMixed}} }

// Single requests exactly t.
func Single(t models.Tone) Request { return Request{specs: []string{normalize(string(t))}} }

// List requests a draw from the given candidates.
func List(tones ...models.Tone) Request {
	specs := make([]string, 0, len(tones))
	for _, t := range tones {
		if s := normalize(string(t)); s != "" {
			specs = append(specs, s)
		}
	}
	return Request{specs: specs}
}

// ParseRequest reads a form value such as "teasing", "auto" or "cruel,teasing".
// Unknown names are kept so that resolution can apply the auto fallback.
func ParseRequest(raw string) Request {
	parts := strings.Split(raw, ",")
	specs := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := normalize(p); s != "" {
			specs = append(specs, s)
		}
	}
	return Request{specs: specs}
}

// String renders the request in the form ParseRequest accepts.
func (r Request) String() string {
	if len(r.specs) == 0 {
		return specAuto
	}
	return strings.Join(r.specs, ",")
}

// candidates returns the distinct base tones named by a list request, in order.
func (r Request) candidates() []models.Tone {
	seen := make(map[models.Tone]bool, len(r.specs))
	out := make([]models.Tone, 0, len(r.specs))
	for _, s := range r.specs {
		t := models.Tone(s)
		if !t.IsBase() || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
