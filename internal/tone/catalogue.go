package tone

import "github.com/nguyentantai21042004/caption-queue/internal/models"

// Info describes a selectable tone.
type Info struct {
	ID          models.Tone `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
}

// Available lists the base tones followed by the mixed composite.
func Available() []Info {
	return []Info{
		{ID: models.ToneCruel, Name: "Cruel", Description: "Harsh and demeaning"},
		{ID: models.ToneClinical, Name: "Clinical", Description: "Detached and analytical"},
		{ID: models.ToneTeasing, Name: "Teasing", Description: "Playful mockery"},
		{ID: models.TonePossessive, Name: "Possessive", Description: "Emphasizing ownership"},
		{ID: models.ToneMixed, Name: "Mixed", Description: "A blend of the other styles"},
	}
}
