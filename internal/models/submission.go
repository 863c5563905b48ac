package models

import "time"

// Status is the moderation state of a submission.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusPosted   Status = "posted"
)

// Valid reports whether s is one of the four moderation states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusPosted:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible from s.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusPosted
}

// Source is the channel a submission arrived through.
type Source string

const (
	SourceAudio Source = "audio"
	SourceText  Source = "text"
	SourceSMS   Source = "sms"
)

// Valid reports whether s is a known source.
func (s Source) Valid() bool {
	return s == SourceAudio || s == SourceText || s == SourceSMS
}

// SoundType is the coarse classification derived from a transcript.
type SoundType string

const (
	SoundWhimper SoundType = "whimper"
	SoundMoan    SoundType = "moan"
	SoundBeg     SoundType = "beg"
	SoundOther   SoundType = "other"
)

// Tone is the stylistic mode of a caption.
type Tone string

const (
	ToneCruel      Tone = "cruel"
	ToneClinical   Tone = "clinical"
	ToneTeasing    Tone = "teasing"
	TonePossessive Tone = "possessive"
	// ToneMixed is a composite of the base tones, not a base tone itself.
	ToneMixed Tone = "mixed"
)

// BaseTones lists the concrete tones in catalogue order.
func BaseTones() []Tone {
	return []Tone{ToneCruel, ToneClinical, ToneTeasing, TonePossessive}
}

// IsBase reports whether t is one of the four concrete tones.
func (t Tone) IsBase() bool {
	switch t {
	case ToneCruel, ToneClinical, ToneTeasing, TonePossessive:
		return true
	}
	return false
}

// Submission is one piece of user content moving through moderation.
type Submission struct {
	ID          string    `json:"id"`
	Source      Source    `json:"source"`
	Filename    string    `json:"filename,omitempty"`
	StoragePath string    `json:"storage_path,omitempty"`
	TextContent string    `json:"text_content,omitempty"`
	Transcript  string    `json:"transcript"`
	Confidence  float64   `json:"confidence,omitempty"`
	SoundType   SoundType `json:"sound_type"`
	Tone        Tone      `json:"tone"`
	Caption     string    `json:"caption"`
	Status      Status    `json:"status"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	MessageSID  string    `json:"message_sid,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Posts         []PostRecord         `json:"posts,omitempty"`
	Notifications []NotificationRecord `json:"notifications,omitempty"`
}

// RawContent returns the immutable input the submission was created from:
// the stored audio path for audio, the literal text otherwise.
func (s Submission) RawContent() string {
	if s.Source == SourceAudio {
		return s.StoragePath
	}
	return s.TextContent
}

// Clone returns a copy that shares no slices with s.
func (s Submission) Clone() Submission {
	c := s
	if s.Posts != nil {
		c.Posts = append([]PostRecord(nil), s.Posts...)
	}
	if s.Notifications != nil {
		c.Notifications = append([]NotificationRecord(nil), s.Notifications...)
	}
	return c
}

// PostRecord is evidence that a submission was published externally.
type PostRecord struct {
	ID             string    `json:"id"`
	SubmissionID   string    `json:"submission_id"`
	ExternalPostID string    `json:"external_post_id"`
	Text           string    `json:"text"`
	URL            string    `json:"url"`
	PostedAt       time.Time `json:"posted_at"`
}

// Delivery states recorded on a NotificationRecord.
const (
	DeliveryQueued    = "queued"
	DeliverySent      = "sent"
	DeliveryDelivered = "delivered"
	DeliveryFailed    = "failed"
	// DeliveryStubbed marks a message accepted by a stand-in notifier that never left the process.
	DeliveryStubbed = "stubbed"
)

// NotificationRecord is an outbound message referencing a submission.
type NotificationRecord struct {
	ID             string     `json:"id"`
	SubmissionID   string     `json:"submission_id"`
	Recipient      string     `json:"recipient"`
	Message        string     `json:"message"`
	Sent           bool       `json:"sent"`
	DeliveryStatus string     `json:"delivery_status"`
	ProviderID     string     `json:"provider_id,omitempty"`
	Error          string     `json:"error,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	SentAt         *time.Time `json:"sent_at,omitempty"`
}

// Filter narrows a submission listing. The zero value matches everything.
type Filter struct {
	Status Status
	Source Source
	Limit  int
}

// Match reports whether sub satisfies the status and source constraints.
func (f Filter) Match(sub Submission) bool {
	if f.Status != "" && sub.Status != f.Status {
		return false
	}
	if f.Source != "" && sub.Source != f.Source {
		return false
	}
	return true
}
