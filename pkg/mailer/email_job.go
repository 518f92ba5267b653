package mailer

// EmailJob is one notification on the email queue. A job names either a
// registered Template with its Data, or a literal Subject with Text and/or
// HTML bodies.
type EmailJob struct {
	To       string         `json:"to"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`

	Subject string `json:"subject,omitempty"`
	Text    string `json:"text,omitempty"`
	HTML    string `json:"html,omitempty"`
}

// IsTemplated reports whether the job is rendered from a template.
func (j EmailJob) IsTemplated() bool { return j.Template != "" }
