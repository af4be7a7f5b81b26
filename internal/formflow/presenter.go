package formflow

// BannerKind selects how a banner is rendered.
type BannerKind string

const (
	BannerSuccess    BannerKind = "success"
	BannerError      BannerKind = "error"
	BannerValidation BannerKind = "validation"
)

// Banner is a one-line message shown above the form.
type Banner struct {
	Kind  BannerKind `json:"kind"`
	Text  string     `json:"text"`
	Field string     `json:"field,omitempty"`
}

// View is what the client renders for a form instance.
type View struct {
	ID             string   `json:"id"`
	Form           string   `json:"form"`
	Status         Status   `json:"status"`
	Busy           bool     `json:"busy"`
	SubmitDisabled bool     `json:"submitDisabled"`
	Banner         *Banner  `json:"banner,omitempty"`
	Redirect       string   `json:"redirect,omitempty"`
	Result         any      `json:"result,omitempty"`
	Fields         []string `json:"fields"`
}

// Present maps a snapshot to its view: a spinner while in flight, a success
// confirmation with the redirect target, or an error banner carrying the
// collaborator's message. A validation error from the last submit is shown
// as a field banner without changing the status.
func Present(s Snapshot, submitErr error) View {
	v := View{
		ID:     s.ID,
		Form:   s.Form,
		Status: s.Status,
		Fields: s.Fields,
	}
	if v.Fields == nil {
		v.Fields = []string{}
	}

	switch s.Status {
	case StatusInFlight:
		v.Busy = true
		v.SubmitDisabled = true
	case StatusSucceeded:
		v.SubmitDisabled = true
		v.Redirect = s.SuccessRoute
		v.Result = s.Result
		if s.SuccessMessage != "" {
			v.Banner = &Banner{Kind: BannerSuccess, Text: s.SuccessMessage}
		}
	case StatusFailed:
		v.Banner = &Banner{Kind: BannerError, Text: s.ErrorMessage}
	}

	if verr, ok := AsValidation(submitErr); ok {
		v.Banner = &Banner{Kind: BannerValidation, Text: verr.Reason, Field: verr.Field}
	}
	return v
}
