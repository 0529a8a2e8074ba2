package timeback

import (
	"encoding/json"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Fixed values of a Timeback time spent event.
const (
	CaliperContext         = "http://purl.imsglobal.org/ctx/caliper/v1p2"
	CaliperTimeSpentEvent  = "TimeSpentEvent"
	CaliperActionSpentTime = "SpentTime"
	CaliperProfile         = "TimebackProfile"
	CaliperUserType        = "TimebackUser"
	CaliperContextType     = "TimebackActivityContext"
	CaliperMetricsType     = "TimebackTimeSpentMetricsCollection"
	TimeSpentActive        = "active"
	TimeSpentInactive      = "inactive"
	TimeSpentWaste         = "waste"
)

// TimeSpentMetric is the duration of one segment of activity, in seconds.
type TimeSpentMetric struct {
	Type       string                 `json:"type"                 yaml:"type"`
	SubType    string                 `json:"subType,omitempty"    yaml:"sub_type,omitempty"`
	Value      float64                `json:"value"                yaml:"value"`
	StartDate  string                 `json:"startDate,omitempty"  yaml:"start_date,omitempty"`
	EndDate    string                 `json:"endDate,omitempty"    yaml:"end_date,omitempty"`
	Extensions map[string]interface{} `json:"extensions,omitempty" yaml:"extensions,omitempty"`
}

// Validate implements validation.Validatable.
func (m TimeSpentMetric) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Type, validation.Required, validation.In(TimeSpentActive, TimeSpentInactive, TimeSpentWaste)),
		validation.Field(&m.Value, validation.Min(0.0)),
		validation.Field(&m.StartDate, validation.By(rfc3339)),
		validation.Field(&m.EndDate, validation.By(rfc3339)),
	)
}

// TimeSpentMetrics is the collection generated by a time spent event.
type TimeSpentMetrics struct {
	ID         string                 `json:"id,omitempty"         yaml:"id,omitempty"`
	Type       string                 `json:"type"                 yaml:"type"`
	Items      []TimeSpentMetric      `json:"items"                yaml:"items"`
	Extensions map[string]interface{} `json:"extensions,omitempty" yaml:"extensions,omitempty"`
}

// Validate implements validation.Validatable.
func (m TimeSpentMetrics) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Type, validation.In(CaliperMetricsType)),
		validation.Field(&m.Items, validation.Required),
	)
}

// CaliperUser is the actor of an event.
type CaliperUser struct {
	ID         string                 `json:"id"                   yaml:"id"`
	Type       string                 `json:"type"                 yaml:"type"`
	Email      string                 `json:"email"                yaml:"email"`
	Name       string                 `json:"name,omitempty"       yaml:"name,omitempty"`
	Role       string                 `json:"role,omitempty"       yaml:"role,omitempty"`
	Extensions map[string]interface{} `json:"extensions,omitempty" yaml:"extensions,omitempty"`
}

// Validate implements validation.Validatable.
func (u CaliperUser) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.ID, validation.Required),
		validation.Field(&u.Type, validation.In(CaliperUserType)),
		validation.Field(&u.Email, validation.Required, is.EmailFormat),
	)
}

// CaliperActivityContext is where the time was spent.
type CaliperActivityContext struct {
	ID         string                 `json:"id,omitempty"         yaml:"id,omitempty"`
	Type       string                 `json:"type"                 yaml:"type"`
	Subject    string                 `json:"subject"              yaml:"subject"`
	App        map[string]interface{} `json:"app"                  yaml:"app"`
	Activity   map[string]interface{} `json:"activity"             yaml:"activity"`
	Course     map[string]interface{} `json:"course,omitempty"     yaml:"course,omitempty"`
	Extensions map[string]interface{} `json:"extensions,omitempty" yaml:"extensions,omitempty"`
}

// Validate implements validation.Validatable.
func (c CaliperActivityContext) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Type, validation.In(CaliperContextType)),
		validation.Field(&c.Subject, validation.Required),
		validation.Field(&c.App, validation.Required),
		validation.Field(&c.Activity, validation.Required),
	)
}

// TimeSpentEvent records a student's time in an app. Fixed fields left empty are filled on send.
type TimeSpentEvent struct {
	Context          string                 `json:"@context"                   yaml:"context"`
	ID               string                 `json:"id,omitempty"               yaml:"id,omitempty"`
	Type             string                 `json:"type"                       yaml:"type"`
	Actor            CaliperUser            `json:"actor"                      yaml:"actor"`
	Action           string                 `json:"action"                     yaml:"action"`
	Object           CaliperActivityContext `json:"object"                     yaml:"object"`
	EventTime        string                 `json:"eventTime"                  yaml:"event_time"`
	Profile          string                 `json:"profile"                    yaml:"profile"`
	EdApp            map[string]interface{} `json:"edApp"                      yaml:"ed_app"`
	Generated        TimeSpentMetrics       `json:"generated"                  yaml:"generated"`
	Target           json.RawMessage        `json:"target,omitempty"           yaml:"-"`
	Referrer         json.RawMessage        `json:"referrer,omitempty"         yaml:"-"`
	Session          json.RawMessage        `json:"session,omitempty"          yaml:"-"`
	FederatedSession json.RawMessage        `json:"federatedSession,omitempty" yaml:"-"`
	Extensions       map[string]interface{} `json:"extensions,omitempty"       yaml:"extensions,omitempty"`
}

// Validate implements validation.Validatable.
func (e TimeSpentEvent) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Context, validation.In(CaliperContext)),
		validation.Field(&e.Type, validation.In(CaliperTimeSpentEvent)),
		validation.Field(&e.Actor),
		validation.Field(&e.Action, validation.In(CaliperActionSpentTime)),
		validation.Field(&e.Object),
		validation.Field(&e.EventTime, validation.Required, validation.By(rfc3339)),
		validation.Field(&e.Profile, validation.In(CaliperProfile)),
		validation.Field(&e.EdApp, validation.Required),
		validation.Field(&e.Generated),
	)
}

// ApplyDefaults fills the fixed type, action, profile and context fields.
func (e *TimeSpentEvent) ApplyDefaults() {
	setDefault(&e.Context, CaliperContext)
	setDefault(&e.Type, CaliperTimeSpentEvent)
	setDefault(&e.Action, CaliperActionSpentTime)
	setDefault(&e.Profile, CaliperProfile)
	setDefault(&e.Actor.Type, CaliperUserType)
	setDefault(&e.Object.Type, CaliperContextType)
	setDefault(&e.Generated.Type, CaliperMetricsType)
}

// CaliperEnvelope carries events from a sensor.
type CaliperEnvelope struct {
	Sensor      string           `json:"sensor"      yaml:"sensor"`
	SendTime    string           `json:"sendTime"    yaml:"send_time"`
	DataVersion string           `json:"dataVersion" yaml:"data_version"`
	Data        []TimeSpentEvent `json:"data"        yaml:"data"`
}

// Validate implements validation.Validatable.
func (e CaliperEnvelope) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Sensor, validation.Required),
		validation.Field(&e.SendTime, validation.Required, validation.By(rfc3339)),
		validation.Field(&e.DataVersion, validation.Required),
		validation.Field(&e.Data, validation.Required),
	)
}

// ApplyDefaults stamps the send time and data version and fills every event's fixed fields.
func (e *CaliperEnvelope) ApplyDefaults(now time.Time) {
	setDefault(&e.SendTime, now.UTC().Format(time.RFC3339))
	setDefault(&e.DataVersion, CaliperContext)

	for i := range e.Data {
		e.Data[i].ApplyDefaults()
	}
}

// CaliperResult is the outcome of sending or validating an envelope.
type CaliperResult struct {
	Status  string            `json:"status"           yaml:"status"`
	Message string            `json:"message"          yaml:"message"`
	Errors  []json.RawMessage `json:"errors,omitempty" yaml:"-"`
}

// OK reports whether the API accepted the envelope.
func (r *CaliperResult) OK() bool {
	return r.Status == "success"
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

func rfc3339(value interface{}) error {
	text, _ := value.(string)
	if text == "" {
		return nil
	}

	_, err := time.Parse(time.RFC3339, text)
	if err != nil {
		return validation.NewError("validation_rfc3339", "must be an RFC 3339 timestamp")
	}

	return nil
}
