package registry

// ChangeType classifies a schema change reported by the registry.
type ChangeType string

const (
	ChangeFailure ChangeType = "FAILURE"
	ChangeWarning ChangeType = "WARNING"
	ChangeNotice  ChangeType = "NOTICE"
)

// SchemaChange is a single diff entry from the registry's schema check.
// Produced remotely; consumed read-only for rendering and exit-code logic.
type SchemaChange struct {
	Type        ChangeType `json:"type"`
	Code        string     `json:"code"`
	Description string     `json:"description"`
}

// HistoricQueryParameters bounds which recorded operations count against a
// proposed schema change. From is a negative offset (seconds) into the past,
// To is 0 meaning "now". The percentage is stored as a fraction in [0,1].
type HistoricQueryParameters struct {
	From                          int64   `json:"from"`
	To                            int64   `json:"to"`
	QueryCountThreshold           int     `json:"queryCountThreshold"`
	QueryCountThresholdPercentage float64 `json:"queryCountThresholdPercentage"`
}

// GitContext carries best-effort version control metadata attached to a
// schema check or publish. Zero values mean "unknown".
type GitContext struct {
	Branch    string `json:"branch,omitempty"`
	Commit    string `json:"commit,omitempty"`
	Committer string `json:"committer,omitempty"`
	RemoteURL string `json:"remoteUrl,omitempty"`
	Message   string `json:"message,omitempty"`
}

// CheckSchemaInput is the request payload for the registry's checkSchema
// operation. Schema is either an SDL document or a serialized introspection
// result.
type CheckSchemaInput struct {
	ServiceID          string
	Schema             string
	Tag                string
	GitContext         *GitContext
	Frontend           string
	HistoricParameters *HistoricQueryParameters
}

// ValidationConfig echoes the historic parameters the registry applied.
type ValidationConfig struct {
	From                          int64   `json:"from"`
	To                            int64   `json:"to"`
	QueryCountThreshold           int     `json:"queryCountThreshold"`
	QueryCountThresholdPercentage float64 `json:"queryCountThresholdPercentage"`
}

// SchemaDiff is the diff of a proposed schema against the previously
// published one, as computed by the registry.
type SchemaDiff struct {
	Type             ChangeType        `json:"type"`
	Changes          []SchemaChange    `json:"changes"`
	ValidationConfig *ValidationConfig `json:"validationConfig"`
}

// CheckSchemaResult is the registry's response to checkSchema.
type CheckSchemaResult struct {
	TargetURL      string     `json:"targetUrl"`
	DiffToPrevious SchemaDiff `json:"diffToPrevious"`
}

// SchemaTagResult is a schema document as stored in the registry for a
// (service, tag) pair.
type SchemaTagResult struct {
	Hash     string `json:"hash"`
	Document string `json:"document"`
}

// PublishSchemaResult reports the outcome of uploading a schema.
type PublishSchemaResult struct {
	Tag  string `json:"tag"`
	Hash string `json:"hash"`
}

// Failures counts the changes of type FAILURE in a diff.
func (d SchemaDiff) Failures() int {
	n := 0
	for _, c := range d.Changes {
		if c.Type == ChangeFailure {
			n++
		}
	}
	return n
}
