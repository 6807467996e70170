package declarative

// Limits on an agent list.
const (
	MaxAgents            = 10
	MaxNameLength        = 100
	MaxPromptLength      = 5000
	MaxDescriptionLength = 500
)

// AgentDefinition is one post-processing step that runs over extracted
// records after the result gate.
// This struct is produced by ValidateList; build it by hand only in tests.
type AgentDefinition struct {
	Name        string `yaml:"name" json:"name"`
	Prompt      string `yaml:"prompt" json:"prompt"`
	Order       int    `yaml:"order" json:"order"`
	Enabled     bool   `yaml:"enabled" json:"enabled"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Reason classifies an agent list violation.
type Reason string

const (
	ReasonNotArray           Reason = "not_array"
	ReasonTooMany            Reason = "too_many"
	ReasonNotObject          Reason = "not_object"
	ReasonMissingField       Reason = "missing_field"
	ReasonInvalidName        Reason = "invalid_name"
	ReasonDuplicateName      Reason = "duplicate_name"
	ReasonInvalidPrompt      Reason = "invalid_prompt"
	ReasonInvalidOrder       Reason = "invalid_order"
	ReasonDuplicateOrder     Reason = "duplicate_order"
	ReasonInvalidEnabled     Reason = "invalid_enabled"
	ReasonInvalidDescription Reason = "invalid_description"
)
