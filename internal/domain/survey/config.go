package survey

import "strings"

type Question struct {
	ID    string `json:"id" yaml:"id"`
	Text  string `json:"text" yaml:"text"`
	Type  string `json:"type" yaml:"type"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
	Order int    `json:"order,omitempty" yaml:"order,omitempty"`
}

type Section struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Questions   []Question `json:"questions" yaml:"questions"`
}

// Config holds the editable survey definition for each aggregated role.
type Config struct {
	Self    []Section `json:"self" yaml:"self"`
	Peer    []Section `json:"peer" yaml:"peer"`
	Direct  []Section `json:"direct" yaml:"direct"`
	Manager []Section `json:"manager" yaml:"manager"`
}

func (c Config) Sections(r Role) []Section {
	switch r {
	case RoleSelf:
		return c.Self
	case RolePeer:
		return c.Peer
	case RoleDirect:
		return c.Direct
	case RoleManager:
		return c.Manager
	}
	return nil
}

func (c *Config) SetSections(r Role, sections []Section) {
	switch r {
	case RoleSelf:
		c.Self = sections
	case RolePeer:
		c.Peer = sections
	case RoleDirect:
		c.Direct = sections
	case RoleManager:
		c.Manager = sections
	}
}

// Empty reports whether no role has any section defined.
func (c Config) Empty() bool {
	return len(c.Self) == 0 && len(c.Peer) == 0 && len(c.Direct) == 0 && len(c.Manager) == 0
}

// Validate checks that every section and question carries an id and that ids
// are unique within their scope.
func (c Config) Validate() error {
	for _, r := range AggregateRoles {
		seenSections := map[string]bool{}
		for _, s := range c.Sections(r) {
			id := strings.TrimSpace(s.ID)
			if id == "" {
				return &ValidationError{Role: r, Msg: "section id required"}
			}
			if seenSections[id] {
				return &ValidationError{Role: r, Msg: "duplicate section id " + id}
			}
			seenSections[id] = true
			seenQuestions := map[string]bool{}
			for _, q := range s.Questions {
				qid := strings.TrimSpace(q.ID)
				if qid == "" {
					return &ValidationError{Role: r, Msg: "question id required in section " + id}
				}
				if seenQuestions[qid] {
					return &ValidationError{Role: r, Msg: "duplicate question id " + qid + " in section " + id}
				}
				seenQuestions[qid] = true
			}
		}
	}
	return nil
}

type ValidationError struct {
	Role Role
	Msg  string
}

func (e *ValidationError) Error() string {
	return "survey config (" + string(e.Role) + "): " + e.Msg
}
