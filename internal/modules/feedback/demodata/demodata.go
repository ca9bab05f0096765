// Package demodata fabricates plausible survey submissions for demos and
// local testing.
package demodata

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"

	types "github.com/yungbote/feedback360-backend/internal/domain"
	"github.com/yungbote/feedback360-backend/internal/domain/survey"
)

const DefaultManager = "John Doe"

// Comment templates; {name} is replaced with the manager's first name.
var comments = map[survey.Role][]string{
	survey.RoleSelf: {
		"I believe I've made significant progress in my leadership skills this year.",
		"I need to work on providing more regular feedback to my team.",
		"My communication with stakeholders has improved substantially.",
		"I want to focus more on developing others in the coming year.",
		"I feel confident in my ability to drive results and accountability.",
	},
	survey.RolePeer: {
		"{name} is an excellent leader who always makes time for the team.",
		"I appreciate how {name} listens to feedback and implements changes.",
		"{name} could improve on providing more regular feedback.",
		"Great communication skills, but sometimes meetings run too long.",
		"Very supportive of career development and growth opportunities.",
	},
	survey.RoleDirect: {
		"{name} has been a great leader for me and provides clear direction.",
		"I appreciate the regular one-on-ones and career development discussions.",
		"{name} is always available when I need guidance or support.",
		"{name} balances being supportive with holding people accountable.",
		"{name} creates a positive work environment and encourages innovation.",
	},
	survey.RoleManager: {
		"{name} demonstrates strong leadership skills and drives team success.",
		"{name} communicates effectively and consistently achieves results.",
		"{name} has been instrumental in improving the team's performance.",
		"{name} shows excellent strategic thinking and decision-making abilities.",
	},
}

type Options struct {
	ManagerName string
	ManagerID   string
	// PerRole is the number of peer, direct and manager submissions. Exactly
	// one self assessment is always produced.
	PerRole int
	Now     time.Time
}

type Generator struct {
	rng *rand.Rand
}

func New(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Generate builds unsaved submissions answering every question of cfg.
func (g *Generator) Generate(cfg survey.Config, opts Options) []*types.Submission {
	name := strings.TrimSpace(opts.ManagerName)
	if name == "" {
		name = DefaultManager
	}
	per := opts.PerRole
	if per <= 0 {
		per = 1
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	managerID := strings.TrimSpace(opts.ManagerID)
	if managerID == "" {
		managerID = "Recipient_" + initials(name)
	}

	var out []*types.Submission
	for _, role := range survey.AggregateRoles {
		n := per
		if role == survey.RoleSelf {
			n = 1
		}
		for i := 0; i < n; i++ {
			out = append(out, &types.Submission{
				Role:        role,
				ManagerID:   managerID,
				ManagerName: name,
				Responses:   datatypes.NewJSONType(g.answers(cfg.Sections(role))),
				Comments:    g.comments(role, name),
				Status:      types.StatusCompleted,
				IPAddress:   fmt.Sprintf("127.0.0.%d", len(out)+1),
				UserAgent:   "demo-data generator",
				SubmittedAt: now,
			})
		}
	}
	return out
}

func (g *Generator) answers(sections []survey.Section) types.Responses {
	out := make(types.Responses, len(sections))
	for _, sec := range sections {
		qs := make(map[string]types.Answer, len(sec.Questions))
		for _, q := range sec.Questions {
			qs[q.ID] = types.Answer(strconv.Itoa(g.rng.Intn(5) + 1))
		}
		out[sec.ID] = qs
	}
	return out
}

// comments picks one or two distinct templates for the role.
func (g *Generator) comments(role survey.Role, manager string) string {
	pool := append([]string(nil), comments[role]...)
	if len(pool) == 0 {
		return ""
	}
	first := strings.Fields(manager)[0]
	n := g.rng.Intn(2) + 1
	picked := make([]string, 0, n)
	for i := 0; i < n && len(pool) > 0; i++ {
		j := g.rng.Intn(len(pool))
		picked = append(picked, strings.ReplaceAll(pool[j], "{name}", first))
		pool = append(pool[:j], pool[j+1:]...)
	}
	return strings.Join(picked, "\n\n")
}

func initials(name string) string {
	var b strings.Builder
	for _, f := range strings.Fields(name) {
		b.WriteString(strings.ToUpper(f[:1]))
	}
	return b.String() + "001"
}
