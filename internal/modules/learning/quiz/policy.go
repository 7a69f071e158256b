package quiz

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const policyPathEnv = "QUIZ_POLICY_YAML"

//go:embed policy.yaml
var policyFS embed.FS

type Delays struct {
	CorrectAdvance   time.Duration
	IncorrectAdvance time.Duration
	MatchingAdvance  time.Duration
	FlashcardDismiss time.Duration
	FlashcardRetry   time.Duration
}

// Tier is one score band and its copy.
type Tier struct {
	Name     string `yaml:"name" json:"name"`
	MinScore int    `yaml:"min_score" json:"minScore"`
	Success  bool   `yaml:"success" json:"success"`
	Message  string `yaml:"message" json:"message"`
}

type Policy struct {
	PassThreshold int
	Delays        Delays
	// Tiers sorted by MinScore descending.
	Tiers []Tier
}

type yamlPolicy struct {
	PassThreshold *int           `yaml:"pass_threshold"`
	DelaysMS      map[string]int `yaml:"delays_ms"`
	Tiers         []Tier         `yaml:"tiers"`
}

var fallbackPolicy = Policy{
	PassThreshold: 70,
	Delays: Delays{
		CorrectAdvance:   1000 * time.Millisecond,
		IncorrectAdvance: 1500 * time.Millisecond,
		MatchingAdvance:  800 * time.Millisecond,
		FlashcardDismiss: 700 * time.Millisecond,
		FlashcardRetry:   800 * time.Millisecond,
	},
	Tiers: []Tier{
		{Name: "outstanding", MinScore: 90, Success: true, Message: "Outstanding!"},
		{Name: "excellent", MinScore: 80, Success: true, Message: "Excellent work!"},
		{Name: "good", MinScore: 70, Success: true, Message: "Good job!"},
		{Name: "needs_review", MinScore: 0, Success: false, Message: "Keep going. Review and try again."},
	},
}

var (
	defaultPolicyOnce sync.Once
	defaultPolicy     Policy
	defaultPolicyErr  error
)

// DefaultPolicy loads the embedded policy (or QUIZ_POLICY_YAML) once. A broken
// file falls back to the built-in values; the error is kept for the caller to log.
func DefaultPolicy() (Policy, error) {
	defaultPolicyOnce.Do(func() {
		data, err := readPolicy()
		if err == nil {
			defaultPolicy, err = ParsePolicy(data)
		}
		if err != nil {
			defaultPolicy, defaultPolicyErr = fallbackPolicy.clone(), err
		}
	})
	return defaultPolicy.clone(), defaultPolicyErr
}

func readPolicy() ([]byte, error) {
	if path := strings.TrimSpace(os.Getenv(policyPathEnv)); path != "" {
		return os.ReadFile(path)
	}
	return policyFS.ReadFile("policy.yaml")
}

// ParsePolicy reads a policy document; unspecified delays keep their built-in values.
func ParsePolicy(data []byte) (Policy, error) {
	var doc yamlPolicy
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Policy{}, err
	}
	p := fallbackPolicy.clone()
	if doc.PassThreshold != nil {
		if *doc.PassThreshold < 0 || *doc.PassThreshold > 100 {
			return Policy{}, fmt.Errorf("pass_threshold out of range: %d", *doc.PassThreshold)
		}
		p.PassThreshold = *doc.PassThreshold
	}
	for key, ms := range doc.DelaysMS {
		if ms < 0 {
			return Policy{}, fmt.Errorf("delays_ms.%s must be >= 0", key)
		}
		d := time.Duration(ms) * time.Millisecond
		switch key {
		case "correct_advance":
			p.Delays.CorrectAdvance = d
		case "incorrect_advance":
			p.Delays.IncorrectAdvance = d
		case "matching_advance":
			p.Delays.MatchingAdvance = d
		case "flashcard_dismiss":
			p.Delays.FlashcardDismiss = d
		case "flashcard_retry":
			p.Delays.FlashcardRetry = d
		default:
			return Policy{}, fmt.Errorf("unknown delay %q", key)
		}
	}
	if len(doc.Tiers) > 0 {
		p.Tiers = nil
		for _, t := range doc.Tiers {
			if strings.TrimSpace(t.Name) == "" {
				return Policy{}, errors.New("tier without name")
			}
			p.Tiers = append(p.Tiers, t)
		}
		sortTiers(p.Tiers)
	}
	return p, nil
}

// WithTierMessages overrides tier copy by tier name.
func (p Policy) WithTierMessages(messages map[string]string) Policy {
	out := p.clone()
	for i := range out.Tiers {
		if msg, ok := messages[out.Tiers[i].Name]; ok && strings.TrimSpace(msg) != "" {
			out.Tiers[i].Message = msg
		}
	}
	return out
}

func (p Policy) clone() Policy {
	out := p
	out.Tiers = append([]Tier(nil), p.Tiers...)
	return out
}

func sortTiers(tiers []Tier) {
	sort.SliceStable(tiers, func(i, j int) bool { return tiers[i].MinScore > tiers[j].MinScore })
}
