package planner

import (
	"bytes"
	_ "embed"
	"io"
	"os"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/travai"
	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var defaultPromptsYAML []byte

// PromptSpec is the raw system and user template of one producer.
type PromptSpec struct {
	System string `yaml:"system"`
	User   string `yaml:"user"`
}

// Prompts holds the parsed templates of every producer.
type Prompts struct {
	system [len(travai.Producers)]*template.Template
	user   [len(travai.Producers)]*template.Template
}

type promptData struct {
	Origin      string
	Destination string
	StartDate   string
	EndDate     string
	Nights      int
	Budget      float64
}

// DefaultPrompts returns the embedded prompt set.
func DefaultPrompts() *Prompts {
	p, err := ParsePrompts(bytes.NewReader(defaultPromptsYAML))
	if err != nil {
		panic("embedded prompts.yaml is broken: " + err.Error())
	}
	return p
}

// LoadPrompts reads a prompt set from a YAML file with the same layout as the
// embedded prompts.yaml.
func LoadPrompts(path string) (*Prompts, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open prompts file", goerr.V("path", path))
	}
	defer func() { _ = f.Close() }()

	p, err := ParsePrompts(f)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load prompts file", goerr.V("path", path))
	}
	return p, nil
}

// ParsePrompts parses a YAML prompt set. Every producer needs a non-empty user template.
func ParsePrompts(r io.Reader) (*Prompts, error) {
	var raw map[string]PromptSpec
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, goerr.Wrap(err, "failed to decode prompts")
	}

	prompts := &Prompts{}
	for _, p := range travai.Producers {
		spec, ok := raw[p.String()]
		if !ok || spec.User == "" {
			return nil, goerr.New("prompt is missing", goerr.V("producer", p.String()))
		}

		sys, err := template.New(p.String() + ".system").Option("missingkey=error").Parse(spec.System)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to parse system prompt", goerr.V("producer", p.String()))
		}
		user, err := template.New(p.String() + ".user").Option("missingkey=error").Parse(spec.User)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to parse user prompt", goerr.V("producer", p.String()))
		}

		prompts.system[p] = sys
		prompts.user[p] = user
	}

	return prompts, nil
}

// Render returns the system and user prompt of producer p for req.
func (x *Prompts) Render(p travai.Producer, req *travai.TripRequest) (string, string, error) {
	data := promptData{
		Origin:      req.Origin(),
		Destination: req.Destination(),
		StartDate:   req.StartDate().Format(travai.DateLayout),
		EndDate:     req.EndDate().Format(travai.DateLayout),
		Nights:      req.Nights(),
		Budget:      req.Budget(),
	}

	var sys, user bytes.Buffer
	if err := x.system[p].Execute(&sys, data); err != nil {
		return "", "", goerr.Wrap(err, "failed to render system prompt", goerr.V("producer", p.String()))
	}
	if err := x.user[p].Execute(&user, data); err != nil {
		return "", "", goerr.Wrap(err, "failed to render user prompt", goerr.V("producer", p.String()))
	}
	return sys.String(), user.String(), nil
}
