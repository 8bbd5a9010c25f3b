package installer

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Step is one named stage of the simulated pipeline. Action, when set, runs
// once the step's simulated duration has elapsed.
type Step struct {
	Name     string                          `yaml:"name"`
	Duration time.Duration                   `yaml:"duration"`
	Weight   float64                         `yaml:"weight"`
	Action   func(ctx context.Context) error `yaml:"-"`
}

// Tag is the snake_case step label attached to the step's logs.
func (s Step) Tag() string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s.Name)), " ", "_")
}

type Pipeline []Step

func DefaultPipeline() Pipeline {
	return Pipeline{
		{Name: "System Check", Duration: 2 * time.Second},
		{Name: "Downloading Tools", Duration: 5 * time.Second},
		{Name: "Installing GUI Applications", Duration: 8 * time.Second},
		{Name: "Installing CLI Tools", Duration: 6 * time.Second},
		{Name: "Installing Packages", Duration: 4 * time.Second},
		{Name: "Configuring Environment", Duration: 3 * time.Second},
		{Name: "Verifying Installation", Duration: 2 * time.Second},
	}
}

type pipelineFile struct {
	Steps []Step `yaml:"steps"`
}

// LoadPipeline reads a YAML pipeline:
//
//	steps:
//	  - name: System Check
//	    duration: 2s
//	    weight: 1
func LoadPipeline(path string) (Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pipeline: %w", err)
	}
	return ParsePipeline(data)
}

func ParsePipeline(data []byte) (Pipeline, error) {
	var f pipelineFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse pipeline: %w", err)
	}
	p := Pipeline(f.Steps)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p Pipeline) Validate() error {
	if len(p) == 0 {
		return fmt.Errorf("pipeline has no steps")
	}
	for i, s := range p {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("step %d: name is required", i)
		}
		if s.Duration < 0 {
			return fmt.Errorf("step %q: negative duration", s.Name)
		}
		if s.Weight < 0 {
			return fmt.Errorf("step %q: negative weight", s.Name)
		}
	}
	return nil
}

// FitsTimeout rejects any step whose simulated duration would reach the
// per-step timeout, since such a step could never complete.
func (p Pipeline) FitsTimeout(timeout time.Duration) error {
	if timeout <= 0 {
		return nil
	}
	for _, s := range p {
		if s.Duration >= timeout {
			return fmt.Errorf("step %q: duration %s reaches step timeout %s", s.Name, s.Duration, timeout)
		}
	}
	return nil
}

// Scaled returns a copy with every duration multiplied by factor.
func (p Pipeline) Scaled(factor float64) Pipeline {
	out := make(Pipeline, len(p))
	for i, s := range p {
		s.Duration = time.Duration(float64(s.Duration) * factor)
		out[i] = s
	}
	return out
}

// bounds returns each step's [start, end) share of the run in percent. Zero
// weights mean equal shares.
func (p Pipeline) bounds() [][2]float64 {
	weights := make([]float64, len(p))
	var total float64
	for i, s := range p {
		weights[i] = s.Weight
		total += s.Weight
	}
	if total == 0 {
		for i := range weights {
			weights[i] = 1
		}
		total = float64(len(p))
	}
	out := make([][2]float64, len(p))
	var acc float64
	for i, w := range weights {
		start := acc
		acc += w
		out[i] = [2]float64{start / total * 100, acc / total * 100}
	}
	out[len(out)-1][1] = 100
	return out
}
