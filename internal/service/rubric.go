package service

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultThreshold = 7.0

type RubricDimension struct {
	Name     string `yaml:"name"`
	Guidance string `yaml:"guidance"`
}

// Rubric is the scoring standard for a whole QA run. When an override
// file is supplied it replaces the built-in rubric entirely, threshold
// included; dimensions are never mixed per entry.
type Rubric struct {
	Threshold  float64           `yaml:"threshold"`
	Dimensions []RubricDimension `yaml:"dimensions"`
}

func DefaultRubric() *Rubric {
	return &Rubric{
		Threshold: DefaultThreshold,
		Dimensions: []RubricDimension{
			{
				Name:     "Hook Strength",
				Guidance: "9-10: immediately stops the scroll with a question, bold claim, or relatable pain point. 4-6: generic opener. 1-3: starts with the company name or a boring statement.",
			},
			{
				Name:     "Local Specificity",
				Guidance: "9-10: mentions the specific city or neighborhood, feels written for this company. 4-6: generic but a city could be swapped in. 1-3: could be any company anywhere.",
			},
			{
				Name:     "Value Delivery",
				Guidance: "9-10: teaches something useful, solves a problem, or entertains. 4-6: mostly promotional with one useful element. 1-3: pure advertisement.",
			},
			{
				Name:     "CTA Clarity",
				Guidance: "9-10: clear, specific action. 4-6: vague (\"Contact us today\"). 1-3: no call to action or a confusing one.",
			},
			{
				Name:     "Platform Fit",
				Guidance: "Facebook: 150-300 words, conversational, 3-5 hashtags. Instagram: 150 words max, strong first line, 5-10 hashtags. Google Business Profile: 150-300 chars, action-oriented, no hashtags.",
			},
			{
				Name:     "Authenticity",
				Guidance: "9-10: sounds like a real local business owner wrote it. 4-6: slightly corporate or templated. 1-3: obviously machine-written, overly polished, generic phrases.",
			},
		},
	}
}

func LoadRubric(path string) (*Rubric, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rubric override: %w", err)
	}

	var r Rubric
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing rubric override: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *Rubric) Validate() error {
	if r.Threshold <= 1 || r.Threshold > 10 {
		return fmt.Errorf("rubric threshold %.1f out of range (1, 10]", r.Threshold)
	}
	if len(r.Dimensions) == 0 {
		return errors.New("rubric has no dimensions")
	}
	for _, d := range r.Dimensions {
		if strings.TrimSpace(d.Name) == "" {
			return errors.New("rubric dimension with empty name")
		}
	}
	return nil
}

// PromptSection renders the rubric the way the scoring prompt expects.
func (r *Rubric) PromptSection() string {
	var b strings.Builder
	for _, d := range r.Dimensions {
		fmt.Fprintf(&b, "## %s (1-10)\n%s\n\n", d.Name, d.Guidance)
	}
	return strings.TrimSpace(b.String())
}
