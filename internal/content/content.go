// Package content holds the static copy rendered on the page: profile,
// about text, skills and projects.
package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"

	"github.com/Zachkp/devfolio/internal/typewriter"
)

//go:embed site.yaml
var defaultSite []byte

type Link struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

type Profile struct {
	Name     string   `yaml:"name"`
	Greeting string   `yaml:"greeting"`
	Roles    []string `yaml:"roles"`
	Email    string   `yaml:"email"`
	Location string   `yaml:"location"`
	Socials  []Link   `yaml:"socials"`
}

// CodeLine is one syntax-highlighted line of the hero code card.
type CodeLine struct {
	Keyword     string `yaml:"keyword"`
	Variable    string `yaml:"variable"`
	Operator    string `yaml:"operator"`
	String      string `yaml:"string"`
	Punctuation string `yaml:"punctuation"`
}

type Highlight struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
}

type Skill struct {
	Name  string `yaml:"name"`
	Level int    `yaml:"level"`
}

type SkillCategory struct {
	Title  string  `yaml:"title"`
	Skills []Skill `yaml:"skills"`
}

type Project struct {
	Title        string   `yaml:"title"`
	Description  string   `yaml:"description"`
	Technologies []string `yaml:"technologies"`
	GitHub       string   `yaml:"github"`
	Demo         string   `yaml:"demo,omitempty"`
}

// Site is everything the page renders. Treat it as read-only once loaded.
type Site struct {
	Profile    Profile         `yaml:"profile"`
	About      string          `yaml:"about"`
	Tagline    string          `yaml:"tagline"`
	Intro      string          `yaml:"contact_intro"`
	CodeLines  []CodeLine      `yaml:"code_lines"`
	Highlights []Highlight     `yaml:"highlights"`
	Skills     []SkillCategory `yaml:"skills"`
	Projects   []Project       `yaml:"projects"`

	AboutHTML template.HTML `yaml:"-"`
	roles     typewriter.RoleSequence
}

// Load reads the site from path, or the built-in copy when path is empty.
func Load(path string) (*Site, error) {
	raw := defaultSite
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read content %s: %w", path, err)
		}
		raw = b
	}
	return Parse(raw)
}

// Parse decodes, validates and renders a site document.
func Parse(raw []byte) (*Site, error) {
	var s Site
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	if s.About == "" {
		s.About = AboutMe
	}
	if s.Tagline == "" {
		s.Tagline = HeroTagline
	}
	if s.Intro == "" {
		s.Intro = ContactIntro
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	roles, err := typewriter.NewRoleSequence(s.Profile.Roles...)
	if err != nil {
		return nil, fmt.Errorf("content roles: %w", err)
	}
	s.roles = roles

	html, err := RenderMarkdown(s.About)
	if err != nil {
		return nil, fmt.Errorf("render about: %w", err)
	}
	s.AboutHTML = html
	return &s, nil
}

// Roles is the headline sequence for the hero typewriter.
func (s *Site) Roles() typewriter.RoleSequence { return s.roles }

// Validate reports every problem found in the site, joined.
func (s *Site) Validate() error {
	var errs []error
	if strings.TrimSpace(s.Profile.Name) == "" {
		errs = append(errs, errors.New("profile.name is required"))
	}
	if len(s.Profile.Roles) == 0 {
		errs = append(errs, errors.New("profile.roles needs at least one role"))
	}
	for _, c := range s.Skills {
		for _, sk := range c.Skills {
			if sk.Level < 0 || sk.Level > 100 {
				errs = append(errs, fmt.Errorf("skill %s/%s: level %d outside 0..100", c.Title, sk.Name, sk.Level))
			}
		}
	}
	for i, p := range s.Projects {
		if strings.TrimSpace(p.Title) == "" {
			errs = append(errs, fmt.Errorf("projects[%d]: title is required", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid content: %w", errors.Join(errs...))
	}
	return nil
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// RenderMarkdown converts trusted markdown copy into HTML.
func RenderMarkdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(dedent(src)), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// dedent strips the leading tabs raw string literals pick up from
// source indentation.
func dedent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimLeft(l, "\t")
	}
	return strings.Join(lines, "\n")
}
