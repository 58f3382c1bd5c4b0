// Package client builds render models for API clients from endpoint descriptions
// and renders them through built-in or user-supplied templates.
package client

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/aymerick/raymond"

	"github.com/teranos/contractor/config"
	"github.com/teranos/contractor/errors"
)

//go:embed templates/*.tmpl
var builtinTemplates embed.FS

// Renderer turns a render model into client source text
type Renderer interface {
	Render(model *Model) (string, error)
}

// TextRenderer renders through a text/template
type TextRenderer struct {
	tmpl *template.Template
}

// Render executes the template against model
func (r *TextRenderer) Render(model *Model) (string, error) {
	var sb strings.Builder
	if err := r.tmpl.Execute(&sb, model); err != nil {
		return "", errors.Wrapf(err, "rendering client %s", model.Name)
	}
	return sb.String(), nil
}

// HandlebarsRenderer renders through a Handlebars template. Model fields are addressed by
// their Go names, e.g. {{#each Endpoints}}{{Name}}{{/each}}; use triple braces to skip escaping.
type HandlebarsRenderer struct {
	tmpl *raymond.Template
}

// Render executes the template against model
func (r *HandlebarsRenderer) Render(model *Model) (string, error) {
	out, err := r.tmpl.Exec(*model)
	if err != nil {
		return "", errors.Wrapf(err, "rendering client %s", model.Name)
	}
	return out, nil
}

// SelectRenderer returns the built-in renderer called name, or loads a template file:
// ".hbs" and ".handlebars" files are Handlebars, anything else is a text/template.
// Every failure is a configuration error so that it surfaces before any file is written.
func SelectRenderer(name string) (Renderer, error) {
	if name == "" {
		name = config.TemplateAurelia
	}

	if config.IsBuiltinTemplate(name) {
		text, err := builtinTemplates.ReadFile("templates/" + name + ".tmpl")
		if err != nil {
			return nil, errors.NewAssertionErrorWithWrappedErrf(err, "built-in template %s missing", name)
		}
		return parseText(name, string(text))
	}

	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.WithHintf(
			errors.NewConfigurationError("cannot read client template %q: %v", name, err),
			"use %q, %q or the path to a template file", config.TemplateAurelia, config.TemplateReactAxios,
		)
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".hbs", ".handlebars":
		tmpl, err := raymond.Parse(string(text))
		if err != nil {
			return nil, errors.NewConfigurationError("invalid handlebars template %q: %v", name, err)
		}
		return &HandlebarsRenderer{tmpl: tmpl}, nil
	default:
		return parseText(filepath.Base(name), string(text))
	}
}

func parseText(name, text string) (*TextRenderer, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, errors.NewConfigurationError("invalid client template %q: %v", name, err)
	}
	return &TextRenderer{tmpl: tmpl}, nil
}
