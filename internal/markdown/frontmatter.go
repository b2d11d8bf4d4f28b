package markdown

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// FileMeta is the YAML frontmatter carried by importable markdown files.
// Path addresses the document inside the project tree.
type FileMeta struct {
	Path     string `yaml:"path"`
	Title    string `yaml:"title"`
	IsFolder bool   `yaml:"folder"`
	Message  string `yaml:"message"`
}

// ParseFrontmatter splits a file into its YAML frontmatter and markdown
// body. Expected format:
//
//	---
//	path: guides/intro
//	title: Introduction
//	---
//	# Body starts here
func ParseFrontmatter(content []byte) (*FileMeta, string, error) {
	if !bytes.HasPrefix(content, []byte("---\n")) && !bytes.HasPrefix(content, []byte("---\r\n")) {
		return nil, "", errors.New("missing frontmatter: file must start with '---'")
	}

	lines := bytes.Split(content, []byte("\n"))

	closing := 0
	for i := 1; i < len(lines); i++ {
		if bytes.Equal(bytes.TrimSpace(lines[i]), []byte("---")) {
			closing = i
			break
		}
	}
	if closing == 0 {
		return nil, "", errors.New("missing closing frontmatter delimiter '---'")
	}

	var meta FileMeta
	if err := yaml.Unmarshal(bytes.Join(lines[1:closing], []byte("\n")), &meta); err != nil {
		return nil, "", fmt.Errorf("parse frontmatter: %w", err)
	}
	if meta.Path == "" {
		return nil, "", errors.New("frontmatter is missing required field 'path'")
	}
	if meta.Title == "" {
		return nil, "", errors.New("frontmatter is missing required field 'title'")
	}

	body := string(bytes.Join(lines[closing+1:], []byte("\n")))
	return &meta, body, nil
}
