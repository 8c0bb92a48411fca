package template

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontmatterFence = "---"

// Frontmatter is the YAML header Cursor reads from .mdc rule files. The
// embedded fragments carry the same header.
type Frontmatter struct {
	Description string `yaml:"description"`
	Globs       string `yaml:"globs,omitempty"`
	AlwaysApply bool   `yaml:"alwaysApply"`
}

// MarshalFrontmatter renders fm between --- fences, ending with a newline.
func MarshalFrontmatter(fm Frontmatter) (string, error) {
	var buf bytes.Buffer
	buf.WriteString(frontmatterFence + "\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return "", fmt.Errorf("encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode frontmatter: %w", err)
	}

	buf.WriteString(frontmatterFence + "\n")
	return buf.String(), nil
}

// SplitFrontmatter separates a leading YAML block from the body. Content
// without a frontmatter block is returned unchanged with a zero Frontmatter.
func SplitFrontmatter(content string) (Frontmatter, string, error) {
	var fm Frontmatter

	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	lines := strings.Split(normalized, "\n")
	if len(lines) == 0 || lines[0] != frontmatterFence {
		return fm, normalized, nil
	}

	closing := -1
	for i := 1; i < len(lines); i++ {
		if lines[i] == frontmatterFence {
			closing = i
			break
		}
	}
	if closing < 0 {
		return fm, normalized, fmt.Errorf("%w: unterminated block", ErrInvalidFrontmatter)
	}

	header := strings.Join(lines[1:closing], "\n")
	if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
		return Frontmatter{}, normalized, fmt.Errorf("%w: %v", ErrInvalidFrontmatter, err)
	}
	return fm, strings.Join(lines[closing+1:], "\n"), nil
}

// ExtractRuleContent strips the frontmatter and the first level-one heading,
// returning the heading text separately. The body is trimmed of surrounding
// blank lines.
func ExtractRuleContent(content string) (title, body string) {
	_, body, err := SplitFrontmatter(content)
	if err != nil {
		body = content
	}

	lines := strings.Split(body, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "# ") {
			title = strings.TrimSpace(strings.TrimPrefix(trimmed, "# "))
			lines = lines[i+1:]
		}
		break
	}
	return title, strings.Trim(strings.Join(lines, "\n"), "\n")
}
