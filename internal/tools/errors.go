// Package tools writes the entrypoint files each AI coding tool loads. Every
// entrypoint points back at the shared rules directory instead of copying
// its content.
package tools

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ai-rules/ai-rules-generator/pkg/models"
)

// ErrUnknownTool is returned for a tool id outside the catalog.
var ErrUnknownTool = errors.New("tools: unknown tool")

// ToolError aggregates every failure for a single tool.
type ToolError struct {
	Tool models.ToolID
	Errs []error
}

func (e *ToolError) Error() string {
	msgs := make([]string, 0, len(e.Errs))
	for _, err := range e.Errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%s: %s", e.Tool, strings.Join(msgs, "; "))
}

func (e *ToolError) Unwrap() []error {
	return e.Errs
}
