// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"

	"github.com/invowk/componentry/internal/discovery"
	"github.com/invowk/componentry/internal/issue"
	"github.com/invowk/componentry/internal/lifecycle"
	"github.com/invowk/componentry/internal/manifest"
	"github.com/invowk/componentry/pkg/component"
)

// classifyLoadError maps discovery, initializer and hook failures to issue
// catalog IDs. Zero means no catalog entry applies.
func classifyLoadError(err error) issue.Id {
	var hookErr *lifecycle.HookError
	switch {
	case errors.Is(err, component.ErrComponentNotFound):
		return issue.ComponentNotFoundId
	case errors.Is(err, component.ErrMalformedInitializer):
		return issue.MalformedInitializerId
	case errors.Is(err, component.ErrNameCollision):
		return issue.NameCollisionId
	case errors.Is(err, discovery.ErrRootNotDirectory):
		return issue.ComponentsDirMissingId
	case errors.Is(err, manifest.ErrParse),
		errors.Is(err, manifest.ErrInvalidManifest),
		errors.Is(err, manifest.ErrUnsupportedFormat):
		return issue.InitializerParseErrorId
	case errors.As(err, &hookErr):
		return issue.HookFailedId
	default:
		return 0
	}
}

// loadError wraps err in an ActionableError for op, linked to the matching
// catalog entry. ActionableErrors pass through unchanged.
func loadError(op string, err error) error {
	var ae *issue.ActionableError
	if err == nil || errors.As(err, &ae) {
		return err
	}

	ctx := issue.NewErrorContext().WithOperation(op).Wrap(err)
	id := classifyLoadError(err)
	switch id {
	case issue.HookFailedId:
		ctx.WithSuggestion("Run again with --verbose to see which component failed")
	case issue.MalformedInitializerId:
		ctx.WithSuggestion("Register the handle named by the initializer, or remove its initializer field")
	case issue.NameCollisionId:
		ctx.WithSuggestion("Rename one of the directories; '_' and '-' both map to a word break")
	case issue.InitializerParseErrorId:
		ctx.WithSuggestion("Check the initializer resource against the documented fields")
	case issue.ComponentsDirMissingId:
		ctx.WithSuggestion("Point components_dir in componentry.cue at a directory")
	}
	if id != 0 {
		ctx.WithIssue(id)
	}
	return ctx.BuildError()
}
