// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"

	"github.com/charmbracelet/glamour"
)

// Id identifies a catalog entry.
type Id int

const (
	ComponentNotFoundId Id = iota + 1
	MalformedInitializerId
	NameCollisionId
	ComponentsDirMissingId
	ConfigLoadFailedId
	InitializerParseErrorId
	HookFailedId
)

type (
	// MarkdownMsg is guidance text rendered with glamour.
	MarkdownMsg string

	// Issue is one catalog entry.
	Issue struct {
		id    Id
		mdMsg MarkdownMsg
	}
)

// render is swapped out in tests.
var render = glamour.Render

// Id returns the entry id.
func (i *Issue) Id() Id {
	return i.id
}

// MarkdownMsg returns the raw guidance.
func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Render renders the guidance with the given glamour style ("dark", "light", "notty", ...).
func (i *Issue) Render(style string) (string, error) {
	return render(string(i.mdMsg), style)
}

var (
	componentNotFoundIssue = &Issue{
		id: ComponentNotFoundId,
		mdMsg: `
# Component not found!

No directory under the components root maps to the requested name.

## Things you can try:
- List the discovered components:
~~~
$ componentry list
~~~
- Names are derived from directory names: ` + "`tax_reports`" + ` becomes ` + "`TaxReports`" + `,
  and ` + "`clients/_components/billing`" + ` becomes ` + "`Clients::Billing`" + `.`,
	}

	malformedInitializerIssue = &Issue{
		id: MalformedInitializerId,
		mdMsg: `
# Initializer does not resolve to a handle!

The component has an initializer resource, but the handle it names is not
registered by the application.

## Things you can try:
- Register the handle from Go, usually in an init function:
~~~go
func init() {
	component.MustRegister("Clients::Initializer", &clients.Initializer{})
}
~~~
- Or name an existing handle in the resource:
~~~cue
initializer: "Clients::Initializer"
~~~`,
	}

	nameCollisionIssue = &Issue{
		id: NameCollisionId,
		mdMsg: `
# Two components share a name!

Two directories produce the same component name, for example ` + "`tax_reports`" + ` and
` + "`tax-reports`" + `. Rename one of them.`,
	}

	componentsDirMissingIssue = &Issue{
		id: ComponentsDirMissingId,
		mdMsg: `
# Components root is not a directory!

## Things you can try:
- Check ` + "`components_dir`" + ` in componentry.cue
- Run from the application root, or pass ` + "`--root`" + ``,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

## Things you can try:
- Validate the file against the schema shown by:
~~~
$ componentry config show
~~~
- Create a fresh file:
~~~
$ componentry config init
~~~`,
	}

	initializerParseErrorIssue = &Issue{
		id: InitializerParseErrorId,
		mdMsg: `
# Failed to parse an initializer resource!

Initializer resources are ` + "`component.cue`" + `, ` + "`component.toml`" + ` or ` + "`component.yaml`" + `.

## Example:
~~~cue
initializer: "Clients::Initializer"
version:     "v1.2.0"
reload:      true
paths: migrations: ["db/migrate"]
~~~`,
	}

	hookFailedIssue = &Issue{
		id: HookFailedId,
		mdMsg: `
# A component hook failed!

Startup stops at the first failing init or ready hook. Fix the component
named in the error and start again.`,
	}

	issues = map[Id]*Issue{
		componentNotFoundIssue.Id():     componentNotFoundIssue,
		malformedInitializerIssue.Id():  malformedInitializerIssue,
		nameCollisionIssue.Id():         nameCollisionIssue,
		componentsDirMissingIssue.Id():  componentsDirMissingIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		initializerParseErrorIssue.Id(): initializerParseErrorIssue,
		hookFailedIssue.Id():            hookFailedIssue,
	}
)

// Values returns every entry ordered by id.
func Values() []*Issue {
	ids := slices.Sorted(maps.Keys(issues))
	out := make([]*Issue, 0, len(ids))
	for _, id := range ids {
		out = append(out, issues[id])
	}
	return out
}

// Get returns the entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
