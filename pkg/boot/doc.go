// SPDX-License-Identifier: MPL-2.0

// Package boot discovers the components of an application and runs their
// lifecycle hooks.
//
// A Loader owns everything that would otherwise be process-wide state: the
// cached scan, the namespace tree, the resolved handles, the dispatcher and
// the reload latch. Create one per application and hand it to the host with
// Install:
//
//	loader := boot.New(boot.Options{Root: "components", Dev: true})
//	app := host.NewApplication(".")
//	if err := loader.Install(app); err != nil {
//		return err
//	}
//	return app.Boot(ctx)
package boot
