// Package e2e runs narrated browser scenarios.
//
// A Runner opens a Session against a browser driver and executes an ordered
// chain of steps. Actions (NavTo, Fill, Click) and assertions built with
// Should each append one Step to the session's recording and print one
// narrative line:
//
//	Log in:
//		✓ You navigate to http://localhost/login
//		✓ You insert admin into #user
//		✓ You left click #login
//		⨯ You see #welcome to exist
//
// The first failing step stops the chain. The driver is closed and the
// recording is written to <outputFolder>/<scenario>/e2e2d.json whatever the
// outcome.
//
// Failures are typed: *CompareError (an equality assertion failed) is a
// *ShouldError (any assertion failed), which is a *BaseError. Driver
// failures are *ActionError values wrapping the driver's error. Classify
// maps an error to the most specific FailureKind.
package e2e
