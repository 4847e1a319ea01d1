// Package intercept logs calls to selected members of an object, or to a
// single function, without touching the business code.
//
// # Overview
//
// A Wrapper is built once from a process-wide Config. Wrap replaces the
// selected members of an Object with interceptors; WrapFunc does the same for
// one Callable. Each intercepted call may log its params before running, then
// logs its result or its error. The original arguments, results and errors
// pass through unchanged.
//
//	w, err := intercept.New(intercept.Config{
//	    AppName: "billing",
//	    Options: intercept.Options{
//	        ParamsLevel: intercept.Static(intercept.LevelDebug),
//	        LogErrors:   intercept.LogErrors{Deepest: intercept.Bool(true)},
//	    },
//	})
//	if err != nil {
//	    return err
//	}
//
//	svc, err := intercept.Bind(&Accounts{})
//	if err != nil {
//	    return err
//	}
//	if _, err := w.Wrap(svc, &intercept.Options{Exclude: []string{"Close"}}); err != nil {
//	    return err
//	}
//	res, err := svc.Call(ctx, "Open", "alice")
//
// # Levels and sanitizers
//
// Levels are static or computed per event by a function (LevelSpec).
// Sanitizers turn params, results, errors and an optional context value into
// strings before they reach the Logger. Failures in either never reach the
// caller; they go to Config.Fallback and the event is still logged.
//
// Inspect is the default. Redact masks a regular expression, Scrub masks
// common credential shapes, and Gitleaks runs the full Gitleaks rule set.
// Chain combines them.
//
// # Deepest errors
//
// With LogErrors.Deepest set, an error that propagates through several
// intercepted calls is logged once, by the innermost one. Nesting is tracked
// through the context.Context each intercepted call passes to the original,
// so business code must pass the ctx it receives on to the calls it makes.
//
// # Asynchronous results
//
// A Callable may return a *Future. The interceptor returns that same future
// at once and logs the outcome when it settles, before any Await returns.
package intercept
