// Copyright (c) 2025 Martedit
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package pipeline runs a single edit request end to end: route the request
// to one mart, regenerate its SQL, re-check the result and overwrite the
// file. Stages run strictly in order and the first failure stops the run;
// the target file is only written after the candidate passed validation, so
// a failed run never changes the catalog.
package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"

	"martedit/cli/internal/editor"
	apperrors "martedit/cli/internal/errors"
	"martedit/cli/internal/llm"
	"martedit/cli/internal/logging"
	"martedit/cli/internal/martmeta"
	"martedit/cli/internal/policy"
	"martedit/cli/internal/router"
)

// Stage names one phase of a run, in execution order.
type Stage string

const (
	StageRouting    Stage = "routing"
	StagePlanning   Stage = "planning"
	StageEditing    Stage = "editing"
	StageValidating Stage = "validating"
	StageWriting    Stage = "writing"
	StageDone       Stage = "done"
)

// Event reports stage-level progress to an observer.
type Event struct {
	Stage Stage
	// Detail is a short human line, e.g. the chosen mart path or the
	// violations of a rejected attempt.
	Detail string
}

// Observer receives progress events. May be nil.
type Observer func(Event)

// Options configures a run.
type Options struct {
	// Root is the directory holding the mart catalog and SQL files.
	Root string
	// MaxEditAttempts bounds the edit loop; 0 means the editor default.
	MaxEditAttempts int
	Observer        Observer
	// Planner, when set, is shown a model-written change plan after routing
	// and before any SQL is generated. Returning false aborts the run with
	// ErrPlanRejected; nothing is written.
	Planner func(plan string) (bool, error)
}

// ErrPlanRejected is returned when the Planner callback declines the plan.
var ErrPlanRejected = stderrors.New("change plan rejected")

// Failure wraps the underlying error with the stage it occurred in.
type Failure struct {
	Stage Stage
	Err   error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Stage, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Result is a successful run: the mart that was edited and the SQL that
// now lives in its file.
type Result struct {
	Entry martmeta.Entry
	SQL   string
}

// Run executes the request against the catalog under opts.Root.
// On failure it returns a *Failure naming the stage that broke; the
// underlying error keeps its kind, so callers can still classify it.
func Run(ctx context.Context, client llm.Client, request string, opts Options) (Result, error) {
	reg, err := martmeta.Get(opts.Root)
	if err != nil {
		return Result{}, fail(StageRouting, err)
	}

	notify(opts.Observer, Event{Stage: StageRouting})
	entry, err := route(ctx, client, reg, request)
	if err != nil {
		return Result{}, fail(StageRouting, err)
	}
	notify(opts.Observer, Event{Stage: StageRouting, Detail: entry.Path})

	target := filepath.Join(opts.Root, entry.Path)
	current, err := os.ReadFile(target)
	if err != nil {
		return Result{}, fail(StageEditing,
			apperrors.Wrap(apperrors.StartupFault, "read mart file "+entry.Path, err))
	}

	if opts.Planner != nil {
		notify(opts.Observer, Event{Stage: StagePlanning})
		plan, err := editor.Plan(ctx, client, entry, request, string(current))
		if err != nil {
			return Result{}, fail(StagePlanning, err)
		}
		ok, err := opts.Planner(plan)
		if err != nil {
			return Result{}, fail(StagePlanning, err)
		}
		if !ok {
			return Result{}, fail(StagePlanning, ErrPlanRejected)
		}
	}

	notify(opts.Observer, Event{Stage: StageEditing})
	candidate, err := editor.Edit(ctx, client, entry, request, string(current),
		opts.MaxEditAttempts, editObserver(opts.Observer))
	if err != nil {
		return Result{}, fail(StageEditing, err)
	}

	// The editor already validated the candidate; re-checking here keeps
	// the write gated on a verdict computed in this stage, not on the
	// editor's internal state.
	notify(opts.Observer, Event{Stage: StageValidating})
	if verdict := policy.Validate(candidate); !verdict.OK {
		return Result{}, fail(StageValidating,
			apperrors.New(apperrors.PolicyViolation, verdict.Describe()))
	}

	notify(opts.Observer, Event{Stage: StageWriting, Detail: entry.Path})
	if err := writeMart(target, candidate); err != nil {
		return Result{}, fail(StageWriting, err)
	}

	logging.Debugf("pipeline: wrote %d bytes to %s", len(candidate), entry.Path)
	notify(opts.Observer, Event{Stage: StageDone, Detail: entry.Path})
	return Result{Entry: entry, SQL: candidate}, nil
}

// route performs the routing call, allowing one amended re-invoke when the
// model's first choice was not a catalog member.
func route(ctx context.Context, client llm.Client, reg *martmeta.Registry, request string) (martmeta.Entry, error) {
	entry, chosen, err := router.Route(ctx, client, reg, request, "")
	if err == nil {
		return entry, nil
	}
	if !apperrors.IsKind(err, apperrors.RoutingFailure) || chosen == "" {
		return martmeta.Entry{}, err
	}

	logging.Debugf("pipeline: re-routing after rejected choice %q", logging.Mask(chosen))
	entry, _, err = router.Route(ctx, client, reg, request, chosen)
	return entry, err
}

func writeMart(target, sql string) error {
	info, err := os.Stat(target)
	mode := os.FileMode(0o644)
	if err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(target, []byte(sql), mode); err != nil {
		return apperrors.Wrap(apperrors.WriteFailed, "write mart file", err)
	}
	return nil
}

// editObserver bridges editor attempt events onto the pipeline observer.
func editObserver(obs Observer) editor.Observer {
	if obs == nil {
		return nil
	}
	return func(a editor.Attempt) {
		detail := fmt.Sprintf("attempt %d", a.Number)
		if a.Violations != "" {
			detail += ": " + a.Violations
		}
		notify(obs, Event{Stage: StageEditing, Detail: detail})
	}
}

func fail(stage Stage, err error) error {
	return &Failure{Stage: stage, Err: err}
}

func notify(obs Observer, ev Event) {
	if obs != nil {
		obs(ev)
	}
}
