// Copyright (c) 2025 Martedit
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"martedit/cli/internal/config"
	"martedit/cli/internal/llm"
	"martedit/cli/internal/logging"
	"martedit/cli/internal/pipeline"
	"martedit/cli/internal/terminal"
	"martedit/cli/internal/xdg"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	editPlan    bool
	editYes     bool
	editRoot    string
	verboseEdit bool
)

// editCmd represents the edit command, the main entry point for applying a
// natural-language change to one mart SQL file. The request is routed to a
// catalog member, the mart's SQL is regenerated and validated, and the file
// is overwritten only when everything passed.
var editCmd = &cobra.Command{
	Use:   "edit [request...]",
	Short: "Apply a natural-language change to one mart SQL file",
	Long: `The edit command takes a plain-language change request, either as arguments
or interactively, and applies it to exactly one mart SQL file. The model
chooses the target mart from the catalog, rewrites its SQL, and the result
is checked against the query policy before the file is overwritten.

With --plan, a change plan is shown for confirmation before any SQL is
generated. A request that fails routing, generation, or validation leaves
every file untouched.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		// Enable verbose mode for all modules if --verbose is set
		if verboseEdit {
			os.Setenv("MARTEDIT_VERBOSE", "1")
		}

		request := strings.TrimSpace(strings.Join(args, " "))
		if request == "" {
			request = promptForRequest()
		}
		if request == "" {
			return errors.New("empty request; describe the change you want")
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		apiKey, err := llm.ResolveAPIKey()
		if err != nil {
			return err
		}
		client := llm.NewGemini(llm.GeminiConfig{
			APIKey:          apiKey,
			Model:           cfg.Model.Name,
			Temperature:     cfg.Model.Temperature,
			MaxOutputTokens: cfg.Model.MaxOutputTokens,
			Timeout:         time.Duration(cfg.Model.TimeoutSeconds) * time.Second,
		})

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
		defer cancel()

		pterm.Println()
		pterm.Println(pterm.NewStyle(pterm.FgLightCyan).Sprint("→ Model:   ") + pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint(cfg.Model.Name))
		pterm.Println(pterm.NewStyle(pterm.FgLightCyan).Sprint("→ Request: ") + pterm.NewStyle(pterm.FgLightBlue).Sprint(request))
		pterm.Println()

		render := &stageRenderer{}
		defer render.end()

		opts := pipeline.Options{
			Root:            editRoot,
			MaxEditAttempts: cfg.EditRetries,
			Observer:        render.observe,
		}
		if editPlan {
			opts.Planner = func(plan string) (bool, error) {
				render.end()
				pterm.DefaultBox.WithTitle("Change plan").Println(plan)
				if editYes {
					return true, nil
				}
				return confirm("Apply this change? [y/N]: "), nil
			}
		}

		res, err := pipeline.Run(ctx, client, request, opts)
		render.end()
		if errors.Is(err, pipeline.ErrPlanRejected) {
			pterm.Println("Aborted; nothing was written.")
			return nil
		}
		if err != nil {
			pterm.Printf("❌ Edit failed\n")
			pterm.Println(logging.PresentError("", err))
			return err
		}

		pterm.Println("✅ Updated " + pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint(res.Entry.Path))
		pterm.DefaultBox.WithTitle(res.Entry.Path).Println(strings.TrimRight(res.SQL, "\n"))
		appendAuditLog(res.Entry.Path, request)
		return nil
	},
}

// appendAuditLog records an applied edit in the state dir. Best effort;
// a failing log never fails the edit that already happened.
func appendAuditLog(martPath, request string) {
	dir, err := xdg.StateDir()
	if err != nil {
		return
	}
	f, err := os.OpenFile(filepath.Join(dir, "edits.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return
	}
	defer f.Close()
	fmt.Fprintf(f, "%s\t%s\t%s\n", time.Now().Format(time.RFC3339), martPath, request)
}

// promptForRequest reads a change request interactively and cleans the
// prompt from the terminal afterwards.
func promptForRequest() string {
	reader := bufio.NewReader(os.Stdin)
	promptText := "Describe the change (e.g., add a margin column to the revenue mart): "
	fmt.Print(promptText)
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	terminal.ClearPreviousLines(len(promptText) + len(line))
	return line
}

// confirm asks a yes/no question and reports whether the answer was yes.
func confirm(question string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print(question)
	line, _ := reader.ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// stageRenderer turns pipeline events into spinner lines and status output.
// Exactly one spinner runs at a time; every stage transition stops the
// previous one first.
type stageRenderer struct {
	stop func()
}

func (r *stageRenderer) begin(text string) {
	r.end()
	r.stop = startInlineSpinner(os.Stdout, text, []string{"|", "/", "-", "\\"}, 120*time.Millisecond)
}

func (r *stageRenderer) end() {
	if r.stop != nil {
		r.stop()
		r.stop = nil
	}
}

func (r *stageRenderer) observe(ev pipeline.Event) {
	switch ev.Stage {
	case pipeline.StageRouting:
		if ev.Detail == "" {
			r.begin("Routing request")
			return
		}
		r.end()
		pterm.Println(pterm.NewStyle(pterm.FgLightCyan).Sprint("→ Mart:    ") + pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint(ev.Detail))
	case pipeline.StagePlanning:
		r.begin("Drafting change plan")
	case pipeline.StageEditing:
		if ev.Detail == "" {
			r.begin("Generating SQL")
			return
		}
		// Attempt details carry violations after a colon; a bare
		// "attempt N" means the attempt passed.
		if strings.Contains(ev.Detail, ":") {
			r.end()
			pterm.Println(pterm.NewStyle(pterm.FgYellow).Sprint("⚠ rejected " + ev.Detail))
			r.begin("Repairing SQL")
		}
	case pipeline.StageValidating:
		r.begin("Validating SQL")
	case pipeline.StageWriting:
		r.begin("Writing " + ev.Detail)
	case pipeline.StageDone:
		r.end()
	}
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().BoolVar(&editPlan, "plan", false, "Show a change plan and confirm before generating SQL")
	editCmd.Flags().BoolVar(&editYes, "yes", false, "Skip the plan confirmation prompt")
	editCmd.Flags().StringVar(&editRoot, "root", ".", "Directory holding marts.json and the mart SQL files")
	editCmd.Flags().BoolVar(&verboseEdit, "verbose", false, "Enable verbose debug output")
}
