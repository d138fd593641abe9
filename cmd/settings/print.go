package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/commhub/community-settings/internal/settings/domain"
	"github.com/commhub/community-settings/internal/settings/service"
)

func note(n *string) string {
	if n == nil {
		return "-"
	}
	return *n
}

func printSession(out io.Writer, s *service.Session) {
	f := s.Form()
	fmt.Fprintf(out, "Project %s\n", s.ProjectID())
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "  name\t%s\n", f.Name)
	fmt.Fprintf(w, "  disabled\t%t\n", f.Disabled)
	fmt.Fprintf(w, "  team\t%s\n", f.Team)
	fmt.Fprintf(w, "  notes\t%s\n", f.Notes)
	w.Flush()

	fmt.Fprintln(out, "\nVariables")
	w = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, v := range s.Variables() {
		mark := ""
		if s.AISuggested(v.ID) {
			mark = "(ai)"
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\n", v.Name, v.Value, mark)
	}
	w.Flush()

	fmt.Fprintln(out, "\nTags")
	w = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, t := range s.Tags() {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n", t.ID, t.Name, t.Keyword, t.Color, note(t.Note))
	}
	w.Flush()

	fmt.Fprintln(out, "\nAI presets")
	w = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, p := range s.Presets() {
		fmt.Fprintf(w, "  %s\t%s\t%s\n", p.ID, p.Name, p.Prompt)
	}
	w.Flush()

	fmt.Fprintln(out, "\nGlobal variables")
	w = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, d := range s.Definitions() {
		value, _ := s.GlobalValue(d.ID)
		fmt.Fprintf(w, "  %s\t%s\t{{%s}}\t%s\t%s\n", d.ID, d.Name, d.PlaceholderKey, value, note(d.Note))
	}
	w.Flush()

	printValidation(out, s)
}

func printValidation(out io.Writer, s *service.Session) {
	errs := s.ValidationErrors()
	if !errs.Any() {
		return
	}
	fmt.Fprintln(out, "\nValidation errors")
	for _, d := range s.Definitions() {
		fe, ok := errs[d.ID]
		if !ok {
			continue
		}
		if fe.Name != "" {
			fmt.Fprintf(out, "  %s name: %s\n", d.ID, fe.Name)
		}
		if fe.Key != "" {
			fmt.Fprintf(out, "  %s placeholder_key: %s\n", d.ID, fe.Key)
		}
	}
}

func printPlan(out io.Writer, p service.Plan) {
	fmt.Fprintf(out, "Plan for %s: %d calls\n", p.ProjectID, p.Calls())
	fmt.Fprintf(out, "  update project %q (variables %q)\n", p.Project.Name, p.Project.Variables)

	for _, id := range p.Tags.DeleteID {
		fmt.Fprintf(out, "  delete tag %s\n", id)
	}
	for _, t := range p.Tags.Create {
		fmt.Fprintf(out, "  create tag %q keyword=%q\n", t.Name, t.Keyword)
	}
	for _, t := range p.Tags.Update {
		fmt.Fprintf(out, "  update tag %s %q keyword=%q\n", t.ID, t.Name, t.Keyword)
	}

	for _, id := range p.Presets.DeleteID {
		fmt.Fprintf(out, "  delete ai preset %s\n", id)
	}
	for _, pr := range p.Presets.Create {
		fmt.Fprintf(out, "  create ai preset %q\n", pr.Name)
	}
	for _, pr := range p.Presets.Update {
		fmt.Fprintf(out, "  update ai preset %s %q\n", pr.ID, pr.Name)
	}

	if p.Definitions != nil {
		fmt.Fprintf(out, "  replace global variables (%d definitions)\n", len(p.Definitions))
		for _, d := range p.Definitions {
			fmt.Fprintf(out, "    %s %q {{%s}}\n", d.ID, d.Name, d.PlaceholderKey)
		}
	}
	if len(p.Values) > 0 {
		fmt.Fprintf(out, "  update %d global variable values\n", len(p.Values))
		for _, v := range p.Values {
			fmt.Fprintf(out, "    %s = %q\n", v.DefinitionID, v.Value)
		}
	}
}

// printFailures lists every failed call of a submit.
func printFailures(out io.Writer, err error) {
	fmt.Fprintln(out, "save failed:")
	for _, e := range failedCalls(err) {
		fmt.Fprintf(out, "  - %v\n", e)
	}
}

func failedCalls(err error) []error {
	multi, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []error{err}
	}
	var out []error
	for _, e := range multi.Unwrap() {
		if e == domain.ErrSubmitFailed {
			continue
		}
		out = append(out, failedCalls(e)...)
	}
	return out
}
