package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/goliatone/go-formsync/pkg/dom"
	"github.com/goliatone/go-formsync/pkg/page"
)

// ErrAborted is returned when the user interrupts a prompt.
var ErrAborted = errors.New("formsync-cli: aborted")

const actionDone = "done"

// Prompter abstracts the terminal so the interactive loop can be tested
// without one.
type Prompter interface {
	Select(ctx context.Context, message string, options []string) (string, error)
	Input(ctx context.Context, message, def string) (string, error)
}

type surveyPrompter struct{}

func newSurveyPrompter() Prompter {
	return surveyPrompter{}
}

func (surveyPrompter) Select(ctx context.Context, message string, options []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Select{Message: message, Options: options, PageSize: 15}
	if err := survey.AskOne(prompt, &out); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (surveyPrompter) Input(ctx context.Context, message, def string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Input{Message: message, Default: def}
	if err := survey.AskOne(prompt, &out); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

// Interactive prompts for actions until the user picks done.
func Interactive(ctx context.Context, p *page.Page, prompter Prompter) error {
	for {
		kind, err := prompter.Select(ctx, "Next action", []string{KindClick, KindInput, KindChange, KindWait, actionDone})
		if err != nil {
			return err
		}
		if kind == actionDone {
			return nil
		}
		action, err := promptAction(ctx, p, prompter, kind)
		if err != nil {
			return err
		}
		if err := action.Apply(p); err != nil {
			return fmt.Errorf("%s: %w", action, err)
		}
	}
}

func promptAction(ctx context.Context, p *page.Page, prompter Prompter, kind string) (Action, error) {
	if kind == KindWait {
		raw, err := prompter.Input(ctx, "Advance time by", "500ms")
		if err != nil {
			return Action{}, err
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Action{}, err
		}
		return Action{Kind: kind, Wait: d}, nil
	}

	targets := candidates(p.Document(), kind)
	if len(targets) == 0 {
		return Action{}, fmt.Errorf("no elements to %s", kind)
	}
	target, err := prompter.Select(ctx, "Element", targets)
	if err != nil {
		return Action{}, err
	}
	action := Action{Kind: kind, Target: target}
	if kind == KindClick {
		return action, nil
	}
	node, err := p.Element(target)
	if err != nil {
		return Action{}, err
	}
	if kind == KindChange && node.IsElement("select") {
		action.Value, err = prompter.Select(ctx, "Option", dom.OptionValues(node))
	} else {
		action.Value, err = prompter.Input(ctx, "Value", dom.Value(node))
	}
	return action, err
}

// candidates lists the ids of elements suited to an action kind.
func candidates(doc *dom.Document, kind string) []string {
	match := dom.ByTag("input", "textarea", "select")
	if kind == KindClick {
		match = dom.ByTag("button", "a")
	}
	var ids []string
	for _, node := range doc.QueryAll(match) {
		if id := node.GetAttr("id"); id != "" && node.GetAttr("type") != "hidden" {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
