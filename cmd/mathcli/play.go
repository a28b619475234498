package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/math-practice/backend/internal/client"
	"github.com/math-practice/backend/internal/generator"
	"github.com/math-practice/backend/internal/tutor"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start an interactive practice session",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := openSession(cmd)
		if err != nil {
			return err
		}
		p := newPlayer(session, cmd.InOrStdin(), cmd.OutOrStdout())
		return p.run(cmd.Context())
	},
}

// player is the interactive loop over a client.Session.
type player struct {
	session *client.Session
	in      *bufio.Scanner
	out     io.Writer
	now     func() time.Time
}

func newPlayer(session *client.Session, in io.Reader, out io.Writer) *player {
	return &player{
		session: session,
		in:      bufio.NewScanner(in),
		out:     out,
		now:     time.Now,
	}
}

func (p *player) println(s string) {
	fmt.Fprintln(p.out, s)
}

// readLine returns false on EOF.
func (p *player) readLine(prompt string) (string, bool) {
	fmt.Fprint(p.out, prompt)
	if !p.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(p.in.Text()), true
}

func (p *player) run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if p.session.State() == client.StateNoName {
		if !p.askName() {
			return nil
		}
	}

	progress := p.session.Progress()
	if !progress.TutorialSeen {
		p.showTutorial()
		if err := p.session.MarkTutorialSeen(); err != nil {
			return err
		}
	}

	p.println(ottoStyle.Render("Otto: " + tutor.Greeting(progress.UserName, p.now())))
	p.println(dimStyle.Render(fmt.Sprintf("Score %d  Streak %d  Difficulty %s  Type %s",
		progress.Score, progress.Streak, progress.Difficulty, progress.ProblemType)))

	if err := p.newProblem(ctx); err != nil {
		p.println(errorStyle.Render(err.Error()))
	}

	for {
		line, ok := p.readLine(p.prompt())
		if !ok {
			return nil
		}

		switch strings.ToLower(line) {
		case "":
			continue
		case "q", "quit", "exit":
			p.println(ottoStyle.Render("Otto: See you next time!"))
			return nil
		case "n", "new", "next":
			if err := p.newProblem(ctx); err != nil {
				p.println(errorStyle.Render(err.Error()))
			}
		case "h", "hint":
			p.toggleHint()
		case "s", "solution":
			p.toggleSolution()
		default:
			p.submit(ctx, line)
		}
	}
}

func (p *player) prompt() string {
	switch p.session.State() {
	case client.StateProblemActive:
		return "Answer (or h=hint, s=solution, n=new, q=quit): "
	default:
		return "n=new problem, q=quit: "
	}
}

func (p *player) askName() bool {
	p.println(ottoStyle.Render("Otto: Hi! I'm Otto the Octopus, your math tutor. What should I call you?"))
	for {
		name, ok := p.readLine("Your name: ")
		if !ok {
			return false
		}
		if err := p.session.SetName(name); err == nil {
			return true
		}
		p.println(errorStyle.Render("Please type a name."))
	}
}

func (p *player) showTutorial() {
	steps := []string{
		"1. Type n to get a new word problem.",
		"2. Type your answer as a number (decimals like 12.5 are fine).",
		"3. Stuck? Type h for a hint or s to see the solution steps.",
		"4. Each correct answer is worth 10 points and grows your streak.",
		"5. Change difficulty with: mathcli settings --difficulty hard --type division",
	}
	p.println(cardStyle.Render(titleStyle.Render("How it works") + "\n" + strings.Join(steps, "\n")))
}

func (p *player) newProblem(ctx context.Context) error {
	p.println(dimStyle.Render("Otto is thinking of a problem..."))
	if err := p.session.NewProblem(ctx); err != nil {
		return describeError("Couldn't get a new problem", err)
	}

	a := p.session.Active()
	p.println(cardStyle.Render(titleStyle.Render("Problem") + "\n" + a.ProblemText))
	return nil
}

func (p *player) toggleHint() {
	show, err := p.session.ToggleHint()
	if err != nil {
		p.println(dimStyle.Render(err.Error()))
		return
	}
	a := p.session.Active()
	switch {
	case !show:
		p.println(dimStyle.Render("Hint hidden."))
	case a.Hint == "":
		p.println(dimStyle.Render("No hint for this one, sorry!"))
	default:
		p.println(ottoStyle.Render("Otto: "+tutor.HintIntro()) + "\n" + hintStyle.Render(a.Hint))
	}
}

func (p *player) toggleSolution() {
	show, err := p.session.ToggleSolution()
	if err != nil {
		p.println(dimStyle.Render(err.Error()))
		return
	}
	a := p.session.Active()
	switch {
	case !show:
		p.println(dimStyle.Render("Solution hidden."))
	case len(a.SolutionSteps) == 0:
		p.println(dimStyle.Render("No solution steps for this one."))
	default:
		p.println(hintStyle.Render(strings.Join(a.SolutionSteps, "\n")))
	}
}

func (p *player) submit(ctx context.Context, input string) {
	p.println(dimStyle.Render("Checking..."))
	res, err := p.session.Submit(ctx, input)
	if err != nil {
		switch {
		case errors.Is(err, client.ErrNoActiveProblem):
			p.println(dimStyle.Render("Type n to get a problem first."))
		case errors.Is(err, client.ErrAlreadySubmitted):
			p.println(dimStyle.Render("You've answered this one. Type n for the next problem."))
		case errors.Is(err, client.ErrInvalidAnswer), errors.Is(err, client.ErrEmptyAnswer):
			p.println(errorStyle.Render("Please type a number, or h, s, n, q."))
		default:
			p.println(errorStyle.Render(describeError("Couldn't submit your answer", err).Error()))
		}
		return
	}

	progress := p.session.Progress()
	if res.IsCorrect {
		p.println(correctStyle.Render("Correct!"))
	} else {
		p.println(wrongStyle.Render("Not quite. The answer is " + generator.FormatNumber(res.CorrectAnswer)))
	}
	p.println(res.FeedbackText)
	p.println(ottoStyle.Render("Otto: " + tutor.Encouragement(res.IsCorrect, progress.Streak)))
	p.println(dimStyle.Render(fmt.Sprintf("Score %d  Streak %d", progress.Score, progress.Streak)))
}

// describeError turns session and API errors into a short learner message.
func describeError(prefix string, err error) error {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrBusy):
		return fmt.Errorf("%s: still working on the last request", prefix)
	case errors.As(err, &apiErr):
		return fmt.Errorf("%s: %s", prefix, apiErr.Message)
	default:
		return fmt.Errorf("%s. Is the server running? (%v)", prefix, err)
	}
}
