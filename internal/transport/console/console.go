// Package console is the text-menu front-end. It only collects input and
// renders results; every decision is made by app.JudgeService.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"online-judge/internal/app"
	"online-judge/internal/domain"
)

type Console struct {
	service *app.JudgeService
	in      *bufio.Scanner
	out     io.Writer
}

func New(service *app.JudgeService, in io.Reader, out io.Writer) *Console {
	return &Console{service: service, in: bufio.NewScanner(in), out: out}
}

// Run drives one session: role selection, then the admin or user panel.
// Reaching the end of input ends the session without error.
func (c *Console) Run(ctx context.Context) error {
	c.println("1. Admin Login")
	c.println("2. User Login")
	role, ok := c.readInt("")
	if !ok {
		return nil
	}
	if role == 1 {
		return c.adminPanel(ctx)
	}
	return c.userPanel(ctx)
}

func (c *Console) adminPanel(ctx context.Context) error {
	secret, ok := c.readLine("Enter Admin Password: ")
	if !ok {
		return nil
	}
	if err := c.service.CheckAdmin(secret); err != nil {
		c.println("❌ Wrong Password")
		return nil
	}

	for ctx.Err() == nil {
		c.println("\n=== ADMIN PANEL ===")
		c.println("1. Add Problem")
		c.println("2. View Problems")
		c.println("0. Exit")
		choice, ok := c.readInt("")
		if !ok {
			return nil
		}
		switch choice {
		case 1:
			if !c.addProblem(ctx, secret) {
				return nil
			}
		case 2:
			c.viewProblems()
		case 0:
			return nil
		}
	}
	return ctx.Err()
}

func (c *Console) userPanel(ctx context.Context) error {
	name, ok := c.readLine("Enter Username: ")
	if !ok {
		return nil
	}
	user := c.service.Login(ctx, name)
	defer c.service.Logout(context.WithoutCancel(ctx), user.ID)

	for ctx.Err() == nil {
		c.println("\n=== USER PANEL ===")
		c.println("1. View Problems")
		c.println("2. Submit Solution")
		c.println("3. Submission History")
		c.println("4. Leaderboard")
		c.println("0. Exit")
		choice, ok := c.readInt("")
		if !ok {
			return nil
		}
		switch choice {
		case 1:
			c.viewProblems()
		case 2:
			if !c.submit(ctx, user.ID) {
				return nil
			}
		case 3:
			c.showHistory(user.ID)
		case 4:
			c.showLeaderboard()
		case 0:
			return nil
		}
	}
	return ctx.Err()
}

func (c *Console) addProblem(ctx context.Context, secret string) bool {
	var fields domain.NewProblem
	prompts := []struct {
		label string
		dst   *string
	}{
		{"Enter Title: ", &fields.Title},
		{"Enter Description: ", &fields.Description},
		{"Enter Difficulty (Easy/Medium/Hard): ", &fields.Difficulty},
		{"Enter inputs (comma separated): ", &fields.Inputs},
		{"Enter expected output: ", &fields.ExpectedOutput},
	}
	for _, p := range prompts {
		v, ok := c.readLine(p.label)
		if !ok {
			return false
		}
		*p.dst = v
	}

	if _, err := c.service.AddProblem(ctx, secret, fields); err != nil {
		c.println("Error: " + err.Error())
		return true
	}
	c.println("✅ Problem Added!")
	return true
}

func (c *Console) viewProblems() {
	c.println("\nAvailable Problems:")
	for _, p := range c.service.ListProblems() {
		c.printf("%d. %s [%s]\n", p.Number, p.Title, p.Difficulty)
	}
}

func (c *Console) submit(ctx context.Context, userID string) bool {
	c.viewProblems()
	number, ok := c.readInt("Select problem: ")
	if !ok {
		return false
	}
	p, err := c.service.Problem(number)
	if err != nil {
		c.println("Invalid selection!")
		return true
	}
	c.println("Problem: " + p.Title)
	c.println(p.Description)

	answer, ok := c.readLine("Enter your output: ")
	if !ok {
		return false
	}
	res, err := c.service.Submit(ctx, userID, number, answer)
	switch {
	case errors.Is(err, domain.ErrInvalidSelection):
		c.println("Invalid selection!")
	case err != nil:
		c.println("Error: " + err.Error())
	case res.Outcome.Passed:
		c.printf("✅ Passed! +%d points\n", res.Outcome.Points)
	default:
		c.printf("❌ Failed! %d penalty\n", res.Outcome.Points)
	}
	return true
}

func (c *Console) showHistory(userID string) {
	history, err := c.service.History(userID)
	if err != nil {
		c.println("Error: " + err.Error())
		return
	}
	if len(history) == 0 {
		c.println("No submissions yet.")
		return
	}
	c.println("\nSubmission History:")
	for _, h := range history {
		c.println(h.String())
	}
}

func (c *Console) showLeaderboard() {
	c.println("\n🏆 Leaderboard:")
	for _, e := range c.service.Leaderboard().Entries {
		c.printf("%s | Score: %d | Penalties: %d\n", e.Username, e.Score, e.Penalties)
	}
}

// readInt prompts until an integer is entered or input ends.
func (c *Console) readInt(prompt string) (int, bool) {
	for {
		line, ok := c.readLine(prompt)
		if !ok {
			return 0, false
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil {
			return n, true
		}
		c.println("Please enter a number.")
	}
}

func (c *Console) readLine(prompt string) (string, bool) {
	if prompt != "" {
		fmt.Fprint(c.out, prompt)
	}
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimRight(c.in.Text(), "\r"), true
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
