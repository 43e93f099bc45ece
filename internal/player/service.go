package player

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	defaultServer         = "http://127.0.0.1:8080"
	defaultHTTPTimeout    = 5 * time.Second
	defaultPersistTimeout = 2 * time.Second
)

type Config struct {
	ServerURL   string
	HTTPTimeout time.Duration
}

// Run drives the interactive quiz player. The loop is cooperative: answer
// checks suspend on the HTTP round trip and the prompt enforces that only
// untried options can be guessed, so no two checks are ever in flight.
func Run(ctx context.Context, in io.Reader, out io.Writer, cfg Config) error {
	serverURL := strings.TrimSpace(cfg.ServerURL)
	if serverURL == "" {
		serverURL = defaultServer
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	client := NewHTTPClient(serverURL, &http.Client{Timeout: timeout})
	reader := bufio.NewReader(in)

	fmt.Fprintf(out, "quizdeck player\nserver=%s\n\n", serverURL)
	printHelp(out)

	for {
		fmt.Fprint(out, "\n> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		args := strings.Fields(line)
		command := strings.ToLower(args[0])

		switch command {
		case "help":
			printHelp(out)
		case "exit":
			return nil
		case "login":
			if err := runLogin(ctx, reader, out, client); err != nil {
				fmt.Fprintf(out, "error: %v\n", describeClientError(err, serverURL))
			}
		case "logout":
			if err := client.Logout(ctx); err != nil {
				fmt.Fprintf(out, "error: %v\n", describeClientError(err, serverURL))
			} else {
				fmt.Fprintln(out, "logged out.")
			}
		case "mine":
			if err := runMyActivities(ctx, out, client); err != nil {
				fmt.Fprintf(out, "error: %v\n", describeClientError(err, serverURL))
			}
		case "results":
			if err := runMyResults(ctx, out, client); err != nil {
				fmt.Fprintf(out, "error: %v\n", describeClientError(err, serverURL))
			}
		case "leaderboard":
			if err := runLeaderboard(ctx, out, client); err != nil {
				fmt.Fprintf(out, "error: %v\n", describeClientError(err, serverURL))
			}
		case "play":
			if len(args) != 2 {
				fmt.Fprintln(out, "usage: play <quiz_id>")
				continue
			}
			quizID, parseErr := strconv.ParseInt(args[1], 10, 64)
			if parseErr != nil {
				fmt.Fprintln(out, "quiz id must be a number")
				continue
			}
			if err := runPlay(ctx, reader, out, client, quizID); err != nil {
				fmt.Fprintf(out, "error: %v\n", describeClientError(err, serverURL))
			}
		default:
			fmt.Fprintln(out, "unknown command. type 'help' for usage.")
		}
	}
}

func runLogin(ctx context.Context, reader *bufio.Reader, out io.Writer, client *HTTPClient) error {
	username, err := promptLine(reader, out, "username: ")
	if err != nil {
		return err
	}
	password, err := promptLine(reader, out, "password: ")
	if err != nil {
		return err
	}

	user, err := client.Login(ctx, username, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "logged in as %s (%s)\n", user.Username, user.Fullname)
	return nil
}

func runMyActivities(ctx context.Context, out io.Writer, client *HTTPClient) error {
	quizzes, err := client.MyActivities(ctx)
	if err != nil {
		return err
	}

	if len(quizzes) == 0 {
		fmt.Fprintln(out, "No quizzes yet.")
		return nil
	}

	fmt.Fprintln(out, "Your quizzes:")
	for _, item := range quizzes {
		visibility := "private"
		if item.IsPublic {
			visibility = "public"
		}
		fmt.Fprintf(out, "%d. %s (%d questions, %s, created %s)\n",
			item.ID,
			item.Title,
			item.QuestionCount,
			visibility,
			item.CreatedAt.Format(time.RFC3339),
		)
	}
	return nil
}

func runMyResults(ctx context.Context, out io.Writer, client *HTTPClient) error {
	results, err := client.MyResults(ctx)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Fprintln(out, "No results yet.")
		return nil
	}

	fmt.Fprintln(out, "Your results:")
	for idx, item := range results {
		fmt.Fprintf(out, "%d. quiz %d total=%ds avg=%ds fastest=%ds slowest=%ds (%s)\n",
			idx+1,
			item.QuizID,
			item.TotalTime,
			item.AvgTime,
			item.FastestTime,
			item.SlowestTime,
			item.CompletedAt.Format(time.RFC3339),
		)
	}
	return nil
}

func runLeaderboard(ctx context.Context, out io.Writer, client *HTTPClient) error {
	entries, err := client.GetLeaderboard(ctx, 10)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No leaderboard entries yet.")
		return nil
	}

	fmt.Fprintln(out, "Leaderboard (best total time):")
	for idx, entry := range entries {
		fmt.Fprintf(out, "%d. %s best=%ds runs=%d\n", idx+1, entry.Username, entry.BestTime, entry.Runs)
	}
	return nil
}

func runPlay(ctx context.Context, reader *bufio.Reader, out io.Writer, client *HTTPClient, quizID int64) error {
	payload, err := client.GetQuiz(ctx, quizID)
	if err != nil {
		return err
	}
	if len(payload.Questions) == 0 {
		fmt.Fprintln(out, "quiz has no questions.")
		return nil
	}

	fmt.Fprintf(out, "\n%s by %s (%d questions)\n", payload.Title, payload.Author, payload.QuestionCount)

	progress := NewProgress(len(payload.Questions), nil)
	for {
		renderQuestion(out, payload, progress)

		input, err := promptLine(reader, out, "answer (A-F), b=back, n=next, q=quit: ")
		if err != nil {
			return err
		}

		switch strings.ToLower(input) {
		case "q":
			fmt.Fprintln(out, "attempt abandoned.")
			return nil
		case "b":
			if !progress.Back() {
				fmt.Fprintln(out, "already on the first question.")
			}
			continue
		case "n":
			if !progress.CanAdvance() {
				fmt.Fprintln(out, "solve this question before moving on.")
				continue
			}
			if progress.Advance() {
				continue
			}
			// Last question solved: the attempt is complete.
			finishPlay(out, client, payload.ID, progress)
			return nil
		}

		option, ok := parseOption(input, len(payload.Questions[progress.Current].Options))
		if !ok {
			fmt.Fprintln(out, "invalid choice.")
			continue
		}

		attempt := progress.CurrentAttempt()
		if attempt.State == Solved {
			fmt.Fprintln(out, "already solved; use n to continue.")
			continue
		}
		if attempt.Tried(option) {
			fmt.Fprintln(out, "that option was already wrong.")
			continue
		}

		outcome, err := client.CheckAnswer(ctx, payload.ID, progress.Current, option)
		if err != nil {
			return err
		}

		progress.Guess(option, outcome)
		if outcome.IsCorrect {
			fmt.Fprintln(out, "Correct!")
			if progress.Current == len(progress.Attempts)-1 && progress.Completed() {
				finishPlay(out, client, payload.ID, progress)
				return nil
			}
		} else {
			fmt.Fprintln(out, "Wrong, try again.")
		}
	}
}

func renderQuestion(out io.Writer, payload QuizPayload, progress *Progress) {
	question := payload.Questions[progress.Current]
	attempt := progress.CurrentAttempt()

	fmt.Fprintf(out, "\n[%d/%d] %s\n", progress.Current+1, len(payload.Questions), question.Question)
	for idx, option := range question.Options {
		letter := string(rune('A' + idx))
		marker := " "
		switch {
		case attempt.State == Solved && idx == attempt.CorrectIndex:
			marker = "*"
		case attempt.Tried(idx):
			marker = "x"
		}
		fmt.Fprintf(out, " %s %s. %s\n", marker, letter, option.Text)
	}
}

// finishPlay prints the stats and submits the result best-effort: a failed
// submission never blocks the results screen.
func finishPlay(out io.Writer, client *HTTPClient, quizID int64, progress *Progress) {
	stats := progress.Stats()
	fmt.Fprintf(out, "\nFinished! total=%ds avg=%ds fastest=%ds slowest=%ds\n",
		stats.TotalTime, stats.AvgTime, stats.FastestTime, stats.SlowestTime)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), defaultPersistTimeout)
		defer cancel()
		_ = client.SaveResult(ctx, quizID, stats)
	}()
}

func parseOption(input string, optionCount int) (int, bool) {
	input = strings.ToUpper(strings.TrimSpace(input))
	if len(input) != 1 {
		return 0, false
	}
	option := int(input[0] - 'A')
	if option < 0 || option >= optionCount {
		return 0, false
	}
	return option, true
}

func promptLine(reader *bufio.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  help")
	fmt.Fprintln(out, "  login")
	fmt.Fprintln(out, "  logout")
	fmt.Fprintln(out, "  mine")
	fmt.Fprintln(out, "  results")
	fmt.Fprintln(out, "  play <quiz_id>")
	fmt.Fprintln(out, "  leaderboard")
	fmt.Fprintln(out, "  exit")
}

func describeClientError(err error, serverURL string) error {
	if errors.Is(err, ErrServiceUnavailable) {
		return fmt.Errorf("quizdeck server unavailable at %s", serverURL)
	}
	return err
}
