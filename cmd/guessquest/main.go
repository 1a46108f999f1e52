package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/guessquest/client-go/internal/api"
	"github.com/guessquest/client-go/internal/auth"
	"github.com/guessquest/client-go/internal/config"
	"github.com/guessquest/client-go/internal/credstore"
	"github.com/guessquest/client-go/internal/game"
	"github.com/guessquest/client-go/internal/history"
	"github.com/guessquest/client-go/internal/model"
	"github.com/guessquest/client-go/internal/prefs"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}
	setLogLevel(cfg.LogLevel)

	store, cleanup, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open credential store")
	}
	defer cleanup()

	client := api.New(cfg.APIBaseURL, cfg.HTTPTimeout(), store)
	gate := auth.NewGate(client, store)
	client.OnUnauthorized(gate.HandleUnauthorized)

	ctx := context.Background()
	if err := gate.LoadFromStorage(ctx); err != nil {
		log.Warn().Err(err).Msg("could not restore previous sign-in")
	}

	preferences := prefs.New(store)
	if err := preferences.Load(ctx); err != nil {
		log.Warn().Err(err).Msg("could not load preferences")
	}

	app := &app{cfg: cfg, client: client, gate: gate, prefs: preferences, in: bufio.NewScanner(os.Stdin)}

	cmd := "play"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "login":
		err = app.login(ctx)
	case "logout":
		gate.Logout(ctx)
		fmt.Println("Signed out.")
	case "play":
		err = app.play(ctx)
	case "history":
		err = app.history(ctx)
	case "leaderboard":
		err = app.leaderboard(ctx)
	default:
		fmt.Fprintf(os.Stderr, "usage: guessquest [login|play|history|leaderboard|logout]\n")
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", cmd).Msg("command failed")
	}
}

type app struct {
	cfg    *config.Config
	client *api.Client
	gate   *auth.Gate
	prefs  *prefs.Prefs
	in     *bufio.Scanner
}

func (a *app) prompt(label string) string {
	fmt.Print(label)
	if !a.in.Scan() {
		return ""
	}
	return strings.TrimSpace(a.in.Text())
}

func (a *app) login(ctx context.Context) error {
	choice := a.prompt("Sign in with (1) name+email or (2) email OTP? [1/2]: ")

	var user *model.User
	var err error
	switch choice {
	case "2":
		email := a.prompt("Email: ")
		if err := a.gate.SendOTP(ctx, email); err != nil {
			return err
		}
		fmt.Println("OTP sent, check your inbox.")
		otp := a.prompt("OTP: ")
		user, err = a.gate.VerifyOTP(ctx, email, otp)
	default:
		name := a.prompt("Name: ")
		email := a.prompt("Email: ")
		user, err = a.gate.LoginManual(ctx, name, email)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Welcome, %s!\n", user.Name)
	return nil
}

func (a *app) play(ctx context.Context) error {
	if !a.gate.IsAuthenticated() {
		fmt.Println("Please run `guessquest login` first.")
		return nil
	}

	opts := []game.Option{game.WithLocales(a.cfg.Locales)}
	if repo := a.openHistory(); repo != nil {
		defer repo.Close()
		opts = append(opts, game.WithRecorder(repo))
	}
	session := game.NewSession(a.client, a.gate, opts...)
	defer session.Reset()

	theme, level, err := a.pickThemeAndLevel(ctx)
	if err != nil {
		return err
	}
	if err := session.Start(ctx, *theme, *level); err != nil {
		return err
	}

	for {
		status := session.Status()
		if status.Terminal() {
			break
		}

		fmt.Printf("\nTime remaining: %ds  Questions asked: %d\n", session.TimeRemaining(), session.QuestionsAsked())
		categories := session.Categories()
		for i, cat := range categories {
			marker := " "
			if cat.Used {
				marker = "x"
			}
			fmt.Printf("  [%s] %d. %s\n", marker, i+1, cat.Name.Resolve(a.cfg.Locales))
		}

		input := a.prompt("Pick a category number, (g)uess, or (q)uit: ")
		switch input {
		case "", "q":
			fmt.Println("Game abandoned.")
			return nil
		case "g":
			a.guess(ctx, session)
			continue
		}

		idx, err := strconv.Atoi(input)
		if err != nil || idx < 1 || idx > len(categories) {
			fmt.Println("Not a valid choice.")
			continue
		}

		if err := a.askCategory(ctx, session, categories[idx-1]); err != nil {
			fmt.Println(err)
		}
	}

	if result := session.Result(); result != nil {
		fmt.Printf("\n%s - %s\n", strings.ToUpper(string(result.Outcome)), result.Message)
	}
	return nil
}

func (a *app) askCategory(ctx context.Context, session *game.Session, cat model.Category) error {
	question, err := session.SelectCategory(ctx, cat.ID)
	if err != nil {
		return err
	}

	fmt.Printf("\n%s\n", question.Text.Resolve(a.cfg.Locales))
	for i, opt := range question.Options {
		fmt.Printf("  %d. %s\n", i+1, opt.Text.Resolve(a.cfg.Locales))
	}

	input := a.prompt("Pick an option: ")
	idx, convErr := strconv.Atoi(input)
	if convErr != nil || idx < 1 || idx > len(question.Options) {
		fmt.Println("Not a valid option; returning to categories.")
		return nil
	}

	yes, err := session.AnswerOption(ctx, question.Options[idx-1])
	if err != nil {
		return err
	}
	if yes {
		fmt.Println("Answer: YES")
	} else {
		fmt.Println("Answer: NO")
	}
	return nil
}

func (a *app) guess(ctx context.Context, session *game.Session) {
	if suggestions, err := session.Suggestions(ctx); err == nil && len(suggestions) > 0 {
		fmt.Printf("Suggestions: %s\n", strings.Join(suggestions, ", "))
	}

	input := a.prompt("Your guess: ")
	if input == "" {
		return
	}

	if _, err := session.VerifyGuess(ctx, input); err != nil {
		fmt.Println(err)
	}
}

func (a *app) pickThemeAndLevel(ctx context.Context) (*model.Theme, *model.Level, error) {
	themes, err := a.client.ListThemes(ctx)
	if err != nil {
		return nil, nil, err
	}
	levels, err := a.client.ListLevels(ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(themes) == 0 || len(levels) == 0 {
		return nil, nil, fmt.Errorf("backend returned no themes or levels")
	}

	fmt.Println("Themes:")
	for i, theme := range themes {
		fmt.Printf("  %d. %s\n", i+1, theme.Name.Resolve(a.cfg.Locales))
	}
	ti, err := strconv.Atoi(a.prompt("Theme: "))
	if err != nil || ti < 1 || ti > len(themes) {
		return nil, nil, fmt.Errorf("invalid theme choice")
	}

	fmt.Println("Levels:")
	for i, level := range levels {
		fmt.Printf("  %d. %s (%d categories, %ds)\n", i+1, level.Name.Resolve(a.cfg.Locales), level.CategoriesCount, level.TimePerAttempt)
	}
	li, err := strconv.Atoi(a.prompt("Level: "))
	if err != nil || li < 1 || li > len(levels) {
		return nil, nil, fmt.Errorf("invalid level choice")
	}

	return &themes[ti-1], &levels[li-1], nil
}

func (a *app) history(ctx context.Context) error {
	repo := a.openHistory()
	if repo == nil {
		return fmt.Errorf("history database unavailable")
	}
	defer repo.Close()

	records, err := repo.Recent(ctx, 20)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No finished games yet.")
		return nil
	}
	for _, rec := range records {
		fmt.Printf("%s  %-5s %s / %s  %d questions in %ds - %s\n",
			rec.FinishedAt.Format("2006-01-02 15:04"), rec.Outcome, rec.Theme, rec.Level,
			rec.QuestionsAsked, rec.DurationSecs, rec.Message)
	}
	return nil
}

func (a *app) leaderboard(ctx context.Context) error {
	entries, err := a.client.Leaderboard(ctx, "")
	if err != nil {
		return err
	}
	for i, entry := range entries {
		rank := entry.Rank
		if rank == 0 {
			rank = i + 1
		}
		fmt.Printf("%2d. %-20s %d\n", rank, entry.Name, entry.Score)
	}
	return nil
}

func (a *app) openHistory() *history.Repository {
	path, err := a.cfg.ResolveHistoryDBPath()
	if err != nil {
		log.Warn().Err(err).Msg("history disabled")
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		log.Warn().Err(err).Msg("history disabled")
		return nil
	}
	repo, err := history.Open(path)
	if err != nil {
		log.Warn().Err(err).Msg("history disabled")
		return nil
	}
	return repo
}

func openStore(cfg *config.Config) (credstore.Store, func(), error) {
	if cfg.RedisURL != "" {
		store, err := credstore.NewRedisStore(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	}

	path, err := cfg.ResolveCredentialsPath()
	if err != nil {
		return nil, nil, err
	}
	store, err := credstore.NewFileStore(path)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {}, nil
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
