package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"todo-app/internal/board"
	"todo-app/pkg/client"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "register":
		err = commandRegister(args)
	case "login":
		err = commandLogin(args)
	case "logout":
		err = commandLogout()
	case "list", "ls":
		err = commandList(args)
	case "add":
		err = commandAdd(args)
	case "edit":
		err = commandEdit(args)
	case "toggle":
		err = commandToggle(args)
	case "rm", "delete":
		err = commandDelete(args)
	case "stats":
		err = commandStats()
	case "shell":
		err = commandShell()
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Usage: todo <command> [flags]

Commands:
  register -email E [-password P] [-api URL]   create an account and log in
  login    -email E [-password P] [-api URL]   start a session
  logout                                       end the session
  list     [-status all|pending|completed]     list todos
  add      -title T [-description D]           create a todo
  edit     <id> [-title T] [-description D]    change a todo
  toggle   <id>                                flip Pending/Completed
  rm       <id>                                delete a todo
  stats                                        show counts
  shell                                        interactive board`)
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 15*time.Second)
}

func readCredentials(name string, args []string) (email, password string, cfg cliConfig, err error) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	emailFlag := fs.String("email", "", "Email address")
	passwordFlag := fs.String("password", "", "Password (supply to avoid prompt)")
	apiBase := fs.String("api", "", "API base URL (default http://localhost:8080)")
	_ = fs.Parse(args)

	if strings.TrimSpace(*emailFlag) == "" {
		return "", "", cfg, errors.New("-email is required")
	}
	password = *passwordFlag
	if password == "" {
		fmt.Print("Password: ")
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Print("\n")
		if err != nil {
			return "", "", cfg, fmt.Errorf("read password: %w", err)
		}
		password = string(b)
	}

	cfg, _ = loadConfig()
	if strings.TrimSpace(*apiBase) != "" {
		cfg.APIBaseURL = *apiBase
	}
	return *emailFlag, password, cfg, nil
}

func commandRegister(args []string) error {
	email, password, cfg, err := readCredentials("register", args)
	if err != nil {
		return err
	}
	c, err := client.New(cfg.APIBaseURL)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext()
	defer cancel()
	if err := c.Register(ctx, email, password); err != nil {
		return errors.New(messageOr(err, "Registration failed"))
	}
	return startSession(ctx, c, cfg, email, password)
}

func commandLogin(args []string) error {
	email, password, cfg, err := readCredentials("login", args)
	if err != nil {
		return err
	}
	c, err := client.New(cfg.APIBaseURL)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext()
	defer cancel()
	return startSession(ctx, c, cfg, email, password)
}

func startSession(ctx context.Context, c *client.Client, cfg cliConfig, email, password string) error {
	sess, err := c.Login(ctx, email, password)
	if err != nil {
		return errors.New(messageOr(err, "Login failed"))
	}
	cfg.APIBaseURL = c.BaseURL()
	cfg.Token = sess.Token()
	if err := saveConfig(cfg); err != nil {
		return err
	}
	fmt.Println("login successful")
	return nil
}

func commandLogout() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Token == "" {
		fmt.Println("not logged in")
		return nil
	}
	if c, err := client.New(cfg.APIBaseURL); err == nil {
		c.Resume(cfg.Token).Logout()
	}
	cfg.Token = ""
	if err := saveConfig(cfg); err != nil {
		return err
	}
	fmt.Println("logged out")
	return nil
}

// session resumes the stored session. The stored token is cleared once the
// server rejects it.
func session() (*client.Session, func(error) error, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if cfg.Token == "" {
		return nil, nil, errors.New("not logged in; run `todo login` first")
	}
	c, err := client.New(cfg.APIBaseURL)
	if err != nil {
		return nil, nil, err
	}
	check := func(err error) error {
		if errors.Is(err, client.ErrUnauthorized) {
			cfg.Token = ""
			_ = saveConfig(cfg)
			return errors.New("session expired; run `todo login` again")
		}
		return err
	}
	return c.Resume(cfg.Token), check, nil
}

func commandList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	status := fs.String("status", "all", "all|pending|completed")
	_ = fs.Parse(args)
	filter, ok := board.ParseFilter(*status)
	if !ok {
		return fmt.Errorf("unknown status %q", *status)
	}

	sess, check, err := session()
	if err != nil {
		return err
	}
	ctx, cancel := requestContext()
	defer cancel()

	b := board.New(sess)
	if err := b.SetFilter(ctx, filter); err != nil {
		return check(boardError(b, err))
	}
	render(os.Stdout, b)
	return nil
}

func commandAdd(args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	title := fs.String("title", "", "Title (required)")
	description := fs.String("description", "", "Description")
	_ = fs.Parse(args)
	if strings.TrimSpace(*title) == "" && fs.NArg() > 0 {
		*title = strings.Join(fs.Args(), " ")
	}
	if strings.TrimSpace(*title) == "" {
		return errors.New("-title is required")
	}

	sess, check, err := session()
	if err != nil {
		return err
	}
	ctx, cancel := requestContext()
	defer cancel()
	todo, err := sess.CreateTodo(ctx, *title, *description)
	if err != nil {
		return check(actionError(err, board.MsgCreateFailed))
	}
	fmt.Printf("created %s\n", todo.ID)
	return nil
}

func commandEdit(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: todo edit <id> [-title T] [-description D]")
	}
	id := args[0]
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	title := fs.String("title", "", "New title")
	description := fs.String("description", "", "New description")
	_ = fs.Parse(args[1:])

	var upd client.TodoUpdate
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			upd.Title = title
		case "description":
			upd.Description = description
		}
	})
	if upd.Title == nil && upd.Description == nil {
		return errors.New("nothing to change")
	}
	return applyUpdate(id, upd)
}

func commandToggle(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: todo toggle <id>")
	}
	sess, check, err := session()
	if err != nil {
		return err
	}
	ctx, cancel := requestContext()
	defer cancel()

	b := board.New(sess)
	if err := b.Refresh(ctx); err != nil {
		return check(boardError(b, err))
	}
	if !b.Has(args[0]) {
		return fmt.Errorf("no todo with id %s", args[0])
	}
	if err := b.Toggle(ctx, args[0]); err != nil {
		return check(boardError(b, err))
	}
	fmt.Println("toggled")
	return nil
}

func applyUpdate(id string, upd client.TodoUpdate) error {
	sess, check, err := session()
	if err != nil {
		return err
	}
	ctx, cancel := requestContext()
	defer cancel()
	todo, err := sess.UpdateTodo(ctx, id, upd)
	if err != nil {
		return check(actionError(err, board.MsgUpdateFailed))
	}
	if todo == nil {
		return fmt.Errorf("no todo with id %s", id)
	}
	fmt.Printf("updated %s\n", todo.ID)
	return nil
}

func commandDelete(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: todo rm <id>")
	}
	sess, check, err := session()
	if err != nil {
		return err
	}
	ctx, cancel := requestContext()
	defer cancel()
	if err := sess.DeleteTodo(ctx, args[0]); err != nil {
		return check(actionError(err, board.MsgDeleteFailed))
	}
	fmt.Println("deleted")
	return nil
}

func commandStats() error {
	sess, check, err := session()
	if err != nil {
		return err
	}
	ctx, cancel := requestContext()
	defer cancel()
	st, err := sess.Stats(ctx)
	if err != nil {
		return check(err)
	}
	fmt.Printf("Pending: %d | Completed: %d | Total: %d\n", st.Pending, st.Completed, st.Total)
	return nil
}

// messageOr prefers the server's error message and falls back to a fixed one.
func messageOr(err error, fallback string) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" && apiErr.Status < 500 {
		return apiErr.Message
	}
	return fallback
}

func actionError(err error, fallback string) error {
	return fmt.Errorf("%s: %w", messageOr(err, fallback), err)
}

func boardError(b *board.Board, err error) error {
	return fmt.Errorf("%s: %w", b.Err, err)
}
