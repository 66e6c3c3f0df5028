package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"todo-app/internal/board"
	"todo-app/pkg/client"
)

const shellHelp = `Commands:
  ls                   refresh the list
  filter all|pending|completed
  add <title>          create a todo (prompts for a description)
  toggle <n>           flip item n
  edit <n>             edit item n
  rm <n>               delete item n
  logout               end the session and quit
  quit                 leave the shell`

func commandShell() error {
	sess, check, err := session()
	if err != nil {
		return err
	}
	b := board.New(sess)
	in := bufio.NewScanner(os.Stdin)

	if err := b.Refresh(context.Background()); errors.Is(err, client.ErrUnauthorized) {
		return check(err)
	}
	render(os.Stdout, b)
	fmt.Println(`type "help" for commands`)

	for {
		fmt.Print("todo> ")
		if !in.Scan() {
			fmt.Println()
			return in.Err()
		}
		cmd, arg, _ := strings.Cut(strings.TrimSpace(in.Text()), " ")
		arg = strings.TrimSpace(arg)

		ctx, cancel := requestContext()
		err := runShellCommand(ctx, b, in, cmd, arg)
		cancel()

		switch {
		case errors.Is(err, errQuit):
			return nil
		case errors.Is(err, client.ErrUnauthorized):
			return check(err)
		case err != nil && b.Err == "":
			fmt.Println(err)
		}
		render(os.Stdout, b)
	}
}

var errQuit = errors.New("quit")

func runShellCommand(ctx context.Context, b *board.Board, in *bufio.Scanner, cmd, arg string) error {
	switch cmd {
	case "":
		return nil
	case "help", "?":
		fmt.Println(shellHelp)
		return nil
	case "quit", "exit", "q":
		return errQuit
	case "logout":
		if err := commandLogout(); err != nil {
			return err
		}
		return errQuit
	case "ls", "refresh":
		return b.Refresh(ctx)
	case "filter":
		f, ok := board.ParseFilter(arg)
		if !ok {
			return fmt.Errorf("unknown filter %q", arg)
		}
		return b.SetFilter(ctx, f)
	case "add":
		desc := prompt(in, "Description: ")
		return b.Create(ctx, arg, desc)
	case "toggle", "t":
		id, err := itemID(b, arg)
		if err != nil {
			return err
		}
		return b.Toggle(ctx, id)
	case "edit", "e":
		id, err := itemID(b, arg)
		if err != nil {
			return err
		}
		b.BeginEdit(id)
		if title := prompt(in, fmt.Sprintf("Title [%s]: ", b.Editing.Title)); title != "" {
			b.Editing.Title = title
		}
		if desc := prompt(in, fmt.Sprintf("Description [%s]: ", b.Editing.Description)); desc != "" {
			b.Editing.Description = desc
		}
		if err := b.SaveEdit(ctx); err != nil {
			b.CancelEdit()
			return err
		}
		return nil
	case "rm", "delete":
		id, err := itemID(b, arg)
		if err != nil {
			return err
		}
		return b.Delete(ctx, id)
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func prompt(in *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !in.Scan() {
		return ""
	}
	return strings.TrimSpace(in.Text())
}

// itemID resolves a literal id or a 1-based list position.
func itemID(b *board.Board, arg string) (string, error) {
	if arg != "" && b.Has(arg) {
		return arg, nil
	}
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(b.Todos) {
		return b.Todos[n-1].ID, nil
	}
	return "", fmt.Errorf("no item %q", arg)
}

func render(w io.Writer, b *board.Board) {
	pending, completed := b.Counts()
	fmt.Fprintf(w, "\nFilter: %s | Pending: %d | Completed: %d\n", b.Filter, pending, completed)

	if len(b.Todos) == 0 {
		fmt.Fprintln(w, "  (no todos)")
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tSTATUS\tTITLE\tDESCRIPTION\tID")
		for i, t := range b.Todos {
			mark := "[ ]"
			if t.Status == client.StatusCompleted {
				mark = "[x]"
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, mark, t.Title, t.Description, t.ID)
		}
		_ = tw.Flush()
	}
	if b.Err != "" {
		fmt.Fprintf(w, "! %s\n", b.Err)
	}
}
