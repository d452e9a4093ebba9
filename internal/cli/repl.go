package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// errUsage marks a malformed command line.
var errUsage = errors.New("uso")

// execIface is the command surface dispatch needs. *App satisfies it.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Import(ctx context.Context, path string) error
	Validate(ctx context.Context, path string) error
	Preview(ctx context.Context, path string, n int) error
	Export(ctx context.Context, path string) error
	Template(ctx context.Context, path string) error
	Stats(ctx context.Context) error
	Bin(ctx context.Context) error
	Delete(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error
	Purge(ctx context.Context, id int64) error
	Deliver(ctx context.Context, id int64, date string) error
	Pending(ctx context.Context) error
	flush(ctx context.Context)
}

const (
	helpLoggedOut = "Comandos: login, template, validate, preview, help, exit"
	helpLoggedIn  = "Comandos: import, validate, preview, export, template, stats, bin, delete, restore, purge, deliver, pending, help, exit"
)

// runREPL reads commands from scanner until EOF or exit. Command errors are
// printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("exp%s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		quit, err := dispatch(ctx, a, parts)
		if err != nil {
			printlnFn("Error:", err)
		}
		if quit {
			printlnFn("Hasta luego.")
			return
		}
	}
}

// dispatch runs one command line. quit is true for exit/quit.
func dispatch(ctx context.Context, a execIface, parts []string) (quit bool, err error) {
	cmd, args := parts[0], parts[1:]
	defer func() {
		if !quit {
			a.flush(ctx)
		}
	}()

	switch cmd {
	case "help":
		if a.isLoggedIn() {
			printlnFn(helpLoggedIn)
		} else {
			printlnFn(helpLoggedOut)
		}
		return false, nil

	case "exit", "quit":
		return true, nil

	case "login":
		return false, a.Login(ctx)

	case "import", "validate", "export", "template":
		if len(args) != 1 {
			return false, fmt.Errorf("%w: %s <archivo>", errUsage, cmd)
		}
		switch cmd {
		case "import":
			return false, a.Import(ctx, args[0])
		case "validate":
			return false, a.Validate(ctx, args[0])
		case "export":
			return false, a.Export(ctx, args[0])
		}
		return false, a.Template(ctx, args[0])

	case "preview":
		if len(args) < 1 || len(args) > 2 {
			return false, fmt.Errorf("%w: preview <archivo> [n]", errUsage)
		}
		n := 10
		if len(args) == 2 {
			if n, err = strconv.Atoi(args[1]); err != nil {
				return false, fmt.Errorf("%w: preview <archivo> [n]", errUsage)
			}
		}
		return false, a.Preview(ctx, args[0], n)

	case "stats":
		return false, a.Stats(ctx)

	case "bin":
		return false, a.Bin(ctx)

	case "pending":
		return false, a.Pending(ctx)

	case "delete", "restore", "purge":
		if len(args) != 1 {
			return false, fmt.Errorf("%w: %s <id>", errUsage, cmd)
		}
		id, err := parseID(args[0])
		if err != nil {
			return false, err
		}
		switch cmd {
		case "delete":
			return false, a.Delete(ctx, id)
		case "restore":
			return false, a.Restore(ctx, id)
		}
		return false, a.Purge(ctx, id)

	case "deliver":
		if len(args) < 1 || len(args) > 2 {
			return false, fmt.Errorf("%w: deliver <id> [fecha]", errUsage)
		}
		id, err := parseID(args[0])
		if err != nil {
			return false, err
		}
		date := ""
		if len(args) == 2 {
			date = args[1]
		}
		return false, a.Deliver(ctx, id, date)
	}

	return false, fmt.Errorf("comando desconocido: %s", cmd)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("id inválido: %s", s)
	}
	return id, nil
}
