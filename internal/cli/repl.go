package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn and printfFn are test seams for user-facing output. In tests,
// replace them with stubs.
var (
	printlnFn = fmt.Println
	printfFn  = fmt.Printf
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a
// lightweight stub.
type execIface interface {
	hasProject() bool
	Open(ctx context.Context, name string) error
	Pins(ctx context.Context) error
	AddPin(ctx context.Context) error
	Board(ctx context.Context) error
	Summary(ctx context.Context) error
	Chat(ctx context.Context, pin string) error
	Say(ctx context.Context, pin string) error
	Photo(ctx context.Context, pin, path string) error
	DelChat(ctx context.Context, pin string) error
	DelFind(ctx context.Context, finding string) error
	Stats(ctx context.Context) error
	Migrate(ctx context.Context) error
	Export(ctx context.Context) error
	Status(ctx context.Context) error
}

// projectCommands are the commands that need an open project.
var projectCommands = map[string]bool{
	"pins": true, "addpin": true, "board": true, "summary": true,
	"chat": true, "say": true, "photo": true, "delchat": true,
	"delfind": true, "stats": true, "migrate": true, "export": true,
}

// runREPL starts a simple read–eval–print loop for the FacadeKeeper CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Always:
//	  - help                — show available commands
//	  - open <project>      — open (or create) a project
//	  - status              — show backend and project status
//	  - exit | quit         — leave the program
//
//	With a project open:
//	  - pins                — list the project's pins
//	  - addpin              — place a pin (interactive)
//	  - board               — findings grouped by status
//	  - summary             — material/defect counts
//	  - chat <pin>          — show a pin's chat
//	  - say <pin>           — send a text message (interactive)
//	  - photo <pin> <path>  — attach a photo
//	  - delchat <pin>       — delete a pin's chat history
//	  - delfind <id>        — delete a finding from the board
//	  - stats               — project counters
//	  - migrate             — run legacy data migrations
//	  - export              — write a dated project snapshot
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("fk> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		if projectCommands[cmd] && !a.hasProject() {
			printlnFn("No project open. Use: open <project>")
			continue
		}

		var err error
		switch cmd {
		case "help":
			if a.hasProject() {
				printlnFn("Available commands: pins, addpin, board, summary, chat, say, photo, delchat, delfind, stats, migrate, export, status, open, exit")
			} else {
				printlnFn("Available commands: open <project>, status, exit")
			}

		case "open":
			if len(args) == 0 {
				printlnFn("Usage: open <project>")
				continue
			}
			err = a.Open(ctx, args[0])

		case "pins":
			err = a.Pins(ctx)

		case "addpin":
			err = a.AddPin(ctx)

		case "board":
			err = a.Board(ctx)

		case "summary":
			err = a.Summary(ctx)

		case "chat":
			if len(args) == 0 {
				printlnFn("Usage: chat <pin>")
				continue
			}
			err = a.Chat(ctx, args[0])

		case "say":
			if len(args) == 0 {
				printlnFn("Usage: say <pin>")
				continue
			}
			err = a.Say(ctx, args[0])

		case "photo":
			if len(args) < 2 {
				printlnFn("Usage: photo <pin> <path>")
				continue
			}
			err = a.Photo(ctx, args[0], args[1])

		case "delchat":
			if len(args) == 0 {
				printlnFn("Usage: delchat <pin>")
				continue
			}
			err = a.DelChat(ctx, args[0])

		case "delfind":
			if len(args) == 0 {
				printlnFn("Usage: delfind <finding>")
				continue
			}
			err = a.DelFind(ctx, args[0])

		case "stats":
			err = a.Stats(ctx)

		case "migrate":
			err = a.Migrate(ctx)

		case "export":
			err = a.Export(ctx)

		case "status":
			err = a.Status(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}
