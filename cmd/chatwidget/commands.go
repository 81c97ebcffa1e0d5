// ABOUTME: Parses terminal input lines into host commands
// ABOUTME: Slash commands drive the widget, anything else is a chat message

package main

import (
	"fmt"
	"strings"

	shellquote "github.com/kballard/go-shellquote"
)

type commandKind int

const (
	cmdSend commandKind = iota
	cmdOpen
	cmdClose
	cmdToggle
	cmdSave
	cmdStop
	cmdView
	cmdBump
	cmdHelp
	cmdQuit
)

type command struct {
	kind   commandKind
	text   string
	fields map[string]string
}

// parseCommand turns one input line into a command. Blank lines return
// ok false.
func parseCommand(line string) (cmd command, ok bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return command{}, false, nil
	}
	if !strings.HasPrefix(line, "/") {
		return command{kind: cmdSend, text: line}, true, nil
	}

	name, rest, _ := strings.Cut(line, " ")
	switch name {
	case "/open":
		return command{kind: cmdOpen}, true, nil
	case "/close":
		return command{kind: cmdClose}, true, nil
	case "/toggle":
		return command{kind: cmdToggle}, true, nil
	case "/stop":
		return command{kind: cmdStop}, true, nil
	case "/view":
		return command{kind: cmdView}, true, nil
	case "/bump":
		return command{kind: cmdBump}, true, nil
	case "/help":
		return command{kind: cmdHelp}, true, nil
	case "/quit", "/exit", "/q":
		return command{kind: cmdQuit}, true, nil
	case "/save":
		fields, err := parseFields(rest)
		if err != nil {
			return command{}, false, err
		}
		return command{kind: cmdSave, fields: fields}, true, nil
	}
	return command{}, false, fmt.Errorf("unknown command %s (try /help)", name)
}

// parseFields splits shell-quoted name=value words.
func parseFields(s string) (map[string]string, error) {
	words, err := shellquote.Split(s)
	if err != nil {
		return nil, fmt.Errorf("parsing fields: %w", err)
	}
	fields := make(map[string]string, len(words))
	for _, w := range words {
		name, value, ok := strings.Cut(w, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("field %q must be name=value", w)
		}
		fields[name] = value
	}
	return fields, nil
}

func printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  /open                Open the chat panel")
	fmt.Println("  /close               Close the chat panel")
	fmt.Println("  /toggle              Toggle the chat panel")
	fmt.Println("  /save name=value ... Fill the contact form and save it")
	fmt.Println("  /stop                Stop the message in flight")
	fmt.Println("  /view                Show the whole widget")
	fmt.Println("  /bump                Tell other windows to reload config")
	fmt.Println("  /help                Show this help")
	fmt.Println("  /quit                Exit")
	fmt.Println("Anything else is sent as a chat message.")
}
