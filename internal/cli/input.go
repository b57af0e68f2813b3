package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"

	"github.com/dmitrijs2005/dsalog/internal/server/validate"
)

// readPassword and isTerminal are test seams for golang.org/x/term.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

var errPasswordMismatch = errors.New("passwords do not match")

// readNewPassword reads a password that satisfies the strength policy.
// On a terminal it prompts twice without echo; otherwise it reads one line
// from the input so the command can be scripted.
func (a *App) readNewPassword() (string, error) {
	var password string

	if isTerminal(a.fd) {
		first, err := a.prompt("Password: ")
		if err != nil {
			return "", err
		}
		second, err := a.prompt("Confirm password: ")
		if err != nil {
			return "", err
		}
		if first != second {
			return "", errPasswordMismatch
		}
		password = first
	} else {
		line, err := a.in.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return "", fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	if err := validate.Password("password", password); err != nil {
		return "", err
	}
	return password, nil
}

func (a *App) prompt(label string) (string, error) {
	if _, err := fmt.Fprint(a.out, label); err != nil {
		return "", err
	}
	pw, err := readPassword(a.fd)
	fmt.Fprintln(a.out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	defer wipe(pw)
	return string(pw), nil
}

// wipe zeroes b so the terminal buffer does not outlive the prompt.
func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
