// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// PasswordReader asks for a secret without exposing it on the command line.
type PasswordReader interface {
	ReadPassword(prompt string) (string, error)
}

// inputReader reads secrets from in. A terminal gets a prompt on out and no
// echo; anything else is read one line per secret, so passwords can be
// piped in by scripts.
type inputReader struct {
	in    io.Reader
	lines *bufio.Reader
	out   io.Writer
}

func NewPasswordReader(in io.Reader, out io.Writer) PasswordReader {
	return &inputReader{in: in, lines: bufio.NewReader(in), out: out}
}

func (r *inputReader) ReadPassword(prompt string) (string, error) {
	if f, ok := r.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(r.out, prompt)
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(r.out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(secret), nil
	}

	line, err := r.lines.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read password from stdin: %w", err)
	}

	return strings.TrimRight(line, "\r\n"), nil
}
