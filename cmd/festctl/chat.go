package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/couchcryptid/festival-guide/internal/domain"
	"github.com/spf13/cobra"
)

func newChatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Ask the festival assistant; type exit or send EOF to quit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := runChat(cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			a.logger.Debug("chat finished", "messages", len(t.Messages()))
			return nil
		},
	}
}

func runChat(in io.Reader, out io.Writer) (*domain.Transcript, error) {
	t := domain.NewTranscript()
	fmt.Fprintf(out, "assistant: %s\n", domain.Greeting)

	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			break
		}
		prompt := strings.TrimSpace(sc.Text())
		if prompt == "" {
			continue
		}
		if prompt == "exit" || prompt == "quit" {
			break
		}
		fmt.Fprintf(out, "assistant: %s\n", t.Ask(prompt).Text)
	}
	fmt.Fprintln(out)
	return t, sc.Err()
}
