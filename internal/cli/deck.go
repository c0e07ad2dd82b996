package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/mithrel/peacecards/internal/db"
	"github.com/mithrel/peacecards/internal/present"
	"github.com/mithrel/peacecards/internal/wire"
)

func newDeckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "deck",
		Aliases: []string{"decks"},
		Short:   "Browse decks",
	}
	cmd.AddCommand(newDeckListCmd())
	cmd.AddCommand(newDeckShowCmd())
	return cmd
}

func newDeckListCmd() *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List decks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			opts, err := out.options(app, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			decks, err := app.Store.ListDecks(cmd.Context())
			if err != nil {
				return fmt.Errorf("list decks: %w", err)
			}
			if opts.Mode == present.ModeTUI {
				opts.Mode = present.ModePlain
			}
			return out.render(cmd, opts.Mode, func(w io.Writer) error {
				return present.RenderDecks(w, decks, opts)
			})
		},
	}
	addOutputFlags(cmd, &out)
	return cmd
}

func newDeckShowCmd() *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:               "show <key>",
		Short:             "List the cards of a deck",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDeckKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			opts, err := out.options(app, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			deck, err := app.Store.GetDeck(cmd.Context(), args[0])
			if errors.Is(err, db.ErrNotFound) {
				return fmt.Errorf("deck %q not found", args[0])
			}
			if err != nil {
				return fmt.Errorf("get deck: %w", err)
			}
			cards, err := app.Store.ListCards(cmd.Context(), deck.Key)
			if err != nil {
				return fmt.Errorf("list cards: %w", err)
			}
			return out.render(cmd, opts.Mode, func(w io.Writer) error {
				return present.RenderCards(cmd.Context(), w, deck, cards, opts)
			})
		},
	}
	addOutputFlags(cmd, &out)
	return cmd
}

// completeDeckKeys fuzzy-matches deck keys. Completion runs without the
// root pre-run hook, so it wires its own app.
func completeDeckKeys(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	keys, err := deckKeys(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return matchKeys(toComplete, keys), cobra.ShellCompDirectiveNoFileComp
}

func deckKeys(cmd *cobra.Command) ([]string, error) {
	remote, _ := cmd.Flags().GetString("remote")
	v, err := loadViper(cmd.Context(), configPathFlag(cmd), remote)
	if err != nil {
		return nil, err
	}
	app, err := wire.BuildApp(cmd.Context(), v)
	if err != nil {
		return nil, err
	}
	defer app.Close()
	decks, err := app.Store.ListDecks(cmd.Context())
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(decks))
	for i, d := range decks {
		keys[i] = d.Key
	}
	return keys, nil
}

// matchKeys returns keys ranked by fuzzy score; an empty input keeps all.
func matchKeys(input string, keys []string) []string {
	if input == "" {
		return keys
	}
	matches := fuzzy.Find(input, keys)
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Str
	}
	return out
}

func configPathFlag(cmd *cobra.Command) string {
	p, _ := cmd.Flags().GetString("config")
	return p
}
