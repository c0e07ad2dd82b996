package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/mithrel/peacecards/internal/db"
	"github.com/mithrel/peacecards/internal/editor"
	"github.com/mithrel/peacecards/internal/present"
	"github.com/mithrel/peacecards/pkg/api"
)

func newCardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "card",
		Aliases: []string{"cards"},
		Short:   "Show, find and edit cards",
	}
	cmd.AddCommand(newCardShowCmd())
	cmd.AddCommand(newCardFindCmd())
	cmd.AddCommand(newCardEditCmd())
	return cmd
}

func newCardShowCmd() *cobra.Command {
	var out outputFlags
	var deck string
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Display a formatted card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			opts, err := out.options(app, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			opts.DeckKey = deck
			c, err := loadCard(cmd, args[0])
			if err != nil {
				return err
			}
			return out.render(cmd, opts.Mode, func(w io.Writer) error {
				return present.RenderCard(cmd.Context(), w, c, opts)
			})
		},
	}
	addOutputFlags(cmd, &out)
	cmd.Flags().StringVar(&deck, "deck", "", "detect only this deck's section headers (plus shared ones)")
	_ = cmd.RegisterFlagCompletionFunc("deck", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return completeDeckKeys(cmd, nil, toComplete)
	})
	return cmd
}

func loadCard(cmd *cobra.Command, arg string) (api.Card, error) {
	id, err := api.ParseCardID(arg)
	if err != nil {
		return api.Card{}, fmt.Errorf("%w: %q", err, arg)
	}
	c, err := getApp(cmd).Store.GetCard(cmd.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		return api.Card{}, fmt.Errorf("card %d not found", id)
	}
	if err != nil {
		return api.Card{}, fmt.Errorf("get card: %w", err)
	}
	return c, nil
}

// cardTitles adapts cards to fuzzy.Source.
type cardTitles []api.Card

func (c cardTitles) String(i int) string { return c[i].Title }
func (c cardTitles) Len() int            { return len(c) }

func newCardFindCmd() *cobra.Command {
	var out outputFlags
	var deck string
	var limit int
	cmd := &cobra.Command{
		Use:   "find <query>",
		Short: "Fuzzy-find cards by title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			opts, err := out.options(app, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			keys := []string{deck}
			if deck == "" {
				decks, err := app.Store.ListDecks(cmd.Context())
				if err != nil {
					return fmt.Errorf("list decks: %w", err)
				}
				keys = keys[:0]
				for _, d := range decks {
					keys = append(keys, d.Key)
				}
			}
			var all cardTitles
			for _, k := range keys {
				cards, err := app.Store.ListCards(cmd.Context(), k)
				if err != nil {
					return fmt.Errorf("list cards: %w", err)
				}
				all = append(all, cards...)
			}

			matches := fuzzy.FindFrom(args[0], all)
			if limit > 0 && len(matches) > limit {
				matches = matches[:limit]
			}
			found := make([]api.Card, len(matches))
			for i, m := range matches {
				found[i] = all[m.Index]
			}
			if len(found) == 0 && opts.Mode != present.ModeJSON && opts.Mode != present.ModeYAML {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "no cards match %q\n", args[0])
				return nil
			}
			results := api.Deck{Key: deck, Title: fmt.Sprintf("Cards matching %q", args[0])}
			return out.render(cmd, opts.Mode, func(w io.Writer) error {
				return present.RenderCards(cmd.Context(), w, results, found, opts)
			})
		},
	}
	addOutputFlags(cmd, &out)
	cmd.Flags().StringVar(&deck, "deck", "", "search only this deck")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of matches (0 for all)")
	_ = cmd.RegisterFlagCompletionFunc("deck", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return completeDeckKeys(cmd, nil, toComplete)
	})
	return cmd
}

func newCardEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a card in $EDITOR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			cur, err := loadCard(cmd, args[0])
			if err != nil {
				return err
			}
			path, err := editor.PathForID(cur.ID)
			if err != nil {
				return err
			}
			final, changed, err := editor.OpenAt(cmd.Context(), path, []byte(editor.ComposeCard(cur)))
			if err != nil {
				return fmt.Errorf("editor: %w", err)
			}
			patch := editor.ParseEditedCard(string(final)).Patch(cur)
			if !changed || patch.Empty() {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No changes.")
				return nil
			}
			updated, err := app.Store.UpdateCard(cmd.Context(), cur.ID, patch, cur.Hash())
			if errors.Is(err, db.ErrConflict) {
				return fmt.Errorf("card %d changed while it was being edited; run edit again", cur.ID)
			}
			if err != nil {
				return fmt.Errorf("update card: %w", err)
			}
			app.Log.Printf("card: updated id=%d", updated.ID)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated card %d: %s\n", updated.ID, updated.Title)
			return nil
		},
	}
	return cmd
}
