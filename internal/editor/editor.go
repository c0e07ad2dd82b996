// Package editor round-trips a card through the user's $EDITOR.
package editor

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mithrel/peacecards/pkg/api"
)

const (
	TitlePrefix    = "Title: "
	CategoryPrefix = "Category: "
	PreviewPrefix  = "Preview: "
	separator      = "---"
)

// Edited holds the fields read back from the editor.
type Edited struct {
	Title    string
	Category string
	Preview  string
	Content  string
}

// ComposeCard creates the text presented to the editor.
func ComposeCard(c api.Card) string {
	var b bytes.Buffer
	b.WriteString("# Peacecards card " + strconv.FormatInt(c.ID, 10) + " (" + c.DeckKey + ")\n")
	b.WriteString("# Lines starting with '#' are ignored above the separator.\n")
	b.WriteString("# Edit the header fields. After '---', write the card content.\n")
	b.WriteString(TitlePrefix + c.Title + "\n")
	b.WriteString(CategoryPrefix + c.Category + "\n")
	b.WriteString(PreviewPrefix + c.Preview + "\n")
	b.WriteString(separator + "\n")
	if c.Content != "" {
		content := c.Content
		if !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		b.WriteString(content)
	}
	return b.String()
}

// ParseEditedCard extracts the header fields and content from editor output.
func ParseEditedCard(s string) Edited {
	var (
		e         Edited
		inBody    bool
		bodyLines []string
	)
	for _, line := range strings.Split(s, "\n") {
		if inBody {
			bodyLines = append(bodyLines, line)
			continue
		}
		switch {
		case strings.HasPrefix(strings.TrimSpace(line), "#"):
		case strings.HasPrefix(line, strings.TrimSpace(TitlePrefix)):
			e.Title = strings.TrimSpace(strings.TrimPrefix(line, strings.TrimSpace(TitlePrefix)))
		case strings.HasPrefix(line, strings.TrimSpace(CategoryPrefix)):
			e.Category = strings.TrimSpace(strings.TrimPrefix(line, strings.TrimSpace(CategoryPrefix)))
		case strings.HasPrefix(line, strings.TrimSpace(PreviewPrefix)):
			e.Preview = strings.TrimSpace(strings.TrimPrefix(line, strings.TrimSpace(PreviewPrefix)))
		case strings.TrimSpace(line) == separator:
			inBody = true
		}
	}
	e.Content = strings.TrimSpace(strings.Join(bodyLines, "\n"))
	return e
}

// Patch returns the changes from cur to e. A cleared preview is derived
// from the first line of the content.
func (e Edited) Patch(cur api.Card) api.CardPatch {
	if e.Preview == "" {
		e.Preview = FirstLine(e.Content)
	}
	var p api.CardPatch
	if e.Title != cur.Title {
		p.Title = &e.Title
	}
	if e.Category != cur.Category {
		p.Category = &e.Category
	}
	if e.Preview != cur.Preview {
		p.Preview = &e.Preview
	}
	if e.Content != strings.TrimSpace(cur.Content) {
		p.Content = &e.Content
	}
	return p
}

// PreferredEditor returns $VISUAL, then $EDITOR, then the first common
// editor on PATH.
func PreferredEditor() (string, error) {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v, nil
		}
	}
	for _, cand := range []string{"nvim", "vim", "vi", "nano"} {
		if p, err := exec.LookPath(cand); err == nil {
			return p, nil
		}
	}
	return "", errors.New("no editor found; set $EDITOR or $VISUAL")
}

// PathForID returns the scratch file used while card id is being edited.
func PathForID(id int64) (string, error) {
	name := "card-" + strconv.FormatInt(id, 10) + ".peacecards.md"
	if xdg := os.Getenv("XDG_RUNTIME_DIR"); xdg != "" {
		return filepath.Join(xdg, "peacecards", name), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "peacecards", "edit", name), nil
}

// command runs the editor through sh so values like "code --wait" keep
// their arguments.
func command(ctx context.Context, editor, path string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, "sh", "-c", `$PEACECARDS_EDITOR "$PEACECARDS_FILE"`)
	cmd.Env = append(os.Environ(), "PEACECARDS_EDITOR="+editor, "PEACECARDS_FILE="+path)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	return cmd
}

// OpenAt writes initial to path, waits for the editor to exit and returns
// the edited bytes. The scratch file is removed afterwards.
func OpenAt(ctx context.Context, path string, initial []byte) (final []byte, changed bool, err error) {
	editor, err := PreferredEditor()
	if err != nil {
		return nil, false, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, false, err
	}
	if err := os.WriteFile(path, initial, fs.FileMode(0o600)); err != nil {
		return nil, false, err
	}
	defer os.Remove(path)

	if err := command(ctx, editor, path).Run(); err != nil {
		return nil, false, err
	}
	final, err = os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	return final, !bytes.Equal(final, initial), nil
}

// FirstLine returns the first trimmed line with bold markers removed,
// squashed and truncated.
func FirstLine(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	s = strings.ReplaceAll(s, "**", "")
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > 120 {
		s = string(r[:120])
	}
	return s
}
