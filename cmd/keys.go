package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/zjrosen/modeline/internal/ui/markdown"
)

const keyReference = `# modeline keys

## Normal mode

| Key | Action |
|-----|--------|
| ` + "`h` `j` `k` `l`" + ` | move left, down, up, right (arrows in the full-screen UI) |
| ` + "`i`" + ` | enter insert mode |
| ` + "`:`" + ` | enter command mode |

## Insert mode

| Key | Action |
|-----|--------|
| any printable key | insert at the cursor |
| ` + "`Enter`" + ` | split the line at the cursor |
| ` + "`Backspace`" + ` | delete before the cursor, or join with the line above |
| ` + "`Esc`" + ` | return to normal mode |

## Command mode

| Key | Action |
|-----|--------|
| any key | append to the command line (Esc and Backspace too) |
| ` + "`Enter`" + ` | run the command |

Commands: ` + "`:q`" + ` and ` + "`:quit`" + ` exit. Anything else reports *Unknown command*
and returns to normal mode.

Ctrl+C does not exit; use ` + "`:q`" + `.
`

var keysStyle string

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Show the key reference",
	Long: `Print the key reference for every editor mode.

Examples:
  modeline keys
  modeline keys --style light
  modeline keys --style notty | less`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		style := keysStyle
		width := 80
		fd := os.Stdout.Fd()
		if isatty.IsTerminal(fd) {
			if w, _, err := term.GetSize(int(fd)); err == nil && w > 0 {
				width = w
			}
		} else if style == markdown.StyleAuto {
			style = markdown.StyleNoTTY
		}

		r, err := markdown.New(style, width)
		if err != nil {
			return err
		}
		out, err := r.Render(keyReference)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(keysCmd)
	keysCmd.Flags().StringVar(&keysStyle, "style", markdown.StyleAuto,
		"glamour style: auto, dark, light, ascii, notty or a path to a JSON style")
}
