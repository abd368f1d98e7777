package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/gobricklayer/internal/ui/pretty"
)

// HelpStyles contains Lipgloss styles for command help.
type HelpStyles struct {
	Command lipgloss.Style
	Heading lipgloss.Style
	Name    lipgloss.Style
	Flag    lipgloss.Style
	Dim     lipgloss.Style
}

// NewHelpStyles creates help styles based on color mode.
func NewHelpStyles(colorEnabled bool) *HelpStyles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return &HelpStyles{Command: plain, Heading: plain, Name: plain, Flag: plain, Dim: plain}
	}
	return &HelpStyles{
		Command: lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		Heading: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Name:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Flag:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// HelpFormatter renders styled help and usage for Cobra commands.
type HelpFormatter struct {
	styles *HelpStyles
}

// NewHelpFormatter creates a help formatter for the given color mode.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	return &HelpFormatter{styles: NewHelpStyles(pretty.IsColorEnabled(colorMode, writer))}
}

// ApplyToCommand installs the formatter on cmd; subcommands inherit it.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		_, _ = io.WriteString(command.OutOrStdout(), h.Help(command))
	})
	cmd.SetUsageFunc(func(command *cobra.Command) error {
		_, err := io.WriteString(command.OutOrStderr(), h.Usage(command))
		return err
	})
}

// Help renders the description followed by usage.
func (h *HelpFormatter) Help(cmd *cobra.Command) string {
	var b strings.Builder

	b.WriteString(h.styles.Command.Render(cmd.CommandPath()))
	if cmd.Version != "" {
		b.WriteString(" " + h.styles.Dim.Render(cmd.Version))
	}
	b.WriteString("\n\n")

	desc := cmd.Long
	if desc == "" {
		desc = cmd.Short
	}
	if desc != "" {
		b.WriteString(trimTrailingWhitespaces(desc))
		b.WriteString("\n\n")
	}

	b.WriteString(h.Usage(cmd))
	return b.String()
}

// Usage renders the usage line, subcommands and flags.
func (h *HelpFormatter) Usage(cmd *cobra.Command) string {
	var b strings.Builder

	h.heading(&b, "Usage:")
	if cmd.Runnable() {
		fmt.Fprintf(&b, "  %s\n", h.styles.Command.Render(cmd.UseLine()))
	}
	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(&b, "  %s\n", h.styles.Command.Render(cmd.CommandPath()+" [command]"))
	}

	if len(cmd.Aliases) > 0 {
		b.WriteString("\n")
		h.heading(&b, "Aliases:")
		fmt.Fprintf(&b, "  %s\n", h.styles.Dim.Render(strings.Join(cmd.Aliases, ", ")))
	}

	if cmd.HasExample() {
		b.WriteString("\n")
		h.heading(&b, "Examples:")
		b.WriteString(h.styles.Dim.Render(cmd.Example) + "\n")
	}

	if cmd.HasAvailableSubCommands() {
		b.WriteString("\n")
		h.heading(&b, "Available Commands:")
		for _, sub := range cmd.Commands() {
			if !sub.IsAvailableCommand() && sub.Name() != "help" {
				continue
			}
			fmt.Fprintf(&b, "  %s %s\n", h.styles.Name.Render(rpad(sub.Name(), cmd.NamePadding())), sub.Short)
		}
	}

	if cmd.HasAvailableLocalFlags() {
		b.WriteString("\n")
		h.heading(&b, "Flags:")
		b.WriteString(h.flags(cmd.LocalFlags()))
	}

	if cmd.HasAvailableInheritedFlags() {
		b.WriteString("\n")
		h.heading(&b, "Global Flags:")
		b.WriteString(h.flags(cmd.InheritedFlags()))
	}

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(&b, "\nUse \"%s\" for more information about a command.\n",
			h.styles.Command.Render(cmd.CommandPath()+" [command] --help"))
	}

	return b.String()
}

func (h *HelpFormatter) heading(b *strings.Builder, title string) {
	b.WriteString(h.styles.Heading.Render(title))
	b.WriteString("\n")
}

// flagRow is one rendered flag before column alignment.
type flagRow struct {
	names string
	kind  string
	usage string
}

// flags renders a flag set in two aligned columns. Styling is applied after
// padding so escape sequences do not upset the alignment.
func (h *HelpFormatter) flags(set *pflag.FlagSet) string {
	var rows []flagRow
	width := 0

	set.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		kind, usage := pflag.UnquoteUsage(f)
		row := flagRow{names: "--" + f.Name, kind: kind, usage: usage}
		if f.Shorthand != "" {
			row.names = "-" + f.Shorthand + ", " + row.names
		} else {
			row.names = "    " + row.names
		}
		if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "[]" && f.DefValue != "0" {
			row.usage += fmt.Sprintf(" (default %s)", f.DefValue)
		}
		width = max(width, len(row.names)+1+len(row.kind))
		rows = append(rows, row)
	})

	var b strings.Builder
	for _, row := range rows {
		plain := len(row.names)
		styled := h.styles.Flag.Render(row.names)
		if row.kind != "" {
			plain += 1 + len(row.kind)
			styled += " " + h.styles.Dim.Render(row.kind)
		}
		fmt.Fprintf(&b, "  %s%s   %s\n", styled, strings.Repeat(" ", width-plain), row.usage)
	}
	return b.String()
}

// rpad adds padding to the right of a string.
func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}

// trimTrailingWhitespaces removes trailing whitespace from lines.
func trimTrailingWhitespaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
