package config

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/gobricklayer/pkg/bricklayer"
	"github.com/yaklabco/gobricklayer/pkg/dialect"
	"github.com/yaklabco/gobricklayer/pkg/fsutil"
)

// Template formats.
const (
	TemplateYAML = "yaml"
	TemplateTOML = "toml"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every key with its default value. Otherwise only the
	// process settings are active and the rest are commented out.
	Full bool

	// Format is the output format: "yaml" or "toml".
	Format string
}

// templateKey documents one configuration key.
type templateKey struct {
	name    string
	doc     string
	value   string // rendered literal, identical in YAML and TOML
	minimal bool   // active in the minimal template
	example bool   // value is illustrative; always commented out
}

// templateKeys lists top-level keys in the order they appear in a template.
func templateKeys() []templateKey {
	defaults := bricklayer.DefaultOptions()
	return []templateKey{
		{
			name:    "layer_height",
			doc:     "Nominal layer height in millimetres; must match the slicer profile.",
			value:   formatFloat(defaults.LayerHeight),
			minimal: true,
		},
		{
			name:    "extrusion_multiplier",
			doc:     "Extrusion scale for shifted inner-wall segments.",
			value:   formatFloat(defaults.ExtrusionMultiplier),
			minimal: true,
		},
		{
			name:  "first_layer_multiplier",
			doc:   "Extrusion scale for shifted segments on the first layer.",
			value: formatFloat(defaults.FirstLayerMultiplier),
		},
		{
			name:  "last_layer_multiplier",
			doc:   "Extrusion scale for shifted segments on the last layer.",
			value: formatFloat(defaults.LastLayerMultiplier),
		},
		{
			name:  "shift_policy",
			doc:   "How far shifted segments are lifted: half-layer or full-layer.",
			value: strconv.Quote(string(defaults.Shift)),
		},
		{
			name:  "parity_policy",
			doc:   "Which segments are shifted: segment (odd segments) or segment-plus-layer.",
			value: strconv.Quote(string(defaults.Parity)),
		},
		{
			name:  "extrusion_policy",
			doc:   "Multiplier selection: first-last-override or flat.",
			value: strconv.Quote(string(defaults.Extrusion)),
		},
		{
			name:  "object_end_policy",
			doc:   "Whether an end-of-object marker closes an inner wall: close-region or ignore.",
			value: strconv.Quote(string(defaults.ObjectEnd)),
		},
		{
			name:  "travel_policy",
			doc:   "Which moves end a segment: feed-rate (planar moves with F and no E) or planar (any planar move without E).",
			value: strconv.Quote(string(defaults.Travel)),
		},
		{
			name:  "restore_z",
			doc:   "Return to the layer height when an inner wall ends while lifted.",
			value: strconv.FormatBool(defaults.RestoreZ),
		},
		{
			name:    "dialect",
			doc:     "Slicer marker set: " + dialectNames() + ".",
			value:   strconv.Quote(string(dialect.Auto)),
			minimal: true,
		},
		{
			name:  "extensions",
			doc:   "File extensions picked up when walking directories.",
			value: `[".gcode", ".gco", ".g"]`,
		},
		{
			name:    "ignore",
			doc:     "Glob patterns for files and directories to skip.",
			value:   `["**/archive/**"]`,
			example: true,
		},
		{
			name:    "log_file",
			doc:     "Timestamped diagnostic log written alongside normal output.",
			value:   `"gobricklayer.log"`,
			example: true,
		},
	}
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	format := opts.Format
	if format == "" {
		format = TemplateYAML
	}
	if format != TemplateYAML && format != TemplateTOML {
		return nil, fmt.Errorf("unsupported template format %q: must be yaml or toml", format)
	}

	var buf bytes.Buffer
	buf.WriteString("# gobricklayer configuration\n")
	buf.WriteString("# See: https://github.com/yaklabco/gobricklayer\n")

	for _, key := range templateKeys() {
		buf.WriteString("\n")
		writeComment(&buf, key.doc)

		prefix := ""
		if key.example || (!opts.Full && !key.minimal) {
			prefix = "# "
		}
		if format == TemplateYAML {
			fmt.Fprintf(&buf, "%s%s: %s\n", prefix, key.name, key.value)
		} else {
			fmt.Fprintf(&buf, "%s%s = %s\n", prefix, key.name, key.value)
		}
	}

	buf.WriteString("\n")
	writeComment(&buf, "Sidecar copy of each file taken before it is first rewritten.")
	prefix := ""
	if !opts.Full {
		prefix = "# "
	}
	if format == TemplateYAML {
		fmt.Fprintf(&buf, "%sbackups:\n%s  enabled: true\n%s  suffix: %q\n", prefix, prefix, prefix, fsutil.BackupSuffix)
	} else {
		fmt.Fprintf(&buf, "%s[backups]\n%senabled = true\n%ssuffix = %q\n", prefix, prefix, prefix, fsutil.BackupSuffix)
	}

	return buf.Bytes(), nil
}

// writeComment writes doc as wrapped comment lines.
func writeComment(buf *bytes.Buffer, doc string) {
	const wrap = 70

	line := "#"
	for _, word := range strings.Fields(doc) {
		if len(line)+1+len(word) > wrap && line != "#" {
			buf.WriteString(line + "\n")
			line = "#"
		}
		line += " " + word
	}
	buf.WriteString(line + "\n")
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func dialectNames() string {
	names := make([]string, 0, len(dialect.All())+1)
	names = append(names, string(dialect.Auto))
	for _, d := range dialect.All() {
		names = append(names, string(d))
	}
	return strings.Join(names, ", ")
}
