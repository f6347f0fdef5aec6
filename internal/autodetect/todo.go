package autodetect

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/phobologic/msgexpect/internal/cop"
	"github.com/phobologic/msgexpect/internal/model"
)

// TodoYAML renders the configuration block suggested by summary, in the
// layout RuboCop uses for generated todo files. offenses is the number of
// offenses reported in the run. A consistent corpus yields an EnforcedStyle;
// a mixed one disables the cop so it can be enabled after migration.
func TodoYAML(summary model.StyleSummary, offenses int) (string, error) {
	body := &yaml.Node{Kind: yaml.MappingNode}
	if summary.Mixed || summary.Suggested == model.StyleUnset {
		body.Content = append(body.Content, scalar("Enabled"), &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: "false"})
	} else {
		body.Content = append(body.Content, scalar("EnforcedStyle"), scalar(string(summary.Suggested)))
	}

	key := scalar(cop.MessageExpectationName)
	key.HeadComment = strings.Join(headComments(summary, offenses), "\n")

	doc := &yaml.Node{
		Kind:    yaml.DocumentNode,
		Content: []*yaml.Node{{Kind: yaml.MappingNode, Content: []*yaml.Node{key, body}}},
	}

	var b strings.Builder
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("encoding todo config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encoding todo config: %w", err)
	}
	return b.String(), nil
}

func headComments(summary model.StyleSummary, offenses int) []string {
	supported := make([]string, len(model.SupportedStyles))
	for i, s := range model.SupportedStyles {
		supported[i] = string(s)
	}

	lines := []string{fmt.Sprintf("# Offense count: %d", offenses)}
	if summary.Mixed {
		lines = append(lines, fmt.Sprintf("# Mixed styles: %s", countsLine(summary)))
	}
	lines = append(lines,
		"# Configuration parameters: EnforcedStyle, SupportedStyles.",
		"# SupportedStyles: "+strings.Join(supported, ", "),
	)
	return lines
}

// countsLine returns e.g. "have_received=3, receive=1".
func countsLine(summary model.StyleSummary) string {
	counts := summary.Observed
	if summary.Configured != model.StyleUnset {
		counts = map[model.Style]int{summary.Configured: summary.Confirmed}
		for s, n := range summary.Violated {
			counts[s] += n
		}
	}
	parts := make([]string, 0, len(model.SupportedStyles))
	for _, s := range model.SupportedStyles {
		parts = append(parts, fmt.Sprintf("%s=%d", s, counts[s]))
	}
	return strings.Join(parts, ", ")
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: v}
}
